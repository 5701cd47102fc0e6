package audio

import (
	"testing"

	"pgregory.net/rapid"
)

// Writes totaling at most the capacity must read back as their exact
// concatenation, and writes beyond capacity must leave exactly the most
// recent capacity samples, in order.
func TestRingBufferKeepsMostRecentSamples(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 512).Draw(t, "capacity")
		rb := NewRingBuffer(capacity)

		var written []int16
		numWrites := rapid.IntRange(1, 20).Draw(t, "numWrites")
		for i := 0; i < numWrites; i++ {
			batch := rapid.SliceOfN(rapid.Int16(), 0, 256).Draw(t, "batch")
			rb.Write(batch)
			written = append(written, batch...)
		}

		expected := written
		if len(expected) > capacity {
			expected = expected[len(expected)-capacity:]
		}

		dst := make([]int16, capacity)
		n := rb.Read(dst)
		if n != len(expected) {
			t.Fatalf("read %d samples, want %d", n, len(expected))
		}
		for i, want := range expected {
			if dst[i] != want {
				t.Fatalf("sample %d: got %d, want %d", i, dst[i], want)
			}
		}
	})
}

// Interleaving reads with writes must never reorder or duplicate samples:
// the concatenation of everything read equals a suffix-free prefix walk of
// everything written, minus any dropped-oldest stretches.
func TestRingBufferReadsNeverReorder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(2, 128).Draw(t, "capacity")
		rb := NewRingBuffer(capacity)

		// Monotonically increasing samples make order violations visible as
		// any non-increasing adjacent pair in the read stream.
		var next int16
		var lastRead int16 = -1
		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(t, "doWrite") {
				n := rapid.IntRange(1, capacity).Draw(t, "writeLen")
				batch := make([]int16, n)
				for j := range batch {
					batch[j] = next
					next++
				}
				rb.Write(batch)
			} else {
				dst := make([]int16, rapid.IntRange(1, capacity).Draw(t, "readLen"))
				got := rb.Read(dst)
				for _, v := range dst[:got] {
					if v <= lastRead {
						t.Fatalf("out-of-order read: %d after %d", v, lastRead)
					}
					lastRead = v
				}
			}
		}
	})
}
