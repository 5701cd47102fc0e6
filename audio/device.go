package audio

// OutputDevice is the OS audio-output collaborator: open, start, stop,
// close a stereo int16 stream at a fixed sample rate. Audio only depends on
// this interface; PortaudioDevice is the concrete binding.
type OutputDevice interface {
	// Open prepares the stream at the given sample rate and channel count;
	// pull is invoked on the device's own realtime thread whenever it needs
	// more samples, and must return immediately with whatever is ready.
	Open(sampleRate, channels int, pull PullFunc) error
	Start() error
	Stop() error
	Close() error
}

// PullFunc fills dst with up to len(dst) interleaved samples and returns how
// many frames were written.
type PullFunc func(dst []int16) (framesWritten int)

// NullOutputDevice discards Start/Stop and never calls pull; used in tests
// and headless configurations.
type NullOutputDevice struct{}

func (NullOutputDevice) Open(int, int, PullFunc) error { return nil }
func (NullOutputDevice) Start() error { return nil }
func (NullOutputDevice) Stop() error { return nil }
func (NullOutputDevice) Close() error { return nil }
