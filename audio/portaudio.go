package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// PortaudioDevice is the concrete OutputDevice backend: an output-only
// stereo int16 portaudio stream driven by OutputDevice's pull callback.
type PortaudioDevice struct {
	lowLatency bool

	stream *portaudio.Stream
	pull   PullFunc
}

// NewPortaudioDevice constructs an unopened device. lowLatency selects
// portaudio.LowLatencyParameters over HighLatencyParameters at Open time,
// mirroring Config.LowLatency.
func NewPortaudioDevice(lowLatency bool) *PortaudioDevice {
	return &PortaudioDevice{lowLatency: lowLatency}
}

// Open initializes portaudio and opens (but does not start) an
// output-only stereo int16 stream at sampleRate. pull is invoked on
// portaudio's own realtime callback thread.
func (d *PortaudioDevice) Open(sampleRate, channels int, pull PullFunc) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: portaudio init: %w", err)
	}
	d.pull = pull

	host, err := portaudio.DefaultHostApi()
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: portaudio host api: %w", err)
	}

	var params portaudio.StreamParameters
	if d.lowLatency {
		params = portaudio.LowLatencyParameters(nil, host.DefaultOutputDevice)
	} else {
		params = portaudio.HighLatencyParameters(nil, host.DefaultOutputDevice)
	}
	params.Output.Channels = channels
	params.SampleRate = float64(sampleRate)

	stream, err := portaudio.OpenStream(params, d.callback)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: portaudio open stream: %w", err)
	}
	d.stream = stream
	return nil
}

// callback fills out with whatever Audio.OnReady has ready; portaudio
// reuses the backing array across invocations so no copy is needed beyond
// what OnReady already writes in place.
func (d *PortaudioDevice) callback(out []int16) {
	d.pull(out)
}

func (d *PortaudioDevice) Start() error {
	if d.stream == nil {
		return fmt.Errorf("audio: portaudio stream not open")
	}
	return d.stream.Start()
}

func (d *PortaudioDevice) Stop() error {
	if d.stream == nil {
		return nil
	}
	return d.stream.Stop()
}

func (d *PortaudioDevice) Close() error {
	if d.stream == nil {
		return nil
	}
	err := d.stream.Close()
	portaudio.Terminate()
	d.stream = nil
	return err
}
