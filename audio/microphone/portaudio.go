package microphone

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// PortaudioDevice is the concrete InputDevice backend: it captures mono
// int16 samples and forwards each portaudio callback batch to push.
type PortaudioDevice struct {
	lowLatency bool

	stream *portaudio.Stream
	push   PushFunc
}

func NewPortaudioDevice(lowLatency bool) *PortaudioDevice {
	return &PortaudioDevice{lowLatency: lowLatency}
}

func (d *PortaudioDevice) Open(sampleRate int, push PushFunc) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("microphone: portaudio init: %w", err)
	}
	d.push = push

	host, err := portaudio.DefaultHostApi()
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("microphone: portaudio host api: %w", err)
	}

	var params portaudio.StreamParameters
	if d.lowLatency {
		params = portaudio.LowLatencyParameters(host.DefaultInputDevice, nil)
	} else {
		params = portaudio.HighLatencyParameters(host.DefaultInputDevice, nil)
	}
	params.Input.Channels = 1
	params.SampleRate = float64(sampleRate)

	stream, err := portaudio.OpenStream(params, d.callback)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("microphone: portaudio open stream: %w", err)
	}
	d.stream = stream
	return nil
}

// callback copies in because portaudio reuses its backing buffer across
// invocations, so push always receives a slice of its own.
func (d *PortaudioDevice) callback(in []int16) {
	batch := make([]int16, len(in))
	copy(batch, in)
	d.push(batch)
}

func (d *PortaudioDevice) Start() error {
	if d.stream == nil {
		return fmt.Errorf("microphone: portaudio stream not open")
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
