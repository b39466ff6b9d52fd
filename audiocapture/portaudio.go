package audiocapture

import (
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"
)

// framesPerBuffer is the callback granularity requested from the driver.
const framesPerBuffer = 1024

// portAudioStream drives the default input device through portaudio. The
// device's own default sample rate and channel count are kept; conversion to
// 16 kHz mono happens later, outside the callback.
type portAudioStream struct {
	stream   *portaudio.Stream
	rate     float64
	channels int
}

func openPortAudio() (stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	dev, err := portaudio.DefaultInputDevice()
	if err != nil || dev == nil {
		portaudio.Terminate()
		return nil, ErrNoInputDevice
	}

	channels := dev.MaxInputChannels
	if channels > 2 {
		channels = 2
	}
	if channels < 1 {
		portaudio.Terminate()
		return nil, ErrNoInputDevice
	}

	slog.Info("audio input device",
		"name", dev.Name,
		"sampleRate", dev.DefaultSampleRate,
		"channels", channels)

	return &portAudioStream{rate: dev.DefaultSampleRate, channels: channels}, nil
}

func (p *portAudioStream) open(onSamples func([]float32)) error {
	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		return ErrNoInputDevice
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: p.channels,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      p.rate,
		FramesPerBuffer: framesPerBuffer,
	}

	// Interleaved callback; no work beyond the handoff happens here.
	s, err := portaudio.OpenStream(params, func(in []float32) {
		onSamples(in)
	})
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}

	if err := s.Start(); err != nil {
		s.Close()
		return fmt.Errorf("start input stream: %w", err)
	}

	p.stream = s
	return nil
}

func (p *portAudioStream) close() error {
	var err error
	if p.stream != nil {
		if stopErr := p.stream.Stop(); stopErr != nil {
			err = stopErr
		}
		if closeErr := p.stream.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		p.stream = nil
	}
	portaudio.Terminate()
	return err
}

func (p *portAudioStream) sampleRate() float64 { return p.rate }
func (p *portAudioStream) channelCount() int   { return p.channels }
