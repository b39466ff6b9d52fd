// Package audiocapture records microphone audio through one long-lived
// input stream and produces 16 kHz mono frames ready for speech recognition.
package audiocapture

import (
	"errors"
	"math"
	"sync"
)

// TargetRate is the sample rate recognition engines expect.
const TargetRate = 16000

// levelWindow is how many recent samples feed the RMS level meter.
const levelWindow = 1024

// ErrNoInputDevice is returned when the host has no usable input device.
var ErrNoInputDevice = errors.New("no audio input device found")

// ErrNotRecording is returned when stopping a capture that was never armed.
var ErrNotRecording = errors.New("not recording")

// Frame is one completed utterance: resampled mono samples plus the format
// they are in. Produced once per recording, consumed once by the worker.
type Frame struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Duration returns the frame length in seconds.
func (f Frame) Duration() float64 {
	if f.SampleRate == 0 {
		return 0
	}
	return float64(len(f.Samples)) / float64(f.SampleRate)
}

// stream is the platform audio backend. Its callback runs on the hardware
// thread and must never block.
type stream interface {
	// open starts delivering interleaved samples to onSamples.
	open(onSamples func([]float32)) error
	close() error
	sampleRate() float64
	channelCount() int
}

// Capture owns one open input stream. While armed, hardware callbacks append
// samples to an internal buffer; StopRecording drains it as a Frame.
type Capture struct {
	mu      sync.Mutex
	armed   bool
	samples []float32

	impl stream
}

// New opens the default input device at its reported default configuration
// and starts the stream. The stream stays open for the lifetime of the
// Capture; arming only toggles whether callbacks are retained.
func New() (*Capture, error) {
	impl, err := openPortAudio()
	if err != nil {
		return nil, err
	}
	return newWithStream(impl)
}

func newWithStream(impl stream) (*Capture, error) {
	c := &Capture{impl: impl}
	if err := impl.open(c.onSamples); err != nil {
		impl.close()
		return nil, err
	}
	return c, nil
}

// onSamples is the hardware callback. It only checks the armed flag and
// copies; the lock is scoped to the append so the callback stays O(1)
// amortized.
func (c *Capture) onSamples(in []float32) {
	c.mu.Lock()
	if c.armed {
		c.samples = append(c.samples, in...)
	}
	c.mu.Unlock()
}

// StartRecording arms the capture and clears any stale buffer from a
// previous session.
func (c *Capture) StartRecording() error {
	c.mu.Lock()
	c.armed = true
	c.samples = c.samples[:0]
	c.mu.Unlock()
	return nil
}

// StopRecording disarms the capture and returns the recorded audio resampled
// to 16 kHz mono. The internal buffer is released to the returned frame.
// Stopping an unarmed capture returns ErrNotRecording.
func (c *Capture) StopRecording() (Frame, error) {
	c.mu.Lock()
	if !c.armed {
		c.mu.Unlock()
		return Frame{}, ErrNotRecording
	}
	c.armed = false
	samples := c.samples
	c.samples = nil
	c.mu.Unlock()

	resampled := Resample(samples, c.impl.sampleRate(), c.impl.channelCount(), TargetRate)
	return Frame{Samples: resampled, SampleRate: TargetRate, Channels: 1}, nil
}

// IsRecording reports whether the capture is armed.
func (c *Capture) IsRecording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed
}

// Level returns the RMS of the most recent samples, for UI feedback.
// Returns 0 when nothing has been recorded.
func (c *Capture) Level() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return rmsLevel(c.samples)
}

// Close stops the stream and releases the device.
func (c *Capture) Close() error {
	c.mu.Lock()
	c.armed = false
	c.samples = nil
	c.mu.Unlock()
	return c.impl.close()
}

// rmsLevel computes the root mean square of the trailing levelWindow samples.
func rmsLevel(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}

	n := levelWindow
	if len(samples) < n {
		n = len(samples)
	}

	var sum float64
	for _, s := range samples[len(samples)-n:] {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(n))
}
