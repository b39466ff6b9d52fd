package voice

import (
	"testing"

	"github.com/skald-app/skald/audiocapture"
)

func frameOfLen(n int) audiocapture.Frame {
	return audiocapture.Frame{
		Samples:    make([]float32, n),
		SampleRate: audiocapture.TargetRate,
		Channels:   1,
	}
}

func TestQueueFIFO(t *testing.T) {
	q := newQueue()
	q.push(frameOfLen(1))
	q.push(frameOfLen(2))
	q.push(frameOfLen(3))

	for want := 1; want <= 3; want++ {
		f, ok := q.pop()
		if !ok {
			t.Fatalf("pop %d: queue reported closed", want)
		}
		if len(f.Samples) != want {
			t.Fatalf("pop %d: got frame of %d samples", want, len(f.Samples))
		}
	}
	if got := q.len(); got != 0 {
		t.Fatalf("len after drain = %d, want 0", got)
	}
}

func TestQueueCloseUnblocksPop(t *testing.T) {
	q := newQueue()
	done := make(chan bool)
	go func() {
		_, ok := q.pop()
		done <- ok
	}()
	q.close()
	if ok := <-done; ok {
		t.Fatal("pop on closed empty queue returned ok")
	}
}

func TestQueueCloseDrainsPending(t *testing.T) {
	q := newQueue()
	q.push(frameOfLen(5))
	q.close()

	if f, ok := q.pop(); !ok || len(f.Samples) != 5 {
		t.Fatalf("pop after close = (%d samples, %v), want queued frame", len(f.Samples), ok)
	}
	if _, ok := q.pop(); ok {
		t.Fatal("second pop after close returned ok")
	}

	q.push(frameOfLen(1))
	if got := q.len(); got != 0 {
		t.Fatalf("push after close stored a frame, len = %d", got)
	}
}
