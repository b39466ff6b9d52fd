// Package hotkey captures system-wide keyboard events for the push-to-talk
// trigger key.
package hotkey

import (
	"fmt"
	"log/slog"
	"sync"

	hook "github.com/robotn/gohook"
)

// KeyEvent is one press or release of the trigger key.
type KeyEvent struct {
	Code    uint16
	Pressed bool
}

// Monitor delivers global key events for a single trigger key. It exists as
// an interface so the voice processor and its tests can substitute fakes for
// the OS hook.
type Monitor interface {
	// Start begins delivering events for the given key code. The handler
	// runs on the monitor's event goroutine and must return quickly.
	Start(code uint16, handler func(KeyEvent)) error

	// Stop tears the hook down. Safe to call more than once.
	Stop()
}

// globalMonitor implements Monitor on the process-wide keyboard hook.
type globalMonitor struct {
	mu      sync.Mutex
	events  chan hook.Event
	done    chan struct{}
	started bool
}

// NewMonitor creates a monitor backed by the OS keyboard hook.
func NewMonitor() Monitor {
	return &globalMonitor{}
}

func (m *globalMonitor) Start(code uint16, handler func(KeyEvent)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return fmt.Errorf("keyboard monitor already started")
	}

	m.events = hook.Start()
	m.done = make(chan struct{})
	m.started = true

	go m.loop(code, handler, m.events, m.done)
	return nil
}

// loop drains the hook's event channel. Key repeat shows up as repeated
// KeyDown/KeyHold events while the key is physically held; those are
// collapsed into a single press until the matching release arrives.
func (m *globalMonitor) loop(code uint16, handler func(KeyEvent), events chan hook.Event, done chan struct{}) {
	down := false
	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Keycode != code {
				continue
			}
			switch ev.Kind {
			case hook.KeyDown, hook.KeyHold:
				if down {
					continue
				}
				down = true
				handler(KeyEvent{Code: code, Pressed: true})
			case hook.KeyUp:
				if !down {
					continue
				}
				down = false
				handler(KeyEvent{Code: code, Pressed: false})
			}
		}
	}
}

func (m *globalMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return
	}
	close(m.done)
	hook.End()
	m.started = false
	slog.Info("keyboard monitor stopped")
}
