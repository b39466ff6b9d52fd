package voice

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/skald-app/skald/audiocapture"
	"github.com/skald-app/skald/config"
	"github.com/skald-app/skald/hotkey"
	"github.com/skald-app/skald/stt"
	"github.com/skald-app/skald/typer"
)

// minRecording is the hold floor. A release before it discards the
// buffer without emitting; accidental key taps never produce a frame.
const minRecording = 500 * time.Millisecond

var ErrNotRunning = errors.New("voice processor not running")

// Recorder is the slice of the audio capture surface the processor
// drives. *audiocapture.Capture satisfies it.
type Recorder interface {
	StartRecording() error
	StopRecording() (audiocapture.Frame, error)
	IsRecording() bool
	Level() float64
	Close() error
}

// Status is a point-in-time snapshot of the processor.
type Status struct {
	Running    bool    `json:"running"`
	Recording  bool    `json:"recording"`
	Mode       string  `json:"mode"`
	AudioLevel float64 `json:"audioLevel"`
	Pending    int     `json:"pending"`
}

// Processor ties the trigger key, the recorder, the recognition engine
// and the text injector together. Key events arrive on the monitor's
// dispatch goroutine; transcription runs on a single worker goroutine
// so recordings are processed strictly in order.
type Processor struct {
	recorder Recorder
	engine   stt.Provider
	injector typer.Typer
	monitor  hotkey.Monitor

	// OnTranscript, when set, observes every injected transcript.
	// Called from the worker goroutine.
	OnTranscript func(text, language, mode string)

	// OnRecording, when set, observes recording start and stop. Called
	// from the monitor's dispatch goroutine.
	OnRecording func(active bool)

	mu        sync.Mutex
	cfg       config.Voice
	keyCode   uint16
	running   bool
	recording bool
	// sessionCfg and sessionStart are captured when a recording opens
	// and drive the duration decisions for that recording.
	sessionCfg   config.Voice
	sessionStart time.Time

	queue  *queue
	workWG sync.WaitGroup

	now func() time.Time
}

// New builds a processor from its collaborators. The configuration is
// copied; use UpdateConfig to apply later changes.
func New(cfg config.Voice, rec Recorder, engine stt.Provider, inj typer.Typer, mon hotkey.Monitor) (*Processor, error) {
	code, err := hotkey.ParseKey(cfg.Hotkey)
	if err != nil {
		return nil, fmt.Errorf("resolve hotkey: %w", err)
	}
	return &Processor{
		recorder: rec,
		engine:   engine,
		injector: inj,
		monitor:  mon,
		cfg:      cfg,
		keyCode:  code,
		now:      time.Now,
	}, nil
}

// Start begins listening for the trigger key and launches the
// transcription worker. Calling Start on a running processor is a no-op.
func (p *Processor) Start() error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.queue = newQueue()
	p.running = true
	code := p.keyCode
	q := p.queue
	p.mu.Unlock()

	p.workWG.Add(1)
	go p.work(q)

	if err := p.monitor.Start(code, p.handleKey); err != nil {
		q.close()
		p.workWG.Wait()
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		return fmt.Errorf("start key monitor: %w", err)
	}

	slog.Info("voice processor started", "hotkey", p.cfg.Hotkey, "mode", p.engine.Mode())
	return nil
}

// Stop halts key monitoring, discards any recording in flight, and
// waits for the worker to drain the queue.
func (p *Processor) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrNotRunning
	}
	p.running = false
	q := p.queue
	wasRecording := p.recording
	p.recording = false
	p.mu.Unlock()

	p.monitor.Stop()

	if wasRecording {
		if _, err := p.recorder.StopRecording(); err != nil {
			slog.Warn("discard recording on stop", "error", err)
		}
		if p.OnRecording != nil {
			p.OnRecording(false)
		}
	}

	q.close()
	p.workWG.Wait()

	slog.Info("voice processor stopped")
	return nil
}

// Close stops the processor if running and releases the recorder and
// the recognition engine.
func (p *Processor) Close() error {
	if err := p.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}
	var first error
	if err := p.recorder.Close(); err != nil {
		first = err
	}
	if err := p.engine.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// UpdateConfig applies a new configuration. The hotkey takes effect on
// the next Start; enabled, language and duration bounds apply
// immediately. A recording already in progress keeps the settings it
// started with.
func (p *Processor) UpdateConfig(cfg config.Voice) error {
	code, err := hotkey.ParseKey(cfg.Hotkey)
	if err != nil {
		return fmt.Errorf("resolve hotkey: %w", err)
	}
	p.mu.Lock()
	p.cfg = cfg
	p.keyCode = code
	p.mu.Unlock()
	return nil
}

func (p *Processor) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Status{
		Running:   p.running,
		Recording: p.recording,
		Mode:      p.engine.Mode(),
	}
	if p.queue != nil {
		s.Pending = p.queue.len()
	}
	if p.recording {
		s.AudioLevel = p.recorder.Level()
	}
	return s
}

// handleKey runs on the monitor's dispatch goroutine.
func (p *Processor) handleKey(ev hotkey.KeyEvent) {
	if ev.Pressed {
		p.beginRecording()
	} else {
		p.finishRecording()
	}
}

func (p *Processor) beginRecording() {
	p.mu.Lock()
	if !p.running || p.recording || !p.cfg.Enabled {
		p.mu.Unlock()
		return
	}
	p.recording = true
	p.sessionCfg = p.cfg
	p.sessionStart = p.now()
	p.mu.Unlock()

	if err := p.recorder.StartRecording(); err != nil {
		slog.Error("start recording", "error", err)
		p.mu.Lock()
		p.recording = false
		p.mu.Unlock()
		return
	}
	slog.Debug("recording started")
	if p.OnRecording != nil {
		p.OnRecording(true)
	}
}

func (p *Processor) finishRecording() {
	p.mu.Lock()
	if !p.running || !p.recording {
		p.mu.Unlock()
		return
	}
	p.recording = false
	session := p.sessionCfg
	elapsed := p.now().Sub(p.sessionStart)
	// enabled is re-read live so turning the feature off mid-press
	// drops the recording instead of injecting it.
	enabled := p.cfg.Enabled
	q := p.queue
	p.mu.Unlock()

	if p.OnRecording != nil {
		p.OnRecording(false)
	}

	frame, err := p.recorder.StopRecording()
	if err != nil {
		slog.Error("stop recording", "error", err)
		return
	}
	if elapsed < minRecording {
		slog.Debug("recording held below floor, discarded",
			"held", elapsed, "floor", minRecording)
		return
	}
	if !enabled {
		slog.Debug("recording dropped, voice input disabled")
		return
	}
	if frame.Duration() < session.MinDuration {
		slog.Debug("recording below minimum duration",
			"duration", frame.Duration(), "min", session.MinDuration)
		return
	}
	slog.Debug("recording queued", "duration", frame.Duration(), "held", elapsed)
	q.push(frame)
}

// work drains the queue one frame at a time until the queue closes.
// Transcription failures are logged and the loop continues.
func (p *Processor) work(q *queue) {
	defer p.workWG.Done()
	for {
		frame, ok := q.pop()
		if !ok {
			return
		}
		p.transcribe(frame)
	}
}

func (p *Processor) transcribe(frame audiocapture.Frame) {
	p.mu.Lock()
	language := p.cfg.LanguageOrAuto()
	minDur := p.cfg.MinDuration
	p.mu.Unlock()

	if frame.Duration() < minDur {
		return
	}

	start := time.Now()
	text, err := p.engine.Transcribe(frame.Samples, language)
	if err != nil {
		slog.Error("transcription failed", "error", err, "duration", frame.Duration())
		return
	}
	if text == "" {
		slog.Debug("transcription empty", "duration", frame.Duration())
		return
	}

	slog.Info("transcription complete",
		"chars", len(text), "audio", frame.Duration(), "took", time.Since(start))

	if err := p.injector.Type(text); err != nil {
		slog.Error("text injection failed", "error", err)
		return
	}
	if p.OnTranscript != nil {
		p.OnTranscript(text, language, p.engine.Mode())
	}
}
