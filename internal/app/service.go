// Package app provides the core application service for Wails bindings.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/skald-app/skald/audiocapture"
	"github.com/skald-app/skald/clipboard"
	"github.com/skald-app/skald/config"
	"github.com/skald-app/skald/history"
	"github.com/skald-app/skald/hotkey"
	"github.com/skald-app/skald/internal/types"
	"github.com/skald-app/skald/langdetect"
	"github.com/skald-app/skald/stt"
	"github.com/skald-app/skald/typer"
	"github.com/skald-app/skald/voice"

	"github.com/wailsapp/wails/v3/pkg/application"
)

// ErrNotInitialized is returned when the voice pipeline is used before
// InitializeVoice succeeded.
var ErrNotInitialized = errors.New("voice input is not initialized")

// historyLimit caps how many transcripts the history view loads.
const historyLimit = 200

// Service provides application functionality bound to Wails.
// This struct focuses on orchestration; the pipeline itself lives in
// the voice package.
type Service struct {
	store   *config.Store
	history *history.Store

	// UI references - set via Init
	app    *application.App
	window application.Window

	mu        sync.Mutex
	cfg       config.Voice
	processor *voice.Processor

	// Component factories, replaceable in tests.
	newRecorder func() (voice.Recorder, error)
	newEngine   func(cfg config.Voice) (stt.Provider, error)
	newTyper    func() (typer.Typer, error)
	newMonitor  func() hotkey.Monitor

	// Version info (set by caller)
	version string
}

// New creates a new Service. Call Init() after Wails app is created.
func New(version string) *Service {
	return &Service{
		version:     version,
		newRecorder: func() (voice.Recorder, error) { return audiocapture.New() },
		newEngine:   buildEngine,
		newTyper:    typer.New,
		newMonitor:  hotkey.NewMonitor,
	}
}

// GetVersion returns the application version.
func (s *Service) GetVersion() string {
	return s.version
}

// Init initializes the service with app and window references.
// Must be called after Wails application is created.
func (s *Service) Init(app *application.App, window application.Window) {
	s.app = app
	s.window = window

	store, err := config.NewStore()
	if err != nil {
		slog.Error("locate config", "error", err)
	}
	s.store = store

	cfg := config.Default()
	if s.store != nil {
		loaded, err := s.store.Load()
		if err != nil {
			slog.Error("load config", "error", err)
		} else {
			cfg = loaded
		}
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	s.setupHistory()

	if cfg.Enabled {
		if _, err := s.InitializeVoice(); err != nil {
			slog.Error("initialize voice input", "error", err)
		} else if err := s.StartVoice(); err != nil {
			slog.Error("start voice input", "error", err)
		}
	}
}

// Shutdown cleans up resources.
func (s *Service) Shutdown() {
	s.mu.Lock()
	proc := s.processor
	s.processor = nil
	s.mu.Unlock()

	if proc != nil {
		if err := proc.Close(); err != nil {
			slog.Error("close voice processor", "error", err)
		}
	}
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			slog.Error("close history store", "error", err)
		}
	}
}

func (s *Service) setupHistory() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		slog.Error("get config dir for history", "error", err)
		return
	}

	historyPath := filepath.Join(configDir, "skald", "history")
	h, err := history.Open(historyPath)
	if err != nil {
		slog.Error("open history", "error", err)
		return
	}
	s.history = h
	slog.Info("history opened", "path", historyPath)
}

// emit is a safe wrapper around app.Event.Emit
func (s *Service) emit(name string, data any) {
	if s.app != nil {
		s.app.Event.Emit(name, data)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Voice Pipeline
// ─────────────────────────────────────────────────────────────────────────────

// InitializeVoice builds the voice pipeline from the current
// configuration, replacing any previous instance.
func (s *Service) InitializeVoice() (types.InitResult, error) {
	s.mu.Lock()
	cfg := s.cfg
	old := s.processor
	s.processor = nil
	s.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			slog.Warn("close previous voice processor", "error", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return types.InitResult{}, err
	}

	engine, err := s.newEngine(cfg)
	if err != nil {
		return types.InitResult{}, fmt.Errorf("initialize recognition engine: %w", err)
	}

	recorder, err := s.newRecorder()
	if err != nil {
		engine.Close()
		return types.InitResult{}, fmt.Errorf("initialize audio capture: %w", err)
	}

	injector, err := s.newTyper()
	if err != nil {
		recorder.Close()
		engine.Close()
		return types.InitResult{}, fmt.Errorf("initialize text injection: %w", err)
	}

	proc, err := voice.New(cfg, recorder, engine, &clipboardFallback{s: s, typer: injector}, s.newMonitor())
	if err != nil {
		recorder.Close()
		engine.Close()
		return types.InitResult{}, err
	}
	proc.OnTranscript = s.onTranscript
	proc.OnRecording = func(active bool) {
		if active {
			s.emit(EventRecordingStarted, nil)
		} else {
			s.emit(EventRecordingStopped, nil)
		}
	}

	s.mu.Lock()
	s.processor = proc
	s.mu.Unlock()

	slog.Info("voice input initialized", "mode", engine.Mode(), "hotkey", cfg.Hotkey)
	return types.InitResult{Mode: engine.Mode(), Hotkey: cfg.Hotkey}, nil
}

// StartVoice begins listening for the trigger key.
func (s *Service) StartVoice() error {
	proc := s.current()
	if proc == nil {
		return ErrNotInitialized
	}
	if err := proc.Start(); err != nil {
		return err
	}
	s.emit(EventVoiceStatus, s.GetVoiceStatus())
	return nil
}

// StopVoice halts the trigger key listener and drains pending work.
func (s *Service) StopVoice() error {
	proc := s.current()
	if proc == nil {
		return ErrNotInitialized
	}
	if err := proc.Stop(); err != nil && !errors.Is(err, voice.ErrNotRunning) {
		return err
	}
	s.emit(EventVoiceStatus, s.GetVoiceStatus())
	return nil
}

// GetVoiceStatus returns the state of the voice pipeline.
func (s *Service) GetVoiceStatus() types.VoiceStatus {
	s.mu.Lock()
	proc := s.processor
	hk := s.cfg.Hotkey
	s.mu.Unlock()

	if proc == nil {
		return types.VoiceStatus{Hotkey: hk}
	}
	st := proc.Status()
	return types.VoiceStatus{
		Initialized: true,
		Running:     st.Running,
		Recording:   st.Recording,
		Mode:        st.Mode,
		Hotkey:      hk,
		AudioLevel:  st.AudioLevel,
		Pending:     st.Pending,
	}
}

func (s *Service) current() *voice.Processor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processor
}

func (s *Service) onTranscript(text, language, mode string) {
	if s.history != nil {
		if _, err := s.history.Append(text, language, mode); err != nil {
			slog.Error("store transcript", "error", err)
		}
	}
	s.emit(EventTranscript, text)
}

// clipboardFallback places the transcript on the clipboard when synthetic
// keystrokes cannot be delivered, so the dictation is not lost.
type clipboardFallback struct {
	s     *Service
	typer typer.Typer
}

func (c *clipboardFallback) Type(text string) error {
	err := c.typer.Type(text)
	if err == nil {
		return nil
	}
	slog.Warn("text injection failed, copying to clipboard instead", "error", err)
	if cerr := c.s.CopyToClipboard(text); cerr != nil {
		return fmt.Errorf("inject text: %w", err)
	}
	return nil
}

// gpuPreference resolves whether a GPU-backed model load should be
// attempted. gpuAcceleration=false always means CPU; auto-detection can
// only downgrade a GPU request on machines where the probe finds nothing.
func gpuPreference(cfg config.Voice, detect func() (bool, string)) bool {
	if !cfg.GPUAcceleration {
		return false
	}
	if !cfg.AutoGPUDetection {
		return true
	}
	ok, probe := detect()
	if ok {
		slog.Info("gpu detected", "probe", probe)
	} else {
		slog.Info("gpu requested but not detected, using cpu", "probe", probe)
	}
	return ok
}

// buildEngine selects the recognition backend from the configuration.
func buildEngine(cfg config.Voice) (stt.Provider, error) {
	switch cfg.Provider {
	case "", config.ProviderWhisperLocal:
		engine, err := stt.NewWhisper(cfg.ModelPath, gpuPreference(cfg, stt.DetectGPU))
		if err != nil {
			return nil, err
		}
		return engine, nil
	case config.ProviderWhisperAPI:
		engine, err := stt.NewWhisperAPI(stt.WhisperAPIConfig{APIKey: cfg.APIKey})
		if err != nil {
			return nil, err
		}
		return engine, nil
	default:
		return nil, fmt.Errorf("unknown recognition provider: %s", cfg.Provider)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Configuration
// ─────────────────────────────────────────────────────────────────────────────

// GetVoiceConfig returns the current configuration.
func (s *Service) GetVoiceConfig() config.Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SaveVoiceConfig validates, persists and hot-applies a configuration.
// Changing the provider, model path or GPU settings requires
// InitializeVoice to take effect.
func (s *Service) SaveVoiceConfig(cfg config.Voice) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := hotkey.ParseKey(cfg.Hotkey); err != nil {
		return err
	}
	if s.store != nil {
		if err := s.store.Save(cfg); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cfg = cfg
	proc := s.processor
	s.mu.Unlock()

	if proc != nil {
		if err := proc.UpdateConfig(cfg); err != nil {
			return err
		}
	}
	s.emit(EventVoiceStatus, s.GetVoiceStatus())
	return nil
}

// GetSupportedHotkeys returns the trigger key names settings may offer.
func (s *Service) GetSupportedHotkeys() []string {
	return hotkey.SupportedKeys()
}

// GetSupportedLanguages returns the recognition language options.
func (s *Service) GetSupportedLanguages() []types.LanguageOption {
	langs := config.SupportedLanguages()
	opts := make([]types.LanguageOption, 0, len(langs))
	for _, l := range langs {
		opts = append(opts, types.LanguageOption{Code: l.Code, Name: l.Name})
	}
	return opts
}

// GetSTTProviders lists the available recognition backends.
func (s *Service) GetSTTProviders() []types.STTProviderInfo {
	return []types.STTProviderInfo{
		{Name: config.ProviderWhisperLocal, DisplayName: "Whisper (local)", IsLocal: true},
		{Name: config.ProviderWhisperAPI, DisplayName: "OpenAI Whisper API", IsLocal: false},
	}
}

// IsGPUBuildAvailable reports whether this binary was compiled with
// GPU inference support.
func (s *Service) IsGPUBuildAvailable() bool {
	return stt.BuildHasGPU
}

// DetectGPU probes for a usable GPU and returns its name, if any.
func (s *Service) DetectGPU() (bool, string) {
	return stt.DetectGPU()
}

// GetAccessibilityPermission returns whether global key monitoring is
// permitted. Always true outside macOS.
func (s *Service) GetAccessibilityPermission() bool {
	return hotkey.IsAccessibilityEnabled(false)
}

// RequestAccessibilityPermission shows the system permission prompt when
// the permission is missing.
func (s *Service) RequestAccessibilityPermission() bool {
	return hotkey.IsAccessibilityEnabled(true)
}

// ─────────────────────────────────────────────────────────────────────────────
// Language Detection
// ─────────────────────────────────────────────────────────────────────────────

// DetectLanguage detects the language of the given text.
func (s *Service) DetectLanguage(text string) (types.DetectResult, error) {
	res, err := langdetect.Detect(text)
	if err != nil {
		return types.DetectResult{}, err
	}
	return types.DetectResult{Code: res.Code, Name: res.Name}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// History
// ─────────────────────────────────────────────────────────────────────────────

// GetHistory returns recent transcripts, newest first.
func (s *Service) GetHistory() ([]types.HistoryEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	entries, err := s.history.Recent(historyLimit)
	if err != nil {
		return nil, err
	}
	out := make([]types.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, types.HistoryEntry{
			ID:        e.ID,
			Text:      e.Text,
			Language:  e.Language,
			Mode:      e.Mode,
			CreatedAt: e.CreatedAt.UnixMilli(),
		})
	}
	return out, nil
}

// ClearHistory removes all stored transcripts.
func (s *Service) ClearHistory() error {
	if s.history == nil {
		return nil
	}
	return s.history.Clear()
}

// CopyToClipboard places text on the system clipboard.
func (s *Service) CopyToClipboard(text string) error {
	if s.app == nil {
		return errors.New("clipboard unavailable")
	}
	if err := clipboard.SetText(s.app, text); err != nil {
		return err
	}
	s.emit(EventSetClipboard, text)
	return nil
}
