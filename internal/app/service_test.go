package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/skald-app/skald/audiocapture"
	"github.com/skald-app/skald/config"
	"github.com/skald-app/skald/hotkey"
	"github.com/skald-app/skald/stt"
	"github.com/skald-app/skald/typer"
	"github.com/skald-app/skald/voice"
)

type stubRecorder struct{ closed bool }

func (r *stubRecorder) StartRecording() error { return nil }
func (r *stubRecorder) StopRecording() (audiocapture.Frame, error) {
	return audiocapture.Frame{SampleRate: audiocapture.TargetRate, Channels: 1}, nil
}
func (r *stubRecorder) IsRecording() bool { return false }
func (r *stubRecorder) Level() float64    { return 0 }
func (r *stubRecorder) Close() error {
	r.closed = true
	return nil
}

type stubEngine struct {
	mu     sync.Mutex
	closed int
}

func (e *stubEngine) Name() string        { return "stub" }
func (e *stubEngine) DisplayName() string { return "Stub" }
func (e *stubEngine) IsLocal() bool       { return true }
func (e *stubEngine) Mode() string        { return "CPU" }
func (e *stubEngine) Transcribe([]float32, string) (string, error) {
	return "", nil
}
func (e *stubEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed++
	return nil
}

type stubTyper struct{}

func (stubTyper) Type(string) error { return nil }

type stubMonitor struct{}

func (stubMonitor) Start(uint16, func(hotkey.KeyEvent)) error { return nil }
func (stubMonitor) Stop()                                     {}

func testService(t *testing.T) (*Service, *stubEngine) {
	t.Helper()
	engine := &stubEngine{}
	s := New("test")
	s.store = config.NewStoreAt(filepath.Join(t.TempDir(), "voice_config.json"))
	s.newRecorder = func() (voice.Recorder, error) { return &stubRecorder{}, nil }
	s.newEngine = func(config.Voice) (stt.Provider, error) { return engine, nil }
	s.newTyper = func() (typer.Typer, error) { return stubTyper{}, nil }
	s.newMonitor = func() hotkey.Monitor { return stubMonitor{} }

	cfg := config.Default()
	cfg.Enabled = true
	cfg.ModelPath = writeModelFile(t)
	s.cfg = cfg
	return s, engine
}

func writeModelFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ggml-base.bin")
	if err := os.WriteFile(path, []byte("model"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInitializeVoice(t *testing.T) {
	s, _ := testService(t)
	res, err := s.InitializeVoice()
	if err != nil {
		t.Fatalf("InitializeVoice: %v", err)
	}
	if res.Mode != "CPU" {
		t.Errorf("mode = %q, want CPU", res.Mode)
	}
	if res.Hotkey != "F2" {
		t.Errorf("hotkey = %q, want F2", res.Hotkey)
	}

	st := s.GetVoiceStatus()
	if !st.Initialized || st.Running {
		t.Fatalf("status after init = %+v, want initialized and not running", st)
	}
}

func TestInitializeVoiceRejectsInvalidConfig(t *testing.T) {
	s, _ := testService(t)
	s.cfg.ModelPath = ""
	if _, err := s.InitializeVoice(); err == nil {
		t.Fatal("InitializeVoice accepted a config with no model path")
	}
}

func TestInitializeVoiceReplacesPrevious(t *testing.T) {
	s, engine := testService(t)
	if _, err := s.InitializeVoice(); err != nil {
		t.Fatalf("first InitializeVoice: %v", err)
	}
	if _, err := s.InitializeVoice(); err != nil {
		t.Fatalf("second InitializeVoice: %v", err)
	}
	engine.mu.Lock()
	closed := engine.closed
	engine.mu.Unlock()
	if closed != 1 {
		t.Fatalf("previous engine closed %d times, want 1", closed)
	}
}

func TestStartStopVoice(t *testing.T) {
	s, _ := testService(t)
	if err := s.StartVoice(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("StartVoice before init = %v, want ErrNotInitialized", err)
	}

	if _, err := s.InitializeVoice(); err != nil {
		t.Fatalf("InitializeVoice: %v", err)
	}
	if err := s.StartVoice(); err != nil {
		t.Fatalf("StartVoice: %v", err)
	}
	if st := s.GetVoiceStatus(); !st.Running {
		t.Fatalf("status after start = %+v, want running", st)
	}
	if err := s.StopVoice(); err != nil {
		t.Fatalf("StopVoice: %v", err)
	}
	if st := s.GetVoiceStatus(); st.Running {
		t.Fatalf("status after stop = %+v, want not running", st)
	}
	// stopping twice is not an error at the service level
	if err := s.StopVoice(); err != nil {
		t.Fatalf("second StopVoice: %v", err)
	}
}

func TestSaveVoiceConfig(t *testing.T) {
	s, _ := testService(t)
	cfg := s.cfg
	cfg.Language = "de"
	cfg.Hotkey = "ALT"
	if err := s.SaveVoiceConfig(cfg); err != nil {
		t.Fatalf("SaveVoiceConfig: %v", err)
	}
	if got := s.GetVoiceConfig(); got.Language != "de" || got.Hotkey != "ALT" {
		t.Fatalf("config after save = %+v", got)
	}

	// persisted to disk
	loaded, err := s.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Language != "de" {
		t.Fatalf("persisted language = %q, want de", loaded.Language)
	}
}

func TestSaveVoiceConfigRejectsInvalid(t *testing.T) {
	s, _ := testService(t)

	bad := s.cfg
	bad.Sensitivity = 1.5
	if err := s.SaveVoiceConfig(bad); err == nil {
		t.Fatal("accepted out-of-range sensitivity")
	}

	bad = s.cfg
	bad.Hotkey = "F13"
	if err := s.SaveVoiceConfig(bad); err == nil {
		t.Fatal("accepted unknown hotkey")
	}

	// nothing was persisted or applied
	if got := s.GetVoiceConfig(); got.Hotkey != "F2" {
		t.Fatalf("config mutated by rejected save: %+v", got)
	}
}

func TestSaveVoiceConfigHotAppliesToProcessor(t *testing.T) {
	s, _ := testService(t)
	if _, err := s.InitializeVoice(); err != nil {
		t.Fatalf("InitializeVoice: %v", err)
	}
	cfg := s.cfg
	cfg.Enabled = false
	if err := s.SaveVoiceConfig(cfg); err != nil {
		t.Fatalf("SaveVoiceConfig: %v", err)
	}
}

func TestGPUPreference(t *testing.T) {
	detectYes := func() (bool, string) { return true, "NVIDIA GPU: test" }
	detectNo := func() (bool, string) { return false, "no GPU support detected" }

	tests := []struct {
		name   string
		gpu    bool
		auto   bool
		detect func() (bool, string)
		want   bool
	}{
		{"disabled stays cpu even with gpu present", false, true, detectYes, false},
		{"disabled without auto detection", false, false, detectYes, false},
		{"enabled without auto detection trusts the setting", true, false, detectNo, true},
		{"enabled with auto detection and gpu present", true, true, detectYes, true},
		{"enabled with auto detection downgrades on miss", true, true, detectNo, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.GPUAcceleration = tt.gpu
			cfg.AutoGPUDetection = tt.auto
			if got := gpuPreference(cfg, tt.detect); got != tt.want {
				t.Fatalf("gpuPreference = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetSTTProviders(t *testing.T) {
	s, _ := testService(t)
	providers := s.GetSTTProviders()
	if len(providers) != 2 {
		t.Fatalf("got %d providers, want 2", len(providers))
	}
	if providers[0].Name != config.ProviderWhisperLocal || !providers[0].IsLocal {
		t.Fatalf("first provider = %+v", providers[0])
	}
	if providers[1].Name != config.ProviderWhisperAPI || providers[1].IsLocal {
		t.Fatalf("second provider = %+v", providers[1])
	}
}

func TestGetSupportedLanguagesStartsWithAuto(t *testing.T) {
	s, _ := testService(t)
	langs := s.GetSupportedLanguages()
	if len(langs) == 0 || langs[0].Code != "auto" {
		t.Fatalf("languages = %+v, want auto first", langs)
	}
}

type failingTyper struct{}

func (failingTyper) Type(string) error { return errors.New("no display") }

func TestClipboardFallbackPropagatesWhenUnavailable(t *testing.T) {
	s, _ := testService(t)
	fb := &clipboardFallback{s: s, typer: failingTyper{}}
	// no app is attached, so the clipboard cannot take the text either
	if err := fb.Type("hello"); err == nil {
		t.Fatal("Type succeeded with no injector and no clipboard")
	}
}

func TestShutdownClosesProcessor(t *testing.T) {
	s, engine := testService(t)
	if _, err := s.InitializeVoice(); err != nil {
		t.Fatalf("InitializeVoice: %v", err)
	}
	s.Shutdown()
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed != 1 {
		t.Fatalf("engine closed %d times on shutdown, want 1", engine.closed)
	}
}
