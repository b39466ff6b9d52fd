// Package config handles application configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName        = "skald"
	configFileName = "voice_config.json"
)

// Provider identifiers selectable in Voice.
const (
	ProviderWhisperLocal = "whisper-local"
	ProviderWhisperAPI   = "whisper-api"
)

// Voice holds the push-to-talk dictation settings. A value is treated as
// immutable once loaded; callers replace it wholesale and hand out copies,
// never pointers into shared state.
type Voice struct {
	// Enabled gates the hotkey listener; when false key events are ignored.
	Enabled bool `json:"enabled"`

	// Hotkey is the trigger key name, e.g. "F2". See hotkey.ParseKey for the
	// accepted set.
	Hotkey string `json:"hotkey"`

	// GPUAcceleration requests a GPU-backed model load when available.
	GPUAcceleration bool `json:"gpuAcceleration"`

	// ModelPath points at a ggml whisper model file.
	ModelPath string `json:"modelPath"`

	// Language is a whisper language code, or "auto" for detection.
	Language string `json:"language"`

	// Sensitivity is the recognition sensitivity in [0, 1].
	Sensitivity float64 `json:"sensitivity"`

	// MinDuration is the shortest utterance, in seconds, worth transcribing.
	MinDuration float64 `json:"minDuration"`

	// MaxDuration caps a single recording, in seconds.
	MaxDuration float64 `json:"maxDuration"`

	// SampleRate is the processing sample rate in Hz.
	SampleRate int `json:"sampleRate"`

	// AutoGPUDetection probes the machine for GPU capability before a GPU
	// load is attempted.
	AutoGPUDetection bool `json:"autoGpuDetection"`

	// Provider selects the recognition backend. Empty means whisper-local.
	Provider string `json:"provider,omitempty"`

	// APIKey authenticates the whisper-api provider.
	APIKey string `json:"apiKey,omitempty"`
}

// Default returns the default voice configuration. The recognition language
// is seeded from the system locale.
func Default() Voice {
	return Voice{
		Enabled:          false,
		Hotkey:           "F2",
		GPUAcceleration:  defaultGPUAcceleration(),
		Language:         SystemLanguage(),
		Sensitivity:      0.6,
		MinDuration:      0.1,
		MaxDuration:      30.0,
		SampleRate:       16000,
		AutoGPUDetection: true,
		Provider:         ProviderWhisperLocal,
	}
}

// Validate reports the first constraint the configuration violates. It never
// clamps values. The returned messages are shown verbatim in the UI.
func (v Voice) Validate() error {
	if v.ModelPath == "" {
		return errors.New("Model file path is not set. Please select a Whisper model file.")
	}
	if _, err := os.Stat(v.ModelPath); err != nil {
		return fmt.Errorf("Model file not found: %s", v.ModelPath)
	}
	if v.Sensitivity < 0.0 || v.Sensitivity > 1.0 {
		return errors.New("Sensitivity must be between 0.0 and 1.0")
	}
	if v.MinDuration <= 0.0 {
		return errors.New("Minimum duration must be positive")
	}
	if v.MaxDuration <= v.MinDuration {
		return errors.New("Maximum duration must be greater than minimum duration")
	}
	if v.SampleRate < 8000 || v.SampleRate > 48000 {
		return errors.New("Sample rate must be between 8000 and 48000 Hz")
	}
	switch v.Provider {
	case "", ProviderWhisperLocal, ProviderWhisperAPI:
	default:
		return fmt.Errorf("Unknown recognition provider: %s", v.Provider)
	}
	return nil
}

// LanguageOrAuto normalizes the language field: empty and "auto" both mean
// automatic detection.
func (v Voice) LanguageOrAuto() string {
	if v.Language == "" {
		return "auto"
	}
	return v.Language
}

// Store persists a Voice record to a JSON file.
type Store struct {
	path string
}

// NewStore creates a store rooted at the user config directory.
func NewStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("get config dir: %w", err)
	}
	return &Store{path: filepath.Join(dir, appName, configFileName)}, nil
}

// NewStoreAt creates a store with an explicit file path. Used by tests.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the configuration from disk. A missing file yields the default
// configuration, which is written back so it persists for next time.
func (s *Store) Load() (Voice, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := s.Save(cfg); err != nil {
				return cfg, fmt.Errorf("save default config: %w", err)
			}
			return cfg, nil
		}
		return Voice{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Voice
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Voice{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to disk. Callers validate before saving.
func (s *Store) Save(cfg Voice) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
