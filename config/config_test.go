package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// validConfig returns a configuration that passes Validate, with the model
// path pointing at a real temp file.
func validConfig(t *testing.T) Voice {
	t.Helper()

	modelPath := filepath.Join(t.TempDir(), "ggml-base.bin")
	if err := os.WriteFile(modelPath, []byte("model"), 0644); err != nil {
		t.Fatalf("write model file: %v", err)
	}

	cfg := Default()
	cfg.ModelPath = modelPath
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Voice)
		wantErr string
	}{
		{
			name:    "valid",
			mutate:  func(v *Voice) {},
			wantErr: "",
		},
		{
			name:    "missing model path",
			mutate:  func(v *Voice) { v.ModelPath = "" },
			wantErr: "Model file path is not set",
		},
		{
			name:    "nonexistent model path",
			mutate:  func(v *Voice) { v.ModelPath = "/nonexistent/ggml.bin" },
			wantErr: "Model file not found",
		},
		{
			name:    "sensitivity above range",
			mutate:  func(v *Voice) { v.Sensitivity = 1.5 },
			wantErr: "Sensitivity must be between 0.0 and 1.0",
		},
		{
			name:    "sensitivity below range",
			mutate:  func(v *Voice) { v.Sensitivity = -0.1 },
			wantErr: "Sensitivity must be between 0.0 and 1.0",
		},
		{
			name:    "non-positive min duration",
			mutate:  func(v *Voice) { v.MinDuration = 0 },
			wantErr: "Minimum duration must be positive",
		},
		{
			name: "max duration below min",
			mutate: func(v *Voice) {
				v.MinDuration = 0.1
				v.MaxDuration = 0.05
			},
			wantErr: "Maximum duration must be greater than minimum duration",
		},
		{
			name:    "sample rate too low",
			mutate:  func(v *Voice) { v.SampleRate = 4000 },
			wantErr: "Sample rate must be between 8000 and 48000 Hz",
		},
		{
			name:    "sample rate too high",
			mutate:  func(v *Voice) { v.SampleRate = 96000 },
			wantErr: "Sample rate must be between 8000 and 48000 Hz",
		},
		{
			name:    "unknown provider",
			mutate:  func(v *Voice) { v.Provider = "carrier-pigeon" },
			wantErr: "Unknown recognition provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "voice_config.json"))

	cfg := validConfig(t)
	cfg.Enabled = true
	cfg.Hotkey = "F5"
	cfg.Language = "de"
	cfg.Sensitivity = 0.25
	cfg.MinDuration = 0.2
	cfg.MaxDuration = 12.5
	cfg.SampleRate = 44100
	cfg.Provider = ProviderWhisperAPI
	cfg.APIKey = "sk-test"

	if err := store.Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestStoreLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "voice_config.json")
	store := NewStoreAt(path)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Hotkey != "F2" {
		t.Errorf("default hotkey = %q, want F2", got.Hotkey)
	}
	if got.Enabled {
		t.Error("default config should be disabled")
	}
	if got.SampleRate != 16000 {
		t.Errorf("default sample rate = %d, want 16000", got.SampleRate)
	}

	// The defaults must now exist on disk.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not persisted: %v", err)
	}
}

func TestStoreSerializedKeys(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "voice_config.json"))
	if err := store.Save(validConfig(t)); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	for _, key := range []string{
		`"enabled"`, `"hotkey"`, `"gpuAcceleration"`, `"modelPath"`,
		`"language"`, `"sensitivity"`, `"minDuration"`, `"maxDuration"`,
		`"sampleRate"`, `"autoGpuDetection"`,
	} {
		if !strings.Contains(string(data), key) {
			t.Errorf("serialized config missing key %s", key)
		}
	}
}

func TestLanguageForLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"en_US", "en"},
		{"en-GB", "en"},
		{"zh_CN", "zh"},
		{"ja_JP", "ja"},
		{"de_DE", "de"},
		{"pt_BR", "pt"},
		{"nl_NL", "auto"}, // unsupported language
		{"", "auto"},
		{"garbage!!", "auto"},
	}

	for _, tt := range tests {
		if got := languageForLocale(tt.locale); got != tt.want {
			t.Errorf("languageForLocale(%q) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestSupportedLanguages(t *testing.T) {
	opts := SupportedLanguages()
	if len(opts) < 2 {
		t.Fatalf("expected at least auto plus one language, got %d", len(opts))
	}
	if opts[0].Code != "auto" {
		t.Errorf("first option = %q, want auto", opts[0].Code)
	}
	for _, opt := range opts[1:] {
		if opt.Name == "" {
			t.Errorf("language %q has no display name", opt.Code)
		}
	}
}
