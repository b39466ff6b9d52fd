package stt

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Whisper runs speech recognition on a locally loaded whisper.cpp model.
// Transcribe is not safe for concurrent use.
type Whisper struct {
	mu    sync.Mutex
	model inference
	mode  string
}

// inference is the narrow surface Whisper needs from a loaded model. Tests
// substitute fakes; production wraps a whisper.cpp model.
type inference interface {
	transcribe(samples []float32, language string) (string, error)
	close() error
}

// loaderFunc loads a model file into an inference backend.
type loaderFunc func(modelPath string) (inference, error)

// loaders bundles the CPU and GPU load paths. The GPU path only does real
// work in a GPU-enabled build; see gpu_cuda.go / gpu_stub.go.
type loaders struct {
	cpu loaderFunc
	gpu loaderFunc
}

func defaultLoaders() loaders {
	return loaders{cpu: loadModel, gpu: loadGPUModel}
}

// NewWhisper loads the model at modelPath. When preferGPU is set and the
// machine probes as GPU-capable, a GPU-backed load is attempted first; any
// failure there is logged and the load silently falls back to CPU. Only a
// CPU load failure is returned to the caller.
func NewWhisper(modelPath string, preferGPU bool) (*Whisper, error) {
	return newWhisper(modelPath, preferGPU, defaultLoaders())
}

func newWhisper(modelPath string, preferGPU bool, ld loaders) (*Whisper, error) {
	if preferGPU {
		capable, probe := DetectGPU()
		if capable {
			slog.Info("gpu capability detected, attempting gpu model load", "probe", probe)
			model, err := ld.gpu(modelPath)
			if err == nil {
				slog.Info("gpu model load succeeded")
				return &Whisper{model: model, mode: "GPU"}, nil
			}
			slog.Warn("gpu model load failed, falling back to cpu", "error", err)
		} else {
			slog.Info("gpu acceleration requested but no capability detected, using cpu", "probe", probe)
		}
	}

	model, err := ld.cpu(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", modelPath, err)
	}
	return &Whisper{model: model, mode: "CPU"}, nil
}

func (w *Whisper) Name() string        { return "whisper-local" }
func (w *Whisper) DisplayName() string { return "Whisper (local)" }
func (w *Whisper) IsLocal() bool       { return true }

// Mode reports which backend the model loaded on: "GPU" or "CPU".
func (w *Whisper) Mode() string { return w.mode }

// Transcribe runs a single greedy decoding pass over the samples. Inputs
// shorter than 0.1 s come back as empty text without invoking the model.
func (w *Whisper) Transcribe(samples []float32, language string) (string, error) {
	if len(samples) < minSamples {
		return "", nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.model == nil {
		return "", fmt.Errorf("model is closed")
	}
	return w.model.transcribe(samples, language)
}

// Close releases the model.
func (w *Whisper) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.model == nil {
		return nil
	}
	err := w.model.close()
	w.model = nil
	return err
}

// whisperModel adapts a whisper.cpp model to the inference interface.
type whisperModel struct {
	model whisper.Model
}

// loadModel is the CPU load path.
func loadModel(modelPath string) (inference, error) {
	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, err
	}
	return &whisperModel{model: model}, nil
}

func (m *whisperModel) transcribe(samples []float32, language string) (string, error) {
	ctx, err := m.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("create context: %w", err)
	}

	ctx.SetTranslate(false)
	if language != "" && language != "auto" {
		if err := ctx.SetLanguage(language); err != nil {
			return "", fmt.Errorf("set language %q: %w", language, err)
		}
	}

	if err := ctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process audio: %w", err)
	}

	var sb strings.Builder
	for {
		segment, err := ctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("next segment: %w", err)
		}
		sb.WriteString(segment.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

func (m *whisperModel) close() error {
	return m.model.Close()
}
