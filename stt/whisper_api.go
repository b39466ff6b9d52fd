package stt

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// requestTimeout bounds one hosted transcription call.
const requestTimeout = 60 * time.Second

// WhisperAPI transcribes through the OpenAI-hosted Whisper endpoint. It is
// the remote alternative to the local model for machines without the
// horsepower to run whisper.cpp.
type WhisperAPI struct {
	client openai.Client
	model  string
}

// WhisperAPIConfig holds configuration for WhisperAPI.
type WhisperAPIConfig struct {
	APIKey  string
	BaseURL string // optional, defaults to OpenAI's API
	Model   string // optional, defaults to whisper-1
}

// NewWhisperAPI creates a hosted Whisper provider.
func NewWhisperAPI(cfg WhisperAPIConfig) (*WhisperAPI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = string(openai.AudioModelWhisper1)
	}

	return &WhisperAPI{client: openai.NewClient(opts...), model: model}, nil
}

func (w *WhisperAPI) Name() string        { return "whisper-api" }
func (w *WhisperAPI) DisplayName() string { return "OpenAI Whisper API" }
func (w *WhisperAPI) IsLocal() bool       { return false }
func (w *WhisperAPI) Mode() string        { return "API" }

// Transcribe uploads the samples as a WAV file and returns the recognized
// text. Inputs shorter than 0.1 s are skipped without a network call.
func (w *WhisperAPI) Transcribe(samples []float32, language string) (string, error) {
	if len(samples) < minSamples {
		return "", nil
	}

	wav := encodeWAV(samples, 16000)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(w.model),
		File:  openai.File(bytes.NewReader(wav), "audio.wav", "audio/wav"),
	}
	// The API rejects "auto"; omitting the field means auto-detect.
	if language != "" && language != "auto" {
		params.Language = openai.String(language)
	}

	resp, err := w.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (w *WhisperAPI) Close() error { return nil }
