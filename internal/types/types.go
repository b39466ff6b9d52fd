// Package types provides shared type definitions for the application.
package types

// VoiceStatus represents the state of the voice input pipeline.
type VoiceStatus struct {
	Initialized bool    `json:"initialized"`
	Running     bool    `json:"running"`
	Recording   bool    `json:"recording"`
	Mode        string  `json:"mode"`       // "GPU", "CPU" or "API"
	Hotkey      string  `json:"hotkey"`     // Trigger key name, e.g. "F2"
	AudioLevel  float64 `json:"audioLevel"` // RMS level 0-1 while recording
	Pending     int     `json:"pending"`    // Recordings waiting for transcription
}

// InitResult reports the outcome of initializing the voice pipeline.
type InitResult struct {
	Mode   string `json:"mode"`
	Hotkey string `json:"hotkey"`
}

// STTProviderInfo represents information about an STT provider.
type STTProviderInfo struct {
	Name        string `json:"name"`        // Provider identifier
	DisplayName string `json:"displayName"` // Human-readable name
	IsLocal     bool   `json:"isLocal"`     // Runs without network access
}

// DetectResult represents the result of language detection.
type DetectResult struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// LanguageOption pairs a recognition language code with its display name.
type LanguageOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// HistoryEntry represents a stored transcript shown in the history view.
type HistoryEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Language  string `json:"language"`
	Mode      string `json:"mode"`
	CreatedAt int64  `json:"createdAt"` // Unix timestamp in milliseconds
}
