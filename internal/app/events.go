// Package app provides the core application service for Wails bindings.
package app

// Event names for frontend communication.
const (
	EventTranscript       = "voice-transcript"
	EventVoiceStatus      = "voice-status"
	EventRecordingStarted = "voice-recording-started"
	EventRecordingStopped = "voice-recording-stopped"
	EventSetClipboard     = "set-clipboard-text"
)
