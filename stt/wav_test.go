package stt

import (
	"encoding/binary"
	"testing"
)

func TestEncodeWAV(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1}
	wav := encodeWAV(samples, 16000)

	if len(wav) != 44+len(samples)*2 {
		t.Fatalf("wav size = %d, want %d", len(wav), 44+len(samples)*2)
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE header")
	}

	rate := binary.LittleEndian.Uint32(wav[24:28])
	if rate != 16000 {
		t.Fatalf("sample rate = %d, want 16000", rate)
	}

	// Full-scale samples must clamp, not wrap.
	last := int16(binary.LittleEndian.Uint16(wav[len(wav)-2:]))
	if last != -32767 {
		t.Fatalf("sample -1.0 encoded as %d, want -32767", last)
	}
}
