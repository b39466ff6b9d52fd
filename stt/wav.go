package stt

import (
	"bytes"
	"encoding/binary"
	"math"
)

// encodeWAV packs float32 PCM samples into a 16-bit mono WAV container.
func encodeWAV(samples []float32, sampleRate int) []byte {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)

	dataSize := len(samples) * 2
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		binary.Write(&buf, binary.LittleEndian, int16(v*32767))
	}

	return buf.Bytes()
}
