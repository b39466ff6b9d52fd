package audiocapture

// Resample converts interleaved samples recorded at srcRate with the given
// channel count into mono samples at dstRate, using nearest-neighbor
// decimation: output index i reads source index floor(i*srcRate/dstRate).
// Stereo input is averaged to mono; indices past the source are dropped
// rather than zero-padded.
func Resample(samples []float32, srcRate float64, channels int, dstRate int) []float32 {
	if len(samples) == 0 || srcRate <= 0 || dstRate <= 0 || channels <= 0 {
		return nil
	}

	ratio := srcRate / float64(dstRate)
	frames := len(samples) / channels
	outLen := int(float64(frames) / ratio)
	out := make([]float32, 0, outLen)

	for i := 0; i < outLen; i++ {
		src := int(float64(i) * ratio)
		if src >= frames {
			break
		}
		if channels >= 2 {
			out = append(out, (samples[src*channels]+samples[src*channels+1])/2)
		} else {
			out = append(out, samples[src])
		}
	}
	return out
}
