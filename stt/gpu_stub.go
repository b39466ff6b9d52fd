//go:build !cuda

package stt

import "errors"

// BuildHasGPU reports whether this binary was compiled with a GPU-backed
// whisper build. It is independent of runtime GPU detection.
const BuildHasGPU = false

var errGPUNotCompiled = errors.New("gpu support not compiled in (build with -tags cuda)")

// loadGPUModel always fails in a CPU-only build, which sends NewWhisper down
// the CPU fallback path.
func loadGPUModel(string) (inference, error) {
	return nil, errGPUNotCompiled
}
