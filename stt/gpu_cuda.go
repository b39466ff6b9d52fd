//go:build cuda

package stt

// BuildHasGPU reports whether this binary was compiled with a GPU-backed
// whisper build. It is independent of runtime GPU detection.
const BuildHasGPU = true

// loadGPUModel loads the model through the CUDA-linked whisper build. The
// binding picks up the GPU automatically when ggml is compiled with CUDA;
// failures (driver mismatch, exhausted VRAM) surface as load errors and the
// caller falls back to CPU.
func loadGPUModel(modelPath string) (inference, error) {
	return loadModel(modelPath)
}
