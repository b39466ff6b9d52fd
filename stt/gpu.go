package stt

import (
	"os/exec"
	"runtime"
	"strings"
)

// DetectGPU probes the machine for a usable GPU backend and returns a
// human-readable description of what the probe found. The probe is a vendor
// driver check, not a guarantee that a GPU-backed load will succeed; load
// failures still fall back to CPU.
func DetectGPU() (bool, string) {
	if ok, desc := detectCUDA(); ok {
		return true, desc
	}
	if runtime.GOOS == "darwin" {
		// Metal is not enabled in this build; see gpu_stub.go.
		return false, "Metal backend not enabled in this build"
	}
	return false, "no GPU support detected"
}

// detectCUDA asks the NVIDIA driver for installed GPUs.
func detectCUDA() (bool, string) {
	out, err := exec.Command("nvidia-smi", "--query-gpu=name", "--format=csv,noheader,nounits").Output()
	if err != nil {
		return false, "NVIDIA GPU or driver not detected"
	}

	names := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(names) == 0 || names[0] == "" {
		return false, "NVIDIA driver installed but no GPU detected"
	}
	return true, "NVIDIA GPU: " + strings.Join(names, ", ")
}
