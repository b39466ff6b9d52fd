//go:build linux

package typer

import (
	"fmt"
	"os"
	"os/exec"
)

// linuxTyper shells out to the session's injection tool: wtype under
// Wayland, xdotool under X11.
type linuxTyper struct {
	wayland bool
}

func newTyper() (Typer, error) {
	t := &linuxTyper{wayland: os.Getenv("WAYLAND_DISPLAY") != ""}

	tool := "xdotool"
	if t.wayland {
		tool = "wtype"
	}
	if _, err := exec.LookPath(tool); err != nil {
		return nil, fmt.Errorf("text injection requires %s: %w", tool, err)
	}
	return t, nil
}

func (t *linuxTyper) Type(text string) error {
	var cmd *exec.Cmd
	if t.wayland {
		cmd = exec.Command("wtype", text)
	} else {
		cmd = exec.Command("xdotool", "type", "--clearmodifiers", "--", text)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("inject text: %w (%s)", err, out)
	}
	return nil
}
