//go:build windows

package typer

import (
	"fmt"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	inputKeyboard    = 1
	keyeventfUnicode = 0x0004
	keyeventfKeyup   = 0x0002
)

type keyboardInput struct {
	Type      uint32
	_         uint32 // alignment padding before the union
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
	_         [8]byte // pad to the size of the INPUT union
}

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

type windowsTyper struct{}

func newTyper() (Typer, error) {
	return &windowsTyper{}, nil
}

// Type injects text as unicode keystrokes via SendInput, which does
// not depend on the active keyboard layout.
func (t *windowsTyper) Type(text string) error {
	units := utf16.Encode([]rune(text))
	if len(units) == 0 {
		return nil
	}

	inputs := make([]keyboardInput, 0, len(units)*2)
	for _, u := range units {
		inputs = append(inputs,
			keyboardInput{Type: inputKeyboard, Scan: u, Flags: keyeventfUnicode},
			keyboardInput{Type: inputKeyboard, Scan: u, Flags: keyeventfUnicode | keyeventfKeyup},
		)
	}

	sent, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(sent) != len(inputs) {
		return fmt.Errorf("send input: injected %d of %d events: %w", sent, len(inputs), err)
	}
	return nil
}
