package hotkey

import (
	"fmt"
	"strings"

	hook "github.com/robotn/gohook"
)

// keyAliases maps every accepted trigger-key name to the lookup names used
// by the hook key table. The first alias present in the table wins. The set
// is deliberately closed: plain letters and keys that interfere with text
// entry (enter, backquote) are not accepted.
var keyAliases = map[string][]string{
	"F1":  {"f1"},
	"F2":  {"f2"},
	"F3":  {"f3"},
	"F4":  {"f4"},
	"F5":  {"f5"},
	"F6":  {"f6"},
	"F7":  {"f7"},
	"F8":  {"f8"},
	"F9":  {"f9"},
	"F10": {"f10"},
	"F11": {"f11"},
	"F12": {"f12"},

	"ALT":      {"alt"},
	"OPTION":   {"alt"},
	"CTRL":     {"ctrl", "control"},
	"CONTROL":  {"ctrl", "control"},
	"SHIFT":    {"shift"},
	"TAB":      {"tab"},
	"SPACE":    {"space"},
	"ESC":      {"esc", "escape"},
	"ESCAPE":   {"esc", "escape"},
	"CAPS":     {"caps", "capslock"},
	"CAPSLOCK": {"caps", "capslock"},
	"WIN":      {"cmd", "command"},
	"WINDOWS":  {"cmd", "command"},
	"CMD":      {"cmd", "command"},
	"META":     {"cmd", "command"},
	"SUPER":    {"cmd", "command"},
}

// ParseKey resolves a configured trigger-key name to a platform key code.
// Names are case-insensitive. Unrecognized names are an error so that
// configuration validation can reject them instead of silently defaulting.
func ParseKey(name string) (uint16, error) {
	aliases, ok := keyAliases[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unsupported hotkey %q", name)
	}
	for _, alias := range aliases {
		if code, ok := hook.Keycode[alias]; ok {
			return code, nil
		}
	}
	return 0, fmt.Errorf("hotkey %q has no key code on this platform", name)
}

// SupportedKeys returns the accepted canonical key names, for UI listings.
func SupportedKeys() []string {
	return []string{
		"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
		"Alt", "Ctrl", "Shift", "Tab", "Space", "Esc", "CapsLock", "Cmd",
	}
}
