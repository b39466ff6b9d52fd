//go:build !darwin

package hotkey

// IsAccessibilityEnabled reports whether the process may observe global key
// events. Only macOS gates this behind a permission.
func IsAccessibilityEnabled(prompt bool) bool {
	return true
}
