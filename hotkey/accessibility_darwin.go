//go:build darwin

package hotkey

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>

static bool isAccessibilityTrusted(bool prompt) {
	CFStringRef keys[] = { kAXTrustedCheckOptionPrompt };
	CFBooleanRef values[] = { prompt ? kCFBooleanTrue : kCFBooleanFalse };
	CFDictionaryRef options = CFDictionaryCreate(
		kCFAllocatorDefault,
		(const void **)keys, (const void **)values, 1,
		&kCFTypeDictionaryKeyCallBacks, &kCFTypeDictionaryValueCallBacks);
	bool trusted = AXIsProcessTrustedWithOptions(options);
	CFRelease(options);
	return trusted;
}
*/
import "C"

// IsAccessibilityEnabled reports whether the process may observe global key
// events. With prompt set, the system permission dialog is shown when the
// permission is missing.
func IsAccessibilityEnabled(prompt bool) bool {
	return bool(C.isAccessibilityTrusted(C.bool(prompt)))
}
