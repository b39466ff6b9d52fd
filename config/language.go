package config

import (
	"os"
	"runtime"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// whisperLanguages is the closed set of language codes the recognizer
// accepts, beyond "auto".
var whisperLanguages = []string{
	"en", "zh", "ja", "ko", "fr", "de", "es", "ru", "ar", "pt", "it", "hi", "th",
}

// LanguageOption pairs a whisper language code with a human-readable name.
type LanguageOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SupportedLanguages lists the selectable recognition languages, "auto"
// first. Names are English display names.
func SupportedLanguages() []LanguageOption {
	opts := make([]LanguageOption, 0, len(whisperLanguages)+1)
	opts = append(opts, LanguageOption{Code: "auto", Name: "Auto-detect"})

	namer := display.English.Languages()
	for _, code := range whisperLanguages {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		opts = append(opts, LanguageOption{Code: code, Name: namer.Name(tag)})
	}
	return opts
}

// SystemLanguage maps the process locale to a whisper language code,
// falling back to "auto" for locales outside the supported set.
func SystemLanguage() string {
	return languageForLocale(systemLocale())
}

func languageForLocale(locale string) string {
	if locale == "" {
		return "auto"
	}

	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return "auto"
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "auto"
	}

	code := base.String()
	for _, supported := range whisperLanguages {
		if code == supported {
			return code
		}
	}
	return "auto"
}

// systemLocale returns the locale the environment advertises, e.g. "en_US.UTF-8".
func systemLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			// Strip the encoding suffix; language.Parse rejects it.
			if i := strings.IndexByte(v, '.'); i > 0 {
				v = v[:i]
			}
			if v == "C" || v == "POSIX" {
				return ""
			}
			return v
		}
	}
	return ""
}

// defaultGPUAcceleration enables GPU by default only on Windows, where the
// CUDA build is the common distribution.
func defaultGPUAcceleration() bool {
	return runtime.GOOS == "windows"
}
