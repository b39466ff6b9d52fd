// Package langdetect identifies the language of a transcript.
package langdetect

import (
	"errors"
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"

	// Register the embedded models for every language in candidates; the
	// replaced lingua-go ships models as per-language subpackages.
	_ "github.com/pemistahl/lingua-go/language-models/ar"
	_ "github.com/pemistahl/lingua-go/language-models/de"
	_ "github.com/pemistahl/lingua-go/language-models/en"
	_ "github.com/pemistahl/lingua-go/language-models/es"
	_ "github.com/pemistahl/lingua-go/language-models/fr"
	_ "github.com/pemistahl/lingua-go/language-models/hi"
	_ "github.com/pemistahl/lingua-go/language-models/it"
	_ "github.com/pemistahl/lingua-go/language-models/ja"
	_ "github.com/pemistahl/lingua-go/language-models/ko"
	_ "github.com/pemistahl/lingua-go/language-models/pt"
	_ "github.com/pemistahl/lingua-go/language-models/ru"
	_ "github.com/pemistahl/lingua-go/language-models/th"
	_ "github.com/pemistahl/lingua-go/language-models/zh"
)

// ErrUndetermined is returned when the text is too short or ambiguous
// to classify.
var ErrUndetermined = errors.New("language could not be determined")

// candidates mirrors the recognition languages offered in settings, so
// detection never reports a language transcription cannot produce.
var candidates = []lingua.Language{
	lingua.English,
	lingua.Chinese,
	lingua.Japanese,
	lingua.Korean,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Russian,
	lingua.Arabic,
	lingua.Portuguese,
	lingua.Italian,
	lingua.Hindi,
	lingua.Thai,
}

var (
	buildOnce sync.Once
	detector  lingua.LanguageDetector
)

// Result names a detected language.
type Result struct {
	Code string `json:"code"` // ISO 639-1, lowercase
	Name string `json:"name"` // English display name
}

// Detect classifies text. The detector is built lazily on first use
// since loading the language models is not free.
func Detect(text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, ErrUndetermined
	}
	buildOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			Build()
	})
	lang, ok := detector.DetectLanguageOf(text)
	if !ok {
		return Result{}, ErrUndetermined
	}
	return Result{
		Code: strings.ToLower(lang.IsoCode639_1().String()),
		Name: lang.String(),
	}, nil
}
