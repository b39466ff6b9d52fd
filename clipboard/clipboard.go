//go:build !darwin

// Package clipboard wraps system clipboard access for copying
// transcripts back out of the history view.
package clipboard

import (
	"errors"

	"github.com/wailsapp/wails/v3/pkg/application"
)

func GetText(app *application.App) (string, error) {
	text, ok := app.Clipboard.Text()
	if !ok {
		return "", errors.New("failed to get clipboard content")
	}
	return text, nil
}

func SetText(app *application.App, text string) error {
	if ok := app.Clipboard.SetText(text); !ok {
		return errors.New("failed to set clipboard content")
	}
	return nil
}
