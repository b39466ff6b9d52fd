// Package typer delivers text to whatever window currently holds input
// focus, as synthetic keystrokes.
package typer

// Typer injects text into the focused application.
type Typer interface {
	// Type synthesizes keystrokes reproducing text. A failure (for example a
	// missing accessibility permission) affects only this injection; callers
	// log it and keep the pipeline running.
	Type(text string) error
}

// New creates the platform-specific Typer.
func New() (Typer, error) {
	return newTyper()
}
