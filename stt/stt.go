// Package stt provides speech-to-text provider interface and implementations.
package stt

// minSamples is 0.1 s at 16 kHz; anything shorter is returned as empty text
// without touching the model.
const minSamples = 1600

// Provider converts recorded audio into text. Implementations are not safe
// for concurrent Transcribe calls; the voice processor serializes all calls
// onto one worker goroutine.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// DisplayName returns the human-readable provider name.
	DisplayName() string

	// IsLocal returns true if the provider runs without network calls.
	IsLocal() bool

	// Mode reports the backend the provider ended up on after
	// initialization, e.g. "GPU" or "CPU".
	Mode() string

	// Transcribe converts mono 16 kHz float32 samples to text. language is a
	// whisper language code; "" or "auto" means detect. An empty result
	// means no speech, not an error.
	Transcribe(samples []float32, language string) (string, error)

	// Close releases resources held by the provider.
	Close() error
}

// Registry holds registered STT providers.
type Registry struct {
	providers map[string]Provider
	order     []string
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	if _, ok := r.providers[p.Name()]; !ok {
		r.order = append(r.order, p.Name())
	}
	r.providers[p.Name()] = p
}

// Get returns a provider by name, or nil.
func (r *Registry) Get(name string) Provider {
	return r.providers[name]
}

// List returns all registered providers in registration order.
func (r *Registry) List() []Provider {
	result := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.providers[name])
	}
	return result
}

// Close releases all providers.
func (r *Registry) Close() error {
	var firstErr error
	for _, p := range r.providers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
