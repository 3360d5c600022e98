package language

// Unknown is the explicit code recorded when detection fails or the text is
// too short to classify (ISO 639 "undetermined").
const Unknown = "und"

// Capability is a per-language implementation of the enrichment stages.
// Implementations are pure: no I/O, no shared mutable state, safe for
// concurrent use across worker goroutines.
type Capability interface {
	Code() string
	Tokenize(text string) []string
	RemoveStopwords(tokens []string) []string
	// Lemmatize returns the lemma sequence for the tokens, or nil when the
	// language has no lemmatizer; the document keeps its tokens either way.
	Lemmatize(tokens []string) []string
}

// Registry keeps a mapping from language codes to their capabilities.
// Codes without a registered capability resolve to a shared no-op, so an
// unsupported language degrades to storing the document without enrichment.
type Registry struct {
	capabilities map[string]Capability
	fallback     Capability
}

// NewRegistry builds an empty registry with the no-op fallback.
func NewRegistry() *Registry {
	return &Registry{
		capabilities: map[string]Capability{},
		fallback:     noop{},
	}
}

// Register adds or replaces a capability implementation.
func (r *Registry) Register(capability Capability) {
	if r.capabilities == nil {
		r.capabilities = map[string]Capability{}
	}
	r.capabilities[capability.Code()] = capability
}

// Resolve returns the capability for a code, or the no-op fallback.
func (r *Registry) Resolve(code string) Capability {
	if capability, ok := r.capabilities[code]; ok {
		return capability
	}
	return r.fallback
}

// Supported reports whether a dedicated capability exists for the code.
func (r *Registry) Supported(code string) bool {
	_, ok := r.capabilities[code]
	return ok
}

// DefaultRegistry wires the capabilities shipped with the service: English
// and French with dictionary lemmatization, Arabic without one.
func DefaultRegistry() (*Registry, error) {
	registry := NewRegistry()

	english, err := NewEnglish()
	if err != nil {
		return nil, err
	}
	registry.Register(english)

	french, err := NewFrench()
	if err != nil {
		return nil, err
	}
	registry.Register(french)

	registry.Register(NewArabic())

	return registry, nil
}

// noop is the fallback capability for unsupported languages; every stage
// yields nothing.
type noop struct{}

func (noop) Code() string                      { return Unknown }
func (noop) Tokenize(string) []string          { return nil }
func (noop) RemoveStopwords([]string) []string { return nil }
func (noop) Lemmatize([]string) []string       { return nil }
