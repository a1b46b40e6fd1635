package parse

import (
	"fmt"
	"strings"
	"sync"
)

// Constructor builds a fresh Parser.
type Constructor func() Parser

// Registry maps filename extensions to parser constructors. Lookups are
// case-insensitive on the part of the filename after its first dot; a
// distinguished default covers filenames with no or no matching extension.
type Registry struct {
	mu       sync.Mutex
	parsers  map[string]Constructor
	fallback Constructor
}

// NewRegistry returns a registry with the built-in bindings: csv and flat by
// extension, plain CSV as the default.
func NewRegistry() *Registry {
	return &Registry{
		parsers: map[string]Constructor{
			"csv":  func() Parser { return CSVParser{} },
			"flat": func() Parser { return FlatParser{} },
		},
		fallback: func() Parser { return CSVParser{} },
	}
}

// Add registers a constructor for a new extension. It fails when the
// extension is already bound; use Replace for that.
func (r *Registry) Add(ext string, fn Constructor) error {
	ext = strings.ToLower(ext)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.parsers[ext]; ok {
		return fmt.Errorf("parser already registered for extension %q", ext)
	}
	r.parsers[ext] = fn
	return nil
}

// Replace swaps the constructor for an already-bound extension.
func (r *Registry) Replace(ext string, fn Constructor) error {
	ext = strings.ToLower(ext)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.parsers[ext]; !ok {
		return fmt.Errorf("no parser registered for extension %q", ext)
	}
	r.parsers[ext] = fn
	return nil
}

// SetDefault swaps the fallback constructor.
func (r *Registry) SetDefault(fn Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = fn
}

// ForFile creates the parser bound to the filename's extension, or the
// default when the name has none or an unknown one.
func (r *Registry) ForFile(filename string) Parser {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dot := strings.Index(filename, "."); dot != -1 && dot != len(filename)-1 {
		ext := strings.ToLower(filename[dot+1:])
		if fn, ok := r.parsers[ext]; ok {
			return fn()
		}
	}
	return r.fallback()
}

// Configure rebinds the registry from configuration values: defaultName
// selects the fallback parser and byExt binds individual extensions. Parser
// names resolve at configure time, so a typo fails here rather than on
// first use.
func (r *Registry) Configure(defaultName string, byExt map[string]string) error {
	if defaultName != "" {
		fn, err := constructorFor(defaultName)
		if err != nil {
			return err
		}
		r.SetDefault(fn)
	}
	for ext, name := range byExt {
		fn, err := constructorFor(name)
		if err != nil {
			return err
		}
		ext = strings.ToLower(ext)
		r.mu.Lock()
		r.parsers[ext] = fn
		r.mu.Unlock()
	}
	return nil
}

func constructorFor(name string) (Constructor, error) {
	switch strings.ToLower(name) {
	case "csv":
		return func() Parser { return CSVParser{} }, nil
	case "flat":
		return func() Parser { return FlatParser{} }, nil
	case "quoted":
		return func() Parser { return QuotedParser{} }, nil
	}
	return nil, fmt.Errorf("unknown parser name %q", name)
}
