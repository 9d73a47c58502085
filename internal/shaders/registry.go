package shaders

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrDuplicate    = errors.New("shader already registered")
	ErrNotFound     = errors.New("shader not registered")
	ErrMissingStage = errors.New("shader stage missing")
)

// Program is a named set of GLSL stage sources. Geometry and the two
// tessellation stages are optional; the tessellation stages come as a pair.
type Program struct {
	Name        string
	Vertex      string
	Fragment    string
	Geometry    string
	TessControl string
	TessEval    string
}

// Tessellated reports whether the program has tessellation stages.
func (p Program) Tessellated() bool {
	return p.TessControl != "" && p.TessEval != ""
}

// Validate checks that the stage combination can be linked.
func (p Program) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: empty program name", ErrMissingStage)
	}
	if strings.TrimSpace(p.Vertex) == "" {
		return fmt.Errorf("%w: %s has no vertex stage", ErrMissingStage, p.Name)
	}
	if strings.TrimSpace(p.Fragment) == "" {
		return fmt.Errorf("%w: %s has no fragment stage", ErrMissingStage, p.Name)
	}
	if (p.TessControl == "") != (p.TessEval == "") {
		return fmt.Errorf("%w: %s needs both tessellation stages", ErrMissingStage, p.Name)
	}
	return nil
}

// Registry maps names to programs. Entries are never replaced.
type Registry struct {
	mu       sync.RWMutex
	programs map[string]Program
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{programs: make(map[string]Program)}
}

// Register adds p under p.Name.
func (r *Registry) Register(p Program) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.programs[p.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, p.Name)
	}
	r.programs[p.Name] = p
	return nil
}

// Lookup returns the program registered under name.
func (r *Registry) Lookup(name string) (Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.programs[name]
	if !ok {
		return Program{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.programs[name]
	return ok
}

// Names returns registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.programs))
	for name := range r.programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
