package trait

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/objckit/objckit/errors"
)

// Class declares one foreign class: its ancestors most-derived first, the
// protocols it conforms to, and the methods it provides directly.
// OwnsBacking declares the wrapper's backing policy; types that never own
// their object (singletons, borrowed views) set it false.
type Class struct {
	Name        string
	Ancestry    []string
	Protocols   []string
	Methods     []Method
	OwnsBacking bool
}

// Protocol declares a named capability set. Requires lists protocols this
// one extends.
type Protocol struct {
	Name     string
	Requires []string
	Methods  []Method
}

// Registry holds class and protocol declarations and validates the
// composition rules at registration and flatten time, before any code is
// generated or any message sent. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	classes   map[string]*Class
	protocols map[string]*Protocol
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes:   make(map[string]*Class),
		protocols: make(map[string]*Protocol),
	}
}

// RegisterProtocol validates and stores a protocol declaration. Required
// protocols may be registered later; the requirement graph is checked for
// cycles and unknowns when a class using them is flattened.
func (r *Registry) RegisterProtocol(p Protocol) error {
	if !validIdent(p.Name) {
		return errors.InvalidName(errors.PhaseCompose, p.Name)
	}
	for _, m := range p.Methods {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	for _, req := range p.Requires {
		if req == p.Name {
			return errors.Cycle(fmt.Sprintf("protocol %s requires itself", p.Name))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.protocols[p.Name]; exists {
		return errors.New(errors.PhaseCompose, errors.KindInvalidName).
			Detail("protocol %q registered twice", p.Name).
			Build()
	}
	cp := p
	r.protocols[p.Name] = &cp
	return nil
}

// RegisterClass validates and stores a class declaration. Ancestors must
// already be registered and the declared ancestry must match the direct
// superclass's chain, which keeps every registered chain linear.
func (r *Registry) RegisterClass(c Class) error {
	if !validIdent(c.Name) {
		return errors.InvalidName(errors.PhaseCompose, c.Name)
	}
	for _, m := range c.Methods {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.classes[c.Name]; exists {
		return errors.New(errors.PhaseCompose, errors.KindInvalidName).
			Detail("class %q registered twice", c.Name).
			Build()
	}

	if len(c.Ancestry) > 0 {
		super, ok := r.classes[c.Ancestry[0]]
		if !ok {
			return errors.UnknownAncestor(c.Name, c.Ancestry[0])
		}
		if !equalChain(c.Ancestry[1:], super.Ancestry) {
			return errors.New(errors.PhaseCompose, errors.KindUnknownAncestor).
				Class(c.Name).
				Detail("ancestry [%s] does not extend %s's chain", strings.Join(c.Ancestry, " "), super.Name).
				Build()
		}
	}

	cc := c
	r.classes[c.Name] = &cc
	return nil
}

// Class returns a registered class declaration.
func (r *Registry) Class(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// Classes returns the registered class names, sorted.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Protocol returns a registered protocol declaration.
func (r *Registry) Protocol(name string) (*Protocol, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.protocols[name]
	return p, ok
}

func equalChain(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
