package trait

import (
	"fmt"

	"github.com/objckit/objckit/errors"
)

// Composed is one method in a class's flattened capability surface,
// tagged with the trait that contributed it.
type Composed struct {
	Method
	Source string
}

type methodKey struct {
	sel         string
	classMethod bool
}

// Flatten composes a class's full method surface: its own methods, its
// ancestors' (most-derived first), and every conformed protocol's,
// transitively through protocol requirements.
//
// Collision rules: along the class chain the most-derived declaration
// wins. A protocol method colliding with the chain or with another
// protocol must be signature-compatible; incompatible collisions are
// composition errors, so they can never surface at dispatch time.
func (r *Registry) Flatten(name string) ([]Composed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[name]
	if !ok {
		return nil, errors.New(errors.PhaseCompose, errors.KindNotFound).
			Class(name).
			Detail("class not registered").
			Build()
	}

	var out []Composed
	seen := make(map[methodKey]Composed)

	// Class chain, most-derived first. Later declarations of a selector
	// already seen are overridden ancestors; the derived default wins.
	chain := append([]string{c.Name}, c.Ancestry...)
	for _, cls := range chain {
		decl := r.classes[cls]
		if decl == nil {
			return nil, errors.UnknownAncestor(name, cls)
		}
		for _, m := range decl.Methods {
			key := methodKey{m.Sel, m.ClassMethod}
			if _, dup := seen[key]; dup {
				continue
			}
			cm := Composed{Method: m, Source: cls}
			seen[key] = cm
			out = append(out, cm)
		}
	}

	// Protocols conformed to anywhere along the chain, expanded through
	// their requirements.
	protos, err := r.expandProtocols(chainProtocols(r, chain))
	if err != nil {
		return nil, err
	}
	for _, pname := range protos {
		p := r.protocols[pname]
		for _, m := range p.Methods {
			key := methodKey{m.Sel, m.ClassMethod}
			if prev, dup := seen[key]; dup {
				if !prev.Compatible(m) {
					return nil, errors.SelectorCollision(name, m.Sel, prev.Source, pname)
				}
				continue
			}
			cm := Composed{Method: m, Source: pname}
			seen[key] = cm
			out = append(out, cm)
		}
	}

	return out, nil
}

// Surface returns the subset of Flatten that a generated wrapper for this
// class declares itself: the class's own methods plus those of protocols
// it introduces. Everything else arrives through the embedded ancestor
// wrapper.
func (r *Registry) Surface(name string) ([]Composed, error) {
	flat, err := r.Flatten(name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c := r.classes[name]
	introduced := map[string]bool{name: true}

	own, err := r.expandProtocols(c.Protocols)
	if err != nil {
		return nil, err
	}
	inherited := make(map[string]bool)
	if len(c.Ancestry) > 0 {
		sup, err := r.expandProtocols(chainProtocols(r, c.Ancestry))
		if err != nil {
			return nil, err
		}
		for _, p := range sup {
			inherited[p] = true
		}
	}
	for _, p := range own {
		if !inherited[p] {
			introduced[p] = true
		}
	}

	var out []Composed
	for _, cm := range flat {
		if introduced[cm.Source] {
			out = append(out, cm)
		}
	}
	return out, nil
}

// chainProtocols collects protocol names declared along a class chain,
// most-derived first, preserving order.
func chainProtocols(r *Registry, chain []string) []string {
	var names []string
	for _, cls := range chain {
		if decl := r.classes[cls]; decl != nil {
			names = append(names, decl.Protocols...)
		}
	}
	return names
}

// expandProtocols resolves protocol names through their requirements,
// depth-first, erroring on unknowns and cycles. Callers hold r.mu.
func (r *Registry) expandProtocols(names []string) ([]string, error) {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)
	var out []string

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return errors.Cycle(fmt.Sprintf("protocol requirement cycle through %s", name))
		}
		p, ok := r.protocols[name]
		if !ok {
			from := "?"
			if len(path) > 0 {
				from = path[len(path)-1]
			}
			return errors.UnknownProtocol(from, name)
		}
		state[name] = visiting
		for _, req := range p.Requires {
			if err := visit(req, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		out = append(out, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}
