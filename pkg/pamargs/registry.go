// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamargs

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ConstraintKind is the type of a cross-argument constraint.
type ConstraintKind int

const (
	// Conflicts forbids A and B from both being present.
	Conflicts ConstraintKind = iota + 1
	// DependsOn requires B whenever A is present.
	DependsOn
)

func (k ConstraintKind) String() string {
	switch k {
	case Conflicts:
		return "conflicts"
	case DependsOn:
		return "depends_on"
	}
	return fmt.Sprintf("ConstraintKind(%d)", int(k))
}

// Constraint relates two registered arguments.
type Constraint struct {
	Kind ConstraintKind
	A, B string
}

// Registry holds argument definitions and constraints. It is built once and
// becomes read-only at the first call to Parse, after which it may be used
// by any number of goroutines.
type Registry struct {
	cfg Config

	mu          sync.Mutex
	frozen      bool
	defs        []Definition
	index       map[string]int // normalized name -> defs index
	constraints []Constraint
}

// NewRegistry returns an empty Registry using cfg.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:   cfg,
		index: make(map[string]int),
	}
}

// Config returns the registry's configuration.
func (r *Registry) Config() Config {
	return r.cfg
}

func (r *Registry) normalize(name string) string {
	if r.cfg.CaseInsensitive {
		return foldKey(name)
	}
	return name
}

// Register adds defs. Either all of defs are registered or, on error, none.
func (r *Registry) Register(defs ...Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return &Error{Kind: RegistryFrozen}
	}
	sep := r.cfg.separator()
	batch := make(map[string]bool, len(defs))
	for _, d := range defs {
		if err := d.check(sep); err != nil {
			return &Error{Kind: InvalidDefinition, Name: d.Name, Err: err}
		}
		key := r.normalize(d.Name)
		if _, dup := r.index[key]; dup || batch[key] {
			return &Error{Kind: DuplicateName, Name: d.Name}
		}
		batch[key] = true
	}
	for _, d := range defs {
		d.Allowed = slices.Clone(d.Allowed)
		r.index[r.normalize(d.Name)] = len(r.defs)
		r.defs = append(r.defs, d)
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(defs ...Definition) *Registry {
	if err := r.Register(defs...); err != nil {
		panic(err)
	}
	return r
}

// Conflicts declares that a and b may not both be present.
func (r *Registry) Conflicts(a, b string) error {
	return r.addConstraint(Conflicts, a, b)
}

// DependsOn declares that a may only be present together with b.
func (r *Registry) DependsOn(a, b string) error {
	return r.addConstraint(DependsOn, a, b)
}

// AddConstraint adds c.
func (r *Registry) AddConstraint(c Constraint) error {
	return r.addConstraint(c.Kind, c.A, c.B)
}

func (r *Registry) addConstraint(kind ConstraintKind, a, b string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return &Error{Kind: RegistryFrozen}
	}
	if kind != Conflicts && kind != DependsOn {
		return &Error{Kind: InvalidDefinition, Name: a, Err: fmt.Errorf("unknown constraint kind %v", kind)}
	}
	ia, ok := r.index[r.normalize(a)]
	if !ok {
		return &Error{Kind: UnknownName, Name: a}
	}
	ib, ok := r.index[r.normalize(b)]
	if !ok {
		return &Error{Kind: UnknownName, Name: b}
	}
	if ia == ib {
		return &Error{Kind: InvalidDefinition, Name: a, Err: errors.New("an argument cannot be constrained against itself")}
	}
	r.constraints = append(r.constraints, Constraint{Kind: kind, A: r.defs[ia].Name, B: r.defs[ib].Name})
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[r.normalize(name)]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Definitions returns all definitions in registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.defs)
}

// Constraints returns all constraints in declaration order.
func (r *Registry) Constraints() []Constraint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.constraints)
}

// Frozen reports whether the registry has been used to parse.
func (r *Registry) Frozen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frozen
}

// freeze makes the registry read-only. After it returns, defs, index and
// constraints are never written again and may be read without the lock.
func (r *Registry) freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// lookupKey finds a definition by an already-normalized key. Only valid
// after freeze.
func (r *Registry) lookupKey(key string) (*Definition, bool) {
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return &r.defs[i], true
}
