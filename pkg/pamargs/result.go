// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamargs

import (
	"maps"
	"slices"

	"tailscale.com/util/mak"
	"tailscale.com/util/set"
)

// outcome accumulates state during a single Parse call.
type outcome struct {
	seen    set.Set[string]   // canonical names of present arguments
	values  map[string]any    // converted KeyValue values
	raw     map[string]string // raw KeyValue and Dynamic values
	dynamic map[string]string
	text    []string
}

func newOutcome() *outcome {
	return &outcome{seen: make(set.Set[string])}
}

func (o *outcome) setValue(name, raw string, v any) {
	o.seen.Add(name)
	mak.Set(&o.values, name, v)
	mak.Set(&o.raw, name, raw)
}

// setPresent records a value-less occurrence, dropping any earlier value,
// including a declared dynamic argument's entry in the dynamic mapping.
func (o *outcome) setPresent(name string) {
	o.seen.Add(name)
	delete(o.values, name)
	delete(o.raw, name)
	delete(o.dynamic, name)
}

func (o *outcome) setDynamic(key, raw string) {
	mak.Set(&o.dynamic, key, raw)
}

// Result is the immutable outcome of a successful Parse. Accessors accept
// names in any case when the registry is case-insensitive.
type Result struct {
	reg     *Registry
	seen    set.Set[string]
	values  map[string]any
	raw     map[string]string
	dynamic map[string]string
	text    []string
}

func (o *outcome) result(reg *Registry) *Result {
	return &Result{
		reg:     reg,
		seen:    o.seen,
		values:  o.values,
		raw:     o.raw,
		dynamic: o.dynamic,
		text:    o.text,
	}
}

func (r *Result) canonical(name string) string {
	if d, ok := r.reg.lookupKey(r.reg.normalize(name)); ok {
		return d.Name
	}
	return name
}

// Has reports whether the named argument was present.
func (r *Result) Has(name string) bool {
	return r.seen.Contains(r.canonical(name))
}

// Flag reports whether the named flag was present.
func (r *Result) Flag(name string) bool {
	return r.Has(name)
}

// Value returns the converted value of a KeyValue argument.
func (r *Result) Value(name string) (any, bool) {
	v, ok := r.values[r.canonical(name)]
	return v, ok
}

// Raw returns the raw value of a KeyValue or Dynamic argument, after
// unquoting if the registry unquotes values.
func (r *Result) Raw(name string) (string, bool) {
	v, ok := r.raw[r.canonical(name)]
	return v, ok
}

// Get returns the converted value of the named argument as a T. It reports
// false if the argument is absent or its value is not a T.
func Get[T any](r *Result, name string) (T, bool) {
	v, ok := r.Value(name)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Dynamic returns a copy of the dynamic key-value mapping.
func (r *Result) Dynamic() map[string]string {
	return maps.Clone(r.dynamic)
}

// DynamicValue returns one entry of the dynamic mapping. Declared Dynamic
// arguments are found by name; undeclared keys are normalized like names.
func (r *Result) DynamicValue(key string) (string, bool) {
	if d, ok := r.reg.lookupKey(r.reg.normalize(key)); ok {
		v, ok := r.dynamic[d.Name]
		return v, ok
	}
	v, ok := r.dynamic[r.reg.normalize(key)]
	return v, ok
}

// NonArgumentText returns the collected free text in input order.
func (r *Result) NonArgumentText() []string {
	return slices.Clone(r.text)
}

// Names returns the names of present arguments in registration order.
func (r *Result) Names() []string {
	var out []string
	for _, d := range r.reg.defs {
		if r.seen.Contains(d.Name) {
			out = append(out, d.Name)
		}
	}
	return out
}
