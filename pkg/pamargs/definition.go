// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamargs

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Kind is the shape of an argument.
type Kind int

const (
	// KindFlag is a bare name such as DEBUG.
	KindFlag Kind = iota + 1
	// KindKeyValue is NAME=VALUE with a typed value.
	KindKeyValue
	// KindDynamic is a declared NAME=VALUE whose raw value is stored in the
	// dynamic mapping.
	KindDynamic
)

func (k Kind) String() string {
	switch k {
	case KindFlag:
		return "flag"
	case KindKeyValue:
		return "keyvalue"
	case KindDynamic:
		return "dynamic"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Format is a set of accepted token shapes for a KeyValue or Dynamic
// argument.
type Format uint8

const (
	FormatKeyValue  Format = 1 << iota // NAME=VALUE
	FormatKeyEquals                    // NAME= (empty value)
	FormatKeyOnly                      // NAME (presence only)

	// DefaultFormats is used when a definition does not set Formats.
	DefaultFormats = FormatKeyValue | FormatKeyEquals
	allFormats     = FormatKeyValue | FormatKeyEquals | FormatKeyOnly
)

func (f Format) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f&FormatKeyValue != 0 {
		parts = append(parts, "KEY=VALUE")
	}
	if f&FormatKeyEquals != 0 {
		parts = append(parts, "KEY=")
	}
	if f&FormatKeyOnly != 0 {
		parts = append(parts, "KEY")
	}
	return strings.Join(parts, "|")
}

// Definition describes one accepted argument. Use Flag, KeyValue or Dynamic
// to construct one.
type Definition struct {
	Name        string
	Kind        Kind
	Description string

	// Required is valid for KeyValue and Dynamic arguments.
	Required bool

	// Allowed restricts the raw value. Empty means unrestricted.
	Allowed []string

	// Convert converts KeyValue values. The zero Converter keeps the raw
	// string.
	Convert Converter

	// Formats are the accepted token shapes. Zero means DefaultFormats.
	Formats Format

	// Target, if valid, receives the value after a successful parse.
	Target reflect.Value
}

// DefinitionOption customizes a Definition.
type DefinitionOption func(*Definition)

// Flag defines a bare flag argument.
func Flag(name, description string, opts ...DefinitionOption) Definition {
	return newDefinition(Definition{Name: name, Kind: KindFlag, Description: description}, opts)
}

// KeyValue defines a NAME=VALUE argument whose value is converted by conv.
func KeyValue(name, description string, conv Converter, opts ...DefinitionOption) Definition {
	return newDefinition(Definition{Name: name, Kind: KindKeyValue, Description: description, Convert: conv}, opts)
}

// Dynamic defines a NAME=VALUE argument whose raw value is stored in the
// dynamic mapping.
func Dynamic(name, description string, opts ...DefinitionOption) Definition {
	return newDefinition(Definition{Name: name, Kind: KindDynamic, Description: description}, opts)
}

func newDefinition(d Definition, opts []DefinitionOption) Definition {
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Required marks the argument as required.
func Required() DefinitionOption {
	return func(d *Definition) { d.Required = true }
}

// AllowedValues restricts the argument to values.
func AllowedValues(values ...string) DefinitionOption {
	return func(d *Definition) { d.Allowed = append([]string(nil), values...) }
}

// AcceptFormats sets the accepted token shapes.
func AcceptFormats(f Format) DefinitionOption {
	return func(d *Definition) { d.Formats = f }
}

// BindTo binds the argument to *p. A Flag binds to a bool, a KeyValue to the
// converter's output type (or a pointer to it), a Dynamic to a string.
func BindTo[T any](p *T) DefinitionOption {
	return func(d *Definition) {
		if p == nil {
			d.Target = reflect.Value{}
			return
		}
		d.Target = reflect.ValueOf(p).Elem()
	}
}

// BindValue binds the argument to v, which must be settable.
func BindValue(v reflect.Value) DefinitionOption {
	return func(d *Definition) { d.Target = v }
}

func (d Definition) formats() Format {
	if d.Formats == 0 {
		return DefaultFormats
	}
	return d.Formats
}

// takesValue reports whether the definition stores a value.
func (d Definition) takesValue() bool {
	return d.Kind == KindKeyValue || d.Kind == KindDynamic
}

var (
	boolType   = reflect.TypeFor[bool]()
	stringType = reflect.TypeFor[string]()
)

// check validates d in isolation.
func (d Definition) check(sep string) error {
	switch {
	case d.Name == "":
		return errors.New("name is empty")
	case strings.Contains(d.Name, sep):
		return fmt.Errorf("name contains separator %q", sep)
	case strings.TrimSpace(d.Name) != d.Name:
		return errors.New("name has surrounding whitespace")
	}
	switch d.Kind {
	case KindFlag:
		if d.Required {
			return errors.New("a flag cannot be required")
		}
		if len(d.Allowed) > 0 {
			return errors.New("a flag cannot have allowed values")
		}
		if !d.Convert.IsZero() {
			return errors.New("a flag cannot have a converter")
		}
	case KindKeyValue:
	case KindDynamic:
		if !d.Convert.IsZero() {
			return errors.New("a dynamic argument stores raw values and cannot have a converter")
		}
	default:
		return fmt.Errorf("unknown kind %v", d.Kind)
	}
	if d.Formats&^allFormats != 0 {
		return fmt.Errorf("unknown format bits %#x", uint8(d.Formats&^allFormats))
	}
	return d.checkTarget()
}

func (d Definition) checkTarget() error {
	if !d.Target.IsValid() {
		return nil
	}
	if !d.Target.CanSet() {
		return errors.New("binding target is not settable")
	}
	var want reflect.Type
	switch d.Kind {
	case KindFlag:
		want = boolType
	case KindDynamic:
		want = stringType
	default:
		want = d.Convert.OutputType()
	}
	if _, ok := assignFunc(d.Target.Type(), want); !ok {
		return fmt.Errorf("cannot bind %v value to %v", want, d.Target.Type())
	}
	return nil
}

// assignFunc returns a function that stores a value of type from into a
// value of type to. Pointer targets receive a pointer to a copy.
func assignFunc(to, from reflect.Type) (func(dst, v reflect.Value), bool) {
	switch {
	case to.Kind() == reflect.Interface && from.Implements(to):
		return func(dst, v reflect.Value) { dst.Set(v) }, true
	case from.AssignableTo(to):
		return func(dst, v reflect.Value) { dst.Set(v) }, true
	case from.ConvertibleTo(to) && from.Kind() == to.Kind():
		return func(dst, v reflect.Value) { dst.Set(v.Convert(to)) }, true
	case to.Kind() == reflect.Pointer && from.AssignableTo(to.Elem()):
		return func(dst, v reflect.Value) {
			p := reflect.New(to.Elem())
			p.Elem().Set(v)
			dst.Set(p)
		}, true
	}
	return nil, false
}
