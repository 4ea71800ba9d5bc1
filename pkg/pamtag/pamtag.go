// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pamtag derives argument definitions from struct tags and renders
// structs back into module arguments.
//
// Example:
//
//	type Options struct {
//	    Debug   bool          `pam:"DEBUG" help:"enable debug logging"`
//	    Quiet   bool          `pam:"QUIET" conflicts:"DEBUG"`
//	    Width   int           `pam:"WIDTH" default:"80"`
//	    Align   string        `pam:"ALIGN" allowed:"LEFT,CENTER,RIGHT"`
//	    Port    uint16        `pam:"PORT" port:"1024-65535"`
//	    Timeout time.Duration `pam:"TIMEOUT" depends:"DEBUG"`
//	    Host    string        `pam:"HOST,dynamic" required:"true"`
//	}
//
//	var opts Options
//	reg := pamargs.NewRegistry(pamargs.Config{})
//	if err := pamtag.Register(reg, &opts); err != nil { ... }
//	if _, err := reg.Parse(argv); err != nil { ... }
//
// Bool fields become Flags, fields tagged ",dynamic" become Dynamic
// arguments and all other fields become KeyValue arguments bound to the
// field. A default tag is applied to the field when the definitions are
// built, so it survives when the argument is absent.
package pamtag

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/yeetrun/pamargs/pkg/convert"
	"github.com/yeetrun/pamargs/pkg/pamargs"
)

// FieldError is returned when a tagged field cannot be turned into a
// definition.
type FieldError struct {
	Field string // The struct field name (e.g., "Width")
	Name  string // The argument name from the pam tag
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s (%s): %v", e.Field, e.Name, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

type tagOptions struct {
	name    string
	dynamic bool
	keyOnly bool
}

func parseTag(tag string) tagOptions {
	name, rest, _ := strings.Cut(tag, ",")
	o := tagOptions{name: name}
	for _, opt := range strings.Split(rest, ",") {
		switch strings.TrimSpace(opt) {
		case "dynamic":
			o.dynamic = true
		case "keyonly":
			o.keyOnly = true
		}
	}
	return o
}

// Definitions builds definitions from the pam-tagged fields of the struct
// pointed to by ptr. Each definition is bound to its field.
func Definitions(ptr any) ([]pamargs.Definition, error) {
	v, err := structValue(ptr)
	if err != nil {
		return nil, err
	}
	t := v.Type()
	var defs []pamargs.Definition
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		// Skip unexported fields
		if !field.CanSet() {
			continue
		}
		tag, ok := fieldType.Tag.Lookup("pam")
		if !ok || tag == "-" {
			continue
		}
		opts := parseTag(tag)
		if opts.name == "" {
			opts.name = strings.ToUpper(fieldType.Name)
		}
		def, err := fieldDefinition(field, fieldType, opts)
		if err != nil {
			return nil, &FieldError{Field: fieldType.Name, Name: opts.name, Err: err}
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func structValue(ptr any) (reflect.Value, error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, errors.New("pamtag: value must be a non-nil pointer to a struct")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("pamtag: value must point to a struct, got %s", v.Kind())
	}
	return v, nil
}

func fieldDefinition(field reflect.Value, sf reflect.StructField, opts tagOptions) (pamargs.Definition, error) {
	help := sf.Tag.Get("help")
	var defOpts []pamargs.DefinitionOption
	if sf.Tag.Get("required") == "true" {
		defOpts = append(defOpts, pamargs.Required())
	}
	if allowed := sf.Tag.Get("allowed"); allowed != "" {
		defOpts = append(defOpts, pamargs.AllowedValues(splitList(allowed)...))
	}
	if opts.keyOnly {
		defOpts = append(defOpts, pamargs.AcceptFormats(pamargs.DefaultFormats|pamargs.FormatKeyOnly))
	}
	defOpts = append(defOpts, pamargs.BindValue(field))

	if field.Kind() == reflect.Bool {
		if def := sf.Tag.Get("default"); def != "" {
			return pamargs.Definition{}, errors.New("a flag cannot have a default")
		}
		return pamargs.Flag(opts.name, help, defOpts...), nil
	}

	if opts.dynamic {
		if field.Kind() != reflect.String {
			return pamargs.Definition{}, fmt.Errorf("dynamic arguments must be strings, got %s", field.Type())
		}
		if def := sf.Tag.Get("default"); def != "" {
			field.SetString(def)
		}
		return pamargs.Dynamic(opts.name, help, defOpts...), nil
	}

	conv, err := converterFor(field.Type(), sf.Tag.Get("port"))
	if err != nil {
		return pamargs.Definition{}, err
	}
	if def := sf.Tag.Get("default"); def != "" {
		if err := applyDefault(field, conv, def); err != nil {
			return pamargs.Definition{}, err
		}
	}
	return pamargs.KeyValue(opts.name, help, conv, defOpts...), nil
}

var (
	durationType = reflect.TypeFor[time.Duration]()
	urlPtrType   = reflect.TypeFor[*url.URL]()
	addrType     = reflect.TypeFor[netip.Addr]()
	prefixType   = reflect.TypeFor[netip.Prefix]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
	semverType   = reflect.TypeFor[*semver.Version]()
)

// converterFor picks the converter for a field type. Pointer fields use the
// converter of their element type; the binding step allocates.
func converterFor(t reflect.Type, portRange string) (pamargs.Converter, error) {
	if portRange != "" {
		if t.Kind() != reflect.Uint16 && !(t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Uint16) {
			return pamargs.Converter{}, fmt.Errorf("port tag requires a uint16 field, got %s", t)
		}
		lo, hi, err := convert.ParsePortRange(portRange)
		if err != nil {
			return pamargs.Converter{}, err
		}
		return pamargs.Convert(convert.Port(lo, hi)), nil
	}

	switch t {
	case durationType:
		return pamargs.Convert(convert.Duration), nil
	case urlPtrType:
		return pamargs.Convert(convert.URL), nil
	case addrType:
		return pamargs.Convert(convert.Addr), nil
	case prefixType:
		return pamargs.Convert(convert.Prefix), nil
	case uuidType:
		return pamargs.Convert(convert.UUID), nil
	case semverType:
		return pamargs.Convert(convert.Semver), nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		return converterFor(t.Elem(), "")
	case reflect.String:
		return pamargs.Converter{}, nil
	case reflect.Int:
		return pamargs.Convert(convert.Int), nil
	case reflect.Int64:
		return pamargs.Convert(convert.Int64), nil
	case reflect.Uint:
		return pamargs.Convert(convert.Uint), nil
	case reflect.Uint16:
		return pamargs.Convert(convert.Port(0, 65535)), nil
	case reflect.Float64:
		return pamargs.Convert(convert.Float64), nil
	case reflect.Int32:
		if t == reflect.TypeFor[rune]() {
			return pamargs.Convert(convert.Char), nil
		}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			return pamargs.Convert(convert.List(convert.String)), nil
		}
		if t.Elem().Kind() == reflect.Int {
			return pamargs.Convert(convert.List(convert.Int)), nil
		}
	}
	return pamargs.Converter{}, fmt.Errorf("unsupported field type %s", t)
}

// applyDefault converts def and stores it in field.
func applyDefault(field reflect.Value, conv pamargs.Converter, def string) error {
	v, err := conv.Apply(def)
	if err != nil {
		return fmt.Errorf("invalid default %q: %w", def, err)
	}
	return setField(field, reflect.ValueOf(v))
}

func setField(field reflect.Value, v reflect.Value) error {
	switch {
	case !v.IsValid():
		field.Set(reflect.Zero(field.Type()))
	case v.Type().AssignableTo(field.Type()):
		field.Set(v)
	case v.Type().ConvertibleTo(field.Type()) && v.Kind() == field.Kind():
		field.Set(v.Convert(field.Type()))
	case field.Kind() == reflect.Pointer && v.Type().AssignableTo(field.Type().Elem()):
		p := reflect.New(field.Type().Elem())
		p.Elem().Set(v)
		field.Set(p)
	default:
		return fmt.Errorf("cannot store %s in %s", v.Type(), field.Type())
	}
	return nil
}

// Register registers the definitions of ptr in reg, then the constraints
// from conflicts:"A,B" and depends:"A" tags.
func Register(reg *pamargs.Registry, ptr any) error {
	defs, err := Definitions(ptr)
	if err != nil {
		return err
	}
	if err := reg.Register(defs...); err != nil {
		return err
	}
	v, _ := structValue(ptr)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup("pam")
		if !ok || tag == "-" || !sf.IsExported() {
			continue
		}
		name := parseTag(tag).name
		if name == "" {
			name = strings.ToUpper(sf.Name)
		}
		for _, other := range splitList(sf.Tag.Get("conflicts")) {
			if err := reg.Conflicts(name, other); err != nil {
				return &FieldError{Field: sf.Name, Name: name, Err: err}
			}
		}
		for _, other := range splitList(sf.Tag.Get("depends")) {
			if err := reg.DependsOn(name, other); err != nil {
				return &FieldError{Field: sf.Name, Name: name, Err: err}
			}
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
