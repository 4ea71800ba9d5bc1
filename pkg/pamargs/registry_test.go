// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamargs

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yeetrun/pamargs/pkg/convert"
)

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry(Config{})
	if err := reg.Register(Flag("DEBUG", "")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	err := reg.Register(KeyValue("DEBUG", "", Converter{}))
	if !errors.Is(err, DuplicateName) {
		t.Fatalf("Register(duplicate) error = %v, want DuplicateName", err)
	}

	// Case differences are distinct names in a case-sensitive registry.
	if err := reg.Register(Flag("debug", "")); err != nil {
		t.Errorf("Register(debug) failed: %v", err)
	}

	ci := NewRegistry(Config{CaseInsensitive: true})
	ci.MustRegister(Flag("DEBUG", ""))
	if err := ci.Register(Flag("Debug", "")); !errors.Is(err, DuplicateName) {
		t.Errorf("case-insensitive Register(Debug) error = %v, want DuplicateName", err)
	}
}

func TestRegisterIsAtomic(t *testing.T) {
	reg := NewRegistry(Config{})
	err := reg.Register(Flag("A", ""), Flag("B", ""), Flag("A", ""))
	if !errors.Is(err, DuplicateName) {
		t.Fatalf("Register error = %v, want DuplicateName", err)
	}
	if got := len(reg.Definitions()); got != 0 {
		t.Errorf("len(Definitions()) = %d, want 0", got)
	}
}

func TestRegisterInvalidDefinition(t *testing.T) {
	var (
		s string
		n int
		b bool
	)
	tests := []struct {
		name string
		def  Definition
	}{
		{"empty name", Flag("", "")},
		{"separator in name", Flag("A=B", "")},
		{"whitespace in name", Flag(" A", "")},
		{"required flag", Flag("A", "", Required())},
		{"flag with allowed values", Flag("A", "", AllowedValues("x"))},
		{"flag with converter", Definition{Name: "A", Kind: KindFlag, Convert: Convert(convert.Int)}},
		{"dynamic with converter", Definition{Name: "A", Kind: KindDynamic, Convert: Convert(convert.Int)}},
		{"unknown kind", Definition{Name: "A"}},
		{"unknown formats", KeyValue("A", "", Converter{}, AcceptFormats(0x80))},
		{"flag bound to string", Flag("A", "", BindTo(&s))},
		{"int bound to string", KeyValue("A", "", Convert(convert.Int), BindTo(&s))},
		{"string bound to int", KeyValue("A", "", Converter{}, BindTo(&n))},
		{"dynamic bound to bool", Dynamic("A", "", BindTo(&b))},
		{"unsettable target", Flag("A", "", BindValue(reflect.ValueOf(b)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry(Config{}).Register(tt.def)
			if !errors.Is(err, InvalidDefinition) {
				t.Errorf("Register error = %v, want InvalidDefinition", err)
			}
		})
	}
}

func TestRegisterCompatibleBindings(t *testing.T) {
	type flagType bool
	var (
		b     flagType
		n     int
		np    *int
		s     string
		iface any
	)
	reg := NewRegistry(Config{})
	err := reg.Register(
		Flag("B", "", BindTo(&b)),
		KeyValue("N", "", Convert(convert.Int), BindTo(&n)),
		KeyValue("NP", "", Convert(convert.Int), BindTo(&np)),
		KeyValue("ANY", "", Convert(convert.Int), BindTo(&iface)),
		Dynamic("S", "", BindTo(&s)),
	)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
}

func TestConstraints(t *testing.T) {
	reg := NewRegistry(Config{CaseInsensitive: true})
	reg.MustRegister(Flag("DEBUG", ""), Flag("QUIET", ""), KeyValue("WIDTH", "", Converter{}))

	if err := reg.Conflicts("debug", "Quiet"); err != nil {
		t.Fatalf("Conflicts failed: %v", err)
	}
	if err := reg.DependsOn("WIDTH", "DEBUG"); err != nil {
		t.Fatalf("DependsOn failed: %v", err)
	}
	want := []Constraint{
		{Kind: Conflicts, A: "DEBUG", B: "QUIET"},
		{Kind: DependsOn, A: "WIDTH", B: "DEBUG"},
	}
	if diff := cmp.Diff(want, reg.Constraints()); diff != "" {
		t.Errorf("Constraints mismatch (-want +got):\n%s", diff)
	}

	var e *Error
	err := reg.Conflicts("DEBUG", "VERBOSE")
	if !errors.As(err, &e) || e.Kind != UnknownName || e.Name != "VERBOSE" {
		t.Errorf("Conflicts(unknown) error = %v, want UnknownName VERBOSE", err)
	}
	if err := reg.DependsOn("NOPE", "DEBUG"); !errors.Is(err, UnknownName) {
		t.Errorf("DependsOn(unknown) error = %v, want UnknownName", err)
	}
	if err := reg.Conflicts("DEBUG", "debug"); !errors.Is(err, InvalidDefinition) {
		t.Errorf("Conflicts(self) error = %v, want InvalidDefinition", err)
	}
	if err := reg.AddConstraint(Constraint{A: "DEBUG", B: "QUIET"}); !errors.Is(err, InvalidDefinition) {
		t.Errorf("AddConstraint(zero kind) error = %v, want InvalidDefinition", err)
	}
}

func TestRegistryFrozen(t *testing.T) {
	reg := NewRegistry(Config{})
	reg.MustRegister(Flag("A", ""), Flag("B", ""))
	if reg.Frozen() {
		t.Fatalf("Frozen() = true before Parse")
	}
	if _, err := reg.Parse(nil); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reg.Frozen() {
		t.Errorf("Frozen() = false after Parse")
	}
	if err := reg.Register(Flag("C", "")); !errors.Is(err, RegistryFrozen) {
		t.Errorf("Register after Parse error = %v, want RegistryFrozen", err)
	}
	if err := reg.Conflicts("A", "B"); !errors.Is(err, RegistryFrozen) {
		t.Errorf("Conflicts after Parse error = %v, want RegistryFrozen", err)
	}
	if err := reg.DependsOn("A", "B"); !errors.Is(err, RegistryFrozen) {
		t.Errorf("DependsOn after Parse error = %v, want RegistryFrozen", err)
	}
}

func TestLookup(t *testing.T) {
	reg := New(WithCaseInsensitive())
	reg.MustRegister(
		Flag("DEBUG", "enable debug"),
		KeyValue("WIDTH", "width", Convert(convert.Int), Required()),
	)
	d, ok := reg.Lookup("width")
	if !ok {
		t.Fatalf("Lookup(width) not found")
	}
	if d.Name != "WIDTH" || d.Kind != KindKeyValue || !d.Required {
		t.Errorf("Lookup(width) = %+v", d)
	}
	if got := d.Convert.OutputType(); got != reflect.TypeFor[int]() {
		t.Errorf("OutputType = %v, want int", got)
	}
	if _, ok := reg.Lookup("VERBOSE"); ok {
		t.Errorf("Lookup(VERBOSE) found, want missing")
	}

	var names []string
	for _, d := range reg.Definitions() {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"DEBUG", "WIDTH"}, names); diff != "" {
		t.Errorf("Definitions mismatch (-want +got):\n%s", diff)
	}
	if !reg.Config().CaseInsensitive {
		t.Errorf("Config().CaseInsensitive = false, want true")
	}
}
