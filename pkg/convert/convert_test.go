// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convert

import (
	"errors"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true}, {"YES", true}, {"On", true}, {"1", true},
		{"false", false}, {"no", false}, {"OFF", false}, {"0", false},
		{" yes ", true},
	}
	for _, tt := range tests {
		got, err := Bool(tt.in)
		if err != nil {
			t.Errorf("Bool(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Bool(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := Bool("maybe"); err == nil {
		t.Errorf("Bool(maybe) succeeded, want error")
	}
}

func TestNumbers(t *testing.T) {
	if got, err := Int("80"); err != nil || got != 80 {
		t.Errorf("Int(80) = %v, %v, want 80, nil", got, err)
	}
	if got, err := Int64("-9000000000"); err != nil || got != -9000000000 {
		t.Errorf("Int64 = %v, %v", got, err)
	}
	if got, err := Uint("7"); err != nil || got != 7 {
		t.Errorf("Uint(7) = %v, %v", got, err)
	}
	if got, err := Float64("1.5"); err != nil || got != 1.5 {
		t.Errorf("Float64(1.5) = %v, %v", got, err)
	}

	_, err := Int("abc")
	var ce *ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("Int(abc) error = %v, want *ConversionError", err)
	}
	if ce.Value != "abc" || ce.Type != "int" {
		t.Errorf("ConversionError = %+v, want Value=abc Type=int", ce)
	}
	if want := `invalid int value "abc": invalid syntax`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if _, err := Uint("-1"); err == nil {
		t.Errorf("Uint(-1) succeeded, want error")
	}
}

func TestDurationAndChar(t *testing.T) {
	if got, err := Duration("1m30s"); err != nil || got != 90*time.Second {
		t.Errorf("Duration(1m30s) = %v, %v", got, err)
	}
	if _, err := Duration("soon"); err == nil {
		t.Errorf("Duration(soon) succeeded, want error")
	}
	if got, err := Char("é"); err != nil || got != 'é' {
		t.Errorf("Char(é) = %q, %v", got, err)
	}
	for _, in := range []string{"", "ab"} {
		if _, err := Char(in); err == nil {
			t.Errorf("Char(%q) succeeded, want error", in)
		}
	}
}

func TestEnumAndOneOf(t *testing.T) {
	type align int
	const (
		up align = iota
		down
	)
	conv := Enum(map[string]align{"UP": up, "DOWN": down})
	if got, err := conv("down"); err != nil || got != down {
		t.Errorf("Enum(down) = %v, %v, want %v", got, err, down)
	}
	_, err := conv("LEFT")
	if err == nil || !strings.Contains(err.Error(), "DOWN, UP") {
		t.Errorf("Enum(LEFT) error = %v, want list of values", err)
	}

	one := OneOf("UP", "DOWN")
	if _, err := one("UP"); err != nil {
		t.Errorf("OneOf(UP) failed: %v", err)
	}
	if _, err := one("up"); err == nil {
		t.Errorf("OneOf(up) succeeded, want case-sensitive error")
	}
}

func TestWithValidation(t *testing.T) {
	width := WithValidation(Int, Range(1, 200))
	if got, err := width("80"); err != nil || got != 80 {
		t.Errorf("width(80) = %v, %v", got, err)
	}
	_, err := width("500")
	var ce *ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("width(500) error = %v, want *ConversionError", err)
	}
	if !strings.Contains(ce.Err.Error(), "greater than maximum 200") {
		t.Errorf("cause = %v, want maximum violation", ce.Err)
	}

	name := WithValidation(String, LengthRange(1, 3), nil)
	if _, err := name(""); err == nil {
		t.Errorf("name(\"\") succeeded, want min length error")
	}
	if _, err := name("abcd"); err == nil {
		t.Errorf("name(abcd) succeeded, want max length error")
	}
	if _, err := WithValidation(String, LengthRange(0, -1))(strings.Repeat("x", 1000)); err != nil {
		t.Errorf("unbounded length failed: %v", err)
	}
}

func TestChainValidators(t *testing.T) {
	var calls []string
	v := func(name string, fail bool) func(int) error {
		return func(int) error {
			calls = append(calls, name)
			if fail {
				return errors.New(name)
			}
			return nil
		}
	}
	err := ChainValidators(v("a", false), v("b", true), v("c", false))(1)
	if err == nil || err.Error() != "b" {
		t.Errorf("err = %v, want b", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestOptional(t *testing.T) {
	conv := Optional(Int)
	for _, in := range []string{"", "none", "NULL", " None "} {
		got, err := conv(in)
		if err != nil || got != nil {
			t.Errorf("Optional(%q) = %v, %v, want nil, nil", in, got, err)
		}
	}
	got, err := conv("5")
	if err != nil || got == nil || *got != 5 {
		t.Errorf("Optional(5) = %v, %v, want 5", got, err)
	}
	if _, err := conv("x"); err == nil {
		t.Errorf("Optional(x) succeeded, want error")
	}
}

func TestList(t *testing.T) {
	got, err := List(String)(`a, "b,c" ,'d'`)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b,c", "d"}, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	ints, err := List(Int)("1,2,3")
	if err != nil {
		t.Fatalf("List(Int) failed: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, ints); diff != "" {
		t.Errorf("List(Int) mismatch (-want +got):\n%s", diff)
	}
	if got, err := List(Int)(""); err != nil || len(got) != 0 {
		t.Errorf("List(\"\") = %v, %v, want empty", got, err)
	}
	_, err = List(Int)("1,x")
	if err == nil || !strings.Contains(err.Error(), "element 1") {
		t.Errorf("List(1,x) error = %v, want element 1 failure", err)
	}
}

func TestUnquote(t *testing.T) {
	got, err := Unquote(String)(`"hello world"`)
	if err != nil || got != "hello world" {
		t.Errorf("Unquote = %q, %v", got, err)
	}
}

func TestNetworkTypes(t *testing.T) {
	if _, err := URL("https://example.com/x"); err != nil {
		t.Errorf("URL failed: %v", err)
	}
	if _, err := URL("example.com"); err == nil {
		t.Errorf("URL without scheme succeeded, want error")
	}

	port := Port(1, 1024)
	if got, err := port("22"); err != nil || got != 22 {
		t.Errorf("Port(22) = %v, %v", got, err)
	}
	for _, in := range []string{"0", "2048", "70000", "ssh"} {
		if _, err := port(in); err == nil {
			t.Errorf("Port(%q) succeeded, want error", in)
		}
	}

	if got, err := Addr("10.0.0.1"); err != nil || got != netip.MustParseAddr("10.0.0.1") {
		t.Errorf("Addr = %v, %v", got, err)
	}
	if _, err := Prefix("10.0.0.0/33"); err == nil {
		t.Errorf("Prefix(/33) succeeded, want error")
	}
}

func TestParsePortRange(t *testing.T) {
	lo, hi, err := ParsePortRange("8000-9000")
	if err != nil || lo != 8000 || hi != 9000 {
		t.Errorf("ParsePortRange = %d, %d, %v", lo, hi, err)
	}
	for _, in := range []string{"8000", "9000-8000", "a-b"} {
		if _, _, err := ParsePortRange(in); err == nil {
			t.Errorf("ParsePortRange(%q) succeeded, want error", in)
		}
	}
}

func TestExternalTypes(t *testing.T) {
	v, err := Semver("v1.2.3")
	if err != nil {
		t.Fatalf("Semver failed: %v", err)
	}
	c, err := SemverConstraint(">= 1.2, < 2")
	if err != nil {
		t.Fatalf("SemverConstraint failed: %v", err)
	}
	if !c.Check(v) {
		t.Errorf("constraint %v rejects %v", c, v)
	}
	if _, err := Semver("one.two"); err == nil {
		t.Errorf("Semver(one.two) succeeded, want error")
	}

	if _, err := UUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"); err != nil {
		t.Errorf("UUID failed: %v", err)
	}
	if _, err := UUID("nope"); err == nil {
		t.Errorf("UUID(nope) succeeded, want error")
	}

	g, err := Glob("/home/*/.ssh")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if !g.Match("/home/alice/.ssh") || g.Match("/home/a/b/.ssh") {
		t.Errorf("Glob matching is wrong")
	}
	if _, err := Glob("[a-"); err == nil {
		t.Errorf("Glob([a-) succeeded, want error")
	}
}
