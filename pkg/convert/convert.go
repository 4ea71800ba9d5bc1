// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package convert provides typed converters for module argument values.
//
// A converter is a Func[T]: a function from the raw text of a KEY=VALUE
// argument to a typed value. Converters compose; WithValidation layers value
// checks on top of a base converter and Optional, List and Unquote adapt a
// converter to a different shape of input.
//
//	width := convert.WithValidation(convert.Int, convert.Range(1, 200))
//	hosts := convert.List(convert.String)
package convert

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Func converts the raw text of an argument value into T.
type Func[T any] func(string) (T, error)

// ConversionError is returned by every converter in this package when a
// value cannot be converted or fails validation.
type ConversionError struct {
	Value string // The raw value
	Type  string // The target type, e.g. "int" or "bool"
	Err   error  // The underlying cause
}

func (e *ConversionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s value %q", e.Type, e.Value)
	}
	return fmt.Sprintf("invalid %s value %q: %v", e.Type, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

func fail[T any](value string, err error) (T, error) {
	var zero T
	return zero, &ConversionError{Value: value, Type: typeName[T](), Err: err}
}

// numError strips the strconv prefix ("strconv.ParseInt: parsing ...") so
// ConversionError messages stay readable.
func numError(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}

// String is the identity converter.
func String(s string) (string, error) {
	return s, nil
}

// Int converts a base-10 integer.
func Int(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fail[int](s, numError(err))
	}
	return v, nil
}

// Int64 converts a base-10 64-bit integer.
func Int64(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fail[int64](s, numError(err))
	}
	return v, nil
}

// Uint converts a base-10 unsigned integer.
func Uint(s string) (uint, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	if err != nil {
		return fail[uint](s, numError(err))
	}
	return uint(v), nil
}

// Float64 converts a floating point number.
func Float64(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fail[float64](s, numError(err))
	}
	return v, nil
}

// Bool accepts the spellings commonly used in PAM configuration:
// true/yes/on/1 and false/no/off/0, in any case.
func Bool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return fail[bool](s, fmt.Errorf("expected one of true, yes, on, 1, false, no, off, 0"))
}

// Duration converts a Go duration string such as "1m30s".
func Duration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fail[time.Duration](s, err)
	}
	return d, nil
}

// Char converts a value that must be exactly one character.
func Char(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return fail[rune](s, fmt.Errorf("expected exactly one character, got %d", utf8.RuneCountInString(s)))
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// Enum converts a value by looking it up in values. Matching ignores case.
func Enum[T any](values map[string]T) Func[T] {
	normalized := make(map[string]T, len(values))
	names := make([]string, 0, len(values))
	for k, v := range values {
		normalized[strings.ToUpper(k)] = v
		names = append(names, k)
	}
	return func(s string) (T, error) {
		if v, ok := normalized[strings.ToUpper(strings.TrimSpace(s))]; ok {
			return v, nil
		}
		return fail[T](s, fmt.Errorf("must be one of: %s", strings.Join(sortedCopy(names), ", ")))
	}
}

// OneOf accepts exactly one of values, compared case-sensitively.
func OneOf(values ...string) Func[string] {
	return func(s string) (string, error) {
		for _, v := range values {
			if s == v {
				return s, nil
			}
		}
		return fail[string](s, fmt.Errorf("must be one of: %s", strings.Join(values, ", ")))
	}
}
