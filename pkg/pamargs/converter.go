// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamargs

import (
	"reflect"
)

// Converter turns the raw value of a KeyValue argument into a typed value.
// The zero Converter returns the raw string unchanged.
type Converter struct {
	fn  func(string) (any, error)
	out reflect.Type
}

// Convert wraps a typed conversion function, such as one from package
// convert:
//
//	pamargs.KeyValue("WIDTH", "column width", pamargs.Convert(convert.Int))
func Convert[T any](f func(string) (T, error)) Converter {
	if f == nil {
		return Converter{}
	}
	return Converter{
		fn: func(s string) (any, error) {
			v, err := f(s)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		out: reflect.TypeFor[T](),
	}
}

// NewConverter returns a Converter whose values have type out. fn must
// return values assignable to out.
func NewConverter(out reflect.Type, fn func(string) (any, error)) Converter {
	if fn == nil || out == nil {
		return Converter{}
	}
	return Converter{fn: fn, out: out}
}

// IsZero reports whether c is the identity converter.
func (c Converter) IsZero() bool {
	return c.fn == nil
}

// OutputType returns the type of converted values.
func (c Converter) OutputType() reflect.Type {
	if c.out == nil {
		return stringType
	}
	return c.out
}

// Apply converts s.
func (c Converter) Apply(s string) (any, error) {
	if c.fn == nil {
		return s, nil
	}
	return c.fn(s)
}
