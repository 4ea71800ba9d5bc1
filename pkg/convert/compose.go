// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convert

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/yeetrun/pamargs/pkg/tokenize"
)

// Number is the set of types accepted by Range.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// WithValidation returns a converter that runs f and then each validator in
// order. A validator error is reported as a ConversionError for the input.
func WithValidation[T any](f Func[T], validators ...func(T) error) Func[T] {
	check := ChainValidators(validators...)
	return func(s string) (T, error) {
		v, err := f(s)
		if err != nil {
			return v, err
		}
		if err := check(v); err != nil {
			return fail[T](s, err)
		}
		return v, nil
	}
}

// ChainValidators combines validators into one that stops at the first error.
func ChainValidators[T any](validators ...func(T) error) func(T) error {
	return func(v T) error {
		for _, validate := range validators {
			if validate == nil {
				continue
			}
			if err := validate(v); err != nil {
				return err
			}
		}
		return nil
	}
}

// Range returns a validator that requires min <= v <= max.
func Range[T Number](min, max T) func(T) error {
	return func(v T) error {
		if v < min {
			return fmt.Errorf("value %v is less than minimum %v", v, min)
		}
		if v > max {
			return fmt.Errorf("value %v is greater than maximum %v", v, max)
		}
		return nil
	}
}

// LengthRange returns a validator that bounds the length of a string in
// characters. A negative max means unbounded.
func LengthRange(min, max int) func(string) error {
	return func(s string) error {
		n := utf8.RuneCountInString(s)
		if n < min {
			return fmt.Errorf("length %d is less than minimum %d", n, min)
		}
		if max >= 0 && n > max {
			return fmt.Errorf("length %d is greater than maximum %d", n, max)
		}
		return nil
	}
}

// Optional adapts f to return nil for the values "none" and "null" (any
// case) and for the empty string.
func Optional[T any](f Func[T]) Func[*T] {
	return func(s string) (*T, error) {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "none", "null":
			return nil, nil
		}
		v, err := f(s)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
}

// List converts a comma-separated list, converting each element with f.
// Elements may be quoted to contain commas. An empty value is an empty list.
func List[T any](f Func[T]) Func[[]T] {
	return func(s string) ([]T, error) {
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		parts, err := tokenize.SplitQuoted(s, ',', tokenize.Config{})
		if err != nil {
			return fail[[]T](s, err)
		}
		out := make([]T, 0, len(parts))
		for i, part := range parts {
			part = tokenize.Unquote(strings.TrimSpace(part), tokenize.Config{})
			v, err := f(part)
			if err != nil {
				return fail[[]T](s, fmt.Errorf("element %d: %w", i, err))
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// Unquote adapts f to strip one pair of matching outer quotes first.
func Unquote[T any](f Func[T]) Func[T] {
	return func(s string) (T, error) {
		return f(tokenize.Unquote(s, tokenize.Config{}))
	}
}

// Any erases the type of f. It is used where converters are selected at
// runtime, e.g. from a schema file.
func Any[T any](f Func[T]) Func[any] {
	return func(s string) (any, error) {
		v, err := f(s)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// IsConversionError reports whether err is or wraps a *ConversionError.
func IsConversionError(err error) bool {
	var ce *ConversionError
	return errors.As(err, &ce)
}

func sortedCopy[T cmp.Ordered](s []T) []T {
	s = slices.Clone(s)
	slices.Sort(s)
	return s
}
