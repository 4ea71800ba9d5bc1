// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/yeetrun/pamargs/pkg/convert"
	"github.com/yeetrun/pamargs/pkg/pamargs"
)

// Types lists the value types a schema argument may declare.
func Types() []string {
	return []string{
		"addr", "bool", "char", "duration", "float", "glob", "int", "int64",
		"list", "port", "prefix", "semver", "semver_constraint", "string",
		"uint", "url", "uuid",
	}
}

func converterFor(a Argument) (pamargs.Converter, error) {
	typ := strings.ToLower(a.Type)
	if (a.Min != nil || a.Max != nil) && !slices.Contains([]string{"", "string", "int", "int64", "uint", "float", "port"}, typ) {
		return pamargs.Converter{}, fmt.Errorf("min/max do not apply to type %q", a.Type)
	}
	switch typ {
	case "", "string":
		if a.Min == nil && a.Max == nil {
			return optional(a, convert.String), nil
		}
		return optional(a, convert.WithValidation(convert.String, convert.LengthRange(int(bound(a.Min, 0)), int(bound(a.Max, -1))))), nil
	case "int":
		return numeric[int](a, convert.Int, math.MinInt, math.MaxInt, -float64(math.MinInt))
	case "int64":
		return numeric[int64](a, convert.Int64, math.MinInt64, math.MaxInt64, -float64(math.MinInt64))
	case "uint":
		return numeric[uint](a, convert.Uint, 0, math.MaxUint, 2*float64(math.MaxUint/2+1))
	case "float":
		return numeric[float64](a, convert.Float64, -math.MaxFloat64, math.MaxFloat64, math.Inf(1))
	case "port":
		lo, hi := bound(a.Min, 0), bound(a.Max, math.MaxUint16)
		if lo < 0 || hi > math.MaxUint16 || lo > hi {
			return pamargs.Converter{}, fmt.Errorf("invalid port range %v-%v", lo, hi)
		}
		return optional(a, convert.Port(uint16(lo), uint16(hi))), nil
	case "bool":
		return optional(a, convert.Bool), nil
	case "duration":
		return optional(a, convert.Duration), nil
	case "char":
		return optional(a, convert.Char), nil
	case "url":
		return optional(a, convert.URL), nil
	case "addr":
		return optional(a, convert.Addr), nil
	case "prefix":
		return optional(a, convert.Prefix), nil
	case "semver":
		return optional(a, convert.Semver), nil
	case "semver_constraint":
		return optional(a, convert.SemverConstraint), nil
	case "uuid":
		return optional(a, convert.UUID), nil
	case "glob":
		return optional(a, convert.Glob), nil
	case "list":
		return optional(a, convert.List(convert.String)), nil
	}
	return pamargs.Converter{}, fmt.Errorf("unknown type %q", a.Type)
}

// bound returns *p, or def when p is nil.
func bound(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// numeric returns a converter for f validated against [lo, hi] narrowed by
// the argument's min and max. Bounds must fall in [lo, limit), where limit is
// the first value past hi that a float64 can represent exactly.
func numeric[T convert.Number](a Argument, f convert.Func[T], lo, hi T, limit float64) (pamargs.Converter, error) {
	floor := float64(lo)
	for _, b := range []struct {
		name string
		v    *float64
		dst  *T
	}{{"min", a.Min, &lo}, {"max", a.Max, &hi}} {
		if b.v == nil {
			continue
		}
		if !(*b.v >= floor && *b.v < limit) {
			return pamargs.Converter{}, fmt.Errorf("%s %v out of range for type %q", b.name, *b.v, a.Type)
		}
		*b.dst = T(*b.v)
	}
	if lo > hi {
		return pamargs.Converter{}, fmt.Errorf("min %v is greater than max %v", lo, hi)
	}
	return optional(a, convert.WithValidation(f, convert.Range(lo, hi))), nil
}

func optional[T any](a Argument, f convert.Func[T]) pamargs.Converter {
	if a.Optional {
		return pamargs.Convert(convert.Optional(f))
	}
	return pamargs.Convert(f)
}
