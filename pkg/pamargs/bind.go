// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamargs

import (
	"reflect"
)

// bind copies values from res into the targets of present arguments.
// Targets of absent arguments are left untouched. Types were checked at
// registration.
func bind(defs []Definition, res *Result) {
	for i := range defs {
		d := &defs[i]
		if !d.Target.IsValid() || !res.seen.Contains(d.Name) {
			continue
		}
		var v reflect.Value
		switch d.Kind {
		case KindFlag:
			v = reflect.ValueOf(true)
		case KindDynamic:
			raw, ok := res.raw[d.Name]
			if !ok {
				continue
			}
			v = reflect.ValueOf(raw)
		default:
			val, ok := res.values[d.Name]
			if !ok {
				continue
			}
			v = reflect.ValueOf(val)
		}
		if !v.IsValid() {
			d.Target.Set(reflect.Zero(d.Target.Type()))
			continue
		}
		assign, ok := assignFunc(d.Target.Type(), v.Type())
		if !ok {
			continue
		}
		assign(d.Target, v)
	}
}
