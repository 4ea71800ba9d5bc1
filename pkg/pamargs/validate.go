// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamargs

// validate checks required arguments, then conflicts, then dependencies,
// and returns the first violation.
func validate(r *Registry, o *outcome) error {
	for _, d := range r.defs {
		if d.Required && !o.seen.Contains(d.Name) {
			return &Error{Kind: MissingRequired, Name: d.Name}
		}
	}
	for _, c := range r.constraints {
		if c.Kind == Conflicts && o.seen.Contains(c.A) && o.seen.Contains(c.B) {
			return &Error{Kind: ConflictingArguments, Name: c.A, Other: c.B}
		}
	}
	for _, c := range r.constraints {
		if c.Kind == DependsOn && o.seen.Contains(c.A) && !o.seen.Contains(c.B) {
			return &Error{Kind: MissingDependency, Name: c.A, Other: c.B}
		}
	}
	return nil
}
