// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pamargs parses and validates module arguments in the PAM style:
// a flat list of bare flags (DEBUG) and key-value pairs (WIDTH=80).
//
// Arguments are declared in a Registry as one of three shapes:
//
//   - Flag: a bare name. Present or absent.
//   - KeyValue: NAME=VALUE. The value is converted to a typed value.
//   - Dynamic: NAME=VALUE whose raw value is stored in the dynamic mapping.
//
// Cross-argument constraints (Conflicts and DependsOn) and Required
// arguments are checked after every token has been seen, in that order:
// required, conflicts, dependencies. The first violation is returned.
//
// Example:
//
//	var width int
//	reg := pamargs.New(pamargs.WithNonArgumentText())
//	reg.MustRegister(
//		pamargs.Flag("DEBUG", "enable debug logging"),
//		pamargs.Flag("QUIET", "suppress output"),
//		pamargs.KeyValue("WIDTH", "column width", pamargs.Convert(convert.Int), pamargs.BindTo(&width)),
//	)
//	if err := reg.Conflicts("DEBUG", "QUIET"); err != nil {
//		return err
//	}
//	res, err := reg.Parse([]string{"DEBUG", "WIDTH=80", "extra"})
//
// A Registry becomes read-only at its first Parse. Parse itself keeps all
// state local to the call, so one Registry may serve concurrent parses as
// long as they do not share binding targets.
//
// Unmatched tokens fail with UnknownArgument unless the registry collects
// non-argument text or accepts undeclared key-value pairs. Repeated
// arguments overwrite earlier values.
package pamargs
