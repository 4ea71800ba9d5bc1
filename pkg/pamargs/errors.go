// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamargs

import (
	"fmt"
	"strings"
)

// ErrorKind classifies an Error. Each kind is itself an error so callers
// can test for it with errors.Is:
//
//	if errors.Is(err, pamargs.MissingRequired) { ... }
type ErrorKind int

const (
	// Registration.
	DuplicateName ErrorKind = iota + 1
	UnknownName
	InvalidDefinition
	RegistryFrozen

	// Parsing.
	UnknownArgument
	UnexpectedValue
	MissingValue
	InvalidValue
	DisallowedValue
	MalformedArgument

	// Validation.
	MissingRequired
	ConflictingArguments
	MissingDependency
)

var kindInfo = map[ErrorKind]struct {
	code, short, details string
}{
	DuplicateName: {
		"DUPLICATE_ARG_NAME", "duplicate argument name",
		"Each argument name may be registered once. Names are compared case-insensitively when the registry is case-insensitive, so a Flag and a KeyValue cannot share a name.",
	},
	UnknownName: {
		"UNKNOWN_ARG_NAME", "unknown argument name",
		"Constraints may only refer to arguments that are already registered. Register both arguments before adding the constraint.",
	},
	InvalidDefinition: {
		"INVALID_DEFINITION", "invalid argument definition",
		"The definition is not usable: its name is empty or contains the separator, a Flag carries Required, allowed values or a converter, or its binding cannot hold the converted value.",
	},
	RegistryFrozen: {
		"REGISTRY_FROZEN", "registry is frozen",
		"A registry becomes read-only once it has parsed input. Finish all registration before the first Parse.",
	},
	UnknownArgument: {
		"UNRECOGNIZED_ARG", "unrecognized argument",
		"The argument matches no registered definition. Check the spelling, or enable non-argument text collection or dynamic key-value arguments if free-form input is expected.",
	},
	UnexpectedValue: {
		"UNEXPECTED_VALUE", "unexpected value",
		"The argument does not take a value. Flags are written as a bare name, e.g. DEBUG rather than DEBUG=1.",
	},
	MissingValue: {
		"MISSING_VALUE", "missing value",
		"The argument requires a value in the form NAME=VALUE.",
	},
	InvalidValue: {
		"INVALID_VALUE", "invalid value",
		"The value could not be converted to the argument's type. See the cause for the expected format.",
	},
	DisallowedValue: {
		"DISALLOWED_VALUE", "value not allowed",
		"The value converted cleanly but is not one of the argument's allowed values.",
	},
	MalformedArgument: {
		"MALFORMED_ARG", "malformed argument",
		"The argument could not be tokenized: a bracket or quote is left open, brackets are nested, or an escape sequence is incomplete or unknown.",
	},
	MissingRequired: {
		"REQUIRED_ARG_MISSING", "required argument missing",
		"The argument is required and must appear at least once.",
	},
	ConflictingArguments: {
		"MUTUALLY_EXCLUSIVE_ARGS", "mutually exclusive arguments",
		"At most one of the two arguments may be given. Remove one of them.",
	},
	MissingDependency: {
		"DEPENDENCY_NOT_MET", "dependency not met",
		"The first argument is only valid together with the second. Add the second argument or remove the first.",
	},
}

// Kinds returns every ErrorKind in declaration order.
func Kinds() []ErrorKind {
	out := make([]ErrorKind, 0, len(kindInfo))
	for k := DuplicateName; k <= MissingDependency; k++ {
		out = append(out, k)
	}
	return out
}

func (k ErrorKind) Error() string {
	if info, ok := kindInfo[k]; ok {
		return info.short
	}
	return fmt.Sprintf("pamargs error %d", int(k))
}

// Code returns the stable machine-readable code, e.g. "REQUIRED_ARG_MISSING".
func (k ErrorKind) Code() string {
	if info, ok := kindInfo[k]; ok {
		return info.code
	}
	return "UNKNOWN"
}

// Details returns a long-form description of the kind.
func (k ErrorKind) Details() string {
	return kindInfo[k].details
}

// Error is returned by Registry methods and by Parse.
type Error struct {
	Kind    ErrorKind
	Name    string   // The definition name involved, if any
	Other   string   // The second name for constraint violations
	Raw     string   // The offending input token or value
	Allowed []string // Allowed values, for DisallowedValue
	Err     error    // Underlying cause, e.g. a conversion error
}

func (e *Error) Error() string {
	switch e.Kind {
	case DuplicateName:
		return fmt.Sprintf("argument %q is already registered", e.Name)
	case UnknownName:
		return fmt.Sprintf("argument %q is not registered", e.Name)
	case InvalidDefinition:
		if e.Err != nil {
			return fmt.Sprintf("invalid definition for %q: %v", e.Name, e.Err)
		}
		return fmt.Sprintf("invalid definition for %q", e.Name)
	case RegistryFrozen:
		return "registry is frozen: cannot modify after parsing began"
	case UnknownArgument:
		return fmt.Sprintf("unrecognized argument %q", e.Raw)
	case UnexpectedValue:
		return fmt.Sprintf("argument %s does not take a value (got %q)", e.Name, e.Raw)
	case MissingValue:
		return fmt.Sprintf("argument %s requires a value", e.Name)
	case InvalidValue:
		if e.Err != nil {
			return fmt.Sprintf("invalid value %q for %s: %v", e.Raw, e.Name, e.Err)
		}
		return fmt.Sprintf("invalid value %q for %s", e.Raw, e.Name)
	case DisallowedValue:
		return fmt.Sprintf("value %q for %s is not allowed (allowed: %s)", e.Raw, e.Name, strings.Join(e.Allowed, ", "))
	case MalformedArgument:
		if e.Err != nil {
			return fmt.Sprintf("malformed argument %q: %v", e.Raw, e.Err)
		}
		return fmt.Sprintf("malformed argument %q", e.Raw)
	case MissingRequired:
		return fmt.Sprintf("required argument %s is missing", e.Name)
	case ConflictingArguments:
		return fmt.Sprintf("arguments %s and %s are mutually exclusive", e.Name, e.Other)
	case MissingDependency:
		return fmt.Sprintf("argument %s requires %s", e.Name, e.Other)
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is e's ErrorKind.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// Code returns the stable code of e's kind.
func (e *Error) Code() string {
	return e.Kind.Code()
}

// Details returns a long-form, actionable description of e.
func (e *Error) Details() string {
	return e.Error() + ". " + e.Kind.Details()
}

// ErrorReport is the serializable form of an Error.
type ErrorReport struct {
	Code    string   `json:"code" yaml:"code"`
	Message string   `json:"message" yaml:"message"`
	Details string   `json:"details" yaml:"details"`
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Other   string   `json:"other,omitempty" yaml:"other,omitempty"`
	Raw     string   `json:"raw,omitempty" yaml:"raw,omitempty"`
	Allowed []string `json:"allowed,omitempty" yaml:"allowed,omitempty"`
	Cause   string   `json:"cause,omitempty" yaml:"cause,omitempty"`
}

// Report returns the serializable form of e.
func (e *Error) Report() ErrorReport {
	r := ErrorReport{
		Code:    e.Code(),
		Message: e.Error(),
		Details: e.Kind.Details(),
		Name:    e.Name,
		Other:   e.Other,
		Raw:     e.Raw,
		Allowed: e.Allowed,
	}
	if e.Err != nil {
		r.Cause = e.Err.Error()
	}
	return r
}
