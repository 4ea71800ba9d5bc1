// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamargs

import (
	"strings"

	"golang.org/x/text/cases"
)

// Token is one classified input argument.
type Token struct {
	Raw      string // The input exactly as given
	Key      string // The text before the first separator, normalized if folding
	Value    string // The text after the first separator
	HasValue bool   // Whether a separator was present
}

// Classify splits raw at the first occurrence of separator. Without a
// separator the whole input is the key. When fold is true the key is
// case-folded; the value never is. Classify never fails.
func Classify(raw, separator string, fold bool) Token {
	if separator == "" {
		separator = DefaultSeparator
	}
	t := Token{Raw: raw, Key: raw}
	if k, v, ok := strings.Cut(raw, separator); ok {
		t.Key, t.Value, t.HasValue = k, v, true
	}
	if fold {
		t.Key = foldKey(t.Key)
	}
	return t
}

// foldKey normalizes a name for case-insensitive comparison. A Caser holds
// state, so one is created per call.
func foldKey(s string) string {
	return cases.Fold().String(s)
}

func (t Token) format() Format {
	switch {
	case !t.HasValue:
		return FormatKeyOnly
	case t.Value == "":
		return FormatKeyEquals
	}
	return FormatKeyValue
}
