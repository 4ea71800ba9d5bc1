// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamargs

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		sep  string
		fold bool
		want Token
	}{
		{"DEBUG", "=", false, Token{Raw: "DEBUG", Key: "DEBUG"}},
		{"WIDTH=80", "=", false, Token{Raw: "WIDTH=80", Key: "WIDTH", Value: "80", HasValue: true}},
		{"K=", "=", false, Token{Raw: "K=", Key: "K", HasValue: true}},
		{"=v", "=", false, Token{Raw: "=v", Value: "v", HasValue: true}},
		{"", "=", false, Token{}},
		{"A=b=c", "", false, Token{Raw: "A=b=c", Key: "A", Value: "b=c", HasValue: true}},
		{"Width=Wide", "=", true, Token{Raw: "Width=Wide", Key: "width", Value: "Wide", HasValue: true}},
		{"STRASSE", "=", true, Token{Raw: "STRASSE", Key: "strasse"}},
		{"a:b", ":", false, Token{Raw: "a:b", Key: "a", Value: "b", HasValue: true}},
		{"a=b", ":", false, Token{Raw: "a=b", Key: "a=b"}},
	}
	for _, tt := range tests {
		if got := Classify(tt.raw, tt.sep, tt.fold); got != tt.want {
			t.Errorf("Classify(%q, %q, %v) = %+v, want %+v", tt.raw, tt.sep, tt.fold, got, tt.want)
		}
	}
}

func TestTokenFormat(t *testing.T) {
	tests := []struct {
		raw  string
		want Format
	}{
		{"K", FormatKeyOnly},
		{"K=", FormatKeyEquals},
		{"K=v", FormatKeyValue},
	}
	for _, tt := range tests {
		if got := Classify(tt.raw, "=", false).format(); got != tt.want {
			t.Errorf("format(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
	if got := DefaultFormats.String(); got != "KEY=VALUE|KEY=" {
		t.Errorf("DefaultFormats.String() = %q", got)
	}
}
