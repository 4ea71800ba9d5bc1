// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tokenize expands bracketed module arguments and handles the
// quoting and escaping rules shared by argument values.
//
// A bracketed argument packs several arguments into one input string:
//
//	[DEBUG,HOST=localhost,MSG="hello, world"]
//
// expands to DEBUG, HOST=localhost and MSG="hello, world". Quotes and escape
// sequences are preserved in the expanded tokens; use Unquote and Unescape
// to resolve them in values.
package tokenize

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Config describes the special characters recognized by a Tokenizer.
type Config struct {
	Escape      rune
	SingleQuote rune
	DoubleQuote rune
	Open        rune
	Close       rune
	Delimiter   rune
}

// DefaultConfig returns the conventional set: \ ' " [ ] ,
func DefaultConfig() Config {
	return Config{
		Escape:      '\\',
		SingleQuote: '\'',
		DoubleQuote: '"',
		Open:        '[',
		Close:       ']',
		Delimiter:   ',',
	}
}

// orDefault fills zero fields from DefaultConfig so that a zero Config is usable.
func (c Config) orDefault() Config {
	d := DefaultConfig()
	if c.Escape == 0 {
		c.Escape = d.Escape
	}
	if c.SingleQuote == 0 {
		c.SingleQuote = d.SingleQuote
	}
	if c.DoubleQuote == 0 {
		c.DoubleQuote = d.DoubleQuote
	}
	if c.Open == 0 {
		c.Open = d.Open
	}
	if c.Close == 0 {
		c.Close = d.Close
	}
	if c.Delimiter == 0 {
		c.Delimiter = d.Delimiter
	}
	return c
}

// SyntaxErrorKind classifies a SyntaxError.
type SyntaxErrorKind int

const (
	UnclosedDelimiter SyntaxErrorKind = iota + 1
	NestedBracket
	TrailingEscape
	InvalidEscape
)

func (k SyntaxErrorKind) String() string {
	switch k {
	case UnclosedDelimiter:
		return "unclosed delimiter"
	case NestedBracket:
		return "nested bracket"
	case TrailingEscape:
		return "trailing escape character"
	case InvalidEscape:
		return "invalid escape sequence"
	}
	return fmt.Sprintf("SyntaxErrorKind(%d)", int(k))
}

// SyntaxError is returned when an argument cannot be tokenized.
type SyntaxError struct {
	Kind   SyntaxErrorKind
	Input  string // The argument (or bracket content) being processed
	Detail string // Optional extra context, e.g. the offending sequence
}

func (e *SyntaxError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s in %q", e.Kind, e.Detail, e.Input)
	}
	return fmt.Sprintf("%s in %q", e.Kind, e.Input)
}

type state int

const (
	stateNormal state = iota
	stateSingle
	stateDouble
	stateEscape
)

// Tokenizer expands bracketed arguments.
type Tokenizer struct {
	cfg Config
}

// New returns a Tokenizer for cfg. Zero fields take their DefaultConfig value.
func New(cfg Config) *Tokenizer {
	return &Tokenizer{cfg: cfg.orDefault()}
}

// Config returns the effective configuration.
func (t *Tokenizer) Config() Config {
	return t.cfg
}

// Token tokenizes a single argument. Arguments that do not start with the
// open bracket are returned unchanged. The bool result reports whether the
// argument was bracketed.
func (t *Tokenizer) Token(arg string) ([]string, bool, error) {
	if !strings.HasPrefix(arg, string(t.cfg.Open)) {
		return []string{arg}, false, nil
	}
	if len(arg) < len(string(t.cfg.Open))+len(string(t.cfg.Close)) || !strings.HasSuffix(arg, string(t.cfg.Close)) {
		return nil, true, &SyntaxError{Kind: UnclosedDelimiter, Input: arg, Detail: "bracket"}
	}
	content := arg[len(string(t.cfg.Open)) : len(arg)-len(string(t.cfg.Close))]
	if trailingEscape(content, t.cfg.Escape) {
		return nil, true, &SyntaxError{Kind: TrailingEscape, Input: arg}
	}
	tokens, err := t.split(content)
	if err != nil {
		return nil, true, err
	}
	return tokens, true, nil
}

// Expand tokenizes every argument and concatenates the results in order.
func (t *Tokenizer) Expand(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		tokens, _, err := t.Token(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, tokens...)
	}
	return out, nil
}

// trailingEscape reports whether s ends in an unescaped escape character.
func trailingEscape(s string, esc rune) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && rune(s[i]) == esc; i-- {
		n++
	}
	return n%2 == 1
}

// split splits bracket content on the delimiter, honoring quotes and
// escapes. Three delimiters yield four (possibly empty) elements.
func (t *Tokenizer) split(content string) ([]string, error) {
	var (
		out []string
		cur strings.Builder
		st  = stateNormal
		ret = stateNormal
	)
	for _, c := range content {
		switch st {
		case stateEscape:
			cur.WriteRune(c)
			st = ret
		case stateSingle:
			cur.WriteRune(c)
			switch c {
			case t.cfg.Escape:
				ret, st = stateSingle, stateEscape
			case t.cfg.SingleQuote:
				st = stateNormal
			}
		case stateDouble:
			cur.WriteRune(c)
			switch c {
			case t.cfg.Escape:
				ret, st = stateDouble, stateEscape
			case t.cfg.DoubleQuote:
				st = stateNormal
			}
		default:
			switch c {
			case t.cfg.Escape:
				cur.WriteRune(c)
				ret, st = stateNormal, stateEscape
			case t.cfg.SingleQuote:
				cur.WriteRune(c)
				st = stateSingle
			case t.cfg.DoubleQuote:
				cur.WriteRune(c)
				st = stateDouble
			case t.cfg.Open:
				return nil, &SyntaxError{Kind: NestedBracket, Input: content}
			case t.cfg.Delimiter:
				out = append(out, cur.String())
				cur.Reset()
			default:
				cur.WriteRune(c)
			}
		}
	}
	switch st {
	case stateSingle:
		return nil, &SyntaxError{Kind: UnclosedDelimiter, Input: content, Detail: "single quote"}
	case stateDouble:
		return nil, &SyntaxError{Kind: UnclosedDelimiter, Input: content, Detail: "double quote"}
	case stateEscape:
		return nil, &SyntaxError{Kind: TrailingEscape, Input: content}
	}
	return append(out, cur.String()), nil
}

// SplitQuoted splits s on delim outside of quotes. Quotes and escapes are
// kept in the resulting parts.
func SplitQuoted(s string, delim rune, cfg Config) ([]string, error) {
	cfg = cfg.orDefault()
	var (
		out      []string
		cur      strings.Builder
		inSingle bool
		inDouble bool
		escaped  bool
	)
	for _, c := range s {
		switch {
		case escaped:
			cur.WriteRune(c)
			escaped = false
		case c == cfg.Escape:
			cur.WriteRune(c)
			escaped = true
		case c == cfg.SingleQuote && !inDouble:
			cur.WriteRune(c)
			inSingle = !inSingle
		case c == cfg.DoubleQuote && !inSingle:
			cur.WriteRune(c)
			inDouble = !inDouble
		case c == delim && !inSingle && !inDouble:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	switch {
	case inSingle:
		return nil, &SyntaxError{Kind: UnclosedDelimiter, Input: s, Detail: "single quote"}
	case inDouble:
		return nil, &SyntaxError{Kind: UnclosedDelimiter, Input: s, Detail: "double quote"}
	case escaped:
		return nil, &SyntaxError{Kind: TrailingEscape, Input: s}
	}
	return append(out, cur.String()), nil
}

// Unquote removes one pair of matching outer quotes from s. Strings that are
// not fully quoted are returned unchanged.
func Unquote(s string, cfg Config) string {
	cfg = cfg.orDefault()
	r := []rune(s)
	if len(r) < 2 {
		return s
	}
	first, last := r[0], r[len(r)-1]
	if first != last || (first != cfg.SingleQuote && first != cfg.DoubleQuote) {
		return s
	}
	// A closing quote preceded by an escape does not close the string.
	if len(r) > 2 && trailingEscape(string(r[1:len(r)-1]), cfg.Escape) {
		return s
	}
	return string(r[1 : len(r)-1])
}

// Unescape resolves escape sequences in s.
func Unescape(s string, cfg Config) (string, error) {
	cfg = cfg.orDefault()
	if !strings.ContainsRune(s, cfg.Escape) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, c := range s {
		if !escaped {
			if c == cfg.Escape {
				escaped = true
				continue
			}
			b.WriteRune(c)
			continue
		}
		escaped = false
		switch c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case cfg.Escape, cfg.SingleQuote, cfg.DoubleQuote, cfg.Delimiter, cfg.Open, cfg.Close:
			b.WriteRune(c)
		default:
			return "", &SyntaxError{Kind: InvalidEscape, Input: s, Detail: string(cfg.Escape) + string(c)}
		}
	}
	if escaped {
		return "", &SyntaxError{Kind: TrailingEscape, Input: s}
	}
	return b.String(), nil
}

// Fields splits a whole argument line into arguments using shell quoting
// rules, e.g. `DEBUG MSG="hello world"` yields DEBUG and MSG=hello world.
func Fields(line string) ([]string, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("failed to split argument line: %w", err)
	}
	return words, nil
}
