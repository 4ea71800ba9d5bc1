// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamargs

import (
	"log/slog"

	"github.com/yeetrun/pamargs/pkg/tokenize"
)

// DefaultSeparator separates the key from the value in KEY=VALUE arguments.
const DefaultSeparator = "="

// Config controls how a Registry parses its input. The zero value is
// case-sensitive, rejects unknown arguments and splits on "=".
type Config struct {
	// CaseInsensitive makes argument names match regardless of case.
	// Values are never folded.
	CaseInsensitive bool

	// CollectNonArgumentText keeps unmatched tokens as free text instead of
	// failing with UnknownArgument.
	CollectNonArgumentText bool

	// AllowDynamicKeyValue accepts any KEY=VALUE token that matches no
	// definition and stores it in the dynamic mapping.
	AllowDynamicKeyValue bool

	// Separator splits keys from values. Empty means DefaultSeparator.
	Separator string

	// CaseInsensitiveValues compares values against allowed value sets
	// without regard to case.
	CaseInsensitiveValues bool

	// UnquoteValues strips one pair of matching outer quotes from values and
	// resolves escape sequences before conversion.
	UnquoteValues bool

	// ExpandBrackets expands bracketed arguments such as [A=1,B=2] into
	// separate tokens before classification. Tokenizer configures the
	// special characters; its zero value uses the defaults.
	ExpandBrackets bool
	Tokenizer      tokenize.Config

	// Logger receives debug events. Nil discards them.
	Logger *slog.Logger
}

func (c Config) separator() string {
	if c.Separator == "" {
		return DefaultSeparator
	}
	return c.Separator
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// Option configures a Registry created with New.
type Option func(*Config)

// New returns an empty Registry configured by opts.
func New(opts ...Option) *Registry {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewRegistry(cfg)
}

// WithCaseInsensitive matches argument names regardless of case.
func WithCaseInsensitive() Option {
	return func(c *Config) { c.CaseInsensitive = true }
}

// WithNonArgumentText collects unmatched tokens instead of rejecting them.
func WithNonArgumentText() Option {
	return func(c *Config) { c.CollectNonArgumentText = true }
}

// WithDynamicKeyValue accepts undeclared KEY=VALUE arguments.
func WithDynamicKeyValue() Option {
	return func(c *Config) { c.AllowDynamicKeyValue = true }
}

// WithSeparator sets the key/value separator.
func WithSeparator(sep string) Option {
	return func(c *Config) { c.Separator = sep }
}

// WithCaseInsensitiveValues compares allowed values without regard to case.
func WithCaseInsensitiveValues() Option {
	return func(c *Config) { c.CaseInsensitiveValues = true }
}

// WithUnquoteValues unquotes and unescapes values before conversion.
func WithUnquoteValues() Option {
	return func(c *Config) { c.UnquoteValues = true }
}

// WithBracketExpansion expands bracketed arguments using cfg.
func WithBracketExpansion(cfg tokenize.Config) Option {
	return func(c *Config) {
		c.ExpandBrackets = true
		c.Tokenizer = cfg
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
