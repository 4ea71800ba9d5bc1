// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamargs

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/yeetrun/pamargs/pkg/tokenize"
)

// Parse classifies, converts and validates args. On success the bound
// targets of present arguments have been written. On failure no target is
// written and the returned error is an *Error.
//
// The first call freezes the registry.
func (r *Registry) Parse(args []string) (*Result, error) {
	r.freeze()
	p := &parser{
		reg: r,
		cfg: r.cfg,
		sep: r.cfg.separator(),
		log: r.cfg.logger(),
		out: newOutcome(),
	}
	res, err := p.run(args)
	if err != nil {
		if e, ok := err.(*Error); ok {
			p.log.Debug("parse failed", "code", e.Code(), "name", e.Name, "error", e)
		}
		return nil, err
	}
	return res, nil
}

type parser struct {
	reg *Registry
	cfg Config
	sep string
	log *slog.Logger
	out *outcome
}

func (p *parser) run(args []string) (*Result, error) {
	tokens, err := p.expand(args)
	if err != nil {
		return nil, err
	}
	for _, raw := range tokens {
		tok := Classify(raw, p.sep, p.cfg.CaseInsensitive)
		p.log.Debug("classified argument", "key", tok.Key, "has_value", tok.HasValue)
		if d, ok := p.reg.lookupKey(tok.Key); ok {
			if err := p.match(d, tok); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.unmatched(tok); err != nil {
			return nil, err
		}
	}
	if err := validate(p.reg, p.out); err != nil {
		return nil, err
	}
	res := p.out.result(p.reg)
	bind(p.reg.defs, res)
	return res, nil
}

// expand applies bracket expansion if enabled. Empty bracket elements are
// dropped.
func (p *parser) expand(args []string) ([]string, error) {
	if !p.cfg.ExpandBrackets {
		return args, nil
	}
	tz := tokenize.New(p.cfg.Tokenizer)
	out := make([]string, 0, len(args))
	for _, arg := range args {
		tokens, bracketed, err := tz.Token(arg)
		if err != nil {
			return nil, &Error{Kind: MalformedArgument, Raw: arg, Err: err}
		}
		if !bracketed {
			out = append(out, arg)
			continue
		}
		for _, t := range tokens {
			if strings.TrimSpace(t) == "" {
				continue
			}
			out = append(out, t)
		}
	}
	return out, nil
}

func (p *parser) match(d *Definition, tok Token) error {
	if d.Kind == KindFlag {
		if tok.HasValue {
			return &Error{Kind: UnexpectedValue, Name: d.Name, Raw: tok.Raw}
		}
		p.out.seen.Add(d.Name)
		return nil
	}

	if f := tok.format(); d.formats()&f == 0 {
		kind := MissingValue
		if f == FormatKeyValue {
			kind = UnexpectedValue
		}
		return &Error{Kind: kind, Name: d.Name, Raw: tok.Raw}
	}
	if !tok.HasValue {
		p.out.setPresent(d.Name)
		return nil
	}

	raw, err := p.prepare(tok.Value)
	if err != nil {
		return &Error{Kind: MalformedArgument, Name: d.Name, Raw: tok.Raw, Err: err}
	}
	var v any = raw
	if d.Kind == KindKeyValue {
		v, err = d.Convert.Apply(raw)
		if err != nil {
			return &Error{Kind: InvalidValue, Name: d.Name, Raw: raw, Err: err}
		}
	}
	if !p.allowed(d, raw) {
		return &Error{Kind: DisallowedValue, Name: d.Name, Raw: raw, Allowed: slices.Clone(d.Allowed)}
	}
	p.out.setValue(d.Name, raw, v)
	if d.Kind == KindDynamic {
		p.out.setDynamic(d.Name, raw)
		p.log.Debug("stored dynamic key", "key", d.Name, "declared", true)
	}
	return nil
}

// unmatched handles a token that matches no definition.
func (p *parser) unmatched(tok Token) error {
	if p.cfg.AllowDynamicKeyValue && tok.HasValue && tok.Key != "" {
		raw, err := p.prepare(tok.Value)
		if err != nil {
			return &Error{Kind: MalformedArgument, Raw: tok.Raw, Err: err}
		}
		p.out.setDynamic(tok.Key, raw)
		p.log.Debug("stored dynamic key", "key", tok.Key, "declared", false)
		return nil
	}
	if p.cfg.CollectNonArgumentText {
		p.out.text = append(p.out.text, tok.Raw)
		p.log.Debug("collected non-argument text", "index", len(p.out.text)-1)
		return nil
	}
	return &Error{Kind: UnknownArgument, Raw: tok.Raw}
}

// prepare unquotes and unescapes a value if configured.
func (p *parser) prepare(v string) (string, error) {
	if !p.cfg.UnquoteValues {
		return v, nil
	}
	return tokenize.Unescape(tokenize.Unquote(v, p.cfg.Tokenizer), p.cfg.Tokenizer)
}

func (p *parser) allowed(d *Definition, raw string) bool {
	if len(d.Allowed) == 0 {
		return true
	}
	for _, a := range d.Allowed {
		if a == raw || (p.cfg.CaseInsensitiveValues && strings.EqualFold(a, raw)) {
			return true
		}
	}
	return false
}
