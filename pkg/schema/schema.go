// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema loads argument registries from YAML, TOML or JSON files.
//
// A schema in YAML:
//
//	options:
//	  case_insensitive: true
//	  collect_text: true
//	arguments:
//	  - name: DEBUG
//	    kind: flag
//	  - name: WIDTH
//	    type: int
//	    min: 1
//	    max: 200
//	  - name: ALIGN
//	    allowed: [LEFT, CENTER, RIGHT]
//	conflicts:
//	  - [DEBUG, QUIET]
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/yeetrun/pamargs/pkg/pamargs"
)

// Version is the schema version understood by this package.
const Version = 1

// Format is a schema file encoding.
type Format int

const (
	FormatYAML Format = iota + 1
	FormatTOML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromPath picks a Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("unknown schema file extension %q", filepath.Ext(path))
}

// Schema describes a registry.
type Schema struct {
	Version   int        `yaml:"version,omitempty" toml:"version,omitempty" json:"version,omitempty"`
	Options   Options    `yaml:"options,omitempty" toml:"options,omitempty" json:"options,omitempty"`
	Arguments []Argument `yaml:"arguments" toml:"arguments" json:"arguments"`
	Conflicts [][]string `yaml:"conflicts,omitempty" toml:"conflicts,omitempty" json:"conflicts,omitempty"`
	DependsOn [][]string `yaml:"depends_on,omitempty" toml:"depends_on,omitempty" json:"depends_on,omitempty"`
}

// Options mirror pamargs.Config.
type Options struct {
	CaseInsensitive       bool   `yaml:"case_insensitive,omitempty" toml:"case_insensitive,omitempty" json:"case_insensitive,omitempty"`
	CollectText           bool   `yaml:"collect_text,omitempty" toml:"collect_text,omitempty" json:"collect_text,omitempty"`
	DynamicKeyValue       bool   `yaml:"dynamic_key_value,omitempty" toml:"dynamic_key_value,omitempty" json:"dynamic_key_value,omitempty"`
	Separator             string `yaml:"separator,omitempty" toml:"separator,omitempty" json:"separator,omitempty"`
	CaseInsensitiveValues bool   `yaml:"case_insensitive_values,omitempty" toml:"case_insensitive_values,omitempty" json:"case_insensitive_values,omitempty"`
	UnquoteValues         bool   `yaml:"unquote_values,omitempty" toml:"unquote_values,omitempty" json:"unquote_values,omitempty"`
	ExpandBrackets        bool   `yaml:"expand_brackets,omitempty" toml:"expand_brackets,omitempty" json:"expand_brackets,omitempty"`
}

// Argument describes one argument definition.
type Argument struct {
	Name        string   `yaml:"name" toml:"name" json:"name"`
	Kind        string   `yaml:"kind,omitempty" toml:"kind,omitempty" json:"kind,omitempty"` // flag, keyvalue (default) or dynamic
	Type        string   `yaml:"type,omitempty" toml:"type,omitempty" json:"type,omitempty"` // see Types
	Description string   `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	Required    bool     `yaml:"required,omitempty" toml:"required,omitempty" json:"required,omitempty"`
	Optional    bool     `yaml:"optional,omitempty" toml:"optional,omitempty" json:"optional,omitempty"` // none/null/"" convert to nil
	Allowed     []string `yaml:"allowed,omitempty" toml:"allowed,omitempty" json:"allowed,omitempty"`
	Min         *float64 `yaml:"min,omitempty" toml:"min,omitempty" json:"min,omitempty"`
	Max         *float64 `yaml:"max,omitempty" toml:"max,omitempty" json:"max,omitempty"`
	Formats     []string `yaml:"formats,omitempty" toml:"formats,omitempty" json:"formats,omitempty"` // key_value, key_equals, key_only
}

// Load reads the schema file at path. The format is chosen by extension.
func Load(path string) (*Schema, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, nil
}

// Decode reads a schema from r. Unknown fields are rejected.
func Decode(r io.Reader, format Format) (*Schema, error) {
	var s Schema
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&s)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown field %q", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown schema format %v", format)
	}
	if s.Version == 0 {
		s.Version = Version
	}
	if s.Version != Version {
		return nil, fmt.Errorf("unsupported schema version %d", s.Version)
	}
	return &s, nil
}

// Encode writes s to w in format.
func (s *Schema) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(s)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	return fmt.Errorf("unknown schema format %v", format)
}

// Config returns the pamargs configuration described by the options.
func (s *Schema) Config() pamargs.Config {
	o := s.Options
	return pamargs.Config{
		CaseInsensitive:        o.CaseInsensitive,
		CollectNonArgumentText: o.CollectText,
		AllowDynamicKeyValue:   o.DynamicKeyValue,
		Separator:              o.Separator,
		CaseInsensitiveValues:  o.CaseInsensitiveValues,
		UnquoteValues:          o.UnquoteValues,
		ExpandBrackets:         o.ExpandBrackets,
	}
}

// Registry builds a registry from s. opts are applied on top of the
// schema's options.
func (s *Schema) Registry(opts ...pamargs.Option) (*pamargs.Registry, error) {
	cfg := s.Config()
	for _, opt := range opts {
		opt(&cfg)
	}
	reg := pamargs.NewRegistry(cfg)
	for _, a := range s.Arguments {
		def, err := a.Definition()
		if err != nil {
			return nil, err
		}
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	for _, pair := range s.Conflicts {
		if len(pair) != 2 {
			return nil, fmt.Errorf("conflicts entry %v must name two arguments", pair)
		}
		if err := reg.Conflicts(pair[0], pair[1]); err != nil {
			return nil, err
		}
	}
	for _, pair := range s.DependsOn {
		if len(pair) != 2 {
			return nil, fmt.Errorf("depends_on entry %v must name two arguments", pair)
		}
		if err := reg.DependsOn(pair[0], pair[1]); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Definition converts a to a pamargs definition.
func (a Argument) Definition() (pamargs.Definition, error) {
	var opts []pamargs.DefinitionOption
	if a.Required {
		opts = append(opts, pamargs.Required())
	}
	if len(a.Allowed) > 0 {
		opts = append(opts, pamargs.AllowedValues(a.Allowed...))
	}
	if len(a.Formats) > 0 {
		f, err := parseFormats(a.Formats)
		if err != nil {
			return pamargs.Definition{}, fmt.Errorf("argument %s: %w", a.Name, err)
		}
		opts = append(opts, pamargs.AcceptFormats(f))
	}

	switch strings.ToLower(a.Kind) {
	case "flag":
		if a.Type != "" {
			return pamargs.Definition{}, fmt.Errorf("argument %s: a flag has no type", a.Name)
		}
		return pamargs.Flag(a.Name, a.Description, opts...), nil
	case "dynamic":
		if a.Type != "" && a.Type != "string" {
			return pamargs.Definition{}, fmt.Errorf("argument %s: a dynamic argument stores raw strings", a.Name)
		}
		return pamargs.Dynamic(a.Name, a.Description, opts...), nil
	case "", "keyvalue", "key_value":
		conv, err := converterFor(a)
		if err != nil {
			return pamargs.Definition{}, fmt.Errorf("argument %s: %w", a.Name, err)
		}
		return pamargs.KeyValue(a.Name, a.Description, conv, opts...), nil
	}
	return pamargs.Definition{}, fmt.Errorf("argument %s: unknown kind %q", a.Name, a.Kind)
}

func parseFormats(names []string) (pamargs.Format, error) {
	var f pamargs.Format
	for _, n := range names {
		switch strings.ToLower(n) {
		case "key_value":
			f |= pamargs.FormatKeyValue
		case "key_equals":
			f |= pamargs.FormatKeyEquals
		case "key_only":
			f |= pamargs.FormatKeyOnly
		default:
			return 0, fmt.Errorf("unknown format %q", n)
		}
	}
	return f, nil
}
