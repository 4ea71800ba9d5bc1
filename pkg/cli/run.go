// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/yeetrun/pamargs/pkg/pamargs"
	"github.com/yeetrun/pamargs/pkg/schema"
	"github.com/yeetrun/pamargs/pkg/tokenize"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrFailed is returned when at least one argument list did not validate.
// The report has already been written when it is returned.
var ErrFailed = errors.New("validation failed")

// Report is the outcome of checking one argument list.
type Report struct {
	Line    int                  `json:"line,omitempty" yaml:"line,omitempty"`
	Args    []string             `json:"args" yaml:"args"`
	OK      bool                 `json:"ok" yaml:"ok"`
	Present []string             `json:"present,omitempty" yaml:"present,omitempty"`
	Values  map[string]string    `json:"values,omitempty" yaml:"values,omitempty"`
	Dynamic map[string]string    `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	Text    []string             `json:"text,omitempty" yaml:"text,omitempty"`
	Error   *pamargs.ErrorReport `json:"error,omitempty" yaml:"error,omitempty"`
}

// LoadRegistry loads the schema at f.Schema and applies the override flags.
func LoadRegistry(f ParserFlags, logger *slog.Logger) (*pamargs.Registry, error) {
	s, err := schema.Load(f.Schema)
	if err != nil {
		return nil, err
	}
	opts := []pamargs.Option{pamargs.WithLogger(logger)}
	if f.CaseInsensitive {
		opts = append(opts, pamargs.WithCaseInsensitive())
	}
	if f.CollectText {
		opts = append(opts, pamargs.WithNonArgumentText())
	}
	if f.DynamicKeyValue {
		opts = append(opts, pamargs.WithDynamicKeyValue())
	}
	if f.ExpandBrackets {
		opts = append(opts, pamargs.WithBracketExpansion(tokenize.DefaultConfig()))
	}
	return s.Registry(opts...)
}

// Check parses args with reg and writes the report to w in format. It
// returns ErrFailed when the arguments did not validate.
func Check(w io.Writer, reg *pamargs.Registry, args []string, format string) error {
	rep, err := check(reg, args)
	if err != nil {
		return err
	}
	if err := writeReports(w, format, []Report{rep}, false); err != nil {
		return err
	}
	if !rep.OK {
		return ErrFailed
	}
	return nil
}

// CheckLine splits line into arguments the way a shell would and checks them.
func CheckLine(w io.Writer, reg *pamargs.Registry, line, format string) error {
	args, err := tokenize.Fields(line)
	if err != nil {
		return fmt.Errorf("failed to split line: %w", err)
	}
	return Check(w, reg, args, format)
}

// Batch checks every non-blank line of r, one argument list per line, at
// most jobs at a time. Lines starting with '#' are skipped. Reports are
// written in input order.
func Batch(ctx context.Context, r io.Reader, w io.Writer, reg *pamargs.Registry, jobs int, format string) error {
	type input struct {
		n    int
		line string
	}
	var inputs []input
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, input{n, line})
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	reports := make([]Report, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			args, err := tokenize.Fields(in.line)
			if err != nil {
				return fmt.Errorf("line %d: failed to split: %w", in.n, err)
			}
			rep, err := check(reg, args)
			if err != nil {
				return fmt.Errorf("line %d: %w", in.n, err)
			}
			rep.Line = in.n
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeReports(w, format, reports, true); err != nil {
		return err
	}
	failed := 0
	for _, rep := range reports {
		if !rep.OK {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d lines failed: %w", failed, len(reports), ErrFailed)
	}
	return nil
}

// check parses args. Validation failures become a failed Report; only
// errors that are not *pamargs.Error are returned.
func check(reg *pamargs.Registry, args []string) (Report, error) {
	rep := Report{Args: args}
	if rep.Args == nil {
		rep.Args = []string{}
	}
	res, err := reg.Parse(args)
	if err != nil {
		var perr *pamargs.Error
		if !errors.As(err, &perr) {
			return Report{}, err
		}
		er := perr.Report()
		rep.Error = &er
		return rep, nil
	}
	rep.OK = true
	rep.Present = res.Names()
	for _, name := range rep.Present {
		if raw, ok := res.Raw(name); ok {
			if rep.Values == nil {
				rep.Values = make(map[string]string)
			}
			rep.Values[name] = raw
		}
	}
	if d := res.Dynamic(); len(d) > 0 {
		rep.Dynamic = d
	}
	rep.Text = res.NonArgumentText()
	return rep, nil
}

func writeReports(w io.Writer, format string, reports []Report, batch bool) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if batch {
			return enc.Encode(reports)
		}
		return enc.Encode(reports[0])
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		var err error
		if batch {
			err = enc.Encode(reports)
		} else {
			err = enc.Encode(reports[0])
		}
		if err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		for _, rep := range reports {
			writeText(w, rep, batch)
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}

func writeText(w io.Writer, rep Report, batch bool) {
	prefix := ""
	if batch {
		prefix = fmt.Sprintf("%d: ", rep.Line)
	}
	if !rep.OK {
		fmt.Fprintf(w, "%sFAIL %s: %s\n", prefix, rep.Error.Code, rep.Error.Message)
		return
	}
	var parts []string
	for _, name := range rep.Present {
		if v, ok := rep.Values[name]; ok {
			parts = append(parts, name+"="+v)
		} else {
			parts = append(parts, name)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(rep.Dynamic)) {
		if _, declared := rep.Values[k]; declared {
			continue
		}
		parts = append(parts, k+"="+rep.Dynamic[k])
	}
	fmt.Fprintf(w, "%sOK", prefix)
	if len(parts) > 0 {
		fmt.Fprintf(w, " %s", strings.Join(parts, " "))
	}
	if len(rep.Text) > 0 {
		fmt.Fprintf(w, " text=%q", strings.Join(rep.Text, " "))
	}
	fmt.Fprintln(w)
}

// Explain writes a table of reg's definitions followed by its constraints.
func Explain(w io.Writer, reg *pamargs.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tTYPE\tFORMATS\tREQUIRED\tALLOWED\tDESCRIPTION")
	for _, d := range reg.Definitions() {
		typ, formats := "-", "-"
		if d.Kind != pamargs.KindFlag {
			typ = d.Convert.OutputType().String()
			f := d.Formats
			if f == 0 {
				f = pamargs.DefaultFormats
			}
			formats = f.String()
		}
		allowed := "-"
		if len(d.Allowed) > 0 {
			allowed = strings.Join(d.Allowed, ",")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\t%s\n", d.Name, d.Kind, typ, formats, d.Required, allowed, d.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	cs := reg.Constraints()
	if len(cs) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "CONSTRAINTS")
	for _, c := range cs {
		fmt.Fprintf(w, "  %s %s %s\n", c.A, c.Kind, c.B)
	}
	return nil
}

// CodeInfo describes one error code.
type CodeInfo struct {
	Code    string `json:"code" yaml:"code"`
	Summary string `json:"summary" yaml:"summary"`
	Details string `json:"details" yaml:"details"`
}

// Codes writes every error code with its summary and details.
func Codes(w io.Writer, format string) error {
	var codes []CodeInfo
	for _, k := range pamargs.Kinds() {
		codes = append(codes, CodeInfo{Code: k.Code(), Summary: k.Error(), Details: k.Details()})
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(codes)
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(codes)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tSUMMARY\tDETAILS")
	for _, c := range codes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Code, c.Summary, c.Details)
	}
	return tw.Flush()
}
