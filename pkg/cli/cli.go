// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shayne/yargs"
)

type CommandInfo struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Hidden      bool
	Aliases     []string
}

// ParserFlags are shared by every command that builds a registry.
type ParserFlags struct {
	Schema          string
	CaseInsensitive bool
	CollectText     bool
	DynamicKeyValue bool
	ExpandBrackets  bool
}

type CheckFlags struct {
	ParserFlags
	Line   string
	Format string
}

type BatchFlags struct {
	ParserFlags
	File   string
	Jobs   int
	Format string
}

type ExplainFlags struct {
	Schema string
}

type CodesFlags struct {
	Format string
}

type checkFlagsParsed struct {
	Schema          string `flag:"schema" short:"s" help:"Schema file (.yaml, .toml or .json)"`
	CaseInsensitive bool   `flag:"case-insensitive" short:"i" help:"Match argument names case-insensitively"`
	CollectText     bool   `flag:"collect-text" help:"Collect unrecognized arguments as text"`
	DynamicKeyValue bool   `flag:"dynamic" help:"Accept undeclared KEY=VALUE arguments"`
	ExpandBrackets  bool   `flag:"expand-brackets" help:"Expand [a,b] bracket arguments"`
	Line            string `flag:"line" short:"l" help:"Shell-quoted argument line to check"`
	Format          string `flag:"format" short:"o" default:"text" help:"Output format (text|json|yaml)"`
}

type batchFlagsParsed struct {
	Schema          string `flag:"schema" short:"s" help:"Schema file (.yaml, .toml or .json)"`
	CaseInsensitive bool   `flag:"case-insensitive" short:"i" help:"Match argument names case-insensitively"`
	CollectText     bool   `flag:"collect-text" help:"Collect unrecognized arguments as text"`
	DynamicKeyValue bool   `flag:"dynamic" help:"Accept undeclared KEY=VALUE arguments"`
	ExpandBrackets  bool   `flag:"expand-brackets" help:"Expand [a,b] bracket arguments"`
	File            string `flag:"file" short:"f" default:"-" help:"File with one argument line per line (- for stdin)"`
	Jobs            int    `flag:"jobs" short:"j" default:"4" help:"Lines parsed concurrently"`
	Format          string `flag:"format" short:"o" default:"text" help:"Output format (text|json|yaml)"`
}

type explainFlagsParsed struct {
	Schema string `flag:"schema" short:"s" help:"Schema file (.yaml, .toml or .json)"`
}

type codesFlagsParsed struct {
	Format string `flag:"format" short:"o" default:"text" help:"Output format (text|json|yaml)"`
}

const (
	CommandCheck   = "check"
	CommandBatch   = "batch"
	CommandExplain = "explain"
	CommandCodes   = "codes"
)

var commandInfos = map[string]CommandInfo{
	CommandCheck: {Name: CommandCheck, Description: "Parse and validate module arguments against a schema", Usage: "--schema FILE [ARG...] | --line LINE", Examples: []string{
		"pamargs check -s args.yaml DEBUG WIDTH=80 MESSAGE=hi",
		`pamargs check -s args.yaml --line 'MESSAGE="hello world" DEBUG' -o json`,
	}},
	CommandBatch: {Name: CommandBatch, Description: "Check one argument line per input line", Usage: "--schema FILE [--file FILE] [--jobs N]", Examples: []string{
		"pamargs batch -s args.yaml -f lines.txt -j 8",
		"cat lines.txt | pamargs batch -s args.toml -o yaml",
	}},
	CommandExplain: {Name: CommandExplain, Description: "List the definitions and constraints of a schema", Usage: "--schema FILE", Aliases: []string{"describe"}},
	CommandCodes:   {Name: CommandCodes, Description: "List error codes and their details", Usage: "[--format text|json|yaml]"},
}

func CommandNames() []string {
	names := make([]string, 0, len(commandInfos))
	for name := range commandInfos {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func CommandInfos() map[string]CommandInfo {
	return commandInfos
}

// HelpConfig returns the yargs help metadata for the pamargs command.
func HelpConfig() yargs.HelpConfig {
	subcommands := make(map[string]yargs.SubCommandInfo, len(commandInfos))
	for name, info := range commandInfos {
		subcommands[name] = yargs.SubCommandInfo{
			Name:        name,
			Description: info.Description,
			Usage:       info.Usage,
			Examples:    info.Examples,
			Hidden:      info.Hidden,
			Aliases:     info.Aliases,
		}
	}
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "pamargs",
			Description: "Validate PAM-style module arguments",
		},
		SubCommands: subcommands,
	}
}

// ParseCheck parses the flags of the check command. args start after the
// command name. Arguments after "--" are returned verbatim so module
// arguments that look like flags can still be checked.
func ParseCheck(args []string) (CheckFlags, []string, error) {
	parseArgs, extraArgs := splitArgsAtDoubleDash(args)
	parsed, err := parseFlags[checkFlagsParsed](parseArgs)
	if err != nil {
		return CheckFlags{}, nil, err
	}
	f := parsed.Flags
	flags := CheckFlags{
		ParserFlags: ParserFlags{
			Schema:          f.Schema,
			CaseInsensitive: f.CaseInsensitive,
			CollectText:     f.CollectText,
			DynamicKeyValue: f.DynamicKeyValue,
			ExpandBrackets:  f.ExpandBrackets,
		},
		Line:   f.Line,
		Format: f.Format,
	}
	if err := checkFormat(flags.Format); err != nil {
		return CheckFlags{}, nil, err
	}
	if flags.Line != "" && len(parsed.Args)+len(extraArgs) > 0 {
		return CheckFlags{}, nil, fmt.Errorf("cannot use --line together with positional arguments")
	}
	argsOut := append(parsed.Args, extraArgs...)
	return flags, argsOut, nil
}

func ParseBatch(args []string) (BatchFlags, []string, error) {
	parseArgs, extraArgs := splitArgsAtDoubleDash(args)
	parsed, err := parseFlags[batchFlagsParsed](parseArgs)
	if err != nil {
		return BatchFlags{}, nil, err
	}
	f := parsed.Flags
	flags := BatchFlags{
		ParserFlags: ParserFlags{
			Schema:          f.Schema,
			CaseInsensitive: f.CaseInsensitive,
			CollectText:     f.CollectText,
			DynamicKeyValue: f.DynamicKeyValue,
			ExpandBrackets:  f.ExpandBrackets,
		},
		File:   f.File,
		Jobs:   f.Jobs,
		Format: f.Format,
	}
	if flags.Jobs < 1 {
		return BatchFlags{}, nil, fmt.Errorf("--jobs must be at least 1, got %d", flags.Jobs)
	}
	if err := checkFormat(flags.Format); err != nil {
		return BatchFlags{}, nil, err
	}
	argsOut := append(parsed.Args, extraArgs...)
	return flags, argsOut, nil
}

func ParseExplain(args []string) (ExplainFlags, []string, error) {
	parseArgs, extraArgs := splitArgsAtDoubleDash(args)
	parsed, err := parseFlags[explainFlagsParsed](parseArgs)
	if err != nil {
		return ExplainFlags{}, nil, err
	}
	argsOut := append(parsed.Args, extraArgs...)
	return ExplainFlags{Schema: parsed.Flags.Schema}, argsOut, nil
}

func ParseCodes(args []string) (CodesFlags, []string, error) {
	parseArgs, extraArgs := splitArgsAtDoubleDash(args)
	parsed, err := parseFlags[codesFlagsParsed](parseArgs)
	if err != nil {
		return CodesFlags{}, nil, err
	}
	if err := checkFormat(parsed.Flags.Format); err != nil {
		return CodesFlags{}, nil, err
	}
	argsOut := append(parsed.Args, extraArgs...)
	return CodesFlags{Format: parsed.Flags.Format}, argsOut, nil
}

func checkFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

type parsedFlags[T any] struct {
	Flags T
	Args  []string
}

func parseFlags[T any](args []string) (parsedFlags[T], error) {
	result, err := yargs.ParseFlags[T](args)
	if err != nil {
		return parsedFlags[T]{}, err
	}
	argsOut := append([]string{}, result.Args...)
	if len(result.RemainingArgs) > 0 {
		argsOut = append(argsOut, result.RemainingArgs...)
	}
	return parsedFlags[T]{Flags: result.Flags, Args: argsOut}, nil
}

func splitArgsAtDoubleDash(args []string) ([]string, []string) {
	i := slices.Index(args, "--")
	if i < 0 {
		return args, nil
	}
	return args[:i], args[i+1:]
}

// StripCommand drops the leading command name that yargs passes to
// subcommand handlers.
func StripCommand(name string, args []string) []string {
	if len(args) > 0 && strings.EqualFold(args[0], name) {
		return args[1:]
	}
	return args
}

func RequireSchema(subcmd, path string) error {
	if path == "" {
		return fmt.Errorf("'%s' requires --schema", subcmd)
	}
	return nil
}
