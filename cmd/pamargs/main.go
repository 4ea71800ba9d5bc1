// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/shayne/yargs"
	"golang.org/x/term"

	"github.com/yeetrun/pamargs/pkg/cli"
	"github.com/yeetrun/pamargs/pkg/pamargs"
)

type globalFlagsParsed struct {
	Verbose bool `flag:"verbose" short:"v" help:"Log parser events to stderr"`
	NoColor bool `flag:"no-color" help:"Disable colored output"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

var isTerminalFn = term.IsTerminal

// logger is replaced in main once the global flags are known.
var logger = slog.New(slog.DiscardHandler)

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func printCLIError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var perr *pamargs.Error
	if errors.As(err, &perr) {
		fmt.Fprintf(w, "%s %s\n", color.RedString(perr.Code()), perr.Details())
		return
	}
	fmt.Fprintln(w, color.RedString("error:"), err)
}

func buildHandlers() map[string]yargs.SubcommandHandler {
	return map[string]yargs.SubcommandHandler{
		cli.CommandCheck:   handleCheck,
		cli.CommandBatch:   handleBatch,
		cli.CommandExplain: handleExplain,
		cli.CommandCodes:   handleCodes,
	}
}

func handleCheck(ctx context.Context, args []string) error {
	flags, rest, err := cli.ParseCheck(cli.StripCommand(cli.CommandCheck, args))
	if err != nil {
		return err
	}
	if err := cli.RequireSchema(cli.CommandCheck, flags.Schema); err != nil {
		return err
	}
	reg, err := cli.LoadRegistry(flags.ParserFlags, logger)
	if err != nil {
		return err
	}
	if flags.Line != "" {
		return cli.CheckLine(os.Stdout, reg, flags.Line, flags.Format)
	}
	return cli.Check(os.Stdout, reg, rest, flags.Format)
}

func handleBatch(ctx context.Context, args []string) error {
	flags, rest, err := cli.ParseBatch(cli.StripCommand(cli.CommandBatch, args))
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("'%s' takes no positional arguments, got %q", cli.CommandBatch, rest)
	}
	if err := cli.RequireSchema(cli.CommandBatch, flags.Schema); err != nil {
		return err
	}
	reg, err := cli.LoadRegistry(flags.ParserFlags, logger)
	if err != nil {
		return err
	}
	in := io.Reader(os.Stdin)
	if flags.File != "-" {
		f, err := os.Open(flags.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	return cli.Batch(ctx, in, os.Stdout, reg, flags.Jobs, flags.Format)
}

func handleExplain(ctx context.Context, args []string) error {
	flags, _, err := cli.ParseExplain(cli.StripCommand(cli.CommandExplain, args))
	if err != nil {
		return err
	}
	if err := cli.RequireSchema(cli.CommandExplain, flags.Schema); err != nil {
		return err
	}
	reg, err := cli.LoadRegistry(cli.ParserFlags{Schema: flags.Schema}, logger)
	if err != nil {
		return err
	}
	return cli.Explain(os.Stdout, reg)
}

func handleCodes(ctx context.Context, args []string) error {
	flags, _, err := cli.ParseCodes(cli.StripCommand(cli.CommandCodes, args))
	if err != nil {
		return err
	}
	return cli.Codes(os.Stdout, flags.Format)
}

func main() {
	globalFlags, remaining, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		printCLIError(os.Stderr, err)
		os.Exit(2)
	}
	if globalFlags.NoColor || !isTerminalFn(int(os.Stderr.Fd())) {
		color.NoColor = true
	}
	logger = newLogger(os.Stderr, globalFlags.Verbose)

	helpConfig := cli.HelpConfig()
	args := yargs.ApplyAliases(remaining, helpConfig)
	if err := yargs.RunSubcommands(context.Background(), args, helpConfig, globalFlags, buildHandlers()); err != nil {
		// The report was already written to stdout.
		if !errors.Is(err, cli.ErrFailed) {
			printCLIError(os.Stderr, err)
		}
		os.Exit(1)
	}
}
