// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/yeetrun/pamargs/pkg/convert"
	"github.com/yeetrun/pamargs/pkg/pamargs"
)

func main() {
	var (
		debug bool
		user  string
		port  int
		align = "LEFT"
	)
	reg := pamargs.New(
		pamargs.WithCaseInsensitive(),
		pamargs.WithNonArgumentText(),
		pamargs.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
	reg.MustRegister(
		pamargs.Flag("DEBUG", "Enable debug mode", pamargs.BindTo(&debug)),
		pamargs.Flag("VERBOSE", "Enable verbose output"),
		pamargs.KeyValue("USER", "Username for authentication", pamargs.Convert(convert.String), pamargs.Required(), pamargs.BindTo(&user)),
		pamargs.KeyValue("PORT", "Port number", pamargs.Convert(convert.WithValidation(convert.Int, convert.Range(1, 65535))), pamargs.BindTo(&port)),
		pamargs.KeyValue("ALIGN", "Text alignment", pamargs.Convert(convert.String), pamargs.AllowedValues("LEFT", "CENTER", "RIGHT"), pamargs.BindTo(&align)),
	)
	if err := reg.DependsOn("VERBOSE", "DEBUG"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	res, err := reg.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("user=%s port=%d align=%s debug=%t verbose=%t\n", user, port, align, debug, res.Flag("VERBOSE"))
	if text := res.NonArgumentText(); len(text) > 0 {
		fmt.Printf("text=%q\n", text)
	}
}
