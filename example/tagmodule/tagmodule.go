// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/yeetrun/pamargs/pkg/pamargs"
	"github.com/yeetrun/pamargs/pkg/pamtag"
)

type options struct {
	Debug   bool          `pam:"DEBUG" help:"Enable debug mode"`
	Quiet   bool          `pam:"QUIET" conflicts:"DEBUG"`
	Service string        `pam:"SERVICE" required:"true"`
	Timeout time.Duration `pam:"TIMEOUT" default:"5s"`
	Port    uint16        `pam:"PORT" port:"1-65535" default:"22"`
	Groups  []string      `pam:"GROUPS"`
}

func main() {
	var opts options
	reg := pamargs.New()
	if err := pamtag.Register(reg, &opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if _, err := reg.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("%+v\n", opts)
	if err := pamtag.Encode(os.Stdout, &opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
