// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// einkrefresh drives an e-ink panel, or a terminal emulation of one, through
// the interval refresh policy.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use:   "einkrefresh",
		Short: "Exercise the e-ink refresh policy",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(os.Stderr, cmd.UsageString())
		},
	}

	cmd.AddCommand(versionCommand())
	cmd.AddCommand(runCommand())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
