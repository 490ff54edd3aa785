// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at link time.
var (
	version   = "dev"
	buildDate = "unknown"
)

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use: "version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "einkrefresh\n")
			fmt.Fprintf(os.Stdout, "  Version:    %s\n", version)
			fmt.Fprintf(os.Stdout, "  Build date: %s\n", buildDate)
			fmt.Fprintf(os.Stdout, "  Go version: %s\n", runtime.Version())
		},
	}
}
