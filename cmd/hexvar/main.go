// hexvar - consolidate hex colour literals into CSS custom properties
//
// hexvar scans stylesheets and components for hex colours, groups the ones
// that look alike, and rewrites them as references to a shared palette.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/hexvar/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
