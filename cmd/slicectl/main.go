// Package main is the entry point for the slicectl CLI.
//
// slicectl provisions networked testbed slices (nodes, networks and a
// lease) on a remote backend, waits until they are reachable and prints
// how to connect to them. It also regenerates the central unit ConfigMap
// from a cluster topology.
//
// Commands: create, inspect, destroy, manifest, version.
//
// For detailed usage information, run:
//
//	slicectl --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/slicectl/cmd/slicectl/commands"
	"github.com/imamik/slicectl/cmd/slicectl/handlers"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, handlers.FormatError(err))
		os.Exit(handlers.ExitCode(err))
	}
}
