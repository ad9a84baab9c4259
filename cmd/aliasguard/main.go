// Package main provides the entry point for the aliasguard CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sumatoshi-tech/aliasguard/cmd/aliasguard/commands"
	"github.com/Sumatoshi-tech/aliasguard/pkg/version"
)

func main() {
	version.Resolve()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := commands.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
