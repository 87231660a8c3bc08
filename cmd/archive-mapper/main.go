// Package main provides the CLI entrypoint for archive-mapper.
//
// archive-mapper rewrites compiled JVM archives from one naming namespace
// into another using a reviewed mapping file:
//   - remap: translates every class of a jar or class directory
//   - check: validates a mapping file, optionally against an archive
//   - lookup: translates single class, field or method symbols
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
