// Command librarian runs a seeded library through some circulation traffic and
// prints either the resulting report or the journal of domain events.
//
// Configuration comes from the environment (see Config) and can be overridden with flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(&cfg).ExecuteContext(ctx); err != nil {
		return 1
	}

	return 0
}
