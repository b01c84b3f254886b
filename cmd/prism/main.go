package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/wehubfusion/Prism/cmd"
	perrors "github.com/wehubfusion/Prism/pkg/errors"
)

// Exit codes
const (
	exitOK     = 0
	exitError  = 1
	exitConfig = 2
	exitInput  = 3
)

func main() {
	// Respect container CPU quotas before any worker pool is sized.
	undo, err := maxprocs.Set()
	defer undo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set GOMAXPROCS: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx))
}

func run(ctx context.Context) int {
	err := cmd.Execute(ctx)
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return exitCode(err)
}

func exitCode(err error) int {
	switch perrors.Code(err) {
	case perrors.CodeConfiguration:
		return exitConfig
	case perrors.CodeRequest:
		return exitInput
	}
	return exitError
}
