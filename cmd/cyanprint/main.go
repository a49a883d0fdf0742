package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/cyanprint/cyancore/internal/cyanerr"
	"github.com/cyanprint/cyancore/internal/registry"
)

// Runner encapsulates the state and behavior for the CLI, mirroring the
// dispatch-by-subcommand shape used throughout this tool family.
type Runner struct {
	Args Args
}

// NewRunner creates and initializes a new Runner.
func NewRunner(args Args) *Runner {
	return &Runner{Args: args}
}

// Run dispatches to the appropriate subcommand.
func (r *Runner) Run(ctx context.Context) error {
	switch {
	case r.Args.Apply != nil:
		return r.runApply(ctx, *r.Args.Apply)
	case r.Args.Clean != nil:
		return r.runClean(ctx, *r.Args.Clean)
	default:
		return fmt.Errorf("no subcommand specified, use 'apply' or 'clean'")
	}
}

func (r *Runner) runApply(ctx context.Context, cmd ApplyCmd) error {
	ref, err := registry.ParseRef(cmd.Ref)
	if err != nil {
		return err
	}

	orch, err := InitOrchestrator()
	if err != nil {
		return err
	}

	return orch.Apply(ctx, ref, cmd.TargetDir)
}

func (r *Runner) runClean(ctx context.Context, cmd CleanCmd) error {
	cfg, err := ProvideConfig()
	if err != nil {
		return err
	}
	coord := ProvideCoordinatorClient(cfg)

	var firstErr error
	for _, sessionID := range cmd.SessionIDs {
		if err := coord.Clean(ctx, sessionID); err != nil {
			fmt.Fprintf(os.Stderr, "clean %s: %v\n", sessionID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// main is our entrypoint: parse args and run the application.
func main() {
	var args Args
	parser := arg.MustParse(&args)

	if args.Apply == nil && args.Clean == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	runner := NewRunner(args)
	if err := runner.Run(context.Background()); err != nil {
		printErr(err)
		os.Exit(1)
	}
}

// printErr renders an error per spec §7's propagation policy: a user abort
// prints nothing and exits the process with status 0, a structured remote
// failure prints its problem details, everything else gets a one-line
// transport/IO message.
func printErr(err error) {
	var abort *cyanerr.UserAbort
	if errors.As(err, &abort) {
		os.Exit(0)
	}

	var remote *cyanerr.RemoteError
	if errors.As(err, &remote) {
		fmt.Fprintf(os.Stderr, "error: %s (status %d)\n", remote.Problem.Title, remote.Problem.Status)
		if remote.Problem.TraceID != "" {
			fmt.Fprintf(os.Stderr, "  trace: %s\n", remote.Problem.TraceID)
		}
		return
	}

	log.SetFlags(0)
	log.Printf("error: %v", err)
}
