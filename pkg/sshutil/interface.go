package sshutil

import "context"

// Runner starts an external program and waits for it.
//
// Run returns the program's exit status. A non-zero status with a nil error
// means the program ran and failed, with 128+n for a program killed by
// signal n; -1 with an error means it never started.
type Runner interface {
	Run(ctx context.Context, name string, args []string) (exitCode int, err error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, name string, args []string) (int, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, name string, args []string) (int, error) {
	return f(ctx, name, args)
}
