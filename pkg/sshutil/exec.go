package sshutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"github.com/rileyhilliard/dcos-cli/internal/logger"
)

// ExecRunner runs programs as child processes sharing this process's
// terminal. Nil streams default to the process's own.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    logger.Logger
}

// Run starts name with args and waits for it to exit.
//
// SIGINT and SIGTERM are swallowed by this process while the child runs.
// The terminal delivers them to the child too, and the child decides how to
// exit; we then report its status. They are caught rather than ignored so
// the child does not inherit an ignored disposition.
func (r ExecRunner) Run(ctx context.Context, name string, args []string) (int, error) {
	log := r.Log
	if log == nil {
		log = logger.Noop()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = orReader(r.Stdin, os.Stdin)
	cmd.Stdout = orWriter(r.Stdout, os.Stdout)
	cmd.Stderr = orWriter(r.Stderr, os.Stderr)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for sig := range sigs {
			log.Debug("ignoring %s while %s runs", sig, name)
		}
	}()
	defer func() {
		signal.Stop(sigs)
		close(sigs)
	}()

	log.Debug("running %s %s", name, strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		return -1, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Couldn't start %s", name),
			fmt.Sprintf("Make sure %s is installed and on your PATH.", name))
	}

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitCode(exitErr)
			log.Debug("%s exited with %d", name, code)
			return code, nil
		}
		return -1, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("%s did not exit cleanly", name),
			"")
	}
	return 0, nil
}

// exitCode follows the shell convention of 128+n for a child killed by
// signal n.
func exitCode(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return exitErr.ExitCode()
}

func orReader(r io.Reader, def io.Reader) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orWriter(w io.Writer, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
