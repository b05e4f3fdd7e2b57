package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"github.com/rileyhilliard/dcos-cli/internal/logger"
	"github.com/rileyhilliard/dcos-cli/internal/ui"
	"github.com/spf13/cobra"
)

const logLevelFlag = "log-level"

// NewRootCmd builds the dcos command tree bound to env.
func NewRootCmd(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:           "dcos",
		Short:         "Command line interface for DC/OS",
		Version:       formatVersion(version),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd, env)
		},
	}
	root.SetIn(env.Stdin)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	root.PersistentFlags().String(logLevelFlag, "",
		"log level: debug, info, warning, error or critical (default from "+logger.LevelEnv+", else warning)")

	root.AddCommand(
		newNodeCmd(env),
		newConfigCmd(env),
		newVersionCmd(),
	)
	return root
}

func setupLogging(cmd *cobra.Command, env *Env) error {
	raw := env.getenv(logger.LevelEnv)
	source := logger.LevelEnv
	if f := cmd.Flags().Lookup(logLevelFlag); f != nil && f.Changed {
		raw = f.Value.String()
		source = "--" + logLevelFlag
	}

	level, err := logger.ParseLevel(raw)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid log level from %s", source),
			"Use one of: debug, info, warning, error, critical")
	}

	env.log = logger.New(env.Stderr, level, "dcos")
	ui.ConfigureColor(env.Stdout)
	return nil
}

func (e *Env) getenv(key string) string {
	if e.Getenv == nil {
		return os.Getenv(key)
	}
	return e.Getenv(key)
}

// Run executes the command line args and returns the process exit code.
func Run(ctx context.Context, args []string, env *Env) int {
	root := NewRootCmd(env)
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	return reportError(cmd, env, err)
}

// Execute runs the CLI against the real process and exits.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], DefaultEnv()))
}

// reportError prints err for the user and maps it to an exit code.
func reportError(cmd *cobra.Command, env *Env, err error) int {
	if err == nil {
		return 0
	}
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}

	if cmd != nil && jsonRequested(cmd) {
		if werr := WriteJSONFromError(env.Stdout, err); werr == nil {
			return 1
		}
	}

	if isUnknownCommandError(err) {
		err = errors.WrapWithCode(err, errors.ErrUsage,
			"Invalid command line",
			"Run 'dcos --help' to see the supported commands")
	}
	fmt.Fprint(env.Stderr, ui.RenderError(strings.TrimRight(err.Error(), "\n")+"\n"))
	return 1
}

func jsonRequested(cmd *cobra.Command) bool {
	f := cmd.Flags().Lookup("json")
	return f != nil && f.Value.String() == "true"
}

// isUnknownCommandError reports cobra's own argument errors, which are
// plain strings without a code.
func isUnknownCommandError(err error) bool {
	if errors.IsCode(err, errors.ErrUsage) {
		return false
	}
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "if any flags in the group", "at least one of the flags in the group", "required flag", "flag needs an argument", "invalid argument", "accepts ", "requires "} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
