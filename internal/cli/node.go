package cli

import (
	"github.com/rileyhilliard/dcos-cli/internal/cmds"
	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"github.com/rileyhilliard/dcos-cli/internal/node"
	"github.com/rileyhilliard/dcos-cli/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newNodeCmd(env *Env) *cobra.Command {
	nodeCmd := &cobra.Command{
		Use:   "node",
		Short: util.FirstLine(node.Description),
		Long:  node.Description,
		Args:  cobra.NoArgs,
		Example: `  dcos node
  dcos node --json
  dcos node ssh --master
  dcos node ssh --slave=<slave-id> --option StrictHostKeyChecking=no`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchNode(cmd, env)
		},
	}
	nodeCmd.Flags().Bool("info", false, "Show a short description of this subcommand")
	nodeCmd.Flags().Bool("json", false, "Print json-formatted nodes")

	sshCmd := &cobra.Command{
		Use:   "ssh (--master | --slave=<slave-id>)",
		Short: "Log into a node over ssh through the cluster's public entry point",
		Long: `Log into a node over ssh.

The session hops through the cluster's public entry point, forwarding your
ssh-agent so your private key never leaves this machine. An ssh-agent with
your key loaded is required (see ssh-add).

Options given with --option and --config_file apply to the connection to the
entry point only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("user") {
				if err := cmd.Flags().Set("user", cfg.Core.SSHUser); err != nil {
					return err
				}
			}
			return dispatchNode(cmd, env)
		},
	}
	sshCmd.Flags().StringArray("option", nil, "SSH option passed as -o to the first hop (repeatable), e.g. --option Protocol=2")
	sshCmd.Flags().String("config_file", "", "Path to an ssh config file, passed as -F to the first hop")
	sshCmd.Flags().String("user", "", "Remote user (default from core.ssh_user, else \"core\")")
	sshCmd.Flags().Bool("master", false, "Log into the leading master")
	sshCmd.Flags().String("slave", "", "Log into the agent with this ID")
	sshCmd.MarkFlagsMutuallyExclusive("master", "slave")
	sshCmd.MarkFlagsOneRequired("master", "slave")

	nodeCmd.AddCommand(sshCmd)
	return nodeCmd
}

// dispatchNode routes the parsed node command line through the command table.
func dispatchNode(cmd *cobra.Command, env *Env) error {
	table, err := cmds.NewTable(env.nodeService().Commands()...)
	if err != nil {
		return err
	}

	code, err := table.Execute(cmd.Context(), ArgumentsFromCommand(cmd))
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.NewExitError(code)
	}
	return nil
}

// ArgumentsFromCommand converts a parsed cobra command into dispatcher
// arguments: each word of the command path maps to true, each flag maps
// to "--<name>" with its typed value.
func ArgumentsFromCommand(cmd *cobra.Command) cmds.Arguments {
	args := cmds.Arguments{}
	for c := cmd; c.HasParent(); c = c.Parent() {
		args[c.Name()] = true
	}

	flags := cmd.Flags()
	flags.VisitAll(func(f *pflag.Flag) {
		key := "--" + f.Name
		switch f.Value.Type() {
		case "bool":
			v, _ := flags.GetBool(f.Name)
			args[key] = v
		case "stringArray":
			v, _ := flags.GetStringArray(f.Name)
			args[key] = v
		case "stringSlice":
			v, _ := flags.GetStringSlice(f.Name)
			args[key] = v
		default:
			args[key] = f.Value.String()
		}
	})
	return args
}
