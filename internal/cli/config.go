package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/dcos-cli/internal/config"
	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"github.com/rileyhilliard/dcos-cli/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const secretMask = "********"

func newConfigCmd(env *Env) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the CLI configuration",
		Long: fmt.Sprintf(`Manage the CLI configuration.

The configuration file is read from $%s, or %s by default.
Every key can be overridden with an environment variable:

%s`, config.PathEnv, "~/"+config.ConfigDir+"/"+config.ConfigFileName, keyTable()),
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show [key]",
			Short: "Print the effective configuration, or one key",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return configShow(env, args)
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration key",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.Set(env.configPath(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(env.Stdout, "%s %s updated\n", ui.SymbolSuccess, args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "unset <key>",
			Short: "Remove a configuration key, restoring its default",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.Unset(env.configPath(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(env.Stdout, "%s %s removed\n", ui.SymbolSuccess, args[0])
				return nil
			},
		},
		newConfigInitCmd(env),
	)
	return configCmd
}

func keyTable() string {
	var b strings.Builder
	for _, k := range config.Keys {
		fmt.Fprintf(&b, "  %-22s %-18s %s\n", k.Name, k.Env, k.Usage)
	}
	return b.String()
}

func configShow(env *Env, args []string) error {
	cfg, err := env.config()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		v, ok := cfg.Get(args[0])
		if !ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown config key '%s'", args[0]),
				"Run 'dcos config show' to list the supported keys")
		}
		fmt.Fprintln(env.Stdout, v)
		return nil
	}

	out, err := renderConfig(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(env.Stdout, out)
	return nil
}

// renderConfig prints every key as YAML in the order of config.Keys. Unset
// keys are omitted and secrets are masked.
func renderConfig(cfg *config.Config) (string, error) {
	sections := map[string]*yaml.Node{}
	doc := &yaml.Node{Kind: yaml.MappingNode}

	for _, k := range config.Keys {
		v, _ := cfg.Get(k.Name)
		if v == "" {
			continue
		}
		if k.Kind == config.KindSecret {
			v = secretMask
		}

		section, field, _ := strings.Cut(k.Name, ".")
		node, ok := sections[section]
		if !ok {
			node = &yaml.Node{Kind: yaml.MappingNode}
			sections[section] = node
			doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: section}, node)
		}
		value := &yaml.Node{Kind: yaml.ScalarNode, Value: v}
		if k.Kind == config.KindBool {
			value.Tag = "!!bool"
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: field}, value)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig, "Failed to render config", "")
	}
	return string(out), nil
}

type initOptions struct {
	URL            string
	Token          string
	User           string
	Insecure       bool
	NonInteractive bool
}

func newConfigInitCmd(env *Env) *cobra.Command {
	var opts initOptions
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or update the configuration interactively",
		Long: `Create or update the configuration.

On a terminal the values are prompted for. Otherwise, or with
--non-interactive, they come from the flags and --url is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return configInit(cmd.Context(), env, opts)
		},
	}
	cmd.Flags().StringVar(&opts.URL, "url", "", "cluster URL (core.dcos_url)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "authentication token (core.dcos_acs_token)")
	cmd.Flags().StringVar(&opts.User, "user", config.DefaultSSHUser, "ssh login for node ssh (core.ssh_user)")
	cmd.Flags().BoolVar(&opts.Insecure, "insecure", false, "skip TLS certificate verification (core.ssl_verify=false)")
	cmd.Flags().BoolVar(&opts.NonInteractive, "non-interactive", false, "never prompt")
	return cmd
}

func configInit(ctx context.Context, env *Env, opts initOptions) error {
	interactive := !opts.NonInteractive && env.IsTerminal != nil && env.IsTerminal()

	if interactive {
		if err := promptInit(env, &opts); err != nil {
			return err
		}
	} else if opts.URL == "" {
		return errors.New(errors.ErrConfig,
			"--url is required when not running interactively",
			"Run: dcos config init --url https://<cluster>")
	}

	cfg := config.DefaultConfig()
	cfg.Core.DCOSURL = strings.TrimRight(opts.URL, "/")
	cfg.Core.ACSToken = opts.Token
	cfg.Core.SSHUser = opts.User
	cfg.Core.SSLVerify = !opts.Insecure
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if _, err := newClusterClient(cfg, env.logger()).Metadata(ctx); err != nil {
		fmt.Fprintln(env.Stderr, ui.RenderWarning(fmt.Sprintf("Couldn't reach %s: %s", cfg.Core.DCOSURL, firstLine(err))))
		if interactive && !confirm(env, "Save the configuration anyway?") {
			fmt.Fprintln(env.Stdout, "Cancelled.")
			return nil
		}
	}

	path := env.configPath()
	values := [][2]string{
		{"core.dcos_url", cfg.Core.DCOSURL},
		{"core.ssh_user", cfg.Core.SSHUser},
		{"core.ssl_verify", strconv.FormatBool(cfg.Core.SSLVerify)},
	}
	if cfg.Core.ACSToken != "" {
		values = append(values, [2]string{"core.dcos_acs_token", cfg.Core.ACSToken})
	}
	for _, kv := range values {
		if err := config.Set(path, kv[0], kv[1]); err != nil {
			return err
		}
	}

	fmt.Fprintf(env.Stdout, "%s Wrote %s\n", ui.SymbolSuccess, path)
	return nil
}

func promptInit(env *Env, opts *initOptions) error {
	verify := !opts.Insecure
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster URL").
				Description("Address of your DC/OS cluster").
				Placeholder("https://dcos.example.com").
				Value(&opts.URL).
				Validate(func(s string) error {
					key, _ := config.LookupKey("core.dcos_url")
					return config.ValidateValue(key, strings.TrimSpace(s))
				}),
			huh.NewInput().
				Title("Authentication token").
				Description("Leave empty if the cluster does not require one").
				EchoMode(huh.EchoModePassword).
				Value(&opts.Token),
			huh.NewInput().
				Title("SSH user").
				Description("Login used by 'dcos node ssh'").
				Value(&opts.User).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("ssh user is required")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Verify the cluster's TLS certificate?").
				Value(&verify),
		),
	).WithInput(env.Stdin).WithOutput(env.Stderr)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Use --non-interactive with --url to skip the prompts")
	}
	opts.URL = strings.TrimSpace(opts.URL)
	opts.Insecure = !verify
	return nil
}

func confirm(env *Env, title string) bool {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(title).Value(&ok),
		),
	).WithInput(env.Stdin).WithOutput(env.Stderr)
	if err := form.Run(); err != nil {
		return false
	}
	return ok
}

func firstLine(err error) string {
	msg := strings.TrimPrefix(err.Error(), ui.SymbolFail+" ")
	line, _, _ := strings.Cut(msg, "\n")
	return line
}
