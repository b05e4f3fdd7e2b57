package cli

import (
	"io"
	"os"

	"github.com/rileyhilliard/dcos-cli/internal/config"
	"github.com/rileyhilliard/dcos-cli/internal/logger"
	"github.com/rileyhilliard/dcos-cli/internal/mesos"
	"github.com/rileyhilliard/dcos-cli/internal/node"
	"github.com/rileyhilliard/dcos-cli/pkg/sshutil"
	"golang.org/x/term"
)

// Env holds the process resources commands use. Tests replace them.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Getenv     func(string) string
	Runner     sshutil.Runner
	ProbeAgent sshutil.AgentProbe
	IsTerminal func() bool

	// ConfigPath overrides config.Path().
	ConfigPath string

	log    logger.Logger
	cfg    *config.Config
	cfgErr error
	loaded bool
}

// DefaultEnv returns an Env bound to the real process.
func DefaultEnv() *Env {
	return &Env{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Getenv:     os.Getenv,
		Runner:     sshutil.ExecRunner{},
		ProbeAgent: sshutil.AgentKeyCount,
		IsTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

func (e *Env) configPath() string {
	if e.ConfigPath != "" {
		return e.ConfigPath
	}
	return config.Path()
}

// config loads the config file once per command.
func (e *Env) config() (*config.Config, error) {
	if !e.loaded {
		e.cfg, e.cfgErr = config.Load(e.configPath())
		e.loaded = true
	}
	return e.cfg, e.cfgErr
}

func (e *Env) logger() logger.Logger {
	if e.log == nil {
		return logger.Noop()
	}
	return e.log
}

// connect builds a cluster client from the config.
func (e *Env) connect() (node.Cluster, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireURL(); err != nil {
		return nil, err
	}
	return newClusterClient(cfg, e.logger()), nil
}

func newClusterClient(cfg *config.Config, log logger.Logger) *mesos.Client {
	opts := []mesos.Option{
		mesos.WithTimeout(cfg.Core.Timeout),
		mesos.WithLogger(log),
	}
	if cfg.Core.ACSToken != "" {
		opts = append(opts, mesos.WithToken(cfg.Core.ACSToken))
	}
	if !cfg.Core.SSLVerify {
		opts = append(opts, mesos.WithInsecureSkipVerify())
	}
	return mesos.New(cfg.Core.DCOSURL, opts...)
}

func (e *Env) nodeService() *node.Service {
	runner := e.Runner
	switch r := runner.(type) {
	case nil:
		runner = sshutil.ExecRunner{Log: e.logger()}
	case sshutil.ExecRunner:
		if r.Log == nil {
			r.Log = e.logger()
			runner = r
		}
	}
	return &node.Service{
		Connect:     e.connect,
		Runner:      runner,
		Getenv:      e.Getenv,
		ProbeAgent:  e.ProbeAgent,
		IsTerminal:  e.IsTerminal,
		DefaultUser: config.DefaultSSHUser,
		Stdout:      e.Stdout,
		Stderr:      e.Stderr,
		Log:         e.logger(),
	}
}
