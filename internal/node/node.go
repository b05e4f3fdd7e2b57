// Package node implements the "dcos node" commands: a short description,
// the node listing, and a two-hop ssh session into a node.
package node

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/dcos-cli/internal/cmds"
	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"github.com/rileyhilliard/dcos-cli/internal/logger"
	"github.com/rileyhilliard/dcos-cli/internal/mesos"
	"github.com/rileyhilliard/dcos-cli/internal/ui"
	"github.com/rileyhilliard/dcos-cli/internal/util"
	"github.com/rileyhilliard/dcos-cli/pkg/sshutil"
)

// Description is the help text of the node command group. Its first line
// is what --info prints.
const Description = `Manage DC/OS nodes

Usage:
    dcos node --info
    dcos node [--json]
    dcos node ssh [--option SSHOPT=VAL ...]
                  [--config_file=<path>]
                  [--user=<user>]
                  (--master | --slave=<slave-id>)`

// EmptyRosterNotice is written to stderr when the cluster has no agents.
const EmptyRosterNotice = "No slaves found."

// Argument keys consumed by the node handlers.
const (
	ArgInfo       = "--info"
	ArgJSON       = "--json"
	ArgMaster     = "--master"
	ArgSlave      = "--slave"
	ArgOption     = "--option"
	ArgConfigFile = "--config_file"
	ArgUser       = "--user"
)

// Cluster is the cluster state the node commands read.
type Cluster interface {
	Roster
	Metadata(ctx context.Context) (*mesos.Metadata, error)
}

// Service runs the node commands. Connect is only called by commands that
// need the cluster, so --info works without any configuration.
type Service struct {
	Connect func() (Cluster, error)
	Runner  sshutil.Runner

	// Getenv reads the process environment; defaults to os.Getenv.
	Getenv func(string) string
	// ProbeAgent counts agent identities; nil skips the check.
	ProbeAgent sshutil.AgentProbe
	// IsTerminal reports whether stdin is a terminal; nil assumes it is.
	IsTerminal func() bool

	// DefaultUser is the ssh login when --user is absent.
	DefaultUser string

	Stdout io.Writer
	Stderr io.Writer
	Log    logger.Logger
}

// Commands returns the node command table.
func (s *Service) Commands() []cmds.Command {
	return []cmds.Command{
		{
			Hierarchy: []string{"node", ArgInfo},
			Handler:   s.Info,
		},
		{
			Hierarchy: []string{"node"},
			ArgKeys:   []string{ArgJSON},
			Handler:   s.List,
		},
		{
			Hierarchy: []string{"node", "ssh"},
			ArgKeys:   []string{ArgMaster, ArgSlave, ArgOption, ArgConfigFile, ArgUser},
			Handler:   s.SSH,
		},
	}
}

// Info prints the first line of Description.
func (s *Service) Info(ctx context.Context, args cmds.Arguments) (int, error) {
	fmt.Fprintln(s.stdout(), util.FirstLine(Description))
	return 0, nil
}

// List prints the cluster's agents as a table, or as JSON with --json.
func (s *Service) List(ctx context.Context, args cmds.Arguments) (int, error) {
	cluster, err := s.Connect()
	if err != nil {
		return 1, err
	}

	slaves, err := cluster.Slaves(ctx)
	if err != nil {
		return 1, err
	}
	s.log().Debug("fetched %d %s", len(slaves), util.Pluralize(len(slaves), "node", "nodes"))

	if len(slaves) == 0 {
		fmt.Fprintln(s.stderr(), EmptyRosterNotice)
		return 0, nil
	}

	if args.Bool(ArgJSON) {
		return 0, writeJSON(s.stdout(), slaves)
	}

	fmt.Fprint(s.stdout(), s.renderTable(slaves))
	return 0, nil
}

func (s *Service) renderTable(slaves []mesos.Slave) string {
	columns := []ui.TableColumn{{Title: "HOSTNAME"}, {Title: "IP"}, {Title: "ID"}}
	rows := make([][]string, 0, len(slaves))
	for _, sl := range slaves {
		host, err := sl.Host()
		if err != nil {
			s.log().Warn("node %s: %v", sl.ID, err)
			host = "-"
		}
		rows = append(rows, []string{sl.Hostname, host, sl.ID})
	}
	return ui.RenderSimpleTable(columns, rows)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.WrapWithCode(err, errors.ErrExec, "Failed to write JSON output", "")
	}
	return nil
}

func (s *Service) stdout() io.Writer {
	if s.Stdout == nil {
		return os.Stdout
	}
	return s.Stdout
}

func (s *Service) stderr() io.Writer {
	if s.Stderr == nil {
		return os.Stderr
	}
	return s.Stderr
}

func (s *Service) log() logger.Logger {
	if s.Log == nil {
		return logger.Noop()
	}
	return s.Log
}

func (s *Service) getenv(key string) string {
	if s.Getenv == nil {
		return os.Getenv(key)
	}
	return s.Getenv(key)
}
