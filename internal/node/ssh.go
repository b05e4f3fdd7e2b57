package node

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/dcos-cli/internal/cmds"
	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"github.com/rileyhilliard/dcos-cli/internal/ui"
	"github.com/rileyhilliard/dcos-cli/pkg/sshutil"
)

// SSH opens an interactive session on the selected node by hopping through
// the cluster's public entry point. It returns the exit status of ssh.
//
// The agent check runs first: without an agent nothing is fetched and no
// process is started.
func (s *Service) SSH(ctx context.Context, args cmds.Arguments) (int, error) {
	agentStatus, err := sshutil.CheckAgent(s.getenv)
	if err != nil {
		return 1, err
	}
	s.checkAgentKeys(agentStatus)

	var sshConfig *sshutil.ConfigFile
	if path := args.String(ArgConfigFile); path != "" {
		sshConfig, err = sshutil.LoadConfigFile(path)
		if err != nil {
			return 1, err
		}
	}

	sel, err := selectorFrom(args)
	if err != nil {
		return 1, err
	}

	cluster, err := s.Connect()
	if err != nil {
		return 1, err
	}

	target, err := ResolveHost(ctx, cluster, sel)
	if err != nil {
		return 1, err
	}

	md, err := cluster.Metadata(ctx)
	if err != nil {
		return 1, err
	}
	if md.PublicIPv4 == "" {
		return 1, errors.New(errors.ErrTransport,
			"The cluster did not report a public IP address (PUBLIC_IPV4)",
			"Check the cluster's /metadata endpoint")
	}

	user := args.String(ArgUser)
	if user == "" {
		user = s.DefaultUser
	}

	hop := sshutil.HopSpec{
		EntryPoint: md.PublicIPv4,
		Target:     target,
		User:       user,
		Options:    args.Strings(ArgOption),
	}
	if err := hop.Validate(); err != nil {
		return 1, err
	}
	if sshConfig != nil {
		hop.ConfigFile = sshConfig.Path
		if sshConfig.MatchLine > 0 {
			s.warn(fmt.Sprintf("%s: entries from line %d (Match) are not checked", sshConfig.Path, sshConfig.MatchLine))
		}
		if !sshConfig.ForwardsAgent(hop.EntryPoint) {
			s.warn(fmt.Sprintf("%s sets ForwardAgent no for %s; the second hop will not be able to authenticate", sshConfig.Path, hop.EntryPoint))
		}
	}

	if s.IsTerminal != nil && !s.IsTerminal() {
		s.warn("stdin is not a terminal; ssh may refuse to allocate a pseudo-terminal")
	}

	s.log().Info("connecting to %s through %s", target, hop.EntryPoint)
	return s.Runner.Run(ctx, sshutil.SSHBinary, hop.Args())
}

func (s *Service) checkAgentKeys(status sshutil.AgentStatus) {
	if s.ProbeAgent == nil {
		return
	}
	n, err := s.ProbeAgent(status.Socket)
	if err != nil {
		s.log().Debug("agent probe failed: %v", err)
		return
	}
	if n == 0 {
		s.warn("ssh-agent has no identities loaded. Add your key with: ssh-add <private-key>")
	}
}

func (s *Service) warn(msg string) {
	fmt.Fprintln(s.stderr(), ui.RenderWarning(msg))
}

func selectorFrom(args cmds.Arguments) (Selector, error) {
	leader := args.Bool(ArgMaster)
	id := args.String(ArgSlave)

	switch {
	case leader && id != "":
		return Selector{}, errors.New(errors.ErrUsage,
			"--master and --slave cannot be used together",
			"Pick one node: --master for the leading master, --slave=<id> for an agent")
	case leader:
		return Selector{Leader: true}, nil
	case id != "":
		return Selector{NodeID: id}, nil
	}
	return Selector{}, errors.New(errors.ErrUsage,
		"One of --master or --slave is required",
		"Run 'dcos node' to list node IDs")
}
