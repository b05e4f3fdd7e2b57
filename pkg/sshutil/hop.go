package sshutil

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"github.com/rileyhilliard/dcos-cli/internal/util"
)

// SSHBinary is the client program every hop invokes.
const SSHBinary = "ssh"

// HopSpec describes a two-leg ssh session: the local client connects to
// EntryPoint, and from there a second ssh connects to Target. Agent
// forwarding carries the caller's identity across both legs so no private
// key ever lands on the entry point.
type HopSpec struct {
	EntryPoint string
	Target     string
	User       string

	// Options are passed as "-o <opt>" on the outer leg only.
	Options []string
	// ConfigFile is passed as "-F <path>" on the outer leg only.
	ConfigFile string
}

// Validate rejects a user or host that ssh would parse as an option.
func (h HopSpec) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"user", h.User},
		{"entry point", h.EntryPoint},
		{"target", h.Target},
	} {
		if strings.HasPrefix(f.value, "-") {
			return errors.New(errors.ErrUsage,
				fmt.Sprintf("Invalid ssh %s %q: must not start with '-'", f.name, f.value),
				"Check --user, core.ssh_user and DCOS_SSH_USER")
		}
	}
	if h.EntryPoint == "" || h.Target == "" {
		return errors.New(errors.ErrUsage, "Both hops need a host", "")
	}
	return nil
}

// Args builds the argument vector for SSHBinary, without the program name.
//
// The shape is:
//
//	-A -t [-o OPT]... [-F CONFIG] USER@ENTRY ssh -A -t USER@TARGET
//
// Options and the config file apply to the outer leg only; the inner leg
// gets agent forwarding and a pty and nothing else. The inner tokens are
// run by the entry point's login shell, so each one is shell-quoted.
func (h HopSpec) Args() []string {
	args := []string{"-A", "-t"}
	for _, opt := range h.Options {
		args = append(args, "-o", opt)
	}
	if h.ConfigFile != "" {
		args = append(args, "-F", h.ConfigFile)
	}
	args = append(args, Login(h.User, h.EntryPoint))
	return append(args, util.QuoteArgs(h.innerArgs())...)
}

func (h HopSpec) innerArgs() []string {
	return []string{SSHBinary, "-A", "-t", Login(h.User, h.Target)}
}

// Command returns the full command line, program name first.
func (h HopSpec) Command() []string {
	return append([]string{SSHBinary}, h.Args()...)
}

// Login formats user@host, or just host when user is empty.
func Login(user, host string) string {
	if user == "" {
		return host
	}
	return user + "@" + host
}
