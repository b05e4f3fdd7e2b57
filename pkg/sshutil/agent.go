package sshutil

import (
	"net"
	"time"

	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"golang.org/x/crypto/ssh/agent"
)

// AgentSocketEnv names the environment variable holding the ssh-agent socket.
const AgentSocketEnv = "SSH_AUTH_SOCK"

// AgentStatus is the result of a successful agent precondition check.
type AgentStatus struct {
	Socket string
}

// MissingAgentError means no ssh-agent is reachable from this process, so
// credentials cannot be forwarded through the entry point.
type MissingAgentError struct {
	Env string
}

func (e *MissingAgentError) Error() string {
	return errors.Format(
		"There is no SSH_AUTH_SOCK env variable, which likely means you aren't running `ssh-agent`",
		nil,
		e.ErrorSuggestion())
}

// ErrorCode implements errors.Coded.
func (e *MissingAgentError) ErrorCode() string { return errors.ErrAgent }

// ErrorSuggestion implements errors.Coded.
func (e *MissingAgentError) ErrorSuggestion() string {
	return "`dcos node ssh` depends on `ssh-agent` so we can safely use your private key to hop between nodes in your cluster. " +
		"Please run `ssh-agent`, then `ssh-add <private-key>` to add your private key to the agent."
}

// CheckAgent verifies that an agent socket is advertised in the
// environment. getenv is usually os.Getenv.
func CheckAgent(getenv func(string) string) (AgentStatus, error) {
	socket := getenv(AgentSocketEnv)
	if socket == "" {
		return AgentStatus{}, &MissingAgentError{Env: AgentSocketEnv}
	}
	return AgentStatus{Socket: socket}, nil
}

// AgentProbe reports how many identities the agent at socket holds.
type AgentProbe func(socket string) (int, error)

const agentDialTimeout = 2 * time.Second

// AgentKeyCount connects to the agent at socket and counts its identities.
func AgentKeyCount(socket string) (int, error) {
	conn, err := net.DialTimeout("unix", socket, agentDialTimeout)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrAgent,
			"Couldn't connect to ssh-agent at "+socket,
			"Check that ssh-agent is still running, or start a new one with: eval $(ssh-agent)")
	}
	defer conn.Close()

	keys, err := agent.NewClient(conn).List()
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrAgent,
			"Couldn't list ssh-agent identities",
			"Restart ssh-agent and add your key again with: ssh-add <private-key>")
	}
	return len(keys), nil
}
