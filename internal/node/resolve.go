package node

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"github.com/rileyhilliard/dcos-cli/internal/mesos"
)

// LeaderHost is the cluster-internal name of the current leading master.
const LeaderHost = "leader.mesos"

// Selector picks the node to connect to: the leading master, or the agent
// with NodeID.
type Selector struct {
	Leader bool
	NodeID string
}

// Roster lists the cluster's agents.
type Roster interface {
	Slaves(ctx context.Context) ([]mesos.Slave, error)
}

// ResolveHost turns sel into a host reachable from the entry point.
// The roster is only consulted for a specific node id; when several
// entries share the id the first one wins.
func ResolveHost(ctx context.Context, roster Roster, sel Selector) (string, error) {
	if sel.Leader {
		return LeaderHost, nil
	}

	slaves, err := roster.Slaves(ctx)
	if err != nil {
		return "", err
	}
	return hostForID(slaves, sel.NodeID)
}

func hostForID(slaves []mesos.Slave, id string) (string, error) {
	for _, s := range slaves {
		if s.ID != id {
			continue
		}
		host, err := s.Host()
		if err != nil {
			return "", errors.WrapWithCode(err, errors.ErrTransport,
				fmt.Sprintf("Node %q has an unusable pid %q", id, s.PID),
				"The cluster reported a malformed agent record; check the master's state")
		}
		return host, nil
	}
	return "", &NotFoundError{ID: id}
}

// NotFoundError means no node in the roster has the requested id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return errors.Format(fmt.Sprintf("No slave found with ID %q.", e.ID), nil, e.ErrorSuggestion())
}

// ErrorCode implements errors.Coded.
func (e *NotFoundError) ErrorCode() string { return errors.ErrNotFound }

// ErrorSuggestion implements errors.Coded.
func (e *NotFoundError) ErrorSuggestion() string {
	return "Run 'dcos node' to list the IDs of the nodes in your cluster"
}
