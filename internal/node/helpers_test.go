package node

import (
	"bytes"
	"context"

	"github.com/rileyhilliard/dcos-cli/internal/logger"
	"github.com/rileyhilliard/dcos-cli/internal/mesos"
	"github.com/rileyhilliard/dcos-cli/pkg/sshutil"
)

type fakeCluster struct {
	slaves    []mesos.Slave
	slavesErr error
	metadata  *mesos.Metadata
	mdErr     error

	slaveCalls    int
	metadataCalls int
}

func (f *fakeCluster) Slaves(ctx context.Context) ([]mesos.Slave, error) {
	f.slaveCalls++
	return f.slaves, f.slavesErr
}

func (f *fakeCluster) Metadata(ctx context.Context) (*mesos.Metadata, error) {
	f.metadataCalls++
	if f.mdErr != nil {
		return nil, f.mdErr
	}
	if f.metadata == nil {
		return &mesos.Metadata{}, nil
	}
	return f.metadata, nil
}

// spyRunner records process creation instead of starting anything.
type spyRunner struct {
	calls [][]string
	code  int
	err   error
}

func (r *spyRunner) Run(ctx context.Context, name string, args []string) (int, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return r.code, r.err
}

var _ sshutil.Runner = (*spyRunner)(nil)

type harness struct {
	svc      *Service
	cluster  *fakeCluster
	runner   *spyRunner
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	log      *logger.BufferLogger
	connects int
}

func newHarness(cluster *fakeCluster, env map[string]string) *harness {
	h := &harness{
		cluster: cluster,
		runner:  &spyRunner{},
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		log:     logger.NewBufferLogger(),
	}
	h.svc = &Service{
		Connect: func() (Cluster, error) {
			h.connects++
			return cluster, nil
		},
		Runner:      h.runner,
		Getenv:      func(k string) string { return env[k] },
		DefaultUser: "core",
		Stdout:      h.stdout,
		Stderr:      h.stderr,
		Log:         h.log,
	}
	return h
}

func withAgent() map[string]string {
	return map[string]string{sshutil.AgentSocketEnv: "/tmp/agent.sock"}
}
