package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rileyhilliard/dcos-cli/internal/config"
	"github.com/rileyhilliard/dcos-cli/internal/logger"
	"github.com/stretchr/testify/require"
)

const testAgentSocket = "/tmp/test-agent.sock"

// fakeCluster serves the two endpoints the CLI reads.
type fakeCluster struct {
	*httptest.Server
	slaves   []map[string]any
	publicIP string
	hits     atomic.Int32
}

func newFakeCluster(t *testing.T, slaves ...map[string]any) *fakeCluster {
	t.Helper()
	fc := &fakeCluster{slaves: slaves, publicIP: "52.0.0.1"}
	mux := http.NewServeMux()
	mux.HandleFunc("/mesos/master/state-summary", func(w http.ResponseWriter, r *http.Request) {
		fc.hits.Add(1)
		slaves := fc.slaves
		if slaves == nil {
			slaves = []map[string]any{}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"hostname": "master-0", "slaves": slaves})
	})
	mux.HandleFunc("/metadata", func(w http.ResponseWriter, r *http.Request) {
		fc.hits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"PUBLIC_IPV4": fc.publicIP, "CLUSTER_ID": "c-1"})
	})
	fc.Server = httptest.NewServer(mux)
	t.Cleanup(fc.Close)
	return fc
}

func slaveRecord(id, hostname, ip string) map[string]any {
	return map[string]any{
		"id":        id,
		"hostname":  hostname,
		"pid":       "slave(1)@" + ip + ":5051",
		"active":    true,
		"resources": map[string]any{"cpus": 4.0},
	}
}

// spyRunner records process creation instead of starting anything.
type spyRunner struct {
	calls [][]string
	code  int
}

func (r *spyRunner) Run(ctx context.Context, name string, args []string) (int, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return r.code, nil
}

type cliHarness struct {
	t          *testing.T
	configPath string
	vars       map[string]string
	runner     *spyRunner
	terminal   bool
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
}

// newCLIHarness isolates the process environment and points the config at
// a temporary file. A non-empty clusterURL is written as core.dcos_url.
func newCLIHarness(t *testing.T, clusterURL string) *cliHarness {
	t.Helper()
	for _, k := range config.Keys {
		t.Setenv(k.Env, "")
	}
	t.Setenv(config.PathEnv, "")
	t.Setenv(logger.LevelEnv, "")

	h := &cliHarness{
		t:          t,
		configPath: filepath.Join(t.TempDir(), "dcos.yaml"),
		vars:       map[string]string{"SSH_AUTH_SOCK": testAgentSocket},
		runner:     &spyRunner{},
		terminal:   true,
	}
	if clusterURL != "" {
		require.NoError(t, config.Set(h.configPath, "core.dcos_url", clusterURL))
	}
	return h
}

// run executes one command line with a fresh Env, as a new process would.
func (h *cliHarness) run(args ...string) int {
	h.stdout = &bytes.Buffer{}
	h.stderr = &bytes.Buffer{}
	env := &Env{
		Stdin:      strings.NewReader(""),
		Stdout:     h.stdout,
		Stderr:     h.stderr,
		Getenv:     func(k string) string { return h.vars[k] },
		Runner:     h.runner,
		ProbeAgent: func(string) (int, error) { return 1, nil },
		IsTerminal: func() bool { return h.terminal },
		ConfigPath: h.configPath,
	}
	return Run(context.Background(), args, env)
}
