package cli

import (
	"testing"

	"github.com/rileyhilliard/dcos-cli/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSetShowUnset(t *testing.T) {
	h := newCLIHarness(t, "")

	require.Equal(t, 0, h.run("config", "set", "core.ssh_user", "centos"), h.stderr.String())
	assert.Equal(t, "✓ core.ssh_user updated\n", h.stdout.String())

	require.Equal(t, 0, h.run("config", "show", "core.ssh_user"))
	assert.Equal(t, "centos\n", h.stdout.String())

	require.Equal(t, 0, h.run("config", "unset", "core.ssh_user"), h.stderr.String())
	require.Equal(t, 0, h.run("config", "show", "core.ssh_user"))
	assert.Equal(t, "core\n", h.stdout.String(), "default comes back after unset")
}

func TestConfigShow_MasksToken(t *testing.T) {
	h := newCLIHarness(t, "https://dcos.example.com")
	require.NoError(t, config.Set(h.configPath, "core.dcos_acs_token", "s3cret"))

	code := h.run("config", "show")

	require.Equal(t, 0, code, h.stderr.String())
	out := h.stdout.String()
	assert.Contains(t, out, "core:")
	assert.Contains(t, out, "dcos_url: https://dcos.example.com")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "s3cret")
}

func TestConfigShow_UnknownKey(t *testing.T) {
	h := newCLIHarness(t, "")

	code := h.run("config", "show", "core.bogus")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "Unknown config key 'core.bogus'")
}

func TestConfigSet_RejectsInvalidValues(t *testing.T) {
	h := newCLIHarness(t, "")

	assert.Equal(t, 1, h.run("config", "set", "core.bogus", "x"))
	assert.Contains(t, h.stderr.String(), "core.dcos_url", "lists the supported keys")

	assert.Equal(t, 1, h.run("config", "set", "core.ssl_verify", "maybe"))
	assert.Contains(t, h.stderr.String(), "true or false")
}

func TestConfigInit_NonInteractive(t *testing.T) {
	fc := newFakeCluster(t)
	h := newCLIHarness(t, "")

	code := h.run("config", "init", "--url", fc.URL+"/", "--token", "abc", "--user", "centos", "--non-interactive")

	require.Equal(t, 0, code, h.stderr.String())
	assert.Contains(t, h.stdout.String(), "Wrote "+h.configPath)
	assert.Empty(t, h.stderr.String())

	cfg, err := config.Load(h.configPath)
	require.NoError(t, err)
	assert.Equal(t, fc.URL, cfg.Core.DCOSURL)
	assert.Equal(t, "abc", cfg.Core.ACSToken)
	assert.Equal(t, "centos", cfg.Core.SSHUser)
	assert.True(t, cfg.Core.SSLVerify)
}

func TestConfigInit_UnreachableClusterStillWrites(t *testing.T) {
	fc := newFakeCluster(t)
	url := fc.URL
	fc.Close()
	h := newCLIHarness(t, "")

	code := h.run("config", "init", "--url", url, "--insecure", "--non-interactive")

	require.Equal(t, 0, code, h.stderr.String())
	assert.Contains(t, h.stderr.String(), "Couldn't reach "+url)

	cfg, err := config.Load(h.configPath)
	require.NoError(t, err)
	assert.Equal(t, url, cfg.Core.DCOSURL)
	assert.False(t, cfg.Core.SSLVerify)
}

func TestConfigInit_RequiresURLWithoutTerminal(t *testing.T) {
	h := newCLIHarness(t, "")
	h.terminal = false

	code := h.run("config", "init")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "--url is required")
}
