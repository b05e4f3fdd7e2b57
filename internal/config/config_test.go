package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every override so the developer's shell can't leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range Keys {
		t.Setenv(k.Env, "")
		os.Unsetenv(k.Env)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dcos.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "core", cfg.Core.SSHUser)
	assert.Equal(t, 10*time.Second, cfg.Core.Timeout)
	assert.True(t, cfg.Core.SSLVerify)
	assert.Empty(t, cfg.Core.DCOSURL)
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
core:
  dcos_url: https://dcos.example.com
  dcos_acs_token: abc
  ssh_user: admin
  timeout: 30s
  ssl_verify: false
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://dcos.example.com", cfg.Core.DCOSURL)
	assert.Equal(t, "abc", cfg.Core.ACSToken)
	assert.Equal(t, "admin", cfg.Core.SSHUser)
	assert.Equal(t, 30*time.Second, cfg.Core.Timeout)
	assert.False(t, cfg.Core.SSLVerify)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "core:\n  dcos_url: http://10.0.0.1\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.1", cfg.Core.DCOSURL)
	assert.Equal(t, DefaultSSHUser, cfg.Core.SSHUser)
	assert.Equal(t, DefaultTimeout, cfg.Core.Timeout)
	assert.True(t, cfg.Core.SSLVerify)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "core:\n  dcos_url: http://file.example.com\n  ssh_user: admin\n")
	t.Setenv("DCOS_URL", "https://env.example.com")
	t.Setenv("DCOS_SSH_USER", "centos")
	t.Setenv("DCOS_SSL_VERIFY", "false")
	t.Setenv("DCOS_TIMEOUT", "3s")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Core.DCOSURL)
	assert.Equal(t, "centos", cfg.Core.SSHUser)
	assert.False(t, cfg.Core.SSLVerify)
	assert.Equal(t, 3*time.Second, cfg.Core.Timeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "core: [unclosed\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_InvalidURL(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "core:\n  dcos_url: not a url\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid http(s) URL")
}

func TestPath(t *testing.T) {
	t.Setenv(PathEnv, "/etc/dcos/custom.yaml")
	assert.Equal(t, "/etc/dcos/custom.yaml", Path())

	t.Setenv(PathEnv, "")
	t.Setenv("HOME", "/home/test")
	assert.Equal(t, filepath.Join(ExpandTilde("~"), ".dcos", "dcos.yaml"), Path())
}

func TestRequireURL(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.RequireURL()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "core.dcos_url")

	cfg.Core.DCOSURL = "https://dcos.example.com"
	assert.NoError(t, cfg.RequireURL())
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"core.dcos_url", "https://dcos.example.com", false},
		{"core.dcos_url", "ftp://dcos.example.com", true},
		{"core.dcos_url", "dcos.example.com", true},
		{"core.ssl_verify", "false", false},
		{"core.ssl_verify", "maybe", true},
		{"core.timeout", "1m", false},
		{"core.timeout", "0s", true},
		{"core.timeout", "soon", true},
		{"core.ssh_user", "core", false},
		{"core.ssh_user", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			key, ok := LookupKey(tt.key)
			require.True(t, ok)

			err := ValidateValue(key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandTilde("~"))
	assert.Equal(t, filepath.Join(home, ".dcos"), ExpandTilde("~/.dcos"))
	assert.Equal(t, "/abs", ExpandTilde("/abs"))
	assert.Equal(t, "~other/x", ExpandTilde("~other/x"))
	assert.Equal(t, "", ExpandTilde(""))
}
