package config

import "time"

// Config is the dcos CLI configuration file.
type Config struct {
	Core Core `yaml:"core" mapstructure:"core"`
}

// Core holds the cluster connection settings under the "core" section.
type Core struct {
	// DCOSURL is the cluster's admin router, e.g. https://dcos.example.com.
	DCOSURL string `yaml:"dcos_url,omitempty" mapstructure:"dcos_url"`

	// ACSToken authenticates requests to the cluster.
	ACSToken string `yaml:"dcos_acs_token,omitempty" mapstructure:"dcos_acs_token"`

	// SSHUser is the remote login used by "node ssh" when --user is not given.
	SSHUser string `yaml:"ssh_user" mapstructure:"ssh_user"`

	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	SSLVerify bool          `yaml:"ssl_verify" mapstructure:"ssl_verify"`
}

// Kind is the value type of a config key.
type Kind int

const (
	KindString Kind = iota
	KindURL
	KindBool
	KindDuration
	KindSecret
)

// Key describes one supported config key.
type Key struct {
	Name    string
	Env     string
	Default any
	Kind    Kind
	Usage   string
}

// Keys lists every supported key in display order.
var Keys = []Key{
	{Name: "core.dcos_url", Env: "DCOS_URL", Kind: KindURL, Usage: "URL of the cluster"},
	{Name: "core.dcos_acs_token", Env: "DCOS_ACS_TOKEN", Kind: KindSecret, Usage: "cluster authentication token"},
	{Name: "core.ssh_user", Env: "DCOS_SSH_USER", Default: DefaultSSHUser, Kind: KindString, Usage: "login for node ssh"},
	{Name: "core.timeout", Env: "DCOS_TIMEOUT", Default: DefaultTimeout.String(), Kind: KindDuration, Usage: "HTTP request timeout"},
	{Name: "core.ssl_verify", Env: "DCOS_SSL_VERIFY", Default: true, Kind: KindBool, Usage: "verify the cluster's TLS certificate"},
}

const (
	// DefaultSSHUser is the login on DC/OS nodes.
	DefaultSSHUser = "core"
	// DefaultTimeout bounds each HTTP request to the cluster.
	DefaultTimeout = 10 * time.Second
)

// LookupKey returns the key named name.
func LookupKey(name string) (Key, bool) {
	for _, k := range Keys {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}

// DefaultConfig returns a config with every default applied.
func DefaultConfig() *Config {
	return &Config{
		Core: Core{
			SSHUser:   DefaultSSHUser,
			Timeout:   DefaultTimeout,
			SSLVerify: true,
		},
	}
}
