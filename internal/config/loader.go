package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"github.com/spf13/viper"
)

const (
	// PathEnv overrides the config file location.
	PathEnv = "DCOS_CONFIG"
	// ConfigDir is the directory for the config file, relative to home.
	ConfigDir = ".dcos"
	// ConfigFileName is the default config file name.
	ConfigFileName = "dcos.yaml"
)

// Path returns the config file location: $DCOS_CONFIG if set, otherwise
// ~/.dcos/dcos.yaml.
func Path() string {
	if p := os.Getenv(PathEnv); p != "" {
		return ExpandTilde(p)
	}
	return filepath.Join(ExpandTilde("~"), ConfigDir, ConfigFileName)
}

// Load reads config from path, applying defaults and environment overrides.
// A missing file is not an error; the defaults and environment still apply.
func Load(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file "+path,
			"Check the file exists and is valid YAML")
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+path+", e.g. core.timeout: 10s")
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	for _, k := range Keys {
		if k.Default != nil {
			v.SetDefault(k.Name, k.Default)
		}
		// BindEnv only errors when called without a key.
		_ = v.BindEnv(k.Name, k.Env)
	}
	return v
}
