package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rileyhilliard/dcos-cli/internal/errors"
)

// Validate checks the loaded config for values that can never work.
func Validate(cfg *Config) error {
	if cfg.Core.DCOSURL != "" {
		if err := validateURL(cfg.Core.DCOSURL); err != nil {
			return err
		}
	}
	if cfg.Core.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("core.timeout must be positive, got %s", cfg.Core.Timeout),
			"Set it with: dcos config set core.timeout 10s")
	}
	return nil
}

// RequireURL returns an error when no cluster URL is configured.
func (c *Config) RequireURL() error {
	if c.Core.DCOSURL == "" {
		return errors.New(errors.ErrConfig,
			"Missing required config parameter: core.dcos_url",
			"Please run `dcos config set core.dcos_url <url>`, or `dcos config init`")
	}
	return nil
}

// ValidateValue checks that value is acceptable for key.
func ValidateValue(key Key, value string) error {
	switch key.Kind {
	case KindURL:
		return validateURL(value)
	case KindBool:
		if _, err := strconv.ParseBool(value); err != nil {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s must be true or false, got %q", key.Name, value),
				"")
		}
	case KindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s must be a positive duration, got %q", key.Name, value),
				"Use a value like 10s or 1m")
		}
	case KindString, KindSecret:
		if value == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s cannot be empty", key.Name),
				"Use 'dcos config unset "+key.Name+"' to remove it")
		}
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("core.dcos_url %q is not a valid http(s) URL", raw),
			"Use the cluster's address, e.g. https://dcos.example.com")
	}
	return nil
}
