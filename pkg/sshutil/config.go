package sshutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/kevinburke/ssh_config"
	"github.com/rileyhilliard/dcos-cli/internal/errors"
)

// ConfigFile is an ssh_config(5) file passed through to ssh with -F.
// It is parsed up front so a missing or malformed file fails before any
// process is started.
type ConfigFile struct {
	Path string
	// MatchLine is the 1-indexed line of the first Match block, or 0.
	// Entries at and after it are not visible to Get.
	MatchLine int

	cfg *ssh_config.Config
}

// LoadConfigFile reads and parses the ssh config at path. A leading "~/"
// is expanded to the user's home directory.
func LoadConfigFile(path string) (*ConfigFile, error) {
	path = expandPath(path)

	content, matchLine, err := preprocessSSHConfig(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("SSH config file %s does not exist", path),
				"Check the path given to --config_file")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't read SSH config file %s", path),
			"Check the file's permissions")
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("SSH config file %s is not valid", path),
			"Fix the syntax error, or test the file with: ssh -F <file> -G <host>")
	}

	return &ConfigFile{Path: path, MatchLine: matchLine, cfg: cfg}, nil
}

// Get returns the value of key for host, or "" when unset.
func (c *ConfigFile) Get(host, key string) string {
	v, err := c.cfg.Get(host, key)
	if err != nil {
		return ""
	}
	return v
}

// ForwardsAgent reports whether the file leaves agent forwarding enabled for
// host. Only an explicit "ForwardAgent no" disables it, since -A is always
// passed on the command line.
func (c *ConfigFile) ForwardsAgent(host string) bool {
	return !strings.EqualFold(c.Get(host, "ForwardAgent"), "no")
}

// preprocessSSHConfig reads the SSH config and returns content up to the first Match directive.
// Returns the original content if no Match directive is found.
// The ssh_config decoder does not support Match, so everything from the
// first Match block on is dropped.
func preprocessSSHConfig(configPath string) ([]byte, int, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, 0, err
	}

	lines := strings.Split(string(content), "\n")
	var result []string
	matchLine := 0

	for i, line := range lines {
		if isMatchDirective(line) {
			matchLine = i + 1
			break
		}
		result = append(result, line)
	}

	return []byte(strings.Join(result, "\n")), matchLine, nil
}

// isMatchDirective reports whether line starts a Match block. Keywords are
// separated from their arguments by whitespace or "=".
func isMatchDirective(line string) bool {
	fields := strings.FieldsFunc(strings.TrimSpace(line), func(r rune) bool {
		return unicode.IsSpace(r) || r == '='
	})
	return len(fields) > 0 && strings.EqualFold(fields[0], "match")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
