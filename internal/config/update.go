package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"gopkg.in/yaml.v3"
)

// Set writes key=value into the config file at path, creating the file and
// its directory when missing. Existing keys, ordering and comments are kept.
func Set(path, name, value string) error {
	key, ok := LookupKey(name)
	if !ok {
		return unknownKeyError(name)
	}
	if err := ValidateValue(key, value); err != nil {
		return err
	}

	root, err := readDocument(path)
	if err != nil {
		return err
	}

	section, field := splitKey(name)
	sectionNode := findMapValue(root.Content[0], section)
	if sectionNode == nil {
		sectionNode = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		root.Content[0].Content = append(root.Content[0].Content, scalar(section), sectionNode)
	}
	if sectionNode.Kind != yaml.MappingNode {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' in %s is not a mapping", section, path),
			"Fix the file by hand or remove it and run 'dcos config init'")
	}

	valueNode := scalar(value)
	if key.Kind == KindBool {
		valueNode.Tag = "!!bool"
	}
	if existing := findMapValue(sectionNode, field); existing != nil {
		existing.Kind = yaml.ScalarNode
		existing.Tag = valueNode.Tag
		existing.Value = value
		existing.Content = nil
	} else {
		sectionNode.Content = append(sectionNode.Content, scalar(field), valueNode)
	}

	return writeDocument(path, root)
}

// Unset removes key from the config file at path. Removing a key that is
// not present is a no-op.
func Unset(path, name string) error {
	if _, ok := LookupKey(name); !ok {
		return unknownKeyError(name)
	}

	root, err := readDocument(path)
	if err != nil {
		return err
	}

	section, field := splitKey(name)
	sectionNode := findMapValue(root.Content[0], section)
	if sectionNode == nil || sectionNode.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(sectionNode.Content)-1; i += 2 {
		if sectionNode.Content[i].Value == field {
			sectionNode.Content = append(sectionNode.Content[:i], sectionNode.Content[i+2:]...)
			return writeDocument(path, root)
		}
	}
	return nil
}

// Get returns the effective value of key as it would be written to the file.
func (c *Config) Get(name string) (string, bool) {
	switch name {
	case "core.dcos_url":
		return c.Core.DCOSURL, true
	case "core.dcos_acs_token":
		return c.Core.ACSToken, true
	case "core.ssh_user":
		return c.Core.SSHUser, true
	case "core.timeout":
		return c.Core.Timeout.String(), true
	case "core.ssl_verify":
		return fmt.Sprintf("%t", c.Core.SSLVerify), true
	}
	return "", false
}

func unknownKeyError(name string) error {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown config key '%s'", name),
		"Supported keys: "+strings.Join(names, ", "))
}

func splitKey(name string) (section, field string) {
	section, field, _ = strings.Cut(name, ".")
	return section, field
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// readDocument parses path as a yaml.Node document whose root is a mapping.
// A missing or empty file yields an empty mapping.
func readDocument(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file "+path,
			"Check the file's permissions")
	}

	var root yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to parse config file "+path,
				"Check the YAML syntax")
		}
	}

	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode}
	}
	if root.Kind != yaml.DocumentNode {
		return nil, errors.New(errors.ErrConfig, "Invalid YAML document structure in "+path, "")
	}
	if len(root.Content) == 0 {
		root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrConfig,
			"Expected a mapping at the top of "+path,
			"Fix the file by hand or remove it and run 'dcos config init'")
	}
	return &root, nil
}

// writeDocument encodes root to path. The file holds a token, so it is
// private to the user.
func writeDocument(path string, root *yaml.Node) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	encoder.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create config directory "+filepath.Dir(path),
			"Check directory permissions")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file "+path,
			"Check file permissions")
	}
	return nil
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
