// Package config loads the browser settings and builds the configured
// directory backend.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/Jfmaigne/DSAMAC/internal/connector"
	"github.com/Jfmaigne/DSAMAC/internal/directory"
)

// Backend names accepted by the backend setting.
const (
	BackendDemo          = connector.DemoName
	BackendDirectoryTool = connector.DirectoryToolName
	BackendNetwork       = connector.NetworkName
)

// Backends lists the accepted backend names.
var Backends = []string{BackendDemo, BackendDirectoryTool, BackendNetwork}

// Config is the complete browser configuration.
type Config struct {
	Backend       string               `yaml:"backend" default:"demo"`
	DirectoryTool DirectoryToolConfig  `yaml:"directory_tool"`
	Network       NetworkConfig        `yaml:"network"`
	Tree          directory.TreeConfig `yaml:"tree"`
}

// DirectoryToolConfig configures the local directory query tool backend.
type DirectoryToolConfig struct {
	Executable   string        `yaml:"executable" default:"/usr/bin/dscl"`
	Node         string        `yaml:"node"`
	QueryTimeout time.Duration `yaml:"query_timeout" default:"2m"`
	Output       string        `yaml:"output" default:"plist"`
}

// NetworkConfig configures the network backend.
type NetworkConfig struct {
	Server   string `yaml:"server"`
	Domain   string `yaml:"domain"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// New returns a Config with every default applied.
func New() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	return cfg
}

// Load reads a YAML configuration file. Settings missing from the file take
// their defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to set default values: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings with DSAMAC_* environment variables that are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DSAMAC_BACKEND"); v != "" {
		c.Backend = v
	}

	// Directory tool
	if v := os.Getenv("DSAMAC_DIRECTORY_TOOL_PATH"); v != "" {
		c.DirectoryTool.Executable = v
	}
	if v := os.Getenv("DSAMAC_DIRECTORY_NODE"); v != "" {
		c.DirectoryTool.Node = v
	}
	if v := os.Getenv("DSAMAC_QUERY_TIMEOUT"); v != "" {
		t, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DSAMAC_QUERY_TIMEOUT %q: %w", v, err)
		}
		c.DirectoryTool.QueryTimeout = t
	}
	if v := os.Getenv("DSAMAC_OUTPUT"); v != "" {
		c.DirectoryTool.Output = v
	}

	// Network
	if v := os.Getenv("DSAMAC_NETWORK_SERVER"); v != "" {
		c.Network.Server = v
	}
	if v := os.Getenv("DSAMAC_NETWORK_DOMAIN"); v != "" {
		c.Network.Domain = v
	}
	if v := os.Getenv("DSAMAC_NETWORK_USERNAME"); v != "" {
		c.Network.Username = v
	}
	if v := os.Getenv("DSAMAC_NETWORK_PASSWORD"); v != "" {
		c.Network.Password = v
	}

	// Tree
	if v := os.Getenv("DSAMAC_TREE_MAX_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DSAMAC_TREE_MAX_DEPTH %q: %w", v, err)
		}
		c.Tree.MaxDepth = n
	}
	if v := os.Getenv("DSAMAC_TREE_ORPHANS"); v != "" {
		c.Tree.Orphans = v
	}

	return nil
}

// Validate checks the configuration for the selected backend.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))

	switch c.Backend {
	case BackendDemo:
	case BackendDirectoryTool:
		if c.DirectoryTool.Executable == "" {
			return errors.New("directory_tool.executable must be set")
		}
		if c.DirectoryTool.QueryTimeout <= 0 {
			return fmt.Errorf("directory_tool.query_timeout must be positive, got %s", c.DirectoryTool.QueryTimeout)
		}
		switch connector.OutputFormat(c.DirectoryTool.Output) {
		case connector.OutputPlist, connector.OutputText:
		default:
			return fmt.Errorf("directory_tool.output must be %q or %q, got %q",
				connector.OutputPlist, connector.OutputText, c.DirectoryTool.Output)
		}
		if c.Network.Server != "" {
			return errors.New("network settings apply only to the network backend")
		}
	case BackendNetwork:
		if c.Network.Server == "" {
			return errors.New("network.server must be set")
		}
		if c.Network.Domain == "" {
			return errors.New("network.domain must be set")
		}
		if _, err := connector.ParseServerURL(c.Network.Server); err != nil {
			return fmt.Errorf("invalid network.server %q: %w", c.Network.Server, err)
		}
	default:
		return fmt.Errorf("backend must be one of %s, got %q", strings.Join(Backends, ", "), c.Backend)
	}

	if err := c.Tree.Validate(); err != nil {
		return fmt.Errorf("invalid tree settings: %w", err)
	}

	return nil
}

// ManualConfig returns the network settings in the form connectors accept.
func (c *Config) ManualConfig() connector.ManualConfig {
	return connector.ManualConfig{
		Server:   c.Network.Server,
		Domain:   c.Network.Domain,
		Username: c.Network.Username,
		Password: c.Network.Password,
	}
}

// NewConnector validates the configuration and builds the selected backend.
func (c *Config) NewConnector() (connector.Connector, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Backend {
	case BackendDirectoryTool:
		return connector.NewDirectoryToolConnector(connector.DirectoryToolOptions{
			Executable:   c.DirectoryTool.Executable,
			Node:         c.DirectoryTool.Node,
			QueryTimeout: c.DirectoryTool.QueryTimeout,
			Output:       connector.OutputFormat(c.DirectoryTool.Output),
		}), nil
	case BackendNetwork:
		network, err := connector.NewNetworkConnector(c.ManualConfig())
		if err != nil {
			return nil, err
		}
		return network, nil
	default:
		demo, err := connector.NewDemoConnector()
		if err != nil {
			return nil, err
		}
		return demo, nil
	}
}
