package connector

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/Jfmaigne/DSAMAC/internal/directory"
)

// NetworkName is the name reported by the network backend.
const NetworkName = "network"

// ServerInfo describes a directory server endpoint.
type ServerInfo struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	UseTLS bool   `json:"use_tls"`
}

// URL renders the server as an LDAP URL.
func (s *ServerInfo) URL() string {
	scheme := "ldap"
	if s.UseTLS {
		scheme = "ldaps"
	}

	return fmt.Sprintf("%s://%s:%d", scheme, s.Host, s.Port)
}

// ValidateServerInfo validates server information.
func ValidateServerInfo(server *ServerInfo) error {
	if server == nil {
		return fmt.Errorf("server info cannot be nil")
	}

	if server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}

	if server.Port <= 0 || server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", server.Port)
	}

	return nil
}

// ParseServerURL parses "ldap://host[:port]", "ldaps://host[:port]" or a bare
// host name, which is treated as plain LDAP.
func ParseServerURL(raw string) (*ServerInfo, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("server cannot be empty")
	}

	if !strings.Contains(raw, "://") {
		raw = "ldap://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	server := &ServerInfo{Host: u.Hostname()}

	switch strings.ToLower(u.Scheme) {
	case "ldaps":
		server.UseTLS = true
		server.Port = 636
	case "ldap":
		server.Port = 389
	default:
		return nil, fmt.Errorf("unsupported scheme %q, must be ldap:// or ldaps://", u.Scheme)
	}

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid port number: %s", p)
		}
		server.Port = port
	}

	return server, ValidateServerInfo(server)
}

// NetworkConnector is the placeholder for a direct network directory client.
// It validates its settings but every query fails as unsupported.
type NetworkConnector struct {
	server *ServerInfo
	baseDN string
	config ManualConfig
}

var _ Connector = (*NetworkConnector)(nil)

// NewNetworkConnector validates cfg and derives the search base from the domain.
func NewNetworkConnector(cfg ManualConfig) (*NetworkConnector, error) {
	server, err := ParseServerURL(cfg.Server)
	if err != nil {
		return nil, err
	}

	domain := strings.TrimSpace(cfg.Domain)
	if domain == "" {
		return nil, fmt.Errorf("domain cannot be empty")
	}

	baseDN := directory.DomainToDN(domain)
	if err := directory.ValidateDN(baseDN); err != nil {
		return nil, fmt.Errorf("domain %q does not form a valid base DN: %w", domain, err)
	}

	return &NetworkConnector{
		server: server,
		baseDN: baseDN,
		config: cfg,
	}, nil
}

// Server returns the parsed server endpoint.
func (n *NetworkConnector) Server() *ServerInfo {
	return n.server
}

// BaseDN returns the search base derived from the domain.
func (n *NetworkConnector) BaseDN() string {
	return n.baseDN
}

func (n *NetworkConnector) Name() string { return NetworkName }

func (n *NetworkConnector) NeedsManualConfiguration() bool { return false }

func (n *NetworkConnector) Invalidate() {}

func (n *NetworkConnector) unsupported(ctx context.Context, operation string) error {
	tflog.SubsystemDebug(ctx, Subsystem, "Network backend query rejected", SanitizeFields(map[string]any{
		"operation": operation,
		"server":    n.server.URL(),
		"base_dn":   n.baseDN,
		"username":  n.config.Username,
		"password":  n.config.Password,
	}))

	return NewUnsupported(NetworkName, operation)
}

func (n *NetworkConnector) FetchContainerTree(ctx context.Context) ([]directory.OrganizationalUnit, error) {
	return nil, n.unsupported(ctx, "fetch container tree")
}

func (n *NetworkConnector) FetchObjects(ctx context.Context, containerID string) (*directory.Objects, error) {
	return nil, n.unsupported(ctx, "fetch objects")
}

func (n *NetworkConnector) SearchObjects(ctx context.Context, query string) ([]directory.SearchResult, error) {
	return nil, n.unsupported(ctx, "search objects")
}

func (n *NetworkConnector) FetchUserDetails(ctx context.Context, id string) (*directory.User, error) {
	return nil, n.unsupported(ctx, "fetch user details")
}

func (n *NetworkConnector) FetchGroupDetails(ctx context.Context, id string) (*directory.Group, error) {
	return nil, n.unsupported(ctx, "fetch group details")
}

func (n *NetworkConnector) FetchComputerDetails(ctx context.Context, id string) (*directory.Computer, error) {
	return nil, n.unsupported(ctx, "fetch computer details")
}

func (n *NetworkConnector) FetchAllUsers(ctx context.Context) ([]*directory.User, error) {
	return nil, n.unsupported(ctx, "fetch all users")
}

func (n *NetworkConnector) FetchAllGroups(ctx context.Context) ([]*directory.Group, error) {
	return nil, n.unsupported(ctx, "fetch all groups")
}

func (n *NetworkConnector) FetchAllComputers(ctx context.Context) ([]*directory.Computer, error) {
	return nil, n.unsupported(ctx, "fetch all computers")
}
