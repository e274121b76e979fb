package connector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"
	"howett.net/plist"

	"github.com/Jfmaigne/DSAMAC/internal/directory"
)

const (
	// DirectoryToolName is the name reported by the directory tool backend.
	DirectoryToolName = "directory_tool"

	// DefaultExecutable is the directory query tool shipped with the OS.
	DefaultExecutable = "/usr/bin/dscl"

	// DefaultQueryTimeout bounds each invocation of the query tool.
	DefaultQueryTimeout = 2 * time.Minute

	activeDirectoryNode = "/Active Directory"
)

// OutputFormat selects how record dumps are requested and decoded.
type OutputFormat string

const (
	OutputPlist OutputFormat = "plist"
	OutputText  OutputFormat = "text"
)

// FetchState is the lifecycle of the directory tool snapshot cache.
type FetchState int

const (
	StateUnfetched FetchState = iota
	StateFetching
	StateCached
	StateFailed
)

func (s FetchState) String() string {
	switch s {
	case StateUnfetched:
		return "unfetched"
	case StateFetching:
		return "fetching"
	case StateCached:
		return "cached"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// recordType is a record directory as named by the query tool.
type recordType struct {
	path string
	kind directory.Kind
}

var recordTypes = []recordType{
	{path: "/Users", kind: directory.KindUser},
	{path: "/Groups", kind: directory.KindGroup},
	{path: "/Computers", kind: directory.KindComputer},
}

// DirectoryToolOptions configures a DirectoryToolConnector.
type DirectoryToolOptions struct {
	Executable   string
	Node         string // Detected from the first configured domain when empty
	QueryTimeout time.Duration
	Output       OutputFormat
	Runner       Runner
}

// DirectoryToolConnector reads the directory through the local query tool.
// The first query loads a full snapshot which is reused until Invalidate.
type DirectoryToolConnector struct {
	opts DirectoryToolOptions

	fetchMu sync.Mutex // Serializes snapshot loads

	mu          sync.Mutex
	state       FetchState
	snap        *snapshot
	err         error
	node        string
	domain      string
	needsManual bool
	network     *NetworkConnector
	stale       bool // Invalidated while a fetch was running
}

var (
	_ Connector        = (*DirectoryToolConnector)(nil)
	_ ManualConfigurer = (*DirectoryToolConnector)(nil)
)

// NewDirectoryToolConnector creates a connector, filling unset options with defaults.
func NewDirectoryToolConnector(opts DirectoryToolOptions) *DirectoryToolConnector {
	if opts.Executable == "" {
		opts.Executable = DefaultExecutable
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = DefaultQueryTimeout
	}
	if opts.Output == "" {
		opts.Output = OutputPlist
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}

	return &DirectoryToolConnector{
		opts:   opts,
		state:  StateUnfetched,
		node:   opts.Node,
		domain: domainFromNode(opts.Node),
	}
}

// domainFromNode extracts "EXAMPLE" from "/Active Directory/EXAMPLE/All Domains".
func domainFromNode(node string) string {
	rest, ok := strings.CutPrefix(node, activeDirectoryNode+"/")
	if !ok {
		return ""
	}
	domain, _, _ := strings.Cut(rest, "/")
	return domain
}

func (c *DirectoryToolConnector) Name() string {
	if n := c.manual(); n != nil {
		return n.Name()
	}
	return DirectoryToolName
}

// NeedsManualConfiguration reports that domain detection failed and no
// manual configuration has been supplied yet.
func (c *DirectoryToolConnector) NeedsManualConfiguration() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.needsManual && c.network == nil
}

// State returns the snapshot cache state.
func (c *DirectoryToolConnector) State() FetchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Node returns the directory node being queried, empty until detected.
func (c *DirectoryToolConnector) Node() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.node
}

// Invalidate drops the cached snapshot or failure so the next query reloads.
// A fetch already running completes for its callers, but its result is not cached.
func (c *DirectoryToolConnector) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateFetching {
		c.stale = true
		return
	}
	c.state = StateUnfetched
	c.snap = nil
	c.err = nil
}

// ConfigureManually switches the connector to the network backend using the
// given server settings. Later queries are answered by that backend.
func (c *DirectoryToolConnector) ConfigureManually(ctx context.Context, cfg ManualConfig) error {
	network, err := NewNetworkConnector(cfg)
	if err != nil {
		return WrapError(DirectoryToolName, "configure manually", err)
	}

	c.mu.Lock()
	c.network = network
	c.needsManual = false
	c.mu.Unlock()

	tflog.SubsystemInfo(ctx, Subsystem, "Switched to manual network configuration", SanitizeFields(map[string]any{
		"server":   network.Server().URL(),
		"base_dn":  network.BaseDN(),
		"username": cfg.Username,
	}))

	return nil
}

func (c *DirectoryToolConnector) manual() *NetworkConnector {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.network
}

func (c *DirectoryToolConnector) FetchContainerTree(ctx context.Context) ([]directory.OrganizationalUnit, error) {
	if n := c.manual(); n != nil {
		return n.FetchContainerTree(ctx)
	}

	snap, err := c.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.containerTree(), nil
}

func (c *DirectoryToolConnector) FetchObjects(ctx context.Context, containerID string) (*directory.Objects, error) {
	if n := c.manual(); n != nil {
		return n.FetchObjects(ctx, containerID)
	}

	snap, err := c.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.inContainer(containerID), nil
}

func (c *DirectoryToolConnector) SearchObjects(ctx context.Context, query string) ([]directory.SearchResult, error) {
	if n := c.manual(); n != nil {
		return n.SearchObjects(ctx, query)
	}

	snap, err := c.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.search(query), nil
}

func (c *DirectoryToolConnector) FetchUserDetails(ctx context.Context, id string) (*directory.User, error) {
	if n := c.manual(); n != nil {
		return n.FetchUserDetails(ctx, id)
	}

	snap, err := c.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.users[id], nil
}

func (c *DirectoryToolConnector) FetchGroupDetails(ctx context.Context, id string) (*directory.Group, error) {
	if n := c.manual(); n != nil {
		return n.FetchGroupDetails(ctx, id)
	}

	snap, err := c.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.groups[id], nil
}

func (c *DirectoryToolConnector) FetchComputerDetails(ctx context.Context, id string) (*directory.Computer, error) {
	if n := c.manual(); n != nil {
		return n.FetchComputerDetails(ctx, id)
	}

	snap, err := c.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.computers[id], nil
}

func (c *DirectoryToolConnector) FetchAllUsers(ctx context.Context) ([]*directory.User, error) {
	if n := c.manual(); n != nil {
		return n.FetchAllUsers(ctx)
	}

	snap, err := c.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.allUsers(), nil
}

func (c *DirectoryToolConnector) FetchAllGroups(ctx context.Context) ([]*directory.Group, error) {
	if n := c.manual(); n != nil {
		return n.FetchAllGroups(ctx)
	}

	snap, err := c.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.allGroups(), nil
}

func (c *DirectoryToolConnector) FetchAllComputers(ctx context.Context) ([]*directory.Computer, error) {
	if n := c.manual(); n != nil {
		return n.FetchAllComputers(ctx)
	}

	snap, err := c.ensureSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.allComputers(), nil
}

// ensureSnapshot returns the cached snapshot, loading it on first use.
// A failed load is remembered until Invalidate.
func (c *DirectoryToolConnector) ensureSnapshot(ctx context.Context) (*snapshot, error) {
	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()

	c.mu.Lock()
	switch c.state {
	case StateCached:
		snap := c.snap
		c.mu.Unlock()
		return snap, nil
	case StateFailed:
		err := c.err
		c.mu.Unlock()
		return nil, err
	}
	c.state = StateFetching
	c.stale = false
	c.mu.Unlock()

	snap, err := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale {
		c.stale = false
		c.state = StateUnfetched
		c.snap = nil
		c.err = nil
		LogCommandEvent(ctx, "snapshot_discarded", map[string]any{"reason": "invalidated during fetch"})
		return snap, err
	}

	if err != nil {
		c.state = StateFailed
		c.err = err
		LogCommandEvent(ctx, "snapshot_failed", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.state = StateCached
	c.snap = snap
	LogCommandEvent(ctx, "snapshot_cached", map[string]any{
		"containers": len(snap.units),
		"objects":    snap.objects.Len(),
	})

	return snap, nil
}

// rawRecord is one dumped record before entity assembly.
type rawRecord struct {
	kind  directory.Kind
	name  string
	attrs directory.Attributes
}

func (c *DirectoryToolConnector) load(ctx context.Context) (*snapshot, error) {
	var snap *snapshot
	start := time.Now()

	err := LogOperation(ctx, Subsystem, "load snapshot", map[string]any{
		"executable": c.opts.Executable,
		"output":     string(c.opts.Output),
	}, func() error {
		node, err := c.resolveNode(ctx)
		if err != nil {
			return err
		}

		var records []rawRecord
		for _, rt := range recordTypes {
			names, err := c.listRecords(ctx, node, rt)
			if err != nil {
				return err
			}

			for _, name := range names {
				attrs, err := c.readRecord(ctx, node, rt, name)
				if err != nil {
					if aborted(ctx, err) {
						return err
					}
					LogCommandEvent(ctx, "record_skipped", map[string]any{
						"kind":   rt.kind.String(),
						"record": name,
						"error":  err.Error(),
					})
					continue
				}
				records = append(records, rawRecord{kind: rt.kind, name: name, attrs: attrs})
			}
		}

		snap = c.assemble(ctx, records)
		return nil
	})
	if err != nil {
		return nil, err
	}

	LogPerformance(ctx, Subsystem, "load snapshot", time.Since(start), map[string]any{
		"containers": len(snap.units),
		"objects":    snap.objects.Len(),
	})

	return snap, nil
}

// aborted reports whether a per-record failure should stop the whole load.
func aborted(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// assemble builds entities from raw records and places them in containers
// derived from their distinguished names.
func (c *DirectoryToolConnector) assemble(ctx context.Context, records []rawRecord) *snapshot {
	objects := &directory.Objects{
		Users:     []*directory.User{},
		Groups:    []*directory.Group{},
		Computers: []*directory.Computer{},
	}
	index := newContainerIndex(c.domainName())

	// Records without a DN are placed in the domain root after every DN has
	// been seen, so they share a root with the rest of the directory.
	var unplaced []*string

	placeIn := func(dn string, containerID *string) {
		if *containerID = index.place(dn); *containerID == "" {
			unplaced = append(unplaced, containerID)
		}
	}

	for _, rec := range records {
		var err error
		switch rec.kind {
		case directory.KindUser:
			var u *directory.User
			if u, err = directory.BuildUser(rec.attrs, rec.name, ""); err == nil {
				placeIn(u.DistinguishedName, &u.ContainerID)
				objects.Users = append(objects.Users, u)
			}
		case directory.KindGroup:
			var g *directory.Group
			if g, err = directory.BuildGroup(rec.attrs, rec.name, ""); err == nil {
				placeIn(g.DistinguishedName, &g.ContainerID)
				objects.Groups = append(objects.Groups, g)
			}
		case directory.KindComputer:
			var m *directory.Computer
			if m, err = directory.BuildComputer(rec.attrs, rec.name, ""); err == nil {
				placeIn(m.DistinguishedName, &m.ContainerID)
				objects.Computers = append(objects.Computers, m)
			}
		}

		if err != nil {
			LogCommandEvent(ctx, "record_skipped", map[string]any{
				"kind":   rec.kind.String(),
				"record": rec.name,
				"error":  err.Error(),
			})
		}
	}

	if len(unplaced) > 0 {
		root := index.defaultRoot()
		for _, id := range unplaced {
			*id = root
		}
	}

	return newSnapshot(index.units, objects)
}

func (c *DirectoryToolConnector) domainName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.domain
}

// resolveNode returns the configured node or detects the first Active
// Directory domain. Detection failure flags the connector for manual setup.
func (c *DirectoryToolConnector) resolveNode(ctx context.Context) (string, error) {
	c.mu.Lock()
	node := c.node
	c.mu.Unlock()
	if node != "" {
		return node, nil
	}

	out, err := c.run(ctx, "detect domain", "localhost", "-list", activeDirectoryNode)
	if err != nil {
		c.flagManual(ctx, err)
		return "", err
	}

	domain := ""
	if lines := outputLines(out); len(lines) > 0 {
		domain = lines[0]
	}
	if domain == "" {
		err := NewBackendUnreachable(DirectoryToolName, "detect domain",
			"no Active Directory domain is configured on this machine", nil)
		c.flagManual(ctx, err)
		return "", err
	}

	node = fmt.Sprintf("%s/%s/All Domains", activeDirectoryNode, domain)

	c.mu.Lock()
	c.node = node
	c.domain = domain
	c.needsManual = false
	c.mu.Unlock()

	LogCommandEvent(ctx, "domain_detected", map[string]any{
		"domain": domain,
		"node":   node,
	})

	return node, nil
}

func (c *DirectoryToolConnector) flagManual(ctx context.Context, err error) {
	c.mu.Lock()
	c.needsManual = true
	c.mu.Unlock()

	LogCommandEvent(ctx, "domain_detection_failed", map[string]any{"error": err.Error()})
}

func (c *DirectoryToolConnector) listRecords(ctx context.Context, node string, rt recordType) ([]string, error) {
	out, err := c.run(ctx, "list "+rt.path, node, "-list", rt.path)
	if err != nil {
		return nil, err
	}
	return outputLines(out), nil
}

func (c *DirectoryToolConnector) readRecord(ctx context.Context, node string, rt recordType, name string) (directory.Attributes, error) {
	path := rt.path + "/" + name
	operation := "read " + path

	if c.opts.Output == OutputText {
		out, err := c.run(ctx, operation, node, "-read", path)
		if err != nil {
			return nil, err
		}

		result := directory.ParseText(string(out))
		if result.Skipped > 0 {
			tflog.SubsystemDebug(ctx, Subsystem, "Skipped unparseable dump lines", map[string]any{
				"record":  path,
				"skipped": result.Skipped,
			})
		}
		if len(result.Attributes) == 0 {
			return nil, NewParseFailure(DirectoryToolName, operation, "record dump contained no attributes", nil)
		}
		return result.Attributes, nil
	}

	out, err := c.run(ctx, operation, "-plist", node, "-read", path)
	if err != nil {
		return nil, err
	}

	var dict map[string]any
	if _, err := plist.Unmarshal(out, &dict); err != nil {
		return nil, NewParseFailure(DirectoryToolName, operation, "record dump is not a property list", err)
	}

	attrs := directory.ParseDictionary(dict)
	if len(attrs) == 0 {
		return nil, NewParseFailure(DirectoryToolName, operation, "record dump contained no attributes", nil)
	}
	return attrs, nil
}

// run invokes the query tool once under the configured timeout.
func (c *DirectoryToolConnector) run(ctx context.Context, operation string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.QueryTimeout)
	defer cancel()

	fields := map[string]any{
		"operation": operation,
		"args":      strings.Join(args, " "),
	}
	LogCommandEvent(ctx, "command_started", fields)

	out, err := c.opts.Runner.Run(ctx, c.opts.Executable, args...)
	if err == nil {
		LogCommandEvent(ctx, "command_completed", fields)
		return out, nil
	}

	var connErr *ConnectorError
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		connErr = NewBackendUnreachable(DirectoryToolName, operation,
			fmt.Sprintf("query timed out after %s", c.opts.QueryTimeout), context.DeadlineExceeded)
	} else {
		connErr = NewBackendUnreachable(DirectoryToolName, operation, err.Error(), err)
		connErr.Stderr = stderrOf(err)
	}

	fields["error"] = connErr.Error()
	LogCommandEvent(ctx, "command_failed", fields)

	return nil, connErr
}

// outputLines returns the trimmed, non-blank lines of command output.
func outputLines(out []byte) []string {
	var lines []string
	for line := range strings.SplitSeq(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
