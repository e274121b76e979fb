// Package service owns the browsing state on top of a directory connector:
// the loaded snapshot, the selected container, search results and the last
// error, with change notifications for the presentation layer.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/Jfmaigne/DSAMAC/internal/connector"
	"github.com/Jfmaigne/DSAMAC/internal/directory"
)

// Subsystem is the log subsystem used by the service.
const Subsystem = "service"

// InitializeLogging registers the service subsystem on ctx.
func InitializeLogging(ctx context.Context) context.Context {
	return tflog.NewSubsystem(ctx, Subsystem,
		tflog.WithLevelFromEnv("DSAMAC_LOG_SERVICE"))
}

// State is the load state of the service.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is one complete load of the directory. It is never modified
// after the load that produced it.
type Snapshot struct {
	Units    []directory.OrganizationalUnit
	Tree     []*directory.ContainerNode
	Objects  *directory.Objects
	LoadedAt time.Time

	users     map[string]*directory.User
	groups    map[string]*directory.Group
	computers map[string]*directory.Computer
}

func newSnapshot(units []directory.OrganizationalUnit, tree []*directory.ContainerNode, objects *directory.Objects) *Snapshot {
	s := &Snapshot{
		Units:     units,
		Tree:      tree,
		Objects:   objects,
		LoadedAt:  time.Now(),
		users:     make(map[string]*directory.User, len(objects.Users)),
		groups:    make(map[string]*directory.Group, len(objects.Groups)),
		computers: make(map[string]*directory.Computer, len(objects.Computers)),
	}

	for _, u := range objects.Users {
		s.users[u.ID] = u
	}
	for _, g := range objects.Groups {
		s.groups[g.ID] = g
	}
	for _, c := range objects.Computers {
		s.computers[c.ID] = c
	}

	return s
}

// Selection identifies one object for a details lookup.
type Selection struct {
	Kind directory.Kind
	ID   string
}

// Detail is the resolved object of a Selection; exactly one field is set.
type Detail struct {
	Container *directory.OrganizationalUnit
	User      *directory.User
	Group     *directory.Group
	Computer  *directory.Computer
}

// Service coordinates one connector. Loads are serialized; every other
// operation reads the last successful snapshot.
type Service struct {
	loadMu sync.Mutex // Held for the duration of a load

	mu         sync.RWMutex
	connector  connector.Connector
	treeConfig *directory.TreeConfig
	state      State
	snapshot   *Snapshot
	selected   string
	current    *directory.Objects
	results    []directory.SearchResult
	errMessage string
	observers  map[int]func(State)
	nextID     int
}

// New creates a service over c. A nil treeConfig uses the tree defaults.
func New(c connector.Connector, treeConfig *directory.TreeConfig) *Service {
	return &Service{
		connector:  c,
		treeConfig: treeConfig,
		state:      StateEmpty,
		current:    emptyObjects(),
		results:    []directory.SearchResult{},
		observers:  make(map[int]func(State)),
	}
}

func emptyObjects() *directory.Objects {
	return &directory.Objects{
		Users:     []*directory.User{},
		Groups:    []*directory.Group{},
		Computers: []*directory.Computer{},
	}
}

// LoadTree fetches the container tree and every entity, replacing the
// snapshot on success. On failure the previous snapshot is kept and the
// error message is recorded. Concurrent calls queue behind each other.
func (s *Service) LoadTree(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()
	c := s.connector
	s.state = StateLoading
	s.mu.Unlock()
	s.notify(StateLoading)

	var snap *Snapshot
	err := connector.LogOperation(ctx, Subsystem, "load tree", map[string]any{
		"connector": c.Name(),
	}, func() error {
		var err error
		snap, err = s.fetchSnapshot(ctx, c)
		return err
	})

	s.mu.Lock()
	if err != nil {
		s.state = StateFailed
		s.errMessage = err.Error()
	} else {
		s.state = StateReady
		s.errMessage = ""
		s.snapshot = snap
		if s.selected != "" && directory.Find(snap.Tree, s.selected) == nil {
			s.selected = ""
		}
		s.current = s.scoped(s.selected)
	}
	state := s.state
	s.mu.Unlock()

	s.notify(state)

	return err
}

func (s *Service) fetchSnapshot(ctx context.Context, c connector.Connector) (*Snapshot, error) {
	units, err := c.FetchContainerTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch container tree: %w", err)
	}

	tree, err := directory.BuildTree(units, s.treeConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build container tree: %w", err)
	}

	users, err := c.FetchAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	groups, err := c.FetchAllGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}

	computers, err := c.FetchAllComputers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch computers: %w", err)
	}

	tflog.SubsystemDebug(ctx, Subsystem, "Fetched directory snapshot", map[string]any{
		"containers": len(units),
		"users":      len(users),
		"groups":     len(groups),
		"computers":  len(computers),
	})

	return newSnapshot(units, tree, &directory.Objects{
		Users:     users,
		Groups:    groups,
		Computers: computers,
	}), nil
}

// Reload drops the connector's cache and loads again.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.RLock()
	c := s.connector
	s.mu.RUnlock()

	c.Invalidate()
	return s.LoadTree(ctx)
}

// SetConnector swaps the backend, discards the state built from the old one
// and loads from the new one.
func (s *Service) SetConnector(ctx context.Context, c connector.Connector) error {
	s.loadMu.Lock()
	s.mu.Lock()
	s.connector = c
	s.state = StateEmpty
	s.snapshot = nil
	s.selected = ""
	s.current = emptyObjects()
	s.results = []directory.SearchResult{}
	s.errMessage = ""
	s.mu.Unlock()
	s.loadMu.Unlock()

	tflog.SubsystemInfo(ctx, Subsystem, "Connector changed", map[string]any{"connector": c.Name()})

	return s.LoadTree(ctx)
}

// ConfigureManually hands server settings to a backend that asked for them
// and reloads. Backends without that capability return an error.
func (s *Service) ConfigureManually(ctx context.Context, cfg connector.ManualConfig) error {
	s.mu.RLock()
	c := s.connector
	s.mu.RUnlock()

	configurer, ok := c.(connector.ManualConfigurer)
	if !ok {
		return connector.NewUnsupported(c.Name(), "configure manually")
	}

	if err := configurer.ConfigureManually(ctx, cfg); err != nil {
		s.setError(err)
		return err
	}

	return s.Reload(ctx)
}

// SelectContainer scopes the current objects to one container. An empty id
// clears the selection.
func (s *Service) SelectContainer(id string) *directory.Objects {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = id
	s.current = s.scoped(id)
	return s.current
}

// scoped must be called with mu held.
func (s *Service) scoped(id string) *directory.Objects {
	if id == "" || s.snapshot == nil {
		return emptyObjects()
	}
	return s.snapshot.Objects.InContainer(id)
}

// Search runs a free-text search through the connector. A blank query clears
// the results and re-applies the container filter.
func (s *Service) Search(ctx context.Context, text string) ([]directory.SearchResult, error) {
	if strings.TrimSpace(text) == "" {
		s.mu.Lock()
		s.results = []directory.SearchResult{}
		s.current = s.scoped(s.selected)
		s.mu.Unlock()
		return []directory.SearchResult{}, nil
	}

	s.mu.RLock()
	c := s.connector
	s.mu.RUnlock()

	var results []directory.SearchResult
	err := connector.LogOperation(ctx, Subsystem, "search", map[string]any{"query": text}, func() error {
		var err error
		results, err = c.SearchObjects(ctx, text)
		return err
	})
	if err != nil {
		s.setError(err)
		return nil, err
	}
	if results == nil {
		results = []directory.SearchResult{}
	}

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()

	return results, nil
}

// Details resolves a selection, preferring the loaded snapshot and falling
// back to the connector. It returns nil, nil when nothing matches.
func (s *Service) Details(ctx context.Context, sel Selection) (*Detail, error) {
	s.mu.RLock()
	snap := s.snapshot
	c := s.connector
	s.mu.RUnlock()

	switch sel.Kind {
	case directory.KindContainer:
		if snap == nil {
			return nil, nil
		}
		if node := directory.Find(snap.Tree, sel.ID); node != nil {
			unit := node.Unit
			return &Detail{Container: &unit}, nil
		}
		return nil, nil

	case directory.KindUser:
		if snap != nil {
			if u, ok := snap.users[sel.ID]; ok {
				return &Detail{User: u}, nil
			}
		}
		u, err := c.FetchUserDetails(ctx, sel.ID)
		if err != nil || u == nil {
			return nil, err
		}
		return &Detail{User: u}, nil

	case directory.KindGroup:
		if snap != nil {
			if g, ok := snap.groups[sel.ID]; ok {
				return &Detail{Group: g}, nil
			}
		}
		g, err := c.FetchGroupDetails(ctx, sel.ID)
		if err != nil || g == nil {
			return nil, err
		}
		return &Detail{Group: g}, nil

	case directory.KindComputer:
		if snap != nil {
			if m, ok := snap.computers[sel.ID]; ok {
				return &Detail{Computer: m}, nil
			}
		}
		m, err := c.FetchComputerDetails(ctx, sel.ID)
		if err != nil || m == nil {
			return nil, err
		}
		return &Detail{Computer: m}, nil

	default:
		return nil, fmt.Errorf("unsupported selection kind %q", sel.Kind)
	}
}

func (s *Service) setError(err error) {
	s.mu.Lock()
	s.errMessage = err.Error()
	s.mu.Unlock()
}

// Subscribe registers fn to be called after every state change. The returned
// function removes the subscription.
func (s *Service) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Service) notify(state State) {
	s.mu.RLock()
	observers := make([]func(State), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(state)
	}
}

// State returns the current load state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot returns the last successfully loaded snapshot, or nil.
func (s *Service) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Tree returns the container forest of the last successful load.
func (s *Service) Tree() []*directory.ContainerNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.Tree
}

// CurrentObjects returns the objects of the selected container.
func (s *Service) CurrentObjects() *directory.Objects {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SearchResults returns the results of the last search.
func (s *Service) SearchResults() []directory.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results
}

// SelectedContainer returns the selected container id, empty when none.
func (s *Service) SelectedContainer() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// ErrorMessage returns the message of the last failed operation, empty after
// a successful load.
func (s *Service) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMessage
}

// NeedsManualConfiguration reports whether the backend is waiting for
// server settings.
func (s *Service) NeedsManualConfiguration() bool {
	s.mu.RLock()
	c := s.connector
	s.mu.RUnlock()
	return c.NeedsManualConfiguration()
}

// ConnectorName returns the name of the active backend.
func (s *Service) ConnectorName() string {
	s.mu.RLock()
	c := s.connector
	s.mu.RUnlock()
	return c.Name()
}
