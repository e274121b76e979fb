// Package connector provides the read-only backends the directory browser
// queries: seeded demo data, the local directory query tool, and a stub for a
// future network directory client.
package connector

import (
	"context"

	"github.com/Jfmaigne/DSAMAC/internal/directory"
)

// Connector is the contract every directory backend implements.
//
// Detail lookups return nil, nil when no object carries the id.
type Connector interface {
	// Name identifies the backend in logs and error messages.
	Name() string

	// NeedsManualConfiguration reports that the backend could not discover
	// its directory on its own and requires server settings.
	NeedsManualConfiguration() bool

	// Invalidate drops any cached results so the next query refetches.
	Invalidate()

	FetchContainerTree(ctx context.Context) ([]directory.OrganizationalUnit, error)
	FetchObjects(ctx context.Context, containerID string) (*directory.Objects, error)
	SearchObjects(ctx context.Context, query string) ([]directory.SearchResult, error)

	FetchUserDetails(ctx context.Context, id string) (*directory.User, error)
	FetchGroupDetails(ctx context.Context, id string) (*directory.Group, error)
	FetchComputerDetails(ctx context.Context, id string) (*directory.Computer, error)

	FetchAllUsers(ctx context.Context) ([]*directory.User, error)
	FetchAllGroups(ctx context.Context) ([]*directory.Group, error)
	FetchAllComputers(ctx context.Context) ([]*directory.Computer, error)
}

// ManualConfigurer is implemented by backends that accept server settings
// after automatic discovery has failed.
type ManualConfigurer interface {
	ConfigureManually(ctx context.Context, cfg ManualConfig) error
}

// ManualConfig holds the server settings entered when automatic domain
// detection fails.
type ManualConfig struct {
	Server   string `json:"server"`
	Domain   string `json:"domain"`
	Username string `json:"username,omitempty"`
	Password string `json:"-"`
}

// snapshot is a complete in-memory view of a directory, indexed by id.
type snapshot struct {
	units   []directory.OrganizationalUnit
	objects *directory.Objects

	users     map[string]*directory.User
	groups    map[string]*directory.Group
	computers map[string]*directory.Computer
}

func newSnapshot(units []directory.OrganizationalUnit, objects *directory.Objects) *snapshot {
	s := &snapshot{
		units:     units,
		objects:   objects,
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

// containerTree returns a copy of the units so callers cannot mutate the cache.
func (s *snapshot) containerTree() []directory.OrganizationalUnit {
	return append([]directory.OrganizationalUnit(nil), s.units...)
}

func (s *snapshot) inContainer(containerID string) *directory.Objects {
	return s.objects.InContainer(containerID)
}

func (s *snapshot) search(query string) []directory.SearchResult {
	return directory.Search(s.objects, query)
}

func (s *snapshot) allUsers() []*directory.User {
	return append([]*directory.User{}, s.objects.Users...)
}

func (s *snapshot) allGroups() []*directory.Group {
	return append([]*directory.Group{}, s.objects.Groups...)
}

func (s *snapshot) allComputers() []*directory.Computer {
	return append([]*directory.Computer{}, s.objects.Computers...)
}
