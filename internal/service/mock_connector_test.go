package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Jfmaigne/DSAMAC/internal/connector"
	"github.com/Jfmaigne/DSAMAC/internal/directory"
)

// MockConnector is a mock implementation of connector.Connector.
type MockConnector struct {
	mock.Mock
}

var _ connector.Connector = (*MockConnector)(nil)

func (m *MockConnector) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConnector) NeedsManualConfiguration() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockConnector) Invalidate() {
	m.Called()
}

func (m *MockConnector) FetchContainerTree(ctx context.Context) ([]directory.OrganizationalUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]directory.OrganizationalUnit), args.Error(1)
}

func (m *MockConnector) FetchObjects(ctx context.Context, containerID string) (*directory.Objects, error) {
	args := m.Called(ctx, containerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Objects), args.Error(1)
}

func (m *MockConnector) SearchObjects(ctx context.Context, query string) ([]directory.SearchResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]directory.SearchResult), args.Error(1)
}

func (m *MockConnector) FetchUserDetails(ctx context.Context, id string) (*directory.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.User), args.Error(1)
}

func (m *MockConnector) FetchGroupDetails(ctx context.Context, id string) (*directory.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Group), args.Error(1)
}

func (m *MockConnector) FetchComputerDetails(ctx context.Context, id string) (*directory.Computer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Computer), args.Error(1)
}

func (m *MockConnector) FetchAllUsers(ctx context.Context) ([]*directory.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.User), args.Error(1)
}

func (m *MockConnector) FetchAllGroups(ctx context.Context) ([]*directory.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.Group), args.Error(1)
}

func (m *MockConnector) FetchAllComputers(ctx context.Context) ([]*directory.Computer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.Computer), args.Error(1)
}

// MockManualConnector adds the manual configuration capability.
type MockManualConnector struct {
	MockConnector
}

func (m *MockManualConnector) ConfigureManually(ctx context.Context, cfg connector.ManualConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}
