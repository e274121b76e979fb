package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jfmaigne/DSAMAC/internal/directory"
)

func TestDemoConnector_Tree(t *testing.T) {
	demo, err := NewDemoConnector()
	require.NoError(t, err)

	units, err := demo.FetchContainerTree(t.Context())
	require.NoError(t, err)

	forest, err := directory.BuildTree(units, &directory.TreeConfig{Orphans: directory.OrphansReject})
	require.NoError(t, err)
	require.Len(t, forest, 1)

	root := forest[0]
	assert.Equal(t, "example.local", root.Unit.Name)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "Domain Controllers", root.Children[0].Unit.Name)
	assert.Equal(t, "Corporate", root.Children[1].Unit.Name)
	assert.Len(t, root.Children[1].Children, 4)

	staff := directory.Find(forest, ContainerID(demoStaffDN))
	require.NotNil(t, staff)
	assert.Equal(t, "Employee accounts", staff.Unit.Description)
}

func TestDemoConnector_Objects(t *testing.T) {
	demo, err := NewDemoConnector()
	require.NoError(t, err)
	ctx := t.Context()

	staff, err := demo.FetchObjects(ctx, ContainerID(demoStaffDN))
	require.NoError(t, err)
	assert.Len(t, staff.Users, len(demoUsers))
	assert.Empty(t, staff.Groups)

	groups, err := demo.FetchObjects(ctx, ContainerID(demoGroupsDN))
	require.NoError(t, err)
	assert.Len(t, groups.Groups, len(demoGroups))

	root, err := demo.FetchObjects(ctx, ContainerID(demoDomainDN))
	require.NoError(t, err)
	assert.Equal(t, 0, root.Len())
}

func TestDemoConnector_DerivedFields(t *testing.T) {
	demo, err := NewDemoConnector()
	require.NoError(t, err)
	ctx := t.Context()

	users, err := demo.FetchAllUsers(ctx)
	require.NoError(t, err)
	bySAM := make(map[string]*directory.User, len(users))
	for _, u := range users {
		bySAM[u.SAMAccountName] = u
	}

	assert.True(t, bySAM["jdoe"].IsEnabled())
	assert.False(t, bySAM["bwilson"].IsEnabled())
	assert.True(t, bySAM["asmith"].PasswordNeverExpires())
	assert.True(t, bySAM["cmartin"].IsLocked())
	assert.True(t, bySAM["cmartin"].MustChangePassword())
	assert.Nil(t, bySAM["jdoe"].AccountExpires, "never-expiring accounts have no expiry")
	assert.Equal(t, demoDomainSID+"-513", bySAM["jdoe"].PrimaryGroupSID())

	groups, err := demo.FetchAllGroups(ctx)
	require.NoError(t, err)
	for _, g := range groups {
		assert.Len(t, g.MemberNames, len(g.Members), g.Name)
	}
	assert.Equal(t, directory.GroupScopeUniversal, groups[1].Scope())
	assert.Len(t, groups[1].Members, len(demoUsers))
	assert.False(t, groups[1].IsSecurityGroup())

	computers, err := demo.FetchAllComputers(ctx)
	require.NoError(t, err)
	roles := make([]directory.ComputerRole, len(computers))
	for i, c := range computers {
		roles[i] = c.Role()
	}
	assert.Equal(t, []directory.ComputerRole{
		directory.RoleDomainController,
		directory.RoleServer,
		directory.RoleWorkstation,
	}, roles)
	assert.True(t, computers[0].TrustedForDelegation())
}

func TestDemoConnector_SearchAndDetails(t *testing.T) {
	demo, err := NewDemoConnector()
	require.NoError(t, err)
	ctx := t.Context()

	results, err := demo.SearchObjects(ctx, "hr")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, directory.KindUser, results[0].Kind)
	assert.Equal(t, "John Doe", results[0].DisplayName)

	user, err := demo.FetchUserDetails(ctx, results[0].ID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "jdoe", user.SAMAccountName)

	none, err := demo.FetchComputerDetails(ctx, results[0].ID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestDemoConnector_Deterministic(t *testing.T) {
	first, err := NewDemoConnector()
	require.NoError(t, err)
	second, err := NewDemoConnector()
	require.NoError(t, err)

	a, err := first.FetchAllUsers(t.Context())
	require.NoError(t, err)
	b, err := second.FetchAllUsers(t.Context())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, directory.NameID(directory.UserNamespace, "jdoe"), a[0].ID)
}
