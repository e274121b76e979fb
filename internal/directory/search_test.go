package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchFixture(t *testing.T) *Objects {
	t.Helper()

	hrUser, err := BuildUser(Attributes{
		"RecordName":                  {"jdoe"},
		"RealName":                    {"John Doe"},
		"dsAttrTypeNative:department": {"HR"},
	}, "", "staff")
	require.NoError(t, err)

	itUser, err := BuildUser(Attributes{
		"RecordName":                  {"asmith"},
		"RealName":                    {"Alice Smith"},
		"dsAttrTypeNative:department": {"IT"},
		"EMailAddress":                {"alice@example.local"},
	}, "", "staff")
	require.NoError(t, err)

	group, err := BuildGroup(Attributes{
		"RecordName": {"vpn-users"},
		"Comment":    {"Remote access"},
	}, "", "groups")
	require.NoError(t, err)

	computer, err := BuildComputer(Attributes{
		"RecordName":                       {"SRV-01$"},
		"dsAttrTypeNative:operatingSystem": {"Windows Server 2022"},
	}, "", "servers")
	require.NoError(t, err)

	return &Objects{
		Users:     []*User{hrUser, itUser},
		Groups:    []*Group{group},
		Computers: []*Computer{computer},
	}
}

func TestSearch(t *testing.T) {
	objects := searchFixture(t)

	tests := map[string]struct {
		query string
		kinds []Kind
		names []string
	}{
		"department match is case insensitive": {
			query: "hr",
			kinds: []Kind{KindUser},
			names: []string{"John Doe"},
		},
		"matches across kinds in fixed order": {
			query: "o",
			kinds: []Kind{KindUser, KindUser, KindGroup, KindComputer},
			names: []string{"John Doe", "Alice Smith", "vpn-users", "SRV-01"},
		},
		"group description": {
			query: "REMOTE",
			kinds: []Kind{KindGroup},
			names: []string{"vpn-users"},
		},
		"computer operating system": {
			query: "server 2022",
			kinds: []Kind{KindComputer},
			names: []string{"SRV-01"},
		},
		"email": {
			query: "alice@",
			kinds: []Kind{KindUser},
			names: []string{"Alice Smith"},
		},
		"no match": {
			query: "zzz",
		},
		"blank query": {
			query: "   ",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			results := Search(objects, tt.query)
			require.NotNil(t, results)
			require.Len(t, results, len(tt.kinds))

			for i, r := range results {
				assert.Equal(t, tt.kinds[i], r.Kind)
				assert.Equal(t, tt.names[i], r.DisplayName)
				assert.NotEmpty(t, r.ID)
			}
		})
	}
}

func TestSearch_Projections(t *testing.T) {
	objects := searchFixture(t)

	assert.Equal(t, "alice@example.local", UserResult(objects.Users[1]).Secondary)
	assert.Equal(t, "jdoe", UserResult(objects.Users[0]).Secondary)
	assert.Equal(t, "Remote access", GroupResult(objects.Groups[0]).Secondary)
	assert.Equal(t, "Windows Server 2022", ComputerResult(objects.Computers[0]).Secondary)
}

func TestObjects_InContainer(t *testing.T) {
	objects := searchFixture(t)

	staff := objects.InContainer("staff")
	assert.Len(t, staff.Users, 2)
	assert.Empty(t, staff.Groups)
	assert.NotNil(t, staff.Groups)
	assert.Equal(t, 2, staff.Len())

	assert.Equal(t, 0, objects.InContainer("nowhere").Len())
	assert.Equal(t, 4, objects.Len())

	var none *Objects
	assert.Equal(t, 0, none.InContainer("staff").Len())
}
