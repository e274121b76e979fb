package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGroup(t *testing.T) {
	attrs := Attributes{
		"dsAttrTypeNative:distinguishedName": {"CN=HR Staff,OU=Groups,DC=example,DC=local"},
		"dsAttrTypeNative:sAMAccountName":    {"hr-staff"},
		"dsAttrTypeNative:groupType":         {"-2147483640"},
		"dsAttrTypeNative:description":       {"Human resources"},
		"dsAttrTypeNative:member": {
			"CN=John Doe,OU=Staff,DC=example,DC=local",
			"CN=Jane Smith,OU=Staff,DC=example,DC=local",
		},
		"GroupMembership":              {"jdoe", "jsmith"},
		"dsAttrTypeNative:memberOf":    {"CN=All Staff,OU=Groups,DC=example,DC=local"},
		"dsAttrTypeNative:managedBy":   {"CN=Jane Smith,OU=Staff,DC=example,DC=local"},
		"dsAttrTypeNative:whenCreated": {"20240115103000Z"},
	}

	group, err := BuildGroup(attrs, "ignored", "groups")
	require.NoError(t, err)

	assert.Equal(t, "HR Staff", group.Name)
	assert.Equal(t, "hr-staff", group.SAMAccountName)
	assert.Equal(t, "Human resources", group.Description)
	assert.Equal(t, GroupCategorySecurity, group.Category())
	assert.Equal(t, GroupScopeUniversal, group.Scope())
	assert.True(t, group.IsSecurityGroup())
	assert.Equal(t, []string{"John Doe", "Jane Smith"}, group.MemberNames)
	assert.Equal(t, []string{"All Staff"}, group.MemberOfNames)
	assert.NotNil(t, group.WhenCreated)
	assert.Equal(t, "groups", group.ContainerID)
	assert.Equal(t, NameID(GroupNamespace, "hr-staff"), group.ID)
}

func TestBuildGroup_MembershipArraysStayParallel(t *testing.T) {
	tests := map[string]Attributes{
		"short names only": {
			"RecordName":      {"vpn"},
			"GroupMembership": {"jdoe", "CN=Svc,OU=Service,DC=example,DC=local", "asmith"},
		},
		"no members": {
			"RecordName": {"empty"},
		},
		"mixed references": {
			"RecordName":                {"mixed"},
			"dsAttrTypeNative:member":   {"CN=A,DC=x", "not-a-dn", "OU=Nested,DC=x"},
			"dsAttrTypeNative:memberOf": {"CN=Parent,DC=x"},
		},
	}

	for name, attrs := range tests {
		t.Run(name, func(t *testing.T) {
			group, err := BuildGroup(attrs, "", "")
			require.NoError(t, err)

			require.Len(t, group.MemberNames, len(group.Members))
			require.Len(t, group.MemberOfNames, len(group.MemberOf))
			for i, ref := range group.Members {
				assert.Equal(t, DisplayNameFromDN(ref), group.MemberNames[i])
			}
		})
	}
}

func TestBuildGroup_Defaults(t *testing.T) {
	group, err := BuildGroup(Attributes{}, "Domain Users", "")
	require.NoError(t, err)

	assert.Equal(t, "Domain Users", group.Name)
	assert.Equal(t, GroupCategoryDistribution, group.Category())
	assert.Equal(t, GroupScopeUnknown, group.Scope())
	assert.NotNil(t, group.Members)
	assert.Empty(t, group.Members)

	_, err = BuildGroup(Attributes{}, "", "")
	assert.ErrorIs(t, err, ErrMissingAccountName)
}
