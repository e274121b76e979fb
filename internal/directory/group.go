package directory

import (
	"strings"
	"time"
)

// Group is a directory group decoded from one attribute dump.
type Group struct {
	// Core identification
	ID                string `json:"id"`
	DistinguishedName string `json:"distinguishedName,omitempty"`
	ObjectSid         string `json:"objectSid,omitempty"`

	// Identity attributes
	Name           string `json:"name"`
	SAMAccountName string `json:"sAMAccountName"`
	Description    string `json:"description,omitempty"`
	Mail           string `json:"mail,omitempty"`
	Manager        string `json:"managedBy,omitempty"`

	// Raw groupType; Category and Scope derive from it
	GroupType GroupType `json:"groupType"`

	// Membership, with display names kept parallel to the references
	Members       []string `json:"members"`
	MemberNames   []string `json:"memberNames"`
	MemberOf      []string `json:"memberOf"`
	MemberOfNames []string `json:"memberOfNames"`

	// Timestamps
	WhenCreated *time.Time `json:"whenCreated,omitempty"`
	WhenChanged *time.Time `json:"whenChanged,omitempty"`

	ContainerID string `json:"containerId"`
}

// Category returns the security/distribution classification.
func (g *Group) Category() GroupCategory {
	return g.GroupType.Category()
}

// Scope returns the group scope.
func (g *Group) Scope() GroupScope {
	return g.GroupType.Scope()
}

// IsSecurityGroup reports whether the group is a security group.
func (g *Group) IsSecurityGroup() bool {
	return g.Category() == GroupCategorySecurity
}

// BuildGroup assembles a Group from an attribute dump.
func BuildGroup(attrs Attributes, lookupKey, containerID string) (*Group, error) {
	lookupKey = strings.TrimSpace(lookupKey)

	sam := firstNonEmpty(pick(attrs, "sAMAccountName", "RecordName"), lookupKey)
	if sam == "" {
		return nil, ErrMissingAccountName
	}

	dn := pick(attrs, "distinguishedName", "AppleMetaRecordName")
	cn := pick(attrs, "cn")
	if cn == "" {
		cn, _ = ExtractCN(dn)
	}

	// Member DNs are preferred; the short-name membership list is the alias.
	members := pickAll(attrs, "member", "GroupMembership")
	memberOf := pickAll(attrs, "memberOf")

	group := &Group{
		ID:                entityID(attrs, GroupNamespace, sam),
		DistinguishedName: dn,
		ObjectSid:         DecodeSID(pick(attrs, "objectSid", "SMBSID")),

		Name:           firstNonEmpty(cn, pick(attrs, "name", "RealName"), sam),
		SAMAccountName: sam,
		Description:    pick(attrs, "description", "Comment"),
		Mail:           pick(attrs, "mail", "EMailAddress"),
		Manager:        pick(attrs, "managedBy"),

		GroupType: ParseGroupType(pick(attrs, "groupType")),

		Members:       nonNil(members),
		MemberNames:   displayNames(members),
		MemberOf:      nonNil(memberOf),
		MemberOfNames: displayNames(memberOf),

		WhenCreated: ParseGeneralizedTime(pick(attrs, "whenCreated")),
		WhenChanged: ParseGeneralizedTime(pick(attrs, "whenChanged")),

		ContainerID: containerID,
	}

	return group, nil
}

// displayNames maps references to their CN, or the reference itself when it
// is not a DN, keeping length and order.
func displayNames(refs []string) []string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = DisplayNameFromDN(ref)
	}
	return names
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
