package directory

import (
	"strings"
	"time"
)

// Kind identifies the type of a directory object.
type Kind string

const (
	KindUser      Kind = "user"
	KindGroup     Kind = "group"
	KindComputer  Kind = "computer"
	KindContainer Kind = "container"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a case-insensitive kind name into a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindUser:
		return KindUser, true
	case KindGroup:
		return KindGroup, true
	case KindComputer:
		return KindComputer, true
	case KindContainer:
		return KindContainer, true
	default:
		return "", false
	}
}

// OrganizationalUnit represents one container in the directory hierarchy.
type OrganizationalUnit struct {
	// Core identification
	ID                string `json:"id"`
	Name              string `json:"name"`
	ParentID          string `json:"parentId,omitempty"` // Empty for roots
	DistinguishedName string `json:"distinguishedName,omitempty"`
	Description       string `json:"description,omitempty"`

	// Timestamps
	WhenCreated *time.Time `json:"whenCreated,omitempty"`
	WhenChanged *time.Time `json:"whenChanged,omitempty"`
}

// IsRoot reports whether the unit has no declared parent.
func (ou OrganizationalUnit) IsRoot() bool {
	return ou.ParentID == ""
}

// SearchResult is the uniform projection used for cross-entity search output.
type SearchResult struct {
	ID                string `json:"id"`
	Kind              Kind   `json:"kind"`
	DisplayName       string `json:"displayName"`
	Secondary         string `json:"secondary,omitempty"`
	DistinguishedName string `json:"distinguishedName,omitempty"`
}

// Objects holds the users, groups and computers of one listing.
type Objects struct {
	Users     []*User     `json:"users"`
	Groups    []*Group    `json:"groups"`
	Computers []*Computer `json:"computers"`
}

// Len returns the total number of objects.
func (o *Objects) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Users) + len(o.Groups) + len(o.Computers)
}

// InContainer returns the subset of objects owned by the given container.
func (o *Objects) InContainer(containerID string) *Objects {
	scoped := &Objects{
		Users:     []*User{},
		Groups:    []*Group{},
		Computers: []*Computer{},
	}
	if o == nil {
		return scoped
	}

	for _, u := range o.Users {
		if u.ContainerID == containerID {
			scoped.Users = append(scoped.Users, u)
		}
	}
	for _, g := range o.Groups {
		if g.ContainerID == containerID {
			scoped.Groups = append(scoped.Groups, g)
		}
	}
	for _, c := range o.Computers {
		if c.ContainerID == containerID {
			scoped.Computers = append(scoped.Computers, c)
		}
	}

	return scoped
}
