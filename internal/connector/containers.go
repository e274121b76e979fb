package connector

import (
	"strings"

	"github.com/Jfmaigne/DSAMAC/internal/directory"
)

// ContainerID returns the stable id of the container with the given DN.
func ContainerID(dn string) string {
	return directory.NameID(directory.ContainerNamespace, dn)
}

// containerIndex accumulates the container units implied by record DNs: one
// root per domain and one unit per OU along each record's chain.
type containerIndex struct {
	units  []directory.OrganizationalUnit
	byID   map[string]int
	domain string
}

func newContainerIndex(domain string) *containerIndex {
	return &containerIndex{
		byID:   make(map[string]int),
		domain: domain,
	}
}

// place registers the OU chain of dn and returns the id of the innermost
// container. It returns "" when dn carries no domain components.
func (ix *containerIndex) place(dn string) string {
	domainDN := directory.DomainDN(dn)
	if domainDN == "" {
		return ""
	}

	parentID := ix.add(domainDN, domainName(domainDN), "")
	current := domainDN
	for _, name := range directory.OUPath(dn) {
		current = "OU=" + directory.EscapeDNValue(name) + "," + current
		parentID = ix.add(current, name, parentID)
	}

	return parentID
}

// defaultRoot returns the first registered domain root, creating one from the
// configured domain name when no record carried a DN.
func (ix *containerIndex) defaultRoot() string {
	for _, u := range ix.units {
		if u.IsRoot() {
			return u.ID
		}
	}

	name := ix.domain
	if name == "" {
		name = "Directory"
	}
	dn := directory.DomainToDN(ix.domain)
	if dn == "" {
		return ix.add(name, name, "")
	}
	return ix.add(dn, name, "")
}

func (ix *containerIndex) add(dn, name, parentID string) string {
	id := ContainerID(dn)
	if _, ok := ix.byID[id]; ok {
		return id
	}

	ix.byID[id] = len(ix.units)
	ix.units = append(ix.units, directory.OrganizationalUnit{
		ID:                id,
		Name:              name,
		ParentID:          parentID,
		DistinguishedName: dn,
	})

	return id
}

// describe sets the description of an already registered container.
func (ix *containerIndex) describe(dn, description string) {
	if i, ok := ix.byID[ContainerID(dn)]; ok {
		ix.units[i].Description = description
	}
}

// domainName turns "DC=example,DC=local" into "example.local".
func domainName(domainDN string) string {
	var labels []string
	for _, c := range directory.SplitDN(domainDN) {
		if strings.EqualFold(c.Type, "DC") {
			labels = append(labels, c.Value)
		}
	}
	return strings.Join(labels, ".")
}
