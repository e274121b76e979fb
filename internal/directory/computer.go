package directory

import "strings"

// ComputerRole is the machine classification of a computer account.
type ComputerRole string

const (
	RoleWorkstation      ComputerRole = "workstation"
	RoleServer           ComputerRole = "server"
	RoleDomainController ComputerRole = "domain_controller"
	RoleUnknown          ComputerRole = "unknown"
)

// Computer is a directory computer account decoded from one attribute dump.
type Computer struct {
	// Core identification
	ID                string `json:"id"`
	DistinguishedName string `json:"distinguishedName,omitempty"`
	ObjectSid         string `json:"objectSid,omitempty"`

	// Identity attributes
	Name           string `json:"name"`
	SAMAccountName string `json:"sAMAccountName"`
	DNSHostName    string `json:"dNSHostName,omitempty"`
	Description    string `json:"description,omitempty"`
	Location       string `json:"location,omitempty"`
	ManagedBy      string `json:"managedBy,omitempty"`

	// Operating system
	OperatingSystem            string `json:"operatingSystem,omitempty"`
	OperatingSystemVersion     string `json:"operatingSystemVersion,omitempty"`
	OperatingSystemServicePack string `json:"operatingSystemServicePack,omitempty"`

	// Account status, timestamps and counters
	Account

	MemberOf    []string `json:"memberOf,omitempty"`
	ContainerID string   `json:"containerId"`
}

// Role classifies the machine: a server trust account is a domain controller,
// otherwise the operating system name decides, and a workstation trust
// account or any other named OS is a workstation.
func (c *Computer) Role() ComputerRole {
	switch {
	case c.AccountControl.Has(UACServerTrustAccount):
		return RoleDomainController
	case strings.Contains(strings.ToLower(c.OperatingSystem), "server"):
		return RoleServer
	case c.AccountControl.Has(UACWorkstationTrustAccount), c.OperatingSystem != "":
		return RoleWorkstation
	default:
		return RoleUnknown
	}
}

// BuildComputer assembles a Computer from an attribute dump.
func BuildComputer(attrs Attributes, lookupKey, containerID string) (*Computer, error) {
	sam := firstNonEmpty(pick(attrs, "sAMAccountName", "RecordName"), strings.TrimSpace(lookupKey))
	if sam == "" {
		return nil, ErrMissingAccountName
	}

	dn := pick(attrs, "distinguishedName", "AppleMetaRecordName")
	cn := pick(attrs, "cn")
	if cn == "" {
		cn, _ = ExtractCN(dn)
	}

	computer := &Computer{
		ID:                entityID(attrs, ComputerNamespace, sam),
		DistinguishedName: dn,
		ObjectSid:         DecodeSID(pick(attrs, "objectSid", "SMBSID")),

		Name:           firstNonEmpty(cn, pick(attrs, "name", "RealName"), strings.TrimSuffix(sam, "$")),
		SAMAccountName: sam,
		DNSHostName:    pick(attrs, "dNSHostName", "DNSName"),
		Description:    pick(attrs, "description", "Comment"),
		Location:       pick(attrs, "location", "Building"),
		ManagedBy:      pick(attrs, "managedBy"),

		OperatingSystem:            pick(attrs, "operatingSystem"),
		OperatingSystemVersion:     pick(attrs, "operatingSystemVersion"),
		OperatingSystemServicePack: pick(attrs, "operatingSystemServicePack"),

		Account: decodeAccount(attrs),

		MemberOf:    pickAll(attrs, "memberOf"),
		ContainerID: containerID,
	}

	return computer, nil
}
