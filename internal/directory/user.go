package directory

import (
	"fmt"
	"strings"
)

// User is a directory user decoded from one attribute dump.
type User struct {
	// Core identification
	ID                string `json:"id"`
	DistinguishedName string `json:"distinguishedName,omitempty"`
	ObjectSid         string `json:"objectSid,omitempty"`

	// Identity attributes
	SAMAccountName    string `json:"sAMAccountName"`
	UserPrincipalName string `json:"userPrincipalName,omitempty"`
	CommonName        string `json:"commonName,omitempty"`
	DisplayName       string `json:"displayName"`
	GivenName         string `json:"givenName,omitempty"`
	Surname           string `json:"surname,omitempty"`
	Initials          string `json:"initials,omitempty"`
	Description       string `json:"description,omitempty"`

	// Contact information
	EmailAddress string `json:"emailAddress,omitempty"`
	OfficePhone  string `json:"officePhone,omitempty"`
	MobilePhone  string `json:"mobilePhone,omitempty"`
	HomePhone    string `json:"homePhone,omitempty"`
	Fax          string `json:"fax,omitempty"`
	HomePage     string `json:"homePage,omitempty"`

	// Address information
	StreetAddress string `json:"streetAddress,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	Country       string `json:"country,omitempty"`
	POBox         string `json:"poBox,omitempty"`
	Office        string `json:"office,omitempty"`

	// Organizational information
	Title         string   `json:"title,omitempty"`
	Department    string   `json:"department,omitempty"`
	Company       string   `json:"company,omitempty"`
	EmployeeID    string   `json:"employeeID,omitempty"`
	Manager       string   `json:"manager,omitempty"`       // Manager DN
	DirectReports []string `json:"directReports,omitempty"` // DNs

	// Account status, timestamps and counters
	Account

	// Group memberships
	MemberOf       []string `json:"memberOf,omitempty"` // Group DNs
	PrimaryGroupID *int64   `json:"primaryGroupID,omitempty"`

	// System information
	HomeDirectory string `json:"homeDirectory,omitempty"`
	HomeDrive     string `json:"homeDrive,omitempty"`
	ProfilePath   string `json:"profilePath,omitempty"`
	LogonScript   string `json:"logonScript,omitempty"`

	ObjectClasses []string `json:"objectClass,omitempty"`
	ContainerID   string   `json:"containerId"`
}

// PrimaryGroupSID combines the domain part of ObjectSid with PrimaryGroupID.
func (u *User) PrimaryGroupSID() string {
	if u.PrimaryGroupID == nil {
		return ""
	}

	domainSID, ok := DomainSID(u.ObjectSid)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s-%d", domainSID, *u.PrimaryGroupID)
}

// BuildUser assembles a User from an attribute dump. lookupKey is the record
// name the dump was requested under and backs up the account name.
func BuildUser(attrs Attributes, lookupKey, containerID string) (*User, error) {
	sam := firstNonEmpty(pick(attrs, "sAMAccountName", "RecordName"), strings.TrimSpace(lookupKey))
	if sam == "" {
		return nil, ErrMissingAccountName
	}

	dn := pick(attrs, "distinguishedName", "AppleMetaRecordName")
	cn := pick(attrs, "cn")
	if cn == "" {
		cn, _ = ExtractCN(dn)
	}

	user := &User{
		ID:                entityID(attrs, UserNamespace, sam),
		DistinguishedName: dn,
		ObjectSid:         DecodeSID(pick(attrs, "objectSid", "SMBSID")),

		SAMAccountName:    sam,
		UserPrincipalName: pick(attrs, "userPrincipalName"),
		CommonName:        cn,
		GivenName:         pick(attrs, "givenName", "FirstName"),
		Surname:           pick(attrs, "sn", "LastName"),
		Initials:          pick(attrs, "initials"),
		Description:       pick(attrs, "description", "Comment"),

		EmailAddress: pick(attrs, "mail", "EMailAddress"),
		OfficePhone:  pick(attrs, "telephoneNumber", "PhoneNumber"),
		MobilePhone:  pick(attrs, "mobile", "MobileNumber"),
		HomePhone:    pick(attrs, "homePhone"),
		Fax:          pick(attrs, "facsimileTelephoneNumber", "FAXNumber"),
		HomePage:     pick(attrs, "wWWHomePage", "URL"),

		StreetAddress: pick(attrs, "streetAddress", "Street"),
		City:          pick(attrs, "l", "City"),
		State:         pick(attrs, "st", "State"),
		PostalCode:    pick(attrs, "postalCode", "PostalCode"),
		Country:       pick(attrs, "co", "Country"),
		POBox:         pick(attrs, "postOfficeBox"),
		Office:        pick(attrs, "physicalDeliveryOfficeName", "Building"),

		Title:         pick(attrs, "title", "JobTitle"),
		Department:    pick(attrs, "department", "Department"),
		Company:       pick(attrs, "company", "Company"),
		EmployeeID:    pick(attrs, "employeeID"),
		Manager:       pick(attrs, "manager"),
		DirectReports: pickAll(attrs, "directReports"),

		Account: decodeAccount(attrs),

		MemberOf:       pickAll(attrs, "memberOf"),
		PrimaryGroupID: ParseCounter(pick(attrs, "primaryGroupID")),

		HomeDirectory: pick(attrs, "homeDirectory", "SMBHome"),
		HomeDrive:     pick(attrs, "homeDrive", "SMBHomeDrive"),
		ProfilePath:   pick(attrs, "profilePath", "SMBProfilePath"),
		LogonScript:   pick(attrs, "scriptPath", "SMBScriptPath"),

		ObjectClasses: pickAll(attrs, "objectClass"),
		ContainerID:   containerID,
	}

	user.DisplayName = firstNonEmpty(
		pick(attrs, "displayName", "RealName"),
		strings.TrimSpace(strings.Join([]string{user.GivenName, user.Surname}, " ")),
		cn,
		sam,
	)

	return user, nil
}
