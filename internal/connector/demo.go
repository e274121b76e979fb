package connector

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/Jfmaigne/DSAMAC/internal/directory"
)

// DemoName is the name reported by the demo backend.
const DemoName = "demo"

const demoDomainDN = "DC=example,DC=local"

// DemoConnector serves a fixed, deterministic directory. Records are seeded
// as raw attribute dumps and go through the same builders as real output.
type DemoConnector struct {
	snap *snapshot
}

var _ Connector = (*DemoConnector)(nil)

// NewDemoConnector builds the seeded directory.
func NewDemoConnector() (*DemoConnector, error) {
	snap, err := seedDemo()
	if err != nil {
		return nil, fmt.Errorf("failed to seed demo directory: %w", err)
	}
	return &DemoConnector{snap: snap}, nil
}

func (d *DemoConnector) Name() string { return DemoName }

func (d *DemoConnector) NeedsManualConfiguration() bool { return false }

// Invalidate is a no-op: the seeded data never changes.
func (d *DemoConnector) Invalidate() {}

func (d *DemoConnector) FetchContainerTree(ctx context.Context) ([]directory.OrganizationalUnit, error) {
	tflog.SubsystemTrace(ctx, Subsystem, "Serving demo container tree", map[string]any{"containers": len(d.snap.units)})
	return d.snap.containerTree(), nil
}

func (d *DemoConnector) FetchObjects(ctx context.Context, containerID string) (*directory.Objects, error) {
	return d.snap.inContainer(containerID), nil
}

func (d *DemoConnector) SearchObjects(ctx context.Context, query string) ([]directory.SearchResult, error) {
	return d.snap.search(query), nil
}

func (d *DemoConnector) FetchUserDetails(ctx context.Context, id string) (*directory.User, error) {
	return d.snap.users[id], nil
}

func (d *DemoConnector) FetchGroupDetails(ctx context.Context, id string) (*directory.Group, error) {
	return d.snap.groups[id], nil
}

func (d *DemoConnector) FetchComputerDetails(ctx context.Context, id string) (*directory.Computer, error) {
	return d.snap.computers[id], nil
}

func (d *DemoConnector) FetchAllUsers(ctx context.Context) ([]*directory.User, error) {
	return d.snap.allUsers(), nil
}

func (d *DemoConnector) FetchAllGroups(ctx context.Context) ([]*directory.Group, error) {
	return d.snap.allGroups(), nil
}

func (d *DemoConnector) FetchAllComputers(ctx context.Context) ([]*directory.Computer, error) {
	return d.snap.allComputers(), nil
}

// Seed timestamps are fixed so every build of the demo directory is identical.
var (
	demoCreated  = time.Date(2021, time.March, 1, 9, 0, 0, 0, time.UTC)
	demoChanged  = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	demoLogon    = time.Date(2024, time.June, 3, 8, 30, 0, 0, time.UTC)
	demoPassword = time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC)
)

// Descriptions of the seeded organizational units, keyed by DN.
var demoContainers = []struct {
	dn          string
	description string
}{
	{"OU=Domain Controllers," + demoDomainDN, "Default container for domain controllers"},
	{"OU=Corporate," + demoDomainDN, "Head office"},
	{"OU=Staff,OU=Corporate," + demoDomainDN, "Employee accounts"},
	{"OU=Groups,OU=Corporate," + demoDomainDN, "Security and distribution groups"},
	{"OU=Servers,OU=Corporate," + demoDomainDN, "Member servers"},
	{"OU=Workstations,OU=Corporate," + demoDomainDN, "Employee workstations"},
}

const (
	demoStaffDN        = "OU=Staff,OU=Corporate," + demoDomainDN
	demoGroupsDN       = "OU=Groups,OU=Corporate," + demoDomainDN
	demoServersDN      = "OU=Servers,OU=Corporate," + demoDomainDN
	demoWorkstationsDN = "OU=Workstations,OU=Corporate," + demoDomainDN
	demoDCsDN          = "OU=Domain Controllers," + demoDomainDN

	demoDomainSID = "S-1-5-21-1004336348-1177238915-682003330"
)

type demoUser struct {
	sam, given, surname, title, department string
	uac                                    int64
	locked                                 bool
	groups                                 []string
}

type demoGroup struct {
	name, description string
	groupType         int64
}

type demoComputer struct {
	name, container, os, osVersion string
	uac                            int64
}

var demoUsers = []demoUser{
	{sam: "jdoe", given: "John", surname: "Doe", title: "HR Manager", department: "HR", uac: 0x200, groups: []string{"All Staff", "VPN Users"}},
	{sam: "asmith", given: "Alice", surname: "Smith", title: "Systems Engineer", department: "IT", uac: 0x10200, groups: []string{"All Staff", "IT Admins", "VPN Users"}},
	{sam: "bwilson", given: "Bob", surname: "Wilson", title: "Accountant", department: "Finance", uac: 0x202, groups: []string{"All Staff"}},
	{sam: "cmartin", given: "Claire", surname: "Martin", title: "Sales Representative", department: "Sales", uac: 0x800200, locked: true, groups: []string{"All Staff"}},
}

var demoGroups = []demoGroup{
	{name: "IT Admins", description: "Administrators of the IT infrastructure", groupType: -2147483646},
	{name: "All Staff", description: "Every employee", groupType: 8},
	{name: "VPN Users", description: "Remote access", groupType: -2147483644},
}

var demoComputers = []demoComputer{
	{name: "DC01", container: demoDCsDN, os: "Windows Server 2022 Standard", osVersion: "10.0 (20348)", uac: 0x82000},
	{name: "SRV-APP01", container: demoServersDN, os: "Windows Server 2019 Datacenter", osVersion: "10.0 (17763)", uac: 0x1000},
	{name: "WS-0042", container: demoWorkstationsDN, os: "Windows 11 Enterprise", osVersion: "10.0 (22631)", uac: 0x1000},
}

func demoUserDN(u demoUser) string {
	return "CN=" + directory.EscapeDNValue(u.given+" "+u.surname) + "," + demoStaffDN
}

func demoGroupDN(name string) string {
	return "CN=" + directory.EscapeDNValue(name) + "," + demoGroupsDN
}

// seedDemo renders the seed tables as attribute dumps and assembles them.
func seedDemo() (*snapshot, error) {
	index := newContainerIndex("example.local")
	for _, c := range demoContainers {
		index.place(c.dn)
		index.describe(c.dn, c.description)
	}

	objects := &directory.Objects{
		Users:     []*directory.User{},
		Groups:    []*directory.Group{},
		Computers: []*directory.Computer{},
	}

	members := make(map[string][]string)
	for i, u := range demoUsers {
		dn := demoUserDN(u)
		var memberOf []string
		for _, g := range u.groups {
			memberOf = append(memberOf, demoGroupDN(g))
			members[g] = append(members[g], dn)
		}

		attrs := directory.Attributes{
			"sAMAccountName":     {u.sam},
			"userPrincipalName":  {u.sam + "@example.local"},
			"distinguishedName":  {dn},
			"objectSid":          {demoDomainSID + "-" + strconv.Itoa(1101+i)},
			"givenName":          {u.given},
			"sn":                 {u.surname},
			"displayName":        {u.given + " " + u.surname},
			"mail":               {u.sam + "@example.local"},
			"title":              {u.title},
			"department":         {u.department},
			"company":            {"Example Corp"},
			"userAccountControl": {strconv.FormatInt(u.uac, 10)},
			"pwdLastSet":         {directory.EncodeFileTime(demoPassword)},
			"lastLogonTimestamp": {directory.EncodeFileTime(demoLogon)},
			"accountExpires":     {"9223372036854775807"},
			"logonCount":         {strconv.Itoa(10 * (i + 1))},
			"badPwdCount":        {"0"},
			"primaryGroupID":     {"513"},
			"whenCreated":        {directory.FormatGeneralizedTime(demoCreated)},
			"whenChanged":        {directory.FormatGeneralizedTime(demoChanged)},
			"objectClass":        {"top", "person", "organizationalPerson", "user"},
			"memberOf":           memberOf,
		}
		if u.locked {
			attrs["lockoutTime"] = []string{directory.EncodeFileTime(demoChanged)}
			attrs["badPwdCount"] = []string{"5"}
		}

		user, err := directory.BuildUser(attrs, u.sam, index.place(dn))
		if err != nil {
			return nil, err
		}
		objects.Users = append(objects.Users, user)
	}

	for i, g := range demoGroups {
		dn := demoGroupDN(g.name)
		attrs := directory.Attributes{
			"sAMAccountName":    {g.name},
			"cn":                {g.name},
			"distinguishedName": {dn},
			"objectSid":         {demoDomainSID + "-" + strconv.Itoa(1201+i)},
			"description":       {g.description},
			"groupType":         {strconv.FormatInt(g.groupType, 10)},
			"member":            members[g.name],
			"whenCreated":       {directory.FormatGeneralizedTime(demoCreated)},
			"whenChanged":       {directory.FormatGeneralizedTime(demoChanged)},
		}

		group, err := directory.BuildGroup(attrs, g.name, index.place(dn))
		if err != nil {
			return nil, err
		}
		objects.Groups = append(objects.Groups, group)
	}

	for i, m := range demoComputers {
		dn := "CN=" + m.name + "," + m.container
		attrs := directory.Attributes{
			"sAMAccountName":         {m.name + "$"},
			"cn":                     {m.name},
			"distinguishedName":      {dn},
			"dNSHostName":            {fmt.Sprintf("%s.example.local", m.name)},
			"objectSid":              {demoDomainSID + "-" + strconv.Itoa(1001+i)},
			"operatingSystem":        {m.os},
			"operatingSystemVersion": {m.osVersion},
			"userAccountControl":     {strconv.FormatInt(m.uac, 10)},
			"lastLogonTimestamp":     {directory.EncodeFileTime(demoLogon)},
			"pwdLastSet":             {directory.EncodeFileTime(demoPassword)},
			"whenCreated":            {directory.FormatGeneralizedTime(demoCreated)},
			"whenChanged":            {directory.FormatGeneralizedTime(demoChanged)},
		}

		computer, err := directory.BuildComputer(attrs, m.name, index.place(dn))
		if err != nil {
			return nil, err
		}
		objects.Computers = append(objects.Computers, computer)
	}

	return newSnapshot(index.units, objects), nil
}
