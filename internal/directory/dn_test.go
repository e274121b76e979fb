package directory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestExtractCN(t *testing.T) {
	tests := map[string]struct {
		dn       string
		expected string
		found    bool
	}{
		"simple user":          {dn: "CN=John Doe,OU=Users,DC=example,DC=com", expected: "John Doe", found: true},
		"lower case type":      {dn: "cn=jdoe,ou=users,dc=example,dc=com", expected: "jdoe", found: true},
		"escaped comma":        {dn: `CN=Doe\, John,OU=Users,DC=example,DC=com`, expected: "Doe, John", found: true},
		"first cn wins":        {dn: "CN=Admins,CN=Builtin,DC=example,DC=com", expected: "Admins", found: true},
		"spaces around values": {dn: "CN = Jane , OU=Users", expected: "Jane", found: true},
		"no cn component":      {dn: "OU=Users,DC=example,DC=com"},
		"not a dn":             {dn: "jdoe"},
		"empty":                {dn: ""},
		"naive fallback":       {dn: "CN=Broken=Value,OU=Users,BAD", expected: "Broken=Value", found: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cn, ok := ExtractCN(tt.dn)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, cn)
		})
	}
}

func TestDisplayNameFromDN(t *testing.T) {
	assert.Equal(t, "Staff", DisplayNameFromDN("CN=Staff,OU=Groups,DC=example,DC=local"))
	assert.Equal(t, "jdoe", DisplayNameFromDN("jdoe"))
	assert.Equal(t, "OU=Groups,DC=example,DC=local", DisplayNameFromDN("OU=Groups,DC=example,DC=local"))
}

func TestParentDN(t *testing.T) {
	parent, ok := ParentDN("CN=John Doe,OU=Users,DC=example,DC=com")
	assert.True(t, ok)
	assert.Equal(t, "OU=Users,DC=example,DC=com", parent)

	parent, ok = ParentDN(`cn=x,ou=Sales\, EMEA,dc=example,dc=com`)
	assert.True(t, ok)
	assert.Equal(t, `OU=Sales\, EMEA,DC=example,DC=com`, parent)

	_, ok = ParentDN("DC=com")
	assert.False(t, ok)

	_, ok = ParentDN("not a dn")
	assert.False(t, ok)
}

func TestOUPath(t *testing.T) {
	assert.Equal(t, []string{"Paris", "Staff"}, OUPath("CN=jdoe,OU=Staff,OU=Paris,DC=example,DC=local"))
	assert.Empty(t, OUPath("CN=jdoe,CN=Users,DC=example,DC=local"))
	assert.Empty(t, OUPath(""))
}

func TestDomainDN(t *testing.T) {
	assert.Equal(t, "DC=example,DC=local", DomainDN("CN=jdoe,OU=Staff,DC=example,DC=local"))
	assert.Equal(t, "DC=example,DC=local", DomainToDN("example.local"))
	assert.Equal(t, "DC=corp,DC=example,DC=com", DomainToDN(" corp.example.com. "))
	assert.Empty(t, DomainToDN(""))
}

func TestEscapeDNValue(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected string
	}{
		"plain":         {input: "John Doe", expected: "John Doe"},
		"comma":         {input: "Doe, John", expected: `Doe\, John`},
		"leading space": {input: " John", expected: `\ John`},
		"trailing":      {input: "John ", expected: `John\ `},
		"leading hash":  {input: "#123", expected: `\#123`},
		"inner hash":    {input: "a#1", expected: "a#1"},
		"specials":      {input: `a+b"c\d<e>f;g`, expected: `a\+b\"c\\d\<e\>f\;g`},
		"empty":         {input: "", expected: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscapeDNValue(tt.input))
		})
	}
}

func TestDecodeSID(t *testing.T) {
	tests := map[string]struct {
		raw      string
		expected string
	}{
		"textual":        {raw: "S-1-5-21-1-2-3-1001", expected: "S-1-5-21-1-2-3-1001"},
		"lower case":     {raw: "s-1-5-18", expected: "S-1-5-18"},
		// S-1-5-21-1-2-3-1001 in binary form
		"hex":            {raw: "010500000000000515000000010000000200000003000000e9030000", expected: "S-1-5-21-1-2-3-1001"},
		"base64":         {raw: "AQUAAAAAAAUVAAAAAQAAAAIAAAADAAAA6QMAAA==", expected: "S-1-5-21-1-2-3-1001"},
		"truncated":      {raw: "AQUAAAAAAAU=", expected: ""},
		"not a sid":      {raw: "hello world", expected: ""},
		"empty":          {raw: "", expected: ""},
		"bad sid string": {raw: "S-1-x", expected: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeSID(tt.raw))
		})
	}
}

func TestDomainSID(t *testing.T) {
	domain, ok := DomainSID("S-1-5-21-1-2-3-1001")
	assert.True(t, ok)
	assert.Equal(t, "S-1-5-21-1-2-3", domain)

	_, ok = DomainSID("S-1-5")
	assert.False(t, ok)
}

func TestNormalizeGUID(t *testing.T) {
	const expected = "12345678-9abc-def0-1234-56789abcdef0"

	tests := map[string]struct {
		raw string
		ok  bool
	}{
		"hyphenated": {raw: "12345678-9ABC-DEF0-1234-56789ABCDEF0", ok: true},
		"compact":    {raw: "123456789abcdef0123456789abcdef0", ok: true},
		"braced":     {raw: "{12345678-9abc-def0-1234-56789abcdef0}", ok: true},
		// Mixed-endian directory bytes 78 56 34 12 bc 9a f0 de 12 34 56 78 9a bc de f0
		"base64 binary": {raw: "eFY0Erya8N4SNFZ4mrze8A==", ok: true},
		"garbage":       {raw: "not-a-guid"},
		"empty":         {raw: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := NormalizeGUID(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, expected, got)
			}
		})
	}
}

func TestGUIDBytes_RoundTrip(t *testing.T) {
	id, ok := NormalizeGUID("12345678-9abc-def0-1234-56789abcdef0")
	assert.True(t, ok)

	b := GUIDToBytes(GUIDFromBytes(GUIDToBytes(uuid.MustParse(id))))
	assert.Equal(t, id, GUIDFromBytes(b).String())
	assert.Equal(t, []byte{0x78, 0x56, 0x34, 0x12}, b[:4])
}

func TestNameID_Stable(t *testing.T) {
	a := NameID(UserNamespace, "jdoe")
	b := NameID(UserNamespace, " JDOE ")
	c := NameID(GroupNamespace, "jdoe")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
