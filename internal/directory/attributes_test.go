package directory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseText(t *testing.T) {
	tests := map[string]struct {
		input       string
		expected    Attributes
		wantSkipped int
	}{
		"record with indented native attribute": {
			input: "RecordName: jdoe\n dsAttrTypeNative:mail: jdoe@example.local\nuserAccountControl: 512\n",
			expected: Attributes{
				"RecordName":            {"jdoe"},
				"dsAttrTypeNative:mail": {"jdoe@example.local"},
				"userAccountControl":    {"512"},
			},
		},
		"continuation lines become separate values": {
			input: "dsAttrTypeNative:memberOf:\n CN=Staff,OU=Groups,DC=example,DC=local\n CN=VPN Users,OU=Groups,DC=example,DC=local\n",
			expected: Attributes{
				"dsAttrTypeNative:memberOf": {
					"CN=Staff,OU=Groups,DC=example,DC=local",
					"CN=VPN Users,OU=Groups,DC=example,DC=local",
				},
			},
		},
		"first value on key line followed by continuation": {
			input: "RealName: John\n Doe\n",
			expected: Attributes{
				"RealName": {"John", "Doe"},
			},
		},
		"key without values is omitted": {
			input: "Comment:\nRecordName: jdoe\n",
			expected: Attributes{
				"RecordName": {"jdoe"},
			},
		},
		"duplicate keys accumulate": {
			input: "RecordName: jdoe\nRecordName: jdoe@EXAMPLE.LOCAL\n",
			expected: Attributes{
				"RecordName": {"jdoe", "jdoe@EXAMPLE.LOCAL"},
			},
		},
		"unindented value containing colons splits at first colon": {
			input: "NFSHomeDirectory:/home/jdoe\nURL: http://intranet:8080/jdoe\n",
			expected: Attributes{
				"NFSHomeDirectory": {"/home/jdoe"},
				"URL":              {"http://intranet:8080/jdoe"},
			},
		},
		"blank lines and CRLF are tolerated": {
			input: "RecordName: jdoe\r\n\r\n\r\nUniqueID: 1001\r\n",
			expected: Attributes{
				"RecordName": {"jdoe"},
				"UniqueID":   {"1001"},
			},
		},
		"malformed input yields empty mapping": {
			input:       "no colon here\nnor here\n",
			expected:    Attributes{},
			wantSkipped: 2,
		},
		"leading continuation without key is skipped": {
			input: "  orphan value\nRecordName: jdoe\n",
			expected: Attributes{
				"RecordName": {"jdoe"},
			},
			wantSkipped: 1,
		},
		"empty input": {
			input:    "",
			expected: Attributes{},
		},
		"indented line with colon continues the value": {
			input: "RecordName: jdoe\ndsAttrTypeNative:description:\n Note: contractor until March\n",
			expected: Attributes{
				"RecordName":                   {"jdoe"},
				"dsAttrTypeNative:description": {"Note: contractor until March"},
			},
		},
		"indented standard attribute starts a key": {
			input: "RecordName: jdoe\n dsAttrTypeStandard:RealName: John Doe\n",
			expected: Attributes{
				"RecordName":                  {"jdoe"},
				"dsAttrTypeStandard:RealName": {"John Doe"},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result := ParseText(tt.input)
			assert.Equal(t, tt.expected, result.Attributes)
			assert.Equal(t, tt.wantSkipped, result.Skipped)
		})
	}
}

func TestParseText_LongLine(t *testing.T) {
	photo := strings.Repeat("ff", 700*1024)
	input := "RecordName: jdoe\n" +
		"dsAttrTypeNative:jpegPhoto:\n " + photo + "\n" +
		"userAccountControl: 514\n" +
		" dsAttrTypeNative:mail: jdoe@example.local\n"

	result := ParseText(input)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, []string{"jdoe"}, result.Attributes["RecordName"])
	assert.Equal(t, []string{photo}, result.Attributes["dsAttrTypeNative:jpegPhoto"])
	assert.Equal(t, []string{"514"}, result.Attributes["userAccountControl"])
	assert.Equal(t, []string{"jdoe@example.local"}, result.Attributes["dsAttrTypeNative:mail"])

	user, err := BuildUser(result.Attributes, "jdoe", "")
	require.NoError(t, err)
	assert.False(t, user.IsEnabled())
	assert.Equal(t, "jdoe@example.local", user.EmailAddress)
}

func TestParseText_ValuesNeverEmpty(t *testing.T) {
	inputs := []string{
		"a:\nb:\n c\n d\n\ne: \n",
		"x: 1\n\n  \n y: 2\n",
		"::\n: :\n",
	}

	for _, input := range inputs {
		result := ParseText(input)
		for key, values := range result.Attributes {
			assert.NotEmpty(t, key)
			assert.NotEmpty(t, values, "key %q", key)
		}
	}
}

func TestParseDictionary(t *testing.T) {
	dict := map[string]any{
		"RecordName":                  []any{"jdoe", "jdoe@EXAMPLE.LOCAL"},
		"dsAttrTypeNative:mail":       "jdoe@example.local",
		"dsAttrTypeNative:objectSid":  []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x05},
		"dsAttrTypeNative:logonCount": []any{42, "7"},
		"Empty":                       []any{},
		"Numbers":                     []any{1, 2.5, true},
		"Blank":                       "  ",
		"Strings":                     []string{"a", "b"},
		"dsAttrTypeStandard:RealName": []any{"John Doe"},
	}

	attrs := ParseDictionary(dict)

	assert.Equal(t, []string{"jdoe", "jdoe@EXAMPLE.LOCAL"}, attrs["RecordName"])
	assert.Equal(t, []string{"jdoe@example.local"}, attrs["dsAttrTypeNative:mail"])
	assert.Equal(t, []string{"AQAAAAAAAAU="}, attrs["dsAttrTypeNative:objectSid"])
	assert.Equal(t, []string{"7"}, attrs["dsAttrTypeNative:logonCount"])
	assert.Equal(t, []string{"a", "b"}, attrs["Strings"])
	assert.Equal(t, []string{"John Doe"}, attrs["RealName"])
	assert.NotContains(t, attrs, "Empty")
	assert.NotContains(t, attrs, "Numbers")
	assert.NotContains(t, attrs, "Blank")
}

func TestAttributes_Lookup(t *testing.T) {
	attrs := Attributes{
		"dsAttrTypeNative:sAMAccountName": {"jdoe"},
		"RecordName":                      {"john", "john@EXAMPLE.LOCAL"},
		"Blank":                           {" "},
	}

	t.Run("first follows key precedence", func(t *testing.T) {
		assert.Equal(t, "jdoe", attrs.First(append(Native("sAMAccountName"), "RecordName")...))
		assert.Equal(t, "john", attrs.First("RecordName", "dsAttrTypeNative:sAMAccountName"))
	})

	t.Run("first skips blank values", func(t *testing.T) {
		assert.Equal(t, "john", attrs.First("Blank", "RecordName"))
		assert.Empty(t, attrs.First("Missing"))
	})

	t.Run("values returns every value of the first present key", func(t *testing.T) {
		require.Len(t, attrs.Values("Missing", "RecordName"), 2)
		assert.Nil(t, attrs.Values("Blank"))
	})

	t.Run("has", func(t *testing.T) {
		assert.True(t, attrs.Has("RecordName"))
		assert.False(t, attrs.Has("recordname"))
	})
}
