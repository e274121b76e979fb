package directory

import (
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

// Namespaces for name-derived identifiers. Records without an objectGUID get
// an id that is stable across loads of the same directory.
var (
	UserNamespace      = uuid.MustParse("6f1c3b52-2a0e-4d6b-9a57-0d1e5f3c2b01")
	GroupNamespace     = uuid.MustParse("6f1c3b52-2a0e-4d6b-9a57-0d1e5f3c2b02")
	ComputerNamespace  = uuid.MustParse("6f1c3b52-2a0e-4d6b-9a57-0d1e5f3c2b03")
	ContainerNamespace = uuid.MustParse("6f1c3b52-2a0e-4d6b-9a57-0d1e5f3c2b04")
)

// NormalizeGUID returns the lower-case hyphenated form of an objectGUID value.
// Textual GUIDs (hyphenated, compact or braced) are accepted as is; base64 of
// the sixteen-byte directory encoding is converted from its mixed-endian layout.
func NormalizeGUID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if id, err := uuid.Parse(raw); err == nil {
		return id.String(), true
	}

	if b, err := base64.StdEncoding.DecodeString(raw); err == nil && len(b) == 16 {
		return GUIDFromBytes(b).String(), true
	}

	return "", false
}

// GUIDFromBytes converts the directory's mixed-endian GUID encoding: the first
// three fields are little-endian, the last eight bytes are in order.
func GUIDFromBytes(b []byte) uuid.UUID {
	var id uuid.UUID
	if len(b) != 16 {
		return uuid.Nil
	}

	id[0], id[1], id[2], id[3] = b[3], b[2], b[1], b[0]
	id[4], id[5] = b[5], b[4]
	id[6], id[7] = b[7], b[6]
	copy(id[8:], b[8:])

	return id
}

// GUIDToBytes is the inverse of GUIDFromBytes.
func GUIDToBytes(id uuid.UUID) []byte {
	b := make([]byte, 16)

	b[0], b[1], b[2], b[3] = id[3], id[2], id[1], id[0]
	b[4], b[5] = id[5], id[4]
	b[6], b[7] = id[7], id[6]
	copy(b[8:], id[8:])

	return b
}

// NameID derives a stable identifier from a namespace and a case-insensitive name.
func NameID(namespace uuid.UUID, name string) string {
	return uuid.NewSHA1(namespace, []byte(strings.ToLower(strings.TrimSpace(name)))).String()
}

// entityID prefers the objectGUID attribute and falls back to a name-derived id.
func entityID(attrs Attributes, namespace uuid.UUID, name string) string {
	for _, raw := range attrs.Values(Native("objectGUID")...) {
		if id, ok := NormalizeGUID(raw); ok {
			return id
		}
	}

	if generated := attrs.First("GeneratedUID"); generated != "" {
		if id, ok := NormalizeGUID(generated); ok {
			return id
		}
	}

	return NameID(namespace, name)
}
