package directory

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/bwmarrin/go-objectsid"
)

// minSIDBytes is the size of a SID with revision, authority and no sub-authorities.
const minSIDBytes = 8

// DecodeSID returns the textual S-1-... form of an objectSid value. Dumps carry
// the SID either as text already, as hex, or as base64 of the binary form.
// Values that cannot be decoded yield "".
func DecodeSID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if IsSIDString(raw) {
		return strings.ToUpper(raw[:1]) + raw[1:]
	}

	if b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x")); err == nil {
		return decodeBinarySID(b)
	}

	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decodeBinarySID(b)
	}

	return ""
}

func decodeBinarySID(b []byte) string {
	// Byte 1 holds the sub-authority count; each one takes four bytes.
	if len(b) < minSIDBytes || b[0] != 1 || len(b) != minSIDBytes+int(b[1])*4 {
		return ""
	}
	return objectsid.Decode(b).String()
}

// IsSIDString reports whether s looks like a textual SID.
func IsSIDString(s string) bool {
	if len(s) < 5 || !strings.EqualFold(s[:2], "S-") {
		return false
	}

	for _, part := range strings.Split(s[2:], "-") {
		if part == "" {
			return false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// DomainSID strips the relative identifier from an account SID.
func DomainSID(sid string) (string, bool) {
	if !IsSIDString(sid) {
		return "", false
	}

	if strings.Count(sid, "-") < 4 {
		return "", false
	}
	return sid[:strings.LastIndex(sid, "-")], true
}
