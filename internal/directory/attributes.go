package directory

import (
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
)

// NativePrefix marks attributes that the directory tool passes through verbatim
// from the underlying directory schema.
const NativePrefix = "dsAttrTypeNative:"

// StandardPrefix marks the tool's own attribute names in structured output;
// it is stripped so both output modes share one key space.
const StandardPrefix = "dsAttrTypeStandard:"

// Attributes maps an attribute name to its ordered, non-empty list of values.
type Attributes map[string][]string

// ParseResult is the outcome of a best-effort text parse.
type ParseResult struct {
	Attributes Attributes
	Skipped    int // Lines that could not be attributed to any key
}

// ParseDictionary normalizes a generic property dictionary.
// Each value may be a single string or a list; non-string entries are dropped.
// Binary data values (SIDs, GUIDs) are kept as standard base64 text.
func ParseDictionary(dict map[string]any) Attributes {
	attrs := make(Attributes, len(dict))

	for key, raw := range dict {
		key = strings.TrimPrefix(strings.TrimSpace(key), StandardPrefix)
		if key == "" {
			continue
		}

		var values []string
		switch v := raw.(type) {
		case string:
			values = []string{v}
		case []byte:
			values = []string{base64.StdEncoding.EncodeToString(v)}
		case []string:
			values = append(values, v...)
		case []any:
			for _, item := range v {
				switch s := item.(type) {
				case string:
					values = append(values, s)
				case []byte:
					values = append(values, base64.StdEncoding.EncodeToString(s))
				}
			}
		}

		values = slices.DeleteFunc(values, func(v string) bool { return strings.TrimSpace(v) == "" })
		if len(values) > 0 {
			attrs[key] = values
		}
	}

	return attrs
}

// ParseText parses indented colon-delimited text as printed by the directory tool.
//
//	RecordName: jdoe
//	dsAttrTypeNative:memberOf:
//	 CN=Staff,OU=Groups,DC=example,DC=local
//	 CN=VPN,OU=Groups,DC=example,DC=local
//
// Indented lines continue the current key and are appended as separate values,
// unless they name a prefixed attribute. Malformed input yields an empty mapping.
func ParseText(text string) ParseResult {
	result := ParseResult{Attributes: Attributes{}}

	var currentKey string
	var currentValues []string

	commit := func() {
		if currentKey != "" && len(currentValues) > 0 {
			result.Attributes[currentKey] = append(result.Attributes[currentKey], currentValues...)
		}
		currentKey = ""
		currentValues = nil
	}

	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		indented := line[0] == ' ' || line[0] == '\t'

		if key, value, ok := splitKeyLine(trimmed, indented); ok {
			commit()
			currentKey = key
			if value != "" {
				currentValues = append(currentValues, value)
			}
			continue
		}

		if indented && currentKey != "" {
			currentValues = append(currentValues, trimmed)
			continue
		}

		result.Skipped++
	}
	commit()

	return result
}

// splitKeyLine recognizes "key: value" and "key:" lines. Native attribute names
// contain a colon themselves, so the separator is the first colon followed by a
// space. Indented lines are keys only when they carry a tool prefix. Unindented
// lines fall back to splitting at the first colon.
func splitKeyLine(trimmed string, indented bool) (string, string, bool) {
	if indented && !strings.HasPrefix(trimmed, NativePrefix) && !strings.HasPrefix(trimmed, StandardPrefix) {
		return "", "", false
	}

	if idx := strings.Index(trimmed, ": "); idx > 0 && isAttributeToken(trimmed[:idx]) {
		return trimmed[:idx], strings.TrimSpace(trimmed[idx+2:]), true
	}

	if strings.HasSuffix(trimmed, ":") && len(trimmed) > 1 && isAttributeToken(trimmed[:len(trimmed)-1]) {
		return trimmed[:len(trimmed)-1], "", true
	}

	if indented {
		return "", "", false
	}

	if idx := strings.Index(trimmed, ":"); idx > 0 {
		key := strings.TrimSpace(trimmed[:idx])
		if key == "" {
			return "", "", false
		}
		return key, strings.TrimSpace(trimmed[idx+1:]), true
	}

	return "", "", false
}

func isAttributeToken(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t")
}

// First returns the first value of the first key that has a non-empty value.
// Keys are tried in order, so callers list the canonical attribute first.
func (a Attributes) First(keys ...string) string {
	for _, key := range keys {
		for _, v := range a[key] {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// Values returns all values of the first key present.
func (a Attributes) Values(keys ...string) []string {
	for _, key := range keys {
		if values := a[key]; len(values) > 0 {
			out := make([]string, 0, len(values))
			for _, v := range values {
				if v = strings.TrimSpace(v); v != "" {
					out = append(out, v)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// Has reports whether the attribute is present.
func (a Attributes) Has(key string) bool {
	return len(a[key]) > 0
}

// Native returns the lookup keys for an LDAP attribute name: the native
// pass-through form first, then the bare name.
func Native(name string) []string {
	return []string{NativePrefix + name, name}
}

// String renders the attribute map for debug logging.
func (a Attributes) String() string {
	return fmt.Sprintf("Attributes(%d keys)", len(a))
}
