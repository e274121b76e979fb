package directory

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// DNComponent is one attribute=value pair of a distinguished name.
type DNComponent struct {
	Type  string
	Value string
}

// SplitDN breaks a DN into its components, outermost last. RFC 4514 parsing is
// tried first; values the parser rejects fall back to splitting on commas and
// then on the first "=" of each component.
func SplitDN(dn string) []DNComponent {
	dn = strings.TrimSpace(dn)
	if dn == "" {
		return nil
	}

	if parsed, err := ldap.ParseDN(dn); err == nil {
		var components []DNComponent
		for _, rdn := range parsed.RDNs {
			for _, attr := range rdn.Attributes {
				components = append(components, DNComponent{
					Type:  strings.TrimSpace(attr.Type),
					Value: strings.TrimSpace(attr.Value),
				})
			}
		}
		return components
	}

	var components []DNComponent
	for _, part := range strings.Split(dn, ",") {
		attrType, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		components = append(components, DNComponent{
			Type:  strings.TrimSpace(attrType),
			Value: strings.TrimSpace(value),
		})
	}
	return components
}

// ExtractRDNValue returns the value of the first component of the given type.
func ExtractRDNValue(dn, attrType string) (string, bool) {
	for _, c := range SplitDN(dn) {
		if strings.EqualFold(c.Type, attrType) {
			return c.Value, true
		}
	}
	return "", false
}

// ExtractCN returns the first CN component of a DN.
//
//	ExtractCN("CN=John Doe,OU=Users,DC=example,DC=com") // "John Doe", true
func ExtractCN(dn string) (string, bool) {
	return ExtractRDNValue(dn, "CN")
}

// DisplayNameFromDN returns the CN of a DN, or the DN itself when it has none.
func DisplayNameFromDN(dn string) string {
	if cn, ok := ExtractCN(dn); ok && cn != "" {
		return cn
	}
	return dn
}

// ParentDN removes the first RDN. A DN with a single RDN has no parent.
func ParentDN(dn string) (string, bool) {
	parsed, err := ldap.ParseDN(strings.TrimSpace(dn))
	if err != nil || len(parsed.RDNs) <= 1 {
		return "", false
	}

	return joinRDNs(parsed.RDNs[1:]), true
}

// joinRDNs renders parsed RDNs with upper-case attribute types and escaped values.
func joinRDNs(rdns []*ldap.RelativeDN) string {
	rendered := make([]string, 0, len(rdns))
	for _, rdn := range rdns {
		attrs := make([]string, 0, len(rdn.Attributes))
		for _, attr := range rdn.Attributes {
			attrs = append(attrs, strings.ToUpper(attr.Type)+"="+EscapeDNValue(attr.Value))
		}
		rendered = append(rendered, strings.Join(attrs, "+"))
	}
	return strings.Join(rendered, ",")
}

// EscapeDNValue escapes a DN attribute value according to RFC 4514.
//
//	EscapeDNValue("Doe, John") // "Doe\, John"
func EscapeDNValue(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 8)

	for i, r := range value {
		switch {
		case strings.ContainsRune(",+\"\\<>;", r):
			b.WriteRune('\\')
			b.WriteRune(r)
		case r == '#' && i == 0, r == ' ' && (i == 0 || i == len(value)-1):
			b.WriteRune('\\')
			b.WriteRune(r)
		case r == 0:
			b.WriteString("\\00")
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// OUPath returns the OU names of a DN ordered from the domain root downwards.
//
//	OUPath("CN=jdoe,OU=Staff,OU=Paris,DC=example,DC=local") // ["Paris", "Staff"]
func OUPath(dn string) []string {
	var path []string
	for _, c := range SplitDN(dn) {
		if strings.EqualFold(c.Type, "OU") && c.Value != "" {
			path = append([]string{c.Value}, path...)
		}
	}
	return path
}

// DomainDN returns the trailing DC components of a DN, e.g. "DC=example,DC=local".
func DomainDN(dn string) string {
	var parts []string
	for _, c := range SplitDN(dn) {
		if strings.EqualFold(c.Type, "DC") {
			parts = append(parts, "DC="+c.Value)
		}
	}
	return strings.Join(parts, ",")
}

// DomainToDN converts a DNS domain name into its DC-based distinguished name.
func DomainToDN(domain string) string {
	domain = strings.Trim(strings.TrimSpace(domain), ".")
	if domain == "" {
		return ""
	}

	labels := strings.Split(domain, ".")
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		if label != "" {
			parts = append(parts, "DC="+label)
		}
	}
	return strings.Join(parts, ",")
}

// ValidateDN reports whether dn is a syntactically valid distinguished name.
func ValidateDN(dn string) error {
	_, err := ldap.ParseDN(dn)
	return err
}
