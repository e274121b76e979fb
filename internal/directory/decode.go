package directory

import (
	"strconv"
	"strings"
	"time"
)

// User Account Control flags.
const (
	UACAccountDisabled         int32 = 0x00000002 // Account is disabled
	UACPasswordNotRequired     int32 = 0x00000020 // No password required
	UACPasswordCantChange      int32 = 0x00000040 // User cannot change password
	UACNormalAccount           int32 = 0x00000200 // Normal user account
	UACWorkstationTrustAccount int32 = 0x00001000 // Workstation trust account
	UACServerTrustAccount      int32 = 0x00002000 // Server trust account (domain controller)
	UACPasswordNeverExpires    int32 = 0x00010000 // Password never expires
	UACSmartCardRequired       int32 = 0x00040000 // Smart card required for logon
	UACTrustedForDelegation    int32 = 0x00080000 // Account trusted for delegation
	UACPasswordExpired         int32 = 0x00800000 // Password expired
)

// AccountControl is a raw userAccountControl value. Present is false when the
// attribute was missing or unparsable, in which case every derived flag takes
// its safe default.
type AccountControl struct {
	Value   int32 `json:"value"`
	Present bool  `json:"present"`
}

// ParseAccountControl decodes a userAccountControl attribute value.
func ParseAccountControl(raw string) AccountControl {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return AccountControl{}
	}

	// Values above 0x7FFFFFFF occasionally appear unsigned in dumps.
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < -1<<31 || v > 1<<32-1 {
		return AccountControl{}
	}

	return AccountControl{Value: int32(uint32(v)), Present: true}
}

// Has reports whether the given flag is set. Absent values have no flags set.
func (ac AccountControl) Has(flag int32) bool {
	return ac.Present && ac.Value&flag != 0
}

// Enabled reports whether the account is enabled. Absence never disables an account.
func (ac AccountControl) Enabled() bool {
	return !ac.Has(UACAccountDisabled)
}

// GroupCategory is the security/distribution classification of a group.
type GroupCategory string

const (
	GroupCategorySecurity     GroupCategory = "security"
	GroupCategoryDistribution GroupCategory = "distribution"
)

// GroupScope is the replication scope of a group.
type GroupScope string

const (
	GroupScopeDomainLocal GroupScope = "domain_local"
	GroupScopeGlobal      GroupScope = "global"
	GroupScopeUniversal   GroupScope = "universal"
	GroupScopeUnknown     GroupScope = "unknown"
)

const groupTypeSecurityFlag uint32 = 0x80000000

// GroupType is a raw groupType value.
type GroupType struct {
	Value   int32 `json:"value"`
	Present bool  `json:"present"`
}

// ParseGroupType decodes a groupType attribute value, accepting both the signed
// and the unsigned rendering of the same 32-bit integer.
func ParseGroupType(raw string) GroupType {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return GroupType{}
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < -1<<31 || v > 1<<32-1 {
		return GroupType{}
	}

	return GroupType{Value: int32(uint32(v)), Present: true}
}

// Category returns security when the high bit is set (a negative signed value),
// distribution otherwise.
func (gt GroupType) Category() GroupCategory {
	if gt.Present && (gt.Value < 0 || uint32(gt.Value)&groupTypeSecurityFlag != 0) {
		return GroupCategorySecurity
	}
	return GroupCategoryDistribution
}

// Scope maps the low nibble of the value.
func (gt GroupType) Scope() GroupScope {
	if !gt.Present {
		return GroupScopeUnknown
	}

	switch gt.Value & 0xF {
	case 1, 4:
		return GroupScopeGlobal
	case 2:
		return GroupScopeDomainLocal
	case 8:
		return GroupScopeUniversal
	default:
		return GroupScopeUnknown
	}
}

// ParseLockout reports whether a lockoutTime value marks the account as locked.
// Lock state is presence-based: any parseable non-zero value is locked.
func ParseLockout(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return false
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	return err == nil && v != 0
}

const (
	fileTimeTicksPerSecond = 10_000_000
	fileTimeEpochOffset    = 11644473600 // Seconds between 1601-01-01 and 1970-01-01
)

var (
	fileTimeLowerBound = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	fileTimeUpperBound = time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// ParseFileTime decodes a count of 100-nanosecond intervals since 1601-01-01.
// Values <= 0, unparsable values and results outside [1970, 2100) are absent;
// the range check keeps sentinels such as "never expires" out of the result.
func ParseFileTime(raw string) *time.Time {
	ticks, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || ticks <= 0 {
		return nil
	}

	seconds := ticks/fileTimeTicksPerSecond - fileTimeEpochOffset
	nanos := (ticks % fileTimeTicksPerSecond) * 100

	t := time.Unix(seconds, nanos).UTC()
	if t.Before(fileTimeLowerBound) || !t.Before(fileTimeUpperBound) {
		return nil
	}

	return &t
}

// EncodeFileTime is the inverse of ParseFileTime.
func EncodeFileTime(t time.Time) string {
	t = t.UTC()
	ticks := (t.Unix()+fileTimeEpochOffset)*fileTimeTicksPerSecond + int64(t.Nanosecond())/100
	return strconv.FormatInt(ticks, 10)
}

// Generalized time layouts, tried in order. Go accepts a fractional second
// after the seconds field even when the layout does not name one.
var generalizedTimeLayouts = []string{
	"20060102150405Z0700",
	"20060102150405Z07",
	"20060102150405.0Z",
}

const generalizedTimeBase = "20060102150405"

// ParseGeneralizedTime decodes YYYYMMDDHHMMSS[.f][Z|±hhmm]. The suffix is
// tried first; on failure the first fourteen characters are parsed as UTC.
func ParseGeneralizedTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(generalizedTimeBase) {
		return nil
	}

	for _, layout := range generalizedTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}

	t, err := time.ParseInLocation(generalizedTimeBase, raw[:len(generalizedTimeBase)], time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// FormatGeneralizedTime renders t in the canonical directory form.
func FormatGeneralizedTime(t time.Time) string {
	return t.UTC().Format("20060102150405") + ".0Z"
}

// ParseCounter decodes a non-negative integer counter.
func ParseCounter(raw string) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// FormatTimestamp renders an optional timestamp as RFC 3339, or "" when absent.
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// FormatCounter renders an optional counter, or "" when absent.
func FormatCounter(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
