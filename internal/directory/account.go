package directory

import (
	"errors"
	"time"
)

// ErrMissingAccountName is returned by the builders when neither the record nor
// the lookup key provides an account name.
var ErrMissingAccountName = errors.New("account name cannot be determined")

// Account holds the security-principal fields shared by users and computers.
// Every derived flag is computed from AccountControl or Lockout on demand.
type Account struct {
	AccountControl AccountControl `json:"userAccountControl"`
	Lockout        string         `json:"lockoutTime,omitempty"` // Raw lockoutTime value

	// Timestamps
	AccountExpires  *time.Time `json:"accountExpires,omitempty"`
	PasswordLastSet *time.Time `json:"passwordLastSet,omitempty"`
	LastLogon       *time.Time `json:"lastLogon,omitempty"`
	BadPasswordTime *time.Time `json:"badPasswordTime,omitempty"`
	WhenCreated     *time.Time `json:"whenCreated,omitempty"`
	WhenChanged     *time.Time `json:"whenChanged,omitempty"`

	// Counters
	LogonCount       *int64 `json:"logonCount,omitempty"`
	BadPasswordCount *int64 `json:"badPwdCount,omitempty"`
}

// IsEnabled reports whether the account is enabled.
func (a Account) IsEnabled() bool {
	return a.AccountControl.Enabled()
}

// IsLocked reports whether the account is locked out.
func (a Account) IsLocked() bool {
	return ParseLockout(a.Lockout)
}

// PasswordNeverExpires reports whether the password is exempt from expiry.
func (a Account) PasswordNeverExpires() bool {
	return a.AccountControl.Has(UACPasswordNeverExpires)
}

// MustChangePassword reports whether the password must be changed at next logon.
func (a Account) MustChangePassword() bool {
	return a.AccountControl.Has(UACPasswordExpired)
}

// CannotChangePassword reports whether the principal is barred from changing its password.
func (a Account) CannotChangePassword() bool {
	return a.AccountControl.Has(UACPasswordCantChange)
}

// TrustedForDelegation reports whether the account is trusted for Kerberos delegation.
func (a Account) TrustedForDelegation() bool {
	return a.AccountControl.Has(UACTrustedForDelegation)
}

// LockoutTime decodes the lockout timestamp, if it is a valid tick value.
func (a Account) LockoutTime() *time.Time {
	return ParseFileTime(a.Lockout)
}

// decodeAccount applies the field decoders to the shared account attributes.
func decodeAccount(attrs Attributes) Account {
	account := Account{
		AccountControl: ParseAccountControl(pick(attrs, "userAccountControl")),
		Lockout:        pick(attrs, "lockoutTime"),

		AccountExpires:  ParseFileTime(pick(attrs, "accountExpires", "SMBAccountExpires")),
		PasswordLastSet: ParseFileTime(pick(attrs, "pwdLastSet", "SMBPasswordLastSet")),
		BadPasswordTime: ParseFileTime(pick(attrs, "badPasswordTime")),
		WhenCreated:     ParseGeneralizedTime(pick(attrs, "whenCreated")),
		WhenChanged:     ParseGeneralizedTime(pick(attrs, "whenChanged")),

		LogonCount:       ParseCounter(pick(attrs, "logonCount")),
		BadPasswordCount: ParseCounter(pick(attrs, "badPwdCount")),
	}

	// lastLogon is per domain controller and lastLogonTimestamp is replicated;
	// the later of the two is the better answer.
	account.LastLogon = latest(
		ParseFileTime(pick(attrs, "lastLogon", "SMBLogonTime")),
		ParseFileTime(pick(attrs, "lastLogonTimestamp")),
	)

	return account
}

// pick returns the first value of an LDAP attribute, looked up in its native
// pass-through form, then bare, then through the given aliases.
func pick(attrs Attributes, ldapName string, aliases ...string) string {
	return attrs.First(append(Native(ldapName), aliases...)...)
}

// pickAll is the multi-valued form of pick.
func pickAll(attrs Attributes, ldapName string, aliases ...string) []string {
	return attrs.Values(append(Native(ldapName), aliases...)...)
}

func latest(times ...*time.Time) *time.Time {
	var out *time.Time
	for _, t := range times {
		if t != nil && (out == nil || t.After(*out)) {
			out = t
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
