package validators

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	"github.com/Jfmaigne/DSAMAC/internal/connector"
)

var _ validator.String = serverURLValidator{}

// serverURLValidator checks a directory server address: a bare host, or an
// ldap:// or ldaps:// URL.
type serverURLValidator struct{}

func (v serverURLValidator) Description(_ context.Context) string {
	return "value must be a host name or an ldap:// or ldaps:// URL"
}

func (v serverURLValidator) MarkdownDescription(_ context.Context) string {
	return "value must be a host name or an `ldap://` or `ldaps://` URL"
}

func (v serverURLValidator) ValidateString(_ context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	if req.ConfigValue.IsNull() || req.ConfigValue.IsUnknown() {
		return
	}

	value := req.ConfigValue.ValueString()
	if _, err := connector.ParseServerURL(value); err != nil {
		resp.Diagnostics.AddAttributeError(req.Path, "Invalid Directory Server",
			fmt.Sprintf("The value %q is not a valid directory server address: %s", value, err))
	}
}

// IsServerURL returns a validator for directory server addresses.
// Null and unknown values pass.
func IsServerURL() validator.String {
	return serverURLValidator{}
}
