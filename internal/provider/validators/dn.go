package validators

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	"github.com/Jfmaigne/DSAMAC/internal/directory"
)

var _ validator.String = dnValidator{}

// dnValidator checks distinguished name syntax.
type dnValidator struct{}

func (v dnValidator) Description(_ context.Context) string {
	return "value must be a valid distinguished name"
}

func (v dnValidator) MarkdownDescription(ctx context.Context) string {
	return v.Description(ctx)
}

func (v dnValidator) ValidateString(_ context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	if req.ConfigValue.IsNull() || req.ConfigValue.IsUnknown() {
		return
	}

	value := req.ConfigValue.ValueString()
	if value == "" {
		resp.Diagnostics.AddAttributeError(req.Path, "Invalid Distinguished Name",
			"The distinguished name cannot be empty.")
		return
	}

	if err := directory.ValidateDN(value); err != nil {
		resp.Diagnostics.AddAttributeError(req.Path, "Invalid Distinguished Name",
			fmt.Sprintf("The value %q is not a valid distinguished name: %s", value, err))
	}
}

// IsValidDN returns a validator for distinguished name attributes.
// Null and unknown values pass.
func IsValidDN() validator.String {
	return dnValidator{}
}
