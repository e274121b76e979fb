// Package validators holds schema validators shared by the provider and its
// data sources.
package validators

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
)

var _ validator.String = oneOfFoldValidator{}

// oneOfFoldValidator accepts a value equal to one of the allowed values once
// surrounding whitespace is trimmed and case is folded.
type oneOfFoldValidator struct {
	allowed []string
}

func (v oneOfFoldValidator) Description(_ context.Context) string {
	return fmt.Sprintf("value must be one of: %s (case-insensitive)", strings.Join(v.allowed, ", "))
}

func (v oneOfFoldValidator) MarkdownDescription(ctx context.Context) string {
	return v.Description(ctx)
}

func (v oneOfFoldValidator) ValidateString(_ context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	if req.ConfigValue.IsNull() || req.ConfigValue.IsUnknown() {
		return
	}

	value := req.ConfigValue.ValueString()
	trimmed := strings.TrimSpace(value)
	if slices.ContainsFunc(v.allowed, func(a string) bool { return strings.EqualFold(a, trimmed) }) {
		return
	}

	resp.Diagnostics.AddAttributeError(
		req.Path,
		"Invalid Attribute Value",
		fmt.Sprintf("The value %q is not valid. Must be one of: %s (case-insensitive)",
			value, strings.Join(v.allowed, ", ")),
	)
}

// CaseInsensitiveOneOf returns a validator which accepts any of values,
// ignoring case and surrounding whitespace. Null and unknown values pass.
func CaseInsensitiveOneOf(values ...string) validator.String {
	return oneOfFoldValidator{allowed: values}
}
