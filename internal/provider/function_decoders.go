package provider

import (
	"context"
	"strconv"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/function"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/Jfmaigne/DSAMAC/internal/directory"
	"github.com/Jfmaigne/DSAMAC/internal/provider/helpers"
)

var _ function.Function = &DecodeAccountControlFunction{}
var _ function.Function = &FileTimeToRFC3339Function{}

func NewDecodeAccountControlFunction() function.Function {
	return &DecodeAccountControlFunction{}
}

func NewFileTimeToRFC3339Function() function.Function {
	return &FileTimeToRFC3339Function{}
}

// DecodeAccountControlFunction implements the decode_account_control function.
type DecodeAccountControlFunction struct{}

var accountControlAttrTypes = map[string]attr.Type{
	"enabled":                types.BoolType,
	"password_not_required":  types.BoolType,
	"cannot_change_password": types.BoolType,
	"normal_account":         types.BoolType,
	"workstation_trust":      types.BoolType,
	"server_trust":           types.BoolType,
	"password_never_expires": types.BoolType,
	"smart_card_required":    types.BoolType,
	"trusted_for_delegation": types.BoolType,
	"must_change_password":   types.BoolType,
}

func (f DecodeAccountControlFunction) Metadata(_ context.Context, req function.MetadataRequest, resp *function.MetadataResponse) {
	resp.Name = "decode_account_control"
}

func (f DecodeAccountControlFunction) Definition(_ context.Context, req function.DefinitionRequest, resp *function.DefinitionResponse) {
	resp.Definition = function.Definition{
		Summary:     "Decode a userAccountControl value",
		Description: "Decodes a userAccountControl value into named account flags. Signed and unsigned renderings of the same 32-bit value decode identically.",
		MarkdownDescription: "Decodes a `userAccountControl` value into named account flags. " +
			"Signed and unsigned renderings of the same 32-bit value decode identically.",
		Parameters: []function.Parameter{
			function.Int64Parameter{
				Name:                "value",
				Description:         "The raw userAccountControl value.",
				MarkdownDescription: "The raw `userAccountControl` value.",
			},
		},
		Return: function.ObjectReturn{
			AttributeTypes: accountControlAttrTypes,
		},
	}
}

func (f DecodeAccountControlFunction) Run(ctx context.Context, req function.RunRequest, resp *function.RunResponse) {
	var value int64

	resp.Error = function.ConcatFuncErrors(resp.Error, req.Arguments.Get(ctx, &value))
	if resp.Error != nil {
		return
	}

	if value < -1<<31 || value > 1<<32-1 {
		resp.Error = function.NewArgumentFuncError(0, "value must fit in 32 bits")
		return
	}

	ac := directory.ParseAccountControl(strconv.FormatInt(value, 10))
	result, diags := types.ObjectValue(accountControlAttrTypes, map[string]attr.Value{
		"enabled":                types.BoolValue(ac.Enabled()),
		"password_not_required":  types.BoolValue(ac.Has(directory.UACPasswordNotRequired)),
		"cannot_change_password": types.BoolValue(ac.Has(directory.UACPasswordCantChange)),
		"normal_account":         types.BoolValue(ac.Has(directory.UACNormalAccount)),
		"workstation_trust":      types.BoolValue(ac.Has(directory.UACWorkstationTrustAccount)),
		"server_trust":           types.BoolValue(ac.Has(directory.UACServerTrustAccount)),
		"password_never_expires": types.BoolValue(ac.Has(directory.UACPasswordNeverExpires)),
		"smart_card_required":    types.BoolValue(ac.Has(directory.UACSmartCardRequired)),
		"trusted_for_delegation": types.BoolValue(ac.Has(directory.UACTrustedForDelegation)),
		"must_change_password":   types.BoolValue(ac.Has(directory.UACPasswordExpired)),
	})
	if diags.HasError() {
		resp.Error = function.FuncErrorFromDiags(ctx, diags)
		return
	}

	resp.Error = function.ConcatFuncErrors(resp.Error, resp.Result.Set(ctx, result))
}

// FileTimeToRFC3339Function implements the filetime_to_rfc3339 function.
type FileTimeToRFC3339Function struct{}

func (f FileTimeToRFC3339Function) Metadata(_ context.Context, req function.MetadataRequest, resp *function.MetadataResponse) {
	resp.Name = "filetime_to_rfc3339"
}

func (f FileTimeToRFC3339Function) Definition(_ context.Context, req function.DefinitionRequest, resp *function.DefinitionResponse) {
	resp.Definition = function.Definition{
		Summary:     "Convert a FILETIME value to RFC 3339",
		Description: "Converts a count of 100-nanosecond intervals since 1601-01-01 UTC to an RFC 3339 timestamp. Returns null for zero, unparsable or never-expires values.",
		MarkdownDescription: "Converts a count of 100-nanosecond intervals since 1601-01-01 UTC to an RFC 3339 timestamp.\n\n" +
			"Returns `null` for `0`, unparsable values, and sentinels such as `9223372036854775807` (never expires).",
		Parameters: []function.Parameter{
			function.StringParameter{
				Name:                "value",
				Description:         "The FILETIME value as a decimal string.",
				MarkdownDescription: "The FILETIME value as a decimal string, e.g. `133500000000000000`.",
			},
		},
		Return: function.StringReturn{},
	}
}

func (f FileTimeToRFC3339Function) Run(ctx context.Context, req function.RunRequest, resp *function.RunResponse) {
	var value string

	resp.Error = function.ConcatFuncErrors(resp.Error, req.Arguments.Get(ctx, &value))
	if resp.Error != nil {
		return
	}

	resp.Error = function.ConcatFuncErrors(resp.Error,
		resp.Result.Set(ctx, helpers.Timestamp(directory.ParseFileTime(value))))
}
