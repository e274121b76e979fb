// Package helpers converts directory values into Terraform framework values
// for the data sources and functions.
package helpers

import (
	"time"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
)

// StringList converts values into a list of strings. A nil slice becomes an
// empty list so that state never flips between null and empty.
func StringList(values []string) (types.List, diag.Diagnostics) {
	elements := make([]attr.Value, len(values))
	for i, v := range values {
		elements[i] = types.StringValue(v)
	}
	return types.ListValue(types.StringType, elements)
}

// ObjectList converts rows into a list of objects of the given attribute types.
func ObjectList(attrTypes map[string]attr.Type, rows []map[string]attr.Value) (types.List, diag.Diagnostics) {
	var diags diag.Diagnostics

	objectType := types.ObjectType{AttrTypes: attrTypes}
	elements := make([]attr.Value, 0, len(rows))
	for _, row := range rows {
		obj, objDiags := types.ObjectValue(attrTypes, row)
		diags.Append(objDiags...)
		if objDiags.HasError() {
			continue
		}
		elements = append(elements, obj)
	}
	if diags.HasError() {
		return types.ListNull(objectType), diags
	}

	list, listDiags := types.ListValue(objectType, elements)
	diags.Append(listDiags...)
	return list, diags
}

// Timestamp renders an optional timestamp in RFC 3339, or null when absent.
func Timestamp(t *time.Time) types.String {
	if t == nil {
		return types.StringNull()
	}
	return types.StringValue(t.UTC().Format(time.RFC3339))
}

// Counter returns an optional counter, or null when absent.
func Counter(v *int64) types.Int64 {
	if v == nil {
		return types.Int64Null()
	}
	return types.Int64Value(*v)
}

// ListToStrings extracts the elements of a list of strings. Null and unknown
// elements are skipped.
func ListToStrings(list types.List) []string {
	if list.IsNull() || list.IsUnknown() {
		return nil
	}

	out := make([]string, 0, len(list.Elements()))
	for _, elem := range list.Elements() {
		s, ok := elem.(types.String)
		if !ok || s.IsNull() || s.IsUnknown() {
			continue
		}
		out = append(out, s.ValueString())
	}
	return out
}
