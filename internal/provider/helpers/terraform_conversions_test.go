package helpers

import (
	"testing"
	"time"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList(t *testing.T) {
	list, diags := StringList([]string{"Domain Admins", "All Staff"})
	require.False(t, diags.HasError())
	assert.Equal(t, []string{"Domain Admins", "All Staff"}, ListToStrings(list))

	empty, diags := StringList(nil)
	require.False(t, diags.HasError())
	assert.False(t, empty.IsNull())
	assert.Empty(t, empty.Elements())
}

func TestObjectList(t *testing.T) {
	attrTypes := map[string]attr.Type{
		"id":    types.StringType,
		"depth": types.Int64Type,
	}

	list, diags := ObjectList(attrTypes, []map[string]attr.Value{
		{"id": types.StringValue("a"), "depth": types.Int64Value(0)},
		{"id": types.StringValue("b"), "depth": types.Int64Value(1)},
	})
	require.False(t, diags.HasError())
	assert.Len(t, list.Elements(), 2)

	_, diags = ObjectList(attrTypes, []map[string]attr.Value{
		{"id": types.StringValue("a")},
	})
	assert.True(t, diags.HasError(), "missing attributes are rejected")
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2024, time.March, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))

	assert.Equal(t, "2024-03-01T08:30:00Z", Timestamp(&ts).ValueString())
	assert.True(t, Timestamp(nil).IsNull())
}

func TestCounter(t *testing.T) {
	n := int64(42)

	assert.Equal(t, int64(42), Counter(&n).ValueInt64())
	assert.True(t, Counter(nil).IsNull())
}

func TestListToStrings(t *testing.T) {
	list := types.ListValueMust(types.StringType, []attr.Value{
		types.StringValue("x"),
		types.StringNull(),
		types.StringValue("y"),
	})

	assert.Equal(t, []string{"x", "y"}, ListToStrings(list))
	assert.Nil(t, ListToStrings(types.ListNull(types.StringType)))
}
