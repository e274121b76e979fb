package provider_test

import (
	"slices"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/function"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/providerserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	this "github.com/Jfmaigne/DSAMAC/internal/provider"
)

func TestProviderMetadata(t *testing.T) {
	p := this.New("test")()

	resp := &provider.MetadataResponse{}
	p.Metadata(t.Context(), provider.MetadataRequest{}, resp)

	assert.Equal(t, "dsamac", resp.TypeName)
	assert.Equal(t, "test", resp.Version)
}

func TestProviderSchema(t *testing.T) {
	p := this.New("test")()

	resp := &provider.SchemaResponse{}
	p.Schema(t.Context(), provider.SchemaRequest{}, resp)
	require.False(t, resp.Diagnostics.HasError(), "schema diagnostics: %v", resp.Diagnostics)

	for _, name := range []string{
		"config_file", "backend",
		"directory_tool_path", "directory_node", "query_timeout", "output_format",
		"network_server", "network_domain", "network_username", "network_password",
	} {
		attr, ok := resp.Schema.Attributes[name]
		if assert.True(t, ok, "attribute %s missing", name) {
			assert.True(t, attr.IsOptional(), "attribute %s should be optional", name)
		}
	}

	assert.True(t, resp.Schema.Attributes["network_password"].IsSensitive())
}

func TestProviderResources(t *testing.T) {
	p := this.New("test")()

	assert.Empty(t, p.Resources(t.Context()), "the provider is read-only")
}

func TestProviderDataSources(t *testing.T) {
	p := this.New("test")()

	var names []string
	for _, factory := range p.DataSources(t.Context()) {
		resp := &datasource.MetadataResponse{}
		factory().Metadata(t.Context(), datasource.MetadataRequest{ProviderTypeName: "dsamac"}, resp)
		names = append(names, resp.TypeName)
	}

	slices.Sort(names)
	assert.Equal(t, []string{
		"dsamac_computer",
		"dsamac_containers",
		"dsamac_directory",
		"dsamac_group",
		"dsamac_objects",
		"dsamac_search",
		"dsamac_user",
	}, names)
}

func TestProviderFunctions(t *testing.T) {
	p, ok := this.New("test")().(provider.ProviderWithFunctions)
	require.True(t, ok)

	var names []string
	for _, factory := range p.Functions(t.Context()) {
		resp := &function.MetadataResponse{}
		factory().Metadata(t.Context(), function.MetadataRequest{}, resp)
		names = append(names, resp.Name)
	}

	assert.ElementsMatch(t, []string{"decode_account_control", "filetime_to_rfc3339"}, names)
}

func TestProviderConfigValidators(t *testing.T) {
	p, ok := this.New("test")().(provider.ProviderWithConfigValidators)
	require.True(t, ok)

	assert.Len(t, p.ConfigValidators(t.Context()), 2)
}

func TestProviderServer(t *testing.T) {
	server, err := providerserver.NewProtocol6WithError(this.New("test")())()
	require.NoError(t, err)
	assert.NotNil(t, server)
}
