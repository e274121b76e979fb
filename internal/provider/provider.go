package provider

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/terraform-plugin-framework-validators/providervalidator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/function"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/Jfmaigne/DSAMAC/internal/config"
	"github.com/Jfmaigne/DSAMAC/internal/connector"
	"github.com/Jfmaigne/DSAMAC/internal/provider/validators"
	"github.com/Jfmaigne/DSAMAC/internal/service"
)

// Ensure DsamacProvider satisfies various provider interfaces.
var _ provider.Provider = &DsamacProvider{}
var _ provider.ProviderWithFunctions = &DsamacProvider{}
var _ provider.ProviderWithConfigValidators = &DsamacProvider{}

// DsamacProvider defines the provider implementation.
type DsamacProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version string
}

// DsamacProviderModel describes the provider data model.
type DsamacProviderModel struct {
	ConfigFile types.String `tfsdk:"config_file"`
	Backend    types.String `tfsdk:"backend"`

	// Directory tool settings
	DirectoryToolPath types.String `tfsdk:"directory_tool_path"`
	DirectoryNode     types.String `tfsdk:"directory_node"`
	QueryTimeout      types.String `tfsdk:"query_timeout"`
	OutputFormat      types.String `tfsdk:"output_format"`

	// Network settings
	NetworkServer   types.String `tfsdk:"network_server"`
	NetworkDomain   types.String `tfsdk:"network_domain"`
	NetworkUsername types.String `tfsdk:"network_username"`
	NetworkPassword types.String `tfsdk:"network_password"`
}

func (p *DsamacProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "dsamac"
	resp.Version = p.version
}

func (p *DsamacProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "The DSAMAC provider browses a directory read-only: its container hierarchy, users, groups and computers. " +
			"Objects come from a built-in demo directory, from the local directory query tool, or from a network directory server.",
		Attributes: map[string]schema.Attribute{
			"config_file": schema.StringAttribute{
				MarkdownDescription: "Path to a YAML configuration file. Provider attributes override environment variables, " +
					"which override the file. Can be set via the `DSAMAC_CONFIG_FILE` environment variable.",
				Optional: true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"backend": schema.StringAttribute{
				MarkdownDescription: "Directory backend: `demo`, `directory_tool` or `network` (case-insensitive). Defaults to `demo`. " +
					"Can be set via the `DSAMAC_BACKEND` environment variable.",
				Optional: true,
				Validators: []validator.String{
					validators.CaseInsensitiveOneOf(config.Backends...),
				},
			},

			// Directory tool settings
			"directory_tool_path": schema.StringAttribute{
				MarkdownDescription: "Path of the directory query tool. Defaults to `/usr/bin/dscl`. " +
					"Can be set via the `DSAMAC_DIRECTORY_TOOL_PATH` environment variable.",
				Optional: true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"directory_node": schema.StringAttribute{
				MarkdownDescription: "Directory node to query (e.g., `/Active Directory/EXAMPLE/All Domains`). " +
					"Detected from the local tool when unset. Can be set via the `DSAMAC_DIRECTORY_NODE` environment variable.",
				Optional: true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"query_timeout": schema.StringAttribute{
				MarkdownDescription: "Timeout of a single directory tool query as a Go duration (e.g., `30s`). Defaults to `2m`. " +
					"Can be set via the `DSAMAC_QUERY_TIMEOUT` environment variable.",
				Optional: true,
			},
			"output_format": schema.StringAttribute{
				MarkdownDescription: "Record format requested from the directory tool: `plist` or `text`. Defaults to `plist`. " +
					"Can be set via the `DSAMAC_OUTPUT` environment variable.",
				Optional: true,
				Validators: []validator.String{
					validators.CaseInsensitiveOneOf(string(connector.OutputPlist), string(connector.OutputText)),
				},
			},

			// Network settings
			"network_server": schema.StringAttribute{
				MarkdownDescription: "Directory server host or `ldap://`/`ldaps://` URL for the `network` backend. " +
					"Can be set via the `DSAMAC_NETWORK_SERVER` environment variable.",
				Optional: true,
				Validators: []validator.String{
					validators.IsServerURL(),
				},
			},
			"network_domain": schema.StringAttribute{
				MarkdownDescription: "Domain name for the `network` backend (e.g., `example.local`). " +
					"Can be set via the `DSAMAC_NETWORK_DOMAIN` environment variable.",
				Optional: true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"network_username": schema.StringAttribute{
				MarkdownDescription: "Username for the `network` backend. " +
					"Can be set via the `DSAMAC_NETWORK_USERNAME` environment variable.",
				Optional: true,
			},
			"network_password": schema.StringAttribute{
				MarkdownDescription: "Password for the `network` backend. " +
					"Can be set via the `DSAMAC_NETWORK_PASSWORD` environment variable.",
				Optional:  true,
				Sensitive: true,
			},
		},
	}
}

// ConfigValidators implements provider.ProviderWithConfigValidators.
func (p *DsamacProvider) ConfigValidators(ctx context.Context) []provider.ConfigValidator {
	return []provider.ConfigValidator{
		// Network settings only apply to the network backend
		providervalidator.Conflicting(
			path.MatchRoot("network_server"),
			path.MatchRoot("directory_node"),
		),
		providervalidator.Conflicting(
			path.MatchRoot("network_server"),
			path.MatchRoot("directory_tool_path"),
		),
	}
}

func (p *DsamacProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data DsamacProviderModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	ctx = initializeLogging(ctx)
	ctx = p.configureLogging(ctx)

	tflog.Info(ctx, "Configuring DSAMAC provider", map[string]any{
		"version": p.version,
	})

	cfg := p.buildConfig(&data, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		return
	}

	c, err := cfg.NewConnector()
	if err != nil {
		resp.Diagnostics.AddError(
			"Invalid Provider Configuration",
			"The provider configuration could not be used to build a directory backend.\n\n"+
				"Configuration Error: "+err.Error(),
		)
		return
	}

	svc := service.New(c, &cfg.Tree)

	start := time.Now()
	if err := svc.LoadTree(ctx); err != nil {
		switch {
		case connector.IsUnsupported(err):
			// The backend answers no queries; data sources report it on read.
			resp.Diagnostics.AddWarning(
				"Directory Queries Unsupported",
				fmt.Sprintf("The %s backend does not support directory queries. "+
					"Data sources using this provider will fail.\n\nDetail: %s", c.Name(), err),
			)
		case svc.NeedsManualConfiguration():
			resp.Diagnostics.AddError(
				"Manual Configuration Required",
				"The directory domain could not be detected from the local directory tool. "+
					"Set `directory_node`, or use the `network` backend with `network_server` and `network_domain`.\n\n"+
					"Detection Error: "+err.Error(),
			)
			return
		default:
			tflog.Error(ctx, "Failed to load directory", map[string]any{
				"error":       err.Error(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
			resp.Diagnostics.AddError(
				"Unable to Load Directory",
				"The provider could not load the directory container tree.\n\n"+
					"Load Error: "+err.Error(),
			)
			return
		}
	}

	tflog.Info(ctx, "DSAMAC provider configured successfully", map[string]any{
		"backend":     svc.ConnectorName(),
		"state":       svc.State().String(),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	resp.DataSourceData = svc
	resp.ResourceData = svc
}

// configureLogging adds the persistent provider fields.
func (p *DsamacProvider) configureLogging(ctx context.Context) context.Context {
	ctx = tflog.SetField(ctx, "provider", "dsamac")
	ctx = tflog.SetField(ctx, "provider_version", p.version)
	return ctx
}

// buildConfig resolves the configuration: attributes override environment
// variables, which override the configuration file, which overrides defaults.
func (p *DsamacProvider) buildConfig(data *DsamacProviderModel, diags *diag.Diagnostics) *config.Config {
	cfg := config.New()

	if file := stringValue(data.ConfigFile, os.Getenv("DSAMAC_CONFIG_FILE")); file != "" {
		loaded, err := config.Load(file)
		if err != nil {
			diags.AddAttributeError(path.Root("config_file"), "Invalid Configuration File", err.Error())
			return cfg
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		diags.AddError("Invalid Environment Configuration", err.Error())
		return cfg
	}

	cfg.Backend = stringValue(data.Backend, cfg.Backend)

	cfg.DirectoryTool.Executable = stringValue(data.DirectoryToolPath, cfg.DirectoryTool.Executable)
	cfg.DirectoryTool.Node = stringValue(data.DirectoryNode, cfg.DirectoryTool.Node)
	cfg.DirectoryTool.Output = stringValue(data.OutputFormat, cfg.DirectoryTool.Output)
	if raw := stringValue(data.QueryTimeout, ""); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			diags.AddAttributeError(
				path.Root("query_timeout"),
				"Invalid Query Timeout",
				fmt.Sprintf("The value %q is not a positive duration such as `30s` or `2m`.", raw),
			)
			return cfg
		}
		cfg.DirectoryTool.QueryTimeout = timeout
	}

	cfg.Network.Server = stringValue(data.NetworkServer, cfg.Network.Server)
	cfg.Network.Domain = stringValue(data.NetworkDomain, cfg.Network.Domain)
	cfg.Network.Username = stringValue(data.NetworkUsername, cfg.Network.Username)
	cfg.Network.Password = stringValue(data.NetworkPassword, cfg.Network.Password)

	return cfg
}

// stringValue returns the configured attribute value, or fallback when unset.
func stringValue(v types.String, fallback string) string {
	if v.IsNull() || v.IsUnknown() || v.ValueString() == "" {
		return fallback
	}
	return v.ValueString()
}

// Resources returns no resources: the directory is browsed read-only.
func (p *DsamacProvider) Resources(ctx context.Context) []func() resource.Resource {
	return nil
}

func (p *DsamacProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewComputerDataSource,
		NewContainersDataSource,
		NewDirectoryDataSource,
		NewGroupDataSource,
		NewObjectsDataSource,
		NewSearchDataSource,
		NewUserDataSource,
	}
}

func (p *DsamacProvider) Functions(ctx context.Context) []func() function.Function {
	return []func() function.Function{
		NewDecodeAccountControlFunction,
		NewFileTimeToRFC3339Function,
	}
}

func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &DsamacProvider{
			version: version,
		}
	}
}
