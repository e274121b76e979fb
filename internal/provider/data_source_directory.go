package provider

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/Jfmaigne/DSAMAC/internal/provider/helpers"
	"github.com/Jfmaigne/DSAMAC/internal/service"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &DirectoryDataSource{}
var _ datasource.DataSourceWithConfigure = &DirectoryDataSource{}

func NewDirectoryDataSource() datasource.DataSource {
	return &DirectoryDataSource{}
}

// DirectoryDataSource reports the state of the configured backend and of the
// last load.
type DirectoryDataSource struct {
	service *service.Service
}

// DirectoryDataSourceModel describes the data source data model.
type DirectoryDataSourceModel struct {
	ID                       types.String `tfsdk:"id"`     // Backend name
	Reload                   types.Bool   `tfsdk:"reload"` // Discard the cache and load again before reporting
	Backend                  types.String `tfsdk:"backend"`
	State                    types.String `tfsdk:"state"`
	NeedsManualConfiguration types.Bool   `tfsdk:"needs_manual_configuration"`
	ErrorMessage             types.String `tfsdk:"error_message"`
	LoadedAt                 types.String `tfsdk:"loaded_at"`
	ContainerCount           types.Int64  `tfsdk:"container_count"`
	UserCount                types.Int64  `tfsdk:"user_count"`
	GroupCount               types.Int64  `tfsdk:"group_count"`
	ComputerCount            types.Int64  `tfsdk:"computer_count"`
}

func (d *DirectoryDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_directory"
}

func (d *DirectoryDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Reports the configured directory backend, the state of the last load and the number of loaded objects. " +
			"Unlike the other data sources it succeeds when the last load failed, so the failure can be inspected.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				MarkdownDescription: "Same as `backend`.",
				Computed:            true,
			},
			"reload": schema.BoolAttribute{
				MarkdownDescription: "Discard the cached directory and load it again before reporting. Defaults to `false`.",
				Optional:            true,
			},
			"backend": schema.StringAttribute{
				MarkdownDescription: "Name of the active backend: `demo`, `directory_tool` or `network`.",
				Computed:            true,
			},
			"state": schema.StringAttribute{
				MarkdownDescription: "State of the last load: `empty`, `loading`, `ready` or `failed`.",
				Computed:            true,
			},
			"needs_manual_configuration": schema.BoolAttribute{
				MarkdownDescription: "Whether the backend could not detect the directory domain and needs server settings.",
				Computed:            true,
			},
			"error_message": schema.StringAttribute{
				MarkdownDescription: "Message of the last failed operation. Empty after a successful load.",
				Computed:            true,
			},
			"loaded_at": schema.StringAttribute{
				MarkdownDescription: "Time of the last successful load in RFC 3339 format. Null before the first one.",
				Computed:            true,
			},
			"container_count": schema.Int64Attribute{
				MarkdownDescription: "Number of loaded containers.",
				Computed:            true,
			},
			"user_count": schema.Int64Attribute{
				MarkdownDescription: "Number of loaded users.",
				Computed:            true,
			},
			"group_count": schema.Int64Attribute{
				MarkdownDescription: "Number of loaded groups.",
				Computed:            true,
			},
			"computer_count": schema.Int64Attribute{
				MarkdownDescription: "Number of loaded computers.",
				Computed:            true,
			},
		},
	}
}

func (d *DirectoryDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.service = serviceFromProviderData(req.ProviderData, &resp.Diagnostics)
}

func (d *DirectoryDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data DirectoryDataSourceModel

	ctx = initializeLogging(ctx)
	start := time.Now()

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if d.service == nil {
		err := errors.New("the provider has not been configured")
		logDataSourceRead(ctx, "directory", start, nil, err)
		resp.Diagnostics.AddError("Unconfigured Provider", err.Error())
		return
	}

	if data.Reload.ValueBool() {
		// A failed reload is reported through state and error_message.
		if err := d.service.Reload(ctx); err != nil {
			tflog.SubsystemWarn(ctx, logSubsystem, "Directory reload failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	backend := d.service.ConnectorName()
	data.ID = types.StringValue(backend)
	data.Backend = types.StringValue(backend)
	data.State = types.StringValue(d.service.State().String())
	data.NeedsManualConfiguration = types.BoolValue(d.service.NeedsManualConfiguration())
	data.ErrorMessage = types.StringValue(d.service.ErrorMessage())

	data.LoadedAt = types.StringNull()
	data.ContainerCount = types.Int64Value(0)
	data.UserCount = types.Int64Value(0)
	data.GroupCount = types.Int64Value(0)
	data.ComputerCount = types.Int64Value(0)
	if snap := d.service.Snapshot(); snap != nil {
		data.LoadedAt = helpers.Timestamp(&snap.LoadedAt)
		data.ContainerCount = types.Int64Value(int64(len(snap.Units)))
		data.UserCount = types.Int64Value(int64(len(snap.Objects.Users)))
		data.GroupCount = types.Int64Value(int64(len(snap.Objects.Groups)))
		data.ComputerCount = types.Int64Value(int64(len(snap.Objects.Computers)))
	}

	logDataSourceRead(ctx, "directory", start, map[string]any{
		"backend": backend,
		"state":   data.State.ValueString(),
		"reload":  data.Reload.ValueBool(),
	}, nil)

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}
