package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/Jfmaigne/DSAMAC/internal/directory"
	"github.com/Jfmaigne/DSAMAC/internal/provider/helpers"
	"github.com/Jfmaigne/DSAMAC/internal/service"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &ObjectsDataSource{}
var _ datasource.DataSourceWithConfigure = &ObjectsDataSource{}

func NewObjectsDataSource() datasource.DataSource {
	return &ObjectsDataSource{}
}

// ObjectsDataSource lists the users, groups and computers of one container.
type ObjectsDataSource struct {
	service *service.Service
}

// ObjectsDataSourceModel describes the data source data model.
type ObjectsDataSourceModel struct {
	ID          types.String `tfsdk:"id"`
	ContainerID types.String `tfsdk:"container_id"`
	Users       types.List   `tfsdk:"users"`
	Groups      types.List   `tfsdk:"groups"`
	Computers   types.List   `tfsdk:"computers"`
	ObjectCount types.Int64  `tfsdk:"object_count"`
}

var userSummaryAttrTypes = map[string]attr.Type{
	"id":                 types.StringType,
	"sam_account_name":   types.StringType,
	"display_name":       types.StringType,
	"distinguished_name": types.StringType,
	"email_address":      types.StringType,
	"enabled":            types.BoolType,
	"locked_out":         types.BoolType,
}

var groupSummaryAttrTypes = map[string]attr.Type{
	"id":                 types.StringType,
	"name":               types.StringType,
	"sam_account_name":   types.StringType,
	"distinguished_name": types.StringType,
	"category":           types.StringType,
	"scope":              types.StringType,
	"member_count":       types.Int64Type,
}

var computerSummaryAttrTypes = map[string]attr.Type{
	"id":                 types.StringType,
	"name":               types.StringType,
	"dns_host_name":      types.StringType,
	"distinguished_name": types.StringType,
	"operating_system":   types.StringType,
	"role":               types.StringType,
	"enabled":            types.BoolType,
}

func (d *ObjectsDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_objects"
}

func (d *ObjectsDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Lists the users, groups and computers directly inside one container. " +
			"Objects of child containers are not included.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				MarkdownDescription: "Same as `container_id`.",
				Computed:            true,
			},
			"container_id": schema.StringAttribute{
				MarkdownDescription: "Id of the container to list, as returned by `dsamac_containers`.",
				Required:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"users": schema.ListNestedAttribute{
				MarkdownDescription: "Users of the container.",
				Computed:            true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"id":                 computedString("Stable user id."),
						"sam_account_name":   computedString("Logon name."),
						"display_name":       computedString("Display name."),
						"distinguished_name": computedString("Distinguished name."),
						"email_address":      computedString("Primary email address."),
						"enabled":            computedBool("Whether the account is enabled."),
						"locked_out":         computedBool("Whether the account is locked out."),
					},
				},
			},
			"groups": schema.ListNestedAttribute{
				MarkdownDescription: "Groups of the container.",
				Computed:            true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"id":                 computedString("Stable group id."),
						"name":               computedString("Group name."),
						"sam_account_name":   computedString("Pre-Windows 2000 name."),
						"distinguished_name": computedString("Distinguished name."),
						"category":           computedString("`security` or `distribution`."),
						"scope":              computedString("`domain_local`, `global`, `universal` or `unknown`."),
						"member_count": schema.Int64Attribute{
							MarkdownDescription: "Number of direct members.",
							Computed:            true,
						},
					},
				},
			},
			"computers": schema.ListNestedAttribute{
				MarkdownDescription: "Computers of the container.",
				Computed:            true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"id":                 computedString("Stable computer id."),
						"name":               computedString("Computer name."),
						"dns_host_name":      computedString("DNS host name."),
						"distinguished_name": computedString("Distinguished name."),
						"operating_system":   computedString("Operating system name."),
						"role":               computedString("`workstation`, `server`, `domain_controller` or `unknown`."),
						"enabled":            computedBool("Whether the account is enabled."),
					},
				},
			},
			"object_count": schema.Int64Attribute{
				MarkdownDescription: "Total number of objects in the container.",
				Computed:            true,
			},
		},
	}
}

func (d *ObjectsDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.service = serviceFromProviderData(req.ProviderData, &resp.Diagnostics)
}

func (d *ObjectsDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data ObjectsDataSourceModel

	ctx = initializeLogging(ctx)
	start := time.Now()

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if err := loadError(d.service); err != nil {
		logDataSourceRead(ctx, "objects", start, nil, err)
		resp.Diagnostics.AddError("Directory Not Loaded", err.Error())
		return
	}

	containerID := data.ContainerID.ValueString()
	if directory.Find(d.service.Tree(), containerID) == nil {
		resp.Diagnostics.AddAttributeError(
			path.Root("container_id"),
			"Container Not Found",
			fmt.Sprintf("No container with id %q exists in the loaded directory.", containerID),
		)
		return
	}

	objects := d.service.SelectContainer(containerID)

	data.ID = types.StringValue(containerID)
	data.ObjectCount = types.Int64Value(int64(objects.Len()))
	d.mapObjects(objects, &data, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		return
	}

	logDataSourceRead(ctx, "objects", start, map[string]any{
		"container_id":   containerID,
		"user_count":     len(objects.Users),
		"group_count":    len(objects.Groups),
		"computer_count": len(objects.Computers),
	}, nil)

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (d *ObjectsDataSource) mapObjects(objects *directory.Objects, data *ObjectsDataSourceModel, diags *diag.Diagnostics) {
	users := make([]map[string]attr.Value, len(objects.Users))
	for i, u := range objects.Users {
		users[i] = map[string]attr.Value{
			"id":                 types.StringValue(u.ID),
			"sam_account_name":   types.StringValue(u.SAMAccountName),
			"display_name":       types.StringValue(u.DisplayName),
			"distinguished_name": types.StringValue(u.DistinguishedName),
			"email_address":      types.StringValue(u.EmailAddress),
			"enabled":            types.BoolValue(u.IsEnabled()),
			"locked_out":         types.BoolValue(u.IsLocked()),
		}
	}

	groups := make([]map[string]attr.Value, len(objects.Groups))
	for i, g := range objects.Groups {
		groups[i] = map[string]attr.Value{
			"id":                 types.StringValue(g.ID),
			"name":               types.StringValue(g.Name),
			"sam_account_name":   types.StringValue(g.SAMAccountName),
			"distinguished_name": types.StringValue(g.DistinguishedName),
			"category":           types.StringValue(string(g.Category())),
			"scope":              types.StringValue(string(g.Scope())),
			"member_count":       types.Int64Value(int64(len(g.Members))),
		}
	}

	computers := make([]map[string]attr.Value, len(objects.Computers))
	for i, c := range objects.Computers {
		computers[i] = map[string]attr.Value{
			"id":                 types.StringValue(c.ID),
			"name":               types.StringValue(c.Name),
			"dns_host_name":      types.StringValue(c.DNSHostName),
			"distinguished_name": types.StringValue(c.DistinguishedName),
			"operating_system":   types.StringValue(c.OperatingSystem),
			"role":               types.StringValue(string(c.Role())),
			"enabled":            types.BoolValue(c.IsEnabled()),
		}
	}

	var listDiags diag.Diagnostics
	data.Users, listDiags = helpers.ObjectList(userSummaryAttrTypes, users)
	diags.Append(listDiags...)
	data.Groups, listDiags = helpers.ObjectList(groupSummaryAttrTypes, groups)
	diags.Append(listDiags...)
	data.Computers, listDiags = helpers.ObjectList(computerSummaryAttrTypes, computers)
	diags.Append(listDiags...)
}

// computedString returns a computed string attribute.
func computedString(description string) schema.StringAttribute {
	return schema.StringAttribute{
		MarkdownDescription: description,
		Computed:            true,
	}
}

// computedBool returns a computed bool attribute.
func computedBool(description string) schema.BoolAttribute {
	return schema.BoolAttribute{
		MarkdownDescription: description,
		Computed:            true,
	}
}
