package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/terraform-plugin-framework-validators/datasourcevalidator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/Jfmaigne/DSAMAC/internal/directory"
	"github.com/Jfmaigne/DSAMAC/internal/provider/helpers"
	"github.com/Jfmaigne/DSAMAC/internal/provider/validators"
	"github.com/Jfmaigne/DSAMAC/internal/service"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &GroupDataSource{}
var _ datasource.DataSourceWithConfigure = &GroupDataSource{}
var _ datasource.DataSourceWithConfigValidators = &GroupDataSource{}

func NewGroupDataSource() datasource.DataSource {
	return &GroupDataSource{}
}

// GroupDataSource returns the details of one group.
type GroupDataSource struct {
	service *service.Service
}

// GroupDataSourceModel describes the data source data model.
type GroupDataSourceModel struct {
	// Lookup methods (mutually exclusive)
	ID                types.String `tfsdk:"id"`
	DistinguishedName types.String `tfsdk:"distinguished_name"`

	ObjectSid      types.String `tfsdk:"object_sid"`
	Name           types.String `tfsdk:"name"`
	SAMAccountName types.String `tfsdk:"sam_account_name"`
	Description    types.String `tfsdk:"description"`
	Mail           types.String `tfsdk:"mail"`
	ManagedBy      types.String `tfsdk:"managed_by"`
	ContainerID    types.String `tfsdk:"container_id"`

	// Type
	GroupType       types.Int64  `tfsdk:"group_type"` // Null when absent
	Category        types.String `tfsdk:"category"`
	Scope           types.String `tfsdk:"scope"`
	IsSecurityGroup types.Bool   `tfsdk:"is_security_group"`

	// Membership
	Members       types.List `tfsdk:"members"`
	MemberNames   types.List `tfsdk:"member_names"`
	MemberOf      types.List `tfsdk:"member_of"`
	MemberOfNames types.List `tfsdk:"member_of_names"`

	WhenCreated types.String `tfsdk:"when_created"`
	WhenChanged types.String `tfsdk:"when_changed"`
}

func (d *GroupDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_group"
}

func (d *GroupDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Retrieves the details of a directory group by id or by distinguished name, " +
			"including its direct members and the groups it belongs to.",

		Attributes: map[string]schema.Attribute{
			// Lookup methods (mutually exclusive)
			"id": schema.StringAttribute{
				MarkdownDescription: "Stable id of the group, as returned by `dsamac_objects` or `dsamac_search`.",
				Optional:            true,
				Computed:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"distinguished_name": schema.StringAttribute{
				MarkdownDescription: "Distinguished name of the group. " +
					"Example: `CN=IT Admins,OU=Groups,OU=Corporate,DC=example,DC=local`",
				Optional: true,
				Computed: true,
				Validators: []validator.String{
					validators.IsValidDN(),
				},
			},

			"object_sid":       computedString("Security identifier in `S-1-5-...` form."),
			"name":             computedString("Group name."),
			"sam_account_name": computedString("Pre-Windows 2000 name."),
			"description":      computedString("Description."),
			"mail":             computedString("Email address of the group."),
			"managed_by":       computedString("Distinguished name of the manager."),
			"container_id":     computedString("Id of the container holding the group."),

			// Type
			"group_type": schema.Int64Attribute{
				MarkdownDescription: "Raw `groupType` value. Null when the directory did not return one.",
				Computed:            true,
			},
			"category":          computedString("`security` or `distribution`."),
			"scope":             computedString("`domain_local`, `global`, `universal` or `unknown`."),
			"is_security_group": computedBool("Whether the group is a security group."),

			// Membership
			"members": schema.ListAttribute{
				MarkdownDescription: "Distinguished names of the direct members.",
				ElementType:         types.StringType,
				Computed:            true,
			},
			"member_names": schema.ListAttribute{
				MarkdownDescription: "Display names of the direct members, in the order of `members`.",
				ElementType:         types.StringType,
				Computed:            true,
			},
			"member_of": schema.ListAttribute{
				MarkdownDescription: "Distinguished names of the groups this group belongs to.",
				ElementType:         types.StringType,
				Computed:            true,
			},
			"member_of_names": schema.ListAttribute{
				MarkdownDescription: "Display names of the groups this group belongs to, in the order of `member_of`.",
				ElementType:         types.StringType,
				Computed:            true,
			},

			"when_created": computedString("Creation time in RFC 3339 format."),
			"when_changed": computedString("Last modification time in RFC 3339 format."),
		},
	}
}

func (d *GroupDataSource) ConfigValidators(ctx context.Context) []datasource.ConfigValidator {
	return []datasource.ConfigValidator{
		datasourcevalidator.ExactlyOneOf(
			path.MatchRoot("id"),
			path.MatchRoot("distinguished_name"),
		),
	}
}

func (d *GroupDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.service = serviceFromProviderData(req.ProviderData, &resp.Diagnostics)
}

func (d *GroupDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data GroupDataSourceModel

	ctx = initializeLogging(ctx)
	start := time.Now()

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if err := loadError(d.service); err != nil {
		logDataSourceRead(ctx, "group", start, nil, err)
		resp.Diagnostics.AddError("Directory Not Loaded", err.Error())
		return
	}

	id := lookupID(d.service, directory.KindGroup, data.ID, data.DistinguishedName)
	fields := map[string]any{"id": id, "dn": data.DistinguishedName.ValueString()}
	if id == "" {
		resp.Diagnostics.AddError(
			"Group Not Found",
			"No loaded directory group has the specified distinguished name.",
		)
		return
	}

	detail, err := d.service.Details(ctx, service.Selection{Kind: directory.KindGroup, ID: id})
	if err != nil {
		logDataSourceRead(ctx, "group", start, fields, err)
		resp.Diagnostics.AddError(
			"Error Reading Group",
			fmt.Sprintf("Could not read directory group: %s", err.Error()),
		)
		return
	}

	if detail == nil || detail.Group == nil {
		resp.Diagnostics.AddError(
			"Group Not Found",
			"The specified directory group could not be found.",
		)
		return
	}

	d.mapGroupToModel(detail.Group, &data, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		return
	}

	fields["member_count"] = len(detail.Group.Members)
	logDataSourceRead(ctx, "group", start, fields, nil)

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// mapGroupToModel maps a directory group to the Terraform model.
func (d *GroupDataSource) mapGroupToModel(group *directory.Group, data *GroupDataSourceModel, diags *diag.Diagnostics) {
	data.ID = types.StringValue(group.ID)
	data.DistinguishedName = types.StringValue(group.DistinguishedName)

	data.ObjectSid = types.StringValue(group.ObjectSid)
	data.Name = types.StringValue(group.Name)
	data.SAMAccountName = types.StringValue(group.SAMAccountName)
	data.Description = types.StringValue(group.Description)
	data.Mail = types.StringValue(group.Mail)
	data.ManagedBy = types.StringValue(group.Manager)
	data.ContainerID = types.StringValue(group.ContainerID)

	if group.GroupType.Present {
		data.GroupType = types.Int64Value(int64(group.GroupType.Value))
	} else {
		data.GroupType = types.Int64Null()
	}
	data.Category = types.StringValue(string(group.Category()))
	data.Scope = types.StringValue(string(group.Scope()))
	data.IsSecurityGroup = types.BoolValue(group.IsSecurityGroup())

	var listDiags diag.Diagnostics
	data.Members, listDiags = helpers.StringList(group.Members)
	diags.Append(listDiags...)
	data.MemberNames, listDiags = helpers.StringList(group.MemberNames)
	diags.Append(listDiags...)
	data.MemberOf, listDiags = helpers.StringList(group.MemberOf)
	diags.Append(listDiags...)
	data.MemberOfNames, listDiags = helpers.StringList(group.MemberOfNames)
	diags.Append(listDiags...)

	data.WhenCreated = helpers.Timestamp(group.WhenCreated)
	data.WhenChanged = helpers.Timestamp(group.WhenChanged)
}
