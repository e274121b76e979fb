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
var _ datasource.DataSource = &ComputerDataSource{}
var _ datasource.DataSourceWithConfigure = &ComputerDataSource{}
var _ datasource.DataSourceWithConfigValidators = &ComputerDataSource{}

func NewComputerDataSource() datasource.DataSource {
	return &ComputerDataSource{}
}

// ComputerDataSource returns the details of one computer account.
type ComputerDataSource struct {
	service *service.Service
}

// ComputerDataSourceModel describes the data source data model.
type ComputerDataSourceModel struct {
	// Lookup methods (mutually exclusive)
	ID                types.String `tfsdk:"id"`
	DistinguishedName types.String `tfsdk:"distinguished_name"`

	ObjectSid      types.String `tfsdk:"object_sid"`
	Name           types.String `tfsdk:"name"`
	SAMAccountName types.String `tfsdk:"sam_account_name"`
	DNSHostName    types.String `tfsdk:"dns_host_name"`
	Description    types.String `tfsdk:"description"`
	Location       types.String `tfsdk:"location"`
	ManagedBy      types.String `tfsdk:"managed_by"`
	ContainerID    types.String `tfsdk:"container_id"`

	// Operating system
	OperatingSystem            types.String `tfsdk:"operating_system"`
	OperatingSystemVersion     types.String `tfsdk:"operating_system_version"`
	OperatingSystemServicePack types.String `tfsdk:"operating_system_service_pack"`
	Role                       types.String `tfsdk:"role"`

	// Account status
	UserAccountControl   types.Int64 `tfsdk:"user_account_control"`
	Enabled              types.Bool  `tfsdk:"enabled"`
	TrustedForDelegation types.Bool  `tfsdk:"trusted_for_delegation"`

	MemberOf types.List `tfsdk:"member_of"`

	// Timestamps and counters
	WhenCreated     types.String `tfsdk:"when_created"`
	WhenChanged     types.String `tfsdk:"when_changed"`
	LastLogon       types.String `tfsdk:"last_logon"`
	PasswordLastSet types.String `tfsdk:"password_last_set"`
	LogonCount      types.Int64  `tfsdk:"logon_count"`
}

func (d *ComputerDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_computer"
}

func (d *ComputerDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Retrieves the details of a directory computer account by id or by distinguished name. " +
			"The `role` classifies the machine as a domain controller, server or workstation.",

		Attributes: map[string]schema.Attribute{
			// Lookup methods (mutually exclusive)
			"id": schema.StringAttribute{
				MarkdownDescription: "Stable id of the computer, as returned by `dsamac_objects` or `dsamac_search`.",
				Optional:            true,
				Computed:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"distinguished_name": schema.StringAttribute{
				MarkdownDescription: "Distinguished name of the computer. " +
					"Example: `CN=WS-0042,OU=Workstations,OU=Corporate,DC=example,DC=local`",
				Optional: true,
				Computed: true,
				Validators: []validator.String{
					validators.IsValidDN(),
				},
			},

			"object_sid":       computedString("Security identifier in `S-1-5-...` form."),
			"name":             computedString("Computer name."),
			"sam_account_name": computedString("Account name, usually the computer name followed by `$`."),
			"dns_host_name":    computedString("DNS host name."),
			"description":      computedString("Description."),
			"location":         computedString("Physical location."),
			"managed_by":       computedString("Distinguished name of the manager."),
			"container_id":     computedString("Id of the container holding the computer."),

			// Operating system
			"operating_system":              computedString("Operating system name."),
			"operating_system_version":      computedString("Operating system version."),
			"operating_system_service_pack": computedString("Operating system service pack."),
			"role":                          computedString("`domain_controller`, `server`, `workstation` or `unknown`."),

			// Account status
			"user_account_control": schema.Int64Attribute{
				MarkdownDescription: "Raw `userAccountControl` value. Null when the directory did not return one.",
				Computed:            true,
			},
			"enabled":                computedBool("Whether the account is enabled."),
			"trusted_for_delegation": computedBool("Whether the account is trusted for delegation."),

			"member_of": schema.ListAttribute{
				MarkdownDescription: "Distinguished names of the groups the computer belongs to.",
				ElementType:         types.StringType,
				Computed:            true,
			},

			// Timestamps and counters
			"when_created":      computedString("Creation time in RFC 3339 format."),
			"when_changed":      computedString("Last modification time in RFC 3339 format."),
			"last_logon":        computedString("Last logon time in RFC 3339 format."),
			"password_last_set": computedString("Time the machine password was last set, in RFC 3339 format."),
			"logon_count": schema.Int64Attribute{
				MarkdownDescription: "Number of successful logons.",
				Computed:            true,
			},
		},
	}
}

func (d *ComputerDataSource) ConfigValidators(ctx context.Context) []datasource.ConfigValidator {
	return []datasource.ConfigValidator{
		datasourcevalidator.ExactlyOneOf(
			path.MatchRoot("id"),
			path.MatchRoot("distinguished_name"),
		),
	}
}

func (d *ComputerDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.service = serviceFromProviderData(req.ProviderData, &resp.Diagnostics)
}

func (d *ComputerDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data ComputerDataSourceModel

	ctx = initializeLogging(ctx)
	start := time.Now()

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if err := loadError(d.service); err != nil {
		logDataSourceRead(ctx, "computer", start, nil, err)
		resp.Diagnostics.AddError("Directory Not Loaded", err.Error())
		return
	}

	id := lookupID(d.service, directory.KindComputer, data.ID, data.DistinguishedName)
	fields := map[string]any{"id": id, "dn": data.DistinguishedName.ValueString()}
	if id == "" {
		resp.Diagnostics.AddError(
			"Computer Not Found",
			"No loaded directory computer has the specified distinguished name.",
		)
		return
	}

	detail, err := d.service.Details(ctx, service.Selection{Kind: directory.KindComputer, ID: id})
	if err != nil {
		logDataSourceRead(ctx, "computer", start, fields, err)
		resp.Diagnostics.AddError(
			"Error Reading Computer",
			fmt.Sprintf("Could not read directory computer: %s", err.Error()),
		)
		return
	}

	if detail == nil || detail.Computer == nil {
		resp.Diagnostics.AddError(
			"Computer Not Found",
			"The specified directory computer could not be found.",
		)
		return
	}

	d.mapComputerToModel(detail.Computer, &data, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		return
	}

	fields["role"] = string(detail.Computer.Role())
	logDataSourceRead(ctx, "computer", start, fields, nil)

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// mapComputerToModel maps a directory computer to the Terraform model.
func (d *ComputerDataSource) mapComputerToModel(computer *directory.Computer, data *ComputerDataSourceModel, diags *diag.Diagnostics) {
	data.ID = types.StringValue(computer.ID)
	data.DistinguishedName = types.StringValue(computer.DistinguishedName)

	data.ObjectSid = types.StringValue(computer.ObjectSid)
	data.Name = types.StringValue(computer.Name)
	data.SAMAccountName = types.StringValue(computer.SAMAccountName)
	data.DNSHostName = types.StringValue(computer.DNSHostName)
	data.Description = types.StringValue(computer.Description)
	data.Location = types.StringValue(computer.Location)
	data.ManagedBy = types.StringValue(computer.ManagedBy)
	data.ContainerID = types.StringValue(computer.ContainerID)

	data.OperatingSystem = types.StringValue(computer.OperatingSystem)
	data.OperatingSystemVersion = types.StringValue(computer.OperatingSystemVersion)
	data.OperatingSystemServicePack = types.StringValue(computer.OperatingSystemServicePack)
	data.Role = types.StringValue(string(computer.Role()))

	data.UserAccountControl = accountControlValue(computer.AccountControl)
	data.Enabled = types.BoolValue(computer.IsEnabled())
	data.TrustedForDelegation = types.BoolValue(computer.TrustedForDelegation())

	memberOf, listDiags := helpers.StringList(computer.MemberOf)
	diags.Append(listDiags...)
	data.MemberOf = memberOf

	data.WhenCreated = helpers.Timestamp(computer.WhenCreated)
	data.WhenChanged = helpers.Timestamp(computer.WhenChanged)
	data.LastLogon = helpers.Timestamp(computer.LastLogon)
	data.PasswordLastSet = helpers.Timestamp(computer.PasswordLastSet)
	data.LogonCount = helpers.Counter(computer.LogonCount)
}
