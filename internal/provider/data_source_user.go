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
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/Jfmaigne/DSAMAC/internal/directory"
	"github.com/Jfmaigne/DSAMAC/internal/provider/helpers"
	"github.com/Jfmaigne/DSAMAC/internal/provider/validators"
	"github.com/Jfmaigne/DSAMAC/internal/service"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &UserDataSource{}
var _ datasource.DataSourceWithConfigure = &UserDataSource{}
var _ datasource.DataSourceWithConfigValidators = &UserDataSource{}

func NewUserDataSource() datasource.DataSource {
	return &UserDataSource{}
}

// UserDataSource returns the details of one user.
type UserDataSource struct {
	service *service.Service
}

// UserDataSourceModel describes the data source data model.
type UserDataSourceModel struct {
	// Lookup methods (mutually exclusive)
	ID                types.String `tfsdk:"id"`
	DistinguishedName types.String `tfsdk:"distinguished_name"`

	// Identity
	ObjectSid         types.String `tfsdk:"object_sid"`
	SAMAccountName    types.String `tfsdk:"sam_account_name"`
	UserPrincipalName types.String `tfsdk:"user_principal_name"`
	DisplayName       types.String `tfsdk:"display_name"`
	GivenName         types.String `tfsdk:"given_name"`
	Surname           types.String `tfsdk:"surname"`
	Initials          types.String `tfsdk:"initials"`
	Description       types.String `tfsdk:"description"`
	ContainerID       types.String `tfsdk:"container_id"`

	// Contact and address
	EmailAddress  types.String `tfsdk:"email_address"`
	OfficePhone   types.String `tfsdk:"office_phone"`
	MobilePhone   types.String `tfsdk:"mobile_phone"`
	StreetAddress types.String `tfsdk:"street_address"`
	City          types.String `tfsdk:"city"`
	State         types.String `tfsdk:"state"`
	PostalCode    types.String `tfsdk:"postal_code"`
	Country       types.String `tfsdk:"country"`
	Office        types.String `tfsdk:"office"`

	// Organization
	Title      types.String `tfsdk:"title"`
	Department types.String `tfsdk:"department"`
	Company    types.String `tfsdk:"company"`
	EmployeeID types.String `tfsdk:"employee_id"`
	Manager    types.String `tfsdk:"manager"` // Manager DN

	// Account status
	UserAccountControl   types.Int64 `tfsdk:"user_account_control"` // Null when absent
	Enabled              types.Bool  `tfsdk:"enabled"`
	LockedOut            types.Bool  `tfsdk:"locked_out"`
	PasswordNeverExpires types.Bool  `tfsdk:"password_never_expires"`
	MustChangePassword   types.Bool  `tfsdk:"must_change_password"`
	CannotChangePassword types.Bool  `tfsdk:"cannot_change_password"`
	TrustedForDelegation types.Bool  `tfsdk:"trusted_for_delegation"`

	// Memberships
	MemberOf        types.List   `tfsdk:"member_of"`
	PrimaryGroupSID types.String `tfsdk:"primary_group_sid"`

	// System
	HomeDirectory types.String `tfsdk:"home_directory"`
	ProfilePath   types.String `tfsdk:"profile_path"`
	LogonScript   types.String `tfsdk:"logon_script"`

	// Timestamps and counters
	WhenCreated      types.String `tfsdk:"when_created"`
	WhenChanged      types.String `tfsdk:"when_changed"`
	LastLogon        types.String `tfsdk:"last_logon"`
	PasswordLastSet  types.String `tfsdk:"password_last_set"`
	AccountExpires   types.String `tfsdk:"account_expires"`
	LockoutTime      types.String `tfsdk:"lockout_time"`
	LogonCount       types.Int64  `tfsdk:"logon_count"`
	BadPasswordCount types.Int64  `tfsdk:"bad_password_count"`
}

func (d *UserDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_user"
}

func (d *UserDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Retrieves the details of a directory user by id or by distinguished name.",

		Attributes: map[string]schema.Attribute{
			// Lookup methods (mutually exclusive)
			"id": schema.StringAttribute{
				MarkdownDescription: "Stable id of the user, as returned by `dsamac_objects` or `dsamac_search`.",
				Optional:            true,
				Computed:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"distinguished_name": schema.StringAttribute{
				MarkdownDescription: "Distinguished name of the user. " +
					"Example: `CN=John Doe,OU=Staff,OU=Corporate,DC=example,DC=local`",
				Optional: true,
				Computed: true,
				Validators: []validator.String{
					validators.IsValidDN(),
				},
			},

			// Identity
			"object_sid":          computedString("Security identifier in `S-1-5-...` form."),
			"sam_account_name":    computedString("Logon name."),
			"user_principal_name": computedString("User principal name. Example: `jdoe@example.local`"),
			"display_name":        computedString("Display name."),
			"given_name":          computedString("First name."),
			"surname":             computedString("Last name."),
			"initials":            computedString("Initials."),
			"description":         computedString("Description."),
			"container_id":        computedString("Id of the container holding the user."),

			// Contact and address
			"email_address":  computedString("Primary email address."),
			"office_phone":   computedString("Office telephone number."),
			"mobile_phone":   computedString("Mobile telephone number."),
			"street_address": computedString("Street address."),
			"city":           computedString("City."),
			"state":          computedString("State or province."),
			"postal_code":    computedString("Postal code."),
			"country":        computedString("Country."),
			"office":         computedString("Physical office."),

			// Organization
			"title":       computedString("Job title."),
			"department":  computedString("Department."),
			"company":     computedString("Company."),
			"employee_id": computedString("Employee id."),
			"manager":     computedString("Distinguished name of the manager."),

			// Account status
			"user_account_control": schema.Int64Attribute{
				MarkdownDescription: "Raw `userAccountControl` value. Null when the directory did not return one.",
				Computed:            true,
			},
			"enabled":                computedBool("Whether the account is enabled. Accounts without a `userAccountControl` value count as enabled."),
			"locked_out":             computedBool("Whether the account is locked out."),
			"password_never_expires": computedBool("Whether the password never expires."),
			"must_change_password":   computedBool("Whether the password must be changed at next logon."),
			"cannot_change_password": computedBool("Whether the user is barred from changing the password."),
			"trusted_for_delegation": computedBool("Whether the account is trusted for delegation."),

			// Memberships
			"member_of": schema.ListAttribute{
				MarkdownDescription: "Distinguished names of the groups the user belongs to.",
				ElementType:         types.StringType,
				Computed:            true,
			},
			"primary_group_sid": computedString("Security identifier of the primary group."),

			// System
			"home_directory": computedString("Home directory path."),
			"profile_path":   computedString("Roaming profile path."),
			"logon_script":   computedString("Logon script path."),

			// Timestamps and counters
			"when_created":      computedString("Creation time in RFC 3339 format."),
			"when_changed":      computedString("Last modification time in RFC 3339 format."),
			"last_logon":        computedString("Last logon time in RFC 3339 format."),
			"password_last_set": computedString("Time the password was last set, in RFC 3339 format."),
			"account_expires":   computedString("Account expiry time in RFC 3339 format. Null when the account never expires."),
			"lockout_time":      computedString("Lockout time in RFC 3339 format, when locked."),
			"logon_count": schema.Int64Attribute{
				MarkdownDescription: "Number of successful logons.",
				Computed:            true,
			},
			"bad_password_count": schema.Int64Attribute{
				MarkdownDescription: "Number of failed logons since the last success.",
				Computed:            true,
			},
		},
	}
}

func (d *UserDataSource) ConfigValidators(ctx context.Context) []datasource.ConfigValidator {
	return []datasource.ConfigValidator{
		datasourcevalidator.ExactlyOneOf(
			path.MatchRoot("id"),
			path.MatchRoot("distinguished_name"),
		),
	}
}

func (d *UserDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.service = serviceFromProviderData(req.ProviderData, &resp.Diagnostics)
}

func (d *UserDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data UserDataSourceModel

	// Initialize logging subsystem for consistent logging
	ctx = initializeLogging(ctx)
	start := time.Now()

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if err := loadError(d.service); err != nil {
		logDataSourceRead(ctx, "user", start, nil, err)
		resp.Diagnostics.AddError("Directory Not Loaded", err.Error())
		return
	}

	id := lookupID(d.service, directory.KindUser, data.ID, data.DistinguishedName)
	fields := map[string]any{"id": id, "dn": data.DistinguishedName.ValueString()}
	if id == "" {
		resp.Diagnostics.AddError(
			"User Not Found",
			"No loaded directory user has the specified distinguished name.",
		)
		return
	}

	detail, err := d.service.Details(ctx, service.Selection{Kind: directory.KindUser, ID: id})
	if err != nil {
		logDataSourceRead(ctx, "user", start, fields, err)
		resp.Diagnostics.AddError(
			"Error Reading User",
			fmt.Sprintf("Could not read directory user: %s", err.Error()),
		)
		return
	}

	if detail == nil || detail.User == nil {
		resp.Diagnostics.AddError(
			"User Not Found",
			"The specified directory user could not be found.",
		)
		return
	}

	d.mapUserToModel(ctx, detail.User, &data, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		return
	}

	logDataSourceRead(ctx, "user", start, fields, nil)

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// mapUserToModel maps a directory user to the Terraform model.
func (d *UserDataSource) mapUserToModel(ctx context.Context, user *directory.User, data *UserDataSourceModel, diags *diag.Diagnostics) {
	data.ID = types.StringValue(user.ID)
	data.DistinguishedName = types.StringValue(user.DistinguishedName)

	// Identity
	data.ObjectSid = types.StringValue(user.ObjectSid)
	data.SAMAccountName = types.StringValue(user.SAMAccountName)
	data.UserPrincipalName = types.StringValue(user.UserPrincipalName)
	data.DisplayName = types.StringValue(user.DisplayName)
	data.GivenName = types.StringValue(user.GivenName)
	data.Surname = types.StringValue(user.Surname)
	data.Initials = types.StringValue(user.Initials)
	data.Description = types.StringValue(user.Description)
	data.ContainerID = types.StringValue(user.ContainerID)

	// Contact and address
	data.EmailAddress = types.StringValue(user.EmailAddress)
	data.OfficePhone = types.StringValue(user.OfficePhone)
	data.MobilePhone = types.StringValue(user.MobilePhone)
	data.StreetAddress = types.StringValue(user.StreetAddress)
	data.City = types.StringValue(user.City)
	data.State = types.StringValue(user.State)
	data.PostalCode = types.StringValue(user.PostalCode)
	data.Country = types.StringValue(user.Country)
	data.Office = types.StringValue(user.Office)

	// Organization
	data.Title = types.StringValue(user.Title)
	data.Department = types.StringValue(user.Department)
	data.Company = types.StringValue(user.Company)
	data.EmployeeID = types.StringValue(user.EmployeeID)
	data.Manager = types.StringValue(user.Manager)

	// Account status
	data.UserAccountControl = accountControlValue(user.AccountControl)
	data.Enabled = types.BoolValue(user.IsEnabled())
	data.LockedOut = types.BoolValue(user.IsLocked())
	data.PasswordNeverExpires = types.BoolValue(user.PasswordNeverExpires())
	data.MustChangePassword = types.BoolValue(user.MustChangePassword())
	data.CannotChangePassword = types.BoolValue(user.CannotChangePassword())
	data.TrustedForDelegation = types.BoolValue(user.TrustedForDelegation())

	// Memberships
	memberOf, listDiags := helpers.StringList(user.MemberOf)
	diags.Append(listDiags...)
	data.MemberOf = memberOf
	data.PrimaryGroupSID = types.StringValue(user.PrimaryGroupSID())

	// System
	data.HomeDirectory = types.StringValue(user.HomeDirectory)
	data.ProfilePath = types.StringValue(user.ProfilePath)
	data.LogonScript = types.StringValue(user.LogonScript)

	// Timestamps and counters
	data.WhenCreated = helpers.Timestamp(user.WhenCreated)
	data.WhenChanged = helpers.Timestamp(user.WhenChanged)
	data.LastLogon = helpers.Timestamp(user.LastLogon)
	data.PasswordLastSet = helpers.Timestamp(user.PasswordLastSet)
	data.AccountExpires = helpers.Timestamp(user.AccountExpires)
	data.LockoutTime = helpers.Timestamp(user.LockoutTime())
	data.LogonCount = helpers.Counter(user.LogonCount)
	data.BadPasswordCount = helpers.Counter(user.BadPasswordCount)

	tflog.SubsystemTrace(ctx, logSubsystem, "Mapped user data to model", map[string]any{
		"user_id":      user.ID,
		"user_sam":     user.SAMAccountName,
		"member_count": len(user.MemberOf),
	})
}

// accountControlValue returns the raw userAccountControl, or null when absent.
func accountControlValue(ac directory.AccountControl) types.Int64 {
	if !ac.Present {
		return types.Int64Null()
	}
	return types.Int64Value(int64(ac.Value))
}
