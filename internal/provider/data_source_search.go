package provider

import (
	"context"
	"slices"
	"time"

	"github.com/hashicorp/terraform-plugin-framework-validators/listvalidator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/Jfmaigne/DSAMAC/internal/directory"
	"github.com/Jfmaigne/DSAMAC/internal/provider/helpers"
	"github.com/Jfmaigne/DSAMAC/internal/provider/validators"
	"github.com/Jfmaigne/DSAMAC/internal/service"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &SearchDataSource{}
var _ datasource.DataSourceWithConfigure = &SearchDataSource{}

func NewSearchDataSource() datasource.DataSource {
	return &SearchDataSource{}
}

// SearchDataSource runs a free-text search across users, groups and computers.
type SearchDataSource struct {
	service *service.Service
}

// SearchDataSourceModel describes the data source data model.
type SearchDataSourceModel struct {
	ID          types.String `tfsdk:"id"`
	Query       types.String `tfsdk:"query"`
	Kinds       types.List   `tfsdk:"kinds"` // Optional kind filter
	Results     types.List   `tfsdk:"results"`
	ResultCount types.Int64  `tfsdk:"result_count"`
}

var searchResultAttrTypes = map[string]attr.Type{
	"id":                 types.StringType,
	"kind":               types.StringType,
	"display_name":       types.StringType,
	"secondary":          types.StringType,
	"distinguished_name": types.StringType,
}

func (d *SearchDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_search"
}

func (d *SearchDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Searches users, groups and computers by case-insensitive substring. " +
			"Users match on logon and display names, principal name, email address, given name, surname and department. " +
			"Groups match on name, logon name and description. Computers match on name, logon name, DNS host name, " +
			"description and operating system. Results list users first, then groups, then computers.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				MarkdownDescription: "Same as `query`.",
				Computed:            true,
			},
			"query": schema.StringAttribute{
				MarkdownDescription: "Text to search for. A query of only whitespace returns no results.",
				Required:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"kinds": schema.ListAttribute{
				MarkdownDescription: "Only return results of these kinds: `user`, `group` or `computer`. All kinds when unset.",
				ElementType:         types.StringType,
				Optional:            true,
				Validators: []validator.List{
					listvalidator.SizeAtLeast(1),
					listvalidator.ValueStringsAre(
						validators.CaseInsensitiveOneOf(
							directory.KindUser.String(),
							directory.KindGroup.String(),
							directory.KindComputer.String(),
						),
					),
				},
			},
			"results": schema.ListNestedAttribute{
				MarkdownDescription: "Matching objects.",
				Computed:            true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"id":                 computedString("Stable object id."),
						"kind":               computedString("`user`, `group` or `computer`."),
						"display_name":       computedString("Display name of the object."),
						"secondary":          computedString("Secondary label, such as the email address of a user or the DNS host name of a computer."),
						"distinguished_name": computedString("Distinguished name of the object."),
					},
				},
			},
			"result_count": schema.Int64Attribute{
				MarkdownDescription: "Number of results.",
				Computed:            true,
			},
		},
	}
}

func (d *SearchDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.service = serviceFromProviderData(req.ProviderData, &resp.Diagnostics)
}

func (d *SearchDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data SearchDataSourceModel

	ctx = initializeLogging(ctx)
	start := time.Now()

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	query := data.Query.ValueString()
	fields := map[string]any{"query": query}

	if err := loadError(d.service); err != nil {
		logDataSourceRead(ctx, "search", start, fields, err)
		resp.Diagnostics.AddError("Directory Not Loaded", err.Error())
		return
	}

	results, err := d.service.Search(ctx, query)
	if err != nil {
		logDataSourceRead(ctx, "search", start, fields, err)
		resp.Diagnostics.AddError(
			"Error Searching Directory",
			"The directory search failed: "+err.Error(),
		)
		return
	}

	results = filterKinds(results, helpers.ListToStrings(data.Kinds))
	tflog.SubsystemTrace(ctx, logSubsystem, "Filtered search results", map[string]any{
		"result_count": len(results),
	})

	rows := make([]map[string]attr.Value, len(results))
	for i, r := range results {
		rows[i] = map[string]attr.Value{
			"id":                 types.StringValue(r.ID),
			"kind":               types.StringValue(r.Kind.String()),
			"display_name":       types.StringValue(r.DisplayName),
			"secondary":          types.StringValue(r.Secondary),
			"distinguished_name": types.StringValue(r.DistinguishedName),
		}
	}

	list, diags := helpers.ObjectList(searchResultAttrTypes, rows)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	data.ID = types.StringValue(query)
	data.Results = list
	data.ResultCount = types.Int64Value(int64(len(results)))

	fields["result_count"] = len(results)
	logDataSourceRead(ctx, "search", start, fields, nil)

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// filterKinds keeps the results whose kind is listed. An empty list keeps all.
func filterKinds(results []directory.SearchResult, kinds []string) []directory.SearchResult {
	if len(kinds) == 0 {
		return results
	}

	allowed := make([]directory.Kind, 0, len(kinds))
	for _, k := range kinds {
		if kind, ok := directory.ParseKind(k); ok {
			allowed = append(allowed, kind)
		}
	}

	filtered := make([]directory.SearchResult, 0, len(results))
	for _, r := range results {
		if slices.Contains(allowed, r.Kind) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
