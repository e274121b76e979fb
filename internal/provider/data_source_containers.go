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
var _ datasource.DataSource = &ContainersDataSource{}
var _ datasource.DataSourceWithConfigure = &ContainersDataSource{}

func NewContainersDataSource() datasource.DataSource {
	return &ContainersDataSource{}
}

// ContainersDataSource lists the container hierarchy.
type ContainersDataSource struct {
	service *service.Service
}

// ContainersDataSourceModel describes the data source data model.
type ContainersDataSourceModel struct {
	ID         types.String `tfsdk:"id"`
	RootID     types.String `tfsdk:"root_id"`    // Restrict the listing to one subtree
	Containers types.List   `tfsdk:"containers"` // Depth-first pre-order
}

var containerAttrTypes = map[string]attr.Type{
	"id":                 types.StringType,
	"name":               types.StringType,
	"parent_id":          types.StringType,
	"distinguished_name": types.StringType,
	"description":        types.StringType,
	"depth":              types.Int64Type,
	"child_ids":          types.ListType{ElemType: types.StringType},
	"when_created":       types.StringType,
	"when_changed":       types.StringType,
}

func (d *ContainersDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_containers"
}

func (d *ContainersDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Lists the directory container hierarchy in depth-first order. " +
			"Each container carries its depth and the ids of its children, so the tree can be rebuilt from the flat list.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				MarkdownDescription: "Identifier of this listing: the root id, or `all` for the whole hierarchy.",
				Computed:            true,
			},
			"root_id": schema.StringAttribute{
				MarkdownDescription: "Only list the subtree rooted at this container id. Depths stay relative to the whole hierarchy.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"containers": schema.ListNestedAttribute{
				MarkdownDescription: "Containers in depth-first pre-order. Roots and siblings keep the order of the directory listing.",
				Computed:            true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"id": schema.StringAttribute{
							MarkdownDescription: "Stable container id.",
							Computed:            true,
						},
						"name": schema.StringAttribute{
							MarkdownDescription: "Display name of the container.",
							Computed:            true,
						},
						"parent_id": schema.StringAttribute{
							MarkdownDescription: "Id of the parent container. Empty for roots.",
							Computed:            true,
						},
						"distinguished_name": schema.StringAttribute{
							MarkdownDescription: "Distinguished name of the container.",
							Computed:            true,
						},
						"description": schema.StringAttribute{
							MarkdownDescription: "Description of the container.",
							Computed:            true,
						},
						"depth": schema.Int64Attribute{
							MarkdownDescription: "Depth in the hierarchy. Roots are at depth `0`.",
							Computed:            true,
						},
						"child_ids": schema.ListAttribute{
							MarkdownDescription: "Ids of the direct children, in order.",
							ElementType:         types.StringType,
							Computed:            true,
						},
						"when_created": schema.StringAttribute{
							MarkdownDescription: "Creation time in RFC 3339 format, when known.",
							Computed:            true,
						},
						"when_changed": schema.StringAttribute{
							MarkdownDescription: "Last modification time in RFC 3339 format, when known.",
							Computed:            true,
						},
					},
				},
			},
		},
	}
}

func (d *ContainersDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.service = serviceFromProviderData(req.ProviderData, &resp.Diagnostics)
}

func (d *ContainersDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data ContainersDataSourceModel

	ctx = initializeLogging(ctx)
	start := time.Now()

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if err := loadError(d.service); err != nil {
		logDataSourceRead(ctx, "containers", start, nil, err)
		resp.Diagnostics.AddError("Directory Not Loaded", err.Error())
		return
	}

	tree := d.service.Tree()
	rootID := data.RootID.ValueString()

	var containers types.List
	var diags diag.Diagnostics
	if rootID == "" {
		data.ID = types.StringValue("all")
		containers, diags = flattenContainers(tree, 0)
	} else {
		depth, node := findWithDepth(tree, rootID)
		if node == nil {
			resp.Diagnostics.AddAttributeError(
				path.Root("root_id"),
				"Container Not Found",
				fmt.Sprintf("No container with id %q exists in the loaded directory.", rootID),
			)
			return
		}
		data.ID = types.StringValue(rootID)
		containers, diags = flattenContainers([]*directory.ContainerNode{node}, depth)
	}
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}
	data.Containers = containers

	logDataSourceRead(ctx, "containers", start, map[string]any{
		"root_id":         rootID,
		"container_count": len(containers.Elements()),
	}, nil)

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// findWithDepth returns the node with the given id and its depth.
func findWithDepth(tree []*directory.ContainerNode, id string) (int, *directory.ContainerNode) {
	var found *directory.ContainerNode
	var foundDepth int
	directory.Walk(tree, func(node *directory.ContainerNode, depth int) bool {
		if node.Unit.ID == id {
			found, foundDepth = node, depth
			return false
		}
		return true
	})
	return foundDepth, found
}

// flattenContainers converts a forest into the containers list, offsetting
// every depth by baseDepth.
func flattenContainers(nodes []*directory.ContainerNode, baseDepth int) (types.List, diag.Diagnostics) {
	var diags diag.Diagnostics
	var rows []map[string]attr.Value

	directory.Walk(nodes, func(node *directory.ContainerNode, depth int) bool {
		childIDs := make([]string, len(node.Children))
		for i, child := range node.Children {
			childIDs[i] = child.Unit.ID
		}
		children, childDiags := helpers.StringList(childIDs)
		diags.Append(childDiags...)

		unit := node.Unit
		rows = append(rows, map[string]attr.Value{
			"id":                 types.StringValue(unit.ID),
			"name":               types.StringValue(unit.Name),
			"parent_id":          types.StringValue(unit.ParentID),
			"distinguished_name": types.StringValue(unit.DistinguishedName),
			"description":        types.StringValue(unit.Description),
			"depth":              types.Int64Value(int64(baseDepth + depth)),
			"child_ids":          children,
			"when_created":       helpers.Timestamp(unit.WhenCreated),
			"when_changed":       helpers.Timestamp(unit.WhenChanged),
		})
		return true
	})
	if diags.HasError() {
		return types.ListNull(types.ObjectType{AttrTypes: containerAttrTypes}), diags
	}

	list, listDiags := helpers.ObjectList(containerAttrTypes, rows)
	diags.Append(listDiags...)
	return list, diags
}
