package directory

import (
	"fmt"
	"slices"
	"strings"

	"github.com/creasty/defaults"
)

// Orphan policies for units whose parent id does not resolve.
const (
	OrphansAsRoots = "root"
	OrphansReject  = "reject"
)

// TreeConfig controls BuildTree. Zero fields take their defaults.
type TreeConfig struct {
	// MaxDepth limits the number of levels in the tree. Must be greater than 0.
	MaxDepth int `yaml:"max_depth" json:"max_depth,omitempty" default:"64"`

	// Orphans decides what happens to a unit whose parent id is not in the
	// input: "root" promotes it to a root, "reject" fails the build.
	Orphans string `yaml:"orphans" json:"orphans,omitempty" default:"root"`
}

// NewTreeConfig returns a TreeConfig with defaults applied.
func NewTreeConfig() *TreeConfig {
	cfg := &TreeConfig{}
	_ = defaults.Set(cfg)
	return cfg
}

// Validate checks the configuration values.
func (c *TreeConfig) Validate() error {
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be greater than 0, got %d", c.MaxDepth)
	}
	switch c.Orphans {
	case OrphansAsRoots, OrphansReject:
		return nil
	default:
		return fmt.Errorf("orphans must be %q or %q, got %q", OrphansAsRoots, OrphansReject, c.Orphans)
	}
}

// TreeErrorReason classifies a tree build failure.
type TreeErrorReason string

const (
	TreeErrorEmptyID       TreeErrorReason = "empty_id"
	TreeErrorDuplicateID   TreeErrorReason = "duplicate_id"
	TreeErrorMissingParent TreeErrorReason = "missing_parent"
	TreeErrorCycle         TreeErrorReason = "cycle"
	TreeErrorMaxDepth      TreeErrorReason = "max_depth"
)

// TreeError reports input that does not form a forest.
type TreeError struct {
	Reason TreeErrorReason
	IDs    []string
	Detail string
}

func (e *TreeError) Error() string {
	msg := "invalid container tree: " + string(e.Reason)
	if len(e.IDs) > 0 {
		msg += " (" + strings.Join(e.IDs, ", ") + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// ContainerNode is one unit of the reconstructed forest. Leaves have nil Children.
type ContainerNode struct {
	Unit     OrganizationalUnit `json:"unit"`
	Children []*ContainerNode   `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *ContainerNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// BuildTree reconstructs the forest described by the units' parent ids.
// Roots and siblings keep their input order. A nil config uses the defaults.
func BuildTree(units []OrganizationalUnit, config *TreeConfig) ([]*ContainerNode, error) {
	if config == nil {
		config = NewTreeConfig()
	} else {
		cfg := *config
		if err := defaults.Set(&cfg); err != nil {
			return nil, fmt.Errorf("failed to set default values: %w", err)
		}
		config = &cfg
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Phase 1: index units and reject duplicate or empty ids
	byID := make(map[string]int, len(units))
	for i, unit := range units {
		if unit.ID == "" {
			return nil, &TreeError{Reason: TreeErrorEmptyID, Detail: fmt.Sprintf("unit at position %d", i)}
		}
		if _, exists := byID[unit.ID]; exists {
			return nil, &TreeError{Reason: TreeErrorDuplicateID, IDs: []string{unit.ID}}
		}
		byID[unit.ID] = i
	}

	// Phase 2: group by effective parent id
	parentOf := make(map[string]string, len(units))
	childrenMap := make(map[string][]int)
	var roots []int

	for i, unit := range units {
		parent := unit.ParentID
		if parent != "" {
			if _, exists := byID[parent]; !exists {
				if config.Orphans == OrphansReject {
					return nil, &TreeError{
						Reason: TreeErrorMissingParent,
						IDs:    []string{unit.ID},
						Detail: fmt.Sprintf("parent %q not found", parent),
					}
				}
				parent = ""
			}
		}

		if parent == "" {
			roots = append(roots, i)
			continue
		}
		parentOf[unit.ID] = parent
		childrenMap[parent] = append(childrenMap[parent], i)
	}

	// Phase 3: detect cycles
	if err := detectCycles(parentOf); err != nil {
		return nil, err
	}

	// Phase 4: expand from the roots
	forest := make([]*ContainerNode, 0, len(roots))
	for _, idx := range roots {
		node, err := buildNode(units, idx, childrenMap, config.MaxDepth, 0)
		if err != nil {
			return nil, err
		}
		forest = append(forest, node)
	}

	return forest, nil
}

func buildNode(units []OrganizationalUnit, idx int, childrenMap map[string][]int, maxDepth, depth int) (*ContainerNode, error) {
	unit := units[idx]
	if depth >= maxDepth {
		return nil, &TreeError{
			Reason: TreeErrorMaxDepth,
			IDs:    []string{unit.ID},
			Detail: fmt.Sprintf("maximum depth %d exceeded", maxDepth),
		}
	}

	node := &ContainerNode{Unit: unit}
	for _, childIdx := range childrenMap[unit.ID] {
		child, err := buildNode(units, childIdx, childrenMap, maxDepth, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}

// detectCycles walks parent links depth-first and reports the first loop found.
func detectCycles(parentOf map[string]string) error {
	visited := make(map[string]bool, len(parentOf))
	onStack := make(map[string]bool)

	var dfs func(id string, path []string) error
	dfs = func(id string, path []string) error {
		if onStack[id] {
			start := 0
			for i, p := range path {
				if p == id {
					start = i
					break
				}
			}
			return &TreeError{Reason: TreeErrorCycle, IDs: append([]string(nil), path[start:]...)}
		}
		if visited[id] {
			return nil
		}

		visited[id] = true
		onStack[id] = true

		if parent, ok := parentOf[id]; ok {
			if err := dfs(parent, append(path, id)); err != nil {
				return err
			}
		}

		onStack[id] = false
		return nil
	}

	// Iterate in a fixed order so the reported cycle is stable.
	ids := make([]string, 0, len(parentOf))
	for id := range parentOf {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		if !visited[id] {
			if err := dfs(id, nil); err != nil {
				return err
			}
		}
	}

	return nil
}

// Flatten returns the units of a forest in depth-first pre-order.
func Flatten(nodes []*ContainerNode) []OrganizationalUnit {
	var units []OrganizationalUnit
	Walk(nodes, func(node *ContainerNode, _ int) bool {
		units = append(units, node.Unit)
		return true
	})
	return units
}

// Walk visits every node in depth-first pre-order with its depth (roots are 0).
// Returning false from fn stops the walk.
func Walk(nodes []*ContainerNode, fn func(node *ContainerNode, depth int) bool) {
	var walk func([]*ContainerNode, int) bool
	walk = func(level []*ContainerNode, depth int) bool {
		for _, node := range level {
			if !fn(node, depth) || !walk(node.Children, depth+1) {
				return false
			}
		}
		return true
	}
	walk(nodes, 0)
}

// Find returns the node with the given id, or nil.
func Find(nodes []*ContainerNode, id string) *ContainerNode {
	var found *ContainerNode
	Walk(nodes, func(node *ContainerNode, _ int) bool {
		if node.Unit.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}
