package report

import (
	"strings"

	"github.com/hdnguyen/salesboard/internal/entity"
)

// TreeController tracks the presentation state of the drill-down tree:
// which node IDs are expanded, the current sort, and the level order. The
// data itself always comes from a fresh Aggregate/SortTree run; the
// controller only decides when a rebuild is needed.
type TreeController struct {
	expanded   map[string]struct{}
	sortKey    entity.SortKey
	sortDir    entity.SortDirection
	levelOrder []string
}

func NewTreeController(levelOrder []string, key entity.SortKey, dir entity.SortDirection) *TreeController {
	return &TreeController{
		expanded:   make(map[string]struct{}),
		sortKey:    key,
		sortDir:    dir,
		levelOrder: append([]string(nil), levelOrder...),
	}
}

// NodeID derives a child's ID from its parent's. The root's children use
// parentID "".
func NodeID(parentID, label string) string {
	if parentID == "" {
		return label
	}
	return parentID + "/" + label
}

func (c *TreeController) IsExpanded(id string) bool {
	_, ok := c.expanded[id]
	return ok
}

// ToggleExpand flips a node's expansion and returns the new state.
// Collapsing a node collapses all of its descendants too, so nothing stays
// marked visible under a closed parent.
func (c *TreeController) ToggleExpand(id string) bool {
	if _, ok := c.expanded[id]; ok {
		delete(c.expanded, id)
		prefix := id + "/"
		for k := range c.expanded {
			if strings.HasPrefix(k, prefix) {
				delete(c.expanded, k)
			}
		}
		return false
	}
	c.expanded[id] = struct{}{}
	return true
}

func (c *TreeController) Sort() (entity.SortKey, entity.SortDirection) {
	return c.sortKey, c.sortDir
}

// SetSort changes the sort; the tree only needs re-sorting, never a rebuild.
func (c *TreeController) SetSort(key entity.SortKey, dir entity.SortDirection) {
	c.sortKey = key
	c.sortDir = dir
}

func (c *TreeController) LevelOrder() []string {
	return append([]string(nil), c.levelOrder...)
}

// SetLevelOrder changes the intermediate level order and reports whether the
// tree shape changed. A changed order always needs a full aggregation
// rebuild and resets the expansion state, which refers to paths that no
// longer exist.
func (c *TreeController) SetLevelOrder(order []string) bool {
	if equalStrings(c.levelOrder, order) {
		return false
	}
	c.levelOrder = append([]string(nil), order...)
	c.expanded = make(map[string]struct{})
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
