package report

import (
	"fmt"
	"sort"

	"github.com/hdnguyen/salesboard/internal/category"
	"github.com/hdnguyen/salesboard/internal/entity"
	"github.com/hdnguyen/salesboard/internal/rules"
	"github.com/shopspring/decimal"
)

// Labels for rows whose source field is empty. The fallback subgroup label
// differs from the generic one in the source data and has to stay that way.
const (
	unknownLabel     = "Không rõ"
	fallbackSubgroup = "Khác"
)

// GroupingLevel is one named level of the drill-down tree: a pure function
// from a row to its group label at that level.
type GroupingLevel struct {
	Name string
	Key  func(*entity.TransactionRow) string
}

// Engine runs the grouping and summation passes for one dataset. It is
// stateless between calls; every method fully recomputes from its inputs.
type Engine struct {
	resolver   *category.Resolver
	rules      *rules.Rules
	classifier *Classifier
}

func NewEngine(resolver *category.Resolver, r *rules.Rules) *Engine {
	return &Engine{
		resolver:   resolver,
		rules:      r,
		classifier: NewClassifier(r),
	}
}

func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

// ValidSales returns the subset of rows counting as completed sales.
func (e *Engine) ValidSales(rows []entity.TransactionRow) []entity.TransactionRow {
	return Apply(rows, func(row *entity.TransactionRow) bool {
		return e.classifier.IsValidSale(row)
	})
}

// Levels resolves intermediate level names into grouping levels. The first
// tree level (industry) and the last (product) are fixed; callers order only
// what sits in between.
func (e *Engine) Levels(names []string) ([]GroupingLevel, error) {
	levels := make([]GroupingLevel, 0, len(names)+1)
	for _, name := range names {
		lv, ok := e.level(name)
		if !ok {
			return nil, fmt.Errorf("unknown grouping level %q", name)
		}
		levels = append(levels, lv)
	}
	product, _ := e.level("product")
	return append(levels, product), nil
}

func (e *Engine) level(name string) (GroupingLevel, bool) {
	switch name {
	case "subgroup":
		return GroupingLevel{Name: name, Key: func(row *entity.TransactionRow) string {
			if s := e.resolver.Subgroup(row.CategoryCode); s != "" {
				return s
			}
			return fallbackSubgroup
		}}, true
	case "manufacturer":
		return GroupingLevel{Name: name, Key: func(row *entity.TransactionRow) string {
			return orUnknown(row.Manufacturer)
		}}, true
	case "creator":
		return GroupingLevel{Name: name, Key: func(row *entity.TransactionRow) string {
			return orUnknown(row.CreatorName)
		}}, true
	case "product":
		return GroupingLevel{Name: name, Key: func(row *entity.TransactionRow) string {
			return orUnknown(row.ProductName)
		}}, true
	}
	return GroupingLevel{}, false
}

func orUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}

// Aggregate walks every row's label path through the levels, accumulating
// the four totals at every node along the path. Ancestor totals are exact
// sums of their descendants by construction, with no second pass. Rows with
// no resolvable industry are dropped, not bucketed into a fallback.
func (e *Engine) Aggregate(rows []entity.TransactionRow, levels []GroupingLevel) map[string]*entity.AggregationNode {
	root := make(map[string]*entity.AggregationNode)
	for i := range rows {
		row := &rows[i]
		industry := e.resolver.Industry(row.CategoryCode)
		if industry == "" {
			continue
		}

		price := row.UnitPrice
		normalized := price.Mul(e.rules.ConversionFactor(row.IndustryCode, row.CategoryCode))
		installment := decimal.Zero
		if e.classifier.IsInstallmentForm(row) {
			installment = price
		}

		children := root
		walk := func(label string) {
			node, ok := children[label]
			if !ok {
				node = &entity.AggregationNode{Children: make(map[string]*entity.AggregationNode)}
				children[label] = node
			}
			node.TotalQuantity += row.Quantity
			node.TotalRevenue = node.TotalRevenue.Add(price)
			node.TotalInstallmentRevenue = node.TotalInstallmentRevenue.Add(installment)
			node.TotalNormalizedRevenue = node.TotalNormalizedRevenue.Add(normalized)
			children = node.Children
		}
		walk(industry)
		for _, lv := range levels {
			walk(lv.Key(row))
		}
	}
	return root
}

// Rank converts the aggregation tree into its ordered presentation form.
// The output order is unspecified until SortTree is applied.
func Rank(tree map[string]*entity.AggregationNode) []*entity.TreeNode {
	out := make([]*entity.TreeNode, 0, len(tree))
	for label, node := range tree {
		out = append(out, &entity.TreeNode{
			Label:                   label,
			TotalQuantity:           node.TotalQuantity,
			TotalRevenue:            node.TotalRevenue,
			TotalInstallmentRevenue: node.TotalInstallmentRevenue,
			TotalNormalizedRevenue:  node.TotalNormalizedRevenue,
			Children:                Rank(node.Children),
		})
	}
	return out
}

// SortTree returns a copy of the tree with every level's children ordered by
// the metric, recursively and independently at every depth. Derived metrics
// (average order value, installment percentage) are computed at sort time.
func SortTree(nodes []*entity.TreeNode, key entity.SortKey, dir entity.SortDirection) []*entity.TreeNode {
	out := make([]*entity.TreeNode, len(nodes))
	for i, n := range nodes {
		c := *n
		c.Children = SortTree(n.Children, key, dir)
		out[i] = &c
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := sortMetric(out[i], key), sortMetric(out[j], key)
		if dir == entity.SortAsc {
			return a < b
		}
		return a > b
	})
	return out
}

func sortMetric(n *entity.TreeNode, key entity.SortKey) float64 {
	switch key {
	case entity.SortByQuantity:
		return float64(n.TotalQuantity)
	case entity.SortByNormalizedRevenue:
		return n.TotalNormalizedRevenue.InexactFloat64()
	case entity.SortByAvgOrderValue:
		if n.TotalQuantity > 0 {
			return n.TotalRevenue.InexactFloat64() / float64(n.TotalQuantity)
		}
		return 0
	case entity.SortByInstallmentPct:
		if n.TotalRevenue.IsPositive() {
			return n.TotalInstallmentRevenue.InexactFloat64() / n.TotalRevenue.InexactFloat64() * 100
		}
		return 0
	default:
		return n.TotalRevenue.InexactFloat64()
	}
}
