package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdnguyen/salesboard/internal/entity"
)

func mustLevels(t *testing.T, e *Engine, names ...string) []GroupingLevel {
	t.Helper()
	levels, err := e.Levels(names)
	require.NoError(t, err)
	return levels
}

// assertSumInvariant walks the tree checking that every parent's totals are
// the exact sum of its children's.
func assertSumInvariant(t *testing.T, tree map[string]*entity.AggregationNode) {
	t.Helper()
	for label, node := range tree {
		if len(node.Children) == 0 {
			continue
		}
		var qty int
		rev, inst, norm := decimal.Zero, decimal.Zero, decimal.Zero
		for _, c := range node.Children {
			qty += c.TotalQuantity
			rev = rev.Add(c.TotalRevenue)
			inst = inst.Add(c.TotalInstallmentRevenue)
			norm = norm.Add(c.TotalNormalizedRevenue)
		}
		assert.Equal(t, node.TotalQuantity, qty, "quantity at %q", label)
		assert.True(t, node.TotalRevenue.Equal(rev), "revenue at %q", label)
		assert.True(t, node.TotalInstallmentRevenue.Equal(inst), "installment at %q", label)
		assert.True(t, node.TotalNormalizedRevenue.Equal(norm), "normalized at %q", label)
		assertSumInvariant(t, node.Children)
	}
}

func rootTotals(tree map[string]*entity.AggregationNode) (int, decimal.Decimal) {
	var qty int
	rev := decimal.Zero
	for _, n := range tree {
		qty += n.TotalQuantity
		rev = rev.Add(n.TotalRevenue)
	}
	return qty, rev
}

func TestLevels(t *testing.T) {
	e := testEngine(t)

	levels := mustLevels(t, e, "subgroup", "manufacturer", "creator")
	require.Len(t, levels, 4)
	assert.Equal(t, "product", levels[3].Name)

	_, err := e.Levels([]string{"warehouse"})
	assert.Error(t, err)
}

func TestAggregate(t *testing.T) {
	e := testEngine(t)
	levels := mustLevels(t, e, "subgroup", "manufacturer", "creator")

	t.Run("promoted subgroup becomes top level", func(t *testing.T) {
		rows := []entity.TransactionRow{
			row(withCodes("1116 - Máy lọc nước", "1116 - Máy lọc nước RO"), withPrice("100")),
			row(withCodes("1116 - Máy lọc nước", "1116 - Máy lọc nước RO"), withPrice("200")),
			row(withPrice("50")),
		}
		tree := e.Aggregate(rows, levels)

		require.Contains(t, tree, "Máy lọc nước")
		require.Contains(t, tree, "Gia dụng")
		assert.True(t, tree["Máy lọc nước"].TotalRevenue.Equal(dec("300")))
		assert.Equal(t, 2, tree["Máy lọc nước"].TotalQuantity)
		assert.True(t, tree["Gia dụng"].TotalRevenue.Equal(dec("50")))
		assertSumInvariant(t, tree)
	})

	t.Run("normalized revenue uses the factor table", func(t *testing.T) {
		rows := []entity.TransactionRow{
			row(withCodes("164 - VAS", "4479 - Dịch Vụ Bảo Hiểm"), withPrice("1000")),
		}
		tree := e.Aggregate(rows, levels)
		require.Contains(t, tree, "VAS")
		assert.True(t, tree["VAS"].TotalNormalizedRevenue.Equal(dec("4180")))
		assert.True(t, tree["VAS"].TotalRevenue.Equal(dec("1000")))
	})

	t.Run("installment revenue only on installment forms", func(t *testing.T) {
		rows := []entity.TransactionRow{
			row(withPrice("100")),
			row(withPrice("200"), withForm(installmentForm)),
		}
		tree := e.Aggregate(rows, levels)
		assert.True(t, tree["Gia dụng"].TotalInstallmentRevenue.Equal(dec("200")))
		assert.True(t, tree["Gia dụng"].TotalRevenue.Equal(dec("300")))
	})

	t.Run("unresolvable rows are dropped", func(t *testing.T) {
		rows := []entity.TransactionRow{
			row(withCodes("1 - ICT", "99 - Office")),         // excluded by allow-list
			row(withCodes("1 - ICT", "000 - Không tồn tại")), // unmapped
			row(withCodes("1 - ICT", "22 - Laptop")),
		}
		tree := e.Aggregate(rows, levels)
		assert.Len(t, tree, 1)
		assert.Contains(t, tree, "Laptop")
	})

	t.Run("totals conserved under level reorder", func(t *testing.T) {
		rows := []entity.TransactionRow{
			row(withPrice("100"), withCreator("A"), withManufacturer("Philips")),
			row(withPrice("250"), withCreator("B"), withManufacturer("Sunhouse"), withQuantity(3)),
			row(withCodes("1116 - Máy lọc nước", "1116 - Máy lọc nước RO"), withPrice("75"), withCreator("A")),
		}
		a := e.Aggregate(rows, mustLevels(t, e, "manufacturer", "creator"))
		b := e.Aggregate(rows, mustLevels(t, e, "creator", "manufacturer"))

		qa, ra := rootTotals(a)
		qb, rb := rootTotals(b)
		assert.Equal(t, qa, qb)
		assert.True(t, ra.Equal(rb))
		assertSumInvariant(t, a)
		assertSumInvariant(t, b)
	})

	t.Run("empty fields fall back to labels", func(t *testing.T) {
		rows := []entity.TransactionRow{
			row(withManufacturer(""), withProduct("")),
		}
		tree := e.Aggregate(rows, mustLevels(t, e, "manufacturer"))
		manu := tree["Gia dụng"].Children
		require.Contains(t, manu, "Không rõ")
		assert.Contains(t, manu["Không rõ"].Children, "Không rõ")
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, e.Aggregate(nil, levels))
	})
}

func TestSortTree(t *testing.T) {
	nodes := []*entity.TreeNode{
		{Label: "B", TotalQuantity: 4, TotalRevenue: dec("200"), TotalInstallmentRevenue: dec("100"), Children: []*entity.TreeNode{
			{Label: "B2", TotalRevenue: dec("50")},
			{Label: "B1", TotalRevenue: dec("150")},
		}},
		{Label: "A", TotalQuantity: 1, TotalRevenue: dec("500")},
		{Label: "C", TotalQuantity: 10, TotalRevenue: dec("100"), TotalInstallmentRevenue: dec("100")},
	}

	labels := func(ns []*entity.TreeNode) []string {
		out := make([]string, len(ns))
		for i, n := range ns {
			out[i] = n.Label
		}
		return out
	}

	t.Run("orders every level", func(t *testing.T) {
		got := SortTree(nodes, entity.SortByRevenue, entity.SortDesc)
		assert.Equal(t, []string{"A", "B", "C"}, labels(got))
		assert.Equal(t, []string{"B1", "B2"}, labels(got[1].Children))

		got = SortTree(nodes, entity.SortByRevenue, entity.SortAsc)
		assert.Equal(t, []string{"C", "B", "A"}, labels(got))
	})

	t.Run("derived metrics", func(t *testing.T) {
		// AOV: A=500, B=50, C=10
		got := SortTree(nodes, entity.SortByAvgOrderValue, entity.SortDesc)
		assert.Equal(t, []string{"A", "B", "C"}, labels(got))

		// installment share: C=100%, B=50%, A=0%
		got = SortTree(nodes, entity.SortByInstallmentPct, entity.SortDesc)
		assert.Equal(t, []string{"C", "B", "A"}, labels(got))
	})

	t.Run("zero denominators sort as zero", func(t *testing.T) {
		zeros := []*entity.TreeNode{
			{Label: "X"},
			{Label: "Y", TotalQuantity: 2, TotalRevenue: dec("10")},
		}
		got := SortTree(zeros, entity.SortByAvgOrderValue, entity.SortDesc)
		assert.Equal(t, []string{"Y", "X"}, labels(got))
	})

	t.Run("idempotent and pure", func(t *testing.T) {
		once := SortTree(nodes, entity.SortByQuantity, entity.SortDesc)
		twice := SortTree(once, entity.SortByQuantity, entity.SortDesc)
		assert.Equal(t, labels(once), labels(twice))

		// the input order is untouched
		assert.Equal(t, []string{"B", "A", "C"}, labels(nodes))
		assert.Equal(t, []string{"B2", "B1"}, labels(nodes[0].Children))
	})
}

func TestRank(t *testing.T) {
	e := testEngine(t)
	rows := []entity.TransactionRow{
		row(withPrice("100")),
		row(withCodes("1116 - Máy lọc nước", "1116 - Máy lọc nước RO"), withPrice("200")),
	}
	tree := e.Aggregate(rows, mustLevels(t, e, "subgroup"))
	ranked := Rank(tree)

	require.Len(t, ranked, 2)
	for _, n := range ranked {
		src, ok := tree[n.Label]
		require.True(t, ok)
		assert.True(t, n.TotalRevenue.Equal(src.TotalRevenue))
		assert.Len(t, n.Children, len(src.Children))
	}
}
