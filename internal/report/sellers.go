package report

import (
	"sort"

	"github.com/hdnguyen/salesboard/internal/entity"
	"github.com/shopspring/decimal"
)

type sellerAcc struct {
	actual      decimal.Decimal
	normalized  decimal.Decimal
	units       int
	installment decimal.Decimal
	instOrders  int
	passThrough int
	customers   map[string]struct{}
}

// SummarizeSellers builds the per-seller performance table in two passes.
// The first pass over the scoped rows registers every seller and counts
// pass-through orders, so a seller whose only activity is collection still
// gets a row. The second pass over the valid rows accumulates revenue,
// distinct-customer reach and installment metrics.
func (e *Engine) SummarizeSellers(scoped, valid []entity.TransactionRow) []entity.SellerSummary {
	accs := make(map[string]*sellerAcc)
	get := func(name string) *sellerAcc {
		acc, ok := accs[name]
		if !ok {
			acc = &sellerAcc{customers: make(map[string]struct{})}
			accs[name] = acc
		}
		return acc
	}

	for i := range scoped {
		row := &scoped[i]
		if row.CreatorName == "" {
			continue
		}
		acc := get(row.CreatorName)
		if e.classifier.IsPassThroughForm(row) {
			acc.passThrough++
		}
	}

	for i := range valid {
		row := &valid[i]
		if row.CreatorName == "" {
			continue
		}
		acc := get(row.CreatorName)
		price := row.UnitPrice
		acc.actual = acc.actual.Add(price)
		acc.normalized = acc.normalized.Add(price.Mul(e.rules.ConversionFactor(row.IndustryCode, row.CategoryCode)))
		acc.units += row.Quantity
		if row.CustomerName != "" {
			acc.customers[row.CustomerName] = struct{}{}
		}
		if e.classifier.IsInstallmentForm(row) {
			acc.installment = acc.installment.Add(price)
			acc.instOrders++
		}
	}

	out := make([]entity.SellerSummary, 0, len(accs))
	for name, acc := range accs {
		s := entity.SellerSummary{
			Name:              name,
			ActualRevenue:     acc.actual,
			NormalizedRevenue: acc.normalized,
			CustomerReach:     len(acc.customers),
			UnitsSold:         acc.units,
			PassThroughOrders: acc.passThrough,
			InstallmentOrders: acc.instOrders,
		}
		if acc.actual.IsPositive() {
			s.EfficiencyPct = acc.normalized.Sub(acc.actual).Div(acc.actual).InexactFloat64() * 100
			s.InstallmentPct = acc.installment.Div(acc.actual).InexactFloat64() * 100
		}
		if s.CustomerReach > 0 {
			s.AvgOrderValue = acc.actual.Div(decimal.NewFromInt(int64(s.CustomerReach)))
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ActualRevenue.Equal(out[j].ActualRevenue) {
			return out[i].ActualRevenue.GreaterThan(out[j].ActualRevenue)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
