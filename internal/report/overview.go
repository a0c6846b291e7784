package report

import (
	"sort"

	"github.com/hdnguyen/salesboard/internal/category"
	"github.com/hdnguyen/salesboard/internal/entity"
)

// BuildOverview computes the headline KPIs. Revenue figures come from the
// valid rows; pass-through counts and pending-shipment revenue come from the
// scoped rows, which include sales not yet collected or already excluded
// from validity.
func (e *Engine) BuildOverview(scoped, valid []entity.TransactionRow) entity.Overview {
	var o entity.Overview

	for i := range valid {
		row := &valid[i]
		price := row.UnitPrice
		o.NormalizedRevenue = o.NormalizedRevenue.Add(price.Mul(e.rules.ConversionFactor(row.IndustryCode, row.CategoryCode)))
		if e.classifier.IsRevenueCounted(row) {
			o.ActualRevenue = o.ActualRevenue.Add(price)
		}
		if e.classifier.IsInstallmentForm(row) {
			o.InstallmentRevenue = o.InstallmentRevenue.Add(price)
			o.InstallmentOrders++
		}
	}

	for i := range scoped {
		row := &scoped[i]
		if e.classifier.IsPassThroughForm(row) {
			o.PassThroughOrders++
		}
		if row.ShippedStatus == entity.Unshipped &&
			normalizeStatus(row.CancelStatus) == statusNotCancelled &&
			normalizeStatus(row.ReturnStatus) == statusNotReturned {
			o.PendingShipmentRevenue = o.PendingShipmentRevenue.Add(row.UnitPrice)
		}
	}

	if o.ActualRevenue.IsPositive() {
		o.EfficiencyPct = o.NormalizedRevenue.Sub(o.ActualRevenue).Div(o.ActualRevenue).InexactFloat64() * 100
		o.InstallmentPct = o.InstallmentRevenue.Div(o.ActualRevenue).InexactFloat64() * 100
	}
	return o
}

// IndustryGrid rolls valid rows up per promoted industry, drops the
// curated-out industries and zero-revenue groups, and orders by revenue
// descending.
func (e *Engine) IndustryGrid(valid []entity.TransactionRow) []entity.IndustrySlice {
	revenue := make(map[string]*entity.IndustrySlice)
	for i := range valid {
		row := &valid[i]
		industry := e.resolver.Industry(row.CategoryCode)
		if industry == "" || e.rules.IsExcludedIndustry(industry) {
			continue
		}
		s, ok := revenue[industry]
		if !ok {
			s = &entity.IndustrySlice{Industry: industry}
			revenue[industry] = s
		}
		s.Revenue = s.Revenue.Add(row.UnitPrice)
		s.Quantity += row.Quantity
	}

	out := make([]entity.IndustrySlice, 0, len(revenue))
	for _, s := range revenue {
		if s.Revenue.IsPositive() {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Industry < out[j].Industry
	})
	return out
}

// Options collects the distinct filterable values of a dataset plus the
// industry list from the category map.
func Options(rows []entity.TransactionRow, m *category.Map) entity.FilterOptions {
	warehouses := make(map[string]struct{})
	statuses := make(map[string]struct{})
	creators := make(map[string]struct{})
	for i := range rows {
		if rows[i].WarehouseCode != "" {
			warehouses[rows[i].WarehouseCode] = struct{}{}
		}
		if rows[i].RecordStatus != "" {
			statuses[rows[i].RecordStatus] = struct{}{}
		}
		if rows[i].CreatorName != "" {
			creators[rows[i].CreatorName] = struct{}{}
		}
	}
	return entity.FilterOptions{
		Warehouses: sortedKeys(warehouses),
		Statuses:   sortedKeys(statuses),
		Creators:   sortedKeys(creators),
		Industries: m.Industries(),
	}
}

func sortedKeys(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
