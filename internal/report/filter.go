package report

import (
	"github.com/hdnguyen/salesboard/internal/entity"
)

// BuildPredicate composes the filter set into one predicate: a pure AND of
// the active dimensions. Rows without a parsed creation date never match.
func BuildPredicate(f entity.FilterSet) func(*entity.TransactionRow) bool {
	return func(row *entity.TransactionRow) bool {
		if row.CreatedAt.IsZero() {
			return false
		}
		if f.DateStart != nil && row.CreatedAt.Before(*f.DateStart) {
			return false
		}
		if f.DateEnd != nil && row.CreatedAt.After(*f.DateEnd) {
			return false
		}
		if f.Warehouse != "" && f.Warehouse != "all" && row.WarehouseCode != f.Warehouse {
			return false
		}
		if f.Shipped != "" && f.Shipped != "all" && string(row.ShippedStatus) != f.Shipped {
			return false
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, row.RecordStatus) {
			return false
		}
		if len(f.Creators) > 0 && !contains(f.Creators, row.CreatorName) {
			return false
		}
		return true
	}
}

// Apply returns the rows matching the predicate, preserving order.
func Apply(rows []entity.TransactionRow, pred func(*entity.TransactionRow) bool) []entity.TransactionRow {
	out := make([]entity.TransactionRow, 0, len(rows))
	for i := range rows {
		if pred(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
