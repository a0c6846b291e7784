package entity

import "time"

// FilterSet is the active filter configuration for one recomputation.
// Nil bounds and empty slices mean "no constraint on that dimension".
type FilterSet struct {
	DateStart *time.Time
	DateEnd   *time.Time
	// Warehouse and Shipped accept "" or "all" for no constraint.
	Warehouse string
	Shipped   string
	Statuses  []string
	Creators  []string
}
