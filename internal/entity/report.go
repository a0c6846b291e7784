package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregationNode is one node of the drill-down summary tree. A parent's four
// totals are always the exact sum of its children's totals; children keys are
// group labels, insertion order carries no meaning.
type AggregationNode struct {
	TotalQuantity           int
	TotalRevenue            decimal.Decimal
	TotalInstallmentRevenue decimal.Decimal
	TotalNormalizedRevenue  decimal.Decimal
	Children                map[string]*AggregationNode
}

// TreeNode is the ordered, presentation-facing form of an AggregationNode.
type TreeNode struct {
	Label                   string
	TotalQuantity           int
	TotalRevenue            decimal.Decimal
	TotalInstallmentRevenue decimal.Decimal
	TotalNormalizedRevenue  decimal.Decimal
	Children                []*TreeNode
}

// SortKey selects the metric a tree level is ordered by.
type SortKey string

const (
	SortByQuantity          SortKey = "totalQuantity"
	SortByRevenue           SortKey = "totalRevenue"
	SortByNormalizedRevenue SortKey = "totalNormalizedRevenue"
	// SortByAvgOrderValue orders by revenue/quantity, computed at sort time.
	SortByAvgOrderValue SortKey = "aov"
	// SortByInstallmentPct orders by installmentRevenue/revenue*100,
	// computed at sort time.
	SortByInstallmentPct SortKey = "installmentPercent"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SellerSummary is one row of the per-seller performance table. Every seller
// name seen anywhere in the scoped row set appears, including sellers whose
// only activity is pass-through collection.
type SellerSummary struct {
	Name              string
	ActualRevenue     decimal.Decimal
	NormalizedRevenue decimal.Decimal
	// EfficiencyPct is (normalized - actual) / actual * 100, 0 when actual is 0.
	EfficiencyPct     float64
	CustomerReach     int
	AvgOrderValue     decimal.Decimal
	InstallmentPct    float64
	UnitsSold         int
	PassThroughOrders int
	InstallmentOrders int
}

// TrendBucket holds the two revenue sums of one trend bucket.
type TrendBucket struct {
	ActualRevenue     decimal.Decimal
	NormalizedRevenue decimal.Decimal
}

// DailyBucket is a TrendBucket pinned to a calendar date.
type DailyBucket struct {
	Date time.Time
	TrendBucket
}

// Trend is the output of one trend-bucketing pass: revenue by calendar day
// and by the six fixed 3-hour shifts (keys 1..6).
type Trend struct {
	Daily  map[string]*DailyBucket
	Shifts map[int]*TrendBucket
}

// TrendMetric selects which revenue sum a derived period series reports.
type TrendMetric string

const (
	TrendActual     TrendMetric = "actual"
	TrendNormalized TrendMetric = "normalized"
)

// PeriodPoint is one weekly or monthly trend point. Change is the fractional
// change against the previous period in chronological order, nil for the
// first period or when the previous total was 0.
type PeriodPoint struct {
	Label  string
	Start  time.Time
	Value  decimal.Decimal
	Change *float64
}

// Overview holds the dashboard headline KPIs for one recomputation.
type Overview struct {
	NormalizedRevenue  decimal.Decimal
	ActualRevenue      decimal.Decimal
	InstallmentRevenue decimal.Decimal
	// PendingShipmentRevenue sums unshipped, not-cancelled, not-returned rows
	// of the scoped set regardless of payment state.
	PendingShipmentRevenue decimal.Decimal
	InstallmentOrders      int
	PassThroughOrders      int
	EfficiencyPct          float64
	InstallmentPct         float64
}

// IndustrySlice is one cell of the per-industry revenue grid.
type IndustrySlice struct {
	Industry string
	Revenue  decimal.Decimal
	Quantity int
}

// Report is the full output of one pipeline run over a filtered dataset.
type Report struct {
	Overview Overview
	Sellers  []SellerSummary
	Industry []IndustrySlice
	Trend    Trend
	Weekly   []PeriodPoint
	Monthly  []PeriodPoint
	Tree     []*TreeNode
}

// FilterOptions lists the selectable values for the UI filter panels.
type FilterOptions struct {
	Warehouses []string
	Statuses   []string
	Creators   []string
	Industries []string
}
