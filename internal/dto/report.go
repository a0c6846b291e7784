package dto

import (
	"sort"

	"github.com/hdnguyen/salesboard/internal/entity"
	"github.com/shopspring/decimal"
)

// Wire form of a computed report. Decimals travel as strings so consumers
// keep exact values; percentages are plain floats.
type Report struct {
	Overview Overview        `json:"overview"`
	Sellers  []SellerSummary `json:"sellers"`
	Industry []IndustrySlice `json:"industry"`
	Trend    Trend           `json:"trend"`
	Weekly   []PeriodPoint   `json:"weekly"`
	Monthly  []PeriodPoint   `json:"monthly"`
	Tree     []TreeNode      `json:"tree"`
}

type Overview struct {
	NormalizedRevenue      string  `json:"normalizedRevenue"`
	ActualRevenue          string  `json:"actualRevenue"`
	InstallmentRevenue     string  `json:"installmentRevenue"`
	PendingShipmentRevenue string  `json:"pendingShipmentRevenue"`
	InstallmentOrders      int     `json:"installmentOrders"`
	PassThroughOrders      int     `json:"passThroughOrders"`
	EfficiencyPct          float64 `json:"efficiencyPct"`
	InstallmentPct         float64 `json:"installmentPct"`
}

type SellerSummary struct {
	Name              string  `json:"name"`
	ActualRevenue     string  `json:"actualRevenue"`
	NormalizedRevenue string  `json:"normalizedRevenue"`
	EfficiencyPct     float64 `json:"efficiencyPct"`
	CustomerReach     int     `json:"customerReach"`
	AvgOrderValue     string  `json:"avgOrderValue"`
	InstallmentPct    float64 `json:"installmentPct"`
	UnitsSold         int     `json:"unitsSold"`
	PassThroughOrders int     `json:"passThroughOrders"`
	InstallmentOrders int     `json:"installmentOrders"`
}

type IndustrySlice struct {
	Industry string `json:"industry"`
	Revenue  string `json:"revenue"`
	Quantity int    `json:"quantity"`
}

type Trend struct {
	Daily  []DailyBucket `json:"daily"`
	Shifts []ShiftBucket `json:"shifts"`
}

type DailyBucket struct {
	Date              string `json:"date"`
	ActualRevenue     string `json:"actualRevenue"`
	NormalizedRevenue string `json:"normalizedRevenue"`
}

type ShiftBucket struct {
	Shift             int    `json:"shift"`
	ActualRevenue     string `json:"actualRevenue"`
	NormalizedRevenue string `json:"normalizedRevenue"`
}

type PeriodPoint struct {
	Label  string   `json:"label"`
	Start  string   `json:"start"`
	Value  string   `json:"value"`
	Change *float64 `json:"change"`
}

type TreeNode struct {
	Label                   string     `json:"label"`
	TotalQuantity           int        `json:"totalQuantity"`
	TotalRevenue            string     `json:"totalRevenue"`
	TotalInstallmentRevenue string     `json:"totalInstallmentRevenue"`
	TotalNormalizedRevenue  string     `json:"totalNormalizedRevenue"`
	Children                []TreeNode `json:"children,omitempty"`
}

type FilterOptions struct {
	Warehouses []string `json:"warehouses"`
	Statuses   []string `json:"statuses"`
	Creators   []string `json:"creators"`
	Industries []string `json:"industries"`
}

const dateLayout = "2006-01-02"

func ConvertEntityReport(r *entity.Report) *Report {
	if r == nil {
		return nil
	}
	return &Report{
		Overview: overviewToDto(r.Overview),
		Sellers:  sellersToDto(r.Sellers),
		Industry: industryToDto(r.Industry),
		Trend:    trendToDto(r.Trend),
		Weekly:   periodsToDto(r.Weekly),
		Monthly:  periodsToDto(r.Monthly),
		Tree:     treeToDto(r.Tree),
	}
}

func ConvertEntityFilterOptions(o entity.FilterOptions) FilterOptions {
	return FilterOptions{
		Warehouses: o.Warehouses,
		Statuses:   o.Statuses,
		Creators:   o.Creators,
		Industries: o.Industries,
	}
}

func overviewToDto(o entity.Overview) Overview {
	return Overview{
		NormalizedRevenue:      o.NormalizedRevenue.String(),
		ActualRevenue:          o.ActualRevenue.String(),
		InstallmentRevenue:     o.InstallmentRevenue.String(),
		PendingShipmentRevenue: o.PendingShipmentRevenue.String(),
		InstallmentOrders:      o.InstallmentOrders,
		PassThroughOrders:      o.PassThroughOrders,
		EfficiencyPct:          o.EfficiencyPct,
		InstallmentPct:         o.InstallmentPct,
	}
}

func sellersToDto(list []entity.SellerSummary) []SellerSummary {
	if len(list) == 0 {
		return nil
	}
	out := make([]SellerSummary, len(list))
	for i, s := range list {
		out[i] = SellerSummary{
			Name:              s.Name,
			ActualRevenue:     s.ActualRevenue.String(),
			NormalizedRevenue: s.NormalizedRevenue.String(),
			EfficiencyPct:     s.EfficiencyPct,
			CustomerReach:     s.CustomerReach,
			AvgOrderValue:     s.AvgOrderValue.String(),
			InstallmentPct:    s.InstallmentPct,
			UnitsSold:         s.UnitsSold,
			PassThroughOrders: s.PassThroughOrders,
			InstallmentOrders: s.InstallmentOrders,
		}
	}
	return out
}

func industryToDto(list []entity.IndustrySlice) []IndustrySlice {
	if len(list) == 0 {
		return nil
	}
	out := make([]IndustrySlice, len(list))
	for i, s := range list {
		out[i] = IndustrySlice{
			Industry: s.Industry,
			Revenue:  s.Revenue.String(),
			Quantity: s.Quantity,
		}
	}
	return out
}

func trendToDto(t entity.Trend) Trend {
	daily := make([]DailyBucket, 0, len(t.Daily))
	keys := make([]string, 0, len(t.Daily))
	for k := range t.Daily {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b := t.Daily[k]
		daily = append(daily, DailyBucket{
			Date:              k,
			ActualRevenue:     b.ActualRevenue.String(),
			NormalizedRevenue: b.NormalizedRevenue.String(),
		})
	}

	shifts := make([]ShiftBucket, 0, len(t.Shifts))
	for shift := 1; shift <= len(t.Shifts); shift++ {
		b, ok := t.Shifts[shift]
		if !ok {
			b = &entity.TrendBucket{ActualRevenue: decimal.Zero, NormalizedRevenue: decimal.Zero}
		}
		shifts = append(shifts, ShiftBucket{
			Shift:             shift,
			ActualRevenue:     b.ActualRevenue.String(),
			NormalizedRevenue: b.NormalizedRevenue.String(),
		})
	}
	return Trend{Daily: daily, Shifts: shifts}
}

func periodsToDto(list []entity.PeriodPoint) []PeriodPoint {
	if len(list) == 0 {
		return nil
	}
	out := make([]PeriodPoint, len(list))
	for i, p := range list {
		out[i] = PeriodPoint{
			Label:  p.Label,
			Start:  p.Start.Format(dateLayout),
			Value:  p.Value.String(),
			Change: p.Change,
		}
	}
	return out
}

func treeToDto(nodes []*entity.TreeNode) []TreeNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]TreeNode, len(nodes))
	for i, n := range nodes {
		out[i] = TreeNode{
			Label:                   n.Label,
			TotalQuantity:           n.TotalQuantity,
			TotalRevenue:            n.TotalRevenue.String(),
			TotalInstallmentRevenue: n.TotalInstallmentRevenue.String(),
			TotalNormalizedRevenue:  n.TotalNormalizedRevenue.String(),
			Children:                treeToDto(n.Children),
		}
	}
	return out
}
