// Package report is the aggregation and summarization engine: pure
// reductions from a flat list of transaction rows plus a category map into
// the overview KPIs, the seller performance table, the trend series and the
// drill-down summary tree. Every run recomputes wholesale from the full
// scoped row set; nothing is cached between recomputations.
package report

import (
	"github.com/hdnguyen/salesboard/internal/category"
	"github.com/hdnguyen/salesboard/internal/entity"
	"github.com/hdnguyen/salesboard/internal/rules"
)

// DefaultLevelOrder is the intermediate drill-down order between the fixed
// industry and product levels.
var DefaultLevelOrder = []string{"subgroup", "manufacturer", "creator"}

// ComputeOptions selects the presentation shape of one report run.
type ComputeOptions struct {
	// Levels orders the intermediate drill-down levels. Empty means
	// DefaultLevelOrder.
	Levels      []string
	SortKey     entity.SortKey
	SortDir     entity.SortDirection
	TrendMetric entity.TrendMetric
}

func (o *ComputeOptions) withDefaults() {
	if len(o.Levels) == 0 {
		o.Levels = DefaultLevelOrder
	}
	if o.SortKey == "" {
		o.SortKey = entity.SortByRevenue
	}
	if o.SortDir == "" {
		o.SortDir = entity.SortDesc
	}
	if o.TrendMetric == "" {
		o.TrendMetric = entity.TrendActual
	}
}

// Service runs the full pipeline for one recomputation request.
type Service struct {
	rules *rules.Rules
}

func NewService(r *rules.Rules) *Service {
	return &Service{rules: r}
}

func (s *Service) Rules() *rules.Rules {
	return s.rules
}

// Compute applies the filters, classifies the scoped rows and runs the four
// independent reducers. The result replaces any previous report wholesale.
func (s *Service) Compute(rows []entity.TransactionRow, m *category.Map, f entity.FilterSet, opts ComputeOptions) (*entity.Report, error) {
	opts.withDefaults()

	engine := NewEngine(category.NewResolver(m, s.rules), s.rules)

	scoped := Apply(rows, BuildPredicate(f))
	valid := engine.ValidSales(scoped)

	levels, err := engine.Levels(opts.Levels)
	if err != nil {
		return nil, err
	}

	trend := engine.BucketTrend(valid)
	return &entity.Report{
		Overview: engine.BuildOverview(scoped, valid),
		Sellers:  engine.SummarizeSellers(scoped, valid),
		Industry: engine.IndustryGrid(valid),
		Trend:    trend,
		Weekly:   AggregateByWeek(trend, opts.TrendMetric),
		Monthly:  AggregateByMonth(trend, opts.TrendMetric),
		Tree:     SortTree(Rank(engine.Aggregate(valid, levels)), opts.SortKey, opts.SortDir),
	}, nil
}
