package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/hdnguyen/salesboard/internal/entity"
	"github.com/shopspring/decimal"
)

const dailyKeyLayout = "2006-01-02"

// BucketTrend buckets rows into calendar days and the six fixed 3-hour
// shifts. Only cash-form and installment-form rows contribute; everything
// else is skipped even when otherwise valid. Dates stay in the timezone the
// timestamp already carries.
func (e *Engine) BucketTrend(rows []entity.TransactionRow) entity.Trend {
	t := entity.Trend{
		Daily:  make(map[string]*entity.DailyBucket),
		Shifts: make(map[int]*entity.TrendBucket, 6),
	}
	for s := 1; s <= 6; s++ {
		t.Shifts[s] = &entity.TrendBucket{}
	}

	for i := range rows {
		row := &rows[i]
		if !e.classifier.IsRevenueCounted(row) {
			continue
		}
		if row.CreatedAt.IsZero() {
			continue
		}

		price := row.UnitPrice
		normalized := price.Mul(e.rules.ConversionFactor(row.IndustryCode, row.CategoryCode))

		key := row.CreatedAt.Format(dailyKeyLayout)
		day, ok := t.Daily[key]
		if !ok {
			y, m, d := row.CreatedAt.Date()
			day = &entity.DailyBucket{Date: time.Date(y, m, d, 0, 0, 0, 0, row.CreatedAt.Location())}
			t.Daily[key] = day
		}
		day.ActualRevenue = day.ActualRevenue.Add(price)
		day.NormalizedRevenue = day.NormalizedRevenue.Add(normalized)

		shift := t.Shifts[shiftOf(row.CreatedAt.Hour())]
		shift.ActualRevenue = shift.ActualRevenue.Add(price)
		shift.NormalizedRevenue = shift.NormalizedRevenue.Add(normalized)
	}
	return t
}

// shiftOf maps a local hour to its shift: the first shift runs to 09:00,
// then every 3 hours, with shift 6 covering 21:00 to midnight.
func shiftOf(hour int) int {
	switch {
	case hour < 9:
		return 1
	case hour < 12:
		return 2
	case hour < 15:
		return 3
	case hour < 18:
		return 4
	case hour < 21:
		return 5
	default:
		return 6
	}
}

// AggregateByWeek reduces the daily buckets into ISO weeks (Monday start)
// with the fractional change against the previous week in sorted order.
func AggregateByWeek(t entity.Trend, metric entity.TrendMetric) []entity.PeriodPoint {
	totals := make(map[string]*entity.PeriodPoint)
	for _, key := range sortedDailyKeys(t) {
		day := t.Daily[key]
		isoYear, isoWeek := day.Date.ISOWeek()
		wk := fmt.Sprintf("%04d-W%02d", isoYear, isoWeek)
		p, ok := totals[wk]
		if !ok {
			p = &entity.PeriodPoint{
				Label: fmt.Sprintf("Tuần %d", isoWeek),
				Start: weekStart(day.Date),
			}
			totals[wk] = p
		}
		p.Value = p.Value.Add(metricValue(&day.TrendBucket, metric))
	}
	return withChanges(totals)
}

// AggregateByMonth reduces the daily buckets into calendar months with the
// fractional change against the previous month in sorted order.
func AggregateByMonth(t entity.Trend, metric entity.TrendMetric) []entity.PeriodPoint {
	totals := make(map[string]*entity.PeriodPoint)
	for _, key := range sortedDailyKeys(t) {
		day := t.Daily[key]
		y, m, _ := day.Date.Date()
		mk := fmt.Sprintf("%04d-%02d", y, int(m))
		p, ok := totals[mk]
		if !ok {
			p = &entity.PeriodPoint{
				Label: fmt.Sprintf("Thg %02d/%02d", int(m), y%100),
				Start: time.Date(y, m, 1, 0, 0, 0, 0, day.Date.Location()),
			}
			totals[mk] = p
		}
		p.Value = p.Value.Add(metricValue(&day.TrendBucket, metric))
	}
	return withChanges(totals)
}

// weekStart returns the Monday of the date's week.
func weekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func metricValue(b *entity.TrendBucket, metric entity.TrendMetric) decimal.Decimal {
	if metric == entity.TrendNormalized {
		return b.NormalizedRevenue
	}
	return b.ActualRevenue
}

func sortedDailyKeys(t entity.Trend) []string {
	keys := make([]string, 0, len(t.Daily))
	for k := range t.Daily {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// withChanges orders the period totals chronologically and fills in the
// fractional change, nil for the first period or a zero prior total.
func withChanges(totals map[string]*entity.PeriodPoint) []entity.PeriodPoint {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]entity.PeriodPoint, 0, len(keys))
	last := decimal.Zero
	for i, k := range keys {
		p := *totals[k]
		if i > 0 && last.IsPositive() {
			change := p.Value.Sub(last).Div(last).InexactFloat64()
			p.Change = &change
		}
		last = p.Value
		out = append(out, p)
	}
	return out
}
