package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdnguyen/salesboard/internal/entity"
)

func TestBucketTrend(t *testing.T) {
	e := testEngine(t)

	t.Run("shift boundaries", func(t *testing.T) {
		rows := []entity.TransactionRow{
			row(withTime(at(1, 8)), withPrice("100")),
			row(withTime(at(1, 10)), withPrice("100")),
			row(withTime(at(1, 16)), withPrice("100")),
			row(withTime(at(1, 22)), withPrice("100")),
		}
		tr := e.BucketTrend(rows)

		require.Len(t, tr.Shifts, 6)
		for shift, want := range map[int]string{1: "100", 2: "100", 3: "0", 4: "100", 5: "0", 6: "100"} {
			assert.True(t, tr.Shifts[shift].ActualRevenue.Equal(dec(want)), "shift %d", shift)
		}
	})

	t.Run("daily buckets", func(t *testing.T) {
		rows := []entity.TransactionRow{
			row(withTime(at(1, 8)), withPrice("100")),
			row(withTime(at(1, 20)), withPrice("150")),
			row(withTime(at(2, 9)), withPrice("40")),
		}
		tr := e.BucketTrend(rows)

		require.Len(t, tr.Daily, 2)
		assert.True(t, tr.Daily["2025-08-01"].ActualRevenue.Equal(dec("250")))
		assert.True(t, tr.Daily["2025-08-02"].ActualRevenue.Equal(dec("40")))
		assert.Equal(t, at(1, 0), tr.Daily["2025-08-01"].Date)
	})

	t.Run("only revenue-counted rows contribute", func(t *testing.T) {
		rows := []entity.TransactionRow{
			row(withTime(at(1, 10)), withPrice("100")),
			row(withTime(at(1, 10)), withPrice("999"), withForm(passThroughForm)),
			row(withTime(at(1, 10)), withPrice("999"), withForm("Xuất khác")),
			row(withTime(time.Time{}), withPrice("999")),
		}
		tr := e.BucketTrend(rows)
		require.Len(t, tr.Daily, 1)
		assert.True(t, tr.Daily["2025-08-01"].ActualRevenue.Equal(dec("100")))
	})

	t.Run("normalized sum carries the factor", func(t *testing.T) {
		rows := []entity.TransactionRow{
			row(withTime(at(1, 10)), withPrice("1000"), withCodes("164 - VAS", "4479 - Dịch Vụ Bảo Hiểm")),
		}
		tr := e.BucketTrend(rows)
		assert.True(t, tr.Daily["2025-08-01"].NormalizedRevenue.Equal(dec("4180")))
		assert.True(t, tr.Shifts[2].NormalizedRevenue.Equal(dec("4180")))
	})
}

func trendOf(e *Engine, rows []entity.TransactionRow) entity.Trend {
	return e.BucketTrend(rows)
}

func TestAggregateByWeek(t *testing.T) {
	e := testEngine(t)
	// Mon Aug 4, Fri Aug 8 (week 32); Tue Aug 12 (week 33)
	tr := trendOf(e, []entity.TransactionRow{
		row(withTime(at(4, 10)), withPrice("100")),
		row(withTime(at(8, 10)), withPrice("50")),
		row(withTime(at(12, 10)), withPrice("300")),
	})

	got := AggregateByWeek(tr, entity.TrendActual)
	require.Len(t, got, 2)

	assert.Equal(t, "Tuần 32", got[0].Label)
	assert.Equal(t, at(4, 0), got[0].Start)
	assert.True(t, got[0].Value.Equal(dec("150")))
	assert.Nil(t, got[0].Change)

	assert.Equal(t, "Tuần 33", got[1].Label)
	assert.Equal(t, at(11, 0), got[1].Start)
	assert.True(t, got[1].Value.Equal(dec("300")))
	require.NotNil(t, got[1].Change)
	assert.InDelta(t, 1, *got[1].Change, 1e-9)
}

func TestAggregateByMonth(t *testing.T) {
	e := testEngine(t)
	tr := trendOf(e, []entity.TransactionRow{
		row(withTime(time.Date(2025, 6, 5, 10, 0, 0, 0, time.Local)), withPrice("100")),
		row(withTime(time.Date(2025, 7, 5, 10, 0, 0, 0, time.Local)), withPrice("150")),
		row(withTime(time.Date(2025, 8, 5, 10, 0, 0, 0, time.Local)), withPrice("120")),
	})

	got := AggregateByMonth(tr, entity.TrendActual)
	require.Len(t, got, 3)

	assert.Equal(t, "Thg 06/25", got[0].Label)
	assert.Nil(t, got[0].Change)

	require.NotNil(t, got[1].Change)
	assert.InDelta(t, 0.5, *got[1].Change, 1e-9)

	require.NotNil(t, got[2].Change)
	assert.InDelta(t, -0.2, *got[2].Change, 1e-9)
}

func TestPeriodChangeNilOnZeroPrior(t *testing.T) {
	tr := entity.Trend{
		Daily: map[string]*entity.DailyBucket{
			"2025-06-05": {Date: time.Date(2025, 6, 5, 0, 0, 0, 0, time.Local)},
			"2025-07-05": {Date: time.Date(2025, 7, 5, 0, 0, 0, 0, time.Local)},
		},
		Shifts: map[int]*entity.TrendBucket{},
	}
	tr.Daily["2025-07-05"].ActualRevenue = dec("200")

	got := AggregateByMonth(tr, entity.TrendActual)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].Change)
	// prior month totalled zero
	assert.Nil(t, got[1].Change)
}
