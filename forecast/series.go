package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/UKumark9/scm-forecast/timeseries"
)

// minRatioSamples is the smallest weekly delivery count a delay-rate
// observation may be computed from; thinner weeks are treated as gaps and
// interpolated.
const minRatioSamples = 5

// cachedSeries memoizes a prepared series under key. Hits return a copy so
// callers can never mutate the cached snapshot.
func (e *Engine) cachedSeries(key seriesKey, build func() (*timeseries.Series, error)) (*timeseries.Series, error) {
	if s, ok := e.cache.Get(key); ok {
		return s.Copy(), nil
	}
	s, err := build()
	if err != nil {
		return nil, err
	}
	e.cache.Add(key, s.Copy())
	return s, nil
}

// finishCountSeries applies the shared tail of every count/sum builder:
// complete weekly index with zero fill, trailing history window, tail-trim.
func (e *Engine) finishCountSeries(weeks map[time.Time]float64, name string) *timeseries.Series {
	s := timeseries.FromWeekMap(weeks, name)
	if s.Len() == 0 {
		return s
	}
	s = s.ReindexWeekly(0).SinceMonths(e.opts.HistoryMonths)
	s, dropped := s.TailTrim()
	log.Info().
		Str("series", name).
		Int("weeks", s.Len()).
		Int("tail_trimmed", dropped).
		Float64("mean", s.Mean()).
		Float64("std", s.Std()).
		Msg("weekly series prepared")
	return s
}

// demandSeries builds weekly order-item counts.
func (e *Engine) demandSeries() (*timeseries.Series, error) {
	key := seriesKey{metric: MetricDemand, months: e.opts.HistoryMonths}
	return e.cachedSeries(key, func() (*timeseries.Series, error) {
		weeks := make(map[time.Time]float64)
		for _, item := range e.data.Items {
			t, ok := e.purchasedAt[item.OrderID]
			if !ok {
				continue
			}
			weeks[timeseries.WeekStart(t)]++
		}
		return e.finishCountSeries(weeks, "demand"), nil
	})
}

// revenueSeries builds weekly payment-value sums.
func (e *Engine) revenueSeries() (*timeseries.Series, error) {
	if len(e.data.Payments) == 0 {
		return nil, ErrMissingPayments
	}
	key := seriesKey{metric: MetricRevenue, months: e.opts.HistoryMonths}
	return e.cachedSeries(key, func() (*timeseries.Series, error) {
		weeks := make(map[time.Time]float64)
		for _, p := range e.data.Payments {
			t, ok := e.purchasedAt[p.OrderID]
			if !ok {
				continue
			}
			weeks[timeseries.WeekStart(t)] += p.Value
		}
		return e.finishCountSeries(weeks, "revenue"), nil
	})
}

// delayRateSeries builds the weekly late-delivery percentage. Weeks with
// fewer than minRatioSamples comparable deliveries become gaps and are
// linearly interpolated; the series is clamped to [0,100] and never
// tail-trimmed.
func (e *Engine) delayRateSeries() (*timeseries.Series, error) {
	key := seriesKey{metric: MetricDelayRate, months: e.opts.HistoryMonths}
	return e.cachedSeries(key, func() (*timeseries.Series, error) {
		total := make(map[time.Time]float64)
		late := make(map[time.Time]float64)
		for _, o := range e.data.Orders {
			if o.DeliveredAt.IsZero() || o.EstimatedDelivery.IsZero() {
				continue
			}
			week := timeseries.WeekStart(o.PurchasedAt)
			total[week]++
			if o.Late() {
				late[week]++
			}
		}
		if len(total) == 0 {
			return nil, ErrMissingDeliveryData
		}

		weeks := make(map[time.Time]float64)
		for week, n := range total {
			if n < minRatioSamples {
				continue
			}
			weeks[week] = late[week] / n * 100
		}
		if len(weeks) == 0 {
			return nil, fmt.Errorf("%w: no week has %d or more comparable deliveries",
				ErrMissingDeliveryData, minRatioSamples)
		}

		s := timeseries.FromWeekMap(weeks, "delay_rate").
			ReindexWeekly(math.NaN()).
			Interpolate().
			Clamp(0, 100).
			SinceMonths(e.opts.HistoryMonths)
		log.Info().
			Str("series", "delay_rate").
			Int("weeks", s.Len()).
			Float64("mean", s.Mean()).
			Float64("std", s.Std()).
			Msg("weekly series prepared")
		return s, nil
	})
}

// categorySeries builds weekly order-item counts for one product category.
// An empty category resolves to the top category by all-time volume.
func (e *Engine) categorySeries(category string) (*timeseries.Series, string, error) {
	if e.categoryByProduct == nil {
		return nil, "", ErrMissingProducts
	}
	if category == "" {
		top, err := e.topCategory()
		if err != nil {
			return nil, "", err
		}
		category = top
	}

	key := seriesKey{metric: MetricCategoryDemand, category: category, months: e.opts.HistoryMonths}
	s, err := e.cachedSeries(key, func() (*timeseries.Series, error) {
		weeks := make(map[time.Time]float64)
		for _, item := range e.data.Items {
			if e.categoryByProduct[item.ProductID] != category {
				continue
			}
			t, ok := e.purchasedAt[item.OrderID]
			if !ok {
				continue
			}
			weeks[timeseries.WeekStart(t)]++
		}
		if len(weeks) == 0 {
			return nil, fmt.Errorf("%w: no orders for category %q", ErrNoCategoryData, category)
		}
		return e.finishCountSeries(weeks, "demand["+category+"]"), nil
	})
	if err != nil {
		return nil, "", err
	}
	return s, category, nil
}

// categoryVolume counts order items per category, optionally restricted to
// purchases at or after cutoff.
func (e *Engine) categoryVolume(cutoff time.Time) map[string]int {
	counts := make(map[string]int)
	for _, item := range e.data.Items {
		cat, ok := e.categoryByProduct[item.ProductID]
		if !ok || cat == "" {
			continue
		}
		t, ok := e.purchasedAt[item.OrderID]
		if !ok || t.Before(cutoff) {
			continue
		}
		counts[cat]++
	}
	return counts
}

// topCategory returns the highest-volume category across the full dataset.
func (e *Engine) topCategory() (string, error) {
	ranked := rankCategories(e.categoryVolume(time.Time{}))
	if len(ranked) == 0 {
		return "", ErrNoCategoryData
	}
	return ranked[0], nil
}

// rankCategories orders categories by descending volume, breaking ties
// alphabetically so results are deterministic.
func rankCategories(counts map[string]int) []string {
	ranked := make([]string, 0, len(counts))
	for cat := range counts {
		ranked = append(ranked, cat)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	return ranked
}
