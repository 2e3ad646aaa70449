package forecast

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultTopN is the category count when the caller does not specify one.
const DefaultTopN = 5

// CategorySummary is one row of the cross-category comparison.
type CategorySummary struct {
	Category    string
	HistMean    float64
	ForecastAvg float64
	Trend       Trend
	MAPE        float64
	Provenance  Provenance
}

// CategoryForecastSet holds per-category forecasts for a top-N request.
// Partial results are valid output: categories that could not be forecast
// appear in Skipped with the reason instead of aborting the others.
type CategoryForecastSet struct {
	HorizonDays int
	WeeksAhead  int
	Results     map[string]*ForecastResult
	Skipped     map[string]string
	Ranking     []CategorySummary // descending by forecast average
	Summary     string
}

// ForecastTopCategories runs the forecast pipeline in fast mode for the N
// highest-volume categories of the trailing history window. Requires
// product metadata.
func (e *Engine) ForecastTopCategories(ctx context.Context, horizonDays, topN int) (*CategoryForecastSet, error) {
	if e.categoryByProduct == nil {
		return nil, ErrMissingProducts
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	var latest time.Time
	for _, o := range e.data.Orders {
		if o.PurchasedAt.After(latest) {
			latest = o.PurchasedAt
		}
	}
	cutoff := latest.AddDate(0, -e.opts.HistoryMonths, 0)

	ranked := rankCategories(e.categoryVolume(cutoff))
	if len(ranked) == 0 {
		return nil, ErrNoCategoryData
	}
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	workers := e.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*ForecastResult, len(ranked))
	skipReasons := make([]string, len(ranked))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, cat := range ranked {
		i, cat := i, cat
		g.Go(func() error {
			series, _, err := e.categorySeries(cat)
			if err != nil {
				skipReasons[i] = err.Error()
				return nil
			}
			res, err := e.run(gctx, series, MetricCategoryDemand, cat, horizonDays, true)
			if err != nil {
				// Cancellation aborts the whole request; anything else
				// only skips this category.
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				log.Warn().Str("category", cat).Err(err).Msg("category forecast skipped")
				skipReasons[i] = err.Error()
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := &CategoryForecastSet{
		HorizonDays: horizonDays,
		WeeksAhead:  weeksAhead(horizonDays),
		Results:     make(map[string]*ForecastResult),
		Skipped:     make(map[string]string),
	}
	for i, cat := range ranked {
		if results[i] != nil {
			set.Results[cat] = results[i]
			set.Ranking = append(set.Ranking, CategorySummary{
				Category:    cat,
				HistMean:    results[i].HistMean,
				ForecastAvg: results[i].ForecastAvg(),
				Trend:       results[i].Trend,
				MAPE:        results[i].MAPE,
				Provenance:  results[i].MAPEProvenance,
			})
		} else {
			set.Skipped[cat] = skipReasons[i]
		}
	}
	if len(set.Results) == 0 {
		return nil, fmt.Errorf("could not generate forecasts for any of the top %d categories", len(ranked))
	}

	sort.Slice(set.Ranking, func(i, j int) bool {
		if set.Ranking[i].ForecastAvg != set.Ranking[j].ForecastAvg {
			return set.Ranking[i].ForecastAvg > set.Ranking[j].ForecastAvg
		}
		return set.Ranking[i].Category < set.Ranking[j].Category
	})
	set.Summary = set.summary()
	return set, nil
}
