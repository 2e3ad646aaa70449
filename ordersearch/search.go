// Package ordersearch selects SARIMA orders by bounded AIC grid search.
package ordersearch

import (
	"context"
	"math"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/UKumark9/scm-forecast/sarima"
	"github.com/UKumark9/scm-forecast/stats"
	"github.com/UKumark9/scm-forecast/timeseries"
)

// Period is the fixed seasonal period: a weekly series has about four weeks
// per month, so m = 4 encodes monthly seasonality (not annual).
const Period = 4

// adfThreshold is the unit-root p-value above which the series is treated
// as non-stationary and differenced once.
const adfThreshold = 0.05

// Config controls the grid search.
type Config struct {
	// Fast restricts the grid to p,q,P,Q in {0,1} with D fixed at 0
	// (16 combinations instead of up to 72). Used when many series must
	// be fit in one request; trades a little accuracy for throughput.
	Fast bool
	// Workers bounds the number of concurrent fits. Defaults to
	// GOMAXPROCS. Each combination is independent, so parallel search
	// changes nothing but wall-clock time.
	Workers int
}

// DefaultConfig returns the full-grid configuration.
func DefaultConfig() *Config {
	return &Config{Workers: runtime.GOMAXPROCS(0)}
}

// Result is the outcome of a grid search.
type Result struct {
	Order     sarima.Order
	AIC       float64
	Evaluated int  // combinations that fitted successfully
	Fallback  bool // every combination failed; AIC is not comparable
}

type candidate struct {
	order sarima.Order
	aic   float64
	ok    bool
}

// ChooseDifferencing decides the non-seasonal differencing order from an
// augmented Dickey-Fuller test on the series: d = 1 when the unit-root null
// cannot be rejected (p > 0.05), d = 0 otherwise. A failed test defaults
// conservatively to d = 1.
func ChooseDifferencing(series *timeseries.Series) int {
	result := stats.ADF(series, 0)
	if result == nil || result.PValue > adfThreshold {
		return 1
	}
	return 0
}

// grid enumerates the candidate orders in a fixed sequence, skipping any
// combination where total differencing d + D exceeds one.
func grid(d int, fast bool) []sarima.Order {
	pq := []int{0, 1, 2}
	seasonalD := []int{0, 1}
	if fast {
		pq = []int{0, 1}
		seasonalD = []int{0}
	}

	var orders []sarima.Order
	for _, p := range pq {
		for _, q := range pq {
			for _, sp := range []int{0, 1} {
				for _, sq := range []int{0, 1} {
					for _, sd := range seasonalD {
						if d+sd > 1 {
							continue
						}
						orders = append(orders, sarima.Order{
							P: p, D: d, Q: q,
							SP: sp, SD: sd, SQ: sq, M: Period,
						})
					}
				}
			}
		}
	}
	return orders
}

// fallbackOrder is the fixed default used when every grid combination
// fails: a usable forecast beats no forecast, but its AIC is meaningless.
func fallbackOrder(d int, fast bool) sarima.Order {
	if fast {
		return sarima.Order{P: 1, D: d, Q: 1, SP: 0, SD: 0, SQ: 1, M: Period}
	}
	return sarima.Order{P: 1, D: d, Q: 1, SP: 1, SD: 1 - d, SQ: 1, M: Period}
}

// Search runs the AIC grid search over SARIMA orders for the series.
// Failed fits are skipped, not errors; if every combination fails the
// fixed fallback order is returned with Fallback set. The context is
// checked between combinations, so a cancelled search returns promptly.
func Search(ctx context.Context, series *timeseries.Series, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	d := ChooseDifferencing(series)
	orders := grid(d, cfg.Fast)
	candidates := make([]candidate, len(orders))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, order := range orders {
		i, order := i, order
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			model := sarima.New(order)
			if err := model.Fit(series.Copy()); err != nil {
				log.Debug().
					Str("series", series.Name).
					Interface("order", order).
					Err(err).
					Msg("grid combination skipped")
				return nil
			}
			candidates[i] = candidate{order: order, aic: model.AIC, ok: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := Result{AIC: math.Inf(1)}
	for _, c := range candidates {
		// A fit with non-finite AIC (zero residual variance) cannot be
		// ranked; treat it like a failed combination.
		if !c.ok || math.IsNaN(c.aic) || math.IsInf(c.aic, 1) {
			continue
		}
		best.Evaluated++
		// Strict less-than keeps the earliest combination on ties, so
		// results do not depend on worker scheduling.
		if c.aic < best.AIC {
			best.Order = c.order
			best.AIC = c.aic
		}
	}

	if best.Evaluated == 0 {
		best.Order = fallbackOrder(d, cfg.Fast)
		best.AIC = math.Inf(1)
		best.Fallback = true
		log.Warn().
			Str("series", series.Name).
			Msg("every grid combination failed; using fallback order")
		return &best, nil
	}

	log.Info().
		Str("series", series.Name).
		Interface("order", best.Order).
		Float64("aic", best.AIC).
		Int("evaluated", best.Evaluated).
		Msg("order selected")
	return &best, nil
}
