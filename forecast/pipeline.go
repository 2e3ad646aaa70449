package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/UKumark9/scm-forecast/ordersearch"
	"github.com/UKumark9/scm-forecast/sarima"
	"github.com/UKumark9/scm-forecast/timeseries"
)

// MinWeeks is the minimum usable history after aggregation and tail-trim.
// Shorter series are refused rather than silently extrapolated.
const MinWeeks = 16

// trendBand scales the historical standard deviation when classifying the
// forecast tail: low-variance series register a trend on a small deviation,
// noisy series require more. Empirically tuned, pinned by tests.
const trendBand = 0.2

const confidenceLevel = 0.95

// Trend classifies where the forecast tail sits relative to history.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// ForecastPoint is one forecasted week with its confidence bounds.
type ForecastPoint struct {
	Date     time.Time
	Forecast float64
	Lower    float64
	Upper    float64
}

// ForecastResult is the complete outcome of one pipeline run. It is created
// fresh per invocation and never mutated afterwards.
type ForecastResult struct {
	Metric      Metric
	Category    string // set for category forecasts
	HorizonDays int
	WeeksAhead  int

	Points []ForecastPoint

	HistWeeks int
	HistMean  float64
	HistStd   float64
	HistMax   float64

	MAPE           float64
	MAPEProvenance Provenance

	Order         sarima.Order
	AIC           float64
	OrderFallback bool

	Trend   Trend
	Summary string
}

// ForecastAvg returns the mean of the point forecasts.
func (r *ForecastResult) ForecastAvg() float64 {
	if len(r.Points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range r.Points {
		sum += p.Forecast
	}
	return sum / float64(len(r.Points))
}

// ForecastRange returns the minimum and maximum point forecasts.
func (r *ForecastResult) ForecastRange() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range r.Points {
		lo = math.Min(lo, p.Forecast)
		hi = math.Max(hi, p.Forecast)
	}
	return lo, hi
}

// weeksAhead converts a horizon in days to whole forecast weeks.
func weeksAhead(horizonDays int) int {
	w := int(math.Round(float64(horizonDays) / 7))
	if w < 1 {
		w = 1
	}
	return w
}

// run is the single pipeline behind every public operation: evaluate on a
// trailing holdout, refit on the full series, forecast forward with bounds,
// classify the trend.
func (e *Engine) run(ctx context.Context, series *timeseries.Series, metric Metric, category string, horizonDays int, fast bool) (*ForecastResult, error) {
	n := series.Len()
	if n < MinWeeks {
		return nil, fmt.Errorf("%w: only %d weeks of usable data (need >= %d)",
			ErrInsufficientHistory, n, MinWeeks)
	}
	weeks := weeksAhead(horizonDays)

	holdout := holdoutSize(n)
	train := series.Slice(0, n-holdout)
	test := series.Slice(n-holdout, n)

	cfg := &ordersearch.Config{Fast: fast, Workers: e.opts.Workers}
	sel, err := ordersearch.Search(ctx, train, cfg)
	if err != nil {
		return nil, err
	}

	// The order selected on the training prefix is reused for the final
	// fit; only the evaluator's model is discarded.
	mape := 0.0
	provenance := ProvenanceWalkForward
	if m, wfErr := walkForwardMAPE(train, test, sel.Order); wfErr != nil {
		log.Warn().
			Str("series", series.Name).
			Err(wfErr).
			Msg("walk-forward evaluation failed; falling back to in-sample MAPE")
		provenance = ProvenanceInSample
	} else {
		mape = m
	}

	model := sarima.New(sel.Order)
	if err := model.Fit(series.Copy()); err != nil {
		return nil, fmt.Errorf("final model fit: %w", err)
	}
	if provenance == ProvenanceInSample {
		mape = inSampleMAPE(model, series)
	}

	fc, lower, upper, err := model.ForecastWithInterval(weeks, confidenceLevel)
	if err != nil {
		return nil, fmt.Errorf("forward forecast: %w", err)
	}

	hi := math.Inf(1)
	if metric.ratio() {
		hi = 100
	}
	points := make([]ForecastPoint, weeks)
	date := series.LastDate()
	for i := range points {
		date = date.Add(timeseries.Week)
		points[i] = ForecastPoint{
			Date:     date,
			Forecast: clampTo(fc[i], 0, hi),
			Lower:    clampTo(lower[i], 0, hi),
			Upper:    clampTo(upper[i], 0, hi),
		}
	}

	mean, std := series.Mean(), series.Std()
	lastFC := points[len(points)-1].Forecast
	trend := TrendStable
	switch {
	case lastFC > mean+trendBand*std:
		trend = TrendIncreasing
	case lastFC < mean-trendBand*std:
		trend = TrendDecreasing
	}

	result := &ForecastResult{
		Metric:         metric,
		Category:       category,
		HorizonDays:    horizonDays,
		WeeksAhead:     weeks,
		Points:         points,
		HistWeeks:      n,
		HistMean:       mean,
		HistStd:        std,
		HistMax:        series.Max(),
		MAPE:           mape,
		MAPEProvenance: provenance,
		Order:          sel.Order,
		AIC:            sel.AIC,
		OrderFallback:  sel.Fallback,
		Trend:          trend,
	}
	result.Summary = result.summary()
	return result, nil
}

func clampTo(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ForecastDemand forecasts weekly order counts over the horizon in days.
func (e *Engine) ForecastDemand(ctx context.Context, horizonDays int) (*ForecastResult, error) {
	series, err := e.demandSeries()
	if err != nil {
		return nil, err
	}
	return e.run(ctx, series, MetricDemand, "", horizonDays, false)
}

// ForecastRevenue forecasts weekly payment totals. Requires payment data.
func (e *Engine) ForecastRevenue(ctx context.Context, horizonDays int) (*ForecastResult, error) {
	series, err := e.revenueSeries()
	if err != nil {
		return nil, err
	}
	return e.run(ctx, series, MetricRevenue, "", horizonDays, false)
}

// ForecastDelayRate forecasts the weekly percentage of late deliveries,
// clipped to [0,100]. Requires both actual and estimated delivery
// timestamps.
func (e *Engine) ForecastDelayRate(ctx context.Context, horizonDays int) (*ForecastResult, error) {
	series, err := e.delayRateSeries()
	if err != nil {
		return nil, err
	}
	return e.run(ctx, series, MetricDelayRate, "", horizonDays, false)
}

// ForecastCategory forecasts weekly order counts for one product category.
// An empty category defaults to the top category by volume. Requires
// product metadata.
func (e *Engine) ForecastCategory(ctx context.Context, horizonDays int, category string) (*ForecastResult, error) {
	series, name, err := e.categorySeries(category)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, series, MetricCategoryDemand, name, horizonDays, false)
}
