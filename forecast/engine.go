package forecast

import (
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/UKumark9/scm-forecast/timeseries"
)

// Failure sentinels. Callers match them with errors.Is; messages carry the
// specifics (missing table, actual week count).
var (
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrMissingPayments     = errors.New("payments table not provided")
	ErrMissingDeliveryData = errors.New("orders lack delivery timestamps")
	ErrMissingProducts     = errors.New("products table not provided")
	ErrNoCategoryData      = errors.New("no category data found")
)

// Metric identifies what a weekly series measures.
type Metric int

const (
	MetricDemand Metric = iota
	MetricRevenue
	MetricDelayRate
	MetricCategoryDemand
)

func (m Metric) String() string {
	switch m {
	case MetricDemand:
		return "demand"
	case MetricRevenue:
		return "revenue"
	case MetricDelayRate:
		return "delay_rate"
	case MetricCategoryDemand:
		return "category_demand"
	default:
		return "unknown"
	}
}

// ratio reports whether the metric is a bounded percentage. Ratio series
// interpolate gaps instead of zero-filling, skip tail-trim (a low ratio
// week is meaningful, not truncation noise), and clip forecasts to [0,100].
func (m Metric) ratio() bool {
	return m == MetricDelayRate
}

// Options configures an Engine.
type Options struct {
	HistoryMonths int // trailing window for every series (default 12)
	Workers       int // worker pool for grid search and category fits (default GOMAXPROCS)
	CacheSize     int // prepared-series cache entries (default 32)
}

// DefaultOptions returns the production defaults.
func DefaultOptions() *Options {
	return &Options{HistoryMonths: 12, CacheSize: 32}
}

// seriesKey identifies one prepared series in the cache.
type seriesKey struct {
	metric   Metric
	category string
	months   int
}

// Engine runs SARIMA forecasts over one dataset snapshot. Construct it once
// per snapshot; prepared series are memoized per (metric, category, history
// window) until InvalidateCache is called.
type Engine struct {
	data *Dataset
	opts Options

	cache *lru.Cache[seriesKey, *timeseries.Series]

	purchasedAt       map[string]time.Time
	categoryByProduct map[string]string
}

// NewEngine creates an engine over the dataset.
func NewEngine(data *Dataset, opts *Options) (*Engine, error) {
	if data == nil || len(data.Orders) == 0 {
		return nil, errors.New("dataset must contain orders")
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	resolved := *opts
	if resolved.HistoryMonths <= 0 {
		resolved.HistoryMonths = 12
	}
	if resolved.CacheSize <= 0 {
		resolved.CacheSize = 32
	}

	cache, err := lru.New[seriesKey, *timeseries.Series](resolved.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("series cache: %w", err)
	}

	e := &Engine{
		data:        data,
		opts:        resolved,
		cache:       cache,
		purchasedAt: make(map[string]time.Time, len(data.Orders)),
	}
	for _, o := range data.Orders {
		e.purchasedAt[o.ID] = o.PurchasedAt
	}
	if len(data.Products) > 0 {
		e.categoryByProduct = make(map[string]string, len(data.Products))
		for _, p := range data.Products {
			e.categoryByProduct[p.ID] = p.Category
		}
	}
	return e, nil
}

// InvalidateCache drops every memoized series. Call it if the underlying
// dataset snapshot is replaced.
func (e *Engine) InvalidateCache() {
	e.cache.Purge()
}
