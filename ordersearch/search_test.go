package ordersearch

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/UKumark9/scm-forecast/timeseries"
)

func weeklySeries(values []float64) *timeseries.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, len(values))
	for i := range dates {
		dates[i] = start.Add(time.Duration(i) * timeseries.Week)
	}
	s, _ := timeseries.New(dates, values)
	return s
}

func seasonalDemand(n int) []float64 {
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal := 15 * math.Sin(2*math.Pi*float64(i)/4)
		noise := float64(i%5-2) / 2
		values[i] = 100 + seasonal + noise
	}
	return values
}

func TestGridNeverOverDifferences(t *testing.T) {
	for _, fast := range []bool{false, true} {
		for _, d := range []int{0, 1} {
			for _, order := range grid(d, fast) {
				if order.TotalDifferencing() > 1 {
					t.Errorf("grid(d=%d, fast=%v) emitted %s with total differencing %d",
						d, fast, order, order.TotalDifferencing())
				}
				if order.M != Period {
					t.Errorf("grid emitted seasonal period %d, want %d", order.M, Period)
				}
			}
		}
	}
}

func TestGridSizes(t *testing.T) {
	// Full grid with d=0: 3*3 non-seasonal x 2*2 seasonal x 2 seasonal
	// differencing choices.
	if got := len(grid(0, false)); got != 72 {
		t.Errorf("Full grid (d=0) has %d combinations, want 72", got)
	}
	// d=1 halves the seasonal-differencing choices.
	if got := len(grid(1, false)); got != 36 {
		t.Errorf("Full grid (d=1) has %d combinations, want 36", got)
	}
	if got := len(grid(0, true)); got != 16 {
		t.Errorf("Fast grid has %d combinations, want 16", got)
	}
}

func TestGridDeterministicOrder(t *testing.T) {
	a, b := grid(1, false), grid(1, false)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Grid enumeration differs at index %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestFallbackOrder(t *testing.T) {
	full := fallbackOrder(1, false)
	if full.D != 1 || full.SD != 0 {
		t.Errorf("Full fallback (d=1) = %s, seasonal differencing must complement d", full)
	}
	if full.TotalDifferencing() > 1 {
		t.Errorf("Full fallback over-differences: %s", full)
	}

	fast := fallbackOrder(0, true)
	if fast.SD != 0 || fast.SP != 0 {
		t.Errorf("Fast fallback = %s, want no seasonal AR or differencing", fast)
	}
}

func TestChooseDifferencing(t *testing.T) {
	// A strongly mean-reverting series needs no differencing.
	n := 80
	stationary := make([]float64, n)
	for i := 1; i < n; i++ {
		v := math.Sin(float64(i)*12.9898+78.233) * 43758.5453
		noise := v - math.Floor(v) - 0.5
		stationary[i] = 0.3*stationary[i-1] + noise
	}
	if d := ChooseDifferencing(weeklySeries(stationary)); d != 0 {
		t.Errorf("ChooseDifferencing(mean-reverting) = %d, want 0", d)
	}

	// A trending series keeps its unit root under the constant-only test.
	trending := make([]float64, n)
	for i := range trending {
		trending[i] = float64(i)*2 + float64(i%3)
	}
	if d := ChooseDifferencing(weeklySeries(trending)); d != 1 {
		t.Errorf("ChooseDifferencing(trending) = %d, want 1", d)
	}

	// Too short for the ADF test: difference conservatively.
	if d := ChooseDifferencing(weeklySeries([]float64{1, 2, 3})); d != 1 {
		t.Errorf("ChooseDifferencing(short) = %d, want 1", d)
	}
}

func TestSearchSelectsOrder(t *testing.T) {
	series := weeklySeries(seasonalDemand(48))
	series.Name = "demand"

	result, err := Search(context.Background(), series, DefaultConfig())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	t.Logf("Selected %s with AIC %.2f over %d candidates", result.Order, result.AIC, result.Evaluated)

	if result.Fallback {
		t.Fatal("Search fell back on a well-conditioned series")
	}
	if result.Evaluated == 0 {
		t.Error("No combinations evaluated")
	}
	if math.IsInf(result.AIC, 1) {
		t.Error("Selected order has infinite AIC")
	}
	if result.Order.TotalDifferencing() > 1 {
		t.Errorf("Selected order %s over-differences", result.Order)
	}
}

func TestSearchDeterministic(t *testing.T) {
	series := weeklySeries(seasonalDemand(40))

	first, err := Search(context.Background(), series, &Config{Workers: 4})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	second, err := Search(context.Background(), series, &Config{Workers: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if first.Order != second.Order {
		t.Errorf("Parallel and serial search disagree: %s vs %s", first.Order, second.Order)
	}
	if first.AIC != second.AIC {
		t.Errorf("AIC differs between runs: %f vs %f", first.AIC, second.AIC)
	}
}

func TestSearchFastGrid(t *testing.T) {
	series := weeklySeries(seasonalDemand(40))

	result, err := Search(context.Background(), series, &Config{Fast: true, Workers: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Order.SD != 0 {
		t.Errorf("Fast grid selected seasonal differencing: %s", result.Order)
	}
	if result.Order.P > 1 || result.Order.Q > 1 {
		t.Errorf("Fast grid selected order outside {0,1}: %s", result.Order)
	}
}

func TestSearchFallbackOnShortSeries(t *testing.T) {
	// Too short for any grid combination to fit, but long enough to
	// difference: every candidate fails and the fallback engages.
	series := weeklySeries(seasonalDemand(10))

	result, err := Search(context.Background(), series, DefaultConfig())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !result.Fallback {
		t.Fatal("Expected fallback on a 10-point series")
	}
	if !math.IsInf(result.AIC, 1) {
		t.Errorf("Fallback AIC = %f, want +Inf", result.AIC)
	}
	if result.Order.TotalDifferencing() > 1 {
		t.Errorf("Fallback order %s over-differences", result.Order)
	}
}

func TestSearchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Search(ctx, weeklySeries(seasonalDemand(48)), DefaultConfig())
	if err == nil {
		t.Error("Expected error from cancelled context, got nil")
	}
}

func TestSearchConstantSeriesFallsBack(t *testing.T) {
	// A flat series leaves every fit with zero residual variance and an
	// unrankable AIC; the search must fall back rather than return a
	// zero-value order.
	values := make([]float64, 40)
	for i := range values {
		values[i] = 20
	}

	result, err := Search(context.Background(), weeklySeries(values), DefaultConfig())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !result.Fallback {
		t.Fatal("Expected fallback on a constant series")
	}
	if result.Order.M != Period {
		t.Errorf("Fallback order %s lacks the fixed seasonal period", result.Order)
	}
}
