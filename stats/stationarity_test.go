package stats

import (
	"math"
	"testing"
	"time"

	"github.com/UKumark9/scm-forecast/timeseries"
)

func seriesOf(values []float64) *timeseries.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, len(values))
	for i := range dates {
		dates[i] = start.Add(time.Duration(i) * timeseries.Week)
	}
	s, _ := timeseries.New(dates, values)
	return s
}

// pseudoNoise is a deterministic noise sequence (a sine-hash over the
// index) so tests are reproducible without seeding a RNG.
func pseudoNoise(i int) float64 {
	v := math.Sin(float64(i)*12.9898+78.233) * 43758.5453
	return v - math.Floor(v) - 0.5
}

func TestADFStationarySeries(t *testing.T) {
	// Mean-reverting AR(1) with phi = 0.3 has no unit root.
	n := 100
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = 0.3*values[i-1] + pseudoNoise(i)
	}

	result := ADF(seriesOf(values), 0)
	if result == nil {
		t.Fatal("ADF returned nil for a well-conditioned series")
	}
	t.Logf("ADF stat=%.3f p=%.3f lags=%d nobs=%d", result.Statistic, result.PValue, result.Lags, result.NObs)

	if !result.IsStationary {
		t.Errorf("Expected stationary verdict, got p=%.3f", result.PValue)
	}
	if result.Statistic >= 0 {
		t.Errorf("Expected negative test statistic, got %.3f", result.Statistic)
	}
}

func TestADFRandomWalk(t *testing.T) {
	// Cumulative sum of noise has a unit root; the null should not be
	// rejected.
	n := 100
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = values[i-1] + pseudoNoise(i*7+3)
	}

	result := ADF(seriesOf(values), 0)
	if result == nil {
		t.Fatal("ADF returned nil for a well-conditioned series")
	}
	t.Logf("ADF stat=%.3f p=%.3f", result.Statistic, result.PValue)

	if result.IsStationary {
		t.Errorf("Random walk classified as stationary (p=%.3f)", result.PValue)
	}
}

func TestADFShortSeries(t *testing.T) {
	if result := ADF(seriesOf([]float64{1, 2, 3, 4, 5}), 0); result != nil {
		t.Errorf("Expected nil for a 5-point series, got %+v", result)
	}
}

func TestADFConstantSeries(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 7
	}
	// A constant series makes the regression singular.
	if result := ADF(seriesOf(values), 0); result != nil {
		t.Errorf("Expected nil for a constant series, got %+v", result)
	}
}

func TestMacKinnonPValueMonotone(t *testing.T) {
	stats := []float64{-4.5, -3.5, -3.0, -2.7, -2.0, -1.0, 0.5}
	prev := 0.0
	for _, s := range stats {
		p := mackinnonPValue(s)
		if p < prev {
			t.Errorf("p-value not monotone at stat=%.2f: %.3f < %.3f", s, p, prev)
		}
		if p < 0 || p > 1 {
			t.Errorf("p-value out of range at stat=%.2f: %.3f", s, p)
		}
		prev = p
	}
}

func TestACF(t *testing.T) {
	// Alternating series has strong negative lag-1 autocorrelation.
	n := 60
	values := make([]float64, n)
	for i := range values {
		if i%2 == 0 {
			values[i] = 1
		} else {
			values[i] = -1
		}
	}

	acf := ACF(seriesOf(values), 4)
	if acf == nil {
		t.Fatal("ACF returned nil")
	}
	if math.Abs(acf[0]-1) > 1e-12 {
		t.Errorf("ACF lag 0 = %f, want 1", acf[0])
	}
	if acf[1] > -0.9 {
		t.Errorf("ACF lag 1 = %f, want strongly negative", acf[1])
	}
	if acf[2] < 0.9 {
		t.Errorf("ACF lag 2 = %f, want strongly positive", acf[2])
	}
}

func TestACFConstantSeries(t *testing.T) {
	values := []float64{3, 3, 3, 3, 3}
	if acf := ACF(seriesOf(values), 2); acf != nil {
		t.Errorf("Expected nil ACF for constant series, got %v", acf)
	}
}
