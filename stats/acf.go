package stats

import (
	"github.com/UKumark9/scm-forecast/timeseries"
)

// ACF calculates the autocorrelation function for lags 0 to maxLag.
// Returns nil for constant or empty series.
func ACF(series *timeseries.Series, maxLag int) []float64 {
	n := series.Len()
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := series.Mean()
	variance := 0.0
	for _, v := range series.Values {
		d := v - mean
		variance += d * d
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (series.Values[i] - mean) * (series.Values[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf
}
