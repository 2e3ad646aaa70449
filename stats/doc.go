// Package stats provides the statistical tests behind model selection.
//
// ADF runs an Augmented Dickey-Fuller unit-root test; the order search uses
// its p-value to decide non-seasonal differencing:
//
//	result := stats.ADF(series, 0) // 0 = default lag selection
//	if result == nil || result.PValue > 0.05 {
//	    // difference once before modeling
//	}
//
// ACF computes the autocorrelation function, used to seed AR coefficient
// estimates before optimization.
package stats
