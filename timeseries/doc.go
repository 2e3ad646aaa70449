// Package timeseries provides the weekly series type and the series-shaping
// operations used by the forecasting engine.
//
// A Series holds Monday-aligned weekly observations. The shaping operations
// turn irregular aggregates into a modelable series:
//
//	s := timeseries.FromWeekMap(weeks, "demand")
//	s = s.ReindexWeekly(0)      // complete 7-day index, gaps filled with 0
//	s = s.SinceMonths(12)       // trailing 12-month window
//	s, dropped := s.TailTrim()  // drop truncation artifacts at the tail
//
// Ratio-style series mark gaps with NaN and interpolate instead:
//
//	s = s.ReindexWeekly(math.NaN()).Interpolate().Clamp(0, 100)
//
// # Invariant
//
// After ReindexWeekly, consecutive dates differ by exactly seven days;
// IsWeekly verifies this.
//
// # Statistics and transforms
//
// Mean, Std, Min, Max, Median, Sum summarize a series; Diff and
// SeasonalDiff produce the differenced series consumed by the SARIMA
// fitter; Slice and Copy never alias the receiver's backing arrays.
package timeseries
