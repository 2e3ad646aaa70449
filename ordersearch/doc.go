// Package ordersearch performs automatic SARIMA order selection.
//
// The search fixes the seasonal period at 4 (monthly seasonality in weekly
// data), decides non-seasonal differencing with an ADF unit-root test, and
// grid-searches the remaining orders by AIC:
//
//	result, err := ordersearch.Search(ctx, series, nil)
//	model := sarima.New(result.Order)
//
// The full grid covers p,q in {0,1,2} and P,D,Q in {0,1}; fast mode
// (Config.Fast) shrinks it to 16 combinations for multi-series requests.
// Combinations with total differencing d + D > 1 are never tried: double
// differencing collapses multi-step forecasts toward zero on this kind of
// data.
//
// Per-combination fit failures are data, not errors — they are filtered out
// before the minimum-AIC reduction. Only a fully failed grid falls back to
// a fixed default order, flagged by Result.Fallback.
package ordersearch
