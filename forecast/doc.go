// Package forecast is the seasonal forecasting engine for transactional
// business metrics: order demand, revenue, delivery delay rate, and
// per-category demand.
//
// The engine turns a raw event log into a cleaned weekly series, selects a
// seasonal ARIMA model by AIC grid search, estimates honest out-of-sample
// accuracy with walk-forward validation, and produces a forward forecast
// with 95% confidence bounds and a trend classification.
//
// # Usage
//
// Construct one engine per dataset snapshot and call the forecast
// operations with a horizon in days:
//
//	engine, err := forecast.NewEngine(dataset, nil)
//	if err != nil {
//	    return err
//	}
//	result, err := engine.ForecastDemand(ctx, 30)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Summary)
//
// ForecastTopCategories runs the same pipeline in fast-grid mode for the N
// highest-volume categories; one category's failure never aborts the rest.
//
// # Accuracy provenance
//
// Every successful run carries a MAPE, but check MAPEProvenance before
// presenting it: "walk-forward" is a genuine out-of-sample estimate,
// "in-sample" is the fallback when the holdout fit failed and is optimistic
// by construction.
//
// # Failure modes
//
// Operations fail fast with wrapped sentinel errors: ErrInsufficientHistory
// (fewer than 16 usable weeks), ErrMissingPayments, ErrMissingDeliveryData,
// ErrMissingProducts, and ErrNoCategoryData. Model fitting is CPU-bound
// iterative optimization; pass a context to bound a request's wall-clock
// time.
package forecast
