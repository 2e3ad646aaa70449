// Package sarima implements seasonal ARIMA (SARIMA) models.
//
// A SARIMA(p,d,q)(P,D,Q)[m] model combines non-seasonal AR(p), I(d), MA(q)
// components with seasonal counterparts at period m. Weekly business series
// in this system use m = 4, encoding monthly seasonality.
//
// # Usage
//
// Fit a model and forecast with confidence bounds:
//
//	model := sarima.New(sarima.Order{P: 1, D: 1, Q: 1, SP: 1, SQ: 1, M: 4})
//	if err := model.Fit(series); err != nil {
//	    return err
//	}
//	forecasts, lower, upper, err := model.ForecastWithInterval(8, 0.95)
//
// Estimation is conditional sum of squares with gradient descent and
// momentum, capped at a fixed iteration budget, so a fit never stalls a
// grid search. Compare candidate orders by AIC (lower is better).
//
// FittedValues returns one-step predictions on the original scale; the
// evaluator uses them for the in-sample accuracy fallback.
package sarima
