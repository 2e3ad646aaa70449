// Package scmforecast provides seasonal SARIMA forecasting for transactional
// business metrics.
//
// The module turns raw order transactions into weekly time series and
// forecasts them with automatically selected SARIMA models. Four metrics are
// supported: order demand, revenue, delivery delay rate, and per-category
// demand.
//
// # Packages
//
//   - forecast: the engine with the public forecasting operations
//   - dataset: CSV loaders for the transaction tables
//   - timeseries: weekly series construction, differencing, descriptive stats
//   - stats: stationarity testing (ADF) and autocorrelation
//   - sarima: SARIMA model fitting and interval forecasting
//   - ordersearch: AIC grid search over candidate orders
//
// # Quick Start
//
// Load a dataset and forecast demand for the next 30 days:
//
//	ds, _ := dataset.Load(dataset.Paths{Orders: "orders.csv", Items: "items.csv"})
//	engine, _ := forecast.NewEngine(ds, nil)
//	result, err := engine.ForecastDemand(ctx, 30)
//	if err != nil {
//		// not enough weekly history, or a missing table
//	}
//	fmt.Println(result.Summary)
//
// Forecast the five highest-volume product categories in parallel:
//
//	set, err := engine.ForecastTopCategories(ctx, 30, forecast.DefaultTopN)
//
// Model selection searches a grid of SARIMA orders with a fixed seasonal
// period of four weeks and ranks candidates by AIC. Accuracy is reported as
// MAPE from a walk-forward evaluation over a trailing holdout.
package scmforecast
