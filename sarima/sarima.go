// Package sarima implements seasonal ARIMA (SARIMA) models.
package sarima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/UKumark9/scm-forecast/stats"
	"github.com/UKumark9/scm-forecast/timeseries"
)

// Order is a SARIMA model order (p, d, q) x (P, D, Q, m).
type Order struct {
	P  int // Non-seasonal AR order
	D  int // Non-seasonal differencing order
	Q  int // Non-seasonal MA order
	SP int // Seasonal AR order
	SD int // Seasonal differencing order
	SQ int // Seasonal MA order
	M  int // Seasonal period
}

// TotalDifferencing returns d + D. Orders with total differencing above one
// collapse multi-step forecasts toward zero; the order search never selects
// them.
func (o Order) TotalDifferencing() int {
	return o.D + o.SD
}

// String formats the order as (p,d,q)(P,D,Q)[m].
func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)(%d,%d,%d)[%d]", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
}

// Model is a SARIMA model fitted by conditional sum of squares.
type Model struct {
	Order     Order
	ARCoeffs  []float64
	MACoeffs  []float64
	SARCoeffs []float64
	SMACoeffs []float64
	Intercept float64
	Variance  float64
	AIC       float64
	BIC       float64
	LogLik    float64

	fitted     bool
	data       *timeseries.Series
	diffData   *timeseries.Series
	residuals  []float64
	fittedVals []float64 // one-step fitted values in differenced space
}

// New creates an unfitted SARIMA model with the given order.
func New(order Order) *Model {
	return &Model{
		Order:     order,
		ARCoeffs:  make([]float64, order.P),
		MACoeffs:  make([]float64, order.Q),
		SARCoeffs: make([]float64, order.SP),
		SMACoeffs: make([]float64, order.SQ),
	}
}

// minObs is the shortest usable series for a given order. Weekly business
// series bottom out at 16 observations, so the requirement scales with the
// longest lag rather than demanding a fixed long history.
func (o Order) minObs() int {
	longest := o.P
	for _, l := range []int{o.Q, o.SP * o.M, o.SQ * o.M} {
		if l > longest {
			longest = l
		}
	}
	n := longest + o.D + o.SD*o.M + 5
	if n < 12 {
		n = 12
	}
	return n
}

// Fit estimates the model on the series by conditional sum of squares with
// gradient descent and momentum.
func (m *Model) Fit(series *timeseries.Series) error {
	if series.Len() < m.Order.minObs() {
		return errors.New("insufficient observations for the specified order")
	}
	m.data = series

	diff := series
	for i := 0; i < m.Order.D; i++ {
		diff = diff.Diff()
		if diff.Len() == 0 {
			return errors.New("differencing produced an empty series")
		}
	}
	for i := 0; i < m.Order.SD; i++ {
		diff = diff.SeasonalDiff(m.Order.M)
		if diff.Len() == 0 {
			return errors.New("seasonal differencing produced an empty series")
		}
	}
	m.diffData = diff

	m.initCoeffs()
	m.optimize(diff.Values)
	m.informationCriteria()
	m.fitted = true
	return nil
}

// initCoeffs seeds coefficients from the ACF of the differenced series.
func (m *Model) initCoeffs() {
	m.Intercept = m.diffData.Mean()

	if m.Order.P > 0 {
		if acf := stats.ACF(m.diffData, m.Order.P); acf != nil {
			for i := 0; i < m.Order.P && i+1 < len(acf); i++ {
				m.ARCoeffs[i] = acf[i+1] * 0.5
			}
		}
	}
	if m.Order.SP > 0 {
		if acf := stats.ACF(m.diffData, m.Order.SP*m.Order.M); acf != nil {
			for i := 0; i < m.Order.SP; i++ {
				if idx := (i + 1) * m.Order.M; idx < len(acf) {
					m.SARCoeffs[i] = acf[idx] * 0.5
				}
			}
		}
	}
	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}
	for i := range m.SMACoeffs {
		m.SMACoeffs[i] = 0.1
	}
}

// predictAt computes the one-step prediction at index t of the differenced
// series given the residual history.
func (m *Model) predictAt(t int, y, residuals []float64, residLimit int) float64 {
	period := m.Order.M
	pred := m.Intercept
	for i := 0; i < m.Order.P && t-i-1 >= 0; i++ {
		pred += m.ARCoeffs[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < m.Order.SP; i++ {
		if lag := (i + 1) * period; t-lag >= 0 {
			pred += m.SARCoeffs[i] * (y[t-lag] - m.Intercept)
		}
	}
	for i := 0; i < m.Order.Q && t-i-1 >= 0; i++ {
		if t-i-1 < residLimit {
			pred += m.MACoeffs[i] * residuals[t-i-1]
		}
	}
	for i := 0; i < m.Order.SQ; i++ {
		if lag := (i + 1) * period; t-lag >= 0 && t-lag < residLimit {
			pred += m.SMACoeffs[i] * residuals[t-lag]
		}
	}
	return pred
}

// optimize runs gradient descent with momentum over the CSS objective,
// keeping the best parameters seen. Iterations are capped, so a single fit
// has bounded wall-clock cost regardless of convergence.
func (m *Model) optimize(y []float64) {
	n := len(y)
	p, q := m.Order.P, m.Order.Q
	sp, sq := m.Order.SP, m.Order.SQ
	period := m.Order.M

	const (
		maxIter   = 200
		tolerance = 1e-8
		momentum  = 0.9
		decay     = 0.99
	)
	learningRate := 0.005

	arMom := make([]float64, p)
	maMom := make([]float64, q)
	sarMom := make([]float64, sp)
	smaMom := make([]float64, sq)

	startIdx := 0
	for _, l := range []int{p, q, sp * period, sq * period} {
		if l > startIdx {
			startIdx = l
		}
	}
	if startIdx >= n-10 {
		startIdx = 0
	}

	bestSSE := math.Inf(1)
	bestAR := make([]float64, p)
	bestMA := make([]float64, q)
	bestSAR := make([]float64, sp)
	bestSMA := make([]float64, sq)
	noImprove := 0

	for iter := 0; iter < maxIter; iter++ {
		residuals := make([]float64, n)
		sse := 0.0
		for t := startIdx; t < n; t++ {
			residuals[t] = y[t] - m.predictAt(t, y, residuals, n)
			sse += residuals[t] * residuals[t]
		}

		if sse < bestSSE {
			bestSSE = sse
			copy(bestAR, m.ARCoeffs)
			copy(bestMA, m.MACoeffs)
			copy(bestSAR, m.SARCoeffs)
			copy(bestSMA, m.SMACoeffs)
			noImprove = 0
		} else {
			noImprove++
		}
		if noImprove > 20 {
			break
		}

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		sarGrad := make([]float64, sp)
		smaGrad := make([]float64, sq)
		for t := startIdx; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < sp; i++ {
				if lag := (i + 1) * period; t-lag >= 0 {
					sarGrad[i] -= 2 * residuals[t] * (y[t-lag] - m.Intercept)
				}
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
			for i := 0; i < sq; i++ {
				if lag := (i + 1) * period; t-lag >= 0 {
					smaGrad[i] -= 2 * residuals[t] * residuals[t-lag]
				}
			}
		}

		step := func(coeffs, mom, grad []float64) {
			for i := range coeffs {
				mom[i] = momentum*mom[i] + learningRate*grad[i]/float64(n)
				coeffs[i] -= mom[i]
				coeffs[i] = clamp(coeffs[i], -0.99, 0.99)
			}
		}
		step(m.ARCoeffs, arMom, arGrad)
		step(m.SARCoeffs, sarMom, sarGrad)
		step(m.MACoeffs, maMom, maGrad)
		step(m.SMACoeffs, smaMom, smaGrad)

		learningRate *= decay
		if iter > 0 && math.Abs(sse-bestSSE) < tolerance {
			break
		}
	}

	copy(m.ARCoeffs, bestAR)
	copy(m.MACoeffs, bestMA)
	copy(m.SARCoeffs, bestSAR)
	copy(m.SMACoeffs, bestSMA)

	// Final residual pass with the best parameters.
	m.residuals = make([]float64, n)
	m.fittedVals = make([]float64, n)
	for t := 0; t < n; t++ {
		m.fittedVals[t] = m.predictAt(t, y, m.residuals, n)
		m.residuals[t] = y[t] - m.fittedVals[t]
	}

	sse := 0.0
	count := 0
	for t := startIdx; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	numParams := p + q + sp + sq + 1
	if count > numParams {
		m.Variance = sse / float64(count-numParams)
	} else if count > 0 {
		m.Variance = sse / float64(count)
	}
}

func (m *Model) informationCriteria() {
	n := float64(len(m.residuals))
	k := float64(m.Order.P + m.Order.Q + m.Order.SP + m.Order.SQ + 1)

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}

	if m.Variance > 0 {
		m.LogLik = -n/2*math.Log(2*math.Pi) - n/2*math.Log(m.Variance) - sse/(2*m.Variance)
	} else {
		m.LogLik = math.Inf(-1)
	}
	m.AIC = -2*m.LogLik + 2*k
	m.BIC = -2*m.LogLik + k*math.Log(n)
}

// Forecast returns point forecasts for the given number of steps.
func (m *Model) Forecast(steps int) ([]float64, error) {
	forecasts, _, _, err := m.ForecastWithInterval(steps, 0.95)
	return forecasts, err
}

// ForecastWithInterval returns point forecasts with lower and upper bounds
// at the given confidence level. Bounds satisfy lower <= forecast <= upper
// for every step.
func (m *Model) ForecastWithInterval(steps int, confidence float64) (forecasts, lower, upper []float64, err error) {
	if !m.fitted {
		return nil, nil, nil, errors.New("model must be fitted before forecasting")
	}
	if steps < 1 {
		return nil, nil, nil, errors.New("steps must be at least 1")
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	y := m.diffData.Values
	n := len(y)

	extY := make([]float64, n+steps)
	copy(extY, y)
	extResid := make([]float64, n+steps)
	copy(extResid, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		// Future residuals are zero; MA terms only reach observed residuals.
		extY[t] = m.predictAt(t, extY, extResid, n)
	}

	forecasts = make([]float64, steps)
	copy(forecasts, extY[n:])
	forecasts = m.integrate(forecasts)

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile((1 + confidence) / 2)
	lower = make([]float64, steps)
	upper = make([]float64, steps)
	for h := 0; h < steps; h++ {
		se := math.Sqrt(m.Variance)
		// Forecast variance grows with horizon once the series is integrated.
		if m.Order.D > 0 {
			se *= math.Sqrt(float64(h + 1))
		}
		if m.Order.SD > 0 && m.Order.M > 0 {
			se *= math.Sqrt(float64(h/m.Order.M + 1))
		}
		lower[h] = forecasts[h] - z*se
		upper[h] = forecasts[h] + z*se
	}
	return forecasts, lower, upper, nil
}

// integrate undoes differencing to bring forecasts back to the original
// scale. Fit differences non-seasonally first, then seasonally, so
// integration reverses that order.
func (m *Model) integrate(forecasts []float64) []float64 {
	d, sd, period := m.Order.D, m.Order.SD, m.Order.M
	original := m.data.Values
	n := len(original)

	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	nonSeasonal := original
	for i := 0; i < d; i++ {
		if len(nonSeasonal) <= 1 {
			break
		}
		next := make([]float64, len(nonSeasonal)-1)
		for j := 1; j < len(nonSeasonal); j++ {
			next[j-1] = nonSeasonal[j] - nonSeasonal[j-1]
		}
		nonSeasonal = next
	}

	if sd > 0 && period > 0 {
		nDiff := len(nonSeasonal)
		for i := 0; i < sd; i++ {
			for j := range result {
				if j < period {
					if idx := nDiff - period + j; idx >= 0 && idx < nDiff {
						result[j] += nonSeasonal[idx]
					}
				} else {
					result[j] += result[j-period]
				}
			}
		}
	}

	for i := 0; i < d; i++ {
		last := original[n-1]
		for j := range result {
			if j == 0 {
				result[j] += last
			} else {
				result[j] += result[j-1]
			}
		}
	}
	return result
}

// FittedValues returns one-step fitted values on the original scale,
// aligned with the input series. The first d + D*m entries are NaN (no
// prediction exists before the differencing lags). Supports d, D <= 1,
// which is all the order search ever selects.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	d, sd, period := m.Order.D, m.Order.SD, m.Order.M
	original := m.data.Values
	offset := d + sd*period

	out := make([]float64, len(original))
	for i := 0; i < offset && i < len(out); i++ {
		out[i] = math.NaN()
	}
	for i, fv := range m.fittedVals {
		t := i + offset
		if t >= len(out) {
			break
		}
		v := fv
		if d == 1 {
			v += original[t-1]
		}
		if sd == 1 {
			v += original[t-period]
			if d == 1 {
				v -= original[t-period-1]
			}
		}
		out[t] = v
	}
	return out
}

// Residuals returns a copy of the differenced-space residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
