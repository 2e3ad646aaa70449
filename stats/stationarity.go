package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/UKumark9/scm-forecast/timeseries"
)

// ADFResult is the outcome of an Augmented Dickey-Fuller unit-root test.
type ADFResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	NObs         int
	IsStationary bool
}

// ADF performs the Augmented Dickey-Fuller test (constant, no trend).
// The null hypothesis is that the series has a unit root; a p-value below
// 0.05 rejects it. Returns nil when the series is too short or the
// regression is degenerate — callers treat nil as a failed test.
func ADF(series *timeseries.Series, maxLag int) *ADFResult {
	n := series.Len()
	if n < 10 {
		return nil
	}

	// Schwert-style default lag: floor((n-1)^(1/3)).
	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff := series.Diff()

	// Regression: delta_y_t = alpha + beta*y_{t-1} + sum gamma_i*delta_y_{t-i}.
	// beta = 0 under the null.
	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil
	}

	k := 2 + maxLag
	x := mat.NewDense(nObs, k, nil)
	y := make([]float64, nObs)
	for i := 0; i < nObs; i++ {
		t := i + maxLag
		y[i] = diff.Values[t]
		x.Set(i, 0, 1)
		x.Set(i, 1, series.Values[t])
		for j := 1; j <= maxLag; j++ {
			x.Set(i, 1+j, diff.Values[t-j])
		}
	}

	coeffs, se, ok := ols(x, y)
	if !ok || len(coeffs) < 2 || se[1] == 0 {
		return nil
	}

	tStat := coeffs[1] / se[1]
	pValue := mackinnonPValue(tStat)

	return &ADFResult{
		Statistic:    tStat,
		PValue:       pValue,
		Lags:         maxLag,
		NObs:         nObs,
		IsStationary: pValue < 0.05,
	}
}

// ols solves y = X*beta by the normal equations and reports coefficient
// standard errors. ok is false when X'X is singular or n <= k.
func ols(x *mat.Dense, y []float64) (coeffs, stdErrors []float64, ok bool) {
	n, k := x.Dims()
	if n <= k {
		return nil, nil, false
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, nil, false
	}

	yVec := mat.NewVecDense(n, y)
	var xty mat.VecDense
	xty.MulVec(x.T(), yVec)

	var beta mat.VecDense
	beta.MulVec(&xtxInv, &xty)

	coeffs = make([]float64, k)
	for i := range coeffs {
		coeffs[i] = beta.AtVec(i)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	sse := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		sse += r * r
	}

	s2 := sse / float64(n-k)
	stdErrors = make([]float64, k)
	for i := range stdErrors {
		stdErrors[i] = math.Sqrt(s2 * xtxInv.At(i, i))
	}
	return coeffs, stdErrors, true
}

// mackinnonPValue approximates the ADF p-value for the constant-only
// regression by interpolating MacKinnon (1994) asymptotic critical values.
func mackinnonPValue(stat float64) float64 {
	switch {
	case stat < -3.96:
		return 0.001
	case stat < -3.43:
		return 0.01
	case stat < -2.86:
		return 0.05
	case stat < -2.57:
		return 0.10
	case stat < -1.94:
		return 0.25
	case stat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(stat+1.62)*0.25, 0.99)
	}
}
