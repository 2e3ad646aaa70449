package forecast

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/UKumark9/scm-forecast/sarima"
	"github.com/UKumark9/scm-forecast/timeseries"
)

// Provenance labels how an accuracy number was obtained. Walk-forward MAPE
// is a genuine out-of-sample estimate; in-sample MAPE is the fallback when
// the holdout fit fails and must not be presented with the same confidence.
type Provenance string

const (
	ProvenanceWalkForward Provenance = "walk-forward"
	ProvenanceInSample    Provenance = "in-sample"
)

// Holdout sizing: clamp(len/6, 4, 8) trailing weeks. Tunable policy, not a
// derived rule — pinned by tests.
const (
	holdoutDivisor = 6
	holdoutMin     = 4
	holdoutMax     = 8
)

func holdoutSize(n int) int {
	h := n / holdoutDivisor
	if h < holdoutMin {
		h = holdoutMin
	}
	if h > holdoutMax {
		h = holdoutMax
	}
	return h
}

// walkForwardMAPE fits the order on the training prefix, forecasts the
// holdout window, and scores it. Negative point estimates are clipped to
// zero first; counts, sums, and ratios cannot be negative.
func walkForwardMAPE(train, test *timeseries.Series, order sarima.Order) (float64, error) {
	model := sarima.New(order)
	if err := model.Fit(train); err != nil {
		return 0, err
	}
	preds, err := model.Forecast(test.Len())
	if err != nil {
		return 0, err
	}
	for i, p := range preds {
		if p < 0 {
			preds[i] = 0
		}
	}
	return mapeNonzero(test.Values, preds), nil
}

// inSampleMAPE scores one-step fitted values against the full series. Used
// only when walk-forward evaluation failed.
func inSampleMAPE(model *sarima.Model, series *timeseries.Series) float64 {
	return mapeNonzero(series.Values, model.FittedValues())
}

// mapeNonzero computes mean absolute percentage error over points whose
// actual value is nonzero (zero actuals make percentage error undefined)
// and whose prediction exists. Returns 0 when no point qualifies.
func mapeNonzero(actual, predicted []float64) float64 {
	n := len(actual)
	if len(predicted) < n {
		n = len(predicted)
	}
	sum := 0.0
	count := 0
	for i := 0; i < n; i++ {
		if actual[i] == 0 || math.IsNaN(predicted[i]) {
			continue
		}
		sum += math.Abs((actual[i] - predicted[i]) / actual[i])
		count++
	}
	if count == 0 {
		return 0
	}
	mape := sum / float64(count) * 100
	if math.IsNaN(mape) || math.IsInf(mape, 0) {
		log.Warn().Msg("degenerate MAPE; reporting 0")
		return 0
	}
	return mape
}
