package forecast

import (
	"strings"
	"testing"
	"time"

	"github.com/UKumark9/scm-forecast/sarima"
)

func TestDisplayCategory(t *testing.T) {
	cases := map[string]string{
		"bed_bath_table": "Bed Bath Table",
		"health_beauty":  "Health Beauty",
		"toys":           "Toys",
		"":               "",
	}
	for in, want := range cases {
		if got := displayCategory(in); got != want {
			t.Errorf("displayCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestForecastResultSummary(t *testing.T) {
	r := &ForecastResult{
		Metric:         MetricDemand,
		HorizonDays:    30,
		WeeksAhead:     4,
		HistWeeks:      40,
		HistMean:       120,
		HistMax:        150,
		MAPE:           14.2,
		MAPEProvenance: ProvenanceWalkForward,
		Order:          sarima.Order{P: 1, D: 0, Q: 1, SP: 1, SD: 0, SQ: 0, M: 4},
		Trend:          TrendStable,
		Points: []ForecastPoint{
			{Date: time.Now(), Forecast: 118, Lower: 100, Upper: 135},
		},
	}
	s := r.summary()

	for _, want := range []string{
		"Demand Forecast - Next 30 Days",
		"Historical Baseline (40 Weeks)",
		"(1,0,1)(1,0,0)[4]",
		"14.2% MAPE",
		"walk-forward",
		"Trend: Stable",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("Summary missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "grid search failed") {
		t.Error("Summary carries the fallback note without a fallback")
	}
}

func TestForecastResultSummaryFallbackNote(t *testing.T) {
	r := &ForecastResult{
		Metric:        MetricRevenue,
		HorizonDays:   30,
		WeeksAhead:    4,
		OrderFallback: true,
		Order:         sarima.Order{P: 1, D: 1, Q: 1, SQ: 1, M: 4},
		Points:        []ForecastPoint{{Forecast: 10}},
	}
	s := r.summary()
	if !strings.Contains(s, "default order was used") {
		t.Errorf("Fallback summary missing the caveat:\n%s", s)
	}
	if !strings.Contains(s, "R$/week") {
		t.Errorf("Revenue summary missing its unit:\n%s", s)
	}
}

func TestCategorySetSummary(t *testing.T) {
	set := &CategoryForecastSet{
		HorizonDays: 30,
		WeeksAhead:  4,
		Results: map[string]*ForecastResult{
			"toys": {},
		},
		Skipped: map[string]string{
			"art": "insufficient history: only 3 weeks of usable data (need >= 16)",
		},
		Ranking: []CategorySummary{
			{Category: "toys", HistMean: 40, ForecastAvg: 42, Trend: TrendIncreasing, MAPE: 9, Provenance: ProvenanceWalkForward},
		},
	}
	s := set.summary()

	for _, want := range []string{
		"Top 1 Product Categories",
		"| Toys | 40 | 42 | Increasing | 9% (walk-forward) |",
		"Skipped:",
		"- Art: insufficient history",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("Category summary missing %q:\n%s", want, s)
		}
	}
}
