package forecast

import (
	"fmt"
	"sort"
	"strings"
)

// metricNoun is the unit phrase used in summaries.
func (m Metric) noun() string {
	switch m {
	case MetricRevenue:
		return "R$/week"
	case MetricDelayRate:
		return "% late/week"
	default:
		return "orders/week"
	}
}

func (m Metric) title() string {
	switch m {
	case MetricRevenue:
		return "Revenue"
	case MetricDelayRate:
		return "Delivery Delay Rate"
	default:
		return "Demand"
	}
}

func (t Trend) title() string {
	switch t {
	case TrendIncreasing:
		return "Increasing"
	case TrendDecreasing:
		return "Decreasing"
	default:
		return "Stable"
	}
}

// summary renders the human-readable report for a single forecast.
func (r *ForecastResult) summary() string {
	title := r.Metric.title()
	if r.Category != "" {
		title = displayCategory(r.Category) + " Demand"
	}
	lo, hi := r.ForecastRange()

	var b strings.Builder
	fmt.Fprintf(&b, "%s Forecast - Next %d Days (%d Weeks)\n\n",
		title, r.HorizonDays, r.WeeksAhead)

	fmt.Fprintf(&b, "Historical Baseline (%d Weeks):\n", r.HistWeeks)
	fmt.Fprintf(&b, "- Avg: %.1f %s", r.HistMean, r.Metric.noun())
	if r.Metric == MetricDemand {
		fmt.Fprintf(&b, " (%.1f orders/day)", r.HistMean/7)
	}
	fmt.Fprintf(&b, "\n- Peak Week: %.1f\n\n", r.HistMax)

	fmt.Fprintf(&b, "Forecast Outlook (%d weeks ahead):\n", r.WeeksAhead)
	fmt.Fprintf(&b, "- Avg Forecast: %.1f %s\n", r.ForecastAvg(), r.Metric.noun())
	fmt.Fprintf(&b, "- Range: %.1f - %.1f\n", lo, hi)
	fmt.Fprintf(&b, "- Trend: %s\n\n", r.Trend.title())

	fmt.Fprintf(&b, "Forecast Accuracy (SARIMA %s, %s): %.1f%% MAPE | %.0f%% confidence bounds included\n",
		r.Order, r.MAPEProvenance, r.MAPE, confidenceLevel*100)
	if r.OrderFallback {
		b.WriteString("Note: grid search failed for every candidate order; a default order was used and the AIC is not comparable.\n")
	}
	return b.String()
}

// summary renders the cross-category comparison table.
func (s *CategoryForecastSet) summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d Product Categories - %d-Day Demand Forecast (%d Weeks)\n\n",
		len(s.Results), s.HorizonDays, s.WeeksAhead)

	b.WriteString("| Category | Hist Avg (orders/wk) | Forecast Avg | Trend | MAPE |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, row := range s.Ranking {
		fmt.Fprintf(&b, "| %s | %.0f | %.0f | %s | %.0f%% (%s) |\n",
			displayCategory(row.Category), row.HistMean, row.ForecastAvg,
			row.Trend.title(), row.MAPE, row.Provenance)
	}

	if len(s.Skipped) > 0 {
		b.WriteString("\nSkipped:\n")
		for _, row := range sortedKeys(s.Skipped) {
			fmt.Fprintf(&b, "- %s: %s\n", displayCategory(row), s.Skipped[row])
		}
	}
	b.WriteString("\nSARIMA walk-forward MAPE (fast grid) unless marked in-sample.\n")
	return b.String()
}

// displayCategory turns a snake_case category id into a display name.
func displayCategory(cat string) string {
	words := strings.Split(strings.ReplaceAll(cat, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
