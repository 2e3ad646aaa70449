// Package timeseries provides the weekly series type used throughout the
// forecasting engine.
package timeseries

import (
	"errors"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Week is the fixed spacing between consecutive observations.
const Week = 7 * 24 * time.Hour

// Series is an ordered weekly time series. Dates are Monday-aligned UTC
// midnights spaced exactly seven days apart once the series has been
// reindexed (see ReindexWeekly).
type Series struct {
	Dates  []time.Time
	Values []float64
	Name   string
}

// WeekStart floors a timestamp to the Monday 00:00 UTC of its week.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// New creates a series from parallel date and value slices.
func New(dates []time.Time, values []float64) (*Series, error) {
	if len(dates) != len(values) {
		return nil, errors.New("dates and values must have the same length")
	}
	return &Series{Dates: dates, Values: values}, nil
}

// FromWeekMap builds a date-sorted series from a week-start -> value map.
func FromWeekMap(weeks map[time.Time]float64, name string) *Series {
	dates := make([]time.Time, 0, len(weeks))
	for d := range weeks {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	values := make([]float64, len(dates))
	for i, d := range dates {
		values[i] = weeks[d]
	}
	return &Series{Dates: dates, Values: values, Name: name}
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean returns the arithmetic mean.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Std returns the sample standard deviation.
func (s *Series) Std() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.StdDev(s.Values, nil)
}

// Min returns the minimum value.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values)
}

// Max returns the maximum value.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values)
}

// Sum returns the sum of all values.
func (s *Series) Sum() float64 {
	return floats.Sum(s.Values)
}

// Median returns the median value. Even-length series average the two
// middle observations, matching the rolling-median reference used by the
// tail-trim guard.
func (s *Series) Median() float64 {
	n := len(s.Values)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Diff returns the first difference of the series.
func (s *Series) Diff() *Series {
	return s.lagDiff(1, "_diff")
}

// SeasonalDiff returns the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	return s.lagDiff(m, "_sdiff")
}

func (s *Series) lagDiff(lag int, suffix string) *Series {
	if lag <= 0 || len(s.Values) <= lag {
		return &Series{Name: s.Name + suffix}
	}
	values := make([]float64, len(s.Values)-lag)
	for i := lag; i < len(s.Values); i++ {
		values[i-lag] = s.Values[i] - s.Values[i-lag]
	}
	dates := make([]time.Time, len(values))
	if len(s.Dates) > lag {
		copy(dates, s.Dates[lag:])
	}
	return &Series{Dates: dates, Values: values, Name: s.Name + suffix}
}

// Slice returns a copy of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Name: s.Name}
	}
	values := make([]float64, end-start)
	copy(values, s.Values[start:end])
	dates := make([]time.Time, len(values))
	if len(s.Dates) >= end {
		copy(dates, s.Dates[start:end])
	}
	return &Series{Dates: dates, Values: values, Name: s.Name}
}

// Copy returns a deep copy of the series.
func (s *Series) Copy() *Series {
	return s.Slice(0, s.Len())
}

// LastDate returns the date of the final observation.
func (s *Series) LastDate() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[len(s.Dates)-1]
}

// IsWeekly reports whether consecutive dates differ by exactly seven days.
func (s *Series) IsWeekly() bool {
	for i := 1; i < len(s.Dates); i++ {
		if s.Dates[i].Sub(s.Dates[i-1]) != Week {
			return false
		}
	}
	return true
}
