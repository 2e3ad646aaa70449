package timeseries

import (
	"math"
	"time"
)

// Tail-trim policy. The 70% threshold and 4-week reference window are
// empirically tuned on e-commerce weekly demand: genuine seasonal troughs
// rarely sit below 70% of the rolling median for consecutive weeks, while
// dataset-truncation artifacts do.
const (
	TailTrimRatio   = 0.70
	TailTrimWindow  = 4
	TailTrimMaxDrop = 4
	tailTrimFloor   = 8
)

// ReindexWeekly returns the series reindexed to a complete 7-day-spaced
// index from the first to the last observed week. Missing weeks are filled
// with fill (use math.NaN() to mark gaps for later interpolation).
func (s *Series) ReindexWeekly(fill float64) *Series {
	if s.Len() == 0 {
		return s.Copy()
	}
	known := make(map[int64]float64, s.Len())
	for i, d := range s.Dates {
		known[d.Unix()] = s.Values[i]
	}

	start, end := s.Dates[0], s.Dates[len(s.Dates)-1]
	n := int(end.Sub(start)/Week) + 1
	out := &Series{
		Dates:  make([]time.Time, 0, n),
		Values: make([]float64, 0, n),
		Name:   s.Name,
	}
	for d := start; !d.After(end); d = d.Add(Week) {
		v, ok := known[d.Unix()]
		if !ok {
			v = fill
		}
		out.Dates = append(out.Dates, d)
		out.Values = append(out.Values, v)
	}
	return out
}

// Interpolate fills NaN gaps linearly between known neighbours. Leading or
// trailing NaNs take the nearest known value.
func (s *Series) Interpolate() *Series {
	out := s.Copy()
	n := out.Len()

	prev := -1 // index of last known value
	for i := 0; i < n; i++ {
		if !math.IsNaN(out.Values[i]) {
			if prev >= 0 && i-prev > 1 {
				step := (out.Values[i] - out.Values[prev]) / float64(i-prev)
				for j := prev + 1; j < i; j++ {
					out.Values[j] = out.Values[prev] + step*float64(j-prev)
				}
			} else if prev < 0 {
				for j := 0; j < i; j++ {
					out.Values[j] = out.Values[i]
				}
			}
			prev = i
		}
	}
	if prev >= 0 {
		for j := prev + 1; j < n; j++ {
			out.Values[j] = out.Values[prev]
		}
	}
	return out
}

// Clamp limits every value to [lo, hi].
func (s *Series) Clamp(lo, hi float64) *Series {
	out := s.Copy()
	for i, v := range out.Values {
		if v < lo {
			out.Values[i] = lo
		} else if v > hi {
			out.Values[i] = hi
		}
	}
	return out
}

// SinceMonths restricts the series to the trailing window of calendar
// months, measured from the latest observed week.
func (s *Series) SinceMonths(months int) *Series {
	if s.Len() == 0 || months <= 0 {
		return s.Copy()
	}
	cutoff := s.LastDate().AddDate(0, -months, 0)
	start := 0
	for start < s.Len() && s.Dates[start].Before(cutoff) {
		start++
	}
	return s.Slice(start, s.Len())
}

// TailTrim iteratively drops anomalous trailing weeks, the guard against
// dataset-end truncation artifacts (a partial final week otherwise reads as
// a demand collapse). A week is dropped while its value is below
// TailTrimRatio of the median of up to the TailTrimWindow preceding weeks,
// for at most min(TailTrimMaxDrop, len/8) drops. Returns the trimmed series
// and the number of weeks removed.
func (s *Series) TailTrim() (*Series, int) {
	maxDrop := s.Len() / tailTrimFloor
	if maxDrop > TailTrimMaxDrop {
		maxDrop = TailTrimMaxDrop
	}

	out := s.Copy()
	dropped := 0
	for dropped < maxDrop && out.Len() >= tailTrimFloor {
		n := out.Len()
		refStart := n - 1 - TailTrimWindow
		if refStart < 0 {
			refStart = 0
		}
		ref := out.Slice(refStart, n-1)
		if ref.Len() < 2 {
			break
		}
		med := ref.Median()
		if math.IsNaN(med) || med <= 0 {
			break
		}
		if out.Values[n-1] >= med*TailTrimRatio {
			break
		}
		out = out.Slice(0, n-1)
		dropped++
	}
	return out, dropped
}
