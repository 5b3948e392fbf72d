package visibility

import (
	"math"
	"sort"
)

// Evaluate keeps the samples that fall inside b and summarises them.
// Accepted samples are returned in ascending time order regardless of
// input order.
func Evaluate(samples []HorizonSample, b Bounds) Visibility {
	accepted := make([]HorizonSample, 0, len(samples))
	for _, s := range samples {
		if b.Contains(s.Altitude, s.Azimuth) {
			accepted = append(accepted, s)
		}
	}
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Time.Before(accepted[j].Time)
	})

	return Visibility{
		Visible: len(accepted) > 0,
		Samples: accepted,
		Summary: Summarize(accepted),
	}
}

// Summarize returns the altitude range and minimal azimuth arc of samples,
// or nil when samples is empty.
func Summarize(samples []HorizonSample) *Summary {
	if len(samples) == 0 {
		return nil
	}

	minAlt, maxAlt := samples[0].Altitude, samples[0].Altitude
	azs := make([]float64, 0, len(samples))
	for _, s := range samples {
		minAlt = math.Min(minAlt, s.Altitude)
		maxAlt = math.Max(maxAlt, s.Altitude)
		azs = append(azs, s.Azimuth)
	}

	start, end, _ := AzimuthArc(azs)
	return &Summary{
		Visible:     true,
		MinAltitude: minAlt,
		MaxAltitude: maxAlt,
		MinAzimuth:  start,
		MaxAzimuth:  end,
	}
}

// AzimuthArc returns the smallest arc, read clockwise from start to end,
// that covers every azimuth in azs. The arc is the complement of the largest
// empty gap between neighbouring azimuths on the circle. When that gap
// contains north the arc does not, and start <= end; otherwise start > end.
// A single distinct azimuth yields start == end. ok is false for empty input.
func AzimuthArc(azs []float64) (start, end float64, ok bool) {
	if len(azs) == 0 {
		return 0, 0, false
	}

	norm := make([]float64, len(azs))
	for i, a := range azs {
		norm[i] = normalizeAzimuth(a)
	}
	sort.Float64s(norm)

	uniq := norm[:1]
	for _, a := range norm[1:] {
		if a != uniq[len(uniq)-1] {
			uniq = append(uniq, a)
		}
	}
	if len(uniq) == 1 {
		return uniq[0], uniq[0], true
	}

	n := len(uniq)
	maxGap, idx := -1.0, 0
	for i := 0; i < n; i++ {
		var gap float64
		if i < n-1 {
			gap = uniq[i+1] - uniq[i]
		} else {
			gap = uniq[0] + 360 - uniq[n-1]
		}
		if gap > maxGap {
			maxGap, idx = gap, i
		}
	}

	// The largest gap runs from uniq[idx] to uniq[idx+1]; the arc is the rest.
	return uniq[(idx+1)%n], uniq[idx], true
}

// ArcSpan returns the clockwise angular width of an arc from start to end.
func ArcSpan(start, end float64) float64 {
	return normalizeAzimuth(end - start)
}

func normalizeAzimuth(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
