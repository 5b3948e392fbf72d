package visibility

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/star/snwatch/internal/transform"
)

// Cadence is the fixed spacing between horizon samples.
const Cadence = 30 * time.Minute

// Sampler produces horizon samples for a sky position seen from a site over
// the half-open interval [start, end).
type Sampler interface {
	Sample(site Site, pos transform.Equatorial, start, end time.Time) ([]HorizonSample, error)
}

// TopocentricSampler samples at Cadence using the transform package.
// It holds no state and is safe for concurrent use.
type TopocentricSampler struct{}

// NewSampler returns the default Sampler.
func NewSampler() Sampler {
	return TopocentricSampler{}
}

// Sample returns one sample every Cadence from start while the sample time
// is strictly before end. An empty or inverted interval yields no samples.
func (TopocentricSampler) Sample(site Site, pos transform.Equatorial, start, end time.Time) ([]HorizonSample, error) {
	if !end.After(start) {
		return nil, nil
	}

	obs := transform.NewObserver(site.Latitude, site.Longitude, site.Height)
	n := int(end.Sub(start) / Cadence)
	if end.Sub(start)%Cadence != 0 {
		n++
	}
	samples := make([]HorizonSample, 0, n)

	for t := start; t.Before(end); t = t.Add(Cadence) {
		h, err := transform.ToHorizontal(obs, pos, t)
		if err != nil {
			return nil, eris.Wrapf(err, "sample %s at %s", site.Name, t.UTC().Format(time.RFC3339))
		}
		samples = append(samples, HorizonSample{
			Time:     t,
			Altitude: h.AltitudeDeg,
			Azimuth:  h.AzimuthDeg,
		})
	}
	return samples, nil
}

// Window returns the sampling interval that starts at start and lasts hours.
func Window(start time.Time, hours float64) (time.Time, time.Time) {
	return start, start.Add(time.Duration(hours * float64(time.Hour)))
}
