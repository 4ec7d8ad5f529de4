package planestate

import "time"

// lowPassFilter is a per-field first-order low-pass filter with a fixed
// sample rate and time constant, reset when the field first appears.
type lowPassFilter struct {
	alpha  float64
	output float64
}

// newLowPassFilter builds a filter sampled at sampleHz with time constant
// tau, initialised (and thus effectively reset) to initial.
func newLowPassFilter(sampleHz float64, tau time.Duration, initial float64) *lowPassFilter {
	dt := 1.0 / sampleHz
	tauSeconds := tau.Seconds()
	alpha := dt / (tauSeconds + dt)
	return &lowPassFilter{alpha: alpha, output: initial}
}

// Update feeds a new raw sample through the filter and returns the updated
// output.
func (f *lowPassFilter) Update(sample float64) float64 {
	f.output += f.alpha * (sample - f.output)
	return f.output
}

// Output returns the filter's current value without advancing it.
func (f *lowPassFilter) Output() float64 {
	return f.output
}
