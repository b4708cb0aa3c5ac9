package dsp

import (
	"errors"
	"math"
)

// ErrFilterDesign indicates invalid filter parameters.
var ErrFilterDesign = errors.New("dsp: invalid filter design parameters")

// biquad is one second-order IIR section, transposed direct form II.
// Coefficients are normalized so a0 == 1.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

func (s *biquad) process(x float64) float64 {
	y := s.b0*x + s.z1
	s.z1 = s.b1*x - s.a1*y + s.z2
	s.z2 = s.b2*x - s.a2*y
	return y
}

func (s *biquad) reset() {
	s.z1, s.z2 = 0, 0
}

// firstOrder is the single-pole section used for odd filter orders.
type firstOrder struct {
	b0, b1, a1 float64
	x1, y1     float64
}

func (s *firstOrder) process(x float64) float64 {
	y := s.b0*x + s.b1*s.x1 - s.a1*s.y1
	s.x1, s.y1 = x, y
	return y
}

func (s *firstOrder) reset() {
	s.x1, s.y1 = 0, 0
}

// LowPass is a Butterworth low-pass filter of configurable order, built as
// a cascade of bilinear-transformed second-order sections (plus one
// first-order section when the order is odd). DC gain is unity.
type LowPass struct {
	order    int
	cutoff   float64
	rate     float64
	sections []biquad
	single   *firstOrder
}

// NewLowPass designs a low-pass filter with the given order and cutoff
// frequency in Hz. The cutoff must lie below the Nyquist frequency.
func NewLowPass(order int, cutoff, sampleRate float64) (*LowPass, error) {
	if order < 1 || cutoff <= 0 || sampleRate <= 0 || cutoff >= sampleRate/2 {
		return nil, ErrFilterDesign
	}

	f := &LowPass{order: order, cutoff: cutoff, rate: sampleRate}

	w0 := 2 * math.Pi * cutoff / sampleRate
	cosw0 := math.Cos(w0)
	sinw0 := math.Sin(w0)

	// Butterworth pole pairs: section k has Q = 1/(2 sin(gamma_k)) with
	// gamma_k = pi(2k-1)/(2N).
	pairs := order / 2
	for k := 1; k <= pairs; k++ {
		gamma := math.Pi * float64(2*k-1) / float64(2*order)
		q := 1.0 / (2.0 * math.Sin(gamma))

		alpha := sinw0 / (2.0 * q)
		a0 := 1.0 + alpha
		f.sections = append(f.sections, biquad{
			b0: (1.0 - cosw0) / 2.0 / a0,
			b1: (1.0 - cosw0) / a0,
			b2: (1.0 - cosw0) / 2.0 / a0,
			a1: -2.0 * cosw0 / a0,
			a2: (1.0 - alpha) / a0,
		})
	}

	if order%2 == 1 {
		k := math.Tan(math.Pi * cutoff / sampleRate)
		f.single = &firstOrder{
			b0: k / (k + 1.0),
			b1: k / (k + 1.0),
			a1: (k - 1.0) / (k + 1.0),
		}
	}

	return f, nil
}

func (f *LowPass) Order() int      { return f.order }
func (f *LowPass) Cutoff() float64 { return f.cutoff }

// Process filters a single sample, carrying state across calls.
func (f *LowPass) Process(x float64) float64 {
	y := x
	for i := range f.sections {
		y = f.sections[i].process(y)
	}
	if f.single != nil {
		y = f.single.process(y)
	}
	return y
}

// Apply filters a block of samples into a new slice.
func (f *LowPass) Apply(samples []float64) []float64 {
	out := make([]float64, len(samples))
	for i, x := range samples {
		out[i] = f.Process(x)
	}
	return out
}

// Reset clears the filter state.
func (f *LowPass) Reset() {
	for i := range f.sections {
		f.sections[i].reset()
	}
	if f.single != nil {
		f.single.reset()
	}
}
