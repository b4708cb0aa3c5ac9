package signal

import "math"

const ecgSamples = 500

// ECG holds one cycle of a synthetic electrocardiogram trace: a damped
// sinusoid with a narrow R spike near a third of the way in. The waveform
// is computed once and read back cyclically, so the trace repeats exactly
// every cycle.
type ECG struct {
	wave  []float64
	index int
}

func NewECG() *ECG {
	wave := make([]float64, ecgSamples)
	for i := range wave {
		t := float64(i) / float64(ecgSamples)
		v := 1.2 * math.Sin(2*math.Pi*3*t) * math.Exp(-4*t)
		if t > 0.3 && t < 0.32 {
			v += 2.5
		}
		wave[i] = v
	}
	return &ECG{wave: wave}
}

// At returns the waveform sample for cycle index i.
func (e *ECG) At(i int) float64 {
	return e.wave[i%len(e.wave)]
}

// Next returns the sample at the current position and advances it.
func (e *ECG) Next() float64 {
	v := e.At(e.index)
	e.index++
	return v
}

func (e *ECG) Len() int {
	return len(e.wave)
}

// Reset rewinds the cycle position.
func (e *ECG) Reset() {
	e.index = 0
}
