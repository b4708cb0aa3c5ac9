package signal

import (
	"math"
	"math/rand"
	"time"
)

const (
	proxyToneFreq = 440.0
	proxyToneAmp  = 0.5
	proxyNoiseAmp = 0.05
)

// Proxy generates the synthetic stand-in for decoded track audio: a 440 Hz
// tone with gaussian noise. Decoded PCM goes straight to the output device;
// this is what the spectrogram pipeline sees instead.
type Proxy struct {
	rate  int
	phase float64
	rng   *rand.Rand
}

func NewProxy(sampleRate int, seed int64) *Proxy {
	return &Proxy{
		rate: sampleRate,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (p *Proxy) Rate() int {
	return p.rate
}

// Chunk returns d worth of samples, advancing the tone phase so that
// consecutive chunks are continuous.
func (p *Proxy) Chunk(d time.Duration) []float64 {
	n := int(float64(p.rate) * d.Seconds())
	out := make([]float64, n)
	dt := 1.0 / float64(p.rate)
	for i := range out {
		out[i] = proxyToneAmp*math.Sin(2*math.Pi*proxyToneFreq*p.phase) + proxyNoiseAmp*p.rng.NormFloat64()
		p.phase += dt
	}
	return out
}
