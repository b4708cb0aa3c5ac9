package dsp

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// ErrSegment indicates STFT segment parameters that cannot produce a frame.
var ErrSegment = errors.New("dsp: segment must exceed overlap and fit the input")

const dbFloor = 1e-10

// Spectro is an STFT power spectrogram. Power is indexed [freq][time],
// in linear units; DB converts for display.
type Spectro struct {
	Freqs []float64
	Times []float64
	Power [][]float64
}

// Hann returns an n-point Hann window.
func Hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// Spectrogram computes the power spectrogram of samples at rate fs using
// Hann-windowed segments of the given length with the given overlap. The
// whole input is recomputed from scratch on every call.
func Spectrogram(samples []float64, fs float64, segment, overlap int) (*Spectro, error) {
	if segment <= 0 || overlap < 0 || overlap >= segment || len(samples) < segment {
		return nil, ErrSegment
	}

	hop := segment - overlap
	frames := 1 + (len(samples)-segment)/hop
	bins := segment/2 + 1

	window := Hann(segment)
	winPower := 0.0
	for _, w := range window {
		winPower += w * w
	}
	scale := 1.0 / (fs * winPower)

	sp := &Spectro{
		Freqs: make([]float64, bins),
		Times: make([]float64, frames),
		Power: make([][]float64, bins),
	}
	for b := range sp.Freqs {
		sp.Freqs[b] = float64(b) * fs / float64(segment)
		sp.Power[b] = make([]float64, frames)
	}

	windowed := make([]float64, segment)
	for fr := 0; fr < frames; fr++ {
		start := fr * hop
		sp.Times[fr] = (float64(start) + float64(segment)/2) / fs

		for i := 0; i < segment; i++ {
			windowed[i] = samples[start+i] * window[i]
		}
		spectrum := fft.FFTReal(windowed)

		for b := 0; b < bins; b++ {
			mag := cmplx.Abs(spectrum[b])
			p := mag * mag * scale
			// one-sided spectrum: double everything but DC and Nyquist
			if b > 0 && b < segment/2 {
				p *= 2
			}
			sp.Power[b][fr] = p
		}
	}

	return sp, nil
}

// LimitFreq drops frequency rows above max Hz.
func (s *Spectro) LimitFreq(max float64) *Spectro {
	keep := 0
	for keep < len(s.Freqs) && s.Freqs[keep] <= max {
		keep++
	}
	return &Spectro{
		Freqs: s.Freqs[:keep],
		Times: s.Times,
		Power: s.Power[:keep],
	}
}

// DB returns the power grid in decibels with a small floor so silence does
// not produce -Inf.
func (s *Spectro) DB() [][]float64 {
	out := make([][]float64, len(s.Power))
	for b, row := range s.Power {
		out[b] = make([]float64, len(row))
		for i, p := range row {
			out[b][i] = 10 * math.Log10(p+dbFloor)
		}
	}
	return out
}

// PowerSpectrum returns the magnitude spectrum of a trace, bins 0..n/2.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(data)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}
