package dsp_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vitalscope/internal/dsp"
)

const fs = 44100.0

func sine(freq float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / fs)
	}
	return out
}

func rms(samples []float64) float64 {
	sum := 0.0
	for _, v := range samples {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

var _ = Describe("LowPass", func() {
	It("rejects invalid design parameters", func() {
		_, err := dsp.NewLowPass(0, 1000, fs)
		Expect(err).To(MatchError(dsp.ErrFilterDesign))

		_, err = dsp.NewLowPass(6, -1, fs)
		Expect(err).To(MatchError(dsp.ErrFilterDesign))

		_, err = dsp.NewLowPass(6, fs/2, fs)
		Expect(err).To(MatchError(dsp.ErrFilterDesign))
	})

	It("filters silence to silence", func() {
		f, err := dsp.NewLowPass(6, 1000, fs)
		Expect(err).NotTo(HaveOccurred())

		out := f.Apply(make([]float64, 4096))
		for _, v := range out {
			Expect(math.Abs(v)).To(BeNumerically("<=", 1e-12))
		}
	})

	It("passes DC at unity gain", func() {
		f, err := dsp.NewLowPass(6, 1000, fs)
		Expect(err).NotTo(HaveOccurred())

		input := make([]float64, 8192)
		for i := range input {
			input[i] = 1.0
		}
		out := f.Apply(input)
		Expect(out[len(out)-1]).To(BeNumerically("~", 1.0, 1e-6))
	})

	It("passes in-band tones and attenuates out-of-band tones", func() {
		f, err := dsp.NewLowPass(6, 1000, fs)
		Expect(err).NotTo(HaveOccurred())

		low := f.Apply(sine(100, 44100))
		Expect(rms(low[len(low)/2:])).To(BeNumerically("~", 1/math.Sqrt2, 0.02))

		f.Reset()
		high := f.Apply(sine(5000, 44100))
		Expect(rms(high[len(high)/2:])).To(BeNumerically("<", 0.01))
	})

	It("supports odd orders", func() {
		f, err := dsp.NewLowPass(5, 1000, fs)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Order()).To(Equal(5))

		input := make([]float64, 8192)
		for i := range input {
			input[i] = 1.0
		}
		out := f.Apply(input)
		Expect(out[len(out)-1]).To(BeNumerically("~", 1.0, 1e-6))
	})
})

var _ = Describe("Spectrogram", func() {
	It("rejects impossible segment parameters", func() {
		_, err := dsp.Spectrogram(make([]float64, 512), fs, 1024, 768)
		Expect(err).To(MatchError(dsp.ErrSegment))

		_, err = dsp.Spectrogram(make([]float64, 4096), fs, 1024, 1024)
		Expect(err).To(MatchError(dsp.ErrSegment))
	})

	It("produces the expected grid dimensions", func() {
		sp, err := dsp.Spectrogram(make([]float64, 88200), fs, 1024, 768)
		Expect(err).NotTo(HaveOccurred())

		frames := 1 + (88200-1024)/256
		Expect(sp.Times).To(HaveLen(frames))
		Expect(sp.Freqs).To(HaveLen(513))
		Expect(sp.Power).To(HaveLen(513))
		Expect(sp.Power[0]).To(HaveLen(frames))
	})

	It("concentrates tone power at the tone frequency", func() {
		sp, err := dsp.Spectrogram(sine(440, 44100), fs, 1024, 768)
		Expect(err).NotTo(HaveOccurred())

		frame := len(sp.Times) / 2
		peakBin := 0
		for b := range sp.Freqs {
			if sp.Power[b][frame] > sp.Power[peakBin][frame] {
				peakBin = b
			}
		}
		// bin width is fs/1024 ~ 43 Hz
		Expect(sp.Freqs[peakBin]).To(BeNumerically("~", 440, fs/1024))
	})

	It("masks frequencies above the limit", func() {
		sp, err := dsp.Spectrogram(make([]float64, 8192), fs, 1024, 768)
		Expect(err).NotTo(HaveOccurred())

		limited := sp.LimitFreq(1000)
		Expect(limited.Freqs).NotTo(BeEmpty())
		for _, f := range limited.Freqs {
			Expect(f).To(BeNumerically("<=", 1000))
		}
		Expect(len(limited.Power)).To(Equal(len(limited.Freqs)))
	})

	It("floors silence at -100 dB", func() {
		sp, err := dsp.Spectrogram(make([]float64, 4096), fs, 1024, 768)
		Expect(err).NotTo(HaveOccurred())

		db := sp.DB()
		Expect(db[0][0]).To(BeNumerically("~", -100, 1e-9))
	})
})

var _ = Describe("PowerSpectrum", func() {
	It("peaks at the dominant frequency bin", func() {
		n := 4096
		data := make([]float64, n)
		for i := range data {
			data[i] = math.Sin(2 * math.Pi * 64 * float64(i) / float64(n))
		}

		ps := dsp.PowerSpectrum(data)
		peak := 1
		for i := 2; i < len(ps); i++ {
			if ps[i] > ps[peak] {
				peak = i
			}
		}
		Expect(peak).To(Equal(64))
	})

	It("returns nil for empty input", func() {
		Expect(dsp.PowerSpectrum(nil)).To(BeNil())
	})
})
