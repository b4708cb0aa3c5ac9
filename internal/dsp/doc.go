// Package dsp provides the signal-processing pieces behind the monitor's
// spectrogram panel and the offline analysis commands:
//
//   - [LowPass]: Butterworth low-pass filter as a cascade of biquad sections
//   - [Spectrogram]: short-time Fourier transform power spectrogram
//   - [PowerSpectrum]: single-shot magnitude spectrum of a trace
//
// FFTs are computed with github.com/mjibson/go-dsp/fft.
package dsp
