// Package signal provides the synthetic vitals sources rendered by the
// monitor:
//
//   - [ECG]: a canned electrocardiogram waveform sampled once and indexed
//     cyclically
//   - [ICP]: a simulated intracranial pressure value, clamped to the
//     physiological display range
//   - [Proxy]: a sine-plus-noise stand-in for decoded track audio
//
// None of these read real sensor or audio input.
package signal
