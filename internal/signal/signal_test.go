package signal

import (
	"math"
	"testing"
	"time"
)

func TestECGCyclicIndexing(t *testing.T) {
	e := NewECG()

	for _, i := range []int{0, 1, 250, 499, 500, 501, 999, 1000, 12345} {
		want := e.wave[i%len(e.wave)]
		if got := e.At(i); got != want {
			t.Errorf("At(%d): expected %f, got %f", i, want, got)
		}
	}
}

func TestECGNextRepeatsEveryCycle(t *testing.T) {
	e := NewECG()

	first := make([]float64, e.Len())
	for i := range first {
		first[i] = e.Next()
	}
	for i := 0; i < e.Len(); i++ {
		if got := e.Next(); got != first[i] {
			t.Fatalf("sample %d of second cycle: expected %f, got %f", i, first[i], got)
		}
	}
}

func TestECGSpike(t *testing.T) {
	e := NewECG()

	// The R spike sits in (0.30, 0.32) of the cycle and dominates the
	// damped sinusoid there.
	peak := 0.0
	for i := 0; i < e.Len(); i++ {
		if v := e.At(i); v > peak {
			peak = v
		}
	}
	if peak < 2.0 {
		t.Errorf("expected spike above 2.0, got peak %f", peak)
	}
}

func TestICPBounds(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 1234567, -99} {
		s := NewICP(seed)
		for i := 0; i < 5000; i++ {
			v := s.Next()
			if v < 5.0 || v > 25.0 {
				t.Fatalf("seed %d: sample %d out of bounds: %f", seed, i, v)
			}
		}
	}
}

func TestICPUsesClock(t *testing.T) {
	s := NewICP(7)
	fixed := time.Unix(1000, 0)
	s.now = func() time.Time { return fixed }

	// With the clock pinned, only the noise term varies; the sinusoid
	// contribution is constant across calls.
	sum := 0.0
	const n = 10000
	for i := 0; i < n; i++ {
		sum += s.Next()
	}
	mean := sum / n
	want := icpBaseline + icpPulseAmp*math.Sin(1000*icpPulseFreq)
	if math.Abs(mean-want) > 0.2 {
		t.Errorf("expected mean near %f, got %f", want, mean)
	}
}

func TestProxyChunkSize(t *testing.T) {
	p := NewProxy(44100, 1)

	chunk := p.Chunk(50 * time.Millisecond)
	if len(chunk) != 2205 {
		t.Errorf("expected 2205 samples in a 50ms chunk, got %d", len(chunk))
	}
}

func TestProxyChunkAmplitude(t *testing.T) {
	p := NewProxy(44100, 1)

	for _, v := range p.Chunk(100 * time.Millisecond) {
		if math.Abs(v) > 1.0 {
			t.Fatalf("sample out of expected amplitude range: %f", v)
		}
	}
}
