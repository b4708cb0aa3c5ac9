package signal

import (
	"math"
	"math/rand"
	"time"
)

const (
	icpBaseline   = 10.0
	icpNoiseSigma = 2.0
	icpPulseAmp   = 2.5
	icpPulseFreq  = 2.0
	icpMin        = 5.0
	icpMax        = 25.0
)

// ICP simulates an intracranial pressure reading: baseline plus gaussian
// noise plus a slow sinusoid keyed to the clock, bounded to [5, 25] mmHg.
type ICP struct {
	rng *rand.Rand
	now func() time.Time
}

func NewICP(seed int64) *ICP {
	return &ICP{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// Next returns the next simulated pressure sample.
func (s *ICP) Next() float64 {
	t := float64(s.now().UnixNano()) / float64(time.Second)
	v := icpBaseline + s.rng.NormFloat64()*icpNoiseSigma + icpPulseAmp*math.Sin(t*icpPulseFreq)
	return math.Max(icpMin, math.Min(icpMax, v))
}
