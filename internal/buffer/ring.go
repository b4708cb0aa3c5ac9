package buffer

// Rolling is a fixed-length sample window. New samples are shifted in at
// the tail; the oldest samples fall off the head. The length never changes
// after construction.
type Rolling struct {
	data []float64
}

func NewRolling(n int) *Rolling {
	return &Rolling{data: make([]float64, n)}
}

// Push shifts the window left by one and appends v at the tail.
func (r *Rolling) Push(v float64) {
	copy(r.data, r.data[1:])
	r.data[len(r.data)-1] = v
}

// PushAll shifts the window left by len(vs) and appends vs at the tail.
// If vs is longer than the window, only its last Len() values are kept.
func (r *Rolling) PushAll(vs []float64) {
	n := len(r.data)
	if len(vs) >= n {
		copy(r.data, vs[len(vs)-n:])
		return
	}
	copy(r.data, r.data[len(vs):])
	copy(r.data[n-len(vs):], vs)
}

func (r *Rolling) Len() int {
	return len(r.data)
}

// Values returns the window contents, oldest first. The returned slice is
// the internal storage; callers that hold onto it should use Snapshot.
func (r *Rolling) Values() []float64 {
	return r.data
}

// Snapshot returns a copy of the window contents.
func (r *Rolling) Snapshot() []float64 {
	c := make([]float64, len(r.data))
	copy(c, r.data)
	return c
}

// Reset zeroes the window.
func (r *Rolling) Reset() {
	for i := range r.data {
		r.data[i] = 0
	}
}
