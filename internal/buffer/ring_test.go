package buffer

import "testing"

func TestRollingPush(t *testing.T) {
	r := NewRolling(5)

	appended := []float64{1, 2, 3}
	for _, v := range appended {
		r.Push(v)
	}

	if r.Len() != 5 {
		t.Fatalf("expected length 5 after pushes, got %d", r.Len())
	}

	vals := r.Values()
	tail := vals[len(vals)-len(appended):]
	for i, want := range appended {
		if tail[i] != want {
			t.Errorf("tail[%d]: expected %f, got %f", i, want, tail[i])
		}
	}
}

func TestRollingPushOverflow(t *testing.T) {
	r := NewRolling(4)

	for i := 1; i <= 10; i++ {
		r.Push(float64(i))
	}

	want := []float64{7, 8, 9, 10}
	for i, v := range r.Values() {
		if v != want[i] {
			t.Errorf("values[%d]: expected %f, got %f", i, want[i], v)
		}
	}
}

func TestRollingPushAll(t *testing.T) {
	r := NewRolling(6)
	r.PushAll([]float64{1, 2, 3})
	r.PushAll([]float64{4, 5})

	want := []float64{0, 1, 2, 3, 4, 5}
	if r.Len() != 6 {
		t.Fatalf("expected length 6, got %d", r.Len())
	}
	for i, v := range r.Values() {
		if v != want[i] {
			t.Errorf("values[%d]: expected %f, got %f", i, want[i], v)
		}
	}
}

func TestRollingPushAllLongerThanWindow(t *testing.T) {
	r := NewRolling(3)
	r.PushAll([]float64{1, 2, 3, 4, 5})

	want := []float64{3, 4, 5}
	for i, v := range r.Values() {
		if v != want[i] {
			t.Errorf("values[%d]: expected %f, got %f", i, want[i], v)
		}
	}
}

func TestRollingSnapshotIsCopy(t *testing.T) {
	r := NewRolling(3)
	r.Push(1)

	snap := r.Snapshot()
	r.Push(2)

	if snap[2] != 1 {
		t.Errorf("snapshot mutated by later push: got %f", snap[2])
	}
}

func TestRollingReset(t *testing.T) {
	r := NewRolling(4)
	r.PushAll([]float64{1, 2, 3, 4})
	r.Reset()

	for i, v := range r.Values() {
		if v != 0 {
			t.Errorf("values[%d]: expected 0 after reset, got %f", i, v)
		}
	}
}
