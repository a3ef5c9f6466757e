package circles

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestStoreCapacity(t *testing.T) {
	s := NewStore()
	for i := 0; i < MaxCircles; i++ {
		if _, err := s.Add(Circle{Radius: 10}); err != nil {
			t.Fatalf("add %d: %v", i+1, err)
		}
	}
	before := s.All()
	next := s.NextID()
	if _, err := s.Add(Circle{Radius: 10}); !errors.Is(err, ErrCapacity) {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
	if s.Len() != MaxCircles {
		t.Fatalf("store grew past cap: %d", s.Len())
	}
	if s.NextID() != next {
		t.Fatalf("failed add consumed an id: %d -> %d", next, s.NextID())
	}
	after := s.All()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("circle %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestStoreIDsNeverReused(t *testing.T) {
	s := NewStore()
	last := 0
	add := func() {
		c, err := s.Add(Circle{Radius: 10})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if c.ID <= last {
			t.Fatalf("id %d not greater than previous %d", c.ID, last)
		}
		last = c.ID
	}
	for i := 0; i < 3; i++ {
		add()
	}
	if !s.Remove(3) {
		t.Fatal("expected id 3 to be removed")
	}
	if !s.Remove(1) {
		t.Fatal("expected id 1 to be removed")
	}
	for i := 0; i < 4; i++ {
		add()
	}
	if last != 7 {
		t.Fatalf("expected last id 7, got %d", last)
	}
	if s.Has(1) || s.Has(3) {
		t.Fatal("removed ids came back")
	}
}

func TestStoreInsertionOrder(t *testing.T) {
	s := NewStore()
	for i := 0; i < 4; i++ {
		if _, err := s.Add(Circle{X: float64(i), Radius: 10}); err != nil {
			t.Fatal(err)
		}
	}
	s.Remove(2)
	s.MoveTo(1, Point{X: 50, Y: 50})
	got := s.All()
	want := []int{1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %d circles, want %d", len(got), len(want))
	}
	for i, c := range got {
		if c.ID != want[i] {
			t.Fatalf("position %d: got id %d, want %d", i, c.ID, want[i])
		}
	}
	if got[0].X != 50 || got[0].Y != 50 {
		t.Fatalf("move not applied: %+v", got[0])
	}
	if s.MoveTo(2, Point{}) {
		t.Fatal("moving a removed circle should fail")
	}
	if s.Remove(2) {
		t.Fatal("second remove should report false")
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := NewStore()
	c, _ := s.Add(Circle{X: 1, Y: 1, Radius: 10})
	got, ok := s.Get(c.ID)
	if !ok {
		t.Fatal("missing circle")
	}
	got.X = 99
	again, _ := s.Get(c.ID)
	if again.X != 1 {
		t.Fatalf("store mutated through copy: %+v", again)
	}
}

func TestHitTest(t *testing.T) {
	c := Circle{X: 100, Y: 80, Radius: 20}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"centre", Point{100, 80}, true},
		{"edge", Point{120, 80}, true},
		{"inside diagonal", Point{110, 90}, true},
		{"one past edge", Point{121, 80}, false},
		{"far away", Point{0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitTest(c, tt.p); got != tt.want {
				t.Fatalf("HitTest(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestClampCenter(t *testing.T) {
	const w, h = 200.0, 100.0
	tests := []struct {
		p    Point
		r    float64
		want Point
	}{
		{Point{50, 50}, 10, Point{50, 50}},
		{Point{-30, 50}, 10, Point{10, 50}},
		{Point{w + 100, 50}, 15, Point{w - 15, 50}},
		{Point{50, h + 1}, 20, Point{50, h - 20}},
		{Point{-1, -1}, 25, Point{25, 25}},
	}
	for _, tt := range tests {
		if got := ClampCenter(tt.p, tt.r, w, h); got != tt.want {
			t.Errorf("ClampCenter(%v, %v) = %v, want %v", tt.p, tt.r, got, tt.want)
		}
	}
}

func TestClampOversizedCircle(t *testing.T) {
	// Canvas narrower than the circle: the upper bound wins.
	if got := Clamp(5, 30, 20); got != 20 {
		t.Fatalf("Clamp = %v, want 20", got)
	}
}

func TestFactoryRanges(t *testing.T) {
	f := NewFactory(42)
	for i := 0; i < 500; i++ {
		c := f.New(640, 480)
		if c.X < 0 || c.X >= 640 || c.Y < 0 || c.Y >= 480 {
			t.Fatalf("centre out of canvas: %+v", c)
		}
		if c.Radius < MinRadius || c.Radius >= MaxRadius {
			t.Fatalf("radius out of range: %v", c.Radius)
		}
		if c.Color.A != 255 {
			t.Fatalf("expected opaque colour, got %+v", c.Color)
		}
		if c.ID != 0 {
			t.Fatalf("factory assigned an id: %d", c.ID)
		}
	}
}

func TestFactorySeedIsDeterministic(t *testing.T) {
	a := NewFactory(7).New(100, 100)
	b := NewFactory(7).New(100, 100)
	if a != b {
		t.Fatalf("same seed gave %+v and %+v", a, b)
	}
	if math.IsNaN(a.X) {
		t.Fatal("NaN centre")
	}
}

func TestStoreRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	f := NewFactory(7)
	for run := 0; run < 200; run++ {
		s := NewStore()
		lastID := 0
		for step := 0; step < 60; step++ {
			if rng.Intn(3) > 0 {
				full := s.Full()
				c, err := s.Add(f.New(300, 150))
				switch {
				case full && !errors.Is(err, ErrCapacity):
					t.Fatalf("run %d step %d: add to full store gave %v", run, step, err)
				case !full && err != nil:
					t.Fatalf("run %d step %d: add: %v", run, step, err)
				case err == nil:
					if c.ID <= lastID {
						t.Fatalf("run %d step %d: id %d after %d", run, step, c.ID, lastID)
					}
					lastID = c.ID
				}
			} else if all := s.All(); len(all) > 0 {
				s.Remove(all[rng.Intn(len(all))].ID)
			}
			if s.Len() > MaxCircles {
				t.Fatalf("run %d step %d: store holds %d circles", run, step, s.Len())
			}
			prev := 0
			for _, c := range s.All() {
				if c.ID <= prev {
					t.Fatalf("run %d step %d: iteration order %d after %d", run, step, c.ID, prev)
				}
				prev = c.ID
			}
		}
	}
}
