package circles

import (
	"image/color"
	"math/rand"
	"time"
)

// Store owns the live circles. Iteration follows insertion order, which is
// both the draw order and the hit-test order. Ids come from a counter that
// never goes backwards, so a removed id is never handed out again.
//
// Store is not safe for concurrent use; it is mutated from the event loop only.
type Store struct {
	order  []int
	byID   map[int]*Circle
	nextID int
}

// NewStore returns an empty store whose first id is 1.
func NewStore() *Store {
	return &Store{byID: make(map[int]*Circle), nextID: 1}
}

// Len returns the number of circles in the store.
func (s *Store) Len() int { return len(s.order) }

// Full reports whether another circle would exceed MaxCircles.
func (s *Store) Full() bool { return len(s.order) >= MaxCircles }

// NextID returns the id the next added circle will receive.
func (s *Store) NextID() int { return s.nextID }

// Add assigns the next id to c and appends it. The store is left untouched and
// ErrCapacity returned when it is already full.
func (s *Store) Add(c Circle) (Circle, error) {
	if s.Full() {
		return Circle{}, ErrCapacity
	}
	c.ID = s.nextID
	s.nextID++
	stored := c
	s.byID[c.ID] = &stored
	s.order = append(s.order, c.ID)
	return c, nil
}

// Get returns a copy of the circle with the given id.
func (s *Store) Get(id int) (Circle, bool) {
	c, ok := s.byID[id]
	if !ok {
		return Circle{}, false
	}
	return *c, true
}

// Has reports whether id is in the store.
func (s *Store) Has(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// MoveTo sets the centre of circle id. It reports false for unknown ids.
func (s *Store) MoveTo(id int, p Point) bool {
	c, ok := s.byID[id]
	if !ok {
		return false
	}
	c.X, c.Y = p.X, p.Y
	return true
}

// Remove deletes circle id, reporting whether it was present.
func (s *Store) Remove(id int) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns copies of every circle in insertion order.
func (s *Store) All() []Circle {
	out := make([]Circle, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

// Factory makes circles with a random centre, radius and colour.
type Factory struct {
	rng *rand.Rand
}

// NewFactory returns a Factory seeded with seed, or with the current time when
// seed is zero.
func NewFactory(seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{rng: rand.New(rand.NewSource(seed))}
}

// New returns a circle centred somewhere in a width x height canvas with a
// radius in [MinRadius, MaxRadius). The id is left for the store to assign.
func (f *Factory) New(width, height float64) Circle {
	return Circle{
		X:      f.rng.Float64() * width,
		Y:      f.rng.Float64() * height,
		Radius: MinRadius + f.rng.Float64()*(MaxRadius-MinRadius),
		Color: color.RGBA{
			R: uint8(f.rng.Intn(255)),
			G: uint8(f.rng.Intn(255)),
			B: uint8(f.rng.Intn(255)),
			A: 255,
		},
	}
}
