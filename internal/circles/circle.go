// Package circles holds the circle record drawn over an image and the bounded,
// insertion-ordered store that owns those circles.
package circles

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

const (
	// MaxCircles is the most circles a store will hold at once.
	MaxCircles = 5
	// MinRadius and MaxRadius bound the radius of generated circles. MaxRadius
	// is exclusive.
	MinRadius = 10.0
	MaxRadius = 30.0
)

var (
	// ErrCapacity is returned when a circle is added to a full store.
	ErrCapacity = fmt.Errorf("maximum of %d circles reached", MaxCircles)
	// ErrNoSelection is returned when an operation needs a selected circle.
	ErrNoSelection = errors.New("no circle is selected")
	// ErrNotFound is returned when a circle id is no longer in the store.
	ErrNotFound = errors.New("selected circle not found")
)

// Point is a position in canvas pixel space.
type Point struct {
	X, Y float64
}

// Circle is a filled disc with an identity. X and Y locate its centre in
// canvas pixel space.
type Circle struct {
	ID     int
	X, Y   float64
	Radius float64
	Color  color.RGBA
}

// Center returns the centre of c.
func (c Circle) Center() Point { return Point{X: c.X, Y: c.Y} }

// String implements fmt.Stringer.
func (c Circle) String() string {
	return fmt.Sprintf("#%d at (%.1f, %.1f) r=%.1f rgb(%d, %d, %d)",
		c.ID, c.X, c.Y, c.Radius, c.Color.R, c.Color.G, c.Color.B)
}

// HitTest reports whether p lies inside c or on its edge.
func HitTest(c Circle, p Point) bool {
	return math.Hypot(p.X-c.X, p.Y-c.Y) <= c.Radius
}

// Clamp limits v to [lo, hi]. When lo exceeds hi the upper bound wins, so a
// circle wider than the canvas is pinned to the far edge.
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(lo, v), hi)
}

// ClampCenter returns p moved so that a circle of radius r centred on it stays
// inside a width x height canvas.
func ClampCenter(p Point, r, width, height float64) Point {
	return Point{
		X: Clamp(p.X, r, width-r),
		Y: Clamp(p.Y, r, height-r),
	}
}
