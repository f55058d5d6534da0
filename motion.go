package motion

import (
	"image/color"
	"math/rand/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA converts c to a premultiplied color.RGBA, scaling alpha by the extra
// opacity factor.
func (c Color) RGBA(opacity float64) color.RGBA {
	a := clamp01(c.A * opacity)
	return color.RGBA{
		R: uint8(clamp01(c.R*a) * 255),
		G: uint8(clamp01(c.G*a) * 255),
		B: uint8(clamp01(c.B*a) * 255),
		A: uint8(a * 255),
	}
}

// Vec2 is a 2D vector used for pointer positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D vector used for particle positions and rotations.
type Vec3 struct {
	X, Y, Z float64
}

// Rect is an axis-aligned rectangle in viewport space. The origin is the
// top-left corner with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Range is a general-purpose min/max range used by the particle field and
// the backdrop generator.
type Range struct {
	Min, Max float64
}

// sample returns a value in [Min, Max] drawn from rng.
func (r Range) sample(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// newRand returns a PCG-backed generator. A zero seed draws a fresh seed
// from the global source.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SignalKind identifies which slot a raw Sample writes to.
type SignalKind uint8

const (
	SignalScroll   SignalKind = iota // vertical scroll offset in pixels
	SignalPointer                    // pointer position in viewport pixels
	SignalViewport                   // viewport size in pixels
	SignalPath                       // current route pathname
	SignalPress                      // primary button state at a pointer position
)
