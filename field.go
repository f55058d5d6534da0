package motion

import (
	"cmp"
	"math"
	"slices"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// particleRadius is the world-space radius of a particle with Size 1.
const particleRadius = 0.1

// Particle is a single point in a Field. Positions are assigned once at
// construction and never change.
type Particle struct {
	Position Vec3
	Color    Color
	Size     float64
}

// Envelope describes a sinusoidal oscillation Base ± Amplitude.
type Envelope struct {
	Base      float64
	Amplitude float64
	// Frequency is in radians per second.
	Frequency float64
}

// At returns the envelope value at elapsed seconds.
func (e Envelope) At(elapsed float64) float64 {
	return e.Base + e.Amplitude*math.Sin(elapsed*e.Frequency)
}

// FieldConfig controls how a Field is generated and animated. Zero fields
// take the defaults listed on each field.
type FieldConfig struct {
	// Count is the fixed particle count. Default 150.
	Count int
	// Bounds is the half-extent of the spawn cube. Default 5.
	Bounds float64
	// Hue is the hue range in degrees. Default 200-260.
	Hue Range
	// Saturation and Lightness are HSL components in [0, 1]. Default 0.8, 0.7.
	Saturation float64
	Lightness  float64
	// Size is the range of per-particle size factors. Default 0.05-0.15.
	Size Range
	// RotationRate is the angular rate in radians per second around the X
	// and Y axes. Default (0.1, 0.2).
	RotationRate Vec2
	// Opacity oscillates the whole field. Default 0.6 ± 0.3 at 1 rad/s.
	// Must stay strictly inside (0, 1).
	Opacity Envelope
	// Seed makes generation reproducible. Zero draws a random seed.
	Seed uint64
}

// DefaultFieldConfig returns the configuration used by the hero scene.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{}.withDefaults()
}

func (c FieldConfig) withDefaults() FieldConfig {
	if c.Count <= 0 {
		c.Count = 150
	}
	if c.Bounds <= 0 {
		c.Bounds = 5
	}
	if c.Hue == (Range{}) {
		c.Hue = Range{200, 260}
	}
	if c.Saturation == 0 {
		c.Saturation = 0.8
	}
	if c.Lightness == 0 {
		c.Lightness = 0.7
	}
	if c.Size == (Range{}) {
		c.Size = Range{0.05, 0.15}
	}
	if c.RotationRate == (Vec2{}) {
		c.RotationRate = Vec2{0.1, 0.2}
	}
	if c.Opacity == (Envelope{}) {
		c.Opacity = Envelope{Base: 0.6, Amplitude: 0.3, Frequency: 1}
	}
	return c
}

// FieldTransform is the aggregate transform applied to every particle of a
// Field at draw time.
type FieldTransform struct {
	RotationX float64
	RotationY float64
	Opacity   float64
}

// Field is a fixed-size, procedurally generated point cloud. Motion comes
// entirely from the aggregate transform; particles are never moved.
type Field struct {
	config    FieldConfig
	particles []Particle
	disposed  bool
}

// NewField generates a field. Panics if the opacity envelope can reach 0 or 1.
func NewField(cfg FieldConfig) *Field {
	cfg = cfg.withDefaults()
	lo := cfg.Opacity.Base - math.Abs(cfg.Opacity.Amplitude)
	hi := cfg.Opacity.Base + math.Abs(cfg.Opacity.Amplitude)
	if lo <= 0 || hi >= 1 {
		panic("motion: field opacity envelope must stay strictly inside (0, 1)")
	}

	rng := newRand(cfg.Seed)
	span := Range{-cfg.Bounds, cfg.Bounds}
	particles := make([]Particle, cfg.Count)
	for i := range particles {
		p := &particles[i]
		p.Position = Vec3{span.sample(rng), span.sample(rng), span.sample(rng)}
		c := colorful.Hsl(cfg.Hue.sample(rng), cfg.Saturation, cfg.Lightness).Clamped()
		p.Color = Color{R: c.R, G: c.G, B: c.B, A: 1}
		p.Size = cfg.Size.sample(rng)
	}
	return &Field{config: cfg, particles: particles}
}

// Config returns the resolved configuration (defaults applied).
func (f *Field) Config() FieldConfig {
	return f.config
}

// Len returns the particle count. Zero after Dispose.
func (f *Field) Len() int {
	return len(f.particles)
}

// Particles returns the particles. The returned slice MUST NOT be mutated.
func (f *Field) Particles() []Particle {
	return f.particles
}

// Transform returns the aggregate transform at elapsed seconds. It is a pure
// function of elapsed and the field's configuration.
func (f *Field) Transform(elapsed float64) FieldTransform {
	return FieldTransform{
		RotationX: elapsed * f.config.RotationRate.X,
		RotationY: elapsed * f.config.RotationRate.Y,
		Opacity:   f.config.Opacity.At(elapsed),
	}
}

// Dispose releases the particle buffer. Safe to call more than once.
func (f *Field) Dispose() {
	if f.disposed {
		return
	}
	f.disposed = true
	f.particles = nil
}

// IsDisposed reports whether Dispose has been called.
func (f *Field) IsDisposed() bool {
	return f.disposed
}

// Projection describes a perspective camera looking down -Z at the origin.
type Projection struct {
	// Viewport is the output surface size in pixels.
	Viewport Vec2
	// Distance is the camera distance from the origin. Default 5.
	Distance float64
	// FOV is the vertical field of view in degrees. Default 50.
	FOV float64
}

// ProjectedPoint is a particle in screen space, ready to draw.
type ProjectedPoint struct {
	X, Y   float64
	Radius float64
	Depth  float64
	Color  Color
}

// Project rotates every particle by t and projects it through proj,
// appending to dst[:0]. Points behind the camera are skipped. The result is
// sorted back to front.
func (f *Field) Project(t FieldTransform, proj Projection, dst []ProjectedPoint) []ProjectedPoint {
	dst = dst[:0]
	if proj.Viewport.X <= 0 || proj.Viewport.Y <= 0 {
		return dst
	}
	dist := proj.Distance
	if dist <= 0 {
		dist = 5
	}
	fov := proj.FOV
	if fov <= 0 {
		fov = 50
	}
	focal := (proj.Viewport.Y / 2) / math.Tan(fov*math.Pi/360)
	cx, cy := proj.Viewport.X/2, proj.Viewport.Y/2

	sx, cxr := math.Sincos(t.RotationX)
	sy, cyr := math.Sincos(t.RotationY)

	for i := range f.particles {
		p := &f.particles[i]
		r := rotateXY(p.Position, sx, cxr, sy, cyr)
		x, y := r.X, r.Y

		depth := dist - r.Z
		if depth <= 0.01 {
			continue
		}
		scale := focal / depth
		dst = append(dst, ProjectedPoint{
			X:      cx + x*scale,
			Y:      cy - y*scale,
			Radius: math.Max(particleRadius*p.Size*scale, 0.5),
			Depth:  depth,
			Color:  p.Color,
		})
	}
	slices.SortFunc(dst, func(a, b ProjectedPoint) int {
		return cmp.Compare(b.Depth, a.Depth)
	})
	return dst
}

// rotateXY rotates p around X, then Y, given the sines and cosines of both
// angles.
func rotateXY(p Vec3, sx, cx, sy, cy float64) Vec3 {
	y := p.Y*cx - p.Z*sx
	z := p.Y*sx + p.Z*cx
	x := p.X*cy + z*sy
	z = -p.X*sy + z*cy
	return Vec3{x, y, z}
}
