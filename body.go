package motion

import (
	"cmp"
	"math"
	"slices"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// BodyShape selects the geometry of a Body.
type BodyShape uint8

const (
	BodySphere BodyShape = iota
	BodyTorus
)

// bodyColor is the default indigo tint, #6366f1.
var bodyColor = mustHex("#6366f1")

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("motion: " + err.Error())
	}
	return c
}

// BodyConfig describes a decorative rotating 3D body. Zero fields take the
// defaults listed on each field.
type BodyConfig struct {
	Name  string
	Shape BodyShape
	// Radius is the sphere radius, or the distance from the torus center to
	// the middle of its tube, in world units. Default 1.5 for a sphere, 1 for
	// a torus.
	Radius float64
	// Tube is the torus tube radius. Default 0.4. Ignored for spheres.
	Tube float64
	// Segments is the vertex count around the main axis. Default 32.
	Segments int
	// Rings is the vertex count along the other axis. Default 32 for a
	// sphere, 16 for a torus.
	Rings int
	// RotationRate is the angular rate in radians per second around X and
	// Y. Default (0.1, 0.2) for a sphere, (0.6, 0.6) for a torus.
	RotationRate Vec2
	// Center is the body's position as a fraction of the viewport. Default
	// (0.5, 0.5).
	Center Vec2
	// Scale is pixels per world unit. Default 100.
	Scale float64
	// Color defaults to #6366f1.
	Color Color
}

func (c BodyConfig) withDefaults() BodyConfig {
	torus := c.Shape == BodyTorus
	if c.Radius <= 0 {
		c.Radius = 1.5
		if torus {
			c.Radius = 1
		}
	}
	if c.Tube <= 0 {
		c.Tube = 0.4
	}
	if c.Segments <= 0 {
		c.Segments = 32
	}
	if c.Rings <= 0 {
		c.Rings = 32
		if torus {
			c.Rings = 16
		}
	}
	if c.RotationRate == (Vec2{}) {
		c.RotationRate = Vec2{0.1, 0.2}
		if torus {
			// One hundredth of a radian per frame at 60 TPS.
			c.RotationRate = Vec2{0.6, 0.6}
		}
	}
	if c.Center == (Vec2{}) {
		c.Center = Vec2{0.5, 0.5}
	}
	if c.Scale <= 0 {
		c.Scale = 100
	}
	if c.Color == (Color{}) {
		c.Color = Color{R: bodyColor.R, G: bodyColor.G, B: bodyColor.B, A: 1}
	}
	return c
}

// BodyTransform is the rotation of a Body at one instant.
type BodyTransform struct {
	RotationX float64
	RotationY float64
}

// Body is a wireframe sphere or torus spinning at a constant rate. Its
// vertices are generated once; only the transform varies with time.
type Body struct {
	config   BodyConfig
	vertices []Vec3
	extent   float64
}

// NewBody generates the body's vertices.
func NewBody(cfg BodyConfig) *Body {
	cfg = cfg.withDefaults()
	b := &Body{config: cfg}
	switch cfg.Shape {
	case BodyTorus:
		b.vertices = torusVertices(cfg.Radius, cfg.Tube, cfg.Segments, cfg.Rings)
		b.extent = cfg.Radius + cfg.Tube
	default:
		b.vertices = sphereVertices(cfg.Radius, cfg.Segments, cfg.Rings)
		b.extent = cfg.Radius
	}
	return b
}

func sphereVertices(r float64, segments, rings int) []Vec3 {
	vs := make([]Vec3, 0, segments*(rings-1)+2)
	vs = append(vs, Vec3{0, r, 0}, Vec3{0, -r, 0})
	for i := 1; i < rings; i++ {
		sp, cp := math.Sincos(math.Pi * float64(i) / float64(rings))
		for j := 0; j < segments; j++ {
			st, ct := math.Sincos(2 * math.Pi * float64(j) / float64(segments))
			vs = append(vs, Vec3{r * sp * ct, r * cp, r * sp * st})
		}
	}
	return vs
}

func torusVertices(r, tube float64, segments, rings int) []Vec3 {
	vs := make([]Vec3, 0, segments*rings)
	for i := 0; i < segments; i++ {
		su, cu := math.Sincos(2 * math.Pi * float64(i) / float64(segments))
		for j := 0; j < rings; j++ {
			sv, cv := math.Sincos(2 * math.Pi * float64(j) / float64(rings))
			d := r + tube*cv
			vs = append(vs, Vec3{d * cu, d * su, tube * sv})
		}
	}
	return vs
}

// Name returns the configured name.
func (b *Body) Name() string {
	return b.config.Name
}

// Config returns the resolved configuration (defaults applied).
func (b *Body) Config() BodyConfig {
	return b.config
}

// Vertices returns the generated vertices. The returned slice MUST NOT be
// mutated.
func (b *Body) Vertices() []Vec3 {
	return b.vertices
}

// Transform returns the rotation at elapsed seconds. It is a pure function
// of elapsed.
func (b *Body) Transform(elapsed float64) BodyTransform {
	return BodyTransform{
		RotationX: elapsed * b.config.RotationRate.X,
		RotationY: elapsed * b.config.RotationRate.Y,
	}
}

// Project rotates every vertex by t and projects it orthographically around
// the body's center in a viewport of the given size, appending to dst[:0].
// Vertices facing away are dimmer. The result is sorted back to front.
func (b *Body) Project(t BodyTransform, viewport Vec2, dst []ProjectedPoint) []ProjectedPoint {
	dst = dst[:0]
	if viewport.X <= 0 || viewport.Y <= 0 {
		return dst
	}
	cfg := b.config
	cx, cy := cfg.Center.X*viewport.X, cfg.Center.Y*viewport.Y
	sx, cxr := math.Sincos(t.RotationX)
	sy, cyr := math.Sincos(t.RotationY)
	radius := math.Max(0.02*cfg.Scale, 1)

	for _, v := range b.vertices {
		r := rotateXY(v, sx, cxr, sy, cyr)
		// Depth grows away from the viewer: 0 nearest, 2*extent furthest.
		depth := b.extent - r.Z
		c := cfg.Color
		c.A *= 1 - 0.65*depth/(2*b.extent)
		dst = append(dst, ProjectedPoint{
			X:      cx + r.X*cfg.Scale,
			Y:      cy - r.Y*cfg.Scale,
			Radius: radius,
			Depth:  depth,
			Color:  c,
		})
	}
	slices.SortFunc(dst, func(p, q ProjectedPoint) int {
		return cmp.Compare(q.Depth, p.Depth)
	})
	return dst
}
