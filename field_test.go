package motion

import (
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
)

func TestFieldDefaults(t *testing.T) {
	f := NewField(FieldConfig{Seed: 1})
	if f.Len() != 150 {
		t.Fatalf("Len = %d, want 150", f.Len())
	}
	cfg := f.Config()
	if cfg.Bounds != 5 || cfg.Hue != (Range{200, 260}) || cfg.RotationRate != (Vec2{0.1, 0.2}) {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestFieldParticlesWithinBounds(t *testing.T) {
	f := NewField(FieldConfig{Count: 500, Bounds: 3, Seed: 42})
	span := Range{-3, 3}
	for i, p := range f.Particles() {
		if !span.Contains(p.Position.X) || !span.Contains(p.Position.Y) || !span.Contains(p.Position.Z) {
			t.Fatalf("particle %d at %+v outside bounds", i, p.Position)
		}
		if !f.Config().Size.Contains(p.Size) {
			t.Fatalf("particle %d size %v outside %+v", i, p.Size, f.Config().Size)
		}
		h, s, l := colorful.Color{R: p.Color.R, G: p.Color.G, B: p.Color.B}.Hsl()
		if h < 199.5 || h > 260.5 || math.Abs(s-0.8) > 0.01 || math.Abs(l-0.7) > 0.01 {
			t.Fatalf("particle %d color hsl(%v, %v, %v) outside configured range", i, h, s, l)
		}
	}
}

func TestFieldSeedReproducible(t *testing.T) {
	a := NewField(FieldConfig{Count: 20, Seed: 7})
	b := NewField(FieldConfig{Count: 20, Seed: 7})
	c := NewField(FieldConfig{Count: 20, Seed: 8})
	for i := range a.Particles() {
		if a.Particles()[i] != b.Particles()[i] {
			t.Fatalf("particle %d differs between identical seeds", i)
		}
	}
	if a.Particles()[0] == c.Particles()[0] {
		t.Error("different seeds produced the same first particle")
	}
}

func TestFieldTransformIsPure(t *testing.T) {
	f := NewField(FieldConfig{Count: 10, Seed: 1})
	before := append([]Particle(nil), f.Particles()...)

	t1 := f.Transform(12.5)
	f.Transform(3)
	t2 := f.Transform(12.5)
	if t1 != t2 {
		t.Errorf("Transform(12.5) = %+v then %+v", t1, t2)
	}
	if math.Abs(t1.RotationX-1.25) > 1e-12 || math.Abs(t1.RotationY-2.5) > 1e-12 {
		t.Errorf("rotation = (%v, %v), want (1.25, 2.5)", t1.RotationX, t1.RotationY)
	}
	for i, p := range f.Particles() {
		if p != before[i] {
			t.Fatalf("particle %d moved", i)
		}
	}
}

func TestFieldOpacityEnvelope(t *testing.T) {
	f := NewField(FieldConfig{Count: 1, Seed: 1})
	for i := 0; i <= 10000; i++ {
		op := f.Transform(float64(i) * 0.01).Opacity
		if op < 0.3-1e-12 || op > 0.9+1e-12 {
			t.Fatalf("opacity %v outside [0.3, 0.9] at step %d", op, i)
		}
	}
	if op := f.Transform(math.Pi / 2).Opacity; math.Abs(op-0.9) > 1e-12 {
		t.Errorf("peak opacity = %v, want 0.9", op)
	}
}

func TestFieldBadEnvelopePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for envelope touching 0")
		}
	}()
	NewField(FieldConfig{Opacity: Envelope{Base: 0.3, Amplitude: 0.3, Frequency: 1}})
}

func TestFieldDisposeIdempotent(t *testing.T) {
	f := NewField(FieldConfig{Count: 10, Seed: 1})
	f.Dispose()
	f.Dispose()
	if !f.IsDisposed() || f.Len() != 0 || f.Particles() != nil {
		t.Errorf("after Dispose: disposed=%v len=%d", f.IsDisposed(), f.Len())
	}
}

func TestFieldProject(t *testing.T) {
	f := NewField(FieldConfig{Count: 200, Seed: 3})
	proj := Projection{Viewport: Vec2{800, 600}}

	pts := f.Project(f.Transform(0), proj, nil)
	if len(pts) == 0 || len(pts) > f.Len() {
		t.Fatalf("projected %d points from %d particles", len(pts), f.Len())
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Depth > pts[i-1].Depth {
			t.Fatalf("points not sorted back to front at %d", i)
		}
	}
	for _, p := range pts {
		if p.Radius < 0.5 {
			t.Fatalf("radius %v below minimum", p.Radius)
		}
	}

	// Reuses the destination buffer.
	again := f.Project(f.Transform(1), proj, pts)
	if len(again) > 0 && &again[0] != &pts[0] {
		t.Error("Project did not reuse dst")
	}

	if got := f.Project(f.Transform(0), Projection{}, nil); len(got) != 0 {
		t.Errorf("zero viewport projected %d points", len(got))
	}
}

func TestProjectCenterPoint(t *testing.T) {
	f := &Field{
		config:    FieldConfig{}.withDefaults(),
		particles: []Particle{{Position: Vec3{}, Size: 1, Color: ColorWhite}},
	}
	pts := f.Project(FieldTransform{}, Projection{Viewport: Vec2{800, 600}}, nil)
	if len(pts) != 1 {
		t.Fatalf("got %d points, want 1", len(pts))
	}
	if pts[0].X != 400 || pts[0].Y != 300 || pts[0].Depth != 5 {
		t.Errorf("origin projected to %+v, want center at depth 5", pts[0])
	}
}
