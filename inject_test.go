package motion

import (
	"math"
	"testing"
)

func TestInjectOnePerFrame(t *testing.T) {
	s := NewScene()
	s.Mount()
	s.InjectViewport(800, 600)
	s.InjectPointer(10, 20)
	s.InjectRoute("/about")
	if s.Pending() != 3 {
		t.Fatalf("Pending = %d, want 3", s.Pending())
	}

	s.Update(frame)
	if sig := s.State().Signals; sig.Viewport != (Vec2{800, 600}) || sig.Pointer != (Vec2{}) {
		t.Errorf("frame 1 signals %+v", sig)
	}
	s.Update(frame)
	if sig := s.State().Signals; sig.Pointer != (Vec2{10, 20}) || sig.Path != "" {
		t.Errorf("frame 2 signals %+v", sig)
	}
	s.Update(frame)
	if sig := s.State().Signals; sig.Path != "/about" {
		t.Errorf("frame 3 signals %+v", sig)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d after drain", s.Pending())
	}
}

func TestInjectScrollTo(t *testing.T) {
	s := NewScene()
	s.InjectScrollTo(0, 300, 4)
	if s.Pending() != 4 {
		t.Fatalf("Pending = %d, want 4", s.Pending())
	}
	s.Mount()
	want := []float64{0, 100, 200, 300}
	for i, w := range want {
		s.Update(frame)
		if got := s.State().Signals.Scroll; math.Abs(got-w) > 1e-9 {
			t.Errorf("frame %d scroll = %v, want %v", i, got, w)
		}
	}

	s.InjectScrollTo(5, 9, 0)
	if s.Pending() != 2 {
		t.Errorf("short scrollTo queued %d samples, want 2", s.Pending())
	}
}

func TestInjectPressRelease(t *testing.T) {
	s := NewScene()
	s.Mount()
	s.InjectPress(30, 40)
	s.InjectRelease(35, 45)

	s.Update(frame)
	if sig := s.State().Signals; !sig.Pressed || sig.Pointer != (Vec2{30, 40}) {
		t.Errorf("after press: %+v", sig)
	}
	s.Update(frame)
	if sig := s.State().Signals; sig.Pressed || sig.Pointer != (Vec2{35, 45}) {
		t.Errorf("after release: %+v", sig)
	}
}
