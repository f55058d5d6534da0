package motion

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubSurface struct {
	calls int
	err   error
	panic bool
}

func (s *stubSurface) Render(*ebiten.Image, *RenderState) error {
	s.calls++
	if s.panic {
		panic("context lost")
	}
	return s.err
}

func heroScene(opts ...SceneOption) *Scene {
	s := NewScene(opts...)
	s.AddRegion(Region{Name: "hero", Top: 0, Height: 800})
	s.Bind("hero.opacity", "hero", MustMapping([]float64{0, 0.5}, []float64{1, 0}))
	s.Bind("hero.y", "hero", MustMapping([]float64{0, 1}, []float64{0, -200}))
	s.BindThreshold("nav.scrolled", 10)
	return s
}

func TestSceneUpdateBeforeMount(t *testing.T) {
	s := heroScene()
	s.Update(frame)
	if s.State().Frame != 0 {
		t.Errorf("unmounted Update advanced to frame %d", s.State().Frame)
	}
}

func TestScenePipeline(t *testing.T) {
	s := heroScene()
	s.AddFollower(NewFollower("cursor", 100, 20, Vec2{}))
	s.SetField(NewField(FieldConfig{Count: 50, Seed: 1}))
	s.AddLoop(Loop{Name: "hint.y", Property: PropY, Keyframes: Keyframes{Values: []float64{0, 15, 0}, Duration: 2, Repeat: RepeatLoop}})
	s.SetBackdrop(NewBackdrop(BackdropConfig{Count: 4, Seed: 2}))
	s.Mount()

	smp := s.Sampler()
	smp.WriteViewport(Vec2{800, 600})
	smp.WriteScroll(200)
	smp.WritePointer(Vec2{400, 300})
	s.Update(0.5)

	st := s.State()
	if st.Frame != 1 || st.Time != 0.5 {
		t.Errorf("frame %d time %v", st.Frame, st.Time)
	}
	if got := st.Progress["hero"]; got != 0.25 {
		t.Errorf("hero progress = %v, want 0.25", got)
	}
	if got := st.Values["hero.opacity"]; math.Abs(got-0.5) > 1e-12 {
		t.Errorf("hero.opacity = %v, want 0.5", got)
	}
	if got := st.Values["hero.y"]; math.Abs(got+50) > 1e-12 {
		t.Errorf("hero.y = %v, want -50", got)
	}
	if !st.Flags["nav.scrolled"] {
		t.Error("nav.scrolled not set at scroll 200")
	}
	if _, ok := st.Followers["cursor"]; !ok {
		t.Error("follower missing from state")
	}
	if got := st.Loops["hint.y"]; math.Abs(got-7.5) > 1e-9 {
		t.Errorf("hint.y = %v, want 7.5", got)
	}
	if !st.HasField || len(st.Points) == 0 {
		t.Error("field not projected")
	}
	if st.Field != s.Field().Transform(0.5) {
		t.Errorf("field transform %+v does not match elapsed time", st.Field)
	}
	if len(st.Blobs) != 4 {
		t.Errorf("got %d blobs, want 4", len(st.Blobs))
	}

	smp.WriteScroll(0)
	s.Update(frame)
	if s.State().Flags["nav.scrolled"] {
		t.Error("nav.scrolled still set at scroll 0")
	}
}

func TestSceneBindingReplacedNextFrame(t *testing.T) {
	s := heroScene()
	s.Mount()
	s.Sampler().WriteScroll(800)
	s.Update(frame)

	s.ReplaceBindings([]Binding{{Name: "hero.y", Region: "hero", Mapping: MustMapping([]float64{0, 1}, []float64{0, -400})}})
	if got := s.State().Values["hero.y"]; got != -200 {
		t.Errorf("hero.y changed before the next frame: %v", got)
	}
	s.Update(frame)
	st := s.State()
	if got := st.Values["hero.y"]; got != -400 {
		t.Errorf("hero.y = %v, want -400", got)
	}
	if _, ok := st.Values["hero.opacity"]; ok {
		t.Error("dropped binding still has a value")
	}
	if len(s.Bindings()) != 1 {
		t.Errorf("got %d bindings, want 1", len(s.Bindings()))
	}
}

func TestSceneBindReplacesByName(t *testing.T) {
	s := heroScene()
	s.Bind("hero.y", "hero", MustMapping([]float64{0, 1}, []float64{0, 10}))
	if len(s.Bindings()) != 2 {
		t.Fatalf("got %d bindings, want 2", len(s.Bindings()))
	}
	s.Mount()
	s.Sampler().WriteScroll(800)
	s.Update(frame)
	if got := s.State().Values["hero.y"]; got != 10 {
		t.Errorf("hero.y = %v, want 10", got)
	}
}

func TestSceneInteractive(t *testing.T) {
	cta := NewElement("cta", VariantSet{
		StateHover: {Style: Style{PropScale: 1.05}, Transition: Transition{Duration: 0.1}},
		StateTap:   {Style: Style{PropScale: 0.95}, Transition: Transition{Duration: 0.1}},
	}, "")
	s := NewScene()
	s.AddElement(cta)
	s.Interactive(cta, Rect{X: 100, Y: 100, Width: 50, Height: 20})
	s.Mount()

	s.Sampler().WritePointer(Vec2{120, 110})
	runScene(s, 30)
	if !cta.Hovered() || cta.Tapped() {
		t.Fatalf("hover=%v tap=%v", cta.Hovered(), cta.Tapped())
	}
	if got := s.State().Styles["cta"][PropScale]; math.Abs(got-1.05) > 1e-6 {
		t.Errorf("hover scale = %v, want 1.05", got)
	}

	s.Sampler().WritePressed(true)
	runScene(s, 30)
	if got := s.State().Styles["cta"][PropScale]; math.Abs(got-0.95) > 1e-6 {
		t.Errorf("tap scale = %v, want 0.95", got)
	}

	s.Sampler().WritePressed(false)
	s.Sampler().WritePointer(Vec2{0, 0})
	runScene(s, 30)
	if cta.Hovered() || cta.Tapped() {
		t.Error("gestures still active after leaving")
	}
	if got := s.State().Styles["cta"][PropScale]; math.Abs(got-1) > 1e-6 {
		t.Errorf("resting scale = %v, want 1", got)
	}
}

func TestSceneIndicatorFollowsPath(t *testing.T) {
	s := NewScene()
	s.SetIndicator(NewIndicator(navEntries(), IndicatorStyle{}))
	s.Mount()

	s.Update(frame)
	if s.State().Indicator.Visible {
		t.Error("indicator visible on an unknown path")
	}

	s.Sampler().WritePath("/works")
	s.Update(frame)
	if g := s.State().Indicator; !g.Visible || g.X != 80 {
		t.Errorf("indicator = %+v, want snapped under /works", g)
	}

	s.Sampler().WritePath("/contact")
	runScene(s, 300)
	if g := s.State().Indicator; math.Abs(g.X-250) > 0.01 {
		t.Errorf("indicator X = %v, want 250", g.X)
	}
	if s.Indicator().Moves() != 2 {
		t.Errorf("moves = %d, want 2", s.Indicator().Moves())
	}
}

func TestSceneStaticFallback(t *testing.T) {
	for _, tt := range []struct {
		name string
		surf *stubSurface
	}{
		{"error", &stubSurface{err: errors.New("no gl")}},
		{"panic", &stubSurface{panic: true}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			s := NewScene(WithSurface(tt.surf), WithLogger(zap.New(core)))
			s.SetField(NewField(FieldConfig{Count: 20, Seed: 4}))
			s.Mount()
			s.Sampler().WriteViewport(Vec2{800, 600})

			s.Update(frame)
			s.Draw(nil)
			s.Draw(nil)
			if !s.Static() || tt.surf.calls != 1 {
				t.Fatalf("static=%v calls=%d", s.Static(), tt.surf.calls)
			}
			if logs.FilterMessageSnippet("static").Len() != 1 {
				t.Errorf("got %d fallback warnings, want 1", logs.Len())
			}

			runScene(s, 30)
			st := s.State()
			if !st.Static {
				t.Error("RenderState.Static not set")
			}
			if st.Field != s.Field().Transform(0) {
				t.Errorf("field kept animating in static mode: %+v", st.Field)
			}
			if !st.HasField || len(st.Points) == 0 {
				t.Error("static scene lost its field")
			}
		})
	}
}

func TestSceneSurfaceLostWrapsCause(t *testing.T) {
	s := NewScene(WithSurface(&stubSurface{panic: true}))
	err := s.render(nil)
	if !errors.Is(err, ErrSurfaceLost) {
		t.Errorf("render error %v does not wrap ErrSurfaceLost", err)
	}
}

func TestSceneUnmountReleases(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := heroScene()
	f := NewField(FieldConfig{Count: 10, Seed: 1})
	s.SetField(f)
	s.Mount()

	calls := 0
	s.OnFrame(func(Frame) { calls++ })
	s.Follow(context.Background(), make(chan Sample))
	released := false
	s.Defer(func() { released = true })

	s.Update(frame)
	if calls != 1 {
		t.Fatalf("OnFrame calls = %d, want 1", calls)
	}

	s.Unmount()
	s.Unmount()
	if s.Mounted() || !f.IsDisposed() || !released {
		t.Errorf("mounted=%v disposed=%v released=%v", s.Mounted(), f.IsDisposed(), released)
	}

	s.Update(frame)
	s.Mount()
	s.Update(frame)
	if calls != 1 {
		t.Errorf("OnFrame fired after Unmount: %d calls", calls)
	}
	if s.State().HasField {
		t.Error("disposed field came back after remount")
	}
	s.Unmount()
}

func TestSceneOnFrameRemove(t *testing.T) {
	s := NewScene()
	s.Mount()
	calls := 0
	h := s.OnFrame(func(f Frame) {
		calls++
		if f.State != s.State() || f.Dt != frame {
			t.Errorf("frame %+v", f)
		}
	})
	s.Update(frame)
	h.Remove()
	s.Update(frame)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	s.Unmount()
}

func TestRenderStateClone(t *testing.T) {
	s := heroScene()
	s.AddElement(NewElement("box", VariantSet{"a": {Style: Style{PropX: 5}}}, "a"))
	s.Mount()
	s.Sampler().WriteScroll(400)
	s.Update(frame)

	c := s.State().Clone()
	s.Sampler().WriteScroll(0)
	s.Element("box").values[PropX] = 9
	s.Update(frame)

	if c.Values["hero.opacity"] != 0 || c.Styles["box"][PropX] != 5 {
		t.Errorf("clone shares storage with live state: %+v %+v", c.Values, c.Styles)
	}
}

func TestSceneDebugLogsFrames(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewScene(WithLogger(zap.New(core)))
	s.SetDebugMode(true)
	s.Mount()
	runScene(s, 3)
	if n := logs.FilterMessage("frame").Len(); n != 3 {
		t.Errorf("got %d frame logs, want 3", n)
	}
}

func runScene(s *Scene, frames int) {
	for i := 0; i < frames; i++ {
		s.Update(frame)
	}
}
