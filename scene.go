package motion

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// ErrSurfaceLost is returned by a Surface whose drawing target is gone.
var ErrSurfaceLost = errors.New("motion: render surface unavailable")

// Surface draws a RenderState. Implementations return an error (or panic)
// when their graphics context is unusable; the Scene then falls back to a
// static presentation.
type Surface interface {
	Render(dst *ebiten.Image, state *RenderState) error
}

// Binding maps a region's scroll progress through a Mapping into a named
// value.
type Binding struct {
	Name    string
	Region  string
	Mapping Mapping
}

type threshold struct {
	name  string
	above float64
}

type interactive struct {
	el     *Element
	bounds Rect
}

// BlobState is a backdrop blob resolved into viewport space.
type BlobState struct {
	Center Vec2
	Radius float64
}

// BodyState is a decorative body's rotation and projected vertices.
type BodyState struct {
	Name      string
	Transform BodyTransform
	Points    []ProjectedPoint
}

// RenderState is everything the view layer needs to draw one frame. Maps and
// slices are reused between frames; copy with Clone to keep one.
type RenderState struct {
	Frame    int
	Time     float64
	Signals  Signals
	Progress map[string]float64
	Values   map[string]float64
	Flags    map[string]bool

	Followers map[string]Vec2
	Loops     map[string]float64

	Field    FieldTransform
	HasField bool
	Points   []ProjectedPoint

	Blobs  []BlobState
	Bodies []BodyState

	Styles    map[string]Style
	Indicator IndicatorGeometry

	// Static is set once the scene has fallen back to a non-animated
	// presentation.
	Static bool
}

func newRenderState() RenderState {
	return RenderState{
		Progress:  map[string]float64{},
		Values:    map[string]float64{},
		Flags:     map[string]bool{},
		Followers: map[string]Vec2{},
		Loops:     map[string]float64{},
		Styles:    map[string]Style{},
	}
}

// Clone returns a deep copy.
func (st *RenderState) Clone() RenderState {
	c := *st
	c.Progress = maps.Clone(st.Progress)
	c.Values = maps.Clone(st.Values)
	c.Flags = maps.Clone(st.Flags)
	c.Followers = maps.Clone(st.Followers)
	c.Loops = maps.Clone(st.Loops)
	c.Points = append([]ProjectedPoint(nil), st.Points...)
	c.Blobs = append([]BlobState(nil), st.Blobs...)
	c.Bodies = make([]BodyState, len(st.Bodies))
	for i, b := range st.Bodies {
		b.Points = append([]ProjectedPoint(nil), b.Points...)
		c.Bodies[i] = b
	}
	c.Styles = make(map[string]Style, len(st.Styles))
	for k, v := range st.Styles {
		c.Styles[k] = maps.Clone(v)
	}
	return c
}

// SceneOption configures a Scene.
type SceneOption func(*Scene)

// WithLogger sets the scene's logger. The default discards everything.
func WithLogger(l *zap.Logger) SceneOption {
	return func(s *Scene) { s.logger = l }
}

// WithSampler uses an existing sampler instead of a fresh one.
func WithSampler(smp *Sampler) SceneOption {
	return func(s *Scene) { s.sampler = smp }
}

// WithSurface sets the surface Draw renders through.
func WithSurface(surf Surface) SceneOption {
	return func(s *Scene) { s.surface = surf }
}

// WithProjection sets the camera used to project the particle field.
func WithProjection(p Projection) SceneOption {
	return func(s *Scene) { s.projection = p }
}

// Scene wires sampled signals through mappings, springs, the particle field,
// the variant tree and the route indicator into one RenderState per frame.
//
// A Scene must be mounted before Update does anything. Unmount releases
// every callback, pump and buffer acquired while mounted, newest first.
type Scene struct {
	sampler *Sampler
	logger  *zap.Logger
	debug   bool

	regions     map[string]Region
	bindings    []Binding
	thresholds  []threshold
	followers   []*Follower
	field       *Field
	projection  Projection
	backdrop    *Backdrop
	bodies      []*Body
	loops       []Loop
	elements    []*Element
	interactive []interactive
	indicator   *Indicator

	surface  Surface
	drawFunc func(dst *ebiten.Image, st *RenderState)
	static   bool

	handlers handlerRegistry
	teardown Teardown
	mounted  bool

	pendingBindings Slot[[]Binding]
	injectQueue     []Sample
	script          *Script

	state     RenderState
	offsets   []Vec2
	lastPath  string
	pathKnown bool
}

// NewScene creates an unmounted scene.
func NewScene(opts ...SceneOption) *Scene {
	s := &Scene{
		logger:  zap.NewNop(),
		regions: map[string]Region{},
		state:   newRenderState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sampler == nil {
		s.sampler = NewSampler()
	}
	return s
}

// Sampler returns the scene's signal sampler, for writing raw inputs.
func (s *Scene) Sampler() *Sampler {
	return s.sampler
}

// Logger returns the scene's logger.
func (s *Scene) Logger() *zap.Logger {
	return s.logger
}

// SetDebugMode enables per-frame timing logs at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// AddRegion registers a tracked scroll region, replacing one with the same
// name.
func (s *Scene) AddRegion(r Region) {
	s.regions[r.Name] = r
}

// Bind maps a region's scroll progress into the named value. A binding with
// the same name is replaced.
func (s *Scene) Bind(name, region string, m Mapping) {
	b := Binding{Name: name, Region: region, Mapping: m}
	for i := range s.bindings {
		if s.bindings[i].Name == name {
			s.bindings[i] = b
			return
		}
	}
	s.bindings = append(s.bindings, b)
}

// ReplaceBindings swaps the binding set at the start of the next frame.
// Safe from any goroutine; only the latest replacement is applied.
func (s *Scene) ReplaceBindings(bs []Binding) {
	s.pendingBindings.Store(append([]Binding(nil), bs...))
}

// Bindings returns the active bindings. The returned slice MUST NOT be
// mutated.
func (s *Scene) Bindings() []Binding {
	return s.bindings
}

// BindThreshold sets the named flag whenever the raw scroll offset exceeds
// above.
func (s *Scene) BindThreshold(name string, above float64) {
	s.thresholds = append(s.thresholds, threshold{name: name, above: above})
}

// AddFollower adds a spring-smoothed pointer follower.
func (s *Scene) AddFollower(f *Follower) {
	s.followers = append(s.followers, f)
}

// SetField installs the particle field. A previous field is disposed. The
// field is disposed on the next Unmount and is not regenerated by a later
// Mount.
func (s *Scene) SetField(f *Field) {
	if s.field != nil && s.field != f {
		s.field.Dispose()
	}
	s.field = f
	if f != nil {
		s.teardown.Defer(f.Dispose)
	}
}

// Field returns the installed particle field, or nil.
func (s *Scene) Field() *Field {
	return s.field
}

// SetBackdrop installs the floating backdrop.
func (s *Scene) SetBackdrop(b *Backdrop) {
	s.backdrop = b
}

// AddBody adds a decorative rotating body.
func (s *Scene) AddBody(b *Body) {
	s.bodies = append(s.bodies, b)
}

// Bodies returns the added bodies. The returned slice MUST NOT be mutated.
func (s *Scene) Bodies() []*Body {
	return s.bodies
}

// AddLoop adds a repeating keyframe animation.
func (s *Scene) AddLoop(l Loop) {
	s.loops = append(s.loops, l)
}

// AddElement adds a root of the variant tree.
func (s *Scene) AddElement(e *Element) {
	s.elements = append(s.elements, e)
}

// Element finds an element by name across every root.
func (s *Scene) Element(name string) *Element {
	for _, root := range s.elements {
		if e := root.Find(name); e != nil {
			return e
		}
	}
	return nil
}

// Interactive routes hover and press to el whenever the pointer is inside
// bounds.
func (s *Scene) Interactive(el *Element, bounds Rect) {
	s.interactive = append(s.interactive, interactive{el: el, bounds: bounds})
}

// SetIndicator installs the active-route indicator.
func (s *Scene) SetIndicator(ind *Indicator) {
	s.indicator = ind
	s.pathKnown = false
}

// Indicator returns the installed indicator, or nil.
func (s *Scene) Indicator() *Indicator {
	return s.indicator
}

// SetDrawFunc sets a function called after the surface each Draw, for
// drawing view elements on top.
func (s *Scene) SetDrawFunc(fn func(dst *ebiten.Image, st *RenderState)) {
	s.drawFunc = fn
}

// OnFrame registers fn to run after every Update. The callback is removed on
// Unmount.
func (s *Scene) OnFrame(fn func(Frame)) CallbackHandle {
	h := s.handlers.addFrame(fn)
	s.teardown.Defer(h.Remove)
	return h
}

// Follow pumps an asynchronous sample source into the sampler until
// Unmount.
func (s *Scene) Follow(ctx context.Context, src <-chan Sample) {
	stop := s.sampler.Follow(ctx, src)
	s.teardown.Defer(stop)
}

// Defer registers an external release function to run on Unmount.
func (s *Scene) Defer(fn func()) {
	s.teardown.Defer(fn)
}

// Mount activates the scene. Mounting an already mounted scene is a no-op.
func (s *Scene) Mount() {
	if s.mounted {
		return
	}
	s.mounted = true
	s.logger.Debug("scene mounted",
		zap.Int("elements", len(s.elements)),
		zap.Int("bindings", len(s.bindings)),
		zap.Bool("field", s.field != nil))
}

// Unmount releases everything acquired while mounted, newest first.
func (s *Scene) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	s.teardown.Release()
	s.teardown.Reset()
	s.logger.Debug("scene unmounted")
}

// Mounted reports whether the scene is mounted.
func (s *Scene) Mounted() bool {
	return s.mounted
}

// Static reports whether the scene has degraded to static presentation.
func (s *Scene) Static() bool {
	return s.static
}

// State returns the render state of the last frame. It is overwritten by the
// next Update.
func (s *Scene) State() *RenderState {
	return &s.state
}

// Update advances every component by dt seconds.
func (s *Scene) Update(dt float64) {
	if !s.mounted {
		return
	}
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if bs, ok := s.pendingBindings.Swap(); ok {
		s.bindings = bs
		clear(s.state.Values)
		s.logger.Info("bindings replaced", zap.Int("count", len(bs)))
	}
	if s.script != nil {
		s.script.step(s)
	}
	s.processInjected()

	sig := s.sampler.Tick(dt)
	st := &s.state
	st.Frame++
	st.Time = sig.Time
	st.Signals = sig

	if s.indicator != nil && (!s.pathKnown || sig.Path != s.lastPath) {
		s.lastPath = sig.Path
		s.pathKnown = true
		if s.indicator.Observe(sig.Path) {
			s.logger.Debug("route indicator moved", zap.String("path", sig.Path))
		}
	}

	for name, r := range s.regions {
		st.Progress[name] = sig.Progress(r)
	}
	for _, b := range s.bindings {
		st.Values[b.Name] = b.Mapping.Eval(st.Progress[b.Region])
	}
	for _, t := range s.thresholds {
		st.Flags[t.name] = sig.Scroll > t.above
	}

	for _, f := range s.followers {
		f.SetTarget(sig.Pointer)
		st.Followers[f.Name] = f.Advance(dt)
	}

	elapsed := sig.Time
	if s.static {
		elapsed = 0
	}
	st.HasField = s.field != nil && !s.field.IsDisposed()
	if st.HasField {
		st.Field = s.field.Transform(elapsed)
		proj := s.projection
		proj.Viewport = sig.Viewport
		st.Points = s.field.Project(st.Field, proj, st.Points)
	} else {
		st.Points = st.Points[:0]
	}

	if len(st.Bodies) != len(s.bodies) {
		st.Bodies = make([]BodyState, len(s.bodies))
	}
	for i, b := range s.bodies {
		bs := &st.Bodies[i]
		bs.Name = b.Name()
		bs.Transform = b.Transform(elapsed)
		bs.Points = b.Project(bs.Transform, sig.Viewport, bs.Points)
	}

	for _, l := range s.loops {
		st.Loops[l.Name] = l.Keyframes.At(sig.Time)
	}
	st.Blobs = st.Blobs[:0]
	if s.backdrop != nil {
		s.offsets = s.backdrop.Offsets(sig.Time, s.offsets)
		for i, b := range s.backdrop.Blobs() {
			st.Blobs = append(st.Blobs, BlobState{
				Center: Vec2{
					X: b.Origin.X*sig.Viewport.X + s.offsets[i].X,
					Y: b.Origin.Y*sig.Viewport.Y + s.offsets[i].Y,
				},
				Radius: b.Size / 2,
			})
		}
	}

	for _, it := range s.interactive {
		inside := it.bounds.Contains(sig.Pointer.X, sig.Pointer.Y)
		it.el.SetHover(inside)
		it.el.SetTap(inside && sig.Pressed)
	}
	for _, root := range s.elements {
		root.Update(dt)
		root.Walk(s.captureStyle)
	}

	if s.indicator != nil {
		s.indicator.Update(dt)
		st.Indicator = s.indicator.Geometry()
	}
	st.Static = s.static

	s.handlers.fire(Frame{Dt: dt, Signals: sig, State: st})

	if s.script != nil {
		s.script.capture(s)
	}

	if s.debug {
		s.debugLog(debugStats{
			updateTime: time.Since(t0),
			elements:   s.countElements(),
			points:     len(st.Points),
			callbacks:  len(s.handlers.frame),
		})
	}
}

func (s *Scene) captureStyle(e *Element) {
	dst, ok := s.state.Styles[e.Name]
	if !ok {
		dst = Style{}
		s.state.Styles[e.Name] = dst
	}
	maps.Copy(dst, e.values)
}

// Draw renders the last frame through the surface. A failing surface is
// logged once and the scene stays static from then on.
func (s *Scene) Draw(screen *ebiten.Image) {
	if !s.static && s.surface != nil {
		if err := s.render(screen); err != nil {
			s.degrade(err)
		}
	}
	if s.drawFunc != nil && screen != nil {
		s.drawFunc(screen, &s.state)
	}
}

func (s *Scene) render(screen *ebiten.Image) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSurfaceLost, r)
		}
	}()
	return s.surface.Render(screen, &s.state)
}

func (s *Scene) degrade(err error) {
	s.static = true
	s.state.Static = true
	s.logger.Warn("render surface failed, falling back to static presentation", zap.Error(err))
}

func (s *Scene) countElements() int {
	n := 0
	for _, root := range s.elements {
		root.Walk(func(*Element) { n++ })
	}
	return n
}
