package motion

import (
	"context"
	"sync/atomic"
)

// Slot holds the most recent value written to it. Writers may run on any
// goroutine; readers always see the latest complete value. Nothing is
// queued, so stale samples are simply overwritten.
type Slot[T any] struct {
	p atomic.Pointer[T]
}

// Store replaces the slot's value.
func (s *Slot[T]) Store(v T) {
	s.p.Store(&v)
}

// Load returns the latest value and whether anything has been stored.
func (s *Slot[T]) Load() (T, bool) {
	p := s.p.Load()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Swap takes the latest value and empties the slot.
func (s *Slot[T]) Swap() (T, bool) {
	p := s.p.Swap(nil)
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Region is a tracked scroll region in document coordinates.
type Region struct {
	Name   string
	Top    float64
	Height float64
}

// Signals is an immutable snapshot of every raw input at one tick.
type Signals struct {
	// Time is monotonic elapsed seconds since the sampler was created.
	Time float64
	// Scroll is the vertical scroll offset in pixels.
	Scroll float64
	// Pointer is the pointer position in viewport pixels.
	Pointer Vec2
	// Viewport is the viewport size in pixels.
	Viewport Vec2
	// Path is the current route pathname.
	Path string
	// Pressed reports whether the primary pointer button is held.
	Pressed bool
}

// PointerNDC returns the pointer in normalized device coordinates, [-1, 1]
// on both axes with +Y up. A zero viewport yields the origin.
func (s Signals) PointerNDC() Vec2 {
	if s.Viewport.X <= 0 || s.Viewport.Y <= 0 {
		return Vec2{}
	}
	return Vec2{
		X: clampUnit(s.Pointer.X/s.Viewport.X*2 - 1),
		Y: clampUnit(1 - s.Pointer.Y/s.Viewport.Y*2),
	}
}

// Progress returns scroll progress through r in [0, 1].
func (s Signals) Progress(r Region) float64 {
	return ScrollProgress(s.Scroll, r.Top, r.Height)
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// Sample is a raw input delivered by an asynchronous source.
type Sample struct {
	Kind    SignalKind
	Value   Vec2 // scroll uses Y
	Path    string
	Pressed bool
}

// Sampler collects raw inputs into last-write-wins slots and produces one
// Signals snapshot per frame.
type Sampler struct {
	scroll   Slot[float64]
	pointer  Slot[Vec2]
	viewport Slot[Vec2]
	path     Slot[string]
	pressed  Slot[bool]

	elapsed float64
	last    Signals
}

// NewSampler creates a sampler with no inputs yet.
func NewSampler() *Sampler {
	return &Sampler{}
}

// WriteScroll records the latest scroll offset. Safe from any goroutine.
func (s *Sampler) WriteScroll(y float64) { s.scroll.Store(y) }

// WritePointer records the latest pointer position. Safe from any goroutine.
func (s *Sampler) WritePointer(p Vec2) { s.pointer.Store(p) }

// WriteViewport records the viewport size. Safe from any goroutine.
func (s *Sampler) WriteViewport(size Vec2) { s.viewport.Store(size) }

// WritePath records the current route. Safe from any goroutine.
func (s *Sampler) WritePath(path string) { s.path.Store(path) }

// WritePressed records the primary button state. Safe from any goroutine.
func (s *Sampler) WritePressed(down bool) { s.pressed.Store(down) }

// Write routes a Sample to its slot.
func (s *Sampler) Write(smp Sample) {
	switch smp.Kind {
	case SignalScroll:
		s.WriteScroll(smp.Value.Y)
	case SignalPointer:
		s.WritePointer(smp.Value)
	case SignalViewport:
		s.WriteViewport(smp.Value)
	case SignalPath:
		s.WritePath(smp.Path)
	case SignalPress:
		s.WritePointer(smp.Value)
		s.WritePressed(smp.Pressed)
	}
}

// Tick advances the clock by dt and returns a snapshot built from the latest
// value in every slot. Slots that were never written keep their previous
// (initially zero) value.
func (s *Sampler) Tick(dt float64) Signals {
	if dt > 0 {
		s.elapsed += dt
	}
	sig := s.last
	sig.Time = s.elapsed
	if v, ok := s.scroll.Load(); ok {
		sig.Scroll = v
	}
	if v, ok := s.pointer.Load(); ok {
		sig.Pointer = v
	}
	if v, ok := s.viewport.Load(); ok {
		sig.Viewport = v
	}
	if v, ok := s.path.Load(); ok {
		sig.Path = v
	}
	if v, ok := s.pressed.Load(); ok {
		sig.Pressed = v
	}
	s.last = sig
	return sig
}

// Last returns the snapshot produced by the most recent Tick.
func (s *Sampler) Last() Signals {
	return s.last
}

// Follow pumps samples from an asynchronous source into the slots until ctx
// is cancelled or src is closed. The returned stop function cancels the pump
// and waits for it to exit; it is safe to call more than once.
func (s *Sampler) Follow(ctx context.Context, src <-chan Sample) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case smp, ok := <-src:
				if !ok {
					return
				}
				s.Write(smp)
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
