package motion

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Repeat selects what happens when a keyframe run reaches its end.
type Repeat uint8

const (
	RepeatNone    Repeat = iota // hold the last keyframe
	RepeatLoop                  // jump back to the first keyframe
	RepeatReverse               // play backwards, then forwards again
)

// Keyframes plays a sequence of evenly spaced values over Duration seconds.
// Ease applies to each segment between consecutive values.
type Keyframes struct {
	Values   []float64
	Duration float64
	Ease     ease.TweenFunc
	Repeat   Repeat
}

// At returns the value at elapsed seconds. It is a pure function of elapsed.
func (k Keyframes) At(elapsed float64) float64 {
	n := len(k.Values)
	switch {
	case n == 0:
		return 0
	case n == 1 || k.Duration <= 0:
		return k.Values[n-1]
	}

	pos := elapsed / k.Duration
	switch k.Repeat {
	case RepeatLoop:
		pos -= math.Floor(pos)
	case RepeatReverse:
		cycle := math.Floor(pos)
		pos -= cycle
		if int64(cycle)%2 == 1 {
			pos = 1 - pos
		}
	default:
		pos = clamp01(pos)
	}

	segs := float64(n - 1)
	scaled := pos * segs
	seg := math.Min(math.Floor(scaled), segs-1)
	local := scaled - seg
	if k.Ease != nil {
		local = float64(k.Ease(float32(local), 0, 1, 1))
	}
	return lerp(k.Values[int(seg)], k.Values[int(seg)+1], local)
}

// Loop is a named repeating animation of one property.
type Loop struct {
	Name      string
	Property  Property
	Keyframes Keyframes
}

// Blob is one floating backdrop shape. Every field is fixed at creation.
type Blob struct {
	// Origin is the resting position as a fraction of the viewport.
	Origin Vec2
	// Size is the diameter in pixels.
	Size float64
	// Drift is the furthest offset from Origin in pixels.
	Drift Vec2
	// Period is the seconds taken to travel from rest to full drift.
	Period float64
}

// BackdropConfig controls backdrop generation. Zero fields take defaults.
type BackdropConfig struct {
	// Count defaults to 20.
	Count int
	// Size defaults to 100-400 px.
	Size Range
	// Drift bounds each axis of a blob's drift. Default -50 to 50 px.
	Drift Range
	// Period defaults to 10-30 s.
	Period Range
	// Ease defaults to ease.InOutSine.
	Ease ease.TweenFunc
	Seed uint64
}

func (c BackdropConfig) withDefaults() BackdropConfig {
	if c.Count <= 0 {
		c.Count = 20
	}
	if c.Size == (Range{}) {
		c.Size = Range{100, 400}
	}
	if c.Drift == (Range{}) {
		c.Drift = Range{-50, 50}
	}
	if c.Period == (Range{}) {
		c.Period = Range{10, 30}
	}
	if c.Ease == nil {
		c.Ease = ease.InOutSine
	}
	return c
}

// Backdrop is a set of slowly drifting blobs behind page content. Blobs are
// generated once; only their offsets vary with time.
type Backdrop struct {
	blobs []Blob
	ease  ease.TweenFunc
}

// NewBackdrop generates the blobs.
func NewBackdrop(cfg BackdropConfig) *Backdrop {
	cfg = cfg.withDefaults()
	rng := newRand(cfg.Seed)
	unit := Range{0, 1}
	blobs := make([]Blob, cfg.Count)
	for i := range blobs {
		blobs[i] = Blob{
			Origin: Vec2{unit.sample(rng), unit.sample(rng)},
			Size:   cfg.Size.sample(rng),
			Drift:  Vec2{cfg.Drift.sample(rng), cfg.Drift.sample(rng)},
			Period: cfg.Period.sample(rng),
		}
	}
	return &Backdrop{blobs: blobs, ease: cfg.Ease}
}

// Blobs returns the blobs. The returned slice MUST NOT be mutated.
func (b *Backdrop) Blobs() []Blob {
	return b.blobs
}

var unitKeys = []float64{0, 1}

// Offsets writes each blob's drift offset at elapsed seconds into dst[:0].
func (b *Backdrop) Offsets(elapsed float64, dst []Vec2) []Vec2 {
	dst = dst[:0]
	for _, blob := range b.blobs {
		k := Keyframes{Values: unitKeys, Duration: blob.Period, Ease: b.ease, Repeat: RepeatReverse}
		t := k.At(elapsed)
		dst = append(dst, Vec2{blob.Drift.X * t, blob.Drift.Y * t})
	}
	return dst
}
