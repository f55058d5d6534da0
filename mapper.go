package motion

import "fmt"

// Interpolate maps value from the input breakpoints to the output
// breakpoints with piecewise-linear interpolation. Values at or beyond the
// first or last input breakpoint clamp to the matching output value.
//
// in and out must have the same length (at least 2) and in must be sorted
// ascending. Neither is checked here; use NewMapping to validate once at
// construction. Non-finite input is undefined.
func Interpolate(value float64, in, out []float64) float64 {
	last := len(in) - 1
	if value <= in[0] {
		return out[0]
	}
	if value >= in[last] {
		return out[last]
	}
	i := 1
	for i < last && value > in[i] {
		i++
	}
	lo, hi := in[i-1], in[i]
	t := (value - lo) / (hi - lo)
	return lerp(out[i-1], out[i], t)
}

// Mapping is a validated, stateless piecewise-linear function.
type Mapping struct {
	In  []float64
	Out []float64
}

// NewMapping validates the breakpoints and returns a Mapping. The slices are
// copied so later changes by the caller do not leak in.
func NewMapping(in, out []float64) (Mapping, error) {
	if len(in) != len(out) {
		return Mapping{}, fmt.Errorf("mapping: %d input breakpoints but %d outputs", len(in), len(out))
	}
	if len(in) < 2 {
		return Mapping{}, fmt.Errorf("mapping: need at least 2 breakpoints, got %d", len(in))
	}
	for i := 1; i < len(in); i++ {
		if in[i] <= in[i-1] {
			return Mapping{}, fmt.Errorf("mapping: input breakpoints not strictly increasing at index %d (%g <= %g)", i, in[i], in[i-1])
		}
	}
	return Mapping{
		In:  append([]float64(nil), in...),
		Out: append([]float64(nil), out...),
	}, nil
}

// MustMapping is like NewMapping but panics on invalid breakpoints. Intended
// for literal breakpoints in code.
func MustMapping(in, out []float64) Mapping {
	m, err := NewMapping(in, out)
	if err != nil {
		panic("motion: " + err.Error())
	}
	return m
}

// Eval evaluates the mapping at v.
func (m Mapping) Eval(v float64) float64 {
	return Interpolate(v, m.In, m.Out)
}

// ScrollProgress returns how far offset has travelled through a region that
// starts at top and spans height pixels, clamped to [0, 1]. The region is
// entered when its top reaches the viewport top and exited when its bottom
// does. A zero or negative height reports 0.
func ScrollProgress(offset, top, height float64) float64 {
	if height <= 0 {
		return 0
	}
	return clamp01((offset - top) / height)
}
