package profile

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/phanxgames/motion"
)

// Default follower spring: critically damped for a unit mass.
const (
	defaultFollowerStiffness = 100.0
	defaultFollowerDamping   = 20.0
)

// Build creates an unmounted scene from the profile. opts are applied
// before the profile's own options.
func Build(p *Profile, opts ...motion.SceneOption) (*motion.Scene, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Field != nil && (p.Field.Distance > 0 || p.Field.FOV > 0) {
		opts = append(opts, motion.WithProjection(motion.Projection{
			Distance: p.Field.Distance,
			FOV:      p.Field.FOV,
		}))
	}
	scene := motion.NewScene(opts...)
	scene.SetDebugMode(p.Debug)

	for _, r := range p.Regions {
		scene.AddRegion(motion.Region{Name: r.Name, Top: r.Top, Height: r.Height})
	}
	bindings, err := p.ResolveBindings()
	if err != nil {
		return nil, err
	}
	for _, b := range bindings {
		scene.Bind(b.Name, b.Region, b.Mapping)
	}
	for _, t := range p.Thresholds {
		scene.BindThreshold(t.Name, t.Above)
	}
	for _, f := range p.Followers {
		k, c := f.Stiffness, f.Damping
		if k <= 0 {
			k = defaultFollowerStiffness
		}
		if c <= 0 {
			c = defaultFollowerDamping
		}
		scene.AddFollower(motion.NewFollower(f.Name, k, c, motion.Vec2{}))
	}

	if p.Field != nil {
		scene.SetField(motion.NewField(p.Field.config()))
	}
	if p.Backdrop != nil {
		ef, _ := motion.EaseByName(p.Backdrop.Ease)
		scene.SetBackdrop(motion.NewBackdrop(motion.BackdropConfig{
			Count:  p.Backdrop.Count,
			Size:   rangeOf(p.Backdrop.Size),
			Drift:  rangeOf(p.Backdrop.Drift),
			Period: rangeOf(p.Backdrop.Period),
			Ease:   ef,
			Seed:   p.Backdrop.Seed,
		}))
	}
	for _, l := range p.Loops {
		rep, _ := repeatByName(l.Repeat)
		ef, _ := motion.EaseByName(l.Ease)
		scene.AddLoop(motion.Loop{
			Name:     l.Name,
			Property: motion.Property(l.Property),
			Keyframes: motion.Keyframes{
				Values:   l.Values,
				Duration: l.Duration,
				Ease:     ef,
				Repeat:   rep,
			},
		})
	}

	for _, b := range p.Bodies {
		cfg, _ := b.config()
		scene.AddBody(motion.NewBody(cfg))
	}

	if p.Nav != nil {
		entries := make([]motion.NavEntry, len(p.Nav.Entries))
		for i, e := range p.Nav.Entries {
			entries[i] = motion.NavEntry{Name: e.Name, Path: e.Path, Bounds: e.Bounds.rect()}
		}
		style := motion.IndicatorStyle{Thickness: p.Nav.Thickness}
		if p.Nav.Transition != nil {
			style.Transition, _ = p.Nav.Transition.build()
		}
		scene.SetIndicator(motion.NewIndicator(entries, style))
	}

	for i := range p.Elements {
		el, err := buildElement(scene, &p.Elements[i])
		if err != nil {
			return nil, err
		}
		scene.AddElement(el)
	}
	return scene, nil
}

// ResolveBindings turns the binding specs into engine bindings, in file
// order.
func (p *Profile) ResolveBindings() ([]motion.Binding, error) {
	out := make([]motion.Binding, 0, len(p.Bindings))
	for _, b := range p.Bindings {
		m, err := motion.NewMapping(b.Input, b.Output)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", b.Name, err)
		}
		out = append(out, motion.Binding{Name: b.Name, Region: b.Region, Mapping: m})
	}
	return out, nil
}

func buildElement(scene *motion.Scene, spec *ElementSpec) (*motion.Element, error) {
	variants := make(motion.VariantSet, len(spec.Variants))
	for state, v := range spec.Variants {
		style := make(motion.Style, len(v.Style))
		for prop, val := range v.Style {
			style[motion.Property(prop)] = val
		}
		var tr motion.Transition
		if v.Transition != nil {
			var err error
			if tr, err = v.Transition.build(); err != nil {
				return nil, fmt.Errorf("element %q variant %q: %w", spec.Name, state, err)
			}
		}
		variants[state] = motion.Variant{Style: style, Transition: tr}
	}
	el := motion.NewElement(spec.Name, variants, spec.Initial)
	for i := range spec.Children {
		child, err := buildElement(scene, &spec.Children[i])
		if err != nil {
			return nil, err
		}
		el.AddChild(child)
	}
	if spec.Hit != nil {
		scene.Interactive(el, spec.Hit.rect())
	}
	return el, nil
}

func (t *TransitionSpec) build() (motion.Transition, error) {
	var tr motion.Transition
	switch t.Type {
	case "", "tween":
		tr.Kind = motion.TransitionTween
	case "spring":
		tr.Kind = motion.TransitionSpring
	default:
		return tr, fmt.Errorf("unknown transition type %q", t.Type)
	}
	ef, ok := motion.EaseByName(t.Ease)
	if !ok {
		return tr, fmt.Errorf("unknown ease %q", t.Ease)
	}
	switch t.When {
	case "":
		tr.When = motion.WhenTogether
	case "beforeChildren":
		tr.When = motion.WhenBeforeChildren
	case "afterChildren":
		tr.When = motion.WhenAfterChildren
	default:
		return tr, fmt.Errorf("unknown orchestration %q", t.When)
	}
	if t.Bounce < 0 || t.Bounce >= 1 {
		return tr, fmt.Errorf("bounce %v outside [0, 1)", t.Bounce)
	}
	tr.Duration = t.Duration
	tr.Ease = ef
	tr.Stiffness = t.Stiffness
	tr.Damping = t.Damping
	tr.Bounce = t.Bounce
	tr.SpringDuration = t.SpringDuration
	tr.Delay = t.Delay
	tr.DelayChildren = t.DelayChildren
	tr.StaggerChildren = t.StaggerChildren
	return tr, nil
}

func repeatByName(name string) (motion.Repeat, error) {
	switch name {
	case "", "loop":
		return motion.RepeatLoop, nil
	case "none":
		return motion.RepeatNone, nil
	case "reverse":
		return motion.RepeatReverse, nil
	}
	return 0, fmt.Errorf("unknown repeat %q", name)
}

func (f *FieldSpec) config() motion.FieldConfig {
	cfg := motion.FieldConfig{
		Count:      f.Count,
		Bounds:     f.Bounds,
		Hue:        rangeOf(f.Hue),
		Saturation: f.Saturation,
		Lightness:  f.Lightness,
		Size:       rangeOf(f.Size),
		Seed:       f.Seed,
	}
	if len(f.Rotation) == 2 {
		cfg.RotationRate = motion.Vec2{X: f.Rotation[0], Y: f.Rotation[1]}
	}
	if f.Opacity != nil {
		cfg.Opacity = motion.Envelope{
			Base:      f.Opacity.Base,
			Amplitude: f.Opacity.Amplitude,
			Frequency: f.Opacity.Frequency,
		}
	}
	return cfg
}

func (b *BodySpec) config() (motion.BodyConfig, error) {
	cfg := motion.BodyConfig{
		Name:     b.Name,
		Radius:   b.Radius,
		Tube:     b.Tube,
		Segments: b.Segments,
		Rings:    b.Rings,
		Scale:    b.Scale,
	}
	switch b.Shape {
	case "", "sphere":
		cfg.Shape = motion.BodySphere
	case "torus":
		cfg.Shape = motion.BodyTorus
	default:
		return cfg, fmt.Errorf("unknown shape %q", b.Shape)
	}
	for _, pair := range []struct {
		name string
		v    []float64
		dst  *motion.Vec2
	}{{"rotation", b.Rotation, &cfg.RotationRate}, {"center", b.Center, &cfg.Center}} {
		switch len(pair.v) {
		case 0:
		case 2:
			*pair.dst = motion.Vec2{X: pair.v[0], Y: pair.v[1]}
		default:
			return cfg, fmt.Errorf("%s: want 2 values, got %d", pair.name, len(pair.v))
		}
	}
	if b.Color != "" {
		c, err := colorful.Hex(b.Color)
		if err != nil {
			return cfg, fmt.Errorf("color: %w", err)
		}
		cfg.Color = motion.Color{R: c.R, G: c.G, B: c.B, A: 1}
	}
	return cfg, nil
}

func (r RectSpec) rect() motion.Rect {
	return motion.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func rangeOf(v []float64) motion.Range {
	if len(v) != 2 {
		return motion.Range{}
	}
	return motion.Range{Min: v[0], Max: v[1]}
}
