// Package profile loads declarative motion scenes from YAML.
//
// A profile lists the scroll regions, value bindings, pointer followers,
// particle field, backdrop, keyframe loops, navigation entries and variant
// elements of a scene. Build turns a parsed profile into a ready
// *motion.Scene; Watch reloads its bindings while the scene runs.
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/phanxgames/motion"
	"gopkg.in/yaml.v3"
)

// Profile is the root of a scene description.
type Profile struct {
	Name  string `yaml:"name"`
	Debug bool   `yaml:"debug"`
	TPS   int    `yaml:"tps"`

	Regions    []RegionSpec    `yaml:"regions"`
	Bindings   []BindingSpec   `yaml:"bindings"`
	Thresholds []ThresholdSpec `yaml:"thresholds"`
	Followers  []FollowerSpec  `yaml:"followers"`
	Field      *FieldSpec      `yaml:"field"`
	Backdrop   *BackdropSpec   `yaml:"backdrop"`
	Loops      []LoopSpec      `yaml:"loops"`
	Bodies     []BodySpec      `yaml:"bodies"`
	Nav        *NavSpec        `yaml:"nav"`
	Elements   []ElementSpec   `yaml:"elements"`
}

// RegionSpec is a tracked scroll region.
type RegionSpec struct {
	Name   string  `yaml:"name"`
	Top    float64 `yaml:"top"`
	Height float64 `yaml:"height"`
}

// BindingSpec maps a region's progress through a piecewise-linear curve.
type BindingSpec struct {
	Name   string    `yaml:"name"`
	Region string    `yaml:"region"`
	Input  []float64 `yaml:"input"`
	Output []float64 `yaml:"output"`
}

// ThresholdSpec raises a flag once the scroll offset passes Above.
type ThresholdSpec struct {
	Name  string  `yaml:"name"`
	Above float64 `yaml:"above"`
}

// FollowerSpec is a spring-smoothed pointer follower.
type FollowerSpec struct {
	Name      string  `yaml:"name"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
}

// FieldSpec configures the particle field. Omitted values take the engine
// defaults.
type FieldSpec struct {
	Count      int           `yaml:"count"`
	Bounds     float64       `yaml:"bounds"`
	Hue        []float64     `yaml:"hue"`
	Saturation float64       `yaml:"saturation"`
	Lightness  float64       `yaml:"lightness"`
	Size       []float64     `yaml:"size"`
	Rotation   []float64     `yaml:"rotation"`
	Opacity    *EnvelopeSpec `yaml:"opacity"`
	Seed       uint64        `yaml:"seed"`
	// Distance and FOV configure the projection camera.
	Distance float64 `yaml:"distance"`
	FOV      float64 `yaml:"fov"`
}

// EnvelopeSpec is a sinusoidal oscillation base ± amplitude.
type EnvelopeSpec struct {
	Base      float64 `yaml:"base"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
}

// BackdropSpec configures the floating backdrop blobs.
type BackdropSpec struct {
	Count  int       `yaml:"count"`
	Size   []float64 `yaml:"size"`
	Drift  []float64 `yaml:"drift"`
	Period []float64 `yaml:"period"`
	Ease   string    `yaml:"ease"`
	Seed   uint64    `yaml:"seed"`
}

// LoopSpec is a repeating keyframe animation.
type LoopSpec struct {
	Name     string    `yaml:"name"`
	Property string    `yaml:"property"`
	Values   []float64 `yaml:"values"`
	Duration float64   `yaml:"duration"`
	Ease     string    `yaml:"ease"`
	// Repeat is "none", "loop" or "reverse". Default "loop".
	Repeat string `yaml:"repeat"`
}

// BodySpec is a decorative rotating sphere or torus. Omitted values take
// the engine defaults for the shape.
type BodySpec struct {
	Name string `yaml:"name"`
	// Shape is "sphere" or "torus". Default "sphere".
	Shape    string    `yaml:"shape"`
	Radius   float64   `yaml:"radius"`
	Tube     float64   `yaml:"tube"`
	Segments int       `yaml:"segments"`
	Rings    int       `yaml:"rings"`
	Rotation []float64 `yaml:"rotation"`
	// Center is a viewport fraction.
	Center []float64 `yaml:"center"`
	Scale  float64   `yaml:"scale"`
	// Color is a hex string such as "#6366f1".
	Color string `yaml:"color"`
}

// NavSpec describes the navigation entries sharing one route indicator.
type NavSpec struct {
	Thickness  float64         `yaml:"thickness"`
	Transition *TransitionSpec `yaml:"transition"`
	Entries    []EntrySpec     `yaml:"entries"`
}

// EntrySpec is one navigation link.
type EntrySpec struct {
	Name   string   `yaml:"name"`
	Path   string   `yaml:"path"`
	Bounds RectSpec `yaml:"bounds"`
}

// RectSpec is a viewport-space rectangle.
type RectSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ElementSpec is a node of the variant tree.
type ElementSpec struct {
	Name     string                 `yaml:"name"`
	Initial  string                 `yaml:"initial"`
	Variants map[string]VariantSpec `yaml:"variants"`
	Children []ElementSpec          `yaml:"children"`
	// Hit, when set, routes pointer hover and press to the element.
	Hit *RectSpec `yaml:"hit"`
}

// VariantSpec is a named target style.
type VariantSpec struct {
	Style      map[string]float64 `yaml:"style"`
	Transition *TransitionSpec    `yaml:"transition"`
}

// TransitionSpec describes how a variant is reached.
type TransitionSpec struct {
	// Type is "tween" or "spring". Default "tween".
	Type      string  `yaml:"type"`
	Duration  float64 `yaml:"duration"`
	Ease      string  `yaml:"ease"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	Bounce    float64 `yaml:"bounce"`
	// SpringDuration is the perceived duration of a bounce spring.
	SpringDuration  float64 `yaml:"springDuration"`
	Delay           float64 `yaml:"delay"`
	DelayChildren   float64 `yaml:"delayChildren"`
	StaggerChildren float64 `yaml:"staggerChildren"`
	// When is "", "beforeChildren" or "afterChildren".
	When string `yaml:"when"`
}

// Load reads and parses the profile at path, then applies environment
// overrides.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := p.ApplyEnv(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse decodes and validates a YAML profile. Unknown keys are rejected.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks cross references and curve shapes. All problems are
// reported together.
func (p *Profile) Validate() error {
	var errs []error
	regions := map[string]bool{}
	for _, r := range p.Regions {
		if r.Name == "" {
			errs = append(errs, errors.New("region with empty name"))
			continue
		}
		if regions[r.Name] {
			errs = append(errs, fmt.Errorf("duplicate region %q", r.Name))
		}
		regions[r.Name] = true
	}
	for _, b := range p.Bindings {
		if !regions[b.Region] {
			errs = append(errs, fmt.Errorf("binding %q: unknown region %q", b.Name, b.Region))
		}
		if _, err := motion.NewMapping(b.Input, b.Output); err != nil {
			errs = append(errs, fmt.Errorf("binding %q: %w", b.Name, err))
		}
	}
	for _, l := range p.Loops {
		if _, err := repeatByName(l.Repeat); err != nil {
			errs = append(errs, fmt.Errorf("loop %q: %w", l.Name, err))
		}
		if _, ok := motion.EaseByName(l.Ease); !ok {
			errs = append(errs, fmt.Errorf("loop %q: unknown ease %q", l.Name, l.Ease))
		}
	}
	if p.Field != nil {
		for _, pair := range []struct {
			name string
			v    []float64
		}{{"hue", p.Field.Hue}, {"size", p.Field.Size}, {"rotation", p.Field.Rotation}} {
			if len(pair.v) != 0 && len(pair.v) != 2 {
				errs = append(errs, fmt.Errorf("field %s: want 2 values, got %d", pair.name, len(pair.v)))
			}
		}
		if o := p.Field.Opacity; o != nil {
			if o.Base-abs(o.Amplitude) <= 0 || o.Base+abs(o.Amplitude) >= 1 {
				errs = append(errs, errors.New("field opacity: envelope must stay strictly inside (0, 1)"))
			}
		}
	}
	if b := p.Backdrop; b != nil {
		if _, ok := motion.EaseByName(b.Ease); !ok {
			errs = append(errs, fmt.Errorf("backdrop: unknown ease %q", b.Ease))
		}
		for name, v := range map[string][]float64{"size": b.Size, "drift": b.Drift, "period": b.Period} {
			if len(v) != 0 && len(v) != 2 {
				errs = append(errs, fmt.Errorf("backdrop %s: want 2 values, got %d", name, len(v)))
			}
		}
	}
	for _, b := range p.Bodies {
		if _, err := b.config(); err != nil {
			errs = append(errs, fmt.Errorf("body %q: %w", b.Name, err))
		}
	}
	if p.Nav != nil {
		if p.Nav.Transition != nil {
			if _, err := p.Nav.Transition.build(); err != nil {
				errs = append(errs, fmt.Errorf("nav: %w", err))
			}
		}
		paths := map[string]string{}
		for _, e := range p.Nav.Entries {
			if e.Path == "" {
				errs = append(errs, fmt.Errorf("nav entry %q: empty path", e.Name))
				continue
			}
			if prev, ok := paths[e.Path]; ok {
				errs = append(errs, fmt.Errorf("nav entry %q: path %q already used by %q", e.Name, e.Path, prev))
				continue
			}
			paths[e.Path] = e.Name
		}
	}
	names := map[string]bool{}
	for i := range p.Elements {
		errs = validateElement(&p.Elements[i], names, errs)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid profile: %w", errors.Join(errs...))
	}
	return nil
}

func validateElement(e *ElementSpec, names map[string]bool, errs []error) []error {
	if e.Name == "" {
		errs = append(errs, errors.New("element with empty name"))
	} else if names[e.Name] {
		errs = append(errs, fmt.Errorf("duplicate element %q", e.Name))
	}
	names[e.Name] = true
	for state, v := range e.Variants {
		if v.Transition == nil {
			continue
		}
		if _, err := v.Transition.build(); err != nil {
			errs = append(errs, fmt.Errorf("element %q variant %q: %w", e.Name, state, err))
		}
	}
	for i := range e.Children {
		errs = validateElement(&e.Children[i], names, errs)
	}
	return errs
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
