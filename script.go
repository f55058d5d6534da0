package motion

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a signal script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Path   string  `json:"path,omitempty"`
	Target string  `json:"target,omitempty"`
	State  string  `json:"state,omitempty"`
	On     bool    `json:"on,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// scriptFile is the top-level JSON structure for a signal script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Snapshot is a RenderState captured by a "snapshot" step.
type Snapshot struct {
	Label string
	State RenderState
}

// Script sequences injected signals, element state requests and snapshots
// across frames so a scene can be driven without a window. Attach to a
// Scene via SetScript.
//
// Actions: scroll (y), scrollTo (fromY, toY, frames), pointer (x, y),
// press (x, y), release (x, y), viewport (width, height), route (path),
// state (target, state), hover (target, on), tap (target, on),
// wait (frames), snapshot (label).
//
// Hover and tap steps set an element's gesture layer directly. An element
// registered with Scene.Interactive has its hover and tap re-evaluated from
// the pointer every frame, which overrides those steps on the next frame.
// Drive such elements with pointer, press and release steps instead.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	pending   []string
	snapshots []Snapshot
	errs      []error
}

// LoadScript parses a JSON signal script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse signal script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse signal script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "scroll", "scrollTo", "pointer", "press", "release", "viewport",
			"route", "wait", "snapshot":
		case "state", "hover", "tap":
			if st.Target == "" {
				return nil, fmt.Errorf("parse signal script: step %d (%s) needs a target", i, st.Action)
			}
		default:
			return nil, fmt.Errorf("parse signal script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// SetScript attaches a script. Its steps run at the start of each Update,
// before injected samples are consumed.
func (s *Scene) SetScript(sc *Script) {
	s.script = sc
}

// Done reports whether every step has run and every injected sample has
// been consumed.
func (r *Script) Done() bool {
	return r.done
}

// Snapshots returns the captured snapshots in order.
func (r *Script) Snapshots() []Snapshot {
	return r.snapshots
}

// Errors returns problems met while running, such as unknown targets.
func (r *Script) Errors() []error {
	return r.errs
}

// step advances the script by one frame. Called from Scene.Update.
func (r *Script) step(s *Scene) {
	if r.done {
		return
	}
	// Let injected samples drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "snapshot":
		r.pending = append(r.pending, st.Label)
	case "scroll":
		s.InjectScroll(st.Y)
	case "scrollTo":
		s.InjectScrollTo(st.FromY, st.ToY, st.Frames)
	case "pointer":
		s.InjectPointer(st.X, st.Y)
	case "press":
		s.InjectPress(st.X, st.Y)
	case "release":
		s.InjectRelease(st.X, st.Y)
	case "viewport":
		s.InjectViewport(st.Width, st.Height)
	case "route":
		s.InjectRoute(st.Path)
	case "state", "hover", "tap":
		el := s.Element(st.Target)
		if el == nil {
			r.errs = append(r.errs, fmt.Errorf("step %d: no element %q", r.cursor-1, st.Target))
			break
		}
		switch st.Action {
		case "state":
			el.TransitionTo(st.State)
		case "hover":
			el.SetHover(st.On)
		case "tap":
			el.SetTap(st.On)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

// capture records pending snapshots once the frame's state is complete.
func (r *Script) capture(s *Scene) {
	for _, label := range r.pending {
		r.snapshots = append(r.snapshots, Snapshot{Label: label, State: s.state.Clone()})
	}
	r.pending = r.pending[:0]
}
