package motion

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TransitionKind selects how a value travels to its target.
type TransitionKind uint8

const (
	TransitionTween  TransitionKind = iota // fixed duration with an easing curve
	TransitionSpring                       // damped spring, duration emerges from the physics
)

// Orchestration orders a container's own animation relative to its children.
type Orchestration uint8

const (
	WhenTogether       Orchestration = iota // container and children start together
	WhenBeforeChildren                      // children start once the container settles
	WhenAfterChildren                       // container starts once every child settles
)

// Default spring constants for a unit mass.
const (
	DefaultStiffness = 100.0
	DefaultDamping   = 10.0
)

// Rest thresholds for spring-driven values.
const (
	restDelta = 1e-3
	restSpeed = 1e-2
)

// Transition describes how a variant's values are reached.
type Transition struct {
	Kind TransitionKind

	// Tween fields. Duration in seconds; Ease defaults to ease.OutQuad.
	Duration float64
	Ease     ease.TweenFunc

	// Spring fields. When Bounce or SpringDuration is set they take
	// precedence over Stiffness/Damping.
	Stiffness      float64
	Damping        float64
	Bounce         float64
	SpringDuration float64

	// Delay postpones the element's own animation, in seconds.
	Delay float64

	// Child orchestration, applied when a container enters this variant.
	DelayChildren   float64
	StaggerChildren float64
	When            Orchestration
}

// DefaultTransition is used by variants that leave Transition zero.
var DefaultTransition = Transition{Kind: TransitionTween, Duration: 0.3, Ease: ease.OutQuad}

// isZero reports whether no motion-shaping field was set.
func (t Transition) isZero() bool {
	return t.Kind == TransitionTween && t.Duration == 0 && t.Ease == nil &&
		t.Stiffness == 0 && t.Damping == 0 && t.Bounce == 0 && t.SpringDuration == 0
}

// withDefaults fills unset motion fields, keeping orchestration fields.
func (t Transition) withDefaults() Transition {
	if t.isZero() {
		d := DefaultTransition
		d.Delay = t.Delay
		d.DelayChildren = t.DelayChildren
		d.StaggerChildren = t.StaggerChildren
		d.When = t.When
		return d
	}
	if t.Kind == TransitionTween && t.Ease == nil {
		t.Ease = ease.OutQuad
	}
	if t.Kind == TransitionSpring {
		switch {
		case t.Bounce != 0 || t.SpringDuration != 0:
			t.Stiffness, t.Damping = SpringFromBounce(t.SpringDuration, t.Bounce)
		default:
			if t.Stiffness <= 0 {
				t.Stiffness = DefaultStiffness
			}
			if t.Damping <= 0 {
				t.Damping = DefaultDamping
			}
		}
	}
	return t
}

// harmonicaParams converts stiffness/damping into harmonica's angular
// frequency and damping ratio.
func (t Transition) harmonicaParams() (omega, zeta float64) {
	omega = math.Sqrt(t.Stiffness)
	zeta = t.Damping / (2 * omega)
	return omega, zeta
}

// StaggerOffsets returns the start offset of each of n children:
// delayChildren + i*stagger.
func StaggerOffsets(n int, delayChildren, stagger float64) []float64 {
	offsets := make([]float64, n)
	for i := range offsets {
		offsets[i] = delayChildren + float64(i)*stagger
	}
	return offsets
}

// valueAnim drives one float from its value at start to a target.
type valueAnim struct {
	from, to float64
	value    float64
	delay    float64
	kind     TransitionKind

	tween    *gween.Tween
	duration float64
	easeFn   ease.TweenFunc

	spring   harmonica.Spring
	springDt float64
	omega    float64
	zeta     float64
	velocity float64
	done     bool
}

func newValueAnim(from, to float64, tr Transition, delay float64) *valueAnim {
	a := &valueAnim{from: from, to: to, value: from, delay: delay, kind: tr.Kind}
	// Parameters are set even for an anim that starts at rest, so a later
	// retarget or carried velocity can wake it.
	switch tr.Kind {
	case TransitionSpring:
		a.omega, a.zeta = tr.harmonicaParams()
	default:
		a.duration = math.Max(tr.Duration, 0)
		a.easeFn = tr.Ease
		a.tween = gween.New(float32(from), float32(to), float32(a.duration), a.easeFn)
	}
	if from == to && delay <= 0 {
		a.done = true
	}
	return a
}

// retarget keeps the current value and velocity, only moving the goal. Used
// for layout changes where the descriptor is unchanged.
func (a *valueAnim) retarget(to float64) {
	if a.to == to {
		return
	}
	a.to = to
	a.done = false
	if a.kind == TransitionTween {
		// Tweens carry no velocity; restart from where we are.
		a.tween = gween.New(float32(a.value), float32(to), float32(a.duration), a.easeFn)
	}
}

// update advances by dt seconds and returns the current value.
func (a *valueAnim) update(dt float64) float64 {
	if a.done {
		return a.value
	}
	if a.delay > 0 {
		a.delay -= dt
		if a.delay > 0 {
			return a.value
		}
		dt = -a.delay
		a.delay = 0
	}
	if a.kind == TransitionSpring {
		if dt <= 0 {
			return a.value
		}
		if dt != a.springDt {
			a.spring = harmonica.NewSpring(dt, a.omega, a.zeta)
			a.springDt = dt
		}
		a.value, a.velocity = a.spring.Update(a.value, a.velocity, a.to)
		if math.Abs(a.to-a.value) < restDelta && math.Abs(a.velocity) < restSpeed {
			a.value = a.to
			a.velocity = 0
			a.done = true
		}
		return a.value
	}
	if a.tween == nil {
		a.value = a.to
		a.done = true
		return a.value
	}
	v, finished := a.tween.Update(float32(dt))
	a.value = float64(v)
	if finished {
		// Land exactly on the target; float32 tweening drifts.
		a.value = a.to
		a.done = true
	}
	return a.value
}
