package motion

import (
	"maps"
	"slices"
)

// Property names a style channel an element can animate.
type Property string

const (
	PropOpacity Property = "opacity"
	PropX       Property = "x"
	PropY       Property = "y"
	PropScale   Property = "scale"
	PropRotate  Property = "rotate"
	PropRotateX Property = "rotateX"
	PropRotateY Property = "rotateY"
	PropRotateZ Property = "rotateZ"
	PropHeight  Property = "height"
)

// DefaultValue returns the resting value of p for an element that never set
// it: 1 for opacity, scale and height, 0 otherwise.
func DefaultValue(p Property) float64 {
	switch p {
	case PropOpacity, PropScale, PropHeight:
		return 1
	}
	return 0
}

// Style is a style vector: property name to value.
type Style map[Property]float64

// Common state names.
const (
	StateHidden  = "hidden"
	StateVisible = "visible"
	StateOpen    = "open"
	StateClosed  = "closed"
	StateHover   = "hover"
	StateTap     = "tap"
)

// Variant is a named target style plus how to reach it.
type Variant struct {
	Style      Style
	Transition Transition
}

// VariantSet maps state names to variants.
type VariantSet map[string]Variant

// gate tracks what an element is waiting on before its own animation runs.
type gate uint8

const (
	gateNone     gate = iota
	gateChildren      // own animation waits for every participating child
)

// Element is a node in the variant tree. Exactly one state is current at a
// time; changing state animates each property from its current value to the
// new resolved value.
//
// Hover and tap are transient layers on top of the current state. They do
// not propagate to children and ignore stagger and delay.
type Element struct {
	Name string

	Parent   *Element
	children []*Element

	variants VariantSet
	current  string

	base   Style // values of the current state, before gesture layers
	values Style // live values
	anims  map[Property]*valueAnim

	hover bool
	tap   bool

	gate         gate
	gateDelay    float64
	gateOwn      Variant
	pendingKids  string // state to start on children once own animation settles
	pendingTr    Transition
	participants []*Element
	offsets      []float64
}

// NewElement creates an element resting in the initial state. An unknown
// initial state is still recorded as current but leaves every property at
// its default.
func NewElement(name string, variants VariantSet, initial string) *Element {
	e := &Element{
		Name:     name,
		variants: variants,
		base:     Style{},
		values:   Style{},
		anims:    map[Property]*valueAnim{},
	}
	e.current = initial
	if v, ok := variants[initial]; ok {
		maps.Copy(e.base, v.Style)
		maps.Copy(e.values, v.Style)
	}
	return e
}

// AddChild appends child in declaration order. Panics on nil or on a cycle.
func (e *Element) AddChild(child *Element) {
	if child == nil {
		panic("motion: cannot add nil child element")
	}
	for p := e; p != nil; p = p.Parent {
		if p == child {
			panic("motion: adding child element would create a cycle")
		}
	}
	if child.Parent != nil {
		child.Parent.children = slices.DeleteFunc(child.Parent.children, func(c *Element) bool { return c == child })
	}
	child.Parent = e
	e.children = append(e.children, child)
}

// Children returns the children in declaration order. The returned slice
// MUST NOT be mutated.
func (e *Element) Children() []*Element {
	return e.children
}

// State returns the current state name.
func (e *Element) State() string {
	return e.current
}

// Variants returns the element's variant set.
func (e *Element) Variants() VariantSet {
	return e.variants
}

// TransitionTo makes state current and starts the transition, propagating to
// children that define the same state. Returns false without restarting
// anything if state is already current.
func (e *Element) TransitionTo(state string) bool {
	if state == e.current {
		return false
	}
	e.transition(state, 0)
	return true
}

// transition enters state with an extra start offset inherited from the
// parent's stagger plan.
func (e *Element) transition(state string, offset float64) {
	v, ok := e.variants[state]
	if !ok {
		// Pass through: children may still define the state.
		e.current = state
		e.startChildren(state, offset, Transition{})
		return
	}
	e.current = state
	maps.Copy(e.base, v.Style)
	tr := v.Transition.withDefaults()

	e.gate = gateNone
	e.pendingKids = ""

	switch tr.When {
	case WhenAfterChildren:
		e.startChildren(state, offset, tr)
		if len(e.participants) > 0 {
			// Freeze own properties until the join releases.
			for p := range v.Style {
				delete(e.anims, p)
			}
			e.gate = gateChildren
			e.gateDelay = tr.Delay
			e.gateOwn = Variant{Style: v.Style, Transition: tr}
			return
		}
		e.animate(v.Style, tr, offset+tr.Delay)
	case WhenBeforeChildren:
		e.animate(v.Style, tr, offset+tr.Delay)
		e.participants = e.participants[:0]
		e.offsets = e.offsets[:0]
		e.pendingKids = state
		e.pendingTr = tr
	default:
		e.animate(v.Style, tr, offset+tr.Delay)
		e.startChildren(state, offset, tr)
	}
}

// startChildren transitions every child that knows state (directly or via
// its own descendants) with delayChildren + i*stagger, i being declaration
// order.
func (e *Element) startChildren(state string, offset float64, tr Transition) {
	e.participants = e.participants[:0]
	e.offsets = e.offsets[:0]
	for i, c := range e.children {
		if !c.knows(state) {
			continue
		}
		d := tr.DelayChildren + float64(i)*tr.StaggerChildren
		e.participants = append(e.participants, c)
		e.offsets = append(e.offsets, d)
		c.transition(state, offset+d)
	}
}

// knows reports whether e or any descendant defines state.
func (e *Element) knows(state string) bool {
	if _, ok := e.variants[state]; ok {
		return true
	}
	for _, c := range e.children {
		if c.knows(state) {
			return true
		}
	}
	return false
}

// ChildStartOffsets returns the start offsets, in seconds, that the most
// recent group transition gave each participating child.
func (e *Element) ChildStartOffsets() []float64 {
	return slices.Clone(e.offsets)
}

// animate starts animations from current values toward the resolved targets
// of every property in style.
func (e *Element) animate(style Style, tr Transition, delay float64) {
	for p := range style {
		e.animateProp(p, e.resolve(p), tr, delay)
	}
}

func (e *Element) animateProp(p Property, to float64, tr Transition, delay float64) {
	from := e.Value(p)
	a := newValueAnim(from, to, tr, delay)
	if old, ok := e.anims[p]; ok && old.kind == TransitionSpring && a.kind == TransitionSpring {
		a.velocity = old.velocity
		if a.done && a.velocity != 0 {
			a.done = false
		}
	}
	e.anims[p] = a
}

// resolve returns the layered target for p: tap, then hover, then the
// current state, then the default.
func (e *Element) resolve(p Property) float64 {
	if e.tap {
		if v, ok := e.variants[StateTap].Style[p]; ok {
			return v
		}
	}
	if e.hover {
		if v, ok := e.variants[StateHover].Style[p]; ok {
			return v
		}
	}
	if v, ok := e.base[p]; ok {
		return v
	}
	return DefaultValue(p)
}

// SetHover enters or leaves the hover layer.
func (e *Element) SetHover(on bool) {
	if e.hover == on {
		return
	}
	e.hover = on
	e.gesture(StateHover, on)
}

// SetTap enters or leaves the tap layer.
func (e *Element) SetTap(on bool) {
	if e.tap == on {
		return
	}
	e.tap = on
	e.gesture(StateTap, on)
}

// Hovered reports whether the hover layer is active.
func (e *Element) Hovered() bool { return e.hover }

// Tapped reports whether the tap layer is active.
func (e *Element) Tapped() bool { return e.tap }

func (e *Element) gesture(state string, entering bool) {
	v, ok := e.variants[state]
	if !ok {
		return
	}
	tr := v.Transition
	if !entering {
		tr = e.variants[e.current].Transition
	}
	tr = tr.withDefaults()
	for p := range v.Style {
		e.animateProp(p, e.resolve(p), tr, 0)
	}
}

// Update advances children first, then this element's own animation.
func (e *Element) Update(dt float64) {
	for _, c := range e.children {
		c.Update(dt)
	}

	if e.gate == gateChildren {
		if !e.participantsSettled() {
			return
		}
		e.gate = gateNone
		e.animate(e.gateOwn.Style, e.gateOwn.Transition, e.gateDelay)
	}

	for p, a := range e.anims {
		e.values[p] = a.update(dt)
		if a.done {
			delete(e.anims, p)
		}
	}

	if e.pendingKids != "" && len(e.anims) == 0 {
		state, tr := e.pendingKids, e.pendingTr
		e.pendingKids = ""
		e.startChildren(state, 0, tr)
	}
}

func (e *Element) participantsSettled() bool {
	for _, c := range e.participants {
		if !c.Settled() {
			return false
		}
	}
	return true
}

// Settled reports whether this element and its whole subtree are at rest.
func (e *Element) Settled() bool {
	if e.gate != gateNone || e.pendingKids != "" || len(e.anims) > 0 {
		return false
	}
	for _, c := range e.children {
		if !c.Settled() {
			return false
		}
	}
	return true
}

// Value returns the live value of p.
func (e *Element) Value(p Property) float64 {
	if v, ok := e.values[p]; ok {
		return v
	}
	return DefaultValue(p)
}

// Snapshot returns a copy of the live values.
func (e *Element) Snapshot() Style {
	return maps.Clone(e.values)
}

// Find returns the first element named name in the subtree rooted at e.
func (e *Element) Find(name string) *Element {
	if e.Name == name {
		return e
	}
	for _, c := range e.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// Walk calls fn for e and every descendant, depth first.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.children {
		c.Walk(fn)
	}
}
