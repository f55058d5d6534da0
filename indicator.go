package motion

// NavEntry is a navigation link the indicator can sit under.
type NavEntry struct {
	Name string
	// Path is matched exactly against the full pathname.
	Path string
	// Bounds is the entry's geometry in viewport space.
	Bounds Rect
}

// IndicatorStyle shapes the shared marker and its motion.
type IndicatorStyle struct {
	// Thickness of the underline in pixels. Default 2.
	Thickness float64
	// Transition used when the marker migrates. Default spring with
	// bounce 0.2 over 0.6s.
	Transition Transition
}

func (s IndicatorStyle) withDefaults() IndicatorStyle {
	if s.Thickness <= 0 {
		s.Thickness = 2
	}
	if s.Transition.isZero() {
		s.Transition = Transition{Kind: TransitionSpring, Bounce: 0.2, SpringDuration: 0.6}
	}
	s.Transition = s.Transition.withDefaults()
	return s
}

// IndicatorGeometry is what the view layer applies to the marker element.
type IndicatorGeometry struct {
	Rect
	Visible bool
}

// Indicator owns the single active-route token. At most one entry holds it;
// moving it animates the one shared marker from the old holder's geometry
// to the new holder's.
type Indicator struct {
	entries []NavEntry
	style   IndicatorStyle
	holder  int
	moves   int

	geom    Rect
	anims   [4]*valueAnim
	visible bool

	// OnMove, if set, is called after the token changes hands. prev or next
	// is -1 when unassigned.
	OnMove func(prev, next int)
}

// NewIndicator creates an unassigned indicator over entries.
func NewIndicator(entries []NavEntry, style IndicatorStyle) *Indicator {
	return &Indicator{
		entries: append([]NavEntry(nil), entries...),
		style:   style.withDefaults(),
		holder:  -1,
	}
}

// Entries returns the registered entries. The returned slice MUST NOT be
// mutated.
func (ind *Indicator) Entries() []NavEntry {
	return ind.entries
}

// Holder returns the entry holding the token, if any.
func (ind *Indicator) Holder() (NavEntry, bool) {
	if ind.holder < 0 {
		return NavEntry{}, false
	}
	return ind.entries[ind.holder], true
}

// HolderIndex returns the holder's index, or -1.
func (ind *Indicator) HolderIndex() int {
	return ind.holder
}

// Moves returns how many times the token has changed hands.
func (ind *Indicator) Moves() int {
	return ind.moves
}

// Observe reports a location change. The token moves when path exactly
// matches an entry other than the current holder. A path matching no entry
// releases the token. Returns whether the holder changed.
func (ind *Indicator) Observe(path string) bool {
	next := -1
	for i, e := range ind.entries {
		if e.Path == path {
			next = i
			break
		}
	}
	if next == ind.holder {
		return false
	}
	prev := ind.holder
	ind.holder = next
	ind.moves++

	switch {
	case next < 0:
		ind.visible = false
		ind.anims = [4]*valueAnim{}
	case prev < 0 || !ind.visible:
		// Nothing to migrate from: appear in place.
		ind.geom = ind.markerFor(next)
		ind.anims = [4]*valueAnim{}
		ind.visible = true
	default:
		ind.animateTo(ind.markerFor(next))
	}

	if ind.OnMove != nil {
		ind.OnMove(prev, next)
	}
	return true
}

// SetEntryBounds updates an entry's geometry after layout. If it holds the
// token the marker follows continuously.
func (ind *Indicator) SetEntryBounds(i int, bounds Rect) {
	ind.entries[i].Bounds = bounds
	if i != ind.holder || !ind.visible {
		return
	}
	target := ind.markerFor(i)
	if ind.anims[0] == nil {
		ind.animateTo(target)
		return
	}
	vals := rectValues(target)
	for k, a := range ind.anims {
		a.retarget(vals[k])
	}
}

// markerFor returns the underline rect for entry i: bottom edge, full width.
func (ind *Indicator) markerFor(i int) Rect {
	b := ind.entries[i].Bounds
	t := ind.style.Thickness
	return Rect{X: b.X, Y: b.Y + b.Height - t, Width: b.Width, Height: t}
}

func (ind *Indicator) animateTo(target Rect) {
	from := rectValues(ind.geom)
	to := rectValues(target)
	for k := range ind.anims {
		na := newValueAnim(from[k], to[k], ind.style.Transition, 0)
		if old := ind.anims[k]; old != nil {
			na.velocity = old.velocity
			if na.done && na.velocity != 0 {
				na.done = false
			}
		}
		ind.anims[k] = na
	}
}

// Update advances the marker animation by dt seconds.
func (ind *Indicator) Update(dt float64) {
	if ind.anims[0] == nil {
		return
	}
	var vals [4]float64
	done := true
	for k, a := range ind.anims {
		vals[k] = a.update(dt)
		if !a.done {
			done = false
		}
	}
	ind.geom = Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if done {
		ind.anims = [4]*valueAnim{}
	}
}

// Settled reports whether the marker is at rest.
func (ind *Indicator) Settled() bool {
	return ind.anims[0] == nil
}

// Geometry returns the marker's current geometry.
func (ind *Indicator) Geometry() IndicatorGeometry {
	return IndicatorGeometry{Rect: ind.geom, Visible: ind.visible}
}

func rectValues(r Rect) [4]float64 {
	return [4]float64{r.X, r.Y, r.Width, r.Height}
}
