package motion

// Frame is passed to per-frame callbacks after the scene has updated.
type Frame struct {
	Dt      float64
	Signals Signals
	State   *RenderState
}

type frameHandler struct {
	id uint32
	fn func(Frame)
}

type handlerRegistry struct {
	frame  []frameHandler
	nextID uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id  uint32
	reg *handlerRegistry
}

// Remove unregisters this callback so it no longer fires. Safe to call more
// than once.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	h.reg.frame = removeFrameHandler(h.reg.frame, h.id)
}

func removeFrameHandler(s []frameHandler, id uint32) []frameHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = frameHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func (r *handlerRegistry) addFrame(fn func(Frame)) CallbackHandle {
	r.nextID++
	id := r.nextID
	r.frame = append(r.frame, frameHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: r}
}

func (r *handlerRegistry) fire(f Frame) {
	for _, h := range r.frame {
		h.fn(f)
	}
}

// Teardown collects release functions and runs them in reverse order of
// registration, once.
type Teardown struct {
	fns      []func()
	released bool
}

// Defer registers fn to run on Release. Registering after Release runs fn
// immediately.
func (t *Teardown) Defer(fn func()) {
	if t.released {
		fn()
		return
	}
	t.fns = append(t.fns, fn)
}

// Release runs every registered function, last registered first. Later
// calls are no-ops.
func (t *Teardown) Release() {
	if t.released {
		return
	}
	t.released = true
	for i := len(t.fns) - 1; i >= 0; i-- {
		t.fns[i]()
		t.fns[i] = nil
	}
	t.fns = t.fns[:0]
}

// Reset makes a released Teardown usable again.
func (t *Teardown) Reset() {
	t.released = false
	t.fns = t.fns[:0]
}

// Pending returns how many release functions are registered.
func (t *Teardown) Pending() int {
	return len(t.fns)
}
