package motion

// InjectScroll queues a scroll offset. Queued samples are consumed one per
// frame, in order, at the start of Update, and then behave exactly like
// samples from a real source.
func (s *Scene) InjectScroll(y float64) {
	s.injectQueue = append(s.injectQueue, Sample{Kind: SignalScroll, Value: Vec2{Y: y}})
}

// InjectPointer queues a pointer move to viewport coordinates (x, y).
func (s *Scene) InjectPointer(x, y float64) {
	s.injectQueue = append(s.injectQueue, Sample{Kind: SignalPointer, Value: Vec2{x, y}})
}

// InjectPress queues a primary-button press at (x, y).
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, Sample{Kind: SignalPress, Value: Vec2{x, y}, Pressed: true})
}

// InjectRelease queues a primary-button release at (x, y).
func (s *Scene) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, Sample{Kind: SignalPress, Value: Vec2{x, y}})
}

// InjectRoute queues a location change.
func (s *Scene) InjectRoute(path string) {
	s.injectQueue = append(s.injectQueue, Sample{Kind: SignalPath, Path: path})
}

// InjectViewport queues a viewport resize.
func (s *Scene) InjectViewport(w, h float64) {
	s.injectQueue = append(s.injectQueue, Sample{Kind: SignalViewport, Value: Vec2{w, h}})
}

// InjectScrollTo queues a linear scroll from one offset to another spread
// over frames frames (minimum 2: the start and the end).
func (s *Scene) InjectScrollTo(from, to float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectScroll(from)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectScroll(from + (to-from)*t)
	}
	s.InjectScroll(to)
}

// Pending returns how many injected samples are still queued.
func (s *Scene) Pending() int {
	return len(s.injectQueue)
}

// processInjected pops one queued sample into the sampler. Returns true if
// one was consumed.
func (s *Scene) processInjected() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	smp := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	s.sampler.Write(smp)
	return true
}
