// Package motion is a frame-driven reactive motion engine for [Ebitengine].
//
// Motion turns continuous inputs (scroll offset, pointer position, the frame
// clock) into render state: scroll-linked values, spring-smoothed pointer
// followers, a rotating particle field, staggered variant transitions and a
// single shared active-route marker.
//
// # Quick start
//
//	scene := motion.NewScene(motion.WithSurface(&motion.FieldSurface{}))
//	scene.AddRegion(motion.Region{Name: "hero", Height: 800})
//	scene.Bind("hero.opacity", "hero", motion.MustMapping(
//		[]float64{0, 0.5}, []float64{1, 0}))
//	scene.SetField(motion.NewField(motion.DefaultFieldConfig()))
//	motion.Run(scene, motion.RunConfig{Title: "Portfolio", Width: 1280, Height: 720})
//
// For full control, mount the scene yourself and call [Scene.Update] and
// [Scene.Draw] from your own [ebiten.Game].
//
// # Signals
//
// A [Sampler] holds the latest value of every raw input in last-write-wins
// slots. Writers may run on any goroutine; the scene takes one immutable
// [Signals] snapshot per frame.
//
// # Mapping and smoothing
//
// [Interpolate] and [Mapping] are clamped piecewise-linear functions.
// [Spring] is a second-order smoother that can be retargeted every frame.
//
// # Variants
//
// An [Element] holds named [Variant] states and animates between them with
// gween tweens or harmonica springs. Containers stagger their children and
// can wait for them to finish ([WhenAfterChildren]). Hover and tap are
// transient layers on top of the current state.
//
// # Route indicator
//
// An [Indicator] holds the one active-route token and animates the shared
// marker from the previous holder to the next.
//
// [Ebitengine]: https://ebitengine.org
package motion
