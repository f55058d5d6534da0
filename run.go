package motion

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// TPS is the update rate. Default 60.
	TPS int
	// ScrollLimit is the furthest the wheel can scroll, in pixels.
	ScrollLimit float64
	// ScrollStep is the pixels scrolled per wheel notch. Default 40.
	ScrollStep float64
	// ShowFPS overlays the current FPS and TPS.
	ShowFPS bool
}

// game adapts a Scene to ebiten.Game, polling host input into the sampler.
type game struct {
	scene  *Scene
	cfg    RunConfig
	scroll float64
}

// Update polls input, then advances the scene by one tick.
func (g *game) Update() error {
	smp := g.scene.sampler
	mx, my := ebiten.CursorPosition()
	smp.WritePointer(Vec2{float64(mx), float64(my)})
	smp.WritePressed(ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.scroll -= wy * g.cfg.ScrollStep
		if g.scroll < 0 {
			g.scroll = 0
		}
		if g.cfg.ScrollLimit > 0 && g.scroll > g.cfg.ScrollLimit {
			g.scroll = g.cfg.ScrollLimit
		}
		smp.WriteScroll(g.scroll)
	}

	g.scene.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw renders the scene and the optional FPS overlay.
func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// Layout reports the outside size as the viewport.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scene.sampler.WriteViewport(Vec2{float64(outsideWidth), float64(outsideHeight)})
	return outsideWidth, outsideHeight
}

// Run mounts scene, opens a window and drives the scene until the window is
// closed. The scene is unmounted on return.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	if cfg.ScrollStep <= 0 {
		cfg.ScrollStep = 40
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)

	scene.sampler.WriteViewport(Vec2{float64(cfg.Width), float64(cfg.Height)})
	scene.Mount()
	defer scene.Unmount()

	if err := ebiten.RunGame(&game{scene: scene, cfg: cfg}); err != nil {
		return fmt.Errorf("run scene: %w", err)
	}
	return nil
}
