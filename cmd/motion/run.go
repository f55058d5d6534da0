package main

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/motion"
	"github.com/phanxgames/motion/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd() *cobra.Command {
	var (
		profilePath string
		width       int
		height      int
		scrollLimit float64
		watch       bool
		showFPS     bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and play a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.Load(profilePath)
			if err != nil {
				return err
			}
			scene, err := profile.Build(p,
				motion.WithLogger(logger),
				motion.WithSurface(&motion.FieldSurface{
					Background: motion.Color{R: 0.02, G: 0.02, B: 0.06, A: 1},
					BlobColor:  motion.Color{R: 0.4, G: 0.3, B: 0.9, A: 0.08},
				}))
			if err != nil {
				return err
			}
			scene.SetDrawFunc(drawIndicator)

			if watch {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				if _, err := profile.WatchBindings(ctx, scene, profilePath); err != nil {
					return err
				}
			}

			title := p.Name
			if title == "" {
				title = "motion"
			}
			logger.Info("running profile",
				zap.String("profile", profilePath),
				zap.Int("tps", p.TPS),
				zap.Bool("watch", watch))
			return motion.Run(scene, motion.RunConfig{
				Title:       title,
				Width:       width,
				Height:      height,
				TPS:         p.TPS,
				ScrollLimit: scrollLimit,
				ShowFPS:     showFPS,
			})
		},
	}
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Profile YAML (required)")
	cmd.Flags().IntVar(&width, "width", 1280, "Window width")
	cmd.Flags().IntVar(&height, "height", 720, "Window height")
	cmd.Flags().Float64Var(&scrollLimit, "scroll-limit", 3000, "Maximum scroll offset in pixels")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload binding curves when the profile changes")
	cmd.Flags().BoolVar(&showFPS, "fps", false, "Show FPS and TPS")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

// drawIndicator paints the shared route marker on top of the surface.
func drawIndicator(dst *ebiten.Image, st *motion.RenderState) {
	g := st.Indicator
	if !g.Visible {
		return
	}
	vector.DrawFilledRect(dst, float32(g.X), float32(g.Y), float32(g.Width), float32(g.Height),
		motion.ColorWhite.RGBA(1), true)
}
