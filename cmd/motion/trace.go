package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phanxgames/motion"
	"github.com/phanxgames/motion/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// traceFrame is the YAML form of a captured render state.
type traceFrame struct {
	Label     string                        `yaml:"label"`
	Frame     int                           `yaml:"frame"`
	Time      float64                       `yaml:"time"`
	Scroll    float64                       `yaml:"scroll"`
	Path      string                        `yaml:"path,omitempty"`
	Progress  map[string]float64            `yaml:"progress,omitempty"`
	Values    map[string]float64            `yaml:"values,omitempty"`
	Flags     map[string]bool               `yaml:"flags,omitempty"`
	Followers map[string][2]float64         `yaml:"followers,omitempty"`
	Loops     map[string]float64            `yaml:"loops,omitempty"`
	Field     *traceField                   `yaml:"field,omitempty"`
	Bodies    map[string][2]float64         `yaml:"bodies,omitempty"`
	Styles    map[string]map[string]float64 `yaml:"styles,omitempty"`
	Indicator *traceIndicator               `yaml:"indicator,omitempty"`
	Static    bool                          `yaml:"static,omitempty"`
}

type traceField struct {
	RotationX float64 `yaml:"rotationX"`
	RotationY float64 `yaml:"rotationY"`
	Opacity   float64 `yaml:"opacity"`
	Points    int     `yaml:"points"`
}

type traceIndicator struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type traceOptions struct {
	Frames   int
	TPS      int
	Viewport motion.Vec2
}

func newTraceCmd() *cobra.Command {
	var (
		profilePath string
		scriptPath  string
		opts        traceOptions
	)
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Drive a profile headlessly and print render state as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.Load(profilePath)
			if err != nil {
				return err
			}
			var script []byte
			if scriptPath != "" {
				if script, err = os.ReadFile(scriptPath); err != nil {
					return fmt.Errorf("read script: %w", err)
				}
			}
			if opts.TPS <= 0 {
				opts.TPS = p.TPS
			}
			return trace(p, script, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Profile YAML (required)")
	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "Signal script JSON")
	cmd.Flags().IntVar(&opts.Frames, "frames", 600, "Maximum frames to simulate")
	cmd.Flags().IntVar(&opts.TPS, "tps", 0, "Simulated tick rate (default: profile tps or 60)")
	cmd.Flags().Float64Var(&opts.Viewport.X, "width", 1280, "Viewport width")
	cmd.Flags().Float64Var(&opts.Viewport.Y, "height", 720, "Viewport height")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

// trace builds the scene, runs it for up to opts.Frames frames and writes
// the script's snapshots, or the final frame when there is no script.
func trace(p *profile.Profile, script []byte, opts traceOptions, w io.Writer) error {
	if opts.TPS <= 0 {
		opts.TPS = 60
	}
	if opts.Viewport.X <= 0 || opts.Viewport.Y <= 0 {
		opts.Viewport = motion.Vec2{X: 1280, Y: 720}
	}
	if opts.Frames <= 0 {
		return errors.New("trace: frames must be positive")
	}
	l := logger
	if l == nil {
		l = zap.NewNop()
	}
	scene, err := profile.Build(p, motion.WithLogger(l))
	if err != nil {
		return err
	}
	var sc *motion.Script
	if script != nil {
		if sc, err = motion.LoadScript(script); err != nil {
			return err
		}
		scene.SetScript(sc)
	}

	scene.Sampler().WriteViewport(opts.Viewport)
	scene.Mount()
	defer scene.Unmount()

	dt := 1 / float64(opts.TPS)
	frames := 0
	for frames < opts.Frames {
		scene.Update(dt)
		frames++
		if sc != nil && sc.Done() {
			break
		}
	}

	var out []traceFrame
	if sc == nil {
		out = append(out, toTraceFrame("final", scene.State()))
	} else {
		if !sc.Done() {
			l.Warn("script did not finish", zap.Int("frames", frames))
		}
		for _, err := range sc.Errors() {
			l.Warn("script step failed", zap.Error(err))
		}
		for _, snap := range sc.Snapshots() {
			out = append(out, toTraceFrame(snap.Label, &snap.State))
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	return enc.Close()
}

func toTraceFrame(label string, st *motion.RenderState) traceFrame {
	f := traceFrame{
		Label:    label,
		Frame:    st.Frame,
		Time:     st.Time,
		Scroll:   st.Signals.Scroll,
		Path:     st.Signals.Path,
		Progress: st.Progress,
		Values:   st.Values,
		Flags:    st.Flags,
		Loops:    st.Loops,
		Static:   st.Static,
	}
	if len(st.Followers) > 0 {
		f.Followers = make(map[string][2]float64, len(st.Followers))
		for name, v := range st.Followers {
			f.Followers[name] = [2]float64{v.X, v.Y}
		}
	}
	if st.HasField {
		f.Field = &traceField{
			RotationX: st.Field.RotationX,
			RotationY: st.Field.RotationY,
			Opacity:   st.Field.Opacity,
			Points:    len(st.Points),
		}
	}
	if len(st.Bodies) > 0 {
		f.Bodies = make(map[string][2]float64, len(st.Bodies))
		for _, b := range st.Bodies {
			f.Bodies[b.Name] = [2]float64{b.Transform.RotationX, b.Transform.RotationY}
		}
	}
	if len(st.Styles) > 0 {
		f.Styles = make(map[string]map[string]float64, len(st.Styles))
		for name, style := range st.Styles {
			m := make(map[string]float64, len(style))
			for p, v := range style {
				m[string(p)] = v
			}
			f.Styles[name] = m
		}
	}
	if st.Indicator.Visible {
		g := st.Indicator
		f.Indicator = &traceIndicator{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
	}
	return f
}
