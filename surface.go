package motion

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// FieldSurface draws the backdrop blobs, the projected particle field and
// any decorative bodies.
type FieldSurface struct {
	// Background fills the target before anything else.
	Background Color
	// BlobColor tints every backdrop blob. Its alpha is the blob opacity.
	BlobColor Color
	// OffsetValue names a RenderState value used as a vertical offset for
	// the particle field, for scroll parallax. Empty disables it.
	OffsetValue string
}

// Render implements Surface.
func (fs *FieldSurface) Render(dst *ebiten.Image, st *RenderState) error {
	if dst == nil || dst.Bounds().Empty() {
		return ErrSurfaceLost
	}
	dst.Fill(fs.Background.RGBA(1))

	for _, b := range st.Blobs {
		vector.DrawFilledCircle(dst, float32(b.Center.X), float32(b.Center.Y), float32(b.Radius),
			fs.BlobColor.RGBA(1), true)
	}

	if st.HasField {
		var dy float64
		if fs.OffsetValue != "" {
			dy = st.Values[fs.OffsetValue]
		}
		for _, p := range st.Points {
			vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y+dy), float32(p.Radius),
				p.Color.RGBA(st.Field.Opacity), true)
		}
	}

	for _, b := range st.Bodies {
		for _, p := range b.Points {
			vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), float32(p.Radius),
				p.Color.RGBA(1), true)
		}
	}
	return nil
}
