package motion

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestKeyframesAt(t *testing.T) {
	bob := []float64{0, 15, 0}
	tests := []struct {
		name    string
		k       Keyframes
		elapsed float64
		want    float64
	}{
		{"start", Keyframes{Values: bob, Duration: 2}, 0, 0},
		{"middle", Keyframes{Values: bob, Duration: 2}, 1, 15},
		{"quarter", Keyframes{Values: bob, Duration: 2}, 0.5, 7.5},
		{"none holds end", Keyframes{Values: []float64{0, 10}, Duration: 1}, 5, 10},
		{"loop wraps", Keyframes{Values: []float64{0, 10}, Duration: 1, Repeat: RepeatLoop}, 2.25, 2.5},
		{"reverse second pass", Keyframes{Values: []float64{0, 10}, Duration: 1, Repeat: RepeatReverse}, 1.25, 7.5},
		{"reverse third pass", Keyframes{Values: []float64{0, 10}, Duration: 1, Repeat: RepeatReverse}, 2.25, 2.5},
		{"single value", Keyframes{Values: []float64{4}, Duration: 1}, 3, 4},
		{"empty", Keyframes{Duration: 1}, 3, 0},
		{"zero duration", Keyframes{Values: []float64{1, 2, 3}}, 0.5, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.k.At(tt.elapsed); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("At(%v) = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestKeyframesEase(t *testing.T) {
	k := Keyframes{Values: []float64{0, 1}, Duration: 1, Ease: ease.InQuad}
	if got := k.At(0.5); math.Abs(got-0.25) > 1e-6 {
		t.Errorf("InQuad midpoint = %v, want 0.25", got)
	}
	// Pure in elapsed.
	if k.At(0.3) != k.At(0.3) {
		t.Error("At is not deterministic")
	}
}

func TestBackdropBlobsFixed(t *testing.T) {
	b := NewBackdrop(BackdropConfig{Count: 12, Seed: 9})
	if len(b.Blobs()) != 12 {
		t.Fatalf("got %d blobs, want 12", len(b.Blobs()))
	}
	before := append([]Blob(nil), b.Blobs()...)

	var offs []Vec2
	for i := 0; i < 200; i++ {
		offs = b.Offsets(float64(i)*0.37, offs)
	}
	for i, blob := range b.Blobs() {
		if blob != before[i] {
			t.Fatalf("blob %d changed over time", i)
		}
		if blob.Origin.X < 0 || blob.Origin.X > 1 || blob.Origin.Y < 0 || blob.Origin.Y > 1 {
			t.Errorf("blob %d origin %+v outside viewport fraction", i, blob.Origin)
		}
		if blob.Size < 100 || blob.Size > 400 || blob.Period < 10 || blob.Period > 30 {
			t.Errorf("blob %d size/period out of default range: %+v", i, blob)
		}
	}
}

func TestBackdropOffsetsWithinDrift(t *testing.T) {
	b := NewBackdrop(BackdropConfig{Count: 8, Seed: 3})
	var offs []Vec2
	for step := 0; step < 400; step++ {
		offs = b.Offsets(float64(step)*0.25, offs)
		if len(offs) != 8 {
			t.Fatalf("got %d offsets, want 8", len(offs))
		}
		for i, o := range offs {
			d := b.Blobs()[i].Drift
			if math.Abs(o.X) > math.Abs(d.X)+1e-4 || math.Abs(o.Y) > math.Abs(d.Y)+1e-4 {
				t.Fatalf("blob %d offset %+v exceeds drift %+v", i, o, d)
			}
		}
	}
	offs = b.Offsets(0, offs)
	for i, o := range offs {
		if o != (Vec2{}) {
			t.Errorf("blob %d not at rest at t=0: %+v", i, o)
		}
	}
}
