package motion

import (
	"math"
	"strings"
	"testing"
)

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"bad json", `{"steps": [`, "parse signal script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "jump"}]}`, `unknown action "jump"`},
		{"state without target", `{"steps": [{"action": "state", "state": "open"}]}`, "needs a target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.json))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestScriptDrivesScene(t *testing.T) {
	sc, err := LoadScript([]byte(`{"steps": [
		{"action": "viewport", "width": 800, "height": 600},
		{"action": "scrollTo", "fromY": 0, "toY": 400, "frames": 5},
		{"action": "snapshot", "label": "scrolled"},
		{"action": "state", "target": "box", "state": "moved"},
		{"action": "wait", "frames": 40},
		{"action": "snapshot", "label": "moved"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	s := heroScene()
	s.AddElement(NewElement("box", VariantSet{
		"rest":  {Style: Style{PropX: 0}},
		"moved": {Style: Style{PropX: 100}, Transition: Transition{Duration: 0.5}},
	}, "rest"))
	s.SetScript(sc)
	s.Mount()

	for i := 0; i < 500 && !sc.Done(); i++ {
		s.Update(frame)
	}
	if !sc.Done() {
		t.Fatal("script did not finish")
	}
	if len(sc.Errors()) != 0 {
		t.Fatalf("script errors: %v", sc.Errors())
	}

	snaps := sc.Snapshots()
	if len(snaps) != 2 || snaps[0].Label != "scrolled" || snaps[1].Label != "moved" {
		t.Fatalf("snapshots = %d", len(snaps))
	}
	first := snaps[0].State
	if first.Signals.Scroll != 400 || first.Values["hero.opacity"] != 0 {
		t.Errorf("scrolled snapshot: scroll %v opacity %v", first.Signals.Scroll, first.Values["hero.opacity"])
	}
	if got := snaps[1].State.Styles["box"][PropX]; math.Abs(got-100) > 1e-3 {
		t.Errorf("box x = %v, want 100", got)
	}
	// Snapshots are copies, not views into the live state.
	if snaps[0].State.Styles["box"][PropX] != 0 {
		t.Errorf("first snapshot box x = %v, want 0", snaps[0].State.Styles["box"][PropX])
	}
}

func TestScriptUnknownTarget(t *testing.T) {
	sc, err := LoadScript([]byte(`{"steps": [{"action": "hover", "target": "ghost", "on": true}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s := NewScene()
	s.SetScript(sc)
	s.Mount()
	for i := 0; i < 5; i++ {
		s.Update(frame)
	}
	if !sc.Done() || len(sc.Errors()) != 1 {
		t.Errorf("done=%v errors=%v", sc.Done(), sc.Errors())
	}
}

func TestScriptWaitCountsFrames(t *testing.T) {
	sc, err := LoadScript([]byte(`{"steps": [{"action": "wait", "frames": 10}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s := NewScene()
	s.SetScript(sc)
	s.Mount()
	n := 0
	for !sc.Done() && n < 100 {
		s.Update(frame)
		n++
	}
	if n != 11 {
		t.Errorf("wait 10 finished after %d frames, want 11", n)
	}
}

func TestScriptPointerDrivesInteractive(t *testing.T) {
	sc, err := LoadScript([]byte(`{"steps": [
		{"action": "hover", "target": "cta", "on": true},
		{"action": "wait", "frames": 2},
		{"action": "snapshot", "label": "hover step"},
		{"action": "pointer", "x": 120, "y": 110},
		{"action": "wait", "frames": 2},
		{"action": "snapshot", "label": "pointer"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	cta := NewElement("cta", VariantSet{
		StateHover: {Style: Style{PropScale: 1.05}, Transition: Transition{Duration: 0.1}},
	}, "")
	s := NewScene()
	s.AddElement(cta)
	s.Interactive(cta, Rect{X: 100, Y: 100, Width: 50, Height: 20})
	s.SetScript(sc)
	s.Mount()

	var hovered []bool
	for i := 0; i < 50 && !sc.Done(); i++ {
		s.Update(frame)
		if n := len(sc.Snapshots()); n > len(hovered) {
			hovered = append(hovered, cta.Hovered())
		}
	}
	if !sc.Done() || len(sc.Errors()) != 0 {
		t.Fatalf("done=%v errors=%v", sc.Done(), sc.Errors())
	}
	if len(hovered) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(hovered))
	}
	// The hit test owns hover on an interactive element.
	if hovered[0] {
		t.Error("hover step survived the pointer hit test")
	}
	if !hovered[1] {
		t.Error("pointer over the hit rect did not hover")
	}
}
