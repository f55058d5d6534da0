package motion

import (
	"reflect"
	"testing"
)

func TestTeardownReverseOrder(t *testing.T) {
	var td Teardown
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		td.Defer(func() { order = append(order, i) })
	}
	if td.Pending() != 3 {
		t.Fatalf("Pending = %d, want 3", td.Pending())
	}
	td.Release()
	td.Release()
	if !reflect.DeepEqual(order, []int{2, 1, 0}) {
		t.Errorf("order = %v, want [2 1 0]", order)
	}
	if td.Pending() != 0 {
		t.Errorf("Pending after Release = %d", td.Pending())
	}
}

func TestTeardownDeferAfterRelease(t *testing.T) {
	var td Teardown
	td.Release()
	ran := false
	td.Defer(func() { ran = true })
	if !ran {
		t.Error("Defer after Release did not run immediately")
	}

	td.Reset()
	ran = false
	td.Defer(func() { ran = true })
	if ran || td.Pending() != 1 {
		t.Errorf("after Reset: ran=%v pending=%d", ran, td.Pending())
	}
	td.Release()
	if !ran {
		t.Error("deferred fn did not run on second Release")
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	var reg handlerRegistry
	var calls []string
	a := reg.addFrame(func(Frame) { calls = append(calls, "a") })
	reg.addFrame(func(Frame) { calls = append(calls, "b") })

	reg.fire(Frame{})
	a.Remove()
	a.Remove()
	reg.fire(Frame{})

	if !reflect.DeepEqual(calls, []string{"a", "b", "b"}) {
		t.Errorf("calls = %v", calls)
	}

	// The zero handle is inert.
	CallbackHandle{}.Remove()
}
