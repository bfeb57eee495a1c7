package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func key(typ uint32, code sdl.Scancode, repeat uint8) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{Type: typ, Repeat: repeat, Keysym: sdl.Keysym{Scancode: code}}
}

func TestHandleKeys(t *testing.T) {
	in := New()

	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_W, 0))
	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_W, 1))

	if !in.IsKeyPressed(sdl.SCANCODE_W) {
		t.Error("W should be pressed this frame")
	}
	if n := len(in.Events()); n != 1 {
		t.Errorf("repeat should not add events, got %d", n)
	}
	if !in.IsKeyHeld(sdl.SCANCODE_W) {
		t.Error("W should be held")
	}
	if got := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S); got != 1 {
		t.Errorf("Axis(W, S) = %v, want 1", got)
	}

	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_S, 0))
	if got := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S); got != 0 {
		t.Errorf("Axis with both held = %v, want 0", got)
	}

	in.handle(key(sdl.KEYUP, sdl.SCANCODE_W, 0))
	if in.IsKeyHeld(sdl.SCANCODE_W) {
		t.Error("W should be released")
	}
	if got := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S); got != -1 {
		t.Errorf("Axis(W, S) = %v, want -1", got)
	}
}

func TestHandleMouse(t *testing.T) {
	in := New()

	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 10, Y: 20})
	in.handle(&sdl.MouseMotionEvent{XRel: 3, YRel: -1})
	in.handle(&sdl.MouseMotionEvent{XRel: 2, YRel: 4})
	in.handle(&sdl.MouseWheelEvent{Y: 1})
	in.handle(&sdl.MouseWheelEvent{Y: 2})

	if !in.IsButtonHeld(sdl.BUTTON_LEFT) {
		t.Error("left button should be held")
	}
	if dx, dy := in.Drag(); dx != 5 || dy != 3 {
		t.Errorf("Drag() = (%v, %v), want (5, 3)", dx, dy)
	}
	if w := in.Wheel(); w != 3 {
		t.Errorf("Wheel() = %v, want 3", w)
	}

	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT})
	if in.IsButtonHeld(sdl.BUTTON_LEFT) {
		t.Error("left button should be released")
	}
}

func TestHandleQuitAndResize(t *testing.T) {
	in := New()

	if !in.handle(&sdl.QuitEvent{Type: sdl.QUIT}) {
		t.Error("quit event should report quit")
	}
	in.handle(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600})

	evs := in.Events()
	if len(evs) != 2 || evs[1].Type != EventWindowResize || evs[1].Width != 800 || evs[1].Height != 600 {
		t.Errorf("events = %+v", evs)
	}
}
