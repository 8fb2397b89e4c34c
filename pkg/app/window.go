package app

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/ReinierMaas/PathTracer/pkg/renderer"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// cameraKeys maps the windowing layer's keycodes to camera-control keys
var cameraKeys = map[glfw.Key]renderer.Key{
	glfw.KeyA:     renderer.KeyA,
	glfw.KeyD:     renderer.KeyD,
	glfw.KeyW:     renderer.KeyW,
	glfw.KeyS:     renderer.KeyS,
	glfw.KeyR:     renderer.KeyR,
	glfw.KeyF:     renderer.KeyF,
	glfw.KeyQ:     renderer.KeyQ,
	glfw.KeyE:     renderer.KeyE,
	glfw.KeyUp:    renderer.KeyUp,
	glfw.KeyDown:  renderer.KeyDown,
	glfw.KeyLeft:  renderer.KeyLeft,
	glfw.KeyRight: renderer.KeyRight,
}

// Window wraps the GLFW window and per-frame input polling
type Window struct {
	handle *glfw.Window
	width  int
	height int

	previous map[glfw.Key]bool
}

// NewWindow opens a window with a 4.1 core GL context
func NewWindow(width, height int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	handle, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	glfw.SwapInterval(1)

	return &Window{
		handle:   handle,
		width:    width,
		height:   height,
		previous: make(map[glfw.Key]bool),
	}, nil
}

// ShouldClose reports whether the user asked to quit
func (w *Window) ShouldClose() bool {
	return w.handle.ShouldClose()
}

// PollEvents pumps the event queue. Escape requests window close.
func (w *Window) PollEvents() {
	glfw.PollEvents()
	if w.handle.GetKey(glfw.KeyEscape) == glfw.Press {
		w.handle.SetShouldClose(true)
	}
}

// PressedKeys returns the camera-control keys currently held down
func (w *Window) PressedKeys() renderer.KeySet {
	keys := make(renderer.KeySet)
	for keycode, key := range cameraKeys {
		if w.handle.GetKey(keycode) == glfw.Press {
			keys[key] = true
		}
	}
	return keys
}

// JustPressed reports a press edge for a key since the previous call
func (w *Window) JustPressed(keycode glfw.Key) bool {
	down := w.handle.GetKey(keycode) == glfw.Press
	pressed := down && !w.previous[keycode]
	w.previous[keycode] = down
	return pressed
}

// SwapBuffers presents the rendered frame
func (w *Window) SwapBuffers() {
	w.handle.SwapBuffers()
}

// Destroy closes the window and shuts GLFW down
func (w *Window) Destroy() {
	w.handle.Destroy()
	glfw.Terminate()
}
