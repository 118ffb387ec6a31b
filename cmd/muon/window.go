package main

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// Event is one message from a WindowSurface's event stream, per §6's
// window collaborator contract.
type Event interface{ isEvent() }

type (
	CloseEvent        struct{}
	ResizeEvent        struct{ Width, Height int }
	KeyEvent            struct {
		Key    glfw.Key
		Action glfw.Action
		Mods   glfw.ModifierKey
	}
	MouseButtonEvent struct {
		Button glfw.MouseButton
		Action glfw.Action
		Mods   glfw.ModifierKey
	}
	CursorPosEvent   struct{ X, Y float64 }
	CursorEnterEvent struct{ Entered bool }
	ScrollEvent      struct{ XOffset, YOffset float64 }
	FileDropEvent    struct{ Paths []string }
)

func (CloseEvent) isEvent()        {}
func (ResizeEvent) isEvent()       {}
func (KeyEvent) isEvent()          {}
func (MouseButtonEvent) isEvent()  {}
func (CursorPosEvent) isEvent()    {}
func (CursorEnterEvent) isEvent()  {}
func (ScrollEvent) isEvent()       {}
func (FileDropEvent) isEvent()     {}

// WindowSurface implements internal/device.SurfaceProvider over a
// glfw.Window, grounded on the teacher's display.go (CoreDisplay,
// GetVulkanSurface) and test/render_test.go's window-creation
// sequence (glfw.Init, window hints, CreateWindow).
type WindowSurface struct {
	window *glfw.Window
	events chan Event
	log    *slog.Logger
}

// NewWindowSurface initializes GLFW, hints a no-API window (Vulkan
// owns rendering), creates the window, and wires every callback named
// in §6's event stream onto a buffered channel.
func NewWindowSurface(width, height int, title string, log *slog.Logger) (*WindowSurface, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("window: glfw.Init: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window: glfw.CreateWindow: %w", err)
	}

	ws := &WindowSurface{window: window, events: make(chan Event, 64), log: log}
	ws.installCallbacks()
	return ws, nil
}

func (ws *WindowSurface) installCallbacks() {
	ws.window.SetCloseCallback(func(*glfw.Window) {
		ws.send(CloseEvent{})
	})
	ws.window.SetSizeCallback(func(_ *glfw.Window, w, h int) {
		ws.send(ResizeEvent{Width: w, Height: h})
	})
	ws.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		ws.send(KeyEvent{Key: key, Action: action, Mods: mods})
	})
	ws.window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		ws.send(MouseButtonEvent{Button: button, Action: action, Mods: mods})
	})
	ws.window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		ws.send(CursorPosEvent{X: x, Y: y})
	})
	ws.window.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		ws.send(CursorEnterEvent{Entered: entered})
	})
	ws.window.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		ws.send(ScrollEvent{XOffset: xoff, YOffset: yoff})
	})
	ws.window.SetDropCallback(func(_ *glfw.Window, paths []string) {
		ws.send(FileDropEvent{Paths: paths})
	})
}

// send is non-blocking: a full event channel drops the event rather
// than stalling the GLFW callback thread.
func (ws *WindowSurface) send(e Event) {
	select {
	case ws.events <- e:
	default:
		ws.log.Warn("window: event channel full, dropping event")
	}
}

// Events returns the window's event stream.
func (ws *WindowSurface) Events() <-chan Event { return ws.events }

// ShouldClose reports whether the window has received a close request.
func (ws *WindowSurface) ShouldClose() bool { return ws.window.ShouldClose() }

// PollEvents pumps the GLFW event loop, delivering queued callbacks.
func (ws *WindowSurface) PollEvents() { glfw.PollEvents() }

// RequiredInstanceExtensions implements device.SurfaceProvider.
func (ws *WindowSurface) RequiredInstanceExtensions() []string {
	return ws.window.GetRequiredInstanceExtensions()
}

// CreateSurface implements device.SurfaceProvider.
func (ws *WindowSurface) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	surfacePtr, err := ws.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return nil, fmt.Errorf("window: CreateWindowSurface: %w", err)
	}
	return vk.SurfaceFromPointer(surfacePtr), nil
}

// Extent implements device.SurfaceProvider.
func (ws *WindowSurface) Extent() (width, height uint32) {
	w, h := ws.window.GetFramebufferSize()
	return uint32(w), uint32(h)
}

// Destroy destroys the window and terminates GLFW.
func (ws *WindowSurface) Destroy() {
	ws.window.Destroy()
	glfw.Terminate()
}
