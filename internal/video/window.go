// Package video presents the machine in a desktop window using glfw and
// OpenGL, and feeds keyboard input back into the keypad.
package video

import (
	"context"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	mathp "github.com/golangplus/math"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"octoc8/internal/chip8"
	"octoc8/internal/keymap"
	"octoc8/internal/video/raster"
)

// Host is the emulator side of the window.
type Host interface {
	Frame() chip8.Display
	SetKey(key byte, pressed bool)
	Reset()
}

// Window is a glfw window showing the display. All methods must be called
// from the main thread.
type Window struct {
	logger *log.Logger
	host   Host
	window *glfw.Window

	fboID     uint32
	textureID uint32

	fullscreen  bool
	windowState [4]int // x, y, width, height before going fullscreen
}

// Open initialises glfw and OpenGL and creates a window of
// 64*scale by 32*scale pixels.
func Open(logger *log.Logger, host Host, scale int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "initializing glfw")
	}

	window, err := glfw.CreateWindow(chip8.Width*scale, chip8.Height*scale, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "creating window")
	}

	w := &Window{
		logger: logger,
		host:   host,
		window: window,
	}
	window.SetKeyCallback(w.keyCallback)

	window.MakeContextCurrent()
	// Enable VSync
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, errors.Wrap(err, "initializing OpenGL")
	}

	gl.GenTextures(1, &w.textureID)
	gl.GenFramebuffers(1, &w.fboID)

	logger.Debug("Window opened",
		log.Int("width", chip8.Width*scale),
		log.Int("height", chip8.Height*scale))
	return w, nil
}

// Run renders frames until the window is closed or ctx is cancelled.
func (w *Window) Run(ctx context.Context) {
	for !w.window.ShouldClose() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Stop rendering so we don't crash when minimized
		if w.window.GetAttrib(glfw.Iconified) == 0 {
			w.render()
		}
		glfw.PollEvents()
	}
}

// Close destroys the window and terminates glfw.
func (w *Window) Close() {
	gl.DeleteFramebuffers(1, &w.fboID)
	gl.DeleteTextures(1, &w.textureID)
	w.window.Destroy()
	glfw.Terminate()
}

func (w *Window) render() {
	gl.Clear(gl.COLOR_BUFFER_BIT)

	frame := w.host.Frame()
	texture := raster.RGBA(&frame)

	gl.BindTexture(gl.TEXTURE_2D, w.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, chip8.Width, chip8.Height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(texture))

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, w.fboID)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, w.textureID, 0)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0) // if not already bound

	// the default framebuffer may be larger than the window on high DPI screens
	fw, fh := w.window.GetFramebufferSize()
	vp := raster.Fit(fw, fh)
	gl.BlitFramebuffer(0, 0, chip8.Width, chip8.Height, vp.X0, vp.Y0, vp.X1, vp.Y1, gl.COLOR_BUFFER_BIT, gl.NEAREST)

	w.window.SwapBuffers()
}

func (w *Window) keyCallback(window *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	// shortcuts
	if action == glfw.Press {
		switch {
		case key == glfw.KeyEnter && mods&glfw.ModAlt != 0:
			w.setFullscreen(!w.fullscreen)
			return
		case key == glfw.KeyEscape:
			window.SetShouldClose(true)
			return
		case key == glfw.KeyF5:
			w.host.Reset()
			return
		}
	}

	// glfw key codes of digits and letters are their upper case ASCII values
	kp, ok := keymap.Lookup(rune(key))
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		w.host.SetKey(kp, true)
	case glfw.Release:
		w.host.SetKey(kp, false)
	}
}

func (w *Window) setFullscreen(set bool) {
	if set == w.fullscreen {
		return
	}

	if set {
		mon := w.windowMonitor()
		if mon == nil {
			return
		}
		w.windowState[0], w.windowState[1] = w.window.GetPos()
		w.windowState[2], w.windowState[3] = w.window.GetSize()
		mode := mon.GetVideoMode()
		w.window.SetMonitor(mon, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
		w.window.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	} else {
		w.window.SetMonitor(nil, w.windowState[0], w.windowState[1], w.windowState[2], w.windowState[3], 0)
		w.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
	w.fullscreen = set

	glfw.SwapInterval(1)
}

// windowMonitor returns the monitor the window overlaps the most.
func (w *Window) windowMonitor() *glfw.Monitor {
	var bestoverlap int
	var bestmonitor *glfw.Monitor

	wx, wy := w.window.GetPos()
	ww, wh := w.window.GetSize()

	for _, monitor := range glfw.GetMonitors() {
		mode := monitor.GetVideoMode()
		mx, my := monitor.GetPos()
		mw, mh := mode.Width, mode.Height

		overlap := mathp.MaxI(0, mathp.MinI(wx+ww, mx+mw)-mathp.MaxI(wx, mx)) *
			mathp.MaxI(0, mathp.MinI(wy+wh, my+mh)-mathp.MaxI(wy, my))

		if bestoverlap < overlap {
			bestoverlap = overlap
			bestmonitor = monitor
		}
	}

	if bestmonitor == nil {
		return glfw.GetPrimaryMonitor()
	}
	return bestmonitor
}
