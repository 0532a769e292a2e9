// Package term presents the machine inside a terminal using gocui.
package term

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"github.com/jroimartin/gocui"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"octoc8/internal/chip8"
	"octoc8/internal/keymap"
	"octoc8/internal/video/raster"
)

const (
	displayView = "display"
	helpView    = "help"

	refreshRate = time.Second / 30
)

// Host is the emulator side of the terminal.
type Host interface {
	Frame() chip8.Display
	SetKey(key byte, pressed bool)
	Reset()
}

// Terminal draws the display with block characters. Terminals only report
// key presses, so every press is held for a short time before it is
// released again.
type Terminal struct {
	logger *log.Logger
	host   Host
	g      *gocui.Gui
	keys   *holder
}

// Open takes over the terminal.
func Open(logger *log.Logger, host Host) (*Terminal, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errors.Wrap(err, "creating terminal ui")
	}

	t := &Terminal{
		logger: logger,
		host:   host,
		g:      g,
		keys:   newHolder(host.SetKey, holdTime, afterFunc),
	}
	g.SetManagerFunc(layout)

	if err := t.bindKeys(); err != nil {
		g.Close()
		return nil, err
	}
	return t, nil
}

func (t *Terminal) bindKeys() error {
	if err := t.g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		return errors.Wrap(err, "binding quit key")
	}
	if err := t.g.SetKeybinding("", gocui.KeyCtrlR, gocui.ModNone, t.reset); err != nil {
		return errors.Wrap(err, "binding reset key")
	}

	for _, r := range keymap.Keys() {
		k, _ := keymap.Lookup(r)
		handler := t.press(k)
		for _, variant := range []rune{unicode.ToLower(r), unicode.ToUpper(r)} {
			if err := t.g.SetKeybinding("", variant, gocui.ModNone, handler); err != nil {
				return errors.Wrapf(err, "binding key '%c'", variant)
			}
			if unicode.IsDigit(r) {
				break
			}
		}
	}
	return nil
}

// Run draws frames until Ctrl+C is pressed or ctx is cancelled.
func (t *Terminal) Run(ctx context.Context) error {
	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				t.g.Update(stop)
				return
			case <-ticker.C:
				t.g.Update(t.draw)
			}
		}
	}()

	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return errors.Wrap(err, "running terminal ui")
	}
	return nil
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.keys.releaseAll()
	t.g.Close()
}

func (t *Terminal) draw(g *gocui.Gui) error {
	v, err := g.View(displayView)
	if err != nil {
		return err
	}
	frame := t.host.Frame()
	v.Clear()
	fmt.Fprint(v, raster.Text(&frame, '█', ' '))
	return nil
}

func (t *Terminal) press(key byte) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		t.keys.press(key)
		return nil
	}
}

func (t *Terminal) reset(*gocui.Gui, *gocui.View) error {
	t.host.Reset()
	return nil
}

// gocui layout
func layout(g *gocui.Gui) error {
	if v, err := g.SetView(displayView, 0, 0, chip8.Width+1, chip8.Height+1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "OctoC8"
		v.Frame = true
	}

	if v, err := g.SetView(helpView, 0, chip8.Height+2, chip8.Width+1, chip8.Height+4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		fmt.Fprint(v, " keys 1234 qwer asdf zxcv | ^R reset | ^C quit")
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

func stop(g *gocui.Gui) error {
	return gocui.ErrQuit
}
