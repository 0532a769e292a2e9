// Package main implements the OctoC8 CHIP-8 emulator command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"octoc8/internal/audio"
	"octoc8/internal/chip8"
	"octoc8/internal/clock"
	"octoc8/internal/config"
	"octoc8/internal/emulator"
	"octoc8/internal/term"
	"octoc8/internal/video"
)

func init() {
	// This is needed to arrange that main() runs on main thread.
	// See documentation for functions that are only allowed to be called from the main thread.
	runtime.LockOSThread()
}

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := config.CreateLogger(cfg.Debug, cfg.Quiet)
	if err := run(logger, cfg); err != nil {
		logger.Fatal(err.Error())
	}
}

func run(logger *log.Logger, cfg config.Config) error {
	rom, err := readROM(cfg.ROM)
	if err != nil {
		return err
	}

	machine := chip8.New(chip8.WithQuirks(cfg.Quirks), chip8.WithRandom(randomSource(cfg.Seed)))
	if err := machine.Load(rom); err != nil {
		return pkgerrors.Wrapf(err, "loading '%s'", cfg.ROM)
	}
	logger.Info("Loaded ROM",
		log.String("file", cfg.ROM),
		log.Int("size", len(rom)),
		log.String("setup", cfg.Summary()))

	opts := []emulator.Option{
		emulator.WithTrace(cfg.Trace),
		// interactive frontends can reset a halted ROM
		emulator.WithRestart(cfg.Frontend != config.FrontendHeadless),
	}
	if !cfg.Mute && cfg.Frontend != config.FrontendHeadless {
		beeper, err := audio.NewBeeper()
		if err != nil {
			logger.Warn("Sound disabled", log.Err(err))
		} else {
			opts = append(opts, emulator.WithTone(beeper))
		}
	}
	emu := emulator.New(logger, machine, cfg.CPUFrequency, opts...)

	switch cfg.Frontend {
	case config.FrontendHeadless:
		return runHeadless(emu, cfg)
	case config.FrontendTerm:
		return runTerminal(logger, emu)
	default:
		return runWindow(logger, emu, cfg)
	}
}

// readROM reads a ROM file, refusing files that cannot fit into memory.
func readROM(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "reading ROM")
	}
	if info.Size() > chip8.MaxRomSize {
		return nil, pkgerrors.Wrapf(chip8.ErrRomTooLarge, "'%s' has %d bytes", path, info.Size())
	}
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "reading ROM")
	}
	return rom, nil
}

func randomSource(seed int64) func() byte {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	return func() byte {
		return byte(r.Intn(256))
	}
}

func runHeadless(emu *emulator.Emulator, cfg config.Config) error {
	err := emu.RunCycles(cfg.Cycles)
	frame := emu.Frame()
	fmt.Print(frame.String())
	return err
}

// runEmulation runs the emulator in the background until ctx is cancelled
// and reports the outcome on the returned channel.
func runEmulation(ctx context.Context, cancel context.CancelFunc, emu *emulator.Emulator) <-chan error {
	done := make(chan error, 1)
	go func() {
		err := emu.Run(ctx)
		cancel()
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		done <- err
	}()
	return done
}

func runTerminal(logger *log.Logger, emu *emulator.Emulator) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	t, err := term.Open(logger, emu)
	if err != nil {
		return err
	}
	done := runEmulation(ctx, cancel, emu)

	uiErr := t.Run(ctx)
	t.Close()
	cancel()

	if err := <-done; err != nil {
		return err
	}
	return uiErr
}

func runWindow(logger *log.Logger, emu *emulator.Emulator, cfg config.Config) error {
	clock.SetResolution(1)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	w, err := video.Open(logger, emu, cfg.Scale, "OctoC8")
	if err != nil {
		return err
	}
	done := runEmulation(ctx, cancel, emu)

	// glfw needs the main thread
	w.Run(ctx)
	w.Close()
	cancel()

	return <-done
}
