// Package config handles the emulator configuration and logger setup.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"octoc8/internal/chip8"
)

// Frontends that can present the machine.
const (
	FrontendWindow   = "window"
	FrontendTerm     = "term"
	FrontendHeadless = "headless"
)

// Defaults.
const (
	DefaultCPUFrequency = 600
	DefaultScale        = 20
	DefaultCycles       = 1000
)

// ErrUsage is returned by Parse when the arguments are invalid.
var ErrUsage = errors.New("invalid usage")

// Config contains all settings of an emulator run.
type Config struct {
	ROM          string // path of the ROM file
	CPUFrequency int    // instructions per second
	Frontend     string // window, term or headless
	Scale        int    // window pixels per display pixel
	Cycles       int    // instructions to run in headless mode
	Seed         int64  // random seed, 0 picks one from the clock
	Mute         bool

	Quirks chip8.Quirks

	Debug bool
	Quiet bool
	Trace bool // log every executed instruction at debug level
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		CPUFrequency: DefaultCPUFrequency,
		Frontend:     FrontendWindow,
		Scale:        DefaultScale,
		Cycles:       DefaultCycles,
	}
}

// Parse reads command line arguments, excluding the program name. The ROM
// may be passed with -rom or as the only positional argument. Usage text is
// written to output when parsing fails.
func Parse(args []string, output io.Writer) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("octoc8", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.ROM, "rom", "", "ROM file to run")
	fs.IntVar(&cfg.CPUFrequency, "hz", cfg.CPUFrequency, "instructions executed per second")
	fs.StringVar(&cfg.Frontend, "frontend", cfg.Frontend, "frontend: window, term or headless")
	fs.IntVar(&cfg.Scale, "scale", cfg.Scale, "window pixels per display pixel")
	fs.IntVar(&cfg.Cycles, "cycles", cfg.Cycles, "instructions to run in headless mode")
	fs.Int64Var(&cfg.Seed, "seed", 0, "random seed (default: time based)")
	fs.BoolVar(&cfg.Mute, "mute", false, "disable the sound timer tone")
	fs.BoolVar(&cfg.Quirks.ShiftUsesVY, "quirk-shift", false, "8XY6/8XYE shift VY into VX")
	fs.BoolVar(&cfg.Quirks.LogicResetsVF, "quirk-logic", false, "8XY1/8XY2/8XY3 reset VF")
	fs.BoolVar(&cfg.Quirks.LoadStoreIncrementsI, "quirk-memory", false, "FX55/FX65 increment I")
	fs.BoolVar(&cfg.Quirks.DisplayWait, "quirk-vblank", false, "DXYN waits for the next timer tick")
	fs.BoolVar(&cfg.Debug, "debug", false, "enable debug logging")
	fs.BoolVar(&cfg.Quiet, "q", false, "quiet mode")
	fs.BoolVar(&cfg.Trace, "trace", false, "log every executed instruction (implies -debug)")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return cfg, err
		}
		return cfg, errors.Wrap(ErrUsage, err.Error())
	}

	switch fs.NArg() {
	case 0:
	case 1:
		if cfg.ROM != "" {
			return cfg, errors.Wrap(ErrUsage, "ROM given both as flag and argument")
		}
		cfg.ROM = fs.Arg(0)
	default:
		return cfg, errors.Wrapf(ErrUsage, "unexpected arguments: %s", strings.Join(fs.Args()[1:], " "))
	}

	if cfg.Trace {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	if c.ROM == "" {
		return errors.Wrap(ErrUsage, "no ROM file given")
	}
	switch c.Frontend {
	case FrontendWindow, FrontendTerm, FrontendHeadless:
	default:
		return errors.Wrapf(ErrUsage, "unsupported frontend '%s'", c.Frontend)
	}
	if c.CPUFrequency <= 0 {
		return errors.Wrapf(ErrUsage, "invalid cpu frequency %d", c.CPUFrequency)
	}
	if c.Scale <= 0 {
		return errors.Wrapf(ErrUsage, "invalid scale %d", c.Scale)
	}
	if c.Frontend == FrontendHeadless && c.Cycles <= 0 {
		return errors.Wrapf(ErrUsage, "invalid cycle count %d", c.Cycles)
	}
	return nil
}

// QuirkNames lists the enabled quirks for logging.
func (c Config) QuirkNames() string {
	var names []string
	if c.Quirks.ShiftUsesVY {
		names = append(names, "shift")
	}
	if c.Quirks.LogicResetsVF {
		names = append(names, "logic")
	}
	if c.Quirks.LoadStoreIncrementsI {
		names = append(names, "memory")
	}
	if c.Quirks.DisplayWait {
		names = append(names, "vblank")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// CreateLogger creates a logger with appropriate settings.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// Summary describes the configuration in one line.
func (c Config) Summary() string {
	return fmt.Sprintf("%s @ %dHz, frontend %s, quirks %s", c.ROM, c.CPUFrequency, c.Frontend, c.QuirkNames())
}
