// Package emulator hosts a chip8 machine: it drives the instruction clock
// and the 60Hz timer clock from wall clock time, gates the audio tone and
// gives frontends synchronised access to the display and keypad.
package emulator

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"octoc8/internal/chip8"
	"octoc8/internal/clock"
)

// Tone is an audio output switched by the sound timer.
type Tone interface {
	Update(soundTimer byte) error
	Close()
}

// Stats counts the work done by the emulator.
type Stats struct {
	Cycles uint64 // instruction clock ticks, including ones spent waiting for a key
	Ticks  uint64 // timer clock ticks
}

// Option configures an Emulator.
type Option func(*Emulator)

// WithTone sets the audio output. Without one the emulator is silent.
func WithTone(tone Tone) Option {
	return func(e *Emulator) {
		e.tone = tone
	}
}

// WithClock replaces the system clock.
func WithClock(src clock.Source) Option {
	return func(e *Emulator) {
		e.src = src
	}
}

// WithSleep replaces the function used to wait for the next clock tick. It
// receives the nanoseconds until a tick is due.
func WithSleep(sleep func(remaining int64)) Option {
	return func(e *Emulator) {
		e.sleep = sleep
	}
}

// WithRestart keeps Run going after the machine halts, so that Reset can
// start the ROM again.
func WithRestart(restart bool) Option {
	return func(e *Emulator) {
		e.restart = restart
	}
}

// WithTrace logs every executed instruction at debug level.
func WithTrace(trace bool) Option {
	return func(e *Emulator) {
		e.trace = trace
	}
}

// Emulator runs a machine. Its methods are safe for concurrent use; the
// machine itself must not be accessed directly while Run is active.
type Emulator struct {
	mu      sync.Mutex
	machine *chip8.Machine
	stats   Stats

	logger  *log.Logger
	hz      int
	tone    Tone
	src     clock.Source
	sleep   func(remaining int64)
	trace   bool
	restart bool

	toneFailed bool
}

// New returns an emulator running machine at hz instructions per second.
// Rates below 1 are raised to 1.
func New(logger *log.Logger, machine *chip8.Machine, hz int, opts ...Option) *Emulator {
	if hz <= 0 {
		hz = 1
	}
	e := &Emulator{
		machine: machine,
		logger:  logger,
		hz:      hz,
		tone:    silence{},
		src:     clock.System,
		sleep:   sleepBriefly,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// sleepBriefly only sleeps when more than a millisecond remains, otherwise
// it yields and lets the caller poll again.
func sleepBriefly(remaining int64) {
	if remaining >= int64(time.Millisecond) {
		time.Sleep(time.Millisecond)
		return
	}
	runtime.Gosched()
}

// Run drives the machine until ctx is cancelled or the machine halts. The
// instruction and timer clocks are paced independently, so the timers keep
// their 60Hz rate whatever the instruction rate is and while the machine
// waits for a key. Once per emulated second the work done is logged at
// debug level.
func (e *Emulator) Run(ctx context.Context) error {
	cpu := clock.NewPacer(e.src, e.hz)
	timers := clock.NewPacer(e.src, clock.TimerFrequency)

	e.logger.Debug("Emulation started",
		log.Int("hz", e.hz),
		log.Int("timer_hz", clock.TimerFrequency))
	defer e.tone.Close()

	var (
		halted     bool
		sinceStats int
		last       = e.Stats()
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ticks := timers.Due()
		if err := e.advance(ticks, cpu.Due()); err != nil {
			if !e.restart {
				return err
			}
			if !halted {
				e.logger.Info("Waiting for reset")
			}
		}
		halted = e.State() == chip8.Halted

		sinceStats += ticks
		if sinceStats >= clock.TimerFrequency {
			sinceStats -= clock.TimerFrequency
			last = e.logStats(last)
		}

		remaining := cpu.Remaining()
		if r := timers.Remaining(); r < remaining {
			remaining = r
		}
		e.sleep(remaining)
	}
}

// RunCycles executes n instructions without waiting on the wall clock,
// ticking the timers as often as they would tick in real time at the
// configured instruction rate.
func (e *Emulator) RunCycles(n int) error {
	owed := 0
	for i := 0; i < n; i++ {
		ticks := 0
		owed += clock.TimerFrequency
		for owed >= e.hz {
			owed -= e.hz
			ticks++
		}
		if err := e.advance(ticks, 1); err != nil {
			return err
		}
	}
	e.tone.Close()
	return nil
}

func (e *Emulator) advance(ticks, cycles int) error {
	e.mu.Lock()
	for i := 0; i < ticks; i++ {
		e.machine.TickTimers()
	}
	e.stats.Ticks += uint64(ticks)

	var err error
	for i := 0; i < cycles && err == nil; i++ {
		err = e.step()
	}
	soundTimer := e.machine.SoundTimer()
	e.mu.Unlock()

	e.updateTone(soundTimer)
	return err
}

// step runs one cycle, the lock must be held. A halted machine is not
// stepped again, its error is returned as is.
func (e *Emulator) step() error {
	if e.machine.State() == chip8.Halted {
		return e.machine.Err()
	}

	pc := e.machine.Registers().PC
	if e.trace && e.machine.State() == chip8.Running {
		if in, err := e.machine.Next(); err == nil {
			e.logger.Debug("Exec",
				log.String("pc", fmt.Sprintf("0x%03X", pc)),
				log.String("instruction", in.String()))
		}
	}

	e.stats.Cycles++
	if err := e.machine.Step(); err != nil {
		e.logger.Error("Machine halted", err,
			log.String("pc", fmt.Sprintf("0x%03X", pc)))
		return errors.Wrapf(err, "executing instruction at 0x%03X", pc)
	}
	return nil
}

func (e *Emulator) updateTone(soundTimer byte) {
	if e.toneFailed {
		return
	}
	if err := e.tone.Update(soundTimer); err != nil {
		e.toneFailed = true
		e.logger.Warn("Disabling sound", log.Err(err))
	}
}

// Frame returns a snapshot of the display taken between two cycles.
func (e *Emulator) Frame() chip8.Display {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.machine.Display()
}

// SetKey updates the pressed state of keypad key 0x0-0xF.
func (e *Emulator) SetKey(key byte, pressed bool) {
	e.mu.Lock()
	e.machine.SetKey(key, pressed)
	e.mu.Unlock()
}

// State returns the execution state of the machine.
func (e *Emulator) State() chip8.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.State()
}

// Reset restarts the loaded ROM.
func (e *Emulator) Reset() {
	e.mu.Lock()
	e.machine.Reset()
	e.mu.Unlock()
	e.logger.Info("Machine reset")
}

// Stats returns the work counters.
func (e *Emulator) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// logStats logs the work done since last and returns the current counters.
func (e *Emulator) logStats(last Stats) Stats {
	stats := e.Stats()
	e.logger.Debug("Emulation speed",
		log.Uint64("cycles", stats.Cycles-last.Cycles),
		log.Uint64("ticks", stats.Ticks-last.Ticks))
	return stats
}

type silence struct{}

func (silence) Update(byte) error { return nil }
func (silence) Close() {}
