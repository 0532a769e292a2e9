package chip8

import (
	"math/rand"
	"time"
)

// State is the execution state of the machine.
type State int

const (
	// Running fetches and executes an instruction on every Step.
	Running State = iota
	// WaitingForKey suspends execution until a key is pressed.
	WaitingForKey
	// Halted is entered after a fatal error.
	Halted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case WaitingForKey:
		return "waiting for key"
	case Halted:
		return "halted"
	}
	return "unknown"
}

// Quirks select behaviour that differs between historical interpreters.
// The zero value follows the common modern interpretation.
type Quirks struct {
	// ShiftUsesVY copies VY into VX before 8XY6 and 8XYE shift it.
	ShiftUsesVY bool
	// LogicResetsVF clears VF after 8XY1, 8XY2 and 8XY3.
	LogicResetsVF bool
	// LoadStoreIncrementsI leaves I pointing past the last register
	// transferred by FX55 and FX65.
	LoadStoreIncrementsI bool
	// DisplayWait limits DXYN to one draw per timer tick.
	DisplayWait bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithRandom sets the byte source used by CXNN.
func WithRandom(random func() byte) Option {
	return func(m *Machine) {
		m.random = random
	}
}

// WithQuirks enables interpreter quirks.
func WithQuirks(q Quirks) Option {
	return func(m *Machine) {
		m.quirks = q
	}
}

// Machine is a CHIP-8 virtual machine. It owns its memory, registers and
// display exclusively and provides no synchronisation.
type Machine struct {
	mem     *Memory
	reg     Registers
	display Display

	state   State
	waitReg byte  // register receiving the key while WaitingForKey
	err     error // error that halted the machine
	vblank  bool  // a timer tick happened since the last draw

	rom    []byte
	quirks Quirks
	random func() byte
}

// New creates a machine with zeroed state, the font loaded and the program
// counter at ProgramStart.
func New(opts ...Option) *Machine {
	m := &Machine{}
	for _, opt := range opts {
		opt(m)
	}
	if m.random == nil {
		r := rand.New(rand.NewSource(time.Now().UnixNano()))
		m.random = func() byte {
			return byte(r.Intn(256))
		}
	}
	m.init()
	return m
}

func (m *Machine) init() {
	m.mem = newMemory()
	m.reg = Registers{PC: ProgramStart}
	m.display.Clear()
	m.state = Running
	m.waitReg = 0
	m.err = nil
	m.vblank = false
}

// Load copies rom into memory at ProgramStart. If the ROM is too large the
// machine is left unchanged.
func (m *Machine) Load(rom []byte) error {
	if err := m.mem.Load(rom); err != nil {
		return err
	}
	m.rom = append(m.rom[:0], rom...)
	return nil
}

// Reset returns the machine to its initial state and reloads the last ROM
// passed to Load.
func (m *Machine) Reset() {
	m.init()
	// the ROM fitted when it was first loaded
	_ = m.mem.Load(m.rom)
}

// Step runs one cycle. While waiting for a key it only polls the keypad.
// Once a step fails the machine is halted and every further step returns
// the same error.
func (m *Machine) Step() error {
	switch m.state {
	case Halted:
		return m.err

	case WaitingForKey:
		if key, ok := m.reg.pressedKey(); ok {
			m.reg.V[m.waitReg] = key
			m.state = Running
		}
		return nil
	}

	pc := m.reg.PC
	word, err := m.mem.readWord(int(pc))
	if err != nil {
		return m.halt(err)
	}
	in := Decode(word)

	if in.Op == OpDrw && m.quirks.DisplayWait && !m.vblank {
		return nil
	}

	// increment the PC as a default case; may be modified later
	m.reg.PC = pc + 2

	if err := m.execute(pc, in); err != nil {
		m.reg.PC = pc
		return m.halt(err)
	}
	return nil
}

func (m *Machine) halt(err error) error {
	m.state = Halted
	m.err = err
	return err
}

// TickTimers advances the 60Hz timer clock by one tick, decrementing the
// delay and sound timers down to zero. Timers keep running while the
// machine waits for a key.
func (m *Machine) TickTimers() {
	m.reg.tickTimers()
	m.vblank = true
}

// SetKey updates the pressed state of keypad key 0x0-0xF. Other values are
// ignored.
func (m *Machine) SetKey(key byte, pressed bool) {
	if int(key) < KeyCount {
		m.reg.Keys[key] = pressed
	}
}

// Display returns the frame buffer. Callers must not hold on to it across
// steps if they need a stable image; copy it instead.
func (m *Machine) Display() *Display {
	return &m.display
}

// Registers returns the register file.
func (m *Machine) Registers() *Registers {
	return &m.reg
}

// Memory returns the address space.
func (m *Machine) Memory() *Memory {
	return m.mem
}

// SoundTimer returns the sound timer. A nonzero value means the tone is on.
func (m *Machine) SoundTimer() byte {
	return m.reg.ST
}

// DelayTimer returns the delay timer.
func (m *Machine) DelayTimer() byte {
	return m.reg.DT
}

// State returns the execution state.
func (m *Machine) State() State {
	return m.state
}

// Err returns the error that halted the machine, or nil.
func (m *Machine) Err() error {
	return m.err
}

// Next decodes the instruction at the program counter without executing it.
func (m *Machine) Next() (Instruction, error) {
	word, err := m.mem.readWord(int(m.reg.PC))
	if err != nil {
		return Instruction{}, err
	}
	return Decode(word), nil
}
