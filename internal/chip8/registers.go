package chip8

const (
	// StackDepth is the maximum number of nested calls.
	StackDepth = 16
	// KeyCount is the number of keys on the keypad.
	KeyCount = 16
	// FlagRegister is the index of VF, which also carries carry, borrow and
	// collision results.
	FlagRegister = 0xF
)

// Registers is the register file of the machine.
type Registers struct {
	V  [16]byte // general purpose registers V0-VF
	I  uint16   // index register
	PC uint16   // program counter
	SP uint8    // number of entries on the call stack

	Stack [StackDepth]uint16 // return addresses

	DT byte // delay timer
	ST byte // sound timer

	Keys [KeyCount]bool // keypad state, written by the host
}

func (r *Registers) push(addr uint16) error {
	if int(r.SP) >= StackDepth {
		return ErrStackOverflow
	}
	r.Stack[r.SP] = addr
	r.SP++
	return nil
}

func (r *Registers) pop() (uint16, error) {
	if r.SP == 0 {
		return 0, ErrStackUnderflow
	}
	r.SP--
	return r.Stack[r.SP], nil
}

// pressedKey returns the lowest numbered key that is held down.
func (r *Registers) pressedKey() (byte, bool) {
	for k, down := range r.Keys {
		if down {
			return byte(k), true
		}
	}
	return 0, false
}

// tickTimers decrements both timers, stopping at zero.
func (r *Registers) tickTimers() {
	if r.DT > 0 {
		r.DT--
	}
	if r.ST > 0 {
		r.ST--
	}
}
