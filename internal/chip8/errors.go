package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrRomTooLarge is returned by Load when the ROM does not fit above ProgramStart.
	ErrRomTooLarge = errors.New("rom too large")
	// ErrMemoryFault is matched by every MemoryFaultError.
	ErrMemoryFault = errors.New("memory fault")
	// ErrStackOverflow is returned when a call is made with a full call stack.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a return is made with an empty call stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrUnknownOpcode is matched by every UnknownOpcodeError.
	ErrUnknownOpcode = errors.New("unknown opcode")
)

// MemoryFaultError reports an access outside of the 4KB address space.
type MemoryFaultError struct {
	Addr int
}

func (e *MemoryFaultError) Error() string {
	return fmt.Sprintf("memory fault at 0x%04X", e.Addr)
}

// Is makes errors.Is(err, ErrMemoryFault) match.
func (e *MemoryFaultError) Is(target error) bool {
	return target == ErrMemoryFault
}

// UnknownOpcodeError carries the instruction word that failed to decode and
// the address it was fetched from.
type UnknownOpcodeError struct {
	Word uint16
	PC   uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%04X at 0x%03X", e.Word, e.PC)
}

// Is makes errors.Is(err, ErrUnknownOpcode) match.
func (e *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}
