package chip8

import "fmt"

// Memory layout.
const (
	// MemorySize is the size of the addressable memory.
	MemorySize = 0x1000
	// ProgramStart is the address ROMs are loaded to and execution begins at.
	ProgramStart = 0x200
	// MaxRomSize is the largest ROM that fits above ProgramStart.
	MaxRomSize = MemorySize - ProgramStart
)

// Memory is the flat 4KB address space. The low 512 bytes are reserved for
// the interpreter and hold the font glyphs.
type Memory struct {
	data [MemorySize]byte
}

func newMemory() *Memory {
	m := &Memory{}
	copy(m.data[FontStart:], font[:])
	return m
}

// Load copies rom into memory at ProgramStart. A ROM that does not fit is
// rejected and memory is left as it was.
func (m *Memory) Load(rom []byte) error {
	if len(rom) > MaxRomSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrRomTooLarge, len(rom), MaxRomSize)
	}

	program := m.data[ProgramStart:]
	for i := range program {
		program[i] = 0
	}
	copy(program, rom)
	return nil
}

// ReadByte returns the byte at addr.
func (m *Memory) ReadByte(addr int) (byte, error) {
	if addr < 0 || addr >= MemorySize {
		return 0, &MemoryFaultError{Addr: addr}
	}
	return m.data[addr], nil
}

// WriteByte stores v at addr.
func (m *Memory) WriteByte(addr int, v byte) error {
	if addr < 0 || addr >= MemorySize {
		return &MemoryFaultError{Addr: addr}
	}
	m.data[addr] = v
	return nil
}

// readWord fetches the big-endian instruction word at addr. A fault reports
// the first byte of the word that is outside of memory.
func (m *Memory) readWord(addr int) (uint16, error) {
	if addr < 0 || addr >= MemorySize {
		return 0, &MemoryFaultError{Addr: addr}
	}
	if addr+1 >= MemorySize {
		return 0, &MemoryFaultError{Addr: addr + 1}
	}
	return uint16(m.data[addr])<<8 | uint16(m.data[addr+1]), nil
}
