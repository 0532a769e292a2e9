package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestSkips(t *testing.T) {
	tests := []struct {
		name  string
		setup [2]byte // V1, V2
		op    uint16
		skip  bool
	}{
		{"se byte equal", [2]byte{0x42, 0}, 0x3142, true},
		{"se byte different", [2]byte{0x41, 0}, 0x3142, false},
		{"sne byte equal", [2]byte{0x42, 0}, 0x4142, false},
		{"sne byte different", [2]byte{0x41, 0}, 0x4142, true},
		{"se reg equal", [2]byte{7, 7}, 0x5120, true},
		{"se reg different", [2]byte{7, 8}, 0x5120, false},
		{"sne reg equal", [2]byte{7, 7}, 0x9120, false},
		{"sne reg different", [2]byte{7, 8}, 0x9120, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.op)
			m.Registers().V[1] = tt.setup[0]
			m.Registers().V[2] = tt.setup[1]
			steps(t, m, 1)

			want := uint16(ProgramStart + 2)
			if tt.skip {
				want += 2
			}
			assert.Equal(t, want, m.Registers().PC)
		})
	}
}

func TestRegisterArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		x, y   byte
		op     uint16
		result byte
		flag   byte
	}{
		{"ld", 0x01, 0x99, 0x8120, 0x99, 0xEE},
		{"or", 0xF0, 0x0F, 0x8121, 0xFF, 0xEE},
		{"and", 0xF3, 0x3F, 0x8122, 0x33, 0xEE},
		{"xor", 0xFF, 0x0F, 0x8123, 0xF0, 0xEE},
		{"add no carry", 0x10, 0x20, 0x8124, 0x30, 0},
		{"add carry", 0xF0, 0x20, 0x8124, 0x10, 1},
		{"add exact 256", 0x80, 0x80, 0x8124, 0x00, 1},
		{"sub no borrow", 0x30, 0x10, 0x8125, 0x20, 1},
		{"sub equal", 0x30, 0x30, 0x8125, 0x00, 1},
		{"sub borrow", 0x10, 0x30, 0x8125, 0xE0, 0},
		{"subn no borrow", 0x10, 0x30, 0x8127, 0x20, 1},
		{"subn borrow", 0x30, 0x10, 0x8127, 0xE0, 0},
		{"shr lsb set", 0x05, 0xFF, 0x8126, 0x02, 1},
		{"shr lsb clear", 0x04, 0xFF, 0x8126, 0x02, 0},
		{"shl msb set", 0x81, 0x00, 0x812E, 0x02, 1},
		{"shl msb clear", 0x41, 0x00, 0x812E, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.op)
			r := m.Registers()
			r.V[1] = tt.x
			r.V[2] = tt.y
			r.V[FlagRegister] = 0xEE
			steps(t, m, 1)

			assert.Equal(t, tt.result, r.V[1])
			assert.Equal(t, tt.flag, r.V[FlagRegister])
			assert.Equal(t, tt.y, r.V[2])
		})
	}
}

func TestFlagWrittenAfterResult(t *testing.T) {
	// with VF as the destination the flag overwrites the sum
	m := newTestMachine(t, 0x8F14)
	r := m.Registers()
	r.V[0xF] = 0xFF
	r.V[0x1] = 0x02
	steps(t, m, 1)
	assert.Equal(t, byte(1), r.V[0xF])
}

func TestShiftQuirk(t *testing.T) {
	m := New(WithQuirks(Quirks{ShiftUsesVY: true}))
	assert.NoError(t, m.Load([]byte{0x81, 0x26, 0x83, 0x4E}))
	r := m.Registers()
	r.V[1] = 0xFF
	r.V[2] = 0x03
	r.V[3] = 0x00
	r.V[4] = 0x80
	steps(t, m, 1)
	assert.Equal(t, byte(0x01), r.V[1])
	assert.Equal(t, byte(1), r.V[FlagRegister])

	steps(t, m, 1)
	assert.Equal(t, byte(0x00), r.V[3])
	assert.Equal(t, byte(1), r.V[FlagRegister])
}

func TestLogicQuirk(t *testing.T) {
	m := New(WithQuirks(Quirks{LogicResetsVF: true}))
	assert.NoError(t, m.Load([]byte{0x81, 0x21}))
	r := m.Registers()
	r.V[FlagRegister] = 0x7
	steps(t, m, 1)
	assert.Equal(t, byte(0), r.V[FlagRegister])
}

func TestIndexOperations(t *testing.T) {
	m := newTestMachine(t, 0xA123, 0x6510, 0xF51E, 0x6A0C, 0xFA29)
	r := m.Registers()

	steps(t, m, 1)
	assert.Equal(t, uint16(0x123), r.I)

	steps(t, m, 2)
	assert.Equal(t, uint16(0x133), r.I)

	steps(t, m, 2)
	assert.Equal(t, uint16(FontStart+0xC*GlyphSize), r.I)
}

func TestAddIndexLeavesFlag(t *testing.T) {
	m := newTestMachine(t, 0xAFFF, 0x60FF, 0xF01E)
	m.Registers().V[FlagRegister] = 0x33
	steps(t, m, 3)
	assert.Equal(t, uint16(0xFFF+0xFF), m.Registers().I)
	assert.Equal(t, byte(0x33), m.Registers().V[FlagRegister])
}

func TestJumpV0(t *testing.T) {
	m := newTestMachine(t, 0x6010, 0xB300)
	steps(t, m, 2)
	assert.Equal(t, uint16(0x310), m.Registers().PC)
}

func TestRandomMasked(t *testing.T) {
	m := newTestMachine(t, 0xC30F, 0xC4FF)
	steps(t, m, 2)
	assert.Equal(t, byte(0x0B), m.Registers().V[3])
	assert.Equal(t, byte(0xAB), m.Registers().V[4])
}

func TestBCD(t *testing.T) {
	for _, v := range []byte{0, 7, 42, 100, 255} {
		m := newTestMachine(t, 0xA300, 0xF233)
		m.Registers().V[2] = v
		steps(t, m, 2)

		mem := m.Memory()
		digits := [3]byte{}
		for i := range digits {
			d, err := mem.ReadByte(0x300 + i)
			assert.NoError(t, err)
			digits[i] = d
		}
		assert.Equal(t, [3]byte{v / 100, v / 10 % 10, v % 10}, digits)
	}
}

func TestStoreLoadRegisters(t *testing.T) {
	m := newTestMachine(t, 0xA400, 0xF355, 0xA404, 0xF265)
	r := m.Registers()
	for i := range r.V {
		r.V[i] = byte(0x10 + i)
	}
	mem := m.Memory()
	assert.NoError(t, mem.WriteByte(0x404, 0xA0))
	assert.NoError(t, mem.WriteByte(0x405, 0xA1))
	assert.NoError(t, mem.WriteByte(0x406, 0xA2))
	assert.NoError(t, mem.WriteByte(0x407, 0xA3))

	steps(t, m, 2)
	for i := 0; i <= 3; i++ {
		v, err := mem.ReadByte(0x400 + i)
		assert.NoError(t, err)
		assert.Equal(t, byte(0x10+i), v)
	}

	steps(t, m, 2)
	assert.Equal(t, byte(0xA0), r.V[0])
	assert.Equal(t, byte(0xA1), r.V[1])
	assert.Equal(t, byte(0xA2), r.V[2])
	assert.Equal(t, byte(0x13), r.V[3])
	assert.Equal(t, uint16(0x404), r.I)

	// the register dump only covered V0..V3
	v, err := mem.ReadByte(0x404)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xA0), v)
}

func TestLoadStoreQuirk(t *testing.T) {
	m := New(WithQuirks(Quirks{LoadStoreIncrementsI: true}))
	assert.NoError(t, m.Load([]byte{0xA4, 0x00, 0xF3, 0x55, 0xF1, 0x65}))
	steps(t, m, 2)
	assert.Equal(t, uint16(0x404), m.Registers().I)
	steps(t, m, 1)
	assert.Equal(t, uint16(0x406), m.Registers().I)
}

func TestStoreFault(t *testing.T) {
	m := newTestMachine(t, 0xAFFE, 0xF255)
	steps(t, m, 1)

	err := m.Step()
	var fault *MemoryFaultError
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, MemorySize, fault.Addr)

	// nothing was written before the fault was detected
	v, rerr := m.Memory().ReadByte(0xFFE)
	assert.NoError(t, rerr)
	assert.Equal(t, byte(0), v)
}

func TestBCDFault(t *testing.T) {
	m := newTestMachine(t, 0xAFFE, 0xF033)
	steps(t, m, 1)
	assert.True(t, errors.Is(m.Step(), ErrMemoryFault))
}

func TestKeySkips(t *testing.T) {
	m := newTestMachine(t, 0x6107, 0xE19E, 0x0000, 0xE1A1, 0x1208)
	m.SetKey(7, true)

	steps(t, m, 2)
	assert.Equal(t, uint16(0x206), m.Registers().PC)

	steps(t, m, 1)
	assert.Equal(t, uint16(0x208), m.Registers().PC)

	m.SetKey(7, false)
	m.Registers().PC = 0x202
	steps(t, m, 1)
	assert.Equal(t, uint16(0x204), m.Registers().PC)
}

func TestClearScreen(t *testing.T) {
	m := newTestMachine(t, 0x00E0)
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			m.Display().Set(x, y, 1)
		}
	}
	steps(t, m, 1)
	assert.True(t, Display{} == *m.Display())
}

func TestDrawTwiceRestoresDisplay(t *testing.T) {
	m := newTestMachine(t,
		0x6A0A, // ld VA, 10
		0x6B05, // ld VB, 5
		0x6C03, // ld VC, 3
		0xFC29, // ld F, VC
		0xDAB5, // drw VA, VB, 5
		0xDAB5, // drw VA, VB, 5
	)
	steps(t, m, 5)
	assert.Equal(t, byte(0), m.Registers().V[FlagRegister])
	// glyph 3 starts with a full 4 pixel row
	for x := 10; x < 14; x++ {
		assert.Equal(t, byte(1), m.Display().Pixel(x, 5))
	}

	steps(t, m, 1)
	assert.Equal(t, byte(1), m.Registers().V[FlagRegister])
	assert.True(t, Display{} == *m.Display())
}

func TestDrawCollisionFlagClearsWithoutOverlap(t *testing.T) {
	m := newTestMachine(t, 0xF029, 0xD015, 0x6008, 0xD015)
	m.Registers().V[FlagRegister] = 1
	steps(t, m, 2)
	assert.Equal(t, byte(0), m.Registers().V[FlagRegister])
	steps(t, m, 2)
	assert.Equal(t, byte(0), m.Registers().V[FlagRegister])
}

func TestDrawWrapsThroughMachine(t *testing.T) {
	m := newTestMachine(t, 0xA300, 0x603E, 0x611F, 0xD012)
	assert.NoError(t, m.Memory().WriteByte(0x300, 0xFF))
	assert.NoError(t, m.Memory().WriteByte(0x301, 0xFF))
	steps(t, m, 4)

	d := m.Display()
	assert.Equal(t, byte(1), d.Pixel(62, 31))
	assert.Equal(t, byte(1), d.Pixel(63, 31))
	assert.Equal(t, byte(1), d.Pixel(0, 31))
	assert.Equal(t, byte(1), d.Pixel(5, 31))
	assert.Equal(t, byte(0), d.Pixel(6, 31))
	assert.Equal(t, byte(1), d.Pixel(62, 0))
	assert.Equal(t, byte(1), d.Pixel(5, 0))
	assert.Equal(t, byte(0), d.Pixel(0, 1))
}

func TestDrawLargeCoordinatesWrap(t *testing.T) {
	m := newTestMachine(t, 0xA300, 0x6041, 0x6122, 0xD011)
	assert.NoError(t, m.Memory().WriteByte(0x300, 0x80))
	steps(t, m, 4)
	assert.Equal(t, byte(1), m.Display().Pixel(1, 2))
}

func TestDrawSpriteFault(t *testing.T) {
	m := newTestMachine(t, 0xAFFC, 0xD005)
	steps(t, m, 1)
	assert.True(t, errors.Is(m.Step(), ErrMemoryFault))
}

func TestDisplayWaitQuirk(t *testing.T) {
	m := New(WithQuirks(Quirks{DisplayWait: true}))
	assert.NoError(t, m.Load([]byte{0xD0, 0x01, 0xD0, 0x01}))

	// no tick yet, so the draw stalls
	steps(t, m, 3)
	assert.Equal(t, uint16(ProgramStart), m.Registers().PC)

	m.TickTimers()
	steps(t, m, 1)
	assert.Equal(t, uint16(ProgramStart+2), m.Registers().PC)

	steps(t, m, 1)
	assert.Equal(t, uint16(ProgramStart+2), m.Registers().PC)
	m.TickTimers()
	steps(t, m, 1)
	assert.Equal(t, uint16(ProgramStart+4), m.Registers().PC)
}
