package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestMemoryLoad(t *testing.T) {
	mem := newMemory()
	rom := []byte{0x00, 0xE0, 0x12, 0x00}

	assert.NoError(t, mem.Load(rom))
	for i, b := range rom {
		v, err := mem.ReadByte(ProgramStart + i)
		assert.NoError(t, err)
		assert.Equal(t, b, v)
	}
}

func TestMemoryLoadClearsPreviousProgram(t *testing.T) {
	mem := newMemory()
	assert.NoError(t, mem.Load([]byte{1, 2, 3, 4}))
	assert.NoError(t, mem.Load([]byte{9}))

	v, err := mem.ReadByte(ProgramStart + 3)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), v)
}

func TestMemoryLoadTooLarge(t *testing.T) {
	mem := newMemory()
	assert.NoError(t, mem.Load([]byte{0xAA}))
	before := mem.data

	err := mem.Load(make([]byte, MaxRomSize+1))
	assert.True(t, errors.Is(err, ErrRomTooLarge))
	assert.True(t, before == mem.data)
}

func TestMemoryLoadExactFit(t *testing.T) {
	mem := newMemory()
	rom := make([]byte, MaxRomSize)
	rom[len(rom)-1] = 0x42

	assert.NoError(t, mem.Load(rom))
	v, err := mem.ReadByte(MemorySize - 1)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x42), v)
}

func TestMemoryBounds(t *testing.T) {
	mem := newMemory()

	tests := []struct {
		name  string
		addr  int
		fault bool
	}{
		{"first byte", 0, false},
		{"last byte", MemorySize - 1, false},
		{"one past the end", MemorySize, true},
		{"far past the end", 0xFFFF, true},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mem.ReadByte(tt.addr)
			assert.Equal(t, tt.fault, errors.Is(err, ErrMemoryFault))

			err = mem.WriteByte(tt.addr, 0x11)
			assert.Equal(t, tt.fault, errors.Is(err, ErrMemoryFault))

			var fault *MemoryFaultError
			if tt.fault {
				assert.True(t, errors.As(err, &fault))
				assert.Equal(t, tt.addr, fault.Addr)
			}
		})
	}
}

func TestFontPreloaded(t *testing.T) {
	mem := newMemory()

	// glyph 0 is a box, glyph F starts with a full row and ends with a left bar
	v, err := mem.ReadByte(int(glyphAddress(0x0)))
	assert.NoError(t, err)
	assert.Equal(t, byte(0xF0), v)

	v, err = mem.ReadByte(int(glyphAddress(0xF)) + GlyphSize - 1)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x80), v)

	assert.Equal(t, uint16(FontStart+0xA*GlyphSize), glyphAddress(0x3A))
}
