package raster

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"octoc8/internal/chip8"
)

func TestRGBAFlipsRows(t *testing.T) {
	var frame chip8.Display
	frame.Set(0, 0, 1)
	frame.Set(63, 31, 1)

	data := RGBA(&frame)
	assert.Equal(t, chip8.Width*chip8.Height*4, len(data))

	// top left pixel ends up in the last texture row
	top := (chip8.Height - 1) * chip8.Width * 4
	assert.Equal(t, On[:], data[top:top+4])
	assert.Equal(t, Off[:], data[top+4:top+8])

	// bottom right pixel ends up at the end of the first texture row
	last := (chip8.Width - 1) * 4
	assert.Equal(t, On[:], data[last:last+4])
}

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          Viewport
	}{
		{"exact", 1280, 640, Viewport{0, 0, 1280, 640}},
		{"wide", 1000, 300, Viewport{200, 0, 800, 300}},
		{"tall", 640, 640, Viewport{0, 160, 640, 480}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fit(tt.width, tt.height))
		})
	}
}

func TestText(t *testing.T) {
	var frame chip8.Display
	frame.Set(1, 0, 1)

	lines := strings.Split(Text(&frame, '█', ' '), "\n")
	assert.Equal(t, chip8.Height+1, len(lines))
	assert.Equal(t, " █"+strings.Repeat(" ", chip8.Width-2), lines[0])
}
