package chip8

import "strings"

// Display dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Display is the 64x32 monochrome frame buffer. Every cell holds 0 or 1.
// The zero value is a blank screen and a Display may be copied by value to
// take a snapshot.
type Display struct {
	cells [Width * Height]byte
}

func coordLocation(x, y int) int {
	return y*Width + x
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	for i := range d.cells {
		d.cells[i] = 0
	}
}

// Pixel returns the pixel at (x, y), wrapping coordinates onto the screen.
func (d *Display) Pixel(x, y int) byte {
	return d.cells[coordLocation(wrap(x, Width), wrap(y, Height))]
}

// Set forces the pixel at (x, y) to v, which must be 0 or 1.
func (d *Display) Set(x, y int, v byte) {
	d.cells[coordLocation(wrap(x, Width), wrap(y, Height))] = v & 1
}

// Draw XORs sprite onto the screen with its top left corner at (x, y). Each
// byte is one row of 8 pixels, MSB leftmost. Pixels running off an edge wrap
// around to the opposite edge. It reports whether any pixel was turned off.
func (d *Display) Draw(x, y int, sprite []byte) bool {
	collision := false
	for row, bits := range sprite {
		py := wrap(y+row, Height)
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			loc := coordLocation(wrap(x+col, Width), py)
			if d.cells[loc] == 1 {
				collision = true
			}
			d.cells[loc] ^= 1
		}
	}
	return collision
}

// Rows returns a copy of the buffer indexed as [row][column].
func (d *Display) Rows() [Height][Width]byte {
	var rows [Height][Width]byte
	for y := 0; y < Height; y++ {
		copy(rows[y][:], d.cells[y*Width:(y+1)*Width])
	}
	return rows
}

// String renders the buffer as Height lines of '#' (on) and '.' (off).
func (d *Display) String() string {
	var sb strings.Builder
	sb.Grow((Width + 1) * Height)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if d.cells[coordLocation(x, y)] == 1 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
