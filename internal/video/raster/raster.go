// Package raster converts display snapshots into pixel data for frontends.
package raster

import "octoc8/internal/chip8"

// Colors of lit and unlit pixels, as RGBA.
var (
	On  = [4]byte{255, 255, 255, 255}
	Off = [4]byte{10, 10, 10, 255}
)

// RGBA returns the frame as Width*Height RGBA pixels with the bottom row
// first, the row order OpenGL textures expect.
func RGBA(frame *chip8.Display) []byte {
	data := make([]byte, chip8.Width*chip8.Height*4)
	rows := frame.Rows()
	for y, row := range rows {
		line := (chip8.Height - 1 - y) * chip8.Width * 4
		for x, px := range row {
			color := Off
			if px == 1 {
				color = On
			}
			copy(data[line+x*4:], color[:])
		}
	}
	return data
}

// Viewport is a rectangle in window coordinates.
type Viewport struct {
	X0, Y0, X1, Y1 int32
}

// Fit returns the largest viewport with the display's 2:1 aspect ratio
// centred in a window of the given size.
func Fit(width, height int) Viewport {
	scaledWidth, scaledHeight := width, height
	if width > 2*height {
		scaledWidth = 2 * height
	} else {
		scaledHeight = width / 2
	}
	x := (width - scaledWidth) / 2
	y := (height - scaledHeight) / 2
	return Viewport{
		X0: int32(x),
		Y0: int32(y),
		X1: int32(x + scaledWidth),
		Y1: int32(y + scaledHeight),
	}
}

// Text renders the frame with one character per pixel.
func Text(frame *chip8.Display, on, off rune) string {
	rows := frame.Rows()
	buf := make([]rune, 0, (chip8.Width+1)*chip8.Height)
	for _, row := range rows {
		for _, px := range row {
			if px == 1 {
				buf = append(buf, on)
			} else {
				buf = append(buf, off)
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
