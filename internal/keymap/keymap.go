// Package keymap maps host keyboard keys onto the 16 key hex keypad, using
// the usual COSMAC VIP layout on the left side of a QWERTY keyboard:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
package keymap

import "unicode"

var layout = map[rune]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'Q': 0x4, 'W': 0x5, 'E': 0x6, 'R': 0xD,
	'A': 0x7, 'S': 0x8, 'D': 0x9, 'F': 0xE,
	'Z': 0xA, 'X': 0x0, 'C': 0xB, 'V': 0xF,
}

// Lookup returns the keypad index for the host key r. Letters match in
// either case.
func Lookup(r rune) (byte, bool) {
	k, ok := layout[unicode.ToUpper(r)]
	return k, ok
}

// Keys returns every mapped host key, in keypad order 0x0-0xF.
func Keys() []rune {
	keys := make([]rune, 16)
	for r, k := range layout {
		keys[k] = r
	}
	return keys
}
