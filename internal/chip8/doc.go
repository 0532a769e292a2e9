// Package chip8 implements the CHIP-8 virtual machine core: memory, the
// register file, the display buffer, the instruction decoder and the
// fetch-decode-execute engine.
//
// The machine is not safe for concurrent use. Step and TickTimers are the
// two clocks of the system and are driven independently by the host; see
// package emulator for a scheduler that does so.
package chip8
