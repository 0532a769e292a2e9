package chip8

import "fmt"

// Op identifies a decoded instruction.
type Op int

// Opcodes, named after the mnemonics of Cowgod's reference.
const (
	OpUnknown  Op = iota
	OpCls         // 00E0
	OpRet         // 00EE
	OpJp          // 1NNN
	OpCall        // 2NNN
	OpSeByte      // 3XNN
	OpSneByte     // 4XNN
	OpSeReg       // 5XY0
	OpLdByte      // 6XNN
	OpAddByte     // 7XNN
	OpLdReg       // 8XY0
	OpOr          // 8XY1
	OpAnd         // 8XY2
	OpXor         // 8XY3
	OpAddReg      // 8XY4
	OpSub         // 8XY5
	OpShr         // 8XY6
	OpSubn        // 8XY7
	OpShl         // 8XYE
	OpSneReg      // 9XY0
	OpLdI         // ANNN
	OpJpV0        // BNNN
	OpRnd         // CXNN
	OpDrw         // DXYN
	OpSkp         // EX9E
	OpSknp        // EXA1
	OpLdVxDT      // FX07
	OpLdKey       // FX0A
	OpLdDTVx      // FX15
	OpLdSTVx      // FX18
	OpAddI        // FX1E
	OpLdFont      // FX29
	OpLdBCD       // FX33
	OpStore       // FX55
	OpLoad        // FX65
)

var opNames = [...]string{
	OpUnknown: "???",
	OpCls:     "cls",
	OpRet:     "ret",
	OpJp:      "jp",
	OpCall:    "call",
	OpSeByte:  "se",
	OpSneByte: "sne",
	OpSeReg:   "se",
	OpLdByte:  "ld",
	OpAddByte: "add",
	OpLdReg:   "ld",
	OpOr:      "or",
	OpAnd:     "and",
	OpXor:     "xor",
	OpAddReg:  "add",
	OpSub:     "sub",
	OpShr:     "shr",
	OpSubn:    "subn",
	OpShl:     "shl",
	OpSneReg:  "sne",
	OpLdI:     "ld",
	OpJpV0:    "jp",
	OpRnd:     "rnd",
	OpDrw:     "drw",
	OpSkp:     "skp",
	OpSknp:    "sknp",
	OpLdVxDT:  "ld",
	OpLdKey:   "ld",
	OpLdDTVx:  "ld",
	OpLdSTVx:  "ld",
	OpAddI:    "add",
	OpLdFont:  "ld",
	OpLdBCD:   "ld",
	OpStore:   "ld",
	OpLoad:    "ld",
}

// Name returns the mnemonic of the opcode.
func (o Op) Name() string {
	if o < 0 || int(o) >= len(opNames) {
		return opNames[OpUnknown]
	}
	return opNames[o]
}

// Instruction is a decoded instruction word. All operand fields are always
// extracted; which of them are meaningful depends on Op.
type Instruction struct {
	Op   Op
	Word uint16

	X   byte   // bits 8-11, register index
	Y   byte   // bits 4-7, register index
	N   byte   // bits 0-3
	NN  byte   // bits 0-7
	NNN uint16 // bits 0-11
}

// Decode splits word into its fields and identifies the opcode. Every word
// decodes; patterns matching no instruction get OpUnknown.
func Decode(word uint16) Instruction {
	in := Instruction{
		Word: word,
		X:    byte(word>>8) & 0xF,
		Y:    byte(word>>4) & 0xF,
		N:    byte(word) & 0xF,
		NN:   byte(word),
		NNN:  word & 0xFFF,
	}
	in.Op = decodeOp(word>>12, in)
	return in
}

func decodeOp(group uint16, in Instruction) Op {
	switch group {
	case 0x0:
		switch in.NNN {
		case 0x0E0:
			return OpCls
		case 0x0EE:
			return OpRet
		}
	case 0x1:
		return OpJp
	case 0x2:
		return OpCall
	case 0x3:
		return OpSeByte
	case 0x4:
		return OpSneByte
	case 0x5:
		if in.N == 0 {
			return OpSeReg
		}
	case 0x6:
		return OpLdByte
	case 0x7:
		return OpAddByte
	case 0x8:
		switch in.N {
		case 0x0:
			return OpLdReg
		case 0x1:
			return OpOr
		case 0x2:
			return OpAnd
		case 0x3:
			return OpXor
		case 0x4:
			return OpAddReg
		case 0x5:
			return OpSub
		case 0x6:
			return OpShr
		case 0x7:
			return OpSubn
		case 0xE:
			return OpShl
		}
	case 0x9:
		if in.N == 0 {
			return OpSneReg
		}
	case 0xA:
		return OpLdI
	case 0xB:
		return OpJpV0
	case 0xC:
		return OpRnd
	case 0xD:
		return OpDrw
	case 0xE:
		switch in.NN {
		case 0x9E:
			return OpSkp
		case 0xA1:
			return OpSknp
		}
	case 0xF:
		switch in.NN {
		case 0x07:
			return OpLdVxDT
		case 0x0A:
			return OpLdKey
		case 0x15:
			return OpLdDTVx
		case 0x18:
			return OpLdSTVx
		case 0x1E:
			return OpAddI
		case 0x29:
			return OpLdFont
		case 0x33:
			return OpLdBCD
		case 0x55:
			return OpStore
		case 0x65:
			return OpLoad
		}
	}
	return OpUnknown
}

// String formats the instruction in assembler syntax, for example
// "drw V0, V1, $F".
func (in Instruction) String() string {
	name := in.Op.Name()
	switch in.Op {
	case OpCls, OpRet:
		return name
	case OpJp, OpCall:
		return fmt.Sprintf("%s $%03X", name, in.NNN)
	case OpJpV0:
		return fmt.Sprintf("%s V0, $%03X", name, in.NNN)
	case OpSeByte, OpSneByte, OpLdByte, OpAddByte, OpRnd:
		return fmt.Sprintf("%s V%X, $%02X", name, in.X, in.NN)
	case OpSeReg, OpSneReg, OpLdReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpSubn:
		return fmt.Sprintf("%s V%X, V%X", name, in.X, in.Y)
	case OpShr, OpShl, OpSkp, OpSknp:
		return fmt.Sprintf("%s V%X", name, in.X)
	case OpLdI:
		return fmt.Sprintf("%s I, $%03X", name, in.NNN)
	case OpDrw:
		return fmt.Sprintf("%s V%X, V%X, $%X", name, in.X, in.Y, in.N)
	case OpLdVxDT:
		return fmt.Sprintf("%s V%X, DT", name, in.X)
	case OpLdKey:
		return fmt.Sprintf("%s V%X, K", name, in.X)
	case OpLdDTVx:
		return fmt.Sprintf("%s DT, V%X", name, in.X)
	case OpLdSTVx:
		return fmt.Sprintf("%s ST, V%X", name, in.X)
	case OpAddI:
		return fmt.Sprintf("%s I, V%X", name, in.X)
	case OpLdFont:
		return fmt.Sprintf("%s F, V%X", name, in.X)
	case OpLdBCD:
		return fmt.Sprintf("%s B, V%X", name, in.X)
	case OpStore:
		return fmt.Sprintf("%s [I], V%X", name, in.X)
	case OpLoad:
		return fmt.Sprintf("%s V%X, [I]", name, in.X)
	}
	return fmt.Sprintf("%s $%04X", name, in.Word)
}
