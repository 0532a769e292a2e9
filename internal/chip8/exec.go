package chip8

// execute applies in, fetched from pc. The program counter has already been
// advanced past the instruction.
func (m *Machine) execute(pc uint16, in Instruction) error {
	r := &m.reg
	vx := &r.V[in.X]
	vy := r.V[in.Y]

	switch in.Op {
	case OpCls:
		m.display.Clear()

	case OpRet:
		addr, err := r.pop()
		if err != nil {
			return err
		}
		r.PC = addr

	case OpJp:
		r.PC = in.NNN

	case OpCall:
		if err := r.push(r.PC); err != nil {
			return err
		}
		r.PC = in.NNN

	case OpSeByte:
		m.skipIf(*vx == in.NN)

	case OpSneByte:
		m.skipIf(*vx != in.NN)

	case OpSeReg:
		m.skipIf(*vx == vy)

	case OpSneReg:
		m.skipIf(*vx != vy)

	case OpLdByte:
		*vx = in.NN

	case OpAddByte:
		// wraps without touching VF
		*vx += in.NN

	case OpLdReg:
		*vx = vy

	case OpOr:
		*vx |= vy
		m.logicFlag()

	case OpAnd:
		*vx &= vy
		m.logicFlag()

	case OpXor:
		*vx ^= vy
		m.logicFlag()

	case OpAddReg:
		var carry byte
		if int(*vx)+int(vy) > 0xFF {
			carry = 1
		}
		*vx += vy
		r.V[FlagRegister] = carry

	case OpSub:
		var noBorrow byte
		if *vx >= vy {
			noBorrow = 1
		}
		*vx -= vy
		r.V[FlagRegister] = noBorrow

	case OpSubn:
		var noBorrow byte
		if vy >= *vx {
			noBorrow = 1
		}
		*vx = vy - *vx
		r.V[FlagRegister] = noBorrow

	case OpShr:
		if m.quirks.ShiftUsesVY {
			*vx = vy
		}
		out := *vx & 0x1
		*vx >>= 1
		r.V[FlagRegister] = out

	case OpShl:
		if m.quirks.ShiftUsesVY {
			*vx = vy
		}
		out := *vx >> 7
		*vx <<= 1
		r.V[FlagRegister] = out

	case OpLdI:
		r.I = in.NNN

	case OpJpV0:
		r.PC = in.NNN + uint16(r.V[0])

	case OpRnd:
		*vx = m.random() & in.NN

	case OpDrw:
		return m.draw(int(*vx), int(vy), int(in.N))

	case OpSkp:
		m.skipIf(r.Keys[*vx&0xF])

	case OpSknp:
		m.skipIf(!r.Keys[*vx&0xF])

	case OpLdVxDT:
		*vx = r.DT

	case OpLdKey:
		m.state = WaitingForKey
		m.waitReg = in.X

	case OpLdDTVx:
		r.DT = *vx

	case OpLdSTVx:
		r.ST = *vx

	case OpAddI:
		r.I += uint16(*vx)

	case OpLdFont:
		r.I = glyphAddress(*vx)

	case OpLdBCD:
		return m.storeBCD(*vx)

	case OpStore:
		return m.storeRegisters(in.X)

	case OpLoad:
		return m.loadRegisters(in.X)

	default:
		return &UnknownOpcodeError{Word: in.Word, PC: pc}
	}
	return nil
}

// skipIf skips the next instruction when cond holds.
func (m *Machine) skipIf(cond bool) {
	if cond {
		m.reg.PC += 2
	}
}

func (m *Machine) logicFlag() {
	if m.quirks.LogicResetsVF {
		m.reg.V[FlagRegister] = 0
	}
}

// draw reads height sprite rows from I and XORs them onto the display at
// (x, y), setting VF on collision.
func (m *Machine) draw(x, y, height int) error {
	base := int(m.reg.I)
	if base+height > MemorySize {
		return &MemoryFaultError{Addr: firstFault(base)}
	}
	sprite := m.mem.data[base : base+height]

	var collision byte
	if m.display.Draw(x, y, sprite) {
		collision = 1
	}
	m.reg.V[FlagRegister] = collision
	m.vblank = false
	return nil
}

// checkRange validates that n bytes starting at I are addressable.
func (m *Machine) checkRange(n int) error {
	start := int(m.reg.I)
	if start+n > MemorySize {
		return &MemoryFaultError{Addr: firstFault(start)}
	}
	return nil
}

func (m *Machine) storeBCD(v byte) error {
	if err := m.checkRange(3); err != nil {
		return err
	}
	i := m.reg.I
	m.mem.data[i] = v / 100
	m.mem.data[i+1] = (v / 10) % 10
	m.mem.data[i+2] = v % 10
	return nil
}

// storeRegisters writes V0..Vx inclusive to memory at I.
func (m *Machine) storeRegisters(x byte) error {
	n := int(x) + 1
	if err := m.checkRange(n); err != nil {
		return err
	}
	copy(m.mem.data[m.reg.I:], m.reg.V[:n])
	if m.quirks.LoadStoreIncrementsI {
		m.reg.I += uint16(n)
	}
	return nil
}

// loadRegisters fills V0..Vx inclusive from memory at I.
func (m *Machine) loadRegisters(x byte) error {
	n := int(x) + 1
	if err := m.checkRange(n); err != nil {
		return err
	}
	copy(m.reg.V[:n], m.mem.data[m.reg.I:])
	if m.quirks.LoadStoreIncrementsI {
		m.reg.I += uint16(n)
	}
	return nil
}

// firstFault returns the first unaddressable byte of an access that starts
// at start and overruns memory.
func firstFault(start int) int {
	if start > MemorySize {
		return start
	}
	return MemorySize
}
