package cpu

import "we32100/internal/bus"

/*
   Operand decoder (spec §4.3, component C).

   decodeOperand parses one descriptor-or-literal operand starting at
   addr and returns the decoded Operand plus the address immediately
   following it. It never computes an effective address or touches a
   register file value beyond what decoding itself requires (reading
   further descriptor/immediate bytes) — that is effectiveAddress's job
   (address.go, component E).
*/

func signExtend8(v uint8) uint32  { return uint32(int32(int8(v))) }
func signExtend16(v uint16) uint32 { return uint32(int32(int16(v))) }

// decodeLiteralOperand decodes a Literal-kind operand: a raw immediate
// of the opcode's default width, with no descriptor byte (spec §4.3,
// used by branch displacements).
func decodeLiteralOperand(b bus.Bus, addr uint32, width Width) (Operand, uint32, error) {
	op := Operand{Width: width, Mode: ModeWordImmediate, Register: -1}
	switch width.Bytes() {
	case 1:
		v, err := b.ReadByte(addr, bus.OperandFetch)
		if err != nil {
			return Operand{}, 0, err
		}
		op.Embedded = signExtend8(v)
		op.Size = 1
	case 2:
		v, err := b.ReadOpHalf(addr)
		if err != nil {
			return Operand{}, 0, err
		}
		op.Embedded = signExtend16(v)
		op.Size = 2
	default:
		v, err := b.ReadOpWord(addr)
		if err != nil {
			return Operand{}, 0, err
		}
		op.Embedded = v
		op.Size = 4
	}
	return op, addr + op.Size, nil
}

// decodeOperand decodes a descriptor-byte operand at addr (spec
// §4.3). width is the opcode's default data width, used unless a
// recursive expanded-type descriptor overrides it.
func decodeOperand(b bus.Bus, addr uint32, width Width) (Operand, uint32, error) {
	d, err := b.ReadByte(addr, bus.OperandFetch)
	if err != nil {
		return Operand{}, 0, err
	}
	m := d >> 4
	r := int8(d & 0xF)

	switch {
	case m <= 3:
		return Operand{
			Size: 1, Mode: ModePositiveLiteral, Width: width,
			Register: -1, Embedded: uint32(d),
		}, addr + 1, nil

	case m == 15:
		return Operand{
			Size: 1, Mode: ModeNegativeLiteral, Width: width,
			Register: -1, Embedded: signExtend8(d),
		}, addr + 1, nil

	case m == 4:
		if r == 15 {
			v, err := b.ReadOpWord(addr + 1)
			if err != nil {
				return Operand{}, 0, err
			}
			return Operand{Size: 5, Mode: ModeWordImmediate, Width: width, Register: -1, Embedded: v}, addr + 5, nil
		}
		return Operand{Size: 1, Mode: ModeRegister, Width: width, Register: r}, addr + 1, nil

	case m == 5:
		switch r {
		case 15:
			v, err := b.ReadOpHalf(addr + 1)
			if err != nil {
				return Operand{}, 0, err
			}
			return Operand{Size: 3, Mode: ModeHalfwordImmediate, Width: width, Register: -1, Embedded: signExtend16(v)}, addr + 3, nil
		case 11:
			return Operand{}, 0, ErrInvalidDescriptor
		default:
			return Operand{Size: 1, Mode: ModeRegisterDeferred, Width: width, Register: r}, addr + 1, nil
		}

	case m == 6:
		switch r {
		case 15:
			v, err := b.ReadByte(addr+1, bus.OperandFetch)
			if err != nil {
				return Operand{}, 0, err
			}
			return Operand{Size: 2, Mode: ModeByteImmediate, Width: width, Register: -1, Embedded: signExtend8(v)}, addr + 2, nil
		default:
			return Operand{Size: 1, Mode: ModeFPShortOffset, Width: width, Register: r, Embedded: uint32(r)}, addr + 1, nil
		}

	case m == 7:
		switch r {
		case 15:
			v, err := b.ReadOpWord(addr + 1)
			if err != nil {
				return Operand{}, 0, err
			}
			return Operand{Size: 5, Mode: ModeAbsolute, Width: width, Register: -1, Embedded: v}, addr + 5, nil
		default:
			return Operand{Size: 1, Mode: ModeAPShortOffset, Width: width, Register: r, Embedded: uint32(r)}, addr + 1, nil
		}

	case m == 8:
		if r == 11 {
			return Operand{}, 0, ErrInvalidDescriptor
		}
		v, err := b.ReadOpWord(addr + 1)
		if err != nil {
			return Operand{}, 0, err
		}
		return Operand{Size: 5, Mode: ModeWordDisplacement, Width: width, Register: r, Embedded: v}, addr + 5, nil

	case m == 9:
		if r == 11 {
			return Operand{}, 0, ErrInvalidDescriptor
		}
		v, err := b.ReadOpWord(addr + 1)
		if err != nil {
			return Operand{}, 0, err
		}
		return Operand{Size: 5, Mode: ModeWordDisplacementDeferred, Width: width, Register: r, Embedded: v}, addr + 5, nil

	case m == 10:
		if r == 11 {
			return Operand{}, 0, ErrInvalidDescriptor
		}
		v, err := b.ReadOpHalf(addr + 1)
		if err != nil {
			return Operand{}, 0, err
		}
		return Operand{Size: 3, Mode: ModeHalfwordDisplacement, Width: width, Register: r, Embedded: signExtend16(v)}, addr + 3, nil

	case m == 11:
		if r == 11 {
			return Operand{}, 0, ErrInvalidDescriptor
		}
		v, err := b.ReadOpHalf(addr + 1)
		if err != nil {
			return Operand{}, 0, err
		}
		return Operand{Size: 3, Mode: ModeHalfwordDisplacementDeferred, Width: width, Register: r, Embedded: signExtend16(v)}, addr + 3, nil

	case m == 12:
		if r == 11 {
			return Operand{}, 0, ErrInvalidDescriptor
		}
		v, err := b.ReadByte(addr+1, bus.OperandFetch)
		if err != nil {
			return Operand{}, 0, err
		}
		return Operand{Size: 2, Mode: ModeByteDisplacement, Width: width, Register: r, Embedded: signExtend8(v)}, addr + 2, nil

	case m == 13:
		if r == 11 {
			return Operand{}, 0, ErrInvalidDescriptor
		}
		v, err := b.ReadByte(addr+1, bus.OperandFetch)
		if err != nil {
			return Operand{}, 0, err
		}
		return Operand{Size: 2, Mode: ModeByteDisplacementDeferred, Width: width, Register: r, Embedded: signExtend8(v)}, addr + 2, nil

	case m == 14:
		return decodeExpandedOperand(b, addr, r, width)
	}

	return Operand{}, 0, ErrInvalidDescriptor
}

// decodeExpandedOperand handles the M=14 row: either AbsoluteDeferred
// (R=15) or a recursive expanded-type prefix (spec §4.3, testable
// property 5). The recursion parses exactly one inner, non-expanded
// descriptor.
func decodeExpandedOperand(b bus.Bus, addr uint32, r int8, width Width) (Operand, uint32, error) {
	if r == 15 {
		v, err := b.ReadOpWord(addr + 1)
		if err != nil {
			return Operand{}, 0, err
		}
		return Operand{Size: 5, Mode: ModeAbsoluteDeferred, Width: width, Register: -1, Embedded: v}, addr + 5, nil
	}

	expanded, ok := expandedTypeForR(r)
	if !ok {
		return Operand{}, 0, ErrInvalidDescriptor
	}

	inner, next, err := decodeOperand(b, addr+1, width)
	if err != nil {
		return Operand{}, 0, err
	}
	inner.Size++ // account for the 0xE* byte itself
	inner.Expanded = true
	inner.ExpandedType = expanded
	return inner, next, nil
}

func expandedTypeForR(r int8) (Width, bool) {
	switch r {
	case 0:
		return WidthUWord, true
	case 2:
		return WidthUHalf, true
	case 3:
		return WidthByte, true
	case 4:
		return WidthWord, true
	case 6:
		return WidthHalf, true
	case 7:
		return WidthSByte, true
	default:
		return 0, false
	}
}
