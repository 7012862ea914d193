package cpu

import "we32100/internal/bus"

/*
   Effective address, read/write (spec §4.4, component E).

   effectiveAddress is legal only for memory modes (spec §4.4);
   register/immediate/literal modes fail with IllegalOpcode. The
   computed address is recorded into op.Data even when the caller only
   wants the read/write side effect, per the "effective-address
   mutation" design note (spec §9) — a debugger can peek it after the
   fact.
*/

func (cpu *CPU) effectiveAddress(op *Operand) (uint32, error) {
	if !op.Mode.IsMemory() {
		return 0, ErrIllegalOpcode
	}

	var base uint32
	switch op.Mode {
	case ModeRegisterDeferred:
		base = cpu.readReg(op.Register)
	case ModeFPShortOffset:
		base = cpu.regs[RegFP] + op.Embedded
	case ModeAPShortOffset:
		base = cpu.regs[RegAP] + op.Embedded
	case ModeAbsolute:
		base = op.Embedded
	case ModeWordDisplacement, ModeWordDisplacementDeferred:
		base = cpu.readReg(op.Register) + op.Embedded
	case ModeHalfwordDisplacement, ModeHalfwordDisplacementDeferred:
		base = cpu.readReg(op.Register) + op.Embedded
	case ModeByteDisplacement, ModeByteDisplacementDeferred:
		base = cpu.readReg(op.Register) + op.Embedded
	case ModeAbsoluteDeferred:
		base = op.Embedded
	default:
		return 0, ErrIllegalOpcode
	}

	switch op.Mode {
	case ModeWordDisplacementDeferred, ModeHalfwordDisplacementDeferred,
		ModeByteDisplacementDeferred, ModeAbsoluteDeferred:
		final, err := cpu.b.ReadWord(base, bus.AddressFetch)
		if err != nil {
			return 0, err
		}
		op.Data = final
		return final, nil
	default:
		op.Data = base
		return base, nil
	}
}

// readOperand implements read_op (spec §4.4). Memory loads sign- or
// zero-extend to 32 bits per op.effectiveWidth().
func (cpu *CPU) readOperand(op *Operand) (uint32, error) {
	width := op.effectiveWidth()

	switch op.Mode {
	case ModeRegister:
		return extendTo32(cpu.readReg(op.Register), width), nil
	case ModePositiveLiteral, ModeNegativeLiteral,
		ModeWordImmediate, ModeHalfwordImmediate, ModeByteImmediate:
		op.Data = op.Embedded
		return op.Embedded, nil
	default:
		addr, err := cpu.effectiveAddress(op)
		if err != nil {
			return 0, err
		}
		v, err := cpu.readMemory(addr, width)
		if err != nil {
			return 0, err
		}
		op.Data = v
		return v, nil
	}
}

func (cpu *CPU) readMemory(addr uint32, width Width) (uint32, error) {
	switch width.Bytes() {
	case 1:
		v, err := cpu.b.ReadByte(addr, bus.OperandFetch)
		if err != nil {
			return 0, err
		}
		if width.Signed() {
			return signExtend8(v), nil
		}
		return uint32(v), nil
	case 2:
		v, err := cpu.b.ReadHalf(addr, bus.OperandFetch)
		if err != nil {
			return 0, err
		}
		if width.Signed() {
			return signExtend16(v), nil
		}
		return uint32(v), nil
	default:
		return cpu.b.ReadWord(addr, bus.OperandFetch)
	}
}

// extendTo32 extends a full register value to the semantics of width,
// used when a register is read at a narrower-than-word width (spec
// §4.4, "Register" row).
func extendTo32(v uint32, width Width) uint32 {
	switch width.Bytes() {
	case 1:
		if width.Signed() {
			return signExtend8(uint8(v))
		}
		return v & 0xFF
	case 2:
		if width.Signed() {
			return signExtend16(uint16(v))
		}
		return v & 0xFFFF
	default:
		return v
	}
}

// writeOperand implements write_op (spec §4.4). Register targets
// always replace the full 32-bit register regardless of width, per
// the source-compatibility note in spec §4.4. Literal/immediate
// targets are illegal.
func (cpu *CPU) writeOperand(op *Operand, value uint32) error {
	width := op.effectiveWidth()

	switch op.Mode {
	case ModeRegister:
		cpu.writeReg(op.Register, extendTo32(value, width))
		return nil
	case ModePositiveLiteral, ModeNegativeLiteral,
		ModeWordImmediate, ModeHalfwordImmediate, ModeByteImmediate:
		return ErrIllegalOpcode
	default:
		addr, err := cpu.effectiveAddress(op)
		if err != nil {
			return err
		}
		return cpu.writeMemory(addr, value, width)
	}
}

func (cpu *CPU) writeMemory(addr uint32, value uint32, width Width) error {
	switch width.Bytes() {
	case 1:
		return cpu.b.WriteByte(addr, uint8(value))
	case 2:
		return cpu.b.WriteHalf(addr, uint16(value))
	default:
		return cpu.b.WriteWord(addr, value)
	}
}
