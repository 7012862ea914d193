package cpu

import "we32100/internal/bus"

// execUnimplemented backs every opcode this core decodes but never
// executes (HALT, BPT, MOVTRW, WAIT, EXTOP, INTACK, STRCPY, RETG,
// GATE): spec §9 says these should fail with a dedicated error rather
// than hang the step loop.
func execUnimplemented(cpu *CPU, instr *Instruction) (int32, error) {
	return 0, newException(ErrUnimplementedOpcode, cpu.PC())
}

func execNop(cpu *CPU, instr *Instruction) (int32, error) {
	return int32(instr.Length), nil
}

// execNop2/execNop3 are NOP's 2-byte and 3-byte padding variants: same
// no-op behavior, different encoded length so code alignment can
// absorb 1, 2, or 3 bytes of padding.
func execNop2(cpu *CPU, instr *Instruction) (int32, error) {
	return int32(instr.Length), nil
}

func execNop3(cpu *CPU, instr *Instruction) (int32, error) {
	return int32(instr.Length), nil
}

// execMverno unconditionally writes the version constant into R0
// (spec §9, preserved verbatim).
func execMverno(cpu *CPU, instr *Instruction) (int32, error) {
	cpu.regs[0] = 0x1A
	return int32(instr.Length), nil
}

// execSpopPassthrough decodes a coprocessor opcode's operands (done
// already by the time exec runs) without acting on them; the
// floating-point coprocessor itself is out of scope (spec §1) and the
// SPOP* family is "decoded but treated as externally dispatched."
func execSpopPassthrough(cpu *CPU, instr *Instruction) (int32, error) {
	return int32(instr.Length), nil
}

// execMovblw copies words from [R0] to [R1] until R2 reaches zero,
// decrementing R2 and advancing R0/R1 by 4 each word. It takes no
// decoded operands — R0/R1/R2 are pre-set by the caller, the same
// scratch-register convention phase 3 of the context switch uses
// (spec §4.7 parenthetical, §12 supplement).
func execMovblw(cpu *CPU, instr *Instruction) (int32, error) {
	for cpu.regs[2] != 0 {
		v, err := cpu.b.ReadWord(cpu.regs[0], bus.OperandFetch)
		if err != nil {
			return 0, err
		}
		if err := cpu.b.WriteWord(cpu.regs[1], v); err != nil {
			return 0, err
		}
		cpu.regs[0] += 4
		cpu.regs[1] += 4
		cpu.regs[2]--
	}
	return int32(instr.Length), nil
}

// execStrend scans bytes starting at R0 until it finds a zero byte,
// leaving R0 pointing at the terminator. It takes no decoded operands
// and touches no flags (spec §12 supplement).
func execStrend(cpu *CPU, instr *Instruction) (int32, error) {
	for {
		v, err := cpu.b.ReadByte(cpu.regs[0], bus.OperandFetch)
		if err != nil {
			return 0, err
		}
		if v == 0 {
			break
		}
		cpu.regs[0]++
	}
	return int32(instr.Length), nil
}

// execCflush is a no-op: the real WE32100 has a dedicated empty
// dispatch arm for CFLUSH (unlike the catch-all-unimplemented opcodes
// execUnimplemented backs), and this core has no instruction cache to
// flush.
func execCflush(cpu *CPU, instr *Instruction) (int32, error) {
	return int32(instr.Length), nil
}

// execClr implements CLRW/CLRH/CLRB: writes 0, sets Z, clears N/C/V.
func execClr(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[0].effectiveWidth()
	if err := cpu.writeOperand(&instr.Operands[0], 0); err != nil {
		return 0, err
	}
	cpu.setNZFlags(0, width)
	cpu.setC(false)
	cpu.setV(false)
	return int32(instr.Length), nil
}

// execInc/execDec implement INCW/H/B and DECW/H/B: a read-modify-write
// add/subtract of literal 1 against the single operand, using the same
// flag logic as ADD2/SUB2.
func execInc(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[0].effectiveWidth()
	dst, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}

	sum := uint64(dst) + 1
	result := truncate(sum, width)

	cpu.setC(sum > uint64(maskAt(width)))
	sign := signBitAt(width)
	cpu.setV((dst^(^uint32(1)))&(dst^result)&sign != 0)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[0], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

func execDec(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[0].effectiveWidth()
	dst, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}

	diff := uint64(dst) - 1
	result := truncate(diff, width)

	cpu.setC((uint32(1) & maskAt(width)) > (dst & maskAt(width)))
	cpu.setVFlagOp(uint32(int32(dst)-1), width)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[0], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

// execTst implements TSTW/TSTH/TSTB: a read-only sign/zero check. C
// and V are always cleared.
func execTst(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[0].effectiveWidth()
	v, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	cpu.setNZFlags(v, width)
	cpu.setC(false)
	cpu.setV(false)
	return int32(instr.Length), nil
}

// execSwap implements SWAPWI/SWAPHI/SWAPBI: exchanges the operand with
// R0, setting N/Z from the operand's value before the swap.
func execSwap(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[0].effectiveWidth()
	a, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	b := cpu.regs[0]
	if err := cpu.writeOperand(&instr.Operands[0], b); err != nil {
		return 0, err
	}
	cpu.regs[0] = a
	cpu.setNZFlags(a, width)
	cpu.setC(false)
	cpu.setV(false)
	return int32(instr.Length), nil
}

// execPushaw implements PUSHAW: pushes the effective address of the
// operand rather than its value (spec §4.8; contrast execPushw).
func execPushaw(cpu *CPU, instr *Instruction) (int32, error) {
	addr, err := cpu.effectiveAddress(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	if err := cpu.stackPush(addr); err != nil {
		return 0, err
	}
	cpu.setNZFlags(addr, WidthWord)
	cpu.setC(false)
	cpu.setV(false)
	return int32(instr.Length), nil
}
