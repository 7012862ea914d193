package cpu

// Logical AND/OR/XOR/MCOM/MNEG (spec §4.6): C cleared, V per
// setVFlagOp of the result. AND/OR/XOR each have a 2-operand
// (dst = dst OP src) and a 3-operand (dst = src0 OP src1) form;
// MCOM/MNEG are 2-operand only (dst = OP src). All are width-suffixed
// word/half/byte like the arithmetic ops.

func execAnd(cpu *CPU, instr *Instruction) (int32, error) {
	return execLogical2(cpu, instr, func(a, b uint32) uint32 { return a & b })
}

func execOr(cpu *CPU, instr *Instruction) (int32, error) {
	return execLogical2(cpu, instr, func(a, b uint32) uint32 { return a | b })
}

func execXor(cpu *CPU, instr *Instruction) (int32, error) {
	return execLogical2(cpu, instr, func(a, b uint32) uint32 { return a ^ b })
}

func execLogical2(cpu *CPU, instr *Instruction, op func(a, b uint32) uint32) (int32, error) {
	width := instr.Operands[1].effectiveWidth()
	src, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	dst, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	result := op(dst, src) & maskAt(width)
	cpu.setC(false)
	cpu.setVFlagOp(result, width)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[1], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

func execAnd3(cpu *CPU, instr *Instruction) (int32, error) {
	return execLogical3(cpu, instr, func(a, b uint32) uint32 { return a & b })
}

func execOr3(cpu *CPU, instr *Instruction) (int32, error) {
	return execLogical3(cpu, instr, func(a, b uint32) uint32 { return a | b })
}

func execXor3(cpu *CPU, instr *Instruction) (int32, error) {
	return execLogical3(cpu, instr, func(a, b uint32) uint32 { return a ^ b })
}

func execLogical3(cpu *CPU, instr *Instruction, op func(a, b uint32) uint32) (int32, error) {
	width := instr.Operands[2].effectiveWidth()
	a, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	b, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	result := op(a, b) & maskAt(width)
	cpu.setC(false)
	cpu.setVFlagOp(result, width)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[2], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

// execMcom implements MCOMW/MCOMH/MCOMB: dst = ^src, a 2-operand
// complement rather than a read-modify-write of a single operand.
func execMcom(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[1].effectiveWidth()
	v, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	result := (^v) & maskAt(width)
	cpu.setC(false)
	cpu.setVFlagOp(result, width)
	cpu.setNZFlags(result, width)
	if err := cpu.writeOperand(&instr.Operands[1], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

// execMneg implements MNEGW/MNEGH/MNEGB: dst = -src (two's complement
// negate), a 2-operand op rather than a read-modify-write.
func execMneg(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[1].effectiveWidth()
	v, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	result := truncate(uint64(-int64(int32(v))), width)
	cpu.setC(false)
	cpu.setVFlagOp(result, width)
	cpu.setNZFlags(result, width)
	if err := cpu.writeOperand(&instr.Operands[1], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

// execCmp implements CMP: a=operand0, b=operand1, no write-back.
func execCmp(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Width
	a, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	b, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	cpu.setZ(a&maskAt(width) == b&maskAt(width))
	cpu.setN(signExtend(b, width) < signExtend(a, width))
	cpu.setC(b&maskAt(width) < a&maskAt(width))
	cpu.setV(false)
	return int32(instr.Length), nil
}

// execBit implements BIT: result = a&b, sets N/Z, clears C/V, no
// write-back.
func execBit(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Width
	a, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	b, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	result := (a & b) & maskAt(width)
	cpu.setNZFlags(result, width)
	cpu.setC(false)
	cpu.setV(false)
	return int32(instr.Length), nil
}
