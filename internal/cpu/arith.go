package cpu

/*
   Arithmetic & logical semantics (spec §4.6, component F).

   All work is carried out in 64-bit arithmetic, truncated to the
   operand width at the end, per spec §4.6's opening sentence. Each
   2-operand instruction follows the ADDx2 src,dst convention: operand
   0 is the source, operand 1 is read-modify-written as the
   destination.
*/

func truncate(v uint64, width Width) uint32 {
	return uint32(v) & maskAt(width)
}

// execMove implements MOVB/MOVH/MOVW. Spec §8 scenario B shows MOV
// sets N/Z from the transferred value; C is cleared and V follows
// setVFlagOp of the moved value (always false at word width).
func execMove(cpu *CPU, instr *Instruction) (int32, error) {
	v, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	if err := cpu.writeOperand(&instr.Operands[1], v); err != nil {
		return 0, err
	}
	width := instr.Operands[1].effectiveWidth()
	cpu.setNZFlags(v, width)
	cpu.setC(false)
	cpu.setVFlagOp(v, width)
	return int32(instr.Length), nil
}

// execMoval implements MOVAL: loads the effective address of a memory
// operand into a destination, without dereferencing it.
func execMoval(cpu *CPU, instr *Instruction) (int32, error) {
	addr, err := cpu.effectiveAddress(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	if err := cpu.writeOperand(&instr.Operands[1], addr); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

func execAdd(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[1].effectiveWidth()
	src, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	dst, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	sum := uint64(dst) + uint64(src)
	result := truncate(sum, width)

	cpu.setC(sum > uint64(maskAt(width)))
	sign := signBitAt(width)
	cpu.setV((dst^(^src))&(dst^result)&sign != 0)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[1], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

// execAdd3 implements ADDW3/ADDH3/ADDB3: dst = src0 + src1, a fresh
// third operand rather than a read-modify-write of operand 1.
func execAdd3(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[2].effectiveWidth()
	a, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	b, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	sum := uint64(a) + uint64(b)
	result := truncate(sum, width)

	cpu.setC(sum > uint64(maskAt(width)))
	sign := signBitAt(width)
	cpu.setV((a^(^b))&(a^result)&sign != 0)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[2], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

func execSub(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[1].effectiveWidth()
	src, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	dst, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	diff := uint64(dst) - uint64(src)
	result := truncate(diff, width)

	cpu.setC((src & maskAt(width)) > (dst & maskAt(width)))
	cpu.setVFlagOp(uint32(int32(dst)-int32(src)), width)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[1], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

// execSub3 implements SUBW3/SUBH3/SUBB3: dst = src1 - src0 (the first
// operand is the subtrahend, matching the real WE32100's operand
// order for the 3-operand form).
func execSub3(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[2].effectiveWidth()
	b, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	a, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	diff := uint64(a) - uint64(b)
	result := truncate(diff, width)

	cpu.setC((b & maskAt(width)) > (a & maskAt(width)))
	cpu.setVFlagOp(uint32(int32(a)-int32(b)), width)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[2], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

// execMul implements MULB2/MULH2/MULW2: a plain wrapping multiply.
// The real WE32100 never computes true multiply overflow — V always
// follows setVFlagOp of the truncated result, so it is architecturally
// always false at word width (see DESIGN.md).
func execMul(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[1].effectiveWidth()
	src, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	dst, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	result := truncate(uint64(dst)*uint64(src), width)

	cpu.setC(false)
	cpu.setVFlagOp(result, width)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[1], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

// execMul3 implements MULW3/MULH3/MULB3: dst = src0 * src1.
func execMul3(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[2].effectiveWidth()
	a, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	b, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	result := truncate(uint64(a)*uint64(b), width)

	cpu.setC(false)
	cpu.setVFlagOp(result, width)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[2], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

// execDiv and its DIV/MOD siblings resolve the "MOD/DIV sign handling
// switches on the declared width, not the expanded one" quirk of spec
// §9: instr.Width (the opcode's nominal width) governs signedness and
// the overflow check, even when an operand was read via an expanded
// descriptor of a different width.
func execDiv(cpu *CPU, instr *Instruction) (int32, error) {
	divisorRaw, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	dividendRaw, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	width := instr.Width
	mask := maskAt(width)
	var divisor, dividend int64
	if width.Signed() {
		divisor = int64(signExtend(divisorRaw, width))
		dividend = int64(signExtend(dividendRaw, width))
	} else {
		divisor = int64(divisorRaw & mask)
		dividend = int64(dividendRaw & mask)
	}

	if divisor == 0 {
		return 0, newException(ErrIntegerZeroDivide, cpu.PC())
	}

	mostNegative, minusOne := mostNegativeAt(width), int64(-1)
	overflow := dividend == mostNegative && divisor == minusOne

	quotient := dividend / divisor
	result := truncate(uint64(quotient), width)

	cpu.setV(overflow)
	cpu.setC(false)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[1], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

// execDiv3 implements DIVW3/DIVH3/DIVB3: dst = src1 / src0.
func execDiv3(cpu *CPU, instr *Instruction) (int32, error) {
	divisorRaw, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	dividendRaw, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	width := instr.Width
	mask := maskAt(width)
	var divisor, dividend int64
	if width.Signed() {
		divisor = int64(signExtend(divisorRaw, width))
		dividend = int64(signExtend(dividendRaw, width))
	} else {
		divisor = int64(divisorRaw & mask)
		dividend = int64(dividendRaw & mask)
	}

	if divisor == 0 {
		return 0, newException(ErrIntegerZeroDivide, cpu.PC())
	}

	mostNegative, minusOne := mostNegativeAt(width), int64(-1)
	overflow := dividend == mostNegative && divisor == minusOne

	quotient := dividend / divisor
	result := truncate(uint64(quotient), width)

	cpu.setV(overflow)
	cpu.setC(false)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[2], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

func execMod(cpu *CPU, instr *Instruction) (int32, error) {
	divisorRaw, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	dividendRaw, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	width := instr.Width
	mask := maskAt(width)
	var divisor, dividend int64
	if width.Signed() {
		divisor = int64(signExtend(divisorRaw, width))
		dividend = int64(signExtend(dividendRaw, width))
	} else {
		divisor = int64(divisorRaw & mask)
		dividend = int64(dividendRaw & mask)
	}

	if divisor == 0 {
		return 0, newException(ErrIntegerZeroDivide, cpu.PC())
	}

	remainder := dividend % divisor
	result := truncate(uint64(remainder), width)

	cpu.setV(dividend == mostNegativeAt(width) && divisor == -1)
	cpu.setC(false)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[1], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

// execMod3 implements MODW3/MODH3/MODB3: dst = src1 % src0.
func execMod3(cpu *CPU, instr *Instruction) (int32, error) {
	divisorRaw, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	dividendRaw, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	width := instr.Width
	mask := maskAt(width)
	var divisor, dividend int64
	if width.Signed() {
		divisor = int64(signExtend(divisorRaw, width))
		dividend = int64(signExtend(dividendRaw, width))
	} else {
		divisor = int64(divisorRaw & mask)
		dividend = int64(dividendRaw & mask)
	}

	if divisor == 0 {
		return 0, newException(ErrIntegerZeroDivide, cpu.PC())
	}

	remainder := dividend % divisor
	result := truncate(uint64(remainder), width)

	cpu.setV(dividend == mostNegativeAt(width) && divisor == -1)
	cpu.setC(false)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[2], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

func signExtend(v uint32, width Width) int32 {
	switch width.Bytes() {
	case 1:
		return int32(int8(v))
	case 2:
		return int32(int16(v))
	default:
		return int32(v)
	}
}

func mostNegativeAt(width Width) int64 {
	switch width.Bytes() {
	case 1:
		return -128
	case 2:
		return -32768
	default:
		return -2147483648
	}
}
