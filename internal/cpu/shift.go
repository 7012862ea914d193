package cpu

// Shifts (spec §4.6): ALSW3 (logical left, word-only), LLSW3/H3/B3
// (logical left, width-suffixed), LRSW3 (logical right, word-only),
// ARSW3/H3/B3 (arithmetic right, sign-preserving), ROTW (32-bit rotate
// right). All are 3-operand: two sources and a destination, never a
// read-modify-write of the destination. Shift amount is the low 5 bits
// of operand 0. Every shift sets N/Z from the result and clears C; V
// is cleared, except LRSW3, which sets it via setVFlagOp of the result
// (Open Question, see DESIGN.md).

func execAlsw3(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[2].effectiveWidth()
	amountRaw, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	value, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	amount := uint(amountRaw) & 0x1F
	result := (value << amount) & maskAt(width)

	cpu.setC(false)
	cpu.setV(false)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[2], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

func execLls3(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[2].effectiveWidth()
	amountRaw, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	value, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	amount := uint(amountRaw) & 0x1F
	result := (value << amount) & maskAt(width)

	cpu.setC(false)
	cpu.setV(false)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[2], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

func execLrsw3(cpu *CPU, instr *Instruction) (int32, error) {
	width := instr.Operands[2].effectiveWidth()
	amountRaw, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	value, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	amount := uint(amountRaw) & 0x1F
	result := (value & maskAt(width)) >> amount

	cpu.setC(false)
	cpu.setVFlagOp(result, width)
	cpu.setNZFlags(result, width)

	if err := cpu.writeOperand(&instr.Operands[2], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

// execArs3 implements ARSW3/ARSH3/ARSB3. A genuine hardware quirk,
// preserved rather than normalized away: the shift-count operand's own
// effective width governs the sign/width interpretation of the value
// being shifted, while the result's N/Z flags key off the destination
// operand's width (see DESIGN.md Open Question decisions).
func execArs3(cpu *CPU, instr *Instruction) (int32, error) {
	countWidth := instr.Operands[0].effectiveWidth()
	dstWidth := instr.Operands[2].effectiveWidth()
	amountRaw, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	value, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	amount := uint(amountRaw) & 0x1F
	signed := signExtend(value, countWidth)
	result := uint32(signed>>amount) & maskAt(dstWidth)

	cpu.setC(false)
	cpu.setV(false)
	cpu.setNZFlags(result, dstWidth)

	if err := cpu.writeOperand(&instr.Operands[2], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

func execRotw3(cpu *CPU, instr *Instruction) (int32, error) {
	amountRaw, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	value, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	amount := uint(amountRaw) & 31
	result := (value >> amount) | (value << (32 - amount))
	if amount == 0 {
		result = value
	}

	cpu.setC(false)
	cpu.setV(false)
	cpu.setNZFlags(result, WidthWord)

	if err := cpu.writeOperand(&instr.Operands[2], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}
