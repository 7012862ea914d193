package cpu

// Field extract/insert (spec §4.6). Operands are (width-1, offset,
// source, dest). The field width is (width-1 & 0x1F) + 1, ranging
// 1-32; width 32 needs an explicit all-ones mask since 1<<32 overflows
// a uint32. EXTFW's real mask can additionally wrap across the 32-bit
// boundary when width+offset>32 (a circular-field-extraction quirk);
// that wraparound is not implemented here (Open Question, see
// DESIGN.md) — offsets that push a field past bit 31 simply lose the
// high bits rather than wrapping them back in at bit 0.

func fieldWidthAndMask(raw uint32) (uint, uint32) {
	width := uint(raw&0x1F) + 1
	if width == 32 {
		return 32, 0xFFFFFFFF
	}
	return width, (uint32(1) << width) - 1
}

func execExtf(cpu *CPU, instr *Instruction) (int32, error) {
	rawWidth, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	rawOffset, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}
	source, err := cpu.readOperand(&instr.Operands[2])
	if err != nil {
		return 0, err
	}

	_, mask := fieldWidthAndMask(rawWidth)
	offset := uint(rawOffset) & 0x1F

	result := (source >> offset) & mask
	cpu.setNZFlags(result, instr.Width)

	if err := cpu.writeOperand(&instr.Operands[3], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

func execInsf(cpu *CPU, instr *Instruction) (int32, error) {
	rawWidth, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	rawOffset, err := cpu.readOperand(&instr.Operands[1])
	if err != nil {
		return 0, err
	}
	source, err := cpu.readOperand(&instr.Operands[2])
	if err != nil {
		return 0, err
	}
	dest, err := cpu.readOperand(&instr.Operands[3])
	if err != nil {
		return 0, err
	}

	_, mask := fieldWidthAndMask(rawWidth)
	offset := uint(rawOffset) & 0x1F

	cleared := dest &^ (mask << offset)
	result := cleared | ((source & mask) << offset)
	cpu.setNZFlags(result, instr.Width)

	if err := cpu.writeOperand(&instr.Operands[3], result); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}
