package cpu

import "we32100/internal/bus"

// stackPush writes at SP, then increments SP by 4 (spec §4.8, §9 open
// question: order matters and is preserved exactly as documented).
func (cpu *CPU) stackPush(value uint32) error {
	if err := cpu.b.WriteWord(cpu.regs[RegSP], value); err != nil {
		return err
	}
	cpu.regs[RegSP] += 4
	return nil
}

// stackPop reads at SP-4, then decrements SP by 4.
func (cpu *CPU) stackPop() (uint32, error) {
	v, err := cpu.b.ReadWord(cpu.regs[RegSP]-4, bus.AddressFetch)
	if err != nil {
		return 0, err
	}
	cpu.regs[RegSP] -= 4
	return v, nil
}

func execPushw(cpu *CPU, instr *Instruction) (int32, error) {
	v, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	if err := cpu.stackPush(v); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

func execPopw(cpu *CPU, instr *Instruction) (int32, error) {
	v, err := cpu.stackPop()
	if err != nil {
		return 0, err
	}
	if err := cpu.writeOperand(&instr.Operands[0], v); err != nil {
		return 0, err
	}
	return int32(instr.Length), nil
}

// execSave implements SAVE(reg): saves FP and R[reg..9) into a fixed
// 28-byte frame at SP, then SP+=28 and FP=SP (spec §4.8). The operand
// names the first register to save: FP goes at SP and R[i] at
// SP+4*(i-reg+1). With reg=3 that fills the 28 bytes exactly; a larger
// reg leaves the top slots untouched, and a smaller one writes past
// SP+28 (Open Question, see DESIGN.md).
func execSave(cpu *CPU, instr *Instruction) (int32, error) {
	regRaw, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	reg := int(regRaw) & 0xF

	base := cpu.regs[RegSP]
	if err := cpu.b.WriteWord(base, cpu.regs[RegFP]); err != nil {
		return 0, err
	}
	for i := reg; i < 9; i++ {
		if err := cpu.b.WriteWord(base+uint32(4*(i-reg+1)), cpu.regs[i]); err != nil {
			return 0, err
		}
	}
	cpu.regs[RegSP] = base + 28
	cpu.regs[RegFP] = cpu.regs[RegSP]
	return int32(instr.Length), nil
}

// execRestore reverses execSave.
func execRestore(cpu *CPU, instr *Instruction) (int32, error) {
	regRaw, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	reg := int(regRaw) & 0xF

	base := cpu.regs[RegFP] - 28
	fp, err := cpu.b.ReadWord(base, bus.AddressFetch)
	if err != nil {
		return 0, err
	}
	for i := reg; i < 9; i++ {
		v, err := cpu.b.ReadWord(base+uint32(4*(i-reg+1)), bus.AddressFetch)
		if err != nil {
			return 0, err
		}
		cpu.regs[i] = v
	}
	cpu.regs[RegSP] = base
	cpu.regs[RegFP] = fp
	return int32(instr.Length), nil
}
