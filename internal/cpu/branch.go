package cpu

import "we32100/internal/bus"

/*
   Control flow (spec §4.8).

   Every control-transfer exec function here leaves PC alone and
   returns the signed delta from the instruction's start PC to the
   target rather than its own length, so the step loop's uniform `PC += increment`
   still lands exactly on the intended target (two's-complement
   subtraction wraps correctly even across the 32-bit boundary).
*/

func alwaysTrue(*CPU) bool  { return true }
func alwaysFalse(*CPU) bool { return false }

func condEQ(cpu *CPU) bool  { return cpu.Z() }
func condNE(cpu *CPU) bool  { return !cpu.Z() }
func condN(cpu *CPU) bool   { return cpu.N() }
func condNN(cpu *CPU) bool  { return !cpu.N() }
func condV(cpu *CPU) bool   { return cpu.V() }
func condNV(cpu *CPU) bool  { return !cpu.V() }
func condGE(cpu *CPU) bool  { return !cpu.N() || cpu.Z() }
func condGT(cpu *CPU) bool  { return !cpu.N() && !cpu.Z() }
func condLE(cpu *CPU) bool  { return cpu.N() || cpu.Z() }
func condLT(cpu *CPU) bool  { return cpu.N() && !cpu.Z() }
func condGEU(cpu *CPU) bool { return !cpu.C() }
func condGTU(cpu *CPU) bool { return !cpu.C() && !cpu.Z() }
func condLEU(cpu *CPU) bool { return cpu.C() || cpu.Z() }
func condLTU(cpu *CPU) bool { return cpu.C() }

// execBranch implements a conditional branch. The operand is a
// Literal displacement of the opcode's declared width (byte or half);
// when the condition holds it replaces the default "size of
// instruction" increment, per spec §4.8.
func execBranch(cpu *CPU, instr *Instruction, cond func(*CPU) bool) (int32, error) {
	if cond(cpu) {
		return int32(instr.Operands[0].Embedded), nil
	}
	return int32(instr.Length), nil
}

func execJmp(cpu *CPU, instr *Instruction) (int32, error) {
	target, err := cpu.effectiveAddress(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	return int32(target - cpu.PC()), nil
}

func execJsb(cpu *CPU, instr *Instruction) (int32, error) {
	target, err := cpu.effectiveAddress(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	returnPC := cpu.PC() + instr.Length
	if err := cpu.stackPush(returnPC); err != nil {
		return 0, err
	}
	return int32(target - cpu.PC()), nil
}

func execBsb(cpu *CPU, instr *Instruction) (int32, error) {
	returnPC := cpu.PC() + instr.Length
	if err := cpu.stackPush(returnPC); err != nil {
		return 0, err
	}
	return int32(instr.Operands[0].Embedded), nil
}

// execRsb returns a constructor bound to cond, used for RSB (always)
// and the conditional R* returns (spec §4.8).
func execRsb(cond func(*CPU) bool) func(*CPU, *Instruction) (int32, error) {
	return func(cpu *CPU, instr *Instruction) (int32, error) {
		if !cond(cpu) {
			return int32(instr.Length), nil
		}
		target, err := cpu.stackPop()
		if err != nil {
			return 0, err
		}
		return int32(target - cpu.PC()), nil
	}
}

// execCall implements CALL(src,dst): pushes the return PC then AP,
// advancing SP by 8 total, then sets PC=dst, AP=src. The return PC
// lands at the lower address (entry SP) and AP at the higher one
// (entry SP+4) — the opposite order from a naive AP-then-return-PC
// push, matching the real WE32100's direct SP/SP+4 writes.
func execCall(cpu *CPU, instr *Instruction) (int32, error) {
	src, err := cpu.readOperand(&instr.Operands[0])
	if err != nil {
		return 0, err
	}
	target, err := cpu.effectiveAddress(&instr.Operands[1])
	if err != nil {
		return 0, err
	}

	returnPC := cpu.PC() + instr.Length
	if err := cpu.stackPush(returnPC); err != nil {
		return 0, err
	}
	if err := cpu.stackPush(cpu.regs[RegAP]); err != nil {
		return 0, err
	}
	cpu.regs[RegAP] = src
	return int32(target - cpu.PC()), nil
}

// execRet implements RET: SP=AP, PC=[old_SP-8], AP=[old_SP-4], where
// old_SP is the SP value on entry (spec §4.8).
func execRet(cpu *CPU, instr *Instruction) (int32, error) {
	oldSP := cpu.regs[RegSP]
	newPC, err := cpu.b.ReadWord(oldSP-8, bus.AddressFetch)
	if err != nil {
		return 0, err
	}
	newAP, err := cpu.b.ReadWord(oldSP-4, bus.AddressFetch)
	if err != nil {
		return 0, err
	}
	cpu.regs[RegSP] = cpu.regs[RegAP]
	cpu.regs[RegAP] = newAP
	return int32(newPC - cpu.PC()), nil
}
