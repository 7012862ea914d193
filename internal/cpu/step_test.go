package cpu

import (
	"errors"
	"testing"
)

const scenarioBase = 0x700000

// Scenario A: `87 04 44` MOVB literal 4 to R4.
func TestScenarioA_MovbLiteral(t *testing.T) {
	cpu, mem := newTestCPU(1 << 23)
	loadProgram(t, cpu, mem, scenarioBase, []byte{0x87, 0x04, 0x44})

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if cpu.Reg(4) != 4 {
		t.Errorf("R4 = %#x, want 4", cpu.Reg(4))
	}
	if cpu.PC() != scenarioBase+3 {
		t.Errorf("PC = %#x, want %#x", cpu.PC(), scenarioBase+3)
	}
}

// Scenario B: `84 4F 78 56 34 12 43` MOVW immediate 0x12345678 to R3.
func TestScenarioB_MovwImmediate(t *testing.T) {
	cpu, mem := newTestCPU(1 << 23)
	loadProgram(t, cpu, mem, scenarioBase, []byte{0x84, 0x4F, 0x78, 0x56, 0x34, 0x12, 0x43})

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if cpu.Reg(3) != 0x12345678 {
		t.Errorf("R3 = %#x, want 0x12345678", cpu.Reg(3))
	}
	if cpu.PC() != scenarioBase+7 {
		t.Errorf("PC = %#x, want %#x", cpu.PC(), scenarioBase+7)
	}
	if cpu.Z() {
		t.Error("Z should be clear")
	}
	if cpu.N() {
		t.Error("N should be clear")
	}
}

// Scenario C: `87 C1 06 40` with R1=0x700200, byte at 0x700206 = 0x1F.
func TestScenarioC_ByteDisplacement(t *testing.T) {
	cpu, mem := newTestCPU(1 << 23)
	loadProgram(t, cpu, mem, scenarioBase, []byte{0x87, 0xC1, 0x06, 0x40})
	cpu.SetReg(1, 0x700200)
	if err := mem.WriteByte(0x700206, 0x1F); err != nil {
		t.Fatalf("poke: %v", err)
	}

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if cpu.Reg(0) != 0x1F {
		t.Errorf("R0 = %#x, want 0x1F", cpu.Reg(0))
	}
	if cpu.PC() != scenarioBase+4 {
		t.Errorf("PC = %#x, want %#x", cpu.PC(), scenarioBase+4)
	}
}

// Scenario D: decode `30 0D` (ENBVJMP).
func TestScenarioD_DecodeTwoByteOpcode(t *testing.T) {
	_, mem := newTestCPU(1 << 23)
	if err := mem.Load(scenarioBase, []byte{0x30, 0x0D}); err != nil {
		t.Fatalf("load: %v", err)
	}

	instr, err := Decode(mem, scenarioBase)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if instr.Opcode != 0x300D {
		t.Errorf("Opcode = %#x, want 0x300D", instr.Opcode)
	}
	if instr.Name != "ENBVJMP" {
		t.Errorf("Name = %q, want ENBVJMP", instr.Name)
	}
	if instr.Length != 2 {
		t.Errorf("Length = %d, want 2", instr.Length)
	}
	if instr.NumOps != 0 {
		t.Errorf("NumOps = %d, want 0", instr.NumOps)
	}
}

// Scenario E: `87 E7 40 E2 C1 04` MOVB with expanded operands.
func TestScenarioE_ExpandedOperands(t *testing.T) {
	_, mem := newTestCPU(1 << 23)
	if err := mem.Load(scenarioBase, []byte{0x87, 0xE7, 0x40, 0xE2, 0xC1, 0x04}); err != nil {
		t.Fatalf("load: %v", err)
	}

	instr, err := Decode(mem, scenarioBase)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	op0 := instr.Operands[0]
	if op0.Mode != ModeRegister || !op0.Expanded || op0.ExpandedType != WidthSByte || op0.Register != 0 || op0.Size != 2 {
		t.Errorf("operand[0] = %+v, want Register/SByte/r0/size2", op0)
	}

	op1 := instr.Operands[1]
	if op1.Mode != ModeByteDisplacement || !op1.Expanded || op1.ExpandedType != WidthUHalf ||
		op1.Register != 1 || op1.Embedded != 4 || op1.Size != 3 {
		t.Errorf("operand[1] = %+v, want ByteDisplacement/UHalf/r1/embedded4/size3", op1)
	}

	if instr.Length != 6 {
		t.Errorf("Length = %d, want 6", instr.Length)
	}
}

// Scenario F: `AC 00 40` with R0=0, DIVW2 by zero.
func TestScenarioF_DivideByZero(t *testing.T) {
	cpu, mem := newTestCPU(1 << 23)
	loadProgram(t, cpu, mem, scenarioBase, []byte{0xAC, 0x00, 0x40})
	cpu.SetReg(0, 0)

	_, err := cpu.StepWithError()
	if err == nil {
		t.Fatal("expected an error")
	}
	var exc *Exception
	if !errors.As(err, &exc) {
		t.Fatalf("error = %v, want *Exception", err)
	}
	if !errors.Is(exc.Err, ErrIntegerZeroDivide) {
		t.Errorf("exception wraps %v, want ErrIntegerZeroDivide", exc.Err)
	}
	if cpu.PC() != scenarioBase {
		t.Errorf("PC = %#x, want unchanged %#x", cpu.PC(), scenarioBase)
	}
}

// Arithmetic width edge cases (spec §8 testable property 6).
func TestAddOverflowAndCarry(t *testing.T) {
	cpu, mem := newTestCPU(1 << 23)
	// ADDW2 r0, r1 : 0x9C descriptor(r0)=0x40 descriptor(r1)=0x41
	loadProgram(t, cpu, mem, scenarioBase, []byte{0x9C, 0x40, 0x41})
	cpu.SetReg(0, 1)
	cpu.SetReg(1, 0x7FFFFFFF)

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !cpu.V() {
		t.Error("expected V set on signed overflow")
	}
	if !cpu.N() {
		t.Error("expected N set (result is negative)")
	}
	if cpu.C() {
		t.Error("expected C clear")
	}
}

func TestAddCarryAndZero(t *testing.T) {
	cpu, mem := newTestCPU(1 << 23)
	loadProgram(t, cpu, mem, scenarioBase, []byte{0x9C, 0x40, 0x41})
	cpu.SetReg(0, 1)
	cpu.SetReg(1, 0xFFFFFFFF)

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !cpu.Z() {
		t.Error("expected Z set")
	}
	if !cpu.C() {
		t.Error("expected C set on unsigned overflow")
	}
	if cpu.N() {
		t.Error("expected N clear")
	}
	if cpu.V() {
		t.Error("expected V clear")
	}
}

// Context-switch invariant: onInterrupt followed by RETPS restores the
// register file/PSW to its pre-interrupt state modulo R-save
// differences (spec §8 testable property 7).
func TestInterruptRetpsRoundTrip(t *testing.T) {
	cpu, mem := newTestCPU(1 << 23)

	const oldPCBP = 0x1000
	const newPCBP = 0x2000
	const vector = 2

	cpu.SetLevel(Kernel)
	cpu.regs[RegPCBP] = oldPCBP
	cpu.regs[RegISP] = 0x3000
	cpu.setPC(scenarioBase)
	cpu.regs[RegSP] = 0x4000
	cpu.setRBit(true)
	cpu.regs[0] = 0x11
	cpu.regs[8] = 0x88
	cpu.regs[RegAP] = 0xAAAA
	cpu.regs[RegFP] = 0xFFFF
	savedPSW := cpu.psw()

	if err := mem.WriteWord(interruptVectorBase+4*vector, newPCBP); err != nil {
		t.Fatalf("poke vector: %v", err)
	}
	// New PCB's PSW carries the R-bit so phase 1 saves the full
	// register set, and phase 3's terminator (count=0) so block copy
	// is a no-op.
	if err := mem.WriteWord(newPCBP+pcbOffPSW, 1<<pswShiftR); err != nil {
		t.Fatalf("poke new psw: %v", err)
	}
	if err := mem.WriteWord(newPCBP+pcbOffPC, 0x550000); err != nil {
		t.Fatalf("poke new pc: %v", err)
	}
	if err := mem.WriteWord(newPCBP+pcbOffSP, 0x6000); err != nil {
		t.Fatalf("poke new sp: %v", err)
	}
	if err := mem.WriteWord(newPCBP+pcbOffBlock, 0); err != nil {
		t.Fatalf("poke block terminator: %v", err)
	}

	if err := cpu.onInterrupt(vector); err != nil {
		t.Fatalf("onInterrupt: %v", err)
	}
	if cpu.regs[RegPCBP] != newPCBP {
		t.Fatalf("PCBP after interrupt = %#x, want %#x", cpu.regs[RegPCBP], newPCBP)
	}

	if _, err := execRetps(cpu, &Instruction{}); err != nil {
		t.Fatalf("retps: %v", err)
	}

	if cpu.regs[RegPCBP] != oldPCBP {
		t.Errorf("PCBP after retps = %#x, want %#x", cpu.regs[RegPCBP], oldPCBP)
	}
	if cpu.PC() != scenarioBase {
		t.Errorf("PC after retps = %#x, want %#x", cpu.PC(), scenarioBase)
	}
	if cpu.regs[RegSP] != 0x4000 {
		t.Errorf("SP after retps = %#x, want 0x4000", cpu.regs[RegSP])
	}
	if cpu.regs[0] != 0x11 || cpu.regs[8] != 0x88 {
		t.Errorf("R0/R8 after retps = %#x/%#x, want 0x11/0x88", cpu.regs[0], cpu.regs[8])
	}
	// loadSavedRegisters restores AP/FP from the PCB, not from the
	// live register phaseSaveOld repointed at oldPCBP+52 on entry.
	if cpu.regs[RegAP] != 0xAAAA || cpu.regs[RegFP] != 0xFFFF {
		t.Errorf("AP/FP after retps = %#x/%#x, want 0xAAAA/0xFFFF", cpu.regs[RegAP], cpu.regs[RegFP])
	}
	if cpu.psw() != savedPSW {
		t.Errorf("PSW after retps = %#x, want %#x", cpu.psw(), savedPSW)
	}
}

// TestCallpsRetpsViaStep drives CALLPS then RETPS through
// cpu.StepWithError() end to end, unlike TestInterruptRetpsRoundTrip
// above (which calls execRetps directly). This exercises the
// delta-return contract: both opcodes set PC themselves and must
// report the distance the step loop still needs to add, not 0.
func TestCallpsRetpsViaStep(t *testing.T) {
	cpu, mem := newTestCPU(1 << 23)

	const oldPCBP = 0x1000
	const newPCBP = 0x2000

	cpu.SetLevel(Kernel)
	cpu.regs[RegPCBP] = oldPCBP
	cpu.regs[RegISP] = 0x3000
	cpu.setPC(scenarioBase)
	cpu.regs[RegSP] = 0x4000
	cpu.setRBit(false)
	cpu.regs[0] = newPCBP

	if err := mem.WriteWord(newPCBP+pcbOffPSW, 0); err != nil {
		t.Fatalf("poke new psw: %v", err)
	}
	if err := mem.WriteWord(newPCBP+pcbOffPC, 0x550000); err != nil {
		t.Fatalf("poke new pc: %v", err)
	}
	if err := mem.WriteWord(newPCBP+pcbOffSP, 0x6000); err != nil {
		t.Fatalf("poke new sp: %v", err)
	}

	// CALLPS, two-byte opcode 0x30 0xAC, no decoded operands.
	if err := mem.Load(scenarioBase, []byte{0x30, 0xAC}); err != nil {
		t.Fatalf("load callps: %v", err)
	}
	// RETPS at the new PCB's PC, 0x30 0xC8.
	if err := mem.Load(0x550000, []byte{0x30, 0xC8}); err != nil {
		t.Fatalf("load retps: %v", err)
	}

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("callps step: %v", err)
	}
	if cpu.regs[RegPCBP] != newPCBP {
		t.Fatalf("PCBP after callps = %#x, want %#x", cpu.regs[RegPCBP], newPCBP)
	}
	if cpu.PC() != 0x550000 {
		t.Fatalf("PC after callps = %#x, want %#x", cpu.PC(), 0x550000)
	}
	if cpu.regs[RegSP] != 0x6000 {
		t.Errorf("SP after callps = %#x, want 0x6000", cpu.regs[RegSP])
	}

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("retps step: %v", err)
	}
	if cpu.regs[RegPCBP] != oldPCBP {
		t.Errorf("PCBP after retps = %#x, want %#x", cpu.regs[RegPCBP], oldPCBP)
	}
	if cpu.PC() != scenarioBase {
		t.Errorf("PC after retps = %#x, want %#x", cpu.PC(), scenarioBase)
	}
	if cpu.regs[RegSP] != 0x4000 {
		t.Errorf("SP after retps = %#x, want 0x4000", cpu.regs[RegSP])
	}
}
