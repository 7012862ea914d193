package cpu

import "testing"

func TestConditionFunctions(t *testing.T) {
	cpu := New(nil)

	cpu.setPSW(0)
	cpu.setZ(true)
	if !condEQ(cpu) || condNE(cpu) {
		t.Error("condEQ/condNE wrong with Z set")
	}

	cpu.setPSW(0)
	cpu.setN(true)
	if !condN(cpu) || condNN(cpu) {
		t.Error("condN/condNN wrong with N set")
	}
	if !condLT(cpu) || condGE(cpu) {
		t.Error("condLT/condGE wrong with N set, Z clear")
	}

	cpu.setPSW(0)
	if !condGE(cpu) || condLT(cpu) {
		t.Error("condGE/condLT wrong with N and Z clear")
	}
	if !condGT(cpu) || condLE(cpu) {
		t.Error("condGT/condLE wrong with N and Z clear")
	}

	cpu.setPSW(0)
	cpu.setC(true)
	if !condLTU(cpu) || condGEU(cpu) {
		t.Error("condLTU/condGEU wrong with C set")
	}
}

// BEB (byte-displacement, opcode 0x6F): taken when Z is set, branches
// by the embedded signed displacement instead of instruction length.
func TestBranchTaken(t *testing.T) {
	cpu, mem := newTestCPU(1 << 16)
	loadProgram(t, cpu, mem, 0x1000, []byte{0x6F, 0x10})
	cpu.setZ(true)

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if cpu.PC() != 0x1010 {
		t.Errorf("PC = %#x, want %#x", cpu.PC(), 0x1010)
	}
}

func TestBranchNotTaken(t *testing.T) {
	cpu, mem := newTestCPU(1 << 16)
	loadProgram(t, cpu, mem, 0x1000, []byte{0x6F, 0x10})
	cpu.setZ(false)

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if cpu.PC() != 0x1002 {
		t.Errorf("PC = %#x, want %#x", cpu.PC(), 0x1002)
	}
}

// JSB(0x34) to an absolute target, then RSB(0x78) back: the return
// address JSB pushes is exactly what RSB pops.
func TestJsbRsbRoundTrip(t *testing.T) {
	const jsbAddr = 0x1000
	const rsbAddr = 0x2000
	const sp = 0x8000

	cpu, mem := newTestCPU(1 << 20)
	if err := mem.Load(jsbAddr, []byte{0x34, 0x7F, 0x00, 0x20, 0x00, 0x00}); err != nil {
		t.Fatalf("load jsb: %v", err)
	}
	if err := mem.Load(rsbAddr, []byte{0x78}); err != nil {
		t.Fatalf("load rsb: %v", err)
	}
	cpu.setPC(jsbAddr)
	cpu.SetReg(RegSP, sp)

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("jsb step: %v", err)
	}
	if cpu.PC() != rsbAddr {
		t.Fatalf("PC after jsb = %#x, want %#x", cpu.PC(), rsbAddr)
	}
	if cpu.Reg(RegSP) != sp+4 {
		t.Errorf("SP after jsb = %#x, want %#x", cpu.Reg(RegSP), sp+4)
	}
	retAddr, err := mem.ReadWord(sp, 0)
	if err != nil {
		t.Fatalf("read saved return addr: %v", err)
	}
	if retAddr != jsbAddr+6 {
		t.Errorf("saved return addr = %#x, want %#x", retAddr, jsbAddr+6)
	}

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("rsb step: %v", err)
	}
	if cpu.PC() != jsbAddr+6 {
		t.Errorf("PC after rsb = %#x, want %#x", cpu.PC(), jsbAddr+6)
	}
	if cpu.Reg(RegSP) != sp {
		t.Errorf("SP after rsb = %#x, want %#x", cpu.Reg(RegSP), sp)
	}
}

// CALL(src,dst) followed by RET restores the caller's AP, leaves SP at
// the AP that CALL installed, and returns to the instruction after CALL.
func TestCallRetRoundTrip(t *testing.T) {
	const callAddr = 0x1000
	const retAddr = 0x2000
	const sp = 0x8000

	cpu, mem := newTestCPU(1 << 20)
	// CALL r0, 0x2000 : descriptor(r0)=0x40, descriptor(absolute)=0x7F + word.
	if err := mem.Load(callAddr, []byte{0x2C, 0x40, 0x7F, 0x00, 0x20, 0x00, 0x00}); err != nil {
		t.Fatalf("load call: %v", err)
	}
	if err := mem.Load(retAddr, []byte{0x08}); err != nil {
		t.Fatalf("load ret: %v", err)
	}
	cpu.setPC(callAddr)
	cpu.SetReg(RegSP, sp)
	cpu.SetReg(RegAP, 0xAAAA)
	cpu.SetReg(0, 0x1234)

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("call step: %v", err)
	}
	if cpu.PC() != retAddr {
		t.Fatalf("PC after call = %#x, want %#x", cpu.PC(), retAddr)
	}
	if cpu.Reg(RegAP) != 0x1234 {
		t.Errorf("AP after call = %#x, want 0x1234", cpu.Reg(RegAP))
	}
	if cpu.Reg(RegSP) != sp+8 {
		t.Errorf("SP after call = %#x, want %#x", cpu.Reg(RegSP), sp+8)
	}
	savedRet, _ := mem.ReadWord(sp, 0)
	savedAP, _ := mem.ReadWord(sp+4, 0)
	if savedAP != 0xAAAA {
		t.Errorf("saved AP = %#x, want 0xAAAA", savedAP)
	}
	if savedRet != callAddr+7 {
		t.Errorf("saved return addr = %#x, want %#x", savedRet, callAddr+7)
	}

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("ret step: %v", err)
	}
	if cpu.PC() != callAddr+7 {
		t.Errorf("PC after ret = %#x, want %#x", cpu.PC(), callAddr+7)
	}
	if cpu.Reg(RegSP) != 0x1234 {
		t.Errorf("SP after ret = %#x, want 0x1234", cpu.Reg(RegSP))
	}
	if cpu.Reg(RegAP) != 0xAAAA {
		t.Errorf("AP after ret = %#x, want 0xAAAA", cpu.Reg(RegAP))
	}
}

// SAVE(3) followed by RESTORE(3) round-trips FP and R3-R8 through a
// 28-byte frame.
func TestSaveRestoreRoundTrip(t *testing.T) {
	const addr = 0x1000
	const sp = 0x9000

	cpu, mem := newTestCPU(1 << 16)
	loadProgram(t, cpu, mem, addr, []byte{0x10, 0x03, 0x18, 0x03})
	cpu.SetReg(RegSP, sp)
	cpu.SetReg(RegFP, 0x11111111)
	for i, v := range []uint32{0x33, 0x44, 0x55, 0x66, 0x77, 0x88} {
		cpu.SetReg(3+i, v)
	}

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("save step: %v", err)
	}
	if cpu.Reg(RegSP) != sp+28 {
		t.Fatalf("SP after save = %#x, want %#x", cpu.Reg(RegSP), sp+28)
	}
	if cpu.Reg(RegFP) != sp+28 {
		t.Errorf("FP after save = %#x, want %#x", cpu.Reg(RegFP), sp+28)
	}
	fpSaved, _ := mem.ReadWord(sp, 0)
	if fpSaved != 0x11111111 {
		t.Errorf("saved FP = %#x, want 0x11111111", fpSaved)
	}

	// Clobber R3-R8 so RESTORE's effect is observable. FP keeps the
	// value SAVE gave it, since RESTORE finds the frame at FP-28.
	for i := 3; i <= 8; i++ {
		cpu.SetReg(i, 0)
	}

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("restore step: %v", err)
	}
	if cpu.Reg(RegSP) != sp {
		t.Errorf("SP after restore = %#x, want %#x", cpu.Reg(RegSP), sp)
	}
	if cpu.Reg(RegFP) != 0x11111111 {
		t.Errorf("FP after restore = %#x, want 0x11111111", cpu.Reg(RegFP))
	}
	want := []uint32{0x33, 0x44, 0x55, 0x66, 0x77, 0x88}
	for i, w := range want {
		if got := cpu.Reg(3 + i); got != w {
			t.Errorf("R%d after restore = %#x, want %#x", 3+i, got, w)
		}
	}
}

// PUSHW/POPW round-trip a value through the stack.
func TestPushwPopwRoundTrip(t *testing.T) {
	const addr = 0x1000
	const sp = 0x9000

	cpu, mem := newTestCPU(1 << 16)
	// PUSHW r0 (0x40); POPW r1 (0x41).
	loadProgram(t, cpu, mem, addr, []byte{0xA0, 0x40, 0x20, 0x41})
	cpu.SetReg(RegSP, sp)
	cpu.SetReg(0, 0xDEADBEEF)

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("pushw step: %v", err)
	}
	if cpu.Reg(RegSP) != sp+4 {
		t.Fatalf("SP after pushw = %#x, want %#x", cpu.Reg(RegSP), sp+4)
	}

	if _, err := cpu.StepWithError(); err != nil {
		t.Fatalf("popw step: %v", err)
	}
	if cpu.Reg(RegSP) != sp {
		t.Errorf("SP after popw = %#x, want %#x", cpu.Reg(RegSP), sp)
	}
	if cpu.Reg(1) != 0xDEADBEEF {
		t.Errorf("R1 after popw = %#x, want 0xDEADBEEF", cpu.Reg(1))
	}
}
