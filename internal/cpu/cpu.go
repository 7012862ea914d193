package cpu

import (
	"fmt"

	"we32100/internal/bus"
)

// resetVector is the physical address the core reads PCBP/PSW/PC/SP
// from after Reset (spec §3).
const resetVector uint32 = 0x80

// interruptVectorBase is the physical address of the interrupt vector
// table (spec §3).
const interruptVectorBase uint32 = 0x8C

// CPU is a WE32100 core (spec §3). It holds no notion of wall-clock
// time or devices; everything outside the 16-register file and the
// decode/execute machinery is delegated to the attached Bus.
type CPU struct {
	regs [16]uint32

	b bus.Bus

	// instr is the most recently decoded instruction, kept around so a
	// debugger or disassembler can inspect what Step just ran.
	instr Instruction

	// vecJumpEnabled tracks ENBVJMP/DISVJMP (spec §12 supplement); it is
	// an observable bit only: interrupt delivery (onInterrupt) always
	// goes through the PCB vector table and never consults it.
	vecJumpEnabled bool

	steps uint64
}

// Steps returns the number of instructions Step/StepWithError has run.
func (cpu *CPU) Steps() uint64 { return cpu.steps }

// New constructs a CPU attached to b. Registers read zero until Reset
// or a test populates them directly.
func New(b bus.Bus) *CPU {
	return &CPU{b: b}
}

// Reg returns register i (0-15).
func (cpu *CPU) Reg(i int) uint32 { return cpu.regs[i] }

// SetReg writes register i (0-15). Exported for test harnesses and the
// debugger; the executor itself uses the unexported writeReg so that
// every register write funnels through one place.
func (cpu *CPU) SetReg(i int, v uint32) { cpu.regs[i] = v }

func (cpu *CPU) readReg(i int8) uint32 { return cpu.regs[i] }

func (cpu *CPU) writeReg(i int8, v uint32) { cpu.regs[i] = v }

// PC returns the program counter.
func (cpu *CPU) PC() uint32 { return cpu.regs[RegPC] }

func (cpu *CPU) setPC(v uint32) { cpu.regs[RegPC] = v }

// LastInstruction returns the most recently decoded instruction, for
// debugger and disassembler use.
func (cpu *CPU) LastInstruction() Instruction { return cpu.instr }

// Reset loads PCBP, PSW, PC and SP from the reset vector at physical
// address 0x80 (spec §3) and clears the vectored-interrupt flag.
// Only a *bus.Error from the four word reads is returned.
func (cpu *CPU) Reset() error {
	pcbp, err := cpu.b.ReadWord(resetVector, bus.AddressFetch)
	if err != nil {
		return err
	}
	psw, err := cpu.b.ReadWord(resetVector+4, bus.AddressFetch)
	if err != nil {
		return err
	}
	pc, err := cpu.b.ReadWord(resetVector+8, bus.AddressFetch)
	if err != nil {
		return err
	}
	sp, err := cpu.b.ReadWord(resetVector+12, bus.AddressFetch)
	if err != nil {
		return err
	}

	cpu.regs[RegPCBP] = pcbp
	cpu.regs[RegPSW] = psw
	cpu.regs[RegPC] = pc
	cpu.regs[RegSP] = sp
	cpu.vecJumpEnabled = false
	return nil
}

// requirePrivileged returns ErrPrivilegedOpcode unless the CPU is
// currently running at Kernel level (spec §4.7 and §7, context-switch and
// CALLPS/RETPS access control).
func (cpu *CPU) requirePrivileged() error {
	if cpu.CurrentLevel() != Kernel {
		return ErrPrivilegedOpcode
	}
	return nil
}

func (cpu *CPU) String() string {
	return fmt.Sprintf("PC=%#08x PSW=%#08x SP=%#08x", cpu.PC(), cpu.psw(), cpu.regs[RegSP])
}
