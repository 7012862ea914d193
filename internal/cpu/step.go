package cpu

import (
	"errors"

	"we32100/internal/bus"
)

/*
   Step loop (spec §4.5, component H).

   StepWithError is the strict entry point test suites and a
   production driver use. Step wraps it and silently swallows errors,
   reserved for future handler installation (spec §7).
*/

// iplTable maps a vector (masked to 6 bits) to the IPL it must exceed
// the current PSW IPL to preempt (spec §4.5).
func iplTable(vector uint8) uint8 {
	switch {
	case vector == 0:
		return 0
	case vector <= 7:
		return 14
	default:
		return 15
	}
}

// Step advances one instruction, discarding any error.
func (cpu *CPU) Step() {
	_, _ = cpu.StepWithError()
}

// StepWithError advances one instruction and returns any error
// encountered: a *bus.Error bubbles up unwrapped (spec §6); decode and
// execute failures are wrapped in *Exception carrying the faulting PC.
func (cpu *CPU) StepWithError() (Instruction, error) {
	cpu.steps++
	cpu.b.Service()

	if vector, pending := cpu.b.GetInterrupts(); pending {
		masked := vector & 0x3F
		if cpu.ipl() < iplTable(masked) {
			if err := cpu.onInterrupt(^masked & 0x3F); err != nil {
				return Instruction{}, wrapStepError(err, cpu.PC())
			}
		}
	}

	pc := cpu.PC()
	instr, err := decode(cpu, pc)
	if err != nil {
		return Instruction{}, wrapStepError(err, pc)
	}
	cpu.instr = instr

	def, _ := lookupOpcode(instr.Opcode)
	increment, err := def.exec(cpu, &instr)
	if err != nil {
		return instr, wrapStepError(err, pc)
	}

	cpu.setPC(pc + uint32(increment))
	return instr, nil
}

// wrapStepError leaves *bus.Error and already-wrapped *Exception
// values alone and wraps everything else (the cpu package's own
// sentinel errors) in an *Exception carrying pc.
func wrapStepError(err error, pc uint32) error {
	var busErr *bus.Error
	if errors.As(err, &busErr) {
		return err
	}
	var exc *Exception
	if errors.As(err, &exc) {
		return err
	}
	return newException(err, pc)
}
