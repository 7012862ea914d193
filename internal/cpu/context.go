package cpu

import "we32100/internal/bus"

/*
   Context-switch engine (spec §4.7, component G).

   Three phases shared by interrupt entry, CALLPS and RETPS. PCB field
   offsets are the ones spec §3 defines; they are not re-derived here
   so a reviewer can check this file against that table directly.
*/

const (
	pcbOffPSW   = 0
	pcbOffPC    = 4
	pcbOffSP    = 8
	pcbOffAP    = 20
	pcbOffFP    = 24
	pcbOffRegs0 = 28
	pcbOffBlock = 64

	maxBlockMoveEntries = 256
)

// phaseSaveOld is phase 1: given the incoming new PCB, save the
// outgoing process's state into its own (old) PCB.
func (cpu *CPU) phaseSaveOld(oldPCBP, newPCBP uint32) error {
	if err := cpu.b.WriteWord(oldPCBP+pcbOffPC, cpu.PC()); err != nil {
		return err
	}

	newPSW, err := cpu.b.ReadWord(newPCBP+pcbOffPSW, bus.AddressFetch)
	if err != nil {
		return err
	}
	cpu.setRBit(getBits(newPSW, pswShiftR, pswMaskR) != 0)

	if err := cpu.b.WriteWord(oldPCBP+pcbOffPSW, cpu.psw()); err != nil {
		return err
	}
	if err := cpu.b.WriteWord(oldPCBP+pcbOffSP, cpu.regs[RegSP]); err != nil {
		return err
	}

	if cpu.rBit() {
		if err := cpu.b.WriteWord(oldPCBP+pcbOffAP, cpu.regs[RegAP]); err != nil {
			return err
		}
		if err := cpu.b.WriteWord(oldPCBP+pcbOffFP, cpu.regs[RegFP]); err != nil {
			return err
		}
		for i := 0; i < 9; i++ {
			if err := cpu.b.WriteWord(oldPCBP+uint32(pcbOffRegs0+4*i), cpu.regs[i]); err != nil {
				return err
			}
		}
		cpu.regs[RegFP] = oldPCBP + 52
	}
	return nil
}

// phaseLoadNew is phase 2: load PSW/PC/SP from the new PCB and adopt
// it as current.
func (cpu *CPU) phaseLoadNew(newPCBP uint32) error {
	cpu.regs[RegPCBP] = newPCBP

	psw, err := cpu.b.ReadWord(newPCBP+pcbOffPSW, bus.AddressFetch)
	if err != nil {
		return err
	}
	pc, err := cpu.b.ReadWord(newPCBP+pcbOffPC, bus.AddressFetch)
	if err != nil {
		return err
	}
	sp, err := cpu.b.ReadWord(newPCBP+pcbOffSP, bus.AddressFetch)
	if err != nil {
		return err
	}

	cpu.setPSW(psw)
	cpu.setPC(pc)
	cpu.regs[RegSP] = sp
	cpu.setTM(false)

	if cpu.iBit() {
		cpu.setIBit(false)
		cpu.regs[RegPCBP] += 12
	}
	return nil
}

// phaseBlockCopy is phase 3: walk the (count, destination) list at
// PCBP+64, copying count words from the stream that follows each pair
// to destination. Only runs when the R-bit is set. R0-R2 are used as
// scratch (spec §4.7), an observable side effect STREND/MOVBLW share.
func (cpu *CPU) phaseBlockCopy() error {
	if !cpu.rBit() {
		return nil
	}

	ptr := cpu.regs[RegPCBP] + pcbOffBlock
	for entries := 0; ; entries++ {
		if entries >= maxBlockMoveEntries {
			return ErrMalformedPCB
		}
		count, err := cpu.b.ReadWord(ptr, bus.AddressFetch)
		if err != nil {
			return err
		}
		ptr += 4
		if count == 0 {
			return nil
		}
		dest, err := cpu.b.ReadWord(ptr, bus.AddressFetch)
		if err != nil {
			return err
		}
		ptr += 4

		cpu.regs[0] = ptr
		cpu.regs[1] = dest
		cpu.regs[2] = count
		for cpu.regs[2] > 0 {
			v, err := cpu.b.ReadWord(cpu.regs[0], bus.AddressFetch)
			if err != nil {
				return err
			}
			if err := cpu.b.WriteWord(cpu.regs[1], v); err != nil {
				return err
			}
			cpu.regs[0] += 4
			cpu.regs[1] += 4
			cpu.regs[2]--
		}
		ptr = cpu.regs[0]
	}
}

// loadSavedRegisters reloads AP, FP, R0-R8 from pcbp, mirroring the
// save side of phaseSaveOld. Used by RETPS, which restores the
// returning context's registers explicitly rather than through
// phaseSaveOld (spec §4.7).
func (cpu *CPU) loadSavedRegisters(pcbp uint32) error {
	ap, err := cpu.b.ReadWord(pcbp+pcbOffAP, bus.AddressFetch)
	if err != nil {
		return err
	}
	fp, err := cpu.b.ReadWord(pcbp+pcbOffFP, bus.AddressFetch)
	if err != nil {
		return err
	}
	var regs [9]uint32
	for i := range regs {
		v, err := cpu.b.ReadWord(pcbp+uint32(pcbOffRegs0+4*i), bus.AddressFetch)
		if err != nil {
			return err
		}
		regs[i] = v
	}
	cpu.regs[RegAP] = ap
	cpu.regs[RegFP] = fp
	for i, v := range regs {
		cpu.regs[i] = v
	}
	return nil
}

// onInterrupt runs the full interrupt-entry sequence (spec §4.7).
func (cpu *CPU) onInterrupt(vector uint8) error {
	newPCBP, err := cpu.b.ReadWord(interruptVectorBase+4*uint32(vector), bus.AddressFetch)
	if err != nil {
		return err
	}

	oldPCBP := cpu.regs[RegPCBP]
	isp := cpu.regs[RegISP]
	if err := cpu.b.WriteWord(isp, oldPCBP); err != nil {
		return err
	}
	cpu.regs[RegISP] = isp + 4

	cpu.setISC(0)
	cpu.setTM(false)
	cpu.setET(1)

	if err := cpu.phaseSaveOld(oldPCBP, newPCBP); err != nil {
		return err
	}
	if err := cpu.phaseLoadNew(newPCBP); err != nil {
		return err
	}

	cpu.setISC(0)
	cpu.setTM(false)
	cpu.setISC(7)
	cpu.setET(3)

	return cpu.phaseBlockCopy()
}

// execCallps implements CALLPS: a Kernel-only context switch to the
// PCB pointed to by R0 (the real WE32100 reads the new PCB pointer
// straight out of R0 rather than a decoded operand). Like interrupt
// entry, it pushes the outgoing PCB pointer onto the interrupt stack
// first, so a matching RETPS in the new context can find its way back.
func execCallps(cpu *CPU, instr *Instruction) (int32, error) {
	start := cpu.PC()
	if err := cpu.requirePrivileged(); err != nil {
		return 0, err
	}
	newPCBP := cpu.regs[0]
	oldPCBP := cpu.regs[RegPCBP]

	isp := cpu.regs[RegISP]
	if err := cpu.b.WriteWord(isp, oldPCBP); err != nil {
		return 0, err
	}
	cpu.regs[RegISP] = isp + 4

	cpu.setISC(0)
	cpu.setTM(false)
	cpu.setET(1)

	if err := cpu.phaseSaveOld(oldPCBP, newPCBP); err != nil {
		return 0, err
	}
	if err := cpu.phaseLoadNew(newPCBP); err != nil {
		return 0, err
	}

	cpu.setISC(0)
	cpu.setTM(false)
	cpu.setISC(7)
	cpu.setET(3)

	if err := cpu.phaseBlockCopy(); err != nil {
		return 0, err
	}
	return int32(cpu.PC() - start), nil
}

func execRetps(cpu *CPU, instr *Instruction) (int32, error) {
	start := cpu.PC()
	if err := cpu.requirePrivileged(); err != nil {
		return 0, err
	}
	isp := cpu.regs[RegISP]
	newPCBP, err := cpu.b.ReadWord(isp-4, bus.AddressFetch)
	if err != nil {
		return 0, err
	}
	cpu.regs[RegISP] = isp - 4

	newPSW, err := cpu.b.ReadWord(newPCBP+pcbOffPSW, bus.AddressFetch)
	if err != nil {
		return 0, err
	}
	cpu.setRBit(getBits(newPSW, pswShiftR, pswMaskR) != 0)

	if err := cpu.phaseLoadNew(newPCBP); err != nil {
		return 0, err
	}
	if err := cpu.phaseBlockCopy(); err != nil {
		return 0, err
	}
	if cpu.rBit() {
		if err := cpu.loadSavedRegisters(newPCBP); err != nil {
			return 0, err
		}
	}
	return int32(cpu.PC() - start), nil
}

func execEnbvjmp(cpu *CPU, instr *Instruction) (int32, error) {
	if err := cpu.requirePrivileged(); err != nil {
		return 0, err
	}
	cpu.vecJumpEnabled = true
	return int32(instr.Length), nil
}

func execDisvjmp(cpu *CPU, instr *Instruction) (int32, error) {
	if err := cpu.requirePrivileged(); err != nil {
		return 0, err
	}
	cpu.vecJumpEnabled = false
	return int32(instr.Length), nil
}
