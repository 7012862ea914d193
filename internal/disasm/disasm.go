// Package disasm renders decoded WE32100 instructions as text, the
// same "mnemonic operand, operand" shape the teacher's
// emu/disassemble package produces for IBM 370 instructions, adapted
// to the WE32100's descriptor-byte operand syntax instead of 370's
// fixed RR/RX/RS/SI/SS formats. It decodes through cpu.Decode rather
// than keeping a parallel opcode table, so disassembly can never drift
// from what the executor actually runs.
package disasm

import (
	"errors"
	"fmt"
	"strings"

	"we32100/internal/bus"
	"we32100/internal/cpu"
)

// Line disassembles one instruction at pc and returns its text plus
// the number of bytes it occupies, mirroring the teacher's
// Disasemble(data) (string, int) shape. An unrecognized opcode falls
// back to a raw .byte directive rather than failing the whole listing,
// the same way the teacher's undefined() does for 370 opcodes outside
// its table; any other error (a bus fault reading past the image) is
// returned to the caller.
func Line(b bus.Bus, pc uint32) (string, uint32, error) {
	instr, err := cpu.Decode(b, pc)
	if err != nil {
		if errors.Is(err, cpu.ErrIllegalOpcode) {
			return undefined(b, pc), 1, nil
		}
		return "", 0, err
	}

	var parts []string
	for i := 0; i < instr.NumOps; i++ {
		parts = append(parts, formatOperand(&instr.Operands[i]))
	}

	text := instr.Name
	if len(parts) > 0 {
		text += " " + strings.Join(parts, ", ")
	}
	return text, instr.Length, nil
}

// undefined renders a single unrecognized opcode byte the way the
// teacher's undefined() falls back to raw hex for opcodes its table
// doesn't know, rather than aborting the listing.
func undefined(b bus.Bus, pc uint32) string {
	v, err := b.ReadByte(pc, bus.InstrFetch)
	if err != nil {
		return "???"
	}
	return fmt.Sprintf(".byte %#02x", v)
}

func formatOperand(op *cpu.Operand) string {
	switch op.Mode {
	case cpu.ModePositiveLiteral:
		return fmt.Sprintf("&%d", op.Embedded)
	case cpu.ModeNegativeLiteral:
		return fmt.Sprintf("&%d", int32(op.Embedded))
	case cpu.ModeRegister:
		return regName(op.Register)
	case cpu.ModeRegisterDeferred:
		return fmt.Sprintf("(%s)", regName(op.Register))
	case cpu.ModeFPShortOffset:
		return fmt.Sprintf("%d(%%fp)", op.Register)
	case cpu.ModeAPShortOffset:
		return fmt.Sprintf("%d(%%ap)", op.Register)
	case cpu.ModeWordImmediate, cpu.ModeHalfwordImmediate, cpu.ModeByteImmediate:
		return fmt.Sprintf("&%#x", op.Embedded)
	case cpu.ModeAbsolute:
		return fmt.Sprintf("%#x", op.Embedded)
	case cpu.ModeAbsoluteDeferred:
		return fmt.Sprintf("*%#x", op.Embedded)
	case cpu.ModeWordDisplacement, cpu.ModeHalfwordDisplacement, cpu.ModeByteDisplacement:
		return fmt.Sprintf("%#x(%s)", int32(op.Embedded), regName(op.Register))
	case cpu.ModeWordDisplacementDeferred, cpu.ModeHalfwordDisplacementDeferred, cpu.ModeByteDisplacementDeferred:
		return fmt.Sprintf("*%#x(%s)", int32(op.Embedded), regName(op.Register))
	default:
		return "?"
	}
}

var regNames = [16]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8",
	"fp", "ap", "psw", "sp", "pcbp", "isp", "pc",
}

func regName(r int8) string {
	if r < 0 || int(r) >= len(regNames) {
		return "?"
	}
	return "%" + regNames[r]
}
