package cpu

import "we32100/internal/bus"

/*
   Instruction decoder (spec §4.5 step 4, component D).

   decode fetches the opcode at pc (one byte, or the two-byte 0x30xx
   pair), looks up its record, and decodes each operand kind in turn.
   It never reads a register or computes an effective address; that is
   left to the executor via address.go so the ordering guarantee in
   spec §5 (operand fetch, then effective-address fetch for indirect
   modes, then memory effects) holds naturally.
*/

func decode(cpu *CPU, pc uint32) (Instruction, error) {
	return Decode(cpu.b, pc)
}

// Decode reads and decodes one instruction at pc from b directly,
// without a live CPU. internal/disasm and test harnesses use this to
// render or inspect instructions the executor never actually runs.
func Decode(b bus.Bus, pc uint32) (Instruction, error) {
	first, err := b.ReadByte(pc, bus.InstrFetch)
	if err != nil {
		return Instruction{}, err
	}

	var opcodeNum uint16
	addr := pc + 1
	if first == 0x30 {
		second, err := b.ReadByte(pc+1, bus.InstrFetch)
		if err != nil {
			return Instruction{}, err
		}
		opcodeNum = 0x3000 | uint16(second)
		addr = pc + 2
	} else {
		opcodeNum = uint16(first)
	}

	def, ok := lookupOpcode(opcodeNum)
	if !ok {
		return Instruction{}, ErrIllegalOpcode
	}

	instr := Instruction{
		Opcode: opcodeNum,
		Name:   def.Name,
		Width:  def.Width,
		NumOps: len(def.Operands),
	}

	for i, kind := range def.Operands {
		var op Operand
		var next uint32
		var err error
		if kind == KindLiteral {
			op, next, err = decodeLiteralOperand(b, addr, def.Width)
		} else {
			op, next, err = decodeOperand(b, addr, def.Width)
		}
		if err != nil {
			return Instruction{}, err
		}
		instr.Operands[i] = op
		addr = next
	}

	instr.Length = addr - pc
	return instr, nil
}
