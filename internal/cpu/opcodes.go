package cpu

import "sync"

/*
   Opcode table (spec §4.2, component B).

   An immutable, process-wide mapping from opcode number to a record of
   {name, default width, operand kinds, exec}. Lazily built once behind
   a sync.Once so construction is race-free across emulator instances
   (spec §9) without paying init cost for hosts that never run a CPU.

   Exec functions return the signed PC increment the step loop should
   apply, or an error. Control-flow opcodes return their own increment
   (for JMP, target minus start PC); everything else returns the
   instruction's decoded byte length.

   Opcode numbers and operand shapes are the real WE32100 assignments
   (spec §12 supplement, cross-checked against the original emulator's
   mnemonic table) rather than an invented layout: the two single-byte
   spaces 0x00-0xFF and the 0x30xx two-byte space, with several real
   entries genuinely unimplemented (execUnimplemented/
   execSpopPassthrough) because the machine this core is modeled on
   never implements them either.
*/

// opcodeDef is one opcode table record.
type opcodeDef struct {
	Opcode   uint16
	Name     string
	Width    Width
	Operands []OperandKind
	exec     func(cpu *CPU, instr *Instruction) (int32, error)
}

var (
	opcodeTableOnce sync.Once
	opcodeTable     map[uint16]*opcodeDef
)

func lookupOpcode(opcode uint16) (*opcodeDef, bool) {
	opcodeTableOnce.Do(buildOpcodeTable)
	def, ok := opcodeTable[opcode]
	return def, ok
}

func buildOpcodeTable() {
	t := make(map[uint16]*opcodeDef, 256)
	add := func(opcode uint16, name string, width Width, kinds []OperandKind, exec func(*CPU, *Instruction) (int32, error)) {
		t[opcode] = &opcodeDef{Opcode: opcode, Name: name, Width: width, Operands: kinds, exec: exec}
	}

	src := []OperandKind{KindSource}
	dst := []OperandKind{KindDestination}
	srcDst := []OperandKind{KindSource, KindDestination}
	src3 := []OperandKind{KindSource, KindSource, KindDestination}
	none := []OperandKind{}
	lit := []OperandKind{KindLiteral}
	litSrc := []OperandKind{KindLiteral, KindSource}
	litDst := []OperandKind{KindLiteral, KindDestination}
	litSrcDst := []OperandKind{KindLiteral, KindSource, KindDestination}
	extf := []OperandKind{KindSource, KindSource, KindSource, KindDestination}

	// System, coprocessor passthrough, and single-operand opcodes in
	// the low quarter of the table.
	add(0x00, "HALT", WidthWord, none, execUnimplemented)
	add(0x02, "SPOPRD", WidthWord, litSrc, execSpopPassthrough)
	add(0x03, "SPOPRD2", WidthWord, litSrcDst, execSpopPassthrough)
	add(0x04, "MOVAW", WidthWord, srcDst, execMoval)
	add(0x06, "SPOPRT", WidthWord, litSrc, execSpopPassthrough)
	add(0x07, "SPOPT2", WidthWord, litSrcDst, execSpopPassthrough)
	add(0x08, "RET", WidthWord, none, execRet)
	add(0x0C, "MOVTRW", WidthWord, srcDst, execUnimplemented)
	add(0x10, "SAVE", WidthByte, src, execSave)
	add(0x13, "SPOPWD", WidthWord, litDst, execSpopPassthrough)
	add(0x14, "EXTOP", WidthWord, none, execUnimplemented)
	add(0x17, "SPOPWT", WidthWord, litDst, execSpopPassthrough)
	add(0x18, "RESTORE", WidthByte, src, execRestore)
	add(0x1C, "SWAPWI", WidthWord, dst, execSwap)
	add(0x1E, "SWAPHI", WidthHalf, dst, execSwap)
	add(0x1F, "SWAPBI", WidthSByte, dst, execSwap)
	add(0x20, "POPW", WidthWord, src, execPopw)
	add(0x22, "SPOPRS", WidthWord, litSrc, execSpopPassthrough)
	add(0x23, "SPOPS2", WidthWord, litSrcDst, execSpopPassthrough)
	add(0x24, "JMP", WidthWord, dst, execJmp)
	add(0x27, "CFLUSH", WidthWord, none, execCflush)
	add(0x28, "TSTW", WidthWord, src, execTst)
	add(0x2A, "TSTH", WidthHalf, src, execTst)
	add(0x2B, "TSTB", WidthSByte, src, execTst)
	add(0x2C, "CALL", WidthWord, srcDst, execCall)
	add(0x2E, "BPT", WidthWord, none, execUnimplemented)
	add(0x2F, "WAIT", WidthWord, none, execUnimplemented)
	add(0x32, "SPOP", WidthWord, lit, execSpopPassthrough)
	add(0x33, "SPOPWS", WidthWord, litDst, execSpopPassthrough)
	add(0x34, "JSB", WidthWord, dst, execJsb)
	add(0x36, "BSBH", WidthHalf, lit, execBsb)
	add(0x37, "BSBB", WidthByte, lit, execBsb)
	add(0x38, "BITW", WidthWord, srcDst, execBit)
	add(0x3A, "BITH", WidthHalf, srcDst, execBit)
	add(0x3B, "BITB", WidthSByte, srcDst, execBit)
	add(0x3C, "CMPW", WidthWord, srcDst, execCmp)
	add(0x3E, "CMPH", WidthHalf, srcDst, execCmp)
	add(0x3F, "CMPB", WidthSByte, srcDst, execCmp)

	// R* conditional/unconditional subroutine returns, 0x40-0x7C: no
	// operand, pop the return address off the stack when the condition
	// holds.
	addReturn(add, 0x40, "RGEQ", condGE)
	addReturn(add, 0x44, "RGTR", condGT)
	addReturn(add, 0x48, "RLSS", condLT)
	addReturn(add, 0x4C, "RLEQ", condLE)
	addReturn(add, 0x50, "RGEQU", condGEU)
	addReturn(add, 0x54, "RGTRU", condGTU)
	addReturn(add, 0x58, "RLSSU", condLTU)
	addReturn(add, 0x5C, "RLEQU", condLEU)
	addReturn(add, 0x60, "RVC", condNV)
	addReturn(add, 0x64, "RNEQU", condNE)
	addReturn(add, 0x68, "RVS", condV)
	addReturn(add, 0x6C, "REQLU", condEQ)
	addReturn(add, 0x74, "RNEQ", condNE)
	addReturn(add, 0x78, "RSB", alwaysTrue)
	addReturn(add, 0x7C, "REQL", condEQ)

	// Conditional branches, halfword and byte displacement, sharing the
	// 0x40-0x7F quarter with the R* returns above. 0x66/0x76 (BNEH) and
	// 0x6E/0x7E (BEH) are genuine duplicate-mnemonic opcode pairs in
	// the real table, not a typo.
	addBranch(add, 0x42, "BGEH", WidthHalf, condGE)
	addBranch(add, 0x43, "BGEB", WidthByte, condGE)
	addBranch(add, 0x46, "BGH", WidthHalf, condGT)
	addBranch(add, 0x47, "BGB", WidthByte, condGT)
	addBranch(add, 0x4A, "BLH", WidthHalf, condLT)
	addBranch(add, 0x4B, "BLB", WidthByte, condLT)
	addBranch(add, 0x4E, "BLEH", WidthHalf, condLE)
	addBranch(add, 0x4F, "BLEB", WidthByte, condLE)
	addBranch(add, 0x52, "BGEUH", WidthHalf, condGEU)
	addBranch(add, 0x53, "BGEUB", WidthByte, condGEU)
	addBranch(add, 0x56, "BGUH", WidthHalf, condGTU)
	addBranch(add, 0x57, "BGUB", WidthByte, condGTU)
	addBranch(add, 0x5A, "BLUH", WidthHalf, condLTU)
	addBranch(add, 0x5B, "BLUB", WidthByte, condLTU)
	addBranch(add, 0x5E, "BLEUH", WidthHalf, condLEU)
	addBranch(add, 0x5F, "BLEUB", WidthByte, condLEU)
	addBranch(add, 0x62, "BVCH", WidthHalf, condNV)
	addBranch(add, 0x63, "BVCB", WidthByte, condNV)
	addBranch(add, 0x66, "BNEH", WidthHalf, condNE)
	addBranch(add, 0x67, "BNEB", WidthByte, condNE)
	addBranch(add, 0x6A, "BVSH", WidthHalf, condV)
	addBranch(add, 0x6B, "BVSB", WidthByte, condV)
	addBranch(add, 0x6E, "BEH", WidthHalf, condEQ)
	addBranch(add, 0x6F, "BEB", WidthByte, condEQ)
	addBranch(add, 0x76, "BNEH", WidthHalf, condNE)
	addBranch(add, 0x77, "BNEB", WidthByte, condNE)
	addBranch(add, 0x7A, "BRH", WidthHalf, alwaysTrue)
	addBranch(add, 0x7B, "BRB", WidthByte, alwaysTrue)
	addBranch(add, 0x7E, "BEH", WidthHalf, condEQ)
	addBranch(add, 0x7F, "BEB", WidthByte, condEQ)

	// NOP has three opcodes of distinct encoded length (1/2/3 bytes),
	// used as padding of different sizes rather than a single mnemonic.
	// NOP2/NOP3 carry a literal operand purely to consume their extra
	// padding bytes; the value is decoded and discarded.
	add(0x70, "NOP", WidthWord, none, execNop)
	add(0x72, "NOP3", WidthHalf, lit, execNop3)
	add(0x73, "NOP2", WidthSByte, lit, execNop2)

	// Data movement and single/2-operand arithmetic+logical, 0x80-0xBF.
	add(0x80, "CLRW", WidthWord, dst, execClr)
	add(0x82, "CLRH", WidthHalf, dst, execClr)
	add(0x83, "CLRB", WidthSByte, dst, execClr)
	add(0x84, "MOVW", WidthWord, srcDst, execMove)
	add(0x86, "MOVH", WidthHalf, srcDst, execMove)
	add(0x87, "MOVB", WidthSByte, srcDst, execMove)
	add(0x88, "MCOMW", WidthWord, srcDst, execMcom)
	add(0x8A, "MCOMH", WidthHalf, srcDst, execMcom)
	add(0x8B, "MCOMB", WidthSByte, srcDst, execMcom)
	add(0x8C, "MNEGW", WidthWord, srcDst, execMneg)
	add(0x8E, "MNEGH", WidthHalf, srcDst, execMneg)
	add(0x8F, "MNEGB", WidthSByte, srcDst, execMneg)
	add(0x90, "INCW", WidthWord, dst, execInc)
	add(0x92, "INCH", WidthHalf, dst, execInc)
	add(0x93, "INCB", WidthSByte, dst, execInc)
	add(0x94, "DECW", WidthWord, dst, execDec)
	add(0x96, "DECH", WidthHalf, dst, execDec)
	add(0x97, "DECB", WidthSByte, dst, execDec)
	add(0x9C, "ADDW2", WidthWord, srcDst, execAdd)
	add(0x9E, "ADDH2", WidthHalf, srcDst, execAdd)
	add(0x9F, "ADDB2", WidthSByte, srcDst, execAdd)
	add(0xA0, "PUSHW", WidthWord, src, execPushw)
	add(0xA4, "MODW2", WidthWord, srcDst, execMod)
	add(0xA6, "MODH2", WidthHalf, srcDst, execMod)
	add(0xA7, "MODB2", WidthSByte, srcDst, execMod)
	add(0xA8, "MULW2", WidthWord, srcDst, execMul)
	add(0xAA, "MULH2", WidthHalf, srcDst, execMul)
	add(0xAB, "MULB2", WidthSByte, srcDst, execMul)
	add(0xAC, "DIVW2", WidthWord, srcDst, execDiv)
	add(0xAE, "DIVH2", WidthHalf, srcDst, execDiv)
	add(0xAF, "DIVB2", WidthSByte, srcDst, execDiv)
	add(0xB0, "ORW2", WidthWord, srcDst, execOr)
	add(0xB2, "ORH2", WidthHalf, srcDst, execOr)
	add(0xB3, "ORB2", WidthSByte, srcDst, execOr)
	add(0xB4, "XORW2", WidthWord, srcDst, execXor)
	add(0xB6, "XORH2", WidthHalf, srcDst, execXor)
	add(0xB7, "XORB2", WidthSByte, srcDst, execXor)
	add(0xB8, "ANDW2", WidthWord, srcDst, execAnd)
	add(0xBA, "ANDH2", WidthHalf, srcDst, execAnd)
	add(0xBB, "ANDB2", WidthSByte, srcDst, execAnd)
	add(0xBC, "SUBW2", WidthWord, srcDst, execSub)
	add(0xBE, "SUBH2", WidthHalf, srcDst, execSub)
	add(0xBF, "SUBB2", WidthSByte, srcDst, execSub)

	// Shifts and field extract/insert, 3/4-operand, 0xC0-0xDF.
	add(0xC0, "ALSW3", WidthWord, src3, execAlsw3)
	add(0xC4, "ARSW3", WidthWord, src3, execArs3)
	add(0xC6, "ARSH3", WidthHalf, src3, execArs3)
	add(0xC7, "ARSB3", WidthSByte, src3, execArs3)
	add(0xC8, "INSFW", WidthWord, extf, execInsf)
	add(0xCA, "INSFH", WidthHalf, extf, execInsf)
	add(0xCB, "INSFB", WidthByte, extf, execInsf)
	add(0xCC, "EXTFW", WidthWord, extf, execExtf)
	add(0xCE, "EXTFH", WidthHalf, extf, execExtf)
	add(0xCF, "EXTFB", WidthByte, extf, execExtf)
	add(0xD0, "LLSW3", WidthWord, src3, execLls3)
	add(0xD2, "LLSH3", WidthHalf, src3, execLls3)
	add(0xD3, "LLSB3", WidthSByte, src3, execLls3)
	add(0xD4, "LRSW3", WidthWord, src3, execLrsw3)
	add(0xD8, "ROTW", WidthWord, src3, execRotw3)

	// 3-operand arithmetic/logical, 0xDC-0xFF.
	add(0xDC, "ADDW3", WidthWord, src3, execAdd3)
	add(0xDE, "ADDH3", WidthHalf, src3, execAdd3)
	add(0xDF, "ADDB3", WidthSByte, src3, execAdd3)
	add(0xE0, "PUSHAW", WidthWord, src, execPushaw)
	add(0xE4, "MODW3", WidthWord, src3, execMod3)
	add(0xE6, "MODH3", WidthHalf, src3, execMod3)
	add(0xE7, "MODB3", WidthSByte, src3, execMod3)
	add(0xE8, "MULW3", WidthWord, src3, execMul3)
	add(0xEA, "MULH3", WidthHalf, src3, execMul3)
	add(0xEB, "MULB3", WidthSByte, src3, execMul3)
	add(0xEC, "DIVW3", WidthWord, src3, execDiv3)
	add(0xEE, "DIVH3", WidthHalf, src3, execDiv3)
	add(0xEF, "DIVB3", WidthSByte, src3, execDiv3)
	add(0xF0, "ORW3", WidthWord, src3, execOr3)
	add(0xF2, "ORH3", WidthHalf, src3, execOr3)
	add(0xF3, "ORB3", WidthSByte, src3, execOr3)
	add(0xF4, "XORW3", WidthWord, src3, execXor3)
	add(0xF6, "XORH3", WidthHalf, src3, execXor3)
	add(0xF7, "XORB3", WidthSByte, src3, execXor3)
	add(0xF8, "ANDW3", WidthWord, src3, execAnd3)
	add(0xFA, "ANDH3", WidthHalf, src3, execAnd3)
	add(0xFB, "ANDB3", WidthSByte, src3, execAnd3)
	add(0xFC, "SUBW3", WidthWord, src3, execSub3)
	add(0xFE, "SUBH3", WidthHalf, src3, execSub3)
	add(0xFF, "SUBB3", WidthSByte, src3, execSub3)

	// Two-byte opcodes, 0x30xx: SPOP* passthrough already covered
	// above lives in the single-byte space; this range holds the
	// privileged/system instructions and the block-move pair (spec §12
	// supplements).
	add(0x3009, "MVERNO", WidthWord, none, execMverno)
	add(0x300D, "ENBVJMP", WidthWord, none, execEnbvjmp)
	add(0x3013, "DISVJMP", WidthWord, none, execDisvjmp)
	add(0x3019, "MOVBLW", WidthWord, none, execMovblw)
	add(0x301F, "STREND", WidthWord, none, execStrend)
	add(0x302F, "INTACK", WidthWord, none, execUnimplemented)
	add(0x303F, "STRCPY", WidthWord, none, execUnimplemented)
	add(0x3045, "RETG", WidthWord, none, execUnimplemented)
	add(0x3061, "GATE", WidthWord, none, execUnimplemented)
	add(0x30AC, "CALLPS", WidthWord, none, execCallps)
	add(0x30C8, "RETPS", WidthWord, none, execRetps)

	opcodeTable = t
}

type adder func(opcode uint16, name string, width Width, kinds []OperandKind, exec func(*CPU, *Instruction) (int32, error))

// addReturn registers one of the R* conditional/unconditional
// subroutine-return opcodes (no operand).
func addReturn(add adder, opcode uint16, name string, cond func(cpu *CPU) bool) {
	add(opcode, name, WidthWord, []OperandKind{}, execRsb(cond))
}

// addBranch registers one conditional-branch opcode: a single Literal
// displacement operand of the given width.
func addBranch(add adder, opcode uint16, name string, width Width, cond func(cpu *CPU) bool) {
	add(opcode, name, width, []OperandKind{KindLiteral}, func(cpu *CPU, instr *Instruction) (int32, error) {
		return execBranch(cpu, instr, cond)
	})
}
