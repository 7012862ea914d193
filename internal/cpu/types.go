package cpu

/*
   WE32100 core definitions.

   Copyright (c) 2024, Richard Cornwell
   Copyright (c) 2026

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Register file indices with a fixed hardware role (spec §3).
const (
	RegFP   = 9  // Frame pointer
	RegAP   = 10 // Argument pointer
	RegPSW  = 11 // Processor status word
	RegSP   = 12 // Stack pointer
	RegPCBP = 13 // Process control block pointer
	RegISP  = 14 // Interrupt stack pointer
	RegPC   = 15 // Program counter
)

// PSW bitfields, little-endian bit numbering (spec §3).
const (
	pswShiftET  = 0
	pswMaskET   = 0x3
	pswShiftTM  = 2
	pswMaskTM   = 0x1
	pswShiftISC = 3
	pswMaskISC  = 0xF
	pswShiftI   = 7
	pswMaskI    = 0x1
	pswShiftR   = 8
	pswMaskR    = 0x1
	pswShiftPM  = 9
	pswMaskPM   = 0x3
	pswShiftCM  = 11
	pswMaskCM   = 0x3
	pswShiftIPL = 13
	pswMaskIPL  = 0xF
	pswShiftC   = 18
	pswMaskC    = 0x1
	pswShiftV   = 19
	pswMaskV    = 0x1
	pswShiftZ   = 20
	pswMaskZ    = 0x1
	pswShiftN   = 21
	pswMaskN    = 0x1
)

// Privilege levels (PSW CM/PM field, spec §3).
type Level uint8

const (
	Kernel Level = iota
	Executive
	Supervisor
	User
)

func (l Level) String() string {
	switch l {
	case Kernel:
		return "Kernel"
	case Executive:
		return "Executive"
	case Supervisor:
		return "Supervisor"
	case User:
		return "User"
	default:
		return "?"
	}
}

// Width is a declared or expanded operand data width (spec §3, §4.3).
type Width uint8

const (
	WidthUWord Width = iota
	WidthWord
	WidthUHalf
	WidthHalf
	WidthByte
	WidthSByte
)

// Bytes returns the number of bytes this width occupies in memory.
func (w Width) Bytes() uint32 {
	switch w {
	case WidthUWord, WidthWord:
		return 4
	case WidthUHalf, WidthHalf:
		return 2
	default:
		return 1
	}
}

// Signed reports whether reads of this width sign-extend.
func (w Width) Signed() bool {
	switch w {
	case WidthWord, WidthHalf, WidthSByte:
		return true
	default:
		return false
	}
}

func (w Width) String() string {
	switch w {
	case WidthUWord:
		return "uword"
	case WidthWord:
		return "word"
	case WidthUHalf:
		return "uhalf"
	case WidthHalf:
		return "half"
	case WidthByte:
		return "byte"
	case WidthSByte:
		return "sbyte"
	default:
		return "?"
	}
}

// AddrMode is the addressing-mode enumeration of spec §4.3: the 17
// final modes plus the ModeExpanded marker.
type AddrMode uint8

const (
	ModePositiveLiteral AddrMode = iota
	ModeNegativeLiteral
	ModeRegister
	ModeRegisterDeferred
	ModeFPShortOffset
	ModeAPShortOffset
	ModeWordImmediate
	ModeHalfwordImmediate
	ModeByteImmediate
	ModeAbsolute
	ModeAbsoluteDeferred
	ModeWordDisplacement
	ModeWordDisplacementDeferred
	ModeHalfwordDisplacement
	ModeHalfwordDisplacementDeferred
	ModeByteDisplacement
	ModeByteDisplacementDeferred
	ModeExpanded // intermediate marker only; never left on the final operand
)

// IsMemory reports whether mode addresses memory, i.e. effectiveAddress
// is legal for it (spec §4.4).
func (m AddrMode) IsMemory() bool {
	switch m {
	case ModeRegisterDeferred, ModeFPShortOffset, ModeAPShortOffset,
		ModeAbsolute, ModeAbsoluteDeferred,
		ModeWordDisplacement, ModeWordDisplacementDeferred,
		ModeHalfwordDisplacement, ModeHalfwordDisplacementDeferred,
		ModeByteDisplacement, ModeByteDisplacementDeferred:
		return true
	default:
		return false
	}
}

// OperandKind selects which decoder path an opcode's operand list uses
// (spec §4.2).
type OperandKind uint8

const (
	KindLiteral OperandKind = iota
	KindSource
	KindDestination
)

// Operand is a fully decoded operand (spec §3).
type Operand struct {
	Size         uint32   // bytes consumed from the instruction stream
	Mode         AddrMode
	Width        Width // declared data width
	Expanded     bool  // an expanded-type prefix overrode the width
	ExpandedType Width
	Register     int8   // -1 when the mode carries no register
	Embedded     uint32 // embedded immediate/displacement, raw bits
	Data         uint32 // effective address (memory modes) or transferred value, set after use
}

// effectiveWidth returns the width a read/write should use: the
// expanded override when present, else the opcode-declared width.
func (o Operand) effectiveWidth() Width {
	if o.Expanded {
		return o.ExpandedType
	}
	return o.Width
}

// Instruction is the most recently decoded instruction (spec §3).
type Instruction struct {
	Opcode   uint16
	Name     string
	Width    Width
	Length   uint32
	NumOps   int
	Operands [4]Operand
}
