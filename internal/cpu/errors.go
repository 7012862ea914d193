package cpu

/*
   WE32100 core error taxonomy.

   Adapted from the interrupt-code-return convention in the teacher's
   emu/sys_channel package, but expressed as the Go error values spec
   §6/§7 calls for instead of a raw uint16 code: every op_* handler here
   returns (int32, error) and the step loop is the only place that
   translates an error into whatever a host wants to do with it.
*/

import "errors"

// Exception is one of the four instruction-level exception classes
// spec §7 defines. The core recognizes these but does not deliver them
// as WE32100 traps (trap delivery is explicitly out of scope, spec §1).
var (
	ErrIllegalOpcode     = errors.New("illegal opcode")
	ErrPrivilegedOpcode  = errors.New("privileged opcode")
	ErrIntegerZeroDivide = errors.New("integer zero divide")
	ErrInvalidDescriptor = errors.New("invalid descriptor")
)

// Supplementary error classes (spec §12) not named by spec §7 but
// needed so a host can tell "decode hit a reserved bit pattern" apart
// from "decode hit an instruction nobody implements."
var (
	// ErrUnimplementedOpcode is returned for BPT and HALT, which spec
	// §9 says should fail distinctly "rather than hanging."
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")

	// ErrMalformedPCB is returned when a context switch's phase-3
	// block-move descriptor list does not terminate within a bounded
	// number of entries (spec §12).
	ErrMalformedPCB = errors.New("malformed process control block")
)

// Exception wraps one of the sentinel errors above with the PC at
// which it was raised, for a host's error log.
type Exception struct {
	Err error
	PC  uint32
}

func (e *Exception) Error() string {
	return e.Err.Error()
}

func (e *Exception) Unwrap() error {
	return e.Err
}

func newException(err error, pc uint32) error {
	return &Exception{Err: err, PC: pc}
}
