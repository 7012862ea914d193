// Package bus defines the contract the WE32100 core requires from the
// external memory subsystem. The core never implements a bus itself;
// internal/membus provides a flat-array implementation used by tests
// and the cmd/we32100 host, but any type satisfying Bus can drive the
// core.
package bus

import "fmt"

// AccessCode tags a bus access with the reason the core made it, so an
// MMU implementation can apply the right permission check. The core
// itself is transparent to what a Bus does with the code.
type AccessCode uint8

const (
	InstrFetch AccessCode = iota
	OperandFetch
	AddressFetch
)

func (a AccessCode) String() string {
	switch a {
	case InstrFetch:
		return "InstrFetch"
	case OperandFetch:
		return "OperandFetch"
	case AddressFetch:
		return "AddressFetch"
	default:
		return "Unknown"
	}
}

// ErrorKind enumerates the ways a bus access can fail.
type ErrorKind int

const (
	Alignment ErrorKind = iota
	Permission
	NoDevice
	ReadFault
	WriteFault
)

// Error is returned by a Bus implementation when an access cannot be
// completed. Addr is the faulting address; Kind is always set.
type Error struct {
	Kind ErrorKind
	Addr uint32
}

func (e *Error) Error() string {
	switch e.Kind {
	case Alignment:
		return fmt.Sprintf("bus: alignment fault at %#08x", e.Addr)
	case Permission:
		return fmt.Sprintf("bus: permission fault at %#08x", e.Addr)
	case NoDevice:
		return fmt.Sprintf("bus: no device at %#08x", e.Addr)
	case ReadFault:
		return fmt.Sprintf("bus: read fault at %#08x", e.Addr)
	case WriteFault:
		return fmt.Sprintf("bus: write fault at %#08x", e.Addr)
	default:
		return fmt.Sprintf("bus: fault at %#08x", e.Addr)
	}
}

// Bus is the memory subsystem the core reads instructions and operands
// from and writes results to. Implementations must be synchronous:
// every call returns before the core proceeds to its next bus access
// (see spec §5, Ordering guarantees).
type Bus interface {
	ReadByte(addr uint32, code AccessCode) (uint8, error)
	ReadHalf(addr uint32, code AccessCode) (uint16, error)
	ReadWord(addr uint32, code AccessCode) (uint32, error)

	// ReadOpHalf/ReadOpWord are convenience variants tagged with
	// OperandFetch, used while decoding operand descriptors.
	ReadOpHalf(addr uint32) (uint16, error)
	ReadOpWord(addr uint32) (uint32, error)

	WriteByte(addr uint32, value uint8) error
	WriteHalf(addr uint32, value uint16) error
	WriteWord(addr uint32, value uint32) error

	// Service advances peripheral time by one step. Called once at the
	// top of every CPU step, before interrupts are polled.
	Service()

	// GetInterrupts returns the highest-priority pending interrupt
	// vector, if any. The core complements it with ^vector&0x3F before
	// indexing the vector table (spec §4.5).
	GetInterrupts() (vector uint8, pending bool)
}

// Loader is an optional capability a Bus can implement so test
// harnesses and the binary loader (cmd/we32100) can seed memory
// without going through the byte-at-a-time Bus interface.
type Loader interface {
	Load(base uint32, data []byte) error
}
