// Package membus provides a flat-array bus.Bus implementation: the
// reference memory subsystem used by cpu package tests, the
// debugger (which also hands it to the disassembler), and cmd/we32100. Layout and bounds
// checking follow the teacher's emu/memory package (GetWord/PutWord
// over a flat backing array, range-checked against a configured
// size), generalized from 36-bit words to the WE32100's byte
// addressing.
package membus

import (
	"we32100/internal/bus"
)

// Memory is a flat, byte-addressable store with no MMU or permission
// model (spec §1 puts an MMU out of scope). AccessCode is accepted but
// never inspected; a richer Bus wrapping Memory can add a permission
// check without touching this type.
type Memory struct {
	mem   []byte
	timer Timer
}

// New allocates a Memory of size bytes.
func New(size uint32) *Memory {
	return &Memory{mem: make([]byte, size)}
}

func (m *Memory) checkRange(addr uint32, width uint32) error {
	if addr+width > uint32(len(m.mem)) || addr+width < addr {
		return &bus.Error{Kind: bus.NoDevice, Addr: addr}
	}
	return nil
}

func (m *Memory) ReadByte(addr uint32, _ bus.AccessCode) (uint8, error) {
	if err := m.checkRange(addr, 1); err != nil {
		return 0, err
	}
	return m.mem[addr], nil
}

// WE32100 memory is little-endian: the low-order byte of a half or
// word lives at the lowest address, including immediates and
// displacements embedded directly in the instruction stream.
func (m *Memory) ReadHalf(addr uint32, _ bus.AccessCode) (uint16, error) {
	if err := m.checkRange(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m.mem[addr]) | uint16(m.mem[addr+1])<<8, nil
}

func (m *Memory) ReadWord(addr uint32, _ bus.AccessCode) (uint32, error) {
	if err := m.checkRange(addr, 4); err != nil {
		return 0, err
	}
	return uint32(m.mem[addr]) | uint32(m.mem[addr+1])<<8 |
		uint32(m.mem[addr+2])<<16 | uint32(m.mem[addr+3])<<24, nil
}

func (m *Memory) ReadOpHalf(addr uint32) (uint16, error) {
	return m.ReadHalf(addr, bus.OperandFetch)
}

func (m *Memory) ReadOpWord(addr uint32) (uint32, error) {
	return m.ReadWord(addr, bus.OperandFetch)
}

func (m *Memory) WriteByte(addr uint32, value uint8) error {
	if err := m.checkRange(addr, 1); err != nil {
		return err
	}
	m.mem[addr] = value
	return nil
}

func (m *Memory) WriteHalf(addr uint32, value uint16) error {
	if err := m.checkRange(addr, 2); err != nil {
		return err
	}
	m.mem[addr] = uint8(value)
	m.mem[addr+1] = uint8(value >> 8)
	return nil
}

func (m *Memory) WriteWord(addr uint32, value uint32) error {
	if err := m.checkRange(addr, 4); err != nil {
		return err
	}
	m.mem[addr] = uint8(value)
	m.mem[addr+1] = uint8(value >> 8)
	m.mem[addr+2] = uint8(value >> 16)
	m.mem[addr+3] = uint8(value >> 24)
	return nil
}

// Load implements bus.Loader, copying data into memory starting at
// base. Used by cmd/we32100 and test harnesses to seed a program
// image without going through the byte-at-a-time Bus interface.
func (m *Memory) Load(base uint32, data []byte) error {
	if err := m.checkRange(base, uint32(len(data))); err != nil {
		return err
	}
	copy(m.mem[base:], data)
	return nil
}

// Service advances the attached Timer by one step, if any (spec
// §4.5 step 2).
func (m *Memory) Service() {
	if m.timer != nil {
		m.timer.tick()
	}
}

// GetInterrupts returns the attached Timer's pending vector, if any
// device is attached (spec §6).
func (m *Memory) GetInterrupts() (uint8, bool) {
	if m.timer == nil {
		return 0, false
	}
	return m.timer.pending()
}

// AttachTimer installs an interval timer that raises vector every
// period steps, demonstrating GetInterrupts/Service end to end.
func (m *Memory) AttachTimer(vector uint8, period int) {
	m.timer = newIntervalTimer(vector, period)
}
