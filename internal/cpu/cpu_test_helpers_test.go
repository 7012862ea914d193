package cpu

import (
	"testing"

	"we32100/internal/membus"
)

// newTestCPU builds a CPU over a scratch membus.Memory, the same real
// Bus implementation cmd/we32100 uses, rather than a mock — mirroring
// the teacher's cpu_test.go using its own emu/memory package directly.
func newTestCPU(size uint32) (*CPU, *membus.Memory) {
	m := membus.New(size)
	return New(m), m
}

// loadProgram copies a byte sequence into mem starting at addr and
// points PC there, the shared setup every scenario test in spec §8
// needs.
func loadProgram(t *testing.T, cpu *CPU, mem *membus.Memory, addr uint32, bytes []byte) {
	t.Helper()
	if err := mem.Load(addr, bytes); err != nil {
		t.Fatalf("load program: %v", err)
	}
	cpu.setPC(addr)
}
