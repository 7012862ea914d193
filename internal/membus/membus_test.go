package membus

import (
	"errors"
	"testing"

	"we32100/internal/bus"
)

func TestLittleEndianWordRoundTrip(t *testing.T) {
	m := New(64)
	if err := m.WriteWord(0, 0x12345678); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	b0, _ := m.ReadByte(0, bus.OperandFetch)
	b3, _ := m.ReadByte(3, bus.OperandFetch)
	if b0 != 0x78 || b3 != 0x12 {
		t.Errorf("byte 0 = %#x, byte 3 = %#x, want 0x78/0x12 (little-endian)", b0, b3)
	}
	v, err := m.ReadWord(0, bus.OperandFetch)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if v != 0x12345678 {
		t.Errorf("ReadWord = %#x, want 0x12345678", v)
	}
}

func TestLittleEndianHalfRoundTrip(t *testing.T) {
	m := New(64)
	if err := m.WriteHalf(4, 0xBEEF); err != nil {
		t.Fatalf("WriteHalf: %v", err)
	}
	lo, _ := m.ReadByte(4, bus.OperandFetch)
	hi, _ := m.ReadByte(5, bus.OperandFetch)
	if lo != 0xEF || hi != 0xBE {
		t.Errorf("low byte = %#x, high byte = %#x, want 0xEF/0xBE", lo, hi)
	}
	v, err := m.ReadHalf(4, bus.OperandFetch)
	if err != nil {
		t.Fatalf("ReadHalf: %v", err)
	}
	if v != 0xBEEF {
		t.Errorf("ReadHalf = %#x, want 0xBEEF", v)
	}
}

func TestOutOfRangeAccessFaults(t *testing.T) {
	m := New(16)
	if _, err := m.ReadByte(16, bus.OperandFetch); err == nil {
		t.Fatal("expected a fault reading past the end")
	}
	if _, err := m.ReadWord(14, bus.OperandFetch); err == nil {
		t.Fatal("expected a fault on a word read straddling the end")
	}
	var busErr *bus.Error
	_, err := m.ReadByte(100, bus.OperandFetch)
	if !errors.As(err, &busErr) || busErr.Kind != bus.NoDevice {
		t.Errorf("err = %v, want *bus.Error{Kind: NoDevice}", err)
	}
}

func TestLoadAndService(t *testing.T) {
	m := New(16)
	if err := m.Load(4, []byte{1, 2, 3}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	v, _ := m.ReadByte(5, bus.OperandFetch)
	if v != 2 {
		t.Errorf("ReadByte(5) = %d, want 2", v)
	}

	if _, pending := m.GetInterrupts(); pending {
		t.Fatal("no timer attached, should never be pending")
	}

	m.AttachTimer(7, 2)
	m.Service() // countdown 2 -> 1
	if _, pending := m.GetInterrupts(); pending {
		t.Fatal("should not be pending yet")
	}
	m.Service() // countdown 1 -> 0, latches
	vector, pending := m.GetInterrupts()
	if !pending || vector != 7 {
		t.Fatalf("vector=%d pending=%v, want 7/true", vector, pending)
	}
	if _, pending := m.GetInterrupts(); pending {
		t.Fatal("pending flag should clear after being read once")
	}
}
