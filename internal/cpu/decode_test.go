package cpu

import "testing"

// Decoder round-trip: for every descriptor byte decodeOperand accepts,
// the decoded operand's Size equals the number of bytes the decoder
// actually consumed from the stream (spec §8 testable property 4).
func TestDecodeOperandRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		bytes []byte
	}{
		{"positive literal", []byte{0x02}},
		{"negative literal", []byte{0xFE}},
		{"register", []byte{0x43}},
		{"word immediate", []byte{0x4F, 0x01, 0x02, 0x03, 0x04}},
		{"register deferred", []byte{0x52}},
		{"halfword immediate", []byte{0x5F, 0x11, 0x22}},
		{"FP short offset", []byte{0x63}},
		{"byte immediate", []byte{0x6F, 0x7F}},
		{"AP short offset", []byte{0x73}},
		{"absolute", []byte{0x7F, 0x00, 0x10, 0x00, 0x00}},
		{"word displacement", []byte{0x82, 0x00, 0x10, 0x00, 0x00}},
		{"word displacement deferred", []byte{0x92, 0x00, 0x10, 0x00, 0x00}},
		{"halfword displacement", []byte{0xA2, 0x10, 0x00}},
		{"halfword displacement deferred", []byte{0xB2, 0x10, 0x00}},
		{"byte displacement", []byte{0xC2, 0x10}},
		{"byte displacement deferred", []byte{0xD2, 0x10}},
		{"absolute deferred", []byte{0xEF, 0x00, 0x20, 0x00, 0x00}},
		{"expanded register", []byte{0xE4, 0x43}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, mem := newTestCPU(1 << 23)
			if err := mem.Load(scenarioBase, tc.bytes); err != nil {
				t.Fatalf("load: %v", err)
			}
			op, next, err := decodeOperand(mem, scenarioBase, WidthWord)
			if err != nil {
				t.Fatalf("decodeOperand: %v", err)
			}
			consumed := next - scenarioBase
			if op.Size != consumed {
				t.Errorf("Size = %d, bytes consumed = %d", op.Size, consumed)
			}
		})
	}
}

// Invalid descriptors (M in {5,8..13} paired with R=11) must fail
// rather than silently decode.
func TestDecodeOperandReservedRIsInvalid(t *testing.T) {
	_, mem := newTestCPU(1 << 23)
	if err := mem.Load(scenarioBase, []byte{0x5B}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, _, err := decodeOperand(mem, scenarioBase, WidthWord); err != ErrInvalidDescriptor {
		t.Errorf("err = %v, want ErrInvalidDescriptor", err)
	}
}

// Expanded-type recursion: M=14 prefixes a nibble-selected width over
// an inner, non-expanded descriptor, and the outer size always equals
// the inner size plus one (spec §8 testable property 5).
func TestExpandedOperandRecursion(t *testing.T) {
	cases := []struct {
		name   string
		nibble int8
		want   Width
	}{
		{"uword", 0, WidthUWord},
		{"uhalf", 2, WidthUHalf},
		{"byte", 3, WidthByte},
		{"word", 4, WidthWord},
		{"half", 6, WidthHalf},
		{"sbyte", 7, WidthSByte},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, mem := newTestCPU(1 << 23)
			descriptor := byte(0xE0) | byte(tc.nibble)
			if err := mem.Load(scenarioBase, []byte{descriptor, 0x45}); err != nil {
				t.Fatalf("load: %v", err)
			}
			op, next, err := decodeOperand(mem, scenarioBase, WidthWord)
			if err != nil {
				t.Fatalf("decodeOperand: %v", err)
			}
			if !op.Expanded || op.ExpandedType != tc.want {
				t.Errorf("ExpandedType = %v (expanded=%v), want %v", op.ExpandedType, op.Expanded, tc.want)
			}
			if op.Mode != ModeRegister || op.Register != 5 {
				t.Errorf("inner decode = mode %v reg %d, want Register r5", op.Mode, op.Register)
			}
			if op.Size != 2 {
				t.Errorf("Size = %d, want 2 (inner 1 + prefix 1)", op.Size)
			}
			if next != scenarioBase+2 {
				t.Errorf("next = %#x, want %#x", next, scenarioBase+2)
			}
		})
	}
}

// Reserved expanded-type nibbles (1, 5) must fail.
func TestExpandedOperandReservedNibble(t *testing.T) {
	for _, nibble := range []byte{1, 5} {
		_, mem := newTestCPU(1 << 23)
		if err := mem.Load(scenarioBase, []byte{0xE0 | nibble, 0x40}); err != nil {
			t.Fatalf("load: %v", err)
		}
		if _, _, err := decodeOperand(mem, scenarioBase, WidthWord); err != ErrInvalidDescriptor {
			t.Errorf("nibble %d: err = %v, want ErrInvalidDescriptor", nibble, err)
		}
	}
}
