package cpu

import "testing"

// Flag isolation: setting/clearing N, Z, V, C individually touches
// only PSW bits 18-21.
func TestFlagIsolation(t *testing.T) {
	c := New(nil)
	c.setPSW(0)

	c.setC(true)
	if c.psw() != 1<<18 {
		t.Fatalf("setC touched bits outside 18: psw=%#x", c.psw())
	}
	c.setC(false)

	c.setV(true)
	if c.psw() != 1<<19 {
		t.Fatalf("setV touched bits outside 19: psw=%#x", c.psw())
	}
	c.setV(false)

	c.setZ(true)
	if c.psw() != 1<<20 {
		t.Fatalf("setZ touched bits outside 20: psw=%#x", c.psw())
	}
	c.setZ(false)

	c.setN(true)
	if c.psw() != 1<<21 {
		t.Fatalf("setN touched bits outside 21: psw=%#x", c.psw())
	}
}

// Sign extension: sign_extend_byte(0x80) == 0xFFFFFF80,
// sign_extend_halfword(0x8000) == 0xFFFF8000.
func TestSignExtension(t *testing.T) {
	if got := signExtend8(0x80); got != 0xFFFFFF80 {
		t.Errorf("signExtend8(0x80) = %#x, want 0xFFFFFF80", got)
	}
	if got := signExtend16(0x8000); got != 0xFFFF8000 {
		t.Errorf("signExtend16(0x8000) = %#x, want 0xFFFF8000", got)
	}
}

// ISC write: set_isc(i) for i in 0..15 sets PSW bits 3-6 to i;
// set_isc(16) clears those bits (truncation).
func TestISCWrite(t *testing.T) {
	c := New(nil)
	for i := uint8(0); i <= 15; i++ {
		c.setPSW(0)
		c.setISC(i)
		if c.ISC() != i {
			t.Errorf("setISC(%d): ISC() = %d", i, c.ISC())
		}
	}

	c.setPSW(0)
	c.setISC(16)
	if c.ISC() != 0 {
		t.Errorf("setISC(16) truncation: ISC() = %d, want 0", c.ISC())
	}
}

func TestSetLevelSavesPM(t *testing.T) {
	c := New(nil)
	c.SetLevel(Supervisor)
	if c.CurrentLevel() != Supervisor {
		t.Fatalf("CurrentLevel() = %v, want Supervisor", c.CurrentLevel())
	}
	c.SetLevel(User)
	if c.CurrentLevel() != User {
		t.Fatalf("CurrentLevel() = %v, want User", c.CurrentLevel())
	}
	if pm := Level(getBits(c.psw(), pswShiftPM, pswMaskPM)); pm != Supervisor {
		t.Errorf("PM = %v, want previous CM Supervisor", pm)
	}
}
