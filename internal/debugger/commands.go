package debugger

import (
	"fmt"
	"strconv"

	"we32100/internal/bus"
	"we32100/internal/disasm"
)

func parseAddr(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return uint32(v), nil
}

func cmdStep(line *cmdLine, s *Session) (bool, error) {
	n := 1
	if w := line.getWord(); w != "" {
		v, err := strconv.Atoi(w)
		if err != nil {
			return false, err
		}
		n = v
	}
	for i := 0; i < n; i++ {
		instr, err := s.CPU.StepWithError()
		if err != nil {
			return false, err
		}
		fmt.Printf("%#08x: %s\n", s.CPU.PC(), instr.Name)
	}
	return false, nil
}

// cmdContinue steps until a breakpoint address is reached or the CPU
// faults, returning the fault (if any) the way the teacher's cont
// command leaves execution errors for the caller to report.
func cmdContinue(_ *cmdLine, s *Session) (bool, error) {
	for {
		if _, err := s.CPU.StepWithError(); err != nil {
			return false, err
		}
		if s.Break[s.CPU.PC()] {
			fmt.Printf("breakpoint at %#08x\n", s.CPU.PC())
			return false, nil
		}
	}
}

func cmdRegisters(_ *cmdLine, s *Session) (bool, error) {
	names := []string{"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8",
		"fp", "ap", "psw", "sp", "pcbp", "isp", "pc"}
	for i, name := range names {
		fmt.Printf("%-5s %#010x", name, s.CPU.Reg(i))
		if i%4 == 3 {
			fmt.Println()
		} else {
			fmt.Print("  ")
		}
	}
	fmt.Println()
	return false, nil
}

func cmdBreak(line *cmdLine, s *Session) (bool, error) {
	addr, err := parseAddr(line.getWord())
	if err != nil {
		return false, err
	}
	s.Break[addr] = true
	return false, nil
}

func cmdClear(line *cmdLine, s *Session) (bool, error) {
	addr, err := parseAddr(line.getWord())
	if err != nil {
		return false, err
	}
	delete(s.Break, addr)
	return false, nil
}

func cmdMemory(line *cmdLine, s *Session) (bool, error) {
	addr, err := parseAddr(line.getWord())
	if err != nil {
		return false, err
	}
	length := 16
	if w := line.getWord(); w != "" {
		v, err := strconv.Atoi(w)
		if err != nil {
			return false, err
		}
		length = v
	}
	for i := 0; i < length; i += 4 {
		v, err := s.Mem.ReadWord(addr+uint32(i), bus.AddressFetch)
		if err != nil {
			return false, err
		}
		fmt.Printf("%#08x: %#010x\n", addr+uint32(i), v)
	}
	return false, nil
}

func cmdDisassemble(line *cmdLine, s *Session) (bool, error) {
	addr, err := parseAddr(line.getWord())
	if err != nil {
		return false, err
	}
	count := 1
	if w := line.getWord(); w != "" {
		v, err := strconv.Atoi(w)
		if err != nil {
			return false, err
		}
		count = v
	}
	for i := 0; i < count; i++ {
		text, length, err := disasm.Line(s.Mem, addr)
		if err != nil {
			return false, err
		}
		fmt.Printf("%#08x: %s\n", addr, text)
		addr += length
	}
	return false, nil
}

func cmdQuit(_ *cmdLine, _ *Session) (bool, error) {
	return true, nil
}
