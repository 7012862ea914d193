// Package debugger is an interactive command loop for inspecting and
// single-stepping a cpu.CPU, built on the same prefix-matched
// command-table shape as the teacher's command/parser package
// (cmdLine tokenizer, a cmd table matched against a minimum unique
// prefix length, ProcessCommand as the single entry point) rather
// than its channel/device-attach vocabulary, which does not apply to
// a standalone CPU core.
package debugger

import (
	"errors"
	"strings"
	"unicode"

	"we32100/internal/membus"

	"we32100/internal/cpu"
)

// Session holds the CPU and memory a debugger command table operates
// on, plus the breakpoint set toggled by the break/clear commands.
type Session struct {
	CPU   *cpu.CPU
	Mem   *membus.Memory
	Break map[uint32]bool
}

// NewSession wraps a CPU/Memory pair for interactive debugging.
func NewSession(c *cpu.CPU, m *membus.Memory) *Session {
	return &Session{CPU: c, Mem: m, Break: map[uint32]bool{}}
}

type cmdLine struct {
	line string
	pos  int
}

type cmd struct {
	name     string
	min      int
	process  func(*cmdLine, *Session) (bool, error)
	complete func(*cmdLine, *Session) []string
}

var cmdList = []cmd{
	{name: "step", min: 1, process: cmdStep},
	{name: "continue", min: 1, process: cmdContinue},
	{name: "registers", min: 3, process: cmdRegisters},
	{name: "break", min: 2, process: cmdBreak},
	{name: "clear", min: 2, process: cmdClear},
	{name: "memory", min: 3, process: cmdMemory},
	{name: "disassemble", min: 4, process: cmdDisassemble},
	{name: "quit", min: 1, process: cmdQuit},
}

// ProcessCommand tokenizes and runs one command line against s,
// reporting whether the session should quit, mirroring the teacher's
// ProcessCommand(commandLine, core) (bool, error).
func ProcessCommand(commandLine string, s *Session) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	switch len(match) {
	case 0:
		return false, errors.New("command not found: " + name)
	case 1:
		return match[0].process(&line, s)
	default:
		return false, errors.New("ambiguous command: " + name)
	}
}

// CompleteCmd backs liner's tab completion, matching the teacher's
// CompleteCmd(commandLine) []string.
func CompleteCmd(commandLine string, s *Session) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() && line.line[line.pos] == ' ' {
		line.skipSpace()
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line, s)
	}

	match := matchList(name)
	out := make([]string, len(match))
	for i, m := range match {
		out[i] = m.name
	}
	return out
}

func matchCommand(m cmd, name string) bool {
	if len(name) > len(m.name) {
		return false
	}
	for i := range name {
		if m.name[i] != name[i] {
			return false
		}
	}
	return len(name) >= m.min
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var out []cmd
	for _, m := range cmdList {
		if matchCommand(m, name) {
			out = append(out, m)
		}
	}
	return out
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

func (l *cmdLine) skipSpace() {
	for !l.isEOL() && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

// getWord reads the next run of non-space characters, the same
// minimal subset of the teacher's getWord the debugger's argument
// vocabulary (command names, hex addresses, register names) needs.
func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for !l.isEOL() && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return strings.ToLower(l.line[start:l.pos])
}

func (l *cmdLine) rest() string {
	l.skipSpace()
	return l.line[l.pos:]
}
