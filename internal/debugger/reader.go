package debugger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/peterh/liner"
)

// Run drives an interactive console over s until the quit command is
// entered or the user aborts the prompt, the same liner-backed REPL
// shape as the teacher's reader.ConsoleReader.
func Run(s *Session) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(l string) []string {
		return CompleteCmd(l, s)
	})

	for {
		command, err := line.Prompt("we32100> ")
		if err == nil {
			line.AppendHistory(command)
			quit, err := ProcessCommand(command, s)
			if err != nil {
				fmt.Println("error: " + err.Error())
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		slog.Error("error reading line: " + err.Error())
	}
}
