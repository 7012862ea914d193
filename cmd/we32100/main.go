/*
 * we32100 - Main process.
 *
 * Copyright 2024, Richard Cornwell
 * Copyright 2026
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"we32100/internal/corelog"
	"we32100/internal/cpu"
	"we32100/internal/debugger"
	"we32100/internal/membus"
)

var logger *slog.Logger

func main() {
	optImage := getopt.StringLong("image", 'i', "", "Flat binary image to load")
	optBase := getopt.StringLong("base", 'b', "0", "Load address for the image")
	optMemSize := getopt.StringLong("memsize", 'm', "1048576", "Memory size in bytes")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Enter the interactive debugger instead of free-running")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	handler := corelog.NewHandler(file, &slog.HandlerOptions{Level: programLevel})
	handler.SetDebug(*optDebug)
	logger = slog.New(handler)
	slog.SetDefault(logger)

	logger.Info("we32100 started")

	if *optImage == "" {
		logger.Error("please specify an image to load with --image")
		os.Exit(1)
	}

	data, err := os.ReadFile(*optImage)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	memSize, err2 := strconv.ParseUint(*optMemSize, 0, 32)
	if err2 != nil {
		logger.Error("bad --memsize: " + err2.Error())
		os.Exit(1)
	}
	base, err2 := strconv.ParseUint(*optBase, 0, 32)
	if err2 != nil {
		logger.Error("bad --base: " + err2.Error())
		os.Exit(1)
	}

	mem := membus.New(uint32(memSize))
	if err := mem.Load(uint32(base), data); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	// A demo interval timer on interrupt vector 1 exercises the
	// Service/GetInterrupts path end to end; a real system would
	// attach one timer per configured device instead.
	mem.AttachTimer(1, 10000)

	core := cpu.New(mem)
	if err := core.Reset(); err != nil {
		logger.Error("reset failed: " + err.Error())
		os.Exit(1)
	}

	if *optDebug {
		debugger.Run(debugger.NewSession(core, mem))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		for {
			if _, err := core.StepWithError(); err != nil {
				done <- err
				return
			}
		}
	}()

	select {
	case <-sigChan:
		fmt.Println("got quit signal")
	case err := <-done:
		logger.Error("cpu halted: " + err.Error())
	}

	logger.Info(fmt.Sprintf("ran %d instructions", core.Steps()))
}
