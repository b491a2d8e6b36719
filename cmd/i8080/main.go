// Command i8080 is a thin CLI harness around internal/cpu: it loads a flat
// binary image into memory, optionally wires the interactive console, runs
// the core for a bounded or unbounded number of steps, and can print the
// teacher's column-format execution trace. None of this lives in
// internal/cpu itself — the core stays a pure library.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"altair8080/internal/cpu"
	"altair8080/internal/device"
)

func main() {
	romPath := flag.String("rom", "", "path to a flat binary image to load")
	baseFlag := flag.String("base", "0", "load address (hex with 0x prefix, or decimal)")
	startFlag := flag.String("start", "", "initial PC (defaults to -base; -testrom implies 0x100)")
	steps := flag.Int("steps", 0, "bounded run length; 0 means run until halted")
	trace := flag.Bool("trace", false, "print an execution trace in the teacher's column format")
	testrom := flag.Bool("testrom", false, "CP/M-BDOS test-rom convention: start at 0x100, stub CALL 5")
	interactive := flag.Bool("interactive", false, "attach a Console/TerminalHost pair to IN/OUT (every port)")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintf(os.Stderr, "usage: %s -rom <path> [flags]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	base, err := parseAddr(*baseFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "i8080: invalid -base: %v\n", err)
		os.Exit(2)
	}

	start := base
	if *startFlag != "" {
		start, err = parseAddr(*startFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "i8080: invalid -start: %v\n", err)
			os.Exit(2)
		}
	}
	if *testrom && *startFlag == "" {
		start = 0x100
	}

	image, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "i8080: %v\n", err)
		os.Exit(1)
	}
	if int(base)+len(image) > 0x10000 {
		fmt.Fprintf(os.Stderr, "i8080: %s (%d bytes) does not fit at base %#04x within 64 KiB\n", *romPath, len(image), base)
		os.Exit(1)
	}

	c := cpu.NewCPU()
	c.Load(base, image)
	c.SetPC(start)

	if *interactive {
		console := device.NewConsole()
		c.AttachIO(console.In, console.Out)
		host := device.NewTerminalHost(console)
		if err := host.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "i8080: %v\n", err)
			os.Exit(1)
		}
		defer host.Stop()
	}

	// A run can be bounded by -steps, by halting, or by Ctrl-C; the third
	// is what ctx buys us — cancel() fires on SIGINT and the Step loops
	// below notice it between instructions, same as the teacher bounds
	// runSpaceInvaders's for{} externally rather than inside run().
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if *testrom {
		c.Poke(5, 0xC9) // stub CALL 5 as a bare RET; conout below inspects C before it runs
		runTestROM(ctx, c, *trace)
		return
	}

	run(ctx, c, *steps, *trace)
}

// parseAddr accepts either a "0x"-prefixed hex address or a plain decimal
// one, matching how the teacher's flags (and 8080 assembly listings
// generally) are typically typed at a shell prompt.
func parseAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	if v > 0xFFFF {
		return 0, fmt.Errorf("%#x exceeds the 64 KiB address space", v)
	}
	return uint16(v), nil
}

// run executes c until steps instructions have retired (steps <= 0 means
// run until halted), checking ctx between every instruction so a bounded
// or unbounded run can be cancelled from outside — e.g. Ctrl-C — without
// threading cancellation through the core itself.
func run(ctx context.Context, c *cpu.CPU, steps int, trace bool) {
	for i := 0; (steps <= 0 || i < steps) && !c.Halted(); i++ {
		select {
		case <-ctx.Done():
			fmt.Fprintf(os.Stderr, "i8080: run cancelled: %v\n", ctx.Err())
			return
		default:
		}
		if trace {
			debugPrint(c)
		}
		c.Step()
	}
}

// runTestROM drives the CP/M-BDOS console-output convention the classic
// i8080-core exerciser ROMs rely on: CALL 5 with C=9 prints a '$'-terminated
// message at DE, C=2 prints the single character in E. A jump to address 0
// signals the ROM's own pass/fail epilogue and ends the run.
func runTestROM(ctx context.Context, c *cpu.CPU, trace bool) {
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(os.Stderr, "i8080: test rom run cancelled: %v\n", ctx.Err())
			return
		default:
		}

		start := c.PC()
		if trace {
			debugPrint(c)
		}
		c.Step()

		switch c.PC() {
		case 0:
			fmt.Printf("i8080: jump to 0x0000 from %04X (test rom finished)\n", start)
			return
		case 5:
			conout(c)
		}
	}
}

func conout(c *cpu.CPU) {
	switch c.Reg8(cpu.RegC) {
	case 9:
		addr := c.RegPair(cpu.PairDE)
		for c.Peek(addr) != '$' {
			fmt.Printf("%c", c.Peek(addr))
			addr++
		}
	case 2:
		fmt.Printf("%c", c.Reg8(cpu.RegE))
	}
}

// debugPrint renders one line of trace output in the teacher's column
// format: address, opcode bytes, then the register file and flags.
func debugPrint(c *cpu.CPU) {
	pc := c.PC()
	fmt.Printf("%04X : %02X %02X %02X\t\t%02X %02X %02X %02X %02X %02X %02X %08b %04X\n",
		pc, c.Peek(pc), c.Peek(pc+1), c.Peek(pc+2),
		c.Reg8(cpu.RegB), c.Reg8(cpu.RegC), c.Reg8(cpu.RegD), c.Reg8(cpu.RegE),
		c.Reg8(cpu.RegH), c.Reg8(cpu.RegL), c.Reg8(cpu.RegA), c.FlagsByte(), c.SP())
}
