package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/cpu"
)

const monitorHelp = `commands:
  s, step [n]          execute n instructions (default 1)
  r, regs              show registers
  m, mem addr [len]    hex dump memory
  d, dis [addr] [n]    disassemble n instructions (default PC, 10)
  b, break addr        toggle a breakpoint
  c, continue          run to the next breakpoint or exit
  q, quit              leave the monitor`

// runMonitor reads commands until quit or EOF.
func runMonitor(r *runner) error {
	dirs := configdir.New("PacmanEmulator", "cpurunner")
	cache := dirs.QueryCacheFolder()
	history := ""
	if err := cache.MkdirAll(); err == nil {
		history = filepath.Join(cache.Path, "history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "z80> ",
		HistoryFile:     history,
		InterruptPrompt: "\n",
	})
	if err != nil {
		return errors.Wrap(err, "monitor")
	}
	defer rl.Close()

	r.out = rl.Stdout()
	fmt.Fprintln(r.out, monitorHelp)
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			return nil
		}
		quit, err := execCommand(r, line, r.out)
		if err != nil {
			fmt.Fprintln(r.out, "error:", err)
		}
		if quit {
			return nil
		}
	}
}

func parseAddr(s string) (uint16, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(strings.ToLower(s), "0x"), "h")
	v, err := strconv.ParseUint(s, 16, 16)
	return uint16(v), errors.Wrapf(err, "bad address %q", s)
}

func parseCount(args []string, i int, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 1 {
		return 0, errors.Errorf("bad count %q", args[i])
	}
	return n, nil
}

// execCommand runs one monitor line and reports whether to quit.
func execCommand(r *runner, line string, out io.Writer) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	switch args[0] {
	case "q", "quit", "exit":
		return true, nil
	case "h", "help", "?":
		fmt.Fprintln(out, monitorHelp)
	case "s", "step":
		n, err := parseCount(args, 1, 1)
		if err != nil {
			return false, err
		}
		for i := 0; i < n; i++ {
			if err := r.step(); err != nil {
				return false, err
			}
		}
		fmt.Fprintln(out, formatRegs(&r.c.Registers))
	case "r", "regs":
		fmt.Fprintln(out, formatRegs(&r.c.Registers))
	case "m", "mem":
		if len(args) < 2 {
			return false, errors.New("usage: mem addr [len]")
		}
		addr, err := parseAddr(args[1])
		if err != nil {
			return false, err
		}
		n, err := parseCount(args, 2, 64)
		if err != nil {
			return false, err
		}
		hexDump(out, r.mem, addr, n)
	case "d", "dis":
		addr := r.c.PC
		if len(args) > 1 {
			a, err := parseAddr(args[1])
			if err != nil {
				return false, err
			}
			addr = a
		}
		n, err := parseCount(args, 2, 10)
		if err != nil {
			return false, err
		}
		for i := 0; i < n; i++ {
			text, size := cpu.Disassemble(r.mem.Read, addr)
			fmt.Fprintf(out, "%04X  %s\n", addr, text)
			addr += uint16(size)
		}
	case "b", "break":
		if len(args) < 2 {
			for a := range r.breaks {
				fmt.Fprintf(out, "%04X\n", a)
			}
			return false, nil
		}
		addr, err := parseAddr(args[1])
		if err != nil {
			return false, err
		}
		if r.breaks[addr] {
			delete(r.breaks, addr)
			fmt.Fprintf(out, "breakpoint %04X removed\n", addr)
		} else {
			r.breaks[addr] = true
			fmt.Fprintf(out, "breakpoint %04X set\n", addr)
		}
	case "c", "continue":
		err := r.run(0)
		switch {
		case errors.Is(err, errBreak):
			fmt.Fprintf(out, "break at %04X\n", r.c.PC)
		case err != nil:
			return false, err
		}
		fmt.Fprintln(out, formatRegs(&r.c.Registers))
	default:
		return false, errors.Errorf("unknown command %q", args[0])
	}
	return false, nil
}

func hexDump(out io.Writer, mem *flatMemory, addr uint16, n int) {
	for off := 0; off < n; off += 16 {
		a := addr + uint16(off)
		fmt.Fprintf(out, "%04X ", a)
		for i := 0; i < 16 && off+i < n; i++ {
			fmt.Fprintf(out, " %02X", mem.Read(a+uint16(i)))
		}
		fmt.Fprintln(out)
	}
}
