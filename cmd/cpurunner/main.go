package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/cpu"
)

// consoleWriter echoes program output and keeps a copy for -auto.
type consoleWriter struct {
	out io.Writer
	buf bytes.Buffer
}

func (w *consoleWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.out.Write(p)
}

// outcome inspects console text the way ZEXDOC/ZEXALL report results.
// It returns +1 for pass, -1 for a failure and 0 while undecided.
func outcome(s string) int {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "error"):
		return -1
	case strings.Contains(s, "tests complete"), strings.Contains(s, "passed"):
		return 1
	}
	return 0
}

// snapshot is the structure handed to memviz for -memviz.
type snapshot struct {
	Registers cpu.Registers
	Steps     uint64
	Trace     []traceEntry
}

func writeMemviz(path string, r *runner) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "memviz")
	}
	defer f.Close()
	memviz.Map(f, &snapshot{Registers: r.c.Registers, Steps: r.steps, Trace: r.ring.entries()})
	return nil
}

func dumpTrace(w io.Writer, r *runner) {
	fmt.Fprintf(w, "\n--- recent trace (last %d instructions) ---\n", len(r.ring.entries()))
	var prev *cpu.Registers
	for _, e := range r.ring.entries() {
		fmt.Fprintln(w, e.format(prev, r.color))
		regs := e.Regs
		prev = &regs
	}
	fmt.Fprintln(w, "--- end trace ---")
}

func main() {
	romPath := flag.String("rom", "", "path to a raw Z80 image")
	org := flag.Uint("org", 0, "load address of the image (0x100 with -cpm)")
	startPC := flag.Int("pc", -1, "initial PC value (defaults to the load address)")
	startSP := flag.Uint("sp", 0xFFFE, "initial SP value")
	steps := flag.Uint64("steps", 0, "max instructions to run; 0 runs until exit")
	cpm := flag.Bool("cpm", false, "load at 0x100 and service CP/M BDOS console calls")
	trace := flag.Bool("trace", false, "print every instruction")
	auto := flag.Bool("auto", false, "detect pass/fail in console output and exit with code 0/1")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	traceOnFail := flag.Bool("traceOnFail", false, "print a recent trace window when the run fails")
	traceWindow := flag.Int("traceWindow", 200, "number of recent instructions kept for -traceOnFail")
	until := flag.String("until", "", "stop when PC reaches this hex address")
	monitor := flag.Bool("monitor", false, "start an interactive monitor instead of running")
	memvizOut := flag.String("memviz", "", "write a graphviz dump of the final CPU state to this file")
	color := flag.Bool("color", isatty.IsTerminal(os.Stdout.Fd()), "colorize trace output")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	img, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}
	load := uint16(*org)
	if *cpm && *org == 0 {
		load = cpmTPA
	}
	if int(load)+len(img) > 0x10000 {
		log.Fatalf("image of %d bytes does not fit at %04X", len(img), load)
	}

	mem := &flatMemory{}
	mem.load(load, img)
	if *cpm {
		mem.setupCPM()
	}
	console := &consoleWriter{out: os.Stdout}
	r := newRunner(mem, console, *traceWindow)
	r.cpm = *cpm
	r.live = *trace
	r.record = *traceOnFail || *memvizOut != ""
	r.color = *color
	r.c.PC = load
	if *startPC >= 0 {
		r.c.PC = uint16(*startPC)
	}
	r.c.SP = uint16(*startSP)
	if *until != "" {
		a, err := parseAddr(*until)
		if err != nil {
			log.Fatal(err)
		}
		r.breaks[a] = true
	}

	if *monitor {
		r.record = true
		if err := runMonitor(r); err != nil {
			log.Fatal(err)
		}
		return
	}

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}
	code := 0
	for {
		err = r.run(10_000)
		if err != nil {
			break
		}
		if *steps > 0 && r.steps >= *steps {
			break
		}
		if *auto {
			if res := outcome(console.buf.String()); res != 0 {
				if res < 0 {
					code = 1
				}
				break
			}
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s\n", *timeout)
			code = 2
			break
		}
	}

	var de *cpu.DecodeError
	switch {
	case err == nil, errors.Is(err, errExit):
	case errors.Is(err, errHalted):
		fmt.Printf("\nHalted at %04X\n", r.c.PC)
	case errors.Is(err, errBreak):
		fmt.Printf("\nReached %04X\n", r.c.PC)
	case errors.As(err, &de):
		fmt.Printf("\n%v\n", err)
		code = 1
	default:
		fmt.Printf("\n%v\n", err)
		code = 1
	}
	if *auto && code == 0 && outcome(console.buf.String()) < 0 {
		code = 1
	}
	if code != 0 && *traceOnFail {
		dumpTrace(os.Stdout, r)
	}
	if *memvizOut != "" {
		if err := writeMemviz(*memvizOut, r); err != nil {
			log.Print(err)
		}
	}
	fmt.Printf("\nDone: steps=%d cycles=%d elapsed=%s\n", r.steps, r.c.Cycles, time.Since(start).Truncate(time.Millisecond))
	os.Exit(code)
}
