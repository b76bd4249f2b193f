package console

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/ashgrove-labs/nescore/mos6502"
)

// Debugger drives a Console interactively from a terminal: breakpoints,
// single-stepping, memory and stack inspection, and PPU status, all
// consolidated from the teacher's separate CPU- and bus-level BIOS
// loops into one menu over the assembled machine.
type Debugger struct {
	console *Console
}

// NewDebugger wraps console for interactive use.
func NewDebugger(console *Console) *Debugger {
	return &Debugger{console: console}
}

// Run prints the menu and blocks reading commands from stdin until
// (Q)uit. ctx bounds each (R)un, which SIGINT or SIGTERM also stops.
func (d *Debugger) Run(ctx context.Context) {
	sigQuit := make(chan os.Signal, 1)
	signal.Notify(sigQuit, syscall.SIGINT, syscall.SIGTERM)

	breaks := make(map[uint16]struct{})

	for {
		fmt.Printf("%s\n\n", d.console.CPU())
		fmt.Println("(B)reak - add breakpoint")
		fmt.Println("(C)lear - clear breakpoints")
		fmt.Println("(R)un - run to a breakpoint or until stopped")
		fmt.Println("(S)tep - step one instruction")
		fmt.Println("R(e)set - hit the reset button")
		fmt.Println("(M)emory - show a memory range")
		fmt.Println("S(t)ack - show the last 3 stack entries")
		fmt.Println("(I)nstruction - show the instruction at PC")
		fmt.Println("(P)C - set the program counter")
		fmt.Println("PP(U) - show PPU status")
		fmt.Println("(Q)uit")
		fmt.Printf("Choice: ")

		var in rune
		fmt.Scanf("%c\n", &in)

		switch in {
		case 'b', 'B':
			breaks[readAddress("Breakpoint (eg: ff15): ")] = struct{}{}
		case 'c', 'C':
			breaks = make(map[uint16]struct{})
		case 'p', 'P':
			d.console.CPU().PC = readAddress("Set PC to what address (eg: 0400)?: ")
		case 'q', 'Q':
			return
		case 'r', 'R':
			cctx, cancel := context.WithCancel(ctx)
			go func(ctx context.Context) {
				select {
				case <-sigQuit:
					cancel()
				case <-ctx.Done():
				}
			}(cctx)
			d.runToBreakpoint(cctx, breaks)
		case 's', 'S':
			d.console.AdvanceInstruction()
		case 't', 'T':
			fmt.Println()
			// SP points at the next free slot; the last entry is above it
			stackTop := uint16(0x0100) | uint16(d.console.CPU().SP)
			for m := stackTop + 1; m <= 0x01FF && m <= stackTop+3; m++ {
				fmt.Printf("0x%04x: 0x%02x ", m, d.console.Bus().Read(m))
			}
			fmt.Printf("\n\n")
		case 'i', 'I':
			pc := d.console.CPU().PC
			listing := mos6502.Disassemble(d.console.Bus(), pc, pc+2)
			fmt.Printf("\n%s\n\n", listing[pc])
		case 'u', 'U':
			fmt.Println(d.console.PPUStatus())
		case 'e', 'E':
			d.console.Reset()
		case 'm', 'M':
			fmt.Println()
			low := readAddress("Low address (eg f00d): ")
			high := readAddress("High address (eg beef): ")
			fmt.Println()

			col := 1
			i := low
			for {
				fmt.Printf("0x%04x: 0x%02x ", i, d.console.Bus().Read(i))
				if col%5 == 0 {
					fmt.Println()
				}
				if i == high || i == math.MaxUint16 {
					break
				}
				col++
				i++
			}
			fmt.Printf("\n\n")
		}
	}
}

// runToBreakpoint steps instructions until PC lands on a breakpoint
// or ctx is canceled.
func (d *Debugger) runToBreakpoint(ctx context.Context, breaks map[uint16]struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			d.console.AdvanceInstruction()
			if _, hit := breaks[d.console.CPU().PC]; hit {
				return
			}
		}
	}
}

func readAddress(prompt string) uint16 {
	var a uint16
	fmt.Printf(prompt)
	fmt.Scanf("%04x\n", &a)
	return a
}
