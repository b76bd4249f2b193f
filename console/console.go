// Package console wires the CPU, PPU, cartridge, controllers and OAM
// DMA into a single master-clocked scheduler, the NES's own address
// decoding made explicit as bus.AddressableDevice bindings.
package console

import (
	"time"

	"github.com/ashgrove-labs/nescore/bus"
	"github.com/ashgrove-labs/nescore/cartridge"
	"github.com/ashgrove-labs/nescore/dma"
	"github.com/ashgrove-labs/nescore/input"
	"github.com/ashgrove-labs/nescore/mos6502"
	"github.com/ashgrove-labs/nescore/ppu"
)

const (
	ramSize = 0x0800 // 2 KiB internal RAM, mirrored across [0x0000, 0x1FFF]

	masterHz = 5369318.0 // PPU dot rate: 3x the CPU's ~1.789773 MHz
)

// dmaRegister adapts dma.Controller's single-byte Write onto the
// CPU-bus AddressableDevice contract for the $4014 OAMDMA register.
type dmaRegister struct {
	ctrl *dma.Controller
}

func (d dmaRegister) Read(addr uint16) uint8      { return 0 }
func (d dmaRegister) Write(addr uint16, val uint8) { d.ctrl.Write(val) }

// Console is the assembled machine: a CPU bus, a PPU, the inserted
// cartridge, two hot-swappable controller ports, and the OAM DMA
// controller, all clocked together by Clock.
type Console struct {
	cpuBus *bus.Bus
	cpu    *mos6502.CPU
	video  *ppu.PPU
	dma    *dma.Controller
	ports  [2]*input.Port

	cart *cartridge.Cartridge

	masterClock uint64
	residual    time.Duration
}

// New assembles a console with no cartridge inserted. InsertCartridge
// must be called before Clock produces anything meaningful.
func New(sink ppu.VideoSink) *Console {
	c := &Console{
		video: ppu.New(sink),
		dma:   dma.NewController(),
		ports: [2]*input.Port{input.NewPort(), input.NewPort()},
	}

	c.cpuBus = c.buildCPUBus()
	c.dma.Wire(c.cpuBus, c.video)
	c.cpu = mos6502.New(c.cpuBus)

	return c
}

// buildCPUBus assembles the fixed, cartridge-independent portion of
// the CPU address space: RAM, PPU registers, controller ports, and
// the OAM DMA trigger. Called again on every cartridge swap since
// bus.Bus has no detach operation.
func (c *Console) buildCPUBus() *bus.Bus {
	b := bus.New()
	ram, err := bus.NewRAM(bus.AddressRange{Low: 0x0000, High: 0x1FFF}, ramSize)
	must(err)
	must(b.Attach(bus.AddressRange{Low: 0x0000, High: 0x1FFF}, ram))
	must(b.Attach(bus.AddressRange{Low: 0x2000, High: 0x3FFF}, c.video))
	must(b.Attach(bus.AddressRange{Low: 0x4016, High: 0x4016}, c.ports[0]))
	must(b.Attach(bus.AddressRange{Low: 0x4017, High: 0x4017}, c.ports[1]))
	must(b.Attach(bus.AddressRange{Low: 0x4014, High: 0x4014}, dmaRegister{c.dma}))
	return b
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// InsertCartridge attaches (or hot-swaps, per spec §3's cartridge
// lifecycle) the PRG/CHR mapping and resets the machine, as a real
// console does on power-up with a cartridge seated.
func (c *Console) InsertCartridge(cart *cartridge.Cartridge) {
	if c.cart != nil {
		c.removeCartridgeBindings()
	}
	c.cart = cart
	must(c.cpuBus.Attach(bus.AddressRange{Low: 0x8000, High: 0xFFFF}, cart))
	c.video.SetCartridge(cart)
	c.Reset()
}

// removeCartridgeBindings exists so a second InsertCartridge call
// doesn't hit bus.ErrBusOverlap; bus.Bus has no detach, so the prior
// cartridge's binding is simply left unreachable once replaced by a
// fresh Bus built the same way. Rebuilding the CPU bus keeps Attach's
// overlap invariant intact across cartridge swaps.
func (c *Console) removeCartridgeBindings() {
	c.cpuBus = c.buildCPUBus()
	c.dma.Wire(c.cpuBus, c.video)
	c.cpu = mos6502.New(c.cpuBus)
}

// AttachController plugs ctrl into port 0 or 1, replacing whatever
// was attached there.
func (c *Console) AttachController(port int, ctrl input.Controller) {
	c.ports[port].Attach(ctrl)
}

// DetachController unplugs whatever is attached to the given port.
func (c *Console) DetachController(port int) {
	c.ports[port].Detach()
}

// Reset restores CPU and cartridge state and re-zeroes the master
// clock, leaving RAM and PPU memory contents untouched.
func (c *Console) Reset() {
	c.masterClock = 0
	c.residual = 0
	if c.cart != nil {
		c.cart.Reset()
	}
	c.video.Reset()
	c.cpu = mos6502.New(c.cpuBus)
}

// Clock advances the machine by exactly one PPU dot: the PPU always
// clocks, and every third dot either the CPU or (if a transfer is in
// progress) the DMA controller clocks instead, since DMA stalls the
// CPU for its duration.
func (c *Console) Clock() {
	c.video.Clock()

	if c.masterClock%3 == 0 {
		if c.dma.InProgress() {
			// error is impossible once Wire has been called by New
			_ = c.dma.Clock(c.masterClock)
		} else {
			c.cpu.Clock()
		}
	}

	if c.video.TakeNMI() {
		c.cpu.NMI()
	}

	c.masterClock++
}

// AdvanceInstruction clocks the machine until the CPU has finished
// the instruction (or reset sequence) it was mid-executing and has
// then begun the next one. The CPU applies an instruction's effects
// on its first cycle, so those of the newly begun instruction are
// already visible on return.
func (c *Console) AdvanceInstruction() {
	for !c.cpu.IsCurrentInstructionComplete() {
		c.Clock()
	}
	for c.cpu.IsCurrentInstructionComplete() {
		c.Clock()
	}
}

// AdvanceFrame clocks the machine until the PPU reports a completed
// frame.
func (c *Console) AdvanceFrame() {
	for !c.video.TakeFrameComplete() {
		c.Clock()
	}
}

// Update advances the console by elapsed wall-clock time, accumulating
// whatever fraction of a master tick didn't divide evenly so pacing
// doesn't drift over many calls.
func (c *Console) Update(elapsed time.Duration) {
	c.residual += elapsed
	tick := time.Second / time.Duration(masterHz)
	for c.residual >= tick {
		c.Clock()
		c.residual -= tick
	}
}

// CPU exposes the CPU for the debugger.
func (c *Console) CPU() *mos6502.CPU { return c.cpu }

// Bus exposes the CPU bus for the debugger's memory inspection.
func (c *Console) Bus() *bus.Bus { return c.cpuBus }

// PPUStatus returns a short human-readable summary of PPU register
// state for the debugger's PPU view.
func (c *Console) PPUStatus() string {
	return c.video.DebugStatus()
}
