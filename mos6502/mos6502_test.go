package mos6502

import "testing"

// flatBus is a 64KiB flat address space, enough to exercise the CPU
// in isolation from any real bus wiring.
type flatBus struct {
	mem [0x10000]uint8
}

func (b *flatBus) Read(addr uint16) uint8     { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, v uint8) { b.mem[addr] = v }

func (b *flatBus) load(addr uint16, prog []uint8) {
	copy(b.mem[addr:], prog)
}

func (b *flatBus) setResetVector(addr uint16) {
	b.mem[VectorReset] = uint8(addr & 0x00FF)
	b.mem[VectorReset+1] = uint8(addr >> 8)
}

func newTestCPU(b *flatBus) *CPU {
	c := New(b)
	// settle past the documented 8-cycle reset preamble so cycle
	// counts below measure only the program itself.
	for !c.IsCurrentInstructionComplete() {
		c.Clock()
	}
	return c
}

func (c *CPU) clockOneInstruction() {
	c.Clock()
	for !c.IsCurrentInstructionComplete() {
		c.Clock()
	}
}

func TestResetPowerUpState(t *testing.T) {
	b := &flatBus{}
	b.setResetVector(0xC000)
	c := New(b)

	if c.PC != 0xC000 {
		t.Errorf("PC = 0x%04x, want 0xC000", c.PC)
	}
	if c.SP != 0xFD {
		t.Errorf("SP = 0x%02x, want 0xFD", c.SP)
	}
	if c.Acc != 0 || c.X != 0 || c.Y != 0 {
		t.Errorf("A,X,Y = %d,%d,%d, want 0,0,0", c.Acc, c.X, c.Y)
	}
	if c.Status&UNUSED_STATUS_FLAG == 0 {
		t.Error("U flag not set after reset")
	}
}

func TestResetIsIdempotentFromDirtyState(t *testing.T) {
	b := &flatBus{}
	b.setResetVector(0x8000)
	c := New(b)
	c.Acc, c.X, c.Y, c.SP, c.PC = 0x11, 0x22, 0x33, 0x44, 0x5555

	c.Reset()

	if c.PC != 0x8000 || c.SP != 0xFD || c.Acc != 0 || c.X != 0 || c.Y != 0 {
		t.Errorf("Reset from dirty state left A,X,Y,SP,PC = %d,%d,%d,0x%02x,0x%04x",
			c.Acc, c.X, c.Y, c.SP, c.PC)
	}
}

func TestUAlwaysSetAfterInstructionRetires(t *testing.T) {
	b := &flatBus{}
	b.setResetVector(0x8000)
	b.load(0x8000, []uint8{0xEA}) // NOP
	c := newTestCPU(b)

	c.Status &^= UNUSED_STATUS_FLAG
	c.clockOneInstruction()

	if c.Status&UNUSED_STATUS_FLAG == 0 {
		t.Error("U flag not set after instruction retired")
	}
}

func TestRAMWriteThenReadSameInstructionBoundary(t *testing.T) {
	b := &flatBus{}
	b.setResetVector(0x8000)
	b.load(0x8000, []uint8{0x8D, 0x00, 0x02}) // STA $0200
	c := newTestCPU(b)
	c.Acc = 0x99

	c.clockOneInstruction()

	if got := b.Read(0x0200); got != 0x99 {
		t.Errorf("RAM[0x0200] = 0x%02x, want 0x99", got)
	}
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	b := &flatBus{}
	b.setResetVector(0x8000)
	b.load(0x8000, []uint8{0x6C, 0xFF, 0x20}) // JMP ($20FF)
	b.mem[0x20FF] = 0x34
	b.mem[0x2000] = 0x12 // the buggy fetch takes the high byte from 0x2000, not 0x2100
	b.mem[0x2100] = 0x99
	c := newTestCPU(b)

	c.clockOneInstruction()

	if c.PC != 0x1234 {
		t.Errorf("PC = 0x%04x, want 0x1234 (page-wrap bug reproduced)", c.PC)
	}
}

func TestIZXZeroPageWrap(t *testing.T) {
	b := &flatBus{}
	b.setResetVector(0x8000)
	b.load(0x8000, []uint8{0xA1, 0xFE}) // LDA ($FE,X)
	c := newTestCPU(b)
	c.X = 0x05 // pointer byte 0xFE+0x05 wraps to 0x03 within the zero page
	b.mem[0x03] = 0x00
	b.mem[0x04] = 0x02
	b.mem[0x0200] = 0x7E

	c.clockOneInstruction()

	if c.Acc != 0x7E {
		t.Errorf("Acc = 0x%02x, want 0x7E", c.Acc)
	}
}

func TestIZYPageCrossAddsCycle(t *testing.T) {
	b := &flatBus{}
	b.setResetVector(0x8000)
	b.load(0x8000, []uint8{0xB1, 0x10}) // LDA ($10),Y
	c := newTestCPU(b)
	c.Y = 0xFF
	b.mem[0x10] = 0x02
	b.mem[0x11] = 0x02 // base 0x0202, +0xFF crosses into 0x0301
	b.mem[0x0301] = 0x5A

	start := c.TotalCycles()
	c.clockOneInstruction()
	spent := c.TotalCycles() - start

	if c.Acc != 0x5A {
		t.Errorf("Acc = 0x%02x, want 0x5A", c.Acc)
	}
	if spent != 6 { // base 5 + 1 for the page cross
		t.Errorf("cycles spent = %d, want 6", spent)
	}
}

func TestBranchTakenCosts(t *testing.T) {
	cases := []struct {
		name       string
		branchAt   uint16
		target     uint16
		wantCycles uint64
	}{
		{"same page", 0x8000, 0x8010, 3},
		{"page cross", 0x8080, 0x8100, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &flatBus{}
			b.setResetVector(tc.branchAt)
			// BNE with a relative offset computed to land on tc.target
			rel := int32(tc.target) - int32(tc.branchAt) - 2
			b.load(tc.branchAt, []uint8{0xD0, uint8(int8(rel))})
			c := newTestCPU(b)
			c.Status &^= STATUS_FLAG_ZERO // ensure BNE is taken

			start := c.TotalCycles()
			c.clockOneInstruction()
			spent := c.TotalCycles() - start

			if c.PC != tc.target {
				t.Errorf("PC = 0x%04x, want 0x%04x", c.PC, tc.target)
			}
			if spent != tc.wantCycles {
				t.Errorf("cycles spent = %d, want %d", spent, tc.wantCycles)
			}
		})
	}
}

func TestBranchNotTakenCosts2(t *testing.T) {
	b := &flatBus{}
	b.setResetVector(0x8000)
	b.load(0x8000, []uint8{0xD0, 0x10}) // BNE, not taken
	c := newTestCPU(b)
	c.Status |= STATUS_FLAG_ZERO

	start := c.TotalCycles()
	c.clockOneInstruction()
	spent := c.TotalCycles() - start

	if c.PC != 0x8002 {
		t.Errorf("PC = 0x%04x, want 0x8002", c.PC)
	}
	if spent != 2 {
		t.Errorf("cycles spent = %d, want 2", spent)
	}
}

func TestSTAAbsoluteXNeverAddsPageCrossCycle(t *testing.T) {
	b := &flatBus{}
	b.setResetVector(0x8000)
	b.load(0x8000, []uint8{0x9D, 0xFF, 0x02}) // STA $02FF,X
	c := newTestCPU(b)
	c.X = 0x01 // crosses from 0x02FF into 0x0300
	c.Acc = 0x7

	start := c.TotalCycles()
	c.clockOneInstruction()
	spent := c.TotalCycles() - start

	if spent != 5 {
		t.Errorf("cycles spent = %d, want 5 (no page-cross penalty on writes)", spent)
	}
	if got := b.Read(0x0300); got != 0x7 {
		t.Errorf("RAM[0x0300] = 0x%02x, want 0x07", got)
	}
}

// TestMultiplyByRepeatedAddition reproduces the multiply-by-repeated-
// addition program end to end: 10 * 3 computed by adding 3 to an
// accumulator ten times via a DEY/BNE loop.
func TestMultiplyByRepeatedAddition(t *testing.T) {
	b := &flatBus{}
	b.setResetVector(0x8000)
	prog := []uint8{
		0xA2, 0x0A, 0x8E, 0x00, 0x00, 0xA2, 0x03, 0x8E, 0x01, 0x00,
		0xAC, 0x00, 0x00, 0xA9, 0x00, 0x18, 0x6D, 0x01, 0x00, 0x88,
		0xD0, 0xFA, 0x8D, 0x02, 0x00, 0xEA, 0xEA, 0xEA,
	}
	b.load(0x8000, prog)
	c := newTestCPU(b)

	start := c.TotalCycles()
	for c.PC < 0x801A {
		c.Clock()
	}
	// the NOP's fetch moved PC past 0x801A on its first cycle; let it
	// retire so its full cost is counted
	for !c.IsCurrentInstructionComplete() {
		c.Clock()
	}
	spent := c.TotalCycles() - start

	if got := b.Read(0x0000); got != 10 {
		t.Errorf("RAM[0x0000] = %d, want 10", got)
	}
	if got := b.Read(0x0001); got != 3 {
		t.Errorf("RAM[0x0001] = %d, want 3", got)
	}
	if got := b.Read(0x0002); got != 30 {
		t.Errorf("RAM[0x0002] = %d, want 30", got)
	}

	wantSet := uint8(UNUSED_STATUS_FLAG | STATUS_FLAG_ZERO)
	wantClear := uint8(STATUS_FLAG_CARRY | STATUS_FLAG_INTERRUPT_DISABLE | STATUS_FLAG_DECIMAL |
		STATUS_FLAG_BREAK | STATUS_FLAG_OVERFLOW | STATUS_FLAG_NEGATIVE)
	if c.Status&wantSet != wantSet {
		t.Errorf("status = %s, want U and Z set", statusString(c.Status))
	}
	if c.Status&wantClear != 0 {
		t.Errorf("status = %s, want C,I,D,B,V,N clear", statusString(c.Status))
	}

	// Per-opcode cycle accounting for this exact instruction stream:
	// 20 cycles of setup, 10 loop iterations (9 taken branches + 1
	// not-taken) at 89 total, plus the closing STA and NOP.
	const wantCycles = 115
	if spent != wantCycles {
		t.Errorf("cycles spent = %d, want %d", spent, wantCycles)
	}
}

func TestDisassembleBasics(t *testing.T) {
	b := &flatBus{}
	b.load(0x8000, []uint8{0xA9, 0x10, 0x8D, 0x00, 0x02, 0xEA})

	lines := Disassemble(b, 0x8000, 0x8005)

	if lines[0x8000] != "LDA #$10" {
		t.Errorf("lines[0x8000] = %q, want %q", lines[0x8000], "LDA #$10")
	}
	if lines[0x8002] != "STA $0200" {
		t.Errorf("lines[0x8002] = %q, want %q", lines[0x8002], "STA $0200")
	}
	if lines[0x8005] != "NOP" {
		t.Errorf("lines[0x8005] = %q, want %q", lines[0x8005], "NOP")
	}
}

func TestIllegalOpcodeAliasesResolveToNOPAndSBC(t *testing.T) {
	if lookup(0xEB).name != "SBC" {
		t.Errorf("opcode 0xEB = %q, want SBC (undocumented alias)", lookup(0xEB).name)
	}
	if lookup(0x1A).name != "NOP" {
		t.Errorf("opcode 0x1A = %q, want NOP (undocumented alias)", lookup(0x1A).name)
	}
	if lookup(0xFF).name != "???" {
		t.Errorf("opcode 0xFF = %q, want the illegal sink", lookup(0xFF).name)
	}
}
