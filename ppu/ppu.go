// Package ppu implements the NES picture processing unit: a
// cycle-driven renderer clocked once per PPU dot by the console
// scheduler, producing one pixel per clock into a VideoSink.
package ppu

import "fmt"

// PPU renders the 256x240 NES frame from cartridge pattern data,
// nametable RAM, and object attribute memory, three times the CPU's
// clock rate.
type PPU struct {
	cart Cartridge
	sink VideoSink

	nametables [0x0800]uint8
	paletteRAM [0x0020]uint8
	oam        [primaryOAMSize]uint8

	control uint8
	mask    uint8
	status  uint8
	oamAddr uint8

	v, t  loopy
	fineX uint8
	w     bool // write toggle shared by PPUSCROLL/PPUADDR

	readBuffer uint8

	scanline int
	dot      int

	bgNextTileID     uint8
	bgNextTileAttrib uint8
	bgNextTileLSB    uint8
	bgNextTileMSB    uint8

	bgShifterPatternLo uint16
	bgShifterPatternHi uint16
	bgShifterAttribLo  uint16
	bgShifterAttribHi  uint16

	spriteScan        [maxSpritesPerLine]spriteSlot
	spriteCount       int
	spriteZeroPossible bool

	pendingNMI     bool
	frameComplete  bool
}

// New returns a PPU wired to sink for pixel output. A cartridge must
// be attached separately with SetCartridge before the first Clock.
func New(sink VideoSink) *PPU {
	p := &PPU{sink: sink, scanline: -1}
	sink.InitVideo(ScreenWidth, ScreenHeight)
	return p
}

// SetCartridge attaches (or replaces, for hot-swap) the cartridge the
// PPU reads pattern data and mirroring mode from.
func (p *PPU) SetCartridge(c Cartridge) {
	p.cart = c
}

// Reset returns the PPU to its power-on state. Nametable and palette
// RAM are left intact, matching real hardware (only registers and
// the rendering pipeline state reset).
func (p *PPU) Reset() {
	p.control = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	p.v, p.t = loopy{}, loopy{}
	p.fineX = 0
	p.w = false
	p.readBuffer = 0
	p.scanline = -1
	p.dot = 0
	p.bgShifterPatternLo, p.bgShifterPatternHi = 0, 0
	p.bgShifterAttribLo, p.bgShifterAttribHi = 0, 0
	p.spriteCount = 0
	p.pendingNMI = false
	p.frameComplete = false
}

// TakeNMI reports whether the PPU has raised an NMI since the last
// call, clearing the flag as it reads it. Edge-triggered: the
// scheduler must consume the signal exactly once per assertion.
func (p *PPU) TakeNMI() bool {
	v := p.pendingNMI
	p.pendingNMI = false
	return v
}

// TakeFrameComplete reports whether a frame finished since the last
// call, clearing the flag as it reads it.
func (p *PPU) TakeFrameComplete() bool {
	v := p.frameComplete
	p.frameComplete = false
	return v
}

// WriteOAM satisfies dma.OAMWriter: the DMA controller writes
// straight into primary OAM at a byte offset, bypassing OAMADDR
// auto-increment.
func (p *PPU) WriteOAM(offset uint8, val uint8) {
	p.oam[offset] = val
}

// DebugStatus returns a one-line human-readable summary of register
// state, for the console debugger's PPU view.
func (p *PPU) DebugStatus() string {
	return fmt.Sprintf("scanline=%d dot=%d ctrl=%08b mask=%08b status=%08b v=%04x t=%04x",
		p.scanline, p.dot, p.control, p.mask, p.status, p.v.data, p.t.data)
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(MaskShowBackground|MaskShowSprites) != 0
}

// Clock advances the PPU by exactly one dot, the unit the console
// scheduler calls three times per CPU cycle.
func (p *PPU) Clock() {
	if p.scanline == -1 && p.dot == 1 {
		p.status &^= StatusVBlank | StatusSpriteZeroHit | StatusSpriteOverflow
		for i := range p.spriteScan {
			p.spriteScan[i].patLo = 0
			p.spriteScan[i].patHi = 0
		}
	}

	if p.scanline >= -1 && p.scanline <= 239 {
		p.clockBackground()

		if p.scanline >= 0 {
			if p.dot == 257 {
				p.evaluateSprites()
			}
			if p.dot == 340 {
				p.fetchSpritePatterns()
			}
		}
	}

	if p.dot >= 1 && p.dot <= 257 && p.scanline >= -1 && p.scanline <= 239 {
		p.shiftBackground()
		p.shiftSprites()
	}

	if p.scanline == 241 && p.dot == 1 {
		p.status |= StatusVBlank
		if p.control&CtrlEnableNMI != 0 {
			p.pendingNMI = true
		}
	}

	p.emitPixel()
	p.advanceDot()
}

func (p *PPU) advanceDot() {
	p.dot++
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frameComplete = true
		}
	}
}

// clockBackground runs the tile-fetch micro-sequence and the scroll
// increments it drives, per the background pipeline's 8-dot cadence.
func (p *PPU) clockBackground() {
	if (p.dot >= 2 && p.dot <= 257) || (p.dot >= 321 && p.dot <= 337) {
		switch (p.dot - 1) % 8 {
		case 0:
			p.loadBackgroundShifters()
			p.bgNextTileID = p.busRead(0x2000 | (p.v.data & 0x0FFF))
		case 2:
			addr := uint16(0x23C0) | (p.v.data & 0x0C00) | ((p.v.coarseY() >> 2) << 3) | (p.v.coarseX() >> 2)
			attr := p.busRead(addr)
			if p.v.coarseY()&0x02 != 0 {
				attr >>= 4
			}
			if p.v.coarseX()&0x02 != 0 {
				attr >>= 2
			}
			p.bgNextTileAttrib = attr & 0x03
		case 4:
			p.bgNextTileLSB = p.busRead(p.backgroundPatternBank() + uint16(p.bgNextTileID)*16 + p.v.fineY())
		case 6:
			p.bgNextTileMSB = p.busRead(p.backgroundPatternBank() + uint16(p.bgNextTileID)*16 + p.v.fineY() + 8)
		case 7:
			if p.renderingEnabled() {
				p.v.incrementCoarseX()
			}
		}
	}

	if p.dot == 256 && p.renderingEnabled() {
		p.v.incrementFineY()
	}

	if p.dot == 257 {
		p.loadBackgroundShifters()
		if p.renderingEnabled() {
			p.v.data = (p.v.data &^ 0x041F) | (p.t.data & 0x041F)
		}
	}

	if p.scanline == -1 && p.dot >= 280 && p.dot <= 304 && p.renderingEnabled() {
		p.v.data = (p.v.data &^ 0x7BE0) | (p.t.data & 0x7BE0)
	}
}

func (p *PPU) backgroundPatternBank() uint16 {
	if p.control&CtrlBackgroundPatternTbl != 0 {
		return 0x1000
	}
	return 0
}

func (p *PPU) loadBackgroundShifters() {
	p.bgShifterPatternLo = (p.bgShifterPatternLo & 0xFF00) | uint16(p.bgNextTileLSB)
	p.bgShifterPatternHi = (p.bgShifterPatternHi & 0xFF00) | uint16(p.bgNextTileMSB)

	var lo, hi uint16
	if p.bgNextTileAttrib&0x01 != 0 {
		lo = 0x00FF
	}
	if p.bgNextTileAttrib&0x02 != 0 {
		hi = 0x00FF
	}
	p.bgShifterAttribLo = (p.bgShifterAttribLo & 0xFF00) | lo
	p.bgShifterAttribHi = (p.bgShifterAttribHi & 0xFF00) | hi
}

func (p *PPU) shiftBackground() {
	if p.mask&MaskShowBackground == 0 {
		return
	}
	p.bgShifterPatternLo <<= 1
	p.bgShifterPatternHi <<= 1
	p.bgShifterAttribLo <<= 1
	p.bgShifterAttribHi <<= 1
}

func (p *PPU) shiftSprites() {
	if p.mask&MaskShowSprites == 0 {
		return
	}
	for i := 0; i < p.spriteCount; i++ {
		s := &p.spriteScan[i]
		if s.x > 0 {
			s.x--
			continue
		}
		s.patLo <<= 1
		s.patHi <<= 1
	}
}

// evaluateSprites scans primary OAM for up to 8 sprites intersecting
// the current scanline, per spec: a 9th match sets sprite overflow
// and halts further collection.
func (p *PPU) evaluateSprites() {
	p.spriteCount = 0
	p.spriteZeroPossible = false

	height := 8
	if p.control&CtrlSpriteSize != 0 {
		height = 16
	}

	for i := 0; i < primaryOAMEntries; i++ {
		entry := decodeOAMEntry(p.oam[i*primaryOAMEntryLen : i*primaryOAMEntryLen+primaryOAMEntryLen])
		diff := p.scanline - int(entry.y)
		if diff < 0 || diff >= height {
			continue
		}

		if p.spriteCount == maxSpritesPerLine {
			p.status |= StatusSpriteOverflow
			break
		}

		if i == 0 {
			p.spriteZeroPossible = true
		}
		p.spriteScan[p.spriteCount] = spriteSlot{spriteAttr: entry, isZero: i == 0}
		p.spriteCount++
	}
}

// fetchSpritePatterns loads the pattern bytes for each sprite
// collected by evaluateSprites, applying flips and 8x16 bank
// selection.
func (p *PPU) fetchSpritePatterns() {
	height := 8
	if p.control&CtrlSpriteSize != 0 {
		height = 16
	}

	for i := 0; i < p.spriteCount; i++ {
		s := &p.spriteScan[i]
		row := uint8(p.scanline - int(s.y))

		var addr uint16
		if height == 16 {
			if s.flipV {
				row = 15 - row
			}
			tile := s.tileID &^ 0x01
			bank := uint16(s.tileID&0x01) * 0x1000
			if row >= 8 {
				tile++
				row -= 8
			}
			addr = bank + uint16(tile)*16 + uint16(row)
		} else {
			if s.flipV {
				row = 7 - row
			}
			bank := uint16(0)
			if p.control&CtrlSpritePatternTable != 0 {
				bank = 0x1000
			}
			addr = bank + uint16(s.tileID)*16 + uint16(row)
		}

		lo := p.busRead(addr)
		hi := p.busRead(addr + 8)
		if s.flipH {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}
		s.patLo = lo
		s.patHi = hi
	}
}

func (p *PPU) backgroundPixel(x int) (pixel, palette uint8) {
	if p.mask&MaskShowBackground == 0 {
		return 0, 0
	}
	if p.mask&MaskShowBackgroundLeft == 0 && x < 8 {
		return 0, 0
	}

	bitMux := uint16(0x8000) >> p.fineX
	var lo, hi, plo, phi uint8
	if p.bgShifterPatternLo&bitMux != 0 {
		lo = 1
	}
	if p.bgShifterPatternHi&bitMux != 0 {
		hi = 1
	}
	if p.bgShifterAttribLo&bitMux != 0 {
		plo = 1
	}
	if p.bgShifterAttribHi&bitMux != 0 {
		phi = 1
	}
	return (hi << 1) | lo, (phi << 1) | plo
}

func (p *PPU) foregroundPixel(x int) (pixel, palette uint8, priority, isZero bool) {
	if p.mask&MaskShowSprites == 0 {
		return 0, 0, false, false
	}
	if p.mask&MaskShowSpritesLeft == 0 && x < 8 {
		return 0, 0, false, false
	}

	for i := 0; i < p.spriteCount; i++ {
		s := &p.spriteScan[i]
		if s.x != 0 {
			continue
		}
		lo := (s.patLo >> 7) & 1
		hi := (s.patHi >> 7) & 1
		pix := (hi << 1) | lo
		if pix == 0 {
			continue
		}
		return pix, s.palette + 4, !s.behind, s.isZero && p.spriteZeroPossible
	}
	return 0, 0, false, false
}

// emitPixel composes the background and foreground pixel for the
// current dot, resolves sprite-zero hit, and writes the final color
// to the sink.
func (p *PPU) emitPixel() {
	x := p.dot - 1
	y := p.scanline
	if y < 0 || y > 239 || x < 0 || x > 255 {
		return
	}

	bgPixel, bgPalette := p.backgroundPixel(x)
	fgPixel, fgPalette, fgPriority, fgIsZero := p.foregroundPixel(x)

	var pixel, palette uint8
	switch {
	case bgPixel == 0 && fgPixel == 0:
		pixel, palette = 0, 0
	case bgPixel == 0:
		pixel, palette = fgPixel, fgPalette
	case fgPixel == 0:
		pixel, palette = bgPixel, bgPalette
	default:
		if fgPriority {
			pixel, palette = fgPixel, fgPalette
		} else {
			pixel, palette = bgPixel, bgPalette
		}
		if fgIsZero && p.mask&MaskShowBackground != 0 && p.mask&MaskShowSprites != 0 {
			min := 1
			if p.mask&MaskShowBackgroundLeft == 0 || p.mask&MaskShowSpritesLeft == 0 {
				min = 9
			}
			if p.dot >= min && p.dot <= 257 {
				p.status |= StatusSpriteZeroHit
			}
		}
	}

	colorIdx := p.busRead(0x3F00+uint16(palette)*4+uint16(pixel)) & 0x3F
	p.sink.SetPixel(x, y, systemPalette[colorIdx])
}
