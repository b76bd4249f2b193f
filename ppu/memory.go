package ppu

import "github.com/ashgrove-labs/nescore/mapper"

// Cartridge is the PPU-side view of the loaded cartridge: pattern
// table access and the mirroring mode that governs nametable layout.
type Cartridge interface {
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, val uint8)
	MirroringMode() mapper.MirroringMode
}

// busRead resolves a PPU-bus address (the 14-bit VRAM space mirrored
// from $0000-$3FFF) to pattern table, nametable RAM, or palette RAM.
func (p *PPU) busRead(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.cart != nil {
			return p.cart.ReadCHR(addr)
		}
		return 0
	case addr < 0x3F00:
		return p.nametables[p.nametableOffset(addr)]
	default:
		return p.paletteRAM[paletteOffset(addr)]
	}
}

func (p *PPU) busWrite(addr uint16, val uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.cart != nil {
			p.cart.WriteCHR(addr, val)
		}
	case addr < 0x3F00:
		p.nametables[p.nametableOffset(addr)] = val
	default:
		p.paletteRAM[paletteOffset(addr)] = val
	}
}

// nametableOffset maps a $2000-$2FFF address into one of the two
// physical 1KB nametable banks, per the cartridge's mirroring mode.
// Four logical 1KB tables are mirrored down to two physical ones:
// horizontal mirroring pairs tables {0,1} and {2,3}; vertical pairs
// {0,2} and {1,3}.
func (p *PPU) nametableOffset(addr uint16) uint16 {
	rel := (addr - 0x2000) % 0x1000
	table := rel / 0x0400
	within := rel % 0x0400

	mode := mapper.Horizontal
	if p.cart != nil {
		mode = p.cart.MirroringMode()
	}

	var bank uint16
	switch mode {
	case mapper.Vertical:
		bank = table % 2
	case mapper.FourScreen:
		bank = table % 2 // only two physical banks exist without extra cartridge RAM
	default: // Horizontal
		bank = table / 2
	}
	return bank*0x0400 + within
}

// paletteOffset collapses the 32-byte palette RAM mirror and aliases
// the four sprite-palette backdrop slots onto the background ones.
func paletteOffset(addr uint16) uint16 {
	off := (addr - 0x3F00) % 32
	if off >= 0x10 && off%4 == 0 {
		off -= 0x10
	}
	return off
}
