package ppu

// Read and Write implement bus.AddressableDevice over the eight PPU
// registers, mirrored every 8 bytes across $2000-$3FFF.
func (p *PPU) Read(addr uint16) uint8 {
	switch addr & 0x0007 {
	case 0x0002: // PPUSTATUS
		val := (p.status & 0xE0) | (p.readBuffer & 0x1F)
		p.status &^= StatusVBlank
		p.w = false
		return val
	case 0x0004: // OAMDATA
		return p.oam[p.oamAddr]
	case 0x0007: // PPUDATA
		return p.readPPUData()
	default:
		return 0
	}
}

func (p *PPU) readPPUData() uint8 {
	addr := p.v.data & 0x3FFF
	var val uint8
	if addr >= 0x3F00 {
		val = p.busRead(addr)
		p.readBuffer = p.busRead(addr - 0x1000)
	} else {
		val = p.readBuffer
		p.readBuffer = p.busRead(addr)
	}
	p.advanceVRAMAddr()
	return val
}

func (p *PPU) Write(addr uint16, val uint8) {
	switch addr & 0x0007 {
	case 0x0000: // PPUCTRL
		p.control = val
		p.t.data = (p.t.data &^ 0x0C00) | (uint16(val&0x03) << 10)
	case 0x0001: // PPUMASK
		p.mask = val
	case 0x0003: // OAMADDR
		p.oamAddr = val
	case 0x0004: // OAMDATA
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case 0x0005: // PPUSCROLL
		if !p.w {
			p.fineX = val & 0x07
			p.t.setCoarseX(uint16(val) >> 3)
		} else {
			p.t.setFineY(uint16(val) & 0x07)
			p.t.setCoarseY(uint16(val) >> 3)
		}
		p.w = !p.w
	case 0x0006: // PPUADDR
		if !p.w {
			p.t.data = (p.t.data & 0x00FF) | (uint16(val&0x3F) << 8)
		} else {
			p.t.data = (p.t.data & 0xFF00) | uint16(val)
			p.v = p.t
		}
		p.w = !p.w
	case 0x0007: // PPUDATA
		p.busWrite(p.v.data&0x3FFF, val)
		p.advanceVRAMAddr()
	}
}

func (p *PPU) advanceVRAMAddr() {
	if p.control&CtrlIncrementMode != 0 {
		p.v.data += 32
	} else {
		p.v.data++
	}
}
