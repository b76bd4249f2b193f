package ppu

// loopy stores one of the PPU's two 15-bit scroll/address composites
// (v, the current VRAM address, or t, the temporary one latched by
// writes to PPUSCROLL/PPUADDR until the next PPUADDR low-byte write).
// yyy NN YYYYY XXXXX
// ||| || ||||| +++++-- coarse X scroll
// ||| || +++++-------- coarse Y scroll
// ||| ++-------------- nametable select
// +++----------------- fine Y scroll
type loopy struct {
	data uint16 // only 15 bits used
}

func (l *loopy) coarseX() uint16 {
	return l.data & 0x001F
}

func (l *loopy) setCoarseX(n uint16) {
	l.data = (l.data & 0xFFE0) | (n & 0x001F)
}

// incrementCoarseX wraps coarse X at 32 and flips nametable-X on
// wrap, per the background fetch micro-sequence's step 7.
func (l *loopy) incrementCoarseX() {
	if l.coarseX() == 31 {
		l.setCoarseX(0)
		l.toggleNametableX()
		return
	}
	l.setCoarseX(l.coarseX() + 1)
}

func (l *loopy) coarseY() uint16 {
	return (l.data & 0x03E0) >> 5
}

func (l *loopy) setCoarseY(n uint16) {
	l.data = (l.data & 0xFC1F) | ((n & 0x001F) << 5)
}

// incrementCoarseY wraps to 0 after row 29 (the last visible
// nametable row) and flips nametable-Y on that wrap; it still wraps numerically at 32
// (the field's full range) without flipping, matching the attribute
// rows beyond the visible area that some games briefly scroll into.
func (l *loopy) incrementCoarseY() {
	switch l.coarseY() {
	case 29:
		l.setCoarseY(0)
		l.toggleNametableY()
	case 31:
		l.setCoarseY(0)
	default:
		l.setCoarseY(l.coarseY() + 1)
	}
}

func (l *loopy) nametableX() uint16 {
	return (l.data & 0x0400) >> 10
}

func (l *loopy) toggleNametableX() {
	l.data ^= 0x0400
}

func (l *loopy) nametableY() uint16 {
	return (l.data & 0x0800) >> 11
}

func (l *loopy) toggleNametableY() {
	l.data ^= 0x0800
}

func (l *loopy) fineY() uint16 {
	return (l.data & 0x7000) >> 12
}

func (l *loopy) setFineY(n uint16) {
	l.data = (l.data & 0x0FFF) | ((n & 0x0007) << 12)
}

// incrementFineY wraps at 8, rolling into incrementCoarseY on wrap.
func (l *loopy) incrementFineY() {
	if l.fineY() == 7 {
		l.setFineY(0)
		l.incrementCoarseY()
		return
	}
	l.setFineY(l.fineY() + 1)
}
