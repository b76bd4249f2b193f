package ppu

// PPUCTRL ($2000) bits.
const (
	CtrlNametableX           uint8 = 1 << 0
	CtrlNametableY           uint8 = 1 << 1
	CtrlIncrementMode        uint8 = 1 << 2
	CtrlSpritePatternTable   uint8 = 1 << 3
	CtrlBackgroundPatternTbl uint8 = 1 << 4
	CtrlSpriteSize           uint8 = 1 << 5
	CtrlMasterSlave          uint8 = 1 << 6
	CtrlEnableNMI            uint8 = 1 << 7
)

// PPUMASK ($2001) bits.
const (
	MaskGreyscale           uint8 = 1 << 0
	MaskShowBackgroundLeft  uint8 = 1 << 1
	MaskShowSpritesLeft     uint8 = 1 << 2
	MaskShowBackground      uint8 = 1 << 3
	MaskShowSprites         uint8 = 1 << 4
	MaskEmphasizeRed        uint8 = 1 << 5
	MaskEmphasizeGreen      uint8 = 1 << 6
	MaskEmphasizeBlue       uint8 = 1 << 7
)

// PPUSTATUS ($2002) bits.
const (
	StatusSpriteOverflow uint8 = 1 << 5
	StatusSpriteZeroHit  uint8 = 1 << 6
	StatusVBlank         uint8 = 1 << 7
)
