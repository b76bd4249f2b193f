// Package cartridge implements construction of a NES cartridge from
// an iNES image and its addressable-device contract: program memory
// and character memory, both mediated by a Mapper.
// https://www.nesdev.org/wiki/INES
package cartridge

import (
	"fmt"
	"io"
	"os"

	"github.com/ashgrove-labs/nescore/mapper"
)

const (
	trainerSize = 512
	prgBankSize = 16384
	chrBankSize = 8192
	chrRAMSize  = 8192
)

// Cartridge owns program and character memory and delegates address
// translation to a Mapper.
type Cartridge struct {
	prg []uint8
	chr []uint8

	chrIsRAM bool
	mapper   mapper.Mapper
	mirror   mapper.MirroringMode
}

// New parses an iNES image from r and constructs the cartridge it
// describes.
func New(r io.Reader) (*Cartridge, error) {
	hb := make([]byte, 16)
	if _, err := io.ReadFull(r, hb); err != nil {
		return nil, fmt.Errorf("cartridge: reading header: %w: %w", ErrInvalidDataFormat, err)
	}

	h := parseHeader(hb)
	if !h.isValid() {
		return nil, fmt.Errorf("cartridge: bad magic %q: %w", h.magic, ErrInvalidDataFormat)
	}

	if h.hasTrainer() {
		trainer := make([]byte, trainerSize)
		if _, err := io.ReadFull(r, trainer); err != nil {
			return nil, fmt.Errorf("cartridge: reading trainer: %w: %w", ErrInvalidDataFormat, err)
		}
	}

	prg := make([]byte, prgBankSize*int(h.prgSize))
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, fmt.Errorf("cartridge: reading %d PRG bank(s): %w: %w", h.prgSize, ErrInvalidDataFormat, err)
	}

	chrIsRAM := h.chrSize == 0
	chrLen := chrBankSize * int(h.chrSize)
	if chrIsRAM {
		chrLen = chrRAMSize
	}
	chr := make([]byte, chrLen)
	if !chrIsRAM {
		if _, err := io.ReadFull(r, chr); err != nil {
			return nil, fmt.Errorf("cartridge: reading %d CHR bank(s): %w: %w", h.chrSize, ErrInvalidDataFormat, err)
		}
	}

	m, err := mapper.New(h.mapperID(), h.prgSize, h.chrSize)
	if err != nil {
		return nil, err
	}

	return &Cartridge{
		prg:      prg,
		chr:      chr,
		chrIsRAM: chrIsRAM,
		mapper:   m,
		mirror:   h.mirroringMode(),
	}, nil
}

// NewFromFile opens path and parses it as an iNES image.
func NewFromFile(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cartridge: opening %q: %w", path, err)
	}
	defer f.Close()

	return New(f)
}

// Read satisfies the CPU-bus addressable-device contract over the
// program window [0x8000..0xFFFF].
func (c *Cartridge) Read(addr uint16) uint8 {
	switch r := c.mapper.Read(addr); r.Kind {
	case mapper.Program:
		return c.prg[int(r.Offset)%len(c.prg)]
	case mapper.Value:
		return r.Val
	}

	return 0
}

// Write satisfies the CPU-bus addressable-device contract. Most
// cartridges treat this purely as a bank-select signal, but a mapper
// may route it into program memory, which supports test harnesses
// that program the reset vector directly.
func (c *Cartridge) Write(addr uint16, val uint8) {
	if r := c.mapper.Write(addr, val); r.Kind == mapper.Program {
		c.prg[int(r.Offset)%len(c.prg)] = val
	}
}

// ReadCHR satisfies the PPU-bus pattern-memory window [0x0000..0x1FFF].
func (c *Cartridge) ReadCHR(addr uint16) uint8 {
	switch r := c.mapper.Read(addr); r.Kind {
	case mapper.Character:
		return c.chr[int(r.Offset)%len(c.chr)]
	case mapper.Value:
		return r.Val
	}

	return 0
}

// WriteCHR writes to character memory when the mapper routes the
// write there (character RAM, or a mapper exposing CHR banking).
func (c *Cartridge) WriteCHR(addr uint16, val uint8) {
	if r := c.mapper.Write(addr, val); r.Kind == mapper.Character {
		c.chr[int(r.Offset)%len(c.chr)] = val
	}
}

// MirroringMode returns the mapper's hardwired mode if it has one,
// else the cartridge header's.
func (c *Cartridge) MirroringMode() mapper.MirroringMode {
	if mm, ok := c.mapper.MirroringMode(); ok {
		return mm
	}
	return c.mirror
}

// Reset restores the mapper's initial bank selection.
func (c *Cartridge) Reset() {
	c.mapper.Reset()
}
