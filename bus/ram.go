package bus

import "fmt"

// RAM is a flat memory array bound to an AddressRange whose length is
// a multiple of the backing array size, so that addresses beyond the
// array mirror back onto it.
type RAM struct {
	rng AddressRange
	mem []uint8
}

// NewRAM allocates memSize bytes of storage to be attached at rng. It
// fails if rng's length isn't an integer multiple of memSize, per
// https://www.nesdev.org/wiki/CPU_memory_map's 2KB-mirrored-to-8KB
// built-in RAM.
func NewRAM(rng AddressRange, memSize uint16) (*RAM, error) {
	if memSize == 0 || rng.Len()%uint32(memSize) != 0 {
		return nil, fmt.Errorf("RAM size %d against range [0x%04x-0x%04x]: %w", memSize, rng.Low, rng.High, ErrAddressRangeNotMultipleOfMemorySize)
	}

	return &RAM{rng: rng, mem: make([]uint8, memSize)}, nil
}

func (r *RAM) offset(addr uint16) uint16 {
	return uint16((addr - r.rng.Low) % uint16(len(r.mem)))
}

func (r *RAM) Read(addr uint16) uint8 {
	return r.mem[r.offset(addr)]
}

func (r *RAM) Write(addr uint16, val uint8) {
	r.mem[r.offset(addr)] = val
}
