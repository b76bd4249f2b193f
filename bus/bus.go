// Package bus implements the console's address-routing fabric: an
// ordered list of devices, each bound to a disjoint address range, with
// first-match dispatch for reads and writes.
package bus

import "fmt"

// AddressableDevice is the contract every device on a Bus must
// satisfy. A device that doesn't respond to reads returns 0; a device
// that doesn't respond to writes ignores them.
type AddressableDevice interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// AddressRange is an inclusive, closed [Low, High] interval.
type AddressRange struct {
	Low, High uint16
}

func (r AddressRange) contains(addr uint16) bool {
	return addr >= r.Low && addr <= r.High
}

func (r AddressRange) overlaps(o AddressRange) bool {
	return r.Low <= o.High && o.Low <= r.High
}

// Len returns the number of addresses covered by the range.
func (r AddressRange) Len() uint32 {
	return uint32(r.High) - uint32(r.Low) + 1
}

type binding struct {
	rng AddressRange
	dev AddressableDevice
}

// Bus dispatches reads and writes to the first device whose range
// contains the address. Ranges attached to the same bus must be
// pairwise disjoint.
type Bus struct {
	bindings []binding
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Attach binds dev to rng. It fails with ErrBusOverlap if rng
// intersects a range already attached to this bus.
func (b *Bus) Attach(rng AddressRange, dev AddressableDevice) error {
	for _, bn := range b.bindings {
		if bn.rng.overlaps(rng) {
			return fmt.Errorf("attach [0x%04x-0x%04x]: %w", rng.Low, rng.High, ErrBusOverlap)
		}
	}

	b.bindings = append(b.bindings, binding{rng: rng, dev: dev})
	return nil
}

// Read returns the value produced by the first device whose range
// contains addr, or 0 if no device matches.
func (b *Bus) Read(addr uint16) uint8 {
	for _, bn := range b.bindings {
		if bn.rng.contains(addr) {
			return bn.dev.Read(addr)
		}
	}

	return 0
}

// DMARead is identical to Read; it exists so DMA-driven reads read
// through the same dispatch path without implying any special
// semantics on the device side.
func (b *Bus) DMARead(addr uint16) uint8 {
	return b.Read(addr)
}

// Write delivers val to the first device whose range contains addr.
// No match is a silent no-op.
func (b *Bus) Write(addr uint16, val uint8) {
	for _, bn := range b.bindings {
		if bn.rng.contains(addr) {
			bn.dev.Write(addr, val)
			return
		}
	}
}
