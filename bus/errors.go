package bus

import "errors"

// ErrBusOverlap is returned by Attach when the given range intersects
// a range already bound on the bus.
var ErrBusOverlap = errors.New("bus: overlapping address range")

// ErrAddressRangeNotMultipleOfMemorySize is returned by NewRAM when
// the address range it's to be bound to isn't an integer multiple of
// the backing memory size.
var ErrAddressRangeNotMultipleOfMemorySize = errors.New("bus: address range is not a multiple of memory size")
