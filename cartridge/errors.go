package cartridge

import "errors"

// ErrInvalidDataFormat is returned when the iNES magic is missing or
// the data is truncated relative to the bank counts its header
// declares.
var ErrInvalidDataFormat = errors.New("cartridge: invalid iNES data")
