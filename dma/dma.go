// Package dma implements the CPU-to-OAM burst transfer: a single
// CPU-bus register that, when written, copies a 256-byte page of CPU
// memory into PPU object attribute memory one byte per CPU slot,
// stalling the CPU for the duration.
package dma

import "errors"

// ErrReadDeviceNotAssigned is returned by Clock when a transfer is in
// progress but no source bus has been wired.
var ErrReadDeviceNotAssigned = errors.New("dma: read device not assigned")

// ErrWriteDeviceNotAssigned is returned by Clock when a transfer is in
// progress but no OAM destination has been wired.
var ErrWriteDeviceNotAssigned = errors.New("dma: write device not assigned")

// Reader is the CPU-bus read capability the controller copies from.
type Reader interface {
	DMARead(addr uint16) uint8
}

// OAMWriter is the PPU's object attribute memory, written at a
// single-byte offset that wraps within the 256-byte page.
type OAMWriter interface {
	WriteOAM(offset uint8, val uint8)
}

// Controller is the OAM DMA register. A CPU write latches the source
// page and begins a transfer; Clock must then be called once per
// master tick on every CPU slot until InProgress returns false.
type Controller struct {
	reader Reader
	writer OAMWriter

	transferring bool
	sync         bool
	page         uint8
	addr         uint8
	readByte     uint8
}

// NewController returns a controller with its endpoints unwired; Wire
// must be called before the first transfer.
func NewController() *Controller {
	return &Controller{}
}

// Wire attaches the CPU-bus reader and OAM writer endpoints. Per
// spec §9 this happens last, once the scheduler has constructed every
// other device.
func (c *Controller) Wire(r Reader, w OAMWriter) {
	c.reader = r
	c.writer = w
}

// Write is the CPU-bus write that triggers a transfer: val's bits
// become the high byte of the 256-byte source page. The transfer
// begins deferred behind a sync cycle, per spec §4.6.
func (c *Controller) Write(val uint8) {
	c.page = val
	c.addr = 0
	c.transferring = true
	c.sync = true
}

// InProgress reports whether a transfer is currently stalling the
// CPU.
func (c *Controller) InProgress() bool {
	return c.transferring
}

// Clock advances the transfer by one master tick. clockCount is the
// scheduler's master cycle counter, whose parity gates the
// alternating read/write halves of each byte copied. It is a no-op
// when no transfer is in progress.
func (c *Controller) Clock(clockCount uint64) error {
	if !c.transferring {
		return nil
	}
	if c.reader == nil {
		return ErrReadDeviceNotAssigned
	}
	if c.writer == nil {
		return ErrWriteDeviceNotAssigned
	}

	if c.sync {
		if clockCount%2 == 1 {
			c.sync = false
		}
		return nil
	}

	if clockCount%2 == 0 {
		c.readByte = c.reader.DMARead(uint16(c.page)<<8 | uint16(c.addr))
		return nil
	}

	c.writer.WriteOAM(c.addr, c.readByte)
	c.addr++
	if c.addr == 0 {
		c.transferring = false
		c.sync = true
	}
	return nil
}
