package input

// Button identifies one of the eight buttons on a control pad, valued
// by its bit position in the pad's button mask (A is the most
// significant bit, per spec).
type Button uint8

const (
	Right Button = 1 << iota
	Left
	Down
	Up
	Start
	Select
	B
	A
)

// ControlPad is the standard NES controller: an 8-bit MSB-first shift
// register that latches the currently pressed buttons on a strobe
// write and serializes them one bit per read thereafter.
type ControlPad struct {
	buttons uint8
	reg     *ShiftRegister
}

// NewControlPad returns a control pad with no buttons held.
func NewControlPad() *ControlPad {
	return &ControlPad{reg: NewShiftRegister(8)}
}

// SetButtons replaces the currently pressed buttons with mask, a
// bitwise-OR of Button values. The host calls this at any time; the
// pad only samples it into its shift register on the next Write
// strobe.
func (c *ControlPad) SetButtons(mask uint8) {
	c.buttons = mask
}

// Write is the controller-port strobe: it loads the shift register
// from the current button snapshot.
func (c *ControlPad) Write(val uint8) {
	c.reg.Load(c.buttons)
}

// Read serializes the next bit of the latched button mask.
func (c *ControlPad) Read() uint8 {
	return c.reg.Output()
}
