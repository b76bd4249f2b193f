// Package input implements the console's controller ports: a
// parallel-in, serial-out shift register and the control pad that
// latches its button state into one.
package input

// ShiftRegister is a parallel-in, serial-out, MSB-first, left-shifting
// bit source. Load replaces the held value; each Output call returns
// the current MSB and shifts the register left, so width successive
// calls after a Load drain exactly the loaded bits, and any further
// call returns 0.
type ShiftRegister struct {
	width uint8
	data  uint8
}

// NewShiftRegister returns a register that outputs width bits per
// load, 1 <= width <= 8.
func NewShiftRegister(width uint8) *ShiftRegister {
	return &ShiftRegister{width: width}
}

// Load replaces the register's contents with v.
func (s *ShiftRegister) Load(v uint8) {
	s.data = v
}

// Output returns the current MSB (at bit position width-1) and shifts
// the register left by one.
func (s *ShiftRegister) Output() uint8 {
	bit := (s.data >> (s.width - 1)) & 0x01
	s.data <<= 1
	return bit
}
