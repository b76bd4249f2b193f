package mos6502

import "fmt"

// Disassemble decodes every instruction it can identify between lo
// and hi (inclusive of the instruction starting at hi, which may read
// past it), returning one line of text per instruction keyed by the
// address it starts at. It doesn't try to distinguish code from data:
// callers picking a range that includes raw data will get garbage
// lines back for that stretch, same as it would on real hardware.
func Disassemble(bus Bus, lo, hi uint16) map[uint16]string {
	out := make(map[uint16]string)

	addr := uint32(lo)
	for addr <= uint32(hi) {
		start := uint16(addr)
		opcode := bus.Read(start)
		in := lookup(opcode)

		var operand string
		a := start + 1
		switch in.mode {
		case IMP:
			operand = ""
		case IMM:
			operand = fmt.Sprintf(" #$%02X", bus.Read(a))
		case ZP0:
			operand = fmt.Sprintf(" $%02X", bus.Read(a))
		case ZPX:
			operand = fmt.Sprintf(" $%02X,X", bus.Read(a))
		case ZPY:
			operand = fmt.Sprintf(" $%02X,Y", bus.Read(a))
		case REL:
			rel := int8(bus.Read(a))
			operand = fmt.Sprintf(" $%04X", uint16(int32(a)+1+int32(rel)))
		case ABS:
			operand = fmt.Sprintf(" $%04X", uint16(bus.Read(a))|uint16(bus.Read(a+1))<<8)
		case ABX:
			operand = fmt.Sprintf(" $%04X,X", uint16(bus.Read(a))|uint16(bus.Read(a+1))<<8)
		case ABY:
			operand = fmt.Sprintf(" $%04X,Y", uint16(bus.Read(a))|uint16(bus.Read(a+1))<<8)
		case IND:
			operand = fmt.Sprintf(" ($%04X)", uint16(bus.Read(a))|uint16(bus.Read(a+1))<<8)
		case IZX:
			operand = fmt.Sprintf(" ($%02X,X)", bus.Read(a))
		case IZY:
			operand = fmt.Sprintf(" ($%02X),Y", bus.Read(a))
		}

		out[start] = fmt.Sprintf("%s%s", in.name, operand)
		addr = uint32(start) + 1 + uint32(operandBytes(in.mode))
	}

	return out
}
