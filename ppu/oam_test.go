package ppu

import "testing"

func TestDecodeOAMEntryAttributes(t *testing.T) {
	cases := []struct {
		attrib                     uint8
		wantPalette                uint8
		wantBehind, wantFH, wantFV bool
	}{
		{0b11111111, 0x03, true, true, true},
		{0b01111111, 0x03, true, true, false},
		{0b00111111, 0x03, true, false, false},
		{0b00111101, 0x01, true, false, false},
		{0b00011101, 0x01, false, false, false},
		{0b10011101, 0x01, false, false, true},
		{0b10011110, 0x02, false, false, true},
	}

	for i, tc := range cases {
		s := decodeOAMEntry([]uint8{0, 0, tc.attrib, 0})

		if s.palette != tc.wantPalette || s.behind != tc.wantBehind || s.flipH != tc.wantFH || s.flipV != tc.wantFV {
			t.Errorf("%d: %02x, %t, %t, %t; wanted %02x, %t, %t, %t",
				i, s.palette, s.behind, s.flipH, s.flipV, tc.wantPalette, tc.wantBehind, tc.wantFH, tc.wantFV)
		}

		// bits 2-4 are unimplemented and not kept by the decode
		if want := tc.attrib &^ 0x1C; s.attributes() != want {
			t.Errorf("%d: attributes() = %08b, want %08b", i, s.attributes(), want)
		}
	}
}

func TestReverseBits(t *testing.T) {
	cases := []struct{ in, want uint8 }{
		{0b00000001, 0b10000000},
		{0b10000000, 0b00000001},
		{0b11010010, 0b01001011},
		{0b00000000, 0b00000000},
		{0b11111111, 0b11111111},
	}
	for _, tc := range cases {
		if got := reverseBits(tc.in); got != tc.want {
			t.Errorf("reverseBits(%08b) = %08b, want %08b", tc.in, got, tc.want)
		}
	}
}
