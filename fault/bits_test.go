package fault

import (
	"math/bits"
	"testing"
)

// Every descriptor must carry a disjoint single-bit mask that lies inside
// its sub-field of the CFSR.
func TestDescriptorTables(t *testing.T) {
	for _, tc := range []struct {
		name  string
		table []descriptor
		field Status
	}{
		{"MMFSR", memManageBits[:], 0x0000_00ff},
		{"BFSR", busBits[:], 0x0000_ff00},
		{"UFSR", usageBits[:], 0xffff_0000},
	} {
		var seen Status
		names := map[string]bool{}
		for _, d := range tc.table {
			if bits.OnesCount32(uint32(d.mask)) != 1 {
				t.Errorf("%s %s: mask %#08x is not a single bit", tc.name, d.name, uint32(d.mask))
			}
			if d.mask&tc.field == 0 {
				t.Errorf("%s %s: mask %#08x outside sub-field %#08x", tc.name, d.name, uint32(d.mask), uint32(tc.field))
			}
			if seen&d.mask != 0 {
				t.Errorf("%s %s: mask %#08x already used", tc.name, d.name, uint32(d.mask))
			}
			seen |= d.mask
			if d.name == "" || names[d.name] {
				t.Errorf("%s: empty or duplicate name %q", tc.name, d.name)
			}
			names[d.name] = true
		}
	}

	var seen HardStatus
	for _, d := range hardBits {
		if bits.OnesCount32(uint32(d.mask)) != 1 {
			t.Errorf("HFSR %s: mask %#08x is not a single bit", d.name, uint32(d.mask))
		}
		if seen&d.mask != 0 {
			t.Errorf("HFSR %s: mask %#08x already used", d.name, uint32(d.mask))
		}
		seen |= d.mask
	}
}

func TestAppendHex(t *testing.T) {
	for _, tc := range []struct {
		v    uint32
		want string
	}{
		{0, "00000000"},
		{1, "00000001"},
		{0xdeadbeef, "DEADBEEF"},
		{0xffffffff, "FFFFFFFF"},
		{0x00a0b0c0, "00A0B0C0"},
	} {
		if got := string(appendHex(nil, tc.v)); got != tc.want {
			t.Errorf("appendHex(%#x) = %q, want %q", tc.v, got, tc.want)
		}
	}
}
