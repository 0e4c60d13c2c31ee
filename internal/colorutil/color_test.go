package colorutil

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	cases := []Color{
		{R: 0x12, G: 0x34, B: 0x56, A: 0x78},
		{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		Null,
	}
	for _, c := range cases {
		got := Unpack(c.Pack())
		if got != c {
			t.Errorf("Unpack(Pack(%+v)) = %+v", c, got)
		}
	}
}

func TestPackUnpackRGBRoundTrip(t *testing.T) {
	c := RGB(0x12, 0x34, 0x56)
	got := UnpackRGB(PackRGB(c))
	if got != c {
		t.Errorf("UnpackRGB(PackRGB(%+v)) = %+v", c, got)
	}
}

func TestNullSentinel(t *testing.T) {
	if !Null.IsNull() {
		t.Error("Null.IsNull() should be true")
	}
	if RGB(0, 0, 0).IsNull() {
		t.Error("opaque black should not be the null sentinel")
	}
	if !UnpackRGB(0).IsNull() {
		t.Error("UnpackRGB(0) should be the null sentinel")
	}
}
