package fixed

import "testing"

func TestParseFormatRoundTrip(t *testing.T) {
	cases := []string{"0", "1", "-1", "3.5", "-3.5", "0.0001", "123456.7891", "-0.00001525878"}
	for _, c := range cases {
		f, err := Parse(c)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c, err)
		}
		f2, err := Parse(f.String())
		if err != nil {
			t.Fatalf("Parse(String(%q)): %v", c, err)
		}
		if f != f2 {
			t.Errorf("round-trip mismatch for %q: %s -> %s -> %s", c, c, f, f2)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, c := range []string{"", "abc", "1.2.3", "-", "1.a"} {
		if _, err := Parse(c); err == nil {
			t.Errorf("Parse(%q): expected error", c)
		}
	}
}

func TestAddSaturates(t *testing.T) {
	if got := Add(Max, One); got != Max {
		t.Errorf("Add(Max, One) = %s, want Max", got)
	}
	if got := Add(Min, -One); got != Min {
		t.Errorf("Add(Min, -One) = %s, want Min", got)
	}
}

func TestSubSaturates(t *testing.T) {
	if got := Sub(Max, Min); got != Max {
		t.Errorf("Sub(Max, Min) = %s, want Max", got)
	}
	if got := Sub(0, Min); got != Max {
		t.Errorf("Sub(0, Min) = %s, want Max", got)
	}
	// -One - Min = 2^63 - 2^16 still fits, so it is exact, not saturated.
	if got := Sub(-One, Min); got != Max-One+1 {
		t.Errorf("Sub(-One, Min) = %s, want Max-One+1", got)
	}
}

func TestMulSaturates(t *testing.T) {
	big := FromInt(1 << 40)
	if got := Mul(big, big); got != Max {
		t.Errorf("Mul(2^40, 2^40) = %s, want Max", got)
	}
}

func TestDivByZero(t *testing.T) {
	var warned string
	SetWarnFunc(func(msg string) { warned = msg })
	defer SetWarnFunc(nil)
	if got := Div(One, 0); got != 0 {
		t.Errorf("Div(One, 0) = %s, want 0", got)
	}
	if warned == "" {
		t.Error("expected a warning to be logged for division by zero")
	}
}

func TestFloorCeil(t *testing.T) {
	three5, _ := Parse("3.5")
	if got := three5.Floor(); got != FromInt(3) {
		t.Errorf("Floor(3.5) = %s, want 3", got)
	}
	if got := three5.Ceil(); got != FromInt(4) {
		t.Errorf("Ceil(3.5) = %s, want 4", got)
	}
	negThree5, _ := Parse("-3.5")
	if got := negThree5.Floor(); got != FromInt(-4) {
		t.Errorf("Floor(-3.5) = %s, want -4", got)
	}
	if got := negThree5.Ceil(); got != FromInt(-3) {
		t.Errorf("Ceil(-3.5) = %s, want -3", got)
	}
}

func TestSqrtMonotonic(t *testing.T) {
	prev := Zero
	for i := int64(0); i <= 1000; i++ {
		v := FromInt(i).Sqrt()
		if v < prev {
			t.Fatalf("Sqrt not monotonic at i=%d: %s < %s", i, v, prev)
		}
		prev = v
	}
	four := FromInt(4)
	if got := four.Sqrt(); got != FromInt(2) {
		t.Errorf("Sqrt(4) = %s, want 2", got)
	}
}

func TestSqrtNegativeLogs(t *testing.T) {
	var warned bool
	SetWarnFunc(func(string) { warned = true })
	defer SetWarnFunc(nil)
	if got := Fixed(-One).Sqrt(); got != 0 {
		t.Errorf("Sqrt(-1) = %s, want 0", got)
	}
	if !warned {
		t.Error("expected a warning for negative sqrt input")
	}
}

func TestDivExact(t *testing.T) {
	ten := FromInt(10)
	two := FromInt(2)
	if got := Div(ten, two); got != FromInt(5) {
		t.Errorf("Div(10, 2) = %s, want 5", got)
	}
}

func TestAbs(t *testing.T) {
	if got := FromInt(-5).Abs(); got != FromInt(5) {
		t.Errorf("Abs(-5) = %s, want 5", got)
	}
	if got := Min.Abs(); got != Max {
		t.Errorf("Abs(Min) = %s, want Max", got)
	}
}
