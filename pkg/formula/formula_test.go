package formula_test

import (
	"errors"
	"math"
	"testing"

	. "github.com/andrew-torda/rscan/pkg/formula"
)

func approxEqual(x, y float64) bool { return math.Abs(x-y) < 1e-9 }

func TestDefault(t *testing.T) {
	cases := []struct {
		b    Bindings
		want float64
	}{
		{Bindings{A: 1, B: 0, Ka: 20, Kb: 20}, 1},
		{Bindings{A: 0.5, B: 0, Ka: 20, Kb: 20}, -4},
		{Bindings{A: 1, B: 0.5, Ka: 20, Kb: 20}, 0},
		{Bindings{A: 0.5, B: 0.5, Ka: 3, Kb: 0}, 0.25},
		{Bindings{A: 0.75, B: 0.25, Ka: 10, Kb: 10}, 1 - 5*0.25 - 0.25},
	}
	for i, c := range cases {
		got, err := Eval(Default, c.b)
		if err != nil {
			t.Fatal(err)
		}
		if !approxEqual(got, c.want) {
			t.Errorf("case %d got %g want %g", i, got, c.want)
		}
	}
}

func TestArithmetic(t *testing.T) {
	b := Bindings{A: 2, B: 3, Ka: 4, Kb: 5}
	cases := map[string]float64{
		"a + b * ka":          14,
		"(a + b) * ka":        20,
		"-a + b":              1,
		"kb / a":              2.5,
		"1 / 4":               0.25,
		"1 - (a * @ka)":       -7,
		"1 - (a*ka) - (b*kb)": -22,
		"2.5e1 - a":           23,
		"a - b - ka":          -5,
		"ka / a / a":          1,
	}
	for src, want := range cases {
		got, err := Eval(src, b)
		if err != nil {
			t.Errorf("%q: %v", src, err)
			continue
		}
		if !approxEqual(got, want) {
			t.Errorf("%q got %g want %g", src, got, want)
		}
	}
}

// TestRefused checks the sandbox. None of these may be evaluated.
func TestRefused(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"a +",
		"c * 2",
		"x",
		"a % 2",
		"a ** 2",
		"a == b",
		"a > b ? 1 : 0",
		"len(\"abc\")",
		"\"a\" + \"b\"",
		"true",
		"a.b",
		"now()",
		"[1, 2]",
		"(a",
	}
	for _, src := range bad {
		if _, err := Compile(src); !errors.Is(err, ErrFormula) {
			t.Errorf("%q should be refused, got %v", src, err)
		}
	}
}

func TestDivByZero(t *testing.T) {
	f, err := Compile("ka / (1 - a)")
	if err != nil {
		t.Fatal(err)
	}
	if x, err := f.Eval(Bindings{A: 0.5, Ka: 1}); err != nil || x != 2 {
		t.Fatal("got", x, err)
	}
	if _, err := f.Eval(Bindings{A: 1, Ka: 1}); !errors.Is(err, ErrArith) {
		t.Fatal("division by zero not caught, got", err)
	}
	if _, err := Eval("1e308 * 1e308", Bindings{}); !errors.Is(err, ErrArith) {
		t.Fatal("overflow not caught, got", err)
	}
}

func TestString(t *testing.T) {
	f, err := Compile(Default)
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != Default {
		t.Fatal("String got", f.String())
	}
}

func BenchmarkDefault(b *testing.B) {
	f, err := Compile(Default)
	if err != nil {
		b.Fatal(err)
	}
	bnd := Bindings{A: 0.75, B: 0.25, Ka: 20, Kb: 20}
	for i := 0; i < b.N; i++ {
		bnd.A = float64(i%4) / 4
		if _, err := f.Eval(bnd); err != nil {
			b.Fatal(err)
		}
	}
}
