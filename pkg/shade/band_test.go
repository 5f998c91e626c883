package shade_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/andrew-torda/rscan/pkg/shade"
)

func TestClassify(t *testing.T) {
	r := DefaultRanges
	cases := []struct {
		score float32
		want  Band
	}{
		{-100, 0}, {0, 0}, {0.49, 0}, {0.5, 1}, {0.699999, 1}, {0.7, 2},
		{0.79, 2}, {0.8, 3}, {0.9, 4}, {1, 4}, {1e9, 4},
	}
	for _, c := range cases {
		if got := r.Classify(c.score); got != c.want {
			t.Errorf("score %v got band %d want %d", c.score, got, c.want)
		}
	}
}

func TestMonotonic(t *testing.T) {
	r := Ranges{-1, 0, 0, 2.5}
	var last Band
	for x := float32(-3); x < 4; x += 0.01 {
		b := r.Classify(x)
		if b < last || b >= NBand {
			t.Fatalf("score %v band %d after %d", x, b, last)
		}
		last = b
	}
}

func TestParseRanges(t *testing.T) {
	good := [][]string{
		{"0.3", "0.45", "0.6", "0.88"},
		{"[0.3,", "0.45,", "0.6,", "0.88]"},
		{"0.3,0.45,0.6,0.88"},
	}
	want := Ranges{0.3, 0.45, 0.6, 0.88}
	for _, words := range good {
		r, err := ParseRanges(words)
		if err != nil {
			t.Fatal(words, err)
		}
		if r != want {
			t.Errorf("%v gave %v", words, r)
		}
	}
	if got := want.String(); got != "0.3 0.45 0.6 0.88" {
		t.Errorf("String gave %q", got)
	}
	bad := [][]string{
		nil,
		{"0.1", "0.2", "0.3"},
		{"0.1", "0.2", "0.3", "0.4", "0.5"},
		{"0.4", "0.3", "0.6", "0.8"},
		{"0.1", "x", "0.3", "0.4"},
	}
	for _, words := range bad {
		if _, err := ParseRanges(words); !errors.Is(err, ErrRanges) {
			t.Errorf("%v got %v", words, err)
		}
	}
	nan := Ranges{0, float32(math.NaN()), 1, 2}
	if err := nan.Validate(); !errors.Is(err, ErrRanges) {
		t.Error("NaN accepted")
	}
}

func TestLegend(t *testing.T) {
	want := []LegendEntry{
		{"< 0.5", 0}, {".. 0.7", 1}, {".. 0.8", 2}, {".. 0.9", 3}, {"> 0.9", 4},
	}
	if diff := cmp.Diff(want, Legend(DefaultRanges)); diff != "" {
		t.Error(diff)
	}
}
