package group_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/andrew-torda/rscan/pkg/group"
)

// TestNormalizeEmpty is the case of no groups at all. Every sequence
// should get its own group.
func TestNormalizeEmpty(t *testing.T) {
	got := Normalize(nil, 4)
	want := Partition{{0}, {1}, {2}, {3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal("singletons (-want +got)\n", diff)
	}
	if got := Normalize([][]int{}, 0); len(got) != 0 {
		t.Fatal("no sequences should give no groups, got", got)
	}
}

// TestNormalizeKeeps checks nothing is sorted, deduplicated or checked.
func TestNormalizeKeeps(t *testing.T) {
	raw := [][]int{Range(0, 2), {5, 3, 3}, {99}}
	got := Normalize(raw, 4)
	want := Partition{{0, 1, 2}, {5, 3, 3}, {99}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal("(-want +got)\n", diff)
	}
	raw[0][0] = 42
	if got[0][0] != 0 {
		t.Fatal("Normalize should copy its input")
	}
}

func TestValidate(t *testing.T) {
	if err := (Partition{{0, 1}, {2, 3}}).Validate(4); err != nil {
		t.Fatal(err)
	}
	for _, p := range []Partition{{{0, 4}}, {{0}, {-1}}} {
		if err := p.Validate(4); !errors.Is(err, ErrIndex) {
			t.Errorf("%v should be out of range, got %v", p, err)
		}
	}
}

func TestOutgroup(t *testing.T) {
	p := Partition{{0, 1}, {2, 3}, {1, 4}}
	cases := []struct {
		ig   int
		want []int
	}{
		{0, []int{2, 3, 1, 4}},
		{1, []int{0, 1, 1, 4}},
		{2, []int{0, 1, 2, 3}},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.want, p.Outgroup(c.ig)); diff != "" {
			t.Errorf("outgroup %d (-want +got)\n%s", c.ig, diff)
		}
	}
	if out := (Partition{{0, 1, 2}}).Outgroup(0); len(out) != 0 {
		t.Error("single group should have empty outgroup, got", out)
	}
}

func TestCovered(t *testing.T) {
	got := Partition{{0, 2}, {2}, {7}}.Covered(4)
	want := []bool{true, false, true, false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal("(-want +got)\n", diff)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		spec string
		want [][]int
	}{
		{"0..4 5,6,7 8..10 11", [][]int{{0, 1, 2, 3, 4}, {5, 6, 7}, {8, 9, 10}, {11}}},
		{"0-2; 3,4;5", [][]int{{0, 1, 2}, {3, 4}, {5}}},
		{"  2,0 ", [][]int{{2, 0}}},
		{"3..3", [][]int{{3}}},
		{"0, 1 2 ,3", [][]int{{0, 1}, {2, 3}}},
		{"0..2 ,\t4; 5", [][]int{{0, 1, 2, 4}, {5}}},
		{"", nil},
	}
	for _, c := range cases {
		got, err := Parse(c.spec)
		if err != nil {
			t.Fatalf("%q: %v", c.spec, err)
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%q (-want +got)\n%s", c.spec, diff)
		}
	}
}

func TestParseBad(t *testing.T) {
	for _, s := range []string{"1,,2", "a", "4..2", "1..x", "-3", "1,", "2..-1"} {
		if _, err := Parse(s); !errors.Is(err, ErrSpec) {
			t.Errorf("%q should be malformed, got %v", s, err)
		}
	}
}

// TestStringParse checks String writes what Parse reads.
func TestStringParse(t *testing.T) {
	p := Partition{{0, 1, 2, 3}, {5, 6}, {9, 7, 8}, {10}}
	s := p.String()
	if s != "0..3 5,6 9,7,8 10" {
		t.Fatal("String got", s)
	}
	raw, err := Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(p, Normalize(raw, 11)); diff != "" {
		t.Fatal("round trip (-want +got)\n", diff)
	}
}
