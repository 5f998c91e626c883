package seq_test

import (
	"math"
	"testing"

	. "github.com/andrew-torda/rscan/pkg/seq"
)

func TestEntropy(t *testing.T) {
	seqgrp := Str2SeqGrp([]string{"AAA-", "ACA-", "AGC-", "ATC-"})
	usage, err := seqgrp.GroupUsage([]int{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0, 1, 0.5, 0}
	for i, h := range Entropy(usage) {
		if !approxEqual(h, want[i]) {
			t.Errorf("column %d entropy %f want %f", i, h, want[i])
		}
	}
}

func TestKL(t *testing.T) {
	seqgrp := Str2SeqGrp([]string{"AC", "AC", "AG", "TG"})
	p, _ := seqgrp.GroupUsage([]int{0, 1})
	q, _ := seqgrp.GroupUsage([]int{2, 3})
	d, err := KL(p, q, 2)
	if err != nil {
		t.Fatal(err)
	}
	// column 0: p is all A, q half A. log4(1/0.5) = 0.5
	// column 1: p is all C, q has none, so 1/3. log4(3)
	want := []float32{0.5, float32(math.Log(3) / math.Log(4))}
	for i := range want {
		if !approxEqual(d[i], want[i]) {
			t.Errorf("column %d kl %f want %f", i, d[i], want[i])
		}
	}
	self, _ := KL(p, p, 2)
	for i, x := range self {
		if x != 0 {
			t.Errorf("column %d divergence from itself %f", i, x)
		}
	}
	short, _ := Str2SeqGrp([]string{"A"}).GroupUsage([]int{0})
	if _, err := KL(p, short, 1); err == nil {
		t.Error("different lengths accepted")
	}
}
