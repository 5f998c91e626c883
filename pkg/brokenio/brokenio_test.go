package brokenio_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/andrew-torda/rscan/pkg/brokenio"
)

var longstring = strings.Repeat("0123456789", 40)

func TestNoFailure(t *testing.T) {
	r := brokenio.NewReader(strings.NewReader(longstring), 1)
	b, err := io.ReadAll(r)
	if err != nil || string(b) != longstring {
		t.Fatal("clean reader broke", err)
	}
	if r.NByte != len(longstring) {
		t.Error("counted", r.NByte)
	}
}

func TestAlwaysFail(t *testing.T) {
	for _, frac := range []float32{0, 0.3, 1} {
		r := brokenio.NewReader(strings.NewReader(longstring), 2)
		r.ProbFail, r.FracFail = 1, frac
		p := make([]byte, 100)
		n, err := r.Read(p)
		if !errors.Is(err, brokenio.ErrBroken) {
			t.Fatal("want ErrBroken, got", err)
		}
		if want := int(100 * (1 - frac)); n != want {
			t.Errorf("frac %v kept %d want %d", frac, n, want)
		}
		if string(p[:n]) != longstring[:n] {
			t.Error("kept bytes changed")
		}
	}
}

func TestZeroFile(t *testing.T) {
	r := brokenio.NewReader(strings.NewReader(longstring), 3)
	r.ProbZeroFile = 1
	if b, err := io.ReadAll(r); err != nil || len(b) != 0 {
		t.Error("want an empty file, got", len(b), err)
	}
}
