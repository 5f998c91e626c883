// 6 Oct 2026

package scan_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andrew-torda/rscan/pkg/formula"
	"github.com/andrew-torda/rscan/pkg/group"
	"github.com/andrew-torda/rscan/pkg/randaln"
	. "github.com/andrew-torda/rscan/pkg/scan"
	"github.com/andrew-torda/rscan/pkg/seq"
)

var fourSeqs = []string{"A", "A", "C", "G"}

var twoGroups = group.Partition{{0, 1}, {2, 3}}

func mustScan(t *testing.T, seqs []string, groups group.Partition, p Params, opts ...Option) *Scores {
	t.Helper()
	scores, err := Scan(context.Background(), seq.Str2SeqGrp(seqs), groups, p, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return scores
}

func TestStrict(t *testing.T) {
	scores := mustScan(t, fourSeqs, twoGroups, DefaultParams())
	want := [][]float32{{1}, {1}, {-4}, {-4}}
	for i := range want {
		if diff := cmp.Diff(want[i], scores.Row(i)); diff != "" {
			t.Errorf("seq %d (-want +got)\n%s", i, diff)
		}
	}
}

// TestRelaxed checks that a low consensus coefficient and no penalty
// for aspecificity never make a score worse.
func TestRelaxed(t *testing.T) {
	strict := mustScan(t, fourSeqs, twoGroups, DefaultParams())
	p := Params{Ka: Consensus["low"], Kb: Aspecificity["allow"], Formula: formula.Default}
	relaxed := mustScan(t, fourSeqs, twoGroups, p)
	for i := range fourSeqs {
		if relaxed.At(i, 0) < strict.At(i, 0) {
			t.Errorf("seq %d relaxed %f strict %f", i, relaxed.At(i, 0), strict.At(i, 0))
		}
	}
	if relaxed.At(2, 0) != 0.25 {
		t.Errorf("seq 2 got %f want 0.25", relaxed.At(2, 0))
	}
}

// TestAspecific has a base shared between the groups.
func TestAspecific(t *testing.T) {
	seqs := []string{"A", "A", "A", "C"}
	scores := mustScan(t, seqs, twoGroups, DefaultParams())
	// a = 1, b = 0.5 for seq 0, so 1 - 0 - 2 * 0.5
	if got := scores.At(0, 0); got != 0 {
		t.Errorf("got %f want 0", got)
	}
}

func randArgs() *randaln.RandAlnArgs {
	return &randaln.RandAlnArgs{Iseed: 3, Nseq: 40, Len: 301, NGrp: 4, NSig: 3}
}

func TestIdempotent(t *testing.T) {
	args := randArgs()
	seqs := randaln.Seqs(args)
	first := mustScan(t, seqs, args.Groups(), DefaultParams())
	second := mustScan(t, seqs, args.Groups(), DefaultParams())
	if !first.Equal(second) {
		t.Fatal("two scans differ")
	}
}

func TestWorkers(t *testing.T) {
	args := randArgs()
	seqs := randaln.Seqs(args)
	one := mustScan(t, seqs, args.Groups(), DefaultParams())
	for _, n := range []int{2, 3, 4, 7, 500} {
		many := mustScan(t, seqs, args.Groups(), DefaultParams(), WithWorkers(n))
		if !one.Equal(many) {
			t.Errorf("%d workers gave different scores", n)
		}
	}
}

// TestSignature checks that the signature columns of the random
// alignments get the top score.
func TestSignature(t *testing.T) {
	args := randArgs()
	groups := args.Groups()
	scores := mustScan(t, randaln.Seqs(args), groups, DefaultParams())
	for ig, g := range groups {
		for _, pos := range args.Sigs(ig) {
			for _, s := range g {
				if got := scores.At(s, pos); got != 1 {
					t.Fatalf("group %d seq %d pos %d score %f", ig, s, pos, got)
				}
			}
		}
	}
}

func TestCancel(t *testing.T) {
	args := randArgs()
	aln := seq.Str2SeqGrp(randaln.Seqs(args))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, n := range []int{1, 4} {
		scores, err := Scan(ctx, aln, args.Groups(), DefaultParams(), WithWorkers(n))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers %d, got error %v", n, err)
		}
		if scores != nil {
			t.Errorf("workers %d, got scores after cancel", n)
		}
	}
}

// TestOverlap has sequence 1 in both groups. The last group wins.
func TestOverlap(t *testing.T) {
	seqs := []string{"A", "A", "C"}
	groups := group.Partition{{0, 1}, {1, 2}}
	scores := mustScan(t, seqs, groups, DefaultParams())
	// Group 1: in = {A: .5, C: .5}, out = {A: 1}, so 1 - 10*.5 - 2*1
	if got := scores.At(1, 0); got != -6 {
		t.Errorf("overlap got %f want -6", got)
	}
}

func TestUncovered(t *testing.T) {
	seqs := []string{"AC", "AC", "GT"}
	scores := mustScan(t, seqs, group.Partition{{0}, {1}}, DefaultParams())
	if scores.Covered(2) || scores.Row(2) != nil {
		t.Error("seq 2 should have no scores")
	}
	if !scores.Covered(0) || len(scores.Row(0)) != 2 {
		t.Error("seq 0 should be scored")
	}
	if scores.NSeq() != 3 || scores.Len() != 2 {
		t.Error("dimensions", scores.NSeq(), scores.Len())
	}
}

// TestOneGroup has nothing in the outgroup, so b is always zero.
func TestOneGroup(t *testing.T) {
	scores := mustScan(t, fourSeqs, group.Partition{{0, 1, 2, 3}}, DefaultParams())
	// a = .5 for the As, .25 for the others
	want := []float32{-4, -4, -6.5, -6.5}
	for i, w := range want {
		if got := scores.At(i, 0); got != w {
			t.Errorf("seq %d got %f want %f", i, got, w)
		}
	}
}

func TestEmptyGroup(t *testing.T) {
	scores := mustScan(t, fourSeqs, group.Partition{{}, {0, 1}, {2, 3}}, DefaultParams())
	if got := scores.At(0, 0); got != 1 {
		t.Errorf("got %f want 1", got)
	}
}

// TestOther has an N, which counts in the group size, but not as a base.
func TestOther(t *testing.T) {
	seqs := []string{"N", "A", "C", "N"}
	scores := mustScan(t, seqs, twoGroups, DefaultParams())
	// a = b = 0 for the N
	if got := scores.At(0, 0); got != -9 {
		t.Errorf("N got %f want -9", got)
	}
	if got := scores.At(1, 0); got != -4 {
		t.Errorf("A got %f want -4", got)
	}
}

func TestDivZero(t *testing.T) {
	aln := seq.Str2SeqGrp([]string{"CA", "CA", "CG", "CT"})
	p := DefaultParams()
	p.Formula = "1 / (1 - a)"
	_, err := Scan(context.Background(), aln, twoGroups, p)
	var perr *PosError
	if !errors.As(err, &perr) {
		t.Fatalf("want a PosError, got %v", err)
	}
	if perr.Pos != 0 || perr.Group != 0 || perr.Seq != 0 {
		t.Errorf("wrong place %+v", perr)
	}
	if !errors.Is(err, formula.ErrArith) {
		t.Errorf("want ErrArith, got %v", err)
	}
}

func TestConfigErrors(t *testing.T) {
	aln := seq.Str2SeqGrp(fourSeqs)
	bad := DefaultParams()
	bad.Formula = "sqrt(a)"
	cases := []struct {
		groups group.Partition
		p      Params
		want   error
	}{
		{group.Partition{}, DefaultParams(), ErrNoGroups},
		{nil, DefaultParams(), ErrNoGroups},
		{group.Partition{{0, 4}}, DefaultParams(), group.ErrIndex},
		{group.Partition{{-1}}, DefaultParams(), group.ErrIndex},
		{twoGroups, bad, formula.ErrFormula},
	}
	for i, c := range cases {
		if _, err := Scan(context.Background(), aln, c.groups, c.p); !errors.Is(err, c.want) {
			t.Errorf("case %d got %v want %v", i, err, c.want)
		}
	}
}

func TestNewScores(t *testing.T) {
	rows := [][]float32{{1, 2}, nil, {3, 4}}
	s := NewScores(rows)
	if s.NSeq() != 3 || s.Len() != 2 || s.Covered(1) {
		t.Fatal("bad NewScores")
	}
	if diff := cmp.Diff(rows[2], s.Row(2)); diff != "" {
		t.Error(diff)
	}
	if !s.Equal(NewScores(rows)) {
		t.Error("not equal to itself")
	}
	if s.Equal(NewScores([][]float32{{1, 2}, {0, 0}, {3, 4}})) {
		t.Error("coverage ignored")
	}
}

func BenchmarkScan(b *testing.B) {
	args := &randaln.RandAlnArgs{Iseed: 1, Nseq: 200, Len: 2000, NGrp: 5, NSig: 4}
	aln := seq.Str2SeqGrp(randaln.Seqs(args))
	groups := args.Groups()
	for _, n := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := Scan(context.Background(), aln, groups, DefaultParams(), WithWorkers(n)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
