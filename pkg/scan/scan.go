// 6 Oct 2026

// Package scan scores every base of an alignment. For each position,
// each group in turn is the ingroup and everything in the other groups
// is the outgroup. The frequency of a base in the ingroup (a) and in
// the outgroup (b) go into the scoring formula together with the
// coefficients ka and kb.
package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrew-torda/matrix"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/andrew-torda/rscan/pkg/formula"
	"github.com/andrew-torda/rscan/pkg/group"
	"github.com/andrew-torda/rscan/pkg/seq"
)

// Alignment is what we need to know about the sequences.
// *seq.SeqGrp satisfies it.
type Alignment interface {
	NSeq() int
	GetLen() int
	Sym(i, pos int) seq.Symbol
	GroupFreq(group []int, pos int) (seq.Freq, error)
}

// Params are the scoring parameters.
type Params struct {
	Ka, Kb  float64 // consensus and aspecificity tolerance coefficients
	Formula string
}

// Presets for ka and kb, by name.
var (
	Consensus = map[string]float64{
		"strict": 20, // only fully conserved bases score well
		"high":   10, // majority rule, high
		"low":    3,  // majority rule, low
	}
	Aspecificity = map[string]float64{
		"forbid":  20,
		"penalty": 10, // allowed, with a penalty
		"allow":   0,
	}
)

// DefaultParams are strict consensus, forbidden aspecificity and the
// default formula.
func DefaultParams() Params {
	return Params{Ka: Consensus["strict"], Kb: Aspecificity["forbid"], Formula: formula.Default}
}

var ErrNoGroups = errors.New("no groups to scan")

// PosError says where a scan stopped. Seq is -1 if the problem was
// with a whole group rather than one sequence.
type PosError struct {
	Pos, Group, Seq int
	Err             error
}

func (e *PosError) Error() string {
	if e.Seq < 0 {
		return fmt.Sprintf("scan aborted at position %d, group %d: %v", e.Pos, e.Group, e.Err)
	}
	return fmt.Sprintf("scan aborted at position %d, group %d, sequence %d: %v", e.Pos, e.Group, e.Seq, e.Err)
}

func (e *PosError) Unwrap() error { return e.Err }

type config struct {
	workers int
}

// Option changes how a scan runs, but not what it calculates.
type Option func(*config)

// WithWorkers scores blocks of columns on n goroutines. The result is
// the same for any n.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// scorer has everything a worker needs. Each worker writes only its
// own columns of mat.
type scorer struct {
	aln       Alignment
	groups    group.Partition
	outgroups [][]int
	f         *formula.Formula
	ka, kb    float64
	mat       *matrix.FMatrix2d
}

// column scores one position for every group.
// An empty ingroup has nobody to score. An empty outgroup (there is
// only one group, or the others are empty) has all frequencies zero.
// Bases that are not A, C, G, T or gap get a = b = 0.
func (sc *scorer) column(pos int) error {
	for ig, ingroup := range sc.groups {
		if len(ingroup) == 0 {
			continue
		}
		in, err := sc.aln.GroupFreq(ingroup, pos)
		if err != nil {
			return &PosError{Pos: pos, Group: ig, Seq: -1, Err: err}
		}
		var out seq.Freq
		if outgroup := sc.outgroups[ig]; len(outgroup) > 0 {
			if out, err = sc.aln.GroupFreq(outgroup, pos); err != nil {
				return &PosError{Pos: pos, Group: ig, Seq: -1, Err: err}
			}
		}
		for _, s := range ingroup {
			sym := sc.aln.Sym(s, pos)
			b := formula.Bindings{
				A:  float64(in.Get(sym)),
				B:  float64(out.Get(sym)),
				Ka: sc.ka,
				Kb: sc.kb,
			}
			x, err := sc.f.Eval(b)
			if err != nil {
				return &PosError{Pos: pos, Group: ig, Seq: s, Err: err}
			}
			sc.mat.Mat[s][pos] = float32(x)
		}
	}
	return nil
}

// cols scores positions lo up to, but not including, hi.
func (sc *scorer) cols(ctx context.Context, lo, hi int) error {
	for pos := lo; pos < hi; pos++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sc.column(pos); err != nil {
			return err
		}
	}
	return nil
}

// Scan scores the whole alignment. It returns a new Scores and does not
// touch anything the caller already has, so on an error or
// cancellation the caller's old scores are still good.
func Scan(ctx context.Context, aln Alignment, groups group.Partition, p Params,
	opts ...Option) (*Scores, error) {
	cfg := config{workers: 1}
	for _, o := range opts {
		o(&cfg)
	}
	if len(groups) == 0 {
		return nil, ErrNoGroups
	}
	nseq, ncol := aln.NSeq(), aln.GetLen()
	if err := groups.Validate(nseq); err != nil {
		return nil, err
	}
	f, err := formula.Compile(p.Formula)
	if err != nil {
		return nil, err
	}
	startTime := time.Now()
	sc := scorer{
		aln:       aln,
		groups:    groups,
		outgroups: make([][]int, len(groups)),
		f:         f,
		ka:        p.Ka,
		kb:        p.Kb,
		mat:       matrix.NewFMatrix2d(nseq, ncol),
	}
	for ig := range groups {
		sc.outgroups[ig] = groups.Outgroup(ig)
	}

	if cfg.workers <= 1 || ncol < 2*cfg.workers {
		err = sc.cols(ctx, 0, ncol)
	} else {
		err = sc.parallel(ctx, ncol, cfg.workers)
	}
	if err != nil {
		return nil, err
	}
	log.Debugf("scanned %d positions, %d sequences, %d groups in %v",
		ncol, nseq, len(groups), time.Since(startTime))
	return &Scores{mat: sc.mat, covered: groups.Covered(nseq), ncol: ncol}, nil
}

// parallel cuts the columns into one block per worker.
func (sc *scorer) parallel(ctx context.Context, ncol, workers int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	blk := (ncol + workers - 1) / workers
	for lo := 0; lo < ncol; lo += blk {
		lo, hi := lo, min(lo+blk, ncol)
		g.Go(func() error {
			log.Tracef("scoring columns %d to %d", lo, hi-1)
			return sc.cols(gctx, lo, hi)
		})
	}
	return g.Wait()
}
