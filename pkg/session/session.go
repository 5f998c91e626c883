// 12 Oct 2026

// Package session holds one alignment with its groups, parameters and
// the result of the last scan. Everything the shell can change goes
// through here.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/andrew-torda/matrix"
	log "github.com/sirupsen/logrus"

	"github.com/andrew-torda/rscan/pkg/export"
	"github.com/andrew-torda/rscan/pkg/formula"
	"github.com/andrew-torda/rscan/pkg/group"
	"github.com/andrew-torda/rscan/pkg/paint"
	"github.com/andrew-torda/rscan/pkg/scan"
	"github.com/andrew-torda/rscan/pkg/seq"
	"github.com/andrew-torda/rscan/pkg/shade"
)

var (
	ErrNoAlignment = errors.New("no alignment loaded")
	ErrNoScan      = errors.New("no scan yet")
	ErrPreset      = errors.New("unknown preset")
)

// Session is not safe for use from more than one goroutine.
type Session struct {
	fname   string
	aln     *seq.SeqGrp
	groups  group.Partition
	params  scan.Params
	ranges  shade.Ranges
	layout  shade.Layout
	workers int

	scores     *scan.Scores
	scanGroups group.Partition // the groups scores was made with
}

// New starts a session on an alignment already in memory, with one
// group per sequence and default parameters.
func New(aln *seq.SeqGrp) *Session {
	return &Session{
		aln:     aln,
		groups:  group.Normalize(nil, aln.NSeq()),
		params:  scan.DefaultParams(),
		ranges:  shade.DefaultRanges,
		layout:  shade.DefaultLayout,
		workers: 1,
	}
}

// Open reads an alignment file ("-" for standard input) and starts a
// session on it.
func Open(fname string, s_opts *seq.Options) (*Session, error) {
	aln, err := seq.Readfile(fname, s_opts)
	if err != nil {
		return nil, fmt.Errorf("reading alignment %s: %w", fname, err)
	}
	s := New(aln)
	s.fname = fname
	log.Debugf("%s: %d sequences of length %d", fname, aln.NSeq(), aln.GetLen())
	return s, nil
}

// Reopen replaces the alignment, keeping the parameters. The groups go
// back to one per sequence and the old scores are dropped.
func (s *Session) Reopen(fname string, s_opts *seq.Options) error {
	n, err := Open(fname, s_opts)
	if err != nil {
		return err
	}
	s.fname, s.aln, s.groups = n.fname, n.aln, n.groups
	s.scores, s.scanGroups = nil, nil
	return nil
}

func (s *Session) FileName() string       { return s.fname }
func (s *Session) Alignment() *seq.SeqGrp { return s.aln }

func (s *Session) SetKa(ka float64) { s.params.Ka = ka }
func (s *Session) SetKb(kb float64) { s.params.Kb = kb }

func preset(table map[string]float64, name string) (float64, error) {
	k, ok := table[strings.TrimPrefix(name, ":")]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrPreset)
	}
	return k, nil
}

// Consensus sets ka from one of "strict", "high" or "low".
func (s *Session) Consensus(name string) error {
	k, err := preset(scan.Consensus, name)
	if err == nil {
		s.params.Ka = k
	}
	return err
}

// Aspecificity sets kb from one of "forbid", "penalty" or "allow".
func (s *Session) Aspecificity(name string) error {
	k, err := preset(scan.Aspecificity, name)
	if err == nil {
		s.params.Kb = k
	}
	return err
}

// SetFormula keeps the old formula if the new one does not compile.
func (s *Session) SetFormula(src string) error {
	if _, err := formula.Compile(src); err != nil {
		return err
	}
	s.params.Formula = src
	return nil
}

// SetRanges goes back to the default ranges if r is no good, but
// still returns the error.
func (s *Session) SetRanges(r shade.Ranges) error {
	if err := r.Validate(); err != nil {
		s.ranges = shade.DefaultRanges
		return fmt.Errorf("%w, reset to %v", err, s.ranges)
	}
	s.ranges = r
	return nil
}

// SetGroups takes groups of sequence indices. No groups at all means
// every sequence on its own.
func (s *Session) SetGroups(raw [][]int) error {
	if s.aln == nil {
		return ErrNoAlignment
	}
	p := group.Normalize(raw, s.aln.NSeq())
	if err := p.Validate(s.aln.NSeq()); err != nil {
		return err
	}
	s.groups = p
	return nil
}

func (s *Session) SetWindow(n int) error {
	l := s.layout
	l.WindowLen = n
	if err := l.Validate(); err != nil {
		return err
	}
	s.layout = l
	return nil
}

func (s *Session) SetLabelWidth(n int) error {
	l := s.layout
	l.LabelWidth = n
	if err := l.Validate(); err != nil {
		return err
	}
	s.layout = l
	return nil
}

// SetWorkers is the number of goroutines a scan may use.
func (s *Session) SetWorkers(n int) { s.workers = max(n, 1) }

func (s *Session) Groups() group.Partition { return s.groups }
func (s *Session) Formula() string         { return s.params.Formula }
func (s *Session) Params() scan.Params     { return s.params }
func (s *Session) Ranges() shade.Ranges    { return s.ranges }
func (s *Session) Layout() shade.Layout    { return s.layout }

// Scores is nil until the first successful scan.
func (s *Session) Scores() *scan.Scores { return s.scores }

func (s *Session) Labels() []string {
	if s.aln == nil {
		return nil
	}
	return s.aln.Labels()
}

// Scan scores the alignment with the current groups and parameters.
// If it fails, the scores from the last good scan are kept.
func (s *Session) Scan(ctx context.Context) error {
	if s.aln == nil {
		return ErrNoAlignment
	}
	scores, err := scan.Scan(ctx, s.aln, s.groups, s.params, scan.WithWorkers(s.workers))
	if err != nil {
		return err
	}
	s.scores, s.scanGroups = scores, s.groups
	return nil
}

// Pages renders the last scan with the current colours and layout.
func (s *Session) Pages() ([]shade.Page, error) {
	if s.scores == nil {
		return nil, ErrNoScan
	}
	return shade.Render(s.aln, s.scanGroups, s.scores, s.ranges, s.layout)
}

// Legend is the colour key for the current ranges.
func (s *Session) Legend() []shade.LegendEntry { return shade.Legend(s.ranges) }

// Profile is the base usage of group ig in every column, [symbol][position].
func (s *Session) Profile(ig int) (*matrix.FMatrix2d, error) {
	if s.aln == nil {
		return nil, ErrNoAlignment
	}
	if ig < 0 || ig >= len(s.groups) {
		return nil, fmt.Errorf("group %d, but there are %d: %w", ig, len(s.groups), group.ErrIndex)
	}
	return s.aln.GroupUsage(s.groups[ig])
}

// Divergence is the entropy of group ig at each column and its
// divergence from the other groups. kl is nil if there are no other
// sequences.
func (s *Session) Divergence(ig int) (entropy, kl []float32, err error) {
	usage, err := s.Profile(ig)
	if err != nil {
		return nil, nil, err
	}
	entropy = seq.Entropy(usage)
	out := s.groups.Outgroup(ig)
	if len(out) == 0 {
		return entropy, nil, nil
	}
	outUsage, err := s.aln.GroupUsage(out)
	if err != nil {
		return nil, nil, err
	}
	kl, err = seq.KL(usage, outUsage, len(out))
	return entropy, kl, err
}

// Export writes the last scores. A name ending in .tsv gives tab
// separated output, anything else is csv.
func (s *Session) Export(fname string) error {
	if s.scores == nil {
		return ErrNoScan
	}
	format := "csv"
	if strings.EqualFold(filepath.Ext(fname), ".tsv") {
		format = "tsv"
	}
	return export.WriteFile(fname, format, s.aln, s.scores)
}

// WritePNG draws the pages of the last scan into a picture file.
func (s *Session) WritePNG(fname string) (err error) {
	pages, err := s.Pages()
	if err != nil {
		return err
	}
	fp, err := export.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fp.Close(); err == nil {
			err = cerr
		}
	}()
	return paint.WritePNG(fp, pages, s.Legend())
}
