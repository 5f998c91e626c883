// 6 Apr 2020
// seqcalc does simple, common calculations on a set of sequences.
// The functions have to live in this package, since they
// need access to the internals of a sequence.

package seq

import (
	"errors"
	"fmt"

	"github.com/andrew-torda/matrix"

	. "github.com/andrew-torda/rscan/pkg/seq/common"
)

// Symbol is the class of a base. Only the first NSym are counted in
// frequencies. Everything else is SymOther.
type Symbol uint8

const (
	SymA Symbol = iota
	SymC
	SymT
	SymG
	SymGap
	NSym // number of counted symbols
)

const SymOther Symbol = NSym

var symChar = [...]byte{'A', 'C', 'T', 'G', GapChar, '?'}

// String gives the upper case letter for a symbol, or "?" for other.
func (s Symbol) String() string { return string(symChar[s]) }

var symMap = func() (m [256]Symbol) {
	for i := range m {
		m[i] = SymOther
	}
	m['A'], m['a'] = SymA, SymA
	m['C'], m['c'] = SymC, SymC
	m['T'], m['t'] = SymT, SymT
	m['G'], m['g'] = SymG, SymG
	m[GapChar] = SymGap
	return
}()

// SymOf classifies a character. Lower and upper case are the same.
func SymOf(c byte) Symbol { return symMap[c] }

// Freq holds the relative frequency of each counted symbol at one
// position in a group of sequences.
type Freq [NSym]float32

// Get returns the frequency of a symbol. SymOther is never counted,
// so it gets zero.
func (f *Freq) Get(s Symbol) float32 {
	if s >= NSym {
		return 0
	}
	return f[s]
}

// Sum adds up the counted frequencies. It is less than 1 if some
// members of the group had other symbols.
func (f *Freq) Sum() (sum float32) {
	for _, x := range f {
		sum += x
	}
	return sum
}

var (
	ErrEmptyGroup = errors.New("empty group")
	ErrRange      = errors.New("index out of range")
)

// checkGroup makes sure every member of group is a sequence we have.
func (seqgrp *SeqGrp) checkGroup(group []int) error {
	nseq := len(seqgrp.seqs)
	for _, i := range group {
		if i < 0 || i >= nseq {
			return fmt.Errorf("sequence %d of %d: %w", i, nseq, ErrRange)
		}
	}
	return nil
}

// GroupFreq counts the symbols at position pos in the sequences listed
// in group and divides by the size of the group. An index which
// appears twice is counted twice.
func (seqgrp *SeqGrp) GroupFreq(group []int, pos int) (Freq, error) {
	var f Freq
	if len(group) == 0 {
		return f, ErrEmptyGroup
	}
	if pos < 0 || pos >= seqgrp.GetLen() {
		return f, fmt.Errorf("position %d of %d: %w", pos, seqgrp.GetLen(), ErrRange)
	}
	if err := seqgrp.checkGroup(group); err != nil {
		return f, err
	}
	var counts [NSym + 1]int
	for _, i := range group {
		counts[symMap[seqgrp.seqs[i].seq[pos]]]++
	}
	n := float32(len(group))
	for s := range f {
		f[s] = float32(counts[s]) / n
	}
	return f, nil
}

// GroupUsage does the same as GroupFreq, but for every column at once.
// The result looks like [NSym][length_of_seq]. Frequencies are stored
// as float32, which is plenty for fractions of a group.
func (seqgrp *SeqGrp) GroupUsage(group []int) (*matrix.FMatrix2d, error) {
	if len(group) == 0 {
		return nil, ErrEmptyGroup
	}
	if err := seqgrp.checkGroup(group); err != nil {
		return nil, err
	}
	ncol := seqgrp.GetLen()
	counts := matrix.NewFMatrix2d(int(NSym), ncol)
	for _, i := range group {
		for icol, c := range seqgrp.seqs[i].seq {
			if s := symMap[c]; s < NSym {
				counts.Mat[s][icol]++
			}
		}
	}
	n := float32(len(group))
	for irow := range counts.Mat {
		for icol := range counts.Mat[irow] {
			counts.Mat[irow][icol] /= n
		}
	}
	return counts, nil
}

// SetSymUsed fills out the bool slice which says whether or not a
// symbol was used.
func (seqgrp *SeqGrp) SetSymUsed() {
	for _, ss := range seqgrp.seqs {
		for _, c := range ss.seq {
			if c < MaxSym {
				seqgrp.symUsed[c] = true
			}
		}
	}
	seqgrp.usedKnwn = true
}

// GetType looks at a set of sequences and returns its best guess
// as to the type of sequence. Sequences should be upper case.
func (seqgrp *SeqGrp) GetType() SeqType {
	if seqgrp.stype != Unchecked { // If the sequence type has been
		return seqgrp.stype //      set, just return it.
	}
	if !seqgrp.usedKnwn {
		seqgrp.SetSymUsed()
	}
	seqgrp.stype = seqgrp.guessType()
	return seqgrp.stype
}

func (seqgrp *SeqGrp) guessType() SeqType {
	protType := []byte{
		'D', 'E', 'F', 'H', 'I', 'K', 'L', 'M',
		'P', 'Q', 'R', 'S', 'V', 'W', 'Y'}

	used := seqgrp.symUsed
	for _, c := range protType { // If we see an amino acid code,
		if used[c] { //          just return protein type.
			return Protein
		}
	}

	if used['T'] && used['U'] {
		return Ntide
	}
	// If we have ACG, but neither T or U, it is a nucleotide
	// but we cannot tell if it is RNA or DNA
	if used['A'] && used['C'] && used['G'] && !used['T'] && !used['U'] {
		return Ntide
	}
	if used['T'] {
		return DNA
	}
	if used['U'] {
		return RNA
	}
	return Unknown
}
