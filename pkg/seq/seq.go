// 20 Dec 2017

// Package seq holds a multiple sequence alignment, which usually
// begins its life in fasta format. It can read sequences, answer
// questions about single bases and calculate base frequencies over
// groups of sequences.
package seq

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"
	log "github.com/sirupsen/logrus"

	. "github.com/andrew-torda/rscan/pkg/seq/common"
)

// seq is one sequence and its comment line, without the ">".
type seq struct {
	cmmt string
	seq  []byte
}

// A marker to say what type of sequence we have, protein, DNA, ...
type SeqType byte

const (
	Unchecked SeqType = iota // Has not been looked at yet
	Unknown                  // Really unknown, not a protein or nucleotide
	Protein                  //
	DNA                      //
	RNA                      //
	Ntide                    // Nucleotide
)

var stypeNames = [...]string{"unchecked", "unknown", "protein", "DNA", "RNA", "nucleotide"}

func (t SeqType) String() string {
	if int(t) < len(stypeNames) {
		return stypeNames[t]
	}
	return fmt.Sprintf("SeqType(%d)", t)
}

// We only read ascii characters, so anything bigger than this is not
// valid.
const (
	MaxSym uint8 = 127
)

// Options contains all the choices passed in from the caller.
type Options struct {
	Vbsty      int
	DiffLenSeq bool // false, unless we expect sequences to be different lengths
}

// SeqGrp is a group of sequences, with some additional information
// such as what type (protein, nucleotide) and which symbols have been
// used.
type SeqGrp struct {
	symUsed  [MaxSym]bool // which symbols are actually used
	seqs     []seq
	stype    SeqType
	usedKnwn bool // Do we know which symbols are used ?
}

// trimStr trims a string to n bytes if it is longer
func trimStr(s string, n int) string { return TrimStr(s, n) }

// trimCR takes off the carriage return left by files from windows.
func trimCR(s string) string { return strings.TrimSuffix(s, "\r") }

// Upper changes a sequence to upper case, in place.
// It only works with bytes, not runes.
// It returns an error if it encounters a symbol it does
// not like (value of MaxSym or more).
func (s *seq) Upper() error {
	const diff = 'a' - 'A'
	const symerr = "bad sym \"%c\" at position %d starting \"%s\""
	b := s.seq
	for i, c := range b {
		if c >= MaxSym {
			return fmt.Errorf(symerr, c, i, trimStr(s.cmmt, 40))
		}
		if 'a' <= c && c <= 'z' {
			b[i] -= diff
		}
	}
	return nil
}

// GetLen returns the length of the first sequence.
// In an alignment, this is the length of all sequences.
func (seqgrp *SeqGrp) GetLen() int {
	if len(seqgrp.seqs) == 0 {
		return 0
	}
	return len(seqgrp.seqs[0].seq)
}

// NSeq returns the number of sequences
func (seqgrp *SeqGrp) NSeq() int { return len(seqgrp.seqs) }

// Add appends a sequence. cmmt is the comment without the ">". The
// group keeps s, so callers should not change it afterwards.
func (seqgrp *SeqGrp) Add(cmmt string, s []byte) {
	seqgrp.seqs = append(seqgrp.seqs, seq{cmmt: cmmt, seq: s})
	seqgrp.usedKnwn = false
	seqgrp.stype = Unchecked
}

// Base returns the character at position pos in sequence i. There is
// no bounds checking, so it will panic like any slice.
func (seqgrp *SeqGrp) Base(i, pos int) byte { return seqgrp.seqs[i].seq[pos] }

// Sym is like Base, but returns the symbol class of the character.
func (seqgrp *SeqGrp) Sym(i, pos int) Symbol { return SymOf(seqgrp.seqs[i].seq[pos]) }

// Label is the comment line of sequence i, with leading and trailing
// white space removed.
func (seqgrp *SeqGrp) Label(i int) string { return strings.TrimSpace(seqgrp.seqs[i].cmmt) }

// Labels returns all the labels in order.
func (seqgrp *SeqGrp) Labels() []string {
	r := make([]string, len(seqgrp.seqs))
	for i := range seqgrp.seqs {
		r[i] = seqgrp.Label(i)
	}
	return r
}

// Upper uppercases all the members of a group of sequences.
func (seqgrp *SeqGrp) Upper() error {
	for i := range seqgrp.seqs {
		if err := seqgrp.seqs[i].Upper(); err != nil {
			return err
		}
	}
	return nil
}

// checkLengths is called if the sequences are an alignment, so they
// must all be the same length.
func checkLengths(seq_set []seq) error {
	const msg = "sequence lengths are not the same. First sequence length %d, but sequence %d length: %d. Sequence starts \"%s\""
	iwant := len(seq_set[0].seq)
	for i := 1; i < len(seq_set); i++ {
		if ilen := len(seq_set[i].seq); ilen != iwant {
			return fmt.Errorf(msg, iwant, i, ilen, trimStr(seq_set[i].cmmt, 40))
		}
	}
	return nil
}

// readMapped maps a file into memory and runs the fasta reader over it.
// The reader copies what it keeps, so we can unmap on the way out.
func readMapped(fname string, seqgrp *SeqGrp, s_opts *Options) error {
	fp, err := os.Open(fname)
	if err != nil {
		return err
	}
	defer fp.Close()
	fi, err := fp.Stat()
	if err != nil {
		return err
	}
	if fi.Size() == 0 { // mmap will not map an empty file
		return fmt.Errorf("%s: %w", fname, errEmptyFile)
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("mapping %s: %w", fname, err)
	}
	defer mm.Unmap()
	log.Tracef("mapped %s, %d bytes", fname, len(mm))
	return ReadFasta(bytes.NewReader(mm), seqgrp, s_opts)
}

var errEmptyFile = errors.New("empty file")

// Readfile takes a filename and reads sequences from it. An empty
// name or "-" means standard input. Sequences are converted to upper
// case. It returns a SeqGrp and error. s_opts may be nil.
func Readfile(fname string, s_opts *Options) (*SeqGrp, error) {
	if s_opts == nil {
		s_opts = &Options{}
	}
	seqgrp := new(SeqGrp)
	var err error
	if fname == "" || fname == "-" {
		err = ReadFasta(os.Stdin, seqgrp, s_opts)
	} else {
		err = readMapped(fname, seqgrp, s_opts)
	}
	if err != nil {
		return nil, err
	}
	if err := seqgrp.Upper(); err != nil {
		return nil, err
	}
	log.Debugf("read %d sequences of length %d from %q", seqgrp.NSeq(), seqgrp.GetLen(), fname)
	if st := seqgrp.GetType(); st != DNA && st != Ntide {
		log.Warnf("%q looks like %v, not DNA. Scores only count A, C, G, T and gaps", fname, st)
	}
	return seqgrp, nil
}

// WriteFasta writes the sequences to w, 60 characters per line.
func (seqgrp *SeqGrp) WriteFasta(w io.Writer) error {
	const c_per_line = 60
	for _, ss := range seqgrp.seqs {
		if _, err := fmt.Fprintf(w, "%c%s\n", cmmtChar, ss.cmmt); err != nil {
			return err
		}
		s := ss.seq
		for ; len(s) > c_per_line; s = s[c_per_line:] {
			if _, err := fmt.Fprintf(w, "%s\n", s[:c_per_line]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s\n", s); err != nil {
			return err
		}
	}
	return nil
}

// FindNdx returns the index of the first sequence whose comment
// contains a string. Numbering starts from zero. We remove any ">",
// space or tab at the start. It returns -1 if nothing matches.
func (seqgrp *SeqGrp) FindNdx(s string) int {
	s = strings.TrimLeft(s, " >	")
	for i, ss := range seqgrp.seqs {
		if strings.Contains(ss.cmmt, s) {
			return i
		}
	}
	return -1
}

// Str2SeqGrp takes some strings and returns them as a seqgrp.
// sIn is a slice of strings which are the sequences.
// prefix is an optional argument. Sequences need names/comments. If
// prefix is not given, sequences will be called "s0", "s1", ...
func Str2SeqGrp(sIn []string, prefix ...string) *SeqGrp {
	base := "s"
	if prefix != nil {
		base = prefix[0]
	}
	seqgrp := new(SeqGrp)
	for i, s := range sIn {
		f := seq{cmmt: fmt.Sprint(base, i), seq: []byte(s)}
		seqgrp.seqs = append(seqgrp.seqs, f)
	}
	return seqgrp
}
