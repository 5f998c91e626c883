// 31 July 2020
// Random DNA alignments for testing and benchmarking. Sequences come
// in groups and every group gets a few signature columns, where all
// its members share a base the other groups do not have.

package randaln

import (
	"fmt"
	"io"
	"math/rand"
	"sync"

	"github.com/andrew-torda/rscan/pkg/group"
	"github.com/andrew-torda/rscan/pkg/seq"
)

const (
	nPadWhite = 9 // For padding for adding whitespace to sequences
	bases     = "ACGT"
)

// RandAlnArgs is the set of arguments passed to the main function
type RandAlnArgs struct {
	Iseed   int64     // random number seed
	Wrtr    io.Writer // where we write to
	Cmmt    string    // Comment for the sequences
	Nseq    int       // number of sequences
	Len     int       // Length of sequences
	NGrp    int       // number of groups, at least 1
	NSig    int       // signature columns per group
	NoGap   bool      // Do not add gaps
	AddWhte bool      // Sprinkle white space in the output
}

// Groups says which sequences belong to which group. Sequences are
// dealt out in contiguous blocks.
func (args *RandAlnArgs) Groups() group.Partition {
	ngrp := max(args.NGrp, 1)
	p := make(group.Partition, ngrp)
	per := (args.Nseq + ngrp - 1) / ngrp
	for ig := range p {
		lo := ig * per
		hi := min(lo+per, args.Nseq) - 1
		p[ig] = group.Range(lo, hi)
	}
	return p
}

// Sigs returns the signature columns of group ig. Groups use
// different columns, so they do not overwrite each other.
func (args *RandAlnArgs) Sigs(ig int) []int {
	var r []int
	for k := 0; k < args.NSig; k++ {
		if pos := ig*args.NSig + k; pos < args.Len {
			r = append(r, pos)
		}
	}
	return r
}

// Seqs makes the sequences. The same seed gives the same sequences.
func Seqs(args *RandAlnArgs) []string {
	rnd := rand.New(rand.NewSource(args.Iseed))
	letters := bases
	if !args.NoGap {
		letters += bases + "-"
	}
	b := make([][]byte, args.Nseq)
	for i := range b {
		b[i] = make([]byte, args.Len)
		for j := range b[i] {
			b[i][j] = letters[rnd.Intn(len(letters))]
		}
	}
	for ig, g := range args.Groups() {
		for _, pos := range args.Sigs(ig) {
			c := bases[ig%len(bases)]
			for i := range b {
				if contains(g, i) {
					b[i][pos] = c
				} else if b[i][pos] == c {
					b[i][pos] = bases[(ig+1)%len(bases)]
				}
			}
		}
	}
	r := make([]string, len(b))
	for i := range b {
		r[i] = string(b[i])
	}
	return r
}

func contains(g []int, i int) bool {
	for _, j := range g {
		if j == i {
			return true
		}
	}
	return false
}

// addspace adds about one white character per nPadWhite bases at
// random positions. Some of them are newlines.
func addspace(s []byte, rnd *rand.Rand) []byte {
	toAdd := len(s) / nPadWhite
	for i := 0; i < toAdd; i++ {
		c := byte(' ')
		if rnd.Intn(3) == 0 {
			c = '\n'
		}
		s = append(s, 0)
		pos := rnd.Intn(len(s))
		copy(s[pos+1:], s[pos:])
		s[pos] = c
	}
	return s
}

// writeseq takes sequences from a channel, adds a comment and writes
// them when the channel closes. The output has comment lines
// "> something 1, > something 2..."
func writeseq(sChan <-chan []byte, args *RandAlnArgs, wg *sync.WaitGroup, errp *error) {
	defer wg.Done()

	width := len(fmt.Sprintf("%d", args.Nseq))
	spacernd := rand.New(rand.NewSource(args.Iseed + 1))
	var seqgrp seq.SeqGrp
	var i int
	for s := range sChan {
		i++
		if args.AddWhte {
			s = addspace(s, spacernd)
		}
		seqgrp.Add(fmt.Sprintf(" %s %*d", args.Cmmt, width, i), s)
	}
	*errp = seqgrp.WriteFasta(args.Wrtr)
}

// RandAlnMain writes a random alignment to args.Wrtr.
func RandAlnMain(args *RandAlnArgs) error {
	var wg sync.WaitGroup
	var err error
	sChan := make(chan []byte)
	wg.Add(1)
	go writeseq(sChan, args, &wg, &err)
	for _, s := range Seqs(args) {
		sChan <- []byte(s)
	}
	close(sChan)
	wg.Wait()
	return err
}
