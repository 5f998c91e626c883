// Reader for fasta format files.

package seq

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/andrew-torda/rscan/pkg/white"
)

// An item is terminated by a newline if we are in a comment or a comment
// character ">" if we are in a sequence.
const (
	NL       = '\n'
	cmmtChar = '>'
)

type item struct {
	data     []byte
	complete bool  // we found the terminator
	eof      bool  // no more input after this
	err      error // a real read error, not io.EOF
}

type lexer struct {
	input    []byte
	ichan    chan *item
	seqgrp   *SeqGrp
	rdr      io.Reader
	itempool sync.Pool
	cmmt     string // partial comment
	seq      []byte // partial sequence
	term     byte
	rdErr    error // from a read that also returned data
	err      error
}

const defaultReadSize = 4096

var rdsize int = defaultReadSize

// setFastaRdSize is only used during testing and benchmarking
func setFastaRdSize(i int) {
	if i < 1 {
		panic("setFastaRdSize given buffer length less than 1")
	}
	rdsize = i
}

func newItem() interface{} { return new(item) }

// next reads from the input and sends items to channel, ichan.
// An item is terminated by l.term or the end of the buffer. The last
// item sent has eof set.
// The terminator flips between newline and ">" each time we find one,
// so the consumer alternates between comments and sequences.
func (l *lexer) next() {
	defer close(l.ichan)
	for {
		it := l.itempool.Get().(*item)
		*it = item{}
		if len(l.input) == 0 {
			var n int
			err := l.rdErr
			if err == nil {
				buf := make([]byte, rdsize)
				n, err = l.rdr.Read(buf)
				if n > 0 { // use the data first, the error waits
					l.input = buf[:n]
					l.rdErr = err
				}
			}
			if n == 0 {
				if err == nil { // A reader may return 0, nil.
					l.itempool.Put(it)
					continue //    Just try again.
				}
				if err != io.EOF {
					it.err = err
				}
				it.complete = true
				it.eof = true
				l.ichan <- it
				return
			}
		}

		if ndx := bytes.IndexByte(l.input, l.term); ndx == -1 {
			it.data = l.input // no terminator found, so just send
			l.input = nil     // back whatever we have in the buffer.
		} else { //              We did find a terminator
			it.data = l.input[:ndx]
			it.complete = true
			l.input = l.input[ndx+1:]
			if l.term == NL {
				l.term = cmmtChar
			} else {
				l.term = NL
			}
		}
		l.ichan <- it
	}
}

type stateFn func(*lexer) stateFn

// get pulls an item off the channel and notes any read error.
func (l *lexer) get() *item {
	item := <-l.ichan
	if item != nil && item.err != nil {
		l.err = item.err
	}
	return item
}

// gstart jumps over anything before the first ">". It may only be white
// space.
func gstart(l *lexer) stateFn {
	item := l.get()
	if item == nil || l.err != nil {
		return nil
	}
	defer l.itempool.Put(item)
	white.Remove(&item.data)
	if len(item.data) != 0 {
		l.err = errors.New("fasta input does not start with \">\"")
		return nil
	}
	if item.eof {
		return nil
	}
	if item.complete {
		return gcmmt
	}
	return gstart
}

// We are reading a comment
func gcmmt(l *lexer) stateFn {
	item := l.get()
	if item == nil || l.err != nil {
		return nil
	}
	defer l.itempool.Put(item)

	l.cmmt = l.cmmt + string(item.data)
	if item.eof {
		l.err = fmt.Errorf("no sequence after comment \"%s\"", trimStr(l.cmmt, 40))
		return nil
	}
	if item.complete {
		return gseq
	}
	return gcmmt
}

// We are reading a sequence
func gseq(l *lexer) stateFn {
	item := l.get()
	if item == nil || l.err != nil {
		return nil
	}
	defer l.itempool.Put(item)

	white.Remove(&item.data)
	l.seq = append(l.seq, item.data...)
	if !item.complete {
		return gseq
	}
	if len(l.seq) == 0 {
		l.err = fmt.Errorf("zero length sequence after \"%s\"", trimStr(l.cmmt, 40))
		return nil
	}
	l.seqgrp.seqs = append(l.seqgrp.seqs, seq{cmmt: trimCR(l.cmmt), seq: l.seq})
	l.cmmt = ""
	l.seq = nil
	if item.eof {
		return nil
	}
	return gcmmt
}

// drain empties the channel so the reading goroutine can finish if we
// stopped early on an error.
func (l *lexer) drain() {
	for range l.ichan {
	}
}

// ReadFasta reads fasta formatted sequences from rdr and appends them
// to seqgrp.
func ReadFasta(rdr io.Reader, seqgrp *SeqGrp, s_opts *Options) error {
	l := lexer{rdr: rdr, ichan: make(chan *item, 2), seqgrp: seqgrp, term: cmmtChar}
	l.itempool.New = newItem

	go l.next()
	for state := gstart; state != nil; {
		state = state(&l)
	}
	l.drain()
	if l.err != nil {
		return l.err
	}
	if seqgrp.NSeq() == 0 {
		return errors.New("No sequences found")
	}
	if !s_opts.DiffLenSeq {
		if err := checkLengths(seqgrp.seqs); err != nil {
			return err
		}
	}
	return nil
}
