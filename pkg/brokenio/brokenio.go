// Package brokenio wraps an io.Reader so that reads fail now and then.
// Typical use: wrap the reader from a file or a network source with
// reader = brokenio.NewReader(reader, seed) and check that the code
// reading it notices.
// A failure on the first read can also be an empty file, returned
// without an error. This is what one often sees on a zero length file.
package brokenio

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
)

var ErrBroken = errors.New("artificial read error")

// A Reader has probabilities, from 0 to 1, of things going wrong.
type Reader struct {
	rdr          io.Reader
	rnd          *rand.Rand
	ProbZeroFile float32 // pretend the file is empty on the first read
	ProbFail     float32 // fail any single read
	FracFail     float32 // how much of the buffer to trash on failure
	NCalled      int
	NByte        int
}

// NewReader wraps rIn. The same seed gives the same failures.
func NewReader(rIn io.Reader, seed int64) *Reader {
	return &Reader{rdr: rIn, rnd: rand.New(rand.NewSource(seed)), FracFail: 0.5}
}

// trashSlice wipes out the second part of a slice and says how much
// is left. frac 0.3 zeroes the last 30 %.
func trashSlice(p []byte, frac float32) int {
	nkeep := int(float32(len(p)) * (1. - frac))
	clear(p[nkeep:])
	return nkeep
}

// Read passes the read on and counts the data that went through.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.NCalled == 0 && r.ProbZeroFile > 0 && r.rnd.Float32() < r.ProbZeroFile {
		r.NCalled++
		return 0, io.EOF
	}
	n, err := r.rdr.Read(p)
	r.NCalled++
	r.NByte += n
	if n > 0 && r.rnd.Float32() < r.ProbFail {
		m := trashSlice(p[:n], r.FracFail)
		return m, fmt.Errorf("kept %d of %d bytes: %w", m, n, ErrBroken)
	}
	return n, err
}
