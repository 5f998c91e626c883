package scan

import (
	"github.com/andrew-torda/matrix"
)

// Scores holds one score per sequence per position. Sequences which are
// in no group were never scored and have no row.
// If a sequence is in more than one group, the score from the last
// group that holds it wins.
// Scores are float32, like the frequencies they come from, so about
// seven significant digits survive.
type Scores struct {
	mat     *matrix.FMatrix2d
	covered []bool
	ncol    int
}

// NewScores wraps rows of scores, for example read back from a file.
// A nil row marks an unscored sequence. All other rows must have the
// same length.
func NewScores(rows [][]float32) *Scores {
	s := &Scores{covered: make([]bool, len(rows))}
	for _, r := range rows {
		if r != nil {
			s.ncol = len(r)
			break
		}
	}
	s.mat = matrix.NewFMatrix2d(len(rows), s.ncol)
	for i, r := range rows {
		if r != nil {
			s.covered[i] = true
			copy(s.mat.Mat[i], r)
		}
	}
	return s
}

// NSeq is the number of sequences, scored or not.
func (s *Scores) NSeq() int { return len(s.covered) }

// Len is the number of positions.
func (s *Scores) Len() int { return s.ncol }

// Covered says if sequence i was scored.
func (s *Scores) Covered(i int) bool { return s.covered[i] }

// At is the score of sequence i at position pos.
func (s *Scores) At(i, pos int) float32 { return s.mat.Mat[i][pos] }

// Row returns the scores of sequence i, or nil if it was not scored.
// The slice belongs to the Scores.
func (s *Scores) Row(i int) []float32 {
	if !s.covered[i] {
		return nil
	}
	return s.mat.Mat[i]
}

// Equal says if two sets of scores are identical, bit for bit.
func (s *Scores) Equal(t *Scores) bool {
	if s.NSeq() != t.NSeq() || s.ncol != t.ncol {
		return false
	}
	for i := range s.covered {
		if s.covered[i] != t.covered[i] {
			return false
		}
		if !s.covered[i] {
			continue
		}
		for j, x := range s.mat.Mat[i] {
			if x != t.mat.Mat[i][j] {
				return false
			}
		}
	}
	return true
}
