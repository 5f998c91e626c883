// 16 Oct 2026

package seq

import (
	"fmt"
	"math"

	"github.com/andrew-torda/matrix"
)

// nBase is the number of real bases. Gaps are not a symbol here.
const nBase = int(SymGap)

// baseFrac is the frequency of the four bases at a column, renormalised
// without gaps. ok is false if there are no bases at all.
func baseFrac(usage *matrix.FMatrix2d, icol int) (f [nBase]float64, ok bool) {
	var sum float64
	for irow := 0; irow < nBase; irow++ {
		f[irow] = float64(usage.Mat[irow][icol])
		sum += f[irow]
	}
	if sum == 0 {
		return f, false
	}
	for irow := range f {
		f[irow] /= sum
	}
	return f, true
}

// Entropy of each column of a usage table from GroupUsage, counting
// only bases, with logarithms to base 4 so it runs from 0 to 1.
// A column of nothing but gaps has entropy 0.
func Entropy(usage *matrix.FMatrix2d) []float32 {
	_, ncol := usage.Size()
	logbase := math.Log(float64(nBase))
	r := make([]float32, ncol)
	for icol := range r {
		f, ok := baseFrac(usage, icol)
		if !ok {
			continue
		}
		var h float64
		for _, x := range f {
			if x > 0 {
				h -= x * math.Log(x) / logbase
			}
		}
		r[icol] = float32(h)
	}
	return r
}

// KL is the Kullback-Leibler divergence of p from q at each column, base
// 4. When q has none of a base that p has, the divergence would be
// infinite, so we use a pseudo-count: q came from nq sequences, so say
// its frequency is 1 / (nq + 1).
func KL(p, q *matrix.FMatrix2d, nq int) ([]float32, error) {
	_, ncol := p.Size()
	if _, n := q.Size(); n != ncol {
		return nil, fmt.Errorf("KL with %d and %d columns", ncol, n)
	}
	logbase := math.Log(float64(nBase))
	oneNumQ := 1. / float64(nq+1)
	r := make([]float32, ncol)
	for icol := range r {
		pf, okp := baseFrac(p, icol)
		qf, _ := baseFrac(q, icol)
		if !okp {
			continue
		}
		var d float64
		for irow, pcount := range pf {
			if pcount == 0 {
				continue
			}
			qcount := qf[irow]
			if qcount == 0 {
				qcount = oneNumQ
			}
			d += pcount * math.Log(pcount/qcount) / logbase
		}
		r[icol] = float32(d)
	}
	return r, nil
}
