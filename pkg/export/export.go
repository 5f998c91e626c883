// 9 Oct 2026

// Package export writes scores as text tables, one row per sequence,
// label first, and reads them back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/andrew-torda/rscan/pkg/scan"
)

// Labeled is what we need from the alignment.
type Labeled interface {
	NSeq() int
	Label(i int) string
}

// fmtScore writes the shortest form that reads back to the same float32.
func fmtScore(x float32) string { return strconv.FormatFloat(float64(x), 'g', -1, 32) }

// Rows has one row per sequence, the label and then the scores.
// A sequence that was never scored gets a row with only its label.
// Each score is written exactly as the float32 it is held in, which
// is good to about seven significant digits.
func Rows(aln Labeled, scores *scan.Scores) [][]string {
	rows := make([][]string, aln.NSeq())
	for i := range rows {
		r := scores.Row(i)
		row := make([]string, 1, len(r)+1)
		row[0] = aln.Label(i)
		for _, x := range r {
			row = append(row, fmtScore(x))
		}
		rows[i] = row
	}
	return rows
}

type writeFn func(w io.Writer, rows [][]string) error

// formats maps a name to a writer. Add one with Register.
var formats = map[string]writeFn{}

// Register adds or replaces an output format. The last one wins.
func Register(name string, fn func(io.Writer, [][]string) error) { formats[name] = fn }

// Formats is the sorted list of format names.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for n := range formats {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("csv", func(w io.Writer, rows [][]string) error { return writeSep(w, rows, ',') })
	Register("tsv", func(w io.Writer, rows [][]string) error { return writeSep(w, rows, '\t') })
}

func writeSep(w io.Writer, rows [][]string, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return nil
}

// Write sends the scores to w in the named format.
func Write(format string, w io.Writer, aln Labeled, scores *scan.Scores) error {
	fn, ok := formats[format]
	if !ok {
		return fmt.Errorf("unknown export format %q, have %v", format, Formats())
	}
	if scores.NSeq() != aln.NSeq() {
		return fmt.Errorf("%d rows of scores for %d sequences", scores.NSeq(), aln.NSeq())
	}
	if err := fn(w, Rows(aln, scores)); err != nil && !IsBrokenPipe(err) {
		return fmt.Errorf("writing %s: %w", format, err)
	}
	return nil
}

// WriteCSV is Write with the csv format.
func WriteCSV(w io.Writer, aln Labeled, scores *scan.Scores) error {
	return Write("csv", w, aln, scores)
}

// ReadCSV reads what WriteCSV wrote. A label with no scores gives a
// nil row.
func ReadCSV(r io.Reader) (labels []string, rows [][]float32, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	for i, rec := range recs {
		labels = append(labels, rec[0])
		if len(rec) == 1 {
			rows = append(rows, nil)
			continue
		}
		row := make([]float32, len(rec)-1)
		for j, s := range rec[1:] {
			x, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d, column %d: %w", i+1, j+2, err)
			}
			row[j] = float32(x)
		}
		rows = append(rows, row)
	}
	return labels, rows, nil
}

// IsBrokenPipe says if the reader at the other end went away, as with
// "rscan -o - x.fa | head".
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// warnExists checks if a filename exists and complains
// if we will trash a file. It does not return an error.
func warnExists(fname string) {
	if _, err := os.Stat(fname); err == nil {
		log.Warnln("trashing old version of", fname)
	}
}

// Create opens an output file. "" or "-" is standard output, which the
// caller's Close leaves open.
func Create(fname string) (io.WriteCloser, error) {
	if fname == "" || fname == "-" {
		return nopCloser{os.Stdout}, nil
	}
	warnExists(fname)
	fp, err := os.Create(fname)
	if err != nil {
		return nil, fmt.Errorf("output file %v: %w", fname, err)
	}
	return fp, nil
}

// WriteFile exports to a named file. The format comes from the
// caller, usually the file's extension.
func WriteFile(fname, format string, aln Labeled, scores *scan.Scores) (err error) {
	fp, err := Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fp.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(format, fp, aln, scores)
}
