// 15 Oct 2026
// Read a DNA alignment, score every base against its group and the
// other groups and print the alignment shaded by score.

package main

import (
	"flag"
	"fmt"
	"os"
	"path"

	log "github.com/sirupsen/logrus"

	"github.com/andrew-torda/rscan/pkg/rscan"
	"github.com/andrew-torda/rscan/pkg/scan"
	. "github.com/andrew-torda/rscan/pkg/seq/common"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "[flags] [infile [outfile]]")
	long := `Given no infile, read the alignment from stdin, unless -i is set.
Given no outfile, print the shaded pages to stdout.
With -i, start the interactive shell. Type man there for the commands.`
	fmt.Fprintln(os.Stderr, long)
	flag.PrintDefaults()
}

func main() {
	var flags rscan.CmdFlag
	var infile, outfile string
	dflt := scan.DefaultParams()

	flag.StringVar(&flags.Groups, "g", "", `groups of sequences, "0..4 5,6 7", default one per sequence`)
	flag.Float64Var(&flags.Ka, "a", dflt.Ka, "consensus coefficient ka")
	flag.Float64Var(&flags.Kb, "b", dflt.Kb, "aspecificity tolerance coefficient kb")
	flag.StringVar(&flags.Consensus, "c", "", "consensus preset: strict, high or low")
	flag.StringVar(&flags.Aspecificity, "s", "", "aspecificity preset: forbid, penalty or allow")
	flag.StringVar(&flags.Formula, "f", "", "scoring formula in a, b, ka and kb")
	flag.StringVar(&flags.Ranges, "r", "", `four colour borders, "0.5 0.7 0.8 0.9"`)
	flag.IntVar(&flags.Window, "w", 0, "columns per page, default 80")
	flag.IntVar(&flags.LabelWidth, "l", 0, "characters for labels, default 20")
	flag.StringVar(&flags.CSV, "o", "", "write scores to this csv file (.tsv for tabs)")
	flag.StringVar(&flags.PNG, "p", "", "draw pages into this png file")
	flag.BoolVar(&flags.Interactive, "i", false, "interactive shell")
	flag.IntVar(&flags.Workers, "j", 1, "goroutines for scanning")
	flag.IntVar(&flags.Vbsty, "v", 0, "verbosity, 0 to 3")
	flag.BoolVar(&flags.NoColor, "nocolor", false, "no colour, even on a terminal")
	flag.BoolVar(&flags.Time, "t", false, "print out timing information")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() > 2 {
		usage()
		os.Exit(ExitUsageError)
	}
	if flag.NArg() > 0 {
		infile = flag.Arg(0)
		if flag.NArg() > 1 {
			outfile = flag.Arg(1)
		}
	}

	if err := rscan.Mymain(&flags, infile, outfile); err != nil {
		log.Errorln(err)
		os.Exit(ExitFailure)
	} else {
		os.Exit(ExitSuccess)
	}
}
