// 31 July 2020

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/andrew-torda/rscan/pkg/randaln"
	. "github.com/andrew-torda/rscan/pkg/seq/common"
)

func main() {
	f := flag.NewFlagSet("randaln", flag.ExitOnError)
	const iseed int64 = 1637
	var args randaln.RandAlnArgs

	f.BoolVar(&args.NoGap, "g", false, "do not put gaps in sequences")
	f.BoolVar(&args.AddWhte, "w", false, "sprinkle white space in the output")
	f.Int64Var(&args.Iseed, "r", iseed, "random number seed")
	f.IntVar(&args.NGrp, "n", 2, "number of groups")
	f.IntVar(&args.NSig, "s", 3, "signature columns per group")
	f.StringVar(&args.Cmmt, "c", "random seq", "comment for the sequences")
	if err := f.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(f.Output(), err)
		os.Exit(ExitUsageError)
	}
	if f.NArg() != 3 {
		fmt.Fprintln(f.Output(), "Too few args\nrandaln [..] file nseq length")
		f.Usage()
		os.Exit(ExitUsageError)
	}

	const emsg = "Failed converting %s to positive integer\n"
	if nseq, err := strconv.ParseUint(f.Arg(1), 10, 32); err != nil {
		fmt.Fprintf(os.Stderr, emsg, f.Arg(1))
		os.Exit(ExitUsageError)
	} else {
		args.Nseq = int(nseq)
	}
	if nlen, err := strconv.ParseUint(f.Arg(2), 10, 32); err != nil {
		fmt.Fprintf(os.Stderr, emsg, f.Arg(2))
		os.Exit(ExitUsageError)
	} else {
		args.Len = int(nlen)
	}

	fname := f.Arg(0)
	if fname == "-" || fname == "" {
		args.Wrtr = os.Stdout
	} else {
		ft, err := os.Create(fname)
		if err != nil {
			fmt.Fprintln(os.Stderr, "File for output:", err)
			os.Exit(ExitFailure)
		}
		defer ft.Close()
		args.Wrtr = ft
	}
	if err := randaln.RandAlnMain(&args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	fmt.Fprintln(os.Stderr, "groups:", args.Groups())
}
