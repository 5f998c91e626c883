// 14 Oct 2026

// Package rscan is the program around a session: apply the command
// line, then either scan and print once, or run the interactive shell.
package rscan

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/andrew-torda/rscan/pkg/export"
	"github.com/andrew-torda/rscan/pkg/group"
	"github.com/andrew-torda/rscan/pkg/paint"
	"github.com/andrew-torda/rscan/pkg/seq"
	"github.com/andrew-torda/rscan/pkg/session"
	"github.com/andrew-torda/rscan/pkg/shade"
)

type CmdFlag struct {
	Groups       string  // "0..3 4,5 6", empty for one group per sequence
	Ka, Kb       float64 // consensus and aspecificity tolerance coefficients
	Consensus    string  // preset for ka, overrides Ka
	Aspecificity string  // preset for kb, overrides Kb
	Formula      string  // empty for the default
	Ranges       string  // four colour borders, empty for the default
	Window       int     // columns per page
	LabelWidth   int     // characters for labels
	CSV          string  // write scores here
	PNG          string  // draw pages here
	Interactive  bool    // start the shell
	Workers      int     // goroutines for scanning
	Vbsty        int     // 0 warnings, 1 info, 2 debug, 3 everything
	NoColor      bool    // no escape sequences even on a terminal
	Time         bool    // print out run time
}

// SetVerbosity maps the -v level onto the logger.
func SetVerbosity(v int) {
	switch {
	case v <= 0:
		log.SetLevel(log.WarnLevel)
	case v == 1:
		log.SetLevel(log.InfoLevel)
	case v == 2:
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.TraceLevel)
	}
}

// apply sets everything from the command line on a fresh session.
func apply(sess *session.Session, flags *CmdFlag) error {
	sess.SetKa(flags.Ka)
	sess.SetKb(flags.Kb)
	sess.SetWorkers(flags.Workers)
	if flags.Consensus != "" {
		if err := sess.Consensus(flags.Consensus); err != nil {
			return err
		}
	}
	if flags.Aspecificity != "" {
		if err := sess.Aspecificity(flags.Aspecificity); err != nil {
			return err
		}
	}
	if flags.Formula != "" {
		if err := sess.SetFormula(flags.Formula); err != nil {
			return err
		}
	}
	if flags.Ranges != "" {
		r, err := shade.ParseRanges(strings.Fields(flags.Ranges))
		if err != nil {
			return err
		}
		if err := sess.SetRanges(r); err != nil {
			return err
		}
	}
	if flags.Window != 0 {
		if err := sess.SetWindow(flags.Window); err != nil {
			return err
		}
	}
	if flags.LabelWidth != 0 {
		if err := sess.SetLabelWidth(flags.LabelWidth); err != nil {
			return err
		}
	}
	raw, err := group.Parse(flags.Groups)
	if err != nil {
		return err
	}
	return sess.SetGroups(raw)
}

func colourMode(noColor bool) paint.Mode {
	if noColor {
		return paint.Never
	}
	return paint.Auto
}

// Mymain reads infile, scans it and paints the pages to outfile ("" or
// "-" for standard output). With flags.Interactive, it starts the shell
// instead and infile may be empty.
func Mymain(flags *CmdFlag, infile, outfile string) error {
	SetVerbosity(flags.Vbsty)
	if flags.Time {
		startTime := time.Now()
		end := func() {
			fmt.Fprintln(os.Stderr, "finished after", time.Since(startTime).Milliseconds(), "ms")
		}
		defer end()
	}
	s_opts := &seq.Options{Vbsty: flags.Vbsty}
	var sess *session.Session
	if infile != "" || !flags.Interactive {
		var err error
		if sess, err = session.Open(infile, s_opts); err != nil {
			return err
		}
		if err := apply(sess, flags); err != nil {
			return err
		}
	}

	if flags.Interactive {
		sh := NewShell(sess, os.Stdout, s_opts)
		sh.painter.Mode = colourMode(flags.NoColor)
		if sess == nil {
			sh.pending = flags
		}
		if term.IsTerminal(int(os.Stdin.Fd())) {
			sh.Prompt = ">> "
			sh.Greet()
		}
		return sh.Run(context.Background(), os.Stdin)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := sess.Scan(ctx); err != nil {
		return err
	}
	pages, err := sess.Pages()
	if err != nil {
		return err
	}
	fp, err := export.Create(outfile)
	if err != nil {
		return err
	}
	defer fp.Close()
	painter := paint.ANSI{Out: fp, Mode: colourMode(flags.NoColor)}
	if err := painter.Paint(pages, sess.Legend()); err != nil && !export.IsBrokenPipe(err) {
		return err
	}
	if flags.CSV != "" {
		if err := sess.Export(flags.CSV); err != nil {
			return err
		}
	}
	if flags.PNG != "" {
		if err := sess.WritePNG(flags.PNG); err != nil {
			return err
		}
	}
	return nil
}
