// 15 Oct 2026

package rscan

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/andrew-torda/rscan/pkg/group"
	"github.com/andrew-torda/rscan/pkg/seq"
	"github.com/andrew-torda/rscan/pkg/session"
	"github.com/andrew-torda/rscan/pkg/shade"
)

// command is one entry in the dispatch table. Handlers only parse
// their arguments and call the session.
type command struct {
	nargs int    // minimum number of arguments
	args  string // for the usage message
	help  string
	run   func(ctx context.Context, sh *Shell, args []string) error
}

var commands map[string]command

// The table refers to man, so it is filled in init.
func init() {
	commands = map[string]command{
		"open":         {1, "file", "read an alignment in fasta format, groups go back to one per sequence", cmdOpen},
		"labels?":      {0, "", "print the index and label of each sequence", cmdLabels},
		"groups?":      {0, "", "print the groups with the labels of their members", cmdGroups},
		"find":         {1, "text", "print the index of the first sequence whose label contains text", cmdFind},
		"set_groups":   {0, "[0..4 5,6 7]", "set the groups, ranges lo..hi, members by commas, groups by spaces or ;\n\tno groups at all means one group per sequence", cmdSetGroups},
		"ka":           {1, "number", "set the consensus coefficient", cmdKa},
		"kb":           {1, "number", "set the aspecificity tolerance coefficient", cmdKb},
		"con":          {1, "strict|high|low", "set ka from a preset, 20, 10 or 3", cmdCon},
		"asp":          {1, "forbid|penalty|allow", "set kb from a preset, 20, 10 or 0", cmdAsp},
		"color_ranges": {0, "n1 n2 n3 n4", "borders of the five colour bands, anything but four ascending values resets to the default", cmdRanges},
		"set_formula":  {1, "expression", "scoring formula in a, b, ka and kb, for example 1 - (ka*0.5)*(1-a) - (kb*0.1)*b", cmdSetFormula},
		"formula?":     {0, "", "print the scoring formula", cmdFormula},
		"params?":      {0, "", "print ka, kb, the formula, colour ranges and page layout", cmdParams},
		"scan":         {0, "", "score the alignment and print it in colour", cmdScan},
		"export":       {1, "file", "write the scores of the last scan, csv or .tsv", cmdExport},
		"png":          {1, "file", "draw the pages of the last scan into a png file", cmdPNG},
		"profile":      {1, "group", "print the base frequencies, entropy and divergence from the other groups of a group at each position", cmdProfile},
		"window":       {1, "n", "columns per page", cmdWindow},
		"label":        {1, "n", "characters for sequence labels", cmdLabel},
		"workers":      {1, "n", "goroutines used by scan", cmdWorkers},
		"man":          {0, "", "this list", cmdMan},
		"help":         {0, "", "this list", cmdMan},
		"quit":         {0, "", "leave", cmdQuit},
		"exit":         {0, "", "leave", cmdQuit},
	}
}

func cmdOpen(_ context.Context, sh *Shell, args []string) error {
	if sh.sess != nil {
		return sh.sess.Reopen(args[0], sh.s_opts)
	}
	sess, err := session.Open(args[0], sh.s_opts)
	if err != nil {
		return err
	}
	sh.sess = sess
	if flags := sh.pending; flags != nil {
		sh.pending = nil
		return apply(sess, flags)
	}
	return nil
}

func cmdLabels(_ context.Context, sh *Shell, _ []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	for i, l := range sess.Labels() {
		fmt.Fprintf(sh.out, "%d. %s\n", i, l)
	}
	return nil
}

func cmdGroups(_ context.Context, sh *Shell, _ []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	labels := sess.Labels()
	for ig, g := range sess.Groups() {
		fmt.Fprintf(sh.out, "Group %d: %v\n", ig, group.Partition{g})
		for _, i := range g {
			fmt.Fprintf(sh.out, "\t%d. %s\n", i, labels[i])
		}
	}
	return nil
}

func cmdFind(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	txt := strings.Join(args, " ")
	i := sess.Alignment().FindNdx(txt)
	if i < 0 {
		return fmt.Errorf("no label contains %q", txt)
	}
	fmt.Fprintf(sh.out, "%d. %s\n", i, sess.Labels()[i])
	return nil
}

func cmdSetGroups(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	raw, err := group.Parse(strings.Join(args, " "))
	if err != nil {
		return err
	}
	return sess.SetGroups(raw)
}

func parseFloat(s string) (float64, error) {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return x, nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return n, nil
}

func cmdKa(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	x, err := parseFloat(args[0])
	if err != nil {
		return err
	}
	sess.SetKa(x)
	return nil
}

func cmdKb(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	x, err := parseFloat(args[0])
	if err != nil {
		return err
	}
	sess.SetKb(x)
	return nil
}

func cmdCon(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	return sess.Consensus(args[0])
}

func cmdAsp(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	return sess.Aspecificity(args[0])
}

func cmdRanges(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	r, err := shade.ParseRanges(args)
	if err != nil {
		sess.SetRanges(shade.DefaultRanges)
		return fmt.Errorf("%w, reset to %v", err, shade.DefaultRanges)
	}
	return sess.SetRanges(r)
}

// cmdSetFormula takes the rest of the line, with or without quotes.
func cmdSetFormula(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	src := strings.Trim(strings.Join(args, " "), `"'`)
	return sess.SetFormula(src)
}

func cmdFormula(_ context.Context, sh *Shell, _ []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	fmt.Fprintln(sh.out, sess.Formula())
	return nil
}

func cmdParams(_ context.Context, sh *Shell, _ []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	p, l := sess.Params(), sess.Layout()
	fmt.Fprintf(sh.out, "ka %g kb %g\nformula %s\ncolor_ranges %v\nwindow %d label %d\n",
		p.Ka, p.Kb, p.Formula, sess.Ranges(), l.WindowLen, l.LabelWidth)
	return nil
}

func cmdScan(ctx context.Context, sh *Shell, _ []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	if err := sess.Scan(ctx); err != nil {
		return err
	}
	pages, err := sess.Pages()
	if err != nil {
		return err
	}
	return sh.painter.Paint(pages, sess.Legend())
}

func cmdExport(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	return sess.Export(args[0])
}

func cmdPNG(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	return sess.WritePNG(args[0])
}

// cmdProfile prints one line per position, with the fraction of each
// symbol in the group, its entropy and, if there are other groups,
// its divergence from them.
func cmdProfile(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	ig, err := parseInt(args[0])
	if err != nil {
		return err
	}
	prof, err := sess.Profile(ig)
	if err != nil {
		return err
	}
	entropy, kl, err := sess.Divergence(ig)
	if err != nil {
		return err
	}
	fmt.Fprint(sh.out, "pos")
	for s := seq.Symbol(0); s < seq.NSym; s++ {
		fmt.Fprintf(sh.out, "%6v", s)
	}
	fmt.Fprintf(sh.out, "%8s", "entropy")
	if kl != nil {
		fmt.Fprintf(sh.out, "%6s", "kl")
	}
	fmt.Fprintln(sh.out)
	for pos := 0; pos < sess.Alignment().GetLen(); pos++ {
		fmt.Fprintf(sh.out, "%d", pos+1)
		for s := seq.Symbol(0); s < seq.NSym; s++ {
			fmt.Fprintf(sh.out, "%6.2f", prof.Mat[s][pos])
		}
		fmt.Fprintf(sh.out, "%8.2f", entropy[pos])
		if kl != nil {
			fmt.Fprintf(sh.out, "%6.2f", kl[pos])
		}
		fmt.Fprintln(sh.out)
	}
	return nil
}

func cmdWindow(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	n, err := parseInt(args[0])
	if err != nil {
		return err
	}
	return sess.SetWindow(n)
}

func cmdLabel(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	n, err := parseInt(args[0])
	if err != nil {
		return err
	}
	return sess.SetLabelWidth(n)
}

func cmdWorkers(_ context.Context, sh *Shell, args []string) error {
	sess, err := sh.session()
	if err != nil {
		return err
	}
	n, err := parseInt(args[0])
	if err != nil {
		return err
	}
	sess.SetWorkers(n)
	return nil
}

func cmdMan(_ context.Context, sh *Shell, _ []string) error {
	sh.man()
	return nil
}

func cmdQuit(context.Context, *Shell, []string) error { return errQuit }
