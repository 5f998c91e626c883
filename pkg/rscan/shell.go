// 14 Oct 2026

package rscan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"github.com/andrew-torda/rscan/pkg/paint"
	"github.com/andrew-torda/rscan/pkg/seq"
	"github.com/andrew-torda/rscan/pkg/session"
)

var errQuit = errors.New("quit")

// Shell reads commands a line at a time and runs them on a session.
// A command that fails prints its error and the shell carries on.
type Shell struct {
	Prompt  string
	sess    *session.Session
	out     io.Writer
	painter paint.ANSI
	s_opts  *seq.Options
	pending *CmdFlag // applied to the first alignment opened in the shell

	// interrupt gives each command its own context, so a Ctrl-C stops
	// that command and not the ones after it.
	interrupt func(context.Context) (context.Context, context.CancelFunc)
}

func onInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// NewShell works on sess, which may be nil until an "open" command.
func NewShell(sess *session.Session, out io.Writer, s_opts *seq.Options) *Shell {
	return &Shell{
		sess:    sess,
		out:     out,
		painter: paint.ANSI{Out: out},
		s_opts:  s_opts,

		interrupt: onInterrupt,
	}
}

// Greet prints the banner.
func (sh *Shell) Greet() {
	c := color.New(color.FgBlue)
	if sh.painter.Mode == paint.Never {
		c.DisableColor()
	}
	c.Fprintln(sh.out, "rscan :: alignment shader for signature sequence search.")
	fmt.Fprintln(sh.out, "[type man for the list of commands]")
}

// session is the current session, or an error if nothing is open.
func (sh *Shell) session() (*session.Session, error) {
	if sh.sess == nil {
		return nil, fmt.Errorf("%w, use open", session.ErrNoAlignment)
	}
	return sh.sess, nil
}

// split separates the command name from the rest of the line.
func split(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// Exec runs one line.
func (sh *Shell) Exec(ctx context.Context, line string) error {
	name, args := split(line)
	if name == "" || strings.HasPrefix(name, "#") {
		return nil
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q, try man", name)
	}
	if len(args) < cmd.nargs {
		return fmt.Errorf("usage: %s %s", name, cmd.args)
	}
	log.Debugf("command %s %v", name, args)
	return cmd.run(ctx, sh, args)
}

// Run reads commands until quit or the end of input. Cancelling ctx
// cancels the running command and every one after it.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		if sh.Prompt != "" {
			fmt.Fprint(sh.out, sh.Prompt)
		}
		if !scanner.Scan() {
			break
		}
		cmdCtx, stop := sh.interrupt(ctx)
		err := sh.Exec(cmdCtx, scanner.Text())
		stop()
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(sh.out, "Error:", err)
		}
	}
	return scanner.Err()
}

// man lists the commands.
func (sh *Shell) man() {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		c := commands[n]
		fmt.Fprintf(sh.out, "%s %s\n\t%s\n", n, c.args, c.help)
	}
}
