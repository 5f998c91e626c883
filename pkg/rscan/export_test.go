package rscan

import "context"

// Exported for testing

func (sh *Shell) SetPending(flags *CmdFlag) { sh.pending = flags }

var Apply = apply

// SetInterrupt replaces the per-command context, in place of Ctrl-C.
func (sh *Shell) SetInterrupt(f func(context.Context) (context.Context, context.CancelFunc)) {
	sh.interrupt = f
}
