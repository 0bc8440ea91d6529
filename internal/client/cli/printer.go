package cli

import (
	"fmt"
	"io"
)

// printer is the Notifier for non-interactive commands.
type printer struct {
	out    io.Writer
	errOut io.Writer
}

func (p printer) NotifySuccess(msg string) {
	fmt.Fprintln(p.out, msg)
}

func (p printer) NotifyError(msg string) {
	fmt.Fprintln(p.errOut, "Error: "+msg)
}
