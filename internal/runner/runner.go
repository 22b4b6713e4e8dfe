// Package runner executes external command line tools.
package runner

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// Runner runs one external command and waits for it to finish. A non-nil
// error means the invocation failed, including any non-zero exit code.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Exec runs commands through the operating system, echoing each command line
// before it starts. The tool may print to stdout and stderr; both are routed
// to Out.
type Exec struct {
	Out io.Writer
}

// NewExec creates an Exec runner writing to out, or to stderr when out is
// nil.
func NewExec(out io.Writer) *Exec {
	if out == nil {
		out = os.Stderr
	}

	return &Exec{Out: out}
}

var echoColor = color.New(color.FgCyan, color.Bold)

// Run echoes and executes the command. The command cannot be re-run manually
// when it references staging files that no longer exist, so the echo is
// informational only.
func (e *Exec) Run(ctx context.Context, name string, args ...string) error {
	echoColor.Fprintf(e.Out, "Running: ")
	if _, err := io.WriteString(e.Out, name+" "+strings.Join(args, " ")+"\n"); err != nil {
		return errors.Wrap(err, "unable to echo command")
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = e.Out
	cmd.Stderr = e.Out

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "command failed: %s %s", name, strings.Join(args, " "))
	}

	return nil
}
