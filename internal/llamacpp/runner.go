// internal/llamacpp/runner.go
package llamacpp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
)

// maxCapturedOutput bounds how much of each output stream is kept in
// memory. llama.cpp timing logs sit far below this.
const maxCapturedOutput = 25 << 20 // 25 MiB per stream

// ProcessError reports a failed external tool invocation. It carries the
// command line and the tail of the captured output so a failure can be
// diagnosed without rerunning the tool.
type ProcessError struct {
	Tool     string
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s %s: exit code %d: %v", e.Tool, strings.Join(e.Args, " "), e.ExitCode, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// Runner executes an external tool and returns its combined stdout and
// stderr text. Implementations block until the process exits. Failures
// are reported as *ProcessError alongside whatever output was captured.
type Runner interface {
	CombinedText(ctx context.Context, bin string, args []string) (string, error)
}

// NewRunner returns the exec-backed Runner used outside of tests.
func NewRunner() Runner {
	return &execRunner{}
}

type execRunner struct{}

func (r *execRunner) CombinedText(ctx context.Context, bin string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return "", &ProcessError{Tool: toolName(bin), Args: args, ExitCode: 127, Err: err}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", &ProcessError{Tool: toolName(bin), Args: args, ExitCode: 127, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return "", &ProcessError{Tool: toolName(bin), Args: args, ExitCode: 127, Err: err}
	}

	var outBuf, errBuf bytes.Buffer
	outDone := make(chan error, 1)
	errDone := make(chan error, 1)

	go func() { outDone <- drain(&outBuf, stdoutPipe) }()
	go func() { errDone <- drain(&errBuf, stderrPipe) }()

	// Reads must complete before Wait closes the pipes.
	<-outDone
	<-errDone
	waitErr := cmd.Wait()

	// Streams are concatenated, not interleaved: parsers only care that
	// both end up in the scanned text.
	combined := outBuf.String() + errBuf.String()

	if waitErr != nil {
		return combined, &ProcessError{
			Tool:     toolName(bin),
			Args:     args,
			ExitCode: exitStatus(waitErr),
			Output:   outputTail(combined, 4096),
			Err:      waitErr,
		}
	}

	return combined, nil
}

// drain copies up to maxCapturedOutput into buf and discards the rest,
// so a chatty tool can never block on a full pipe.
func drain(buf *bytes.Buffer, r io.Reader) error {
	if _, err := io.Copy(buf, io.LimitReader(r, maxCapturedOutput)); err != nil {
		return err
	}
	_, err := io.Copy(io.Discard, r)
	return err
}

func exitStatus(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 1
}

func toolName(bin string) string {
	return filepath.Base(bin)
}

func outputTail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "…" + s[len(s)-n:]
}
