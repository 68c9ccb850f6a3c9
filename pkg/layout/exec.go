package layout

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	errs "github.com/matzehuels/dottex/pkg/errors"
)

// DefaultBinary is the Graphviz executable used when none is configured.
const DefaultBinary = "dot"

// waitDelay bounds how long Positions waits for output pipes after the
// process was killed on timeout.
const waitDelay = time.Second

// Exec lays out graphs with an installed Graphviz binary.
type Exec struct {
	binary  string
	engine  string
	timeout time.Duration
}

// NewExec returns a positioner running binary with -K<engine> -Tplain.
// An empty binary means [DefaultBinary]. A zero timeout means no limit
// beyond ctx.
func NewExec(binary, engine string, timeout time.Duration) (*Exec, error) {
	if err := errs.ValidateEngine(engine); err != nil {
		return nil, err
	}
	if binary == "" {
		binary = DefaultBinary
	}
	return &Exec{binary: binary, engine: engine, timeout: timeout}, nil
}

// Name returns "exec:<engine>".
func (e *Exec) Name() string { return "exec:" + e.engine }

// Positions pipes dot through the binary. A binary that cannot be found is
// reported as TOOL_MISSING; a non-zero exit as TOOL_MISCONFIGURED with the
// tool's stderr.
func (e *Exec) Positions(ctx context.Context, dot string) (Positions, error) {
	return observe(ctx, e.Name(), func() (Positions, error) {
		if e.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.timeout)
			defer cancel()
		}

		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, e.binary, "-K"+e.engine, "-Tplain")
		cmd.Stdin = strings.NewReader(dot)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		cmd.WaitDelay = waitDelay

		if err := cmd.Run(); err != nil {
			return nil, e.classify(ctx, err, stderr.String())
		}
		return parsePlain(&stdout)
	})
}

func (e *Exec) classify(ctx context.Context, err error, stderr string) error {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return errs.Wrap(errs.ErrCodeToolMissing, err, "graphviz binary %q not found", e.binary)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return errs.Wrap(errs.ErrCodeTimeout, ctx.Err(), "%s did not finish", e.binary)
	case ctx.Err() != nil:
		return ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = exitErr.Error()
		}
		return errs.Wrap(errs.ErrCodeToolMisconfigured, err, "%s -K%s: %s", e.binary, e.engine, msg)
	}
	return errs.Wrap(errs.ErrCodeToolMisconfigured, err, "run %s", e.binary)
}

var _ Positioner = (*Exec)(nil)
