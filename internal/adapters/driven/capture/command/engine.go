// Package command runs an external photogrammetry engine as a child process.
//
// The engine is invoked as the configured command line followed by flags
// describing the request:
//
//	--input DIR --output PATH --detail LEVEL --ordering ORDER
//	--sensitivity LEVEL --mask MODE --format FORMAT
//
// Lines of the form "progress=<fraction>" on stdout are reported as
// progress; any other output is logged. A non-zero exit is a failure.
package command

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
	"github.com/custodia-labs/scanprep/internal/logger"
)

// Ensure Engine implements the interface.
var _ driven.CaptureEngine = (*Engine)(nil)

const (
	progressPrefix = "progress="

	// maxStderr bounds the stderr tail kept for error messages.
	maxStderr = 4096
)

// ErrNoCommand is returned when no engine command line is configured.
var ErrNoCommand = errors.New("capture command not configured")

// Engine runs a command line per capture.
type Engine struct {
	args []string
}

// NewEngine parses commandLine with shell quoting rules.
func NewEngine(commandLine string) (*Engine, error) {
	args, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("%w: capture command: %w", domain.ErrConfiguration, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, ErrNoCommand)
	}
	return &Engine{args: args}, nil
}

// Args returns the full argument vector for req.
func (e *Engine) Args(req domain.CaptureRequest) []string {
	args := append([]string(nil), e.args...)
	return append(args,
		"--input", req.InputDir,
		"--output", req.ExportPath(),
		"--detail", string(req.Detail),
		"--ordering", string(req.Ordering),
		"--sensitivity", string(req.Sensitivity),
		"--mask", string(req.Mask),
		"--format", string(req.Format),
	)
}

// Run starts the engine and blocks until it exits.
func (e *Engine) Run(ctx context.Context, req domain.CaptureRequest, progress func(float64)) error {
	args := e.Args(req)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr := &tailBuffer{max: maxStderr}
	cmd.Stderr = stderr

	logger.Debug("starting engine: %s", strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", args[0], err)
	}

	scanProgress(stdout, progress)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", args[0], err, msg)
		}
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}

// scanProgress reads r to EOF, forwarding progress lines.
func scanProgress(r io.Reader, progress func(float64)) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		value, ok := strings.CutPrefix(line, progressPrefix)
		if !ok {
			if line != "" {
				logger.Debug("engine: %s", line)
			}
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			logger.Debug("engine: bad progress %q", value)
			continue
		}
		if progress != nil {
			progress(min(max(f, 0), 1))
		}
	}
	// Drain so the child never blocks on a full pipe.
	_, _ = io.Copy(io.Discard, r)
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf.Write(p)
	if over := t.buf.Len() - t.max; over > 0 {
		t.buf.Next(over)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	return t.buf.String()
}
