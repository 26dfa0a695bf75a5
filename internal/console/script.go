package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/tabc/internal/exec"
	"github.com/oakwood-commons/tabc/internal/formatter"
)

// ErrScriptFailed is returned by RunScript when at least one command failed.
var ErrScriptFailed = errors.New("script had failing commands")

// ScriptOptions configures RunScript.
type ScriptOptions struct {
	// StopOnError ends the run at the first failing command.
	StopOnError bool
	Logger      logr.Logger
}

// RunScript executes r line by line without a terminal UI. Blank lines and
// lines starting with # are skipped. Results go to out, errors to errOut.
func RunScript(ctx context.Context, r io.Reader, out, errOut io.Writer, ex exec.Executor, opts ScriptOptions) error {
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	failed := 0
	line := 0
	for sc.Scan() {
		line++
		command := strings.TrimSpace(sc.Text())
		if command == "" || strings.HasPrefix(command, "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := ex.Execute(ctx, command)
		if err != nil {
			failed++
			log.V(1).Info("script command failed", "line", line, "error", err.Error())
			fmt.Fprintf(errOut, "line %d: %v\n", line, err)
			if opts.StopOnError {
				return fmt.Errorf("line %d: %w", line, ErrScriptFailed)
			}
			continue
		}
		if res.Value != nil {
			fmt.Fprintln(out, formatter.Stringify(res.Value))
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d failed: %w", failed, ErrScriptFailed)
	}
	return nil
}
