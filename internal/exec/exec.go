// Package exec runs committed console commands against the live value
// environment. The expr backend supports assignment; the cel backend is
// read-only.
package exec

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-logr/logr"
)

var (
	// ErrReadOnly is returned by backends that cannot assign.
	ErrReadOnly = errors.New("backend is read-only")

	// ErrNotAssignable is returned when an assignment target cannot be set.
	ErrNotAssignable = errors.New("target is not assignable")
)

// Result is the outcome of one command. Assigned names the top-level variable
// an assignment created or replaced, so the caller can register it for
// completion.
type Result struct {
	Value    any
	Assigned string
}

// Executor runs one command.
type Executor interface {
	Execute(ctx context.Context, command string) (Result, error)
}

// Values supplies the evaluation environment.
type Values interface {
	Env() map[string]any
}

// Env is a Values that also accepts top-level assignments.
type Env interface {
	Values
	Assign(name string, v any) error
}

// Option configures a backend.
type Option func(*options)

type options struct {
	log logr.Logger
}

// WithLogger sets the backend logger.
func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Backend names accepted by New.
const (
	BackendExpr = "expr"
	BackendCEL  = "cel"
)

// New returns the executor for the named backend.
func New(backend string, env Env, opts ...Option) (Executor, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendExpr, "":
		return NewExpr(env, opts...), nil
	case BackendCEL:
		return NewCEL(env, opts...)
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", backend, BackendExpr, BackendCEL)
	}
}

var targetPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// SplitAssignment splits "target = value" and "target op= value" commands.
// Compound forms are rewritten to "target op (value)". ok is false when the
// command has no top-level assignment or the target is not a dotted name.
func SplitAssignment(command string) (target, value string, ok bool) {
	depth := 0
	for i := 0; i < len(command); i++ {
		ch := command[i]
		switch ch {
		case '"', '\'', '`':
			end := strings.IndexByte(command[i+1:], ch)
			if end < 0 {
				return "", "", false
			}
			i += end + 1
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			if i+1 < len(command) && command[i+1] == '=' {
				i++
				continue
			}
			lhs := command[:i]
			var op byte
			if i > 0 {
				switch command[i-1] {
				case '!', '<', '>', '=':
					continue
				case '+', '-', '*', '/', '%':
					op = command[i-1]
					lhs = command[:i-1]
				}
			}
			target = strings.TrimSpace(lhs)
			value = strings.TrimSpace(command[i+1:])
			if !targetPattern.MatchString(target) || value == "" {
				return "", "", false
			}
			if op != 0 {
				value = fmt.Sprintf("%s %c (%s)", target, op, value)
			}
			return target, value, true
		}
	}
	return "", "", false
}
