// Package completion implements cycling, context-aware completion over a
// symbol catalog. The engine reads the catalog, never mutates it, and rewrites
// only the buffer it is handed.
package completion

import (
	"github.com/go-logr/logr"
)

// Mode selects how a chosen candidate is written back.
type Mode int

const (
	// ReplaceTail replaces everything from the token start to the end of the
	// buffer, discarding text after the token.
	ReplaceTail Mode = iota
	// ReplaceToken replaces only the token and keeps trailing text.
	ReplaceToken
)

// ParseMode maps a configuration value to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "replace-tail", "tail":
		return ReplaceTail, true
	case "replace-token", "token", "insert":
		return ReplaceToken, true
	}
	return ReplaceTail, false
}

func (m Mode) String() string {
	if m == ReplaceToken {
		return "replace-token"
	}
	return "replace-tail"
}

// Analysis is everything the engine derived for one buffer and caret.
type Analysis struct {
	Context Context
	// Target is the accessor owner, the assignment left-hand side or the
	// called method, depending on Context.Kind.
	Target     *Resolved
	Param      *ArgSpan
	Bias       string
	Candidates []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithMode sets the write-back mode.
func WithMode(m Mode) Option {
	return func(e *Engine) { e.mode = m }
}

// WithLogger sets the logger used for V(1) decision traces.
func WithLogger(l logr.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine ties scanning, classification, resolution, candidate assembly and
// cycling together. It is not safe for concurrent use.
type Engine struct {
	cat  Catalog
	asm  *Assembler
	mode Mode
	log  logr.Logger
}

// NewEngine creates an engine reading cat.
func NewEngine(cat Catalog, opts ...Option) *Engine {
	e := &Engine{
		cat:  cat,
		asm:  NewAssembler(cat),
		mode: ReplaceTail,
		log:  logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mode returns the configured write-back mode.
func (e *Engine) Mode() Mode { return e.mode }

// Analyze classifies the token at caret and assembles its candidates. ok is
// false when there is nothing to offer.
func (e *Engine) Analyze(value string, caret int) (Analysis, bool) {
	caret = clamp(caret, 0, len(value))
	start, length := FindToken(value, caret, true)
	kind, op := Classify(value, start)
	a := Analysis{Context: Context{
		Kind:        kind,
		TokenStart:  start,
		TokenLength: length,
		Token:       value[start : start+length],
		Operator:    op,
	}}

	switch kind {
	case KindAccessor:
		res, ok := ResolveChain(e.cat, value, op-1)
		if !ok {
			e.log.V(1).Info("accessor target unresolved", "buffer", value)
			return a, false
		}
		a.Target = &res
	case KindAssignment:
		res, ok := ResolveChain(e.cat, value, op-1)
		if !ok {
			e.log.V(1).Info("assignment target unresolved", "buffer", value)
			return a, false
		}
		a.Target = &res
		a.Bias = res.Type
	case KindMethod:
		e.methodBias(value, start, &a)
	}

	a.Candidates = e.asm.Candidates(kind, a.Target, a.Bias)
	e.log.V(1).Info("completion context",
		"kind", kind.String(),
		"token", a.Context.Token,
		"bias", a.Bias,
		"candidates", len(a.Candidates))
	return a, len(a.Candidates) > 0
}

// methodBias fills the callee, argument span and parameter type when the
// enclosing call resolves; otherwise a stays unbiased.
func (e *Engine) methodBias(value string, tokenStart int, a *Analysis) {
	open := FindOpenParen(value, tokenStart)
	if open < 0 {
		return
	}
	res, ok := ResolveChain(e.cat, value, open-1)
	if !ok || res.Member == nil || !res.Member.IsMethod() {
		return
	}
	a.Target = &res
	span, ok := LocateParam(value, open, tokenStart)
	if !ok {
		e.log.V(1).Info("malformed argument list", "buffer", value)
		return
	}
	a.Param = &span
	if bias, ok := ParamBias(res.Member.Overloads, span); ok {
		a.Bias = bias
	}
}

// Complete substitutes the next (forward) or previous candidate into buf. It
// reports whether buf changed; every failure leaves buf untouched.
func (e *Engine) Complete(buf Buffer, forward bool) bool {
	value := buf.Value()
	a, ok := e.Analyze(value, buf.Caret())
	if !ok {
		return false
	}
	anchor, anchorSet := buf.Anchor()
	sel, ok := Cycle(a.Candidates, a.Context.Token, anchor, anchorSet, forward)
	if !ok {
		return false
	}
	buf.SetAnchor(sel.Anchor)
	entry := a.Candidates[sel.Index]
	if e.mode == ReplaceToken {
		buf.Replace(a.Context.TokenStart, a.Context.TokenLength, entry)
	} else {
		buf.Replace(a.Context.TokenStart, len(value)-a.Context.TokenStart, entry)
	}
	return true
}
