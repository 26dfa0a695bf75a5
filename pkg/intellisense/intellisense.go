// Package intellisense exposes the tabc completion engine to host
// applications that embed their own console.
//
// # Basic Usage
//
// Build a catalog, from a definition file or from live Go values, and ask the
// engine to cycle the token at the caret:
//
//	cat := intellisense.NewCatalog()
//	h := intellisense.NewHarvester(cat)
//	if err := h.Instance("player", &Player{}); err != nil {
//		log.Fatal(err)
//	}
//
//	eng := intellisense.NewEngine(cat)
//	buf := intellisense.NewTextBuffer("player.Na", 9)
//	if eng.Complete(buf, true) {
//		fmt.Println(buf.Value()) // player.Name
//	}
//
// The buffer owns the cycle anchor: hosts backed by their own text widget
// implement Buffer and must clear the anchor on every edit the engine did not
// make.
//
// # Concurrency
//
// Engine and Catalog are not safe for concurrent use. Hosts that register
// values from other goroutines should go through Locked.
package intellisense

import (
	"sync"

	"github.com/oakwood-commons/tabc/internal/catalog"
	"github.com/oakwood-commons/tabc/internal/completion"
	"github.com/oakwood-commons/tabc/internal/harvest"
	"github.com/oakwood-commons/tabc/pkg/loader"
)

type (
	// Catalog is the symbol store the engine reads.
	Catalog = catalog.Catalog
	// MemberDescriptor describes one field, property, method or enum member.
	MemberDescriptor = catalog.MemberDescriptor
	// MemberKind classifies a member.
	MemberKind = catalog.MemberKind
	// ParameterSignature is one overload of a method.
	ParameterSignature = catalog.ParameterSignature
	// Parameter is a named, typed method parameter.
	Parameter = catalog.Parameter
	// TypeInfo describes a declared type.
	TypeInfo = catalog.TypeInfo

	// Engine performs context-aware cycling completion.
	Engine = completion.Engine
	// EngineOption configures an Engine.
	EngineOption = completion.Option
	// Buffer is the editable text the engine completes in place.
	Buffer = completion.Buffer
	// TextBuffer is an in-memory Buffer.
	TextBuffer = completion.TextBuffer
	// Analysis reports the context and candidates at a caret.
	Analysis = completion.Analysis
	// Mode selects how a candidate is written back.
	Mode = completion.Mode

	// Harvester fills a catalog from Go values by reflection.
	Harvester = harvest.Harvester
	// HarvestOption configures a Harvester.
	HarvestOption = harvest.Option
)

const (
	// ReplaceTail replaces from the token start to the end of the buffer.
	ReplaceTail = completion.ReplaceTail
	// ReplaceToken replaces only the token.
	ReplaceToken = completion.ReplaceToken
)

var (
	// ErrDuplicateSymbol is returned when a name is registered twice.
	ErrDuplicateSymbol = catalog.ErrDuplicateSymbol
	// ErrUnknownType is returned when a type name has no catalog entry.
	ErrUnknownType = catalog.ErrUnknownType

	// WithMode sets the engine write-back mode.
	WithMode = completion.WithMode
	// WithLogger sets the engine logger.
	WithLogger = completion.WithLogger
)

// NewCatalog returns an empty catalog with the default literals.
func NewCatalog() *Catalog { return catalog.New() }

// LoadCatalog reads a YAML, JSON or TOML catalog definition.
func LoadCatalog(path string) (*Catalog, error) { return loader.LoadCatalog(path) }

// NewHarvester returns a harvester registering values into cat.
func NewHarvester(cat *Catalog, opts ...HarvestOption) *Harvester { return harvest.New(cat, opts...) }

// NewEngine returns an engine reading cat.
func NewEngine(cat *Catalog, opts ...EngineOption) *Engine { return completion.NewEngine(cat, opts...) }

// NewTextBuffer returns a buffer holding text with the caret at the given
// byte offset.
func NewTextBuffer(text string, caret int) *TextBuffer { return completion.NewTextBuffer(text, caret) }

// ParseMode maps "replace-tail" or "replace-token" to a Mode.
func ParseMode(s string) (Mode, bool) { return completion.ParseMode(s) }

// Locked serializes completion and catalog mutation behind one mutex.
type Locked struct {
	mu  sync.Mutex
	cat *Catalog
	eng *Engine
}

// NewLocked wraps cat and an engine built with opts.
func NewLocked(cat *Catalog, opts ...EngineOption) *Locked {
	return &Locked{cat: cat, eng: completion.NewEngine(cat, opts...)}
}

// Complete runs Engine.Complete under the lock.
func (l *Locked) Complete(buf Buffer, forward bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.eng.Complete(buf, forward)
}

// Analyze runs Engine.Analyze under the lock.
func (l *Locked) Analyze(value string, caret int) (Analysis, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.eng.Analyze(value, caret)
}

// Mutate calls fn with exclusive access to the catalog.
func (l *Locked) Mutate(fn func(*Catalog) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.cat)
}
