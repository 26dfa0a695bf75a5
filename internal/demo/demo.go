// Package demo is the object graph the console starts with when no catalog
// file is given.
package demo

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/tabc/internal/harvest"
)

// Behen is a small enum.
type Behen int

const (
	Razor Behen = iota
	Shank
	Ulnar
)

func (b Behen) String() string {
	switch b {
	case Razor:
		return "Razor"
	case Shank:
		return "Shank"
	case Ulnar:
		return "Ulnar"
	default:
		return fmt.Sprintf("Behen(%d)", int(b))
	}
}

// Describer is implemented by everything that can print itself.
type Describer interface {
	ToString() string
}

// Kickup is the main demo record.
type Kickup struct {
	Cymidine string
	Tags     []string
	Grade    Behen
	Weight   float64
}

// SetBehen sets the grade and returns the receiver for chaining.
func (k *Kickup) SetBehen(b Behen) *Kickup {
	k.Grade = b
	return k
}

// Equals reports whether other is a Kickup with the same name.
func (k *Kickup) Equals(other any) bool {
	o, ok := other.(*Kickup)
	return ok && o.Cymidine == k.Cymidine
}

func (k *Kickup) ToString() string {
	return fmt.Sprintf("%s(%s)", k.Cymidine, k.Grade)
}

// Describe joins the name and parts after prefix.
func (k *Kickup) Describe(prefix string, parts ...string) string {
	return prefix + strings.Join(append([]string{k.Cymidine}, parts...), " ")
}

// Inventory groups kickups under an owner.
type Inventory struct {
	Owner  string
	Items  []*Kickup
	Counts map[string]int
}

// Find returns the first item with the given name, or nil.
func (inv *Inventory) Find(name string) *Kickup {
	for _, k := range inv.Items {
		if k.Cymidine == name {
			return k
		}
	}
	return nil
}

// Total sums Counts.
func (inv *Inventory) Total() int {
	n := 0
	for _, c := range inv.Counts {
		n += c
	}
	return n
}

func (inv *Inventory) ToString() string {
	return fmt.Sprintf("%s: %d items", inv.Owner, len(inv.Items))
}

// Seed registers the demo graph with h.
func Seed(h *harvest.Harvester) error {
	h.Interface((*Describer)(nil))
	h.Interface((*any)(nil))

	foo := &Kickup{Cymidine: "foo", Tags: []string{"alpha", "beta"}, Weight: 1.5}
	bar := &Kickup{Cymidine: "bar", Grade: Shank, Weight: 2}
	inv := &Inventory{
		Owner:  "stores",
		Items:  []*Kickup{foo, bar},
		Counts: map[string]int{"foo": 3, "bar": 1},
	}

	instances := []struct {
		name  string
		value any
	}{
		{"foo", foo},
		{"bar", bar},
		{"inventory", inv},
		{"greeting", "hello"},
		{"answer", 42},
		{"enabled", true},
	}
	for _, in := range instances {
		if err := h.Instance(in.name, in.value); err != nil {
			return fmt.Errorf("seed %s: %w", in.name, err)
		}
	}
	if err := h.Enum("Behen", harvest.Members(Razor, Shank, Ulnar)...); err != nil {
		return fmt.Errorf("seed Behen: %w", err)
	}
	if err := h.Static("Text", map[string]any{
		"Upper":  strings.ToUpper,
		"Lower":  strings.ToLower,
		"Join":   strings.Join,
		"Repeat": strings.Repeat,
	}); err != nil {
		return fmt.Errorf("seed Text: %w", err)
	}
	return nil
}
