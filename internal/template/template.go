// Package template defines the closed catalog of document templates the
// compiler can target. Templates are data, fixed at build time; there is no
// mutation API.
package template

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("template not found")

// SectionSpec describes one section of a template. A section is eligible for
// inclusion when its MinDial is at or below the compile dial. Required is
// descriptive metadata carried for authors; inclusion is gated by MinDial
// alone.
type SectionSpec struct {
	Heading     string `json:"heading"`
	Instruction string `json:"instruction"`
	MinDial     int    `json:"minDial"`
	Required    bool   `json:"required"`
}

type Template struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	SystemInstruction string        `json:"systemInstruction"`
	Sections          []SectionSpec `json:"sections"`
}

// SectionsForDial returns the sections eligible at the given dial, in
// declared order.
func (t *Template) SectionsForDial(dial int) []SectionSpec {
	var out []SectionSpec
	for _, s := range t.Sections {
		if s.MinDial <= dial {
			out = append(out, s)
		}
	}
	return out
}

// Registry is an immutable id-indexed template catalog. Declaration order is
// preserved because classification ties resolve in favor of the earlier
// template.
type Registry struct {
	byID  map[string]*Template
	order []string
}

func NewRegistry(templates ...*Template) (*Registry, error) {
	r := &Registry{byID: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if _, dup := r.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id: %s", t.ID)
		}
		r.byID[t.ID] = t
		r.order = append(r.order, t.ID)
	}
	return r, nil
}

func (r *Registry) Get(id string) (*Template, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t, nil
}

func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns the templates in declaration order.
func (r *Registry) All() []*Template {
	out := make([]*Template, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Default returns the registry of the five built-in templates. The first
// declared template (report) doubles as the classification fallback.
func Default() *Registry {
	r, err := NewRegistry(builtins()...)
	if err != nil {
		panic(err)
	}
	return r
}
