package object

import (
	"github.com/google/uuid"

	"github.com/LayneInNL/dmf/internal/value"
)

// Module models an AnalysisModule (parsed from project source) or a
// TypeshedModule (ingested from a stub); both are just a name plus a
// flat namespace of top-level bindings.
type Module struct {
	id     uuid.UUID
	Origin Kind
	Name   string
	Dict   *value.Namespace
}

// NewModule constructs a module namespace of the given origin.
func NewModule(name string, origin Kind) *Module {
	return &Module{id: newID(), Origin: origin, Name: name, Dict: value.NewNamespace()}
}

func (m *Module) ID() uuid.UUID { return m.id }
func (m *Module) Kind() Kind    { return m.Origin }
