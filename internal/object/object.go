// Package object implements the tagged-union abstract object model: the
// class/instance/function/module/descriptor variants that populate a
// Value's heap and class components, plus the uuid identity every
// object-level entity carries.
package object

import "github.com/google/uuid"

// Kind distinguishes the concrete shape behind the Object interface.
type Kind int

const (
	AnalysisClassKind Kind = iota
	ArtificialClassKind
	TypeshedClassKind
	AnalysisInstanceKind
	ArtificialInstanceKind
	TypeshedInstanceKind
	AnalysisFunctionKind
	ArtificialFunctionKind
	AnalysisMethodKind
	ArtificialMethodKind
	AnalysisModuleKind
	TypeshedModuleKind
	PropertyKind
	ClassmethodKind
	StaticmethodKind
	SuperKind
	DescriptorGetterKind
	DescriptorSetterKind
)

func (k Kind) String() string {
	switch k {
	case AnalysisClassKind:
		return "AnalysisClass"
	case ArtificialClassKind:
		return "ArtificialClass"
	case TypeshedClassKind:
		return "TypeshedClass"
	case AnalysisInstanceKind:
		return "AnalysisInstance"
	case ArtificialInstanceKind:
		return "ArtificialInstance"
	case TypeshedInstanceKind:
		return "TypeshedInstance"
	case AnalysisFunctionKind:
		return "AnalysisFunction"
	case ArtificialFunctionKind:
		return "ArtificialFunction"
	case AnalysisMethodKind:
		return "AnalysisMethod"
	case ArtificialMethodKind:
		return "ArtificialMethod"
	case AnalysisModuleKind:
		return "AnalysisModule"
	case TypeshedModuleKind:
		return "TypeshedModule"
	case PropertyKind:
		return "Property"
	case ClassmethodKind:
		return "Classmethod"
	case StaticmethodKind:
		return "Staticmethod"
	case SuperKind:
		return "Super"
	case DescriptorGetterKind:
		return "AnalysisDescriptorGetter"
	case DescriptorSetterKind:
		return "AnalysisDescriptorSetter"
	default:
		return "Unknown"
	}
}

// Object is the common interface every object-model entity satisfies:
// a stable identity and a tag identifying which concrete type to switch
// on.
type Object interface {
	ID() uuid.UUID
	Kind() Kind
}

func newID() uuid.UUID { return uuid.New() }
