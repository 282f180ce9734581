// Package diag implements the analyzer's error taxonomy (spec §7).
//
// No component of the engine panics to signal an analysis condition;
// transfer functions either return a (possibly Any-heavy) value or
// report a *DiagnosticError upward to whatever drives them (the CLI
// driver, the LSP-style consumer, a test). The driver decides whether a
// given ErrorCode is fatal (abort) or recoverable (skip and continue).
package diag

import (
	"fmt"

	"github.com/LayneInNL/dmf/internal/token"
)

// ErrorCode names one of the error kinds in spec §7. It is a kind, not a
// Go type: every condition below is represented by the same
// DiagnosticError struct, discriminated by Code.
type ErrorCode int

const (
	// NotImplementedConstruct: an AST node the CFG lowering does not
	// handle. The driver may skip the file and continue.
	NotImplementedConstruct ErrorCode = iota
	// MROUnresolvable: C3 merge failed, or bases included Bases_Any.
	// Recovered automatically by downgrading the MRO to MRO_Any; this
	// code is surfaced as a warning, not a hard failure.
	MROUnresolvable
	// StubMissing: the requested module has no stub, or its VERSIONS
	// window excludes the active language version.
	StubMissing
	// AttributeAbsent: lookup exhausted the MRO and the instance dict.
	AttributeAbsent
	// InvalidStub: a stub file used constructs outside the recognized
	// declaration grammar. The offending stub is discarded.
	InvalidStub
	// IOFailure: a source or stub file could not be read.
	IOFailure
)

func (c ErrorCode) String() string {
	switch c {
	case NotImplementedConstruct:
		return "not-implemented-construct"
	case MROUnresolvable:
		return "mro-unresolvable"
	case StubMissing:
		return "stub-missing"
	case AttributeAbsent:
		return "attribute-absent"
	case InvalidStub:
		return "invalid-stub"
	case IOFailure:
		return "io-failure"
	default:
		return "unknown"
	}
}

// Severity classifies whether a DiagnosticError should abort the
// containing pipeline stage or merely be recorded and skipped.
type Severity int

const (
	SeverityFatal Severity = iota
	SeverityWarning
)

// DiagnosticError is the sole error value type the analyzer raises.
type DiagnosticError struct {
	Code     ErrorCode
	Severity Severity
	Message  string
	Pos      token.Position
	Node     any // the offending AST node, if any; kept untyped to avoid an ast import cycle
}

func (e *DiagnosticError) Error() string {
	if e.Pos.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsFatal reports whether the driver should abort the current file/stub
// rather than continue with a degraded (Any-heavy) result.
func (e *DiagnosticError) IsFatal() bool { return e.Severity == SeverityFatal }

func NotImplemented(pos token.Position, node any, detail string) *DiagnosticError {
	return &DiagnosticError{
		Code:     NotImplementedConstruct,
		Severity: SeverityFatal,
		Message:  "unsupported construct: " + detail,
		Pos:      pos,
		Node:     node,
	}
}

func MROFailure(pos token.Position, className, reason string) *DiagnosticError {
	return &DiagnosticError{
		Code:     MROUnresolvable,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("class %q: MRO downgraded to MRO_Any: %s", className, reason),
		Pos:      pos,
	}
}

func StubMissingErr(pos token.Position, module string, reason string) *DiagnosticError {
	return &DiagnosticError{
		Code:     StubMissing,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("no usable stub for module %q: %s", module, reason),
		Pos:      pos,
	}
}

func AttributeAbsentErr(pos token.Position, typeName, attr string) *DiagnosticError {
	return &DiagnosticError{
		Code:     AttributeAbsent,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("%s has no attribute %q on this path", typeName, attr),
		Pos:      pos,
	}
}

func InvalidStubErr(pos token.Position, module, reason string) *DiagnosticError {
	return &DiagnosticError{
		Code:     InvalidStub,
		Severity: SeverityFatal,
		Message:  fmt.Sprintf("stub %q discarded: %s", module, reason),
		Pos:      pos,
	}
}

func IOFailureErr(path string, err error) *DiagnosticError {
	return &DiagnosticError{
		Code:     IOFailure,
		Severity: SeverityFatal,
		Message:  fmt.Sprintf("%s: %v", path, err),
	}
}

// Bag accumulates diagnostics across multiple pipeline stages so a
// consumer (e.g. an IDE) can see parse errors and semantic errors
// together, matching the teacher pipeline's "continue on errors" policy.
type Bag struct {
	errs []*DiagnosticError
}

func (b *Bag) Add(e *DiagnosticError) {
	if e != nil {
		b.errs = append(b.errs, e)
	}
}

func (b *Bag) AddAll(es []*DiagnosticError) {
	b.errs = append(b.errs, es...)
}

func (b *Bag) All() []*DiagnosticError { return b.errs }

func (b *Bag) HasFatal() bool {
	for _, e := range b.errs {
		if e.IsFatal() {
			return true
		}
	}
	return false
}
