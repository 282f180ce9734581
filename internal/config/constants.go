// Package config holds the process-wide settings every other package
// reads: which source extensions count as analyzable, which analysis
// mode is active, and the stub root / target version / platform that
// parameterize typeshed ingestion. These are process-lifetime singletons
// (spec §5 "Process-wide state"), initialized once by the driver before
// any transfer runs, and never mutated afterward except by appending to
// the memoization tables that live in internal/typeshed.
package config

// Version is the current dmf version, set at build time via -ldflags.
var Version = "0.1.0"

const SourceFileExt = ".py"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".py", ".pyi"}

// TrimSourceExt removes any recognized source extension from a filename.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode is a process-wide test-output flag, mirroring the teacher's
// IsTestMode/IsLSPMode package vars. No package in this repository reads
// it, so setting it changes no output.
var IsTestMode = false

// IsIDEMode is a process-wide flag for human-facing output. No package in
// this repository reads it, so setting it changes no output.
var IsIDEMode = false

// Mode is the analysis mode string switch from spec §6 ("crude" | "refined").
type Mode string

const (
	ModeCrude   Mode = "crude"
	ModeRefined Mode = "refined"
)

// LanguageVersion is a (major, minor) pair used to gate typeshed's
// VERSIONS manifest.
type LanguageVersion struct {
	Major int
	Minor int
}

func (v LanguageVersion) Less(o LanguageVersion) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

func (v LanguageVersion) LessEq(o LanguageVersion) bool {
	return v == o || v.Less(o)
}

// Context is the active, process-wide analysis configuration: stub root,
// target version/platform, mode, and context-sensitivity depth. It is
// one of the four process-lifetime tables named in spec §5.
type Context struct {
	StubRoot        string
	LanguageVersion LanguageVersion
	Platform        string // e.g. "linux", "darwin", "win32"
	Mode            Mode
	ContextDepth    int // bounded tuple length for call-site contexts (default 1-2)
}

// DefaultContext mirrors a typical CPython 3.11-on-Linux analysis target.
func DefaultContext() *Context {
	return &Context{
		StubRoot:        "",
		LanguageVersion: LanguageVersion{Major: 3, Minor: 11},
		Platform:        "linux",
		Mode:            ModeCrude,
		ContextDepth:    1,
	}
}

// Builtin trait/method/type names used by internal/builtins and internal/attrs.
const (
	IterMethodName  = "__iter__"
	NextMethodName  = "__next__"
	InitMethodName  = "__init__"
	NewMethodName   = "__new__"
	GetMethodName   = "__get__"
	SetMethodName   = "__set__"
	DeleteMethodName = "__delete__"
	EnterMethodName = "__enter__"
	ExitMethodName  = "__exit__"
)

const (
	ObjectClassName = "object"
	TypeClassName   = "type"
)
