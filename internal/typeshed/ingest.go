// Package typeshed ingests .pyi stub files into the same object model
// internal/engine's fixed point runs over: a stub's top-level
// declarations are walked statically (no control-flow, no calls are
// ever actually executed) into Module/Class/Function objects, mirroring
// how a real type checker reads a stub as a declaration, not a program.
package typeshed

import (
	"os"
	"sync"

	"github.com/LayneInNL/dmf/internal/config"
	"github.com/LayneInNL/dmf/internal/diag"
	"github.com/LayneInNL/dmf/internal/lexer"
	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/parser"
	"github.com/LayneInNL/dmf/internal/pipeline"
	"github.com/LayneInNL/dmf/internal/state"
	"github.com/LayneInNL/dmf/internal/token"
	"github.com/LayneInNL/dmf/internal/typeshedcache"
	"github.com/LayneInNL/dmf/internal/value"
)

// Typeshed implements engine.ModuleResolver against a stub root,
// ingesting and caching one module's namespace the first time it's
// imported. The same *state.Registry the main Engine uses is passed in
// at construction so every object this package mints (module, class,
// function, property) is resolvable the same way any analysis object
// is: through Registry, by id.
type Typeshed struct {
	Registry *state.Registry
	Config   *config.Context
	Cache    *typeshedcache.Cache // nil disables on-disk caching

	Diags *diag.Bag

	mu      sync.Mutex
	modules map[string]*value.Value // modulePath -> already-ingested value
	pending map[string]bool         // modulePath currently being ingested, breaks import cycles
	nextID  value.HeapID
}

// New constructs a Typeshed bound to the given shared registry. cfgCtx
// supplies StubRoot/LanguageVersion/Platform; cache/diags may be nil.
func New(registry *state.Registry, cfgCtx *config.Context, cache *typeshedcache.Cache, diags *diag.Bag) *Typeshed {
	return &Typeshed{
		Registry: registry,
		Config:   cfgCtx,
		Cache:    cache,
		Diags:    diags,
		modules:  map[string]*value.Value{},
		pending:  map[string]bool{},
		// Ids minted here live in a reserved negative range, disjoint
		// from the positive CFG-label space the main program's own
		// classes/functions/heap sites use and from internal/engine's
		// own reserved negative ranges (containers, properties).
		nextID: -9_000_000_000,
	}
}

func (t *Typeshed) allocID() value.HeapID {
	t.nextID--
	return t.nextID
}

// ResolveModule implements engine.ModuleResolver.
func (t *Typeshed) ResolveModule(path string) (*value.Value, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resolveLocked(path)
}

// ResolveFrom implements engine.ModuleResolver: resolves the module,
// then reads one name out of its namespace. It returns ok=false when the
// module itself doesn't resolve (the engine then binds Any), and Any
// when the resolved value is not a module or the name isn't present. Level is
// accepted for interface compatibility but only absolute imports are
// resolved — a relative `from . import x` against the project's own
// package is project-local module resolution, which is out of scope
// (see cfg.ImportInstr's documented single-entry-file simplification).
func (t *Typeshed) ResolveFrom(path string, level int, name string) (*value.Value, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	modVal, ok := t.resolveLocked(path)
	if !ok {
		return nil, false
	}
	mod, ok := t.moduleOf(modVal)
	if !ok {
		return value.Any(), true
	}
	if v, ok := mod.Dict.Get(name); ok {
		return v.Clone(), true
	}
	return value.Any(), true
}

func (t *Typeshed) moduleOf(v *value.Value) (*object.Module, bool) {
	if v.IsAny() {
		return nil, false
	}
	for _, hid := range v.HeapIDs() {
		if o, ok := t.Registry.Object(hid); ok {
			if m, ok := o.(*object.Module); ok {
				return m, true
			}
		}
	}
	return nil, false
}

func (t *Typeshed) resolveLocked(path string) (*value.Value, bool) {
	if v, ok := t.modules[path]; ok {
		return v.Clone(), true
	}
	if t.pending[path] {
		// A stub importing its own module (directly or through a cycle
		// of stub imports, e.g. builtins <-> typing) — break the
		// recursion with Any rather than overflow the stack.
		return value.Any(), true
	}

	stubPath, ok := findStub(t.Config.StubRoot, path, t.Config.LanguageVersion)
	if !ok {
		if t.Diags != nil {
			t.Diags.Add(diag.StubMissingErr(token.Position{File: path, Line: 1}, path, "no stub file found under stub root"))
		}
		return nil, false
	}

	t.pending[path] = true
	ns, err := t.ingestFile(stubPath, path)
	delete(t.pending, path)
	if err != nil {
		if t.Diags != nil {
			t.Diags.Add(diag.InvalidStubErr(token.Position{File: stubPath, Line: 1}, path, err.Error()))
		}
		return nil, false
	}

	mod := object.NewModule(path, object.TypeshedModuleKind)
	mod.Dict = ns
	site := t.allocID()
	t.Registry.Bind(site, mod)

	v := value.New()
	v.InjectHeap(site)
	t.modules[path] = v
	return v.Clone(), true
}

// ingestFile parses stubPath and walks it into a fresh Namespace. A
// cache hit rebuilds the Namespace directly from the stored Schema
// (no lex/parse); a miss parses, walks, and stores the resulting
// Schema for next time.
func (t *Typeshed) ingestFile(stubPath, modulePath string) (*value.Namespace, error) {
	st, err := os.Stat(stubPath)
	if err != nil {
		return nil, err
	}

	if t.Cache != nil {
		if schema, ok := t.Cache.Lookup(stubPath, st.ModTime().Unix(), st.Size()); ok {
			return t.namespaceFromSchema(schema.Members, modulePath), nil
		}
	}

	src, err := os.ReadFile(stubPath)
	if err != nil {
		return nil, err
	}

	lx := lexer.New(stubPath, string(src))
	var toks []token.Token
	for {
		tk := lx.NextToken()
		toks = append(toks, tk)
		if tk.Kind == token.EOF {
			break
		}
	}

	pctx := pipeline.NewPipelineContext(string(src))
	pctx.FilePath = stubPath
	pctx.Config = t.Config
	pctx.Tokens = pipeline.NewTokenStream(toks)
	p := parser.New(pctx.Tokens, pctx)
	mod := p.ParseModule(stubPath)
	if t.Diags != nil {
		t.Diags.AddAll(pctx.Diagnostics.All())
	}

	ns, schema := t.walkModule(mod.Body, modulePath)

	if t.Cache != nil {
		_ = t.Cache.Store(stubPath, st.ModTime().Unix(), st.Size(), typeshedcache.Schema{Members: schema})
	}
	return ns, nil
}
