package typeshed

import (
	"strings"

	"github.com/LayneInNL/dmf/internal/ast"
	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/typeshedcache"
	"github.com/LayneInNL/dmf/internal/value"
)

// walkModule statically walks a parsed stub file's top-level statements
// into a fresh Namespace, mirroring ModuleVisitor's single top-to-bottom
// pass: no control flow is evaluated, only declarations are recorded.
// The returned Member tree is what gets persisted to the on-disk cache.
func (t *Typeshed) walkModule(body []ast.Statement, qualname string) (*value.Namespace, []typeshedcache.Member) {
	ns := value.NewNamespace()
	members := t.walkBody(body, ns, qualname)
	return ns, members
}

func (t *Typeshed) walkBody(body []ast.Statement, ns *value.Namespace, qualname string) []typeshedcache.Member {
	var members []typeshedcache.Member
	for _, st := range body {
		switch n := st.(type) {
		case *ast.FunctionDef:
			members = append(members, t.walkFunctionDef(n, ns, qualname))
		case *ast.ClassDef:
			members = append(members, t.walkClassDef(n, ns, qualname))
		case *ast.AnnAssignStatement:
			if id, ok := n.Target.(*ast.Identifier); ok {
				bindAny(ns, id.Name)
				members = append(members, typeshedcache.Member{Name: id.Name, Kind: "assign"})
			}
		case *ast.AssignStatement:
			for _, target := range n.Targets {
				if id, ok := target.(*ast.Identifier); ok {
					bindAny(ns, id.Name)
					members = append(members, typeshedcache.Member{Name: id.Name, Kind: "assign"})
				}
			}
		case *ast.IfStatement:
			members = append(members, t.walkIf(n, ns, qualname)...)
		case *ast.ImportStatement:
			for _, alias := range n.Names {
				name := alias.Alias
				if name == "" {
					name = topLevelName(alias.Path)
				}
				t.bindImport(ns, name, alias.Path)
				members = append(members, typeshedcache.Member{Name: name, Kind: "module", ReExport: alias.Path})
			}
		case *ast.ImportFromStatement:
			for _, alias := range n.Names {
				name := alias.Alias
				if name == "" {
					name = alias.Path
				}
				t.bindImportFrom(ns, name, n.Module, alias.Path)
				members = append(members, typeshedcache.Member{Name: name, Kind: "assign", ReExport: n.Module + "." + alias.Path})
			}
		default:
			// Docstrings, bare `...`, and anything else a stub body
			// carries with no binding of its own: skip.
		}
	}
	return members
}

// walkIf evaluates a `sys.version_info`/`sys.platform` guard statically
// against the active config.Context; an unrecognized guard takes both
// branches, the sound over-approximation (see evalGuard).
func (t *Typeshed) walkIf(n *ast.IfStatement, ns *value.Namespace, qualname string) []typeshedcache.Member {
	result, ok := evalGuard(n.Test, t.Config)
	if ok {
		if result {
			return t.walkBody(n.Body, ns, qualname)
		}
		return t.walkBody(n.Orelse, ns, qualname)
	}
	var members []typeshedcache.Member
	members = append(members, t.walkBody(n.Body, ns, qualname)...)
	members = append(members, t.walkBody(n.Orelse, ns, qualname)...)
	return members
}

// walkFunctionDef models a stub function as an ArtificialFunction whose
// native always returns Any — a stub body is a signature, never code to
// execute (TypeshedFunction in the model this is grounded on carries only
// overload signatures, no call semantics). @property turns it into a
// Property's fget instead of a plain function binding; @x.setter/@x.deleter
// extend an already-bound Property rather than create a new one;
// @classmethod/@staticmethod wrap the function the same way a class body's
// own decorator handling does.
func (t *Typeshed) walkFunctionDef(n *ast.FunctionDef, ns *value.Namespace, qualname string) typeshedcache.Member {
	fn := t.newStubFunction(n.Name)
	fnVal := value.New()
	fnVal.InjectFunc(fn.FuncID)

	kind := "function"
	switch decoratorKind(n.Decorators) {
	case decoratorProperty:
		prop := object.NewProperty()
		prop.FGet.Join(fnVal)
		t.bindDescriptor(ns, n.Name, prop)
		kind = "property"
	case decoratorSetter:
		if existing, ok := ns.Get(n.Name); ok {
			if prop, ok := t.propertyIn(existing); ok {
				prop.FSet.Join(fnVal)
				kind = "property"
				break
			}
		}
		bindValue(ns, n.Name, fnVal)
	case decoratorDeleter:
		if existing, ok := ns.Get(n.Name); ok {
			if prop, ok := t.propertyIn(existing); ok {
				prop.FDel.Join(fnVal)
				kind = "property"
				break
			}
		}
		bindValue(ns, n.Name, fnVal)
	case decoratorClassmethod:
		cm := object.NewClassmethod(fnVal)
		site := t.allocID()
		t.Registry.Bind(site, cm)
		v := value.New()
		v.InjectHeap(site)
		bindValue(ns, n.Name, v)
	case decoratorStaticmethod:
		sm := object.NewStaticmethod(fnVal)
		site := t.allocID()
		t.Registry.Bind(site, sm)
		v := value.New()
		v.InjectHeap(site)
		bindValue(ns, n.Name, v)
	default:
		// Overloads: each decorated def re-binds the same name, and
		// bindValue joins rather than overwrites, so the namespace
		// entry denotes "any one of these overloads" once every
		// overload def for the name has been walked.
		bindValue(ns, n.Name, fnVal)
	}

	return typeshedcache.Member{Name: n.Name, Kind: kind}
}

func (t *Typeshed) newStubFunction(name string) *object.Function {
	funcID := t.allocID()
	fn := object.NewArtificialFunction(name, funcID, func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return value.Any(), nil
	})
	t.Registry.DefineFunction(fn)
	return fn
}

func (t *Typeshed) propertyIn(v *value.Value) (*object.Property, bool) {
	if v.IsAny() {
		return nil, false
	}
	for _, hid := range v.HeapIDs() {
		if o, ok := t.Registry.Object(hid); ok {
			if p, ok := o.(*object.Property); ok {
				return p, true
			}
		}
	}
	return nil, false
}

func (t *Typeshed) bindDescriptor(ns *value.Namespace, name string, prop *object.Property) {
	site := t.allocID()
	t.Registry.Bind(site, prop)
	v := value.New()
	v.InjectHeap(site)
	bindValue(ns, name, v)
}

// walkClassDef models a stub class as an always-BasesAny Class (the
// original's TypeshedClass hard-codes tp_bases = [[Bases_Any]]; stub
// class headers are never resolved to real base classes here), with its
// body walked into the class's own Dict the same way walkModule walks a
// file's top level.
func (t *Typeshed) walkClassDef(n *ast.ClassDef, ns *value.Namespace, qualname string) typeshedcache.Member {
	classID := t.allocID()
	cls := object.NewBasesAnyClass(n.Name, object.TypeshedClassKind, classID)
	t.Registry.DefineClass(cls)

	nested := t.walkBody(n.Body, cls.Dict, qualname+"."+n.Name)

	v := value.New()
	v.InjectClass(cls.ClassID, cls.Dict)
	bindValue(ns, n.Name, v)

	return typeshedcache.Member{Name: n.Name, Kind: "class", Members: nested}
}

func (t *Typeshed) bindImport(ns *value.Namespace, name, modulePath string) {
	v, ok := t.resolveLocked(modulePath)
	if !ok {
		v = value.Any()
	}
	bindValue(ns, name, v)
}

func (t *Typeshed) bindImportFrom(ns *value.Namespace, name, modulePath, attr string) {
	modVal, ok := t.resolveLocked(modulePath)
	if !ok {
		bindValue(ns, name, value.Any())
		return
	}
	mod, ok := t.moduleOf(modVal)
	if !ok {
		bindValue(ns, name, value.Any())
		return
	}
	if v, ok := mod.Dict.Get(attr); ok {
		bindValue(ns, name, v.Clone())
		return
	}
	bindValue(ns, name, value.Any())
}

func bindAny(ns *value.Namespace, name string) {
	bindValue(ns, name, value.Any())
}

func bindValue(ns *value.Namespace, name string, v *value.Value) {
	if prev, ok := ns.Get(name); ok {
		merged := prev.Clone()
		merged.Join(v)
		ns.Set(name, merged)
		return
	}
	ns.Set(name, v.Clone())
}

// namespaceFromSchema rebuilds a stub file's Namespace straight from a
// cached Schema, skipping lex/parse/walk entirely. Member kinds mirror
// exactly what walkBody produced; ids are allocated fresh each run, which
// is fine since nothing persists an id across process lifetimes.
func (t *Typeshed) namespaceFromSchema(members []typeshedcache.Member, qualname string) *value.Namespace {
	ns := value.NewNamespace()
	for _, m := range members {
		switch m.Kind {
		case "function":
			fn := t.newStubFunction(m.Name)
			v := value.New()
			v.InjectFunc(fn.FuncID)
			bindValue(ns, m.Name, v)
		case "property":
			fn := t.newStubFunction(m.Name)
			fnVal := value.New()
			fnVal.InjectFunc(fn.FuncID)
			prop := object.NewProperty()
			prop.FGet.Join(fnVal)
			t.bindDescriptor(ns, m.Name, prop)
		case "class":
			classID := t.allocID()
			cls := object.NewBasesAnyClass(m.Name, object.TypeshedClassKind, classID)
			t.Registry.DefineClass(cls)
			nestedNS := t.namespaceFromSchema(m.Members, qualname+"."+m.Name)
			cls.Dict = nestedNS
			v := value.New()
			v.InjectClass(cls.ClassID, cls.Dict)
			bindValue(ns, m.Name, v)
		case "module":
			t.bindImport(ns, m.Name, m.ReExport)
		case "assign":
			if m.ReExport == "" {
				bindAny(ns, m.Name)
				continue
			}
			modulePath, attr := splitLastDot(m.ReExport)
			t.bindImportFrom(ns, m.Name, modulePath, attr)
		default:
			bindAny(ns, m.Name)
		}
	}
	return ns
}

func splitLastDot(s string) (string, string) {
	i := strings.LastIndexByte(s, '.')
	if i < 0 {
		return "", s
	}
	return s[:i], s[i+1:]
}

func topLevelName(modulePath string) string {
	for i, r := range modulePath {
		if r == '.' {
			return modulePath[:i]
		}
	}
	return modulePath
}

type decoratorKindT int

const (
	decoratorNone decoratorKindT = iota
	decoratorProperty
	decoratorSetter
	decoratorDeleter
	decoratorClassmethod
	decoratorStaticmethod
)

// decoratorKind classifies a FunctionDef's decorator list well enough to
// pick its binding shape; anything unrecognized (including @overload,
// @abstractmethod, @final) falls through to decoratorNone — a plain
// function binding, which is what matters for this model either way.
func decoratorKind(decorators []ast.Expression) decoratorKindT {
	for _, d := range decorators {
		switch e := d.(type) {
		case *ast.Identifier:
			switch e.Name {
			case "property":
				return decoratorProperty
			case "classmethod":
				return decoratorClassmethod
			case "staticmethod":
				return decoratorStaticmethod
			}
		case *ast.AttributeExpression:
			switch e.Attr {
			case "setter":
				return decoratorSetter
			case "deleter":
				return decoratorDeleter
			}
		}
	}
	return decoratorNone
}
