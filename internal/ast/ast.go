// Package ast defines the syntax tree consumed by the CFG lowering stage.
//
// Tokenization and parsing are collaborators at the edge of the analyzer:
// the CORE (internal/cfg and inward) only ever consumes a *Module built
// from these node types. internal/lexer and internal/parser are one
// concrete producer of that tree.
package ast

import (
	"github.com/LayneInNL/dmf/internal/token"
)

// Node is the base interface for every AST node.
type Node interface {
	TokenLiteral() string
	Pos() token.Position
	Accept(v Visitor)
}

// Statement is a Node that appears in a statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that appears in an expression position.
type Expression interface {
	Node
	expressionNode()
}

// Module is the root node produced for a single source file.
type Module struct {
	File string
	Body []Statement
}

func (m *Module) TokenLiteral() string    { return "module" }
func (m *Module) Pos() token.Position     { return token.Position{File: m.File, Line: 1} }
func (m *Module) Accept(v Visitor)        { v.VisitModule(m) }

// ---- Expressions ----

type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }
func (i *Identifier) Accept(v Visitor)     { v.VisitIdentifier(i) }
func (*Identifier) expressionNode()        {}

type IntLiteral struct {
	Token token.Token
	Value int64
}

func (n *IntLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *IntLiteral) Pos() token.Position  { return n.Token.Pos }
func (n *IntLiteral) Accept(v Visitor)     { v.VisitIntLiteral(n) }
func (*IntLiteral) expressionNode()        {}

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (n *FloatLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *FloatLiteral) Pos() token.Position  { return n.Token.Pos }
func (n *FloatLiteral) Accept(v Visitor)     { v.VisitFloatLiteral(n) }
func (*FloatLiteral) expressionNode()        {}

type StringLiteral struct {
	Token token.Token
	Value string
}

func (n *StringLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *StringLiteral) Pos() token.Position  { return n.Token.Pos }
func (n *StringLiteral) Accept(v Visitor)     { v.VisitStringLiteral(n) }
func (*StringLiteral) expressionNode()        {}

type BytesLiteral struct {
	Token token.Token
	Value []byte
}

func (n *BytesLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *BytesLiteral) Pos() token.Position  { return n.Token.Pos }
func (n *BytesLiteral) Accept(v Visitor)     { v.VisitBytesLiteral(n) }
func (*BytesLiteral) expressionNode()        {}

type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (n *BoolLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *BoolLiteral) Pos() token.Position  { return n.Token.Pos }
func (n *BoolLiteral) Accept(v Visitor)     { v.VisitBoolLiteral(n) }
func (*BoolLiteral) expressionNode()        {}

type NoneLiteral struct {
	Token token.Token
}

func (n *NoneLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *NoneLiteral) Pos() token.Position  { return n.Token.Pos }
func (n *NoneLiteral) Accept(v Visitor)     { v.VisitNoneLiteral(n) }

// EllipsisLiteral is the bare `...` expression. The host language never
// evaluates it (it carries no value of its own); it shows up as a stub
// function or class body's sole statement, standing in for "unspecified".
type EllipsisLiteral struct {
	Token token.Token
}

func (n *EllipsisLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *EllipsisLiteral) Pos() token.Position  { return n.Token.Pos }
func (n *EllipsisLiteral) Accept(v Visitor)     { v.VisitEllipsisLiteral(n) }
func (*EllipsisLiteral) expressionNode()        {}
func (*NoneLiteral) expressionNode()        {}

// BinaryExpression is any two-operand operator form, e.g. a + b, a == b, a in b.
type BinaryExpression struct {
	Token token.Token
	Op    string
	Left  Expression
	Right Expression
}

func (n *BinaryExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *BinaryExpression) Pos() token.Position  { return n.Token.Pos }
func (n *BinaryExpression) Accept(v Visitor)     { v.VisitBinaryExpression(n) }
func (*BinaryExpression) expressionNode()        {}

type UnaryExpression struct {
	Token   token.Token
	Op      string
	Operand Expression
}

func (n *UnaryExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *UnaryExpression) Pos() token.Position  { return n.Token.Pos }
func (n *UnaryExpression) Accept(v Visitor)     { v.VisitUnaryExpression(n) }
func (*UnaryExpression) expressionNode()        {}

// BoolOpExpression is short-circuiting 'and'/'or'. Lowered to nested ifs (§4.1).
type BoolOpExpression struct {
	Token  token.Token
	Op     string // "and" | "or"
	Values []Expression
}

func (n *BoolOpExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *BoolOpExpression) Pos() token.Position  { return n.Token.Pos }
func (n *BoolOpExpression) Accept(v Visitor)     { v.VisitBoolOpExpression(n) }
func (*BoolOpExpression) expressionNode()        {}

// ConditionalExpression is `a if cond else b`.
type ConditionalExpression struct {
	Token     token.Token
	Test      Expression
	Body      Expression
	Orelse    Expression
}

func (n *ConditionalExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *ConditionalExpression) Pos() token.Position  { return n.Token.Pos }
func (n *ConditionalExpression) Accept(v Visitor)     { v.VisitConditionalExpression(n) }
func (*ConditionalExpression) expressionNode()        {}

// CallExpression is f(args...).
type CallExpression struct {
	Token     token.Token
	Func      Expression
	Args      []Expression
	Keywords  map[string]Expression
}

func (n *CallExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *CallExpression) Pos() token.Position  { return n.Token.Pos }
func (n *CallExpression) Accept(v Visitor)     { v.VisitCallExpression(n) }
func (*CallExpression) expressionNode()        {}

// AttributeExpression is obj.name.
type AttributeExpression struct {
	Token token.Token
	Value Expression
	Attr  string
}

func (n *AttributeExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *AttributeExpression) Pos() token.Position  { return n.Token.Pos }
func (n *AttributeExpression) Accept(v Visitor)     { v.VisitAttributeExpression(n) }
func (*AttributeExpression) expressionNode()        {}

// SubscriptExpression is obj[index] — dispatches through __getitem__/__setitem__ (magic family).
type SubscriptExpression struct {
	Token token.Token
	Value Expression
	Index Expression
}

func (n *SubscriptExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *SubscriptExpression) Pos() token.Position  { return n.Token.Pos }
func (n *SubscriptExpression) Accept(v Visitor)     { v.VisitSubscriptExpression(n) }
func (*SubscriptExpression) expressionNode()        {}

type ListExpression struct {
	Token    token.Token
	Elements []Expression
}

func (n *ListExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *ListExpression) Pos() token.Position  { return n.Token.Pos }
func (n *ListExpression) Accept(v Visitor)     { v.VisitListExpression(n) }
func (*ListExpression) expressionNode()        {}

type TupleExpression struct {
	Token    token.Token
	Elements []Expression
}

func (n *TupleExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *TupleExpression) Pos() token.Position  { return n.Token.Pos }
func (n *TupleExpression) Accept(v Visitor)     { v.VisitTupleExpression(n) }
func (*TupleExpression) expressionNode()        {}

type SetExpression struct {
	Token    token.Token
	Elements []Expression
}

func (n *SetExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *SetExpression) Pos() token.Position  { return n.Token.Pos }
func (n *SetExpression) Accept(v Visitor)     { v.VisitSetExpression(n) }
func (*SetExpression) expressionNode()        {}

type DictEntry struct {
	Key   Expression
	Value Expression
}

type DictExpression struct {
	Token   token.Token
	Entries []DictEntry
}

func (n *DictExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *DictExpression) Pos() token.Position  { return n.Token.Pos }
func (n *DictExpression) Accept(v Visitor)     { v.VisitDictExpression(n) }
func (*DictExpression) expressionNode()        {}

// ComprehensionClause is one `for target in iter [if cond]*` clause.
type ComprehensionClause struct {
	Target Expression
	Iter   Expression
	Ifs    []Expression
}

// ComprehensionKind distinguishes list/set/dict/generator comprehensions.
type ComprehensionKind int

const (
	ListComp ComprehensionKind = iota
	SetComp
	DictComp
	GeneratorComp
)

// ComprehensionExpression covers all four forms; Value is unused for DictComp
// (Key/Value both set instead).
type ComprehensionExpression struct {
	Token   token.Token
	Kind    ComprehensionKind
	Elt     Expression
	Key     Expression // DictComp only
	Clauses []ComprehensionClause
}

func (n *ComprehensionExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *ComprehensionExpression) Pos() token.Position  { return n.Token.Pos }
func (n *ComprehensionExpression) Accept(v Visitor)     { v.VisitComprehensionExpression(n) }
func (*ComprehensionExpression) expressionNode()        {}

// LambdaExpression is an anonymous single-expression function.
type LambdaExpression struct {
	Token  token.Token
	Params []*Parameter
	Body   Expression
}

func (n *LambdaExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *LambdaExpression) Pos() token.Position  { return n.Token.Pos }
func (n *LambdaExpression) Accept(v Visitor)     { v.VisitLambdaExpression(n) }
func (*LambdaExpression) expressionNode()        {}

// StarExpression is `*expr` in a call argument or assignment target list.
type StarExpression struct {
	Token token.Token
	Value Expression
}

func (n *StarExpression) TokenLiteral() string { return n.Token.Lexeme }
func (n *StarExpression) Pos() token.Position  { return n.Token.Pos }
func (n *StarExpression) Accept(v Visitor)     { v.VisitStarExpression(n) }
func (*StarExpression) expressionNode()        {}

// ---- Statements ----

type Parameter struct {
	Name       string
	Default    Expression // nil if required
	IsVararg   bool       // *args
	IsKwarg    bool       // **kwargs
}

type FunctionDef struct {
	Token      token.Token
	Name       string
	Params     []*Parameter
	Body       []Statement
	Decorators []Expression
	IsAsync    bool
}

func (n *FunctionDef) TokenLiteral() string { return n.Token.Lexeme }
func (n *FunctionDef) Pos() token.Position  { return n.Token.Pos }
func (n *FunctionDef) Accept(v Visitor)     { v.VisitFunctionDef(n) }
func (*FunctionDef) statementNode()         {}

type ClassDef struct {
	Token      token.Token
	Name       string
	Bases      []Expression
	Keywords   map[string]Expression
	Body       []Statement
	Decorators []Expression
}

func (n *ClassDef) TokenLiteral() string { return n.Token.Lexeme }
func (n *ClassDef) Pos() token.Position  { return n.Token.Pos }
func (n *ClassDef) Accept(v Visitor)     { v.VisitClassDef(n) }
func (*ClassDef) statementNode()         {}

type AssignStatement struct {
	Token   token.Token
	Targets []Expression // supports chained assignment a = b = expr
	Value   Expression
}

// AnnAssignStatement is a type-annotated assignment or bare declaration
// (`name: Type` or `name: Type = value`), the form typeshed stubs use for
// every module- and class-level binding. Annotation is kept only for
// completeness; nothing in this implementation evaluates it as a type.
type AnnAssignStatement struct {
	Token      token.Token
	Target     Expression
	Annotation Expression
	Value      Expression // nil for a bare `name: Type` with no initializer
}

func (n *AnnAssignStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *AnnAssignStatement) Pos() token.Position  { return n.Token.Pos }
func (n *AnnAssignStatement) Accept(v Visitor)     { v.VisitAnnAssignStatement(n) }
func (*AnnAssignStatement) statementNode()         {}

func (n *AssignStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *AssignStatement) Pos() token.Position  { return n.Token.Pos }
func (n *AssignStatement) Accept(v Visitor)     { v.VisitAssignStatement(n) }
func (*AssignStatement) statementNode()         {}

// AugAssignStatement is `target op= value` (e.g. x += 1).
type AugAssignStatement struct {
	Token  token.Token
	Target Expression
	Op     string
	Value  Expression
}

func (n *AugAssignStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *AugAssignStatement) Pos() token.Position  { return n.Token.Pos }
func (n *AugAssignStatement) Accept(v Visitor)     { v.VisitAugAssignStatement(n) }
func (*AugAssignStatement) statementNode()         {}

type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (n *ExpressionStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *ExpressionStatement) Pos() token.Position  { return n.Token.Pos }
func (n *ExpressionStatement) Accept(v Visitor)     { v.VisitExpressionStatement(n) }
func (*ExpressionStatement) statementNode()         {}

type ReturnStatement struct {
	Token token.Token
	Value Expression // nil for bare `return`
}

func (n *ReturnStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *ReturnStatement) Pos() token.Position  { return n.Token.Pos }
func (n *ReturnStatement) Accept(v Visitor)     { v.VisitReturnStatement(n) }
func (*ReturnStatement) statementNode()         {}

type PassStatement struct{ Token token.Token }

func (n *PassStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *PassStatement) Pos() token.Position  { return n.Token.Pos }
func (n *PassStatement) Accept(v Visitor)     { v.VisitPassStatement(n) }
func (*PassStatement) statementNode()         {}

type BreakStatement struct{ Token token.Token }

func (n *BreakStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *BreakStatement) Pos() token.Position  { return n.Token.Pos }
func (n *BreakStatement) Accept(v Visitor)     { v.VisitBreakStatement(n) }
func (*BreakStatement) statementNode()         {}

type ContinueStatement struct{ Token token.Token }

func (n *ContinueStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *ContinueStatement) Pos() token.Position  { return n.Token.Pos }
func (n *ContinueStatement) Accept(v Visitor)     { v.VisitContinueStatement(n) }
func (*ContinueStatement) statementNode()         {}

type IfStatement struct {
	Token  token.Token
	Test   Expression
	Body   []Statement
	Orelse []Statement // may itself be a single IfStatement (elif) wrapped in ExpressionStatement-less list
}

func (n *IfStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *IfStatement) Pos() token.Position  { return n.Token.Pos }
func (n *IfStatement) Accept(v Visitor)     { v.VisitIfStatement(n) }
func (*IfStatement) statementNode()         {}

type WhileStatement struct {
	Token  token.Token
	Test   Expression
	Body   []Statement
	Orelse []Statement
}

func (n *WhileStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *WhileStatement) Pos() token.Position  { return n.Token.Pos }
func (n *WhileStatement) Accept(v Visitor)     { v.VisitWhileStatement(n) }
func (*WhileStatement) statementNode()         {}

type ForStatement struct {
	Token  token.Token
	Target Expression
	Iter   Expression
	Body   []Statement
	Orelse []Statement
}

func (n *ForStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *ForStatement) Pos() token.Position  { return n.Token.Pos }
func (n *ForStatement) Accept(v Visitor)     { v.VisitForStatement(n) }
func (*ForStatement) statementNode()         {}

// WithItem is one `expr [as target]` clause of a (possibly multi-item) with.
type WithItem struct {
	ContextExpr Expression
	OptionalVar Expression // nil if no `as`
}

type WithStatement struct {
	Token token.Token
	Items []WithItem
	Body  []Statement
}

func (n *WithStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *WithStatement) Pos() token.Position  { return n.Token.Pos }
func (n *WithStatement) Accept(v Visitor)     { v.VisitWithStatement(n) }
func (*WithStatement) statementNode()         {}

type ExceptHandler struct {
	Token token.Token
	Type  Expression // nil for bare except
	Name  string     // "" if no `as name`
	Body  []Statement
}

type TryStatement struct {
	Token      token.Token
	Body       []Statement
	Handlers   []ExceptHandler
	Orelse     []Statement
	Finally    []Statement
}

func (n *TryStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *TryStatement) Pos() token.Position  { return n.Token.Pos }
func (n *TryStatement) Accept(v Visitor)     { v.VisitTryStatement(n) }
func (*TryStatement) statementNode()         {}

type RaiseStatement struct {
	Token token.Token
	Exc   Expression // nil for bare re-raise
	Cause Expression // `raise X from Y`
}

func (n *RaiseStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *RaiseStatement) Pos() token.Position  { return n.Token.Pos }
func (n *RaiseStatement) Accept(v Visitor)     { v.VisitRaiseStatement(n) }
func (*RaiseStatement) statementNode()         {}

type AssertStatement struct {
	Token token.Token
	Test  Expression
	Msg   Expression
}

func (n *AssertStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *AssertStatement) Pos() token.Position  { return n.Token.Pos }
func (n *AssertStatement) Accept(v Visitor)     { v.VisitAssertStatement(n) }
func (*AssertStatement) statementNode()         {}

type ImportAlias struct {
	Path  string // dotted module path
	Alias string // "" if no `as`
}

type ImportStatement struct {
	Token   token.Token
	Names   []ImportAlias
}

func (n *ImportStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *ImportStatement) Pos() token.Position  { return n.Token.Pos }
func (n *ImportStatement) Accept(v Visitor)     { v.VisitImportStatement(n) }
func (*ImportStatement) statementNode()         {}

// ImportFromStatement is `from module import a, b as c`.
type ImportFromStatement struct {
	Token   token.Token
	Module  string
	Level   int // number of leading dots, for relative imports
	Names   []ImportAlias
}

func (n *ImportFromStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *ImportFromStatement) Pos() token.Position  { return n.Token.Pos }
func (n *ImportFromStatement) Accept(v Visitor)     { v.VisitImportFromStatement(n) }
func (*ImportFromStatement) statementNode()         {}

type GlobalStatement struct {
	Token token.Token
	Names []string
}

func (n *GlobalStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *GlobalStatement) Pos() token.Position  { return n.Token.Pos }
func (n *GlobalStatement) Accept(v Visitor)     { v.VisitGlobalStatement(n) }
func (*GlobalStatement) statementNode()         {}

type NonlocalStatement struct {
	Token token.Token
	Names []string
}

func (n *NonlocalStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *NonlocalStatement) Pos() token.Position  { return n.Token.Pos }
func (n *NonlocalStatement) Accept(v Visitor)     { v.VisitNonlocalStatement(n) }
func (*NonlocalStatement) statementNode()         {}

type DeleteStatement struct {
	Token   token.Token
	Targets []Expression
}

func (n *DeleteStatement) TokenLiteral() string { return n.Token.Lexeme }
func (n *DeleteStatement) Pos() token.Position  { return n.Token.Pos }
func (n *DeleteStatement) Accept(v Visitor)     { v.VisitDeleteStatement(n) }
func (*DeleteStatement) statementNode()         {}

// UnsupportedStatement/UnsupportedExpression record a construct the parser
// recognized syntactically but that CFG lowering treats as not-implemented
// (spec §4.1 Failure / §7 Not-implemented-construct), carrying enough of
// the source to report a useful diagnostic without aborting the whole parse.
type UnsupportedNode struct {
	Token  token.Token
	Detail string
}

func (n *UnsupportedNode) TokenLiteral() string { return n.Token.Lexeme }
func (n *UnsupportedNode) Pos() token.Position  { return n.Token.Pos }
func (n *UnsupportedNode) Accept(v Visitor)     { v.VisitUnsupportedNode(n) }
func (*UnsupportedNode) statementNode()         {}
func (*UnsupportedNode) expressionNode()        {}
