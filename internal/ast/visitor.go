package ast

// Visitor lets a consumer (chiefly internal/cfg's lowering pass) dispatch
// on concrete node kind without a long type switch at every call site.
type Visitor interface {
	VisitModule(*Module)

	VisitIdentifier(*Identifier)
	VisitIntLiteral(*IntLiteral)
	VisitFloatLiteral(*FloatLiteral)
	VisitStringLiteral(*StringLiteral)
	VisitBytesLiteral(*BytesLiteral)
	VisitBoolLiteral(*BoolLiteral)
	VisitNoneLiteral(*NoneLiteral)
	VisitEllipsisLiteral(*EllipsisLiteral)
	VisitBinaryExpression(*BinaryExpression)
	VisitUnaryExpression(*UnaryExpression)
	VisitBoolOpExpression(*BoolOpExpression)
	VisitConditionalExpression(*ConditionalExpression)
	VisitCallExpression(*CallExpression)
	VisitAttributeExpression(*AttributeExpression)
	VisitSubscriptExpression(*SubscriptExpression)
	VisitListExpression(*ListExpression)
	VisitTupleExpression(*TupleExpression)
	VisitSetExpression(*SetExpression)
	VisitDictExpression(*DictExpression)
	VisitComprehensionExpression(*ComprehensionExpression)
	VisitLambdaExpression(*LambdaExpression)
	VisitStarExpression(*StarExpression)

	VisitFunctionDef(*FunctionDef)
	VisitClassDef(*ClassDef)
	VisitAnnAssignStatement(*AnnAssignStatement)
	VisitAssignStatement(*AssignStatement)
	VisitAugAssignStatement(*AugAssignStatement)
	VisitExpressionStatement(*ExpressionStatement)
	VisitReturnStatement(*ReturnStatement)
	VisitPassStatement(*PassStatement)
	VisitBreakStatement(*BreakStatement)
	VisitContinueStatement(*ContinueStatement)
	VisitIfStatement(*IfStatement)
	VisitWhileStatement(*WhileStatement)
	VisitForStatement(*ForStatement)
	VisitWithStatement(*WithStatement)
	VisitTryStatement(*TryStatement)
	VisitRaiseStatement(*RaiseStatement)
	VisitAssertStatement(*AssertStatement)
	VisitImportStatement(*ImportStatement)
	VisitImportFromStatement(*ImportFromStatement)
	VisitGlobalStatement(*GlobalStatement)
	VisitNonlocalStatement(*NonlocalStatement)
	VisitDeleteStatement(*DeleteStatement)
	VisitUnsupportedNode(*UnsupportedNode)
}

// BaseVisitor implements Visitor with no-op methods so a consumer can
// embed it and override only the node kinds it cares about.
type BaseVisitor struct{}

func (BaseVisitor) VisitModule(*Module)                                     {}
func (BaseVisitor) VisitIdentifier(*Identifier)                             {}
func (BaseVisitor) VisitIntLiteral(*IntLiteral)                             {}
func (BaseVisitor) VisitFloatLiteral(*FloatLiteral)                         {}
func (BaseVisitor) VisitStringLiteral(*StringLiteral)                       {}
func (BaseVisitor) VisitBytesLiteral(*BytesLiteral)                         {}
func (BaseVisitor) VisitBoolLiteral(*BoolLiteral)                           {}
func (BaseVisitor) VisitNoneLiteral(*NoneLiteral)                           {}
func (BaseVisitor) VisitEllipsisLiteral(*EllipsisLiteral)                   {}
func (BaseVisitor) VisitBinaryExpression(*BinaryExpression)                 {}
func (BaseVisitor) VisitUnaryExpression(*UnaryExpression)                   {}
func (BaseVisitor) VisitBoolOpExpression(*BoolOpExpression)                 {}
func (BaseVisitor) VisitConditionalExpression(*ConditionalExpression)       {}
func (BaseVisitor) VisitCallExpression(*CallExpression)                     {}
func (BaseVisitor) VisitAttributeExpression(*AttributeExpression)           {}
func (BaseVisitor) VisitSubscriptExpression(*SubscriptExpression)           {}
func (BaseVisitor) VisitListExpression(*ListExpression)                     {}
func (BaseVisitor) VisitTupleExpression(*TupleExpression)                   {}
func (BaseVisitor) VisitSetExpression(*SetExpression)                       {}
func (BaseVisitor) VisitDictExpression(*DictExpression)                     {}
func (BaseVisitor) VisitComprehensionExpression(*ComprehensionExpression)   {}
func (BaseVisitor) VisitLambdaExpression(*LambdaExpression)                 {}
func (BaseVisitor) VisitStarExpression(*StarExpression)                    {}
func (BaseVisitor) VisitFunctionDef(*FunctionDef)                           {}
func (BaseVisitor) VisitClassDef(*ClassDef)                                 {}
func (BaseVisitor) VisitAnnAssignStatement(*AnnAssignStatement)             {}
func (BaseVisitor) VisitAssignStatement(*AssignStatement)                   {}
func (BaseVisitor) VisitAugAssignStatement(*AugAssignStatement)             {}
func (BaseVisitor) VisitExpressionStatement(*ExpressionStatement)           {}
func (BaseVisitor) VisitReturnStatement(*ReturnStatement)                   {}
func (BaseVisitor) VisitPassStatement(*PassStatement)                       {}
func (BaseVisitor) VisitBreakStatement(*BreakStatement)                     {}
func (BaseVisitor) VisitContinueStatement(*ContinueStatement)               {}
func (BaseVisitor) VisitIfStatement(*IfStatement)                           {}
func (BaseVisitor) VisitWhileStatement(*WhileStatement)                     {}
func (BaseVisitor) VisitForStatement(*ForStatement)                         {}
func (BaseVisitor) VisitWithStatement(*WithStatement)                       {}
func (BaseVisitor) VisitTryStatement(*TryStatement)                         {}
func (BaseVisitor) VisitRaiseStatement(*RaiseStatement)                     {}
func (BaseVisitor) VisitAssertStatement(*AssertStatement)                   {}
func (BaseVisitor) VisitImportStatement(*ImportStatement)                   {}
func (BaseVisitor) VisitImportFromStatement(*ImportFromStatement)           {}
func (BaseVisitor) VisitGlobalStatement(*GlobalStatement)                   {}
func (BaseVisitor) VisitNonlocalStatement(*NonlocalStatement)               {}
func (BaseVisitor) VisitDeleteStatement(*DeleteStatement)                   {}
func (BaseVisitor) VisitUnsupportedNode(*UnsupportedNode)                   {}
