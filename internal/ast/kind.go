package ast

// Kind discriminates every concrete node type in the tree. Each value
// maps to exactly one Go struct in expr.go, stmt.go, or decl.go.
type Kind int

const (
	KindUnknown Kind = iota

	// Module
	KindModule

	// Expressions
	KindLiteral
	KindIdentifier
	KindUnary
	KindBinary
	KindGrouping
	KindAssign
	KindCall
	KindFieldGet
	KindFieldSet
	KindIndexGet
	KindIndexSet
	KindListLiteral
	KindDictLiteral
	KindLambda
	KindAwait
	KindStringInterp
	KindNew
	KindMove
	KindSome
	KindNone
	KindOk
	KindErrExpr
	KindChanRecv
	KindRangeExpr
	KindSelfExpr
	KindCast

	// Statements
	KindExprStmt
	KindVarDecl
	KindBlock
	KindIf
	KindWhile
	KindForIn
	KindReturn
	KindBreak
	KindContinue
	KindMatch
	KindGoStmt
	KindSelectStmt
	KindChanSend
	KindImport
	KindExport

	// Declarations
	KindFuncDecl
	KindClassDecl
	KindTraitDecl
	KindImplDecl
	KindFieldDecl
	KindParamDecl
	KindTypeParamDecl
)

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

var kindNames = map[Kind]string{
	KindUnknown:       "Unknown",
	KindModule:        "Module",
	KindLiteral:       "Literal",
	KindIdentifier:    "Identifier",
	KindUnary:         "Unary",
	KindBinary:        "Binary",
	KindGrouping:      "Grouping",
	KindAssign:        "Assign",
	KindCall:          "Call",
	KindFieldGet:      "FieldGet",
	KindFieldSet:      "FieldSet",
	KindIndexGet:      "IndexGet",
	KindIndexSet:      "IndexSet",
	KindListLiteral:   "ListLiteral",
	KindDictLiteral:   "DictLiteral",
	KindLambda:        "Lambda",
	KindAwait:         "Await",
	KindStringInterp:  "StringInterp",
	KindNew:           "New",
	KindMove:          "Move",
	KindSome:          "Some",
	KindNone:          "None",
	KindOk:            "Ok",
	KindErrExpr:       "Err",
	KindChanRecv:      "ChanRecv",
	KindRangeExpr:     "Range",
	KindSelfExpr:      "Self",
	KindCast:          "Cast",
	KindExprStmt:      "ExprStmt",
	KindVarDecl:       "VarDecl",
	KindBlock:         "Block",
	KindIf:            "If",
	KindWhile:         "While",
	KindForIn:         "ForIn",
	KindReturn:        "Return",
	KindBreak:         "Break",
	KindContinue:      "Continue",
	KindMatch:         "Match",
	KindGoStmt:        "Go",
	KindSelectStmt:    "Select",
	KindChanSend:      "ChanSend",
	KindImport:        "Import",
	KindExport:        "Export",
	KindFuncDecl:      "FuncDecl",
	KindClassDecl:     "ClassDecl",
	KindTraitDecl:     "TraitDecl",
	KindImplDecl:      "ImplDecl",
	KindFieldDecl:     "FieldDecl",
	KindParamDecl:     "ParamDecl",
	KindTypeParamDecl: "TypeParamDecl",
}
