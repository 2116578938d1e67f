// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package token

import "strconv"

// Token represents a token kind.
type Token uint8

// List of tokens.
const (
	Illegal Token = iota
	EOF
	EOL
	Comment
	DirectiveComment
	literalBegin
	Ident
	PrivateName
	Number
	BigInt
	String
	NoSubstTemplate
	TemplateHead
	TemplateMiddle
	TemplateTail
	Regexp
	HereString
	EditString
	literalEnd
	operatorBegin
	LParen      // (
	RParen      // )
	LBrack      // [
	RBrack      // ]
	LBrace      // {
	RBrace      // }
	Semicolon   // ;
	Comma       // ,
	Colon       // :
	Question    // ?
	QuestionDot // ?.
	Period      // .
	Ellipsis    // ...
	Arrow       // =>
	At          // @
	assignBegin
	Assign           // =
	AddAssign        // +=
	SubAssign        // -=
	MulAssign        // *=
	DivAssign        // /=
	ModAssign        // %=
	ExpAssign        // **=
	ShlAssign        // <<=
	ShrAssign        // >>=
	UShrAssign       // >>>=
	AndAssign        // &=
	OrAssign         // |=
	XorAssign        // ^=
	LogicalAndAssign // &&=
	LogicalOrAssign  // ||=
	NullishAssign    // ??=
	assignEnd
	Nullish        // ??
	LogicalOr      // ||
	LogicalAnd     // &&
	Or             // |
	Xor            // ^
	And            // &
	Equal          // ==
	NotEqual       // !=
	StrictEqual    // ===
	StrictNotEqual // !==
	Less           // <
	Greater        // >
	LessEq         // <=
	GreaterEq      // >=
	Shl            // <<
	Shr            // >>
	UShr           // >>>
	Add            // +
	Sub            // -
	Mul            // *
	Div            // /
	Mod            // %
	Exp            // **
	Not            // !
	BitNot         // ~
	Inc            // ++
	Dec            // --
	operatorEnd
	keywordBegin
	Break
	Case
	Catch
	Class
	Const
	Continue
	Debugger
	Default
	Delete
	Do
	Else
	Enum
	Export
	Extends
	False
	Finally
	For
	Function
	If
	Import
	In
	InstanceOf
	New
	Null
	Return
	Super
	Switch
	This
	Throw
	True
	Try
	TypeOf
	Var
	Void
	While
	With
	strictBegin
	Implements
	Interface
	Let
	Package
	Private
	Protected
	Public
	Static
	Yield
	strictEnd
	keywordEnd
	contextualBegin
	Async
	Await
	Of
	Get
	Set
	From
	As
	Target
	Meta
	Accessor
	Each
	contextualEnd
)

var tokens = [...]string{
	Illegal:          "ILLEGAL",
	EOF:              "EOF",
	EOL:              "EOL",
	Comment:          "COMMENT",
	DirectiveComment: "DIRECTIVE_COMMENT",
	Ident:            "IDENT",
	PrivateName:      "PRIVATE_NAME",
	Number:           "NUMBER",
	BigInt:           "BIGINT",
	String:           "STRING",
	NoSubstTemplate:  "TEMPLATE",
	TemplateHead:     "TEMPLATE_HEAD",
	TemplateMiddle:   "TEMPLATE_MIDDLE",
	TemplateTail:     "TEMPLATE_TAIL",
	Regexp:           "REGEXP",
	HereString:       "HERE_STRING",
	EditString:       "EDIT_STRING",
	LParen:           "(",
	RParen:           ")",
	LBrack:           "[",
	RBrack:           "]",
	LBrace:           "{",
	RBrace:           "}",
	Semicolon:        ";",
	Comma:            ",",
	Colon:            ":",
	Question:         "?",
	QuestionDot:      "?.",
	Period:           ".",
	Ellipsis:         "...",
	Arrow:            "=>",
	At:               "@",
	Assign:           "=",
	AddAssign:        "+=",
	SubAssign:        "-=",
	MulAssign:        "*=",
	DivAssign:        "/=",
	ModAssign:        "%=",
	ExpAssign:        "**=",
	ShlAssign:        "<<=",
	ShrAssign:        ">>=",
	UShrAssign:       ">>>=",
	AndAssign:        "&=",
	OrAssign:         "|=",
	XorAssign:        "^=",
	LogicalAndAssign: "&&=",
	LogicalOrAssign:  "||=",
	NullishAssign:    "??=",
	Nullish:          "??",
	LogicalOr:        "||",
	LogicalAnd:       "&&",
	Or:               "|",
	Xor:              "^",
	And:              "&",
	Equal:            "==",
	NotEqual:         "!=",
	StrictEqual:      "===",
	StrictNotEqual:   "!==",
	Less:             "<",
	Greater:          ">",
	LessEq:           "<=",
	GreaterEq:        ">=",
	Shl:              "<<",
	Shr:              ">>",
	UShr:             ">>>",
	Add:              "+",
	Sub:              "-",
	Mul:              "*",
	Div:              "/",
	Mod:              "%",
	Exp:              "**",
	Not:              "!",
	BitNot:           "~",
	Inc:              "++",
	Dec:              "--",
	Break:            "break",
	Case:             "case",
	Catch:            "catch",
	Class:            "class",
	Const:            "const",
	Continue:         "continue",
	Debugger:         "debugger",
	Default:          "default",
	Delete:           "delete",
	Do:               "do",
	Else:             "else",
	Enum:             "enum",
	Export:           "export",
	Extends:          "extends",
	False:            "false",
	Finally:          "finally",
	For:              "for",
	Function:         "function",
	If:               "if",
	Import:           "import",
	In:               "in",
	InstanceOf:       "instanceof",
	New:              "new",
	Null:             "null",
	Return:           "return",
	Super:            "super",
	Switch:           "switch",
	This:             "this",
	Throw:            "throw",
	True:             "true",
	Try:              "try",
	TypeOf:           "typeof",
	Var:              "var",
	Void:             "void",
	While:            "while",
	With:             "with",
	Implements:       "implements",
	Interface:        "interface",
	Let:              "let",
	Package:          "package",
	Private:          "private",
	Protected:        "protected",
	Public:           "public",
	Static:           "static",
	Yield:            "yield",
	Async:            "async",
	Await:            "await",
	Of:               "of",
	Get:              "get",
	Set:              "set",
	From:             "from",
	As:               "as",
	Target:           "target",
	Meta:             "meta",
	Accessor:         "accessor",
	Each:             "each",
}

func (tok Token) String() string {
	s := ""

	if int(tok) < len(tokens) {
		s = tokens[tok]
	}

	if s == "" {
		s = "token(" + strconv.Itoa(int(tok)) + ")"
	}
	return s
}

// LowestPrec represents the lowest operator precedence.
const LowestPrec = 0

// Precedence returns the binary precedence of the operator token. Tokens
// that are not binary operators return LowestPrec.
func (tok Token) Precedence() int {
	switch tok {
	case Nullish:
		return 1
	case LogicalOr:
		return 2
	case LogicalAnd:
		return 3
	case Or:
		return 4
	case Xor:
		return 5
	case And:
		return 6
	case Equal, NotEqual, StrictEqual, StrictNotEqual:
		return 7
	case Less, Greater, LessEq, GreaterEq, InstanceOf, In:
		return 8
	case Shl, Shr, UShr:
		return 9
	case Add, Sub:
		return 10
	case Mul, Div, Mod:
		return 11
	case Exp:
		return 12
	}
	return LowestPrec
}

// RightAssoc reports whether the operator groups right to left.
func (tok Token) RightAssoc() bool {
	return tok == Exp || tok.IsAssign() || tok == Question || tok == Arrow
}

// MinVersion returns the first language version the token exists in.
func (tok Token) MinVersion() Version {
	switch tok {
	case Arrow, Ellipsis, NoSubstTemplate, TemplateHead, TemplateMiddle, TemplateTail:
		return ES2015
	case Exp, ExpAssign:
		return ES2016
	case Nullish, QuestionDot, BigInt:
		return ES2020
	case LogicalAndAssign, LogicalOrAssign, NullishAssign:
		return ES2021
	case PrivateName:
		return ES2022
	case At:
		return ESNext
	}
	return ES5
}

// IsLiteral returns true if the token is a literal.
func (tok Token) IsLiteral() bool {
	return literalBegin < tok && tok < literalEnd
}

// IsOperator returns true if the token is an operator.
func (tok Token) IsOperator() bool {
	return operatorBegin < tok && tok < operatorEnd
}

// IsAssign returns true if the token is an assignment operator.
func (tok Token) IsAssign() bool {
	return assignBegin < tok && tok < assignEnd
}

// IsLogicalAssign returns true for &&=, ||= and ??=.
func (tok Token) IsLogicalAssign() bool {
	return tok == LogicalAndAssign || tok == LogicalOrAssign || tok == NullishAssign
}

// IsKeyword returns true if the token is a reserved or strict mode
// reserved keyword.
func (tok Token) IsKeyword() bool {
	return keywordBegin < tok && tok < keywordEnd
}

// IsStrictReserved returns true if the token is reserved only in strict
// mode code.
func (tok Token) IsStrictReserved() bool {
	return strictBegin < tok && tok < strictEnd
}

// IsContextual returns true if the token is a contextual keyword, which is
// a valid identifier outside of the grammar positions giving it meaning.
func (tok Token) IsContextual() bool {
	return contextualBegin < tok && tok < contextualEnd
}

// IsIdentName returns true if the token may be used as a property name,
// which is any identifier or keyword.
func (tok Token) IsIdentName() bool {
	return tok == Ident || tok.IsKeyword() || tok.IsContextual()
}

// IsTemplate returns true for template literal spans.
func (tok Token) IsTemplate() bool {
	return tok >= NoSubstTemplate && tok <= TemplateTail
}

// Is returns true if tok is one of the given tokens.
func (tok Token) Is(other ...Token) bool {
	for _, o := range other {
		if tok == o {
			return true
		}
	}
	return false
}

var keywords = map[string]Token{
	"break":      Break,
	"case":       Case,
	"catch":      Catch,
	"class":      Class,
	"const":      Const,
	"continue":   Continue,
	"debugger":   Debugger,
	"default":    Default,
	"delete":     Delete,
	"do":         Do,
	"else":       Else,
	"enum":       Enum,
	"export":     Export,
	"extends":    Extends,
	"false":      False,
	"finally":    Finally,
	"for":        For,
	"function":   Function,
	"if":         If,
	"import":     Import,
	"in":         In,
	"instanceof": InstanceOf,
	"new":        New,
	"null":       Null,
	"return":     Return,
	"super":      Super,
	"switch":     Switch,
	"this":       This,
	"throw":      Throw,
	"true":       True,
	"try":        Try,
	"typeof":     TypeOf,
	"var":        Var,
	"void":       Void,
	"while":      While,
	"with":       With,
	"implements": Implements,
	"interface":  Interface,
	"let":        Let,
	"package":    Package,
	"private":    Private,
	"protected":  Protected,
	"public":     Public,
	"static":     Static,
	"yield":      Yield,
	"async":      Async,
	"await":      Await,
	"of":         Of,
	"get":        Get,
	"set":        Set,
	"from":       From,
	"as":         As,
	"target":     Target,
	"meta":       Meta,
	"accessor":   Accessor,
	"each":       Each,
}

// Lookup returns corresponding keyword if ident is a keyword.
func Lookup(ident string) Token {
	// every keyword is between 2 and 10 lowercase ASCII letters
	if n := len(ident); n < 2 || n > 10 || ident[0] < 'a' || ident[0] > 'z' {
		return Ident
	}
	if tok, isKeyword := keywords[ident]; isKeyword {
		return tok
	}
	return Ident
}

// LookupBytes is Lookup without allocating a string for the lookup key.
func LookupBytes(ident []byte) Token {
	if n := len(ident); n < 2 || n > 10 || ident[0] < 'a' || ident[0] > 'z' {
		return Ident
	}
	if tok, isKeyword := keywords[string(ident)]; isKeyword {
		return tok
	}
	return Ident
}
