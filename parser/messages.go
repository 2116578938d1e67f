package parser

import "fmt"

// MessageID identifies a diagnostic message. Args substitute the %s verbs
// of its format in order.
type MessageID uint16

const (
	MsgNone MessageID = iota

	// lexical
	MsgIllegalChar
	MsgUnterminatedString
	MsgUnterminatedTemplate
	MsgUnterminatedComment
	MsgUnterminatedRegexp
	MsgUnterminatedHereString
	MsgInvalidRegexpFlags
	MsgInvalidEscape
	MsgInvalidHexEscape
	MsgInvalidUnicodeEscape
	MsgInvalidIdentEscape
	MsgMissingDigits
	MsgMissingExponent
	MsgNumericSeparator
	MsgIdentAfterNumber
	MsgInvalidBigInt

	// syntax
	MsgUnexpectedToken
	MsgUnexpectedEOF
	MsgExpected
	MsgFeature
	MsgInvalidAssignTarget
	MsgInvalidDestructuring
	MsgInvalidArrowParam
	MsgParenthesizedPattern
	MsgRedeclaration
	MsgDuplicateParam
	MsgDuplicateLabel
	MsgUndefinedLabel
	MsgIllegalBreak
	MsgIllegalContinue
	MsgIllegalReturn
	MsgReservedWord
	MsgStrictReserved
	MsgEscapedKeyword
	MsgLetInLexical
	MsgStrictEvalArguments
	MsgStrictOctal
	MsgStrictOctalEscape
	MsgStrictWith
	MsgStrictDelete
	MsgStrictFunction
	MsgNonSimpleUseStrict
	MsgMixedNullish
	MsgUnaryBeforeExp
	MsgNewlineBeforeArrow
	MsgNewlineAfterThrow
	MsgShorthandInit
	MsgRestNotLast
	MsgRestInit
	MsgDuplicateProto
	MsgDuplicateConstructor
	MsgConstructorKind
	MsgConstructorField
	MsgPrivateConstructor
	MsgStaticPrototype
	MsgUndeclaredPrivate
	MsgDuplicatePrivate
	MsgPrivateDelete
	MsgPrivateOptional
	MsgUnexpectedSuper
	MsgSuperCall
	MsgNewTarget
	MsgImportMeta
	MsgModuleOnly
	MsgTopLevelOnly
	MsgAwaitInParams
	MsgYieldInParams
	MsgAwaitInStaticBlock
	MsgArgumentsInClassInit
	MsgMissingInitializer
	MsgForInInit
	MsgForInMultiple
	MsgGetterParams
	MsgSetterParams
	MsgOptionalChainTemplate
	MsgOptionalChainNew
	MsgLabelledFunction
	MsgSingleStatementFunction
	MsgSingleStatementLexical
	MsgMultipleDefault
	MsgMissingCatch
	MsgDuplicateExport
	MsgUndefinedExport
	MsgInvalidTemplateEscape
	MsgDecoratorPosition
	MsgInvalidCoverParens
	MsgVarLexical
	MsgParamLexical
	MsgCatchParamLexical
	MsgIllegalAwait
	MsgDuplicateAttribute

	// warnings
	MsgWarnBlockFunction

	msgEnd
)

var messages = [...]string{
	MsgNone: "",

	MsgIllegalChar:            "illegal character %s",
	MsgUnterminatedString:     "unterminated string literal",
	MsgUnterminatedTemplate:   "unterminated template literal",
	MsgUnterminatedComment:    "comment not terminated",
	MsgUnterminatedRegexp:     "unterminated regular expression literal",
	MsgUnterminatedHereString: "unterminated here-string, missing %s",
	MsgInvalidRegexpFlags:     "invalid regular expression flags",
	MsgInvalidEscape:          "invalid escape sequence",
	MsgInvalidHexEscape:       "invalid hexadecimal escape sequence",
	MsgInvalidUnicodeEscape:   "invalid Unicode escape sequence",
	MsgInvalidIdentEscape:     "invalid escape in identifier",
	MsgMissingDigits:          "missing digits after %s",
	MsgMissingExponent:        "missing exponent",
	MsgNumericSeparator:       "numeric separators are not allowed here",
	MsgIdentAfterNumber:       "identifier starts immediately after numeric literal",
	MsgInvalidBigInt:          "invalid BigInt literal",

	MsgUnexpectedToken:         "unexpected token %s",
	MsgUnexpectedEOF:           "unexpected end of input",
	MsgExpected:                "expected %s, found %s",
	MsgFeature:                 "%s require %s or later",
	MsgInvalidAssignTarget:     "invalid left-hand side in %s",
	MsgInvalidDestructuring:    "invalid destructuring target",
	MsgInvalidArrowParam:       "invalid arrow function parameter",
	MsgParenthesizedPattern:    "invalid parenthesized pattern",
	MsgRedeclaration:           "identifier %s has already been declared",
	MsgDuplicateParam:          "duplicate parameter name %s",
	MsgDuplicateLabel:          "label %s has already been declared",
	MsgUndefinedLabel:          "undefined label %s",
	MsgIllegalBreak:            "illegal break statement",
	MsgIllegalContinue:         "illegal continue statement",
	MsgIllegalReturn:           "illegal return statement",
	MsgReservedWord:            "unexpected reserved word %s",
	MsgStrictReserved:          "unexpected strict mode reserved word %s",
	MsgEscapedKeyword:          "keyword %s must not contain escaped characters",
	MsgLetInLexical:            "let is disallowed as a lexically bound name",
	MsgStrictEvalArguments:     "unexpected %s in strict mode",
	MsgStrictOctal:             "octal literals are not allowed in strict mode",
	MsgStrictOctalEscape:       "octal escape sequences are not allowed in strict mode",
	MsgStrictWith:              "strict mode code may not include a with statement",
	MsgStrictDelete:            "delete of an unqualified identifier in strict mode",
	MsgStrictFunction:          "in strict mode code, functions can only be declared at top level or inside a block",
	MsgNonSimpleUseStrict:      "illegal 'use strict' directive in function with non-simple parameter list",
	MsgMixedNullish:            "cannot mix ?? with && or || without parentheses",
	MsgUnaryBeforeExp:          "unary operator used immediately before exponentiation expression",
	MsgNewlineBeforeArrow:      "line terminator not permitted before arrow",
	MsgNewlineAfterThrow:       "illegal newline after throw",
	MsgShorthandInit:           "invalid shorthand property initializer",
	MsgRestNotLast:             "rest element must be last element",
	MsgRestInit:                "rest element may not have a default initializer",
	MsgDuplicateProto:          "duplicate __proto__ fields are not allowed in object literals",
	MsgDuplicateConstructor:    "a class may only have one constructor",
	MsgConstructorKind:         "class constructor may not be %s",
	MsgConstructorField:        "classes may not have a field named constructor",
	MsgPrivateConstructor:      "classes may not have a private name #constructor",
	MsgStaticPrototype:         "classes may not have a static property named prototype",
	MsgUndeclaredPrivate:       "private name %s must be declared in an enclosing class",
	MsgDuplicatePrivate:        "private name %s has already been declared",
	MsgPrivateDelete:           "private fields can not be deleted",
	MsgPrivateOptional:         "private names are not allowed after ?. in this position",
	MsgUnexpectedSuper:         "'super' keyword unexpected here",
	MsgSuperCall:               "'super' call is only valid in derived class constructors",
	MsgNewTarget:               "new.target expression is not allowed here",
	MsgImportMeta:              "cannot use import.meta outside a module",
	MsgModuleOnly:              "cannot use %s statement outside a module",
	MsgTopLevelOnly:            "%s declarations may only appear at top level of a module",
	MsgAwaitInParams:           "await expression is not allowed in formal parameters",
	MsgYieldInParams:           "yield expression is not allowed in formal parameters",
	MsgAwaitInStaticBlock:      "await is not allowed in class static blocks",
	MsgArgumentsInClassInit:    "arguments is not allowed in class field initializer or static initialization block",
	MsgMissingInitializer:      "missing initializer in %s declaration",
	MsgForInInit:               "for-%s loop variable declaration may not have an initializer",
	MsgForInMultiple:           "invalid left-hand side in for-%s loop: must have a single binding",
	MsgGetterParams:            "getter must not have any formal parameters",
	MsgSetterParams:            "setter must have exactly one formal parameter",
	MsgOptionalChainTemplate:   "invalid tagged template on optional chain",
	MsgOptionalChainNew:        "invalid optional chain from new expression",
	MsgLabelledFunction:        "labelled function declarations are not allowed here",
	MsgSingleStatementFunction: "function declarations are not allowed in single-statement context",
	MsgSingleStatementLexical:  "lexical declaration cannot appear in a single-statement context",
	MsgMultipleDefault:         "more than one default clause in switch statement",
	MsgMissingCatch:            "missing catch or finally after try",
	MsgDuplicateExport:         "duplicate export of %s",
	MsgUndefinedExport:         "export %s is not defined",
	MsgInvalidTemplateEscape:   "invalid escape sequence in template",
	MsgDecoratorPosition:       "decorators are not valid here",
	MsgInvalidCoverParens:      "unexpected token %s in parenthesized expression",
	MsgVarLexical:              "identifier %s has already been declared by a lexical declaration",
	MsgParamLexical:            "identifier %s has already been declared as a parameter",
	MsgCatchParamLexical:       "identifier %s has already been declared as a catch parameter",
	MsgIllegalAwait:            "await is only valid in async functions and the top level bodies of modules",
	MsgDuplicateAttribute:      "duplicate import attribute %s",

	MsgWarnBlockFunction: "function declaration in a block is not portable before %s",
}

// Format renders the message with args.
func (id MessageID) Format(args ...string) string {
	if id >= msgEnd {
		return fmt.Sprintf("message(%d)", id)
	}
	if len(args) == 0 {
		return messages[id]
	}
	a := make([]any, len(args))
	for i, s := range args {
		a[i] = s
	}
	return fmt.Sprintf(messages[id], a...)
}
