package runehelper

import (
	"unicode"
	"unicode/utf8"
)

const (
	ZWNJ = '\u200C'
	ZWJ  = '\u200D'
	BOM  = '\uFEFF'

	LineSeparator      = '\u2028'
	ParagraphSeparator = '\u2029'
)

// IsIDStart reports whether ch may start an identifier.
func IsIDStart(ch rune) bool {
	if ch < utf8.RuneSelf {
		return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '$' || ch == '_'
	}
	return unicode.IsLetter(ch) || unicode.Is(unicode.Nl, ch) ||
		unicode.Is(unicode.Other_ID_Start, ch)
}

// IsIDPart reports whether ch may continue an identifier.
func IsIDPart(ch rune) bool {
	if ch < utf8.RuneSelf {
		return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '$' || ch == '_' ||
			'0' <= ch && ch <= '9'
	}
	return IsIDStart(ch) || ch == ZWNJ || ch == ZWJ ||
		unicode.In(ch, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

// IsIdentifier reports whether s is a valid identifier name without escapes.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !IsIDStart(r) {
				return false
			}
		} else if !IsIDPart(r) {
			return false
		}
	}
	return true
}

func IsLineTerminator(ch rune) bool {
	return ch == '\n' || ch == '\r' || ch == LineSeparator || ch == ParagraphSeparator
}

// IsWhitespace reports whether ch is white space other than a line
// terminator.
func IsWhitespace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\v', '\f', '\u00A0', BOM:
		return true
	}
	return ch >= utf8.RuneSelf && unicode.Is(unicode.Zs, ch)
}

func IsDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func IsOctal(ch rune) bool {
	return '0' <= ch && ch <= '7'
}

func IsHex(ch rune) bool {
	return DigitVal(ch) < 16
}

func DigitVal(ch rune) int {
	switch {
	case '0' <= ch && ch <= '9':
		return int(ch - '0')
	case 'a' <= ch && ch <= 'f':
		return int(ch - 'a' + 10)
	case 'A' <= ch && ch <= 'F':
		return int(ch - 'A' + 10)
	}
	return 16 // larger than any legal digit val
}
