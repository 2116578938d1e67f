package runehelper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gad-lang/esparse/runehelper"
)

func TestIdentifiers(t *testing.T) {
	for _, s := range []string{"a", "_", "$", "a1", "$_$", "ünïcödé", "日本", "a\u200D"} {
		require.True(t, runehelper.IsIdentifier(s), s)
	}
	for _, s := range []string{"", "1a", "a-b", "a b", "\u200Da", "¤"} {
		require.False(t, runehelper.IsIdentifier(s), s)
	}
}

func TestSpace(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\v', '\f', '\u00A0', '\uFEFF', '\u3000'} {
		require.True(t, runehelper.IsWhitespace(r), "%U", r)
		require.False(t, runehelper.IsLineTerminator(r), "%U", r)
	}
	for _, r := range []rune{'\n', '\r', '\u2028', '\u2029'} {
		require.True(t, runehelper.IsLineTerminator(r), "%U", r)
		require.False(t, runehelper.IsWhitespace(r), "%U", r)
	}
}

func TestDigits(t *testing.T) {
	require.Equal(t, 0, runehelper.DigitVal('0'))
	require.Equal(t, 10, runehelper.DigitVal('a'))
	require.Equal(t, 15, runehelper.DigitVal('F'))
	require.Equal(t, 16, runehelper.DigitVal('g'))
	require.True(t, runehelper.IsHex('e'))
	require.False(t, runehelper.IsHex('_'))
	require.True(t, runehelper.IsOctal('7'))
	require.False(t, runehelper.IsOctal('8'))
	require.True(t, runehelper.IsDigit('9'))
}
