package token_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gad-lang/esparse/token"
)

func TestLookup(t *testing.T) {
	require.Equal(t, token.Function, token.Lookup("function"))
	require.Equal(t, token.InstanceOf, token.Lookup("instanceof"))
	require.Equal(t, token.Async, token.Lookup("async"))
	require.Equal(t, token.Let, token.Lookup("let"))
	require.Equal(t, token.Ident, token.Lookup("Function"))
	require.Equal(t, token.Ident, token.Lookup("x"))
	require.Equal(t, token.Ident, token.Lookup("instanceofx"))
	require.Equal(t, token.Yield, token.LookupBytes([]byte("yield")))
}

func TestClasses(t *testing.T) {
	require.True(t, token.Ident.IsLiteral())
	require.True(t, token.Regexp.IsLiteral())
	require.False(t, token.EOL.IsLiteral())
	require.True(t, token.Arrow.IsOperator())
	require.True(t, token.NullishAssign.IsAssign())
	require.True(t, token.NullishAssign.IsLogicalAssign())
	require.False(t, token.Nullish.IsAssign())
	require.True(t, token.With.IsKeyword())
	require.True(t, token.Yield.IsKeyword())
	require.True(t, token.Yield.IsStrictReserved())
	require.False(t, token.With.IsStrictReserved())
	require.True(t, token.Of.IsContextual())
	require.False(t, token.Of.IsKeyword())
	require.True(t, token.Of.IsIdentName())
	require.True(t, token.Class.IsIdentName())
}

func TestPrecedence(t *testing.T) {
	require.Less(t, token.Nullish.Precedence(), token.LogicalOr.Precedence())
	require.Less(t, token.LogicalOr.Precedence(), token.LogicalAnd.Precedence())
	require.Less(t, token.Add.Precedence(), token.Mul.Precedence())
	require.Less(t, token.Mul.Precedence(), token.Exp.Precedence())
	require.Equal(t, token.Less.Precedence(), token.In.Precedence())
	require.Equal(t, token.LowestPrec, token.Assign.Precedence())
	require.True(t, token.Exp.RightAssoc())
	require.False(t, token.Sub.RightAssoc())
}

func TestVersion(t *testing.T) {
	for s, v := range map[string]token.Version{
		"es5":    token.ES5,
		"ES6":    token.ES2015,
		"es2020": token.ES2020,
		"2017":   token.ES2017,
		"es11":   token.ES2020,
		"esnext": token.ESNext,
	} {
		got, err := token.ParseVersion(s)
		require.NoError(t, err, s)
		require.Equal(t, v, got, s)
	}
	_, err := token.ParseVersion("es3")
	require.Error(t, err)
	require.Equal(t, "es2022", token.ES2022.String())
	require.Equal(t, token.ES2020, token.Nullish.MinVersion())
}
