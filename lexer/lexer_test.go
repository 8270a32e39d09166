package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinth/cinth/token"
)

func allTokens(t *testing.T, src string) []token.Token {
	l := New(src)
	var out []token.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestKeywordsAndIdents(t *testing.T) {
	toks := allTokens(t, "int main return foo_bar")
	require.Equal(t, []token.Kind{token.KwInt, token.Ident, token.KwReturn, token.Ident, token.EOF}, kinds(toks))
}

func TestIntAndRealLiterals(t *testing.T) {
	toks := allTokens(t, "42 3.14")
	require.Equal(t, token.IntConst, toks[0].Kind)
	require.Equal(t, int64(42), toks[0].IVal)
	require.Equal(t, token.RealConst, toks[1].Kind)
	require.InDelta(t, 3.14, toks[1].FVal, 1e-9)
}

func TestStringAndCharLiterals(t *testing.T) {
	toks := allTokens(t, `"hi\n" 'a'`)
	require.Equal(t, token.StringConst, toks[0].Kind)
	require.Equal(t, "hi\n", toks[0].Text)
	require.Equal(t, token.CharConst, toks[1].Kind)
	require.Equal(t, int64('a'), toks[1].IVal)
}

func TestOperatorsLongestMatchFirst(t *testing.T) {
	toks := allTokens(t, "<<= >>= += -> == != <= >= && ||")
	require.Equal(t, []token.Kind{
		token.ShlAssign, token.ShrAssign, token.PlusAssign, token.Arrow,
		token.Eq, token.Ne, token.Le, token.Ge, token.LogAnd, token.LogOr, token.EOF,
	}, kinds(toks))
}

func TestComments(t *testing.T) {
	toks := allTokens(t, "int x; // trailing\n/* block\ncomment */ return;")
	require.Equal(t, []token.Kind{token.KwInt, token.Ident, token.Semicolon, token.KwReturn, token.Semicolon, token.EOF}, kinds(toks))
}

func TestUnterminatedCommentIsLexicalError(t *testing.T) {
	l := New("/* never closed")
	_, err := l.Next()
	require.Error(t, err)
}

func TestLineTracking(t *testing.T) {
	toks := allTokens(t, "int x;\nint y;\nint z;")
	require.Equal(t, 1, toks[0].Line)
	// skip to the token on the third line
	require.Equal(t, 3, toks[len(toks)-2].Line)
}
