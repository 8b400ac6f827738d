package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oarkflow/erltok/lexer"
)

func allTokens(t *testing.T, src string) []lexer.Token {
	t.Helper()
	toks, err := lexer.NewString(src).All()
	require.NoError(t, err)
	return toks
}

func TestRoundTrip(t *testing.T) {
	cases := []string{
		`io:format("Hello").`,
		"-module(foo).\n",
		"16#FF",
		"2#1010",
		"3.14e-2",
		"'hello world'",
		"\"a\\nb\"",
		"=:=/=",
		"% comment\n",
		"X = Y + 1.\nfun(A) -> A end.",
	}
	for _, src := range cases {
		toks := allTokens(t, src)
		var rebuilt []byte
		for _, tok := range toks {
			rebuilt = append(rebuilt, tok.Text...)
		}
		require.Equal(t, src, string(rebuilt), "round-trip failed for %q", src)
	}
}

func TestPositionMonotonicity(t *testing.T) {
	toks := allTokens(t, "foo(Bar, 42) -> baz.\n")
	for i := 1; i < len(toks); i++ {
		prev, cur := toks[i-1], toks[i]
		want := prev.Pos.Offset + len(prev.Text)
		require.Equal(t, want, cur.Pos.Offset)
		require.Greater(t, cur.Pos.Offset, prev.Pos.Offset)
	}
}

func TestLineColumnTracking(t *testing.T) {
	src := "a(\n  B\n)."
	toks := allTokens(t, src)
	var found bool
	for _, tok := range toks {
		if tok.Kind == lexer.KindVariable && string(tok.Text) == "B" {
			require.Equal(t, 2, tok.Pos.Line)
			require.Equal(t, 3, tok.Pos.Column)
			found = true
		}
	}
	require.True(t, found, "expected to find variable B")
}

func TestScenarioIoFormat(t *testing.T) {
	toks := allTokens(t, `io:format("Hello").`)
	want := []struct {
		kind lexer.TokenKind
		text string
	}{
		{lexer.KindAtom, "io"},
		{lexer.KindSymbol, ":"},
		{lexer.KindAtom, "format"},
		{lexer.KindSymbol, "("},
		{lexer.KindString, `"Hello"`},
		{lexer.KindSymbol, ")"},
		{lexer.KindSymbol, "."},
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		require.Equal(t, w.kind, toks[i].Kind, "token %d", i)
		require.Equal(t, w.text, string(toks[i].Text), "token %d", i)
	}
}

func TestBaseIntegerHex(t *testing.T) {
	toks := allTokens(t, "16#FF")
	require.Len(t, toks, 1)
	require.Equal(t, lexer.KindInteger, toks[0].Kind)
	require.Equal(t, int64(255), toks[0].IntegerValue().Int64())
}

func TestBaseIntegerBinary(t *testing.T) {
	toks := allTokens(t, "2#1010")
	require.Len(t, toks, 1)
	require.Equal(t, int64(10), toks[0].IntegerValue().Int64())
}

func TestBaseIntegerInvalidDigit(t *testing.T) {
	tz := lexer.NewString("2#1012")
	var lastErr error
	for {
		_, ok, err := tz.Next()
		if err != nil {
			lastErr = err
			break
		}
		if !ok {
			break
		}
	}
	require.Error(t, lastErr)
	lexErr, ok := lastErr.(*lexer.LexError)
	require.True(t, ok)
	require.Equal(t, lexer.ErrInvalidDigit, lexErr.Kind)
	require.Equal(t, 1, lexErr.Pos.Line)
	require.Equal(t, 6, lexErr.Pos.Column)
}

func TestFloatScientific(t *testing.T) {
	toks := allTokens(t, "3.14e-2")
	require.Len(t, toks, 1)
	require.Equal(t, lexer.KindFloat, toks[0].Kind)
	require.InDelta(t, 0.0314, toks[0].FloatValue(), 1e-9)
}

func TestDotWithoutFractionIsSymbol(t *testing.T) {
	toks := allTokens(t, "3.")
	require.Len(t, toks, 2)
	require.Equal(t, lexer.KindInteger, toks[0].Kind)
	require.Equal(t, "3", string(toks[0].Text))
	require.Equal(t, lexer.KindSymbol, toks[1].Kind)
	require.Equal(t, lexer.SymDot, toks[1].SymbolValue())
}

func TestQuotedAtom(t *testing.T) {
	toks := allTokens(t, "'hello world'")
	require.Len(t, toks, 1)
	require.Equal(t, lexer.KindAtom, toks[0].Kind)
	require.Equal(t, "hello world", toks[0].AtomValue())
}

func TestUnterminatedAtom(t *testing.T) {
	_, err := lexer.NewString("'abc").All()
	require.Error(t, err)
	lexErr, ok := err.(*lexer.LexError)
	require.True(t, ok)
	require.Equal(t, lexer.ErrUnterminatedAtom, lexErr.Kind)
}

func TestStringWithNewlineEscape(t *testing.T) {
	toks := allTokens(t, `"a\nb"`)
	require.Len(t, toks, 1)
	require.Equal(t, "a\nb", toks[0].StringValue())
	require.Equal(t, 6, len(toks[0].Text))
}

func TestSymbolMaximality(t *testing.T) {
	toks := allTokens(t, "=:=/=")
	require.Len(t, toks, 2)
	require.Equal(t, lexer.SymExactEq, toks[0].SymbolValue())
	require.Equal(t, lexer.SymNotEq, toks[1].SymbolValue())
}

func TestComment(t *testing.T) {
	toks := allTokens(t, "% comment\n")
	require.Len(t, toks, 2)
	require.Equal(t, lexer.KindComment, toks[0].Kind)
	require.Equal(t, "% comment", string(toks[0].Text))
	require.Equal(t, lexer.KindWhitespace, toks[1].Kind)
	require.Equal(t, lexer.WSNewline, toks[1].WhitespaceValue())
}

func TestKeywordExclusivity(t *testing.T) {
	toks := allTokens(t, "case X of end")
	require.Equal(t, lexer.KindKeyword, toks[0].Kind)
	require.Equal(t, lexer.KwCase, toks[0].KeywordValue())
}

func TestQuotedAtomMatchingKeywordStaysAtom(t *testing.T) {
	toks := allTokens(t, "'case'")
	require.Len(t, toks, 1)
	require.Equal(t, lexer.KindAtom, toks[0].Kind)
	require.Equal(t, "case", toks[0].AtomValue())
}

func TestEscapeFidelity(t *testing.T) {
	cases := []struct {
		src  string
		want rune
	}{
		{`$\n`, '\n'},
		{`$\x41`, 'A'},
		{`$\101`, 'A'},
		{`$\^A`, 0x01},
	}
	for _, c := range cases {
		toks := allTokens(t, c.src)
		require.Len(t, toks, 1, "src %q", c.src)
		require.Equal(t, lexer.KindChar, toks[0].Kind)
		require.Equal(t, c.want, toks[0].CharValue(), "src %q", c.src)
	}
}

func TestHexBracedEscape(t *testing.T) {
	toks := allTokens(t, `$\x{1F600}`)
	require.Len(t, toks, 1)
	require.Equal(t, rune(0x1F600), toks[0].CharValue())
}

func TestUnexpectedChar(t *testing.T) {
	_, err := lexer.NewString("\x01").All()
	require.Error(t, err)
	lexErr, ok := err.(*lexer.LexError)
	require.True(t, ok)
	require.Equal(t, lexer.ErrUnexpectedChar, lexErr.Kind)
}

func TestLatchesAfterError(t *testing.T) {
	tz := lexer.NewString("'abc")
	_, ok, err := tz.Next()
	require.False(t, ok)
	require.Error(t, err)
	tok, ok, err := tz.Next()
	require.False(t, ok)
	require.NoError(t, err)
	require.Equal(t, lexer.Token{}, tok)
}

func TestIterMatchesNext(t *testing.T) {
	src := "a(B, 1) -> ok."
	var viaIter []lexer.Token
	for tok := range lexer.NewString(src).Iter() {
		viaIter = append(viaIter, tok)
	}
	viaNext := allTokens(t, src)
	require.Equal(t, len(viaNext), len(viaIter))
	for i := range viaNext {
		require.Equal(t, viaNext[i].Kind, viaIter[i].Kind)
		require.Equal(t, string(viaNext[i].Text), string(viaIter[i].Text))
	}
}

func TestCRLFAdvancesLine(t *testing.T) {
	toks := allTokens(t, "a.\r\nb.")
	var b lexer.Token
	for _, tok := range toks {
		if tok.Kind == lexer.KindAtom && string(tok.Text) == "b" {
			b = tok
		}
	}
	require.Equal(t, 2, b.Pos.Line)
	require.Equal(t, 1, b.Pos.Column)
}
