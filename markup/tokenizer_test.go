package markup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/cardcraft/layout"
)

func kinds(tokens []layout.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind()
	}
	return out
}

func TestTokenizeLiteralText(t *testing.T) {
	tokens, err := Tokenize("Hello  world\nagain", DefaultRegistry())
	require.NoError(t, err)
	assert.Equal(t, []string{"text", "space", "text", "br", "text"}, kinds(tokens))
	assert.Equal(t, "Hello", tokens[0].(*TextRun).Text)
	assert.Equal(t, "  ", tokens[1].(*SpaceRun).Text)
}

func TestTokenizeEmpty(t *testing.T) {
	tokens, err := Tokenize("", DefaultRegistry())
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestTokenizeMatchesCloseByIdentity(t *testing.T) {
	tokens, err := Tokenize("<b>a<i>b</b>c</i>", DefaultRegistry())
	require.NoError(t, err)
	require.Equal(t, []string{"b", "text", "i", "text", "close", "text", "close"}, kinds(tokens))

	b := tokens[0].(Scoped)
	i := tokens[2].(Scoped)
	assert.Same(t, tokens[4], layout.Token(b.Close()))
	assert.Same(t, tokens[6], layout.Token(i.Close()))
	assert.Same(t, b, tokens[4].(*CloseTag).Opener())
}

func TestTokenizeGenericCloseTakesInnermost(t *testing.T) {
	tokens, err := Tokenize("<fc:red><u>x<close>y<close>", DefaultRegistry())
	require.NoError(t, err)
	u := tokens[1].(Scoped)
	fc := tokens[0].(Scoped)
	assert.Same(t, tokens[3], layout.Token(u.Close()))
	assert.Same(t, tokens[5], layout.Token(fc.Close()))
}

func TestTokenizeAliasSharesCanonicalName(t *testing.T) {
	reg := DefaultRegistry()
	for _, raw := range []string{"<bgc:red>x</bgc>", "<bgc:red>x</bgcolor>", "<bgcolor:red>x</bgc>"} {
		tokens, err := Tokenize(raw, reg)
		require.NoError(t, err, raw)
		bg := tokens[0].(Scoped)
		assert.Equal(t, "bgcolor", bg.Name())
		assert.Same(t, tokens[2], layout.Token(bg.Close()), raw)
	}
}

func TestTokenizeAliasCannotNest(t *testing.T) {
	for _, raw := range []string{
		"<bgcolor:red>a<bgc:blue>b</bgc></bgcolor>",
		"<bgc:red>a<bgcolor:blue>b</bgcolor></bgc>",
	} {
		_, err := Tokenize(raw, DefaultRegistry())
		assert.ErrorIs(t, err, &ParseError{Code: ErrNestedScope}, raw)
	}
}

func TestTokenizeEmptyCloseTakesInnermost(t *testing.T) {
	tokens, err := Tokenize("<b><i>x</>y</>", DefaultRegistry())
	require.NoError(t, err)
	b := tokens[0].(Scoped)
	i := tokens[1].(Scoped)
	assert.Same(t, tokens[3], layout.Token(i.Close()))
	assert.Same(t, tokens[5], layout.Token(b.Close()))

	_, err = Tokenize("x</>", DefaultRegistry())
	assert.ErrorIs(t, err, &ParseError{Code: ErrUnmatchedClose})
}

func TestTokenizeUnterminatedScope(t *testing.T) {
	tokens, err := Tokenize("<b>bold to the end", DefaultRegistry())
	require.NoError(t, err)
	assert.Nil(t, tokens[0].(Scoped).Close())
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		code ErrorCode
		tag  string
	}{
		{"unknown tag", "x <nope> y", ErrUnknownTag, "nope"},
		{"bad colour", "<fc:notacolour>x", ErrBadArgument, "fc"},
		{"missing argument", "<font>x", ErrBadArgument, "font"},
		{"bad length", "<spc:wide>", ErrBadArgument, "spc"},
		{"unmatched close", "x</b>", ErrUnmatchedClose, "/b"},
		{"bare close", "<close>", ErrUnmatchedClose, "close"},
		{"nested same type", "<b>x<b>y</b></b>", ErrNestedScope, "b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Tokenize(tc.raw, DefaultRegistry())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tc.code, pe.Code)
			assert.Equal(t, tc.tag, pe.Tag)
			assert.Contains(t, err.Error(), tc.tag)
		})
	}
}

func TestTokenizeReportsPosition(t *testing.T) {
	_, err := Tokenize("line one\nxx <nope>", DefaultRegistry())
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Pos.Line)
	assert.Equal(t, 4, pe.Pos.Column)
}

func TestTokenizeNormalisesToNFC(t *testing.T) {
	tokens, err := Tokenize("Cafe\u0301", DefaultRegistry())
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9", tokens[0].(*TextRun).Text)
}

func TestTokenizeStrayAngleBracketIsText(t *testing.T) {
	tokens, err := Tokenize("a<b c", DefaultRegistry())
	require.NoError(t, err)
	assert.Equal(t, "a<b", tokens[0].(*TextRun).Text)
}

func TestPlainKeepsTagsVerbatim(t *testing.T) {
	tokens := Plain("<nope>Hi there")
	assert.Equal(t, []string{"text", "space", "text"}, kinds(tokens))
	assert.Equal(t, "<nope>Hi", tokens[0].(*TextRun).Text)
}

func TestTagArgumentsRoundTrip(t *testing.T) {
	srcs := []string{
		"<b>", "<i>",
		"<u:0.5>", "<s>",
		"<fc:red>", "<fc:#11223380>",
		"<bgcolor:Red;2>", "<bgc:0x00ff00>",
		"<font:Go;12;bold>", "<font:Latin Modern>",
		"<fs:14pt>",
		"<align:center>",
		"<bullet>", "<bullet:-;4>",
		"<spc:3mm>",
		"<img:icon;5>", "<img:icon;;4>",
	}
	reg := DefaultRegistry()
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			first, err := Tokenize(src, reg)
			require.NoError(t, err)
			require.Len(t, first, 1)
			out := first[0].(interface{ String() string }).String()

			second, err := Tokenize(out, reg)
			require.NoError(t, err, "re-parse %q", out)
			require.Len(t, second, 1)
			assert.Equal(t, first[0].(interface{ Args() []string }).Args(),
				second[0].(interface{ Args() []string }).Args())
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Star", newBold))
	assert.Error(t, r.Register("star", newBold))
	assert.Error(t, r.Register("close", newBold))
	assert.Error(t, r.Register("/x", newBold))
	assert.Error(t, r.Register("y", nil))

	_, ok := r.Lookup("STAR")
	assert.True(t, ok)
	assert.Equal(t, []string{"star"}, r.Names())
	assert.Contains(t, DefaultRegistry().Names(), "bgc")
}

func TestRegistryAliases(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("bold", newBold))
	require.NoError(t, r.RegisterAlias("B", "bold"))
	assert.Error(t, r.RegisterAlias("b", "bold"), "alias taken")
	assert.Error(t, r.RegisterAlias("x", "missing"))
	assert.Error(t, r.RegisterAlias("close", "bold"))
	assert.Error(t, r.Register("b", newBold), "name taken by alias")

	assert.Equal(t, "bold", r.Canonical(" B "))
	assert.Equal(t, "other", r.Canonical("Other"))
	_, ok := r.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, []string{"b", "bold"}, r.Names())

	tokens, err := Tokenize("<b>x</bold>", r)
	require.NoError(t, err)
	assert.Equal(t, "bold", tokens[0].Kind())
}
