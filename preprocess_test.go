package collver

import (
	"testing"
	"testing/fstest"

	"github.com/aidnem/collver/internal/srcio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexMust(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Lex("t.collver", src)
	require.NoError(t, err)
	return toks
}

func TestPreprocessor_Consts(t *testing.T) {
	toks := lexMust(t, `const N 2 3 + end proc main int ptr -> int do N end`)
	out, err := (Preprocessor{}).Run(toks)
	require.NoError(t, err)

	var found bool
	for _, tok := range out {
		require.NotEqual(t, "N", tok.Text, "const name must not survive substitution")
		if tok.Type == TokenInt && tok.Int == 5 {
			found = true
		}
	}
	assert.True(t, found, "expected the substituted INT 5 for N")
}

func TestPreprocessor_ConstOffsetReset(t *testing.T) {
	toks := lexMust(t, `
const a 8 offset end
const b 8 offset end
const total reset end
proc main int ptr -> int do a b total end
`)
	out, err := (Preprocessor{}).Run(toks)
	require.NoError(t, err)

	var ints []int64
	for _, tok := range out {
		if tok.Type == TokenInt {
			ints = append(ints, tok.Int)
		}
	}
	// a=0 (offset before bump), b=8 (offset before second bump), total=16 (reset)
	assert.Equal(t, []int64{0, 8, 16}, ints)
}

func TestPreprocessor_ConstUnknownWord(t *testing.T) {
	toks := lexMust(t, `const N bogus end`)
	_, err := (Preprocessor{}).Run(toks)
	require.Error(t, err)
	var pe *PreprocessError
	require.ErrorAs(t, err, &pe)
}

func TestPreprocessor_ConstMultipleValuesIsError(t *testing.T) {
	toks := lexMust(t, `const N 1 2 end`)
	_, err := (Preprocessor{}).Run(toks)
	require.Error(t, err)
}

func TestPreprocessor_ConstUnterminated(t *testing.T) {
	toks := lexMust(t, `const N 1 2 +`)
	_, err := (Preprocessor{}).Run(toks)
	require.Error(t, err)
}

func TestPreprocessor_Alias(t *testing.T) {
	toks := lexMust(t, `alias true 1 end proc main int ptr -> int do true end`)
	out, err := (Preprocessor{}).Run(toks)
	require.NoError(t, err)

	for _, tok := range out {
		require.NotEqual(t, "true", tok.Text, "alias name must not survive substitution")
	}
	// the aliased token keeps the reference site's own location, not the
	// definition site's.
	for _, tok := range out {
		if tok.Type == TokenInt && tok.Int == 1 {
			assert.Greater(t, tok.Loc.Col, 0)
		}
	}
}

func TestPreprocessor_AliasUnterminated(t *testing.T) {
	toks := lexMust(t, `alias x 1`)
	_, err := (Preprocessor{}).Run(toks)
	require.Error(t, err)
}

func TestPreprocessor_IncludeIdempotent(t *testing.T) {
	cwd := fstest.MapFS{
		"a.collver": &fstest.MapFile{Data: []byte("42")},
	}
	toks := lexMust(t, `include "a.collver" include "a.collver"`)
	pp := Preprocessor{Resolver: srcio.Resolver{CWD: cwd}}
	out, err := pp.Run(toks)
	require.NoError(t, err)

	var ints []int64
	for _, tok := range out {
		if tok.Type == TokenInt {
			ints = append(ints, tok.Int)
		}
	}
	assert.Equal(t, []int64{42}, ints, "a.collver's tokens must appear exactly once")

	// running preprocessing again over the result is a fixed point: no
	// more includes remain to expand, so the token stream is unchanged.
	again, err := pp.Run(out)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestPreprocessor_IncludeMissingIsFatal(t *testing.T) {
	toks := lexMust(t, `include "nope.collver"`)
	pp := Preprocessor{Resolver: srcio.Resolver{CWD: fstest.MapFS{}, Std: fstest.MapFS{}}}
	_, err := pp.Run(toks)
	require.Error(t, err)
	var pe *PreprocessError
	require.ErrorAs(t, err, &pe)
}

func TestPreprocessor_IncludeFallsBackToStd(t *testing.T) {
	std := fstest.MapFS{"io.collver": &fstest.MapFile{Data: []byte("7")}}
	toks := lexMust(t, `include "io.collver"`)
	pp := Preprocessor{Resolver: srcio.Resolver{CWD: fstest.MapFS{}, Std: std}}
	out, err := pp.Run(toks)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(7), out[0].Int)
}

func TestPreprocessor_IncludeRequiresStringOperand(t *testing.T) {
	toks := lexMust(t, `include 5`)
	_, err := (Preprocessor{}).Run(toks)
	require.Error(t, err)
}
