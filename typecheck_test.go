package collver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkSrc(t *testing.T, src string) error {
	t.Helper()
	toks, err := Lex("t.collver", src)
	require.NoError(t, err)
	words, err := ParseWords(toks)
	require.NoError(t, err)
	prog, err := ParseProgram("t.collver", words)
	require.NoError(t, err)
	_, err = Check(prog)
	return err
}

func TestCheck_StraightLine(t *testing.T) {
	// minimal program, no control flow, declared return satisfied.
	// main's args are seeded onto the stack like any other proc's, so an
	// unused argc/argv must be dropped explicitly before the return value
	// is pushed; drop is overloaded once per seeded type (argv is the top
	// of the two, so its overload is tried first).
	err := checkSrc(t, `
extern drop ptr -> end
extern drop int -> end
proc main int ptr -> int do drop drop 0 end
`)
	require.NoError(t, err)
}

func TestCheck_BranchEquivalence_ElseMismatchFails(t *testing.T) {
	// S2
	err := checkSrc(t, `
extern drop int -> end
proc f int -> int do if 1 do 2 else drop drop end end
`)
	require.Error(t, err)
	var te *TypeError
	require.ErrorAs(t, err, &te)
}

func TestCheck_BranchEquivalence_ElseMatchSucceeds(t *testing.T) {
	// both branches drop the incoming arg before pushing their own result,
	// so they leave identical shapes behind regardless of which one runs.
	err := checkSrc(t, `
extern drop int -> end
proc f int -> int do if 1 do drop 2 else drop 3 end end
`)
	require.NoError(t, err)
}

func TestCheck_IfWithoutElse_MustNotChangeStack(t *testing.T) {
	err := checkSrc(t, `proc f -> do if 1 do 2 end end`)
	require.Error(t, err)
	var te *TypeError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, err.Error(), "without `else`")
}

func TestCheck_IfWithoutElse_NoOpBranchOK(t *testing.T) {
	err := checkSrc(t, `
extern drop int -> end
proc f -> do if 1 do 2 drop end end
`)
	require.NoError(t, err)
}

func TestCheck_ElifChain(t *testing.T) {
	err := checkSrc(t, `
extern drop int -> end
proc f int -> int do
  if 1 do drop 1
  elif 1 do drop 2
  else drop 3
  end
end
`)
	require.NoError(t, err)
}

func TestCheck_ElifConditionMustNotChangeStack(t *testing.T) {
	err := checkSrc(t, `
proc f int -> int do
  if 1 do 1 elif 99 2 do 2 else 3 end
end
`)
	require.Error(t, err)
}

func TestCheck_While(t *testing.T) {
	// the while's condition pushes a fresh boolean each iteration without
	// otherwise touching the stack, and the body leaves it exactly as it
	// found it.
	err := checkSrc(t, `
extern drop int -> end
proc f -> do
  while 1 do
    1 drop
  end
end
`)
	require.NoError(t, err)
}

func TestCheck_WhileBodyMustNotChangeStack(t *testing.T) {
	err := checkSrc(t, `
proc f -> do
  while 1 do
    1
  end
end
`)
	require.Error(t, err)
}

func TestCheck_ExternOverloadResolution(t *testing.T) {
	// S3
	err := checkSrc(t, `
extern add int int -> int end
extern add ptr int -> ptr end
proc f ptr int -> ptr do add end
`)
	require.NoError(t, err)
}

func TestCheck_ExternOverloadResolutionFailureListsCandidates(t *testing.T) {
	err := checkSrc(t, `
extern add int int -> int end
extern add ptr int -> ptr end
proc f -> ptr do add end
`)
	require.Error(t, err)
	var te *TypeError
	require.ErrorAs(t, err, &te)
	assert.Len(t, te.Diag.Notes, 2)
}

func TestCheck_UnknownCallWarnsAndSkipsRestOfProc(t *testing.T) {
	// a name pre-registered with the word parser's extern table (like the
	// memory-size intrinsics) but never given its own `extern ... end`
	// declaration resolves to OpProcCall yet is absent from Program.Externs:
	// this calls for a warning, not a fatal error, and the rest of that
	// procedure's body is skipped rather than type-checked further.
	toks, err := Lex("t.collver", `proc f -> do intrinsic_plus end`)
	require.NoError(t, err)
	words, err := ParseWords(toks)
	require.NoError(t, err)
	prog, err := ParseProgram("t.collver", words)
	require.NoError(t, err)
	warnings, err := Check(prog)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, SeverityWarning, warnings[0].Severity)
}

func TestCheck_StopsAtFirstProcError(t *testing.T) {
	// Check still reports the first genuine TypeError fatally, even with
	// the unknown-call case downgraded to a warning.
	toks, err := Lex("t.collver", `
proc g -> do intrinsic_plus end
proc f -> int do end
`)
	require.NoError(t, err)
	words, err := ParseWords(toks)
	require.NoError(t, err)
	prog, err := ParseProgram("t.collver", words)
	require.NoError(t, err)
	_, err = Check(prog)
	require.Error(t, err)
	var te *TypeError
	require.ErrorAs(t, err, &te)
}

func TestCheck_ReturnShapeMismatch(t *testing.T) {
	err := checkSrc(t, `proc f -> int do end`)
	require.Error(t, err)
	var te *TypeError
	require.ErrorAs(t, err, &te)
}

func TestRequireMain_MissingIsError(t *testing.T) {
	toks, err := Lex("t.collver", `proc f -> do end`)
	require.NoError(t, err)
	words, err := ParseWords(toks)
	require.NoError(t, err)
	prog, err := ParseProgram("t.collver", words)
	require.NoError(t, err)
	err = RequireMain(prog)
	require.Error(t, err)
	var se *StructureError
	require.ErrorAs(t, err, &se)
}

func TestRequireMain_WrongSignatureIsError(t *testing.T) {
	toks, err := Lex("t.collver", `proc main -> do end`)
	require.NoError(t, err)
	words, err := ParseWords(toks)
	require.NoError(t, err)
	prog, err := ParseProgram("t.collver", words)
	require.NoError(t, err)
	err = RequireMain(prog)
	require.Error(t, err)
	var te *TypeError
	require.ErrorAs(t, err, &te)
}

func TestRequireMain_OK(t *testing.T) {
	toks, err := Lex("t.collver", `
extern drop ptr -> end
extern drop int -> end
proc main int ptr -> int do drop drop 0 end
`)
	require.NoError(t, err)
	words, err := ParseWords(toks)
	require.NoError(t, err)
	prog, err := ParseProgram("t.collver", words)
	require.NoError(t, err)
	_, err = Check(prog)
	require.NoError(t, err)
	assert.NoError(t, RequireMain(prog))
}
