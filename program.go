package collver

import (
	"fmt"

	"github.com/aidnem/collver/internal/rpn"
)

// TypeAnnotation pairs a DataType with the Location it was introduced at,
// so diagnostics can point back at the word that put a value on the stack.
type TypeAnnotation struct {
	Type DataType
	Loc  Location
}

// ProcTypeSig is a parsed procedure or extern signature: `T1 T2 … -> U1 U2…`.
// ArrowLoc anchors diagnostics about empty signatures
// and is also what an extern's failed-overload diagnostic points each
// candidate at.
type ProcTypeSig struct {
	Args     []TypeAnnotation
	Returns  []TypeAnnotation
	ArrowLoc Location
}

func (sig ProcTypeSig) String() string {
	s := ""
	for _, a := range sig.Args {
		s += a.Type.String() + " "
	}
	s += "->"
	for _, r := range sig.Returns {
		s += " " + r.Type.String()
	}
	return s
}

// Proc is a named, typed procedure: its declaration Location, local
// memories (name to size in bytes), signature, indexed string literals,
// and body words.
type Proc struct {
	Loc     Location
	Locals  map[string]int64
	Sig     ProcTypeSig
	Strings map[int]string
	Words   []Word
}

// Program is the parsed compilation unit: named procedures, overloadable
// externs, and global memories. ProcOrder/GlobalOrder record top-level
// declaration order, since Go maps don't, and a deterministic order is
// load-bearing for reporting the first fatal error consistently.
type Program struct {
	SourcePath  string
	Procs       map[string]*Proc
	ProcOrder   []string
	Externs     map[string][]ProcTypeSig
	Globals     map[string]int64
	GlobalOrder []string
}

// ParseProgram consumes a word stream into a Program: the top level is a
// sequence of `proc`, `extern`, and `memory` declarations.
func ParseProgram(sourcePath string, words []Word) (*Program, error) {
	prog := &Program{
		SourcePath: sourcePath,
		Procs:      make(map[string]*Proc),
		Externs:    make(map[string][]ProcTypeSig),
		Globals:    make(map[string]int64),
	}

	i := 0
	for i < len(words) {
		w := words[i]
		if w.Op != OpKeyword {
			return nil, &ParseError{Diag: Diagnostic{
				Loc: w.Token.Loc, Severity: SeverityError,
				Message: fmt.Sprintf("expected `proc`, `extern`, or `memory`, got %v", w.Token),
			}}
		}
		switch w.Keyword {
		case KeywordProc:
			i++
			name, nameLoc, err := expectName(words, &i, "proc")
			if err != nil {
				return nil, err
			}
			if _, dup := prog.Procs[name]; dup {
				return nil, &ParseError{Diag: Diagnostic{
					Loc: nameLoc, Severity: SeverityError,
					Message: fmt.Sprintf("procedure %q redefined", name),
				}}
			}
			sig, err := parseSig(words, &i, KeywordDo)
			if err != nil {
				return nil, err
			}
			locals := make(map[string]int64)
			for i < len(words) && words[i].Op == OpKeyword && words[i].Keyword == KeywordMemory {
				i++
				memName, _, err := expectMemoryName(words, &i)
				if err != nil {
					return nil, err
				}
				size, err := parseMemoryBody(words, &i)
				if err != nil {
					return nil, err
				}
				locals[memName] = size
			}
			body, strs, err := parseProcBody(words, &i)
			if err != nil {
				return nil, err
			}
			prog.Procs[name] = &Proc{Loc: nameLoc, Locals: locals, Sig: sig, Strings: strs, Words: body}
			prog.ProcOrder = append(prog.ProcOrder, name)

		case KeywordExtern:
			i++
			name, _, err := expectName(words, &i, "extern")
			if err != nil {
				return nil, err
			}
			sig, err := parseSig(words, &i, KeywordEnd)
			if err != nil {
				return nil, err
			}
			prog.Externs[name] = append(prog.Externs[name], sig)

		case KeywordMemory:
			i++
			name, _, err := expectMemoryName(words, &i)
			if err != nil {
				return nil, err
			}
			size, err := parseMemoryBody(words, &i)
			if err != nil {
				return nil, err
			}
			if _, dup := prog.Globals[name]; !dup {
				prog.GlobalOrder = append(prog.GlobalOrder, name)
			}
			prog.Globals[name] = size

		default:
			return nil, &ParseError{Diag: Diagnostic{
				Loc: w.Token.Loc, Severity: SeverityError,
				Message: fmt.Sprintf("expected `proc`, `extern`, or `memory`, got %q", w.Token),
			}}
		}
	}

	return prog, nil
}

func expectName(words []Word, i *int, after string) (string, Location, error) {
	if *i >= len(words) || words[*i].Op != OpProcName {
		loc := endOfWordsLoc(words)
		if *i < len(words) {
			loc = words[*i].Token.Loc
		}
		return "", Location{}, &ParseError{Diag: Diagnostic{
			Loc: loc, Severity: SeverityError,
			Message: fmt.Sprintf("expected a name after `%s`", after),
		}}
	}
	w := words[*i]
	*i++
	return w.Str, w.Token.Loc, nil
}

func expectMemoryName(words []Word, i *int) (string, Location, error) {
	if *i >= len(words) || words[*i].Op != OpMemoryName {
		loc := endOfWordsLoc(words)
		if *i < len(words) {
			loc = words[*i].Token.Loc
		}
		return "", Location{}, &ParseError{Diag: Diagnostic{
			Loc: loc, Severity: SeverityError,
			Message: "expected a name after `memory`",
		}}
	}
	w := words[*i]
	*i++
	return w.Str, w.Token.Loc, nil
}

func endOfWordsLoc(words []Word) Location {
	if len(words) == 0 {
		return Location{}
	}
	return words[len(words)-1].Token.Loc
}

// parseSig consumes data-type words until the arrow, then further
// data-type words until term (`do` for a proc, `end` for an extern),
// recording the arrow's location.
func parseSig(words []Word, i *int, term Keyword) (ProcTypeSig, error) {
	var sig ProcTypeSig

	for {
		if *i >= len(words) {
			return sig, &ParseError{Diag: Diagnostic{
				Loc: endOfWordsLoc(words), Severity: SeverityError,
				Message: "unexpected end of input while parsing a signature: expected `->`",
			}}
		}
		w := words[*i]
		if w.Op == OpKeyword && w.Keyword == KeywordArrow {
			sig.ArrowLoc = w.Token.Loc
			*i++
			break
		}
		if w.Op != OpDataType {
			return sig, &ParseError{Diag: Diagnostic{
				Loc: w.Token.Loc, Severity: SeverityError,
				Message: fmt.Sprintf("expected a data type or `->`, got %q", w.Token),
			}}
		}
		sig.Args = append(sig.Args, TypeAnnotation{Type: w.DataType, Loc: w.Token.Loc})
		*i++
	}

	for {
		if *i >= len(words) {
			return sig, &ParseError{Diag: Diagnostic{
				Loc: endOfWordsLoc(words), Severity: SeverityError,
				Message: fmt.Sprintf("unexpected end of input while parsing a signature: expected `%v`", term),
			}}
		}
		w := words[*i]
		if w.Op == OpKeyword && w.Keyword == term {
			*i++
			break
		}
		if w.Op != OpDataType {
			return sig, &ParseError{Diag: Diagnostic{
				Loc: w.Token.Loc, Severity: SeverityError,
				Message: fmt.Sprintf("expected a data type or `%v`, got %q", term, w.Token),
			}}
		}
		sig.Returns = append(sig.Returns, TypeAnnotation{Type: w.DataType, Loc: w.Token.Loc})
		*i++
	}

	return sig, nil
}

// parseProcBody consumes a procedure's body words, tracking nesting depth
// via block-starters `if`/`while` against `end`. String literals are
// indexed by their position within the returned body slice.
func parseProcBody(words []Word, i *int) ([]Word, map[int]string, error) {
	depth := 1
	var body []Word
	strs := make(map[int]string)
	for {
		if *i >= len(words) {
			return nil, nil, &StructureError{Diag: Diagnostic{
				Loc: endOfWordsLoc(words), Severity: SeverityError,
				Message: "unclosed procedure body: missing `end`",
			}}
		}
		w := words[*i]
		if w.Op == OpKeyword {
			switch w.Keyword {
			case KeywordIf, KeywordWhile:
				depth++
			case KeywordEnd:
				depth--
				if depth == 0 {
					*i++
					return body, strs, nil
				}
			}
		}
		if w.Op == OpPushString {
			strs[len(body)] = w.Str
		}
		body = append(body, w)
		*i++
	}
}

// parseMemoryBody consumes a `<rpn-body> end` sequence for a memory size,
// evaluated on the rpn machine restricted to literal ints and the named
// intrinsics `intrinsic_plus`/`intrinsic_minus`/`intrinsic_mult`. These
// intrinsics are pre-registered externs (word.go's builtinExterns), so
// they already arrive here as OpProcCall words rather than failing
// word-parsing as unknown identifiers.
func parseMemoryBody(words []Word, i *int) (int64, error) {
	var ops []rpn.Op
	for {
		if *i >= len(words) {
			return 0, &StructureError{Diag: Diagnostic{
				Loc: endOfWordsLoc(words), Severity: SeverityError,
				Message: "unterminated memory size body: missing `end`",
			}}
		}
		w := words[*i]
		if w.Op == OpKeyword && w.Keyword == KeywordEnd {
			*i++
			break
		}
		switch {
		case w.Op == OpPushInt:
			ops = append(ops, rpn.Op{Kind: rpn.OpPush, Value: w.Int})
		case w.Op == OpProcCall && w.Str == "intrinsic_plus":
			ops = append(ops, rpn.Op{Kind: rpn.OpAdd})
		case w.Op == OpProcCall && w.Str == "intrinsic_minus":
			ops = append(ops, rpn.Op{Kind: rpn.OpSub})
		case w.Op == OpProcCall && w.Str == "intrinsic_mult":
			ops = append(ops, rpn.Op{Kind: rpn.OpMul})
		default:
			return 0, &ParseError{Diag: Diagnostic{
				Loc: w.Token.Loc, Severity: SeverityError,
				Message: fmt.Sprintf("unexpected %q in memory size body", w.Token),
			}}
		}
		*i++
	}
	var eval rpn.Evaluator
	size, err := eval.Eval(ops, nil)
	if err != nil {
		return 0, &ParseError{Diag: Diagnostic{Severity: SeverityError, Message: fmt.Sprintf("memory size body: %v", err)}}
	}
	return size, nil
}
