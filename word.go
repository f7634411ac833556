package collver

import (
	"fmt"

	"github.com/aidnem/collver/internal/symtab"
)

// OperationType is the closed set of word operation kinds.
type OperationType int

const (
	OpPushInt OperationType = iota
	OpPushString
	OpKeyword
	OpDataType
	OpMemoryName
	OpPushMemory
	OpProcName
	OpProcCall
)

func (op OperationType) String() string {
	switch op {
	case OpPushInt:
		return "push-int"
	case OpPushString:
		return "push-string"
	case OpKeyword:
		return "keyword"
	case OpDataType:
		return "data-type"
	case OpMemoryName:
		return "memory-name"
	case OpPushMemory:
		return "push-memory"
	case OpProcName:
		return "proc-name"
	case OpProcCall:
		return "proc-call"
	default:
		return fmt.Sprintf("OperationType(%d)", int(op))
	}
}

// Word is a tagged instruction derived from a Token. Only the field
// matching Op is meaningful: Int for OpPushInt, Str for
// OpPushString/OpMemoryName/OpPushMemory/OpProcName/OpProcCall, Keyword
// for OpKeyword, DataType for OpDataType. HasJmp/Jmp are filled in later
// by CrossReference for control-flow keyword words.
type Word struct {
	Op       OperationType
	Int      int64
	Str      string
	Keyword  Keyword
	DataType DataType
	Token    Token
	HasJmp   bool
	Jmp      int
}

// builtinExterns are extern-callable intrinsics the preprocessor's
// memory-size evaluator recognizes. They are seeded into the word
// parser's extern name set from the start
// so `intrinsic_plus` etc. resolve as ordinary proc-call words wherever
// they're used, including inside a `memory` size body.
var builtinExterns = []string{"intrinsic_plus", "intrinsic_minus", "intrinsic_mult"}

// ParseWords classifies a flat token stream into words, resolving bare
// identifiers against the running proc/extern/memory name tables. The
// "previous word was a defining keyword" rule takes priority over
// keyword/data-type classification, so that a proc, extern, or memory
// whose name happens to collide with a keyword or primitive type
// spelling is still registered as a name rather than misclassified.
func ParseWords(tokens []Token) ([]Word, error) {
	proc := symtab.New()
	extern := symtab.New()
	mem := symtab.New()
	for _, name := range builtinExterns {
		extern.Register(name)
	}

	var words []Word
	var prevKeyword Keyword
	havePrevKeyword := false

	for _, tok := range tokens {
		switch tok.Type {
		case TokenInt:
			words = append(words, Word{Op: OpPushInt, Int: tok.Int, Token: tok})
			havePrevKeyword = false
			continue
		case TokenString:
			words = append(words, Word{Op: OpPushString, Str: tok.Text, Token: tok})
			havePrevKeyword = false
			continue
		}

		text := tok.Text

		if havePrevKeyword && (prevKeyword == KeywordProc || prevKeyword == KeywordExtern || prevKeyword == KeywordMemory) {
			havePrevKeyword = false
			if prevKeyword == KeywordMemory {
				mem.Register(text)
				words = append(words, Word{Op: OpMemoryName, Str: text, Token: tok})
			} else {
				if prevKeyword == KeywordExtern {
					extern.Register(text)
				} else {
					proc.Register(text)
				}
				words = append(words, Word{Op: OpProcName, Str: text, Token: tok})
			}
			continue
		}

		if text == "here" {
			words = append(words, Word{Op: OpPushString, Str: tok.Loc.String(), Token: tok})
			havePrevKeyword = false
			continue
		}

		if kw, ok := lookupKeyword(text); ok {
			words = append(words, Word{Op: OpKeyword, Keyword: kw, Token: tok})
			prevKeyword = kw
			havePrevKeyword = true
			continue
		}

		if dt, ok := lookupDataType(text); ok {
			words = append(words, Word{Op: OpDataType, DataType: dt, Token: tok})
			havePrevKeyword = false
			continue
		}

		if proc.Has(text) || extern.Has(text) {
			words = append(words, Word{Op: OpProcCall, Str: text, Token: tok})
			havePrevKeyword = false
			continue
		}

		if mem.Has(text) {
			words = append(words, Word{Op: OpPushMemory, Str: text, Token: tok})
			havePrevKeyword = false
			continue
		}

		return nil, &ParseError{Diag: Diagnostic{
			Loc: tok.Loc, Severity: SeverityError,
			Message: fmt.Sprintf("unknown word %q", text),
		}}
	}

	return words, nil
}
