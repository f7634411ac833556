package collver

import (
	"fmt"

	"github.com/aidnem/collver/internal/rpn"
)

// evalConsts finds `const NAME … end` blocks, evaluates their body on the
// rpn package's tiny integer machine, removes them from the stream, and
// substitutes INT tokens for later references to NAME. A single Evaluator
// is shared across every const block in the stream so its offset counter
// persists for the whole compilation.
func evalConsts(toks []Token) ([]Token, error) {
	consts := make(map[string]int64)
	eval := &rpn.Evaluator{}
	var out []Token
	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.Type == TokenWord && t.Text == "const" {
			i++
			if i >= len(toks) || toks[i].Type != TokenWord {
				return nil, &PreprocessError{Diag: Diagnostic{
					Loc: t.Loc, Severity: SeverityError,
					Message: "expected a name after `const`",
				}}
			}
			name := toks[i].Text
			i++
			bodyStart := i
			for i < len(toks) && !(toks[i].Type == TokenWord && toks[i].Text == "end") {
				i++
			}
			if i >= len(toks) {
				return nil, &PreprocessError{Diag: Diagnostic{
					Loc: t.Loc, Severity: SeverityError,
					Message: fmt.Sprintf("unterminated const %q: missing `end`", name),
				}}
			}
			body := toks[bodyStart:i]
			i++ // consume end

			ops, err := constBodyOps(body, consts)
			if err != nil {
				return nil, &PreprocessError{Diag: Diagnostic{Loc: t.Loc, Severity: SeverityError, Message: err.Error()}}
			}
			val, err := eval.Eval(ops, func(n string) (int64, bool) { v, ok := consts[n]; return v, ok })
			if err != nil {
				return nil, &PreprocessError{Diag: Diagnostic{
					Loc: t.Loc, Severity: SeverityError,
					Message: fmt.Sprintf("const %q: %v", name, err),
				}}
			}
			consts[name] = val
			continue
		}
		if t.Type == TokenWord {
			if v, ok := consts[t.Text]; ok {
				out = append(out, Token{Type: TokenInt, Int: v, Loc: t.Loc})
				i++
				continue
			}
		}
		out = append(out, t)
		i++
	}
	return out, nil
}

// constBodyOps translates a const body's raw tokens into rpn.Ops. Unknown
// words produce a PreprocessError.
func constBodyOps(body []Token, consts map[string]int64) ([]rpn.Op, error) {
	ops := make([]rpn.Op, 0, len(body))
	for _, t := range body {
		switch {
		case t.Type == TokenInt:
			ops = append(ops, rpn.Op{Kind: rpn.OpPush, Value: t.Int})
		case t.Type == TokenWord && t.Text == "+":
			ops = append(ops, rpn.Op{Kind: rpn.OpAdd})
		case t.Type == TokenWord && t.Text == "-":
			ops = append(ops, rpn.Op{Kind: rpn.OpSub})
		case t.Type == TokenWord && t.Text == "*":
			ops = append(ops, rpn.Op{Kind: rpn.OpMul})
		case t.Type == TokenWord && t.Text == "offset":
			ops = append(ops, rpn.Op{Kind: rpn.OpOffset})
		case t.Type == TokenWord && t.Text == "reset":
			ops = append(ops, rpn.Op{Kind: rpn.OpReset})
		case t.Type == TokenWord:
			if _, ok := consts[t.Text]; ok {
				ops = append(ops, rpn.Op{Kind: rpn.OpRef, Name: t.Text})
				continue
			}
			return nil, fmt.Errorf("unknown word %q in const body", t.Text)
		default:
			return nil, fmt.Errorf("unexpected %v token in const body", t.Type)
		}
	}
	return ops, nil
}
