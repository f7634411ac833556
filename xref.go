package collver

// openBlock tracks one open if/elif/else or while block during the
// cross-reference scan: the keyword that opened it, the index of a `do`
// still waiting to learn its jump target, and every elif/else keyword in
// the chain still waiting to learn the index of the closing `end`.
type openBlock struct {
	kind            Keyword
	startIdx        int
	doIdx           int
	sawDo           bool
	fallthroughIdxs []int
}

// CrossReference fills in Jmp/HasJmp for every control-flow keyword word
// in a procedure body, in a single forward pass. The resulting edges are:
//
//   - a `do` jumps to the next `elif`/`else`/`end` at its nesting level,
//     taken when the condition is false;
//   - an `elif`/`else` jumps to the chain's closing `end`, taken when
//     control falls into it after a previous branch has already run;
//   - a `while`'s closing `end` jumps back to the `while` itself, to
//     re-evaluate the condition.
//
// `if` chains close without a jump on their own `end`: nothing needs to
// happen there beyond falling through to the next word.
func CrossReference(proc *Proc) error {
	var stack []*openBlock

	for i := range proc.Words {
		w := &proc.Words[i]
		if w.Op != OpKeyword {
			continue
		}
		switch w.Keyword {
		case KeywordIf, KeywordWhile:
			stack = append(stack, &openBlock{kind: w.Keyword, startIdx: i, doIdx: -1})

		case KeywordDo:
			b, err := topBlock(stack, w.Token.Loc)
			if err != nil {
				return err
			}
			b.doIdx = i
			b.sawDo = true

		case KeywordElif, KeywordElse:
			b, err := topBlock(stack, w.Token.Loc)
			if err != nil {
				return err
			}
			if b.kind != KeywordIf {
				return &StructureError{Diag: Diagnostic{
					Loc: w.Token.Loc, Severity: SeverityError,
					Message: "`elif`/`else` cannot appear inside a `while`",
				}}
			}
			if b.doIdx < 0 {
				return &StructureError{Diag: Diagnostic{
					Loc: w.Token.Loc, Severity: SeverityError,
					Message: "`elif`/`else` without a preceding `do`",
				}}
			}
			proc.Words[b.doIdx].Jmp = i
			proc.Words[b.doIdx].HasJmp = true
			b.doIdx = -1
			b.fallthroughIdxs = append(b.fallthroughIdxs, i)

		case KeywordEnd:
			if len(stack) == 0 {
				return &StructureError{Diag: Diagnostic{
					Loc: w.Token.Loc, Severity: SeverityError,
					Message: "`end` without a matching block",
				}}
			}
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !b.sawDo {
				return &StructureError{Diag: Diagnostic{
					Loc: w.Token.Loc, Severity: SeverityError,
					Message: "block has no `do`",
				}}
			}
			if b.doIdx >= 0 {
				proc.Words[b.doIdx].Jmp = i
				proc.Words[b.doIdx].HasJmp = true
			}
			for _, idx := range b.fallthroughIdxs {
				proc.Words[idx].Jmp = i
				proc.Words[idx].HasJmp = true
			}
			if b.kind == KeywordWhile {
				proc.Words[i].Jmp = b.startIdx
				proc.Words[i].HasJmp = true
			}
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return &StructureError{Diag: Diagnostic{
			Loc: proc.Words[top.startIdx].Token.Loc, Severity: SeverityError,
			Message: "block not closed by `end`",
		}}
	}

	return nil
}

func topBlock(stack []*openBlock, loc Location) (*openBlock, error) {
	if len(stack) == 0 {
		return nil, &StructureError{Diag: Diagnostic{
			Loc: loc, Severity: SeverityError,
			Message: "no open block for this keyword",
		}}
	}
	return stack[len(stack)-1], nil
}
