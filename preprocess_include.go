package collver

import "github.com/aidnem/collver/internal/srcio"

// expandIncludes replaces `include "<path>"` pairs with the lexed contents
// of the referenced file, iterating to a fixed point (spliced content may
// itself contain further includes). Each resolved physical path is
// recorded so later includes of the same file are no-ops.
func expandIncludes(toks []Token, resolver srcio.Resolver, maxDepth int) ([]Token, error) {
	included := make(map[string]bool)
	for pass := 0; ; pass++ {
		next, changed, err := includePass(toks, resolver, included)
		if err != nil {
			return nil, err
		}
		toks = next
		if !changed {
			return toks, nil
		}
		if maxDepth > 0 && pass >= maxDepth {
			return nil, &PreprocessError{Diag: Diagnostic{
				Severity: SeverityError,
				Message:  "include expansion did not reach a fixed point within the configured depth",
			}}
		}
	}
}

func includePass(toks []Token, resolver srcio.Resolver, included map[string]bool) ([]Token, bool, error) {
	var out []Token
	changed := false
	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.Type == TokenWord && t.Text == "include" {
			if i+1 >= len(toks) || toks[i+1].Type != TokenString {
				return nil, false, &PreprocessError{Diag: Diagnostic{
					Loc: t.Loc, Severity: SeverityError,
					Message: "`include` must be followed by a string literal path",
				}}
			}
			pathTok := toks[i+1]
			res, err := resolver.Resolve(pathTok.Text)
			if err != nil {
				return nil, false, &PreprocessError{Diag: Diagnostic{
					Loc: pathTok.Loc, Severity: SeverityError,
					Message: err.Error(),
				}}
			}
			i += 2
			changed = true
			if included[res.Key] {
				continue // already included: no-op
			}
			included[res.Key] = true
			lexed, err := Lex(pathTok.Text, string(res.Content))
			if err != nil {
				return nil, false, err
			}
			out = append(out, lexed...)
			continue
		}
		out = append(out, t)
		i++
	}
	return out, changed, nil
}
