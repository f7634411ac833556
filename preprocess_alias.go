package collver

import "fmt"

// expandAliases finds `alias NAME VALUE end` blocks and records a
// single-token rewrite: later WORD tokens matching NAME are replaced by a
// token carrying VALUE's type and payload, but the reference site's own
// location. Aliases are single-token, so no cycle is possible by
// construction.
func expandAliases(toks []Token) ([]Token, error) {
	aliases := make(map[string]Token)
	var out []Token
	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.Type == TokenWord && t.Text == "alias" {
			i++
			if i >= len(toks) || toks[i].Type != TokenWord {
				return nil, &PreprocessError{Diag: Diagnostic{
					Loc: t.Loc, Severity: SeverityError,
					Message: "expected a name after `alias`",
				}}
			}
			name := toks[i].Text
			i++
			if i >= len(toks) {
				return nil, &PreprocessError{Diag: Diagnostic{
					Loc: t.Loc, Severity: SeverityError,
					Message: fmt.Sprintf("alias %q: expected a value", name),
				}}
			}
			value := toks[i]
			i++
			if i >= len(toks) || !(toks[i].Type == TokenWord && toks[i].Text == "end") {
				return nil, &PreprocessError{Diag: Diagnostic{
					Loc: t.Loc, Severity: SeverityError,
					Message: fmt.Sprintf("unterminated alias %q: missing `end`", name),
				}}
			}
			i++ // consume end
			aliases[name] = value
			continue
		}
		if t.Type == TokenWord {
			if v, ok := aliases[t.Text]; ok {
				out = append(out, Token{Type: v.Type, Int: v.Int, Text: v.Text, Loc: t.Loc})
				i++
				continue
			}
		}
		out = append(out, t)
		i++
	}
	return out, nil
}
