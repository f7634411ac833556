package collver

import "github.com/aidnem/collver/internal/srcio"

// Preprocessor runs three sequential token-level passes: include
// expansion, const extraction/substitution, and alias
// extraction/substitution.
type Preprocessor struct {
	// Resolver locates include targets, searching CWD then a bundled std/
	// directory.
	Resolver srcio.Resolver
	// MaxIncludeDepth caps the number of include-expansion fixed-point
	// passes, guarding against a cyclic include graph. Zero means
	// unlimited.
	MaxIncludeDepth int
}

// Run applies include expansion, then const evaluation, then alias
// expansion, in that order — each pass consumes the whole token stream
// produced by the previous one.
func (p Preprocessor) Run(toks []Token) ([]Token, error) {
	toks, err := expandIncludes(toks, p.Resolver, p.MaxIncludeDepth)
	if err != nil {
		return nil, err
	}
	toks, err = evalConsts(toks)
	if err != nil {
		return nil, err
	}
	toks, err = expandAliases(toks)
	if err != nil {
		return nil, err
	}
	return toks, nil
}
