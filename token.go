package collver

import "fmt"

// Location names a single position in a source file. Row and column are
// zero-indexed internally (so they can index directly into a lines slice)
// and printed one-indexed, the same "store zero, print one" convention
// line numbers always use.
type Location struct {
	Path string
	Row  int
	Col  int
}

// String renders the one-indexed "path:row:col" form used both standalone
// (the `here` word) and as the prefix of a Diagnostic.
func (loc Location) String() string {
	return fmt.Sprintf("%s:%d:%d", loc.Path, loc.Row+1, loc.Col+1)
}

// TokenType classifies a Token's payload: a tagged union over {INT,
// STRING, WORD}.
type TokenType int

const (
	TokenInt TokenType = iota
	TokenString
	TokenWord
)

func (tt TokenType) String() string {
	switch tt {
	case TokenInt:
		return "INT"
	case TokenString:
		return "STRING"
	case TokenWord:
		return "WORD"
	default:
		return fmt.Sprintf("TokenType(%d)", int(tt))
	}
}

// Token is the lexer's output unit: a located, classified chunk of source
// text. Int is valid when Type == TokenInt; Text holds the unescaped
// string value when Type == TokenString, or the bare identifier when
// Type == TokenWord.
type Token struct {
	Type TokenType
	Int  int64
	Text string
	Loc  Location
}

func (t Token) String() string {
	switch t.Type {
	case TokenInt:
		return fmt.Sprintf("%d", t.Int)
	case TokenString:
		return fmt.Sprintf("%q", t.Text)
	default:
		return t.Text
	}
}
