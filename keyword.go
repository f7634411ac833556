package collver

import "fmt"

// Keyword is the closed set of structural words recognized by the word
// parser.
type Keyword int

const (
	KeywordMemory Keyword = iota
	KeywordProc
	KeywordExtern
	KeywordArrow
	KeywordIf
	KeywordElif
	KeywordWhile
	KeywordDo
	KeywordElse
	KeywordEnd
)

var keywordText = map[Keyword]string{
	KeywordMemory: "memory",
	KeywordProc:   "proc",
	KeywordExtern: "extern",
	KeywordArrow:  "->",
	KeywordIf:     "if",
	KeywordElif:   "elif",
	KeywordWhile:  "while",
	KeywordDo:     "do",
	KeywordElse:   "else",
	KeywordEnd:    "end",
}

var textToKeyword = func() map[string]Keyword {
	m := make(map[string]Keyword, len(keywordText))
	for k, s := range keywordText {
		m[s] = k
	}
	return m
}()

func (k Keyword) String() string {
	if s, ok := keywordText[k]; ok {
		return s
	}
	return fmt.Sprintf("Keyword(%d)", int(k))
}

// lookupKeyword resolves a bare identifier to a Keyword, if it is one.
func lookupKeyword(s string) (Keyword, bool) {
	k, ok := textToKeyword[s]
	return k, ok
}

// DataType is the closed set of primitive types.
type DataType int

const (
	DataInt DataType = iota
	DataStr
	DataPtr
	DataUnknown
)

var dataTypeText = map[DataType]string{
	DataInt:     "int",
	DataStr:     "str",
	DataPtr:     "ptr",
	DataUnknown: "unknown",
}

var textToDataType = func() map[string]DataType {
	m := make(map[string]DataType, len(dataTypeText))
	for d, s := range dataTypeText {
		m[s] = d
	}
	return m
}()

func (d DataType) String() string {
	if s, ok := dataTypeText[d]; ok {
		return s
	}
	return fmt.Sprintf("DataType(%d)", int(d))
}

// lookupDataType resolves a bare identifier to a DataType, if it is one.
func lookupDataType(s string) (DataType, bool) {
	d, ok := textToDataType[s]
	return d, ok
}
