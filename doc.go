// Package collver implements the front end of Collver, a small
// stack-oriented systems language: lexing, preprocessing (include
// expansion, compile-time constants, aliases), word and program parsing,
// a stack-shape type checker, and a control-flow cross-referencer.
//
// The pipeline is synchronous and single-threaded end to end, in the
// order Lex, Preprocessor.Run, ParseWords, ParseProgram, Check,
// CrossReference.
// Compile (or a configured Pipeline) runs all six phases and returns the
// first phase's error, wrapped as one of LexError, PreprocessError,
// ParseError, TypeError, or StructureError — every diagnostic these
// produce renders as the stable "path:row:col:severity: message" line a
// caller can depend on for tests or tooling.
//
// What comes out the other end is a Program: named, typed procedures and
// externs, and global memories, fully cross-referenced and ready for a
// separate code generator to lower to LLVM IR. Generating that IR, and
// running the resulting program, are both out of scope here.
package collver
