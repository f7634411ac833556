package collver

import (
	"embed"
	"io/fs"

	"github.com/aidnem/collver/internal/compilerr"
	"github.com/aidnem/collver/internal/srcio"
	"github.com/aidnem/collver/internal/tracelog"
)

//go:embed std
var stdFS embed.FS

// PipelineOption configures a Compile run: a closed set of small value
// types, each knowing how to apply itself to a *Pipeline, combined with
// PipelineOptions into a single composite option.
type PipelineOption interface{ apply(p *Pipeline) }

var defaultPipelineOptions = PipelineOptions(
	WithMaxIncludeDepth(64),
)

// PipelineOptions flattens and combines opts into a single PipelineOption.
func PipelineOptions(opts ...PipelineOption) PipelineOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(*Pipeline) {}

type options []PipelineOption

func (opts options) apply(p *Pipeline) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(p)
		}
	}
}

type logfOption func(mess string, args ...interface{})

func (f logfOption) apply(p *Pipeline) { p.log.Logf = f }

// WithLogf routes the pipeline's phase-by-phase trace through f. The zero
// Pipeline is silent.
func WithLogf(f func(mess string, args ...interface{})) PipelineOption {
	return logfOption(f)
}

type cwdFSOption struct{ fs.FS }

func (o cwdFSOption) apply(p *Pipeline) { p.cwd = o.FS }

// WithCWDFS sets the filesystem root consulted first for `include`
// targets. Defaults to nil (no working-directory includes).
func WithCWDFS(f fs.FS) PipelineOption { return cwdFSOption{f} }

type stdFSOption struct{ fs.FS }

func (o stdFSOption) apply(p *Pipeline) { p.std = o.FS }

// WithStdFS overrides the bundled standard-library root consulted when an
// include isn't found under the CWD root. Tests use this to substitute an
// in-memory fstest.MapFS; production callers rarely need it, since the
// real std/ tree is already embedded.
func WithStdFS(f fs.FS) PipelineOption { return stdFSOption{f} }

type maxIncludeDepthOption int

func (o maxIncludeDepthOption) apply(p *Pipeline) { p.maxIncludeDepth = int(o) }

// WithMaxIncludeDepth bounds the number of include-expansion fixed-point
// passes before the preprocessor gives up and reports an error, guarding
// against a runaway expansion (e.g. two files including each other through
// a long chain of intermediaries that never converges).
func WithMaxIncludeDepth(n int) PipelineOption { return maxIncludeDepthOption(n) }

type requireMainOption bool

func (o requireMainOption) apply(p *Pipeline) { p.requireMain = bool(o) }

// WithRequireMain toggles the `main` entry-point invariant (RequireMain).
// Off by default, so a fragment compiled for its own sake — a library, a
// single test scenario — doesn't need to define one.
func WithRequireMain(require bool) PipelineOption { return requireMainOption(require) }

// Pipeline runs the full front end — lex, preprocess, parse words, parse
// program, type-check, cross-reference — over one source file. It holds
// no state between Compile calls; every field is just configuration.
type Pipeline struct {
	cwd             fs.FS
	std             fs.FS
	maxIncludeDepth int
	requireMain     bool
	log             tracelog.Logger
}

// NewPipeline builds a Pipeline from opts, applying defaultPipelineOptions
// first so callers only need to override what they care about.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{}
	PipelineOptions(defaultPipelineOptions, PipelineOptions(opts...)).apply(p)
	return p
}

func (p *Pipeline) stdFS() fs.FS {
	if p.std != nil {
		return p.std
	}
	sub, err := fs.Sub(stdFS, "std")
	if err != nil {
		return nil
	}
	return sub
}

// Compile runs path/src through every phase, stopping at (and returning)
// the first phase's error. Each phase aborts via compilerr.Abort, a
// synchronous panic-based phase boundary, so Compile itself reads as a
// single straight-line script instead of a chain of
// `if err != nil { return nil, err }` blocks.
func (p *Pipeline) Compile(path string, src string) (*Program, error) {
	var prog *Program
	err := compilerr.Catch(func() {
		p.log.Printf("lex", "%s", path)
		toks, err := Lex(path, src)
		compilerr.Abort(err)

		p.log.Printf("preprocess", "%s", path)
		pp := Preprocessor{
			Resolver:        srcio.Resolver{CWD: p.cwd, Std: p.stdFS()},
			MaxIncludeDepth: p.maxIncludeDepth,
		}
		toks, err = pp.Run(toks)
		compilerr.Abort(err)

		p.log.Printf("words", "%s", path)
		words, err := ParseWords(toks)
		compilerr.Abort(err)

		p.log.Printf("program", "%s", path)
		pr, err := ParseProgram(path, words)
		compilerr.Abort(err)

		p.log.Printf("typecheck", "%s", path)
		warnings, checkErr := Check(pr)
		for _, warn := range warnings {
			p.log.Printf("typecheck", "%s", warn)
		}
		compilerr.Abort(checkErr)

		if p.requireMain {
			p.log.Printf("entrypoint", "%s", path)
			compilerr.Abort(RequireMain(pr))
		}

		p.log.Printf("xref", "%s", path)
		for _, name := range pr.ProcOrder {
			compilerr.Abort(CrossReference(pr.Procs[name]))
		}

		prog = pr
	})
	if err != nil {
		return nil, err
	}
	return prog, nil
}

// Compile is a convenience wrapper around NewPipeline(opts...).Compile,
// for one-shot callers that don't need to reuse a configured Pipeline
// across several source files.
func Compile(path string, src string, opts ...PipelineOption) (*Program, error) {
	return NewPipeline(opts...).Compile(path, src)
}
