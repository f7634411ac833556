// Command gen_testdata compiles every fixture under testdata/*.collver
// concurrently and writes testdata_generated_test.go, a golden table of
// each fixture's outcome (success or the rendered diagnostic). Run with
// `go run scripts/gen_testdata.go` from the module root; the generated file
// carries a go:generate directive for later runs. One goroutine per
// fixture, errgroup for cancellation-on-first-error.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"io/ioutil"
	"log"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"

	collver "github.com/aidnem/collver"
)

var (
	dir = flag.String("dir", "testdata", "directory of .collver fixtures")
	out = flag.String("out", "testdata_generated_test.go", "output file")
)

type result struct {
	name string
	want string
}

func main() {
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := run(ctx, *dir, *out); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context, dir, out string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.collver"))
	if err != nil {
		return err
	}
	sort.Strings(matches)

	results := make([]result, len(matches))

	eg, ctx := errgroup.WithContext(ctx)
	for i, path := range matches {
		i, path := i, path
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			src, err := ioutil.ReadFile(path)
			if err != nil {
				return err
			}
			results[i] = result{
				name: strippedName(path),
				want: compileOutcome(path, string(src)),
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("package collver\n\n")
	buf.WriteString("// Code generated by scripts/gen_testdata.go from testdata/*.collver; DO NOT EDIT.\n\n")
	buf.WriteString("//go:generate go run scripts/gen_testdata.go\n\n")
	buf.WriteString("var generatedFixtureOutcomes = map[string]string{\n")
	for _, r := range results {
		fmt.Fprintf(&buf, "\t%q: %q,\n", r.name, r.want)
	}
	buf.WriteString("}\n")

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("formatting generated source: %w", err)
	}
	return ioutil.WriteFile(out, formatted, 0o644)
}

// compileOutcome runs a fixture through Compile and renders its outcome as
// a single stable string: "ok" on success, or the first diagnostic's
// rendered form on failure.
func compileOutcome(path, src string) string {
	_, err := collver.Compile(path, src, collver.WithRequireMain(false))
	if err == nil {
		return "ok"
	}
	return err.Error()
}

func strippedName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
