// Package srcio handles Collver's include resolution: instead of chaining
// readers at runtime, a Resolver looks a path up first against a
// working-directory filesystem, then against a bundled std/ filesystem.
package srcio

import (
	"fmt"
	"io/fs"
)

// Resolver locates include targets across two filesystem roots, a
// fallback chain keyed by path lookup rather than reader order.
type Resolver struct {
	// CWD is consulted first; may be nil.
	CWD fs.FS
	// Std is the bundled standard-library root, consulted if CWD misses;
	// may be nil.
	Std fs.FS
}

// Resolved names a successfully located include target.
type Resolved struct {
	// Key uniquely identifies the physical file across roots, for the
	// preprocessor's "each physical path included at most once" rule.
	Key string
	// Content is the file's full contents.
	Content []byte
}

// Resolve looks path up in CWD then Std, returning the first hit. Both
// missing is reported as a single NotFoundError.
func (r Resolver) Resolve(path string) (Resolved, error) {
	if r.CWD != nil {
		if b, err := fs.ReadFile(r.CWD, path); err == nil {
			return Resolved{Key: "./" + path, Content: b}, nil
		}
	}
	if r.Std != nil {
		if b, err := fs.ReadFile(r.Std, path); err == nil {
			return Resolved{Key: "std/" + path, Content: b}, nil
		}
	}
	return Resolved{}, NotFoundError{Path: path}
}

// NotFoundError reports that an include target resolved against neither
// root.
type NotFoundError struct{ Path string }

func (e NotFoundError) Error() string {
	return fmt.Sprintf("include not found in cwd or std/: %q", e.Path)
}
