// Package tracelog implements a leveled logger for a synchronous compile
// pipeline: one aligned "mark: message" line per phase transition or
// diagnostic, with no concurrency and no output-stream wrapping machinery.
package tracelog

import (
	"fmt"
	"strings"
)

// Logger is a leveled logging facility around a caller-supplied sink. The
// zero value is silent.
type Logger struct {
	Logf func(mess string, args ...interface{})

	markWidth int
}

// Printf logs a message under the given mark (e.g. a phase name), padding
// mark to the widest mark seen so far so that a transcript of several
// lines lines up in columns.
func (log *Logger) Printf(mark, mess string, args ...interface{}) {
	if log == nil || log.Logf == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		mark = strings.Repeat(" ", n) + mark
	} else {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.Logf("%v %v", mark, mess)
}
