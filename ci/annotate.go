// Package ci writes GitHub Actions workflow command annotations
// (::error, ::warning, ::notice) alongside plain log lines.
package ci

import (
	"fmt"
	"io"
	"os"
)

type Annotator struct {
	out io.Writer
	err io.Writer
}

func NewAnnotator(out, err io.Writer) *Annotator {
	return &Annotator{out: out, err: err}
}

// Default writes to the process's stdout and stderr.
func Default() *Annotator {
	return NewAnnotator(os.Stdout, os.Stderr)
}

// Errorf emits an error annotation on stderr. An empty file omits the
// file= property.
func (a *Annotator) Errorf(file string, format string, args ...any) {
	if file == "" {
		fmt.Fprintf(a.err, "::error::%s\n", fmt.Sprintf(format, args...))
		return
	}
	fmt.Fprintf(a.err, "::error file=%s::%s\n", file, fmt.Sprintf(format, args...))
}

// Warningf emits a warning annotation on stderr.
func (a *Annotator) Warningf(format string, args ...any) {
	fmt.Fprintf(a.err, "::warning::%s\n", fmt.Sprintf(format, args...))
}

// Noticef emits a notice annotation on stdout.
func (a *Annotator) Noticef(format string, args ...any) {
	fmt.Fprintf(a.out, "::notice::%s\n", fmt.Sprintf(format, args...))
}

// Printf emits a plain informational line on stdout.
func (a *Annotator) Printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}
