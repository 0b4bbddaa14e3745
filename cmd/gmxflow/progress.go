package main

import (
	"fmt"
	"os"
)

// progress prints '(i/n)' style progress lines to stderr, all on one
// terminal line. It is a no-op when --quiet is set.
type progress struct {
	n, width int
}

func newProgress(n int) *progress {
	return &progress{n: n, width: len(fmt.Sprint(n))}
}

func (p *progress) step(i int, format string, args ...interface{}) {
	if quiet {
		return
	}
	fmt.Fprintf(os.Stderr, "\r(%*d/%d) ", p.width, i+1, p.n)
	fmt.Fprintf(os.Stderr, format+" ", args...)
}

func (p *progress) done() {
	if quiet {
		return
	}
	fmt.Fprintln(os.Stderr)
}
