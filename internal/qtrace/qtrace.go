// Package qtrace provides an env-var-gated diagnostic writer for the
// search-heavy algorithms (transformation-chain BFS, q-Petkovsek candidate
// enumeration, findprod), so their progress can be inspected without
// threading a logger through every call site.
package qtrace

import (
	"fmt"
	"io"
	"os"
)

var enabled = os.Getenv("QKANGAROO_DEBUG") == "1"

// Enabled reports whether tracing is turned on for this process.
func Enabled() bool { return enabled }

// Printf writes a trace line to w if tracing is enabled, otherwise it is a
// no-op.
func Printf(w io.Writer, format string, a ...any) {
	if enabled {
		fmt.Fprintf(w, format, a...)
	}
}

// Stderrf writes a trace line to os.Stderr if tracing is enabled.
func Stderrf(format string, a ...any) {
	Printf(os.Stderr, format, a...)
}
