package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"pybridge/internal/diag"
	"pybridge/internal/source"
)

// Short prints one line per diagnostic, grep-friendly:
// <path>:<line>:<col>: <sev>[CODE]: <message>
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, pathMode PathMode) {
	if bag == nil || fs == nil {
		return
	}
	for _, d := range bag.Items() {
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s[%s]: %s\n",
			formatPath(fs, d.Primary.File, pathMode), start.Line, start.Col,
			strings.ToLower(d.Severity.String()), d.Code.ID(), d.Message)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "... %d more diagnostics omitted (limit reached)\n", n)
	}
}
