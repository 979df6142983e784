package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"pybridge/internal/diag"
	"pybridge/internal/source"
)

// palette содержит функции раскраски; при выключенном цвете все - identity.
type palette struct {
	err  func(a ...interface{}) string
	warn func(a ...interface{}) string
	info func(a ...interface{}) string
	code func(a ...interface{}) string
	loc  func(a ...interface{}) string
	note func(a ...interface{}) string
}

func newPalette(colored bool) palette {
	if !colored {
		plain := fmt.Sprint
		return palette{err: plain, warn: plain, info: plain, code: plain, loc: plain, note: plain}
	}
	return palette{
		err:  color.New(color.FgRed, color.Bold).SprintFunc(),
		warn: color.New(color.FgYellow, color.Bold).SprintFunc(),
		info: color.New(color.FgBlue).SprintFunc(),
		code: color.New(color.Faint).SprintFunc(),
		loc:  color.New(color.Bold).SprintFunc(),
		note: color.New(color.FgCyan).SprintFunc(),
	}
}

func (p palette) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return p.err("error")
	case diag.SevWarning:
		return p.warn("warning")
	default:
		return p.info("info")
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <sev> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)

	for _, d := range bag.Items() {
		writePretty(w, d, fs, opts, pal)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintln(w, pal.code(fmt.Sprintf("... %d more diagnostics omitted (limit reached)", n)))
	}
}

func writePretty(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	start, end := fs.Resolve(d.Primary)
	loc := fmt.Sprintf("%s:%d:%d", formatPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col)

	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.loc(loc), pal.severity(d.Severity), pal.code(d.Code.ID()), d.Message)

	markerColor := pal.err
	switch d.Severity {
	case diag.SevWarning:
		markerColor = pal.warn
	case diag.SevInfo:
		markerColor = pal.info
	}
	writeContext(w, fs, d.Primary, start, end, pal, markerColor)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			nstart, _ := fs.Resolve(note.Span)
			nloc := fmt.Sprintf("%s:%d:%d", formatPath(fs, note.Span.File, opts.PathMode), nstart.Line, nstart.Col)
			fmt.Fprintf(w, "  %s: %s (%s)\n", pal.note("note"), note.Msg, nloc)
		}
	}
	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s: %s\n", pal.note("help"), fix.Title)
		}
	}
}

// writeContext печатает строку исходника с подчёркиванием ^~~~ по span'у.
// Многострочные span'ы подчёркиваются до конца первой строки.
func writeContext(w io.Writer, fs *source.FileSet, span source.Span, start, end source.LineCol, pal palette, markerColor func(a ...interface{}) string) {
	file := fs.Get(span.File)
	line := file.GetLine(start.Line)
	if line == "" {
		return
	}

	gutter := fmt.Sprintf("%4d", start.Line)
	fmt.Fprintf(w, "%s | %s\n", pal.code(gutter), line)

	col := int(start.Col)
	if col < 1 {
		col = 1
	}
	width := 1
	if end.Line == start.Line && int(end.Col) > col {
		width = int(end.Col) - col
	} else if end.Line > start.Line {
		width = len(line) - col + 1
	}
	if width < 1 {
		width = 1
	}
	if col-1+width > len(line) {
		width = max(len(line)-col+1, 1)
	}

	// табуляция в начале строки сохраняется, чтобы каретка не съезжала
	indent := make([]byte, 0, col-1)
	for i := 0; i < col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			indent = append(indent, '\t')
		} else {
			indent = append(indent, ' ')
		}
	}

	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s | %s%s\n", pal.code("    "), indent, markerColor(marker))
}
