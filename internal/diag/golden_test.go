package diag

import (
	"testing"

	"pybridge/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/testdata/golden/widget.rs", []byte("a\nb\n"), 0)

	bag := NewBag(10)
	bag.Add(Diagnostic{
		Severity: SevError,
		Code:     MetaMarkerConflict,
		Message:  "first line\nsecond",
		Primary:  source.Span{File: file, Start: 0, End: 1},
		Notes: []Note{
			{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
		},
	})
	bag.Add(Diagnostic{
		Severity: SevWarning,
		Code:     ShapeInfo,
		Message:  "another",
		Primary:  source.Span{File: file, Start: 2, End: 3},
	})

	expected := "error MET1001 testdata/golden/widget.rs:1:1 first line second\n" +
		"note MET1001 testdata/golden/widget.rs:2:1 note line\n" +
		"warning SHP3000 testdata/golden/widget.rs:2:1 another"

	if got := FormatGoldenDiagnostics(bag, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatGoldenDiagnosticsEmpty(t *testing.T) {
	fs := source.NewFileSet()
	if got := FormatGoldenDiagnostics(NewBag(1), fs, false); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
