package classify

import (
	"fmt"
	"testing"

	"pybridge/internal/decl"
	"pybridge/internal/diag"
	"pybridge/internal/source"
)

// widgetSource is the text every span below points into.
const widgetSource = "impl Widget {\n" +
	"    fn helper(x: i32) {}\n" +
	"    fn make(&self) {}\n" +
	"    fn flavor(foo: i32) {}\n" +
	"}\n"

const widgetDecls = `{
  "type": "Widget",
  "source": "widget.rs",
  "source_text": ` + "%q" + `,
  "decls": [
    {
      "name": "helper", "name_span": [21, 27], "span": [18, 37],
      "params": [{"name": "x", "type": "i32", "span": [28, 34], "type_span": [31, 34]}]
    },
    {
      "name": "make", "name_span": [46, 50], "span": [43, 59],
      "receiver": {"kind": "ref", "span": [51, 56]},
      "markers": [{"kind": "staticmethod", "span": [43, 45]}]
    },
    {
      "name": "flavor", "name_span": [68, 74], "span": [65, 86],
      "markers": [{"kind": "classattr", "span": [65, 67]}],
      "params": [{"name": "foo", "type": "i32", "span": [75, 83], "type_span": [80, 83]}]
    }
  ]
}`

func loadWidgetBatch(t *testing.T) (*source.FileSet, *decl.Batch) {
	t.Helper()
	fs := source.NewFileSet()
	raw := fmt.Sprintf(widgetDecls, widgetSource)
	batch, err := decl.DecodeBatch(fs, []byte(raw), "")
	if err != nil {
		t.Fatalf("DecodeBatch: %v", err)
	}
	return fs, batch
}

func TestCheckBatchGolden(t *testing.T) {
	fs, batch := loadWidgetBatch(t)

	bag := diag.NewBag(100)
	descs := CheckBatch(batch, bag)

	if len(descs) != 0 {
		t.Fatalf("descriptors = %d, want 0 (every declaration is invalid)", len(descs))
	}

	want := "error ROL2001 widget.rs:2:8 static method needs the \"staticmethod\" marker\n" +
		"error SHP3001 widget.rs:3:13 unexpected receiver\n" +
		"error SHP3003 widget.rs:4:15 class attribute methods cannot take arguments"

	if got := diag.FormatGoldenDiagnostics(bag, fs, false); got != want {
		t.Fatalf("golden mismatch:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestCheckBatchIsByteStableAcrossRuns(t *testing.T) {
	run := func() string {
		fs, batch := loadWidgetBatch(t)
		bag := diag.NewBag(100)
		CheckBatch(batch, bag)
		return diag.FormatGoldenDiagnostics(bag, fs, true)
	}

	if a, b := run(), run(); a != b {
		t.Fatalf("two runs differ:\n%s\n---\n%s", a, b)
	}
}

func TestCheckBatchDeclarationsAreIndependent(t *testing.T) {
	_, batch := loadWidgetBatch(t)

	// validate in given order
	bag := diag.NewBag(100)
	CheckBatch(batch, bag)
	forward := bag.Items()

	// reverse the declarations: every diagnostic must survive, merely
	// reordered, never merged or dropped
	rev := &decl.Batch{Type: batch.Type, Source: batch.Source, File: batch.File}
	for i := len(batch.Decls) - 1; i >= 0; i-- {
		rev.Decls = append(rev.Decls, batch.Decls[i])
	}
	bagRev := diag.NewBag(100)
	CheckBatch(rev, bagRev)
	backward := bagRev.Items()

	if len(forward) != 3 || len(backward) != 3 {
		t.Fatalf("lost diagnostics: %d forward, %d backward", len(forward), len(backward))
	}
	for i := range forward {
		j := len(backward) - 1 - i
		if forward[i].Code != backward[j].Code || forward[i].Primary != backward[j].Primary {
			t.Fatalf("diagnostic %d not preserved across reordering", i)
		}
	}
}

func TestCheckBatchMixedValidity(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("mixed.rs", nil)

	mk := func(start uint32) decl.Decl {
		return decl.Decl{
			Name:     "ok",
			NameSpan: source.Span{File: file, Start: start, End: start + 2},
			Receiver: decl.Receiver{Kind: decl.RecvRef, Span: source.Span{File: file, Start: start + 3, End: start + 8}},
		}
	}
	bad := decl.Decl{
		Name:     "nope",
		NameSpan: source.Span{File: file, Start: 20, End: 24},
	}

	batch := &decl.Batch{
		Type: "T", Source: "mixed.rs", File: file,
		Decls: []decl.Decl{mk(0), bad, mk(40)},
	}

	bag := diag.NewBag(100)
	descs := CheckBatch(batch, bag)

	if len(descs) != 2 {
		t.Fatalf("descriptors = %d, want the two valid declarations", len(descs))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.RoleMissingStatic {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
}
