package source

import "testing"

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lib.rs", []byte("fn new() {}\nfn area(&self) {}\n"))

	start, end := fs.Resolve(Span{File: id, Start: 15, End: 19})
	if start.Line != 2 || start.Col != 4 {
		t.Fatalf("start = %d:%d, want 2:4", start.Line, start.Col)
	}
	if end.Line != 2 || end.Col != 8 {
		t.Fatalf("end = %d:%d, want 2:8", end.Line, end.Col)
	}
}

func TestFileSetGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lib.rs", []byte("one\ntwo\nthree"))
	f := fs.Get(id)

	cases := []struct {
		line uint32
		want string
	}{
		{1, "one"},
		{2, "two"},
		{3, "three"},
		{4, ""},
		{0, ""},
	}
	for _, tc := range cases {
		if got := f.GetLine(tc.line); got != tc.want {
			t.Errorf("GetLine(%d) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestFileSetGetByPath(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("./a/b.rs", []byte("x"))

	if _, ok := fs.GetByPath("a/b.rs"); !ok {
		t.Fatal("expected normalized path lookup to succeed")
	}
	if _, ok := fs.GetByPath("missing.rs"); ok {
		t.Fatal("unexpected hit for missing path")
	}
}

func TestLoadNormalizesCRLF(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("win.rs", []byte("a\nb"), FileNormalizedCRLF)
	f := fs.Get(id)
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Fatal("flag lost")
	}
	if len(f.LineIdx) != 1 || f.LineIdx[0] != 1 {
		t.Fatalf("LineIdx = %v, want [1]", f.LineIdx)
	}
}
