package source

import (
	"bytes"
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		changed bool
	}{
		{"plain\ntext", "plain\ntext", false},
		{"a\r\nb\r\nc", "a\nb\nc", true},
		{"lone\rcr", "lone\rcr", false},
		{"mix\r\nand\rlone", "mix\nand\rlone", true},
	}
	for _, tc := range cases {
		got, changed := normalizeCRLF([]byte(tc.in))
		if !bytes.Equal(got, []byte(tc.want)) || changed != tc.changed {
			t.Errorf("normalizeCRLF(%q) = %q/%v, want %q/%v", tc.in, got, changed, tc.want, tc.changed)
		}
	}
}

func TestRemoveBOM(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("fn")...)
	got, had := removeBOM(in)
	if !had || string(got) != "fn" {
		t.Fatalf("removeBOM = %q/%v", got, had)
	}
	if _, had := removeBOM([]byte("fn")); had {
		t.Fatal("false positive BOM")
	}
}

func TestToLineCol(t *testing.T) {
	idx := buildLineIndex([]byte("ab\ncdef\ng"))
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // the \n itself
		{3, LineCol{2, 1}},
		{6, LineCol{2, 4}},
		{8, LineCol{3, 1}},
	}
	for _, tc := range cases {
		if got := toLineCol(idx, tc.off); got != tc.want {
			t.Errorf("toLineCol(%d) = %v, want %v", tc.off, got, tc.want)
		}
	}
}

func TestToLineColPastFirstLine(t *testing.T) {
	// Offsets after a newline must land on the following line, not stay
	// on the line of the newline itself.
	src := []byte("fn new() {}\nfn area(&self) {}\n")
	idx := buildLineIndex(src)

	if got := toLineCol(idx, 15); got != (LineCol{2, 4}) {
		t.Errorf("toLineCol(15) = %v, want {2 4}", got)
	}
	if got := toLineCol(idx, 12); got != (LineCol{2, 1}) {
		t.Errorf("toLineCol(12) = %v, want {2 1}", got)
	}
	if got := toLineCol(idx, 29); got != (LineCol{2, 18}) {
		t.Errorf("toLineCol(29) = %v, want {2 18}", got)
	}
}
