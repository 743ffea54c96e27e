package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func uncompressedRenderer() *Renderer {
	cfg := DefaultRenderConfig()
	cfg.Compress = false
	return NewRenderer(cfg)
}

func TestRenderProducesValidSkeleton(t *testing.T) {
	out := uncompressedRenderer().Render([]Section{
		{Title: "Overview:", Body: []string{"Revenue held steady."}},
	})

	if !bytes.HasPrefix(out, []byte("%PDF-1.4")) {
		t.Fatalf("output does not start with PDF header: %q", out[:16])
	}
	if !bytes.HasSuffix(out, []byte("%%EOF\n")) {
		t.Errorf("output does not end with EOF marker")
	}
	for _, want := range []string{
		"/Type /Catalog",
		"/Type /Pages",
		"/BaseFont /Helvetica",
		"/BaseFont /Helvetica-Bold",
		"startxref",
		"(" + DocumentTitle + ") Tj",
		"(Overview:) Tj",
		"(Revenue held steady.) Tj",
	} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderPaginates(t *testing.T) {
	var sections []Section
	for i := 0; i < 12; i++ {
		body := make([]string, 20)
		for j := range body {
			body[j] = "A body line of unremarkable length for layout purposes."
		}
		sections = append(sections, Section{Title: "Section heading:", Body: body})
	}

	out := uncompressedRenderer().Render(sections)

	pages := bytes.Count(out, []byte("/Type /Page\n"))
	if pages < 2 {
		t.Fatalf("expected multiple pages, got %d", pages)
	}
	// Every page repeats the title block.
	titles := bytes.Count(out, []byte("("+DocumentTitle+") Tj"))
	if titles != pages {
		t.Errorf("title drawn on %d pages, want %d", titles, pages)
	}
}

func TestRenderDegradesNonWinAnsi(t *testing.T) {
	out := uncompressedRenderer().Render([]Section{
		{Title: "Risks:", Body: []string{"Deficit — severe 中 risk"}},
	})

	if bytes.Contains(out, []byte("中")) {
		t.Errorf("CJK rune leaked into output")
	}
	if !bytes.Contains(out, []byte("(Deficit  severe  risk) Tj")) {
		t.Errorf("degraded line not found in output")
	}
}

func TestRenderEscapesDelimiters(t *testing.T) {
	out := uncompressedRenderer().Render([]Section{
		{Title: "Notes:", Body: []string{`(net) \ balance`}},
	})
	if !bytes.Contains(out, []byte(`(\(net\) \\ balance) Tj`)) {
		t.Errorf("delimiters not escaped in output")
	}
}

func TestRenderFontFallback(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.BaseFont = "Comic Sans"
	r := NewRenderer(cfg)
	if r.font != "Helvetica" || r.boldFont != "Helvetica-Bold" {
		t.Fatalf("fallback fonts = %q/%q", r.font, r.boldFont)
	}

	cfg.BaseFont = "Times-Roman"
	r = NewRenderer(cfg)
	if r.font != "Times-Roman" || r.boldFont != "Times-Bold" {
		t.Fatalf("core fonts = %q/%q", r.font, r.boldFont)
	}
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	r := NewRenderer(DefaultRenderConfig())

	if err := r.RenderFile([]Section{{Title: "Overview:", Body: []string{"ok"}}}, path); err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("written file is not a PDF")
	}
}

func TestRenderFileBadPath(t *testing.T) {
	r := NewRenderer(DefaultRenderConfig())
	err := r.RenderFile(nil, filepath.Join(t.TempDir(), "missing", "report.pdf"))
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}

func TestWrapText(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  []string
	}{
		{"short", 20, []string{"short"}},
		{"one two three four", 9, []string{"one two", "three", "four"}},
		{"", 10, []string{""}},
	}
	for _, tc := range cases {
		got := wrapText(tc.in, tc.limit)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") {
			t.Errorf("wrapText(%q, %d) = %v, want %v", tc.in, tc.limit, got, tc.want)
		}
	}
}
