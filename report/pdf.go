package report

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// RenderConfig specifies the page layout. Dimensions are in points.
type RenderConfig struct {
	PageWidth  float64
	PageHeight float64

	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64

	// BaseFont is the preferred font family. Only the built-in core fonts
	// can be embedded by name; anything else silently falls back to
	// Helvetica so a missing font can never fail a render.
	BaseFont string

	TitleSize   float64
	SectionSize float64
	BodySize    float64

	// Compress enables FlateDecode content streams.
	Compress bool

	Logger *slog.Logger
}

// DefaultRenderConfig returns US Letter pages with one-inch margins.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		PageWidth:    612,
		PageHeight:   792,
		MarginLeft:   72,
		MarginRight:  72,
		MarginTop:    72,
		MarginBottom: 72,
		BaseFont:     "Helvetica",
		TitleSize:    16,
		SectionSize:  14,
		BodySize:     11,
		Compress:     true,
	}
}

// boldVariants maps each core font to its bold face.
var boldVariants = map[string]string{
	"Helvetica":   "Helvetica-Bold",
	"Times-Roman": "Times-Bold",
	"Courier":     "Courier-Bold",
}

// Renderer lays parsed sections out into a paginated PDF.
type Renderer struct {
	cfg      RenderConfig
	font     string
	boldFont string
	logger   *slog.Logger
}

// NewRenderer creates a Renderer, resolving the font fallback once.
func NewRenderer(cfg RenderConfig) *Renderer {
	def := DefaultRenderConfig()
	if cfg.PageWidth <= 0 {
		cfg.PageWidth = def.PageWidth
	}
	if cfg.PageHeight <= 0 {
		cfg.PageHeight = def.PageHeight
	}
	if cfg.MarginLeft <= 0 {
		cfg.MarginLeft = def.MarginLeft
	}
	if cfg.MarginRight <= 0 {
		cfg.MarginRight = def.MarginRight
	}
	if cfg.MarginTop <= 0 {
		cfg.MarginTop = def.MarginTop
	}
	if cfg.MarginBottom <= 0 {
		cfg.MarginBottom = def.MarginBottom
	}
	if cfg.TitleSize <= 0 {
		cfg.TitleSize = def.TitleSize
	}
	if cfg.SectionSize <= 0 {
		cfg.SectionSize = def.SectionSize
	}
	if cfg.BodySize <= 0 {
		cfg.BodySize = def.BodySize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	font := cfg.BaseFont
	bold, ok := boldVariants[font]
	if !ok {
		if font != "" {
			cfg.Logger.Debug("font unavailable, falling back", "font", font, "fallback", "Helvetica")
		}
		font = "Helvetica"
		bold = "Helvetica-Bold"
	}

	return &Renderer{cfg: cfg, font: font, boldFont: bold, logger: cfg.Logger}
}

// RenderFile renders the sections and writes the document to path. Content
// never fails a render; only an unwritable destination returns an error.
func (r *Renderer) RenderFile(sections []Section, path string) error {
	if err := os.WriteFile(path, r.Render(sections), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Render lays out the document: a fixed title block on every page, then
// per section a bold title followed by its wrapped body lines.
func (r *Renderer) Render(sections []Section) []byte {
	p := &pageWriter{cfg: r.cfg, font: r.font, boldFont: r.boldFont}
	p.startPage()

	for i, s := range sections {
		if i > 0 {
			p.advance(r.cfg.BodySize) // gap between sections
		}
		p.sectionTitle(s.Title)
		for _, line := range s.Body {
			p.bodyLine(line)
		}
	}
	p.endPage()

	return p.build()
}

// pageWriter accumulates content streams, one per page.
type pageWriter struct {
	cfg      RenderConfig
	font     string
	boldFont string

	pages   []string
	current strings.Builder
	y       float64
}

func (p *pageWriter) usableWidth() float64 {
	return p.cfg.PageWidth - p.cfg.MarginLeft - p.cfg.MarginRight
}

func (p *pageWriter) startPage() {
	p.current.Reset()
	p.y = p.cfg.PageHeight - p.cfg.MarginTop

	// Fixed title block: centered bold title and a separator rule.
	title := DocumentTitle
	size := p.cfg.TitleSize
	x := (p.cfg.PageWidth - approxWidth(title, size)) / 2
	p.text("/F2", size, x, p.y, title)
	p.y -= size + 6

	rule := strings.Repeat("=", 60)
	ruleSize := p.cfg.BodySize
	x = (p.cfg.PageWidth - approxWidth(rule, ruleSize)) / 2
	p.text("/F1", ruleSize, x, p.y, rule)
	p.y -= ruleSize * 2.5
}

func (p *pageWriter) endPage() {
	p.pages = append(p.pages, p.current.String())
}

// advance moves the cursor down, breaking the page when the bottom margin
// is reached.
func (p *pageWriter) advance(dy float64) {
	p.y -= dy
	if p.y < p.cfg.MarginBottom {
		p.endPage()
		p.startPage()
	}
}

func (p *pageWriter) sectionTitle(title string) {
	p.advance(p.cfg.SectionSize * 0.6)
	p.text("/F2", p.cfg.SectionSize, p.cfg.MarginLeft, p.y, title)
	p.advance(p.cfg.SectionSize * 1.5)
}

func (p *pageWriter) bodyLine(line string) {
	size := p.cfg.BodySize
	for _, wrapped := range wrapText(line, maxChars(p.usableWidth(), size)) {
		p.text("/F1", size, p.cfg.MarginLeft, p.y, wrapped)
		p.advance(size * 1.4)
	}
}

// text emits one positioned show-text operation.
func (p *pageWriter) text(font string, size, x, y float64, s string) {
	fmt.Fprintf(&p.current, "BT\n%s %.2f Tf\n0 0 0 rg\n%.2f %.2f Td\n(%s) Tj\nET\n",
		font, size, x, y, escapePDFString(s))
}

// approxWidth estimates rendered width for centering; exact metrics are
// not needed for a text report.
func approxWidth(s string, size float64) float64 {
	return float64(len(s)) * size * 0.5
}

func maxChars(width, size float64) int {
	n := int(width / (size * 0.5))
	if n < 8 {
		n = 8
	}
	return n
}

// wrapText word-wraps a line to the given rune budget.
func wrapText(line string, limit int) []string {
	if len(line) <= limit {
		return []string{line}
	}
	var out []string
	var current strings.Builder
	for _, word := range strings.Fields(line) {
		if current.Len() > 0 && current.Len()+1+len(word) > limit {
			out = append(out, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

// escapePDFString degrades the text to the document encoding and escapes
// PDF string syntax. Runes outside WinAnsi are dropped rather than failing
// the render; the loss is silent by contract.
func escapePDFString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '(':
			sb.WriteString(`\(`)
		case r == ')':
			sb.WriteString(`\)`)
		case r == '\t':
			sb.WriteByte(' ')
		case r >= 32 && r < 127, r >= 0xA0 && r <= 0xFF:
			sb.WriteByte(byte(r))
		}
	}
	return sb.String()
}

// build assembles the PDF file: catalog, page tree, the two font objects,
// per-page stream+page pairs, and the info dictionary.
func (p *pageWriter) build() []byte {
	n := len(p.pages)
	objects := make([]string, 0, 4+2*n+1)

	var kids strings.Builder
	kids.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			kids.WriteString(" ")
		}
		fmt.Fprintf(&kids, "%d 0 R", 6+2*i)
	}
	kids.WriteString("]")

	objects = append(objects, "<< /Type /Catalog\n/Pages 2 0 R\n>>")
	objects = append(objects, fmt.Sprintf("<< /Type /Pages\n/Kids %s\n/Count %d\n>>", kids.String(), n))
	objects = append(objects, fontObject(p.font))
	objects = append(objects, fontObject(p.boldFont))

	for i, content := range p.pages {
		var streamData []byte
		filter := ""
		if p.cfg.Compress {
			var buf bytes.Buffer
			w := zlib.NewWriter(&buf)
			w.Write([]byte(content))
			w.Close()
			streamData = buf.Bytes()
			filter = "/Filter /FlateDecode\n"
		} else {
			streamData = []byte(content)
		}

		objects = append(objects, fmt.Sprintf("<< /Length %d\n%s>>\nstream\n%sendstream",
			len(streamData), filter, streamData))
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 %.2f %.2f]\n/Contents %d 0 R\n/Resources << /Font << /F1 3 0 R /F2 4 0 R >> >>\n>>",
			p.cfg.PageWidth, p.cfg.PageHeight, 5+2*i))
	}

	now := time.Now().UTC().Format("D:20060102150405Z")
	objects = append(objects, fmt.Sprintf(
		"<<\n/Title (%s)\n/Producer (finreport)\n/CreationDate (%s)\n>>",
		escapePDFString(DocumentTitle), now))
	infoNum := len(objects)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	buf.WriteString("%\xE2\xE3\xCF\xD3\n")

	xref := make([]int, len(objects)+1)
	for i, obj := range objects {
		xref[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefPos := buf.Len()
	buf.WriteString("xref\n")
	fmt.Fprintf(&buf, "0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", xref[i])
	}

	buf.WriteString("trailer\n")
	fmt.Fprintf(&buf, "<< /Size %d\n/Root 1 0 R\n/Info %d 0 R\n>>", len(objects)+1, infoNum)
	buf.WriteString("\nstartxref\n")
	fmt.Fprintf(&buf, "%d\n", xrefPos)
	buf.WriteString("%%EOF\n")

	return buf.Bytes()
}

func fontObject(name string) string {
	return fmt.Sprintf("<< /Type /Font\n/Subtype /Type1\n/BaseFont /%s\n/Encoding /WinAnsiEncoding\n>>", name)
}
