package pdf

import "github.com/jung-kurt/gofpdf"

// Export internal rendering pieces for testing

// Renderer is exported for testing the line layout
type Renderer = renderer

// NewRenderer builds a renderer over a prepared page for testing
func NewRenderer(f *gofpdf.Fpdf, y float64) *Renderer {
	return &renderer{pdf: f, tr: f.UnicodeTranslatorFromDescriptor(""), y: y}
}

// Y is exported for testing the vertical cursor
func (r *renderer) Y() float64 { return r.y }

// EnsureSpace is exported for testing page breaks
func (r *renderer) EnsureSpace(h float64) { r.ensureSpace(h) }

// RenderLine is exported for testing the per-line content conventions
func RenderLine(r *Renderer, line string) {
	(&exporter{}).renderLine(r, line)
}

// ResolvedDiagrams is exported for testing
var ResolvedDiagrams = resolvedDiagrams

// Layout constants exported for testing
const (
	Margin     = margin
	PageHeight = pageHeight
	LineStep   = lineStep
	BlockStep  = blockStep
	GapStep    = gapStep
	FontFamily = fontFamily
	BodySize   = bodySize
)
