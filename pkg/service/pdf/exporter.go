package pdf

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/studynotes-lab/grimoire/pkg/domain/model"
)

// Page geometry and typography, all in millimeters against A4 portrait.
// These are fixed by design, not configurable per call.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 20.0

	contentWidth = pageWidth - 2*margin

	titleSize    = 24.0
	subtitleSize = 12.0
	headingSize  = 16.0
	bodySize     = 11.0
	captionSize  = 10.0
	footerSize   = 8.0

	lineStep    = 6.0
	blockStep   = 8.0
	gapStep     = 5.0
	sectionGap  = 10.0
	bulletInset = 5.0

	// Diagrams render at a fixed fraction of the content width with a 4:3
	// aspect ratio.
	imageWidthRatio = 0.8

	fontFamily  = "Helvetica"
	attribution = "Generated by Grimoire"
)

// exporter implements Service
type exporter struct{}

// New creates a new PDF export service
func New() Service {
	return &exporter{}
}

// renderer tracks the vertical cursor on the current page. Every block
// checks its height against the remaining space before writing; a block is
// never split across pages.
type renderer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	y   float64
}

func (r *renderer) ensureSpace(h float64) {
	if r.y+h > pageHeight-margin {
		r.pdf.AddPage()
		r.y = margin
	}
}

func (r *renderer) setFont(style string, size float64) {
	r.pdf.SetFont(fontFamily, style, size)
}

// text draws s at the cursor. The core fonts are single-byte cp1252, so
// every drawn string goes through the unicode translator.
func (r *renderer) text(x float64, s string) {
	r.pdf.Text(x, r.y, r.tr(s))
}

func (r *renderer) width(s string) float64 {
	return r.pdf.GetStringWidth(r.tr(s))
}

// Export renders the document. The only fatal condition is a document with
// no sections; individual diagram embedding failures are substituted with a
// placeholder notice and never abort the export.
func (e *exporter) Export(doc *model.NoteDocument, images map[string][]byte) (*Result, error) {
	if doc == nil {
		return nil, goerr.New("note document is required", goerr.T(model.TagExport))
	}
	if len(doc.Sections) == 0 {
		return nil, goerr.New("cannot export note without sections",
			goerr.T(model.TagExport), goerr.V("topic", doc.Topic))
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Pin the metadata timestamp so identical input yields identical bytes.
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetFont(fontFamily, "", footerSize)
		pdf.Text(margin, pageHeight-10, attribution)
		pdf.Text(pageWidth-30, pageHeight-10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()))
	})
	pdf.AddPage()

	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), y: margin}

	resolved := resolvedDiagrams(doc, images)

	e.renderTitle(r, doc)
	e.renderTOC(r, doc, len(resolved) > 0)
	for _, sec := range sectionsInOrder(doc) {
		e.renderSection(r, sec)
	}
	if len(resolved) > 0 {
		e.renderDiagrams(r, doc, resolved)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, goerr.Wrap(err, "failed to render PDF",
			goerr.T(model.TagExport), goerr.V("topic", doc.Topic))
	}

	return &Result{
		Data:     buf.Bytes(),
		Filename: Filename(doc.Topic),
	}, nil
}

func (e *exporter) renderTitle(r *renderer, doc *model.NoteDocument) {
	r.setFont("B", titleSize)
	r.text(margin, fmt.Sprintf("Study Notes: %s", doc.Topic))
	r.y += 15

	r.setFont("", subtitleSize)
	r.text(margin, fmt.Sprintf("Education Level: %s", doc.EducationLevel))
	r.y += 10
	r.text(margin, fmt.Sprintf("Generated on: %s", doc.GeneratedAt.Format("2006-01-02")))
	r.y += 15
}

// renderTOC writes one numbered line per section. Page numbers are not
// computed from the layout; the TOC lists titles only.
func (e *exporter) renderTOC(r *renderer, doc *model.NoteDocument, hasDiagrams bool) {
	r.setFont("B", headingSize)
	r.ensureSpace(sectionGap)
	r.text(margin, "Table of Contents")
	r.y += 10

	r.setFont("", subtitleSize)
	for i, sec := range sectionsInOrder(doc) {
		r.ensureSpace(blockStep)
		r.text(margin+5, fmt.Sprintf("%d. %s", i+1, sec.Title))
		r.y += blockStep
	}
	if hasDiagrams {
		r.ensureSpace(blockStep)
		r.text(margin+5, fmt.Sprintf("%d. Visual Diagrams", len(doc.Sections)+1))
		r.y += blockStep
	}

	r.y += sectionGap
}

func (e *exporter) renderSection(r *renderer, sec model.Section) {
	r.ensureSpace(20)

	r.setFont("B", headingSize)
	r.text(margin, fmt.Sprintf("%d. %s", sec.Order, sec.Title))
	r.y += 12

	r.setFont("", bodySize)
	for _, line := range strings.Split(sec.Content, "\n") {
		e.renderLine(r, line)
	}

	r.y += sectionGap
}

// renderLine applies the per-line content conventions: blank lines become a
// vertical gap, ** wrapped lines are bold sub-headings, bullet-marked lines
// are indented list items, everything else is greedily word-wrapped.
func (e *exporter) renderLine(r *renderer, line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		r.y += gapStep
		return
	}

	if strings.HasPrefix(trimmed, "**") && strings.HasSuffix(trimmed, "**") && len(trimmed) > 4 {
		r.ensureSpace(blockStep)
		r.setFont("B", bodySize)
		r.text(margin, strings.ReplaceAll(trimmed, "**", ""))
		r.setFont("", bodySize)
		r.y += blockStep
		return
	}

	// Only a marker followed by a space is a list item; a lone "*" or an
	// unterminated "**" heading renders as plain text.
	item, isBullet := strings.CutPrefix(trimmed, "• ")
	if !isBullet {
		item, isBullet = strings.CutPrefix(trimmed, "* ")
	}
	if isBullet {
		r.ensureSpace(blockStep)
		r.text(margin+bulletInset, "• "+strings.TrimSpace(item))
		r.y += blockStep
		return
	}

	for _, wrapped := range Wrap(trimmed, contentWidth-10, r.width) {
		r.ensureSpace(lineStep)
		r.text(margin, wrapped)
		r.y += lineStep
	}
}

// renderDiagrams writes the Visual Diagrams section. A diagram whose
// payload cannot be embedded is replaced with a notice line.
func (e *exporter) renderDiagrams(r *renderer, doc *model.NoteDocument, resolved map[string][]byte) {
	r.ensureSpace(20)

	r.setFont("B", headingSize)
	r.text(margin, "Visual Diagrams")
	r.y += 15

	imgWidth := contentWidth * imageWidthRatio
	imgHeight := imgWidth * 3 / 4

	for _, d := range doc.Diagrams {
		data, ok := resolved[d.ID]
		if !ok {
			continue
		}

		r.ensureSpace(imgHeight + 30)

		r.setFont("B", 14)
		r.text(margin, d.Title)
		r.y += 10

		if err := e.embedImage(r, d.ID, data, imgWidth, imgHeight); err != nil {
			r.setFont("", captionSize)
			r.text(margin, "Image could not be loaded")
			r.y += 10
			continue
		}
		r.y += imgHeight + 5

		caption := d.Caption
		if caption == "" {
			caption = "Educational diagram"
		}
		r.setFont("I", captionSize)
		r.text(margin, caption)
		r.y += 15
	}
}

// embedImage registers and places one image. gofpdf errors are sticky, so a
// failed embed clears the error state before returning to keep the rest of
// the export alive.
func (e *exporter) embedImage(r *renderer, id string, data []byte, w, h float64) error {
	imageType, err := detectImageType(data)
	if err != nil {
		return err
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}
	r.pdf.RegisterImageOptionsReader(id, opts, bytes.NewReader(data))
	if r.pdf.Err() {
		err := r.pdf.Error()
		r.pdf.ClearError()
		return goerr.Wrap(err, "failed to register image", goerr.V("diagramID", id))
	}

	r.pdf.ImageOptions(id, margin, r.y, w, h, false, opts, 0, "")
	if r.pdf.Err() {
		err := r.pdf.Error()
		r.pdf.ClearError()
		return goerr.Wrap(err, "failed to place image", goerr.V("diagramID", id))
	}

	return nil
}

func detectImageType(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG", nil
	case "image/jpeg":
		return "JPG", nil
	case "image/gif":
		return "GIF", nil
	default:
		return "", goerr.New("unsupported image payload")
	}
}

// resolvedDiagrams merges the external image set with payloads already
// attached to the document. External entries win.
func resolvedDiagrams(doc *model.NoteDocument, images map[string][]byte) map[string][]byte {
	resolved := make(map[string][]byte)
	for _, d := range doc.Diagrams {
		if d.Resolved() {
			resolved[d.ID] = d.ImageData
		}
	}
	for id, data := range images {
		if len(data) > 0 && doc.DiagramByID(id) != nil {
			resolved[id] = data
		}
	}
	return resolved
}

// sectionsInOrder returns sections sorted by their Order rank
func sectionsInOrder(doc *model.NoteDocument) []model.Section {
	sections := make([]model.Section, len(doc.Sections))
	copy(sections, doc.Sections)
	sort.Slice(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})
	return sections
}

// Filename derives the deterministic export filename from the topic:
// lowercased with every non-alphanumeric rune replaced by a dash.
func Filename(topic string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(topic) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('-')
		}
	}
	return sb.String() + "-study-notes.pdf"
}
