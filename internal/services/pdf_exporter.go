package services

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"alfredoptarigan/declic-pro/internal/models"
)

const (
	PDFFilename = "dap-declic-pro-resultats.pdf"
	pdfTitle    = "DAP Déclic Pro — Résultats"

	maxPDFStrengths = 8
	maxPDFLimits    = 8
	maxPDFSteps     = 10

	pdfMargin     = 15.0
	pdfLineHeight = 6.0
	pdfIndent     = 4.0
)

type PDFExporter interface {
	// Render returns the PDF document and its page count.
	Render(result *models.AnalysisResult) ([]byte, int, error)
}

type pdfExporter struct{}

func NewPDFExporter() PDFExporter {
	return &pdfExporter{}
}

func (e *pdfExporter) Render(result *models.AnalysisResult) ([]byte, int, error) {
	if result == nil {
		return nil, 0, &InputValidationError{Field: "result", Message: MsgMissingResult}
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	// Breaks are placed by pdfLayout, which measures every block first.
	doc.SetAutoPageBreak(false, pdfMargin)
	doc.SetTitle(pdfTitle, true)
	doc.SetCreator("DAP Déclic Pro", true)
	doc.AddPage()

	pageWidth, pageHeight := doc.GetPageSize()
	layout := &pdfLayout{
		doc:    doc,
		tr:     doc.UnicodeTranslatorFromDescriptor(""),
		width:  pageWidth - 2*pdfMargin,
		bottom: pageHeight - pdfMargin,
	}

	layout.title(pdfTitle)
	layout.paragraph("Type de profil : " + result.ProfileType)
	layout.paragraph("Compatibilité : " + formatPercent(result.Compatibility.ScorePercent))

	layout.section("Points forts", bullets(firstN(result.Strengths, maxPDFStrengths)))
	layout.section("Limites", bullets(firstN(result.Limits, maxPDFLimits)))

	plan := []string{result.ActionPlan.Summary}
	plan = append(plan, bullets(firstN(result.ActionPlan.Steps, maxPDFSteps))...)
	layout.section("Plan d'action", plan)

	if err := doc.Error(); err != nil {
		return nil, 0, fmt.Errorf("failed to render PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("failed to write PDF: %w", err)
	}

	return buf.Bytes(), doc.PageCount(), nil
}

type pdfLayout struct {
	doc    *fpdf.Fpdf
	tr     func(string) string
	width  float64
	bottom float64
}

func (l *pdfLayout) title(text string) {
	l.doc.SetFont("Helvetica", "B", 16)
	l.write(text, 0, 8)
	l.doc.Ln(4)
}

func (l *pdfLayout) paragraph(text string) {
	l.doc.SetFont("Helvetica", "", 11)
	l.write(text, 0, pdfLineHeight)
}

// section keeps its heading on the same page as the first item.
func (l *pdfLayout) section(heading string, items []string) {
	l.doc.Ln(3)

	l.doc.SetFont("Helvetica", "", 11)
	firstHeight := 0.0
	if len(items) > 0 {
		firstHeight = l.height(items[0], pdfIndent, pdfLineHeight)
	}
	l.ensure(pdfLineHeight + firstHeight)

	l.doc.SetFont("Helvetica", "B", 12)
	l.write(heading, 0, pdfLineHeight)

	l.doc.SetFont("Helvetica", "", 11)
	for _, item := range items {
		l.write(item, pdfIndent, pdfLineHeight)
	}
}

func (l *pdfLayout) write(text string, indent, lineHeight float64) {
	if text == "" {
		return
	}
	lines := l.lines(text, indent)
	l.ensure(float64(len(lines)) * lineHeight)

	left, _, _, _ := l.doc.GetMargins()
	for _, line := range lines {
		// Only a block taller than a whole page breaks here.
		l.ensure(lineHeight)
		l.doc.SetX(left + indent)
		l.doc.CellFormat(l.width-indent, lineHeight, string(line), "", 1, "L", false, 0, "")
	}
}

func (l *pdfLayout) lines(text string, indent float64) [][]byte {
	return l.doc.SplitLines([]byte(l.tr(text)), l.width-indent)
}

func (l *pdfLayout) height(text string, indent, lineHeight float64) float64 {
	return float64(len(l.lines(text, indent))) * lineHeight
}

// ensure starts a new page when a block of height h would cross the bottom margin.
func (l *pdfLayout) ensure(h float64) {
	_, top, _, _ := l.doc.GetMargins()
	if l.doc.GetY()+h <= l.bottom || l.doc.GetY() <= top {
		return
	}
	l.doc.AddPage()
}

func bullets(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, "- "+item)
	}
	return out
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
