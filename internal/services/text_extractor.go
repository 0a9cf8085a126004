package services

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

var errNoText = errors.New("aucun texte exploitable")

type TextExtractor interface {
	// Extract picks the parser from the file name suffix and returns normalized text.
	Extract(filename string, data []byte) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// DetectFormat returns "pdf" or "docx" from a case-insensitive suffix match.
func DetectFormat(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", &UnsupportedFormatError{Filename: filename}
	}
}

func (t *textExtractor) Extract(filename string, data []byte) (string, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return "", err
	}

	var raw string
	switch format {
	case FormatPDF:
		raw, err = extractPDFText(data)
	case FormatDOCX:
		raw, err = extractDocxText(data)
	}
	if err != nil {
		return "", &ExtractionError{Format: format, Cause: err}
	}

	text := NormalizeText(raw)
	if text == "" {
		return "", &ExtractionError{Format: format, Cause: errNoText}
	}

	return text, nil
}

func extractPDFText(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("PDF illisible: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", pageIndex, err)
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxTab          = regexp.MustCompile(`<w:tab\s*/>`)
	docxBreak        = regexp.MustCompile(`<w:(?:br|cr)(?:\s[^>]*)?/>`)
	docxFieldCode    = regexp.MustCompile(`(?s)<w:instrText(?:\s[^>]*)?>.*?</w:instrText>`)
	xmlTag           = regexp.MustCompile(`<[^>]*>`)
)

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

// docxXMLToText flattens WordprocessingML into raw text.
// Field codes (HYPERLINK, PAGE, TOC...) are instructions, not text.
func docxXMLToText(content string) string {
	content = docxFieldCode.ReplaceAllString(content, "")
	content = docxParagraphEnd.ReplaceAllString(content, "\n\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = docxBreak.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}

var (
	horizontalSpace = regexp.MustCompile(`[\t\f\v\p{Zs}]+`)
	spaceAroundLF   = regexp.MustCompile(` ?\n ?`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText removes NUL characters, collapses horizontal whitespace to one
// space and keeps at most one blank line between paragraphs.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", " ")
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = spaceAroundLF.ReplaceAllString(text, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
