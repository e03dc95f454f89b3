// Package resume reads uploaded resumes and renders one-page PDF resumes.
package resume

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
)

var (
	docxParagraph = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag        = regexp.MustCompile(`<[^>]+>`)
)

// ExtractText returns the plain text of a PDF, DOCX or text resume.
// The kind is taken from the file extension, falling back to content sniffing.
func ExtractText(file domain.UploadedFile) (string, error) {
	kind := file.Extension()
	if kind != "pdf" && kind != "docx" && kind != "txt" {
		kind = sniff(file.Data)
	}

	var (
		text string
		err  error
	)
	switch kind {
	case "pdf":
		text, err = extractPDF(file.Data)
	case "docx":
		text, err = extractDocx(file.Data)
	case "txt":
		text = string(file.Data)
	default:
		return "", apperrors.NewCustomError(apperrors.ErrUnsupportedFormat,
			fmt.Sprintf("unsupported resume file %q, expected .pdf, .docx or .txt", file.FileName))
	}
	if err != nil {
		return "", apperrors.NewCustomError(apperrors.ErrUnreadableResume, err.Error())
	}
	return text, nil
}

func sniff(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return "pdf"
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return "docx"
	default:
		return ""
	}
}

// extractPDF concatenates the plain text of every page in order.
func extractPDF(data []byte) (text string, err error) {
	// The parser panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		b.WriteString(pageText)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return docxPlainText(doc.Editable().GetContent()), nil
}

// docxPlainText turns WordprocessingML into text with one line per paragraph.
func docxPlainText(xml string) string {
	xml = docxParagraph.ReplaceAllString(xml, "\n")
	xml = xmlTag.ReplaceAllString(xml, "")
	return strings.TrimSpace(html.UnescapeString(xml))
}
