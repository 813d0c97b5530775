package infrastructure

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// ErrUnsupportedDocument is returned for uploads that are not pdf, docx or txt.
var ErrUnsupportedDocument = errors.New("unsupported document type")

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxTab          = regexp.MustCompile(`<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// TextExtractor turns uploaded resume documents into plain text.
type TextExtractor struct {
	logger *logrus.Logger
}

func NewTextExtractor(licenseKey string, logger *logrus.Logger) (*TextExtractor, error) {
	if licenseKey != "" {
		if err := license.SetMeteredKey(licenseKey); err != nil {
			return nil, fmt.Errorf("failed to set unidoc license: %w", err)
		}
	}
	return &TextExtractor{logger: logger}, nil
}

// Extract picks a reader by file extension.
func (e *TextExtractor) Extract(filename string, data []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	var (
		text string
		err  error
	)
	switch ext {
	case "txt":
		text = string(data)
	case "pdf":
		text, err = e.extractPDF(data)
	case "docx":
		text, err = extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDocument, ext)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	e.logger.WithFields(logrus.Fields{
		"file":  filename,
		"chars": len(text),
	}).Debug("extracted document text")
	return text, nil
}

func (e *TextExtractor) extractPDF(data []byte) (string, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			e.logger.WithError(err).WithField("page", i).Warn("skipping unreadable PDF page")
			continue
		}

		ex, err := extractor.New(page)
		if err != nil {
			e.logger.WithError(err).WithField("page", i).Warn("failed to create page extractor")
			continue
		}

		pageText, err := ex.ExtractText()
		if err != nil {
			e.logger.WithError(err).WithField("page", i).Warn("failed to extract page text")
			continue
		}

		if pageText != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n\n")
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text could be extracted from any page of the PDF")
	}
	return sb.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX: %w", err)
	}
	defer r.Close()

	return docxPlainText(r.Editable().GetContent()), nil
}

// docxPlainText reduces WordprocessingML to paragraphs of text.
func docxPlainText(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")

	replacer := strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")
	return replacer.Replace(content)
}
