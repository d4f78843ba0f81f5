package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageBreak separates the text of consecutive pages.
const pageBreak = "\n\n"

// extractPDF concatenates the plain text of every page in page order.
func extractPDF(ctx context.Context, data []byte) (string, error) {
	pages, err := pdfPages(ctx, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoExtractableText, err)
	}

	text := joinPages(pages)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoExtractableText
	}
	return text, nil
}

// pdfPages returns the extracted text of each page. The parser panics on some
// malformed inputs, so panics are turned into errors.
func pdfPages(ctx context.Context, data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	n := reader.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, normalizeText(text))
	}

	return pages, nil
}

// joinPages appends a paragraph break after every page's text.
func joinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		b.WriteString(pageBreak)
	}
	return b.String()
}
