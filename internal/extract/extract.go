// Package extract turns uploaded files into plain text for ingestion.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// FromUpload extracts the full text of an uploaded file. PDF files go
// through the PDF parser; anything else is treated as UTF-8 plaintext with
// invalid bytes dropped.
func FromUpload(filename string, data []byte) (string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return fromPDF(data)
	}
	return string(bytes.ToValidUTF8(data, nil)), nil
}

func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not fail the document.
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}
