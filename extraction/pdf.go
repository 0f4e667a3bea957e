package extraction

import (
	"fmt"
	"os"
	"strings"

	layoutpdf "github.com/ledongthuc/pdf"
	rscpdf "rsc.io/pdf"
)

// LayoutPDFParser reads text row by row using glyph positions
type LayoutPDFParser struct{}

// ExtractText implements PDFParser
func (LayoutPDFParser) ExtractText(path string) (text string, err error) {
	// Malformed streams make the parser panic
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("layout parser panic: %v", r)
		}
	}()

	f, reader, err := layoutpdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				line.WriteString(word.S)
			}
			lines = append(lines, line.String())
		}
		builder.WriteString(strings.Join(lines, "\n"))
	}
	return builder.String(), nil
}

// PermissivePDFParser concatenates the raw text runs of each page
// without attempting any layout reconstruction
type PermissivePDFParser struct{}

// ExtractText implements PDFParser
func (PermissivePDFParser) ExtractText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("permissive parser panic: %v", r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	reader, err := rscpdf.NewReader(f, info.Size())
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, t := range page.Content().Text {
			builder.WriteString(t.S)
		}
	}
	return builder.String(), nil
}
