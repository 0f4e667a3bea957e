package models

import (
	"path/filepath"
	"strings"
)

// DocumentFormat identifies the format of an uploaded artifact
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
	FormatDOC  DocumentFormat = "doc"
	FormatTXT  DocumentFormat = "txt"
	FormatPNG  DocumentFormat = "png"
	FormatJPG  DocumentFormat = "jpg"
	FormatJPEG DocumentFormat = "jpeg"
)

// allowedFormats is the upload allow-list
var allowedFormats = map[DocumentFormat]bool{
	FormatPDF:  true,
	FormatDOCX: true,
	FormatDOC:  true,
	FormatTXT:  true,
	FormatPNG:  true,
	FormatJPG:  true,
	FormatJPEG: true,
}

// FormatFromFilename derives the format from the file extension.
// ok is false when the extension is not on the allow-list.
func FormatFromFilename(filename string) (DocumentFormat, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	format := DocumentFormat(ext)
	return format, allowedFormats[format]
}

// IsWordProcessor reports whether the format is handled as a word-processor document
func (f DocumentFormat) IsWordProcessor() bool {
	return f == FormatDOCX || f == FormatDOC
}

// IsImage reports whether the format is handled by OCR
func (f DocumentFormat) IsImage() bool {
	return f == FormatPNG || f == FormatJPG || f == FormatJPEG
}

// ExtractedDocument is the plain text of an uploaded artifact.
// It is consumed immediately by the prompt composer and never persisted.
type ExtractedDocument struct {
	SourceFormat DocumentFormat `json:"source_format"`
	RawText      string         `json:"raw_text"`
}
