// Package ocr adapts the tesseract engine to the extraction Recognizer interface.
// It needs libtesseract at build time.
package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text in images
type Tesseract struct {
	Languages []string
}

// NewTesseract creates a recognizer; no languages means the engine default
func NewTesseract(languages ...string) *Tesseract {
	return &Tesseract{Languages: languages}
}

// Recognize returns the recognized text verbatim
func (t *Tesseract) Recognize(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if len(t.Languages) > 0 {
		if err := client.SetLanguage(t.Languages...); err != nil {
			return "", fmt.Errorf("set ocr language: %w", err)
		}
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}
	return client.Text()
}
