package extraction

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"nyaymitra-backend/metrics"
	"nyaymitra-backend/models"
)

var (
	ErrExtraction        = errors.New("document extraction failed")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrOCRUnavailable    = errors.New("no OCR engine configured")
)

// PDFParser turns a PDF file into plain text, pages concatenated in order
type PDFParser interface {
	ExtractText(path string) (string, error)
}

// Recognizer runs optical character recognition on an image file
type Recognizer interface {
	Recognize(path string) (string, error)
}

// Service converts uploaded artifacts into plain text.
// It only reads from the filesystem.
type Service struct {
	primaryPDF  PDFParser
	fallbackPDF PDFParser
	recognizer  Recognizer
	metrics     *metrics.Metrics
}

// ServiceOption is a functional option for Service
type ServiceOption func(*Service)

// WithPDFParsers overrides the primary and fallback PDF parsers
func WithPDFParsers(primary, fallback PDFParser) ServiceOption {
	return func(s *Service) {
		s.primaryPDF = primary
		s.fallbackPDF = fallback
	}
}

// WithRecognizer sets the OCR engine used for images
func WithRecognizer(r Recognizer) ServiceOption {
	return func(s *Service) {
		s.recognizer = r
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates an extraction service with the layout-aware PDF parser
// as first choice and the permissive parser as fallback
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		primaryPDF:  LayoutPDFParser{},
		fallbackPDF: PermissivePDFParser{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract returns the text of the file at filePath. The format must already
// be on the upload allow-list.
func (s *Service) Extract(filePath string, format models.DocumentFormat) (*models.ExtractedDocument, error) {
	text, err := s.extract(filePath, format)
	s.metrics.RecordExtraction(string(format), err)
	if err != nil {
		return nil, err
	}
	return &models.ExtractedDocument{SourceFormat: format, RawText: text}, nil
}

func (s *Service) extract(filePath string, format models.DocumentFormat) (string, error) {
	switch {
	case format == models.FormatPDF:
		return s.extractPDF(filePath)
	case format.IsWordProcessor():
		text, err := ExtractDocx(filePath)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrExtraction, format, err)
		}
		return text, nil
	case format.IsImage():
		if s.recognizer == nil {
			return "", fmt.Errorf("%w: %w", ErrExtraction, ErrOCRUnavailable)
		}
		text, err := s.recognizer.Recognize(filePath)
		if err != nil {
			return "", fmt.Errorf("%w: ocr: %v", ErrExtraction, err)
		}
		return text, nil
	case format == models.FormatTXT:
		return readUTF8(filePath)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// extractPDF tries the primary parser and silently falls back on any failure
func (s *Service) extractPDF(filePath string) (string, error) {
	text, err := s.primaryPDF.ExtractText(filePath)
	if err == nil {
		return text, nil
	}
	log.Debug().Err(err).Str("path", filePath).Msg("primary PDF parser failed, using fallback")
	s.metrics.RecordPDFFallback()

	text, err = s.fallbackPDF.ExtractText(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrExtraction, err)
	}
	return text, nil
}

func readUTF8(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: read text: %v", ErrExtraction, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: text file is not valid UTF-8", ErrExtraction)
	}
	return string(data), nil
}
