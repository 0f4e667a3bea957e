// Package speech converts generated responses to audio artifacts
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"nyaymitra-backend/metrics"
	"nyaymitra-backend/storage"
)

var (
	ErrSynthesis = errors.New("speech synthesis failed")
	ErrEmptyText = errors.New("no text to speak")
)

// Filename prefixes used by the spoken flows
const (
	PrefixVoice    = "response_"
	PrefixDocument = "file_response_"
)

// Backend turns text into encoded audio
type Backend interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

// Synthesizer writes synthesized audio to storage and returns its URL
type Synthesizer struct {
	backend   Backend
	store     storage.Storage
	urlPrefix string
	lang      string
	metrics   *metrics.Metrics
	now       func() time.Time
	newID     func() uuid.UUID
}

// SynthesizerOption configures a Synthesizer
type SynthesizerOption func(*Synthesizer)

// WithURLPrefix sets the path prefix of returned audio URLs
func WithURLPrefix(prefix string) SynthesizerOption {
	return func(s *Synthesizer) {
		s.urlPrefix = prefix
	}
}

// WithLanguage sets the language code passed to the backend
func WithLanguage(lang string) SynthesizerOption {
	return func(s *Synthesizer) {
		if lang != "" {
			s.lang = lang
		}
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) SynthesizerOption {
	return func(s *Synthesizer) {
		s.metrics = m
	}
}

// NewSynthesizer creates a Synthesizer
func NewSynthesizer(backend Backend, store storage.Storage, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		backend:   backend,
		store:     store,
		urlPrefix: "/static/audio",
		lang:      "en",
		now:       time.Now,
		newID:     uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize speaks text and stores the result under a new filename starting
// with prefix. It returns the URL the artifact is served from.
func (s *Synthesizer) Synthesize(ctx context.Context, text, prefix string) (string, error) {
	url, err := s.synthesize(ctx, text, prefix)
	s.metrics.RecordSynthesis(err)
	return url, err
}

func (s *Synthesizer) synthesize(ctx context.Context, text, prefix string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %w", ErrSynthesis, ErrEmptyText)
	}

	audio, err := s.backend.Synthesize(ctx, text, s.lang)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSynthesis, err)
	}

	name := s.filename(prefix)
	if _, err := s.store.Save(ctx, name, bytes.NewReader(audio)); err != nil {
		return "", fmt.Errorf("%w: store audio: %w", ErrSynthesis, err)
	}

	log.Debug().Str("file", name).Int("bytes", len(audio)).Msg("audio synthesized")
	return path.Join(s.urlPrefix, name), nil
}

// filename is prefix, a nanosecond timestamp and a random suffix, so two calls
// in the same clock tick still get distinct names
func (s *Synthesizer) filename(prefix string) string {
	ts := strconv.FormatInt(s.now().UnixNano(), 10)
	return prefix + ts + "_" + s.newID().String()[:8] + ".mp3"
}
