package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	defaultTTSURL = "https://translate.google.com/translate_tts"
	// maxChunkRunes is the longest text the endpoint accepts per request
	maxChunkRunes = 200
)

// GoogleTTS synthesizes speech through the Google Translate TTS endpoint.
// Long text is split into chunks and the MP3 segments are concatenated.
type GoogleTTS struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleTTS creates a backend. An empty baseURL selects the public endpoint.
func NewGoogleTTS(baseURL string) *GoogleTTS {
	if baseURL == "" {
		baseURL = defaultTTSURL
	}
	return &GoogleTTS{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Synthesize implements Backend
func (g *GoogleTTS) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	chunks := chunkText(text, maxChunkRunes)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}

	var audio []byte
	for i, chunk := range chunks {
		data, err := g.fetch(ctx, chunk, lang, i, len(chunks))
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		audio = append(audio, data...)
	}
	return audio, nil
}

func (g *GoogleTTS) fetch(ctx context.Context, chunk, lang string, idx, total int) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", lang)
	params.Set("q", chunk)
	params.Set("idx", strconv.Itoa(idx))
	params.Set("total", strconv.Itoa(total))
	params.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call TTS endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS endpoint error: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	return data, nil
}

// chunkText splits text on whitespace into pieces of at most limit runes.
// A single word longer than limit is split mid-word.
func chunkText(text string, limit int) []string {
	var chunks []string
	var current []rune

	flush := func() {
		if s := strings.TrimSpace(string(current)); s != "" {
			chunks = append(chunks, s)
		}
		current = current[:0]
	}

	for _, word := range strings.FieldsFunc(text, unicode.IsSpace) {
		runes := []rune(word)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		if len(current) > 0 && len(current)+1+len(runes) > limit {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, runes...)
	}
	flush()
	return chunks
}
