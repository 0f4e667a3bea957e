package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nyaymitra-backend/extraction"
	"nyaymitra-backend/models"
	"nyaymitra-backend/provider"
	"nyaymitra-backend/repository"
	"nyaymitra-backend/speech"
)

type fixture struct {
	svc       *LegalService
	gen       *MockContentGenerator
	chat      *MockChatCompleter
	retriever *stubRetriever
	extractor *stubExtractor
	speaker   *stubSpeaker
	cases     *repository.MemoryCaseLedger
}

func newFixture() *fixture {
	f := &fixture{
		gen:       new(MockContentGenerator),
		chat:      new(MockChatCompleter),
		retriever: &stubRetriever{},
		extractor: &stubExtractor{},
		speaker:   &stubSpeaker{},
		cases:     repository.NewMemoryCaseLedger(),
	}
	modelIDs := map[models.CallSite]string{
		models.CallSiteVerdict:    "verdict-model",
		models.CallSiteChat:       "chat-model",
		models.CallSiteChatWidget: "widget-model",
		models.CallSiteVoice:      "voice-model",
		models.CallSiteDocument:   "document-model",
	}
	f.svc = NewLegalService(
		WithGenerator(NewOrchestrator(WithContentGenerator(f.gen), WithChatCompleter(f.chat))),
		WithRetriever(f.retriever),
		WithExtractor(f.extractor),
		WithSpeaker(f.speaker),
		WithCaseLedger(f.cases),
		WithModelSelector(func(site models.CallSite) string { return modelIDs[site] }),
	)
	f.svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return f
}

func TestVerdict_NoSearchResultStillGeneratesAndRecords(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.cases.Record(ctx, &models.CaseRecord{Category: "family"}))

	var prompt string
	f.gen.On("GenerateContent", mock.Anything, mock.Anything, "verdict-model").
		Run(func(args mock.Arguments) { prompt = args.String(1) }).
		Return("FINAL ORDER: dismissed", nil)

	result, err := f.svc.Verdict(ctx, VerdictRequest{
		UserID:    "u1",
		Category:  "contract",
		Plaintiff: "X breached clause 4",
		Defendant: "no breach occurred",
	})
	require.NoError(t, err)

	assert.Equal(t, "X breached clause 4 no breach occurred", f.retriever.query)
	assert.Equal(t, "contract", f.retriever.category)
	assert.Contains(t, prompt, "Relevant Case Law Context:\n\n\nPlease provide")

	assert.Equal(t, int64(2), result.Case.ID)
	assert.Equal(t, "contract", result.Case.Category)
	assert.Equal(t, "FINAL ORDER: dismissed", result.Case.VerdictText)
	assert.False(t, result.Degraded)

	recent, err := f.svc.RecentCases(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, result.Case, recent[0])
}

func TestVerdict_ContextIsBudgeted(t *testing.T) {
	f := newFixture()
	f.retriever.raw = `{"docs":"` + strings.Repeat("a", 3000) + `"}`

	var prompt string
	f.gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { prompt = args.String(1) }).
		Return("ok", nil)

	_, err := f.svc.Verdict(context.Background(), VerdictRequest{UserID: "u1", Category: "civil"})
	require.NoError(t, err)

	assert.Contains(t, prompt, `{"docs":"`+strings.Repeat("a", 2000-len(`{"docs":"`))+"\n")
	assert.NotContains(t, prompt, strings.Repeat("a", 2000))
}

func TestVerdict_QuotaIsDegradedAndRecorded(t *testing.T) {
	f := newFixture()
	f.gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("Error 429: quota exceeded"))

	result, err := f.svc.Verdict(context.Background(), VerdictRequest{UserID: "u1", Category: "contract"})
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, VerdictQuotaTemplate(), result.Case.VerdictText)

	all, _ := f.cases.List(context.Background())
	assert.Len(t, all, 1)
}

func TestVerdict_ProviderFailurePropagatesAndRecordsNothing(t *testing.T) {
	f := newFixture()
	f.gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("service unavailable"))

	_, err := f.svc.Verdict(context.Background(), VerdictRequest{UserID: "u1", Category: "contract"})
	assert.ErrorIs(t, err, ErrProviderFailure)

	all, _ := f.cases.List(context.Background())
	assert.Empty(t, all)
}

func TestVerdict_DocumentExcerpt(t *testing.T) {
	f := newFixture()
	f.extractor.text = strings.Repeat("é", 5000)

	var prompt string
	f.gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { prompt = args.String(1) }).
		Return("ok", nil)

	_, err := f.svc.Verdict(context.Background(), VerdictRequest{
		UserID:   "u1",
		Category: "property",
		Document: &Upload{FilePath: "/tmp/deed.txt", Format: models.FormatTXT},
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, strings.Repeat("é", 4000))
	assert.NotContains(t, prompt, strings.Repeat("é", 4001))
}

func TestVerdict_ExtractionFailureSurfaces(t *testing.T) {
	f := newFixture()
	f.extractor.err = extraction.ErrExtraction

	_, err := f.svc.Verdict(context.Background(), VerdictRequest{
		UserID:   "u1",
		Category: "contract",
		Document: &Upload{FilePath: "/tmp/x.doc", Format: models.FormatDOC},
	})
	assert.ErrorIs(t, err, extraction.ErrExtraction)
	f.gen.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything)
}

func TestChat_QuotaApologyIsAppendedToHistory(t *testing.T) {
	f := newFixture()
	f.gen.On("GenerateContent", mock.Anything, mock.Anything, "chat-model").
		Return("", errors.New("429 You exceeded your current quota"))

	result, err := f.svc.Chat(context.Background(), ChatRequest{UserID: "u1", Message: "What is Section 302?"})
	require.NoError(t, err)

	assert.Equal(t, QuotaApology, result.Reply)
	assert.True(t, result.Degraded)
	assert.Equal(t, []models.ConversationTurn{
		{Role: models.RoleUser, Content: "What is Section 302?"},
		{Role: models.RoleAssistant, Content: QuotaApology},
	}, result.History)
	assert.Equal(t, "general", f.retriever.category)
}

func TestChat_GenericFailureApologizes(t *testing.T) {
	f := newFixture()
	f.gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("connection refused"))

	result, err := f.svc.Chat(context.Background(), ChatRequest{UserID: "u1", Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, GenericApology, result.Reply)
}

func TestChat_WidgetUsesItsOwnModelAndSharesHistory(t *testing.T) {
	f := newFixture()
	f.gen.On("GenerateContent", mock.Anything, mock.Anything, "widget-model").Return("widget answer", nil)
	f.gen.On("GenerateContent", mock.Anything, mock.Anything, "chat-model").Return("page answer", nil)
	ctx := context.Background()

	_, err := f.svc.Chat(ctx, ChatRequest{UserID: "u1", Message: "first", Widget: true})
	require.NoError(t, err)
	result, err := f.svc.Chat(ctx, ChatRequest{UserID: "u1", Message: "second"})
	require.NoError(t, err)

	require.Len(t, result.History, 4)
	assert.Equal(t, "widget answer", result.History[1].Content)
	assert.Equal(t, "page answer", result.History[3].Content)

	history, err := f.svc.History(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, result.History, history)
}

func TestChat_RejectsEmptyMessage(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Chat(context.Background(), ChatRequest{UserID: "u1", Message: "  "})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestVoice_ComposesAndSpeaks(t *testing.T) {
	f := newFixture()
	f.retriever.raw = `[1,2,3]`

	f.chat.On("ChatComplete", mock.Anything, mock.MatchedBy(func(msgs []models.ConversationTurn) bool {
		return len(msgs) == 2 &&
			msgs[0].Role == models.RoleSystem &&
			strings.Contains(msgs[0].Content, "very simple terms") &&
			strings.Contains(msgs[0].Content, "[1,2,3]") &&
			msgs[1].Content == "Can I break a lease?"
	}), "voice-model", float32(0.7), int32(1024)).Return("Yes, with notice.", nil)

	result, err := f.svc.Voice(context.Background(), VoiceRequest{
		UserID:     "u1",
		Text:       "Can I break a lease?",
		Complexity: "basic",
	})
	require.NoError(t, err)

	assert.Equal(t, "Yes, with notice.", result.Text)
	assert.Equal(t, "/static/audio/response_1.mp3", result.AudioURL)
	assert.Equal(t, speech.PrefixVoice, f.speaker.prefix)
	f.chat.AssertExpectations(t)
}

func TestVoice_ExplicitModelAndUnknownComplexity(t *testing.T) {
	f := newFixture()
	f.chat.On("ChatComplete", mock.Anything, mock.Anything, "mixtral", mock.Anything, mock.Anything).Return("ok", nil)

	_, err := f.svc.Voice(context.Background(), VoiceRequest{UserID: "u1", Text: "q", ModelID: "mixtral"})
	require.NoError(t, err)

	_, err = f.svc.Voice(context.Background(), VoiceRequest{UserID: "u1", Text: "q", Complexity: "expert"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestVoice_SynthesisFailureSurfaces(t *testing.T) {
	f := newFixture()
	f.speaker.err = speech.ErrSynthesis
	f.chat.On("ChatComplete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ok", nil)

	_, err := f.svc.Voice(context.Background(), VoiceRequest{UserID: "u1", Text: "q"})
	assert.ErrorIs(t, err, speech.ErrSynthesis)
}

func TestAnalyzeDocument_CapsContentAndSpeaks(t *testing.T) {
	f := newFixture()
	f.extractor.text = strings.Repeat("x", 4500)

	f.chat.On("ChatComplete", mock.Anything, mock.MatchedBy(func(msgs []models.ConversationTurn) bool {
		return len(msgs) == 2 && msgs[1].Content == "Analyze this document:\n\n"+strings.Repeat("x", 4000)
	}), "document-model", float32(0.7), int32(1024)).Return("The lease is valid.", nil)

	result, err := f.svc.AnalyzeDocument(context.Background(), DocumentRequest{
		UserID:   "u1",
		Document: Upload{FilePath: "/tmp/lease.pdf", Format: models.FormatPDF},
	})
	require.NoError(t, err)
	assert.Equal(t, "The lease is valid.", result.Text)
	assert.Equal(t, speech.PrefixDocument, f.speaker.prefix)
	assert.Zero(t, f.retriever.calls)
}

func TestAnalyzeDocument_ProviderFailureStillSpeaks(t *testing.T) {
	f := newFixture()
	f.extractor.text = "contract"
	f.chat.On("ChatComplete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bad gateway"))

	result, err := f.svc.AnalyzeDocument(context.Background(), DocumentRequest{
		UserID:   "u1",
		Document: Upload{FilePath: "/tmp/a.txt", Format: models.FormatTXT},
	})
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, GenericApology, f.speaker.text)
}

func TestSpokenFlows_EmptyGroqReplyApologizes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":null}}]}`))
	}))
	defer server.Close()

	f := newFixture()
	f.extractor.text = "tenancy agreement"
	f.svc.generator = NewOrchestrator(WithChatCompleter(provider.NewGroq("gq-key", server.URL)))
	ctx := context.Background()

	voice, err := f.svc.Voice(ctx, VoiceRequest{UserID: "u1", Text: "Can I break a lease?"})
	require.NoError(t, err)
	assert.True(t, voice.Degraded)
	assert.Equal(t, GenericApology, voice.Text)
	assert.Equal(t, GenericApology, f.speaker.text)
	assert.Equal(t, speech.PrefixVoice, f.speaker.prefix)

	doc, err := f.svc.AnalyzeDocument(ctx, DocumentRequest{
		UserID:   "u1",
		Document: Upload{FilePath: "/tmp/lease.txt", Format: models.FormatTXT},
	})
	require.NoError(t, err)
	assert.True(t, doc.Degraded)
	assert.Equal(t, GenericApology, doc.Text)
	assert.Equal(t, GenericApology, f.speaker.text)
	assert.Equal(t, speech.PrefixDocument, f.speaker.prefix)
}

func TestSubmitFeedback(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	rec, err := f.svc.SubmitFeedback(ctx, "u1", "contract", "5", "clear reasoning")
	require.NoError(t, err)
	assert.Equal(t, "5", rec.Rating)

	recent, err := f.svc.RecentFeedback(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "clear reasoning", recent[0].Remarks)

	_, err = f.svc.SubmitFeedback(ctx, "u1", "contract", "", "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRecentCases_InvalidLimit(t *testing.T) {
	_, err := newFixture().svc.RecentCases(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
