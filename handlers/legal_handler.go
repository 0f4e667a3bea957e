package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nyaymitra-backend/service"
)

// LegalHandler handles HTTP requests for the generation pipeline
type LegalHandler struct {
	legalService *service.LegalService
	uploads      *Uploads
}

// NewLegalHandler creates a new legal handler
func NewLegalHandler(legalService *service.LegalService, uploads *Uploads) *LegalHandler {
	return &LegalHandler{
		legalService: legalService,
		uploads:      uploads,
	}
}

// VerdictRequest is the form body of a verdict request; a "document" file is optional
type VerdictRequest struct {
	Category  string `form:"category" binding:"required"`
	Plaintiff string `form:"plaintiff" binding:"required"`
	Defendant string `form:"defendant" binding:"required"`
}

// Verdict handles POST /api/verdict
func (h *LegalHandler) Verdict(c *gin.Context) {
	var req VerdictRequest
	if err := c.ShouldBind(&req); err != nil {
		if bodyTooLarge(err) {
			h.uploads.respondTooLarge(c)
			return
		}
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	upload, cleanup, ok := h.uploads.save(c, "document", false)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.legalService.Verdict(c.Request.Context(), service.VerdictRequest{
		UserID:    currentUser(c),
		Category:  req.Category,
		Plaintiff: req.Plaintiff,
		Defendant: req.Defendant,
		Document:  upload,
	})
	if err != nil {
		respondFailure(c, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"case":     result.Case,
		"degraded": result.Degraded,
	})
}

// ChatRequest is the JSON body of a chat message
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat handles POST /api/chat (the chat widget)
func (h *LegalHandler) Chat(c *gin.Context) {
	h.chat(c, true)
}

// Assistant handles POST /api/assistant (the assistant page)
func (h *LegalHandler) Assistant(c *gin.Context) {
	h.chat(c, false)
}

func (h *LegalHandler) chat(c *gin.Context, widget bool) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.legalService.Chat(c.Request.Context(), service.ChatRequest{
		UserID:  currentUser(c),
		Message: req.Message,
		Widget:  widget,
	})
	if err != nil {
		respondFailure(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"message":  result.Reply,
		"history":  result.History,
		"degraded": result.Degraded,
	})
}

// History handles GET /api/chat/history
func (h *LegalHandler) History(c *gin.Context) {
	history, err := h.legalService.History(c.Request.Context(), currentUser(c))
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondOK(c, http.StatusOK, history)
}

// VoiceRequest is the JSON body of a voice query
type VoiceRequest struct {
	Text       string `json:"text" binding:"required"`
	Model      string `json:"model"`
	Complexity string `json:"complexity"`
}

// Voice handles POST /api/voice-chat
func (h *LegalHandler) Voice(c *gin.Context) {
	var req VoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.legalService.Voice(c.Request.Context(), service.VoiceRequest{
		UserID:     currentUser(c),
		Text:       req.Text,
		ModelID:    req.Model,
		Complexity: req.Complexity,
	})
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondSpoken(c, result)
}

// VoiceFile handles POST /api/voice-file (multipart "file", optional "model")
func (h *LegalHandler) VoiceFile(c *gin.Context) {
	upload, cleanup, ok := h.uploads.save(c, "file", true)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.legalService.AnalyzeDocument(c.Request.Context(), service.DocumentRequest{
		UserID:   currentUser(c),
		Document: *upload,
		ModelID:  c.PostForm("model"),
	})
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondSpoken(c, result)
}

func respondSpoken(c *gin.Context, result *service.SpokenResult) {
	respondOK(c, http.StatusOK, gin.H{
		"text":      result.Text,
		"audio_url": result.AudioURL,
		"degraded":  result.Degraded,
	})
}

// FeedbackRequest is the JSON body of a feedback submission
type FeedbackRequest struct {
	Category string `json:"category"`
	Rating   string `json:"rating" binding:"required"`
	Remarks  string `json:"remarks"`
}

// Feedback handles POST /api/feedback
func (h *LegalHandler) Feedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	record, err := h.legalService.SubmitFeedback(c.Request.Context(), currentUser(c), req.Category, req.Rating, req.Remarks)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondOK(c, http.StatusCreated, record)
}

// RecentCases handles GET /api/admin/cases?n=10
func (h *LegalHandler) RecentCases(c *gin.Context) {
	n, ok := limitParam(c)
	if !ok {
		return
	}
	records, err := h.legalService.RecentCases(c.Request.Context(), n)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondOK(c, http.StatusOK, records)
}

// RecentFeedback handles GET /api/admin/feedback?n=10
func (h *LegalHandler) RecentFeedback(c *gin.Context) {
	n, ok := limitParam(c)
	if !ok {
		return
	}
	records, err := h.legalService.RecentFeedback(c.Request.Context(), n)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondOK(c, http.StatusOK, records)
}

func limitParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.DefaultQuery("n", "10"))
	if err != nil || n <= 0 {
		respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "n must be a positive integer")
		return 0, false
	}
	return n, true
}
