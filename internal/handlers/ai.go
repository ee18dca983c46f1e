package handlers

import (
	"net/http"
	"strings"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/ai"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/apperr"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/middleware"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/policy"
)

// AI groups the writing-assistant handlers. All of them require the AI
// assist permission; provider failures surface as 502 and never touch
// the content stores.
type AI struct {
	assistant *ai.Assistant
}

// NewAI creates a new AI handler group.
func NewAI(assistant *ai.Assistant) *AI {
	return &AI{assistant: assistant}
}

type outlineRequest struct {
	Topic     string `json:"topic"`
	Audience  string `json:"target_audience"`
	WordCount int    `json:"word_count"`
}

// Outline generates a structured blog post outline for a topic.
func (h *AI) Outline(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	var req outlineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		respondError(w, apperr.Validation("Topic is required."))
		return
	}

	outline, err := h.assistant.Outline(r.Context(), req.Topic, req.Audience, req.WordCount)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"outline": outline})
}

type metaDescriptionRequest struct {
	Content   string `json:"content"`
	MaxLength int    `json:"max_length"`
}

// MetaDescription generates an SEO meta description for content.
func (h *AI) MetaDescription(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	var req metaDescriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(w, apperr.Validation("Content is required."))
		return
	}

	description, err := h.assistant.MetaDescription(r.Context(), req.Content, req.MaxLength)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"meta_description": description})
}

type improvementsRequest struct {
	Content string `json:"content"`
}

// Improvements suggests concrete edits for a draft.
func (h *AI) Improvements(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	var req improvementsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(w, apperr.Validation("Content is required."))
		return
	}

	suggestions, err := h.assistant.Improvements(r.Context(), req.Content)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"suggestions": suggestions})
}

func (h *AI) authorize(w http.ResponseWriter, r *http.Request) bool {
	caller := middleware.UserFromCtx(r.Context())
	if !policy.Allow(caller.Role, policy.OpAIAssist, false) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return false
	}
	return true
}
