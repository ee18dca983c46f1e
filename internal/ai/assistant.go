package ai

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const assistantSystemPrompt = "You are an experienced blog editor and SEO " +
	"specialist. Answer with only the requested content, no preamble."

// Assistant exposes the writing helpers the editorial endpoints call. It
// delegates generation to whichever provider the registry has active.
type Assistant struct {
	registry *Registry
}

// NewAssistant wraps a provider registry.
func NewAssistant(registry *Registry) *Assistant {
	return &Assistant{registry: registry}
}

// maxDescriptionInput and maxImprovementInput bound how much caller
// content is forwarded to the provider, for token efficiency.
const (
	maxDescriptionInput = 2000
	maxImprovementInput = 4000
)

// DefaultMetaDescriptionLength is the usual SERP snippet budget.
// Requested limits below minMetaDescriptionLength fall back to the
// default; nothing useful fits in fewer characters.
const (
	DefaultMetaDescriptionLength = 160
	minMetaDescriptionLength     = 20
)

// Outline generates a structured blog post outline for a topic. The
// response is whatever JSON the model produced; callers pass it through.
func (a *Assistant) Outline(ctx context.Context, topic, audience string, wordCount int) (string, error) {
	if audience == "" {
		audience = "general"
	}
	if wordCount <= 0 {
		wordCount = 1500
	}

	prompt := fmt.Sprintf(`Generate a detailed blog post outline about %q for a %s audience, targeting approximately %d words. Include a compelling title, introduction, 5-7 main sections with subpoints, and a conclusion. Also suggest 5-10 relevant keywords for SEO purposes.

Format the response as JSON with the following structure:
{
  "title": "The blog post title",
  "introduction": "Brief description of what the introduction should cover",
  "sections": [{"heading": "Section 1 heading", "subpoints": ["Point 1", "Point 2"]}],
  "conclusion": "Brief description of what the conclusion should cover",
  "keywords": ["keyword1", "keyword2"]
}`, topic, audience, wordCount)

	return a.registry.Generate(ctx, assistantSystemPrompt, prompt)
}

// MetaDescription generates an SEO meta description for the given content,
// truncated to maxLength characters. A maxLength of zero or below the
// minimum uses the default.
func (a *Assistant) MetaDescription(ctx context.Context, content string, maxLength int) (string, error) {
	if maxLength < minMetaDescriptionLength {
		maxLength = DefaultMetaDescriptionLength
	}

	prompt := fmt.Sprintf(`Generate an SEO-friendly meta description based on the following content. The meta description should be compelling, include relevant keywords, and be no longer than %d characters.

Content:
%s`, maxLength, truncate(content, maxDescriptionInput))

	out, err := a.registry.Generate(ctx, assistantSystemPrompt, prompt)
	if err != nil {
		return "", err
	}

	out = strings.TrimSpace(out)
	if runes := []rune(out); len(runes) > maxLength {
		out = string(runes[:maxLength-3]) + "..."
	}
	return out, nil
}

// Improvements asks for concrete suggestions to improve a draft, covering
// structure, SEO, engagement, accuracy, and call to action.
func (a *Assistant) Improvements(ctx context.Context, content string) (string, error) {
	prompt := fmt.Sprintf(`Analyze the following blog post content and provide specific suggestions for improvement in these areas:
1. Overall structure and readability
2. SEO optimization
3. Engagement and hook
4. Technical accuracy
5. Call to action

Format the response as JSON with suggestions for each area.

Content:
%s`, truncate(content, maxImprovementInput))

	return a.registry.Generate(ctx, assistantSystemPrompt, prompt)
}

// truncate caps s at n bytes without splitting a multibyte character.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
