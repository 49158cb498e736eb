// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generator builds the academic-article prompt, calls the active
// AI provider, and parses the delimited multi-section response into typed
// fields. Parsing is best-effort: a short or partially malformed response
// degrades to fallback values rather than failing the whole request, since
// the article can always be regenerated but a crashed submission can't be
// recovered by the user.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"aiblog/internal/ai"
	"aiblog/internal/models"
)

// SectionBreak separates the eight response sections.
const SectionBreak = "_||_SECTION_BREAK_||_"

// MinTopicLength is the minimum trimmed topic length the submission
// handler enforces before calling Generate.
const MinTopicLength = 10

// Fallback values used when the response has fewer sections than expected.
const (
	fallbackTitle    = "Title not generated"
	fallbackCategory = "General"
)

// ErrNoActiveCredential is returned when the database holds no active API
// key for the selected provider. Fatal for the generation attempt; the
// handler surfaces it and marks the article as errored.
var ErrNoActiveCredential = errors.New("generator: no active API credential configured")

// UpstreamError wraps a transport or service failure from the generation
// call. Retries are an operational concern and are deliberately not
// attempted here.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generator: upstream failure: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// GeneratedFields is the parsed result of one generation call.
type GeneratedFields struct {
	Title           string
	EnglishAbstract string
	TurkishAbstract string
	CategoryName    string
	Keywords        string
	Content         string
	Bibliography    string
	StructuredData  models.VisualMap
}

// CredentialSource supplies the active API key for a provider. Implemented
// by store.CredentialStore; returns ("", nil) when no active key exists.
type CredentialSource interface {
	ActiveKey(ctx context.Context, service string) (string, error)
}

// Client is the generation client. It is safe for concurrent use.
type Client struct {
	registry *ai.Registry
	creds    CredentialSource
	now      func() time.Time
}

// New creates a generation client using the given provider registry and
// credential source.
func New(registry *ai.Registry, creds CredentialSource) *Client {
	return &Client{
		registry: registry,
		creds:    creds,
		now:      time.Now,
	}
}

// Generate produces a full article draft for the given topic. The call
// blocks until the provider responds; no timeout is enforced here beyond
// the provider's own HTTP client timeout.
func (c *Client) Generate(ctx context.Context, topic string) (*GeneratedFields, error) {
	key, err := c.creds.ActiveKey(ctx, c.registry.ActiveName())
	if err != nil {
		return nil, fmt.Errorf("generator: load credential: %w", err)
	}
	if key == "" {
		return nil, ErrNoActiveCredential
	}

	system, user := buildPrompt(topic, c.now().Year())

	slog.Info("generation request sent", "provider", c.registry.ActiveName())
	raw, err := c.registry.Generate(ctx, key, system, user)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	slog.Info("generation response received", "provider", c.registry.ActiveName(), "bytes", len(raw))

	return parseResponse(raw), nil
}

// buildPrompt assembles the system persona and the eight-section user
// prompt. The structure (fixed section order, literal delimiter, JSON
// structured data last) is a hard contract with parseResponse.
func buildPrompt(topic string, year int) (system, user string) {
	system = "You are a highly knowledgeable senior academic writer. Your task is to produce a " +
		"publication-ready article draft on the given topic: a deep introduction to the literature, " +
		"original arguments, a rich bibliography, and inline data visualizations (tables/charts)."

	user = fmt.Sprintf(`Request topic: %q

Write the article as exactly 8 sections, in the order below, separating each section with the literal delimiter %s.

Section order:
1. Title: a specific, analytical, academic title.
2. English abstract: roughly 150 words summarizing the article.
3. Turkish abstract: a fluent Turkish translation of the English abstract.
4. Category name: 1-2 words that best summarize the topic.
5. Keywords: 5-6 comma-separated keywords.
6. Full content: Markdown, at least 1500 words. Open with a literature review focused on the last 5 years (%d-%d). Add 3-4 analytical subheadings and a conclusion. Use numbered citations like [1], [2] in the text. VERY IMPORTANT: place placeholders such as _||_STRUCTURED_DATA_1_||_ and _||_STRUCTURED_DATA_2_||_ at the points where data should be visualized.
7. Bibliography: 10-15 numbered entries matching the citations in the text.
8. Structured data (JSON): a VALID JSON object whose keys are the placeholder numbers from the text (e.g. "1", "2"). Give only the JSON object, with no code fences before or after.
   - For a table: {"1": {"type": "table", "title": "Table Title", "columns": ["Column 1", "Column 2"], "data": [["Value 1A", "Value 1B"]]}}
   - For a bar chart: {"2": {"type": "chart", "chart_type": "bar", "title": "Chart Title", "data": {"x": ["Category A"], "y": [10]}}}
   - If no suitable data exists, return an empty object: {}

Reply with nothing but these 8 sections separated by the delimiter above.`,
		topic, SectionBreak, year-5, year)

	return system, user
}

var (
	// abstractLabel strips a leading "Abstract:" label, with or without
	// bold markers, from the English abstract.
	abstractLabel = regexp.MustCompile(`(?i)^\s*(\*\*abstract:\*\*|abstract:)\s*`)
	// ozetLabel does the same for the Turkish "Özet:" label.
	ozetLabel = regexp.MustCompile(`(?i)^\s*(\*\*özet:\*\*|özet:)\s*`)
)

// parseResponse splits the raw response on the section delimiter and maps
// the parts to fields. Missing sections fall back to fixed defaults and
// the structured-data section tolerates code fences and invalid JSON.
// Structured data is decorative, so a bad eighth section must not sink
// the other seven.
func parseResponse(raw string) *GeneratedFields {
	parts := strings.Split(raw, SectionBreak)

	section := func(i int, fallback string) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return fallback
	}

	f := &GeneratedFields{
		Title:           section(0, fallbackTitle),
		EnglishAbstract: section(1, ""),
		TurkishAbstract: section(2, ""),
		CategoryName:    section(3, fallbackCategory),
		Keywords:        section(4, ""),
		Content:         section(5, ""),
		Bibliography:    section(6, ""),
		StructuredData:  models.VisualMap{},
	}

	if len(parts) > 7 {
		f.StructuredData = parseStructuredData(parts[7])
	}

	// The model likes to bold the title and label the abstracts.
	f.Title = strings.TrimSpace(strings.ReplaceAll(f.Title, "**", ""))
	f.EnglishAbstract = strings.TrimSpace(abstractLabel.ReplaceAllString(f.EnglishAbstract, ""))
	f.TurkishAbstract = strings.TrimSpace(ozetLabel.ReplaceAllString(f.TurkishAbstract, ""))

	return f
}

// parseStructuredData strips code-fence markers and decodes the JSON
// mapping. Any decode failure yields an empty mapping.
func parseStructuredData(s string) models.VisualMap {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	if s == "" {
		return models.VisualMap{}
	}

	var data models.VisualMap
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		slog.Warn("structured data section is not valid JSON, discarding", "error", err)
		return models.VisualMap{}
	}
	if data == nil {
		return models.VisualMap{}
	}
	return data
}
