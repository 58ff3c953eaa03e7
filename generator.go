package main

import (
	"encoding/json"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/aktagon/llmkit/anthropic/agents"
)

// bodyMaxTokens caps how much of the existing description is quoted in
// prompts (4 chars ≈ 1 token).
const bodyMaxTokens = 2000

// Generator wraps the content generation service for the three pipeline
// concerns: category inference, keyword extraction, and description/SEO
// synthesis, plus title regeneration for collision remediation.
//
// Every method is a single blocking request/response. Failures surface as
// errors; the workflow substitutes the documented fallback at each call site
// so generation can never abort an item.
type Generator struct {
	classifier *agents.ChatAgent
	keyworder  *agents.ChatAgent
	writer     *agents.ChatAgent
	settings   *Settings
	converter  *md.Converter
}

// NewGenerator creates a generator with one agent per concern.
func NewGenerator(apiKey string, settings *Settings) (*Generator, error) {
	classifier, err := agents.New(apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating classifier agent: %w", err)
	}
	keyworder, err := agents.New(apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating keyword agent: %w", err)
	}
	writer, err := agents.New(apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating writer agent: %w", err)
	}

	return &Generator{
		classifier: classifier,
		keyworder:  keyworder,
		writer:     writer,
		settings:   settings,
		converter:  md.NewConverter("", true, nil),
	}, nil
}

// InferCategory maps a product title to one of the configured tone guide
// categories. Any answer outside the guide collapses to "Default". The
// classifier only selects a writing voice, so it is deliberately lossy.
func (g *Generator) InferCategory(title string) (string, error) {
	prompt := renderPrompt(categoryPrompt, map[string]string{
		"Categories": "- " + strings.Join(g.settings.CategoryNames(), "\n- "),
		"Title":      title,
	})

	response, err := g.classifier.Chat(prompt, &agents.ChatOptions{
		MaxTokens:   g.settings.Agents.Classifier.MaxTokens,
		Temperature: g.settings.Agents.Classifier.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("classifier chat: %w", err)
	}

	category := strings.TrimSpace(response.Text)
	if _, ok := g.settings.Categories[category]; !ok {
		debugLog("classifier answered %q, collapsing to Default", category)
		return "Default", nil
	}
	return category, nil
}

// ExtractKeywords derives the primary and related SEO keywords for a product.
func (g *Generator) ExtractKeywords(title, body string) (KeywordSet, error) {
	prompt := renderPrompt(keywordsPrompt, map[string]string{
		"Title": title,
		"Body":  g.bodyForPrompt(body),
	})

	response, err := g.keyworder.Chat(prompt, &agents.ChatOptions{
		MaxTokens:   g.settings.Agents.Keywords.MaxTokens,
		Temperature: g.settings.Agents.Keywords.Temperature,
	})
	if err != nil {
		return KeywordSet{}, fmt.Errorf("keyword chat: %w", err)
	}

	block, ok := extractJSONObject(response.Text)
	if !ok {
		return KeywordSet{}, fmt.Errorf("no JSON object in keyword response")
	}

	var kw KeywordSet
	if err := json.Unmarshal([]byte(block), &kw); err != nil {
		return KeywordSet{}, fmt.Errorf("parsing keyword JSON: %w", err)
	}
	if kw.Primary == "" || len(kw.Related) == 0 {
		return KeywordSet{}, fmt.Errorf("keyword JSON incomplete")
	}
	return kw, nil
}

// FallbackKeywords is the fixed keyword set used when extraction fails.
func FallbackKeywords() KeywordSet {
	return KeywordSet{
		Primary: "product",
		Related: []string{"shop", "buy online", "best deal"},
	}
}

// SynthesizeContent rewrites the product description and derives SEO
// metadata. The prompt states the content contract (word count, keyword
// density, forbidden terms, heading structure); the returned text is trusted,
// not verified.
func (g *Generator) SynthesizeContent(title, body, category string, kw KeywordSet) (GeneratedContent, error) {
	tone := g.settings.Tone(category)
	prompt := renderPrompt(contentPrompt, map[string]string{
		"Brand":     g.settings.Brand,
		"WordCount": fmt.Sprintf("%d", g.settings.WordCount),
		"Voice":     tone.Voice,
		"Sections":  strings.Join(tone.Sections, ", "),
		"Title":     title,
		"Body":      g.bodyForPrompt(body),
		"Primary":   kw.Primary,
		"Related":   strings.Join(kw.Related, ", "),
	})

	response, err := g.writer.Chat(prompt, &agents.ChatOptions{
		MaxTokens:   g.settings.Agents.Writer.MaxTokens,
		Temperature: g.settings.Agents.Writer.Temperature,
	})
	if err != nil {
		return GeneratedContent{}, fmt.Errorf("writer chat: %w", err)
	}

	block, ok := extractJSONObject(response.Text)
	if !ok {
		return GeneratedContent{}, fmt.Errorf("no JSON object in content response")
	}

	var content GeneratedContent
	if err := json.Unmarshal([]byte(block), &content); err != nil {
		return GeneratedContent{}, fmt.Errorf("parsing content JSON: %w", err)
	}
	if content.BodyHTML == "" || content.SEOTitle == "" {
		return GeneratedContent{}, fmt.Errorf("content JSON incomplete")
	}
	return content, nil
}

// RegenerateTitle asks for a different surface form of a colliding title,
// keeping the same keyword material.
func (g *Generator) RegenerateTitle(previous string, kw KeywordSet) (string, error) {
	prompt := renderPrompt(titleRetryPrompt, map[string]string{
		"Primary": kw.Primary,
		"Related": strings.Join(kw.Related, ", "),
		"Title":   previous,
	})

	response, err := g.writer.Chat(prompt, &agents.ChatOptions{
		MaxTokens:   g.settings.Agents.Keywords.MaxTokens,
		Temperature: 0.9,
	})
	if err != nil {
		return "", fmt.Errorf("title retry chat: %w", err)
	}

	block, ok := extractJSONObject(response.Text)
	if !ok {
		return "", fmt.Errorf("no JSON object in title response")
	}

	var parsed struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		return "", fmt.Errorf("parsing title JSON: %w", err)
	}
	if strings.TrimSpace(parsed.Title) == "" {
		return "", fmt.Errorf("title JSON incomplete")
	}
	return strings.TrimSpace(parsed.Title), nil
}

// bodyForPrompt converts stored HTML to markdown for cleaner prompt input and
// caps its length. Falls back to the raw HTML if conversion fails.
func (g *Generator) bodyForPrompt(body string) string {
	if body == "" {
		return "(no existing description)"
	}
	markdown, err := g.converter.ConvertString(body)
	if err != nil {
		debugLog("HTML to markdown conversion failed: %v", err)
		markdown = body
	}
	return limitTokens(markdown, bodyMaxTokens)
}

// limitTokens truncates content to approximately maxTokens (4 chars ≈ 1
// token).
func limitTokens(content string, maxTokens int) string {
	maxChars := maxTokens * 4
	if len(content) <= maxChars {
		return content
	}
	return content[:maxChars] + "..."
}

// renderPrompt substitutes {{.Name}} placeholders in a prompt template.
func renderPrompt(template string, vars map[string]string) string {
	out := template
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{{."+name+"}}", value)
	}
	return out
}

// extractJSONObject locates the first balanced brace-delimited substring in
// free text. The generation service wraps its JSON payload in explanatory
// prose often enough that this is a defined parsing contract rather than an
// error path. Returns false when no balanced block exists.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				block := text[start : i+1]
				if json.Valid([]byte(block)) {
					return block, true
				}
				return "", false
			}
		}
	}
	return "", false
}
