// Package summary generates the topic summary and related keywords for a
// set of posts: one chat completion against a configurable
// OpenAI-compatible endpoint, with a statistical fallback that keeps the
// keyword list populated when the model gives too few or is not configured.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"mastolens/internal/config"
)

const (
	// keywordTarget is how many related keywords the API aims to return.
	keywordTarget = 4

	requestTimeout = 60 * time.Second
)

const systemPrompt = "You are an expert at summarizing social media content with specific details " +
	"and extracting key topics. Your summaries are detailed and informative, citing concrete " +
	"examples and contrasting viewpoints from the posts rather than vague generalizations."

const instructionTemplate = `Create a detailed, specific summary of Mastodon posts about %q AND extract exactly %d related keywords.

YOUR SUMMARY MUST:
1. Include specific details, use cases, and examples from the posts
2. Highlight contrasting viewpoints if they exist
3. Be 3-5 paragraphs of concrete information (at least 250 words)

THE %d KEYWORDS MUST:
1. Be substantive words capturing key themes
2. NOT include common words, URLs, or the original search term

FORMAT YOUR RESPONSE EXACTLY AS FOLLOWS:
SUMMARY: [Your detailed summary here]

KEYWORDS: [keyword1, keyword2, keyword3, keyword4]

POSTS:
%s`

// Generator produces summaries and keywords. With no API key configured it
// degrades to the statistical keyword fallback and an empty summary.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator builds a Generator from LLM configuration.
func NewGenerator(cfg config.LLMConfig) *Generator {
	g := &Generator{model: cfg.Model}
	if cfg.APIKey == "" {
		slog.Warn("no LLM API key configured; summaries disabled, keywords fall back to frequency extraction")
		return g
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: requestTimeout}
	g.client = openai.NewClientWithConfig(clientCfg)
	return g
}

// Generate returns a summary and related keywords for the posts. Model
// failures are not fatal: the summary comes back empty and keywords fall
// back to frequency extraction.
func (g *Generator) Generate(ctx context.Context, posts []string, keyword string) (string, []string) {
	var summaryText string
	var keywords []string

	if g.client != nil {
		summaryText, keywords = g.generateWithModel(ctx, posts, keyword)
	}

	if len(keywords) < keywordTarget {
		keywords = FallbackKeywords(posts, keyword, keywords)
	}
	return summaryText, keywords
}

func (g *Generator) generateWithModel(ctx context.Context, posts []string, keyword string) (string, []string) {
	combined := strings.Join(posts, "\n\n---\n\n")

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(instructionTemplate, keyword, keywordTarget, keywordTarget, combined)},
		},
	})
	if err != nil {
		slog.Warn("summary generation failed, continuing without a summary",
			slog.String("error", err.Error()))
		return "", nil
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}

	return ParseResponse(resp.Choices[0].Message.Content)
}

var (
	summaryPattern  = regexp.MustCompile(`SUMMARY:\s*([\s\S]*?)(?:\s*KEYWORDS:|$)`)
	keywordsPattern = regexp.MustCompile(`KEYWORDS:\s*([\s\S]*)$`)
	bracketCleaner  = strings.NewReplacer("[", "", "]", "", "'", "")
)

// ParseResponse extracts the summary text and keyword list from a model
// response in the SUMMARY:/KEYWORDS: format.
func ParseResponse(text string) (string, []string) {
	var summaryText string
	var keywords []string

	if m := summaryPattern.FindStringSubmatch(text); m != nil {
		summaryText = strings.TrimSpace(m[1])
	}
	if m := keywordsPattern.FindStringSubmatch(text); m != nil {
		for _, k := range strings.Split(bracketCleaner.Replace(m[1]), ",") {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
	}
	return summaryText, keywords
}

var stopWords = map[string]bool{
	"https": true, "http": true, "www": true, "com": true, "org": true,
	"net": true, "the": true, "and": true, "to": true, "in": true,
	"of": true, "a": true, "is": true, "that": true, "for": true,
	"on": true, "it": true, "with": true, "as": true, "by": true,
	"this": true, "be": true, "are": true, "an": true, "at": true,
	"have": true, "from": true, "they": true, "their": true, "was": true,
	"were": true, "been": true, "about": true, "more": true, "will": true,
}

var (
	fallbackURLPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)
	nonWordPattern     = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	digitsPattern      = regexp.MustCompile(`\d+`)
)

// FallbackKeywords tops the keyword list up to the target using word
// frequency over the posts: lowercase, URLs/punctuation/digits stripped,
// stop words removed, only words longer than 3 characters that do not
// contain the search term.
func FallbackKeywords(posts []string, keyword string, existing []string) []string {
	keywords := append([]string(nil), existing...)
	if len(keywords) >= keywordTarget || len(posts) == 0 {
		return keywords
	}

	lowerKeyword := strings.ToLower(strings.TrimPrefix(keyword, "#"))

	freq := make(map[string]int)
	var order []string
	for _, post := range posts {
		cleaned := fallbackURLPattern.ReplaceAllString(strings.ToLower(post), "")
		cleaned = nonWordPattern.ReplaceAllString(cleaned, "")
		cleaned = digitsPattern.ReplaceAllString(cleaned, "")
		for _, word := range strings.Fields(cleaned) {
			if _, seen := freq[word]; !seen {
				order = append(order, word)
			}
			freq[word]++
		}
	}

	// Stable sort so equally frequent words keep first-seen order.
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	seen := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		seen[strings.ToLower(k)] = true
	}

	for _, word := range order {
		if len(keywords) >= keywordTarget {
			break
		}
		if len(word) <= 3 || stopWords[word] || seen[word] {
			continue
		}
		if lowerKeyword != "" && strings.Contains(word, lowerKeyword) {
			continue
		}
		keywords = append(keywords, word)
		seen[word] = true
	}
	return keywords
}
