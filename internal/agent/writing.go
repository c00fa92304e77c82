package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/agentmesh/agentmesh/internal/domain/capability"
	"github.com/agentmesh/agentmesh/internal/port/textgen"
)

const (
	defaultWritingStyle = "informative"
	defaultTargetWords  = 800
	writingErrType      = "writing_error"
	titlePrefix         = "Title:"
	untitledArticle     = "Untitled Article"
	articlePrompt       = `Write a comprehensive %s article about: %s

Requirements:
- Target length: approximately %d words
- Include a compelling title
- Structure with clear introduction, body, and conclusion
- Use engaging and %s tone
- Include specific details and examples where relevant
- Make it informative and well-researched

Please format the response as follows:
Title: [Your compelling title here]

[Article content here with proper paragraphs]`
)

// WritingBackend generates articles from a topic description.
type WritingBackend struct {
	gen textgen.Generator
	log *slog.Logger
}

// NewWritingBackend creates the writing capability.
func NewWritingBackend(gen textgen.Generator, log *slog.Logger) *WritingBackend {
	return &WritingBackend{gen: gen, log: log}
}

// Kind implements agentbackend.Backend.
func (b *WritingBackend) Kind() capability.Kind { return capability.KindWriting }

// Invoke writes an article on the given topic. The title is lifted from
// a leading "Title:" line when the model honors the format; otherwise
// the whole output is kept as content under a default title.
func (b *WritingBackend) Invoke(ctx context.Context, input string) (*capability.Result, error) {
	topic := strings.TrimSpace(input)
	if topic == "" {
		return capability.Failed(capability.KindWriting, "empty writing topic", writingErrType), nil
	}

	raw, err := b.gen.Generate(ctx, fmt.Sprintf(articlePrompt,
		defaultWritingStyle, topic, defaultTargetWords, defaultWritingStyle))
	if err != nil {
		return capability.Failed(capability.KindWriting, err.Error(), writingErrType), nil
	}

	title, content := splitTitle(raw)
	words := len(strings.Fields(content))

	out := capability.Succeeded(capability.KindWriting)
	out.Writing = &capability.WritingResult{
		ArticleID: uuid.NewString(),
		Title:     title,
		Content:   content,
		WordCount: words,
		Style:     defaultWritingStyle,
		Topic:     topic,
	}
	b.log.Info("article created", "title", title, "words", words)
	return out, nil
}

// splitTitle separates a leading "Title:" line from the article body.
func splitTitle(raw string) (title, content string) {
	trimmed := strings.TrimSpace(raw)
	lines := strings.Split(trimmed, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], titlePrefix) {
		title = strings.TrimSpace(strings.TrimPrefix(lines[0], titlePrefix))
		content = strings.TrimSpace(strings.Join(lines[1:], "\n"))
		if title != "" {
			return title, content
		}
	}
	return untitledArticle, trimmed
}
