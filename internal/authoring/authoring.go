// Package authoring drafts new catalog lessons with an LLM.
package authoring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/coinquest/internal/catalog"
	"github.com/abhisek/coinquest/internal/llm"
	"github.com/abhisek/coinquest/internal/logger"
)

// ErrDuplicateLesson is returned when a draft reuses a catalog lesson name.
var ErrDuplicateLesson = errors.New("lesson already in catalog")

// Brief describes the lesson to draft.
type Brief struct {
	Topic     string `validate:"required"`
	Level     int    `validate:"gte=1,lte=10"`
	Questions int    `validate:"gte=1,lte=12"`
}

// LessonSchema is the shape requested from the model.
var LessonSchema = &llm.Schema{
	Name:        "lesson-draft",
	Description: "A short personal-finance lesson with multiple-choice questions.",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"name", "description", "content", "questions"},
		"properties": map[string]any{
			"name":        map[string]any{"type": "string", "description": "Short title, at most five words."},
			"description": map[string]any{"type": "string", "description": "One sentence summary."},
			"content":     map[string]any{"type": "string", "description": "The lesson text, two to four short paragraphs."},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"prompt", "options", "correct", "explanation"},
					"properties": map[string]any{
						"prompt":      map[string]any{"type": "string"},
						"options":     map[string]any{"type": "array", "minItems": 2, "maxItems": 4, "items": map[string]any{"type": "string"}},
						"correct":     map[string]any{"type": "integer", "minimum": 0, "description": "Zero-based index into options."},
						"explanation": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

const systemPrompt = `You write lessons for CoinQuest, a financial literacy game for teenagers.
Keep the language plain and concrete. Use dollar amounts in examples.
Every question must have exactly one correct option and the explanation
must say why it is correct.`

type draft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Questions   []struct {
		Prompt      string   `json:"prompt"`
		Options     []string `json:"options"`
		Correct     int      `json:"correct"`
		Explanation string   `json:"explanation"`
	} `json:"questions"`
}

// Service turns briefs into validated lessons.
type Service struct {
	provider llm.Provider
	catalog  *catalog.Catalog
	log      *logger.Logger
	validate *validator.Validate
}

// NewService returns a Service. existing may be nil; when set, drafts that
// reuse one of its lesson names are rejected.
func NewService(p llm.Provider, existing *catalog.Catalog, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{provider: p, catalog: existing, log: log, validate: validator.New()}
}

// Draft asks the model for a lesson and checks it against the catalog rules.
func (s *Service) Draft(ctx context.Context, b Brief) (catalog.Lesson, error) {
	if err := s.validate.Struct(b); err != nil {
		return catalog.Lesson{}, fmt.Errorf("invalid brief: %w", err)
	}

	req := llm.UserPrompt(systemPrompt, prompt(b))
	req.Schema = LessonSchema
	req.MaxTokens = 1024 + 300*b.Questions
	req.Temperature = 0.7

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "lesson-draft"), req)
	if err != nil {
		return catalog.Lesson{}, fmt.Errorf("draft lesson: %w", err)
	}
	var d draft
	if err := resp.Decode(&d); err != nil {
		return catalog.Lesson{}, err
	}

	lesson := toLesson(d, b.Level)
	if err := catalog.ValidateLesson(lesson); err != nil {
		return catalog.Lesson{}, fmt.Errorf("drafted lesson rejected: %w", err)
	}
	if s.catalog != nil {
		if _, _, ok := s.catalog.Lookup(lesson.Name); ok {
			return catalog.Lesson{}, fmt.Errorf("%w: %q", ErrDuplicateLesson, lesson.Name)
		}
	}

	s.log.Info("lesson drafted", "name", lesson.Name, "questions", len(lesson.Questions),
		"input_tokens", resp.Usage.InputTokens, "output_tokens", resp.Usage.OutputTokens)
	return lesson, nil
}

func prompt(b Brief) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a level %d lesson about %q.\n", b.Level, b.Topic)
	fmt.Fprintf(&sb, "Include exactly %d multiple-choice questions with 2 to 4 options each.\n", b.Questions)
	if b.Level <= 2 {
		sb.WriteString("Assume the reader has never had a paycheck.\n")
	}
	return sb.String()
}

func toLesson(d draft, level int) catalog.Lesson {
	l := catalog.Lesson{
		Name:        strings.TrimSpace(d.Name),
		Level:       level,
		Description: strings.TrimSpace(d.Description),
		Content:     strings.TrimSpace(d.Content),
	}
	for _, q := range d.Questions {
		opts := make([]string, len(q.Options))
		for i, o := range q.Options {
			opts[i] = strings.TrimSpace(o)
		}
		l.Questions = append(l.Questions, catalog.Question{
			Prompt:      strings.TrimSpace(q.Prompt),
			Options:     opts,
			Correct:     q.Correct,
			Explanation: strings.TrimSpace(q.Explanation),
		})
	}
	return l
}
