// Package files analyzes uploaded documents: the content is summarized
// by the model and the result persisted for later reference.
package files

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/events"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/gemini"
)

// maxContentBytes caps how much of an upload is sent to the model.
const maxContentBytes = 20000

var (
	summaryTemperature = 0.4
	summaryMaxTokens   = 250
)

// ModelClient is the language-model dependency.
type ModelClient interface {
	Generate(ctx context.Context, msgs []gemini.Message, opts gemini.Options) (*gemini.Completion, error)
}

// EventPublisher is the optional eventing dependency.
type EventPublisher interface {
	PublishFile(ctx context.Context, event events.FileEvent) error
}

type Service struct {
	repo   Repository
	model  ModelClient
	events EventPublisher
}

// NewService creates the files service. events may be nil.
func NewService(repo Repository, model ModelClient, events EventPublisher) *Service {
	return &Service{repo: repo, model: model, events: events}
}

// Analyze summarizes the uploaded content and persists the result.
// Content beyond the first 20000 bytes is ignored.
func (s *Service) Analyze(ctx context.Context, filename, contentType string, size int64, content []byte) (*Analysis, error) {
	if len(content) > maxContentBytes {
		content = content[:maxContentBytes]
	}

	completion, err := s.model.Generate(ctx, []gemini.Message{
		{Role: "user", Content: "Summarize:\n\n" + string(content)},
	}, gemini.Options{
		Temperature: &summaryTemperature,
		MaxTokens:   &summaryMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{
		ID:        uuid.New(),
		Filename:  filename,
		Size:      size,
		Type:      contentType,
		Summary:   completion.Content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, analysis); err != nil {
		return nil, err
	}

	if s.events != nil {
		err := s.events.PublishFile(ctx, events.FileEvent{
			AnalysisID: analysis.ID.String(),
			Filename:   analysis.Filename,
			Size:       analysis.Size,
			CreatedAt:  analysis.CreatedAt,
		})
		if err != nil {
			slog.Warn("publishing file event", "error", err, "analysis_id", analysis.ID)
		}
	}

	return analysis, nil
}
