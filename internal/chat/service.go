// Package chat implements the chat-completions pipeline: live-data
// augmentation, model invocation, disclaimer correction, and session
// persistence.
package chat

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/events"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/gemini"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/intent"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/metrics"
)

const sessionListLimit = 100

// liveDataNotice is prepended to the history when context was built so
// the model knows a trailing data block follows.
const liveDataNotice = "Live data appended. Use if relevant."

// rewriteInstruction heads the corrective re-invocation issued when the
// model disclaims real-time access despite being handed live data.
const rewriteInstruction = "Rewrite the answer below using the live data provided. Do NOT mention real-time limitations."

// disclaimerPattern matches stock "no real-time access" phrasings.
var disclaimerPattern = regexp.MustCompile(`(?i)real[- ]time|I\s+(?:do not|don't)\s+(?:have|get|possess).{0,40}access`)

// ModelClient is the language-model dependency.
type ModelClient interface {
	Generate(ctx context.Context, msgs []gemini.Message, opts gemini.Options) (*gemini.Completion, error)
	Model() string
}

// ContextBuilder is the live-data dependency.
type ContextBuilder interface {
	Build(ctx context.Context, tasks []intent.Task, loc *time.Location) string
}

// EventPublisher is the optional eventing dependency.
type EventPublisher interface {
	PublishCompletion(ctx context.Context, event events.CompletionEvent) error
}

// Service orchestrates one chat turn end to end.
type Service struct {
	repo    Repository
	model   ModelClient
	builder ContextBuilder
	events  EventPublisher
}

// NewService creates the chat service. events may be nil.
func NewService(repo Repository, model ModelClient, builder ContextBuilder, events EventPublisher) *Service {
	return &Service{
		repo:    repo,
		model:   model,
		builder: builder,
		events:  events,
	}
}

// Complete runs one chat turn: augment with live data, call the model,
// correct a stale disclaimer if needed, persist, respond. All steps are
// sequential; a model failure after retries or a persistence failure is
// fatal to the turn.
func (s *Service) Complete(ctx context.Context, req *CompletionRequest, loc *time.Location) (*CompletionResponse, error) {
	live := ""
	if last := lastUserMessage(req.Messages); last != nil {
		live = s.builder.Build(ctx, intent.Extract(last.Content), loc)
	}

	// Empty context means skip augmentation entirely: the model sees the
	// caller's history unmodified.
	augmented := req.Messages
	if live != "" {
		augmented = make([]Message, 0, len(req.Messages)+2)
		augmented = append(augmented, Message{Role: "user", Content: liveDataNotice})
		augmented = append(augmented, req.Messages...)
		augmented = append(augmented, Message{Role: "user", Content: live})
	}

	opts := gemini.Options{Temperature: req.Temperature, MaxTokens: req.MaxTokens}
	completion, err := s.model.Generate(ctx, toGeminiMessages(augmented), opts)
	if err != nil {
		return nil, err
	}

	content := completion.Content
	if live != "" && disclaimerPattern.MatchString(content) {
		content, err = s.correctDisclaimer(ctx, req.Messages, live, opts)
		if err != nil {
			return nil, err
		}
	}

	combined := make([]Message, 0, len(req.Messages)+1)
	combined = append(combined, req.Messages...)
	combined = append(combined, Message{Role: "assistant", Content: content})

	modelName := req.Model
	if modelName == "" {
		modelName = s.model.Model()
	}

	sessionID, err := s.persist(ctx, req.SessionID, combined, modelName, completion.Usage)
	if err != nil {
		return nil, err
	}

	s.publishCompletion(ctx, sessionID, modelName, live != "", content != completion.Content)

	return &CompletionResponse{
		ID:      sessionID.String(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   modelName,
		Choices: []CompletionChoice{{
			Index:        0,
			Message:      Message{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
		Usage: completion.Usage,
	}, nil
}

// correctDisclaimer issues exactly one corrective re-invocation. The
// corrected reply is taken as-is even if it still disclaims.
func (s *Service) correctDisclaimer(ctx context.Context, history []Message, live string, opts gemini.Options) (string, error) {
	metrics.DisclaimerRewritesTotal.Inc()

	fix := make([]Message, 0, len(history)+2)
	fix = append(fix, Message{Role: "user", Content: rewriteInstruction})
	fix = append(fix, history...)
	fix = append(fix, Message{Role: "user", Content: live})

	retry, err := s.model.Generate(ctx, toGeminiMessages(fix), opts)
	if err != nil {
		return "", err
	}
	return retry.Content, nil
}

func (s *Service) persist(ctx context.Context, sessionID string, combined []Message, modelName string, usage gemini.Usage) (uuid.UUID, error) {
	if sessionID != "" {
		id, err := uuid.Parse(sessionID)
		if err != nil {
			return uuid.Nil, ErrSessionNotFound
		}
		if err := s.repo.UpdateMessages(ctx, id, combined); err != nil {
			return uuid.Nil, err
		}
		return id, nil
	}

	sess := &Session{
		ID:        uuid.New(),
		Title:     deriveTitle(combined),
		Messages:  combined,
		Model:     modelName,
		Usage:     usage,
		Timestamp: time.Now(),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return uuid.Nil, err
	}
	return sess.ID, nil
}

func (s *Service) publishCompletion(ctx context.Context, sessionID uuid.UUID, modelName string, contextUsed, corrected bool) {
	if s.events == nil {
		return
	}
	err := s.events.PublishCompletion(ctx, events.CompletionEvent{
		SessionID:   sessionID.String(),
		Model:       modelName,
		ContextUsed: contextUsed,
		Corrected:   corrected,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		slog.Warn("publishing completion event", "error", err, "session_id", sessionID)
	}
}

// ListSessions returns the most recent sessions, newest first.
func (s *Service) ListSessions(ctx context.Context) ([]Session, error) {
	return s.repo.List(ctx, sessionListLimit)
}

// RenameSession updates a session title and returns the refreshed list.
func (s *Service) RenameSession(ctx context.Context, id uuid.UUID, title string) ([]Session, error) {
	title = truncateRunes(title, 100)
	if title == "" {
		title = "Untitled Chat"
	}
	if err := s.repo.UpdateTitle(ctx, id, title); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, sessionListLimit)
}

// DeleteSession removes a session and returns the refreshed list.
func (s *Service) DeleteSession(ctx context.Context, id uuid.UUID) ([]Session, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, sessionListLimit)
}

func lastUserMessage(msgs []Message) *Message {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" {
			return &msgs[i]
		}
	}
	return nil
}

func toGeminiMessages(msgs []Message) []gemini.Message {
	out := make([]gemini.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, gemini.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func deriveTitle(msgs []Message) string {
	for _, m := range msgs {
		if m.Role == "user" && m.Content != "" {
			return truncateRunes(m.Content, 50)
		}
	}
	return "New Chat"
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
