package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/gemini"
)

// Message is one turn of a conversation. Messages are append-only:
// a turn adds new messages, it never mutates earlier ones.
type Message struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

// Session is a persisted conversation.
type Session struct {
	ID        uuid.UUID    `json:"id"`
	Title     string       `json:"title"`
	Messages  []Message    `json:"messages"`
	Model     string       `json:"model"`
	Usage     gemini.Usage `json:"usage"`
	Timestamp time.Time    `json:"timestamp"`
}

// CompletionRequest is the chat-completions request body.
type CompletionRequest struct {
	SessionID   string    `json:"sessionId" validate:"omitempty,uuid"`
	Messages    []Message `json:"messages" validate:"dive"`
	Model       string    `json:"model"`
	Temperature *float64  `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   *int      `json:"max_tokens" validate:"omitempty,gte=1,lte=8192"`
}

// CompletionChoice is one candidate answer in the response.
type CompletionChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// CompletionResponse is the chat-completions response body.
type CompletionResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
	Usage   gemini.Usage       `json:"usage"`
}

// RenameSessionRequest is the body for renaming a session.
type RenameSessionRequest struct {
	Title string `json:"title"`
}
