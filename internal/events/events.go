package events

import "time"

// Stream and subject names.
const (
	StreamEvents = "WORKSPACE_EVENTS"

	SubjectCompletion = "workspace.events.completion"
	SubjectFile       = "workspace.events.file"
)

// CompletionEvent is published after a chat turn has been persisted.
type CompletionEvent struct {
	SessionID   string    `json:"session_id"`
	Model       string    `json:"model"`
	ContextUsed bool      `json:"context_used"`
	Corrected   bool      `json:"corrected"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileEvent is published after a file analysis has been persisted.
type FileEvent struct {
	AnalysisID string    `json:"analysis_id"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
}
