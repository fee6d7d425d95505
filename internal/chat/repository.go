package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/gemini"
)

// ErrSessionNotFound is returned when a session id matches no row.
var ErrSessionNotFound = errors.New("session not found")

// Repository defines session persistence operations.
type Repository interface {
	Create(ctx context.Context, sess *Session) error
	UpdateMessages(ctx context.Context, id uuid.UUID, messages []Message) error
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	List(ctx context.Context, limit int) ([]Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	ListUsage(ctx context.Context) ([]gemini.Usage, error)
}

// PostgresRepository implements Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new session repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, sess *Session) error {
	if sess.ID == uuid.Nil {
		sess.ID = uuid.New()
	}
	if sess.Timestamp.IsZero() {
		sess.Timestamp = time.Now()
	}

	messages, err := json.Marshal(sess.Messages)
	if err != nil {
		return fmt.Errorf("marshaling messages: %w", err)
	}
	usage, err := json.Marshal(sess.Usage)
	if err != nil {
		return fmt.Errorf("marshaling usage: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO chat_sessions (id, title, messages, model, usage, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sess.ID, sess.Title, messages, sess.Model, usage, sess.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateMessages(ctx context.Context, id uuid.UUID, msgs []Message) error {
	messages, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("marshaling messages: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE chat_sessions SET messages = $1, timestamp = $2 WHERE id = $3`,
		messages, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating session messages: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE chat_sessions SET title = $1 WHERE id = $2`,
		title, id,
	)
	if err != nil {
		return fmt.Errorf("updating session title: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Session, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, messages, model, usage, timestamp
		 FROM chat_sessions
		 ORDER BY timestamp DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var (
			s        Session
			messages []byte
			usage    []byte
		)
		if err := rows.Scan(&s.ID, &s.Title, &messages, &s.Model, &usage, &s.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if err := json.Unmarshal(messages, &s.Messages); err != nil {
			return nil, fmt.Errorf("unmarshaling session messages: %w", err)
		}
		if len(usage) > 0 {
			// Usage rows written before token accounting existed may be
			// null or malformed; ignore them rather than failing the list.
			_ = json.Unmarshal(usage, &s.Usage)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chat_sessions`).Scan(&count)
	return count, err
}

func (r *PostgresRepository) ListUsage(ctx context.Context) ([]gemini.Usage, error) {
	rows, err := r.pool.Query(ctx, `SELECT usage FROM chat_sessions`)
	if err != nil {
		return nil, fmt.Errorf("listing session usage: %w", err)
	}
	defer rows.Close()

	var usages []gemini.Usage
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning usage: %w", err)
		}
		if len(payload) == 0 {
			continue
		}
		var u gemini.Usage
		if err := json.Unmarshal(payload, &u); err != nil {
			continue
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}
