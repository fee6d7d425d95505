package files

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists file analyses.
type Repository interface {
	Create(ctx context.Context, a *Analysis) error
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *Analysis) error {
	query := `
		INSERT INTO file_analyses (id, filename, size, type, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query, a.ID, a.Filename, a.Size, a.Type, a.Summary, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting file analysis: %w", err)
	}
	return nil
}
