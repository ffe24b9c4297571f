package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrChirpNotFound = errors.New("chirp not found")

type Chirp struct {
	ID        uuid.UUID
	Body      string
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ChirpRepository struct {
	db *DB
}

func NewChirpRepository(db *DB) *ChirpRepository {
	return &ChirpRepository{db: db}
}

func (r *ChirpRepository) Create(ctx context.Context, chirp *Chirp) error {
	query := `
		INSERT INTO chirps (id, body, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		chirp.ID, chirp.Body, chirp.UserID, chirp.CreatedAt, chirp.UpdatedAt,
	)
	return err
}

func (r *ChirpRepository) GetAll(ctx context.Context) ([]Chirp, error) {
	query := `
		SELECT id, body, user_id, created_at, updated_at
		FROM chirps
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chirps []Chirp
	for rows.Next() {
		var c Chirp
		if err := rows.Scan(&c.ID, &c.Body, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		chirps = append(chirps, c)
	}

	return chirps, rows.Err()
}

func (r *ChirpRepository) GetByID(ctx context.Context, id uuid.UUID) (*Chirp, error) {
	query := `
		SELECT id, body, user_id, created_at, updated_at
		FROM chirps
		WHERE id = $1
	`

	chirp := &Chirp{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&chirp.ID, &chirp.Body, &chirp.UserID, &chirp.CreatedAt, &chirp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChirpNotFound
		}
		return nil, err
	}

	return chirp, nil
}

func (r *ChirpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM chirps
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrChirpNotFound
	}

	return nil
}
