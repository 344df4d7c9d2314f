package repository

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"grading_service/internal/domain"
	"grading_service/internal/errdefs"
)

type RubricRepository struct {
	db Querier
}

func NewRubricRepository(db Querier) *RubricRepository {
	return &RubricRepository{db: db}
}

func (r *RubricRepository) Create(ctx context.Context, rubric *domain.Rubric) (*domain.Rubric, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID: %w", err)
	}

	var created domain.Rubric
	err = pgxscan.Get(ctx, r.db, &created,
		`INSERT INTO rubrics (id, name, body) VALUES ($1, $2, $3) RETURNING id, name, body`,
		id, rubric.Name, rubric.Body,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &created, nil
}

func (r *RubricRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rubric, error) {
	var rubric domain.Rubric
	if err := pgxscan.Get(ctx, r.db, &rubric, `SELECT id, name, body FROM rubrics WHERE id = $1`, id); err != nil {
		return nil, handleError(err)
	}
	return &rubric, nil
}

func (r *RubricRepository) List(ctx context.Context) ([]*domain.Rubric, error) {
	var rubrics []*domain.Rubric
	if err := pgxscan.Select(ctx, r.db, &rubrics, `SELECT id, name, body FROM rubrics ORDER BY name ASC`); err != nil {
		return nil, handleError(err)
	}
	return rubrics, nil
}

func (r *RubricRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rubrics WHERE id = $1`, id)
	if err != nil {
		return handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return errdefs.ErrNotFound
	}
	return nil
}
