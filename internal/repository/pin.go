package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"grading_service/internal/domain"
)

type PinRepository struct {
	db Querier
}

func NewPinRepository(db Querier) *PinRepository {
	return &PinRepository{db: db}
}

func (r *PinRepository) Create(ctx context.Context, pin *domain.Pin) (*domain.Pin, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID: %w", err)
	}

	var created domain.Pin
	err = pgxscan.Get(ctx, r.db, &created, `
INSERT INTO pins (id, assignment_id, class_id, pin_code, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, assignment_id, class_id, pin_code, created_at`,
		id, pin.AssignmentID, pin.ClassID, pin.PinCode, time.Now().UTC(),
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &created, nil
}

func (r *PinRepository) GetByCode(ctx context.Context, code string) (*domain.Pin, error) {
	var pin domain.Pin
	err := pgxscan.Get(ctx, r.db, &pin,
		`SELECT id, assignment_id, class_id, pin_code, created_at FROM pins WHERE pin_code = $1`, code)
	if err != nil {
		return nil, handleError(err)
	}
	return &pin, nil
}
