package domain

import (
	"time"

	"github.com/google/uuid"
)

type Pin struct {
	ID           uuid.UUID `db:"id"`
	AssignmentID uuid.UUID `db:"assignment_id"`
	ClassID      *int64    `db:"class_id"`
	PinCode      string    `db:"pin_code"`
	CreatedAt    time.Time `db:"created_at"`
}
