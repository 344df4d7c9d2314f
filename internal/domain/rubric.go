package domain

import "github.com/google/uuid"

// NoRubricPlaceholder is sent to the grader when an assignment has no resolvable rubric.
const NoRubricPlaceholder = "No rubric provided"

type Rubric struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
	Body string    `db:"body"`
}
