package entities

import "github.com/google/uuid"

// Category groups deals (e.g. "Électronique").
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	Icon        string
	Audit
}
