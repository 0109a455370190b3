// Package entities contains the domain models shared by every layer.
//
// Models are plain data carriers: services validate them through
// the validators package and providers map them to storage records.
package entities

import "time"

// Audit carries system-assigned timestamps. Embedded in every model.
type Audit struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch sets CreatedAt on first use and always refreshes UpdatedAt.
func (a *Audit) Touch(now time.Time) {
	now = now.UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}
