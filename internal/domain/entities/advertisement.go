package entities

import (
	"time"

	"github.com/google/uuid"
)

// Advertisement is a banner shown on the platform during a time window.
type Advertisement struct {
	ID          uuid.UUID
	Title       string
	Description string
	ImageURL    string
	LinkURL     string
	StartDate   *time.Time
	EndDate     *time.Time
	Active      bool
	CreatorID   uuid.UUID
	Audit
}

// IsRunning reports whether the ad should be displayed at t.
func (a *Advertisement) IsRunning(t time.Time) bool {
	if !a.Active {
		return false
	}
	if a.StartDate != nil && t.Before(*a.StartDate) {
		return false
	}
	if a.EndDate != nil && t.After(*a.EndDate) {
		return false
	}
	return true
}
