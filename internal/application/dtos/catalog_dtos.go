package dtos

import "time"

// CategoryDTO - категория deals.
type CategoryDTO struct {
	ID          string     `json:"uuid,omitempty"`
	Name        string     `json:"nom"`
	Description string     `json:"description,omitempty"`
	Icon        string     `json:"icone,omitempty"`
	CreatedAt   *time.Time `json:"dateCreation,omitempty"`
	UpdatedAt   *time.Time `json:"dateModification,omitempty"`
}

// CommentDTO - комментарий к deal.
type CommentDTO struct {
	ID        string     `json:"uuid,omitempty"`
	DealID    string     `json:"dealUuid" binding:"omitempty,uuid"`
	AuthorID  string     `json:"auteurUuid,omitempty" binding:"omitempty,uuid"`
	Content   string     `json:"contenu"`
	ParentID  string     `json:"parentUuid,omitempty" binding:"omitempty,uuid"`
	CreatedAt *time.Time `json:"dateCreation,omitempty"`
	UpdatedAt *time.Time `json:"dateModification,omitempty"`
}

// AdvertisementDTO - рекламный баннер.
type AdvertisementDTO struct {
	ID          string     `json:"uuid,omitempty"`
	Title       string     `json:"titre"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"urlImage"`
	LinkURL     string     `json:"urlLien,omitempty"`
	StartDate   *time.Time `json:"dateDebut,omitempty"`
	EndDate     *time.Time `json:"dateFin,omitempty"`
	Active      bool       `json:"active"`
	CreatorID   string     `json:"createurUuid,omitempty" binding:"omitempty,uuid"`
	CreatedAt   *time.Time `json:"dateCreation,omitempty"`
	UpdatedAt   *time.Time `json:"dateModification,omitempty"`
}
