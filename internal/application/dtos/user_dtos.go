package dtos

import "time"

// UserDTO - представление пользователя для API.
type UserDTO struct {
	ID              string     `json:"uuid"`
	Email           string     `json:"email"`
	FirstName       string     `json:"prenom"`
	LastName        string     `json:"nom"`
	Role            string     `json:"role"`
	Enabled         bool       `json:"actif"`
	PhotoProfileURL string     `json:"photoProfil,omitempty"`
	CreatedAt       *time.Time `json:"dateCreation,omitempty"`
	UpdatedAt       *time.Time `json:"dateModification,omitempty"`
}

// RegisterUserDTO - тело POST /api/utilisateurs.
type RegisterUserDTO struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"motDePasse" binding:"required,min=8"`
	FirstName       string `json:"prenom" binding:"required"`
	LastName        string `json:"nom" binding:"required"`
	Role            string `json:"role,omitempty" binding:"omitempty,oneof=USER ADMIN"`
	PhotoProfileURL string `json:"photoProfil,omitempty"`
}

// UpdateUserDTO - тело PUT /api/utilisateurs/{id}.
type UpdateUserDTO struct {
	FirstName       string `json:"prenom" binding:"required"`
	LastName        string `json:"nom" binding:"required"`
	PhotoProfileURL string `json:"photoProfil,omitempty"`
}

// ResetPasswordDTO - тело PUT /api/utilisateurs/{id}/mot-de-passe.
type ResetPasswordDTO struct {
	Password  string `json:"motDePasse" binding:"required,min=8"`
	Temporary bool   `json:"temporaire"`
}

// AssignRoleDTO - тело PUT /api/utilisateurs/{id}/role.
type AssignRoleDTO struct {
	Role string `json:"role" binding:"required,oneof=USER ADMIN"`
}
