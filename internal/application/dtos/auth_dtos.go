package dtos

// LoginRequest - тело POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest - тело POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest - тело POST /api/auth/logout (refresh token опционален).
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse - выданные токены.
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int64  `json:"expiresIn"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn"`
	TokenType        string `json:"tokenType"`
}

// PrincipalDTO - текущий аутентифицированный пользователь.
type PrincipalDTO struct {
	ID          string   `json:"uuid,omitempty"`
	Subject     string   `json:"sub"`
	Email       string   `json:"email,omitempty"`
	Authorities []string `json:"authorities"`
}
