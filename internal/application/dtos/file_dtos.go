package dtos

import "time"

// UploadURLRequest - тело POST /api/fichiers/upload-url.
type UploadURLRequest struct {
	FileName string `json:"nomFichier" binding:"required"`
}

// UploadURLResponse - presigned URL для прямой загрузки в хранилище.
type UploadURLResponse struct {
	Key       string    `json:"cle"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiration"`
}

// FileDTO - загруженный файл.
type FileDTO struct {
	Key         string `json:"cle"`
	URL         string `json:"url"`
	Size        int64  `json:"taille"`
	ContentType string `json:"contentType"`
}
