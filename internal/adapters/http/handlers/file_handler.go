package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/paytogether/internal/adapters/http/common"
	"github.com/Haleralex/paytogether/internal/application/dtos"
	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/application/usecases/file"
)

// FileFormField - имя поля multipart формы.
const FileFormField = "fichier"

// CodeFileRequired - в multipart запросе нет файла.
const CodeFileRequired = "validation.fichier.obligatoire"

// FileService - загрузка и выдача файлов.
type FileService interface {
	RequestUploadURL(ctx context.Context, fileName string) (*file.UploadURL, error)
	Upload(ctx context.Context, fileName string, r io.Reader, size int64, contentType string) (*ports.StoredObject, error)
	Open(ctx context.Context, key string) (io.ReadCloser, ports.StoredObject, error)
}

// FileHandler обрабатывает /api/fichiers.
type FileHandler struct {
	files FileService
}

func NewFileHandler(files FileService) *FileHandler {
	return &FileHandler{files: files}
}

// RequestUploadURL выдаёт presigned PUT URL.
//
// @Router /api/fichiers/upload-url [post]
func (h *FileHandler) RequestUploadURL(c *gin.Context) {
	var req dtos.UploadURLRequest
	if !BindJSON(c, &req) {
		return
	}

	upload, err := h.files.RequestUploadURL(c.Request.Context(), req.FileName)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusOK, dtos.UploadURLResponse{
		Key:       upload.Key,
		URL:       upload.URL,
		ExpiresAt: upload.ExpiresAt,
	})
}

// Upload принимает multipart файл в поле "fichier".
//
// @Router /api/fichiers [post]
func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile(FileFormField)
	if err != nil {
		common.Error(c, http.StatusBadRequest, CodeFileRequired)
		return
	}

	f, err := header.Open()
	if err != nil {
		common.Error(c, http.StatusBadRequest, CodeFileRequired)
		return
	}
	defer f.Close()

	obj, err := h.files.Upload(c.Request.Context(), header.Filename, f, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.JSON(c, http.StatusCreated, dtos.FileDTO{
		Key:         obj.Key,
		URL:         obj.URL,
		Size:        obj.Size,
		ContentType: obj.ContentType,
	})
}

// Download отдаёт объект потоком.
//
// @Router /api/fichiers/{key} [get]
func (h *FileHandler) Download(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		common.Error(c, http.StatusBadRequest, "validation.key.obligatoire")
		return
	}

	body, obj, err := h.files.Open(c.Request.Context(), key)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	defer body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, obj.Size, contentType, body, nil)
}

func (h *FileHandler) RegisterRoutes(public, authenticated *gin.RouterGroup) {
	public.GET("/fichiers/*key", h.Download)

	authenticated.POST("/fichiers/upload-url", h.RequestUploadURL)
	authenticated.POST("/fichiers", h.Upload)
}
