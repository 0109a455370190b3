// Package common содержит общие типы для HTTP слоя.
//
// Вынесен в отдельный пакет чтобы избежать циклических импортов
// между handlers, middleware и основным http пакетом.
package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/pkg/logger"
)

// ============================================
// Error Response Format
// ============================================

// ErrorResponse - тело ответа с ошибкой.
// Клиент строит локализованное сообщение по ErrorCode и Params.
type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Params    []any  `json:"params"`
	Status    int    `json:"status"`
}

// ============================================
// Error Codes
// ============================================

const (
	CodeInternal        = "erreur.interne"
	CodeBadRequest      = "requete.invalide"
	CodeUnauthenticated = "auth.non.authentifie"
	CodeAccessDenied    = "auth.acces.refuse"
	CodeTooManyRequests = "requete.limite.atteinte"
	CodeRouteNotFound   = "ressource.non.trouvee"
)

// errorStatus - HTTP статус для каждого вида доменной ошибки.
var errorStatus = map[domainErrors.Kind]int{
	domainErrors.KindValidation:   http.StatusBadRequest,
	domainErrors.KindNotFound:     http.StatusNotFound,
	domainErrors.KindDuplicate:    http.StatusConflict,
	domainErrors.KindForbidden:    http.StatusForbidden,
	domainErrors.KindFileStorage:  http.StatusInternalServerError,
	domainErrors.KindUnauthorized: http.StatusUnauthorized,
}

// StatusOf возвращает HTTP статус для ошибки; неизвестные ошибки - 500.
func StatusOf(err error) int {
	if status, ok := errorStatus[domainErrors.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ============================================
// Request ID
// ============================================

const RequestIDKey = "X-Request-ID"

// GetRequestID возвращает Request ID из контекста.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// SetRequestID устанавливает Request ID в контекст gin, контекст запроса и заголовок ответа.
func SetRequestID(c *gin.Context, id string) {
	c.Set(RequestIDKey, id)
	c.Header(RequestIDKey, id)
	c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
}

// ============================================
// Response Helpers
// ============================================

// JSON отправляет успешный ответ.
func JSON(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// NoContent отправляет 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error отправляет ответ с ошибкой и прерывает цепочку handlers.
func Error(c *gin.Context, status int, code string, params ...any) {
	if params == nil {
		params = []any{}
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		ErrorCode: code,
		Params:    params,
		Status:    status,
	})
}

// HandleError преобразует ошибку use case в HTTP ответ.
// Ошибки хранилища и неизвестные ошибки логируются с причиной; клиенту
// причина не передаётся.
func HandleError(c *gin.Context, err error) {
	status := StatusOf(err)

	de, ok := domainErrors.As(err)
	if !ok {
		log(c).Error("unhandled error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		Error(c, http.StatusInternalServerError, CodeInternal)
		return
	}

	if status >= http.StatusInternalServerError {
		log(c).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("error_code", de.Code),
			zap.Error(err),
		)
	}
	Error(c, status, de.Code, de.Params...)
}

func log(c *gin.Context) *zap.Logger {
	return logger.FromContext(c.Request.Context(), zap.L())
}
