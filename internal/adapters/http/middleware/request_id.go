// Package middleware содержит HTTP middleware для обработки запросов.
//
// Middleware в Gin - это функции, которые выполняются до/после handlers.
// Они используются для cross-cutting concerns: логирование, auth, tracing.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/adapters/http/common"
)

// RequestIDHeader - имя заголовка для Request ID
const RequestIDHeader = common.RequestIDKey

// maxRequestIDLength - более длинный клиентский ID заменяется сгенерированным.
const maxRequestIDLength = 128

// RequestID middleware добавляет уникальный ID к каждому запросу.
// Если клиент передаёт X-Request-ID - используем его, иначе генерируем UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.New().String()
		}

		common.SetRequestID(c, requestID)
		c.Next()
	}
}

// GetRequestID извлекает Request ID из контекста Gin.
func GetRequestID(c *gin.Context) string {
	return common.GetRequestID(c)
}
