// Package handlers содержит HTTP handlers для REST API.
//
// Handler - это Adapter в терминах Clean Architecture:
// - Принимает HTTP запрос
// - Преобразует DTO в domain model (dtos mappers)
// - Вызывает service
// - Преобразует результат в HTTP ответ
package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/adapters/http/common"
	"github.com/Haleralex/paytogether/internal/domain/entities"
)

// ============================================
// Custom Validator Setup
// ============================================

var (
	setupOnce sync.Once
)

// SetupValidator настраивает кастомные валидаторы для Gin.
func SetupValidator() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			// Используем json tag для имён полей в ошибках
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})

			_ = v.RegisterValidation("deal_status", validateDealStatus)
		}
	})
}

// validateDealStatus проверяет статус сделки (DRAFT, PUBLISHED, EXPIRED).
func validateDealStatus(fl validator.FieldLevel) bool {
	return entities.DealStatus(fl.Field().String()).IsValid()
}

// ============================================
// Validation Error Handling
// ============================================

// bindingErrorCode строит код "validation.<поле>.<правило>" по первой ошибке.
func bindingErrorCode(err error) (string, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "validation." + fe.Field() + "." + fe.Tag(), true
	}
	return "", false
}

// HandleBindingError отвечает 400 на ошибку биндинга.
// Синтаксически некорректное тело получает общий код.
func HandleBindingError(c *gin.Context, err error) {
	if code, ok := bindingErrorCode(err); ok {
		common.Error(c, http.StatusBadRequest, code)
		return
	}
	common.Error(c, http.StatusBadRequest, common.CodeBadRequest)
}

// ============================================
// Request Parsing Helpers
// ============================================

// BindJSON биндит JSON тело запроса.
// Возвращает true если успешно, false если была ошибка (ответ уже отправлен).
func BindJSON[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		HandleBindingError(c, err)
		return false
	}
	return true
}

// ParseUUIDParam читает UUID из параметра пути.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		common.Error(c, http.StatusBadRequest, "validation."+name+".uuid")
		return uuid.Nil, false
	}
	return id, true
}
