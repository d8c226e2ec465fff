package utils

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "maintenance-system/pkg/errors"
)

// HttpResponse - единый конверт ответа: флаг успеха плюс данные или сообщение.
type HttpResponse struct {
	Status     bool        `json:"status"`
	Body       interface{} `json:"body,omitempty"`
	Message    string      `json:"message"`
	TotalCount *uint64     `json:"total_count,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.TotalCount = &total[0]
	}
	return ctx.JSON(code, response)
}

// ErrorResponse переводит ошибку в HTTP-код и конверт. Внутренние детали наружу не отдаются.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code, message := MapError(err)
	if code >= http.StatusInternalServerError && logger != nil {
		logger.Error("Внутренняя ошибка",
			zap.String("method", ctx.Request().Method),
			zap.String("uri", ctx.Request().RequestURI),
			zap.Error(err),
		)
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}

// MapError возвращает HTTP-код и сообщение для клиента.
func MapError(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return httpErr.Code, msg
		}
		return httpErr.Code, http.StatusText(httpErr.Code)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, "Поле '"+e.Field()+"' не прошло проверку '"+e.Tag()+"'")
		}
		return http.StatusBadRequest, "Ошибка валидации: " + strings.Join(msgs, "; ")
	}

	var invalidInput *apperrors.InvalidInputError
	if errors.As(err, &invalidInput) {
		return http.StatusBadRequest, invalidInput.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrEquipmentNotFound):
		return http.StatusNotFound, "Оборудование не найдено"
	case errors.Is(err, apperrors.ErrRequestNotFound):
		return http.StatusNotFound, "Заявка не найдена"
	case errors.Is(err, apperrors.ErrTechnicianNotFound):
		return http.StatusNotFound, "Техник не найден"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, apperrors.ErrNotFound.Error()
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, apperrors.ErrBadRequest.Error()
	case errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrInvalidSigningMethod),
		errors.Is(err, apperrors.ErrUserIDNotFoundInContext),
		errors.Is(err, apperrors.ErrInvalidUserID):
		return http.StatusUnauthorized, err.Error()
	}

	return http.StatusInternalServerError, "Внутренняя ошибка сервера"
}
