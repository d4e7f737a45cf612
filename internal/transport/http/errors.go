// Маппинг доменных ошибок сервиса в единый формат ответа об ошибке.
//
// Классификация:
//   - ErrUserExists -> 409 (повторная регистрация);
//   - ErrUserNotFound -> 404 (неизвестный пользователь);
//   - ErrInvalidCredentials/ErrInvalidToken/ErrTokenMismatch -> 401;
//   - ErrNoActiveSession -> 400 (сессия завершена или не начиналась);
//   - Canceled -> 499, DeadlineExceeded -> 504;
//   - прочее -> 500 с единым безопасным сообщением, детали не утекают.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-auth-service/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const statusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

func toHTTP(err error) (int, ErrorResponse) {
	status, code, msg := classify(err)
	return status, ErrorResponse{Error: APIError{Code: code, Message: msg}}
}

func classify(err error) (int, string, string) {
	switch {
	case err == nil:
		// Программная ошибка вызова: не маскируем баг кодом 200.
		return http.StatusInternalServerError, "internal", "internal error"
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict, "already_exists", "user already exists"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "not_found", "user not found"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "unauthenticated", "invalid credentials"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthenticated", "invalid token"
	case errors.Is(err, service.ErrTokenMismatch):
		return http.StatusUnauthorized, "unauthenticated", "refresh token mismatch"
	case errors.Is(err, service.ErrNoActiveSession):
		return http.StatusBadRequest, "no_active_session", "no active session"
	case errors.Is(err, errBadJSON):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, errNoBearer):
		return http.StatusUnauthorized, "unauthenticated", "missing bearer token"
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "canceled", "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}

// writeError пишет корректный статус/тело, добавляет request_id из заголовка.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := toHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
