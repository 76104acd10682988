package models

import "net/http"

// HTTPError — ошибка с HTTP статусом, которую сервисы возвращают контроллерам.
// Контроллеры отправляют её клиенту через единый обработчик ошибок.
type HTTPError struct {
	Message string
	Code    int
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Status возвращает HTTP статус ошибки; если код не задан — 500
func (e *HTTPError) Status() int {
	if e.Code == 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// NewHTTPError создаёт ошибку с сообщением и статусом (0 — статус по умолчанию)
func NewHTTPError(message string, code int) *HTTPError {
	return &HTTPError{Message: message, Code: code}
}
