package api

import (
	"errors"
	"strconv"
)

// Ошибки шлюза. Unauthorized обрабатывается централизованно в do и,
// помимо возврата вызывающему, дёргает зарегистрированный обработчик.
var (
	// ErrNetwork транспортная ошибка: бэкенд недоступен или запрос оборван.
	ErrNetwork = errors.New("network unreachable")
	// ErrUnauthorized сервер отверг токен, сессия должна быть сброшена.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDecode тело ответа не удалось разобрать.
	ErrDecode = errors.New("cannot decode response")
)

// StatusError ответ сервера со статусом вне 2xx (кроме 401).
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return "server error: status " + strconv.Itoa(e.Code)
}
