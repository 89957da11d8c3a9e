package api

import "github.com/mait00/legaltrackswift-sub002/internal/models"

// Конверты ответов бэкенда. Полезная нагрузка лежит в поле data,
// message заполняется при ошибках уровня приложения.

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// verifyResponse ответ на проверку кода. Старые версии бэкенда кладут токен
// на верхний уровень, новые - внутрь data, поэтому проверяются оба места.
type verifyResponse struct {
	Token string `json:"token"`
	Data  struct {
		Token string          `json:"token"`
		User  *models.Profile `json:"user"`
	} `json:"data"`
	Message string `json:"message"`
}

func (r verifyResponse) authToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.Data.Token
}

type profileResponse struct {
	Data    models.Profile `json:"data"`
	Message string         `json:"message"`
}

type notificationsResponse struct {
	Data    []models.NotificationRecord `json:"data"`
	Message string                      `json:"message"`
}

type delaysResponse struct {
	Data    []models.DelayRecord `json:"data"`
	Message string               `json:"message"`
}

type subscriptionsResponse struct {
	Data    models.SubscriptionsPayload `json:"data"`
	Message string                      `json:"message"`
}

type messagesResponse struct {
	Data    []models.Message `json:"data"`
	Message string           `json:"message"`
}
