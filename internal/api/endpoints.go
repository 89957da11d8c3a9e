package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mait00/legaltrackswift-sub002/internal/models"
)

// Пути бэкенда. Орфография get-notiffications и get-subscribtions
// зафиксирована на сервере, исправлять её на клиенте нельзя.
const (
	pathGetAuthCode   = "/auth/get-auth-code"
	pathCheckAuthCode = "/auth/check-auth-code"
	pathUserDetail    = "/auth/user-detail"
	pathEditProfile   = "/auth/edit-profile"
	pathNotifications = "/subs/get-notiffications"
	pathDelays        = "/subs/get-delays"
	pathSubscriptions = "/subs/get-subscribtions"
	pathDeleteSub     = "/subs/delete"
	pathMessages      = "/api/messages"
	pathNewMessage    = "/api/new-message"
)

// RequestCode запрашивает отправку одноразового кода на телефон.
// Единственный вместе с VerifyCode вызов без авторизации.
func (c *Client) RequestCode(ctx context.Context, phone string) error {
	const op = "api.RequestCode"
	q := url.Values{"phone": {phone}}
	var resp statusResponse
	if err := c.doPublic(ctx, http.MethodGet, pathGetAuthCode, q, nil, &resp); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// VerifyCode проверяет одноразовый код и возвращает токен сессии.
// Профиль приходит не во всех версиях бэкенда, поэтому может быть nil.
func (c *Client) VerifyCode(ctx context.Context, phone, code string) (string, *models.Profile, error) {
	const op = "api.VerifyCode"
	q := url.Values{"phone": {phone}, "code": {code}}
	var resp verifyResponse
	if err := c.doPublic(ctx, http.MethodGet, pathCheckAuthCode, q, nil, &resp); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	token := resp.authToken()
	if token == "" {
		return "", nil, fmt.Errorf("%s: %w: response carries no token", op, ErrDecode)
	}
	return token, resp.Data.User, nil
}

// Profile запрашивает профиль текущего пользователя.
func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	const op = "api.Profile"
	var resp profileResponse
	if err := c.do(ctx, http.MethodGet, pathUserDetail, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &resp.Data, nil
}

// EditProfile отправляет изменённые поля профиля и возвращает обновлённый профиль.
func (c *Client) EditProfile(ctx context.Context, req models.EditProfileRequest) (*models.Profile, error) {
	const op = "api.EditProfile"
	var resp profileResponse
	if err := c.do(ctx, http.MethodPost, pathEditProfile, nil, req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &resp.Data, nil
}

// Notifications запрашивает список уведомлений.
func (c *Client) Notifications(ctx context.Context) ([]models.NotificationRecord, error) {
	const op = "api.Notifications"
	var resp notificationsResponse
	if err := c.do(ctx, http.MethodGet, pathNotifications, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Data, nil
}

// Delays запрашивает список переносов заседаний.
func (c *Client) Delays(ctx context.Context) ([]models.DelayRecord, error) {
	const op = "api.Delays"
	var resp delaysResponse
	if err := c.do(ctx, http.MethodGet, pathDelays, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Data, nil
}

// Subscriptions запрашивает дела, компании и ключевые слова одним ответом.
func (c *Client) Subscriptions(ctx context.Context) (*models.SubscriptionsPayload, error) {
	const op = "api.Subscriptions"
	var resp subscriptionsResponse
	if err := c.do(ctx, http.MethodGet, pathSubscriptions, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &resp.Data, nil
}

// DeleteSubscription снимает подписку с дела, компании или ключевого слова.
func (c *Client) DeleteSubscription(ctx context.Context, id int, subType string) error {
	const op = "api.DeleteSubscription"
	q := url.Values{"id": {fmt.Sprint(id)}, "type": {subType}}
	var resp statusResponse
	if err := c.do(ctx, http.MethodGet, pathDeleteSub, q, nil, &resp); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Messages запрашивает историю чата поддержки.
func (c *Client) Messages(ctx context.Context) ([]models.Message, error) {
	const op = "api.Messages"
	var resp messagesResponse
	if err := c.do(ctx, http.MethodGet, pathMessages, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Data, nil
}

// SendMessage отправляет сообщение в чат поддержки.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	const op = "api.SendMessage"
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, pathNewMessage, nil, body, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
