// Package api реализует шлюз к бэкенду LegalTrack - единственную точку,
// через которую агент ходит по сети. Шлюз подставляет базовый адрес,
// Content-Type и авторизационный заголовок, ограничивает частоту запросов
// и переводит транспортные и статусные ошибки в типизированные.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/mait00/legaltrackswift-sub002/internal/config"
	"github.com/mait00/legaltrackswift-sub002/internal/metrics"
)

// TokenSource отдаёт текущий токен сессии. Шлюз читает его заново на каждом
// запросе: кэшировать заголовок авторизации нельзя, токен меняется при
// логине и логауте.
type TokenSource interface {
	Token() string
}

// Client шлюз к бэкенду.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
	deviceID   string
	log        *slog.Logger

	onUnauthorized func()
}

// NewClient создаёт шлюз. deviceID уходит в заголовок X-Device-Id каждого запроса.
func NewClient(cfg config.Backend, tokens TokenSource, m *metrics.Metrics, deviceID string, log *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RateBurst),
		metrics:    m,
		deviceID:   deviceID,
		log:        log,
	}
}

// SetUnauthorizedHandler регистрирует обработчик ответа 401.
// Политика сквозная: сброс сессии и остановка опроса делаются один раз
// здесь, а не в каждом месте вызова.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// newRequest собирает запрос. Query-параметры передаются отдельно от пути:
// путь уходит в метрики и логи, а параметры содержат телефон и одноразовый
// код, которым там не место.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do выполняет запрос к авторизованной поверхности и декодирует тело ответа
// в out (если out != nil). Ответ 401 означает протухший токен и дёргает
// сквозной обработчик.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.exec(ctx, method, path, query, body, out, false)
}

// doPublic выполняет запрос к неавторизованной поверхности (запрос и проверка
// одноразового кода). Ответ 401 здесь означает отклонённый код, а не
// протухшую сессию, поэтому сквозной обработчик не дёргается.
func (c *Client) doPublic(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.exec(ctx, method, path, query, body, out, true)
}

func (c *Client) exec(ctx context.Context, method, path string, query url.Values, body, out any, public bool) error {
	const op = "api.do"

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.metrics.InFlight.Inc()
	defer c.metrics.InFlight.Dec()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Requests.WithLabelValues(path, "network_error").Inc()
		c.log.Warn("backend unreachable", slog.String("path", path), slog.Any("err", err))
		return fmt.Errorf("%s: %w: %v", op, ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.metrics.Requests.WithLabelValues(path, "unauthorized").Inc()
		if public {
			return fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}
		c.log.Warn("backend rejected token", slog.String("path", path))
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.metrics.Requests.WithLabelValues(path, "server_error").Inc()
		return fmt.Errorf("%s: %w", op, &StatusError{Code: resp.StatusCode})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.metrics.Requests.WithLabelValues(path, "ok").Inc()
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.Requests.WithLabelValues(path, "decode_error").Inc()
		return fmt.Errorf("%s: %w: %v", op, ErrDecode, err)
	}
	c.metrics.Requests.WithLabelValues(path, "ok").Inc()
	return nil
}
