package api_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mait00/legaltrackswift-sub002/internal/api"
	"github.com/mait00/legaltrackswift-sub002/internal/config"
	"github.com/mait00/legaltrackswift-sub002/internal/metrics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeTokens struct{ token atomic.Value }

func (f *fakeTokens) Token() string {
	v, _ := f.token.Load().(string)
	return v
}

func (f *fakeTokens) set(t string) { f.token.Store(t) }

func newTestClient(t *testing.T, handler http.Handler) (*api.Client, *fakeTokens) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := &fakeTokens{}
	cfg := config.Backend{BaseURL: srv.URL, Timeout: 0, RatePerSec: 1000, RateBurst: 1000}
	m := metrics.New(prometheus.NewRegistry())
	return api.NewClient(cfg, tokens, m, "device-1", testLogger()), tokens
}

func TestClient_ReadsTokenFreshOnEveryRequest(t *testing.T) {
	var headers []string
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data": []}`))
	}))

	_, err := client.Notifications(context.Background())
	require.NoError(t, err)

	tokens.set("t-1")
	_, err = client.Notifications(context.Background())
	require.NoError(t, err)

	tokens.set("t-2")
	_, err = client.Notifications(context.Background())
	require.NoError(t, err)

	require.Len(t, headers, 3)
	assert.Empty(t, headers[0])
	assert.Equal(t, "Bearer t-1", headers[1])
	assert.Equal(t, "Bearer t-2", headers[2])
}

func TestClient_SendsDeviceID(t *testing.T) {
	var deviceID string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID = r.Header.Get("X-Device-Id")
		_, _ = w.Write([]byte(`{"data": []}`))
	}))

	_, err := client.Messages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "device-1", deviceID)
}

func TestClient_UnauthorizedFiresHandlerOnce(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	tokens.set("expired")

	var fired int
	client.SetUnauthorizedHandler(func() { fired++ })

	_, err := client.Profile(context.Background())
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, 1, fired)
}

func TestClient_RejectedCodeDoesNotFireUnauthorizedHandler(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	var fired int
	client.SetUnauthorizedHandler(func() { fired++ })

	// авторизационная поверхность: 401 здесь значит "код не подошёл",
	// живую сессию он ронять не должен
	err := client.RequestCode(context.Background(), "79991234567")
	require.ErrorIs(t, err, api.ErrUnauthorized)

	_, _, err = client.VerifyCode(context.Background(), "79991234567", "9999")
	require.ErrorIs(t, err, api.ErrUnauthorized)

	assert.Zero(t, fired)
}

func TestClient_MetricsPathLabelOmitsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"token": "t"}`))
	}))
	t.Cleanup(srv.Close)

	reg := prometheus.NewRegistry()
	cfg := config.Backend{BaseURL: srv.URL, Timeout: 0, RatePerSec: 1000, RateBurst: 1000}
	client := api.NewClient(cfg, &fakeTokens{}, metrics.New(reg), "", testLogger())

	_, _, err := client.VerifyCode(context.Background(), "79991234567", "0000")
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	var paths []string
	for _, mf := range families {
		if mf.GetName() != "legaltrack_api_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "path" {
					paths = append(paths, l.GetValue())
				}
			}
		}
	}

	// телефон и одноразовый код не должны попадать в метрики
	require.NotEmpty(t, paths)
	for _, p := range paths {
		assert.Equal(t, "/auth/check-auth-code", p)
	}
}

func TestClient_ServerErrorCarriesStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Delays(context.Background())
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestClient_DecodeError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{broken`))
	}))

	_, err := client.Subscriptions(context.Background())
	require.ErrorIs(t, err, api.ErrDecode)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // адрес занят не будет, соединение откажет

	tokens := &fakeTokens{}
	cfg := config.Backend{BaseURL: srv.URL, Timeout: 0, RatePerSec: 1000, RateBurst: 1000}
	client := api.NewClient(cfg, tokens, metrics.New(prometheus.NewRegistry()), "", testLogger())

	_, err := client.Notifications(context.Background())
	require.ErrorIs(t, err, api.ErrNetwork)
}

func TestVerifyCode_TokenAtTopLevel(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/check-auth-code", r.URL.Path)
		assert.Equal(t, "79991234567", r.URL.Query().Get("phone"))
		assert.Equal(t, "0000", r.URL.Query().Get("code"))
		_, _ = w.Write([]byte(`{"token": "top-token"}`))
	}))

	token, profile, err := client.VerifyCode(context.Background(), "79991234567", "0000")
	require.NoError(t, err)
	assert.Equal(t, "top-token", token)
	assert.Nil(t, profile)
}

func TestVerifyCode_TokenInsideData(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"token": "nested-token", "user": {"id": 7, "is_tarif_active": true}}}`))
	}))

	token, profile, err := client.VerifyCode(context.Background(), "79991234567", "0000")
	require.NoError(t, err)
	assert.Equal(t, "nested-token", token)
	require.NotNil(t, profile)
	assert.Equal(t, 7, profile.ID)
	assert.True(t, profile.TariffActive)
}

func TestVerifyCode_MissingTokenIsDecodeError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message": "ok"}`))
	}))

	_, _, err := client.VerifyCode(context.Background(), "79991234567", "0000")
	require.ErrorIs(t, err, api.ErrDecode)
}
