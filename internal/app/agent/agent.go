// Package agent собирает компоненты клиента в работающее приложение:
// хранилище, сессию, шлюз, контейнер данных, планировщик опроса и
// служебный HTTP-сервер с метриками.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mait00/legaltrackswift-sub002/internal/api"
	"github.com/mait00/legaltrackswift-sub002/internal/config"
	"github.com/mait00/legaltrackswift-sub002/internal/lib/sl"
	"github.com/mait00/legaltrackswift-sub002/internal/metrics"
	"github.com/mait00/legaltrackswift-sub002/internal/scheduler"
	svcsync "github.com/mait00/legaltrackswift-sub002/internal/services/sync"
	"github.com/mait00/legaltrackswift-sub002/internal/session"
	"github.com/mait00/legaltrackswift-sub002/internal/storage"
	"github.com/mait00/legaltrackswift-sub002/internal/store"
)

// App корневой объект агента.
type App struct {
	opsServer *http.Server
	logger    *slog.Logger

	Session   *session.Store
	Client    *api.Client
	Store     *store.Store
	Sync      *svcsync.Service
	Scheduler *scheduler.Scheduler
}

// New создаёт и связывает компоненты агента.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	st, err := storage.New(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	deviceID, err := st.DeviceID()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	sess := session.New(st, logger)
	client := api.NewClient(cfg.Backend, sess, m, deviceID, logger)
	sess.Bind(client)

	data := store.New()
	syncSvc := svcsync.New(client, data, sess, logger)
	sched := scheduler.New(syncSvc, cfg.Poller.Interval, logger)

	// Сквозная политика 401: сессия сбрасывается, опрос гасится,
	// коллекции очищаются. Ровно одно место вместо каждой точки вызова.
	client.SetUnauthorizedHandler(func() {
		logger.Warn("session invalidated by backend, forcing logout")
		sched.Stop()
		sess.Logout()
		data.Clear()
	})

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &App{
		opsServer: &http.Server{Addr: cfg.Ops.Address, Handler: router},
		logger:    logger,
		Session:   sess,
		Client:    client,
		Store:     data,
		Sync:      syncSvc,
		Scheduler: sched,
	}, nil
}

// Run восстанавливает сессию, запускает опрос при живом токене и держит
// служебный HTTP-сервер до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	if a.Session.LoadPersisted() == session.StateAuthenticated {
		// Профиль сразу перечитывается: протухший токен здесь же
		// словит 401 и уйдёт в сквозную политику.
		if err := a.Sync.RefreshProfile(ctx); err != nil {
			a.logger.Warn("profile refresh on startup failed", sl.Err(err))
		}
		if a.Session.State() == session.StateAuthenticated {
			a.Scheduler.Start()
		}
	} else {
		a.logger.Info("no persisted session, waiting for authentication")
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("ops server starting on", slog.String("address", a.opsServer.Addr))
		err := a.opsServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.Scheduler.Stop()
		return err
	case <-ctx.Done():
		a.Scheduler.Stop()
		a.Scheduler.Wait()
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down ops server gracefully")
		return a.opsServer.Shutdown(timeoutCtx)
	}
}
