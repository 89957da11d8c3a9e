// Package scheduler владеет единственным таймером периодического обновления
// данных. Жизненный цикл явный: Start запускает немедленное обновление и
// тикер, Stop гасит таймер. Stop обязателен при логауте и завершении
// приложения, иначе опрос продолжится с недействительным токеном.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Ticker минимальный контракт тикера, чтобы тесты могли подменить время.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock фабрика тикеров. Продакшен использует системные часы, тесты -
// виртуальные, без ожидания настенного времени.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

// SystemClock системные часы.
type SystemClock struct{}

// NewTicker возвращает тикер поверх time.Ticker.
func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

// Refresher выполняет полный цикл обновления данных.
type Refresher interface {
	RefreshAll(ctx context.Context)
}

// Scheduler периодически обновляет данные через Refresher.
type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	clock     Clock
	log       *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	wake   chan struct{}
}

// New создает новый экземпляр Scheduler на системных часах.
func New(r Refresher, interval time.Duration, log *slog.Logger) *Scheduler {
	return NewWithClock(r, interval, SystemClock{}, log)
}

// NewWithClock создает Scheduler с переданными часами.
func NewWithClock(r Refresher, interval time.Duration, clock Clock, log *slog.Logger) *Scheduler {
	return &Scheduler{
		refresher: r,
		interval:  interval,
		clock:     clock,
		log:       log,
		wake:      make(chan struct{}, 1),
	}
}

// Start запускает немедленное обновление и далее обновляет по интервалу.
// Повторный Start при работающем планировщике ничего не делает.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.log.Info("polling started", slog.Duration("interval", s.interval))
	go s.run(ctx, s.done)
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.refresher.RefreshAll(ctx)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.refresher.RefreshAll(ctx)
		case <-s.wake:
			s.refresher.RefreshAll(ctx)
		}
	}
}

// Stop гасит таймер. Не ждёт выхода цикла: Stop дёргается в том числе из
// обработчика 401 на горутине самого цикла, ожидание здесь было бы
// самоблокировкой. Текущий запрос доработает, его результат отбросится по
// поколению сессии.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.log.Info("polling stopped")
}

// Wait блокируется до выхода цикла обновления. Для тестов и завершения
// приложения; вызывать после Stop.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Foreground запрашивает немедленное внеочередное обновление. Вызывается
// при возврате приложения из фона; если обновление уже запрошено, сигнал
// схлопывается.
func (s *Scheduler) Foreground() {
	s.mu.Lock()
	running := s.cancel != nil
	s.mu.Unlock()
	if !running {
		return
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Running сообщает, работает ли планировщик.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
