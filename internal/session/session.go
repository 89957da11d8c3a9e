// Package session управляет жизненным циклом сессии пользователя:
// запрос и проверка одноразового кода, хранение токена и профиля,
// восстановление сессии при старте и логаут.
//
// Переходы состояний: Unauthenticated -> Authenticating -> Authenticated,
// обратно в Unauthenticated по логауту или ответу 401.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/mait00/legaltrackswift-sub002/internal/api"
	"github.com/mait00/legaltrackswift-sub002/internal/lib/phone"
	"github.com/mait00/legaltrackswift-sub002/internal/lib/sl"
	"github.com/mait00/legaltrackswift-sub002/internal/models"
	"github.com/mait00/legaltrackswift-sub002/internal/storage"
)

// State состояние сессии.
type State int

// Возможные состояния сессии.
const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
)

// String возвращает имя состояния для логов.
func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Ошибки авторизации.
var (
	// ErrInvalidPhone номер не проходит клиентскую проверку.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrInvalidCode сервер отверг одноразовый код.
	ErrInvalidCode = errors.New("invalid confirmation code")
)

// Authenticator контракт шлюза для авторизационных вызовов.
type Authenticator interface {
	// RequestCode просит сервер отправить одноразовый код на телефон.
	RequestCode(ctx context.Context, phone string) error
	// VerifyCode проверяет код и возвращает токен и, если сервер его
	// прислал, профиль.
	VerifyCode(ctx context.Context, phone, code string) (string, *models.Profile, error)
}

// Store хранит сессию. Токен - единственное разделяемое состояние, от
// которого зависят все остальные компоненты, поэтому доступ к нему идёт
// только через Token() и обновляется до любых зависимых запросов.
type Store struct {
	mu      sync.Mutex
	state   State
	token   string
	profile *models.Profile
	gen     uint64 // поколение сессии, растёт при логине и логауте

	auth    Authenticator
	storage *storage.Storage
	log     *slog.Logger
}

// New создаёт хранилище сессии. Authenticator подключается позже через
// Bind: шлюзу для создания нужен источник токена, то есть само хранилище.
func New(st *storage.Storage, log *slog.Logger) *Store {
	return &Store{
		state:   StateUnauthenticated,
		storage: st,
		log:     log,
	}
}

// Bind подключает шлюз для авторизационных вызовов.
func (s *Store) Bind(auth Authenticator) { s.auth = auth }

// Token возвращает текущий токен; пустая строка - токена нет.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// State возвращает текущее состояние сессии.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Generation возвращает поколение сессии. Результаты запросов, начатых в
// другом поколении, должны быть отброшены.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Profile возвращает копию профиля или nil, если профиль неизвестен.
func (s *Store) Profile() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// LastPhone возвращает последний введённый номер для подстановки на экран входа.
func (s *Store) LastPhone() string {
	v, _, err := s.storage.Get(storage.KeyLastPhone)
	if err != nil {
		s.log.Warn("failed to read last phone", sl.Err(err))
		return ""
	}
	return v
}

// LoadPersisted восстанавливает сессию из локального хранилища при старте.
// Любая ошибка чтения трактуется как "сессии нет".
func (s *Store) LoadPersisted() State {
	token, found, err := s.storage.Get(storage.KeyToken)
	if err != nil {
		s.log.Warn("failed to read persisted token, starting unauthenticated", sl.Err(err))
		return StateUnauthenticated
	}
	if !found || token == "" {
		return StateUnauthenticated
	}

	var profile *models.Profile
	if raw, ok, err := s.storage.Get(storage.KeyProfile); err == nil && ok {
		var p models.Profile
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			profile = &p
		} else {
			s.log.Warn("cached profile is unreadable, dropping it", sl.Err(err))
		}
	}

	s.mu.Lock()
	s.token = token
	s.profile = profile
	s.state = StateAuthenticated
	s.gen++
	s.mu.Unlock()

	s.log.Info("restored persisted session")
	return StateAuthenticated
}

// RequestCode проверяет номер и просит сервер отправить одноразовый код.
// Состояние сессии не меняется.
func (s *Store) RequestCode(ctx context.Context, rawPhone string) error {
	const op = "session.RequestCode"
	if !phone.IsValid(rawPhone) {
		return fmt.Errorf("%s: %w", op, ErrInvalidPhone)
	}
	if err := s.storage.Set(storage.KeyLastPhone, rawPhone); err != nil {
		s.log.Warn("failed to persist last phone", sl.Err(err))
	}
	if err := s.auth.RequestCode(ctx, phone.Normalize(rawPhone)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// VerifyCode проверяет одноразовый код. При успехе сохраняет токен и
// профиль, переводит сессию в Authenticated и начинает новое поколение.
// При отказе прежние токен и профиль остаются нетронутыми.
func (s *Store) VerifyCode(ctx context.Context, rawPhone, code string) error {
	const op = "session.VerifyCode"

	s.mu.Lock()
	s.state = StateAuthenticating
	s.mu.Unlock()

	token, profile, err := s.auth.VerifyCode(ctx, phone.Normalize(rawPhone), code)
	if err != nil {
		// Состояние выводится заново из текущего токена, а не
		// восстанавливается из снимка: токен мог измениться, пока
		// запрос был в полёте.
		s.mu.Lock()
		if s.token != "" {
			s.state = StateAuthenticated
		} else {
			s.state = StateUnauthenticated
		}
		s.mu.Unlock()

		// Отклонённый код сервер отдаёт как 400, 401 или 403; прочие
		// статусы (404, 429, 5xx) - проблемы бэкенда, выдавать их за
		// неверный код нельзя.
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) {
			switch statusErr.Code {
			case http.StatusBadRequest, http.StatusForbidden:
				return fmt.Errorf("%s: %w", op, ErrInvalidCode)
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("%s: %w", op, ErrInvalidCode)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.token = token
	s.profile = profile
	s.state = StateAuthenticated
	s.gen++
	s.mu.Unlock()

	if err := s.storage.Set(storage.KeyToken, token); err != nil {
		s.log.Warn("failed to persist token", sl.Err(err))
	}
	s.persistProfile(profile)

	s.log.Info("session authenticated")
	return nil
}

// SetToken выставляет токен напрямую. Идемпотентно; используется после
// восстановления сессии из хранилища. Смена токена начинает новое
// поколение, как и обычный логин.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == token {
		return
	}
	s.token = token
	if token != "" {
		s.state = StateAuthenticated
	}
	s.gen++
}

// UpdateProfile заменяет профиль целиком и обновляет кэш на диске.
func (s *Store) UpdateProfile(p *models.Profile) {
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
	s.persistProfile(p)
}

// Logout сбрасывает сессию в памяти и на диске. Последний телефон и
// идентификатор установки переживают логаут.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.profile = nil
	s.state = StateUnauthenticated
	s.gen++
	s.mu.Unlock()

	if err := s.storage.Delete(storage.KeyToken); err != nil {
		s.log.Warn("failed to delete persisted token", sl.Err(err))
	}
	if err := s.storage.Delete(storage.KeyProfile); err != nil {
		s.log.Warn("failed to delete cached profile", sl.Err(err))
	}
	s.log.Info("session cleared")
}

func (s *Store) persistProfile(p *models.Profile) {
	if p == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		s.log.Warn("failed to encode profile for cache", sl.Err(err))
		return
	}
	if err := s.storage.Set(storage.KeyProfile, string(raw)); err != nil {
		s.log.Warn("failed to cache profile", sl.Err(err))
	}
}
