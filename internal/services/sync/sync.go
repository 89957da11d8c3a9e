// Package sync реализует операции обновления клиентских коллекций из бэкенда.
// Каждая операция помечает свой срез занятым на время запроса, применяет
// успешный ответ к контейнеру и оставляет коллекцию нетронутой при ошибке:
// устаревшие, но видимые данные лучше очищенного списка.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/mait00/legaltrackswift-sub002/internal/lib/sl"
	"github.com/mait00/legaltrackswift-sub002/internal/models"
	"github.com/mait00/legaltrackswift-sub002/internal/session"
	"github.com/mait00/legaltrackswift-sub002/internal/store"
	"github.com/mait00/legaltrackswift-sub002/internal/tariff"
)

// Gateway контракт шлюза для операций обновления.
type Gateway interface {
	Profile(ctx context.Context) (*models.Profile, error)
	EditProfile(ctx context.Context, req models.EditProfileRequest) (*models.Profile, error)
	Subscriptions(ctx context.Context) (*models.SubscriptionsPayload, error)
	Notifications(ctx context.Context) ([]models.NotificationRecord, error)
	Delays(ctx context.Context) ([]models.DelayRecord, error)
	Messages(ctx context.Context) ([]models.Message, error)
	SendMessage(ctx context.Context, text string) error
	DeleteSubscription(ctx context.Context, id int, subType string) error
}

// Service оркестрирует запросы к шлюзу и мутации контейнера.
type Service struct {
	gw       Gateway
	store    *store.Store
	sess     *session.Store
	validate *validator.Validate
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(gw Gateway, st *store.Store, sess *session.Store, log *slog.Logger) *Service {
	return &Service{
		gw:       gw,
		store:    st,
		sess:     sess,
		validate: validator.New(),
		log:      log,
	}
}

// RefreshSubscriptions обновляет дела, компании и ключевые слова одним
// запросом. Три коллекции применяются атомарно; частичная ошибка
// декодирования не оставит одну коллекцию устаревшей при обновлённых других.
func (s *Service) RefreshSubscriptions(ctx context.Context) error {
	const op = "sync.RefreshSubscriptions"
	gen := s.sess.Generation()
	s.store.BeginFetch(store.SliceSubscriptions)
	defer s.store.EndFetch(store.SliceSubscriptions)

	payload, err := s.gw.Subscriptions(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.sess.Generation() != gen {
		s.log.Debug("dropping stale subscriptions response")
		return nil
	}
	s.store.SetSubscriptions(*payload)
	return nil
}

// RefreshNotifications обновляет список уведомлений.
func (s *Service) RefreshNotifications(ctx context.Context) error {
	const op = "sync.RefreshNotifications"
	gen := s.sess.Generation()
	s.store.BeginFetch(store.SliceNotifications)
	defer s.store.EndFetch(store.SliceNotifications)

	list, err := s.gw.Notifications(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.sess.Generation() != gen {
		s.log.Debug("dropping stale notifications response")
		return nil
	}
	s.store.SetNotifications(list)
	return nil
}

// RefreshDelays обновляет сырой список переносов, производное представление
// пересчитывается контейнером. Поверхность платная: без активного тарифа
// запрос не выполняется и возвращается tariff.ErrLocked.
func (s *Service) RefreshDelays(ctx context.Context) error {
	const op = "sync.RefreshDelays"
	if !tariff.IsFeatureUnlocked(s.sess.Profile(), tariff.FeatureDelayTracking) {
		return fmt.Errorf("%s: %w", op, tariff.ErrLocked)
	}
	gen := s.sess.Generation()
	s.store.BeginFetch(store.SliceDelays)
	defer s.store.EndFetch(store.SliceDelays)

	raw, err := s.gw.Delays(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.sess.Generation() != gen {
		s.log.Debug("dropping stale delays response")
		return nil
	}
	s.store.SetDelays(raw)
	return nil
}

// RefreshMessages обновляет историю чата поддержки.
func (s *Service) RefreshMessages(ctx context.Context) error {
	const op = "sync.RefreshMessages"
	gen := s.sess.Generation()
	s.store.BeginFetch(store.SliceMessages)
	defer s.store.EndFetch(store.SliceMessages)

	list, err := s.gw.Messages(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.sess.Generation() != gen {
		s.log.Debug("dropping stale messages response")
		return nil
	}
	s.store.SetMessages(list)
	return nil
}

// SendMessage отправляет сообщение в чат и перечитывает историю.
func (s *Service) SendMessage(ctx context.Context, text string) error {
	const op = "sync.SendMessage"
	if err := s.gw.SendMessage(ctx, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.RefreshMessages(ctx)
}

// RefreshProfile перечитывает профиль и заменяет его в сессии целиком.
func (s *Service) RefreshProfile(ctx context.Context) error {
	const op = "sync.RefreshProfile"
	p, err := s.gw.Profile(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.sess.UpdateProfile(p)
	return nil
}

// EditProfile валидирует изменения, отправляет их на бэкенд и заменяет
// профиль в сессии ответом сервера.
func (s *Service) EditProfile(ctx context.Context, req models.EditProfileRequest) error {
	const op = "sync.EditProfile"
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p, err := s.gw.EditProfile(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.sess.UpdateProfile(p)
	return nil
}

// Unsubscribe снимает подписку на сервере и убирает запись из контейнера.
func (s *Service) Unsubscribe(ctx context.Context, id int, subType string) error {
	const op = "sync.Unsubscribe"
	if err := s.gw.DeleteSubscription(ctx, id, subType); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.store.RemoveSubscription(id, subType)
	return nil
}

// RefreshAll выполняет полный цикл обновления. Используется планировщиком;
// ошибки отдельных срезов логируются и не прерывают остальные, закрытая
// тарифом поверхность пропускается молча.
func (s *Service) RefreshAll(ctx context.Context) {
	if err := s.RefreshSubscriptions(ctx); err != nil {
		s.log.Warn("subscriptions refresh failed", sl.Err(err))
	}
	if err := s.RefreshNotifications(ctx); err != nil {
		s.log.Warn("notifications refresh failed", sl.Err(err))
	}
	if err := s.RefreshDelays(ctx); err != nil {
		if errors.Is(err, tariff.ErrLocked) {
			s.log.Debug("delay tracking locked by tariff, skipping")
		} else {
			s.log.Warn("delays refresh failed", sl.Err(err))
		}
	}
	if err := s.RefreshMessages(ctx); err != nil {
		s.log.Warn("messages refresh failed", sl.Err(err))
	}
}
