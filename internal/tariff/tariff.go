// Package tariff содержит политику доступа к платным функциям.
// Политика чистая: ни состояния, ни сети, только флаг тарифа в профиле.
package tariff

import (
	"errors"

	"github.com/mait00/legaltrackswift-sub002/internal/models"
)

// Feature именует функциональную поверхность приложения.
type Feature string

// Платные поверхности. Все остальные доступны безусловно.
const (
	FeatureDelayTracking   Feature = "delay-tracking"
	FeatureKeywordPractice Feature = "keyword-practice"
)

// ErrLocked функция закрыта тарифом; пользователю показывается предложение
// оплаты, частичной функциональности нет.
var ErrLocked = errors.New("feature requires active tariff")

// IsFeatureUnlocked сообщает, открыта ли поверхность для данного профиля.
// Для платных поверхностей ответ равен флагу тарифа; неизвестный профиль
// считается бесплатным.
func IsFeatureUnlocked(p *models.Profile, f Feature) bool {
	switch f {
	case FeatureDelayTracking, FeatureKeywordPractice:
		return p != nil && p.TariffActive
	default:
		return true
	}
}
