// Package models содержит доменные структуры клиента LegalTrack:
// профиль пользователя, отслеживаемые дела и компании, уведомления,
// переносы заседаний и подписки на ключевые слова.
// Формы с json-тегами повторяют контракт бэкенда.
package models

// Profile представляет профиль авторизованного пользователя.
// Профиль заменяется целиком при каждом обновлении, частичных мутаций нет.
type Profile struct {
	ID           int    `json:"id"`
	Phone        string `json:"phone"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Type         string `json:"type"`
	TariffActive bool   `json:"is_tarif_active"`
}

// FullName возвращает имя и фамилию одной строкой.
func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// EditProfileRequest используется для приёма данных редактирования профиля
// до их валидации и отправки на бэкенд.
type EditProfileRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Type      string `json:"type" validate:"omitempty"`
}
