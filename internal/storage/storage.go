// Package storage реализует локальное key/value-хранилище агента поверх
// встроенного SQLite (чистый Go-драйвер). Здесь живут токен сессии,
// кэш профиля, последний введённый телефон и идентификатор установки.
package storage

import (
	"errors"
	"fmt"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SchemaVersion версия схемы записей. Запись с другой версией считается
// отсутствующей: при старте это приводит к безопасному пути
// "нет сессии", а не к падению.
const SchemaVersion = 1

// Ключи персистентных записей.
const (
	KeyToken     = "token"
	KeyProfile   = "profile"
	KeyLastPhone = "last_phone"
	KeyDeviceID  = "device_id"
)

// Entry строка key/value-таблицы.
type Entry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value"`
	Schema    int    `gorm:"column:schema"`
	UpdatedAt time.Time
}

// TableName имя таблицы для gorm.
func (Entry) TableName() string { return "kv_entries" }

// Storage обёртка над базой.
type Storage struct {
	db *gorm.DB
}

// New открывает (или создаёт) базу по пути и прогоняет миграцию схемы.
func New(path string) (*Storage, error) {
	const op = "storage.New"
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA busy_timeout=5000;")
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{db: db}, nil
}

// Get возвращает значение по ключу. Вторым значением сообщает, найдена ли
// запись; запись с чужой версией схемы считается отсутствующей.
func (s *Storage) Get(key string) (string, bool, error) {
	const op = "storage.Get"
	var e Entry
	err := s.db.First(&e, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	if e.Schema != SchemaVersion {
		return "", false, nil
	}
	return e.Value, true, nil
}

// Set сохраняет значение по ключу, затирая прежнее.
func (s *Storage) Set(key, value string) error {
	const op = "storage.Set"
	e := Entry{Key: key, Value: value, Schema: SchemaVersion, UpdatedAt: time.Now().UTC()}
	if err := s.db.Save(&e).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет запись по ключу. Отсутствие записи не ошибка.
func (s *Storage) Delete(key string) error {
	const op = "storage.Delete"
	if err := s.db.Delete(&Entry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeviceID возвращает идентификатор установки, создавая его при первом
// обращении. Идентификатор переживает логаут.
func (s *Storage) DeviceID() (string, error) {
	const op = "storage.DeviceID"
	id, found, err := s.Get(KeyDeviceID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if found && id != "" {
		return id, nil
	}
	id = uuid.NewString()
	if err := s.Set(KeyDeviceID, id); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}
