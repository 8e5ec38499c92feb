// Package theme реализует хранение предпочтения темы консоли.
//
// Предпочтение хранится per-сотрудник в redis без срока жизни; значение
// system разрешается против предпочтения операционной системы, которое
// сообщает клиент.
package theme

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Preference предпочтение темы.
type Preference string

const (
	Light  Preference = "light"
	Dark   Preference = "dark"
	System Preference = "system"
)

// DefaultPreference тема по умолчанию до первого выбора.
const DefaultPreference = Dark

// ErrInvalidPreference возвращается при неизвестном значении темы.
var ErrInvalidPreference = errors.New("theme: invalid preference")

// Valid сообщает, допустимо ли значение предпочтения.
func (p Preference) Valid() bool {
	switch p {
	case Light, Dark, System:
		return true
	}
	return false
}

// Resolve возвращает применяемую тему: system заменяется на тему
// операционной системы; нераспознанное значение OS трактуется как light.
func Resolve(pref Preference, osDark bool) Preference {
	if pref != System {
		return pref
	}
	if osDark {
		return Dark
	}
	return Light
}

// Cache описывает методы кеша, необходимые хранилищу темы.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Store хранилище предпочтений темы.
type Store struct {
	cache Cache
}

// NewStore создает новое хранилище предпочтений темы.
func NewStore(cache Cache) *Store {
	return &Store{cache: cache}
}

func themeKey(employeeID string) string {
	return "theme:" + employeeID
}

// Get возвращает сохранённое предпочтение сотрудника или значение по умолчанию.
func (s *Store) Get(ctx context.Context, employeeID string) (Preference, error) {
	const op = "theme.Get"
	var pref Preference
	found, err := s.cache.Get(ctx, themeKey(employeeID), &pref)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !found || !pref.Valid() {
		return DefaultPreference, nil
	}
	return pref, nil
}

// Set сохраняет предпочтение сотрудника.
func (s *Store) Set(ctx context.Context, employeeID string, pref Preference) error {
	const op = "theme.Set"
	if !pref.Valid() {
		return fmt.Errorf("%s: %w", op, ErrInvalidPreference)
	}
	if err := s.cache.Set(ctx, themeKey(employeeID), pref, 0); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
