// Package session реализует хранилище сессий консоли поверх redis.
//
// Запись сессии хранит bearer-токен backend API, снимок учётной записи
// сотрудника и состояние таблиц. Клиенту выдаётся только токен сессии
// консоли; токен backend API браузер не покидает сервер.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lamisai/legalcare-admin/internal/lib/jwt"
	"github.com/lamisai/legalcare-admin/internal/models"
)

// ErrNotFound возвращается, когда сессия отсутствует или истекла.
var ErrNotFound = errors.New("session: not found")

// Cache описывает методы кеша, необходимые хранилищу сессий.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Store хранилище сессий.
type Store struct {
	cache Cache
	maker jwt.Maker
	ttl   time.Duration
}

// NewStore создает новое хранилище сессий.
func NewStore(cache Cache, maker jwt.Maker, ttl time.Duration) *Store {
	return &Store{
		cache: cache,
		maker: maker,
		ttl:   ttl,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create создаёт сессию для сотрудника и возвращает токен сессии консоли.
func (s *Store) Create(ctx context.Context, upstreamToken string, employee models.Employee) (string, *models.Session, error) {
	const op = "session.Create"

	sess := &models.Session{
		ID:            uuid.NewString(),
		UpstreamToken: upstreamToken,
		Employee:      employee,
		Tables:        make(map[string]models.TableState),
		CreatedAt:     time.Now(),
	}

	if err := s.cache.Set(ctx, sessionKey(sess.ID), sess, s.ttl); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.maker.GenerateToken(sess.ID, employee.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, sess, nil
}

// Get валидирует токен сессии и загружает запись из redis.
func (s *Store) Get(ctx context.Context, token string) (*models.Session, error) {
	const op = "session.Get"

	claims, err := s.maker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var sess models.Session
	found, err := s.cache.Get(ctx, sessionKey(claims.SessionID), &sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return &sess, nil
}

// Save перезаписывает запись сессии (обновление состояния таблиц,
// снимка учётной записи), продлевая её TTL.
func (s *Store) Save(ctx context.Context, sess *models.Session) error {
	const op = "session.Save"
	if err := s.cache.Set(ctx, sessionKey(sess.ID), sess, s.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete уничтожает сессию: логаут или 401 от backend API.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	const op = "session.Delete"
	if err := s.cache.Invalidate(ctx, sessionKey(sessionID)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
