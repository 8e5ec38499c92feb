// Package auth реализует вход и выход сотрудников: обмен учетных данных
// на токен backend API и создание серверной сессии консоли.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lamisai/legalcare-admin/internal/models"
	"github.com/lamisai/legalcare-admin/internal/upstream"
)

// UpstreamClient описывает операцию входа backend API.
type UpstreamClient interface {
	Login(ctx context.Context, email, password string) (*upstream.LoginResponse, error)
}

// SessionStore описывает операции хранилища сессий.
type SessionStore interface {
	Create(ctx context.Context, upstreamToken string, employee models.Employee) (string, *models.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// Service связывает backend API и хранилище сессий.
type Service struct {
	log      *slog.Logger
	client   UpstreamClient
	sessions SessionStore
}

// New создает сервис аутентификации.
func New(log *slog.Logger, client UpstreamClient, sessions SessionStore) *Service {
	return &Service{log: log, client: client, sessions: sessions}
}

// Login проверяет учетные данные через backend API и создает сессию.
// Возвращает сессионный токен консоли и созданную сессию.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.Session, error) {
	const op = "auth.Login"

	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	token, sess, err := s.sessions.Create(ctx, resp.Token, resp.Employee)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("employee logged in",
		slog.String("op", op),
		slog.String("employee_id", resp.Employee.ID),
		slog.String("role", resp.Employee.Role))
	return token, sess, nil
}

// Logout удаляет сессию сотрудника.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	const op = "auth.Logout"

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
