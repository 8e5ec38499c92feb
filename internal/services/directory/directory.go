// Package directory реализует прикладную логику консоли: загрузку
// коллекций пользователей и сотрудников, смену статусов подписки,
// массовые операции и управление доступом менеджеров.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lamisai/legalcare-admin/internal/lib/sl"
	"github.com/lamisai/legalcare-admin/internal/models"
	"github.com/lamisai/legalcare-admin/internal/policy"
	"github.com/lamisai/legalcare-admin/internal/upstream"
)

var (
	// ErrBulkFailed возвращается, когда хотя бы одно обновление
	// в массовой операции завершилось ошибкой.
	ErrBulkFailed = errors.New("directory: bulk update failed")
	// ErrNotFound возвращается, когда запись с указанным ID отсутствует.
	ErrNotFound = errors.New("directory: not found")
	// ErrInvalidStatus возвращается при попытке установить неизвестный статус.
	ErrInvalidStatus = errors.New("directory: invalid subscription status")
)

const (
	usersCacheKey     = "directory:users"
	employeesCacheKey = "directory:employees"
)

// UpstreamClient описывает операции backend API, нужные сервису.
type UpstreamClient interface {
	ListUsers(ctx context.Context, token string) ([]models.User, error)
	UpdateSubscription(ctx context.Context, token, id string, status models.SubscriptionStatus) (*models.User, error)
	ListEmployees(ctx context.Context, token string) ([]models.Employee, error)
	RegisterEmployee(ctx context.Context, token string, reqParams upstream.RegisterRequest) (*models.Employee, error)
	UpdateEmployeeAccess(ctx context.Context, token, id string, canChangeSubscription bool) (*models.Employee, error)
}

// CollectionCache кеширует коллекции между запросами консоли.
type CollectionCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// AuditRecorder пишет записи журнала аудита.
type AuditRecorder interface {
	RecordEvent(ctx context.Context, event models.AuditEvent) (string, error)
}

// EventPublisher публикует события об изменениях.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Summary агрегированные счетчики для панели супер-администратора.
type Summary struct {
	TotalUsers    int `json:"total_users"`
	TotalManagers int `json:"total_managers"`
	Active        int `json:"active"`
	Pending       int `json:"pending"`
	Inactive      int `json:"inactive"`
}

// SubscriptionEvent тело события subscription.changed.
type SubscriptionEvent struct {
	UserID     string                    `json:"user_id"`
	OldStatus  models.SubscriptionStatus `json:"old_status"`
	NewStatus  models.SubscriptionStatus `json:"new_status"`
	ActorEmail string                    `json:"actor_email"`
}

// AccessEvent тело события access.changed.
type AccessEvent struct {
	EmployeeID            string `json:"employee_id"`
	CanChangeSubscription bool   `json:"can_change_subscription"`
	ActorEmail            string `json:"actor_email"`
}

// Service связывает backend API, кеш, журнал аудита и брокер событий.
type Service struct {
	log      *slog.Logger
	client   UpstreamClient
	cache    CollectionCache
	audit    AuditRecorder
	events   EventPublisher
	cacheTTL time.Duration
}

// New создает сервис каталога.
func New(log *slog.Logger, client UpstreamClient, cache CollectionCache,
	audit AuditRecorder, events EventPublisher, cacheTTL time.Duration) *Service {
	return &Service{
		log:      log,
		client:   client,
		cache:    cache,
		audit:    audit,
		events:   events,
		cacheTTL: cacheTTL,
	}
}

// LoadUsers возвращает полный список пользователей, используя кеш.
func (s *Service) LoadUsers(ctx context.Context, token string) ([]models.User, error) {
	const op = "directory.LoadUsers"

	var users []models.User
	found, err := s.cache.Get(ctx, usersCacheKey, &users)
	if err != nil {
		s.log.Warn("failed to read users cache", sl.Err(err), slog.String("op", op))
	}
	if found {
		return users, nil
	}

	users, err = s.client.ListUsers(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(ctx, usersCacheKey, users, s.cacheTTL); err != nil {
		s.log.Warn("failed to write users cache", sl.Err(err), slog.String("op", op))
	}
	return users, nil
}

// LoadEmployees возвращает полный список сотрудников, используя кеш.
func (s *Service) LoadEmployees(ctx context.Context, token string) ([]models.Employee, error) {
	const op = "directory.LoadEmployees"

	var employees []models.Employee
	found, err := s.cache.Get(ctx, employeesCacheKey, &employees)
	if err != nil {
		s.log.Warn("failed to read employees cache", sl.Err(err), slog.String("op", op))
	}
	if found {
		return employees, nil
	}

	employees, err = s.client.ListEmployees(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(ctx, employeesCacheKey, employees, s.cacheTTL); err != nil {
		s.log.Warn("failed to write employees cache", sl.Err(err), slog.String("op", op))
	}
	return employees, nil
}

// Summary считает агрегаты по пользователям и менеджерам.
func (s *Service) Summary(ctx context.Context, token string) (*Summary, error) {
	const op = "directory.Summary"

	users, err := s.LoadUsers(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	employees, err := s.LoadEmployees(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary := &Summary{TotalUsers: len(users)}
	for _, u := range users {
		switch u.SubscriptionStatus {
		case models.StatusActive:
			summary.Active++
		case models.StatusApplied:
			summary.Pending++
		case models.StatusInactive:
			summary.Inactive++
		}
	}
	for _, e := range employees {
		if e.Role == models.RoleManager {
			summary.TotalManagers++
		}
	}
	return summary, nil
}

// ToggleSubscription переводит подписку пользователя в следующий статус
// согласно таблице переходов и возвращает обновленного пользователя.
func (s *Service) ToggleSubscription(ctx context.Context, token string,
	actor models.Employee, userID string) (*models.User, error) {
	const op = "directory.ToggleSubscription"

	if err := policy.RequireMutateSubscription(actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users, err := s.LoadUsers(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	current, ok := findUser(users, userID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	next := policy.NextStatus(current.SubscriptionStatus)
	updated, err := s.client.UpdateSubscription(ctx, token, userID, next)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateUsers(ctx, op)
	s.recordAudit(ctx, models.AuditEvent{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     models.AuditSubscriptionChanged,
		EntityType: "user",
		EntityID:   userID,
		OldValue:   string(current.SubscriptionStatus),
		NewValue:   string(next),
	})
	s.publish(models.AuditSubscriptionChanged, SubscriptionEvent{
		UserID:     userID,
		OldStatus:  current.SubscriptionStatus,
		NewStatus:  next,
		ActorEmail: actor.Email,
	})
	return updated, nil
}

// SetSubscription переводит подписку пользователя в явно указанный статус,
// минуя таблицу переходов. Используется кнопками approve/reject.
func (s *Service) SetSubscription(ctx context.Context, token string,
	actor models.Employee, userID string, status models.SubscriptionStatus) (*models.User, error) {
	const op = "directory.SetSubscription"

	if err := policy.RequireMutateSubscription(actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidStatus)
	}

	users, err := s.LoadUsers(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	current, ok := findUser(users, userID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	updated, err := s.client.UpdateSubscription(ctx, token, userID, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateUsers(ctx, op)
	s.recordAudit(ctx, models.AuditEvent{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     models.AuditSubscriptionChanged,
		EntityType: "user",
		EntityID:   userID,
		OldValue:   string(current.SubscriptionStatus),
		NewValue:   string(status),
	})
	s.publish(models.AuditSubscriptionChanged, SubscriptionEvent{
		UserID:     userID,
		OldStatus:  current.SubscriptionStatus,
		NewStatus:  status,
		ActorEmail: actor.Email,
	})
	return updated, nil
}

// BulkSetSubscription переводит все выбранные подписки в целевой статус.
// Все запросы выполняются параллельно и доводятся до конца; при любой
// ошибке возвращается единая ошибка ErrBulkFailed.
func (s *Service) BulkSetSubscription(ctx context.Context, token string,
	actor models.Employee, ids []string, action policy.BulkAction) error {
	const op = "directory.BulkSetSubscription"

	if err := policy.RequireMutateSubscription(actor); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	target, err := policy.BulkTarget(action)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(ids) == 0 {
		return nil
	}

	// Группа без общего контекста: первая ошибка не отменяет
	// остальные запросы, каждый доводится до конца.
	var group errgroup.Group
	for _, id := range ids {
		userID := id
		group.Go(func() error {
			if _, err := s.client.UpdateSubscription(ctx, token, userID, target); err != nil {
				s.log.Error("bulk subscription update failed",
					sl.Err(err),
					slog.String("op", op),
					slog.String("user_id", userID))
				return err
			}
			return nil
		})
	}
	groupErr := group.Wait()

	s.invalidateUsers(ctx, op)

	if groupErr != nil {
		if errors.Is(groupErr, upstream.ErrUnauthorized) {
			return fmt.Errorf("%s: %w", op, groupErr)
		}
		return fmt.Errorf("%s: %w", op, ErrBulkFailed)
	}

	s.recordAudit(ctx, models.AuditEvent{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     models.AuditBulkSubscription,
		EntityType: "user",
		EntityID:   fmt.Sprintf("%d users", len(ids)),
		NewValue:   string(target),
	})
	s.publish(models.AuditSubscriptionChanged, SubscriptionEvent{
		UserID:     fmt.Sprintf("%d users", len(ids)),
		NewStatus:  target,
		ActorEmail: actor.Email,
	})
	return nil
}

// CreateManager регистрирует нового менеджера без права менять подписки.
func (s *Service) CreateManager(ctx context.Context, token string,
	actor models.Employee, reqParams models.CreateManagerRequest) (*models.Employee, error) {
	const op = "directory.CreateManager"

	if !actor.IsSuperAdmin() {
		return nil, fmt.Errorf("%s: %w", op, policy.ErrPermissionDenied)
	}

	created, err := s.client.RegisterEmployee(ctx, token, upstream.RegisterRequest{
		UserName: reqParams.UserName,
		Email:    reqParams.Email,
		Password: reqParams.Password,
		Role:     models.RoleManager,
		Access:   models.Access{CanChangeSubscription: false},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateEmployees(ctx, op)
	s.recordAudit(ctx, models.AuditEvent{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     models.AuditManagerCreated,
		EntityType: "employee",
		EntityID:   created.ID,
		NewValue:   created.Email,
	})
	return created, nil
}

// ToggleManagerAccess переключает право менеджера менять подписки.
func (s *Service) ToggleManagerAccess(ctx context.Context, token string,
	actor models.Employee, employeeID string) (*models.Employee, error) {
	const op = "directory.ToggleManagerAccess"

	if !actor.IsSuperAdmin() {
		return nil, fmt.Errorf("%s: %w", op, policy.ErrPermissionDenied)
	}

	employees, err := s.LoadEmployees(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	current, ok := findEmployee(employees, employeeID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	next := !current.Access.CanChangeSubscription
	updated, err := s.client.UpdateEmployeeAccess(ctx, token, employeeID, next)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateEmployees(ctx, op)
	s.recordAudit(ctx, models.AuditEvent{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     models.AuditAccessChanged,
		EntityType: "employee",
		EntityID:   employeeID,
		OldValue:   fmt.Sprintf("%t", current.Access.CanChangeSubscription),
		NewValue:   fmt.Sprintf("%t", next),
	})
	s.publish(models.AuditAccessChanged, AccessEvent{
		EmployeeID:            employeeID,
		CanChangeSubscription: next,
		ActorEmail:            actor.Email,
	})
	return updated, nil
}

func (s *Service) invalidateUsers(ctx context.Context, op string) {
	if err := s.cache.Invalidate(ctx, usersCacheKey); err != nil {
		s.log.Warn("failed to invalidate users cache", sl.Err(err), slog.String("op", op))
	}
}

func (s *Service) invalidateEmployees(ctx context.Context, op string) {
	if err := s.cache.Invalidate(ctx, employeesCacheKey); err != nil {
		s.log.Warn("failed to invalidate employees cache", sl.Err(err), slog.String("op", op))
	}
}

// recordAudit пишет запись аудита; ошибка записи не прерывает операцию.
func (s *Service) recordAudit(ctx context.Context, event models.AuditEvent) {
	if s.audit == nil {
		return
	}
	if _, err := s.audit.RecordEvent(ctx, event); err != nil {
		s.log.Error("failed to record audit event", sl.Err(err),
			slog.String("action", event.Action))
	}
}

// publish отправляет событие в брокер; ошибка публикации только логируется.
func (s *Service) publish(routingKey string, message any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(routingKey, message); err != nil {
		s.log.Error("failed to publish event", sl.Err(err),
			slog.String("routing_key", routingKey))
	}
}

func findUser(users []models.User, id string) (models.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func findEmployee(employees []models.Employee, id string) (models.Employee, bool) {
	for _, e := range employees {
		if e.ID == id {
			return e, true
		}
	}
	return models.Employee{}, false
}
