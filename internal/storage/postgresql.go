// Package storage реализует журнал аудита консоли на основе PostgreSQL.
// Данные пользователей и сотрудников консоль не хранит — ими владеет
// backend API; здесь фиксируются только действия администраторов.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lamisai/legalcare-admin/internal/models"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'audit_events'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table audit_events missing or query error: %w", err)
	}
	return nil
}

// RecordEvent вставляет запись журнала аудита и возвращает её ID.
func (s *Storage) RecordEvent(ctx context.Context, event models.AuditEvent) (string, error) {
	const op = "storage.RecordEvent"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO audit_events (id, actor_id, actor_email, action,
			      entity_type, entity_id, old_value, new_value)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		event.ID, event.ActorID, event.ActorEmail, event.Action,
		event.EntityType, event.EntityID, event.OldValue, event.NewValue).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListEvents возвращает записи журнала аудита, новые первыми, с пагинацией.
func (s *Storage) ListEvents(ctx context.Context, limit, offset int) ([]models.AuditEvent, error) {
	const op = "storage.ListEvents"

	query := `SELECT id, actor_id, actor_email, action, entity_type,
			      entity_id, old_value, new_value, created_at
			  FROM audit_events
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var events []models.AuditEvent
	for rows.Next() {
		var event models.AuditEvent
		if err := rows.Scan(&event.ID, &event.ActorID, &event.ActorEmail, &event.Action,
			&event.EntityType, &event.EntityID, &event.OldValue, &event.NewValue,
			&event.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// CountEvents возвращает общее количество записей журнала.
func (s *Storage) CountEvents(ctx context.Context) (int, error) {
	const op = "storage.CountEvents"

	var count int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
