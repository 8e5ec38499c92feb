// Package models содержит доменные структуры консоли администратора:
// пользователей, менеджеров, сессии и состояние таблиц.
package models

import "time"

// SubscriptionStatus перечисляет состояния подписки пользователя,
// как их отдаёт backend API.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "yes"
	StatusInactive SubscriptionStatus = "no"
	StatusApplied  SubscriptionStatus = "applied"
	StatusAccepted SubscriptionStatus = "accepted"
	StatusRejected SubscriptionStatus = "rejected"
)

// Valid сообщает, известен ли статус консоли.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusApplied, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// User представляет пользователя сервиса, которым управляет консоль.
// Записи принадлежат backend API; консоль хранит только копии в памяти и кеше.
type User struct {
	ID                 string             `json:"_id"`
	UserName           string             `json:"user_name"`
	Email              string             `json:"email"`
	Picture            string             `json:"picture,omitempty"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	LastLogin          *time.Time         `json:"last_login,omitempty"`
}
