package models

import "time"

// Действия, фиксируемые в журнале аудита консоли.
const (
	AuditSubscriptionChanged = "subscription.changed"
	AuditBulkSubscription    = "subscription.bulk"
	AuditAccessChanged       = "access.changed"
	AuditManagerCreated      = "manager.created"
)

// AuditEvent запись журнала аудита: кто, что и над кем сделал в консоли.
// Журнал принадлежит консоли, а не backend API.
type AuditEvent struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	ActorEmail string    `json:"actor_email"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	OldValue   string    `json:"old_value,omitempty"`
	NewValue   string    `json:"new_value,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
