// Package policy содержит политику переходов статуса подписки
// и проверку прав сотрудника на мутации.
package policy

import (
	"errors"

	"github.com/lamisai/legalcare-admin/internal/models"
)

// ErrPermissionDenied возвращается, когда у сотрудника нет права
// изменять статус подписки.
var ErrPermissionDenied = errors.New("policy: permission denied")

// BulkAction действие панели массовых операций.
type BulkAction string

const (
	BulkActivate   BulkAction = "activate"
	BulkDeactivate BulkAction = "deactivate"
)

// NextStatus возвращает следующий статус для одиночного переключения строки.
//
//	yes      -> no        (Deactivate)
//	no       -> yes       (Activate)
//	applied  -> accepted  (Approve)
//	accepted -> yes       (Activate)
//	rejected -> accepted  (Approve)
//
// Неизвестный статус трактуется как неактивный и активируется.
func NextStatus(current models.SubscriptionStatus) models.SubscriptionStatus {
	switch current {
	case models.StatusActive:
		return models.StatusInactive
	case models.StatusApplied:
		return models.StatusAccepted
	case models.StatusAccepted:
		return models.StatusActive
	case models.StatusRejected:
		return models.StatusAccepted
	default:
		return models.StatusActive
	}
}

// ActionLabel возвращает подпись кнопки действия для текущего статуса.
func ActionLabel(current models.SubscriptionStatus) string {
	switch current {
	case models.StatusActive:
		return "Deactivate"
	case models.StatusApplied, models.StatusRejected:
		return "Approve"
	default:
		return "Activate"
	}
}

// BulkTarget приводит массовое действие к целевому статусу. Массовые
// операции намеренно грубее одиночных: целью бывает только yes или no,
// независимо от текущих статусов выбранных строк.
func BulkTarget(action BulkAction) (models.SubscriptionStatus, error) {
	switch action {
	case BulkActivate:
		return models.StatusActive, nil
	case BulkDeactivate:
		return models.StatusInactive, nil
	default:
		return "", errors.New("policy: unknown bulk action")
	}
}

// CanMutateSubscription проверяет право сотрудника менять статус подписки.
// Супер-администратор может всегда; менеджеру нужен флаг canChangeSubscription.
// Проверка выполняется до обращения к backend API, но backend остаётся
// последней инстанцией.
func CanMutateSubscription(e models.Employee) bool {
	if e.IsSuperAdmin() {
		return true
	}
	return e.Access.CanChangeSubscription
}

// RequireMutateSubscription возвращает ErrPermissionDenied,
// если право на мутацию отсутствует.
func RequireMutateSubscription(e models.Employee) error {
	if !CanMutateSubscription(e) {
		return ErrPermissionDenied
	}
	return nil
}
