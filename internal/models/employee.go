package models

import "time"

// Роли сотрудников, приходящие из backend API.
const (
	RoleManager    = "manager"
	RoleSuperAdmin = "superadmin"
)

// Access описывает права доступа сотрудника.
type Access struct {
	CanChangeSubscription bool `json:"canChangeSubscription"`
}

// Employee представляет сотрудника (менеджера или супер-администратора).
// Создаётся через действие "add manager"; флаг доступа переключает супер-администратор.
type Employee struct {
	ID        string     `json:"_id"`
	UserName  string     `json:"user_name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Access    Access     `json:"access"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// IsSuperAdmin сообщает, является ли сотрудник супер-администратором.
func (e Employee) IsSuperAdmin() bool {
	return e.Role == RoleSuperAdmin
}

// CreateManagerRequest используется для приёма данных формы "add manager"
// до их валидации и отправки в backend API.
type CreateManagerRequest struct {
	UserName string `json:"user_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest используется для приёма учётных данных из JSON-запроса.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
