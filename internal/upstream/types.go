package upstream

import "github.com/lamisai/legalcare-admin/internal/models"

// LoginRequest тело запроса POST /api/employees/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse ответ backend API на вход сотрудника.
type LoginResponse struct {
	Token    string          `json:"token"`
	Employee models.Employee `json:"employee"`
}

// RegisterRequest тело запроса POST /api/employees/register.
type RegisterRequest struct {
	UserName string        `json:"user_name"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Role     string        `json:"role"`
	Access   models.Access `json:"access"`
}

// UpdateAccessRequest тело запроса PUT /api/employees/{id}/access.
type UpdateAccessRequest struct {
	Access models.Access `json:"access"`
}

// UpdateSubscriptionRequest тело запроса PUT /api/auth0/{id}/subscription.
type UpdateSubscriptionRequest struct {
	SubscriptionStatus models.SubscriptionStatus `json:"subscription_status"`
}
