// Package upstream реализует клиент backend API LegalCare.
//
// Консоль не владеет данными пользователей и сотрудников: все мутации
// и чтения проходят через этот клиент. Ответ 401 в любом методе
// транслируется в ErrUnauthorized — сигнал для слоя сессий уничтожить
// сессию без повторных попыток.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lamisai/legalcare-admin/internal/models"
)

// ErrUnauthorized возвращается, когда backend API отвечает 401.
var ErrUnauthorized = errors.New("upstream: unauthorized")

// Client клиент backend API.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент backend API.
func NewClient(apiURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.New("unexpected status: " + resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login выполняет вход сотрудника и возвращает bearer-токен
// вместе с учётной записью.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	const op = "upstream.Login"
	req, err := c.newRequest(ctx, http.MethodPost, "/api/employees/login", "", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var loginResp LoginResponse
	if err := c.do(req, &loginResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &loginResp, nil
}

// RegisterEmployee создаёт нового сотрудника с ролью manager.
func (c *Client) RegisterEmployee(ctx context.Context, token string, reqParams RegisterRequest) (*models.Employee, error) {
	const op = "upstream.RegisterEmployee"
	req, err := c.newRequest(ctx, http.MethodPost, "/api/employees/register", token, reqParams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var employee models.Employee
	if err := c.do(req, &employee); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &employee, nil
}

// ListEmployees возвращает всех сотрудников.
func (c *Client) ListEmployees(ctx context.Context, token string) ([]models.Employee, error) {
	const op = "upstream.ListEmployees"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/employees/all", token, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var employees []models.Employee
	if err := c.do(req, &employees); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return employees, nil
}

// UpdateEmployeeAccess переключает флаг canChangeSubscription сотрудника.
func (c *Client) UpdateEmployeeAccess(ctx context.Context, token, id string, canChangeSubscription bool) (*models.Employee, error) {
	const op = "upstream.UpdateEmployeeAccess"
	req, err := c.newRequest(ctx, http.MethodPut, "/api/employees/"+id+"/access", token, UpdateAccessRequest{
		Access: models.Access{CanChangeSubscription: canChangeSubscription},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var employee models.Employee
	if err := c.do(req, &employee); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &employee, nil
}

// ListUsers возвращает всех пользователей сервиса.
func (c *Client) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	const op = "upstream.ListUsers"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/auth0/all", token, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var users []models.User
	if err := c.do(req, &users); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// UpdateSubscription устанавливает статус подписки пользователя.
func (c *Client) UpdateSubscription(ctx context.Context, token, id string, status models.SubscriptionStatus) (*models.User, error) {
	const op = "upstream.UpdateSubscription"
	req, err := c.newRequest(ctx, http.MethodPut, "/api/auth0/"+id+"/subscription", token, UpdateSubscriptionRequest{
		SubscriptionStatus: status,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var user models.User
	if err := c.do(req, &user); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}
