package listview

import "github.com/lamisai/legalcare-admin/internal/models"

// Users возвращает контроллер таблицы пользователей: поиск по имени
// и email, фильтр по статусу подписки.
func Users() *Controller[models.User] {
	return New(DefaultPageSize,
		func(u models.User) string { return u.ID },
		func(u models.User) []string { return []string{u.UserName, u.Email} },
		func(u models.User) string { return string(u.SubscriptionStatus) },
	)
}

// Employees возвращает контроллер таблицы менеджеров: поиск по имени
// и email, без фильтра по статусу.
func Employees() *Controller[models.Employee] {
	return New(DefaultPageSize,
		func(e models.Employee) string { return e.ID },
		func(e models.Employee) []string { return []string{e.UserName, e.Email} },
		nil,
	)
}
