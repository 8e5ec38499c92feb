package models

import "time"

// Области таблиц, для которых хранится состояние отображения.
const (
	TableUsers    = "users"
	TableManagers = "managers"
)

// TableState хранит состояние одной таблицы консоли: строку поиска,
// фильтр по статусу, текущую страницу и набор отмеченных идентификаторов.
// Сбрасывается при выходе из сессии; страница сбрасывается на 1
// при любом изменении поиска или фильтра.
type TableState struct {
	Search   string          `json:"search"`
	Filter   string          `json:"filter"`
	Page     int             `json:"page"`
	Selected map[string]bool `json:"selected"`
}

// NewTableState возвращает состояние таблицы по умолчанию: без поиска,
// фильтр "all", первая страница, пустой набор выбранных.
func NewTableState() TableState {
	return TableState{
		Filter:   "all",
		Page:     1,
		Selected: make(map[string]bool),
	}
}

// Session хранит авторизационное состояние одного входа в консоль:
// bearer-токен backend API, снимок учётной записи сотрудника и
// состояние таблиц по областям. Создаётся при логине, уничтожается
// при логауте или при ответе 401 от backend API.
type Session struct {
	ID            string                `json:"id"`
	UpstreamToken string                `json:"upstream_token"`
	Employee      Employee              `json:"employee"`
	Tables        map[string]TableState `json:"tables"`
	CreatedAt     time.Time             `json:"created_at"`
}

// Table возвращает состояние таблицы для области scope,
// создавая его при первом обращении.
func (s *Session) Table(scope string) TableState {
	if s.Tables == nil {
		s.Tables = make(map[string]TableState)
	}
	st, ok := s.Tables[scope]
	if !ok {
		st = NewTableState()
		s.Tables[scope] = st
	}
	return st
}

// SetTable сохраняет состояние таблицы для области scope.
func (s *Session) SetTable(scope string, st TableState) {
	if s.Tables == nil {
		s.Tables = make(map[string]TableState)
	}
	s.Tables[scope] = st
}
