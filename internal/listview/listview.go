// Package listview реализует управление состоянием таблицы консоли:
// поиск, фильтр по статусу, пагинацию и набор выбранных строк.
//
// Один параметризованный контроллер заменяет три почти одинаковых
// экземпляра этой логики в исходных дашбордах. Контроллер не владеет
// данными: коллекция приходит из backend API, состояние — из сессии.
package listview

import (
	"math"
	"strings"

	"github.com/lamisai/legalcare-admin/internal/models"
)

// DefaultPageSize размер страницы таблиц консоли.
const DefaultPageSize = 10

// FilterAll значение фильтра, пропускающее любой статус.
const FilterAll = "all"

// CheckState состояние общего чекбокса страницы.
type CheckState string

const (
	// CheckNone ни одна строка страницы не выбрана.
	CheckNone CheckState = "none"
	// CheckSome выбрана часть строк страницы (indeterminate у чекбокса).
	CheckSome CheckState = "some"
	// CheckAll выбраны все строки страницы.
	CheckAll CheckState = "all"
)

// Controller параметризованный контроллер таблицы. Экземпляр создаётся
// на тип сущности ("users", "managers") и переиспользуется между запросами:
// всё изменяемое состояние живёт в models.TableState.
type Controller[E any] struct {
	id       func(E) string
	fields   func(E) []string
	status   func(E) string
	pageSize int
}

// New создаёт контроллер. id возвращает идентификатор строки, fields —
// поля для поиска подстрокой, status — значение для фильтра по статусу
// (nil, если у сущности фильтра нет).
func New[E any](pageSize int, id func(E) string, fields func(E) []string, status func(E) string) *Controller[E] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Controller[E]{
		id:       id,
		fields:   fields,
		status:   status,
		pageSize: pageSize,
	}
}

// View результат применения состояния таблицы к коллекции.
type View[E any] struct {
	Items          []E        `json:"items"`
	Page           int        `json:"page"`
	TotalPages     int        `json:"total_pages"`
	FilteredCount  int        `json:"filtered_count"`
	SelectedCount  int        `json:"selected_count"`
	SelectedOnPage int        `json:"selected_on_page"`
	PageCheck      CheckState `json:"page_check"`
}

// SetSearch устанавливает строку поиска и сбрасывает страницу на 1.
func (c *Controller[E]) SetSearch(st *models.TableState, search string) {
	if st.Search == search {
		return
	}
	st.Search = search
	st.Page = 1
}

// SetFilter устанавливает фильтр по статусу и сбрасывает страницу на 1.
func (c *Controller[E]) SetFilter(st *models.TableState, filter string) {
	if st.Filter == filter {
		return
	}
	st.Filter = filter
	st.Page = 1
}

// SetPage устанавливает текущую страницу. Значения меньше 1 приводятся к 1;
// верхняя граница выравнивается при построении View.
func (c *Controller[E]) SetPage(st *models.TableState, page int) {
	if page < 1 {
		page = 1
	}
	st.Page = page
}

func (c *Controller[E]) matches(item E, st models.TableState) bool {
	if st.Filter != "" && st.Filter != FilterAll && c.status != nil {
		if c.status(item) != st.Filter {
			return false
		}
	}
	if st.Search == "" {
		return true
	}
	search := strings.ToLower(st.Search)
	for _, f := range c.fields(item) {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// Filtered возвращает строки коллекции, проходящие поиск и фильтр.
func (c *Controller[E]) Filtered(items []E, st models.TableState) []E {
	filtered := make([]E, 0, len(items))
	for _, item := range items {
		if c.matches(item, st) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// TotalPages возвращает число страниц для filteredCount строк, минимум 1.
func (c *Controller[E]) TotalPages(filteredCount int) int {
	pages := int(math.Ceil(float64(filteredCount) / float64(c.pageSize)))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// BuildView применяет состояние таблицы к коллекции: фильтрует, выравнивает
// страницу в диапазон и возвращает срез страницы вместе со сводкой выбора.
func (c *Controller[E]) BuildView(items []E, st models.TableState) View[E] {
	filtered := c.Filtered(items, st)
	totalPages := c.TotalPages(len(filtered))

	page := st.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * c.pageSize
	end := start + c.pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	pageItems := filtered[start:end]

	selectedOnPage := 0
	for _, item := range pageItems {
		if st.Selected[c.id(item)] {
			selectedOnPage++
		}
	}

	check := CheckNone
	switch {
	case len(pageItems) > 0 && selectedOnPage == len(pageItems):
		check = CheckAll
	case selectedOnPage > 0:
		check = CheckSome
	}

	return View[E]{
		Items:          pageItems,
		Page:           page,
		TotalPages:     totalPages,
		FilteredCount:  len(filtered),
		SelectedCount:  len(st.Selected),
		SelectedOnPage: selectedOnPage,
		PageCheck:      check,
	}
}

// ToggleSelect переключает выбор одной строки.
func (c *Controller[E]) ToggleSelect(st *models.TableState, id string) {
	if st.Selected == nil {
		st.Selected = make(map[string]bool)
	}
	if st.Selected[id] {
		delete(st.Selected, id)
	} else {
		st.Selected[id] = true
	}
}

// TogglePage добавляет или убирает из выбора ровно строки текущей страницы.
// Выбор на других страницах не затрагивается.
func (c *Controller[E]) TogglePage(st *models.TableState, items []E, checked bool) {
	if st.Selected == nil {
		st.Selected = make(map[string]bool)
	}
	view := c.BuildView(items, *st)
	for _, item := range view.Items {
		id := c.id(item)
		if checked {
			st.Selected[id] = true
		} else {
			delete(st.Selected, id)
		}
	}
}

// SelectAllFiltered заменяет набор выбранных всеми строками,
// проходящими текущий поиск и фильтр.
func (c *Controller[E]) SelectAllFiltered(st *models.TableState, items []E) {
	selected := make(map[string]bool)
	for _, item := range c.Filtered(items, *st) {
		selected[c.id(item)] = true
	}
	st.Selected = selected
}

// ClearSelection очищает набор выбранных.
func (c *Controller[E]) ClearSelection(st *models.TableState) {
	st.Selected = make(map[string]bool)
}

// SelectedIDs возвращает выбранные идентификаторы.
// Идентификаторы строк, выпавших из коллекции после обновления или смены
// фильтра, из набора не вычищаются — поведение исходной консоли сохранено.
func (c *Controller[E]) SelectedIDs(st models.TableState) []string {
	ids := make([]string, 0, len(st.Selected))
	for id := range st.Selected {
		ids = append(ids, id)
	}
	return ids
}
