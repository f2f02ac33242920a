package errors

import (
	"fmt"
	"strings"
	"sync"
)

// SchemaError reports a table that lacks required columns.
type SchemaError struct {
	Table    string
	Missing  []string
	Required []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %q is missing columns: %s", e.Table, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) toError() *Error {
	out := Wrap(e, ErrSchema.Code, ErrSchema.Status,
		fmt.Sprintf("в таблице %q отсутствуют обязательные колонки: %s", e.Table, strings.Join(e.Missing, ", ")))
	out.Details = map[string]interface{}{
		"table":           e.Table,
		"missingColumns":  e.Missing,
		"requiredColumns": e.Required,
	}
	return out
}

// ReferenceNotFoundError reports a reference file that does not exist.
type ReferenceNotFoundError struct {
	Name string
	Path string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("reference %s not found at %s", e.Name, e.Path)
}

func (e *ReferenceNotFoundError) toError() *Error {
	out := Wrap(e, ErrReferenceNotFound.Code, ErrReferenceNotFound.Status,
		fmt.Sprintf("справочник %q не найден: поместите файл %s и повторите сравнение", e.Name, e.Path))
	out.Details = map[string]interface{}{
		"reference": e.Name,
		"path":      e.Path,
	}
	return out
}

// ParseError reports an input that could not be decoded.
type ParseError struct {
	Table  string
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("parse %s: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("parse %s.%s: %s", e.Table, e.Field, e.Reason)
}

func (e *ParseError) toError() *Error {
	out := Wrap(e, ErrParse.Code, ErrParse.Status, fmt.Sprintf("не удалось прочитать %q: %s", e.Table, e.Reason))
	details := map[string]interface{}{"table": e.Table, "checklist": Checklist()}
	if e.Field != "" {
		details["field"] = e.Field
	}
	out.Details = details
	return out
}

var (
	checklistMu sync.RWMutex
	checklist   = []string{
		"оба файла содержат лист «Отчет»",
		"шапка таблицы начинается после 4 служебных строк",
		"в файлах есть колонки: Скважина, Состояние, Категория, Способ эксплуатации, Причина простоя",
		"справочники структуры, устройств и дат ввода доступны и содержат нужные колонки",
	}
)

// Checklist returns the input preconditions shown alongside unexpected failures.
func Checklist() []string {
	checklistMu.RLock()
	defer checklistMu.RUnlock()
	out := make([]string, len(checklist))
	copy(out, checklist)
	return out
}

// SetChecklist replaces the preconditions, typically with configured sheet and column names.
func SetChecklist(items []string) {
	if len(items) == 0 {
		return
	}
	checklistMu.Lock()
	defer checklistMu.Unlock()
	checklist = append([]string(nil), items...)
}
