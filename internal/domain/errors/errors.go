package errors

import (
	"fmt"
)

type ErrUserNotFound struct {
	UserID int64
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("пользователь не найден: %d", e.UserID)
}

func (e *ErrUserNotFound) Is(target error) bool {
	_, ok := target.(*ErrUserNotFound)
	return ok
}

type ErrHackathonNotFound struct {
	HackathonID int64
}

func (e *ErrHackathonNotFound) Error() string {
	return fmt.Sprintf("хакатон не найден: %d", e.HackathonID)
}

func (e *ErrHackathonNotFound) Is(target error) bool {
	_, ok := target.(*ErrHackathonNotFound)
	return ok
}

type ErrAlreadyParticipating struct {
	UserID      int64
	HackathonID int64
}

func (e *ErrAlreadyParticipating) Error() string {
	return fmt.Sprintf("пользователь %d уже участвует в хакатоне %d", e.UserID, e.HackathonID)
}

func (e *ErrAlreadyParticipating) Is(target error) bool {
	_, ok := target.(*ErrAlreadyParticipating)
	return ok
}

// ErrEmptyList возникает при попытке листать, когда кэшированный список
// пуст или не был заполнен последним действием просмотра.
type ErrEmptyList struct{}

func (e *ErrEmptyList) Error() string {
	return "список для навигации пуст"
}

func (e *ErrEmptyList) Is(target error) bool {
	_, ok := target.(*ErrEmptyList)
	return ok
}

// ErrNotAwaitingProfile возникает, если текст анкеты пришёл без
// предшествующего начала создания или редактирования профиля.
type ErrNotAwaitingProfile struct {
	UserID int64
}

func (e *ErrNotAwaitingProfile) Error() string {
	return fmt.Sprintf("ввод анкеты не ожидается для пользователя %d", e.UserID)
}

func (e *ErrNotAwaitingProfile) Is(target error) bool {
	_, ok := target.(*ErrNotAwaitingProfile)
	return ok
}

type ErrUnknownDBAccessType struct {
	AccessType string
}

func (e *ErrUnknownDBAccessType) Error() string {
	return fmt.Sprintf("неизвестный тип доступа к базе данных: %s", e.AccessType)
}

type ErrBuildSQLQuery struct {
	Operation string
	Cause     error
}

func (e *ErrBuildSQLQuery) Error() string {
	return fmt.Sprintf("ошибка при построении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrBuildSQLQuery) Unwrap() error {
	return e.Cause
}

type ErrSQLExecution struct {
	Operation string
	Cause     error
}

func (e *ErrSQLExecution) Error() string {
	return fmt.Sprintf("ошибка при выполнении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrSQLExecution) Unwrap() error {
	return e.Cause
}

type ErrSQLScan struct {
	Entity string
	Cause  error
}

func (e *ErrSQLScan) Error() string {
	return fmt.Sprintf("ошибка при сканировании %s: %v", e.Entity, e.Cause)
}

func (e *ErrSQLScan) Unwrap() error {
	return e.Cause
}

// ErrMissingColumn — в импортируемом файле нет обязательной колонки.
type ErrMissingColumn struct {
	Column string
}

func (e *ErrMissingColumn) Error() string {
	return fmt.Sprintf("в файле отсутствует обязательная колонка: %s", e.Column)
}

func (e *ErrMissingColumn) Is(target error) bool {
	_, ok := target.(*ErrMissingColumn)
	return ok
}

type ErrUnknownImportPolicy struct {
	Policy string
}

func (e *ErrUnknownImportPolicy) Error() string {
	return fmt.Sprintf("неизвестная политика импорта: %s", e.Policy)
}

func (e *ErrUnknownImportPolicy) Is(target error) bool {
	_, ok := target.(*ErrUnknownImportPolicy)
	return ok
}

type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP ошибка: статус %d", e.StatusCode)
}
