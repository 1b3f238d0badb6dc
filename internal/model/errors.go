package model

import "errors"

// Доменные ошибки. Всё остальное считается временным сбоем хранилища
// и отдаётся вызывающему без обёртки в доменную категорию.
var (
	ErrValidation       = errors.New("validation failed")
	ErrOverlap          = errors.New("slot overlaps an existing active slot")
	ErrSlotUnavailable  = errors.New("slot is not available")
	ErrSelfBooking      = errors.New("student cannot book own tutoring")
	ErrTagMismatch      = errors.New("tutor does not offer this tag")
	ErrPermissionDenied = errors.New("messaging is not allowed between these users")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyStarted   = errors.New("session already started")
	ErrNotStarted       = errors.New("session has not been started")
	ErrEmptyContent     = errors.New("message content is empty")
)

// IsDomainError проверяет относится ли ошибка к доменной таксономии
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrValidation,
		ErrOverlap,
		ErrSlotUnavailable,
		ErrSelfBooking,
		ErrTagMismatch,
		ErrPermissionDenied,
		ErrNotFound,
		ErrAlreadyStarted,
		ErrNotStarted,
		ErrEmptyContent,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
