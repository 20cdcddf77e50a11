package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrUnknown        = errors.New("unknown error")

	ErrValidation        = errors.New("validation error")
	ErrInsufficientFunds = errors.New("insufficient wallet funds")
	ErrSignatureMismatch = errors.New("gateway signature mismatch")

	// ErrDeletionNotAllowed возвращается при попытке удалить заказ, не
	// попадающий под правила удаления (отмененный либо завершенный старше
	// окна хранения).
	ErrDeletionNotAllowed = errors.New("order deletion not allowed")
)

// InvalidTransitionError - запрещенный переход статуса заказа. Заказ при этом
// остается без изменений.
type InvalidTransitionError struct {
	From OrderStatusType
	To   OrderStatusType
}

func NewInvalidTransitionError(from, to OrderStatusType) error {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition %s -> %s", e.From, e.To)
}
