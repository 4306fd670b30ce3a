package service

import (
	"errors"
	"fmt"

	"go-storefront/pkg/validator"

	"gorm.io/gorm"
)

// Error kinds. Every service error wraps exactly one of them so the HTTP layer
// can choose a status code.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a service error of a given kind with a client facing message.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Msg == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func invalidf(format string, args ...interface{}) error {
	return newError(ErrInvalidInput, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...interface{}) error {
	return newError(ErrConflict, fmt.Sprintf(format, args...))
}

// wrapKind tags cause with kind, keeping its message.
func wrapKind(kind, cause error) error {
	return &Error{Kind: kind, Cause: cause}
}

var (
	ErrProductNotFound   = newError(ErrNotFound, "product not found")
	ErrWarehouseNotFound = newError(ErrNotFound, "warehouse not found")
	ErrPurchaseNotFound  = newError(ErrNotFound, "purchase not found")
	ErrOrderNotFound     = newError(ErrNotFound, "order not found")
	ErrCustomerNotFound  = newError(ErrNotFound, "customer not found")
	ErrSupplierNotFound  = newError(ErrNotFound, "supplier not found")
	ErrUserNotFound      = newError(ErrNotFound, "user not found")
	ErrRoleNotFound      = newError(ErrNotFound, "role not found")

	ErrDuplicateSKU       = newError(ErrConflict, "SKU already exists")
	ErrDuplicateCode      = newError(ErrConflict, "code already exists")
	ErrEmailExists        = newError(ErrConflict, "email already exists")
	ErrNegativeStock      = newError(ErrConflict, "stock cannot go below zero")
	ErrAlreadyReceived    = newError(ErrConflict, "purchase has already been received")
	ErrAlreadyPaid        = newError(ErrConflict, "purchase has already been paid")
	ErrInvalidTransition  = newError(ErrConflict, "order status transition is not allowed")
	ErrWarehouseNotEmpty  = newError(ErrConflict, "warehouse still holds stock")
	ErrNoWarehouse        = newError(ErrInvalidInput, "no warehouse configured")
	ErrProductInactive    = newError(ErrInvalidInput, "product is not available")
	ErrInsufficientCash   = newError(ErrInvalidInput, "amount tendered is less than total")
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid email or password")
	ErrUserInactive       = newError(ErrUnauthorized, "user account is inactive")
	ErrSessionReplaced    = newError(ErrUnauthorized, "session expired (logged in on another device)")
	ErrWrongPassword      = newError(ErrInvalidInput, "current password is incorrect")
)

// validate runs struct validation and reports failures as invalid input.
func validate(req interface{}) error {
	if err := validator.Check(req); err != nil {
		return wrapKind(ErrInvalidInput, err)
	}
	return nil
}

// notFound maps a missing record onto the given sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
