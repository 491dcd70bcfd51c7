package service

import "net/http"

// PointError is a rejected request. Code is stable and safe to expose to clients.
type PointError struct {
	Code    string
	Status  int
	Message string
}

func (e *PointError) Error() string { return e.Message }

var (
	// ErrUserNotFound means the id has no balance record.
	ErrUserNotFound = &PointError{Code: "USER_ID_NOT_EXIST", Status: http.StatusBadRequest, Message: "user id does not exist"}
	// ErrInvalidAmount means a negative charge or use amount.
	ErrInvalidAmount = &PointError{Code: "INVALID_AMOUNT", Status: http.StatusBadRequest, Message: "amount must not be negative"}
	// ErrAmountExceedsLimit means a charge above MaxChargeAmount.
	ErrAmountExceedsLimit = &PointError{Code: "AMOUNT_EXCEEDS_LIMIT", Status: http.StatusBadRequest, Message: "charge amount exceeds the limit"}
	// ErrInsufficientBalance means the use amount is more than the balance, or there is no balance at all.
	ErrInsufficientBalance = &PointError{Code: "INSUFFICIENT_BALANCE", Status: http.StatusBadRequest, Message: "balance is less than the use amount"}
)
