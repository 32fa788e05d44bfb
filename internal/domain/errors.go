package domain

import "errors"

var (
	// Drawer errors
	ErrDrawerNotFound      = errors.New("cash drawer not found")
	ErrDrawerInactive      = errors.New("cash drawer is inactive")
	ErrInsufficientBalance = errors.New("insufficient drawer balance")

	// Currency errors
	ErrCurrencyNotFound = errors.New("currency not found")
	ErrCurrencyInactive = errors.New("currency is inactive")

	// Shift errors
	ErrShiftNotFound      = errors.New("shift not found")
	ErrShiftNotActive     = errors.New("shift is not active")
	ErrShiftAlreadyActive = errors.New("employee already has an active shift")
	ErrTargetShiftActive  = errors.New("target employee already has an active shift")
	ErrEmployeeNotFound   = errors.New("employee not found")

	// Input errors
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidEntryKind = errors.New("unknown ledger entry kind")
	ErrMissingReason    = errors.New("reason is required")

	// Access errors
	ErrForbidden = errors.New("actor is not allowed to perform this operation")
)
