package invoice

import "errors"

// 领域错误，调用方通过 errors.Is 判断。
var (
	ErrInvalidRegistrationNumber = errors.New("invalid registration number")
	ErrInvalidPostalCode         = errors.New("invalid postal code")
	ErrInvalidTime               = errors.New("invalid time")
	ErrInvalidVariableSymbol     = errors.New("invalid variable symbol")
	ErrDueBeforeIssue            = errors.New("due date before issue date")
	ErrMissingIBAN               = errors.New("bank transfer requires an IBAN")
	ErrMissingParty              = errors.New("missing contractor or client")
	ErrMissingPayment            = errors.New("missing payment method")
	ErrMissingItemKind           = errors.New("item without kind")
)
