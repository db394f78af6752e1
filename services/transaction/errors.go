package transaction

import "errors"

var (
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrInvalidTransactionID = errors.New("transaction id must be a UUID")
	ErrUnknownStatus        = errors.New("unknown transaction status")

	ErrProcessorTimeout     = errors.New("processor did not answer in time")
	ErrProcessorGateway     = errors.New("processor gateway timeout")
	ErrProcessorRateLimited = errors.New("processor rate limit reached")
	ErrProcessorFailure     = errors.New("processor call failed")

	ErrNotificationFailed = errors.New("client notification failed")
)
