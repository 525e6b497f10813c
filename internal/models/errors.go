package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyAttempted indicates the refund guard on a ledger entry was
	// already set when a flow tried to set it
	ErrAlreadyAttempted = errors.New("refund already attempted")

	// ErrDuplicateSubscription indicates the owner already holds an active
	// subscription to the product
	ErrDuplicateSubscription = errors.New("duplicate subscription")
)
