package service

import "fmt"

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeUserNotFound         = "user_not_found"
	ErrCodeProductNotFound      = "product_not_found"
	ErrCodePromoNotFound        = "promo_not_found"
	ErrCodePromoExpired         = "promo_expired"
	ErrCodeTransactionNotFound  = "transaction_not_found"
	ErrCodeSubscriptionNotFound = "subscription_not_found"
	ErrCodeAlreadySubscribed    = "already_subscribed"
	ErrCodeUnauthorized         = "unauthorized"
	ErrCodePaymentTimeout       = "payment_timeout"
	ErrCodeInsufficientFunds    = "insufficient_funds"
	ErrCodeRefundIneligible     = "refund_ineligible"
	ErrCodeInternalError        = "internal_error"
)
