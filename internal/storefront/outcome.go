package storefront

import (
	"errors"
	"fmt"
)

// ErrAuthRequired signals absence or invalidation of the session.
// Whenever an operation returns it, the stored token has just been cleared
// or was never there; the caller's correct response is re-authentication.
var ErrAuthRequired = errors.New("storefront: authentication required")

// RejectReason is the closed set of server-understood refusals.
type RejectReason string

const (
	ReasonOutOfStock         RejectReason = "out_of_stock"
	ReasonProductNotFound    RejectReason = "product_not_found"
	ReasonEmptyCart          RejectReason = "empty_cart"
	ReasonInvalidCoupon      RejectReason = "invalid_coupon"
	ReasonInvalidCredentials RejectReason = "invalid_credentials"
	ReasonUsernameTaken      RejectReason = "username_taken"
	ReasonEmailRegistered    RejectReason = "email_registered"
	ReasonUnknown            RejectReason = "unknown"
)

// Rejection is a business refusal: the server processed the request and
// declined it. Message carries the server's own wording for display.
type Rejection struct {
	Reason  RejectReason
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("storefront: rejected (%s): %s", r.Reason, r.Message)
}

// NetworkError is a transport failure with no server opinion: connection
// refused, timeout, context cancellation, or an undecodable payload.
// State is unchanged and the operation is safe to retry.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "storefront: network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError is a client-detected malformed input, caught before any
// network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "storefront: validation: " + e.Message
}

// IsAuthRequired reports whether err is the auth-required outcome.
func IsAuthRequired(err error) bool {
	return errors.Is(err, ErrAuthRequired)
}

// AsRejection extracts a business rejection from err, if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	var n *NetworkError
	return errors.As(err, &n)
}
