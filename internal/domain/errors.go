package domain

import "errors"

// Business-rule failures returned to callers as values; handlers map them to
// HTTP statuses. Anything else coming out of a repository is a storage fault.
var (
	ErrNotFound         = errors.New("record not found")
	ErrForbidden        = errors.New("not allowed")
	ErrInvalidState     = errors.New("invalid state for this operation")
	ErrAlreadyRedeemed  = errors.New("referral code already redeemed by this user")
	ErrExhaustedRetries = errors.New("could not generate a unique referral code")
)
