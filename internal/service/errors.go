package service

import "errors"

// Failure taxonomy. Everything here is local and recoverable; callers
// surface these to the member or admin and move on.
var (
	// ErrInvalidInput marks user-supplied fields that fail validation.
	// The operation aborts with no partial effect.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced id or email with no record.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyDecided marks an approve/reject against a request that
	// already left pending. Decisions are terminal; repeating one must
	// not re-apply its balance credit.
	ErrAlreadyDecided = errors.New("request already decided")

	// ErrEmailTaken marks a sign-up against a registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials marks a failed sign-in.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWalletUnavailable marks a connect attempt against a wallet
	// the simulation does not offer.
	ErrWalletUnavailable = errors.New("wallet unavailable")
)
