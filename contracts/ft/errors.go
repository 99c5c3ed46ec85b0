package ft

import "errors"

var (
	// ErrAlreadyInitialized is returned on repeated initialization.
	ErrAlreadyInitialized = errors.New("already initialized")
	// ErrNotInitialized is returned on calls to the contract without state.
	ErrNotInitialized = errors.New("the contract is not initialized")
	// ErrInvalidMetadata is returned when token metadata fails validation.
	ErrInvalidMetadata = errors.New("invalid metadata")
	// ErrInvalidAccountID is returned for account identifiers of unsupported
	// length.
	ErrInvalidAccountID = errors.New("invalid account ID")

	// ErrAccountNotRegistered is returned when an operation requires
	// a registered account.
	ErrAccountNotRegistered = errors.New("account is not registered")
	// ErrAccountNotFound is returned on unregistering a missing account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrNonZeroBalance is returned on unforced unregistering of an account
	// with positive balance.
	ErrNonZeroBalance = errors.New("can't unregister the account with the positive balance without force")

	// ErrSelfTransfer is returned when sender and receiver are the same.
	ErrSelfTransfer = errors.New("sender and receiver should be different")
	// ErrZeroAmount is returned for zero transfer and burn amounts.
	ErrZeroAmount = errors.New("the amount should be a positive number")
	// ErrInsufficientBalance is returned when the account doesn't have
	// enough tokens.
	ErrInsufficientBalance = errors.New("the account doesn't have enough balance")
	// ErrBalanceOverflow is returned when a balance or the total supply
	// exceeds 2^128-1.
	ErrBalanceOverflow = errors.New("balance overflow")

	// ErrInsufficientAttachedPayment is returned when a method requiring at
	// least one unit attached is called without it.
	ErrInsufficientAttachedPayment = errors.New("requires attached deposit of at least 1 unit")
	// ErrInsufficientStoragePayment is returned when the attached deposit
	// doesn't cover storage growth caused by the call.
	ErrInsufficientStoragePayment = errors.New("insufficient deposit to cover storage")
	// ErrDepositOutOfBounds is returned when registration deposit is less
	// than the minimum storage balance.
	ErrDepositOutOfBounds = errors.New("the attached deposit is out of storage balance bounds")
	// ErrInsufficientStorageBalance is returned on withdrawal of more than
	// the available storage balance.
	ErrInsufficientStorageBalance = errors.New("the amount is greater than the available storage balance")

	// ErrNotOwner is returned when an owner-only method is called by
	// another account.
	ErrNotOwner = errors.New("the method can be called by the owner only")
)
