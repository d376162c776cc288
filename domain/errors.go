package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")

	// marketplace precondition errors, rejected before any state change
	ErrApprovalRequired = errors.New("marketplace is not approved to transfer the asset")
	ErrAlreadyListed    = errors.New("asset already has an open listing")
	ErrListingNotOpen   = errors.New("listing is not open")
	ErrWrongPrice       = errors.New("payment amount does not match listing price")
	ErrNotSeller        = errors.New("caller is not the listing seller")

	// ErrSettlementFailed covers any transfer failure during buy settlement.
	// The listing must be restored to open before this is returned.
	ErrSettlementFailed = errors.New("settlement failed")

	// ErrDuplicateId guards against listing id generator bugs. Unreachable
	// when id allocation is correct.
	ErrDuplicateId = errors.New("duplicate listing id")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("invalid signature")
)
