package character

import "errors"

// Business-rule errors. Persistence errors are returned unwrapped from dal.
var (
	ErrCharacterNotFound          = errors.New("character not found")
	ErrItemNotFound               = errors.New("item not found")
	ErrRecordNotFound             = errors.New("record not found")
	ErrNotEligibleForBreakthrough = errors.New("not eligible for breakthrough")
	ErrBreakthroughInProgress     = errors.New("breakthrough already in progress")
	ErrResourceCapExceeded        = errors.New("resource cap exceeded")
	ErrInvalidResourceType        = errors.New("invalid resource type")
	ErrInvalidStateTransition     = errors.New("invalid cultivation state transition")
	ErrInvalidSearchMode          = errors.New("invalid search mode")
	ErrInvalidSearchTerm          = errors.New("invalid search term")
	ErrInvalidQuantity            = errors.New("invalid quantity")
	ErrInvalidRealmLevel          = errors.New("realm level out of range")
	ErrDeleteNotApplied           = errors.New("character still present after delete")
	ErrNegativeValue              = errors.New("value must not be negative")
	ErrCultivationAboveLimit      = errors.New("cultivation value above limit")
	ErrConcurrentUpdate           = errors.New("character modified concurrently")
)
