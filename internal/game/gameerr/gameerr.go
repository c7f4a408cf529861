// Package gameerr defines the rejection taxonomy shared by every simulation
// command. A rejected command leaves all state untouched and returns one of
// these sentinels wrapped with a human-readable reason.
package gameerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientFunds is returned when the wallet cannot cover a purchase.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientStock is returned when the pool, a rank, the recruit
	// counter, or a stockpile cannot supply the requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInsufficientEquipment is returned when weapons, armor or horses are short.
	ErrInsufficientEquipment = errors.New("insufficient equipment")
	// ErrInvalidConversionSource is returned when a soldier type is not on the
	// allowed edge of the conversion graph.
	ErrInvalidConversionSource = errors.New("invalid conversion source")
	// ErrQueueFull is returned when every batch or training slot is in use.
	ErrQueueFull = errors.New("queue full")
	// ErrBatchSizeOutOfRange is returned when a batch quantity is outside 1-50.
	ErrBatchSizeOutOfRange = errors.New("batch size out of range")
	// ErrTypeMismatch is returned when merging units of different soldier types.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrUnknownCatalogEntry is returned when an id is not registered.
	ErrUnknownCatalogEntry = errors.New("unknown catalog entry")

	// ErrBuildingRequired is returned when a command needs a building the player does not own.
	ErrBuildingRequired = errors.New("building required")
	// ErrAlreadyOwned is returned when buying a building type that is already owned.
	ErrAlreadyOwned = errors.New("already owned")
	// ErrMaxLevel is returned when upgrading a barracks that is already at level 5.
	ErrMaxLevel = errors.New("max level reached")
	// ErrInvalidArgument is returned for malformed quantities, percentages and plans.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned when a unit or building id does not exist.
	ErrNotFound = errors.New("not found")
)

var all = []error{
	ErrInsufficientFunds,
	ErrInsufficientStock,
	ErrInsufficientEquipment,
	ErrInvalidConversionSource,
	ErrQueueFull,
	ErrBatchSizeOutOfRange,
	ErrTypeMismatch,
	ErrUnknownCatalogEntry,
	ErrBuildingRequired,
	ErrAlreadyOwned,
	ErrMaxLevel,
	ErrInvalidArgument,
	ErrNotFound,
}

// Rejectf wraps sentinel with a formatted reason.
//
// Postcondition: errors.Is(result, sentinel) is true.
func Rejectf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// IsRejection reports whether err is a recoverable command rejection.
func IsRejection(err error) bool {
	for _, s := range all {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}

// Reason returns the display string for err, or "" when err is nil.
// Errors that are not rejections are prefixed with "internal error: ".
func Reason(err error) string {
	if err == nil {
		return ""
	}
	if IsRejection(err) {
		return err.Error()
	}
	return "internal error: " + err.Error()
}
