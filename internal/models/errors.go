package models

import (
	"errors"
	"fmt"
)

// Error classes. Per-pair classes are logged and skip the pair; only
// ErrPersistence after a fill and top-level provider failures escalate.
var (
	ErrDataUnavailable     = errors.New("price history unavailable")
	ErrEstimation          = errors.New("hedge ratio estimation failed")
	ErrConstraintViolation = errors.New("exchange constraint violated")
	ErrExecution           = errors.New("order execution failed")
	ErrPersistence         = errors.New("ledger persistence failed")
)

func DataUnavailablef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrDataUnavailable}, args...)...)
}

func Estimationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrEstimation}, args...)...)
}

func ConstraintViolationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConstraintViolation}, args...)...)
}

func Executionf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrExecution}, args...)...)
}

func Persistencef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrPersistence}, args...)...)
}

// SkippablePair reports whether err only disqualifies one pair for this run.
func SkippablePair(err error) bool {
	return errors.Is(err, ErrDataUnavailable) ||
		errors.Is(err, ErrEstimation) ||
		errors.Is(err, ErrConstraintViolation) ||
		errors.Is(err, ErrExecution)
}
