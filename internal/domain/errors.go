package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidTTL      = errors.New("invalid TTL")
	ErrInvalidType     = errors.New("unsupported record type")
	ErrInvalidRData    = errors.New("invalid record data")
	ErrNotInZone       = errors.New("name not within zone")
	ErrCNAMEExclusive  = errors.New("CNAME conflicts with other records at the same name")
	ErrConflict        = errors.New("conflicting declarations")
	ErrRequired        = errors.New("required field missing")
	ErrConfigNotLoaded = errors.New("config not loaded")

	ErrTransferAuth      = errors.New("zone transfer authentication rejected")
	ErrTransferRefused   = errors.New("zone transfer refused")
	ErrTransferTransport = errors.New("zone transfer transport failure")
	ErrTransferMalformed = errors.New("zone transfer response malformed")

	ErrUpdateAuth      = errors.New("dynamic update authentication rejected")
	ErrUpdateRefused   = errors.New("dynamic update refused")
	ErrUpdateTransport = errors.New("dynamic update transport failure")
	ErrApplyPartial    = errors.New("apply partially completed")

	ErrRenderFailed     = errors.New("zone file render failed")
	ErrZoneValidation   = errors.New("zone file validation failed")
	ErrReloadSignal     = errors.New("zone reload signal failed")
	ErrRemovalGuard     = errors.New("removal ratio exceeds safety threshold")
	ErrStrategyConflict = errors.New("exactly one apply strategy must be selected")

	ErrConfigReadFailed  = errors.New("config read failed")
	ErrConfigParseFailed = errors.New("config parse failed")
	ErrStateWriteFailed  = errors.New("zone file write failed")
)

func RequiredField(field string) error {
	return fmt.Errorf("%w: %s", ErrRequired, field)
}

func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

func WrapRecord(name, rtype string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s/%s: %w", name, rtype, err)
}

type OpError struct {
	Op    string
	Cause error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *OpError) Unwrap() error {
	return e.Cause
}

func NewOpError(op string, cause error) error {
	return &OpError{Op: op, Cause: cause}
}
