package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every structured error in this package unwraps to one of them,
// so callers classify failures with errors.Is.
var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrValueIsInvalid     = errors.New("value is invalid")
	ErrValueIsOutOfRange  = errors.New("value is out of range")
	ErrValueIsRequired    = errors.New("value is required")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateID        = errors.New("duplicate id")
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrPlacementViolation = errors.New("placement violation")
)

// ObjectNotFoundError reports a lookup by identifier that found nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without a cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, sanitize(e.ParamName), sanitize(fmt.Sprintf("%s", e.ID)), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(fmt.Sprintf("%s", e.ID)))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a parameter whose value breaks a domain rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without a cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, sanitize(e.ParamName), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, sanitize(e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without a cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return sanitize(msg)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing mandatory parameter.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without a cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, sanitize(e.ParamName), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, sanitize(e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValidationError carries every message produced by validating one entity field set.
type ValidationError struct {
	Entity   string
	Messages []string
}

// NewValidationError creates a ValidationError for entity with the given messages.
func NewValidationError(entity string, messages []string) *ValidationError {
	out := make([]string, len(messages))
	copy(out, messages)
	return &ValidationError{Entity: entity, Messages: out}
}

func (e *ValidationError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s: %s", ErrValidation, e.Entity, strings.Join(e.Messages, "; ")))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// DuplicateIDError is a ValidationError raised when an identifier is already registered.
// It matches both ErrDuplicateID and ErrValidation.
type DuplicateIDError struct {
	Entity string
	ID     string
}

// NewDuplicateIDError creates a DuplicateIDError.
func NewDuplicateIDError(entity, id string) *DuplicateIDError {
	return &DuplicateIDError{Entity: entity, ID: id}
}

func (e *DuplicateIDError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s with id %q already exists", ErrDuplicateID, e.Entity, e.ID))
}

func (e *DuplicateIDError) Unwrap() []error {
	return []error{ErrDuplicateID, ErrValidation}
}

// CapacityError reports an order that no vehicle in the fleet could ever carry.
type CapacityError struct {
	OrderID     string
	Weight      float64
	MaxCapacity float64
}

// NewCapacityError creates a CapacityError.
func NewCapacityError(orderID string, weight, maxCapacity float64) *CapacityError {
	return &CapacityError{OrderID: orderID, Weight: weight, MaxCapacity: maxCapacity}
}

func (e *CapacityError) Error() string {
	return sanitize(fmt.Sprintf("%s: order %s weighs %g, largest vehicle capacity is %g",
		ErrCapacityExceeded, e.OrderID, e.Weight, e.MaxCapacity))
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// PlacementViolationError reports a commit that would break a vehicle's capacity or state rules.
type PlacementViolationError struct {
	VehicleID string
	Reason    string
}

// NewPlacementViolationError creates a PlacementViolationError.
func NewPlacementViolationError(vehicleID, reason string) *PlacementViolationError {
	return &PlacementViolationError{VehicleID: vehicleID, Reason: reason}
}

func (e *PlacementViolationError) Error() string {
	return sanitize(fmt.Sprintf("%s: vehicle %s: %s", ErrPlacementViolation, e.VehicleID, e.Reason))
}

func (e *PlacementViolationError) Unwrap() error {
	return ErrPlacementViolation
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
