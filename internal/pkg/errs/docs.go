// Package errs provides the error types shared by the fleet scheduling core.
//
// Every error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrValueIsRequired)
//   - a struct type carrying the failure details
//   - constructor functions, with and without a cause where a cause makes sense
//   - Error() for the message and Unwrap() returning the sentinel
//
// Generic kinds:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: domain constructors
//   - ObjectNotFoundError: lookups by identifier
//
// Fleet kinds:
//   - ValidationError: every message from validating one field set
//   - DuplicateIDError: a ValidationError for an identifier that is already registered
//   - CapacityError: an order heavier than the largest vehicle in the fleet
//   - PlacementViolationError: a commit that would break a vehicle's limits
//
// Allocation failures are never errors; they are reported as unallocated orders.
package errs
