// Package errs provides the error vocabulary of the fulfillment service.
//
// Two families live here:
//   - value errors (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError,
//     ObjectNotFoundError) raised by domain constructors and repositories;
//   - request-level kinds ErrNotFound and ErrBadRequest carried by DomainError and
//     StockShortfallError, whose messages are returned to callers verbatim.
//
// Every type pairs a sentinel with a struct that implements Unwrap, so callers
// classify with errors.Is and inspect details with errors.As.
package errs
