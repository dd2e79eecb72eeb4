// Package carrierflow drives the carrier side of fulfillment: it builds order
// requests, validates what the carrier answers and runs the follow-on steps after an
// order exists.
//
// Every carrier call goes through one of two wrappers. MustSucceed is used where a
// failure aborts the operation, BestEffort where a failure is only logged. Retries
// happen inside the carrier client, below both wrappers, so they never change which
// steps are fatal.
package carrierflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/pkg/errs"
)

// MustSucceed runs a step whose failure aborts the caller. Errors that are already
// NotFound or BadRequest pass through; anything else is re-classified as BadRequest
// with format, whose last verb receives the underlying message.
//
// Example:
//
//	_, err := carrierflow.MustSucceed(ctx, func(ctx context.Context) (struct{}, error) {
//	    return struct{}{}, client.CancelOrders(ctx, []int64{id})
//	}, "Invalid shipment Id. %s")
func MustSucceed[T any](ctx context.Context, step func(context.Context) (T, error), format string, args ...any) (T, error) {
	result, err := step(ctx)
	if err == nil {
		return result, nil
	}

	var zero T
	var domainErr *errs.DomainError
	if errors.As(err, &domainErr) {
		return zero, err
	}
	return zero, errs.NewBadRequestWithCause(err, format, append(args, err.Error())...)
}

// BestEffort runs a step whose failure is logged at warn level and dropped. ok is false
// when the step failed. The log message is format with the underlying message as the
// last argument.
func BestEffort[T any](
	ctx context.Context,
	logger *slog.Logger,
	step func(context.Context) (T, error),
	format string,
	args ...any,
) (result T, ok bool) {
	result, err := step(ctx)
	if err != nil {
		logger.WarnContext(ctx, fmt.Sprintf(format, append(args, err.Error())...), "error", err)
		var zero T
		return zero, false
	}
	return result, true
}
