package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const DefaultTrackingBatchSize = 100

var ErrRefreshTrackingCommandIsNotConstructed = errors.New(
	"RefreshTrackingCommand must be created via NewRefreshTrackingCommand constructor",
)

// RefreshTrackingCommand polls carrier tracking for shipments that have a waybill and
// have not reached a terminal status.
//
// Example:
//
//	cmd, _ := NewRefreshTrackingCommand(DefaultTrackingBatchSize)
//	result, err := handler.Handle(ctx, cmd)
//	log.Printf("%d of %d shipments advanced", result.Updated, result.Checked)
type RefreshTrackingCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewRefreshTrackingCommand(batchSize int) (RefreshTrackingCommand, error) {
	if batchSize <= 0 {
		return RefreshTrackingCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"batch size", fmt.Errorf("%d is not greater than 0", batchSize))
	}

	return RefreshTrackingCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RefreshTrackingCommand) BatchSize() int { return c.batchSize }

func (c RefreshTrackingCommand) Validate() error {
	return c.guard.Validate(ErrRefreshTrackingCommandIsNotConstructed)
}
