package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// RefreshTrackingResult counts what one refresh did. Failed shipments are retried on
// the next run.
type RefreshTrackingResult struct {
	Checked int
	Updated int
	Failed  int
}

// RefreshTrackingCommandHandler applies the latest carrier tracking status to in-flight
// shipments. A shipment whose tracking cannot be read or parsed is skipped; it never
// fails the batch.
type RefreshTrackingCommandHandler struct {
	uowFactory ShipmentUoWFactory
	carriers   ports.CarrierClientFactory
	now        func() time.Time
	logger     *slog.Logger
}

func NewRefreshTrackingCommandHandler(
	uowFactory ShipmentUoWFactory,
	carriers ports.CarrierClientFactory,
	logger *slog.Logger,
) RefreshTrackingCommandHandler {
	return RefreshTrackingCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
		now:        time.Now,
		logger:     logger.With("component", "RefreshTracking"),
	}
}

func (h RefreshTrackingCommandHandler) Handle(ctx context.Context, command RefreshTrackingCommand) (RefreshTrackingResult, error) {
	var result RefreshTrackingResult
	if err := command.Validate(); err != nil {
		return result, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return result, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ShipmentRepository()
	shipments, err := repo.ListInFlight(ctx, command.BatchSize())
	if err != nil {
		return result, err
	}

	carriers := make(map[int64]ports.CarrierClient)
	for _, s := range shipments {
		result.Checked++

		carrier, ok, err := h.carrierFor(ctx, uow, carriers, s.ClientID())
		if err != nil {
			return result, err
		}
		if !ok {
			result.Failed++
			continue
		}

		changed, ok := h.refresh(ctx, carrier, s)
		if !ok {
			result.Failed++
			continue
		}
		if err = repo.Update(ctx, s); err != nil {
			return result, err
		}
		if changed {
			result.Updated++
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return result, err
	}
	return result, nil
}

func (h RefreshTrackingCommandHandler) refresh(ctx context.Context, carrier ports.CarrierClient, s *shipment.Shipment) (changed, ok bool) {
	info, err := carrier.Tracking(ctx, s.AWBCode())
	if err != nil || info == nil {
		h.logger.WarnContext(ctx, "tracking unavailable", "shipment_id", s.ID(), "awb", s.AWBCode(), "error", err)
		return false, false
	}

	reported, err := shipment.ParseCarrierStatus(info.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "carrier reported an unknown status", "shipment_id", s.ID(), "error", err)
		return false, false
	}

	at := h.now()
	if info.DeliveredAt != nil {
		at = *info.DeliveredAt
	}

	previous := s.Status()
	s.AttachTracking(info.Raw)
	changed = s.ApplyCarrierStatus(reported, at)
	if changed {
		h.logger.InfoContext(ctx, "shipment status advanced",
			"shipment_id", s.ID(), "from", previous.String(), "to", s.Status().String())
	}
	return changed, true
}

// carrierFor returns one carrier client per client account. ok is false when the
// account is gone or has no carrier credentials.
func (h RefreshTrackingCommandHandler) carrierFor(
	ctx context.Context,
	uow ShipmentUoW,
	cache map[int64]ports.CarrierClient,
	clientID int64,
) (ports.CarrierClient, bool, error) {
	if carrier, ok := cache[clientID]; ok {
		return carrier, carrier != nil, nil
	}

	client, err := uow.ClientRepository().Get(ctx, clientID)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}
	if err != nil || !client.Credentials.IsComplete() {
		h.logger.WarnContext(ctx, "client has no carrier credentials", "client_id", clientID)
		cache[clientID] = nil
		return nil, false, nil
	}

	carrier := h.carriers.ForClient(client.Credentials)
	cache[clientID] = carrier
	return carrier, true, nil
}
