package queries

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type GetWalletBalanceQueryHandler struct {
	clients  ports.ClientRepository
	carriers ports.CarrierClientFactory
	logger   *slog.Logger
}

func NewGetWalletBalanceQueryHandler(
	clients ports.ClientRepository,
	carriers ports.CarrierClientFactory,
	logger *slog.Logger,
) GetWalletBalanceQueryHandler {
	return GetWalletBalanceQueryHandler{
		clients:  clients,
		carriers: carriers,
		logger:   logger.With("component", "GetWalletBalanceQueryHandler"),
	}
}

// Handle returns the balance as the carrier reports it. Carrier failures are BadRequest
// naming the carrier's message.
func (h GetWalletBalanceQueryHandler) Handle(ctx context.Context, query GetWalletBalanceQuery) (decimal.Decimal, error) {
	if err := query.Validate(); err != nil {
		return decimal.Zero, err
	}

	client, err := h.clients.Get(ctx, query.ClientID())
	if err != nil {
		return decimal.Zero, err
	}
	if !client.Credentials.IsComplete() {
		return decimal.Zero, errs.NewBadRequest(credentialsNotConfigured)
	}

	balance, err := h.carriers.ForClient(client.Credentials).WalletBalance(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "wallet balance request failed", "client_id", query.ClientID(), "error", err)
		return decimal.Zero, errs.NewBadRequestWithCause(err, "Failed to fetch wallet balance: %s", err.Error())
	}
	return balance, nil
}
