package queries

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrGetWalletBalanceQueryIsNotConstructed = errors.New(
	"GetWalletBalanceQuery must be created via NewGetWalletBalanceQuery constructor",
)

// GetWalletBalanceQuery reads the prepaid balance of a client's carrier account.
type GetWalletBalanceQuery struct {
	clientID int64

	guard guard.ConstructorGuard
}

func NewGetWalletBalanceQuery(clientID int64) GetWalletBalanceQuery {
	return GetWalletBalanceQuery{clientID: clientID, guard: guard.NewConstructorGuard()}
}

func (q GetWalletBalanceQuery) ClientID() int64 { return q.clientID }

func (q GetWalletBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetWalletBalanceQueryIsNotConstructed)
}
