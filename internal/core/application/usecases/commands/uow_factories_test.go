package commands_test

import (
	"io"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/testutil"
)

type paymentApprovalUoWFactory struct{ uow *testutil.UnitOfWorkMock }

func (f paymentApprovalUoWFactory) Create() commands.PaymentApprovalUoW { return f.uow }

type shipmentUoWFactory struct{ uow *testutil.UnitOfWorkMock }

func (f shipmentUoWFactory) Create() commands.ShipmentUoW { return f.uow }

type returnUoWFactory struct{ uow *testutil.UnitOfWorkMock }

func (f returnUoWFactory) Create() commands.ReturnUoW { return f.uow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
