package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/payment"
)

// PaymentVerifier records cash payments and verifies online ones. A rejected payment is
// reported in the result, not as an error.
type PaymentVerifier interface {
	Verify(ctx context.Context, method payment.Method) (payment.VerificationResult, error)
}

// AuditLog records business actions.
type AuditLog interface {
	LogData(ctx context.Context, actorID int64, message, route string) error
}
