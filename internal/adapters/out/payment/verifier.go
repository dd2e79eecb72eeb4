// Package payment verifies purchase order payments. Cash payments are recorded as
// reported by staff; online payments must carry a valid gateway signature.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
)

const InvalidSignatureReason = "Payment verification failed: Invalid signature"

var ErrGatewaySecretMissing = errors.New("payment gateway secret is not configured")

// SignatureVerifier implements ports.PaymentVerifier for a gateway that signs
// "<gateway order id>|<payment id>" with HMAC-SHA256 and sends the hex digest.
type SignatureVerifier struct {
	secret []byte
	logger *slog.Logger
}

var _ ports.PaymentVerifier = (*SignatureVerifier)(nil)

func NewSignatureVerifier(secret string, logger *slog.Logger) *SignatureVerifier {
	return &SignatureVerifier{
		secret: []byte(secret),
		logger: logger.With("component", "PaymentVerifier"),
	}
}

func (v *SignatureVerifier) Verify(ctx context.Context, method payment.Method) (payment.VerificationResult, error) {
	if method == nil {
		return payment.VerificationResult{}, errors.New("payment method is required")
	}
	if err := method.Validate(); err != nil {
		return payment.VerificationResult{}, err
	}

	switch m := method.(type) {
	case payment.Cash:
		return v.recordCash(ctx, m), nil
	case payment.Online:
		return v.verifyOnline(ctx, m)
	default:
		return payment.VerificationResult{}, fmt.Errorf("unsupported payment method %s", method.Kind())
	}
}

// recordCash uses the staff reference as the transaction id when there is one.
func (v *SignatureVerifier) recordCash(ctx context.Context, m payment.Cash) payment.VerificationResult {
	transactionID := strings.TrimSpace(m.Reference)
	if transactionID == "" {
		transactionID = "CASH-" + uuid.NewString()
	}

	v.logger.InfoContext(ctx, "cash payment recorded",
		"purchase_order_id", m.OrderID, "amount", m.Paid.String(), "received_by", m.ReceivedBy)
	return payment.Verified(transactionID)
}

func (v *SignatureVerifier) verifyOnline(ctx context.Context, m payment.Online) (payment.VerificationResult, error) {
	if len(v.secret) == 0 {
		return payment.VerificationResult{}, ErrGatewaySecretMissing
	}

	expected := Sign(v.secret, m.GatewayOrderID, m.PaymentID)
	given, err := hex.DecodeString(strings.TrimSpace(m.Signature))
	if err != nil || !hmac.Equal(expected, given) {
		v.logger.WarnContext(ctx, "payment signature rejected",
			"purchase_order_id", m.OrderID, "gateway_order_id", m.GatewayOrderID, "payment_id", m.PaymentID)
		return payment.Rejected(InvalidSignatureReason), nil
	}

	v.logger.InfoContext(ctx, "online payment verified", "purchase_order_id", m.OrderID, "payment_id", m.PaymentID)
	return payment.Verified(m.PaymentID), nil
}

// Sign returns the raw HMAC-SHA256 of "<gatewayOrderID>|<paymentID>".
func Sign(secret []byte, gatewayOrderID, paymentID string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return mac.Sum(nil)
}
