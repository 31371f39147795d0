package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"

	"inkbook/models"
)

// StripeProcessor implements Processor against the Stripe API. The API key
// is set globally in main via stripe.Key.
type StripeProcessor struct {
	Logger *zap.Logger
}

func NewStripeProcessor(logger *zap.Logger) *StripeProcessor {
	return &StripeProcessor{Logger: logger}
}

func (p *StripeProcessor) CreateDepositIntent(ctx context.Context, res models.Reservation, amount int64, currency string) (*DepositIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		Metadata: map[string]string{
			"reservation_id": res.ID,
			"book_id":        res.BookID,
			"date":           res.Date,
		},
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	p.Logger.Info("payment: deposit intent created",
		zap.String("intentID", pi.ID),
		zap.String("reservationID", res.ID),
		zap.Int64("amount", amount),
	)
	return &DepositIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (p *StripeProcessor) VerifyIntent(ctx context.Context, paymentIntentID string) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(paymentIntentID, params)
	if err != nil {
		return fmt.Errorf("failed to fetch payment intent %s: %w", paymentIntentID, err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("payment intent %s not settled: status %s", paymentIntentID, pi.Status)
	}
	return nil
}
