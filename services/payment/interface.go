package payment

import (
	"context"

	"inkbook/models"
)

// DepositIntent references a payment the client must complete before a
// reservation can be confirmed.
type DepositIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// Processor is the monetary collaborator. The scheduling engine exposes the
// reservation status field; whether payment gates the PENDING to CONFIRMED
// transition is decided here and at the handler boundary, never inside the
// engine.
type Processor interface {
	// CreateDepositIntent opens a payment intent for the book's deposit.
	CreateDepositIntent(ctx context.Context, res models.Reservation, amount int64, currency string) (*DepositIntent, error)
	// VerifyIntent returns nil only when the intent has succeeded.
	VerifyIntent(ctx context.Context, paymentIntentID string) error
}
