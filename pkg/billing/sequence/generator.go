package sequence

import (
	"context"
	"fmt"

	"invoiceflow-be/pkg/clock"
)

// Document number prefixes.
const (
	PrefixInvoice = "INV"
	PrefixPayment = "PAY"
	PrefixRefund  = "REF"
)

// Store hands out the next value of a named counter atomically. Backed
// by a sequence row per (prefix, period) upserted in the database, so
// concurrent callers never observe the same value.
type Store interface {
	Next(ctx context.Context, prefix, period string) (int64, error)
}

// Generator produces unique human-readable document numbers of the form
// PREFIX-YYYYMM-NNNNNN. The counter resets each calendar month because
// the period is part of the key.
type Generator struct {
	store Store
	clock clock.Clock
}

func NewGenerator(store Store, clk clock.Clock) *Generator {
	return &Generator{store: store, clock: clk}
}

func (g *Generator) next(ctx context.Context, prefix string) (string, error) {
	period := g.clock.Now().Format("200601")
	n, err := g.store.Next(ctx, prefix, period)
	if err != nil {
		return "", fmt.Errorf("next %s sequence: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%s-%06d", prefix, period, n), nil
}

func (g *Generator) InvoiceNumber(ctx context.Context) (string, error) {
	return g.next(ctx, PrefixInvoice)
}

func (g *Generator) PaymentReference(ctx context.Context) (string, error) {
	return g.next(ctx, PrefixPayment)
}

func (g *Generator) RefundReference(ctx context.Context) (string, error) {
	return g.next(ctx, PrefixRefund)
}
