package sequence

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoiceflow-be/pkg/clock"
)

// fakeStore counts per (prefix, period) key in memory.
type fakeStore struct {
	counters map[string]int64
	err      error
}

func (f *fakeStore) Next(ctx context.Context, prefix, period string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.counters == nil {
		f.counters = map[string]int64{}
	}
	key := prefix + ":" + period
	f.counters[key]++
	return f.counters[key], nil
}

func TestGeneratorFormats(t *testing.T) {
	clk := &clock.Fixed{Instant: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}
	gen := NewGenerator(&fakeStore{}, clk)
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func(context.Context) (string, error)
		want string
	}{
		{"invoice", gen.InvoiceNumber, "INV-202503-000001"},
		{"payment", gen.PaymentReference, "PAY-202503-000001"},
		{"refund", gen.RefundReference, "REF-202503-000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGeneratorIncrementsPerPrefix(t *testing.T) {
	clk := &clock.Fixed{Instant: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}
	gen := NewGenerator(&fakeStore{}, clk)
	ctx := context.Background()

	first, _ := gen.InvoiceNumber(ctx)
	second, _ := gen.InvoiceNumber(ctx)
	payment, _ := gen.PaymentReference(ctx)

	if first != "INV-202503-000001" || second != "INV-202503-000002" {
		t.Errorf("invoice sequence = %s, %s", first, second)
	}
	// Each prefix keeps its own counter.
	if payment != "PAY-202503-000001" {
		t.Errorf("payment sequence = %s, want PAY-202503-000001", payment)
	}
}

func TestGeneratorResetsPerPeriod(t *testing.T) {
	clk := &clock.Fixed{Instant: time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)}
	gen := NewGenerator(&fakeStore{}, clk)
	ctx := context.Background()

	march, _ := gen.InvoiceNumber(ctx)
	clk.Advance(48 * time.Hour)
	april, _ := gen.InvoiceNumber(ctx)

	if march != "INV-202503-000001" {
		t.Errorf("march = %s", march)
	}
	if april != "INV-202504-000001" {
		t.Errorf("april = %s, want counter reset in new period", april)
	}
}

func TestGeneratorPropagatesStoreError(t *testing.T) {
	clk := &clock.Fixed{Instant: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}
	storeErr := errors.New("connection reset")
	gen := NewGenerator(&fakeStore{err: storeErr}, clk)

	_, err := gen.InvoiceNumber(context.Background())
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
}
