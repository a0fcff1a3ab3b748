package ledger

import (
	"testing"

	"invoiceflow-be/internal/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func pay(amount string, status entity.PaymentStatus) *entity.Payment {
	return &entity.Payment{Amount: decimal.RequireFromString(amount), Status: status}
}

func ref(amount string, status entity.RefundStatus) *entity.Refund {
	return &entity.Refund{Amount: decimal.RequireFromString(amount), Status: status}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		payments     []*entity.Payment
		refunds      []*entity.Refund
		wantPaid     string
		wantRefunded string
	}{
		{
			name:         "empty ledger",
			wantPaid:     "0",
			wantRefunded: "0",
		},
		{
			name: "only completed payments count",
			payments: []*entity.Payment{
				pay("100.00", entity.PaymentStatusCompleted),
				pay("50.00", entity.PaymentStatusPending),
				pay("25.00", entity.PaymentStatusProcessing),
				pay("10.00", entity.PaymentStatusFailed),
			},
			wantPaid:     "100.00",
			wantRefunded: "0",
		},
		{
			name: "refunded payments still count as paid",
			payments: []*entity.Payment{
				pay("100.00", entity.PaymentStatusCompleted),
				pay("40.00", entity.PaymentStatusRefunded),
			},
			refunds: []*entity.Refund{
				ref("40.00", entity.RefundStatusCompleted),
			},
			wantPaid:     "140.00",
			wantRefunded: "40.00",
		},
		{
			name: "open refunds are invisible",
			payments: []*entity.Payment{
				pay("100.00", entity.PaymentStatusCompleted),
			},
			refunds: []*entity.Refund{
				ref("30.00", entity.RefundStatusPending),
				ref("20.00", entity.RefundStatusProcessing),
				ref("10.00", entity.RefundStatusFailed),
				ref("5.00", entity.RefundStatusCancelled),
			},
			wantPaid:     "100.00",
			wantRefunded: "0",
		},
		{
			name: "fractional cents add exactly",
			payments: []*entity.Payment{
				pay("0.10", entity.PaymentStatusCompleted),
				pay("0.20", entity.PaymentStatusCompleted),
			},
			wantPaid:     "0.30",
			wantRefunded: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg := Compute(tt.payments, tt.refunds)

			if !lg.TotalPaid.Equal(decimal.RequireFromString(tt.wantPaid)) {
				t.Errorf("TotalPaid = %s, want %s", lg.TotalPaid, tt.wantPaid)
			}
			if !lg.TotalRefunded.Equal(decimal.RequireFromString(tt.wantRefunded)) {
				t.Errorf("TotalRefunded = %s, want %s", lg.TotalRefunded, tt.wantRefunded)
			}
		})
	}
}

func TestRemainingAndSettled(t *testing.T) {
	total := decimal.RequireFromString("100.00")

	tests := []struct {
		name          string
		paid          string
		refunded      string
		wantRemaining string
		wantSettled   bool
	}{
		{"untouched", "0", "0", "100.00", false},
		{"partial", "60.00", "0", "40.00", false},
		{"exact", "100.00", "0", "0.00", true},
		{"overpaid", "120.00", "0", "-20.00", true},
		{"refund reopens balance", "100.00", "30.00", "30.00", false},
		{"refund below threshold keeps settled", "120.00", "20.00", "0.00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg := Ledger{
				TotalPaid:     decimal.RequireFromString(tt.paid),
				TotalRefunded: decimal.RequireFromString(tt.refunded),
			}

			if got := lg.Remaining(total); !got.Equal(decimal.RequireFromString(tt.wantRemaining)) {
				t.Errorf("Remaining = %s, want %s", got, tt.wantRemaining)
			}
			if got := lg.Settled(total); got != tt.wantSettled {
				t.Errorf("Settled = %v, want %v", got, tt.wantSettled)
			}
		})
	}
}

func TestRefundedOf(t *testing.T) {
	target := &entity.Payment{Id: uuid.New(), Amount: decimal.RequireFromString("100.00")}
	other := &entity.Payment{Id: uuid.New(), Amount: decimal.RequireFromString("50.00")}

	refunds := []*entity.Refund{
		{PaymentId: target.Id, Amount: decimal.RequireFromString("30.00"), Status: entity.RefundStatusCompleted},
		{PaymentId: target.Id, Amount: decimal.RequireFromString("20.00"), Status: entity.RefundStatusCompleted},
		{PaymentId: target.Id, Amount: decimal.RequireFromString("99.00"), Status: entity.RefundStatusPending},
		{PaymentId: other.Id, Amount: decimal.RequireFromString("50.00"), Status: entity.RefundStatusCompleted},
	}

	got := RefundedOf(target, refunds)
	if !got.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("RefundedOf = %s, want 50.00", got)
	}
}
