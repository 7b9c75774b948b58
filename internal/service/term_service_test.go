package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/checkout"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/gateway"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/gateway/gatewaytest"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
	"github.com/Lixing-Zhang/tapsilat-checkout/pkg/logger"
	"github.com/shopspring/decimal"
)

func lastCall(t *testing.T, fake *gatewaytest.Fake) gatewaytest.Call {
	t.Helper()
	calls := fake.Calls()
	if len(calls) == 0 {
		t.Fatal("no gateway calls recorded")
	}
	return calls[len(calls)-1]
}

func TestTermService_Create(t *testing.T) {
	fake := &gatewaytest.Fake{}
	svc := NewTermService(fake, logger.New("error"))

	_, err := svc.Create(context.Background(), models.TermCreateRequest{
		OrderID: "o-1",
		Amount:  decimal.RequireFromString("49.999"),
		DueDate: "2026-12-01 00:00:00",
	})
	if err != nil {
		t.Fatalf("Create() unexpected error = %v", err)
	}

	call := lastCall(t, fake)
	if call.Op != "CreateOrderTerm" {
		t.Fatalf("op = %s, want CreateOrderTerm", call.Op)
	}
	term := call.Args[0].(gateway.Term)
	if term.OrderID != "o-1" {
		t.Errorf("OrderID = %q, want o-1", term.OrderID)
	}
	if !strings.HasPrefix(term.TermReferenceID, "TRM_") {
		t.Errorf("TermReferenceID = %q, want TRM_ prefix", term.TermReferenceID)
	}
	if term.Sequence != 1 || !term.Required || term.Status != "WAITING" {
		t.Errorf("defaults not applied: %+v", term)
	}
	if term.Amount.StringFixed(2) != "50.00" {
		t.Errorf("Amount = %s, want 50.00", term.Amount)
	}
}

func TestTermService_Create_ResolvesOrderID(t *testing.T) {
	fake := &gatewaytest.Fake{
		RawFunc: func(ctx context.Context, op string, args ...any) (json.RawMessage, error) {
			if op == "GetOrder" {
				return json.RawMessage(`{"id":"o-77","reference_id":"ref-77"}`), nil
			}
			return json.RawMessage(`{"ok":true}`), nil
		},
	}
	svc := NewTermService(fake, logger.New("error"))
	notRequired := false

	raw, err := svc.Create(context.Background(), models.TermCreateRequest{
		OrderReferenceID: "ref-77",
		TermReferenceID:  "TRM-custom",
		Amount:           decimal.RequireFromString("10"),
		DueDate:          "2026-12-01",
		TermSequence:     3,
		Required:         &notRequired,
		Status:           "PAID",
	})
	if err != nil {
		t.Fatalf("Create() unexpected error = %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Errorf("Create() = %s", raw)
	}

	calls := fake.Calls()
	if len(calls) != 2 || calls[0].Op != "GetOrder" || calls[0].Args[0] != "ref-77" {
		t.Fatalf("calls = %+v, want GetOrder then CreateOrderTerm", calls)
	}
	term := calls[1].Args[0].(gateway.Term)
	if term.OrderID != "o-77" || term.TermReferenceID != "TRM-custom" {
		t.Errorf("term ids = %q %q", term.OrderID, term.TermReferenceID)
	}
	if term.Sequence != 3 || term.Required || term.Status != "PAID" {
		t.Errorf("explicit values overridden: %+v", term)
	}
}

func TestTermService_Validation(t *testing.T) {
	ctx := context.Background()
	positive := decimal.RequireFromString("5")
	negative := decimal.RequireFromString("-1")
	zero := decimal.Zero

	tests := []struct {
		name    string
		call    func(svc *TermService) error
		wantErr error
	}{
		{
			name: "create without order",
			call: func(svc *TermService) error {
				_, err := svc.Create(ctx, models.TermCreateRequest{Amount: positive, DueDate: "2026-12-01"})
				return err
			},
			wantErr: checkout.ErrMissingField,
		},
		{
			name: "create with zero amount",
			call: func(svc *TermService) error {
				_, err := svc.Create(ctx, models.TermCreateRequest{OrderID: "o", DueDate: "2026-12-01"})
				return err
			},
			wantErr: checkout.ErrInvalidAmount,
		},
		{
			name: "create without due date",
			call: func(svc *TermService) error {
				_, err := svc.Create(ctx, models.TermCreateRequest{OrderID: "o", Amount: positive})
				return err
			},
			wantErr: checkout.ErrMissingField,
		},
		{
			name: "create for order without id",
			call: func(svc *TermService) error {
				_, err := svc.Create(ctx, models.TermCreateRequest{OrderReferenceID: "ref", Amount: positive, DueDate: "2026-12-01"})
				return err
			},
			wantErr: checkout.ErrMissingField,
		},
		{
			name: "get without reference",
			call: func(svc *TermService) error {
				_, err := svc.Get(ctx, " ")
				return err
			},
			wantErr: checkout.ErrMissingField,
		},
		{
			name: "update with zero amount",
			call: func(svc *TermService) error {
				_, err := svc.Update(ctx, models.TermUpdateRequest{TermReferenceID: "TRM-1", Amount: &zero})
				return err
			},
			wantErr: checkout.ErrInvalidAmount,
		},
		{
			name: "delete without reference",
			call: func(svc *TermService) error {
				_, err := svc.Delete(ctx, models.TermDeleteRequest{OrderID: "o"})
				return err
			},
			wantErr: checkout.ErrMissingField,
		},
		{
			name: "refund with negative amount",
			call: func(svc *TermService) error {
				_, err := svc.Refund(ctx, models.TermRefundRequest{TermReferenceID: "TRM-1", Amount: &negative})
				return err
			},
			wantErr: checkout.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &gatewaytest.Fake{}
			svc := NewTermService(fake, logger.New("error"))

			err := tt.call(svc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			for _, c := range fake.Calls() {
				if c.Op != "GetOrder" {
					t.Errorf("invalid request reached the gateway: %+v", c)
				}
			}
		})
	}
}

func TestTermService_PassThrough(t *testing.T) {
	fake := &gatewaytest.Fake{}
	svc := NewTermService(fake, logger.New("error"))
	ctx := context.Background()
	amount := decimal.RequireFromString("12.345")

	if _, err := svc.Get(ctx, "TRM-1"); err != nil {
		t.Fatalf("Get() unexpected error = %v", err)
	}
	if c := lastCall(t, fake); c.Op != "GetOrderTerm" || c.Args[0] != "TRM-1" {
		t.Errorf("Get call = %+v", c)
	}

	if _, err := svc.Update(ctx, models.TermUpdateRequest{TermReferenceID: "TRM-1", Amount: &amount, DueDate: "2027-01-01"}); err != nil {
		t.Fatalf("Update() unexpected error = %v", err)
	}
	update := lastCall(t, fake).Args[0].(gateway.TermUpdate)
	if update.Amount == nil || update.Amount.StringFixed(2) != "12.35" || update.DueDate != "2027-01-01" {
		t.Errorf("update = %+v", update)
	}

	if _, err := svc.Delete(ctx, models.TermDeleteRequest{OrderID: "o-1", TermReferenceID: "TRM-1"}); err != nil {
		t.Fatalf("Delete() unexpected error = %v", err)
	}
	if c := lastCall(t, fake); c.Op != "DeleteOrderTerm" || c.Args[0] != "o-1" || c.Args[1] != "TRM-1" {
		t.Errorf("Delete call = %+v", c)
	}

	if _, err := svc.Refund(ctx, models.TermRefundRequest{TermReferenceID: "TRM-1"}); err != nil {
		t.Fatalf("Refund() unexpected error = %v", err)
	}
	refund := lastCall(t, fake).Args[0].(gateway.TermRefund)
	if refund.TermReferenceID != "TRM-1" || refund.Amount != nil {
		t.Errorf("refund = %+v, want full refund of TRM-1", refund)
	}
}
