package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallerix/taller-backend/internal/domain"
)

func TestListOpenBillsByClient_OnlyPositiveBalance(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	cl, _, _ := seedWorkshop(t, db)

	now := time.Now().UTC()
	open := domain.Bill{ClientID: cl.ID, Amount: decimal.RequireFromString("350.00"), PaymentMethod: "EFECTIVO", CreationDate: now, Status: 1}
	settled := domain.Bill{ClientID: cl.ID, Amount: decimal.Zero, PaymentMethod: "EFECTIVO", CreationDate: now, Status: 1}
	foreign := domain.Bill{ClientID: cl.ID + 9, Amount: decimal.RequireFromString("80.00"), PaymentMethod: "TARJETA", CreationDate: now, Status: 1}
	for _, b := range []*domain.Bill{&open, &settled, &foreign} {
		if err := CreateBill(ctx, db, b); err != nil {
			t.Fatalf("seed bill: %v", err)
		}
	}

	got, err := ListOpenBillsByClient(ctx, db, cl.ID)
	if err != nil {
		t.Fatalf("ListOpenBillsByClient: %v", err)
	}
	if len(got) != 1 || got[0].ID != open.ID {
		t.Fatalf("expected only the open bill, got %+v", got)
	}
	if !got[0].Amount.Equal(decimal.RequireFromString("350.00")) {
		t.Fatalf("unexpected amount: %s", got[0].Amount)
	}
	if got[0].ClientName != "Ana Pérez" || got[0].ClientPhone != "555-0001" {
		t.Fatalf("unexpected client fields: %+v", got[0])
	}

	n, err := CountOpenBillsByClient(ctx, db, cl.ID)
	if err != nil || n != 1 {
		t.Fatalf("CountOpenBillsByClient = %d, %v; want 1", n, err)
	}
}

func TestGetBillView_IncludesVehicleWhenCaseLinked(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	cl, b, m := seedWorkshop(t, db)
	v := seedVehicle(t, db, "ABC123", cl.ID, b.ID, m.ID)

	bill := domain.Bill{ClientID: cl.ID, Amount: decimal.RequireFromString("120.00"), PaymentMethod: "EFECTIVO", CreationDate: time.Now().UTC(), Status: 1}
	if err := CreateBill(ctx, db, &bill); err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	c := domain.Case{VehicleID: v.ID, AgentID: 1, BillID: &bill.ID}
	if err := CreateCase(ctx, db, &c); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	got, err := GetBillView(ctx, db, bill.ID)
	if err != nil {
		t.Fatalf("GetBillView: %v", err)
	}
	if got.Plate != "ABC123" || got.Brand != "toyota" || got.Model != "corolla" {
		t.Fatalf("expected vehicle fields from linked case, got %+v", got)
	}

	if _, err := GetBillView(ctx, db, bill.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
