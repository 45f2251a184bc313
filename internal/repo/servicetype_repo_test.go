package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
)

func seedServiceType(t *testing.T, db *gorm.DB, name string, price string) domain.ServiceType {
	t.Helper()
	st := domain.ServiceType{Name: name, Price: decimal.RequireFromString(price)}
	if err := CreateServiceType(context.Background(), db, &st); err != nil {
		t.Fatalf("seed service type %s: %v", name, err)
	}
	return st
}

func TestCreateServiceType_DuplicateName(t *testing.T) {
	db := newRepoDB(t)
	seedServiceType(t, db, "Cambio de aceite", "150.00")

	err := CreateServiceType(context.Background(), db, &domain.ServiceType{
		Name: "Cambio de aceite", Price: decimal.RequireFromString("99.00"),
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestMissingServiceTypes_PreservesInputOrder(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	a := seedServiceType(t, db, "Alineación", "200.00")
	b := seedServiceType(t, db, "Balanceo", "120.00")

	missing, err := MissingServiceTypes(ctx, db, []int{99, a.ID, 77, b.ID})
	if err != nil {
		t.Fatalf("MissingServiceTypes: %v", err)
	}
	if len(missing) != 2 || missing[0] != 99 || missing[1] != 77 {
		t.Fatalf("unexpected missing ids: %v", missing)
	}

	none, err := MissingServiceTypes(ctx, db, []int{a.ID, b.ID})
	if err != nil {
		t.Fatalf("MissingServiceTypes all present: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no missing ids, got %v", none)
	}
}

func TestDeleteServiceType_NotFoundAndInUse(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	if err := DeleteServiceType(ctx, db, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	cl, b, m := seedWorkshop(t, db)
	v := seedVehicle(t, db, "ABC123", cl.ID, b.ID, m.ID)
	st := seedServiceType(t, db, "Diagnóstico", "80.00")

	c := domain.Case{VehicleID: v.ID, AgentID: 1, Description: "ruido en motor"}
	if err := CreateCase(ctx, db, &c); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	if err := CreateService(ctx, db, &domain.Service{CaseID: c.ID, ServiceTypeID: st.ID}); err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	inUse, err := ServiceTypeInUse(ctx, db, st.ID)
	if err != nil || !inUse {
		t.Fatalf("expected service type in use, got inUse=%v err=%v", inUse, err)
	}

	free := seedServiceType(t, db, "Pulido", "60.00")
	if err := DeleteServiceType(ctx, db, free.ID); err != nil {
		t.Fatalf("DeleteServiceType: %v", err)
	}
	if _, err := GetServiceType(ctx, db, free.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted service type gone, got %v", err)
	}
}

func TestPopularServiceTypes_RanksByUsage(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	cl, b, m := seedWorkshop(t, db)
	v := seedVehicle(t, db, "ABC123", cl.ID, b.ID, m.ID)

	oil := seedServiceType(t, db, "Cambio de aceite", "150.00")
	align := seedServiceType(t, db, "Alineación", "200.00")
	unused := seedServiceType(t, db, "Pulido", "60.00")

	c := domain.Case{VehicleID: v.ID, AgentID: 1}
	if err := CreateCase(ctx, db, &c); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := CreateService(ctx, db, &domain.Service{CaseID: c.ID, ServiceTypeID: oil.ID}); err != nil {
			t.Fatalf("CreateService oil: %v", err)
		}
	}
	if err := CreateService(ctx, db, &domain.Service{CaseID: c.ID, ServiceTypeID: align.ID}); err != nil {
		t.Fatalf("CreateService align: %v", err)
	}

	top, err := PopularServiceTypes(ctx, db, 10)
	if err != nil {
		t.Fatalf("PopularServiceTypes: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 ranked types, got %d", len(top))
	}
	if top[0].ID != oil.ID || top[0].UsageCount != 3 {
		t.Fatalf("unexpected first entry: %+v", top[0])
	}
	if top[1].ID != align.ID || top[1].UsageCount != 1 {
		t.Fatalf("unexpected second entry: %+v", top[1])
	}
	if top[2].ID != unused.ID || top[2].UsageCount != 0 {
		t.Fatalf("unexpected third entry: %+v", top[2])
	}
}
