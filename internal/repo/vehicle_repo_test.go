package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
)

// seedWorkshop inserts a client and one brand/model pair, the minimum context
// a vehicle row needs. Shared by the vehicle, case, and bill tests.
func seedWorkshop(t *testing.T, db *gorm.DB) (client domain.Client, brand domain.Brand, model domain.Model) {
	t.Helper()
	ctx := context.Background()

	client = domain.Client{FullName: "Ana Pérez", Phone: "555-0001"}
	if err := CreateClient(ctx, db, &client); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	brand = domain.Brand{Name: "toyota", Description: "Vehículos Toyota"}
	if err := CreateBrand(ctx, db, &brand); err != nil {
		t.Fatalf("seed brand: %v", err)
	}
	model = domain.Model{Name: "corolla", Description: "Modelo Corolla"}
	if err := CreateModel(ctx, db, &model); err != nil {
		t.Fatalf("seed model: %v", err)
	}
	return client, brand, model
}

func seedVehicle(t *testing.T, db *gorm.DB, plate string, clientID, brandID, modelID int) domain.Vehicle {
	t.Helper()
	v := domain.Vehicle{Plate: plate, ClientID: clientID, BrandID: brandID, ModelID: modelID}
	if err := CreateVehicle(context.Background(), db, &v); err != nil {
		t.Fatalf("seed vehicle %s: %v", plate, err)
	}
	return v
}

func TestCreateVehicle_DuplicatePlate(t *testing.T) {
	db := newRepoDB(t)
	cl, b, m := seedWorkshop(t, db)

	seedVehicle(t, db, "ABC123", cl.ID, b.ID, m.ID)
	err := CreateVehicle(context.Background(), db, &domain.Vehicle{
		Plate: "ABC123", ClientID: cl.ID, BrandID: b.ID, ModelID: m.ID,
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	var n int64
	if err := db.Model(&domain.Vehicle{}).Count(&n).Error; err != nil {
		t.Fatalf("count vehicles: %v", err)
	}
	if n != 1 {
		t.Fatalf("duplicate insert must not add a row, got %d rows", n)
	}
}

func TestGetVehicleView_JoinsDisplayFields(t *testing.T) {
	db := newRepoDB(t)
	cl, b, m := seedWorkshop(t, db)
	v := seedVehicle(t, db, "ABC123", cl.ID, b.ID, m.ID)

	got, err := GetVehicleView(context.Background(), db, v.ID)
	if err != nil {
		t.Fatalf("GetVehicleView: %v", err)
	}
	if got.Plate != "ABC123" || got.Brand != "toyota" || got.Model != "corolla" || got.ClientName != "Ana Pérez" {
		t.Fatalf("unexpected view: %+v", got)
	}

	if _, err := GetVehicleView(context.Background(), db, v.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindVehicleViewByPlate_NormalizesInput(t *testing.T) {
	db := newRepoDB(t)
	cl, b, m := seedWorkshop(t, db)
	v := seedVehicle(t, db, "ABC123", cl.ID, b.ID, m.ID)

	for _, q := range []string{"ABC123", "abc123", " abc 123 "} {
		got, err := FindVehicleViewByPlate(context.Background(), db, q)
		if err != nil {
			t.Fatalf("FindVehicleViewByPlate(%q): %v", q, err)
		}
		if got == nil || got.ID != v.ID {
			t.Fatalf("FindVehicleViewByPlate(%q) = %+v, want id %d", q, got, v.ID)
		}
	}

	miss, err := FindVehicleViewByPlate(context.Background(), db, "ZZZ999")
	if err != nil || miss != nil {
		t.Fatalf("expected (nil, nil) on miss, got %v, %v", miss, err)
	}
}

func TestListVehicleViews_FilterByClientAndSearch(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	cl, b, m := seedWorkshop(t, db)

	other := domain.Client{FullName: "Bruno Díaz", Phone: "555-0002"}
	if err := CreateClient(ctx, db, &other); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	seedVehicle(t, db, "ABC123", cl.ID, b.ID, m.ID)
	seedVehicle(t, db, "XYZ789", other.ID, b.ID, m.ID)

	mine, err := ListVehicleViews(ctx, db, cl.ID, "")
	if err != nil {
		t.Fatalf("ListVehicleViews client filter: %v", err)
	}
	if len(mine) != 1 || mine[0].Plate != "ABC123" {
		t.Fatalf("unexpected client-filtered list: %+v", mine)
	}

	found, err := ListVehicleViews(ctx, db, 0, "XYZ")
	if err != nil {
		t.Fatalf("ListVehicleViews search: %v", err)
	}
	if len(found) != 1 || found[0].ClientName != "Bruno Díaz" {
		t.Fatalf("unexpected search result: %+v", found)
	}
}

func TestUpdateVehicle_NotFoundAndFieldUpdate(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	cl, b, m := seedWorkshop(t, db)

	if err := UpdateVehicle(ctx, db, 42, map[string]any{"notes": "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	v := seedVehicle(t, db, "ABC123", cl.ID, b.ID, m.ID)
	if err := UpdateVehicle(ctx, db, v.ID, map[string]any{"notes": "cambio de aceite"}); err != nil {
		t.Fatalf("UpdateVehicle: %v", err)
	}
	got, err := GetVehicle(ctx, db, v.ID)
	if err != nil {
		t.Fatalf("GetVehicle: %v", err)
	}
	if got.Notes != "cambio de aceite" {
		t.Fatalf("notes not updated: %+v", got)
	}
}

func TestVehicleBelongsToClient(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	cl, b, m := seedWorkshop(t, db)
	v := seedVehicle(t, db, "ABC123", cl.ID, b.ID, m.ID)

	ok, err := VehicleBelongsToClient(ctx, db, v.ID, cl.ID)
	if err != nil || !ok {
		t.Fatalf("expected vehicle to belong to client, got ok=%v err=%v", ok, err)
	}
	ok, err = VehicleBelongsToClient(ctx, db, v.ID, cl.ID+1)
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}
}
