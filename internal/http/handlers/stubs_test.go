package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/services"
)

// Flexible service stubs: each method delegates to an optional func field so
// individual tests override only what they exercise.

type stubClientSvc struct {
	list   func(context.Context, string, int) ([]domain.Client, error)
	get    func(context.Context, int) (*domain.Client, error)
	create func(context.Context, services.ClientInput) (*domain.Client, error)
	update func(context.Context, int, services.ClientInput) (*domain.Client, error)
	search func(context.Context, string) ([]domain.Client, error)
}

func (s stubClientSvc) List(ctx context.Context, q string, limit int) ([]domain.Client, error) {
	if s.list != nil {
		return s.list(ctx, q, limit)
	}
	return nil, nil
}

func (s stubClientSvc) Get(ctx context.Context, id int) (*domain.Client, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.Client{ID: id}, nil
}

func (s stubClientSvc) Create(ctx context.Context, in services.ClientInput) (*domain.Client, error) {
	if s.create != nil {
		return s.create(ctx, in)
	}
	return &domain.Client{ID: 1, FullName: in.Nombre, Phone: in.Telefono}, nil
}

func (s stubClientSvc) Update(ctx context.Context, id int, in services.ClientInput) (*domain.Client, error) {
	if s.update != nil {
		return s.update(ctx, id, in)
	}
	return &domain.Client{ID: id, FullName: in.Nombre, Phone: in.Telefono}, nil
}

func (s stubClientSvc) Search(ctx context.Context, q string) ([]domain.Client, error) {
	if s.search != nil {
		return s.search(ctx, q)
	}
	return nil, nil
}

type stubVehicleSvc struct {
	list         func(context.Context, int, string) ([]domain.VehicleView, error)
	listByClient func(context.Context, int) ([]domain.VehicleView, error)
	get          func(context.Context, int) (*domain.VehicleView, error)
	create       func(context.Context, services.CreateVehicleInput) (*domain.VehicleView, error)
	update       func(context.Context, int, services.UpdateVehicleInput) (*domain.VehicleView, error)
}

func (s stubVehicleSvc) List(ctx context.Context, clientID int, q string) ([]domain.VehicleView, error) {
	if s.list != nil {
		return s.list(ctx, clientID, q)
	}
	return nil, nil
}

func (s stubVehicleSvc) ListByClient(ctx context.Context, clientID int) ([]domain.VehicleView, error) {
	if s.listByClient != nil {
		return s.listByClient(ctx, clientID)
	}
	return nil, nil
}

func (s stubVehicleSvc) Get(ctx context.Context, id int) (*domain.VehicleView, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.VehicleView{ID: id}, nil
}

func (s stubVehicleSvc) Create(ctx context.Context, in services.CreateVehicleInput) (*domain.VehicleView, error) {
	if s.create != nil {
		return s.create(ctx, in)
	}
	return &domain.VehicleView{ID: 1, Plate: in.Placa, ClientID: in.ClienteID}, nil
}

func (s stubVehicleSvc) Update(ctx context.Context, id int, in services.UpdateVehicleInput) (*domain.VehicleView, error) {
	if s.update != nil {
		return s.update(ctx, id, in)
	}
	return &domain.VehicleView{ID: id}, nil
}

type stubCatalogSvc struct {
	brands func(context.Context) ([]domain.Brand, error)
	models func(context.Context) ([]domain.Model, error)
}

func (s stubCatalogSvc) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	if s.brands != nil {
		return s.brands(ctx)
	}
	return nil, nil
}

func (s stubCatalogSvc) ListModels(ctx context.Context) ([]domain.Model, error) {
	if s.models != nil {
		return s.models(ctx)
	}
	return nil, nil
}

type stubTypeSvc struct {
	list    func(context.Context, string) ([]domain.ServiceType, error)
	get     func(context.Context, int) (*domain.ServiceType, error)
	create  func(context.Context, services.ServiceTypeInput) (*domain.ServiceType, error)
	update  func(context.Context, int, services.ServiceTypeInput) (*domain.ServiceType, error)
	del     func(context.Context, int) error
	search  func(context.Context, string) ([]domain.ServiceType, error)
	popular func(context.Context, int) ([]domain.ServiceTypeUsage, error)
}

func (s stubTypeSvc) List(ctx context.Context, q string) ([]domain.ServiceType, error) {
	if s.list != nil {
		return s.list(ctx, q)
	}
	return nil, nil
}

func (s stubTypeSvc) Get(ctx context.Context, id int) (*domain.ServiceType, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.ServiceType{ID: id}, nil
}

func (s stubTypeSvc) Create(ctx context.Context, in services.ServiceTypeInput) (*domain.ServiceType, error) {
	if s.create != nil {
		return s.create(ctx, in)
	}
	return &domain.ServiceType{ID: 1, Name: in.Nombre}, nil
}

func (s stubTypeSvc) Update(ctx context.Context, id int, in services.ServiceTypeInput) (*domain.ServiceType, error) {
	if s.update != nil {
		return s.update(ctx, id, in)
	}
	return &domain.ServiceType{ID: id, Name: in.Nombre}, nil
}

func (s stubTypeSvc) Delete(ctx context.Context, id int) error {
	if s.del != nil {
		return s.del(ctx, id)
	}
	return nil
}

func (s stubTypeSvc) Search(ctx context.Context, q string) ([]domain.ServiceType, error) {
	if s.search != nil {
		return s.search(ctx, q)
	}
	return nil, nil
}

func (s stubTypeSvc) Popular(ctx context.Context, limit int) ([]domain.ServiceTypeUsage, error) {
	if s.popular != nil {
		return s.popular(ctx, limit)
	}
	return nil, nil
}

type stubCaseSvc struct {
	listPage func(context.Context, int, string, int, int) ([]domain.CaseView, int64, error)
	get      func(context.Context, int) (*domain.CaseView, error)
	create   func(context.Context, services.CreateCaseInput) (*domain.CaseView, error)
	update   func(context.Context, int, string) (*domain.CaseView, error)
	stats    func(context.Context) (*domain.CaseStats, []domain.ServiceTypeUsage, error)
}

func (s stubCaseSvc) ListPage(ctx context.Context, clientID int, q string, page, pageSize int) ([]domain.CaseView, int64, error) {
	if s.listPage != nil {
		return s.listPage(ctx, clientID, q, page, pageSize)
	}
	return nil, 0, nil
}

func (s stubCaseSvc) Get(ctx context.Context, id int) (*domain.CaseView, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.CaseView{ID: id}, nil
}

func (s stubCaseSvc) Create(ctx context.Context, in services.CreateCaseInput) (*domain.CaseView, error) {
	if s.create != nil {
		return s.create(ctx, in)
	}
	return &domain.CaseView{ID: 1, VehicleID: in.VehiculoID, ClientID: in.ClienteID}, nil
}

func (s stubCaseSvc) UpdateDescription(ctx context.Context, id int, d string) (*domain.CaseView, error) {
	if s.update != nil {
		return s.update(ctx, id, d)
	}
	return &domain.CaseView{ID: id, Description: d}, nil
}

func (s stubCaseSvc) Stats(ctx context.Context) (*domain.CaseStats, []domain.ServiceTypeUsage, error) {
	if s.stats != nil {
		return s.stats(ctx)
	}
	return &domain.CaseStats{}, nil, nil
}

type stubIntakeSvc struct {
	verify   func(context.Context, string, string) (*services.VerificationResult, error)
	register func(context.Context, services.RegisterInput) (*services.RegisterResult, error)
	bill     func(context.Context, services.BillInput) (*domain.BillView, error)
}

func (s stubIntakeSvc) Verify(ctx context.Context, phone, plate string) (*services.VerificationResult, error) {
	if s.verify != nil {
		return s.verify(ctx, phone, plate)
	}
	return &services.VerificationResult{}, nil
}

func (s stubIntakeSvc) Register(ctx context.Context, in services.RegisterInput) (*services.RegisterResult, error) {
	if s.register != nil {
		return s.register(ctx, in)
	}
	return &services.RegisterResult{}, nil
}

func (s stubIntakeSvc) CreateDiagnosticBill(ctx context.Context, in services.BillInput) (*domain.BillView, error) {
	if s.bill != nil {
		return s.bill(ctx, in)
	}
	return &domain.BillView{ID: 1}, nil
}

type stubStaffSvc struct {
	current   func(context.Context) (*domain.User, error)
	users     func(context.Context) ([]domain.User, error)
	mechanics func(context.Context) ([]domain.User, error)
}

func (s stubStaffSvc) Current(ctx context.Context) (*domain.User, error) {
	if s.current != nil {
		return s.current(ctx)
	}
	return &domain.User{ID: 1}, nil
}

func (s stubStaffSvc) Users(ctx context.Context) ([]domain.User, error) {
	if s.users != nil {
		return s.users(ctx)
	}
	return nil, nil
}

func (s stubStaffSvc) Mechanics(ctx context.Context) ([]domain.User, error) {
	if s.mechanics != nil {
		return s.mechanics(ctx)
	}
	return nil, nil
}

// newStubHandlers wires a Handlers with all-default stubs; tests replace the
// services they exercise.
func newStubHandlers() *Handlers {
	return New(stubClientSvc{}, stubVehicleSvc{}, stubCatalogSvc{}, stubTypeSvc{}, stubCaseSvc{}, stubIntakeSvc{}, stubStaffSvc{})
}

// perform runs one request against a router and returns the recorder.
func perform(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeEnvelope unmarshals a DataResponse body into a generic map.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v\n%s", err, w.Body.String())
	}
	return body
}

func init() {
	gin.SetMode(gin.TestMode)
}
