// Package domain defines the persistence models for the workshop database:
// clients, vehicles, the brand/model catalog, service types, cases with their
// service line items, diagnostic bills, and shop users. These types are mapped
// with GORM and form the core data layer of the application.
//
// The underlying schema predates this service (it is shared with other shop
// tooling), so every field carries an explicit legacy column name
// (idclients, fullname, nit, amaunt, ...) and every type pins its table name.
// JSON tags expose the Spanish field names the operator UI consumes.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is a shop customer. The nit column doubles as the phone/NIT lookup
// key used by the intake workflow; it is not guaranteed unique.
type Client struct {
	ID       int    `json:"id"        gorm:"column:idclients;primaryKey;autoIncrement"`
	FullName string `json:"nombre"    gorm:"column:fullname;type:varchar(255);not null"`
	Phone    string `json:"telefono"  gorm:"column:nit;type:varchar(32);not null;index:idx_clients_nit"`
	Address  string `json:"direccion" gorm:"column:address;type:varchar(255)"`
	Email    string `json:"email"     gorm:"column:contact;type:varchar(255)"`
}

// TableName returns the legacy table name for Client.
func (Client) TableName() string { return "clients" }

// Brand is a vehicle make, looked up case-insensitively by name and created
// on first use by the entity resolver. The unique index on name is what makes
// concurrent find-or-create safe: losers of the race get a constraint error
// and re-read the winner's row.
type Brand struct {
	ID          int    `json:"id"          gorm:"column:idbrands;primaryKey;autoIncrement"`
	Name        string `json:"nombre"      gorm:"column:name;type:varchar(128);not null;uniqueIndex:ux_brands_name"`
	Description string `json:"descripcion" gorm:"column:description;type:varchar(255)"`
}

// TableName returns the legacy table name for Brand.
func (Brand) TableName() string { return "brands" }

// Model is a vehicle model. Deliberately not related to Brand: the legacy
// schema keeps models as a flat catalog.
type Model struct {
	ID          int    `json:"id"          gorm:"column:idmodels;primaryKey;autoIncrement"`
	Name        string `json:"nombre"      gorm:"column:name;type:varchar(128);not null;uniqueIndex:ux_models_name"`
	Description string `json:"descripcion" gorm:"column:description;type:varchar(255)"`
}

// TableName returns the legacy table name for Model.
func (Model) TableName() string { return "models" }

// Vehicle belongs to a client and references the brand/model catalog.
// Plates are stored normalized (upper-case, trimmed) and the unique index
// enforces plate uniqueness at the store level.
type Vehicle struct {
	ID       int    `json:"id"        gorm:"column:idvehicles;primaryKey;autoIncrement"`
	BrandID  int    `json:"marcaId"   gorm:"column:id_brand;not null"`
	ModelID  int    `json:"modeloId"  gorm:"column:id_model;not null"`
	Plate    string `json:"placa"     gorm:"column:plate;type:varchar(16);not null;uniqueIndex:ux_vehicles_plate"`
	ClientID int    `json:"clienteId" gorm:"column:id_client;not null;index:idx_vehicles_client"`
	Notes    string `json:"notas"     gorm:"column:notes;type:varchar(512)"`

	Brand  Brand  `json:"-" gorm:"foreignKey:BrandID;references:ID"`
	Model  Model  `json:"-" gorm:"foreignKey:ModelID;references:ID"`
	Client Client `json:"-" gorm:"foreignKey:ClientID;references:ID"`
}

// TableName returns the legacy table name for Vehicle.
func (Vehicle) TableName() string { return "vehicles" }

// ServiceType is a catalog entry describing a billable offering. The optional
// inventory reference points into the shop inventory system, which this
// service does not manage.
type ServiceType struct {
	ID          int             `json:"id"          gorm:"column:idserviceTypes;primaryKey;autoIncrement"`
	InventoryID *int            `json:"inventoryId" gorm:"column:id_inventory"`
	Name        string          `json:"nombre"      gorm:"column:name;type:varchar(128);not null;uniqueIndex:ux_servicetypes_name"`
	Description string          `json:"descripcion" gorm:"column:description;type:varchar(255)"`
	Notes       *string         `json:"notas"       gorm:"column:notes;type:varchar(512)"`
	Price       decimal.Decimal `json:"precio"      gorm:"column:price;type:decimal(10,2);not null"`
}

// TableName returns the legacy table name for ServiceType.
func (ServiceType) TableName() string { return "serviceTypes" }

// Case is one vehicle's shop-visit record ("ingreso"). Created once per
// intake; only the description is ever updated afterwards. The bill reference
// is optional because walk-in cases may be billed later.
type Case struct {
	ID          int    `json:"id"          gorm:"column:idcases;primaryKey;autoIncrement"`
	VehicleID   int    `json:"vehiculoId"  gorm:"column:id_vehicle;not null;index:idx_cases_vehicle"`
	AgentID     int    `json:"agenteId"    gorm:"column:id_agent;not null"`
	BillID      *int   `json:"facturaId"   gorm:"column:id_bill"`
	Description string `json:"descripcion" gorm:"column:description;type:varchar(512)"`

	Vehicle Vehicle `json:"-" gorm:"foreignKey:VehicleID;references:ID"`
}

// TableName returns the legacy table name for Case.
func (Case) TableName() string { return "cases" }

// Service is a single service-type line item attached to a case. Technician
// is free text in the legacy schema (column "driven"), not a user reference.
type Service struct {
	ID            int    `json:"id"             gorm:"column:idservices;primaryKey;autoIncrement"`
	CaseID        int    `json:"casoId"         gorm:"column:id_case;not null;index:idx_services_case"`
	ServiceTypeID int    `json:"tipoServicioId" gorm:"column:id_serviceType;not null"`
	Technician    string `json:"tecnico"        gorm:"column:driven;type:varchar(128)"`
	Status        string `json:"estado"         gorm:"column:status;type:varchar(32)"`

	Case        Case        `json:"-" gorm:"foreignKey:CaseID;references:ID"`
	ServiceType ServiceType `json:"-" gorm:"foreignKey:ServiceTypeID;references:ID"`
}

// TableName returns the legacy table name for Service.
func (Service) TableName() string { return "services" }

// Bill is a diagnostic invoice for a client: a single lump amount with no
// line-item breakdown. The amount column name ("amaunt") is a long-standing
// typo in the shared schema and must stay.
type Bill struct {
	ID            int             `json:"id"            gorm:"column:idbills;primaryKey;autoIncrement"`
	ClientID      int             `json:"clienteId"     gorm:"column:id_client;not null;index:idx_bills_client"`
	Amount        decimal.Decimal `json:"monto"         gorm:"column:amaunt;type:decimal(10,2);not null"`
	PaymentMethod string          `json:"metodoPago"    gorm:"column:paymentMethod;type:varchar(32);not null"`
	CreationDate  time.Time       `json:"fechaCreacion" gorm:"column:creationDate;not null"`
	Status        int             `json:"estado"        gorm:"column:status;not null"`

	Client Client `json:"-" gorm:"foreignKey:ClientID;references:ID"`
}

// TableName returns the legacy table name for Bill.
func (Bill) TableName() string { return "bills" }

// User types as stored in the legacy users table.
const (
	UserTypeMechanic = "MECHANIC"
	UserTypeAdmin    = "ADMIN"
)

// User is a shop staff account. There is no authentication in this service;
// users exist so cases can reference an agent and bills a mechanic.
type User struct {
	ID          int    `json:"id"      gorm:"column:iduser;primaryKey;autoIncrement"`
	Username    string `json:"usuario" gorm:"column:username;type:varchar(64);not null"`
	DisplayName string `json:"nombre"  gorm:"column:displayname;type:varchar(128)"`
	Type        string `json:"tipo"    gorm:"column:type;type:varchar(32);not null;index:idx_users_type"`
}

// TableName returns the legacy table name for User.
func (User) TableName() string { return "users" }
