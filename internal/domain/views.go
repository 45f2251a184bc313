// Composite read models assembled by join queries in the repo layer.
// These are API-facing projections, not tables: the operator UI always wants
// vehicles with their brand/model/owner names and cases with the full
// vehicle/client/agent context, so the repo scans joins straight into them.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleView is a vehicle row joined with brand, model, and owner names.
type VehicleView struct {
	ID         int    `json:"id"`
	BrandID    int    `json:"marcaId"`
	Brand      string `json:"marca"`
	ModelID    int    `json:"modeloId"`
	Model      string `json:"modelo"`
	Plate      string `json:"placa"`
	Notes      string `json:"notas"`
	ClientID   int    `json:"clienteId"`
	ClientName string `json:"clienteNombre"`
}

// CaseView is a case row joined with vehicle, client, and agent display
// fields. Servicios is populated only on single-case reads.
type CaseView struct {
	ID          int           `json:"id"`
	VehicleID   int           `json:"vehiculoId"`
	AgentID     int           `json:"agenteId"`
	BillID      *int          `json:"facturaId"`
	Description string        `json:"descripcion"`
	Plate       string        `json:"vehiculoPlaca"`
	Brand       string        `json:"vehiculoMarca"`
	Model       string        `json:"vehiculoModelo"`
	ClientID    int           `json:"clienteId"`
	ClientName  string        `json:"clienteNombre"`
	ClientPhone string        `json:"clienteTelefono"`
	AgentName   string        `json:"agenteNombre"`
	Servicios   []ServiceView `json:"servicios,omitempty"`
}

// ServiceView is a case line item joined with its service-type name.
type ServiceView struct {
	ID          int    `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Technician  string `json:"tecnico"`
}

// BillView is a bill joined with client display fields, extended with the
// vehicle that was diagnosed when the bill came out of the intake workflow.
type BillView struct {
	ID            int             `json:"id"`
	Amount        decimal.Decimal `json:"monto"`
	PaymentMethod string          `json:"metodoPago"`
	CreationDate  time.Time       `json:"fechaCreacion"`
	Status        int             `json:"estado"`
	ClientName    string          `json:"clienteNombre"`
	ClientPhone   string          `json:"clienteTelefono"`
	Plate         string          `json:"vehiculoPlaca,omitempty"`
	Brand         string          `json:"vehiculoMarca,omitempty"`
	Model         string          `json:"vehiculoModelo,omitempty"`
}

// CaseStats aggregates the numbers behind GET /api/ingresos/estadisticas.
type CaseStats struct {
	TotalCases    int64 `json:"totalCasos"`
	BilledCases   int64 `json:"casosFacturados"`
	UnbilledCases int64 `json:"casosSinFactura"`
}

// ServiceTypeUsage is a service type ranked by how many case line items
// reference it.
type ServiceTypeUsage struct {
	ID          int             `json:"id"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	UsageCount  int64           `json:"usos"`
}
