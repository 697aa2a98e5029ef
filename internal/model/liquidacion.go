package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EstadoLiquidacion string

const (
	LiquidacionBorrador  EstadoLiquidacion = "borrador"
	LiquidacionAprobada  EstadoLiquidacion = "aprobada"
	LiquidacionPagada    EstadoLiquidacion = "pagada"
	LiquidacionCancelada EstadoLiquidacion = "cancelada"
)

// LiquidacionComision aggregates a professional's unliquidated service
// payments over a period into a payable commission.
//
// MontoComision always equals the sum of its detail MontoComision values.
// While pagada, MovimientoPagoID references the active egreso movement
// (categoria liquidacion_comision) that paid it out.
type LiquidacionComision struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProfesionalID uuid.UUID `gorm:"type:uuid;not null;index"`

	PeriodoDesde time.Time `gorm:"not null"`
	PeriodoHasta time.Time `gorm:"not null"`

	TotalServicios int             `gorm:"not null"`
	MontoBruto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// PorcentajePromedio is the arithmetic mean across services, not
	// amount-weighted.
	PorcentajePromedio decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	MontoComision      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Estado           EstadoLiquidacion `gorm:"type:varchar(20);not null;default:'borrador';index"`
	GeneradaPorID    uuid.UUID         `gorm:"type:uuid;not null"`
	AprobadaPorID    *uuid.UUID        `gorm:"type:uuid"`
	MovimientoPagoID *uuid.UUID        `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Profesional *Profesional         `gorm:"foreignKey:ProfesionalID"`
	Detalles    []DetalleLiquidacion `gorm:"foreignKey:LiquidacionID;constraint:OnDelete:CASCADE"`
}

// DetalleLiquidacion is one liquidated service payment. Immutable once
// created; removed only by cascading liquidation deletion.
type DetalleLiquidacion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LiquidacionID uuid.UUID `gorm:"type:uuid;not null;index"`

	DetalleSolicitudID uuid.UUID `gorm:"type:uuid;not null"`
	PacienteID         uuid.UUID `gorm:"type:uuid;not null"`
	ServicioID         uuid.UUID `gorm:"type:uuid;not null"`
	// MovimientoID is the original service-payment movement, not the payout.
	MovimientoID uuid.UUID `gorm:"type:uuid;not null"`

	FechaServicio time.Time       `gorm:"not null"`
	FechaPago     time.Time       `gorm:"not null"`
	MontoServicio decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// PorcentajeComision is the resolved rate actually applied to this line.
	PorcentajeComision decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	MontoComision      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time
}
