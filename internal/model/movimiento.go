package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TipoMovimiento string

const (
	MovimientoIngreso TipoMovimiento = "ingreso"
	MovimientoEgreso  TipoMovimiento = "egreso"
)

// Invertido returns the opposite type, used for compensating entries.
func (t TipoMovimiento) Invertido() TipoMovimiento {
	if t == MovimientoIngreso {
		return MovimientoEgreso
	}
	return MovimientoIngreso
}

type CategoriaMovimiento string

const (
	CategoriaPagoServicio        CategoriaMovimiento = "pago_servicio"
	CategoriaPagoProveedor       CategoriaMovimiento = "pago_proveedor"
	CategoriaLiquidacionComision CategoriaMovimiento = "liquidacion_comision"
	CategoriaAjusteCaja          CategoriaMovimiento = "ajuste_caja"
	CategoriaDevolucionServicio  CategoriaMovimiento = "devolucion_servicio"
	CategoriaOtro                CategoriaMovimiento = "otro"
)

type EstadoMovimiento string

const (
	MovimientoActivo EstadoMovimiento = "activo"
	// cancelado: reversed on an open session via a compensating entry.
	MovimientoCancelado EstadoMovimiento = "cancelado"
	// anulado: audit-only void on a closed session, totals untouched.
	MovimientoAnulado EstadoMovimiento = "anulado"
)

// Movimiento is a single financial movement recorded against a session.
// Monto is always positive and immutable once created; cancellation never
// deletes or edits the row — it marks it cancelado and creates an
// inverse-type compensating movement pointing back via MovimientoOriginalID.
type Movimiento struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID `gorm:"type:uuid;not null;index"`

	Tipo      TipoMovimiento      `gorm:"type:varchar(10);not null"`
	Categoria CategoriaMovimiento `gorm:"type:varchar(30);not null"`
	Monto     decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Concepto  string              `gorm:"not null"`

	PacienteID         *uuid.UUID `gorm:"type:uuid"`
	ProfesionalID      *uuid.UUID `gorm:"type:uuid;index"`
	SolicitudID        *uuid.UUID `gorm:"type:uuid"`
	DetalleSolicitudID *uuid.UUID `gorm:"type:uuid"`
	// LiquidacionID is the claim stamp: set iff this movement is consumed by a
	// non-cancelled liquidation. Cleared when that liquidation is cancelled,
	// returning the movement to the liquidatable pool.
	LiquidacionID *uuid.UUID `gorm:"type:uuid;index"`
	// MovimientoOriginalID links a compensating entry to the movement it reverses.
	MovimientoOriginalID *uuid.UUID `gorm:"type:uuid;index"`

	Estado            EstadoMovimiento `gorm:"type:varchar(20);not null;default:'activo';index"`
	MotivoCancelacion *string
	CanceladoPorID    *uuid.UUID `gorm:"type:uuid"`
	CanceladoAt       *time.Time

	CreadoPorID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}
