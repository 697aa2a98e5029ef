package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EstadoSesion string

const (
	SesionAbierta EstadoSesion = "abierta"
	SesionCerrada EstadoSesion = "cerrada"
)

// SesionCaja represents one operator's bounded period of cash-register
// activity, from apertura to cierre. At most one open session per operator.
//
// SaldoCalculado, TotalIngresos and TotalEgresos are NEVER mutated directly:
// they are recomputed from the movements after every movement insert or
// status change (see service.recalcularTotales). Closed sessions are immutable
// except for the audit-only anulación of individual movements.
type SesionCaja struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null;index"`

	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MontoDeclarado is the physically counted amount, set at close.
	MontoDeclarado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SaldoCalculado decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	TotalIngresos  decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	TotalEgresos   decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	// Descuadre = MontoDeclarado − SaldoCalculado, set at close.
	Descuadre *decimal.Decimal `gorm:"type:decimal(12,2)"`

	Estado                 EstadoSesion `gorm:"type:varchar(20);not null;default:'abierta';index"`
	Observaciones          *string
	JustificacionDescuadre *string
	// AutorizadoPorID is the supervisor who signed off a close with descuadre.
	AutorizadoPorID *uuid.UUID `gorm:"type:uuid"`

	FechaApertura time.Time
	FechaCierre   *time.Time

	Usuario     *Usuario     `gorm:"foreignKey:UsuarioID"`
	Movimientos []Movimiento `gorm:"foreignKey:SesionCajaID"`
}
