package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SolicitudServicio groups the services requested for a patient in one visit.
type SolicitudServicio struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PacienteID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Fecha       time.Time `gorm:"not null"`
	CreadaPorID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time

	Paciente *Paciente          `gorm:"foreignKey:PacienteID"`
	Detalles []DetalleSolicitud `gorm:"foreignKey:SolicitudID"`
}

// DetalleSolicitud is one requested service line. Precio and
// PorcentajeComision are snapshots taken at creation time so later catalog or
// professional changes never alter historical commissions.
type DetalleSolicitud struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SolicitudID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ServicioID    uuid.UUID `gorm:"type:uuid;not null"`
	ProfesionalID uuid.UUID `gorm:"type:uuid;not null;index"`

	Precio decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// PorcentajeComision is the per-line snapshot, first step of the
	// resolution order. Nil or zero means "fall through".
	PorcentajeComision *decimal.Decimal `gorm:"type:decimal(5,2)"`
	FechaServicio      time.Time        `gorm:"not null"`

	Servicio    *Servicio    `gorm:"foreignKey:ServicioID"`
	Profesional *Profesional `gorm:"foreignKey:ProfesionalID"`
}
