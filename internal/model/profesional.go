package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profesional is a clinic professional who renders services and earns
// commissions over them.
type Profesional struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"not null"`
	Apellido     string    `gorm:"not null"`
	Matricula    string    `gorm:"uniqueIndex;not null"`
	Especialidad *string
	Email        *string
	// PorcentajeComision is the professional's configured commission rate.
	// Second step of the resolution order; zero means "not configured".
	PorcentajeComision decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Activo             bool            `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
