package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Servicio is an entry in the medical service catalog.
type Servicio struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo string          `gorm:"uniqueIndex;not null"`
	Nombre string          `gorm:"not null"`
	Precio decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// PorcentajeComisionDefault is the catalog-level fallback commission rate,
	// last step of the resolution order; zero means "not configured".
	PorcentajeComisionDefault decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Activo                    bool            `gorm:"not null;default:true"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}
