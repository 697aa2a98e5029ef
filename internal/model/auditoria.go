package model

import (
	"time"

	"github.com/google/uuid"
)

// Auditoria is a best-effort audit trail row, persisted asynchronously by the
// worker pool. Audit failures never roll back the financial operation that
// produced them.
type Auditoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Entidad   string    `gorm:"type:varchar(50);not null;index"`
	EntidadID uuid.UUID `gorm:"type:uuid;not null;index"`
	Evento    string    `gorm:"type:varchar(50);not null"`
	// JSON snapshots of the entity before/after the event.
	ValoresAnteriores *string `gorm:"type:jsonb"`
	ValoresNuevos     *string `gorm:"type:jsonb"`
	Descripcion       string
	UsuarioID         *uuid.UUID `gorm:"type:uuid"`
	CreatedAt         time.Time
}
