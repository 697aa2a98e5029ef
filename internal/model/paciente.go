package model

import (
	"time"

	"github.com/google/uuid"
)

// Paciente stores clinic patient demographics.
type Paciente struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Documento       string    `gorm:"uniqueIndex;not null"`
	Nombre          string    `gorm:"not null"`
	Apellido        string    `gorm:"not null"`
	FechaNacimiento *time.Time
	Telefono        *string
	Email           *string
	Direccion       *string
	Activo          bool `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
