package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProfesionalRequest struct {
	Nombre             string          `json:"nombre"              validate:"required,min=2,max=100"`
	Apellido           string          `json:"apellido"            validate:"required,min=2,max=100"`
	Matricula          string          `json:"matricula"           validate:"required,min=2,max=30"`
	Especialidad       *string         `json:"especialidad"`
	Email              *string         `json:"email"               validate:"omitempty,email"`
	PorcentajeComision decimal.Decimal `json:"porcentaje_comision" validate:"min=0,max=100"`
}

type ActualizarProfesionalRequest struct {
	Nombre             string           `json:"nombre"              validate:"omitempty,min=2,max=100"`
	Apellido           string           `json:"apellido"            validate:"omitempty,min=2,max=100"`
	Especialidad       *string          `json:"especialidad"`
	Email              *string          `json:"email"               validate:"omitempty,email"`
	PorcentajeComision *decimal.Decimal `json:"porcentaje_comision" validate:"omitempty,min=0,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProfesionalResponse struct {
	ID                 string          `json:"id"`
	Nombre             string          `json:"nombre"`
	Apellido           string          `json:"apellido"`
	Matricula          string          `json:"matricula"`
	Especialidad       *string         `json:"especialidad"`
	Email              *string         `json:"email"`
	PorcentajeComision decimal.Decimal `json:"porcentaje_comision"`
	Activo             bool            `json:"activo"`
}
