package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearServicioRequest struct {
	Codigo                    string          `json:"codigo"                      validate:"required,min=2,max=30"`
	Nombre                    string          `json:"nombre"                      validate:"required,min=2,max=150"`
	Precio                    decimal.Decimal `json:"precio"                      validate:"required"`
	PorcentajeComisionDefault decimal.Decimal `json:"porcentaje_comision_default" validate:"min=0,max=100"`
}

type ActualizarServicioRequest struct {
	Nombre                    string           `json:"nombre"                      validate:"omitempty,min=2,max=150"`
	Precio                    *decimal.Decimal `json:"precio"`
	PorcentajeComisionDefault *decimal.Decimal `json:"porcentaje_comision_default" validate:"omitempty,min=0,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ServicioResponse struct {
	ID                        string          `json:"id"`
	Codigo                    string          `json:"codigo"`
	Nombre                    string          `json:"nombre"`
	Precio                    decimal.Decimal `json:"precio"`
	PorcentajeComisionDefault decimal.Decimal `json:"porcentaje_comision_default"`
	Activo                    bool            `json:"activo"`
}
