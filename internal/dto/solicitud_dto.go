package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetalleSolicitudRequest struct {
	ServicioID    string `json:"servicio_id"    validate:"required,uuid"`
	ProfesionalID string `json:"profesional_id" validate:"required,uuid"`
	// PorcentajeComision overrides the professional/service rates for this
	// line; omitted means "resolve by fallback order at liquidation time".
	PorcentajeComision *decimal.Decimal `json:"porcentaje_comision" validate:"omitempty,min=0,max=100"`
	FechaServicio      string           `json:"fecha_servicio"      validate:"required,datetime=2006-01-02"`
}

type CrearSolicitudRequest struct {
	PacienteID string                    `json:"paciente_id" validate:"required,uuid"`
	Fecha      string                    `json:"fecha"       validate:"required,datetime=2006-01-02"`
	Detalles   []DetalleSolicitudRequest `json:"detalles"    validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleSolicitudResponse struct {
	ID                 string           `json:"id"`
	ServicioID         string           `json:"servicio_id"`
	Servicio           string           `json:"servicio,omitempty"`
	ProfesionalID      string           `json:"profesional_id"`
	Profesional        string           `json:"profesional,omitempty"`
	Precio             decimal.Decimal  `json:"precio"`
	PorcentajeComision *decimal.Decimal `json:"porcentaje_comision"`
	FechaServicio      string           `json:"fecha_servicio"`
}

type SolicitudResponse struct {
	ID         string                     `json:"id"`
	PacienteID string                     `json:"paciente_id"`
	Paciente   string                     `json:"paciente,omitempty"`
	Fecha      string                     `json:"fecha"`
	Detalles   []DetalleSolicitudResponse `json:"detalles"`
}
