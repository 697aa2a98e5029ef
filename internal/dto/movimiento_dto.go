package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarMovimientoRequest struct {
	SesionCajaID string          `json:"sesion_caja_id" validate:"required,uuid"`
	Tipo         string          `json:"tipo"           validate:"required,oneof=ingreso egreso"`
	Categoria    string          `json:"categoria"      validate:"required,oneof=pago_servicio pago_proveedor liquidacion_comision ajuste_caja devolucion_servicio otro"`
	Monto        decimal.Decimal `json:"monto"          validate:"required"`
	Concepto     string          `json:"concepto"       validate:"required,min=3"`

	PacienteID         *string `json:"paciente_id"          validate:"omitempty,uuid"`
	ProfesionalID      *string `json:"profesional_id"       validate:"omitempty,uuid"`
	SolicitudID        *string `json:"solicitud_id"         validate:"omitempty,uuid"`
	DetalleSolicitudID *string `json:"detalle_solicitud_id" validate:"omitempty,uuid"`
}

type CancelarMovimientoRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type AnularMovimientoRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type MovimientoFilter struct {
	SesionCajaID  *uuid.UUID
	ProfesionalID *uuid.UUID
	Estado        string
	Categoria     string
	Page          int
	Limit         int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID                   string          `json:"id"`
	SesionCajaID         string          `json:"sesion_caja_id"`
	Tipo                 string          `json:"tipo"`
	Categoria            string          `json:"categoria"`
	Monto                decimal.Decimal `json:"monto"`
	Concepto             string          `json:"concepto"`
	Estado               string          `json:"estado"`
	PacienteID           *string         `json:"paciente_id,omitempty"`
	ProfesionalID        *string         `json:"profesional_id,omitempty"`
	SolicitudID          *string         `json:"solicitud_id,omitempty"`
	DetalleSolicitudID   *string         `json:"detalle_solicitud_id,omitempty"`
	LiquidacionID        *string         `json:"liquidacion_id,omitempty"`
	MovimientoOriginalID *string         `json:"movimiento_original_id,omitempty"`
	MotivoCancelacion    *string         `json:"motivo_cancelacion,omitempty"`
	CreatedAt            string          `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
