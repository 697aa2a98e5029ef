package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PreviaLiquidacionRequest struct {
	ProfesionalID string `json:"profesional_id" validate:"required,uuid"`
	Desde         string `json:"desde"          validate:"required,datetime=2006-01-02"`
	Hasta         string `json:"hasta"          validate:"required,datetime=2006-01-02"`
}

type GenerarLiquidacionRequest struct {
	ProfesionalID string `json:"profesional_id" validate:"required,uuid"`
	Desde         string `json:"desde"          validate:"required,datetime=2006-01-02"`
	Hasta         string `json:"hasta"          validate:"required,datetime=2006-01-02"`
	// SolicitudIDs optionally restricts the liquidation to specific solicitudes.
	SolicitudIDs []string `json:"solicitud_ids" validate:"omitempty,dive,uuid"`
}

type PagarLiquidacionRequest struct {
	SesionCajaID string `json:"sesion_caja_id" validate:"required,uuid"`
}

type RevertirPagoRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type LiquidacionFilter struct {
	ProfesionalID *uuid.UUID
	Estado        string
	Page          int
	Limit         int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleLiquidacionResponse struct {
	DetalleSolicitudID string          `json:"detalle_solicitud_id"`
	PacienteID         string          `json:"paciente_id"`
	ServicioID         string          `json:"servicio_id"`
	MovimientoID       string          `json:"movimiento_id"`
	FechaServicio      string          `json:"fecha_servicio"`
	FechaPago          string          `json:"fecha_pago"`
	MontoServicio      decimal.Decimal `json:"monto_servicio"`
	PorcentajeComision decimal.Decimal `json:"porcentaje_comision"`
	MontoComision      decimal.Decimal `json:"monto_comision"`
}

type ResumenLiquidacionResponse struct {
	TotalServicios int             `json:"total_servicios"`
	MontoBruto     decimal.Decimal `json:"monto_bruto"`
	// PorcentajePromedio is the arithmetic mean across services.
	PorcentajePromedio decimal.Decimal `json:"porcentaje_promedio"`
	MontoComision      decimal.Decimal `json:"monto_comision"`
}

type PreviaLiquidacionResponse struct {
	ProfesionalID string                       `json:"profesional_id"`
	Desde         string                       `json:"desde"`
	Hasta         string                       `json:"hasta"`
	Detalles      []DetalleLiquidacionResponse `json:"detalles"`
	Resumen       ResumenLiquidacionResponse   `json:"resumen"`
}

type LiquidacionResponse struct {
	ID                 string                       `json:"id"`
	ProfesionalID      string                       `json:"profesional_id"`
	Profesional        string                       `json:"profesional,omitempty"`
	PeriodoDesde       string                       `json:"periodo_desde"`
	PeriodoHasta       string                       `json:"periodo_hasta"`
	TotalServicios     int                          `json:"total_servicios"`
	MontoBruto         decimal.Decimal              `json:"monto_bruto"`
	PorcentajePromedio decimal.Decimal              `json:"porcentaje_promedio"`
	MontoComision      decimal.Decimal              `json:"monto_comision"`
	Estado             string                       `json:"estado"`
	MovimientoPagoID   *string                      `json:"movimiento_pago_id,omitempty"`
	Detalles           []DetalleLiquidacionResponse `json:"detalles,omitempty"`
	CreatedAt          string                       `json:"created_at"`
}

type LiquidacionListResponse struct {
	Data  []LiquidacionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
