package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	MontoInicial  decimal.Decimal `json:"monto_inicial" validate:"min=0"`
	Observaciones *string         `json:"observaciones"`
}

type CerrarCajaRequest struct {
	SesionCajaID   string          `json:"sesion_caja_id" validate:"required,uuid"`
	MontoDeclarado decimal.Decimal `json:"monto_declarado" validate:"min=0"`
	Justificacion  *string         `json:"justificacion"`
	// AutorizadoPorID identifies the supervisor signing off a descuadre.
	AutorizadoPorID *string `json:"autorizado_por_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReporteCajaResponse struct {
	SesionCajaID   string               `json:"sesion_caja_id"`
	Usuario        string               `json:"usuario"`
	MontoInicial   decimal.Decimal      `json:"monto_inicial"`
	TotalIngresos  decimal.Decimal      `json:"total_ingresos"`
	TotalEgresos   decimal.Decimal      `json:"total_egresos"`
	SaldoCalculado decimal.Decimal      `json:"saldo_calculado"`
	MontoDeclarado *decimal.Decimal     `json:"monto_declarado"`
	Descuadre      *decimal.Decimal     `json:"descuadre"`
	Estado         string               `json:"estado"`
	Observaciones  *string              `json:"observaciones"`
	Justificacion  *string              `json:"justificacion"`
	FechaApertura  string               `json:"fecha_apertura"`
	FechaCierre    *string              `json:"fecha_cierre"`
	Movimientos    []MovimientoResponse `json:"movimientos,omitempty"`
}

type CierreCajaResponse struct {
	SesionCajaID   string          `json:"sesion_caja_id"`
	SaldoCalculado decimal.Decimal `json:"saldo_calculado"`
	MontoDeclarado decimal.Decimal `json:"monto_declarado"`
	Descuadre      decimal.Decimal `json:"descuadre"`
	// RequiereRevision marks a close whose |descuadre| exceeds the configured threshold.
	RequiereRevision bool   `json:"requiere_revision"`
	Estado           string `json:"estado"`
}

type SesionListResponse struct {
	Data  []SesionListItem `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type SesionListItem struct {
	SesionCajaID   string           `json:"sesion_caja_id"`
	Usuario        string           `json:"usuario"`
	MontoInicial   decimal.Decimal  `json:"monto_inicial"`
	SaldoCalculado decimal.Decimal  `json:"saldo_calculado"`
	Descuadre      *decimal.Decimal `json:"descuadre"`
	Estado         string           `json:"estado"`
	FechaApertura  string           `json:"fecha_apertura"`
	FechaCierre    *string          `json:"fecha_cierre"`
}
