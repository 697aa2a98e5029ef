package service

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP
// status codes; tests match them with errors.Is.
var (
	// caja
	ErrCajaDuplicada   = errors.New("ya existe una caja abierta para este operador")
	ErrSinCajaAbierta  = errors.New("no hay caja abierta para este operador")
	ErrSesionCerrada   = errors.New("la sesión de caja está cerrada")
	ErrSesionYaCerrada = errors.New("la sesión ya está cerrada")
	ErrSesionNoCerrada = errors.New("la sesión de caja todavía está abierta")
	ErrMontoInvalido   = errors.New("el monto debe ser mayor o igual a cero")
	ErrMontoNoPositivo = errors.New("el monto debe ser mayor a cero")

	// movimientos
	ErrMovimientoCancelado = errors.New("el movimiento ya está cancelado")
	ErrMovimientoAnulado   = errors.New("el movimiento ya está anulado")
	ErrMovimientoLiquidado = errors.New("el movimiento está consumido por una liquidación")

	// liquidaciones
	ErrSinServicios          = errors.New("no hay servicios pendientes de liquidar en el período")
	ErrComisionNoConfigurada = errors.New("sin porcentaje de comisión configurado para el servicio")
	ErrDatosInconsistentes   = errors.New("datos inconsistentes: el movimiento referencia un detalle o servicio inexistente")
	ErrLiquidacionNoBorrador = errors.New("la liquidación no está en borrador")
	ErrLiquidacionNoAprobada = errors.New("la liquidación no está aprobada")
	ErrLiquidacionNoPagada   = errors.New("la liquidación no está pagada")
	ErrPagoYaRevertido       = errors.New("el pago ya fue revertido")
	ErrLiquidacionPagada     = errors.New("no se puede cancelar una liquidación pagada: revertir el pago primero")
	ErrLiquidacionCancelada  = errors.New("la liquidación ya está cancelada")
	ErrConflictoLiquidacion  = errors.New("uno o más movimientos ya fueron tomados por otra liquidación")
)
