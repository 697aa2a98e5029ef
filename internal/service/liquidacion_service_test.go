package service

import (
	"context"
	"testing"
	"time"

	"clinicaja/internal/dto"
	"clinicaja/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type liqFixture struct {
	cajaSvc  CajaService
	movSvc   MovimientoService
	liqSvc   LiquidacionService
	cajaRepo *fakeCajaRepo
	movRepo  *fakeMovimientoRepo
	liqRepo  *fakeLiquidacionRepo
	solRepo  *fakeSolicitudRepo
	profRepo *fakeProfesionalRepo

	usuarioID   uuid.UUID
	sesionID    uuid.UUID
	profesional *model.Profesional
	paciente    uuid.UUID
	desde       string
	hasta       string
}

func newLiqFixture(t *testing.T) *liqFixture {
	t.Helper()

	f := &liqFixture{
		cajaRepo:  newFakeCajaRepo(),
		movRepo:   newFakeMovimientoRepo(),
		liqRepo:   newFakeLiquidacionRepo(),
		solRepo:   newFakeSolicitudRepo(),
		profRepo:  newFakeProfesionalRepo(),
		usuarioID: uuid.New(),
		paciente:  uuid.New(),
		desde:     time.Now().AddDate(0, 0, -1).Format("2006-01-02"),
		hasta:     time.Now().Format("2006-01-02"),
	}

	umbral := decimal.RequireFromString("10.00")
	f.cajaSvc = NewCajaService(f.cajaRepo, f.movRepo, umbral, nil)
	f.movSvc = NewMovimientoService(f.movRepo, f.cajaRepo, nil)
	f.liqSvc = NewLiquidacionService(f.liqRepo, f.movRepo, f.solRepo, f.profRepo, f.movSvc, nil, nil, "")

	f.profesional = &model.Profesional{
		Nombre:             "Laura",
		Apellido:           "Gutiérrez",
		Matricula:          "MP-1234",
		PorcentajeComision: decimal.RequireFromString("10.00"),
		Activo:             true,
	}
	require.NoError(t, f.profRepo.Create(context.Background(), f.profesional))
	f.liqRepo.profesionales[f.profesional.ID] = f.profesional

	f.sesionID = abrirSesion(t, f.cajaSvc, f.usuarioID, "1000.00")
	return f
}

// nuevoDetalle registers a solicitud with one service line for the fixture's
// professional and returns the detail, wired for commission resolution.
func (f *liqFixture) nuevoDetalle(t *testing.T, precio string, pctLinea *string) *model.DetalleSolicitud {
	t.Helper()

	servicio := &model.Servicio{
		ID:     uuid.New(),
		Codigo: "ECO-01",
		Nombre: "Ecografía",
		Precio: decimal.RequireFromString(precio),
		Activo: true,
	}

	detalle := model.DetalleSolicitud{
		ServicioID:    servicio.ID,
		ProfesionalID: f.profesional.ID,
		Precio:        servicio.Precio,
		FechaServicio: time.Now(),
		Servicio:      servicio,
		Profesional:   f.profesional,
	}
	if pctLinea != nil {
		pct := decimal.RequireFromString(*pctLinea)
		detalle.PorcentajeComision = &pct
	}

	sol := &model.SolicitudServicio{
		PacienteID:  f.paciente,
		Fecha:       time.Now(),
		CreadaPorID: f.usuarioID,
		Detalles:    []model.DetalleSolicitud{detalle},
	}
	require.NoError(t, f.solRepo.Create(context.Background(), sol))
	return &sol.Detalles[0]
}

// registrarPago records the patient's payment for a service line.
func (f *liqFixture) registrarPago(t *testing.T, detalle *model.DetalleSolicitud, monto string) *dto.MovimientoResponse {
	t.Helper()

	pacienteID := f.paciente.String()
	profesionalID := f.profesional.ID.String()
	solicitudID := detalle.SolicitudID.String()
	detalleID := detalle.ID.String()

	mov, err := f.movSvc.Registrar(context.Background(), f.usuarioID, dto.RegistrarMovimientoRequest{
		SesionCajaID:       f.sesionID.String(),
		Tipo:               "ingreso",
		Categoria:          "pago_servicio",
		Monto:              decimal.RequireFromString(monto),
		Concepto:           "Pago de servicio",
		PacienteID:         &pacienteID,
		ProfesionalID:      &profesionalID,
		SolicitudID:        &solicitudID,
		DetalleSolicitudID: &detalleID,
	})
	require.NoError(t, err)
	return mov
}

// ── Resolución de porcentaje ──────────────────────────────────────────────────

func TestResolverPorcentaje(t *testing.T) {
	pctLinea := decimal.RequireFromString("25.00")
	cero := decimal.Zero

	prof := &model.Profesional{PorcentajeComision: decimal.RequireFromString("10.00")}
	profSinPct := &model.Profesional{PorcentajeComision: decimal.Zero}
	srv := &model.Servicio{PorcentajeComisionDefault: decimal.RequireFromString("5.00")}
	srvSinPct := &model.Servicio{PorcentajeComisionDefault: decimal.Zero}

	// Line snapshot wins over everything
	pct, err := resolverPorcentaje(&model.DetalleSolicitud{PorcentajeComision: &pctLinea, Profesional: prof, Servicio: srv})
	require.NoError(t, err)
	assert.Equal(t, "25", pct.String())

	// Zero snapshot falls through to the professional rate
	pct, err = resolverPorcentaje(&model.DetalleSolicitud{PorcentajeComision: &cero, Profesional: prof, Servicio: srv})
	require.NoError(t, err)
	assert.Equal(t, "10", pct.String())

	// Professional at zero falls through to the catalog default
	pct, err = resolverPorcentaje(&model.DetalleSolicitud{Profesional: profSinPct, Servicio: srv})
	require.NoError(t, err)
	assert.Equal(t, "5", pct.String())

	// Nothing configured anywhere
	_, err = resolverPorcentaje(&model.DetalleSolicitud{Profesional: profSinPct, Servicio: srvSinPct})
	assert.ErrorIs(t, err, ErrComisionNoConfigurada)
}

// ── Previa ────────────────────────────────────────────────────────────────────

func TestCalcularPreviaMediaAritmetica(t *testing.T) {
	f := newLiqFixture(t)

	// 1000 at the professional's 10% and 500 at a 20% line snapshot:
	// commissions 100 + 100, mean percentage (10+20)/2 = 15 — NOT weighted.
	d1 := f.nuevoDetalle(t, "1000.00", nil)
	pct := "20.00"
	d2 := f.nuevoDetalle(t, "500.00", &pct)
	f.registrarPago(t, d1, "1000.00")
	f.registrarPago(t, d2, "500.00")

	resp, err := f.liqSvc.CalcularPrevia(context.Background(), dto.PreviaLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Resumen.TotalServicios)
	assert.Equal(t, "1500", resp.Resumen.MontoBruto.String())
	assert.Equal(t, "200", resp.Resumen.MontoComision.String())
	assert.Equal(t, "15", resp.Resumen.PorcentajePromedio.String())
	assert.Len(t, resp.Detalles, 2)
}

func TestCalcularPreviaSinServicios(t *testing.T) {
	f := newLiqFixture(t)

	_, err := f.liqSvc.CalcularPrevia(context.Background(), dto.PreviaLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	assert.ErrorIs(t, err, ErrSinServicios)
}

func TestCalcularPreviaComisionNoConfigurada(t *testing.T) {
	f := newLiqFixture(t)
	f.profesional.PorcentajeComision = decimal.Zero

	detalle := f.nuevoDetalle(t, "300.00", nil)
	detalle.Servicio.PorcentajeComisionDefault = decimal.Zero
	f.registrarPago(t, detalle, "300.00")

	_, err := f.liqSvc.CalcularPrevia(context.Background(), dto.PreviaLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	assert.ErrorIs(t, err, ErrComisionNoConfigurada)
}

func TestCalcularPreviaServicioInexistente(t *testing.T) {
	f := newLiqFixture(t)
	detalle := f.nuevoDetalle(t, "500.00", nil)
	mov := f.registrarPago(t, detalle, "500.00")

	// The professional's 10% would still resolve the percentage: a dangling
	// service must surface as corruption, never as a silent commission result.
	detalle.Servicio = nil

	_, err := f.liqSvc.CalcularPrevia(context.Background(), dto.PreviaLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	require.ErrorIs(t, err, ErrDatosInconsistentes)
	// The error names the offending movement
	assert.Contains(t, err.Error(), mov.ID)
}

func TestPeriodoInvalido(t *testing.T) {
	f := newLiqFixture(t)

	_, err := f.liqSvc.CalcularPrevia(context.Background(), dto.PreviaLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         "2026-08-10",
		Hasta:         "2026-08-01",
	})
	assert.Error(t, err)
}

func TestPeriodoHastaInclusivo(t *testing.T) {
	f := newLiqFixture(t)

	detalle := f.nuevoDetalle(t, "400.00", nil)
	f.registrarPago(t, detalle, "400.00")

	// Paid late on the hasta day: still inside the period
	hastaDia, _ := time.Parse("2006-01-02", f.hasta)
	f.movRepo.movs[0].CreatedAt = hastaDia.Add(23 * time.Hour)

	resp, err := f.liqSvc.CalcularPrevia(context.Background(), dto.PreviaLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Resumen.TotalServicios)

	// One second past midnight after hasta: outside
	f.movRepo.movs[0].CreatedAt = hastaDia.Add(24*time.Hour + time.Second)
	_, err = f.liqSvc.CalcularPrevia(context.Background(), dto.PreviaLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	assert.ErrorIs(t, err, ErrSinServicios)
}

// ── Generar ───────────────────────────────────────────────────────────────────

func TestGenerarLiquidacion(t *testing.T) {
	f := newLiqFixture(t)
	detalle := f.nuevoDetalle(t, "1000.00", nil)
	mov := f.registrarPago(t, detalle, "1000.00")

	resp, err := f.liqSvc.Generar(context.Background(), f.usuarioID, dto.GenerarLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	require.NoError(t, err)
	assert.Equal(t, "borrador", resp.Estado)
	assert.Equal(t, "100", resp.MontoComision.String())
	require.Len(t, resp.Detalles, 1)
	assert.Equal(t, mov.ID, resp.Detalles[0].MovimientoID)

	// The movement is now claimed
	claimed, err := f.movRepo.FindByID(context.Background(), uuid.MustParse(mov.ID))
	require.NoError(t, err)
	require.NotNil(t, claimed.LiquidacionID)
	assert.Equal(t, resp.ID, claimed.LiquidacionID.String())

	// A second liquidation over the same period finds nothing to liquidate
	_, err = f.liqSvc.Generar(context.Background(), f.usuarioID, dto.GenerarLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	assert.ErrorIs(t, err, ErrSinServicios)
}

func TestGenerarConflictoConcurrente(t *testing.T) {
	f := newLiqFixture(t)
	detalle := f.nuevoDetalle(t, "1000.00", nil)
	f.registrarPago(t, detalle, "1000.00")

	// Between candidate listing and the claim, another liquidation wins the row
	otra := uuid.New()
	f.movRepo.beforeClaim = func() {
		f.movRepo.movs[0].LiquidacionID = &otra
		f.movRepo.beforeClaim = nil
	}

	_, err := f.liqSvc.Generar(context.Background(), f.usuarioID, dto.GenerarLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	assert.ErrorIs(t, err, ErrConflictoLiquidacion)
}

func TestPagarConcurrente(t *testing.T) {
	f := newLiqFixture(t)
	detalle := f.nuevoDetalle(t, "1000.00", nil)
	f.registrarPago(t, detalle, "1000.00")

	liq, err := f.liqSvc.Generar(context.Background(), f.usuarioID, dto.GenerarLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	require.NoError(t, err)
	liqID := uuid.MustParse(liq.ID)
	_, err = f.liqSvc.Aprobar(context.Background(), liqID, f.usuarioID)
	require.NoError(t, err)

	// A concurrent payment commits just before this one acquires the row
	// lock: the in-transaction estado check must reject the second payout.
	f.liqRepo.beforeFindTx = func() {
		f.liqRepo.liqs[liqID].Estado = model.LiquidacionPagada
		f.liqRepo.beforeFindTx = nil
	}

	_, err = f.liqSvc.Pagar(context.Background(), liqID, f.usuarioID, dto.PagarLiquidacionRequest{
		SesionCajaID: f.sesionID.String(),
	})
	assert.ErrorIs(t, err, ErrLiquidacionNoAprobada)

	// No second payout egreso was recorded: only the original income exists
	assert.Len(t, f.movRepo.movs, 1)
}

func TestCancelarConcurrenteConPago(t *testing.T) {
	f := newLiqFixture(t)
	detalle := f.nuevoDetalle(t, "1000.00", nil)
	mov := f.registrarPago(t, detalle, "1000.00")

	liq, err := f.liqSvc.Generar(context.Background(), f.usuarioID, dto.GenerarLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	require.NoError(t, err)
	liqID := uuid.MustParse(liq.ID)
	_, err = f.liqSvc.Aprobar(context.Background(), liqID, f.usuarioID)
	require.NoError(t, err)

	// The payment wins the row first: the cancel must observe pagada and
	// leave the claims in place.
	f.liqRepo.beforeFindTx = func() {
		f.liqRepo.liqs[liqID].Estado = model.LiquidacionPagada
		f.liqRepo.beforeFindTx = nil
	}

	err = f.liqSvc.Cancelar(context.Background(), liqID, f.usuarioID)
	assert.ErrorIs(t, err, ErrLiquidacionPagada)

	claimed, err := f.movRepo.FindByID(context.Background(), uuid.MustParse(mov.ID))
	require.NoError(t, err)
	assert.NotNil(t, claimed.LiquidacionID)
}

// ── Ciclo de vida ─────────────────────────────────────────────────────────────

func TestCicloDeVidaLiquidacion(t *testing.T) {
	f := newLiqFixture(t)
	detalle := f.nuevoDetalle(t, "1000.00", nil)
	f.registrarPago(t, detalle, "1000.00")

	liq, err := f.liqSvc.Generar(context.Background(), f.usuarioID, dto.GenerarLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	require.NoError(t, err)
	liqID := uuid.MustParse(liq.ID)

	// Cannot pay a draft
	_, err = f.liqSvc.Pagar(context.Background(), liqID, f.usuarioID, dto.PagarLiquidacionRequest{
		SesionCajaID: f.sesionID.String(),
	})
	assert.ErrorIs(t, err, ErrLiquidacionNoAprobada)

	aprobada, err := f.liqSvc.Aprobar(context.Background(), liqID, f.usuarioID)
	require.NoError(t, err)
	assert.Equal(t, "aprobada", aprobada.Estado)

	// Approving twice fails
	_, err = f.liqSvc.Aprobar(context.Background(), liqID, f.usuarioID)
	assert.ErrorIs(t, err, ErrLiquidacionNoBorrador)

	pagada, err := f.liqSvc.Pagar(context.Background(), liqID, f.usuarioID, dto.PagarLiquidacionRequest{
		SesionCajaID: f.sesionID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "pagada", pagada.Estado)
	require.NotNil(t, pagada.MovimientoPagoID)

	// The payout is an ordinary egreso against the open session
	payout, err := f.movRepo.FindByID(context.Background(), uuid.MustParse(*pagada.MovimientoPagoID))
	require.NoError(t, err)
	assert.Equal(t, model.MovimientoEgreso, payout.Tipo)
	assert.Equal(t, model.CategoriaLiquidacionComision, payout.Categoria)
	assert.Equal(t, "100", payout.Monto.String())

	sesion, err := f.cajaRepo.FindSesionByID(context.Background(), f.sesionID)
	require.NoError(t, err)
	// 1000 inicial + 1000 pago − 100 comisión
	assert.Equal(t, "1900", sesion.SaldoCalculado.String())

	// A paid liquidation cannot be cancelled outright
	err = f.liqSvc.Cancelar(context.Background(), liqID, f.usuarioID)
	assert.ErrorIs(t, err, ErrLiquidacionPagada)

	revertida, err := f.liqSvc.RevertirPago(context.Background(), liqID, f.usuarioID, "Pago por monto incorrecto")
	require.NoError(t, err)
	assert.Equal(t, "aprobada", revertida.Estado)
	assert.Nil(t, revertida.MovimientoPagoID)

	// Payout reversed via compensating entry, balance restored
	payout, err = f.movRepo.FindByID(context.Background(), payout.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MovimientoCancelado, payout.Estado)
	sesion, err = f.cajaRepo.FindSesionByID(context.Background(), f.sesionID)
	require.NoError(t, err)
	assert.Equal(t, "2000", sesion.SaldoCalculado.String())

	// Reverting again fails
	_, err = f.liqSvc.RevertirPago(context.Background(), liqID, f.usuarioID, "Doble reversión")
	assert.ErrorIs(t, err, ErrLiquidacionNoPagada)

	// Cancelling releases the claimed movements back to the pool
	require.NoError(t, f.liqSvc.Cancelar(context.Background(), liqID, f.usuarioID))
	cancelada, err := f.liqSvc.ObtenerPorID(context.Background(), liqID)
	require.NoError(t, err)
	assert.Equal(t, "cancelada", cancelada.Estado)

	previa, err := f.liqSvc.CalcularPrevia(context.Background(), dto.PreviaLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, previa.Resumen.TotalServicios)

	// Cancelling twice fails
	err = f.liqSvc.Cancelar(context.Background(), liqID, f.usuarioID)
	assert.ErrorIs(t, err, ErrLiquidacionCancelada)
}

func TestComisionRedondeo(t *testing.T) {
	f := newLiqFixture(t)

	// 333.33 at 10% → 33.333 rounds to 33.33
	detalle := f.nuevoDetalle(t, "333.33", nil)
	f.registrarPago(t, detalle, "333.33")

	resp, err := f.liqSvc.CalcularPrevia(context.Background(), dto.PreviaLiquidacionRequest{
		ProfesionalID: f.profesional.ID.String(),
		Desde:         f.desde,
		Hasta:         f.hasta,
	})
	require.NoError(t, err)
	assert.Equal(t, "33.33", resp.Resumen.MontoComision.String())
}
