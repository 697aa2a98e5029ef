package service

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"clinicaja/internal/dto"
	"clinicaja/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abrirSesion(t *testing.T, cajaSvc CajaService, usuarioID uuid.UUID, inicial string) uuid.UUID {
	t.Helper()
	resp, err := cajaSvc.Abrir(context.Background(), usuarioID, dto.AbrirCajaRequest{
		MontoInicial: decimal.RequireFromString(inicial),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.SesionCajaID)
}

func TestRegistrarMovimientoMontoNoPositivo(t *testing.T) {
	cajaSvc, movSvc, _, _ := newCajaFixture()
	usuarioID := uuid.New()
	sesionID := abrirSesion(t, cajaSvc, usuarioID, "100.00")

	for _, monto := range []string{"0", "-10.00"} {
		_, err := movSvc.Registrar(context.Background(), usuarioID, dto.RegistrarMovimientoRequest{
			SesionCajaID: sesionID.String(),
			Tipo:         "ingreso",
			Categoria:    "otro",
			Monto:        decimal.RequireFromString(monto),
			Concepto:     "Ajuste",
		})
		assert.ErrorIs(t, err, ErrMontoNoPositivo)
	}
}

func TestRegistrarMovimientoSesionCerrada(t *testing.T) {
	cajaSvc, movSvc, _, _ := newCajaFixture()
	usuarioID := uuid.New()
	sesionID := abrirSesion(t, cajaSvc, usuarioID, "100.00")

	_, err := cajaSvc.Cerrar(context.Background(), usuarioID, dto.CerrarCajaRequest{
		SesionCajaID:   sesionID.String(),
		MontoDeclarado: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	_, err = movSvc.Registrar(context.Background(), usuarioID, dto.RegistrarMovimientoRequest{
		SesionCajaID: sesionID.String(),
		Tipo:         "ingreso",
		Categoria:    "pago_servicio",
		Monto:        decimal.RequireFromString("50.00"),
		Concepto:     "Consulta clínica",
	})
	assert.ErrorIs(t, err, ErrSesionCerrada)
}

func TestCancelarMovimiento(t *testing.T) {
	cajaSvc, movSvc, cajaRepo, movRepo := newCajaFixture()
	usuarioID := uuid.New()
	sesionID := abrirSesion(t, cajaSvc, usuarioID, "100.00")

	mov, err := movSvc.Registrar(context.Background(), usuarioID, dto.RegistrarMovimientoRequest{
		SesionCajaID: sesionID.String(),
		Tipo:         "ingreso",
		Categoria:    "pago_servicio",
		Monto:        decimal.RequireFromString("250.00"),
		Concepto:     "Ecografía abdominal",
	})
	require.NoError(t, err)

	err = movSvc.Cancelar(context.Background(), uuid.MustParse(mov.ID), "Cobro duplicado", usuarioID)
	require.NoError(t, err)

	// The original row is marked cancelado, never deleted
	original, err := movRepo.FindByID(context.Background(), uuid.MustParse(mov.ID))
	require.NoError(t, err)
	assert.Equal(t, model.MovimientoCancelado, original.Estado)
	require.NotNil(t, original.MotivoCancelacion)
	assert.Equal(t, "Cobro duplicado", *original.MotivoCancelacion)

	// A compensating entry of the opposite type points back at it
	require.Len(t, movRepo.movs, 2)
	compensacion := movRepo.movs[1]
	assert.Equal(t, model.MovimientoEgreso, compensacion.Tipo)
	assert.Equal(t, model.CategoriaAjusteCaja, compensacion.Categoria)
	assert.Equal(t, "250", compensacion.Monto.String())
	assert.Equal(t, "Cancelación: Ecografía abdominal", compensacion.Concepto)
	require.NotNil(t, compensacion.MovimientoOriginalID)
	assert.Equal(t, original.ID, *compensacion.MovimientoOriginalID)
	assert.Equal(t, model.MovimientoActivo, compensacion.Estado)

	// Balance is back at the opening amount
	sesion, err := cajaRepo.FindSesionByID(context.Background(), sesionID)
	require.NoError(t, err)
	assert.Equal(t, "100", sesion.SaldoCalculado.String())
}

func TestCancelarMovimientoYaCancelado(t *testing.T) {
	cajaSvc, movSvc, _, _ := newCajaFixture()
	usuarioID := uuid.New()
	sesionID := abrirSesion(t, cajaSvc, usuarioID, "100.00")

	mov, err := movSvc.Registrar(context.Background(), usuarioID, dto.RegistrarMovimientoRequest{
		SesionCajaID: sesionID.String(),
		Tipo:         "ingreso",
		Categoria:    "pago_servicio",
		Monto:        decimal.RequireFromString("50.00"),
		Concepto:     "Consulta clínica",
	})
	require.NoError(t, err)

	require.NoError(t, movSvc.Cancelar(context.Background(), uuid.MustParse(mov.ID), "Error de carga", usuarioID))
	err = movSvc.Cancelar(context.Background(), uuid.MustParse(mov.ID), "Error de carga", usuarioID)
	assert.ErrorIs(t, err, ErrMovimientoCancelado)
}

func TestCancelarMovimientoLiquidado(t *testing.T) {
	cajaSvc, movSvc, _, movRepo := newCajaFixture()
	usuarioID := uuid.New()
	sesionID := abrirSesion(t, cajaSvc, usuarioID, "100.00")

	mov, err := movSvc.Registrar(context.Background(), usuarioID, dto.RegistrarMovimientoRequest{
		SesionCajaID: sesionID.String(),
		Tipo:         "ingreso",
		Categoria:    "pago_servicio",
		Monto:        decimal.RequireFromString("500.00"),
		Concepto:     "Sesión de kinesiología",
	})
	require.NoError(t, err)

	// Simulate a liquidation claim on the movement
	liqID := uuid.New()
	movRepo.movs[0].LiquidacionID = &liqID

	err = movSvc.Cancelar(context.Background(), uuid.MustParse(mov.ID), "Error de carga", usuarioID)
	assert.ErrorIs(t, err, ErrMovimientoLiquidado)
}

func TestCancelarMovimientoSesionCerrada(t *testing.T) {
	cajaSvc, movSvc, _, _ := newCajaFixture()
	usuarioID := uuid.New()
	sesionID := abrirSesion(t, cajaSvc, usuarioID, "100.00")

	mov, err := movSvc.Registrar(context.Background(), usuarioID, dto.RegistrarMovimientoRequest{
		SesionCajaID: sesionID.String(),
		Tipo:         "ingreso",
		Categoria:    "pago_servicio",
		Monto:        decimal.RequireFromString("50.00"),
		Concepto:     "Consulta clínica",
	})
	require.NoError(t, err)

	_, err = cajaSvc.Cerrar(context.Background(), usuarioID, dto.CerrarCajaRequest{
		SesionCajaID:   sesionID.String(),
		MontoDeclarado: decimal.RequireFromString("150.00"),
	})
	require.NoError(t, err)

	err = movSvc.Cancelar(context.Background(), uuid.MustParse(mov.ID), "Error de carga", usuarioID)
	assert.ErrorIs(t, err, ErrSesionCerrada)
}

func TestAnularMovimiento(t *testing.T) {
	cajaSvc, movSvc, cajaRepo, movRepo := newCajaFixture()
	usuarioID := uuid.New()
	sesionID := abrirSesion(t, cajaSvc, usuarioID, "100.00")

	mov, err := movSvc.Registrar(context.Background(), usuarioID, dto.RegistrarMovimientoRequest{
		SesionCajaID: sesionID.String(),
		Tipo:         "ingreso",
		Categoria:    "pago_servicio",
		Monto:        decimal.RequireFromString("200.00"),
		Concepto:     "Consulta clínica",
	})
	require.NoError(t, err)

	// Anulación only applies to movements of an already-closed session
	err = movSvc.Anular(context.Background(), uuid.MustParse(mov.ID), "Registro erróneo", usuarioID)
	assert.ErrorIs(t, err, ErrSesionNoCerrada)

	_, err = cajaSvc.Cerrar(context.Background(), usuarioID, dto.CerrarCajaRequest{
		SesionCajaID:   sesionID.String(),
		MontoDeclarado: decimal.RequireFromString("300.00"),
	})
	require.NoError(t, err)

	err = movSvc.Anular(context.Background(), uuid.MustParse(mov.ID), "Registro erróneo", usuarioID)
	require.NoError(t, err)

	anulado, err := movRepo.FindByID(context.Background(), uuid.MustParse(mov.ID))
	require.NoError(t, err)
	assert.Equal(t, model.MovimientoAnulado, anulado.Estado)

	// No compensating entry and no recompute: closed-session totals stay as at close time
	assert.Len(t, movRepo.movs, 1)
	sesion, err := cajaRepo.FindSesionByID(context.Background(), sesionID)
	require.NoError(t, err)
	assert.Equal(t, "300", sesion.SaldoCalculado.String())
	assert.Equal(t, "300", sesion.TotalIngresos.String())
}

// Random create/cancel sequences: after every operation the stored saldo must
// equal monto inicial + Σ ingresos − Σ egresos recomputed independently over
// the raw movement rows.
func TestSaldoInvarianteSecuenciaAleatoria(t *testing.T) {
	cajaSvc, movSvc, cajaRepo, movRepo := newCajaFixture()
	usuarioID := uuid.New()
	sesionID := abrirSesion(t, cajaSvc, usuarioID, "10000.00")

	rng := rand.New(rand.NewSource(42))
	var cancelables []uuid.UUID

	verificarSaldo := func(paso int) {
		sesion, err := cajaRepo.FindSesionByID(context.Background(), sesionID)
		require.NoError(t, err)
		esperado := sesion.MontoInicial
		for _, m := range movRepo.movs {
			if m.Estado == model.MovimientoAnulado {
				continue
			}
			if m.Tipo == model.MovimientoIngreso {
				esperado = esperado.Add(m.Monto)
			} else {
				esperado = esperado.Sub(m.Monto)
			}
		}
		require.True(t, sesion.SaldoCalculado.Equal(esperado),
			"paso %d: saldo %s, esperado %s", paso, sesion.SaldoCalculado, esperado)
	}

	for paso := 0; paso < 80; paso++ {
		if len(cancelables) > 0 && rng.Intn(4) == 0 {
			idx := rng.Intn(len(cancelables))
			err := movSvc.Cancelar(context.Background(), cancelables[idx], "Secuencia de prueba", usuarioID)
			require.NoError(t, err)
			cancelables = append(cancelables[:idx], cancelables[idx+1:]...)
		} else {
			tipo := "ingreso"
			if rng.Intn(2) == 0 {
				tipo = "egreso"
			}
			monto := decimal.NewFromInt(int64(rng.Intn(500) + 1))
			resp, err := movSvc.Registrar(context.Background(), usuarioID, dto.RegistrarMovimientoRequest{
				SesionCajaID: sesionID.String(),
				Tipo:         tipo,
				Categoria:    "otro",
				Monto:        monto,
				Concepto:     fmt.Sprintf("Movimiento de secuencia %d", paso),
			})
			require.NoError(t, err)
			cancelables = append(cancelables, uuid.MustParse(resp.ID))
		}
		verificarSaldo(paso)
	}
}

func TestListarMovimientosFiltrado(t *testing.T) {
	cajaSvc, movSvc, _, _ := newCajaFixture()
	usuarioID := uuid.New()
	sesionID := abrirSesion(t, cajaSvc, usuarioID, "100.00")

	for _, categoria := range []string{"pago_servicio", "pago_proveedor", "pago_servicio"} {
		tipo := "ingreso"
		if categoria == "pago_proveedor" {
			tipo = "egreso"
		}
		_, err := movSvc.Registrar(context.Background(), usuarioID, dto.RegistrarMovimientoRequest{
			SesionCajaID: sesionID.String(),
			Tipo:         tipo,
			Categoria:    categoria,
			Monto:        decimal.RequireFromString("10.00"),
			Concepto:     "Movimiento de prueba",
		})
		require.NoError(t, err)
	}

	resp, err := movSvc.Listar(context.Background(), dto.MovimientoFilter{
		SesionCajaID: &sesionID,
		Categoria:    "pago_servicio",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Len(t, resp.Data, 2)
}
