package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicaja/internal/dto"
	"clinicaja/internal/model"
	"clinicaja/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.ReporteCajaResponse, error)
	Cerrar(ctx context.Context, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error)
	ObtenerActiva(ctx context.Context, usuarioID uuid.UUID) (*dto.ReporteCajaResponse, error)
	ObtenerReporte(ctx context.Context, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error)
	Historial(ctx context.Context, page, limit int) (*dto.SesionListResponse, error)
	// Descuadres lists closed sessions whose |descuadre| exceeds the configured threshold.
	Descuadres(ctx context.Context) ([]dto.SesionListItem, error)
}

type cajaService struct {
	repo    repository.CajaRepository
	movRepo repository.MovimientoRepository
	umbral  decimal.Decimal
	auditor *Auditor
}

func NewCajaService(repo repository.CajaRepository, movRepo repository.MovimientoRepository, umbral decimal.Decimal, auditor *Auditor) CajaService {
	return &cajaService{repo: repo, movRepo: movRepo, umbral: umbral, auditor: auditor}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// recalcularTotales rebuilds the session totals from its movements and
// persists them. The balance is NEVER adjusted incrementally: every movement
// insert or state change recomputes it from scratch inside the same
// transaction, so the stored saldo always matches the sum of what is in the
// table. Cancelled movements remain in the sums together with their
// compensating entries; the pair nets to zero, which is what keeps a
// cancellation balance-neutral.
func recalcularTotales(tx *gorm.DB, cajaRepo repository.CajaRepository, movRepo repository.MovimientoRepository, sesion *model.SesionCaja) error {
	ingresos, egresos, err := movRepo.SumPorTipoTx(tx, sesion.ID)
	if err != nil {
		return err
	}
	sesion.TotalIngresos = ingresos
	sesion.TotalEgresos = egresos
	sesion.SaldoCalculado = sesion.MontoInicial.Add(ingresos).Sub(egresos)
	return cajaRepo.UpdateSesionTx(tx, sesion)
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.ReporteCajaResponse, error) {
	if req.MontoInicial.IsNegative() {
		return nil, ErrMontoInvalido
	}

	// Guard: at most one open session per operator
	if existing, err := s.repo.FindSesionAbiertaPorUsuario(ctx, usuarioID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrCajaDuplicada
	}

	sesion := &model.SesionCaja{
		UsuarioID:      usuarioID,
		MontoInicial:   req.MontoInicial,
		SaldoCalculado: req.MontoInicial,
		TotalIngresos:  decimal.Zero,
		TotalEgresos:   decimal.Zero,
		Estado:         model.SesionAbierta,
		Observaciones:  req.Observaciones,
		FechaApertura:  time.Now(),
	}
	if err := s.repo.CreateSesion(ctx, sesion); err != nil {
		return nil, err
	}

	s.auditor.Registrar(ctx, "sesion_caja", sesion.ID, "apertura",
		fmt.Sprintf("Apertura de caja con monto inicial %s", req.MontoInicial.StringFixed(2)),
		&usuarioID, nil, sesion)

	return sesionToReporte(sesion), nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// The close recomputes the balance from scratch under a row lock, then
// compares it against the physically counted amount. A descuadre never blocks
// the close: the session closes as counted, and anything above the configured
// threshold is flagged for later review (Descuadres). Justification and
// supervisor sign-off are recorded when supplied.

func (s *cajaService) Cerrar(ctx context.Context, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	if req.MontoDeclarado.IsNegative() {
		return nil, ErrMontoInvalido
	}

	var resp *dto.CierreCajaResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sesion, err := s.repo.FindSesionByIDTx(tx, sesionID)
		if err != nil {
			return errors.New("sesión de caja no encontrada")
		}
		if sesion.Estado != model.SesionAbierta {
			return ErrSesionYaCerrada
		}

		// Fresh recompute — the stored totals are not trusted at close time.
		if err := recalcularTotales(tx, s.repo, s.movRepo, sesion); err != nil {
			return err
		}

		descuadre := req.MontoDeclarado.Sub(sesion.SaldoCalculado)
		requiereRevision := descuadre.Abs().GreaterThan(s.umbral)

		if req.Justificacion != nil && *req.Justificacion != "" {
			sesion.JustificacionDescuadre = req.Justificacion
		}
		if req.AutorizadoPorID != nil {
			autorizadoPor, err := uuid.Parse(*req.AutorizadoPorID)
			if err != nil {
				return fmt.Errorf("autorizado_por_id inválido: %w", err)
			}
			sesion.AutorizadoPorID = &autorizadoPor
		}

		now := time.Now()
		montoDeclarado := req.MontoDeclarado
		sesion.MontoDeclarado = &montoDeclarado
		sesion.Descuadre = &descuadre
		sesion.Estado = model.SesionCerrada
		sesion.FechaCierre = &now

		if err := s.repo.UpdateSesionTx(tx, sesion); err != nil {
			return err
		}

		resp = &dto.CierreCajaResponse{
			SesionCajaID:     sesion.ID.String(),
			SaldoCalculado:   sesion.SaldoCalculado,
			MontoDeclarado:   montoDeclarado,
			Descuadre:        descuadre,
			RequiereRevision: requiereRevision,
			Estado:           string(model.SesionCerrada),
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.auditor.Registrar(ctx, "sesion_caja", sesionID, "cierre",
		fmt.Sprintf("Cierre de caja: declarado %s, descuadre %s", resp.MontoDeclarado.StringFixed(2), resp.Descuadre.StringFixed(2)),
		&usuarioID, nil, resp)

	return resp, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *cajaService) ObtenerActiva(ctx context.Context, usuarioID uuid.UUID) (*dto.ReporteCajaResponse, error) {
	sesion, err := s.repo.FindSesionAbiertaPorUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if sesion == nil {
		return nil, ErrSinCajaAbierta
	}
	return s.ObtenerReporte(ctx, sesion.ID)
}

func (s *cajaService) ObtenerReporte(ctx context.Context, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, errors.New("sesión de caja no encontrada")
	}
	reporte := sesionToReporte(sesion)
	for _, m := range sesion.Movimientos {
		reporte.Movimientos = append(reporte.Movimientos, *movimientoToResponse(&m))
	}
	return reporte, nil
}

func (s *cajaService) Historial(ctx context.Context, page, limit int) (*dto.SesionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	sesiones, total, err := s.repo.ListSesiones(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SesionListItem, len(sesiones))
	for i, ses := range sesiones {
		items[i] = *sesionToListItem(&ses)
	}
	return &dto.SesionListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *cajaService) Descuadres(ctx context.Context) ([]dto.SesionListItem, error) {
	sesiones, err := s.repo.ListDescuadres(ctx, s.umbral)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SesionListItem, len(sesiones))
	for i, ses := range sesiones {
		items[i] = *sesionToListItem(&ses)
	}
	return items, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func sesionToReporte(sesion *model.SesionCaja) *dto.ReporteCajaResponse {
	reporte := &dto.ReporteCajaResponse{
		SesionCajaID:   sesion.ID.String(),
		MontoInicial:   sesion.MontoInicial,
		TotalIngresos:  sesion.TotalIngresos,
		TotalEgresos:   sesion.TotalEgresos,
		SaldoCalculado: sesion.SaldoCalculado,
		MontoDeclarado: sesion.MontoDeclarado,
		Descuadre:      sesion.Descuadre,
		Estado:         string(sesion.Estado),
		Observaciones:  sesion.Observaciones,
		Justificacion:  sesion.JustificacionDescuadre,
		FechaApertura:  sesion.FechaApertura.Format("2006-01-02T15:04:05Z"),
	}
	if sesion.Usuario != nil {
		reporte.Usuario = sesion.Usuario.Nombre
	}
	if sesion.FechaCierre != nil {
		t := sesion.FechaCierre.Format("2006-01-02T15:04:05Z")
		reporte.FechaCierre = &t
	}
	return reporte
}

func sesionToListItem(sesion *model.SesionCaja) *dto.SesionListItem {
	item := &dto.SesionListItem{
		SesionCajaID:   sesion.ID.String(),
		MontoInicial:   sesion.MontoInicial,
		SaldoCalculado: sesion.SaldoCalculado,
		Descuadre:      sesion.Descuadre,
		Estado:         string(sesion.Estado),
		FechaApertura:  sesion.FechaApertura.Format("2006-01-02T15:04:05Z"),
	}
	if sesion.Usuario != nil {
		item.Usuario = sesion.Usuario.Nombre
	}
	if sesion.FechaCierre != nil {
		t := sesion.FechaCierre.Format("2006-01-02T15:04:05Z")
		item.FechaCierre = &t
	}
	return item
}
