package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicaja/internal/dto"
	"clinicaja/internal/infra"
	"clinicaja/internal/model"
	"clinicaja/internal/repository"
	"clinicaja/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LiquidacionService interface {
	// CalcularPrevia computes the would-be liquidation without persisting
	// anything: same pool, same resolution, same totals.
	CalcularPrevia(ctx context.Context, req dto.PreviaLiquidacionRequest) (*dto.PreviaLiquidacionResponse, error)
	Generar(ctx context.Context, usuarioID uuid.UUID, req dto.GenerarLiquidacionRequest) (*dto.LiquidacionResponse, error)
	Aprobar(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID) (*dto.LiquidacionResponse, error)
	Pagar(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, req dto.PagarLiquidacionRequest) (*dto.LiquidacionResponse, error)
	RevertirPago(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, motivo string) (*dto.LiquidacionResponse, error)
	Cancelar(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.LiquidacionResponse, error)
	Listar(ctx context.Context, filter dto.LiquidacionFilter) (*dto.LiquidacionListResponse, error)
}

type liquidacionService struct {
	repo            repository.LiquidacionRepository
	movRepo         repository.MovimientoRepository
	solicitudRepo   repository.SolicitudRepository
	profesionalRepo repository.ProfesionalRepository
	movimientos     MovimientoService
	auditor         *Auditor
	dispatcher      *worker.Dispatcher
	pdfStoragePath  string
}

func NewLiquidacionService(
	repo repository.LiquidacionRepository,
	movRepo repository.MovimientoRepository,
	solicitudRepo repository.SolicitudRepository,
	profesionalRepo repository.ProfesionalRepository,
	movimientos MovimientoService,
	auditor *Auditor,
	dispatcher *worker.Dispatcher,
	pdfStoragePath string,
) LiquidacionService {
	return &liquidacionService{
		repo:            repo,
		movRepo:         movRepo,
		solicitudRepo:   solicitudRepo,
		profesionalRepo: profesionalRepo,
		movimientos:     movimientos,
		auditor:         auditor,
		dispatcher:      dispatcher,
		pdfStoragePath:  pdfStoragePath,
	}
}

// ── Cálculo ───────────────────────────────────────────────────────────────────

// resolverPorcentaje applies the commission resolution order for one service
// line: per-line snapshot, then professional rate, then catalog default.
// Zero counts as "not configured" at every step.
func resolverPorcentaje(d *model.DetalleSolicitud) (decimal.Decimal, error) {
	if d.PorcentajeComision != nil && d.PorcentajeComision.IsPositive() {
		return *d.PorcentajeComision, nil
	}
	if d.Profesional != nil && d.Profesional.PorcentajeComision.IsPositive() {
		return d.Profesional.PorcentajeComision, nil
	}
	if d.Servicio != nil && d.Servicio.PorcentajeComisionDefault.IsPositive() {
		return d.Servicio.PorcentajeComisionDefault, nil
	}
	return decimal.Zero, ErrComisionNoConfigurada
}

// calcularDetalles builds the liquidation lines for the professional's
// unclaimed service payments in [desde, hastaExcl). Passing tx=nil reads from
// the live pool (previa mode).
func (s *liquidacionService) calcularDetalles(ctx context.Context, tx *gorm.DB, profesionalID uuid.UUID, desde, hastaExcl time.Time, solicitudes map[uuid.UUID]bool) ([]model.DetalleLiquidacion, []uuid.UUID, error) {
	movs, err := s.movRepo.ListCandidatosComisionTx(tx, profesionalID, desde, hastaExcl)
	if err != nil {
		return nil, nil, err
	}

	var detalles []model.DetalleLiquidacion
	var movIDs []uuid.UUID
	for _, m := range movs {
		if len(solicitudes) > 0 && (m.SolicitudID == nil || !solicitudes[*m.SolicitudID]) {
			continue
		}
		if m.DetalleSolicitudID == nil || m.PacienteID == nil {
			return nil, nil, fmt.Errorf("%w (movimiento %s)", ErrDatosInconsistentes, m.ID)
		}
		det, err := s.solicitudRepo.FindDetalleByID(ctx, *m.DetalleSolicitudID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w (movimiento %s)", ErrDatosInconsistentes, m.ID)
		}
		// A dangling service is corruption, not a configuration gap: detect it
		// even when the percentage would resolve from the line or the professional.
		if det.Servicio == nil {
			return nil, nil, fmt.Errorf("%w (movimiento %s)", ErrDatosInconsistentes, m.ID)
		}

		pct, err := resolverPorcentaje(det)
		if err != nil {
			return nil, nil, fmt.Errorf("%w (detalle %s)", err, det.ID)
		}
		comision := m.Monto.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)

		detalles = append(detalles, model.DetalleLiquidacion{
			DetalleSolicitudID: det.ID,
			PacienteID:         *m.PacienteID,
			ServicioID:         det.ServicioID,
			MovimientoID:       m.ID,
			FechaServicio:      det.FechaServicio,
			FechaPago:          m.CreatedAt,
			MontoServicio:      m.Monto,
			PorcentajeComision: pct,
			MontoComision:      comision,
		})
		movIDs = append(movIDs, m.ID)
	}

	if len(detalles) == 0 {
		return nil, nil, ErrSinServicios
	}
	return detalles, movIDs, nil
}

// resumen totals: gross, commission, and the arithmetic-mean percentage
// (NOT amount-weighted — kept for continuity with the printed receipts).
func resumirDetalles(detalles []model.DetalleLiquidacion) (bruto, comision, promedio decimal.Decimal) {
	sumaPct := decimal.Zero
	for _, d := range detalles {
		bruto = bruto.Add(d.MontoServicio)
		comision = comision.Add(d.MontoComision)
		sumaPct = sumaPct.Add(d.PorcentajeComision)
	}
	promedio = sumaPct.Div(decimal.NewFromInt(int64(len(detalles)))).Round(2)
	return bruto, comision, promedio
}

func parsePeriodo(desde, hasta string) (time.Time, time.Time, error) {
	d, err := time.Parse("2006-01-02", desde)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("desde inválido: %w", err)
	}
	h, err := time.Parse("2006-01-02", hasta)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("hasta inválido: %w", err)
	}
	if h.Before(d) {
		return time.Time{}, time.Time{}, errors.New("el período es inválido: hasta es anterior a desde")
	}
	return d, h, nil
}

// ── CalcularPrevia ────────────────────────────────────────────────────────────

func (s *liquidacionService) CalcularPrevia(ctx context.Context, req dto.PreviaLiquidacionRequest) (*dto.PreviaLiquidacionResponse, error) {
	profesionalID, err := uuid.Parse(req.ProfesionalID)
	if err != nil {
		return nil, fmt.Errorf("profesional_id inválido: %w", err)
	}
	desde, hasta, err := parsePeriodo(req.Desde, req.Hasta)
	if err != nil {
		return nil, err
	}

	detalles, _, err := s.calcularDetalles(ctx, nil, profesionalID, desde, hasta.Add(24*time.Hour), nil)
	if err != nil {
		return nil, err
	}
	bruto, comision, promedio := resumirDetalles(detalles)

	resp := &dto.PreviaLiquidacionResponse{
		ProfesionalID: req.ProfesionalID,
		Desde:         req.Desde,
		Hasta:         req.Hasta,
		Resumen: dto.ResumenLiquidacionResponse{
			TotalServicios:     len(detalles),
			MontoBruto:         bruto,
			PorcentajePromedio: promedio,
			MontoComision:      comision,
		},
	}
	for _, d := range detalles {
		resp.Detalles = append(resp.Detalles, *detalleToResponse(&d))
	}
	return resp, nil
}

// ── Generar ───────────────────────────────────────────────────────────────────
// Creates the draft and stamps its movements in one transaction. The stamp is
// a conditional UPDATE (liquidacion_id IS NULL): if a concurrent liquidation
// won any of the rows, the affected count comes up short and the whole
// transaction rolls back.

func (s *liquidacionService) Generar(ctx context.Context, usuarioID uuid.UUID, req dto.GenerarLiquidacionRequest) (*dto.LiquidacionResponse, error) {
	profesionalID, err := uuid.Parse(req.ProfesionalID)
	if err != nil {
		return nil, fmt.Errorf("profesional_id inválido: %w", err)
	}
	desde, hasta, err := parsePeriodo(req.Desde, req.Hasta)
	if err != nil {
		return nil, err
	}
	if _, err := s.profesionalRepo.FindByID(ctx, profesionalID); err != nil {
		return nil, errors.New("profesional no encontrado")
	}

	var solicitudes map[uuid.UUID]bool
	if len(req.SolicitudIDs) > 0 {
		solicitudes = make(map[uuid.UUID]bool, len(req.SolicitudIDs))
		for _, raw := range req.SolicitudIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("solicitud_id inválido: %w", err)
			}
			solicitudes[id] = true
		}
	}

	var liq model.LiquidacionComision
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		detalles, movIDs, err := s.calcularDetalles(ctx, tx, profesionalID, desde, hasta.Add(24*time.Hour), solicitudes)
		if err != nil {
			return err
		}
		bruto, comision, promedio := resumirDetalles(detalles)

		liq = model.LiquidacionComision{
			ProfesionalID:      profesionalID,
			PeriodoDesde:       desde,
			PeriodoHasta:       hasta,
			TotalServicios:     len(detalles),
			MontoBruto:         bruto,
			PorcentajePromedio: promedio,
			MontoComision:      comision,
			Estado:             model.LiquidacionBorrador,
			GeneradaPorID:      usuarioID,
			Detalles:           detalles,
		}
		if err := s.repo.CreateTx(tx, &liq); err != nil {
			return err
		}

		afectados, err := s.movRepo.ClaimLiquidacionTx(tx, movIDs, liq.ID)
		if err != nil {
			return err
		}
		if afectados != int64(len(movIDs)) {
			return ErrConflictoLiquidacion
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.auditor.Registrar(ctx, "liquidacion", liq.ID, "generacion",
		fmt.Sprintf("Liquidación generada: %d servicios, comisión %s", liq.TotalServicios, liq.MontoComision.StringFixed(2)),
		&usuarioID, nil, liq)

	return s.ObtenerPorID(ctx, liq.ID)
}

// ── Aprobar ───────────────────────────────────────────────────────────────────
// Every estado transition loads the row under FOR UPDATE and re-checks the
// estado inside the transaction: two concurrent transitions serialize on the
// lock and the loser fails the check.

func (s *liquidacionService) Aprobar(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID) (*dto.LiquidacionResponse, error) {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		liq, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return errors.New("liquidación no encontrada")
		}
		if liq.Estado != model.LiquidacionBorrador {
			return ErrLiquidacionNoBorrador
		}
		liq.Estado = model.LiquidacionAprobada
		liq.AprobadaPorID = &usuarioID
		return s.repo.UpdateTx(tx, liq)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.auditor.Registrar(ctx, "liquidacion", id, "aprobacion", "Liquidación aprobada", &usuarioID, nil, nil)
	return s.ObtenerPorID(ctx, id)
}

// ── Pagar ─────────────────────────────────────────────────────────────────────
// The payout is an ordinary egreso movement against an open session, created
// inside the same transaction that marks the liquidation pagada. The receipt
// PDF and the notification email are best-effort, after commit.

func (s *liquidacionService) Pagar(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, req dto.PagarLiquidacionRequest) (*dto.LiquidacionResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}

	var liq *model.LiquidacionComision
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		liq, err = s.repo.FindByIDTx(tx, id)
		if err != nil {
			return errors.New("liquidación no encontrada")
		}
		if liq.Estado != model.LiquidacionAprobada {
			return ErrLiquidacionNoAprobada
		}

		concepto := fmt.Sprintf("Liquidación comisión %s a %s", liq.PeriodoDesde.Format("2006-01-02"), liq.PeriodoHasta.Format("2006-01-02"))
		if liq.Profesional != nil {
			concepto = fmt.Sprintf("Liquidación comisión %s %s — %s a %s",
				liq.Profesional.Nombre, liq.Profesional.Apellido,
				liq.PeriodoDesde.Format("2006-01-02"), liq.PeriodoHasta.Format("2006-01-02"))
		}

		profesionalID := liq.ProfesionalID
		mov, err := s.movimientos.RegistrarEnTx(tx, MovimientoParams{
			SesionCajaID:  sesionID,
			Tipo:          model.MovimientoEgreso,
			Categoria:     model.CategoriaLiquidacionComision,
			Monto:         liq.MontoComision,
			Concepto:      concepto,
			ProfesionalID: &profesionalID,
			CreadoPorID:   usuarioID,
		})
		if err != nil {
			return err
		}
		liq.Estado = model.LiquidacionPagada
		liq.MovimientoPagoID = &mov.ID
		return s.repo.UpdateTx(tx, liq)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.auditor.Registrar(ctx, "liquidacion", id, "pago",
		fmt.Sprintf("Pago de comisión por %s", liq.MontoComision.StringFixed(2)), &usuarioID, nil, nil)

	s.emitirRecibo(ctx, liq)

	return s.ObtenerPorID(ctx, id)
}

// emitirRecibo generates the receipt PDF and enqueues the notification email.
// Both are best-effort: a failure here never undoes a committed payment.
func (s *liquidacionService) emitirRecibo(ctx context.Context, liq *model.LiquidacionComision) {
	if s.pdfStoragePath == "" {
		return
	}
	pdfPath, err := infra.GenerateReciboPDF(liq, s.pdfStoragePath)
	if err != nil {
		log.Warn().Err(err).Str("liquidacion_id", liq.ID.String()).Msg("liquidacion: PDF generation failed")
		return
	}
	if s.dispatcher == nil || liq.Profesional == nil || liq.Profesional.Email == nil || *liq.Profesional.Email == "" {
		return
	}
	job := worker.EmailJobPayload{
		ToEmail: *liq.Profesional.Email,
		Subject: fmt.Sprintf("Recibo de liquidación — %s a %s", liq.PeriodoDesde.Format("2006-01-02"), liq.PeriodoHasta.Format("2006-01-02")),
		Body:    fmt.Sprintf("Adjunto encontrará el recibo de su liquidación de comisiones.\nTotal: $%s", liq.MontoComision.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := s.dispatcher.EnqueueEmail(ctx, job); err != nil {
		log.Warn().Err(err).Str("liquidacion_id", liq.ID.String()).Msg("liquidacion: failed to enqueue email")
	}
}

// ── RevertirPago ──────────────────────────────────────────────────────────────
// Reverses the payout movement (compensating entry, session must still be
// open) and returns the liquidation to aprobada, ready to be paid again.

func (s *liquidacionService) RevertirPago(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, motivo string) (*dto.LiquidacionResponse, error) {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		liq, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return errors.New("liquidación no encontrada")
		}
		if liq.Estado != model.LiquidacionPagada {
			return ErrLiquidacionNoPagada
		}
		if liq.MovimientoPagoID == nil {
			return ErrPagoYaRevertido
		}
		if err := s.movimientos.CancelarEnTx(tx, *liq.MovimientoPagoID, motivo, usuarioID); err != nil {
			return err
		}
		liq.Estado = model.LiquidacionAprobada
		liq.MovimientoPagoID = nil
		return s.repo.UpdateTx(tx, liq)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.auditor.Registrar(ctx, "liquidacion", id, "reversion_pago",
		fmt.Sprintf("Reversión de pago: %s", motivo), &usuarioID, nil, nil)
	return s.ObtenerPorID(ctx, id)
}

// ── Cancelar ──────────────────────────────────────────────────────────────────
// Cancelling releases every claimed movement back to the liquidatable pool.
// A paid liquidation cannot be cancelled directly: the money already left the
// register, so the payment must be reverted first.

func (s *liquidacionService) Cancelar(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID) error {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		liq, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return errors.New("liquidación no encontrada")
		}
		switch liq.Estado {
		case model.LiquidacionPagada:
			return ErrLiquidacionPagada
		case model.LiquidacionCancelada:
			return ErrLiquidacionCancelada
		}
		if err := s.movRepo.UnclaimLiquidacionTx(tx, liq.ID); err != nil {
			return err
		}
		liq.Estado = model.LiquidacionCancelada
		return s.repo.UpdateTx(tx, liq)
	})
	if txErr != nil {
		return txErr
	}

	s.auditor.Registrar(ctx, "liquidacion", id, "cancelacion", "Liquidación cancelada", &usuarioID, nil, nil)
	return nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *liquidacionService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.LiquidacionResponse, error) {
	liq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("liquidación no encontrada")
	}
	resp := liquidacionToResponse(liq)
	for _, d := range liq.Detalles {
		resp.Detalles = append(resp.Detalles, *detalleToResponse(&d))
	}
	return resp, nil
}

func (s *liquidacionService) Listar(ctx context.Context, filter dto.LiquidacionFilter) (*dto.LiquidacionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	liqs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LiquidacionResponse, len(liqs))
	for i, l := range liqs {
		items[i] = *liquidacionToResponse(&l)
	}
	return &dto.LiquidacionListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func liquidacionToResponse(l *model.LiquidacionComision) *dto.LiquidacionResponse {
	resp := &dto.LiquidacionResponse{
		ID:                 l.ID.String(),
		ProfesionalID:      l.ProfesionalID.String(),
		PeriodoDesde:       l.PeriodoDesde.Format("2006-01-02"),
		PeriodoHasta:       l.PeriodoHasta.Format("2006-01-02"),
		TotalServicios:     l.TotalServicios,
		MontoBruto:         l.MontoBruto,
		PorcentajePromedio: l.PorcentajePromedio,
		MontoComision:      l.MontoComision,
		Estado:             string(l.Estado),
		MovimientoPagoID:   uuidPtrToString(l.MovimientoPagoID),
		CreatedAt:          l.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if l.Profesional != nil {
		resp.Profesional = fmt.Sprintf("%s %s", l.Profesional.Nombre, l.Profesional.Apellido)
	}
	return resp
}

func detalleToResponse(d *model.DetalleLiquidacion) *dto.DetalleLiquidacionResponse {
	return &dto.DetalleLiquidacionResponse{
		DetalleSolicitudID: d.DetalleSolicitudID.String(),
		PacienteID:         d.PacienteID.String(),
		ServicioID:         d.ServicioID.String(),
		MovimientoID:       d.MovimientoID.String(),
		FechaServicio:      d.FechaServicio.Format("2006-01-02"),
		FechaPago:          d.FechaPago.Format("2006-01-02T15:04:05Z"),
		MontoServicio:      d.MontoServicio,
		PorcentajeComision: d.PorcentajeComision,
		MontoComision:      d.MontoComision,
	}
}
