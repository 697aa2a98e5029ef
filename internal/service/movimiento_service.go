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

type MovimientoService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error)
	Cancelar(ctx context.Context, movimientoID uuid.UUID, motivo string, usuarioID uuid.UUID) error
	Anular(ctx context.Context, movimientoID uuid.UUID, motivo string, usuarioID uuid.UUID) error
	Obtener(ctx context.Context, movimientoID uuid.UUID) (*dto.MovimientoResponse, error)
	Listar(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)

	// RegistrarEnTx and CancelarEnTx are the composition hooks used by
	// LiquidacionService to create and reverse commission payouts inside its
	// own transaction.
	RegistrarEnTx(tx *gorm.DB, p MovimientoParams) (*model.Movimiento, error)
	CancelarEnTx(tx *gorm.DB, movimientoID uuid.UUID, motivo string, usuarioID uuid.UUID) error
}

// MovimientoParams carries a fully-resolved movement, ready for insertion.
type MovimientoParams struct {
	SesionCajaID       uuid.UUID
	Tipo               model.TipoMovimiento
	Categoria          model.CategoriaMovimiento
	Monto              decimal.Decimal
	Concepto           string
	PacienteID         *uuid.UUID
	ProfesionalID      *uuid.UUID
	SolicitudID        *uuid.UUID
	DetalleSolicitudID *uuid.UUID
	CreadoPorID        uuid.UUID
}

type movimientoService struct {
	repo     repository.MovimientoRepository
	cajaRepo repository.CajaRepository
	auditor  *Auditor
}

func NewMovimientoService(repo repository.MovimientoRepository, cajaRepo repository.CajaRepository, auditor *Auditor) MovimientoService {
	return &movimientoService{repo: repo, cajaRepo: cajaRepo, auditor: auditor}
}

// ── Registrar ─────────────────────────────────────────────────────────────────

func (s *movimientoService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}

	params := MovimientoParams{
		SesionCajaID: sesionID,
		Tipo:         model.TipoMovimiento(req.Tipo),
		Categoria:    model.CategoriaMovimiento(req.Categoria),
		Monto:        req.Monto,
		Concepto:     req.Concepto,
		CreadoPorID:  usuarioID,
	}
	if params.PacienteID, err = parseOptionalUUID(req.PacienteID, "paciente_id"); err != nil {
		return nil, err
	}
	if params.ProfesionalID, err = parseOptionalUUID(req.ProfesionalID, "profesional_id"); err != nil {
		return nil, err
	}
	if params.SolicitudID, err = parseOptionalUUID(req.SolicitudID, "solicitud_id"); err != nil {
		return nil, err
	}
	if params.DetalleSolicitudID, err = parseOptionalUUID(req.DetalleSolicitudID, "detalle_solicitud_id"); err != nil {
		return nil, err
	}

	var mov *model.Movimiento
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		mov, err = s.RegistrarEnTx(tx, params)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.auditor.Registrar(ctx, "movimiento", mov.ID, "registro",
		fmt.Sprintf("%s de %s por %s", mov.Tipo, mov.Monto.StringFixed(2), mov.Categoria),
		&usuarioID, nil, mov)

	return movimientoToResponse(mov), nil
}

// RegistrarEnTx inserts one movement against an open session and rebuilds the
// session totals, all under the session row lock.
func (s *movimientoService) RegistrarEnTx(tx *gorm.DB, p MovimientoParams) (*model.Movimiento, error) {
	if !p.Monto.IsPositive() {
		return nil, ErrMontoNoPositivo
	}

	sesion, err := s.cajaRepo.FindSesionByIDTx(tx, p.SesionCajaID)
	if err != nil {
		return nil, errors.New("sesión de caja no encontrada")
	}
	if sesion.Estado != model.SesionAbierta {
		return nil, ErrSesionCerrada
	}

	mov := &model.Movimiento{
		SesionCajaID:       p.SesionCajaID,
		Tipo:               p.Tipo,
		Categoria:          p.Categoria,
		Monto:              p.Monto,
		Concepto:           p.Concepto,
		PacienteID:         p.PacienteID,
		ProfesionalID:      p.ProfesionalID,
		SolicitudID:        p.SolicitudID,
		DetalleSolicitudID: p.DetalleSolicitudID,
		Estado:             model.MovimientoActivo,
		CreadoPorID:        p.CreadoPorID,
	}
	if err := s.repo.CreateTx(tx, mov); err != nil {
		return nil, err
	}

	if err := recalcularTotales(tx, s.cajaRepo, s.repo, sesion); err != nil {
		return nil, err
	}
	return mov, nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────
// Cancellation is only valid while the session is open. The original row is
// never edited beyond its estado: a compensating movement of the opposite
// type restores the balance, and the recompute picks both up.

func (s *movimientoService) Cancelar(ctx context.Context, movimientoID uuid.UUID, motivo string, usuarioID uuid.UUID) error {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.CancelarEnTx(tx, movimientoID, motivo, usuarioID)
	})
	if txErr != nil {
		return txErr
	}

	s.auditor.Registrar(ctx, "movimiento", movimientoID, "cancelacion",
		fmt.Sprintf("Cancelación: %s", motivo), &usuarioID, nil, nil)
	return nil
}

func (s *movimientoService) CancelarEnTx(tx *gorm.DB, movimientoID uuid.UUID, motivo string, usuarioID uuid.UUID) error {
	mov, err := s.repo.FindByIDTx(tx, movimientoID)
	if err != nil {
		return errors.New("movimiento no encontrado")
	}
	switch mov.Estado {
	case model.MovimientoCancelado:
		return ErrMovimientoCancelado
	case model.MovimientoAnulado:
		return ErrMovimientoAnulado
	}
	if mov.LiquidacionID != nil {
		return ErrMovimientoLiquidado
	}

	sesion, err := s.cajaRepo.FindSesionByIDTx(tx, mov.SesionCajaID)
	if err != nil {
		return errors.New("sesión de caja no encontrada")
	}
	if sesion.Estado != model.SesionAbierta {
		return ErrSesionCerrada
	}

	now := time.Now()
	mov.Estado = model.MovimientoCancelado
	mov.MotivoCancelacion = &motivo
	mov.CanceladoPorID = &usuarioID
	mov.CanceladoAt = &now
	if err := s.repo.UpdateTx(tx, mov); err != nil {
		return err
	}

	compensacion := &model.Movimiento{
		SesionCajaID:         mov.SesionCajaID,
		Tipo:                 mov.Tipo.Invertido(),
		Categoria:            model.CategoriaAjusteCaja,
		Monto:                mov.Monto,
		Concepto:             fmt.Sprintf("Cancelación: %s", mov.Concepto),
		PacienteID:           mov.PacienteID,
		ProfesionalID:        mov.ProfesionalID,
		MovimientoOriginalID: &mov.ID,
		Estado:               model.MovimientoActivo,
		CreadoPorID:          usuarioID,
	}
	if err := s.repo.CreateTx(tx, compensacion); err != nil {
		return err
	}

	return recalcularTotales(tx, s.cajaRepo, s.repo, sesion)
}

// ── Anular ────────────────────────────────────────────────────────────────────
// Anulación is the audit-only void for movements of an already-closed
// session. No compensating entry, no recompute: the historical totals of the
// closed session stay exactly as they were at close time.

func (s *movimientoService) Anular(ctx context.Context, movimientoID uuid.UUID, motivo string, usuarioID uuid.UUID) error {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		mov, err := s.repo.FindByIDTx(tx, movimientoID)
		if err != nil {
			return errors.New("movimiento no encontrado")
		}
		switch mov.Estado {
		case model.MovimientoCancelado:
			return ErrMovimientoCancelado
		case model.MovimientoAnulado:
			return ErrMovimientoAnulado
		}
		if mov.LiquidacionID != nil {
			return ErrMovimientoLiquidado
		}

		sesion, err := s.cajaRepo.FindSesionByIDTx(tx, mov.SesionCajaID)
		if err != nil {
			return errors.New("sesión de caja no encontrada")
		}
		if sesion.Estado != model.SesionCerrada {
			return ErrSesionNoCerrada
		}

		now := time.Now()
		mov.Estado = model.MovimientoAnulado
		mov.MotivoCancelacion = &motivo
		mov.CanceladoPorID = &usuarioID
		mov.CanceladoAt = &now
		return s.repo.UpdateTx(tx, mov)
	})
	if txErr != nil {
		return txErr
	}

	s.auditor.Registrar(ctx, "movimiento", movimientoID, "anulacion",
		fmt.Sprintf("Anulación: %s", motivo), &usuarioID, nil, nil)
	return nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *movimientoService) Obtener(ctx context.Context, movimientoID uuid.UUID) (*dto.MovimientoResponse, error) {
	mov, err := s.repo.FindByID(ctx, movimientoID)
	if err != nil {
		return nil, errors.New("movimiento no encontrado")
	}
	return movimientoToResponse(mov), nil
}

func (s *movimientoService) Listar(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovimientoResponse, len(movs))
	for i, m := range movs {
		items[i] = *movimientoToResponse(&m)
	}
	return &dto.MovimientoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func parseOptionalUUID(s *string, field string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, fmt.Errorf("%s inválido: %w", field, err)
	}
	return &id, nil
}

func uuidPtrToString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func movimientoToResponse(m *model.Movimiento) *dto.MovimientoResponse {
	return &dto.MovimientoResponse{
		ID:                   m.ID.String(),
		SesionCajaID:         m.SesionCajaID.String(),
		Tipo:                 string(m.Tipo),
		Categoria:            string(m.Categoria),
		Monto:                m.Monto,
		Concepto:             m.Concepto,
		Estado:               string(m.Estado),
		PacienteID:           uuidPtrToString(m.PacienteID),
		ProfesionalID:        uuidPtrToString(m.ProfesionalID),
		SolicitudID:          uuidPtrToString(m.SolicitudID),
		DetalleSolicitudID:   uuidPtrToString(m.DetalleSolicitudID),
		LiquidacionID:        uuidPtrToString(m.LiquidacionID),
		MovimientoOriginalID: uuidPtrToString(m.MovimientoOriginalID),
		MotivoCancelacion:    m.MotivoCancelacion,
		CreatedAt:            m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
