package service

import (
	"context"
	"encoding/json"

	"clinicaja/internal/dto"
	"clinicaja/internal/repository"
	"clinicaja/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Auditor enqueues audit-trail events after the financial transaction
// committed. It is strictly best-effort: enqueue failures are logged and
// never propagated. A nil Auditor (unit test mode) is a no-op.
type Auditor struct {
	dispatcher *worker.Dispatcher
}

func NewAuditor(dispatcher *worker.Dispatcher) *Auditor {
	return &Auditor{dispatcher: dispatcher}
}

func (a *Auditor) Registrar(ctx context.Context, entidad string, entidadID uuid.UUID, evento, descripcion string, usuarioID *uuid.UUID, antes, despues interface{}) {
	if a == nil || a.dispatcher == nil {
		return
	}

	payload := worker.AuditoriaJobPayload{
		Entidad:     entidad,
		EntidadID:   entidadID.String(),
		Evento:      evento,
		Descripcion: descripcion,
	}
	if usuarioID != nil {
		uid := usuarioID.String()
		payload.UsuarioID = &uid
	}
	payload.ValoresAnteriores = marshalSnapshot(antes)
	payload.ValoresNuevos = marshalSnapshot(despues)

	if err := a.dispatcher.EnqueueAuditoria(ctx, payload); err != nil {
		log.Warn().Err(err).Str("entidad", entidad).Str("evento", evento).Msg("auditoria: enqueue failed")
	}
}

func marshalSnapshot(v interface{}) *string {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

// ─── AuditoriaService ────────────────────────────────────────────────────────

type AuditoriaService interface {
	Listar(ctx context.Context, entidad string, page, limit int) ([]dto.AuditoriaResponse, int64, error)
}

type auditoriaService struct {
	repo repository.AuditoriaRepository
}

func NewAuditoriaService(repo repository.AuditoriaRepository) AuditoriaService {
	return &auditoriaService{repo: repo}
}

func (s *auditoriaService) Listar(ctx context.Context, entidad string, page, limit int) ([]dto.AuditoriaResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	entradas, total, err := s.repo.List(ctx, entidad, page, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.AuditoriaResponse, len(entradas))
	for i, e := range entradas {
		resp[i] = dto.AuditoriaResponse{
			ID:          e.ID.String(),
			Entidad:     e.Entidad,
			EntidadID:   e.EntidadID.String(),
			Evento:      e.Evento,
			Descripcion: e.Descripcion,
			CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if e.UsuarioID != nil {
			uid := e.UsuarioID.String()
			resp[i].UsuarioID = &uid
		}
	}
	return resp, total, nil
}
