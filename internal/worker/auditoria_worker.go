package worker

// auditoria_worker.go
// Persists audit-trail entries from QueueAuditoria.
// Audit writes are best-effort: a failure here never affects the financial
// operation that produced the event. After 3 failed attempts the job lands
// in the DLQ for manual inspection.

import (
	"context"
	"encoding/json"

	"clinicaja/internal/model"
	"clinicaja/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AuditoriaJobPayload is the job envelope sent to QueueAuditoria.
type AuditoriaJobPayload struct {
	Entidad           string  `json:"entidad"`
	EntidadID         string  `json:"entidad_id"`
	Evento            string  `json:"evento"`
	Descripcion       string  `json:"descripcion"`
	UsuarioID         *string `json:"usuario_id,omitempty"`
	ValoresAnteriores *string `json:"valores_anteriores,omitempty"`
	ValoresNuevos     *string `json:"valores_nuevos,omitempty"`
}

type AuditoriaWorker struct {
	repo repository.AuditoriaRepository
	rdb  *redis.Client
}

func NewAuditoriaWorker(repo repository.AuditoriaRepository, rdb *redis.Client) *AuditoriaWorker {
	return &AuditoriaWorker{repo: repo, rdb: rdb}
}

// Process persists one audit entry, retrying transient DB failures.
func (w *AuditoriaWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload AuditoriaJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("auditoria_worker: invalid payload")
		return
	}

	entidadID, err := uuid.Parse(payload.EntidadID)
	if err != nil {
		log.Error().Str("entidad_id", payload.EntidadID).Msg("auditoria_worker: invalid entidad_id")
		return
	}

	entrada := &model.Auditoria{
		Entidad:           payload.Entidad,
		EntidadID:         entidadID,
		Evento:            payload.Evento,
		Descripcion:       payload.Descripcion,
		ValoresAnteriores: payload.ValoresAnteriores,
		ValoresNuevos:     payload.ValoresNuevos,
	}
	if payload.UsuarioID != nil {
		if uid, err := uuid.Parse(*payload.UsuarioID); err == nil {
			entrada.UsuarioID = &uid
		}
	}

	err = withRetry(ctx, 3, func(attempt int) error {
		if err := w.repo.Create(ctx, entrada); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("entidad", payload.Entidad).
				Msg("auditoria_worker: persist attempt failed, retrying")
			return err
		}
		return nil
	})
	if err != nil {
		SendToDLQ(ctx, w.rdb, QueueAuditoria, "auditoria", raw, err.Error(), 3)
		return
	}
	log.Debug().
		Str("entidad", payload.Entidad).
		Str("evento", payload.Evento).
		Msg("auditoria_worker: entry persisted")
}
