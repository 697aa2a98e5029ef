package repository

import (
	"context"

	"clinicaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SolicitudRepository interface {
	Create(ctx context.Context, s *model.SolicitudServicio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SolicitudServicio, error)
	FindDetalleByID(ctx context.Context, id uuid.UUID) (*model.DetalleSolicitud, error)
	ListByPaciente(ctx context.Context, pacienteID uuid.UUID) ([]model.SolicitudServicio, error)
}

type solicitudRepo struct{ db *gorm.DB }

func NewSolicitudRepository(db *gorm.DB) SolicitudRepository { return &solicitudRepo{db: db} }

func (r *solicitudRepo) Create(ctx context.Context, s *model.SolicitudServicio) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *solicitudRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SolicitudServicio, error) {
	var s model.SolicitudServicio
	err := r.db.WithContext(ctx).
		Preload("Detalles.Servicio").
		Preload("Detalles.Profesional").
		Preload("Paciente").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *solicitudRepo) FindDetalleByID(ctx context.Context, id uuid.UUID) (*model.DetalleSolicitud, error) {
	var d model.DetalleSolicitud
	err := r.db.WithContext(ctx).
		Preload("Servicio").
		Preload("Profesional").
		First(&d, "id = ?", id).Error
	return &d, err
}

func (r *solicitudRepo) ListByPaciente(ctx context.Context, pacienteID uuid.UUID) ([]model.SolicitudServicio, error) {
	var sols []model.SolicitudServicio
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Where("paciente_id = ?", pacienteID).
		Order("fecha DESC").
		Find(&sols).Error
	return sols, err
}
