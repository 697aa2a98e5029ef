package repository

import (
	"context"

	"clinicaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PacienteRepository interface {
	Create(ctx context.Context, p *model.Paciente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Paciente, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Paciente, error)
	Update(ctx context.Context, p *model.Paciente) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type pacienteRepo struct{ db *gorm.DB }

func NewPacienteRepository(db *gorm.DB) PacienteRepository { return &pacienteRepo{db: db} }

func (r *pacienteRepo) Create(ctx context.Context, p *model.Paciente) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pacienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Paciente, error) {
	var p model.Paciente
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pacienteRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Paciente, error) {
	var pacientes []model.Paciente
	q := r.db.WithContext(ctx).Order("apellido ASC, nombre ASC")
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Find(&pacientes).Error
	return pacientes, err
}

func (r *pacienteRepo) Update(ctx context.Context, p *model.Paciente) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pacienteRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Paciente{}).Where("id = ?", id).Update("activo", false).Error
}
