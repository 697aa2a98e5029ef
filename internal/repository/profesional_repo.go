package repository

import (
	"context"

	"clinicaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfesionalRepository interface {
	Create(ctx context.Context, p *model.Profesional) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profesional, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Profesional, error)
	Update(ctx context.Context, p *model.Profesional) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type profesionalRepo struct{ db *gorm.DB }

func NewProfesionalRepository(db *gorm.DB) ProfesionalRepository { return &profesionalRepo{db: db} }

func (r *profesionalRepo) Create(ctx context.Context, p *model.Profesional) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *profesionalRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Profesional, error) {
	var p model.Profesional
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *profesionalRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Profesional, error) {
	var profesionales []model.Profesional
	q := r.db.WithContext(ctx).Order("apellido ASC, nombre ASC")
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Find(&profesionales).Error
	return profesionales, err
}

func (r *profesionalRepo) Update(ctx context.Context, p *model.Profesional) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *profesionalRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Profesional{}).Where("id = ?", id).Update("activo", false).Error
}
