package repository

import (
	"context"

	"clinicaja/internal/model"

	"gorm.io/gorm"
)

type AuditoriaRepository interface {
	Create(ctx context.Context, a *model.Auditoria) error
	List(ctx context.Context, entidad string, page, limit int) ([]model.Auditoria, int64, error)
}

type auditoriaRepo struct{ db *gorm.DB }

func NewAuditoriaRepository(db *gorm.DB) AuditoriaRepository { return &auditoriaRepo{db: db} }

func (r *auditoriaRepo) Create(ctx context.Context, a *model.Auditoria) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *auditoriaRepo) List(ctx context.Context, entidad string, page, limit int) ([]model.Auditoria, int64, error) {
	var entradas []model.Auditoria
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Auditoria{})
	if entidad != "" {
		q = q.Where("entidad = ?", entidad)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&entradas).Error
	return entradas, total, err
}
