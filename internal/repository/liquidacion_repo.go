package repository

import (
	"context"

	"clinicaja/internal/dto"
	"clinicaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LiquidacionRepository interface {
	// CreateTx inserts the liquidation together with its details.
	CreateTx(tx *gorm.DB, l *model.LiquidacionComision) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LiquidacionComision, error)
	// FindByIDTx loads the liquidation under FOR UPDATE so that estado
	// transitions serialize on the row.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.LiquidacionComision, error)
	UpdateTx(tx *gorm.DB, l *model.LiquidacionComision) error
	List(ctx context.Context, filter dto.LiquidacionFilter) ([]model.LiquidacionComision, int64, error)
	DB() *gorm.DB
}

type liquidacionRepo struct{ db *gorm.DB }

func NewLiquidacionRepository(db *gorm.DB) LiquidacionRepository { return &liquidacionRepo{db: db} }

func (r *liquidacionRepo) DB() *gorm.DB { return r.db }

func (r *liquidacionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *liquidacionRepo) CreateTx(tx *gorm.DB, l *model.LiquidacionComision) error {
	return r.conn(tx).Create(l).Error
}

func (r *liquidacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.LiquidacionComision, error) {
	var l model.LiquidacionComision
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Preload("Profesional").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *liquidacionRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.LiquidacionComision, error) {
	var l model.LiquidacionComision
	err := r.conn(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Detalles").
		Preload("Profesional").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *liquidacionRepo) UpdateTx(tx *gorm.DB, l *model.LiquidacionComision) error {
	// Omit associations: details are immutable once created.
	return r.conn(tx).Omit("Detalles", "Profesional").Save(l).Error
}

func (r *liquidacionRepo) List(ctx context.Context, filter dto.LiquidacionFilter) ([]model.LiquidacionComision, int64, error) {
	var liqs []model.LiquidacionComision
	var total int64

	q := r.db.WithContext(ctx).Model(&model.LiquidacionComision{})
	if filter.ProfesionalID != nil {
		q = q.Where("profesional_id = ?", *filter.ProfesionalID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Profesional").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&liqs).Error
	return liqs, total, err
}
