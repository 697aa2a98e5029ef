package repository

import (
	"context"
	"time"

	"clinicaja/internal/dto"
	"clinicaja/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MovimientoRepository interface {
	CreateTx(tx *gorm.DB, m *model.Movimiento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Movimiento, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Movimiento, error)
	UpdateTx(tx *gorm.DB, m *model.Movimiento) error
	// SumPorTipoTx aggregates movement amounts per type for one session.
	// Cancelled movements stay counted: their compensating entries already
	// reverse them, so dropping them here would reverse twice. Only the
	// audit-void (anulado) is excluded.
	SumPorTipoTx(tx *gorm.DB, sesionID uuid.UUID) (ingresos, egresos decimal.Decimal, err error)
	List(ctx context.Context, filter dto.MovimientoFilter) ([]model.Movimiento, int64, error)
	// ListCandidatosComisionTx selects the liquidatable pool: active ingreso
	// pago_servicio movements in range with a solicitud detail reference and
	// no liquidation claim.
	ListCandidatosComisionTx(tx *gorm.DB, profesionalID uuid.UUID, desde, hasta time.Time) ([]model.Movimiento, error)
	// ClaimLiquidacionTx stamps liquidacion_id on the given movements only
	// where still unclaimed, returning the number of rows actually stamped.
	ClaimLiquidacionTx(tx *gorm.DB, ids []uuid.UUID, liquidacionID uuid.UUID) (int64, error)
	// UnclaimLiquidacionTx returns all movements claimed by a liquidation to the pool.
	UnclaimLiquidacionTx(tx *gorm.DB, liquidacionID uuid.UUID) error
	DB() *gorm.DB
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository { return &movimientoRepo{db: db} }

func (r *movimientoRepo) DB() *gorm.DB { return r.db }

func (r *movimientoRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.Movimiento) error {
	return r.conn(tx).Create(m).Error
}

func (r *movimientoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Movimiento, error) {
	var m model.Movimiento
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *movimientoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Movimiento, error) {
	var m model.Movimiento
	err := r.conn(tx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *movimientoRepo) UpdateTx(tx *gorm.DB, m *model.Movimiento) error {
	return r.conn(tx).Save(m).Error
}

func (r *movimientoRepo) SumPorTipoTx(tx *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	type fila struct {
		Tipo  model.TipoMovimiento
		Total decimal.Decimal
	}
	var filas []fila
	err := r.conn(tx).Model(&model.Movimiento{}).
		Select("tipo, COALESCE(SUM(monto), 0) AS total").
		Where("sesion_caja_id = ? AND estado <> ?", sesionID, model.MovimientoAnulado).
		Group("tipo").
		Scan(&filas).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	ingresos, egresos := decimal.Zero, decimal.Zero
	for _, f := range filas {
		switch f.Tipo {
		case model.MovimientoIngreso:
			ingresos = f.Total
		case model.MovimientoEgreso:
			egresos = f.Total
		}
	}
	return ingresos, egresos, nil
}

func (r *movimientoRepo) List(ctx context.Context, filter dto.MovimientoFilter) ([]model.Movimiento, int64, error) {
	var movs []model.Movimiento
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Movimiento{})
	if filter.SesionCajaID != nil {
		q = q.Where("sesion_caja_id = ?", *filter.SesionCajaID)
	}
	if filter.ProfesionalID != nil {
		q = q.Where("profesional_id = ?", *filter.ProfesionalID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&movs).Error
	return movs, total, err
}

func (r *movimientoRepo) ListCandidatosComisionTx(tx *gorm.DB, profesionalID uuid.UUID, desde, hasta time.Time) ([]model.Movimiento, error) {
	var movs []model.Movimiento
	err := r.conn(tx).
		Where("profesional_id = ? AND tipo = ? AND categoria = ? AND estado = ?",
			profesionalID, model.MovimientoIngreso, model.CategoriaPagoServicio, model.MovimientoActivo).
		Where("detalle_solicitud_id IS NOT NULL AND liquidacion_id IS NULL").
		Where("created_at >= ? AND created_at < ?", desde, hasta).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) ClaimLiquidacionTx(tx *gorm.DB, ids []uuid.UUID, liquidacionID uuid.UUID) (int64, error) {
	// Conditional update: a movement concurrently claimed by another
	// liquidation is left untouched and shows up as a missing row count.
	res := r.conn(tx).Model(&model.Movimiento{}).
		Where("id IN ? AND liquidacion_id IS NULL", ids).
		Update("liquidacion_id", liquidacionID)
	return res.RowsAffected, res.Error
}

func (r *movimientoRepo) UnclaimLiquidacionTx(tx *gorm.DB, liquidacionID uuid.UUID) error {
	return r.conn(tx).Model(&model.Movimiento{}).
		Where("liquidacion_id = ?", liquidacionID).
		Update("liquidacion_id", nil).Error
}
