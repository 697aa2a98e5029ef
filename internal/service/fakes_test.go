package service

import (
	"context"
	"errors"
	"time"

	"clinicaja/internal/dto"
	"clinicaja/internal/model"
	"clinicaja/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories. DB() returns nil so runTx executes the callback
// without a real transaction.

// ── fakeCajaRepo ──────────────────────────────────────────────────────────────

type fakeCajaRepo struct {
	sesiones map[uuid.UUID]*model.SesionCaja
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{sesiones: make(map[uuid.UUID]*model.SesionCaja)}
}

func (r *fakeCajaRepo) DB() *gorm.DB { return nil }

func (r *fakeCajaRepo) CreateSesion(_ context.Context, s *model.SesionCaja) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) FindSesionAbiertaPorUsuario(_ context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.UsuarioID == usuarioID && s.Estado == model.SesionAbierta {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *fakeCajaRepo) FindSesionByIDTx(_ *gorm.DB, id uuid.UUID) (*model.SesionCaja, error) {
	return r.FindSesionByID(context.Background(), id)
}

func (r *fakeCajaRepo) UpdateSesionTx(_ *gorm.DB, s *model.SesionCaja) error {
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) ListSesiones(_ context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	all := make([]model.SesionCaja, 0, len(r.sesiones))
	for _, s := range r.sesiones {
		all = append(all, *s)
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeCajaRepo) ListDescuadres(_ context.Context, umbral decimal.Decimal) ([]model.SesionCaja, error) {
	var out []model.SesionCaja
	for _, s := range r.sesiones {
		if s.Estado == model.SesionCerrada && s.Descuadre != nil && s.Descuadre.Abs().GreaterThan(umbral) {
			out = append(out, *s)
		}
	}
	return out, nil
}

var _ repository.CajaRepository = (*fakeCajaRepo)(nil)

// ── fakeMovimientoRepo ────────────────────────────────────────────────────────

type fakeMovimientoRepo struct {
	movs []*model.Movimiento
	// beforeClaim runs at the top of ClaimLiquidacionTx; tests use it to
	// simulate a concurrent liquidation winning part of the pool.
	beforeClaim func()
}

func newFakeMovimientoRepo() *fakeMovimientoRepo { return &fakeMovimientoRepo{} }

func (r *fakeMovimientoRepo) DB() *gorm.DB { return nil }

func (r *fakeMovimientoRepo) CreateTx(_ *gorm.DB, m *model.Movimiento) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.movs = append(r.movs, m)
	return nil
}

func (r *fakeMovimientoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Movimiento, error) {
	for _, m := range r.movs {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeMovimientoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Movimiento, error) {
	return r.FindByID(context.Background(), id)
}

func (r *fakeMovimientoRepo) UpdateTx(_ *gorm.DB, m *model.Movimiento) error {
	for i, existing := range r.movs {
		if existing.ID == m.ID {
			r.movs[i] = m
			return nil
		}
	}
	return errors.New("not found")
}

func (r *fakeMovimientoRepo) SumPorTipoTx(_ *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	ingresos, egresos := decimal.Zero, decimal.Zero
	for _, m := range r.movs {
		if m.SesionCajaID != sesionID || m.Estado == model.MovimientoAnulado {
			continue
		}
		if m.Tipo == model.MovimientoIngreso {
			ingresos = ingresos.Add(m.Monto)
		} else {
			egresos = egresos.Add(m.Monto)
		}
	}
	return ingresos, egresos, nil
}

func (r *fakeMovimientoRepo) List(_ context.Context, filter dto.MovimientoFilter) ([]model.Movimiento, int64, error) {
	var out []model.Movimiento
	for _, m := range r.movs {
		if filter.SesionCajaID != nil && m.SesionCajaID != *filter.SesionCajaID {
			continue
		}
		if filter.ProfesionalID != nil && (m.ProfesionalID == nil || *m.ProfesionalID != *filter.ProfesionalID) {
			continue
		}
		if filter.Estado != "" && string(m.Estado) != filter.Estado {
			continue
		}
		if filter.Categoria != "" && string(m.Categoria) != filter.Categoria {
			continue
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMovimientoRepo) ListCandidatosComisionTx(_ *gorm.DB, profesionalID uuid.UUID, desde, hasta time.Time) ([]model.Movimiento, error) {
	var out []model.Movimiento
	for _, m := range r.movs {
		if m.ProfesionalID == nil || *m.ProfesionalID != profesionalID {
			continue
		}
		if m.Tipo != model.MovimientoIngreso || m.Categoria != model.CategoriaPagoServicio || m.Estado != model.MovimientoActivo {
			continue
		}
		if m.DetalleSolicitudID == nil || m.LiquidacionID != nil {
			continue
		}
		if m.CreatedAt.Before(desde) || !m.CreatedAt.Before(hasta) {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMovimientoRepo) ClaimLiquidacionTx(_ *gorm.DB, ids []uuid.UUID, liquidacionID uuid.UUID) (int64, error) {
	if r.beforeClaim != nil {
		r.beforeClaim()
	}
	var afectados int64
	for _, id := range ids {
		for _, m := range r.movs {
			if m.ID == id && m.LiquidacionID == nil {
				liq := liquidacionID
				m.LiquidacionID = &liq
				afectados++
			}
		}
	}
	return afectados, nil
}

func (r *fakeMovimientoRepo) UnclaimLiquidacionTx(_ *gorm.DB, liquidacionID uuid.UUID) error {
	for _, m := range r.movs {
		if m.LiquidacionID != nil && *m.LiquidacionID == liquidacionID {
			m.LiquidacionID = nil
		}
	}
	return nil
}

var _ repository.MovimientoRepository = (*fakeMovimientoRepo)(nil)

// ── fakeLiquidacionRepo ───────────────────────────────────────────────────────

type fakeLiquidacionRepo struct {
	liqs          map[uuid.UUID]*model.LiquidacionComision
	profesionales map[uuid.UUID]*model.Profesional
	// beforeFindTx runs at the top of FindByIDTx; tests use it to simulate a
	// concurrent transition committing just before the row lock is acquired.
	beforeFindTx func()
}

func newFakeLiquidacionRepo() *fakeLiquidacionRepo {
	return &fakeLiquidacionRepo{
		liqs:          make(map[uuid.UUID]*model.LiquidacionComision),
		profesionales: make(map[uuid.UUID]*model.Profesional),
	}
}

func (r *fakeLiquidacionRepo) DB() *gorm.DB { return nil }

func (r *fakeLiquidacionRepo) CreateTx(_ *gorm.DB, l *model.LiquidacionComision) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	for i := range l.Detalles {
		if l.Detalles[i].ID == uuid.Nil {
			l.Detalles[i].ID = uuid.New()
		}
		l.Detalles[i].LiquidacionID = l.ID
	}
	r.liqs[l.ID] = l
	return nil
}

func (r *fakeLiquidacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.LiquidacionComision, error) {
	l, ok := r.liqs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	l.Profesional = r.profesionales[l.ProfesionalID]
	return l, nil
}

func (r *fakeLiquidacionRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.LiquidacionComision, error) {
	if r.beforeFindTx != nil {
		r.beforeFindTx()
	}
	return r.FindByID(context.Background(), id)
}

func (r *fakeLiquidacionRepo) UpdateTx(_ *gorm.DB, l *model.LiquidacionComision) error {
	r.liqs[l.ID] = l
	return nil
}

func (r *fakeLiquidacionRepo) List(_ context.Context, filter dto.LiquidacionFilter) ([]model.LiquidacionComision, int64, error) {
	var out []model.LiquidacionComision
	for _, l := range r.liqs {
		if filter.ProfesionalID != nil && l.ProfesionalID != *filter.ProfesionalID {
			continue
		}
		if filter.Estado != "" && string(l.Estado) != filter.Estado {
			continue
		}
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

var _ repository.LiquidacionRepository = (*fakeLiquidacionRepo)(nil)

// ── fakeSolicitudRepo ─────────────────────────────────────────────────────────

type fakeSolicitudRepo struct {
	solicitudes map[uuid.UUID]*model.SolicitudServicio
	detalles    map[uuid.UUID]*model.DetalleSolicitud
}

func newFakeSolicitudRepo() *fakeSolicitudRepo {
	return &fakeSolicitudRepo{
		solicitudes: make(map[uuid.UUID]*model.SolicitudServicio),
		detalles:    make(map[uuid.UUID]*model.DetalleSolicitud),
	}
}

func (r *fakeSolicitudRepo) Create(_ context.Context, s *model.SolicitudServicio) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Detalles {
		if s.Detalles[i].ID == uuid.Nil {
			s.Detalles[i].ID = uuid.New()
		}
		s.Detalles[i].SolicitudID = s.ID
		r.detalles[s.Detalles[i].ID] = &s.Detalles[i]
	}
	r.solicitudes[s.ID] = s
	return nil
}

func (r *fakeSolicitudRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SolicitudServicio, error) {
	s, ok := r.solicitudes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *fakeSolicitudRepo) FindDetalleByID(_ context.Context, id uuid.UUID) (*model.DetalleSolicitud, error) {
	d, ok := r.detalles[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return d, nil
}

func (r *fakeSolicitudRepo) ListByPaciente(_ context.Context, pacienteID uuid.UUID) ([]model.SolicitudServicio, error) {
	var out []model.SolicitudServicio
	for _, s := range r.solicitudes {
		if s.PacienteID == pacienteID {
			out = append(out, *s)
		}
	}
	return out, nil
}

var _ repository.SolicitudRepository = (*fakeSolicitudRepo)(nil)

// ── fakeProfesionalRepo ───────────────────────────────────────────────────────

type fakeProfesionalRepo struct {
	profesionales map[uuid.UUID]*model.Profesional
}

func newFakeProfesionalRepo() *fakeProfesionalRepo {
	return &fakeProfesionalRepo{profesionales: make(map[uuid.UUID]*model.Profesional)}
}

func (r *fakeProfesionalRepo) Create(_ context.Context, p *model.Profesional) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.profesionales[p.ID] = p
	return nil
}

func (r *fakeProfesionalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Profesional, error) {
	p, ok := r.profesionales[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *fakeProfesionalRepo) List(_ context.Context, incluirInactivos bool) ([]model.Profesional, error) {
	var out []model.Profesional
	for _, p := range r.profesionales {
		if !incluirInactivos && !p.Activo {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProfesionalRepo) Update(_ context.Context, p *model.Profesional) error {
	r.profesionales[p.ID] = p
	return nil
}

func (r *fakeProfesionalRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.profesionales[id]; ok {
		p.Activo = false
	}
	return nil
}

var _ repository.ProfesionalRepository = (*fakeProfesionalRepo)(nil)
