package service

import (
	"context"
	"errors"

	"clinicaja/internal/dto"
	"clinicaja/internal/model"
	"clinicaja/internal/repository"

	"github.com/google/uuid"
)

type ServicioService interface {
	Crear(ctx context.Context, req dto.CrearServicioRequest) (*dto.ServicioResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ServicioResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.ServicioResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarServicioRequest) (*dto.ServicioResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type servicioService struct {
	repo repository.ServicioRepository
}

func NewServicioService(repo repository.ServicioRepository) ServicioService {
	return &servicioService{repo: repo}
}

func (s *servicioService) Crear(ctx context.Context, req dto.CrearServicioRequest) (*dto.ServicioResponse, error) {
	if req.Precio.IsNegative() {
		return nil, ErrMontoInvalido
	}
	srv := &model.Servicio{
		Codigo:                    req.Codigo,
		Nombre:                    req.Nombre,
		Precio:                    req.Precio,
		PorcentajeComisionDefault: req.PorcentajeComisionDefault,
		Activo:                    true,
	}
	if err := s.repo.Create(ctx, srv); err != nil {
		return nil, err
	}
	return servicioToResponse(srv), nil
}

func (s *servicioService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ServicioResponse, error) {
	srv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("servicio no encontrado")
	}
	return servicioToResponse(srv), nil
}

func (s *servicioService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ServicioResponse, error) {
	servicios, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ServicioResponse, len(servicios))
	for i, srv := range servicios {
		resp[i] = *servicioToResponse(&srv)
	}
	return resp, nil
}

// Actualizar modifies the catalog entry. Price and rate changes only apply to
// solicitudes created afterwards: existing details carry their own snapshots.
func (s *servicioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarServicioRequest) (*dto.ServicioResponse, error) {
	srv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("servicio no encontrado")
	}
	if req.Nombre != "" {
		srv.Nombre = req.Nombre
	}
	if req.Precio != nil {
		if req.Precio.IsNegative() {
			return nil, ErrMontoInvalido
		}
		srv.Precio = *req.Precio
	}
	if req.PorcentajeComisionDefault != nil {
		srv.PorcentajeComisionDefault = *req.PorcentajeComisionDefault
	}
	if err := s.repo.Update(ctx, srv); err != nil {
		return nil, err
	}
	return servicioToResponse(srv), nil
}

func (s *servicioService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func servicioToResponse(srv *model.Servicio) *dto.ServicioResponse {
	return &dto.ServicioResponse{
		ID:                        srv.ID.String(),
		Codigo:                    srv.Codigo,
		Nombre:                    srv.Nombre,
		Precio:                    srv.Precio,
		PorcentajeComisionDefault: srv.PorcentajeComisionDefault,
		Activo:                    srv.Activo,
	}
}
