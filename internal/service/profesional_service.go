package service

import (
	"context"
	"errors"

	"clinicaja/internal/dto"
	"clinicaja/internal/model"
	"clinicaja/internal/repository"

	"github.com/google/uuid"
)

type ProfesionalService interface {
	Crear(ctx context.Context, req dto.CrearProfesionalRequest) (*dto.ProfesionalResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProfesionalResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProfesionalResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProfesionalRequest) (*dto.ProfesionalResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type profesionalService struct {
	repo repository.ProfesionalRepository
}

func NewProfesionalService(repo repository.ProfesionalRepository) ProfesionalService {
	return &profesionalService{repo: repo}
}

func (s *profesionalService) Crear(ctx context.Context, req dto.CrearProfesionalRequest) (*dto.ProfesionalResponse, error) {
	p := &model.Profesional{
		Nombre:             req.Nombre,
		Apellido:           req.Apellido,
		Matricula:          req.Matricula,
		Especialidad:       req.Especialidad,
		Email:              req.Email,
		PorcentajeComision: req.PorcentajeComision,
		Activo:             true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return profesionalToResponse(p), nil
}

func (s *profesionalService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProfesionalResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("profesional no encontrado")
	}
	return profesionalToResponse(p), nil
}

func (s *profesionalService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProfesionalResponse, error) {
	profesionales, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProfesionalResponse, len(profesionales))
	for i, p := range profesionales {
		resp[i] = *profesionalToResponse(&p)
	}
	return resp, nil
}

// Actualizar modifies the professional's record. A commission rate change
// only affects future liquidations: already-generated details keep the rate
// that was resolved when they were created.
func (s *profesionalService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProfesionalRequest) (*dto.ProfesionalResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("profesional no encontrado")
	}
	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.Apellido != "" {
		p.Apellido = req.Apellido
	}
	if req.Especialidad != nil {
		p.Especialidad = req.Especialidad
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if req.PorcentajeComision != nil {
		p.PorcentajeComision = *req.PorcentajeComision
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return profesionalToResponse(p), nil
}

func (s *profesionalService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func profesionalToResponse(p *model.Profesional) *dto.ProfesionalResponse {
	return &dto.ProfesionalResponse{
		ID:                 p.ID.String(),
		Nombre:             p.Nombre,
		Apellido:           p.Apellido,
		Matricula:          p.Matricula,
		Especialidad:       p.Especialidad,
		Email:              p.Email,
		PorcentajeComision: p.PorcentajeComision,
		Activo:             p.Activo,
	}
}
