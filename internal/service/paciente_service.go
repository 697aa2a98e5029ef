package service

import (
	"context"
	"errors"
	"time"

	"clinicaja/internal/dto"
	"clinicaja/internal/model"
	"clinicaja/internal/repository"

	"github.com/google/uuid"
)

type PacienteService interface {
	Crear(ctx context.Context, req dto.CrearPacienteRequest) (*dto.PacienteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PacienteResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.PacienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPacienteRequest) (*dto.PacienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type pacienteService struct {
	repo repository.PacienteRepository
}

func NewPacienteService(repo repository.PacienteRepository) PacienteService {
	return &pacienteService{repo: repo}
}

func (s *pacienteService) Crear(ctx context.Context, req dto.CrearPacienteRequest) (*dto.PacienteResponse, error) {
	p := &model.Paciente{
		Documento: req.Documento,
		Nombre:    req.Nombre,
		Apellido:  req.Apellido,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		Activo:    true,
	}
	if req.FechaNacimiento != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaNacimiento)
		if err != nil {
			return nil, errors.New("fecha_nacimiento inválida")
		}
		p.FechaNacimiento = &fecha
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return pacienteToResponse(p), nil
}

func (s *pacienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PacienteResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("paciente no encontrado")
	}
	return pacienteToResponse(p), nil
}

func (s *pacienteService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.PacienteResponse, error) {
	pacientes, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PacienteResponse, len(pacientes))
	for i, p := range pacientes {
		resp[i] = *pacienteToResponse(&p)
	}
	return resp, nil
}

func (s *pacienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPacienteRequest) (*dto.PacienteResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("paciente no encontrado")
	}
	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.Apellido != "" {
		p.Apellido = req.Apellido
	}
	if req.Telefono != nil {
		p.Telefono = req.Telefono
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if req.Direccion != nil {
		p.Direccion = req.Direccion
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return pacienteToResponse(p), nil
}

func (s *pacienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func pacienteToResponse(p *model.Paciente) *dto.PacienteResponse {
	resp := &dto.PacienteResponse{
		ID:        p.ID.String(),
		Documento: p.Documento,
		Nombre:    p.Nombre,
		Apellido:  p.Apellido,
		Telefono:  p.Telefono,
		Email:     p.Email,
		Direccion: p.Direccion,
		Activo:    p.Activo,
	}
	if p.FechaNacimiento != nil {
		f := p.FechaNacimiento.Format("2006-01-02")
		resp.FechaNacimiento = &f
	}
	return resp
}
