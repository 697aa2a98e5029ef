package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicaja/internal/dto"
	"clinicaja/internal/model"
	"clinicaja/internal/repository"

	"github.com/google/uuid"
)

type SolicitudService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearSolicitudRequest) (*dto.SolicitudResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.SolicitudResponse, error)
	ListarPorPaciente(ctx context.Context, pacienteID uuid.UUID) ([]dto.SolicitudResponse, error)
}

type solicitudService struct {
	repo            repository.SolicitudRepository
	pacienteRepo    repository.PacienteRepository
	profesionalRepo repository.ProfesionalRepository
	servicioRepo    repository.ServicioRepository
}

func NewSolicitudService(
	repo repository.SolicitudRepository,
	pacienteRepo repository.PacienteRepository,
	profesionalRepo repository.ProfesionalRepository,
	servicioRepo repository.ServicioRepository,
) SolicitudService {
	return &solicitudService{
		repo:            repo,
		pacienteRepo:    pacienteRepo,
		profesionalRepo: profesionalRepo,
		servicioRepo:    servicioRepo,
	}
}

// Crear registers the solicitud, snapshotting the catalog price and the
// optional per-line commission override so later catalog edits never change
// what was agreed at request time.
func (s *solicitudService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearSolicitudRequest) (*dto.SolicitudResponse, error) {
	pacienteID, err := uuid.Parse(req.PacienteID)
	if err != nil {
		return nil, fmt.Errorf("paciente_id inválido: %w", err)
	}
	if _, err := s.pacienteRepo.FindByID(ctx, pacienteID); err != nil {
		return nil, errors.New("paciente no encontrado")
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, errors.New("fecha inválida")
	}

	sol := &model.SolicitudServicio{
		PacienteID:  pacienteID,
		Fecha:       fecha,
		CreadaPorID: usuarioID,
	}

	for _, d := range req.Detalles {
		servicioID, err := uuid.Parse(d.ServicioID)
		if err != nil {
			return nil, fmt.Errorf("servicio_id inválido: %w", err)
		}
		profesionalID, err := uuid.Parse(d.ProfesionalID)
		if err != nil {
			return nil, fmt.Errorf("profesional_id inválido: %w", err)
		}
		fechaServicio, err := time.Parse("2006-01-02", d.FechaServicio)
		if err != nil {
			return nil, errors.New("fecha_servicio inválida")
		}

		srv, err := s.servicioRepo.FindByID(ctx, servicioID)
		if err != nil {
			return nil, fmt.Errorf("servicio %s no encontrado", d.ServicioID)
		}
		if !srv.Activo {
			return nil, fmt.Errorf("el servicio %s está inactivo", srv.Nombre)
		}
		prof, err := s.profesionalRepo.FindByID(ctx, profesionalID)
		if err != nil {
			return nil, fmt.Errorf("profesional %s no encontrado", d.ProfesionalID)
		}
		if !prof.Activo {
			return nil, fmt.Errorf("el profesional %s %s está inactivo", prof.Nombre, prof.Apellido)
		}

		sol.Detalles = append(sol.Detalles, model.DetalleSolicitud{
			ServicioID:         servicioID,
			ProfesionalID:      profesionalID,
			Precio:             srv.Precio,
			PorcentajeComision: d.PorcentajeComision,
			FechaServicio:      fechaServicio,
		})
	}

	if err := s.repo.Create(ctx, sol); err != nil {
		return nil, err
	}
	return s.Obtener(ctx, sol.ID)
}

func (s *solicitudService) Obtener(ctx context.Context, id uuid.UUID) (*dto.SolicitudResponse, error) {
	sol, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("solicitud no encontrada")
	}
	return solicitudToResponse(sol), nil
}

func (s *solicitudService) ListarPorPaciente(ctx context.Context, pacienteID uuid.UUID) ([]dto.SolicitudResponse, error) {
	sols, err := s.repo.ListByPaciente(ctx, pacienteID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SolicitudResponse, len(sols))
	for i, sol := range sols {
		resp[i] = *solicitudToResponse(&sol)
	}
	return resp, nil
}

func solicitudToResponse(sol *model.SolicitudServicio) *dto.SolicitudResponse {
	resp := &dto.SolicitudResponse{
		ID:         sol.ID.String(),
		PacienteID: sol.PacienteID.String(),
		Fecha:      sol.Fecha.Format("2006-01-02"),
	}
	if sol.Paciente != nil {
		resp.Paciente = fmt.Sprintf("%s %s", sol.Paciente.Nombre, sol.Paciente.Apellido)
	}
	for _, d := range sol.Detalles {
		item := dto.DetalleSolicitudResponse{
			ID:                 d.ID.String(),
			ServicioID:         d.ServicioID.String(),
			ProfesionalID:      d.ProfesionalID.String(),
			Precio:             d.Precio,
			PorcentajeComision: d.PorcentajeComision,
			FechaServicio:      d.FechaServicio.Format("2006-01-02"),
		}
		if d.Servicio != nil {
			item.Servicio = d.Servicio.Nombre
		}
		if d.Profesional != nil {
			item.Profesional = fmt.Sprintf("%s %s", d.Profesional.Nombre, d.Profesional.Apellido)
		}
		resp.Detalles = append(resp.Detalles, item)
	}
	return resp
}
