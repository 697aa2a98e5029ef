package handler

import (
	"net/http"

	"clinicaja/internal/apierror"
	"clinicaja/internal/dto"
	"clinicaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PacienteHandler struct{ svc service.PacienteService }

func NewPacienteHandler(svc service.PacienteService) *PacienteHandler {
	return &PacienteHandler{svc: svc}
}

// Crear godoc
// @Summary Registra un paciente
// @Tags pacientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearPacienteRequest true "Paciente"
// @Success 201 {object} dto.PacienteResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/pacientes [post]
func (h *PacienteHandler) Crear(c *gin.Context) {
	var req dto.CrearPacienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary Devuelve un paciente por ID
// @Tags pacientes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de paciente"
// @Success 200 {object} dto.PacienteResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/pacientes/{id} [get]
func (h *PacienteHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista pacientes
// @Tags pacientes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PacienteResponse
// @Router /v1/pacientes [get]
func (h *PacienteHandler) Listar(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), incluirInactivos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualiza los datos de un paciente
// @Tags pacientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de paciente"
// @Param body body dto.ActualizarPacienteRequest true "Cambios"
// @Success 200 {object} dto.PacienteResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/pacientes/{id} [put]
func (h *PacienteHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ActualizarPacienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar godoc
// @Summary Desactiva un paciente (borrado logico)
// @Tags pacientes
// @Security BearerAuth
// @Param id path string true "ID de paciente"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/pacientes/{id} [delete]
func (h *PacienteHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
