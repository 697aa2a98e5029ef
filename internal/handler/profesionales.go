package handler

import (
	"net/http"

	"clinicaja/internal/apierror"
	"clinicaja/internal/dto"
	"clinicaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfesionalHandler struct{ svc service.ProfesionalService }

func NewProfesionalHandler(svc service.ProfesionalService) *ProfesionalHandler {
	return &ProfesionalHandler{svc: svc}
}

// Crear godoc
// @Summary Registra un profesional con su porcentaje de comision
// @Tags profesionales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearProfesionalRequest true "Profesional"
// @Success 201 {object} dto.ProfesionalResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/profesionales [post]
func (h *ProfesionalHandler) Crear(c *gin.Context) {
	var req dto.CrearProfesionalRequest
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
// @Summary Devuelve un profesional por ID
// @Tags profesionales
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de profesional"
// @Success 200 {object} dto.ProfesionalResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/profesionales/{id} [get]
func (h *ProfesionalHandler) Obtener(c *gin.Context) {
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
// @Summary Lista profesionales
// @Tags profesionales
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ProfesionalResponse
// @Router /v1/profesionales [get]
func (h *ProfesionalHandler) Listar(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), incluirInactivos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualiza un profesional; el cambio de comision solo afecta liquidaciones futuras
// @Tags profesionales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de profesional"
// @Param body body dto.ActualizarProfesionalRequest true "Cambios"
// @Success 200 {object} dto.ProfesionalResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/profesionales/{id} [put]
func (h *ProfesionalHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ActualizarProfesionalRequest
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
// @Summary Desactiva un profesional (borrado logico)
// @Tags profesionales
// @Security BearerAuth
// @Param id path string true "ID de profesional"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/profesionales/{id} [delete]
func (h *ProfesionalHandler) Desactivar(c *gin.Context) {
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
