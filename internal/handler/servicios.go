package handler

import (
	"net/http"

	"clinicaja/internal/apierror"
	"clinicaja/internal/dto"
	"clinicaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ServicioHandler struct{ svc service.ServicioService }

func NewServicioHandler(svc service.ServicioService) *ServicioHandler {
	return &ServicioHandler{svc: svc}
}

// Crear godoc
// @Summary Alta de un servicio en el catalogo
// @Tags servicios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearServicioRequest true "Servicio"
// @Success 201 {object} dto.ServicioResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/servicios [post]
func (h *ServicioHandler) Crear(c *gin.Context) {
	var req dto.CrearServicioRequest
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
// @Summary Devuelve un servicio por ID
// @Tags servicios
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de servicio"
// @Success 200 {object} dto.ServicioResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/servicios/{id} [get]
func (h *ServicioHandler) Obtener(c *gin.Context) {
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
// @Summary Lista el catalogo de servicios
// @Tags servicios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ServicioResponse
// @Router /v1/servicios [get]
func (h *ServicioHandler) Listar(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), incluirInactivos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualiza un servicio; los detalles ya creados conservan su snapshot de precio
// @Tags servicios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de servicio"
// @Param body body dto.ActualizarServicioRequest true "Cambios"
// @Success 200 {object} dto.ServicioResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/servicios/{id} [put]
func (h *ServicioHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ActualizarServicioRequest
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
// @Summary Desactiva un servicio del catalogo (borrado logico)
// @Tags servicios
// @Security BearerAuth
// @Param id path string true "ID de servicio"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/servicios/{id} [delete]
func (h *ServicioHandler) Desactivar(c *gin.Context) {
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
