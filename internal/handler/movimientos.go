package handler

import (
	"errors"
	"net/http"
	"strconv"

	"clinicaja/internal/apierror"
	"clinicaja/internal/dto"
	"clinicaja/internal/middleware"
	"clinicaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MovimientoHandler struct{ svc service.MovimientoService }

func NewMovimientoHandler(svc service.MovimientoService) *MovimientoHandler {
	return &MovimientoHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra un ingreso o egreso contra la sesion abierta
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarMovimientoRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/movimientos [post]
func (h *MovimientoHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Registrar(c.Request.Context(), usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cancelar godoc
// @Summary Cancela un movimiento de una sesion abierta creando la contrapartida
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de movimiento"
// @Param body body dto.CancelarMovimientoRequest true "Motivo"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/movimientos/{id}/cancelar [post]
func (h *MovimientoHandler) Cancelar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CancelarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.Cancelar(c.Request.Context(), id, req.Motivo, usuarioID); err != nil {
		if errors.Is(err, service.ErrMovimientoLiquidado) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Anular godoc
// @Summary Anula un movimiento de una sesion cerrada (solo auditoria)
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de movimiento"
// @Param body body dto.AnularMovimientoRequest true "Motivo"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/movimientos/{id}/anular [post]
func (h *MovimientoHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AnularMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.Anular(c.Request.Context(), id, req.Motivo, usuarioID); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Obtener godoc
// @Summary Devuelve un movimiento por ID
// @Tags movimientos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de movimiento"
// @Success 200 {object} dto.MovimientoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/movimientos/{id} [get]
func (h *MovimientoHandler) Obtener(c *gin.Context) {
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
// @Summary Lista movimientos con filtros por sesion, profesional, estado y categoria
// @Tags movimientos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MovimientoListResponse
// @Router /v1/movimientos [get]
func (h *MovimientoHandler) Listar(c *gin.Context) {
	filter := dto.MovimientoFilter{
		Estado:    c.Query("estado"),
		Categoria: c.Query("categoria"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	if raw := c.Query("sesion_caja_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("sesion_caja_id inválido"))
			return
		}
		filter.SesionCajaID = &id
	}
	if raw := c.Query("profesional_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("profesional_id inválido"))
			return
		}
		filter.ProfesionalID = &id
	}

	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
